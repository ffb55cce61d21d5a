package state

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
)

// Query parameter names
const (
	ParamTitle = "title"
	ParamDate  = "date"
	ParamTheme = "theme"
)

// State is the user-entered triple carried in the query string.
// Date is kept as raw text; validation happens when the countdown is calculated.
type State struct {
	Title string `url:"title,omitempty"`
	Date  string `url:"date,omitempty"`
	Theme Theme  `url:"theme,omitempty"`
}

// Default returns the state used when nothing is restored
func Default() State {
	return State{Theme: DefaultTheme}
}

// Normalize trims the title and date and replaces an unknown theme with the default
func (s State) Normalize() State {
	return State{
		Title: strings.TrimSpace(s.Title),
		Date:  strings.TrimSpace(s.Date),
		Theme: ParseTheme(string(s.Theme)),
	}
}

// Values returns the state as query values, omitting empty fields and unknown themes
func (s State) Values() url.Values {
	if !s.Theme.Valid() {
		s.Theme = ""
	}
	v, err := query.Values(s)
	if err != nil {
		// State has only string fields; query.Values cannot fail on it
		return url.Values{}
	}
	return v
}

// Encode returns the state as a query string without the leading "?"
func Encode(s State) string {
	return s.Values().Encode()
}

// Decode restores a state from a raw query string (with or without a leading "?").
// Absent fields take their defaults and an unknown theme becomes ThemeCool.
// If rawQuery is malformed the pairs that did parse are still used, the rest take
// their defaults, and the error is returned alongside the usable state.
func Decode(rawQuery string) (State, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	st := FromValues(values)
	if err != nil {
		return st, fmt.Errorf("parsing query: %w", err)
	}
	return st, nil
}

// FromValues restores a state from already parsed query values
func FromValues(values url.Values) State {
	return State{
		Title: values.Get(ParamTitle),
		Date:  values.Get(ParamDate),
		Theme: ParseTheme(values.Get(ParamTheme)),
	}
}

// DecodeURL restores a state from a full URL, a path with a query, or a bare query string
func DecodeURL(raw string) (State, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return Decode(raw[i+1:])
	}
	if strings.Contains(raw, "://") || strings.HasPrefix(raw, "/") {
		return Default(), nil
	}
	return Decode(raw)
}

// Apply returns a copy of u whose query carries s. Title, date and theme are set
// or removed; any other parameters on u are preserved. u itself is not modified.
func Apply(u *url.URL, s State) *url.URL {
	out := *u
	if u.User != nil {
		user := *u.User
		out.User = &user
	}

	params, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		params = url.Values{}
	}

	params.Del(ParamTitle)
	params.Del(ParamDate)
	params.Del(ParamTheme)
	for key, vals := range s.Values() {
		params[key] = vals
	}

	out.RawQuery = params.Encode()
	out.ForceQuery = false
	return &out
}
