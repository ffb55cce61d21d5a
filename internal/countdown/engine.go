package countdown

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMissingDate is returned when no date was supplied
	ErrMissingDate = errors.New("date is required")
	// ErrInvalidDate is returned when the date is not a real YYYY-MM-DD day
	ErrInvalidDate = errors.New("invalid date")
)

// Result is the outcome of one calculation. It is a plain value: callers own it
// and a newer calculation replaces it rather than updating it.
type Result struct {
	Title string `json:"title"`
	Date  Day    `json:"date"`

	DiffDays  int    `json:"diffDays"`
	MainText  string `json:"mainText"`
	DDay      string `json:"dday"`
	TitleText string `json:"titleText"`
	DateText  string `json:"dateText"`
	TodayText string `json:"todayText"`
	CopyText  string `json:"copyText"`
}

// IsFuture reports whether the event is still ahead
func (r *Result) IsFuture() bool {
	return r.DiffDays > 0
}

// IsToday reports whether the event is today
func (r *Result) IsToday() bool {
	return r.DiffDays == 0
}

// Options configures an Engine. Zero values select time.Local, the Japanese
// template set and time.Now.
type Options struct {
	Location  *time.Location
	Templates *Templates
	Now       func() time.Time
}

// Engine turns a title and raw date text into a Result
type Engine struct {
	loc       *time.Location
	templates Templates
	now       func() time.Time
}

// NewEngine creates an Engine from opts
func NewEngine(opts Options) *Engine {
	e := &Engine{
		loc:       opts.Location,
		templates: Japanese,
		now:       opts.Now,
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if opts.Templates != nil {
		e.templates = *opts.Templates
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Templates returns the template set the engine formats with
func (e *Engine) Templates() Templates {
	return e.templates
}

// Location returns the location "today" is evaluated in
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Now returns the current time from the engine's clock
func (e *Engine) Now() time.Time {
	return e.now()
}

// Today returns the current calendar day
func (e *Engine) Today() Day {
	return Today(e.now(), e.loc)
}

// TodayText returns today's date label
func (e *Engine) TodayText() string {
	return e.templates.DateText(e.Today())
}

// Calculate computes the countdown for title and rawDate.
// The title is trimmed; rawDate must be YYYY-MM-DD. Returns ErrMissingDate for
// an empty date and an error wrapping ErrInvalidDate for anything unparseable.
func (e *Engine) Calculate(title, rawDate string) (*Result, error) {
	rawDate = strings.TrimSpace(rawDate)
	if rawDate == "" {
		return nil, ErrMissingDate
	}

	target, ok := ParseDay(rawDate)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, rawDate)
	}

	return e.CalculateDay(title, target), nil
}

// CalculateDay computes the countdown for an already validated day
func (e *Engine) CalculateDay(title string, target Day) *Result {
	title = strings.TrimSpace(title)
	today := e.Today()
	diff := DiffDays(today, target)
	dateText := e.templates.DateText(target)

	return &Result{
		Title:     title,
		Date:      target,
		DiffDays:  diff,
		MainText:  e.templates.MainText(diff),
		DDay:      DDay(diff),
		TitleText: title,
		DateText:  dateText,
		TodayText: e.templates.DateText(today),
		CopyText:  e.templates.CopyText(title, diff, dateText),
	}
}
