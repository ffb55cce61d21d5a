package state

// Theme is the cosmetic display theme persisted alongside the event
type Theme string

const (
	ThemeCool Theme = "cool"
	ThemeWarm Theme = "warm"

	DefaultTheme = ThemeCool
)

// ParseTheme returns the theme named s, or DefaultTheme for anything else
func ParseTheme(s string) Theme {
	switch Theme(s) {
	case ThemeCool, ThemeWarm:
		return Theme(s)
	default:
		return DefaultTheme
	}
}

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeCool || t == ThemeWarm
}

// String returns the theme name
func (t Theme) String() string {
	return string(t)
}
