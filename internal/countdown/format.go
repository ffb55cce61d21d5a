package countdown

import (
	"errors"
	"fmt"
	"sort"
)

// DateStyle selects how a Day is rendered as a label
type DateStyle string

const (
	// DateStyleEnglish renders "2025/1/11 Sat."
	DateStyleEnglish DateStyle = "en"
	// DateStyleJapanese renders "2025年1月11日（土）"
	DateStyleJapanese DateStyle = "ja"
)

var (
	weekdaysEnglish  = [...]string{"Sun.", "Mon.", "Tue.", "Wed.", "Thu.", "Fri.", "Sat."}
	weekdaysJapanese = [...]string{"日", "月", "火", "水", "木", "金", "土"}
)

// FormatDay renders d as a date label with its weekday
func FormatDay(d Day, style DateStyle) string {
	if style == DateStyleJapanese {
		return fmt.Sprintf("%d年%d月%d日（%s）", d.Year, int(d.Month), d.Day, weekdaysJapanese[d.Weekday()])
	}
	return fmt.Sprintf("%d/%d/%d %s", d.Year, int(d.Month), d.Day, weekdaysEnglish[d.Weekday()])
}

// DDay renders diffDays in D-Day notation: D-N before the event, D-Day on it, D+N after.
func DDay(diffDays int) string {
	switch {
	case diffDays > 0:
		return fmt.Sprintf("D-%d", diffDays)
	case diffDays == 0:
		return "D-Day"
	default:
		return fmt.Sprintf("D+%d", -diffDays)
	}
}

// Templates is a named set of wordings for the text built from a day difference.
// Main and Copy must be pure: the same arguments always give the same string.
type Templates struct {
	Name string

	// Placeholder stands in for an empty title in copy text
	Placeholder string

	DateStyle DateStyle

	// Main builds the headline for diffDays
	Main func(diffDays int) string

	// Copy builds the shareable sentence; title is never empty here
	Copy func(title string, diffDays int, dateLabel string) string

	// User-visible messages for rejected input
	MissingDate string
	InvalidDate string
	NoResult    string
}

// MainText returns the headline for diffDays
func (t Templates) MainText(diffDays int) string {
	return t.Main(diffDays)
}

// CopyText returns the copy/share sentence, substituting the placeholder for an empty title
func (t Templates) CopyText(title string, diffDays int, dateLabel string) string {
	if title == "" {
		title = t.Placeholder
	}
	return t.Copy(title, diffDays, dateLabel)
}

// DateText renders d in the set's date style
func (t Templates) DateText(d Day) string {
	return FormatDay(d, t.DateStyle)
}

// Message maps an error returned by Engine.Calculate to the text shown to the user.
// Unknown errors fall back to the invalid-date message.
func (t Templates) Message(err error) string {
	if errors.Is(err, ErrMissingDate) {
		return t.MissingDate
	}
	return t.InvalidDate
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func japaneseMain(diffDays int) string {
	switch {
	case diffDays > 0:
		return fmt.Sprintf("あと %d 日", diffDays)
	case diffDays == 0:
		return "本日"
	default:
		return fmt.Sprintf("%d 日経過", abs(diffDays))
	}
}

func japaneseCopy(title string, diffDays int, dateLabel string) string {
	switch {
	case diffDays > 0:
		return fmt.Sprintf("%sまで あと%d日（%s）", title, diffDays, dateLabel)
	case diffDays == 0:
		return fmt.Sprintf("本日「%s」当日です。（%s）", title, dateLabel)
	default:
		return fmt.Sprintf("%sから %d日経過（%s）", title, abs(diffDays), dateLabel)
	}
}

// days renders "1 day" or "N days"
func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func englishMain(diffDays int) string {
	switch {
	case diffDays > 0:
		return days(diffDays) + " remaining"
	case diffDays == 0:
		return "Today"
	default:
		return days(abs(diffDays)) + " elapsed"
	}
}

func englishCopy(title string, diffDays int, dateLabel string) string {
	switch {
	case diffDays > 0:
		return fmt.Sprintf("%s until %s (%s)", days(diffDays), title, dateLabel)
	case diffDays == 0:
		return fmt.Sprintf("Today is %s! (%s)", title, dateLabel)
	default:
		return fmt.Sprintf("%s since %s (%s)", days(abs(diffDays)), title, dateLabel)
	}
}

var (
	// Japanese is the default set: Japanese wording with English weekday labels
	Japanese = Templates{
		Name:        "ja",
		Placeholder: "このイベント",
		DateStyle:   DateStyleEnglish,
		Main:        japaneseMain,
		Copy:        japaneseCopy,
		MissingDate: "日付を入力してください。",
		InvalidDate: "日付の形式が正しくありません。",
		NoResult:    "まだカウント結果がありません。「カウントする」を押してください。",
	}

	// JapaneseLong uses Japanese wording and native long-form dates
	JapaneseLong = Templates{
		Name:        "ja-long",
		Placeholder: "このイベント",
		DateStyle:   DateStyleJapanese,
		Main:        japaneseMain,
		Copy:        japaneseCopy,
		MissingDate: "日付を入力してください。",
		InvalidDate: "日付の形式が正しくありません。",
		NoResult:    "まだカウント結果がありません。「カウントする」を押してください。",
	}

	English = Templates{
		Name:        "en",
		Placeholder: "this event",
		DateStyle:   DateStyleEnglish,
		Main:        englishMain,
		Copy:        englishCopy,
		MissingDate: "Please enter a date.",
		InvalidDate: "The date is not valid. Use YYYY-MM-DD.",
		NoResult:    "No countdown yet. Enter a date first.",
	}

	// DDayNotation shows D-N / D-Day / D+N as the headline
	DDayNotation = Templates{
		Name:        "dday",
		Placeholder: "this event",
		DateStyle:   DateStyleEnglish,
		Main:        DDay,
		Copy:        englishCopy,
		MissingDate: "Please enter a date.",
		InvalidDate: "The date is not valid. Use YYYY-MM-DD.",
		NoResult:    "No countdown yet. Enter a date first.",
	}
)

var templateSets = map[string]Templates{
	Japanese.Name:     Japanese,
	JapaneseLong.Name: JapaneseLong,
	English.Name:      English,
	DDayNotation.Name: DDayNotation,
}

// LookupTemplates returns the template set registered under name
func LookupTemplates(name string) (Templates, bool) {
	t, ok := templateSets[name]
	return t, ok
}

// TemplateNames returns the registered set names in sorted order
func TemplateNames() []string {
	names := make([]string, 0, len(templateSets))
	for name := range templateSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
