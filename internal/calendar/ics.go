// Package calendar renders a countdown as an iCalendar (.ics) entry so the
// event can be added to a calendar app.
package calendar

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/pfrederiksen/daycount/internal/countdown"
)

const (
	ProductID = "-//daycount//daycount//EN"
	uidDomain = "daycount"
)

// uidNamespace scopes name-based event UIDs to daycount
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/pfrederiksen/daycount"))

// EventUID returns a stable identifier for a (title, date) pair so that
// re-importing the same countdown updates the existing calendar entry
func EventUID(title string, day countdown.Day) string {
	return uuid.NewSHA1(uidNamespace, []byte(title+"|"+day.String())).String() + "@" + uidDomain
}

// GenerateICS generates an iCalendar document with one all-day event for res.
// An empty title is replaced by the template set's placeholder.
func GenerateICS(res *countdown.Result, tpl countdown.Templates, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ics.MethodPublish)

	evt := cal.AddEvent(EventUID(res.Title, res.Date))
	evt.SetDtStampTime(now.UTC())

	// All-day: DTEND is exclusive, so it is the following day
	start := time.Date(res.Date.Year, res.Date.Month, res.Date.Day, 0, 0, 0, 0, time.UTC)
	evt.SetAllDayStartAt(start)
	evt.SetAllDayEndAt(start.AddDate(0, 0, 1))

	summary := res.Title
	if summary == "" {
		summary = tpl.Placeholder
	}
	evt.SetSummary(summary)
	evt.SetDescription(res.CopyText)

	// RFC 5545 content lines end in CRLF
	return cal.Serialize(ics.WithNewLineWindows)
}
