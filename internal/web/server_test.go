package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/daycount/internal/config"
	"github.com/pfrederiksen/daycount/internal/countdown"
	"github.com/pfrederiksen/daycount/internal/logger"
)

func newTestServer(t *testing.T, tpl countdown.Templates, now time.Time) (*Server, *logger.Metrics) {
	t.Helper()
	engine := countdown.NewEngine(countdown.Options{
		Location:  time.UTC,
		Templates: &tpl,
		Now:       func() time.Time { return now },
	})
	metrics := logger.NewMetrics()
	s := NewServer(config.DefaultConfig(), engine, logger.New(logger.LevelError, io.Discard), metrics)
	return s, metrics
}

var jan1 = time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, s, httptest.NewRequest(http.MethodGet, target, nil))
}

func postForm(t *testing.T, s *Server, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, s, req)
}

func parseDoc(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, countdown.English, jan1)

	rec := get(t, s, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCountdownAPI(t *testing.T) {
	s, metrics := newTestServer(t, countdown.English, jan1)

	rec := get(t, s, "/api/countdown?title=Launch&date=2025-01-11&theme=warm")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got struct {
		DiffDays  int    `json:"diffDays"`
		MainText  string `json:"mainText"`
		TitleText string `json:"titleText"`
		DateText  string `json:"dateText"`
		CopyText  string `json:"copyText"`
		DDay      string `json:"dday"`
		Date      string `json:"date"`
		Theme     string `json:"theme"`
		Query     string `json:"query"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if got.DiffDays != 10 {
		t.Errorf("diffDays = %d, want 10", got.DiffDays)
	}
	if got.MainText != "10 days remaining" {
		t.Errorf("mainText = %q", got.MainText)
	}
	if got.TitleText != "Launch" {
		t.Errorf("titleText = %q", got.TitleText)
	}
	if got.DateText != "2025/1/11 Sat." {
		t.Errorf("dateText = %q", got.DateText)
	}
	if got.CopyText != "10 days until Launch (2025/1/11 Sat.)" {
		t.Errorf("copyText = %q", got.CopyText)
	}
	if got.DDay != "D-10" {
		t.Errorf("dday = %q", got.DDay)
	}
	if got.Date != "2025-01-11" {
		t.Errorf("date = %q", got.Date)
	}
	if got.Theme != "warm" {
		t.Errorf("theme = %q", got.Theme)
	}
	if got.Query != "date=2025-01-11&theme=warm&title=Launch" {
		t.Errorf("query = %q", got.Query)
	}
	if metrics.Counter("countdown.calculated") != 1 {
		t.Errorf("countdown.calculated = %d, want 1", metrics.Counter("countdown.calculated"))
	}
}

func TestCountdownAPI_Errors(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantMsg string
	}{
		{"Missing date", "/api/countdown?title=Launch", countdown.English.MissingDate},
		{"Rolled over date", "/api/countdown?date=2025-02-30", countdown.English.InvalidDate},
		{"Month 13", "/api/countdown?date=2025-13-01", countdown.English.InvalidDate},
		{"Malformed date escape is dropped", "/api/countdown?date=2025-01-%zz&title=Launch", countdown.English.MissingDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, metrics := newTestServer(t, countdown.English, jan1)

			rec := get(t, s, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			var got errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if got.Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", got.Error, tt.wantMsg)
			}
			if metrics.Counter("countdown.rejected") != 1 {
				t.Errorf("countdown.rejected = %d, want 1", metrics.Counter("countdown.rejected"))
			}
		})
	}
}

func TestCountdownAPI_MalformedQueryKeepsValidFields(t *testing.T) {
	s, metrics := newTestServer(t, countdown.English, jan1)

	rec := get(t, s, "/api/countdown?title=100%&date=2025-01-11&theme=warm")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got struct {
		DiffDays int    `json:"diffDays"`
		Title    string `json:"title"`
		Theme    string `json:"theme"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.DiffDays != 10 || got.Theme != "warm" || got.Title != "" {
		t.Errorf("got %+v, want diff 10, theme warm, empty title", got)
	}
	if metrics.Counter("state.restore_failed") != 1 {
		t.Errorf("state.restore_failed = %d, want 1", metrics.Counter("state.restore_failed"))
	}
}

func TestPage_RestoresFromQuery(t *testing.T) {
	s, _ := newTestServer(t, countdown.English, jan1)

	rec := get(t, s, "/?date=2025-06-01&theme=warm")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doc := parseDoc(t, rec)

	if !doc.Find("body").HasClass("theme-warm") {
		t.Error("body should carry theme-warm")
	}
	if v, _ := doc.Find("#eventDate").Attr("value"); v != "2025-06-01" {
		t.Errorf("date input = %q", v)
	}
	if got := doc.Find("#mainCountText").Text(); got != "151 days remaining" {
		t.Errorf("main text = %q", got)
	}
	if doc.Find("#eventTitleDisplay").Length() != 0 {
		t.Error("title display should be hidden for an empty title")
	}
	if got := doc.Find("#eventDateDisplay").Text(); got != "2025/6/1 Sun." {
		t.Errorf("date display = %q", got)
	}
	if got := doc.Find("#todayDateDisplay").Text(); got != "2025/1/1 Wed." {
		t.Errorf("today display = %q", got)
	}
	if got := doc.Find(".theme-btn.active").AttrOr("data-theme", ""); got != "warm" {
		t.Errorf("active theme button = %q", got)
	}
}

func TestPage_MatchesAPIResult(t *testing.T) {
	s, _ := newTestServer(t, countdown.Japanese, jan1)

	page := parseDoc(t, get(t, s, "/?date=2025-06-01&theme=warm"))

	var api struct {
		MainText string `json:"mainText"`
		CopyText string `json:"copyText"`
	}
	rec := get(t, s, "/api/countdown?date=2025-06-01&theme=warm")
	if err := json.Unmarshal(rec.Body.Bytes(), &api); err != nil {
		t.Fatal(err)
	}

	if got := page.Find("#mainCountText").Text(); got != api.MainText {
		t.Errorf("page main text %q != api %q", got, api.MainText)
	}
	if got := page.Find("#copyText").Text(); got != api.CopyText {
		t.Errorf("page copy text %q != api %q", got, api.CopyText)
	}
}

func TestPage_InvalidDateShowsMessage(t *testing.T) {
	s, _ := newTestServer(t, countdown.Japanese, jan1)

	doc := parseDoc(t, get(t, s, "/?date=2025-02-30"))

	if got := doc.Find("#errorMessage").Text(); got != countdown.Japanese.InvalidDate {
		t.Errorf("error message = %q", got)
	}
	if doc.Find("#resultCard").Length() != 0 {
		t.Error("result card should not render for an invalid date")
	}
}

func TestPage_NoDateShowsFormOnly(t *testing.T) {
	s, _ := newTestServer(t, countdown.Japanese, jan1)

	doc := parseDoc(t, get(t, s, "/"))

	if doc.Find("#resultCard").Length() != 0 {
		t.Error("result card should not render without a date")
	}
	if got := doc.Find("#copyStatus").Text(); got != countdown.Japanese.NoResult {
		t.Errorf("copy status = %q, want %q", got, countdown.Japanese.NoResult)
	}
	if got := doc.Find("#errorMessage").Text(); got != "" {
		t.Errorf("error message = %q, want empty", got)
	}
	if !doc.Find("body").HasClass("theme-cool") {
		t.Error("default theme should be cool")
	}
}

func TestCalculate_RedirectsToStateURL(t *testing.T) {
	s, _ := newTestServer(t, countdown.English, jan1)

	rec := postForm(t, s, "/", url.Values{
		"title": {" Launch "},
		"date":  {"2025-01-11"},
		"theme": {"warm"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	want := "/?date=2025-01-11&theme=warm&title=Launch"
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

func TestCalculate_KeepsOtherParams(t *testing.T) {
	s, _ := newTestServer(t, countdown.English, jan1)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{
		"date":  {"2025-01-11"},
		"theme": {"cool"},
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "http://example.com/?ref=newsletter&title=Old")

	rec := do(t, s, req)

	want := "/?date=2025-01-11&ref=newsletter&theme=cool"
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

func TestCalculate_InvalidKeepsState(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantMsg string
	}{
		{"Missing date", "", countdown.English.MissingDate},
		{"Invalid date", "2025-13-01", countdown.English.InvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, countdown.English, jan1)

			rec := postForm(t, s, "/", url.Values{"title": {"Launch"}, "date": {tt.date}})
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "" {
				t.Errorf("Location = %q, want none", loc)
			}

			doc := parseDoc(t, rec)
			if got := doc.Find("#errorMessage").Text(); got != tt.wantMsg {
				t.Errorf("error message = %q, want %q", got, tt.wantMsg)
			}
			if v, _ := doc.Find("#eventTitle").Attr("value"); v != "Launch" {
				t.Errorf("title input = %q, want Launch", v)
			}
		})
	}
}

func TestTheme_RedirectsWithoutDate(t *testing.T) {
	s, _ := newTestServer(t, countdown.English, jan1)

	rec := postForm(t, s, "/theme", url.Values{"title": {"Launch"}, "theme": {"warm"}})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/?theme=warm&title=Launch" {
		t.Errorf("Location = %q", got)
	}
}

func TestICS(t *testing.T) {
	s, _ := newTestServer(t, countdown.English, jan1)

	rec := get(t, s, "/countdown.ics?title=Launch&date=2025-01-11")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "countdown.ics") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "DTSTART;VALUE=DATE:20250111") {
		t.Errorf("body missing DTSTART:\n%s", rec.Body.String())
	}

	if rec := get(t, s, "/countdown.ics?date=bad"); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid date status = %d, want 400", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, countdown.English, jan1)

	get(t, s, "/api/countdown?date=2025-01-11")
	rec := get(t, s, "/api/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var snap struct {
		Counters map[string]int64          `json:"counters"`
		Timings  map[string]map[string]any `json:"timings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Counters["countdown.calculated"] != 1 {
		t.Errorf("counters = %v", snap.Counters)
	}
	if _, ok := snap.Timings["http.request"]; !ok {
		t.Errorf("timings = %v, want http.request", snap.Timings)
	}
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	engine := countdown.NewEngine(countdown.Options{Location: time.UTC})
	cfg := config.DefaultConfig()
	cfg.Listen = "127.0.0.1:0"
	s := NewServer(cfg, engine, logger.New(logger.LevelError, io.Discard), logger.NewMetrics())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}
