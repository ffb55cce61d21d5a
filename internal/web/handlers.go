package web

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/pfrederiksen/daycount/internal/calendar"
	"github.com/pfrederiksen/daycount/internal/countdown"
	"github.com/pfrederiksen/daycount/internal/logger"
	"github.com/pfrederiksen/daycount/internal/state"
)

// countdownResponse is the JSON shape for /api/countdown
type countdownResponse struct {
	*countdown.Result
	Theme state.Theme `json:"theme"`
	Query string      `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (s *Server) handleMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metrics.GetSnapshot())
}

// restore reads the state from the request query string. Pairs that fail to
// parse are logged and take their defaults; the rest are kept.
func (s *Server) restore(c echo.Context) state.State {
	raw := c.Request().URL.RawQuery
	st, err := state.Decode(raw)
	if err != nil {
		s.metrics.IncrCounter("state.restore_failed")
		s.log.Warn("Ignoring malformed query parameters", logger.Fields{"query": raw}, err)
	}
	return st
}

// calculate runs the engine and counts the outcome
func (s *Server) calculate(st state.State) (*countdown.Result, error) {
	res, err := s.engine.Calculate(st.Title, st.Date)
	if err != nil {
		s.metrics.IncrCounter("countdown.rejected")
		s.log.Debug("Countdown rejected", logger.Fields{"date": st.Date})
		return nil, err
	}
	s.metrics.IncrCounter("countdown.calculated")
	return res, nil
}

// handleCountdown returns the result JSON for the query-string state.
//
// GET /api/countdown?title=Launch&date=2025-01-11&theme=warm
func (s *Server) handleCountdown(c echo.Context) error {
	st := s.restore(c)

	res, err := s.calculate(st)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: s.engine.Templates().Message(err)})
	}

	return c.JSON(http.StatusOK, countdownResponse{
		Result: res,
		Theme:  st.Theme,
		Query:  state.Encode(st),
	})
}

// handleICS serves the countdown as a calendar download
func (s *Server) handleICS(c echo.Context) error {
	st := s.restore(c)

	res, err := s.calculate(st)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: s.engine.Templates().Message(err)})
	}

	body := calendar.GenerateICS(res, s.engine.Templates(), s.engine.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="countdown.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// handlePage renders the page for the query-string state. With a date present
// the result card is shown; a bad date shows the error message instead.
func (s *Server) handlePage(c echo.Context) error {
	st := s.restore(c)
	view := s.newPageView(st)

	if st.Date != "" {
		res, err := s.calculate(st)
		if err != nil {
			view.Error = s.engine.Templates().Message(err)
		} else {
			view.Result = res
		}
	}

	return s.render(c, http.StatusOK, view)
}

// handleCalculate validates the submitted form. On success the browser is sent
// to the page URL carrying the new state; on failure the form is shown again
// with the message and the current URL (and therefore the previous state) is kept.
func (s *Server) handleCalculate(c echo.Context) error {
	st := formState(c)

	if _, err := s.calculate(st); err != nil {
		view := s.newPageView(st)
		view.Error = s.engine.Templates().Message(err)
		return s.render(c, http.StatusBadRequest, view)
	}

	return c.Redirect(http.StatusSeeOther, pageURL(c, st))
}

// handleTheme switches the theme without recalculating
func (s *Server) handleTheme(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, pageURL(c, formState(c)))
}

func formState(c echo.Context) state.State {
	return state.State{
		Title: c.FormValue(state.ParamTitle),
		Date:  c.FormValue(state.ParamDate),
		Theme: state.Theme(c.FormValue(state.ParamTheme)),
	}.Normalize()
}

// pageURL returns the page path with st applied, keeping any other parameters
// the page was loaded with (posted from the page, so they arrive on the Referer).
func pageURL(c echo.Context, st state.State) string {
	base := &url.URL{Path: "/"}
	if ref, err := url.Parse(c.Request().Referer()); err == nil && ref.Path == "/" {
		base.RawQuery = ref.RawQuery
	}
	return state.Apply(base, st).String()
}

func (s *Server) render(c echo.Context, status int, view pageView) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		s.log.Error("Rendering page failed", nil, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render page")
	}
	return c.HTMLBlob(status, buf.Bytes())
}
