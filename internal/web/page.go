package web

import (
	"html/template"

	"github.com/pfrederiksen/daycount/internal/countdown"
	"github.com/pfrederiksen/daycount/internal/state"
)

type pageView struct {
	State  state.State
	Today  string
	Result *countdown.Result
	Error  string
	Themes []state.Theme

	// NoResult fills the copy area until there is something to copy
	NoResult string
}

func (s *Server) newPageView(st state.State) pageView {
	return pageView{
		State:    st,
		Today:    s.engine.TodayText(),
		Themes:   []state.Theme{state.ThemeCool, state.ThemeWarm},
		NoResult: s.engine.Templates().NoResult,
	}
}

// Warm returns true when the warm theme is selected
func (v pageView) Warm() bool {
	return v.State.Theme == state.ThemeWarm
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>daycount</title>
</head>
<body class="{{if .Warm}}theme-warm{{else}}theme-cool{{end}}">
<header>TODAY <span id="todayDateDisplay">{{.Today}}</span></header>
<main>
<form method="post" action="/">
<input id="eventTitle" name="title" type="text" value="{{.State.Title}}">
<input id="eventDate" name="date" type="date" value="{{.State.Date}}">
<input type="hidden" name="theme" value="{{.State.Theme}}">
<button id="calculateButton" type="submit">Count</button>
</form>
<form method="post" action="/theme">
<input type="hidden" name="title" value="{{.State.Title}}">
<input type="hidden" name="date" value="{{.State.Date}}">
{{range .Themes}}<button class="theme-btn{{if eq . $.State.Theme}} active{{end}}" name="theme" value="{{.}}" data-theme="{{.}}">{{.}}</button>
{{end}}</form>
<p id="errorMessage">{{.Error}}</p>
{{with .Result}}<section id="resultCard" data-diff-days="{{.DiffDays}}">
<p id="mainCountText" class="has-result">{{.MainText}}</p>
{{if .TitleText}}<p id="eventTitleDisplay">{{.TitleText}}</p>
{{end}}<p id="eventDateDisplay">{{.DateText}}</p>
<p id="ddayText">{{.DDay}}</p>
<textarea id="copyText" readonly>{{.CopyText}}</textarea>
</section>
{{else}}<p id="copyStatus">{{$.NoResult}}</p>
{{end}}</main>
</body>
</html>
`))
