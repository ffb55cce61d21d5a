// Package web serves the countdown over HTTP.
//
// Routes:
//
//	GET  /health            liveness probe
//	GET  /api/countdown     result JSON for ?title&date&theme
//	GET  /api/metrics       logger metrics snapshot
//	GET  /countdown.ics     calendar entry for ?title&date
//	GET  /                  result page restored from the query string
//	POST /                  calculate form; redirects to the page URL carrying the new state
//	POST /theme             change theme only; redirects likewise
//
// The page URL is the only place state lives: every successful form post answers
// 303 See Other with the query string rewritten by state.Apply.
package web
