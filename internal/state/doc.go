// Package state mirrors the countdown's (title, date, theme) triple into a URL
// query string so a link or bookmark restores the same countdown.
//
// Encoding omits empty fields. Decoding never fails hard: absent or malformed
// values fall back to defaults field by field, and a malformed query string is
// reported through the returned error alongside the usable State.
package state
