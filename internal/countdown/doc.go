// Package countdown computes "days until / days since" results for a titled event.
//
// The countdown package handles calendar-day parsing and validation, the signed
// day difference against today, and the text built from that difference: the
// main display text, D-Day notation, date labels and the copy/share sentence.
// Every function is pure apart from Engine, which reads the clock it was given.
package countdown
