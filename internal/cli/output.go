package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/daycount/internal/countdown"
	"github.com/pfrederiksen/daycount/internal/state"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	*countdown.Result
	Theme state.Theme `json:"theme"`
	Link  string      `json:"link,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the result as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the result as a small text card:
//
//	TODAY 2025/1/1 Wed.
//
//	  Launch
//	  10 days remaining
//	  2025/1/11 Sat.
//
//	10 days until Launch (2025/1/11 Sat.)
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if _, err := fmt.Fprintf(w, "TODAY %s\n\n", result.TodayText); err != nil {
		return err
	}

	if result.TitleText != "" {
		fmt.Fprintf(w, "  %s\n", result.TitleText)
	}
	fmt.Fprintf(w, "  %s\n", result.MainText)
	fmt.Fprintf(w, "  %s\n", result.DateText)

	fmt.Fprintf(w, "\n%s\n", result.CopyText)

	if verbose {
		fmt.Fprintf(w, "\n  Diff:  %d (%s)\n", result.DiffDays, result.DDay)
		fmt.Fprintf(w, "  Theme: %s\n", result.Theme)
		if result.Link != "" {
			fmt.Fprintf(w, "  Link:  %s\n", result.Link)
		}
	}

	return nil
}
