// Package cli implements the command-line interface for daycount.
//
// The cli package provides the Cobra-based CLI: the root command calculates a
// countdown and prints it as text or JSON, and subcommands print the copy text,
// print a shareable link, write a calendar entry, start the web server and
// write a default config file. State can be restored from a shared link with
// --from; explicit flags win over the link.
package cli
