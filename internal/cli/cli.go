package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/daycount/internal/config"
	"github.com/pfrederiksen/daycount/internal/countdown"
	"github.com/pfrederiksen/daycount/internal/logger"
	"github.com/pfrederiksen/daycount/internal/state"
)

const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitInvalidInput = 2
)

// StatusError carries the process exit code for a failed command.
// A nil Err means the message was already shown to the user.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit %d", e.Code)
	}
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// options holds flag values shared by all commands
type options struct {
	configPath string
	title      string
	date       string
	theme      string
	from       string
	templates  string
	timezone   string
	format     string
	verbose    bool

	// now is the clock used for "today"
	now func() time.Time

	cfg    *config.Config
	engine *countdown.Engine
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(time.Now)
}

func newRootCmd(now func() time.Time) *cobra.Command {
	opts := &options{now: now}

	cmd := &cobra.Command{
		Use:   "daycount",
		Short: "Count the days until or since an event",
		Long: `Count the days until or since an event.
The title, date and theme can be shared as a link and restored with --from.`,
		Example: `  daycount --title Launch --date 2025-01-11
  daycount --from 'https://example.com/?date=2025-06-01&theme=warm' --format json
  daycount link --title Launch --date 2025-01-11 --theme warm`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setup,
		RunE:              opts.runCalculate,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to config file")
	pf.StringVar(&opts.title, "title", "", "Event title")
	pf.StringVar(&opts.date, "date", "", "Event date (YYYY-MM-DD)")
	pf.StringVar(&opts.theme, "theme", "", "Display theme: cool or warm")
	pf.StringVar(&opts.from, "from", "", "Restore title/date/theme from a shared link or query string")
	pf.StringVar(&opts.templates, "templates", "", "Wording set: "+strings.Join(countdown.TemplateNames(), ", "))
	pf.StringVar(&opts.timezone, "timezone", "", "IANA timezone for today (default: config or system)")
	pf.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")

	cmd.AddCommand(
		newCopyCmd(opts),
		newLinkCmd(opts),
		newICSCmd(opts),
		newServeCmd(opts),
		newConfigCmd(opts),
	)

	return cmd
}

// setup loads config, configures logging and builds the engine
func (o *options) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.timezone != "" {
		cfg.Timezone = o.timezone
	}
	if o.templates != "" {
		if _, ok := countdown.LookupTemplates(o.templates); !ok {
			return fmt.Errorf("unknown templates %q (available: %s)", o.templates, strings.Join(countdown.TemplateNames(), ", "))
		}
		cfg.Templates = o.templates
	}
	o.cfg = cfg

	level := logger.ParseLevel(cfg.LogLevel)
	if o.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("Unknown timezone, using system timezone", logger.Fields{"timezone": cfg.Timezone}, err)
	}

	tpl := cfg.TemplateSet()
	o.engine = countdown.NewEngine(countdown.Options{
		Location:  loc,
		Templates: &tpl,
		Now:       o.now,
	})

	logger.Debug("Effective config", logger.Fields{
		"config":    o.configPath,
		"templates": tpl.Name,
		"timezone":  loc.String(),
		"base_url":  cfg.BaseURL,
	})
	return nil
}

// resolveState builds the state from --from, then flags that were set, then config defaults
func (o *options) resolveState(cmd *cobra.Command) state.State {
	st := state.State{Theme: state.ParseTheme(o.cfg.Theme)}

	if o.from != "" {
		restored, err := state.DecodeURL(o.from)
		if err != nil {
			logger.Warn("Ignoring malformed link parameters", logger.Fields{"from": o.from}, err)
		}
		st = restored
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		st.Title = o.title
	}
	if flags.Changed("date") {
		st.Date = o.date
	}
	if flags.Changed("theme") {
		st.Theme = state.Theme(o.theme)
	}

	return st.Normalize()
}

// calculate resolves the state and runs the engine. Rejected input is reported
// on stderr and returned as an ExitInvalidInput error.
func (o *options) calculate(cmd *cobra.Command) (*countdown.Result, state.State, error) {
	st := o.resolveState(cmd)

	res, err := o.engine.Calculate(st.Title, st.Date)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), o.engine.Templates().Message(err))
		logger.Debug("Countdown rejected", logger.Fields{"date": st.Date, "reason": err.Error()})
		return nil, st, &StatusError{Code: ExitInvalidInput}
	}

	logger.Debug("Countdown calculated", logger.Fields{
		"date":      res.Date.String(),
		"diff_days": res.DiffDays,
	})
	return res, st, nil
}

// runCalculate is the root command: calculate and print the result
func (o *options) runCalculate(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}

	res, st, err := o.calculate(cmd)
	if err != nil {
		return err
	}

	link, err := shareLink(o.cfg.BaseURL, st)
	if err != nil {
		logger.Warn("Invalid base_url, omitting link", logger.Fields{"base_url": o.cfg.BaseURL}, err)
	}

	out := &OutputResult{
		Result: res,
		Theme:  st.Theme,
		Link:   link,
	}
	if err := WriteOutput(cmd.OutOrStdout(), out, format, o.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Execute runs the CLI and returns the process exit code
func Execute(version string) int {
	cmd := NewRootCmd()
	cmd.Version = version
	return execute(cmd, os.Args[1:], os.Stderr)
}

func execute(cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *StatusError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitError
}
