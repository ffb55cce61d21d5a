package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/daycount/internal/calendar"
	"github.com/pfrederiksen/daycount/internal/config"
	"github.com/pfrederiksen/daycount/internal/state"
	"github.com/pfrederiksen/daycount/internal/web"
)

// shareLink returns baseURL with st applied to its query
func shareLink(baseURL string, st state.State) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	return state.Apply(u, st).String(), nil
}

// newCopyCmd prints only the copy text so it can be piped to a clipboard tool.
// Without a date there is nothing to copy yet and the no-result message is shown.
func newCopyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "copy",
		Short:   "Print the shareable sentence for the countdown",
		Example: `  daycount copy --title Launch --date 2025-01-11 | pbcopy`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.resolveState(cmd).Date == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), opts.engine.Templates().NoResult)
				return &StatusError{Code: ExitInvalidInput}
			}

			res, _, err := opts.calculate(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.CopyText)
			return err
		},
	}
}

// newLinkCmd prints the shareable link. The date is not validated so a link can
// be built before the event date is settled.
func newLinkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Print a link that restores this title, date and theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := shareLink(opts.cfg.BaseURL, opts.resolveState(cmd))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		},
	}
}

func newICSCmd(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Write the event as an iCalendar (.ics) entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := opts.calculate(cmd)
			if err != nil {
				return err
			}

			body := calendar.GenerateICS(res, opts.engine.Templates(), opts.engine.Now())
			if out == "" || out == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			// Owner read/write only
			if err := os.WriteFile(out, []byte(body), 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

func newServeCmd(opts *options) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the countdown page and JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				opts.cfg.Listen = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := web.NewServer(opts.cfg, opts.engine, nil, nil)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config)")
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to --config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ExpandPath(opts.configPath)
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", opts.configPath)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("checking %s: %w", opts.configPath, err)
				}
			}

			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the daycount config file",
	}
	cmd.AddCommand(initCmd)
	return cmd
}
