// Package cli wires the command-line surface: flag parsing, adapter
// construction, and output rendering around the application services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/cistatus/internal/adapter/driven/github"
	"github.com/ericfisherdev/cistatus/internal/adapter/driven/gitrepo"
	"github.com/ericfisherdev/cistatus/internal/application"
	"github.com/ericfisherdev/cistatus/internal/config"
	"github.com/ericfisherdev/cistatus/internal/domain/model"
)

// exitOperationalError is returned for configuration, resolution, and fetch
// failures, keeping it distinct from the status-derived exit codes 0-3.
const exitOperationalError = 4

// Run executes the cistatus command and returns the process exit code:
// 0 success/neutral, 1 failing, 2 pending, 3 no status, 4 operational error.
func Run(args []string, stdout, stderr io.Writer) int {
	var (
		waitFlag  string
		verbose   int
		quiet     bool
		colorMode string
		debug     bool
	)
	exitCode := 0

	rootCmd := &cobra.Command{
		Use:   "cistatus [TARGET]",
		Short: "Show the GitHub CI status of a commit",
		Long: "Look up the commit-status and check-run feeds for a commit in the\n" +
			"current repository's GitHub project and report one aggregate state.\n" +
			"TARGET is any committish and defaults to HEAD.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbosity := verbose
			if quiet {
				verbosity = -1
			}

			configureLogging(stderr, debug)

			wait, err := parseWait(waitFlag)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			target := "HEAD"
			if len(args) == 1 {
				target = args[0]
			}

			statuses, err := fetchStatuses(ctx, cfg, target, wait, debug, stderr)
			if err != nil {
				return err
			}

			state := model.Overall(statuses)
			exitCode = state.ExitCode()
			render(stdout, statuses, state, verbosity, useColor(colorMode, stdout))
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&waitFlag, "wait", "w", "", "wait for pending checks to finish, up to a duration (e.g. 10m) or 'forever'")
	rootCmd.Flags().CountVarP(&verbose, "verbose", "v", "print a per-check breakdown instead of the bare state")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress output, report via exit code only")
	rootCmd.Flags().StringVar(&colorMode, "color", "auto", "colorize output: auto, always, or never")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log API traffic and polling progress to stderr")

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "cistatus: %v\n", err)
		if debug {
			for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
				fmt.Fprintf(stderr, "  caused by: %v\n", cause)
			}
		}
		return exitOperationalError
	}
	return exitCode
}

// fetchStatuses runs the pipeline: identify the project and resolve the
// target commit concurrently, then fetch (and optionally poll) both status
// feeds.
func fetchStatuses(ctx context.Context, cfg *config.Config, target string, wait time.Duration, debug bool, stderr io.Writer) ([]model.Status, error) {
	repo, err := gitrepo.Open(".")
	if err != nil {
		return nil, err
	}

	identifier := application.NewIdentifier(repo, cfg.Host)

	var (
		project model.Project
		sha     string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := identifier.Project(gctx)
		project = p
		return err
	})
	g.Go(func() error {
		s, err := repo.ResolveCommit(gctx, target)
		sha = s
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slog.Debug("resolved target", "project", project, "sha", sha)

	source, err := newStatusSource(cfg)
	if err != nil {
		return nil, err
	}

	var debugSink io.Writer
	if debug {
		debugSink = stderr
	}
	return application.NewStatusService(source).Fetch(ctx, project, sha, application.FetchOptions{
		Wait:     wait,
		Interval: cfg.PollInterval,
		Debug:    debugSink,
	})
}

func newStatusSource(cfg *config.Config) (*github.Client, error) {
	if cfg.Host != "" && cfg.Host != application.CanonicalHost {
		return github.NewEnterpriseClient(cfg.Token, cfg.Host)
	}
	return github.NewClient(cfg.Token), nil
}

// render writes the result according to verbosity: negative is silent, zero
// is the bare state word, positive is the per-record breakdown.
func render(stdout io.Writer, statuses []model.Status, state model.State, verbosity int, colored bool) {
	switch {
	case verbosity < 0:
	case verbosity == 0:
		fmt.Fprintln(stdout, displayState(state))
	default:
		if len(statuses) == 0 {
			fmt.Fprintln(stdout, displayState(state))
			return
		}
		fmt.Fprintln(stdout, FormatStatuses(statuses, colored))
	}
}

// parseWait interprets the --wait flag: empty means no waiting, "forever"
// removes the time limit, anything else must be a Go duration.
func parseWait(value string) (time.Duration, error) {
	switch value {
	case "":
		return 0, nil
	case "forever":
		return application.WaitForever, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --wait value %q: expected a duration like 90s or 'forever'", value)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid --wait value %q: duration must not be negative", value)
	}
	return d, nil
}

// useColor resolves the --color mode, probing stdout with isatty for "auto".
func useColor(mode string, stdout io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if f, ok := stdout.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// configureLogging installs the process-wide slog handler. Warnings and
// errors always show; --debug opens the firehose.
func configureLogging(stderr io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
}
