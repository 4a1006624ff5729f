package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"junitmig/internal/core/config"
	"junitmig/internal/core/ports"
	"junitmig/internal/shared/version"
	"junitmig/internal/ui/report"

	"github.com/spf13/cobra"
)

const (
	flagConfig      = "config"
	flagVerbose     = "verbose"
	flagLogFile     = "log-file"
	flagLogFormat   = "log-format"
	flagWorkers     = "workers"
	flagRules       = "rules"
	flagSARIF       = "sarif"
	flagNoCache     = "no-cache"
	flagMetricsAddr = "metrics-addr"
	flagState       = "state"

	exitOK       = 0
	exitChanges  = 1
	exitFailure  = 2
	historyLimit = 20
)

// errChangesPending makes check exit with status 1 without printing an error.
var errChangesPending = stderrors.New("changes pending")

type globalOptions struct {
	configPath  string
	verbose     bool
	logFile     string
	logFormat   string
	workers     int
	rules       []string
	sarif       string
	noCache     bool
	metricsAddr string
	state       bool
}

const rootLongDescription = `junitmig rewrites JUnit assertions in Java test sources to AssertJ.

assertNull(x), assertNull(x, "msg") and assertNull(x, () -> "msg") become
assertThat(x).isNull(), assertThat(x).as("msg").isNull() and
assertThat(x).withFailMessage(() -> "msg").isNull(); static imports are
added and removed as needed.

Paths default to scan.paths from junitmig.toml (or the current directory).`

// Execute runs the CLI with args and returns the process exit status.
func Execute(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case stderrors.Is(err, errChangesPending):
		return exitChanges
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return exitFailure
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "junitmig",
		Short:         "Migrate JUnit assertions to AssertJ",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, flagConfig, "", "path to config file (default ./"+config.DefaultFile+" when present)")
	pf.BoolVarP(&opts.verbose, flagVerbose, "v", false, "enable debug logging and per-call output")
	pf.StringVar(&opts.logFile, flagLogFile, "", "also write logs to this rotated file")
	pf.StringVar(&opts.logFormat, flagLogFormat, "text", "log format: text or json")
	pf.IntVarP(&opts.workers, flagWorkers, "j", 0, "number of files processed in parallel")
	pf.StringSliceVar(&opts.rules, flagRules, nil, "comma separated rule IDs to enable")
	pf.StringVar(&opts.sarif, flagSARIF, "", "write a SARIF 2.1.0 report to this path")
	pf.BoolVar(&opts.noCache, flagNoCache, false, "ignore the state ledger and process every file")
	pf.StringVar(&opts.metricsAddr, flagMetricsAddr, "", "serve /metrics and /health on this address")
	pf.BoolVar(&opts.state, flagState, false, "record processed files in the state ledger")

	root.AddCommand(
		newRunCmd(opts, ports.ModeApply, "apply [paths...]", "Rewrite files in place"),
		newRunCmd(opts, ports.ModeCheck, "check [paths...]", "Report files that would change; exit 1 if any"),
		newRunCmd(opts, ports.ModeDiff, "diff [paths...]", "Print unified diffs without writing"),
		newWatchCmd(opts),
		newRulesCmd(opts),
		newHistoryCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newRunCmd(opts *globalOptions, mode ports.Mode, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			res, err := rt.app.Run(cmd.Context(), ports.RunRequest{
				Paths:   args,
				Mode:    mode,
				NoCache: opts.noCache,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if mode == ports.ModeDiff || (mode == ports.ModeCheck && rt.cfg.Output.Diff) {
				if err := report.WriteDiffs(out, res); err != nil {
					return err
				}
			}
			fmt.Fprint(out, report.RenderSummary(res, opts.verbose))

			if rt.paths.SARIFPath != "" {
				if err := report.WriteSARIF(rt.paths.SARIFPath, rt.paths.ProjectRoot, rt.app.Rules(), res); err != nil {
					return err
				}
				rt.logger.Info("sarif report written", "path", rt.paths.SARIFPath)
			}

			if mode == ports.ModeCheck && res.FilesChanged > 0 {
				return errChangesPending
			}
			if res.Errors > 0 {
				return fmt.Errorf("%d files could not be processed", res.Errors)
			}
			return nil
		},
	}
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Rewrite files whenever they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			if rt.cfgPath != "" {
				cw := config.NewWatcher(rt.cfgPath, rt.logger, func(next *config.Config) {
					config.ApplyEnvOverrides(next)
					applyFlagOverrides(cmd, opts, next)
					if err := rt.app.UpdateConfig(cmd.Context(), next); err != nil {
						rt.logger.Warn("config reload rejected", "error", err)
					}
				})
				if err := cw.Start(cmd.Context()); err != nil {
					rt.logger.Warn("config hot reload disabled", "error", err)
				} else {
					defer cw.Stop()
				}
			}

			out := cmd.OutOrStdout()
			return rt.app.Watch(cmd.Context(), args, func(res ports.RunResult, err error) {
				if err != nil {
					rt.logger.Error("watch run failed", "error", err)
					return
				}
				if res.FilesChanged > 0 || res.Errors > 0 || opts.verbose {
					fmt.Fprint(out, report.RenderSummary(res, opts.verbose))
				}
			})
		},
	}
}

func newRulesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List available rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.Context(), cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			out := cmd.OutOrStdout()
			for _, r := range rt.app.Rules() {
				marker := " "
				if r.Enabled {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-26s %s\n", marker, r.ID, r.Description)
			}
			return nil
		},
	}
}

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs recorded in the state ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmd.Flags().Set(flagState, "true"); err != nil {
				return err
			}
			rt, err := newRuntime(cmd.Context(), cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			runs, err := rt.app.History(limit)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(report.RenderRunsTSV(runs))
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", historyLimit, "number of runs to show")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "junitmig %s\n", version.Version)
		},
	}
}
