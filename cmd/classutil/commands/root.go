package commands

import (
	"classutil-backend/internal/components/telemetry"
	"classutil-backend/internal/config"
	"classutil-backend/internal/scrapers/classutil"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

const (
	EXIT_OK                  = 0
	EXIT_STRUCTURAL_MISMATCH = 1
	EXIT_FETCH_FAILED        = 2
)

// ExitCode maps the error returned by a command to the process exit code.
// Config and usage errors share the structural mismatch code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return EXIT_OK
	case errors.Is(err, classutil.ErrFetchFailed):
		return EXIT_FETCH_FAILED
	default:
		return EXIT_STRUCTURAL_MISMATCH
	}
}

// env is filled in by the root command before any subcommand runs.
type env struct {
	cfg  config.Config
	tel  telemetry.API
	otel telemetry.Telemetry
}

func newRootCmd(state *env, logOutput io.Writer) *cobra.Command {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "classutil",
		Short:         "classutil scrapes the class utilisation timetable into a schedule keyed by course.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			telemetry.InitSlog(logOutput, verbose)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			otel, err := telemetry.Setup(cmd.Context(), "classutil", cfg.Telemetry)
			if err != nil {
				return fmt.Errorf("setup telemetry: %w", err)
			}

			state.cfg = cfg
			state.otel = otel
			state.tel = telemetry.SlogAPI{}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "classutil.json5", "The config file to read, a <name>.local.<ext> file next to it overrides it.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug reports.")

	rootCmd.AddCommand(
		newScrapeCmd(state),
		newLookupCmd(state),
		newDaemonCmd(state),
	)
	return rootCmd
}

func execute(ctx context.Context, args []string, stdout, logOutput io.Writer) int {
	state := &env{}
	rootCmd := newRootCmd(state, logOutput)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(logOutput)

	err := rootCmd.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if shutdownErr := state.otel.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Warn("failed to shutdown telemetry", "err", shutdownErr)
	}

	if err != nil {
		fmt.Fprintln(logOutput, err)
	}
	return ExitCode(err)
}
