package commands

import (
	"classutil-backend/internal/components/chrono"
	"classutil-backend/internal/components/telemetry"
	"log/slog"

	"github.com/spf13/cobra"
)

const (
	report_daemon_scrape = "daemon.scrape"
	report_daemon_store  = "daemon.store"
)

func newDaemonCmd(state *env) *cobra.Command {
	var now bool

	cmd := &cobra.Command{
		Use:   "daemon [--now]",
		Short: "Scrapes on the configured cron schedule and stores every result in the database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := state.cfg
			tel := telemetry.NewScopedAPI("daemon", state.tel)

			store, conn, err := openStore(cfg, state.tel)
			if err != nil {
				return err
			}
			defer conn.Close()

			telemetry.InstrumentPerfStats(ctx, tel)

			job := func() {
				schedule, err := runScrape(ctx, cfg, state.tel)
				if err != nil {
					tel.ReportBroken(report_daemon_scrape, err)
					return
				}
				runID, err := store.Save(ctx, runInfo(cfg), schedule)
				if err != nil {
					tel.ReportBroken(report_daemon_store, err)
					return
				}
				err = store.Prune(ctx, cfg.Database.KeepRuns)
				if err != nil {
					tel.ReportBroken(report_daemon_store, err)
					return
				}
				slog.Info("stored scrape run", "id", runID, "keys", schedule.Len())
			}

			cronner := chrono.NewStandardCron(ctx, tel)
			err = cronner.Cron(cfg.Daemon.Cron, job)
			if err != nil {
				return err
			}
			slog.Info("daemon started", "cron", cfg.Daemon.Cron)

			if now {
				job()
			}
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().BoolVar(&now, "now", false, "Also scrape once right away.")
	return cmd
}
