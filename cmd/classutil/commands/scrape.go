package commands

import (
	"classutil-backend/internal/components/chrono"
	"classutil-backend/internal/components/telemetry"
	"classutil-backend/internal/config"
	"classutil-backend/internal/db"
	"classutil-backend/internal/export"
	"classutil-backend/internal/fetcher"
	"classutil-backend/internal/scrapers/classutil"
	"classutil-backend/internal/snapshot"
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func runScrape(ctx context.Context, cfg config.Config, tel telemetry.API) (*classutil.Schedule, error) {
	f, err := fetcher.New(cfg.Fetcher, tel)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.ScraperOptions()
	if err != nil {
		return nil, err
	}
	scraper, err := classutil.NewScraper(opts, f, tel)
	if err != nil {
		return nil, err
	}

	t1 := time.Now()
	schedule, err := scraper.Scrape(ctx)
	if err != nil {
		return nil, err
	}
	t2 := time.Now()

	slog.Info(
		"scraping time",
		"seconds", t2.Sub(t1).Seconds(),
		"keys", schedule.Len(),
		"sessions", schedule.SessionCount(),
	)
	return schedule, nil
}

func openStore(cfg config.Config, tel telemetry.API) (snapshot.Store, *sql.DB, error) {
	conn, err := db.OpenDB(cfg.Database)
	if err != nil {
		return snapshot.Store{}, nil, err
	}
	store := snapshot.NewStore(
		db.New(conn),
		db.NewMakeTx(conn),
		chrono.NewStandardTime(nil),
		tel,
	)
	return store, conn, nil
}

func runInfo(cfg config.Config) snapshot.RunInfo {
	return snapshot.RunInfo{
		RootUrl: cfg.RootUrl,
		Term:    cfg.Term,
		Campus:  cfg.Campus,
	}
}

func newScrapeCmd(state *env) *cobra.Command {
	var (
		out         string
		csvPath     string
		jsonPath    string
		saveDb      bool
		term        string
		campus      int
		groupBy     string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "scrape [--out <schedule.snap>] [--csv <out.csv>] [--json <out.json>] [--db]",
		Short: "Scrapes the timetable of one campus and term and prints a summary.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := state.cfg
			flags := cmd.Flags()
			if flags.Changed("term") {
				cfg.Term = term
			}
			if flags.Changed("campus") {
				cfg.Campus = campus
			}
			if flags.Changed("group-by") {
				cfg.GroupBy = groupBy
			}
			if flags.Changed("concurrency") {
				cfg.Concurrency = concurrency
			}
			err := cfg.Validate()
			if err != nil {
				return err
			}

			schedule, err := runScrape(cmd.Context(), cfg, state.tel)
			if err != nil {
				return err
			}
			renderSummary(cmd.OutOrStdout(), schedule)

			if out != "" {
				err = snapshot.WriteFile(out, schedule)
				if err != nil {
					return err
				}
				slog.Info("wrote snapshot", "path", out)
			}
			for _, path := range []string{csvPath, jsonPath} {
				if path == "" {
					continue
				}
				exporter, err := export.ForPath(path)
				if err != nil {
					return err
				}
				err = export.ExportFile(exporter, schedule, path)
				if err != nil {
					return err
				}
				slog.Info("exported schedule", "path", path)
			}

			if saveDb {
				store, conn, err := openStore(cfg, state.tel)
				if err != nil {
					return err
				}
				defer conn.Close()

				runID, err := store.Save(cmd.Context(), runInfo(cfg), schedule)
				if err != nil {
					return err
				}
				slog.Info("saved scrape run", "id", runID, "db", cfg.Database.File)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&out, "out", "", "Write the schedule to a snapshot file.")
	flags.StringVar(&csvPath, "csv", "", "Export the schedule as csv.")
	flags.StringVar(&jsonPath, "json", "", "Export the schedule as json.")
	flags.BoolVar(&saveDb, "db", false, "Store the schedule in the configured database.")
	flags.StringVar(&term, "term", "", "Override the term filter.")
	flags.IntVar(&campus, "campus", 0, "Override the campus index.")
	flags.StringVar(&groupBy, "group-by", "", "Override the grouping strategy (course or room).")
	flags.IntVar(&concurrency, "concurrency", 1, "Override the number of subject pages fetched at once.")
	return cmd
}
