package config

import (
	"classutil-backend/internal/components/chrono"
	"classutil-backend/internal/components/configutil"
	"classutil-backend/internal/components/telemetry"
	"classutil-backend/internal/db"
	"classutil-backend/internal/fetcher"
	"classutil-backend/internal/scrapers/classutil"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
)

type DaemonConfig struct {
	Cron string `json:"cron" yaml:"cron"`
}

type Config struct {
	RootUrl     string           `json:"root_url" yaml:"root_url"`
	Campus      int              `json:"campus" yaml:"campus"`
	Term        string           `json:"term" yaml:"term"`
	GroupBy     string           `json:"group_by" yaml:"group_by"`
	Concurrency int              `json:"concurrency" yaml:"concurrency"`
	Fetcher     fetcher.Config   `json:"fetcher" yaml:"fetcher"`
	Database    db.Config        `json:"database" yaml:"database"`
	Daemon      DaemonConfig     `json:"daemon" yaml:"daemon"`
	Telemetry   telemetry.Config `json:"telemetry" yaml:"telemetry"`
}

func Default() Config {
	return Config{
		RootUrl:     "http://classutil.unsw.edu.au/",
		Campus:      classutil.CAMPUS_KENSINGTON,
		Term:        "T1",
		GroupBy:     classutil.GROUP_BY_COURSE,
		Concurrency: 1,
		Fetcher: fetcher.Config{
			Kind:              fetcher.KIND_RESTY,
			TimeoutSeconds:    30,
			RequestsPerSecond: 2,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		},
		Database: db.Config{
			File: "classutil.db",
		},
		Daemon: DaemonConfig{
			Cron: "0 3 * * *",
		},
	}
}

// Load reads the config at path and fills every unset field from Default. A
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("config file not found, using defaults", "path", path)
		cfg = Config{}
	} else if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err = configutil.WithDefaults(cfg, Default())
	if err != nil {
		return Config{}, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	rootUrl, err := url.Parse(c.RootUrl)
	if err != nil {
		return fmt.Errorf("root_url: %w", err)
	}
	if !rootUrl.IsAbs() {
		return fmt.Errorf("root_url '%s' must be absolute", c.RootUrl)
	}
	if c.Campus < 0 {
		return fmt.Errorf("campus must not be negative, got %d", c.Campus)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if _, err := classutil.GroupingByName(c.GroupBy); err != nil {
		return fmt.Errorf("group_by: %w", err)
	}

	switch c.Fetcher.Kind {
	case fetcher.KIND_RESTY, fetcher.KIND_COLLY:
	case fetcher.KIND_DIR:
		if c.Fetcher.Dir == "" {
			return fmt.Errorf("fetcher.dir is required for the '%s' fetcher", fetcher.KIND_DIR)
		}
	default:
		return fmt.Errorf("fetcher.kind: unknown fetcher '%s'", c.Fetcher.Kind)
	}
	if c.Fetcher.RequestsPerSecond < 0 {
		return fmt.Errorf("fetcher.requests_per_second must not be negative")
	}

	if err := chrono.ValidateSpec(c.Daemon.Cron); err != nil {
		return fmt.Errorf("daemon.cron: %w", err)
	}
	return nil
}

// ScraperOptions converts the config into the options of a scraper.
func (c Config) ScraperOptions() (classutil.Options, error) {
	groupBy, err := classutil.GroupingByName(c.GroupBy)
	if err != nil {
		return classutil.Options{}, err
	}
	return classutil.Options{
		RootUrl:     c.RootUrl,
		Campus:      c.Campus,
		Term:        c.Term,
		Concurrency: c.Concurrency,
		GroupBy:     groupBy,
	}, nil
}
