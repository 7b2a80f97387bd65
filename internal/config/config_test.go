package config

import (
	"classutil-backend/internal/fetcher"
	"classutil-backend/internal/scrapers/classutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0666))
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "classutil.json5"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classutil.json5")
	writeFile(t, path, `{
		// paddington, term 2
		campus: 1,
		term: "T2",
		group_by: "room",
		fetcher: { kind: "colly", requests_per_second: 5 },
	}`)
	writeFile(t, filepath.Join(dir, "classutil.local.json5"), `{
		concurrency: 4,
		database: { file: "/tmp/classutil-local.db" },
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, classutil.CAMPUS_PADDINGTON, cfg.Campus)
	require.Equal(t, "T2", cfg.Term)
	require.Equal(t, 4, cfg.Concurrency)
	require.Equal(t, fetcher.KIND_COLLY, cfg.Fetcher.Kind)
	require.Equal(t, 5.0, cfg.Fetcher.RequestsPerSecond)
	require.Equal(t, 30, cfg.Fetcher.TimeoutSeconds)
	require.Equal(t, "/tmp/classutil-local.db", cfg.Database.File)
	require.Equal(t, Default().RootUrl, cfg.RootUrl)

	opts, err := cfg.ScraperOptions()
	require.NoError(t, err)
	require.Equal(t, classutil.GroupByRoom{}, opts.GroupBy)
	require.Equal(t, 4, opts.Concurrency)
}

func TestLoadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classutil.yaml")
	writeFile(t, path, "term: T3\ndaemon:\n  cron: \"*/30 * * * *\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "T3", cfg.Term)
	require.Equal(t, "*/30 * * * *", cfg.Daemon.Cron)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "relative root url", mutate: func(c *Config) { c.RootUrl = "classutil.unsw.edu.au" }},
		{name: "negative campus", mutate: func(c *Config) { c.Campus = -1 }},
		{name: "zero concurrency", mutate: func(c *Config) { c.Concurrency = 0 }},
		{name: "unknown grouping", mutate: func(c *Config) { c.GroupBy = "lecturer" }},
		{name: "unknown fetcher", mutate: func(c *Config) { c.Fetcher.Kind = "wget" }},
		{name: "dir fetcher without dir", mutate: func(c *Config) { c.Fetcher.Kind = fetcher.KIND_DIR }},
		{name: "bad cron", mutate: func(c *Config) { c.Daemon.Cron = "every day" }},
	}

	require.NoError(t, Default().Validate())
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
