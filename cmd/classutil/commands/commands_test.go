package commands

import (
	"bytes"
	"classutil-backend/internal/scrapers/classutil"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const fixtures = "../../../internal/scrapers/classutil/testdata"

func writeConfig(t *testing.T, dir string, campus int) string {
	t.Helper()
	fixtureDir, err := filepath.Abs(fixtures)
	require.NoError(t, err)

	path := filepath.Join(dir, "classutil.json5")
	content := fmt.Sprintf(`{
		root_url: "http://classutil.unsw.edu.au/",
		campus: %d,
		term: "T1",
		fetcher: { kind: "dir", dir: %q },
		database: { file: %q },
	}`, campus, fixtureDir, filepath.Join(dir, "classutil.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0666))
	return path
}

func run(t *testing.T, args ...string) (int, string) {
	t.Helper()
	stdout := bytes.Buffer{}
	logs := bytes.Buffer{}
	code := execute(context.Background(), args, &stdout, &logs)
	return code, stdout.String()
}

func TestScrapeAndLookup(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, classutil.CAMPUS_KENSINGTON)
	snap := filepath.Join(dir, "schedule.snap")
	jsonPath := filepath.Join(dir, "schedule.json")

	code, out := run(t, "scrape", "--config", cfg, "--out", snap, "--json", jsonPath, "--csv", filepath.Join(dir, "schedule.csv"), "--db")
	require.Equal(t, EXIT_OK, code)
	require.Contains(t, out, "ACCT2522")
	require.Contains(t, out, "MATH1131")

	body, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 3)

	code, out = run(t, "lookup", "--config", cfg, "--snapshot", snap, "acct3610")
	require.Equal(t, EXIT_OK, code)
	require.Contains(t, out, "Business Analytics for Accountants")
	require.Contains(t, out, "PioneerTh")

	code, out = run(t, "lookup", "--config", cfg, "MATH1131")
	require.Equal(t, EXIT_OK, code)
	require.Contains(t, out, "Fri 13-16 (w1-10, SEB B25)")

	code, out = run(t, "lookup", "--config", cfg, "--snapshot", snap, "ACCT2523")
	require.Equal(t, EXIT_STRUCTURAL_MISMATCH, code)
	require.Contains(t, out, "did you mean: ACCT2522")
}

func TestScrapeExitCodes(t *testing.T) {
	dir := t.TempDir()

	code, _ := run(t, "scrape", "--config", writeConfig(t, dir, classutil.CAMPUS_PADDINGTON))
	require.Equal(t, EXIT_FETCH_FAILED, code)

	code, _ = run(t, "scrape", "--config", writeConfig(t, dir, 7))
	require.Equal(t, EXIT_STRUCTURAL_MISMATCH, code)

	code, _ = run(t, "scrape", "--config", writeConfig(t, dir, classutil.CAMPUS_KENSINGTON), "--group-by", "lecturer")
	require.Equal(t, EXIT_STRUCTURAL_MISMATCH, code)

	code, out := run(t, "scrape", "--config", writeConfig(t, dir, classutil.CAMPUS_KENSINGTON), "--group-by", "room")
	require.Equal(t, EXIT_OK, code)
	require.Contains(t, out, "SEB B25")
}

func TestExitCode(t *testing.T) {
	require.Equal(t, EXIT_OK, ExitCode(nil))
	require.Equal(t, EXIT_FETCH_FAILED, ExitCode(fmt.Errorf("scrape: %w", classutil.ErrFetchFailed)))
	require.Equal(t, EXIT_STRUCTURAL_MISMATCH, ExitCode(classutil.ErrStructuralMismatch))
	require.Equal(t, EXIT_STRUCTURAL_MISMATCH, ExitCode(errors.New("bad flag")))
}

func TestDaemonStoresImmediateRun(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, classutil.CAMPUS_KENSINGTON)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	code := execute(ctx, []string{"daemon", "--config", cfg, "--now"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Equal(t, EXIT_OK, code)

	code, out := run(t, "lookup", "--config", cfg, "ACCT2522")
	require.Equal(t, EXIT_OK, code)
	require.Contains(t, out, "ACCT2522")
}
