package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueries(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenDB(Config{File: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	qry := New(conn)
	_, err = qry.GetLatestScrapeRun(ctx)
	require.ErrorIs(t, err, sql.ErrNoRows)

	makeTx := NewMakeTx(conn)
	tx, discard, commit, err := makeTx(ctx)
	require.NoError(t, err)
	defer discard()

	runID, err := tx.CreateScrapeRun(ctx, CreateScrapeRunParams{
		ScrapedAt: 100,
		RootUrl:   "http://classutil.unsw.edu.au/",
		Term:      "T1",
		GroupBy:   "course",
	})
	require.NoError(t, err)

	sessions := []CreateSessionParams{
		{RunID: runID, Position: 0, GroupKey: "MATH1131", CourseName: "Mathematics 1A", ComponentType: "TUT", ClassCode: "M09A", Location: "Mon"},
		{RunID: runID, Position: 1, GroupKey: "ACCT2522", CourseName: "Management Accounting 1", ComponentType: "LEC", ClassCode: "W09A", Location: "Wed"},
		{RunID: runID, Position: 2, GroupKey: "MATH1131", CourseName: "Mathematics 1A", ComponentType: "TLB", ClassCode: "L01", Location: "Fri"},
	}
	for _, s := range sessions {
		require.NoError(t, tx.CreateSession(ctx, s))
	}
	require.NoError(t, commit())

	latest, err := qry.GetLatestScrapeRun(ctx)
	require.NoError(t, err)
	require.Equal(t, runID, latest.ID)
	require.Equal(t, "T1", latest.Term)

	keys, err := qry.GetRunKeys(ctx, runID)
	require.NoError(t, err)
	require.Equal(t, []string{"MATH1131", "ACCT2522"}, keys)

	math, err := qry.GetRunSessionsForKey(ctx, GetRunSessionsForKeyParams{RunID: runID, GroupKey: "MATH1131"})
	require.NoError(t, err)
	require.Len(t, math, 2)
	require.Equal(t, "L01", math[1].ClassCode)

	all, err := qry.GetRunSessions(ctx, runID)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestDiscardRollsBack(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenDB(Config{File: filepath.Join(t.TempDir(), "nested", "classutil.db")})
	require.NoError(t, err)
	defer conn.Close()

	tx, discard, _, err := NewMakeTx(conn)(ctx)
	require.NoError(t, err)
	_, err = tx.CreateScrapeRun(ctx, CreateScrapeRunParams{ScrapedAt: 1, RootUrl: "x", Term: "T1", GroupBy: "course"})
	require.NoError(t, err)
	require.NoError(t, discard())

	_, err = New(conn).GetLatestScrapeRun(ctx)
	require.ErrorIs(t, err, sql.ErrNoRows)
}
