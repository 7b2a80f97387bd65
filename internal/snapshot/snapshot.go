package snapshot

import (
	"classutil-backend/internal/components/assert"
	"classutil-backend/internal/components/chrono"
	"classutil-backend/internal/components/telemetry"
	"classutil-backend/internal/db"
	"classutil-backend/internal/scrapers/classutil"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	report_db_query = "db.query"
	report_save     = "snapshot.save"
	report_prune    = "snapshot.prune"
)

// ErrNoSnapshot is returned when the database holds no scrape run yet.
var ErrNoSnapshot = errors.New("snapshot: no scrape run stored")

// RunInfo describes the inputs of the scrape that produced a schedule.
type RunInfo struct {
	RootUrl string
	Term    string
	Campus  int
}

type Run struct {
	ID        int64
	ScrapedAt time.Time
	GroupBy   string
	RunInfo
}

// Store keeps every scrape run in the database, each run holds a full copy
// of its schedule.
type Store struct {
	db     *db.Queries
	makeTx db.MakeTx
	time   chrono.TimeAPI
	tel    telemetry.API
}

func NewStore(
	db *db.Queries,
	makeTx db.MakeTx,
	time chrono.TimeAPI,
	tel telemetry.API,
) Store {
	assert.NotNil(db)
	assert.NotNil(makeTx)
	assert.NotNil(time)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("snapshot", tel)

	return Store{
		db:     db,
		makeTx: makeTx,
		time:   time,
		tel:    tel,
	}
}

// Save writes the schedule as a new run and returns its id.
func (s Store) Save(ctx context.Context, info RunInfo, schedule *classutil.Schedule) (int64, error) {
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("make tx: %w", err))
		return 0, err
	}
	defer discard()

	runParams := db.CreateScrapeRunParams{
		ScrapedAt: s.time.Now().Unix(),
		RootUrl:   info.RootUrl,
		Term:      info.Term,
		Campus:    int64(info.Campus),
		GroupBy:   schedule.GroupBy().Name(),
	}
	runID, err := tx.CreateScrapeRun(ctx, runParams)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "CreateScrapeRun", runParams)
		return 0, err
	}

	var position int64
	for _, entry := range schedule.Entries() {
		for _, record := range entry.Sessions {
			param := db.CreateSessionParams{
				RunID:         runID,
				Position:      position,
				GroupKey:      entry.Key,
				CourseName:    record.CourseName,
				ComponentType: string(record.ComponentType),
				ClassCode:     record.ClassCode,
				Location:      record.Location,
			}
			err = tx.CreateSession(ctx, param)
			if err != nil {
				s.tel.ReportBroken(report_db_query, err, "CreateSession", param)
				return 0, err
			}
			position++
		}
	}

	err = commit()
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("commit: %w", err))
		return 0, err
	}
	s.tel.ReportCount(report_save, position)
	return runID, nil
}

func (s Store) latestRun(ctx context.Context) (Run, error) {
	row, err := s.db.GetLatestScrapeRun(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoSnapshot
	}
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetLatestScrapeRun")
		return Run{}, err
	}
	return Run{
		ID:        row.ID,
		ScrapedAt: time.Unix(row.ScrapedAt, 0),
		GroupBy:   row.GroupBy,
		RunInfo: RunInfo{
			RootUrl: row.RootUrl,
			Term:    row.Term,
			Campus:  int(row.Campus),
		},
	}, nil
}

// Latest loads the schedule of the most recent run.
func (s Store) Latest(ctx context.Context) (*classutil.Schedule, Run, error) {
	run, err := s.latestRun(ctx)
	if err != nil {
		return nil, Run{}, err
	}

	groupBy, err := classutil.GroupingByName(run.GroupBy)
	if err != nil {
		return nil, Run{}, err
	}

	rows, err := s.db.GetRunSessions(ctx, run.ID)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetRunSessions", run.ID)
		return nil, Run{}, err
	}

	var entries []classutil.Entry
	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.GroupKey]
		if !ok {
			i = len(entries)
			index[row.GroupKey] = i
			entries = append(entries, classutil.Entry{Key: row.GroupKey})
		}
		entries[i].Sessions = append(entries[i].Sessions, recordFromRow(row))
	}
	return classutil.RestoreSchedule(groupBy, entries), run, nil
}

// Lookup returns the records filed under key in the most recent run, ok is
// false when the key is unknown.
func (s Store) Lookup(ctx context.Context, key string) (records []classutil.SessionRecord, ok bool, err error) {
	run, err := s.latestRun(ctx)
	if err != nil {
		return nil, false, err
	}

	param := db.GetRunSessionsForKeyParams{RunID: run.ID, GroupKey: key}
	rows, err := s.db.GetRunSessionsForKey(ctx, param)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetRunSessionsForKey", param)
		return nil, false, err
	}
	for _, row := range rows {
		records = append(records, recordFromRow(row))
	}
	return records, len(records) > 0, nil
}

// Keys returns the keys of the most recent run in insertion order.
func (s Store) Keys(ctx context.Context) ([]string, error) {
	run, err := s.latestRun(ctx)
	if err != nil {
		return nil, err
	}
	keys, err := s.db.GetRunKeys(ctx, run.ID)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetRunKeys", run.ID)
		return nil, err
	}
	return keys, nil
}

// Prune deletes every run except the most recent keep runs.
func (s Store) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}

	oldestKept, err := s.db.GetNthLatestScrapeRunID(ctx, int64(keep-1))
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetNthLatestScrapeRunID", keep)
		return err
	}

	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("make tx: %w", err))
		return err
	}
	defer discard()

	err = tx.DeleteSessionsBefore(ctx, oldestKept)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "DeleteSessionsBefore", oldestKept)
		return err
	}
	err = tx.DeleteScrapeRunsBefore(ctx, oldestKept)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "DeleteScrapeRunsBefore", oldestKept)
		return err
	}

	err = commit()
	if err != nil {
		s.tel.ReportBroken(report_prune, fmt.Errorf("commit: %w", err))
		return err
	}
	s.tel.ReportDebug(report_prune, oldestKept)
	return nil
}

func recordFromRow(row db.Session) classutil.SessionRecord {
	return classutil.SessionRecord{
		CourseName:    row.CourseName,
		ComponentType: classutil.ComponentType(row.ComponentType),
		ClassCode:     row.ClassCode,
		Location:      row.Location,
	}
}
