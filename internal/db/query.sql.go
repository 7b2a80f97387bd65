package db

import (
	"context"
)

const createScrapeRun = `
insert into scrape_run(scraped_at, root_url, term, campus, group_by)
values (?, ?, ?, ?, ?)
returning id
`

type CreateScrapeRunParams struct {
	ScrapedAt int64
	RootUrl   string
	Term      string
	Campus    int64
	GroupBy   string
}

func (q *Queries) CreateScrapeRun(ctx context.Context, arg CreateScrapeRunParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createScrapeRun,
		arg.ScrapedAt,
		arg.RootUrl,
		arg.Term,
		arg.Campus,
		arg.GroupBy,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createSession = `
insert into session(run_id, position, group_key, course_name, component_type, class_code, location)
values (?, ?, ?, ?, ?, ?, ?)
`

type CreateSessionParams struct {
	RunID         int64
	Position      int64
	GroupKey      string
	CourseName    string
	ComponentType string
	ClassCode     string
	Location      string
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.db.ExecContext(ctx, createSession,
		arg.RunID,
		arg.Position,
		arg.GroupKey,
		arg.CourseName,
		arg.ComponentType,
		arg.ClassCode,
		arg.Location,
	)
	return err
}

const getLatestScrapeRun = `
select id, scraped_at, root_url, term, campus, group_by from scrape_run
order by scraped_at desc, id desc
limit 1
`

func (q *Queries) GetLatestScrapeRun(ctx context.Context) (ScrapeRun, error) {
	row := q.db.QueryRowContext(ctx, getLatestScrapeRun)
	var i ScrapeRun
	err := row.Scan(
		&i.ID,
		&i.ScrapedAt,
		&i.RootUrl,
		&i.Term,
		&i.Campus,
		&i.GroupBy,
	)
	return i, err
}

const getRunSessions = `
select run_id, position, group_key, course_name, component_type, class_code, location from session
where run_id = ?
order by position asc
`

func (q *Queries) GetRunSessions(ctx context.Context, runID int64) ([]Session, error) {
	rows, err := q.db.QueryContext(ctx, getRunSessions, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

const getRunSessionsForKey = `
select run_id, position, group_key, course_name, component_type, class_code, location from session
where run_id = ? and group_key = ?
order by position asc
`

type GetRunSessionsForKeyParams struct {
	RunID    int64
	GroupKey string
}

func (q *Queries) GetRunSessionsForKey(ctx context.Context, arg GetRunSessionsForKeyParams) ([]Session, error) {
	rows, err := q.db.QueryContext(ctx, getRunSessionsForKey, arg.RunID, arg.GroupKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

const getRunKeys = `
select group_key from session
where run_id = ?
group by group_key
order by min(position) asc
`

func (q *Queries) GetRunKeys(ctx context.Context, runID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getRunKeys, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		items = append(items, key)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteSessionsBefore = `
delete from session where run_id < ?
`

func (q *Queries) DeleteSessionsBefore(ctx context.Context, runID int64) error {
	_, err := q.db.ExecContext(ctx, deleteSessionsBefore, runID)
	return err
}

const deleteScrapeRunsBefore = `
delete from scrape_run where id < ?
`

func (q *Queries) DeleteScrapeRunsBefore(ctx context.Context, runID int64) error {
	_, err := q.db.ExecContext(ctx, deleteScrapeRunsBefore, runID)
	return err
}

const getNthLatestScrapeRunID = `
select id from scrape_run
order by id desc
limit 1 offset ?
`

// GetNthLatestScrapeRunID returns the id of the run with n newer runs above it.
func (q *Queries) GetNthLatestScrapeRunID(ctx context.Context, n int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, getNthLatestScrapeRunID, n)
	var id int64
	err := row.Scan(&id)
	return id, err
}

func scanSessions(rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}) ([]Session, error) {
	var items []Session
	for rows.Next() {
		var i Session
		if err := rows.Scan(
			&i.RunID,
			&i.Position,
			&i.GroupKey,
			&i.CourseName,
			&i.ComponentType,
			&i.ClassCode,
			&i.Location,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
