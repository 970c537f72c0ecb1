package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createFillRunsTable = `-- name: CreateFillRunsTable :exec
CREATE TABLE IF NOT EXISTS fill_runs (
    id          UUID PRIMARY KEY,
    frame       TEXT NOT NULL,
    source      TEXT NOT NULL,
    row_count   INTEGER NOT NULL DEFAULT 0,
    characters  INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL,
    error       TEXT,
    ip_address  TEXT,
    user_agent  TEXT,
    started_at  TIMESTAMPTZ NOT NULL,
    finished_at TIMESTAMPTZ NOT NULL
)
`

func (q *Queries) CreateFillRunsTable(ctx context.Context) error {
	_, err := q.db.Exec(ctx, createFillRunsTable)
	return err
}

const createFillRunsStartedIndex = `-- name: CreateFillRunsStartedIndex :exec
CREATE INDEX IF NOT EXISTS fill_runs_started_at_idx ON fill_runs (started_at DESC)
`

func (q *Queries) CreateFillRunsStartedIndex(ctx context.Context) error {
	_, err := q.db.Exec(ctx, createFillRunsStartedIndex)
	return err
}

const insertFillRun = `-- name: InsertFillRun :exec
INSERT INTO fill_runs (
    id, frame, source, row_count, characters, status, error, ip_address, user_agent, started_at, finished_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
)
`

type InsertFillRunParams struct {
	ID         pgtype.UUID
	Frame      string
	Source     string
	Rows       int32
	Characters int32
	Status     string
	Error      pgtype.Text
	IpAddress  pgtype.Text
	UserAgent  pgtype.Text
	StartedAt  pgtype.Timestamptz
	FinishedAt pgtype.Timestamptz
}

func (q *Queries) InsertFillRun(ctx context.Context, arg InsertFillRunParams) error {
	_, err := q.db.Exec(ctx, insertFillRun,
		arg.ID,
		arg.Frame,
		arg.Source,
		arg.Rows,
		arg.Characters,
		arg.Status,
		arg.Error,
		arg.IpAddress,
		arg.UserAgent,
		arg.StartedAt,
		arg.FinishedAt,
	)
	return err
}

const listFillRuns = `-- name: ListFillRuns :many
SELECT id, frame, source, row_count, characters, status, error, ip_address, user_agent, started_at, finished_at
FROM fill_runs
ORDER BY started_at DESC
LIMIT $1
`

func (q *Queries) ListFillRuns(ctx context.Context, limit int32) ([]FillRun, error) {
	rows, err := q.db.Query(ctx, listFillRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FillRun
	for rows.Next() {
		var i FillRun
		if err := rows.Scan(
			&i.ID,
			&i.Frame,
			&i.Source,
			&i.Rows,
			&i.Characters,
			&i.Status,
			&i.Error,
			&i.IpAddress,
			&i.UserAgent,
			&i.StartedAt,
			&i.FinishedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getFillRun = `-- name: GetFillRun :one
SELECT id, frame, source, row_count, characters, status, error, ip_address, user_agent, started_at, finished_at
FROM fill_runs
WHERE id = $1
`

func (q *Queries) GetFillRun(ctx context.Context, id pgtype.UUID) (FillRun, error) {
	row := q.db.QueryRow(ctx, getFillRun, id)
	var i FillRun
	err := row.Scan(
		&i.ID,
		&i.Frame,
		&i.Source,
		&i.Rows,
		&i.Characters,
		&i.Status,
		&i.Error,
		&i.IpAddress,
		&i.UserAgent,
		&i.StartedAt,
		&i.FinishedAt,
	)
	return i, err
}
