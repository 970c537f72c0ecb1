// Package database stores fill run history in PostgreSQL.
//
// The query layer (db.go, models.go, *.sql.go) follows sqlc's generated
// layout over a DBTX interface so it runs against a pool, a connection or a
// transaction alike. [RunStore] adapts it to core.RunStore.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/framefill/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// EnsureSchema creates the fill_runs table and its index if missing.
func (q *Queries) EnsureSchema(ctx context.Context) error {
	if err := q.CreateFillRunsTable(ctx); err != nil {
		return fmt.Errorf("create fill_runs: %w", err)
	}
	if err := q.CreateFillRunsStartedIndex(ctx); err != nil {
		return fmt.Errorf("create fill_runs index: %w", err)
	}
	return nil
}

// RunStore implements core.RunStore on top of Queries.
type RunStore struct {
	q *Queries
}

var _ core.RunStore = (*RunStore)(nil)

// NewRunStore wraps db. Call EnsureSchema once before first use.
func NewRunStore(db DBTX) *RunStore {
	return &RunStore{q: New(db)}
}

// EnsureSchema creates the tables the store needs.
func (s *RunStore) EnsureSchema(ctx context.Context) error {
	return s.q.EnsureSchema(ctx)
}

func (s *RunStore) RecordRun(ctx context.Context, run core.Run) error {
	err := s.q.InsertFillRun(ctx, InsertFillRunParams{
		ID:         toPgUUID(run.ID),
		Frame:      run.Frame,
		Source:     run.Source,
		Rows:       int32(run.Rows),
		Characters: int32(run.Characters),
		Status:     string(run.Status),
		Error:      toPgText(run.Error),
		IpAddress:  toPgText(run.IPAddress),
		UserAgent:  toPgText(run.UserAgent),
		StartedAt:  toPgTimestamptz(run.StartedAt),
		FinishedAt: toPgTimestamptz(run.FinishedAt),
	})
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]core.Run, error) {
	if limit <= 0 {
		limit = core.DefaultRunLimit
	}
	rows, err := s.q.ListFillRuns(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	runs := make([]core.Run, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, fillRunToRun(row))
	}
	return runs, nil
}

func (s *RunStore) GetRun(ctx context.Context, id uuid.UUID) (*core.Run, error) {
	row, err := s.q.GetFillRun(ctx, toPgUUID(id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	run := fillRunToRun(row)
	return &run, nil
}

// Helper functions for type conversion

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func toPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func fillRunToRun(row FillRun) core.Run {
	run := core.Run{
		Frame:      row.Frame,
		Source:     row.Source,
		Rows:       int(row.Rows),
		Characters: int(row.Characters),
		Status:     core.RunStatus(row.Status),
		StartedAt:  row.StartedAt.Time,
		FinishedAt: row.FinishedAt.Time,
	}
	if row.ID.Valid {
		run.ID = uuid.UUID(row.ID.Bytes)
	}
	if row.Error.Valid {
		run.Error = row.Error.String
	}
	if row.IpAddress.Valid {
		run.IPAddress = row.IpAddress.String
	}
	if row.UserAgent.Valid {
		run.UserAgent = row.UserAgent.String
	}
	return run
}
