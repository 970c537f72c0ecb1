package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type FillRun struct {
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
