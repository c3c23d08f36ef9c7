// Package repositories implements the persistence contracts of the notice and
// todo domains on PostgreSQL. Every repository runs against either the shared
// connection pool or a transaction, selected by the owning store.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
)

// queryExecutor abstracts sql.DB and sql.Tx.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

type baseRepo struct {
	conn *postgres.Connection
	tx   *sql.Tx
	log  logging.Logger
}

func (r *baseRepo) executor() queryExecutor {
	if r.tx != nil {
		return r.tx
	}
	return r.conn.DB()
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

// nullTimePtr converts a scanned nullable timestamp to a *time.Time.
func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// nullInt64Ptr converts a scanned nullable bigint to an *int64.
func nullInt64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

//Personal.AI order the ending
