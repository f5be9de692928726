// Package dbx provides the small database abstractions shared by the
// repositories: DBTX (satisfied by *sql.DB and *sql.Tx), transaction helpers
// and classification of driver errors.
package dbx

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of database/sql used by the repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc is the unit of work run inside a transaction.
type TxFunc func(ctx context.Context, tx DBTX) error

// Transactor runs units of work atomically.
type Transactor interface {
	RunInTx(ctx context.Context, fn TxFunc) error
}

// WithTx begins a transaction, runs fn with it and commits on success. On
// error or panic the transaction is rolled back; panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// SQLTransactor is a Transactor over a *sql.DB pool.
type SQLTransactor struct {
	db   *sql.DB
	opts *sql.TxOptions
}

func NewSQLTransactor(db *sql.DB, opts *sql.TxOptions) *SQLTransactor {
	return &SQLTransactor{db: db, opts: opts}
}

func (t *SQLTransactor) RunInTx(ctx context.Context, fn TxFunc) error {
	return WithTx(ctx, t.db, t.opts, fn)
}

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
