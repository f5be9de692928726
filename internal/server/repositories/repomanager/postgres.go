// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/pending"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/sessions"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// Sessions returns a sessions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewPostgresRepository(db)
}

// Pending returns a pending.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Pending(db dbx.DBTX) pending.Repository {
	return pending.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// OpenPostgres opens a pgx-backed pool for dsn and checks it is reachable.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}
