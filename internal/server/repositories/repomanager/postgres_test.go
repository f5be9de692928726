package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/pending"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/sessions"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager()

	if a := m.Accounts(db); a == nil {
		t.Fatal("Accounts() nil")
	}
	if s := m.Sessions(db); s == nil {
		t.Fatal("Sessions() nil")
	}
	if p := m.Pending(db); p == nil {
		t.Fatal("Pending() nil")
	}

	var _ accounts.Repository = m.Accounts(db)
	var _ sessions.Repository = m.Sessions(db)
	var _ pending.Repository = m.Pending(db)
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestOpenPostgres(t *testing.T) {
	orig := sqlOpen
	defer func() { sqlOpen = orig }()

	t.Run("ping ok", func(t *testing.T) {
		db, mock := newDB(t)
		mock.ExpectPing()
		sqlOpen = func(driver, dsn string) (*sql.DB, error) {
			if driver != "pgx" || dsn != "postgres://x" {
				t.Fatalf("unexpected open(%q, %q)", driver, dsn)
			}
			return db, nil
		}
		got, err := OpenPostgres(context.Background(), "postgres://x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != db {
			t.Fatal("expected the opened pool")
		}
		_ = got.Close()
	})

	t.Run("ping fails", func(t *testing.T) {
		db, mock := newDB(t)
		mock.ExpectPing().WillReturnError(errors.New("refused"))
		mock.ExpectClose()
		sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }
		if _, err := OpenPostgres(context.Background(), "postgres://x"); err == nil {
			t.Fatal("expected ping error")
		}
	})

	t.Run("open fails", func(t *testing.T) {
		sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("bad dsn") }
		if _, err := OpenPostgres(context.Background(), "::"); err == nil {
			t.Fatal("expected open error")
		}
	})
}
