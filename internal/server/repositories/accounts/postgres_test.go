package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

var accountCols = []string{"id", "name", "username", "email", "password_hash", "date_of_birth", "email_verified", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleAccount() *models.Account {
	return &models.Account{
		ID:            "a-1",
		Name:          "Alice",
		UserName:      "alice",
		Email:         "alice@example.com",
		PasswordHash:  "$2a$hash",
		DateOfBirth:   time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		EmailVerified: true,
		CreatedAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

const insertQ = `(?s)^INSERT\s+INTO\s+accounts\s*\(id,\s*name,\s*username,\s*email,\s*password_hash,\s*date_of_birth,\s*email_verified,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*$`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	a := sampleAccount()
	mock.ExpectExec(insertQ).
		WithArgs(a.ID, a.Name, a.UserName, a.Email, a.PasswordHash, a.DateOfBirth, a.EmailVerified, a.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), sampleAccount())
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), sampleAccount())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByUserName_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	a := sampleAccount()
	q := `(?s)^\s*SELECT\s+id,\s*name,\s*username,.*FROM\s+accounts\s+WHERE\s+username\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow(a.ID, a.Name, a.UserName, a.Email, a.PasswordHash, a.DateOfBirth, a.EmailVerified, a.CreatedAt))

	got, err := repo.GetByUserName(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUserName error: %v", err)
	}
	if got.ID != "a-1" || got.Email != "alice@example.com" || !got.EmailVerified {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGetByUserName_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*FROM\s+accounts\s+WHERE\s+username\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserName(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("alice@example.com").WillReturnError(errors.New("boom"))

	_, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err == nil || !regexp.MustCompile(`db error: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestExistsByUserNameOrEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+accounts\s+WHERE\s+username\s*=\s*\$1\s+OR\s+email\s*=\s*\$2\)\s*$`
	mock.ExpectQuery(q).
		WithArgs("alice", "alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByUserNameOrEmail(context.Background(), "alice", "alice@example.com")
	if err != nil || !ok {
		t.Fatalf("expected true,nil got %v,%v", ok, err)
	}
}

const updateQ = `(?s)^\s*UPDATE\s+accounts\s+SET\s+name\s*=\s*\$1,.*WHERE\s+username\s*=\s*\$7\s*$`

func TestReplace_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	a := sampleAccount()
	a.Name = "Alice B"
	mock.ExpectExec(updateQ).
		WithArgs(a.Name, a.UserName, a.Email, a.PasswordHash, a.DateOfBirth, a.EmailVerified, "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Replace(context.Background(), "alice", a); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
}

func TestReplace_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateQ).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Replace(context.Background(), "ghost", sampleAccount())
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestReplace_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateQ).WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Replace(context.Background(), "alice", sampleAccount())
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDeleteByUserName(t *testing.T) {
	q := `(?s)^\s*DELETE\s+FROM\s+accounts\s+WHERE\s+username\s*=\s*\$1\s*$`

	t.Run("deleted", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 1))
		if err := repo.DeleteByUserName(context.Background(), "alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
		if err := repo.DeleteByUserName(context.Background(), "ghost"); !errors.Is(err, common.ErrorNotFound) {
			t.Fatalf("expected ErrorNotFound, got %v", err)
		}
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WithArgs("alice").WillReturnError(errors.New("db err"))
		err := repo.DeleteByUserName(context.Background(), "alice")
		if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
			t.Fatalf("expected wrapped db error, got %v", err)
		}
	})
}
