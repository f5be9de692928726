// Package accounts provides the PostgreSQL-backed account repository.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

const selectAccount = `
		SELECT id, name, username, email, password_hash, date_of_birth, email_verified, created_at
		FROM accounts
	`

// PostgresRepository implements Repository over dbx.DBTX, so it works the
// same on a pool or inside a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) error {
	query := `
		INSERT INTO accounts (id, name, username, email, password_hash, date_of_birth, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Name, a.UserName, a.Email, a.PasswordHash, a.DateOfBirth, a.EmailVerified, a.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByUserName(ctx context.Context, userName string) (*models.Account, error) {
	return r.getOne(ctx, selectAccount+"WHERE username = $1", userName)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, selectAccount+"WHERE email = $1", email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Name, &a.UserName, &a.Email, &a.PasswordHash, &a.DateOfBirth, &a.EmailVerified, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1 OR email = $2)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userName, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Replace overwrites every mutable column of the account currently named
// userName. id and created_at are never rewritten.
func (r *PostgresRepository) Replace(ctx context.Context, userName string, a *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, username = $2, email = $3, password_hash = $4, date_of_birth = $5, email_verified = $6
		WHERE username = $7
	`
	res, err := r.db.ExecContext(ctx, query,
		a.Name, a.UserName, a.Email, a.PasswordHash, a.DateOfBirth, a.EmailVerified, userName)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) DeleteByUserName(ctx context.Context, userName string) error {
	query := `
		DELETE FROM accounts
		WHERE username = $1
	`
	res, err := r.db.ExecContext(ctx, query, userName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
