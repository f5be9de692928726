package pending

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, p *models.PendingRegistration) error {
	query := `
		INSERT INTO pending_registrations (email, name, username, password_hash, date_of_birth, otp, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			username = EXCLUDED.username,
			password_hash = EXCLUDED.password_hash,
			date_of_birth = EXCLUDED.date_of_birth,
			otp = EXCLUDED.otp,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`
	_, err := r.db.ExecContext(ctx, query,
		p.Email, p.Name, p.UserName, p.PasswordHash, p.DateOfBirth, p.OTP, p.CreatedAt, p.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindForUpdate(ctx context.Context, email string) (*models.PendingRegistration, error) {
	query := `
		SELECT email, name, username, password_hash, date_of_birth, otp, created_at, expires_at
		FROM pending_registrations
		WHERE email = $1
		FOR UPDATE
	`
	p := &models.PendingRegistration{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&p.Email, &p.Name, &p.UserName, &p.PasswordHash, &p.DateOfBirth, &p.OTP, &p.CreatedAt, &p.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	query := `
		DELETE FROM pending_registrations
		WHERE email = $1
	`
	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM pending_registrations
		WHERE expires_at <= $1
	`
	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
