package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the session. A duplicate refresh token is reported as
// common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (id, refresh_token, expires_at, username, jti, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.RefreshToken, s.ExpiresAt, s.UserName, s.Jti, s.CreatedAt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FindByRefreshToken returns the session for token or common.ErrorNotFound.
func (r *PostgresRepository) FindByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT id, refresh_token, expires_at, username, jti, created_at
		FROM sessions
		WHERE refresh_token = $1
	`
	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&s.ID, &s.RefreshToken, &s.ExpiresAt, &s.UserName, &s.Jti, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// DeleteByRefreshToken removes the session for token. It returns
// common.ErrorNotFound when no row was deleted, so a token is consumed once
// even when two callers found it.
func (r *PostgresRepository) DeleteByRefreshToken(ctx context.Context, token string) error {
	query := `
		DELETE FROM sessions
		WHERE refresh_token = $1
	`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByUserName(ctx context.Context, userName string) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE username = $1
	`
	res, err := r.db.ExecContext(ctx, query, userName)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
