// Package sessions declares the refresh-token session store and its
// PostgreSQL implementation.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// Repository stores refresh-token sessions. Expiry is not enforced here;
// callers check Session.Expired when a token is presented.
type Repository interface {
	Create(ctx context.Context, s *models.Session) error
	FindByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	// DeleteByRefreshToken fails with common.ErrorNotFound when the token
	// was already consumed.
	DeleteByRefreshToken(ctx context.Context, token string) error
	// DeleteByUserName revokes every session of the user and reports how
	// many were removed. Zero is not an error.
	DeleteByUserName(ctx context.Context, userName string) (int64, error)
}
