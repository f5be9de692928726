// Package pending holds registrations awaiting OTP confirmation, keyed by
// email.
package pending

import (
	"context"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

type Repository interface {
	// Upsert stores p, replacing any entry for the same email.
	Upsert(ctx context.Context, p *models.PendingRegistration) error
	// FindForUpdate loads and row-locks the entry for email. Must run
	// inside a transaction for the lock to be held.
	FindForUpdate(ctx context.Context, email string) (*models.PendingRegistration, error)
	Delete(ctx context.Context, email string) error
	// DeleteExpired purges entries whose expiry is at or before the
	// given instant.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
