package models

import "time"

// PendingRegistration waits for its OTP to be confirmed. There is at most one
// per email; registering the same email again replaces it.
type PendingRegistration struct {
	Email        string
	Name         string
	UserName     string
	PasswordHash string
	DateOfBirth  time.Time
	OTP          string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Expired reports whether the OTP can no longer be used at now.
func (p *PendingRegistration) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
