package models

import "time"

// Session is a live refresh token. Jti ties it to the access token minted in
// the same login.
type Session struct {
	ID           string
	RefreshToken string
	ExpiresAt    time.Time
	UserName     string
	Jti          string
	CreatedAt    time.Time
}

// Expired reports whether the refresh token is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
