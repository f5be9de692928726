// Package models holds the records owned by the account service.
package models

import "time"

// Account is a verified user. The JSON names are the field names accepted by
// partial updates.
type Account struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	UserName      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"passwordHash"`
	DateOfBirth   time.Time `json:"dateOfBirth"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}
