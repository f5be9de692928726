package api

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format of dates of birth.
const DateLayout = "2006-01-02"

type RegisterRequest struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	DateOfBirth     string `json:"dateOfBirth"`
	Email           string `json:"email"`
}

type VerifyOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse answers Login and Refresh. The access token is also set as a
// cookie in the response headers.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest is empty; the access token travels in metadata.
type LogoutRequest struct{}

type GetUserRequest struct {
	Username string `json:"username"`
}

type DeleteUserRequest struct {
	Username string `json:"username"`
}

// UpdateUserRequest carries an RFC 6902 JSON Patch against the User fields.
type UpdateUserRequest struct {
	Username string          `json:"username"`
	Patch    json.RawMessage `json:"patch"`
}

// User is an account as seen by clients. It never carries the password hash.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	DateOfBirth   string    `json:"dateOfBirth"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingRequest struct{}
