package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
)

// fakeAccounts records the last call and returns the configured result.
type fakeAccounts struct {
	err     error
	pair    *services.TokenPair
	account *models.Account

	gotRegister *services.RegisterInput
	gotToken    string
	gotUser     string
	gotPatch    []byte
	gotEmail    string
	gotOtp      string
}

func (f *fakeAccounts) Register(ctx context.Context, in *services.RegisterInput) error {
	f.gotRegister = in
	return f.err
}

func (f *fakeAccounts) VerifyOtp(ctx context.Context, email, otp string) error {
	f.gotEmail, f.gotOtp = email, otp
	return f.err
}

func (f *fakeAccounts) Login(ctx context.Context, userName, password string) (*services.TokenPair, error) {
	f.gotUser = userName
	if f.err != nil {
		return nil, f.err
	}
	return f.pair, nil
}

func (f *fakeAccounts) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	f.gotToken = refreshToken
	if f.err != nil {
		return nil, f.err
	}
	return f.pair, nil
}

func (f *fakeAccounts) Logout(ctx context.Context, accessToken string) error {
	f.gotToken = accessToken
	return f.err
}

func (f *fakeAccounts) GetUser(ctx context.Context, accessToken, userName string) (*models.Account, error) {
	f.gotToken, f.gotUser = accessToken, userName
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

func (f *fakeAccounts) DeleteUser(ctx context.Context, accessToken, userName string) error {
	f.gotToken, f.gotUser = accessToken, userName
	return f.err
}

func (f *fakeAccounts) UpdateUser(ctx context.Context, accessToken, userName string, patch []byte) (*models.Account, error) {
	f.gotToken, f.gotUser, f.gotPatch = accessToken, userName, patch
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

func sampleAccount() *models.Account {
	return &models.Account{
		ID:            "a-1",
		Name:          "Alice",
		UserName:      "alice",
		Email:         "a@x.com",
		PasswordHash:  "$2a$04$secret",
		DateOfBirth:   time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		EmailVerified: true,
		CreatedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}
