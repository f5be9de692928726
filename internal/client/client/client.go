package client

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/api"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, req *api.RegisterRequest) error
	VerifyOtp(ctx context.Context, email, otp string) error
	Login(ctx context.Context, userName string, password []byte) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	GetUser(ctx context.Context, userName string) (*api.User, error)
	UpdateUser(ctx context.Context, userName string, patch []byte) (*api.User, error)
	DeleteUser(ctx context.Context, userName string) error
}
