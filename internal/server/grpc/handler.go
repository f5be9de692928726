package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/api"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
)

var statusOK = &api.StatusResponse{Status: "OK"}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.StatusResponse, error) {
	var dob time.Time
	if req.DateOfBirth != "" {
		var err error
		dob, err = time.Parse(api.DateLayout, req.DateOfBirth)
		if err != nil {
			return nil, toStatus(fmt.Errorf("%w: dateOfBirth: expected %s", common.ErrValidation, api.DateLayout))
		}
	}

	err := s.accounts.Register(ctx, &services.RegisterInput{
		Name:            req.Name,
		UserName:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		DateOfBirth:     dob,
		Email:           req.Email,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.StatusResponse{Status: "OTP sent"}, nil
}

func (s *GRPCServer) VerifyOtp(ctx context.Context, req *api.VerifyOtpRequest) (*api.StatusResponse, error) {
	if err := s.accounts.VerifyOtp(ctx, req.Email, req.Otp); err != nil {
		return nil, toStatus(err)
	}
	return &api.StatusResponse{Status: "verified"}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenResponse, error) {
	pair, err := s.accounts.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	s.setCookie(ctx, accessTokenCookie(pair.AccessToken, s.cookieTTL))
	return &api.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *api.RefreshRequest) (*api.TokenResponse, error) {
	pair, err := s.accounts.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	s.setCookie(ctx, accessTokenCookie(pair.AccessToken, s.cookieTTL))
	return &api.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *api.LogoutRequest) (*api.StatusResponse, error) {
	if err := s.accounts.Logout(ctx, accessTokenFromContext(ctx)); err != nil {
		return nil, toStatus(err)
	}
	s.setCookie(ctx, clearedAccessTokenCookie())
	return statusOK, nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *api.GetUserRequest) (*api.User, error) {
	account, err := s.accounts.GetUser(ctx, accessTokenFromContext(ctx), req.Username)
	if err != nil {
		return nil, toStatus(err)
	}
	return toUser(account), nil
}

func (s *GRPCServer) DeleteUser(ctx context.Context, req *api.DeleteUserRequest) (*api.StatusResponse, error) {
	if err := s.accounts.DeleteUser(ctx, accessTokenFromContext(ctx), req.Username); err != nil {
		return nil, toStatus(err)
	}
	s.setCookie(ctx, clearedAccessTokenCookie())
	return statusOK, nil
}

func (s *GRPCServer) UpdateUser(ctx context.Context, req *api.UpdateUserRequest) (*api.User, error) {
	account, err := s.accounts.UpdateUser(ctx, accessTokenFromContext(ctx), req.Username, req.Patch)
	if err != nil {
		return nil, toStatus(err)
	}
	return toUser(account), nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *api.PingRequest) (*api.StatusResponse, error) {
	return statusOK, nil
}

// toUser drops the password hash.
func toUser(a *models.Account) *api.User {
	u := &api.User{
		ID:            a.ID,
		Name:          a.Name,
		Username:      a.UserName,
		Email:         a.Email,
		EmailVerified: a.EmailVerified,
		CreatedAt:     a.CreatedAt,
	}
	if !a.DateOfBirth.IsZero() {
		u.DateOfBirth = a.DateOfBirth.Format(api.DateLayout)
	}
	return u
}
