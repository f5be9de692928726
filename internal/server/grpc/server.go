// Package grpc exposes the account service over gRPC with the JSON codec
// from internal/api.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/api"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"google.golang.org/grpc"
)

// AccountService is the lifecycle manager as the transport sees it.
type AccountService interface {
	Register(ctx context.Context, in *services.RegisterInput) error
	VerifyOtp(ctx context.Context, email, otp string) error
	Login(ctx context.Context, userName, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken, userName string) (*models.Account, error)
	DeleteUser(ctx context.Context, accessToken, userName string) error
	UpdateUser(ctx context.Context, accessToken, userName string, patch []byte) (*models.Account, error)
}

var _ AccountService = (*services.AccountService)(nil)

type GRPCServer struct {
	address   string
	accounts  AccountService
	logger    logging.Logger
	cookieTTL time.Duration
}

// NewGRPCServer builds a server bound to address. cookieTTL is the Max-Age
// of the access-token cookie and normally equals the access token validity.
func NewGRPCServer(address string, l logging.Logger, accounts AccountService, cookieTTL time.Duration) *GRPCServer {
	return &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		accounts:  accounts,
		cookieTTL: cookieTTL,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterAccountServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
