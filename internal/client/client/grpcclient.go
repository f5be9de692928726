package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/accountkeeper/internal/api"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// accountAPI is the subset of *api.AccountServiceClient the client uses.
type accountAPI interface {
	Register(ctx context.Context, in *api.RegisterRequest, opts ...grpc.CallOption) (*api.StatusResponse, error)
	VerifyOtp(ctx context.Context, in *api.VerifyOtpRequest, opts ...grpc.CallOption) (*api.StatusResponse, error)
	Login(ctx context.Context, in *api.LoginRequest, opts ...grpc.CallOption) (*api.TokenResponse, error)
	Refresh(ctx context.Context, in *api.RefreshRequest, opts ...grpc.CallOption) (*api.TokenResponse, error)
	Logout(ctx context.Context, in *api.LogoutRequest, opts ...grpc.CallOption) (*api.StatusResponse, error)
	GetUser(ctx context.Context, in *api.GetUserRequest, opts ...grpc.CallOption) (*api.User, error)
	DeleteUser(ctx context.Context, in *api.DeleteUserRequest, opts ...grpc.CallOption) (*api.StatusResponse, error)
	UpdateUser(ctx context.Context, in *api.UpdateUserRequest, opts ...grpc.CallOption) (*api.User, error)
	Ping(ctx context.Context, in *api.PingRequest, opts ...grpc.CallOption) (*api.StatusResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      accountAPI

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// Methods that never carry or refresh an access token.
var anonymousMethods = map[string]struct{}{
	api.FullMethod(api.MethodRegister):  {},
	api.FullMethod(api.MethodVerifyOtp): {},
	api.FullMethod(api.MethodLogin):     {},
	api.FullMethod(api.MethodRefresh):   {},
	api.FullMethod(api.MethodPing):      {},
}

func withAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

// accessTokenInterceptor attaches the access token. When the server answers
// an authenticated call with ErrInvalidToken and a refresh token is held, the
// pair is rotated once and the call retried.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if _, ok := anonymousMethods[method]; ok {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	accessToken, refreshToken := s.tokens()

	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
	if err == nil || refreshToken == "" {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrInvalidToken.Error() {
		return err
	}

	resp, rerr := s.client.Refresh(ctx, &api.RefreshRequest{RefreshToken: refreshToken})
	if rerr != nil {
		s.setTokens("", "")
		return err
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient connects to endpointURL without transport security. Extra
// dial options are appended, which lets tests dial an in-memory listener.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewAccountServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, req *api.RegisterRequest) error {
	if _, err := s.client.Register(ctx, req); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCClient) VerifyOtp(ctx context.Context, email, otp string) error {
	if _, err := s.client.VerifyOtp(ctx, &api.VerifyOtpRequest{Email: email, Otp: otp}); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCClient) Login(ctx context.Context, userName string, password []byte) error {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: userName, Password: string(password)})
	if err != nil {
		return mapError(err)
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (s *GRPCClient) Refresh(ctx context.Context) error {
	_, refreshToken := s.tokens()
	if refreshToken == "" {
		return ErrNotLoggedIn
	}
	resp, err := s.client.Refresh(ctx, &api.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		s.setTokens("", "")
		return mapError(err)
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Logout revokes every session of the user on the server and forgets the
// local tokens.
func (s *GRPCClient) Logout(ctx context.Context) error {
	if accessToken, _ := s.tokens(); accessToken == "" {
		return ErrNotLoggedIn
	}
	if _, err := s.client.Logout(ctx, &api.LogoutRequest{}); err != nil {
		return mapError(err)
	}
	s.setTokens("", "")
	return nil
}

func (s *GRPCClient) GetUser(ctx context.Context, userName string) (*api.User, error) {
	u, err := s.client.GetUser(ctx, &api.GetUserRequest{Username: userName})
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (s *GRPCClient) UpdateUser(ctx context.Context, userName string, patch []byte) (*api.User, error) {
	u, err := s.client.UpdateUser(ctx, &api.UpdateUserRequest{Username: userName, Patch: patch})
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (s *GRPCClient) DeleteUser(ctx context.Context, userName string) error {
	if _, err := s.client.DeleteUser(ctx, &api.DeleteUserRequest{Username: userName}); err != nil {
		return mapError(err)
	}
	s.setTokens("", "")
	return nil
}

// serverErrors are the kinds the server reports by their message.
var serverErrors = []error{
	common.ErrorNotFound,
	common.ErrAlreadyExists,
	common.ErrorInternal,
	common.ErrPasswordMismatch,
	common.ErrNoPendingRegistration,
	common.ErrInvalidOtp,
	common.ErrAlreadyRegistered,
	common.ErrNotificationFailed,
	common.ErrInvalidRequest,
	common.ErrValidation,
	common.ErrInvalidCredentials,
	common.ErrInvalidToken,
	common.ErrForbidden,
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	msg := st.Message()
	for _, k := range serverErrors {
		if msg == k.Error() {
			return k
		}
	}

	if prefix := common.ErrValidation.Error() + ":"; st.Code() == codes.InvalidArgument && strings.HasPrefix(msg, prefix) {
		return fmt.Errorf("%w:%s", common.ErrValidation, strings.TrimPrefix(msg, prefix))
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
