package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "accountkeeper.AccountService"

const (
	MethodRegister   = "Register"
	MethodVerifyOtp  = "VerifyOtp"
	MethodLogin      = "Login"
	MethodRefresh    = "Refresh"
	MethodLogout     = "Logout"
	MethodGetUser    = "GetUser"
	MethodDeleteUser = "DeleteUser"
	MethodUpdateUser = "UpdateUser"
	MethodPing       = "Ping"
)

// FullMethod returns the gRPC path of method, e.g.
// "/accountkeeper.AccountService/Login".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AccountServiceServer is implemented by the server transport.
type AccountServiceServer interface {
	Register(context.Context, *RegisterRequest) (*StatusResponse, error)
	VerifyOtp(context.Context, *VerifyOtpRequest) (*StatusResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	Refresh(context.Context, *RefreshRequest) (*TokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*StatusResponse, error)
	GetUser(context.Context, *GetUserRequest) (*User, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*StatusResponse, error)
	UpdateUser(context.Context, *UpdateUserRequest) (*User, error)
	Ping(context.Context, *PingRequest) (*StatusResponse, error)
}

func unary[Req, Resp any](method string, call func(AccountServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(AccountServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// AccountServiceDesc describes the service for grpc.Server.RegisterService.
var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegister, AccountServiceServer.Register),
		unary(MethodVerifyOtp, AccountServiceServer.VerifyOtp),
		unary(MethodLogin, AccountServiceServer.Login),
		unary(MethodRefresh, AccountServiceServer.Refresh),
		unary(MethodLogout, AccountServiceServer.Logout),
		unary(MethodGetUser, AccountServiceServer.GetUser),
		unary(MethodDeleteUser, AccountServiceServer.DeleteUser),
		unary(MethodUpdateUser, AccountServiceServer.UpdateUser),
		unary(MethodPing, AccountServiceServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accountkeeper/api",
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountServiceDesc, srv)
}

// AccountServiceClient is the client stub. Every call uses the JSON codec.
type AccountServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountServiceClient(cc grpc.ClientConnInterface) *AccountServiceClient {
	return &AccountServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AccountServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *AccountServiceClient) VerifyOtp(ctx context.Context, in *VerifyOtpRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, MethodVerifyOtp, in, opts)
}

func (c *AccountServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *AccountServiceClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodRefresh, in, opts)
}

func (c *AccountServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, MethodLogout, in, opts)
}

func (c *AccountServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, MethodGetUser, in, opts)
}

func (c *AccountServiceClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, MethodDeleteUser, in, opts)
}

func (c *AccountServiceClient) UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, MethodUpdateUser, in, opts)
}

func (c *AccountServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, MethodPing, in, opts)
}
