package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const accessTokenKey ctxKey = "accessToken"

// accessTokenInterceptor copies the caller's access token, if any, into the
// context. The token is validated by the service, not here.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if token := accessTokenFromMetadata(md); token != "" {
			ctx = context.WithValue(ctx, accessTokenKey, token)
		}
	}
	return handler(ctx, req)
}

func accessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "grpc call",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
