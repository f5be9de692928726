package grpc

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	headerSetCookie     = "set-cookie"
	headerCookie        = "cookie"
	headerAuthorization = "authorization"
)

func accessTokenCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

func clearedAccessTokenCookie() *http.Cookie {
	c := accessTokenCookie("", 0)
	c.MaxAge = -1
	return c
}

// setCookie sends c as a response header. Failing to set it does not fail
// the call.
func (s *GRPCServer) setCookie(ctx context.Context, c *http.Cookie) {
	if err := grpc.SetHeader(ctx, metadata.Pairs(headerSetCookie, c.String())); err != nil {
		s.logger.Warn(ctx, "could not set cookie header", "error", err)
	}
}

// accessTokenFromMetadata looks in the access_token key, a bearer
// authorization header and the access-token cookie, in that order.
func accessTokenFromMetadata(md metadata.MD) string {
	if v := md.Get(common.AccessTokenHeaderName); len(v) > 0 && v[0] != "" {
		return v[0]
	}
	if v := md.Get(headerAuthorization); len(v) > 0 {
		if token, ok := strings.CutPrefix(v[0], "Bearer "); ok && token != "" {
			return token
		}
	}
	for _, line := range md.Get(headerCookie) {
		cookies, err := http.ParseCookie(line)
		if err != nil {
			continue
		}
		for _, c := range cookies {
			if c.Name == common.AccessTokenCookieName && c.Value != "" {
				return c.Value
			}
		}
	}
	return ""
}
