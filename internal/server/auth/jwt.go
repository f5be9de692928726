// Package auth issues and validates the credentials handed out at login: a
// short-lived HS256 access token carrying the username and a unique jti, and
// an opaque random refresh token that is only meaningful to the session store.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// refreshTokenSize is the number of random bytes behind a refresh token.
const refreshTokenSize = 32

// Claims is the access token payload.
type Claims struct {
	jwt.RegisteredClaims
	UserName string `json:"userName"`
}

// Issuer signs and validates access tokens with one HMAC secret.
type Issuer struct {
	secretKey []byte
	validity  time.Duration
	now       func() time.Time
}

func NewIssuer(secretKey []byte, validity time.Duration) *Issuer {
	return &Issuer{secretKey: secretKey, validity: validity, now: time.Now}
}

// IssueAccessToken returns a signed token for userName with a fresh jti.
func (i *Issuer) IssueAccessToken(userName string) (string, error) {
	if userName == "" {
		return "", errors.New("access token requires a username")
	}

	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		UserName: userName,
	})

	return token.SignedString(i.secretKey)
}

// IssueRefreshToken returns an opaque hex string; it is not derived from the
// access token in any way.
func (i *Issuer) IssueRefreshToken() (string, error) {
	return common.MakeRandHexString(refreshTokenSize)
}

// Validate checks signature, algorithm and expiry. Every failure is reported
// as common.ErrInvalidToken so callers cannot learn why a token was refused.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// ExtractJti validates tokenString and returns its jti.
func (i *Issuer) ExtractJti(tokenString string) (string, error) {
	claims, err := i.Validate(tokenString)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", common.ErrInvalidToken
	}
	return claims.ID, nil
}
