//go:build !integration

package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/guttosm/storefront-cart/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenConfigFromAuthConfig(t *testing.T) {
	cfg := NewTokenConfigFromAuthConfig(config.AuthConfig{
		JWTSecretKey:   "secret",
		JWTIssuer:      "storefront",
		AccessTokenTTL: time.Hour,
	})

	assert.Equal(t, TokenConfig{SecretKey: "secret", Issuer: "storefront", AccessTokenTTL: time.Hour}, cfg)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(TokenConfig{SecretKey: "secret", Issuer: "storefront"})

	token, err := svc.IssueAccessToken("user-1", "ana@example.com", "Ana")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
}

func TestTokenService_ValidateAccessToken(t *testing.T) {
	svc := NewTokenService(TokenConfig{SecretKey: "secret", Issuer: "storefront", AccessTokenTTL: time.Minute})

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "storefront",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}
	}

	tests := []struct {
		name  string
		token func() string
	}{
		{
			name:  "garbage",
			token: func() string { return "not-a-jwt" },
		},
		{
			name: "wrong secret",
			token: func() string {
				return sign(jwt.SigningMethodHS256, []byte("other"), valid())
			},
		},
		{
			name: "expired",
			token: func() string {
				c := valid()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return sign(jwt.SigningMethodHS256, []byte("secret"), c)
			},
		},
		{
			name: "wrong issuer",
			token: func() string {
				c := valid()
				c.Issuer = "someone-else"
				return sign(jwt.SigningMethodHS256, []byte("secret"), c)
			},
		},
		{
			name: "missing subject",
			token: func() string {
				c := valid()
				c.Subject = ""
				return sign(jwt.SigningMethodHS256, []byte("secret"), c)
			},
		},
		{
			name: "other hmac algorithm",
			token: func() string {
				return sign(jwt.SigningMethodHS512, []byte("secret"), valid())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateAccessToken(tt.token())

			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestTokenService_IssueRequiresUser(t *testing.T) {
	svc := NewTokenService(TokenConfig{SecretKey: "secret"})

	_, err := svc.IssueAccessToken("", "", "")

	assert.ErrorIs(t, err, ErrUserRequired)
}
