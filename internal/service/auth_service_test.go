package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
)

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func coordinatorClaims(expires time.Time) models.JWTClaims {
	return models.JWTClaims{
		UserID: "user-1",
		Role:   models.RoleCoordinator,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "academic-identity",
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidateTokenAcceptsSignedClaims(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "academic-identity"})
	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), coordinatorClaims(time.Now().Add(time.Hour)))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleCoordinator, claims.Role)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "academic-identity"})

	cases := map[string]string{
		"expired":      signToken(t, jwt.SigningMethodHS256, []byte("secret"), coordinatorClaims(time.Now().Add(-time.Minute))),
		"wrong secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), coordinatorClaims(time.Now().Add(time.Hour))),
		"wrong alg":    signToken(t, jwt.SigningMethodHS512, []byte("secret"), coordinatorClaims(time.Now().Add(time.Hour))),
		"garbage":      "not-a-token",
	}
	other := coordinatorClaims(time.Now().Add(time.Hour))
	other.Issuer = "someone-else"
	cases["wrong issuer"] = signToken(t, jwt.SigningMethodHS256, []byte("secret"), other)

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
		})
	}
}
