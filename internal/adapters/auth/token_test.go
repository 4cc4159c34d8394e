package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dancehub/internal/domain"
)

func TestJWTIssuer_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret)

	token, err := issuer.Issue("user-123", "u@example.com", "authenticated", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, jwt.ClaimStrings{Audience}, claims.Audience)
}

func TestJWTVerifier_Verify(t *testing.T) {
	secret := "test-secret"
	verifier := NewJWTVerifier(secret)
	issue := func(t *testing.T, secret string, claims jwt.Claims, method jwt.SigningMethod) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	valid := func() jwtClaims {
		return jwtClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				Audience:  jwt.ClaimStrings{Audience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Email: "a@example.com",
			Role:  "authenticated",
		}
	}

	t.Run("valid", func(t *testing.T) {
		token, err := NewJWTIssuer(secret).Issue("user-1", "a@example.com", "authenticated", time.Hour)
		require.NoError(t, err)
		claims, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, &domain.Claims{UserID: "user-1", Email: "a@example.com", Role: "authenticated"}, claims)
	})

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{name: "empty", token: func(*testing.T) string { return "" }},
		{name: "garbage", token: func(*testing.T) string { return "not.a.jwt" }},
		{name: "wrong secret", token: func(t *testing.T) string { return issue(t, "other", valid(), jwt.SigningMethodHS256) }},
		{name: "wrong algorithm", token: func(t *testing.T) string { return issue(t, secret, valid(), jwt.SigningMethodHS512) }},
		{
			name: "expired",
			token: func(t *testing.T) string {
				c := valid()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
				return issue(t, secret, c, jwt.SigningMethodHS256)
			},
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				c := valid()
				c.ExpiresAt = nil
				return issue(t, secret, c, jwt.SigningMethodHS256)
			},
		},
		{
			name: "service role audience",
			token: func(t *testing.T) string {
				c := valid()
				c.Audience = nil
				return issue(t, secret, c, jwt.SigningMethodHS256)
			},
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				c := valid()
				c.Subject = ""
				return issue(t, secret, c, jwt.SigningMethodHS256)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token(t))
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}
