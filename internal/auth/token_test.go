package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-service/internal/domain"
)

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseTokenValid(t *testing.T) {
	tm := NewTokenManager("test-secret")
	signed := signToken(t, "test-secret", Claims{
		SubjectID: "user-42",
		Subject:   domain.SubjectTypeUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := tm.ParseToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeUser, claims.Subject)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret")
	signed := signToken(t, "other-secret", Claims{SubjectID: "user-42"})

	_, err := tm.ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret")
	signed := signToken(t, "test-secret", Claims{
		SubjectID: "user-42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := tm.ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongAlgorithm(t *testing.T) {
	tm := NewTokenManager("test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{SubjectID: "user-42"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(signed)
	assert.Error(t, err)
}
