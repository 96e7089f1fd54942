package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken(Subject{ID: "user-123", Name: "Ann", Email: "ann@example.com"}, secret, "gophnotes", time.Hour)
	require.NoError(t, err)

	got, err := GetSubjectFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return secret, nil })
	require.NoError(t, err)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, "gophnotes", claims.Issuer)
}

func TestGetSubjectFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken(Subject{ID: "u1"}, secret, "", -time.Second)
	require.NoError(t, err)

	_, err = GetSubjectFromToken(tok, secret)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestGetSubjectFromToken_Invalid(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(Subject{ID: "u1"}, []byte("right"), "", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong secret", token: tok},
		{name: "garbage", token: "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetSubjectFromToken(tt.token, []byte("wrong"))
			require.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}

	noSubject, err := GenerateToken(Subject{}, []byte("right"), "", time.Hour)
	require.NoError(t, err)
	_, err = GetSubjectFromToken(noSubject, []byte("right"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
