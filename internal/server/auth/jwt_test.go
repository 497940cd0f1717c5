package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()
	secret := []byte("super-secret")

	tok, exp, err := GenerateToken("user-123", "a@b.com", secret, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	claims, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	tok, _, err := GenerateToken("u1", "e", []byte("k"), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("k"))
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_Rejects(t *testing.T) {
	t.Parallel()

	good, _, err := GenerateToken("u2", "e", []byte("right"), time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u3", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("right"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u4"},
	}).SignedString([]byte("right"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"wrong secret": good,
		"garbage":      "not.a.jwt",
		"alg none":     none,
		"no subject":   noSubject,
		"no expiry":    noExpiry,
	} {
		t.Run(name, func(t *testing.T) {
			secret := []byte("right")
			if name == "wrong secret" {
				secret = []byte("wrong")
			}
			_, err := ParseToken(tok, secret)
			assert.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}
