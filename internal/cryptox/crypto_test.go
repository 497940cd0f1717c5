package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword([]byte("secret1"))
	require.NoError(t, err)
	assert.NotEqual(t, []byte("secret1"), hash)

	assert.NoError(t, CheckPassword(hash, []byte("secret1")))
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := HashPassword([]byte("secret1"))
	require.NoError(t, err)

	assert.ErrorIs(t, CheckPassword(hash, []byte("secret2")), ErrPasswordMismatch)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.ErrorIs(t, CheckPassword([]byte("not-a-hash"), []byte("x")), ErrPasswordMismatch)
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword([]byte("same"))
	require.NoError(t, err)
	b, err := HashPassword([]byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
