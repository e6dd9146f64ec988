package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { PasswordCost = bcrypt.DefaultCost })

	hash, err := HashPassword("x")
	require.NoError(t, err)
	assert.NotEqual(t, "x", hash)
	assert.Contains(t, hash, "$2a$")

	assert.NoError(t, CheckPassword("x", hash))
	assert.Error(t, CheckPassword("y", hash))
}
