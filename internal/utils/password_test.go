package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, CheckPassword("s3cret-pass", hash))
	assert.Error(t, CheckPassword("wrong", hash))
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("abc")
	assert.Error(t, err)
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", MaxPasswordLength+1))
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("x", MaxPasswordLength))
	assert.NoError(t, err)
}
