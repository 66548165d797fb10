package security

import (
	"strings"
	"testing"

	"github.com/baxoq/baxoq-store-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPasswordConfig() config.PasswordConfig {
	// Small parameters keep the test fast; clamping covers the rest.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	encoded, err := HashPassword("excalibur-1987", testPasswordConfig())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := VerifyPassword("excalibur-1987", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("", testPasswordConfig())
	assert.Error(t, err)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	_, err := VerifyPassword("anything", "$bcrypt$not-argon")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("same-password", testPasswordConfig())
	require.NoError(t, err)
	second, err := HashPassword("same-password", testPasswordConfig())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
