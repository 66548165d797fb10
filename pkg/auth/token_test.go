package auth

import (
	"testing"
	"time"

	"github.com/baxoq/baxoq-store-backend/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "baxoq-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	now := time.Now()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: userID, IsAdmin: true})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestMintAccessTokenPreservesJTI(t *testing.T) {
	cfg := testJWTConfig()
	jti := uuid.NewString()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), JTI: jti})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
}

func TestMintAccessTokenValidation(t *testing.T) {
	now := time.Now()

	cfg := testJWTConfig()
	cfg.Secret = ""
	_, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: uuid.New()})
	assert.Error(t, err)

	cfg = testJWTConfig()
	cfg.Issuer = ""
	_, err = MintAccessToken(cfg, now, AccessTokenPayload{UserID: uuid.New()})
	assert.Error(t, err)

	cfg = testJWTConfig()
	_, err = MintAccessToken(cfg, now, AccessTokenPayload{})
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().Add(-2 * time.Hour)

	token, err := MintAccessToken(cfg, past, AccessTokenPayload{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	assert.Error(t, err)

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	require.NoError(t, err)

	other := cfg
	other.Issuer = "someone-else"
	_, err = ParseAccessToken(other, token)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsTamperedSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	require.NoError(t, err)

	other := cfg
	other.Secret = "different-secret"
	_, err = ParseAccessToken(other, token)
	assert.Error(t, err)
}
