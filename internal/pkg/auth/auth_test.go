package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "ZonaGamer Backend"},
		JWT: config.JWTConfig{
			Secret:      "0123456789abcdef0123456789abcdef",
			TokenExpiry: time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateToken(7, "gamer@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "gamer@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "ZonaGamer Backend", claims.Issuer)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager(testConfig())
	token, err := manager.GenerateToken(1, "a@b.co", false)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "ffffffffffffffffffffffffffffffff"
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.TokenExpiry = -time.Minute
	manager := NewJWTManager(cfg)

	token, err := manager.GenerateToken(1, "a@b.co", false)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	manager := NewJWTManager(testConfig())
	_, err := manager.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc"))
	assert.Empty(t, ExtractTokenFromHeader(""))
}

func TestHashAndVerifyPassword(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	hash, err := manager.HashPassword("secreta123")
	require.NoError(t, err)
	require.NotEqual(t, "secreta123", hash)

	assert.NoError(t, manager.VerifyPassword("secreta123", hash))
	assert.Error(t, manager.VerifyPassword("otraclave", hash))
}

func TestHashPasswordRejectsShort(t *testing.T) {
	manager := NewPasswordManager(testConfig())
	_, err := manager.HashPassword("abc12")
	assert.Error(t, err)
}
