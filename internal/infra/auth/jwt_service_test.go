package auth

import (
	"testing"
	"time"

	"coderr/config"
	"coderr/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{Auth: &config.AuthConfig{TokenTTL: time.Hour, BcryptCost: 4}}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	user := &entity.User{ID: 42, Username: "max", Type: entity.UserTypeBusiness}

	token, err := jwtService.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, entity.UserTypeBusiness, claims.UserType)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, entity.Caller{UserID: 42, Type: entity.UserTypeBusiness}, claims.Caller())
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	issuing := svc.(*jwtService)
	issuing.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issuing.GenerateToken(&entity.User{ID: 1, Type: entity.UserTypeCustomer})
	require.NoError(t, err)

	issuing.now = time.Now
	_, err = issuing.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	signer, err := NewJWTService(newTestConfig())
	require.NoError(t, err)
	token, err := signer.GenerateToken(&entity.User{ID: 1, Type: entity.UserTypeCustomer})
	require.NoError(t, err)

	otherCfg := newTestConfig()
	otherCfg.SecretKey.Access = "another_secret"
	verifier, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}
