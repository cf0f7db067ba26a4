package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateAndParseToken(t *testing.T) {
	result, err := CreateToken("jwt-secret", "user-1", "1a2b", "42")
	assert.NoError(t, err)
	assert.NotEmpty(t, result["token"])

	claims, err := ParseToken("jwt-secret", result["token"])
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "1a2b", claims.Time)
	assert.Equal(t, "42", claims.RandomNumber)
}

func TestParseTokenWrongSecret(t *testing.T) {
	result, err := CreateToken("jwt-secret", "user-1", "1a2b", "42")
	assert.NoError(t, err)

	_, err = ParseToken("secret-khác", result["token"])
	assert.Error(t, err, "Token ký bằng secret khác phải bị từ chối")
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("jwt-secret", "không.phải.jwt")
	assert.Error(t, err)
}

func TestTokensDifferBetweenLogins(t *testing.T) {
	first, err := CreateToken("jwt-secret", "user-1", "1a2b", "1")
	assert.NoError(t, err)
	second, err := CreateToken("jwt-secret", "user-1", "1a2c", "2")
	assert.NoError(t, err)
	assert.NotEqual(t, first["token"], second["token"], "Time/RandomNumber khác phải cho token khác dù cùng user")
}
