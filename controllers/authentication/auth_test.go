package authentication

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduvibe-backend/apperr"
	"eduvibe-backend/models/users"
)

var testSecret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	user := &users.User{ID: 7, Email: "student@example.com", Role: "student"}

	token, err := GenerateToken(user, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	claims, err := ValidateToken(req, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "student@example.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
}

func TestValidateTokenMissingHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/users/me", nil)

	_, err := ValidateToken(req, testSecret)
	require.Error(t, err)
	assert.Equal(t, apperr.Auth, apperr.KindOf(err))
}

func TestValidateTokenWrongSecret(t *testing.T) {
	user := &users.User{ID: 1, Email: "mentor@example.com", Role: "mentor"}
	token, err := GenerateToken(user, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, err = ValidateToken(req, []byte("other-secret"))
	require.Error(t, err)
	assert.Equal(t, apperr.Auth, apperr.KindOf(err))
}

func TestValidateTokenGarbage(t *testing.T) {
	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	_, err := ValidateToken(req, testSecret)
	require.Error(t, err)
	assert.Equal(t, apperr.Auth, apperr.KindOf(err))
}
