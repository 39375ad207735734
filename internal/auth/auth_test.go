package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.ErrorIs(t, ValidatePassword("short"), ErrWeakPassword)
	assert.NoError(t, ValidatePassword("long enough"))
}

func TestTokenRoundTrip(t *testing.T) {
	Init("test-secret", time.Hour)

	token, expiresAt, err := GenerateToken("user-1", RoleCreator)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, RoleCreator, claims.Role)
}

func TestParseToken_RejectsForeignSignature(t *testing.T) {
	Init("secret-a", time.Hour)
	token, _, err := GenerateToken("user-1", RoleAdmin)
	require.NoError(t, err)

	Init("secret-b", time.Hour)
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPermissions(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermBansManage))
	assert.False(t, HasPermission(RoleCreator, PermBansManage))
	assert.False(t, HasPermission("unknown", PermUsersLookup))
	assert.True(t, IsAdmin(&Claims{Role: RoleAdmin}))
	assert.False(t, IsAdmin(nil))
}
