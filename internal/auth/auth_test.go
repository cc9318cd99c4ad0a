package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-characters-long"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
	assert.False(t, CheckPassword("not-a-hash", "secret1"))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", MaxPasswordBytes+8))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestGravatarURL(t *testing.T) {
	want := "https://www.gravatar.com/avatar/743173788aa9166801df2e18f0e7ff24?s=200&r=pg&d=mm"
	assert.Equal(t, want, GravatarURL("a@x.com"))
	assert.Equal(t, want, GravatarURL("  A@X.com "))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	token, err := m.Issue(42)
	require.NoError(t, err)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokenManager_PayloadShape(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	token, err := m.Issue(7)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	user, ok := claims["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "7", user["id"])
	assert.Equal(t, "7", claims["sub"])
	assert.Equal(t, "socialapp-api", claims["iss"])
	assert.NotEmpty(t, claims["jti"])
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	good, err := m.Issue(1)
	require.NoError(t, err)
	other, err := m.Issue(2)
	require.NoError(t, err)
	goodParts, otherParts := strings.Split(good, "."), strings.Split(other, ".")
	tampered := strings.Join([]string{goodParts[0], otherParts[1], goodParts[2]}, ".")

	expired, err := NewTokenManager(testSecret, -time.Minute).Issue(1)
	require.NoError(t, err)

	otherSecret, err := NewTokenManager("another-secret-at-least-32-characters", time.Hour).Issue(1)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		User: TokenUser{ID: "1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	wrongAudience, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		User: TokenUser{ID: "1"},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{"someone-else"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	nonNumericUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		User: TokenUser{ID: "abc"},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":          expired,
		"tampered":         tampered,
		"wrong secret":     otherSecret,
		"none algorithm":   noneAlg,
		"wrong audience":   wrongAudience,
		"non numeric user": nonNumericUser,
		"garbage":          "not.a.token",
		"empty":            "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenManager_IssueWithoutSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour).Issue(1)
	assert.Error(t, err)
}
