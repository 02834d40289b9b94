package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour, nil)

	token, err := issuer.Issue(42, "clara", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "clara", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestVerifyExpiredToken(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewIssuer("test-secret", time.Minute, func() time.Time { return clock })

	token, err := issuer.Issue(7, "felix", false)
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour, nil)
	other := NewIssuer("different-secret", time.Hour, nil)

	token, err := issuer.Issue(7, "felix", false)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour, nil)

	_, err := issuer.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAllowsMutation(t *testing.T) {
	owner := int64(10)
	stranger := int64(11)

	admin := &Claims{UserID: 1, IsAdmin: true}
	user := &Claims{UserID: 10}

	assert.True(t, admin.AllowsMutation(&stranger))
	assert.True(t, admin.AllowsMutation(nil))
	assert.True(t, user.AllowsMutation(&owner))
	assert.False(t, user.AllowsMutation(&stranger))
	assert.False(t, user.AllowsMutation(nil))

	var anonymous *Claims
	assert.False(t, anonymous.AllowsMutation(&owner))
}
