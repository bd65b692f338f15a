package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnav/expense-tracker/internal/models"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("super-secret", time.Hour)

	token, err := m.Issue("user-123")
	require.NoError(t, err)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifyExpired(t *testing.T) {
	m := NewTokenManager("secret", -time.Second)

	token, err := m.Issue("u1")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenManager("right-secret", time.Hour)
	verifier := NewTokenManager("wrong-secret", time.Hour)

	token, err := issuer.Issue("u2")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestVerifyMalformed(t *testing.T) {
	m := NewTokenManager("k", time.Hour)

	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, models.ErrUnauthorized, "token %q", tok)
	}
}
