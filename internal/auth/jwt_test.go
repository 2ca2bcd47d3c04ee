package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTM() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", "point-ledger", time.Minute, time.Hour)
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := newTM()

	access, refresh, exp, err := tm.GeneratePair(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	ac, err := tm.ParseAccess(access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), ac.UserID)

	rc, err := tm.ParseRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, int64(42), rc.UserID)
}

func TestTokenManager_RejectsSwappedTypes(t *testing.T) {
	tm := newTM()
	access, refresh, _, err := tm.GeneratePair(1)
	require.NoError(t, err)

	_, err = tm.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tm.ParseRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := newTM()
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	access, _, _, err := tm.GeneratePair(1)
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseAccess(access)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsForeignSecretAndIssuer(t *testing.T) {
	access, _, _, err := NewTokenManager("other", "other", "point-ledger", time.Minute, time.Hour).GeneratePair(1)
	require.NoError(t, err)
	_, err = newTM().ParseAccess(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, _, _, err = NewTokenManager("access-secret", "refresh-secret", "someone-else", time.Minute, time.Hour).GeneratePair(1)
	require.NoError(t, err)
	_, err = newTM().ParseAccess(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := newTM().ParseAccess("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
