package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := NewTokenManager("secret", 0)

	tok, err := tm.Issue("u-1", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, tok.Value)
	assert.Equal(t, DefaultTokenTTL, tok.ExpiresAt.Sub(tok.IssuedAt))

	claims, err := tm.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, tok.Identity, claims.Identity())
}

func TestTokenManager_ExpiresAfterThreeDays(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", 72*time.Hour)
	tm.now = fixedClock(issued)

	tok, err := tm.Issue("u-1", "alice")
	require.NoError(t, err)

	tm.now = fixedClock(issued.Add(72*time.Hour - time.Minute))
	_, err = tm.Verify(tok.Value)
	require.NoError(t, err)

	tm.now = fixedClock(issued.Add(72*time.Hour + time.Second))
	_, err = tm.Verify(tok.Value)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	tok, err := NewTokenManager("other", time.Hour).Issue("u-1", "alice")
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Verify(tok.Value)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenManager_RejectsMalformed(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	for _, raw := range []string{"", "not-a-jwt", "a.b"} {
		_, err := tm.Verify(raw)
		require.ErrorIs(t, err, ErrTokenMalformed, raw)
	}
}

func TestTokenManager_RejectsTamperedPayload(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	a, err := tm.Issue("u-1", "alice")
	require.NoError(t, err)
	b, err := tm.Issue("u-2", "bob")
	require.NoError(t, err)

	pa := strings.Split(a.Value, ".")
	pb := strings.Split(b.Value, ".")
	forged := pa[0] + "." + pb[1] + "." + pa[2]

	_, err = tm.Verify(forged)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenManager_RejectsUnexpectedAlgorithm(t *testing.T) {
	claims := &Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Verify(raw)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenManager_RequiresIdentityAndExpiry(t *testing.T) {
	secret := []byte("secret")
	tm := NewTokenManager(string(secret), time.Hour)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = tm.Verify(noID)
	require.ErrorIs(t, err, ErrTokenInvalid)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "u-1"}).SignedString(secret)
	require.NoError(t, err)
	_, err = tm.Verify(noExp)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
