package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocphungccq1911h/mobi/internal/domain"
)

const testSecret = "test-secret-key"

func testUser() *domain.User {
	return &domain.User{
		ID:       42,
		Username: "alice",
		Email:    "a@x.com",
		Roles:    []domain.RoleName{domain.RoleUser},
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, expiresAt, err := tm.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, []domain.RoleName{domain.RoleUser}, identity.Roles)
	assert.WithinDuration(t, expiresAt, identity.ExpiresAt, time.Second)
}

func TestIssueRoundTripPreservesRoleSet(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	user := testUser()
	user.Roles = []domain.RoleName{domain.RoleAdmin, domain.RoleUser}

	token, _, err := tm.Issue(user)
	require.NoError(t, err)

	identity, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, []domain.RoleName{domain.RoleAdmin, domain.RoleUser}, identity.Roles)
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	// Craft a token whose expiry is already in the past, signed with the
	// same secret.
	claims := &Claims{
		UserID: "42",
		Roles:  []string{"USER"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTamperedSignature(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	for i := range sig {
		flipped := make([]byte, len(sig))
		copy(flipped, sig)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(flipped)

		_, err := tm.Verify(tampered)
		assert.ErrorIs(t, err, ErrTokenBadSignature, "signature byte %d", i)
	}
}

func TestVerifyTamperedTokenNeverSucceeds(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}

		_, err := tm.Verify(string(mutated))
		assert.Error(t, err, "byte %d", i)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	other := NewTokenManager("another-secret", time.Hour)

	token, _, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenBadSignature)
}

func TestIssueDiffersAcrossTime(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	first, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	second, _, err := tm.Issue(testUser())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
