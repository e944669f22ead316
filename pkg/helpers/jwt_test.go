package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontfolio/frontfolio-api/internal/domain/entity"
)

func testUser() *entity.User {
	return &entity.User{
		ID:         "7a9d8a1e-0b4e-4f8a-9c3d-1a2b3c4d5e6f",
		Email:      "dev@example.com",
		Name:       "Dev",
		Role:       entity.RoleUser,
		IsVerified: true,
	}
}

func newTestManager() *JWTManager {
	return NewJWTManager("test-secret", "frontfolio", "frontfolio-clients", time.Hour, 10*time.Minute)
}

func TestJWT_AccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	u := testUser()

	token, exp, err := m.GenerateAccessToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, entity.RoleUser, claims.Role)
	require.NotNil(t, claims.Verified)
	assert.True(t, *claims.Verified)
}

func TestJWT_ResetTokenOmitsVerified(t *testing.T) {
	m := newTestManager()

	token, exp, err := m.GenerateResetToken(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), exp, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Nil(t, claims.Verified)
}

func TestJWT_WrongKeyRejected(t *testing.T) {
	m := newTestManager()
	token, _, err := m.GenerateAccessToken(testUser())
	require.NoError(t, err)

	other := &JWTManager{
		Secret:    []byte("different-secret"),
		Issuer:    m.Issuer,
		Audience:  m.Audience,
		AccessTTL: m.AccessTTL,
		ResetTTL:  m.ResetTTL,
	}
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWT_IssuerAndAudienceChecked(t *testing.T) {
	m := newTestManager()
	token, _, err := m.GenerateAccessToken(testUser())
	require.NoError(t, err)

	wrongIssuer := *m
	wrongIssuer.Issuer = "someone-else"
	_, err = wrongIssuer.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	wrongAudience := *m
	wrongAudience.Audience = "other-clients"
	_, err = wrongAudience.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWT_ExpiredToken(t *testing.T) {
	m := newTestManager()
	expired := &JWTManager{
		Secret:    m.Secret,
		Issuer:    m.Issuer,
		Audience:  m.Audience,
		AccessTTL: -time.Minute,
		ResetTTL:  -time.Minute,
	}
	token, _, err := expired.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWT_TamperedPayloadRejected(t *testing.T) {
	m := newTestManager()
	token, _, err := m.GenerateAccessToken(testUser())
	require.NoError(t, err)

	// Flip a byte in the payload segment.
	b := []byte(token)
	mid := len(b) / 2
	if b[mid] == 'A' {
		b[mid] = 'B'
	} else {
		b[mid] = 'A'
	}
	_, err = m.Parse(string(b))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWT_GarbageRejected(t *testing.T) {
	m := newTestManager()
	for _, tok := range []string{"", "abc", "a.b.c", "....."} {
		_, err := m.Parse(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}
