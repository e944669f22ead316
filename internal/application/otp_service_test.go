package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontfolio/frontfolio-api/internal/domain/entity"
	"github.com/frontfolio/frontfolio-api/pkg/helpers"
)

func otpTestUser() *entity.User {
	return &entity.User{ID: "user-1", Email: "otp@example.com"}
}

func TestOTPService_IssueStoresHashNotPlaintext(t *testing.T) {
	repo := newMemOTPRepo()
	svc := NewOTPService(repo)
	u := otpTestUser()

	code, err := svc.IssueFor(context.Background(), u)
	require.NoError(t, err)
	require.Len(t, code, 6)

	stored, err := repo.LatestActive(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, stored.UserID)
	assert.Equal(t, u.Email, stored.Email)
	assert.NotEqual(t, code, stored.CodeHash)
	assert.True(t, helpers.CompareHashAndPassword(stored.CodeHash, code))
	assert.WithinDuration(t, time.Now().UTC().Add(OTPTTL), stored.ExpiresAt, 5*time.Second)
}

func TestOTPService_VerifyConsumesCode(t *testing.T) {
	repo := newMemOTPRepo()
	svc := NewOTPService(repo)
	u := otpTestUser()

	code, err := svc.IssueFor(context.Background(), u)
	require.NoError(t, err)

	otp, err := svc.Verify(context.Background(), u.Email, code)
	require.NoError(t, err)
	assert.True(t, otp.Used)
	assert.Equal(t, u.ID, otp.UserID)

	// Second redemption of the same code must fail.
	_, err = svc.Verify(context.Background(), u.Email, code)
	assert.ErrorIs(t, err, ErrNoActiveOTP)
}

func TestOTPService_VerifyWrongCodeLeavesOTPActive(t *testing.T) {
	repo := newMemOTPRepo()
	svc := NewOTPService(repo)
	u := otpTestUser()

	code, err := svc.IssueFor(context.Background(), u)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err = svc.Verify(context.Background(), u.Email, wrong)
	assert.ErrorIs(t, err, ErrOTPMismatch)

	// The right code still redeems after a failed attempt.
	otp, err := svc.Verify(context.Background(), u.Email, code)
	require.NoError(t, err)
	assert.True(t, otp.Used)
}

func TestOTPService_VerifyNoCodeIssued(t *testing.T) {
	svc := NewOTPService(newMemOTPRepo())

	_, err := svc.Verify(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrNoActiveOTP)
}

func TestOTPService_VerifyExpiredCode(t *testing.T) {
	repo := newMemOTPRepo()
	svc := NewOTPService(repo)
	u := otpTestUser()

	code, err := svc.IssueFor(context.Background(), u)
	require.NoError(t, err)
	repo.expire(repo.lastID())

	_, err = svc.Verify(context.Background(), u.Email, code)
	assert.ErrorIs(t, err, ErrNoActiveOTP)
}

func TestOTPService_LatestCodeWins(t *testing.T) {
	repo := newMemOTPRepo()
	svc := NewOTPService(repo)
	u := otpTestUser()

	first, err := svc.IssueFor(context.Background(), u)
	require.NoError(t, err)
	second, err := svc.IssueFor(context.Background(), u)
	require.NoError(t, err)

	// Only the newest code resolves; the superseded one no longer matches.
	if first != second {
		_, err = svc.Verify(context.Background(), u.Email, first)
		assert.ErrorIs(t, err, ErrOTPMismatch)
	}

	otp, err := svc.Verify(context.Background(), u.Email, second)
	require.NoError(t, err)
	assert.True(t, otp.Used)
}
