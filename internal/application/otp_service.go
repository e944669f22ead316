package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frontfolio/frontfolio-api/internal/domain/entity"
	"github.com/frontfolio/frontfolio-api/internal/domain/repository"
	"github.com/frontfolio/frontfolio-api/pkg/helpers"
)

// OTPTTL is how long an issued code stays redeemable.
const OTPTTL = 10 * time.Minute

// OTPService owns the one-time-code lifecycle: issue hashed, resolve the most
// recent active code, and consume exactly once. Codes are bcrypt-hashed before
// they hit the store, so a database read alone cannot impersonate a user.
type OTPService struct {
	OTPs repository.OTPRepository
}

func NewOTPService(otps repository.OTPRepository) *OTPService {
	return &OTPService{OTPs: otps}
}

// IssueFor generates a fresh code for the user, persists its hash with a
// 10-minute expiry, and returns the plaintext exactly once for out-of-band
// delivery. If the insert fails no plaintext is returned.
func (s *OTPService) IssueFor(ctx context.Context, u *entity.User) (string, error) {
	code, err := helpers.GenOTPCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	hash, err := helpers.HashPassword(code)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	otp := &entity.UserOTP{
		UserID:    u.ID,
		Email:     u.Email,
		CodeHash:  hash,
		ExpiresAt: time.Now().UTC().Add(OTPTTL),
		Used:      false,
	}
	if err := s.OTPs.Create(ctx, otp); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Verify checks submittedCode against the active code for email and consumes
// it. The mark-used write lands before success is reported, so a verified code
// cannot be replayed even if the caller crashes right after. A wrong code
// leaves the record untouched; a later attempt with the right code still works.
func (s *OTPService) Verify(ctx context.Context, email, submittedCode string) (*entity.UserOTP, error) {
	otp, err := s.OTPs.LatestActive(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveOTP
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(otp.CodeHash, submittedCode) {
		return nil, ErrOTPMismatch
	}
	if err := s.OTPs.MarkUsed(ctx, otp.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost a race: someone else consumed this exact code first.
			return nil, ErrNoActiveOTP
		}
		return nil, err
	}
	otp.Used = true
	return otp, nil
}
