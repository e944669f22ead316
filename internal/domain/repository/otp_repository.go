package repository

import (
	"context"

	"github.com/frontfolio/frontfolio-api/internal/domain/entity"
)

// OTPRepository defines the persistence operations for one-time codes.
type OTPRepository interface {
	Create(ctx context.Context, otp *entity.UserOTP) error

	// LatestActive returns the most recently created unused, unexpired code for
	// the email, or ErrNotFound when no such row exists.
	LatestActive(ctx context.Context, email string) (*entity.UserOTP, error)

	// MarkUsed flips a code from unused to used. The update is guarded on the
	// current used value so two concurrent redemptions cannot both succeed;
	// the loser gets ErrNotFound.
	MarkUsed(ctx context.Context, id string) error
}
