package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frontfolio/frontfolio-api/internal/domain/entity"
	"github.com/frontfolio/frontfolio-api/internal/domain/repository"
)

type OTPRepository struct {
	pool *pgxpool.Pool
}

func NewOTPRepository(pool *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{pool: pool}
}

func (r *OTPRepository) Create(ctx context.Context, otp *entity.UserOTP) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_otps (user_id, email, code_hash, expires_at, used)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, otp.UserID, otp.Email, otp.CodeHash, otp.ExpiresAt, otp.Used)

	return row.Scan(&otp.ID, &otp.CreatedAt)
}

// LatestActive resolves "the active code" for an email: the newest row that is
// still unused and unexpired. Older outstanding codes are simply superseded.
func (r *OTPRepository) LatestActive(ctx context.Context, email string) (*entity.UserOTP, error) {
	otp := &entity.UserOTP{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, email, code_hash, expires_at, used, created_at
		FROM user_otps
		WHERE email = $1 AND used = false AND expires_at > now()
		ORDER BY created_at DESC
		LIMIT 1
	`, email)
	if err := row.Scan(&otp.ID, &otp.UserID, &otp.Email, &otp.CodeHash,
		&otp.ExpiresAt, &otp.Used, &otp.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return otp, nil
}

// MarkUsed is the single-row compare-and-set that prevents double redemption:
// the guard on used = false means only one of two concurrent verifications can
// flip the row; the other sees zero rows affected.
func (r *OTPRepository) MarkUsed(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE user_otps
		SET used = true
		WHERE id = $1 AND used = false
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.OTPRepository = (*OTPRepository)(nil)
