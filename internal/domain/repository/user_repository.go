package repository

import (
	"context"
	"errors"

	"github.com/frontfolio/frontfolio-api/internal/domain/entity"
)

// ErrNotFound is returned by any repository when the requested row does not
// exist, or when a guarded update matched no row.
var ErrNotFound = errors.New("not found")

// UserRepository defines the persistence operations for user records.
// Email lookups are byte-exact; the column carries a case-sensitive collation.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetVerified(ctx context.Context, id string) error
}
