package ports

import (
	"context"

	"github.com/folioworks/account-service/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
// Implementations translate storage-level failures into domain errors:
// duplicate email → domain.ErrUserExists, missing document →
// domain.ErrUserNotFound, connectivity loss → domain.ErrStoreUnavailable.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Insert persists a new user and returns its generated identifier.
	// Email uniqueness is enforced at the storage layer, not just here.
	Insert(ctx context.Context, user *domain.User) (string, error)
}
