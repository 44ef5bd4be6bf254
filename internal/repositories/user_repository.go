package repositories

import (
	"context"

	"github.com/gspp-platform/learning-service/internal/models"
)

// UserRepository interface for user and wallet operations
type UserRepository interface {
	// Basic CRUD
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByCardNumber(ctx context.Context, cardNumber string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	// List and search operations
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Wallet operations. LockByIDs acquires row locks in ascending id order
	// so concurrent transfers between the same pair cannot deadlock.
	LockByIDs(ctx context.Context, ids []uint) ([]*models.User, error)
	AdjustBalance(ctx context.Context, id uint, delta int64) error

	// Validation and checks
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
