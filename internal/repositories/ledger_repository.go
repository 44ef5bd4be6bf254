package repositories

import (
	"context"

	"github.com/gspp-platform/learning-service/internal/models"
)

// LedgerRepository interface for the wallet transaction ledger
type LedgerRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Transaction, error)
	List(ctx context.Context, filters TransactionFilters) ([]*models.Transaction, int64, error)
}
