package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories"
)

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerPostgreSQL(db *gorm.DB) repositories.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, txn *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return handleDBError(err, "create transaction")
	}
	return nil
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.WithContext(ctx).First(&txn, id).Error; err != nil {
		return nil, handleDBError(err, "get transaction by id")
	}
	return &txn, nil
}

func (r *ledgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&txn).Error
	if err != nil {
		return nil, handleDBError(err, "get transaction by idempotency key")
	}
	return &txn, nil
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := r.db.WithContext(ctx).
		Where("payer_id = ? OR payee_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&txns).Error
	if err != nil {
		return nil, handleDBError(err, "list transactions by user")
	}
	return txns, nil
}

func (r *ledgerRepository) List(ctx context.Context, filters repositories.TransactionFilters) ([]*models.Transaction, int64, error) {
	var txns []*models.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Transaction{})

	if filters.Kind != nil {
		query = query.Where("kind = ?", *filters.Kind)
	}
	if filters.UserID != nil {
		query = query.Where("payer_id = ? OR payee_id = ?", *filters.UserID, *filters.UserID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count transactions")
	}

	query = applyPaginationAndSort(query, "created_at", "desc", filters.Limit, filters.Offset)

	if err := query.Find(&txns).Error; err != nil {
		return nil, 0, handleDBError(err, "list transactions")
	}

	return txns, total, nil
}
