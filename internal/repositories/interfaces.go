package repositories

import (
	"time"

	"github.com/gspp-platform/learning-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Category  *string `json:"category"`
	OwnerID   *uint   `json:"owner_id"`
	Query     string  `json:"query"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "created_at", "title", "rating", "price"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

type TransactionFilters struct {
	Kind     *models.TransactionKind `json:"kind"`
	UserID   *uint                   `json:"user_id"`
	DateFrom *time.Time              `json:"date_from"`
	DateTo   *time.Time              `json:"date_to"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
}

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type ReviewStats struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
