package repositories

import "context"

// Repository aggregates every domain repository behind one interface.
type Repository interface {
	// User domain
	User() UserRepository

	// Catalog domain
	Catalog() CatalogRepository

	// Social domain
	Social() SocialRepository

	// Chat domain
	Chat() ChatRepository

	// Wallet ledger domain
	Ledger() LedgerRepository

	// Transaction support. The callback receives a Repository whose
	// sub-repositories all share one database transaction.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
