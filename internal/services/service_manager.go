package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/gspp-platform/learning-service/internal/cache"
	"github.com/gspp-platform/learning-service/internal/events"
	"github.com/gspp-platform/learning-service/internal/repositories"
	"github.com/gspp-platform/learning-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	JWTSecret string
	TokenTTL  time.Duration

	DefaultTimeout time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db             *gorm.DB
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	cacheHelper    *cache.CacheHelper
	eventPublisher events.EventPublisher
	config         ServiceManagerConfig

	// Service instances
	authService    AuthService
	catalogService CatalogService
	socialService  SocialService
	paymentService PaymentService
	chatService    ChatService
	exportService  ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, cacheHelper *cache.CacheHelper, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:             db,
		repo:           repo,
		logger:         logger,
		validator:      validator,
		cacheHelper:    cacheHelper,
		eventPublisher: publisher,
		config:         config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, cacheHelper *cache.CacheHelper, publisher events.EventPublisher, jwtSecret string, tokenTTL time.Duration) ServiceManager {
	config := ServiceManagerConfig{
		JWTSecret:      jwtSecret,
		TokenTTL:       tokenTTL,
		DefaultTimeout: 30 * time.Second,
	}
	return NewServiceManager(db, repo, logger, validator, cacheHelper, publisher, config)
}

// Initialize builds every service and verifies the dependencies they share.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.config.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	sm.authService = NewAuthService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher, sm.config.JWTSecret, sm.config.TokenTTL)
	sm.logger.Info("Auth service initialized")

	sm.catalogService = NewCatalogService(sm.repo, sm.db, sm.logger, sm.validator, sm.cacheHelper)
	sm.logger.Info("Catalog service initialized")

	sm.socialService = NewSocialService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
	sm.logger.Info("Social service initialized")

	sm.paymentService = NewPaymentService(sm.repo, sm.db, sm.logger, sm.validator, sm.cacheHelper, sm.eventPublisher)
	sm.logger.Info("Payment service initialized")

	sm.chatService = NewChatService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.logger.Info("Chat service initialized")

	sm.exportService = NewExportService(sm.repo, sm.logger)
	sm.logger.Info("Export service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.authService == nil {
		panic("auth service not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Catalog() CatalogService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.catalogService == nil {
		panic("catalog service not initialized")
	}
	return sm.catalogService
}

func (sm *serviceManager) Social() SocialService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.socialService == nil {
		panic("social service not initialized")
	}
	return sm.socialService
}

func (sm *serviceManager) Payment() PaymentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.paymentService == nil {
		panic("payment service not initialized")
	}
	return sm.paymentService
}

func (sm *serviceManager) Chat() ChatService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.chatService == nil {
		panic("chat service not initialized")
	}
	return sm.chatService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.exportService == nil {
		panic("export service not initialized")
	}
	return sm.exportService
}

// HealthCheck verifies the shared dependencies are reachable.
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	return sm.repo.Ping(ctx)
}

// Shutdown stops publishing and marks the manager unusable.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			sm.logger.Warn("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down")
	return nil
}
