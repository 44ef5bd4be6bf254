package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gspp-platform/learning-service/internal/cache"
	"github.com/gspp-platform/learning-service/internal/events"
	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories"
	"github.com/gspp-platform/learning-service/internal/repositories/postgres"
	"github.com/gspp-platform/learning-service/internal/validator"
	"github.com/gspp-platform/learning-service/pkg"
)

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheHelper
	publisher *events.MockEventPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := pkg.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return &testEnv{
		db:        db,
		repo:      postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db}),
		logger:    logger,
		validator: validator.New(),
		cache:     cache.NewCacheHelper(nil, "test:"),
		publisher: events.NewMockEventPublisher(logger),
	}
}

func (e *testEnv) paymentService() PaymentService {
	return NewPaymentService(e.repo, e.db, e.logger, e.validator, e.cache, e.publisher)
}

func (e *testEnv) authService() AuthService {
	return NewAuthService(e.repo, e.db, e.logger, e.validator, e.publisher, "test-secret", time.Hour)
}

func (e *testEnv) catalogService() CatalogService {
	return NewCatalogService(e.repo, e.db, e.logger, e.validator, e.cache)
}

func (e *testEnv) socialService() SocialService {
	return NewSocialService(e.repo, e.db, e.logger, e.validator, e.publisher)
}

func (e *testEnv) chatService() ChatService {
	return NewChatService(e.repo, e.db, e.logger, e.validator)
}

// seedUser inserts a user with a funded wallet and returns it.
func (e *testEnv) seedUser(t *testing.T, role models.UserRole, email, cardNumber string, balance int64) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:    email,
		Email:       email,
		Password:    string(hash),
		Profile:     "@" + email[:4],
		Role:        role,
		CardType:    models.CardVisa,
		CardNumber:  cardNumber,
		CVV:         "123",
		Balance:     balance,
		ExpiredDate: "12/12/2027",
	}
	if err := e.repo.User().Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func (e *testEnv) seedCourse(t *testing.T, ownerID uint, title string, price int64, rating float64) *models.Course {
	t.Helper()

	course := &models.Course{
		Title:       title,
		Description: "Test course",
		Category:    "Programming",
		Price:       price,
		OwnerID:     ownerID,
		Rating:      rating,
	}
	if err := e.repo.Catalog().CreateCourse(context.Background(), course); err != nil {
		t.Fatalf("Failed to seed course: %v", err)
	}
	return course
}

func (e *testEnv) balanceOf(t *testing.T, userID uint) int64 {
	t.Helper()

	user, err := e.repo.User().GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("Failed to read user %d: %v", userID, err)
	}
	return user.Balance
}
