package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories"
	"github.com/gspp-platform/learning-service/pkg"
)

func newTestRepository(t *testing.T) repositories.Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, pkg.AutoMigrate(db))

	return NewPostgreSQLRepository(RepositoryConfig{DB: db})
}

func testUser(role models.UserRole, email, card string) *models.User {
	return &models.User{
		Username:    email,
		Email:       email,
		Password:    "hashed",
		Profile:     "@" + email[:4],
		Role:        role,
		CardType:    models.CardVisa,
		CardNumber:  card,
		CVV:         "123",
		Balance:     30000,
		ExpiredDate: "12/12/2027",
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	user := testUser(models.RoleStudent, "alice@example.com", "1111 2222 3333 4444")
	require.NoError(t, repo.User().Create(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("lookups", func(t *testing.T) {
		byEmail, err := repo.User().GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		byCard, err := repo.User().GetByCardNumber(ctx, "1111 2222 3333 4444")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byCard.ID)

		_, err = repo.User().GetByEmail(ctx, "nobody@example.com")
		assert.True(t, repositories.IsNotFoundError(err))
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := testUser(models.RoleStudent, "alice@example.com", "9999 8888 7777 6666")
		err := repo.User().Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, repositories.IsDuplicateError(err))
	})

	t.Run("adjust balance", func(t *testing.T) {
		require.NoError(t, repo.User().AdjustBalance(ctx, user.ID, -500))
		reread, err := repo.User().GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(29500), reread.Balance)

		err = repo.User().AdjustBalance(ctx, user.ID+100, 10)
		assert.True(t, repositories.IsNotFoundError(err))
	})

	t.Run("lock by ids returns every requested row", func(t *testing.T) {
		other := testUser(models.RoleTeacher, "bob@example.com", "5555 6666 7777 8888")
		require.NoError(t, repo.User().Create(ctx, other))

		locked, err := repo.User().LockByIDs(ctx, []uint{other.ID, user.ID})
		require.NoError(t, err)
		require.Len(t, locked, 2)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.User().ExistsByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.User().ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	teacher := testUser(models.RoleTeacher, "teacher@example.com", "5555 6666 7777 8888")
	require.NoError(t, repo.User().Create(ctx, teacher))

	t.Run("best courses order and limit", func(t *testing.T) {
		for i := 0; i < 11; i++ {
			course := &models.Course{
				Title:   fmt.Sprintf("Course %d", i+1),
				OwnerID: teacher.ID,
				Rating:  float64(i % 4),
			}
			require.NoError(t, repo.Catalog().CreateCourse(ctx, course))
		}

		best, err := repo.Catalog().ListBestCourses(ctx, 9)
		require.NoError(t, err)
		require.Len(t, best, 9)

		for i := 1; i < len(best); i++ {
			prev, cur := best[i-1], best[i]
			assert.LessOrEqual(t, cur.Rating, prev.Rating)
			if cur.Rating == prev.Rating {
				assert.Greater(t, cur.ID, prev.ID)
			}
		}
	})

	t.Run("enrollment upsert is idempotent", func(t *testing.T) {
		student := testUser(models.RoleStudent, "student@example.com", "1111 2222 3333 4444")
		require.NoError(t, repo.User().Create(ctx, student))

		course := &models.Course{Title: "Enrollable", OwnerID: teacher.ID}
		require.NoError(t, repo.Catalog().CreateCourse(ctx, course))

		require.NoError(t, repo.Catalog().UpsertEnrollment(ctx, student.ID, course.ID))
		require.NoError(t, repo.Catalog().UpsertEnrollment(ctx, student.ID, course.ID))

		enrolled, err := repo.Catalog().ListEnrolledCourses(ctx, student.ID)
		require.NoError(t, err)
		assert.Len(t, enrolled, 1)
	})
}

func TestLedgerRepository_IdempotencyKey(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	payer := testUser(models.RoleStudent, "payer@example.com", "1111 2222 3333 4444")
	payee := testUser(models.RoleTeacher, "payee@example.com", "5555 6666 7777 8888")
	require.NoError(t, repo.User().Create(ctx, payer))
	require.NoError(t, repo.User().Create(ctx, payee))

	key := "transfer-key-1"
	first := &models.Transaction{
		Kind:           models.TransactionKindTransfer,
		PayerID:        payer.ID,
		PayeeID:        payee.ID,
		Amount:         100,
		Status:         models.TransactionStatusCompleted,
		IdempotencyKey: &key,
	}
	require.NoError(t, repo.Ledger().Create(ctx, first))

	dup := &models.Transaction{
		Kind:           models.TransactionKindTransfer,
		PayerID:        payer.ID,
		PayeeID:        payee.ID,
		Amount:         100,
		Status:         models.TransactionStatusCompleted,
		IdempotencyKey: &key,
	}
	err := repo.Ledger().Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, repositories.IsDuplicateError(err))

	found, err := repo.Ledger().GetByIdempotencyKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	// Rows without a key never collide with each other.
	for i := 0; i < 2; i++ {
		txn := &models.Transaction{
			Kind:    models.TransactionKindTopUp,
			PayerID: payer.ID,
			PayeeID: payer.ID,
			Amount:  50,
			Status:  models.TransactionStatusCompleted,
		}
		require.NoError(t, repo.Ledger().Create(ctx, txn))
	}
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	user := testUser(models.RoleStudent, "alice@example.com", "1111 2222 3333 4444")
	require.NoError(t, repo.User().Create(ctx, user))

	sentinel := errors.New("abort")
	err := repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().AdjustBalance(ctx, user.ID, -1000); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	reread, err := repo.User().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), reread.Balance, "rolled back transaction must not change the balance")
}
