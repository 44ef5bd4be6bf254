package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/gspp-platform/learning-service/internal/cache"
	"github.com/gspp-platform/learning-service/internal/events"
	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories"
	"github.com/gspp-platform/learning-service/internal/validator"
)

// idempotencyWindow groups retries of the same payment when the client sends
// no explicit key.
const idempotencyWindow = 5 * time.Minute

type paymentService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	cache          *cache.CacheHelper
	eventPublisher events.EventPublisher
}

func NewPaymentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, cacheHelper *cache.CacheHelper, publisher events.EventPublisher) PaymentService {
	return &paymentService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		cache:          cacheHelper,
		eventPublisher: publisher,
	}
}

// Transfer executes the whole payment workflow in one database transaction:
// debit, credit, ledger row, enrollment, teacher-student edge and chat room
// become visible together or not at all.
func (s *paymentService) Transfer(ctx context.Context, req *TransferRequest, payerID uint) (*models.TransferResult, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	payer, err := s.repo.User().GetByCardNumber(ctx, req.AccountNo)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPayerNotFound
		}
		return nil, fmt.Errorf("failed to look up payer: %w", err)
	}
	if payer.ID != payerID {
		return nil, NewPermissionError(payerID, payer.ID, "wallet", "transfer", "card does not belong to the authenticated user")
	}

	if subtle.ConstantTimeCompare([]byte(payer.CVV), []byte(req.Pincode)) != 1 {
		return nil, ErrPinMismatch
	}

	payee, err := s.repo.User().GetByCardNumber(ctx, req.ReceiveNo)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPayeeNotFound
		}
		return nil, fmt.Errorf("failed to look up payee: %w", err)
	}
	if payee.ID != req.TeacherID {
		return nil, NewBusinessRuleError("payee_mismatch", "receiving card does not belong to the named teacher")
	}

	course, err := s.repo.Catalog().GetCourseByID(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to look up course: %w", err)
	}

	key := req.IdempotencyKey
	if key == "" {
		key = deriveIdempotencyKey(payer.ID, payee.ID, course.ID, time.Now())
	}

	// Fast path: a cached key means this attempt already went through.
	if replayed, err := s.replayFromLedger(ctx, key, req, payer.ID, payee.ID); err == nil && replayed != nil {
		return replayed, nil
	}

	var txn *models.Transaction
	var roomID uint
	var payerBalance int64
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		// Lock both wallets in ascending id order, then re-read balances
		// from the locked rows.
		locked, err := txRepo.User().LockByIDs(ctx, []uint{payer.ID, payee.ID})
		if err != nil {
			return fmt.Errorf("failed to lock wallets: %w", err)
		}

		var lockedPayer *models.User
		for _, u := range locked {
			if u.ID == payer.ID {
				lockedPayer = u
			}
		}
		if lockedPayer == nil {
			return ErrPayerNotFound
		}

		if lockedPayer.Balance < req.Amount {
			return ErrInsufficientFunds
		}
		payerBalance = lockedPayer.Balance - req.Amount

		txn = &models.Transaction{
			Kind:           models.TransactionKindTransfer,
			PayerID:        payer.ID,
			PayeeID:        payee.ID,
			CourseID:       &course.ID,
			Amount:         req.Amount,
			Status:         models.TransactionStatusCompleted,
			IdempotencyKey: &key,
		}
		if err := txRepo.Ledger().Create(ctx, txn); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrDuplicateTransfer
			}
			return fmt.Errorf("failed to write ledger: %w", err)
		}

		if err := txRepo.User().AdjustBalance(ctx, payer.ID, -req.Amount); err != nil {
			return fmt.Errorf("failed to debit payer: %w", err)
		}
		if err := txRepo.User().AdjustBalance(ctx, payee.ID, req.Amount); err != nil {
			return fmt.Errorf("failed to credit payee: %w", err)
		}

		if err := txRepo.Catalog().UpsertEnrollment(ctx, payer.ID, course.ID); err != nil {
			return fmt.Errorf("failed to enroll student: %w", err)
		}
		if err := txRepo.Catalog().UpsertTeacherStudent(ctx, payee.ID, payer.ID); err != nil {
			return fmt.Errorf("failed to link teacher and student: %w", err)
		}

		room, _, err := txRepo.Chat().FindOrCreateRoom(ctx, payer.ID, payee.ID)
		if err != nil {
			return fmt.Errorf("failed to bootstrap chat room: %w", err)
		}
		roomID = room.ID

		return nil
	})
	if err != nil {
		// A duplicate key means an earlier attempt committed; hand back its
		// result instead of an error.
		if errors.Is(err, ErrDuplicateTransfer) {
			if replayed, rerr := s.replayFromLedger(ctx, key, req, payer.ID, payee.ID); rerr == nil && replayed != nil {
				return replayed, nil
			}
			return nil, ErrDuplicateTransfer
		}
		if errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrPayerNotFound) {
			return nil, err
		}
		s.logger.Error("Transfer aborted", "error", err, "payer_id", payer.ID, "payee_id", payee.ID, "course_id", course.ID)
		return nil, fmt.Errorf("%w: %v", ErrTransactionAborted, err)
	}

	if err := s.cache.SetWithConfig(ctx, key, txn.ID, cache.IdempotencyCacheConfig); err != nil {
		s.logger.Warn("Failed to cache idempotency key", "error", err)
	}

	s.logger.Info("Transfer completed",
		"transaction_id", txn.ID,
		"payer_id", payer.ID,
		"payee_id", payee.ID,
		"course_id", course.ID,
		"amount", req.Amount)

	event := events.NewEvent(events.TopicTransferCompleted, events.TransferCompletedEvent{
		TransactionID: txn.ID,
		PayerID:       payer.ID,
		PayeeID:       payee.ID,
		CourseID:      txn.CourseID,
		Amount:        req.Amount,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish transfer event", "error", err, "transaction_id", txn.ID)
	}

	return &models.TransferResult{
		Transaction: txn,
		Balance:     payerBalance,
		ChatRoomID:  roomID,
		Replayed:    false,
	}, nil
}

// replayFromLedger returns the committed result for an idempotency key, or
// nil when the key is unknown. A key reused with different transfer
// parameters, or by a different payer or payee, is a conflict, not a retry.
func (s *paymentService) replayFromLedger(ctx context.Context, key string, req *TransferRequest, payerID, payeeID uint) (*models.TransferResult, error) {
	txn, err := s.repo.Ledger().GetByIdempotencyKey(ctx, key)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	if txn.PayerID != payerID || txn.PayeeID != payeeID {
		return nil, ErrDuplicateTransfer
	}
	if txn.Amount != req.Amount || txn.CourseID == nil || *txn.CourseID != req.CourseID {
		return nil, ErrDuplicateTransfer
	}

	payer, err := s.repo.User().GetByID(ctx, txn.PayerID)
	if err != nil {
		return nil, err
	}

	return &models.TransferResult{
		Transaction: txn,
		Balance:     payer.Balance,
		Replayed:    true,
	}, nil
}

func (s *paymentService) TopUp(ctx context.Context, req *TopUpRequest, userID uint) (*models.TopUpResult, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByCardNumber(ctx, req.AccountNo)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPayerNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user.ID != userID {
		return nil, NewPermissionError(userID, user.ID, "wallet", "topup", "card does not belong to the authenticated user")
	}

	if subtle.ConstantTimeCompare([]byte(user.CVV), []byte(req.Pin)) != 1 {
		return nil, ErrPinMismatch
	}

	var txn *models.Transaction
	var balance int64
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		locked, err := txRepo.User().LockByIDs(ctx, []uint{user.ID})
		if err != nil {
			return fmt.Errorf("failed to lock wallet: %w", err)
		}
		if len(locked) != 1 {
			return ErrPayerNotFound
		}
		balance = locked[0].Balance + req.Amount

		if err := txRepo.User().AdjustBalance(ctx, user.ID, req.Amount); err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}

		txn = &models.Transaction{
			Kind:    models.TransactionKindTopUp,
			PayerID: user.ID,
			PayeeID: user.ID,
			Amount:  req.Amount,
			Status:  models.TransactionStatusCompleted,
		}
		if err := txRepo.Ledger().Create(ctx, txn); err != nil {
			return fmt.Errorf("failed to write ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Top-up aborted", "error", err, "user_id", user.ID)
		return nil, fmt.Errorf("%w: %v", ErrTransactionAborted, err)
	}

	s.logger.Info("Top-up completed", "transaction_id", txn.ID, "user_id", user.ID, "amount", req.Amount)

	return &models.TopUpResult{
		Transaction: txn,
		Balance:     balance,
	}, nil
}

func (s *paymentService) History(ctx context.Context, userID uint) ([]*models.Transaction, error) {
	txns, err := s.repo.Ledger().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func deriveIdempotencyKey(payerID, payeeID, courseID uint, now time.Time) string {
	window := now.Unix() / int64(idempotencyWindow.Seconds())
	return fmt.Sprintf("transfer:%d:%d:%d:%d", payerID, payeeID, courseID, window)
}
