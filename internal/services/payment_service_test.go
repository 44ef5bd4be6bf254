package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gspp-platform/learning-service/internal/models"
)

const (
	studentCard = "1111 2222 3333 4444"
	teacherCard = "5555 6666 7777 8888"
)

func transferRequest(course *models.Course, teacherID uint) *TransferRequest {
	return &TransferRequest{
		AccountNo: studentCard,
		Pincode:   "123",
		ReceiveNo: teacherCard,
		Amount:    100,
		CourseID:  course.ID,
		TeacherID: teacherID,
	}
}

func TestPaymentService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves funds and enrolls atomically", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 30000)
		teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
		course := env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)
		svc := env.paymentService()

		result, err := svc.Transfer(ctx, transferRequest(course, teacher.ID), student.ID)
		if err != nil {
			t.Fatalf("Transfer failed: %v", err)
		}

		if result.Replayed {
			t.Error("First transfer should not be marked as replayed")
		}
		if result.Balance != 29900 {
			t.Errorf("Expected payer balance 29900, got %d", result.Balance)
		}
		if got := env.balanceOf(t, student.ID); got != 29900 {
			t.Errorf("Expected stored payer balance 29900, got %d", got)
		}
		if got := env.balanceOf(t, teacher.ID); got != 30100 {
			t.Errorf("Expected stored payee balance 30100, got %d", got)
		}

		enrolled, err := env.repo.Catalog().IsEnrolled(ctx, student.ID, course.ID)
		if err != nil {
			t.Fatalf("IsEnrolled failed: %v", err)
		}
		if !enrolled {
			t.Error("Student should be enrolled after a completed transfer")
		}

		if result.ChatRoomID == 0 {
			t.Error("Transfer should bootstrap a chat room")
		}
		room, err := env.repo.Chat().GetRoomByID(ctx, result.ChatRoomID)
		if err != nil {
			t.Fatalf("GetRoomByID failed: %v", err)
		}
		if room.StudentID != student.ID || room.TeacherID != teacher.ID {
			t.Errorf("Chat room pair mismatch: got student %d teacher %d", room.StudentID, room.TeacherID)
		}

		published := env.publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("Expected 1 published event, got %d", len(published))
		}
	})

	t.Run("rejects wrong pin without touching balances", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 30000)
		teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
		course := env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)
		svc := env.paymentService()

		req := transferRequest(course, teacher.ID)
		req.Pincode = "999"

		_, err := svc.Transfer(ctx, req, student.ID)
		if !errors.Is(err, ErrPinMismatch) {
			t.Fatalf("Expected ErrPinMismatch, got %v", err)
		}

		if got := env.balanceOf(t, student.ID); got != 30000 {
			t.Errorf("Payer balance changed on rejected transfer: %d", got)
		}
		if got := env.balanceOf(t, teacher.ID); got != 30000 {
			t.Errorf("Payee balance changed on rejected transfer: %d", got)
		}
	})

	t.Run("rejects insufficient funds", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 50)
		teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
		course := env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)
		svc := env.paymentService()

		_, err := svc.Transfer(ctx, transferRequest(course, teacher.ID), student.ID)
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
		}

		if got := env.balanceOf(t, student.ID); got != 50 {
			t.Errorf("Payer balance changed on rejected transfer: %d", got)
		}

		txns, err := env.repo.Ledger().ListByUser(ctx, student.ID)
		if err != nil {
			t.Fatalf("ListByUser failed: %v", err)
		}
		if len(txns) != 0 {
			t.Errorf("Rejected transfer must not leave ledger rows, found %d", len(txns))
		}
	})

	t.Run("replays a repeated idempotency key without double charging", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 30000)
		teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
		course := env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)
		svc := env.paymentService()

		req := transferRequest(course, teacher.ID)
		req.IdempotencyKey = "client-key-1"

		first, err := svc.Transfer(ctx, req, student.ID)
		if err != nil {
			t.Fatalf("First transfer failed: %v", err)
		}

		second, err := svc.Transfer(ctx, req, student.ID)
		if err != nil {
			t.Fatalf("Repeated transfer failed: %v", err)
		}

		if !second.Replayed {
			t.Error("Repeated transfer should be marked as replayed")
		}
		if second.Transaction.ID != first.Transaction.ID {
			t.Errorf("Replay returned a different transaction: %d vs %d", second.Transaction.ID, first.Transaction.ID)
		}
		if got := env.balanceOf(t, student.ID); got != 29900 {
			t.Errorf("Payer was charged twice: balance %d", got)
		}
		if got := env.balanceOf(t, teacher.ID); got != 30100 {
			t.Errorf("Payee was credited twice: balance %d", got)
		}
	})

	t.Run("rejects a reused idempotency key with different parameters", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 30000)
		teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
		first := env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)
		second := env.seedCourse(t, teacher.ID, "Go Advanced", 200, 5)
		svc := env.paymentService()

		req := transferRequest(first, teacher.ID)
		req.IdempotencyKey = "client-key-1"
		if _, err := svc.Transfer(ctx, req, student.ID); err != nil {
			t.Fatalf("First transfer failed: %v", err)
		}

		conflicting := transferRequest(second, teacher.ID)
		conflicting.Amount = 200
		conflicting.IdempotencyKey = "client-key-1"
		_, err := svc.Transfer(ctx, conflicting, student.ID)
		if !errors.Is(err, ErrDuplicateTransfer) {
			t.Fatalf("Expected ErrDuplicateTransfer, got %v", err)
		}

		if got := env.balanceOf(t, student.ID); got != 29900 {
			t.Errorf("Conflicting retry changed the balance: %d", got)
		}
	})

	t.Run("rejects another user replaying a foreign idempotency key", func(t *testing.T) {
		env := newTestEnv(t)
		first := env.seedUser(t, models.RoleStudent, "first@example.com", studentCard, 30000)
		second := env.seedUser(t, models.RoleStudent, "second@example.com", "9999 8888 7777 6666", 30000)
		teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
		course := env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)
		svc := env.paymentService()

		req := transferRequest(course, teacher.ID)
		req.IdempotencyKey = "shared-key"
		if _, err := svc.Transfer(ctx, req, first.ID); err != nil {
			t.Fatalf("First transfer failed: %v", err)
		}

		// Same key, same amount and course, but a different payer. This must
		// not surface the first user's transaction as a replay.
		stolen := transferRequest(course, teacher.ID)
		stolen.AccountNo = "9999 8888 7777 6666"
		stolen.IdempotencyKey = "shared-key"
		_, err := svc.Transfer(ctx, stolen, second.ID)
		if !errors.Is(err, ErrDuplicateTransfer) {
			t.Fatalf("Expected ErrDuplicateTransfer, got %v", err)
		}

		if got := env.balanceOf(t, second.ID); got != 30000 {
			t.Errorf("Second payer balance changed on rejected transfer: %d", got)
		}
		enrolled, err := env.repo.Catalog().IsEnrolled(ctx, second.ID, course.ID)
		if err != nil {
			t.Fatalf("IsEnrolled failed: %v", err)
		}
		if enrolled {
			t.Error("Rejected transfer must not enroll the caller")
		}
	})

	t.Run("repeated purchases keep one enrollment and one chat room", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 30000)
		teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
		first := env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)
		second := env.seedCourse(t, teacher.ID, "Go Advanced", 100, 5)
		svc := env.paymentService()

		req1 := transferRequest(first, teacher.ID)
		req1.IdempotencyKey = "key-a"
		if _, err := svc.Transfer(ctx, req1, student.ID); err != nil {
			t.Fatalf("First transfer failed: %v", err)
		}

		req2 := transferRequest(second, teacher.ID)
		req2.IdempotencyKey = "key-b"
		if _, err := svc.Transfer(ctx, req2, student.ID); err != nil {
			t.Fatalf("Second transfer failed: %v", err)
		}

		rooms, err := env.repo.Chat().ListRoomsByUser(ctx, student.ID)
		if err != nil {
			t.Fatalf("ListRoomsByUser failed: %v", err)
		}
		if len(rooms) != 1 {
			t.Errorf("Expected a single chat room per pair, got %d", len(rooms))
		}

		courses, err := env.repo.Catalog().ListEnrolledCourses(ctx, student.ID)
		if err != nil {
			t.Fatalf("ListEnrolledCourses failed: %v", err)
		}
		if len(courses) != 2 {
			t.Errorf("Expected 2 enrolled courses, got %d", len(courses))
		}
	})

	t.Run("rejects a card that belongs to someone else", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 30000)
		teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
		course := env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)
		svc := env.paymentService()

		_, err := svc.Transfer(ctx, transferRequest(course, teacher.ID), student.ID+100)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Fatalf("Expected PermissionError, got %v", err)
		}
		if got := env.balanceOf(t, student.ID); got != 30000 {
			t.Errorf("Balance changed on rejected transfer: %d", got)
		}
	})

	t.Run("rejects unknown payee card", func(t *testing.T) {
		env := newTestEnv(t)
		student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 30000)
		teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
		course := env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)
		svc := env.paymentService()

		req := transferRequest(course, teacher.ID)
		req.ReceiveNo = "9999 9999 9999 9999"

		_, err := svc.Transfer(ctx, req, student.ID)
		if !errors.Is(err, ErrPayeeNotFound) {
			t.Fatalf("Expected ErrPayeeNotFound, got %v", err)
		}
	})
}

func TestPaymentService_Transfer_ConcurrentBalanceReporting(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t)
	student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 30000)
	teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
	svc := env.paymentService()

	const transfers = 5
	courses := make([]*models.Course, transfers)
	for i := range courses {
		courses[i] = env.seedCourse(t, teacher.ID, fmt.Sprintf("Course %d", i+1), 100, 4)
	}

	// Every reported balance must come from the locked row, so concurrent
	// transfers out of one wallet report the distinct serialized values.
	balances := make([]int64, transfers)
	var wg sync.WaitGroup
	for i := 0; i < transfers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := transferRequest(courses[i], teacher.ID)
			req.IdempotencyKey = fmt.Sprintf("concurrent-%d", i)
			result, err := svc.Transfer(ctx, req, student.ID)
			if err != nil {
				t.Errorf("Transfer %d failed: %v", i, err)
				return
			}
			balances[i] = result.Balance
		}(i)
	}
	wg.Wait()

	if got := env.balanceOf(t, student.ID); got != 29500 {
		t.Fatalf("Expected stored balance 29500 after %d transfers, got %d", transfers, got)
	}

	sort.Slice(balances, func(i, j int) bool { return balances[i] < balances[j] })
	for i, want := range []int64{29500, 29600, 29700, 29800, 29900} {
		if balances[i] != want {
			t.Fatalf("Reported balances not the serialized sequence: %v", balances)
		}
	}
}

func TestPaymentService_TopUp(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t)
	student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 30000)
	svc := env.paymentService()

	t.Run("credits the wallet and writes a ledger row", func(t *testing.T) {
		result, err := svc.TopUp(ctx, &TopUpRequest{
			Name:      student.Username,
			AccountNo: studentCard,
			Pin:       "123",
			Amount:    500,
		}, student.ID)
		if err != nil {
			t.Fatalf("TopUp failed: %v", err)
		}

		if result.Balance != 30500 {
			t.Errorf("Expected balance 30500, got %d", result.Balance)
		}
		if result.Transaction.Kind != models.TransactionKindTopUp {
			t.Errorf("Expected topup transaction, got %s", result.Transaction.Kind)
		}
		if got := env.balanceOf(t, student.ID); got != 30500 {
			t.Errorf("Expected stored balance 30500, got %d", got)
		}
	})

	t.Run("rejects wrong pin", func(t *testing.T) {
		_, err := svc.TopUp(ctx, &TopUpRequest{
			Name:      student.Username,
			AccountNo: studentCard,
			Pin:       "000",
			Amount:    500,
		}, student.ID)
		if !errors.Is(err, ErrPinMismatch) {
			t.Fatalf("Expected ErrPinMismatch, got %v", err)
		}
	})
}

func TestPaymentService_History(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t)
	student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 30000)
	teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
	course := env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)
	svc := env.paymentService()

	if _, err := svc.Transfer(ctx, transferRequest(course, teacher.ID), student.ID); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	for _, userID := range []uint{student.ID, teacher.ID} {
		txns, err := svc.History(ctx, userID)
		if err != nil {
			t.Fatalf("History failed for user %d: %v", userID, err)
		}
		if len(txns) != 1 {
			t.Errorf("Expected 1 transaction for user %d, got %d", userID, len(txns))
		}
	}
}

func TestDeriveIdempotencyKey(t *testing.T) {
	a := deriveIdempotencyKey(1, 2, 3, mustParseTime(t, "2026-01-02T10:00:10Z"))
	b := deriveIdempotencyKey(1, 2, 3, mustParseTime(t, "2026-01-02T10:02:00Z"))
	if a != b {
		t.Errorf("Keys inside one window should match: %q vs %q", a, b)
	}

	c := deriveIdempotencyKey(1, 2, 3, mustParseTime(t, "2026-01-02T11:00:00Z"))
	if a == c {
		t.Error("Keys from separate windows should differ")
	}

	d := deriveIdempotencyKey(1, 2, 4, mustParseTime(t, "2026-01-02T10:00:10Z"))
	if a == d {
		t.Error("Keys for different courses should differ")
	}
}

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("Failed to parse time %q: %v", value, err)
	}
	return parsed
}
