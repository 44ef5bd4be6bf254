package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/gspp-platform/learning-service/internal/models"
)

func TestExportService_ExportCourses(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t)
	teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
	env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)
	env.seedCourse(t, teacher.ID, "Go Advanced", 200, 5)
	svc := NewExportService(env.repo, env.logger)

	data, err := svc.ExportCourses(ctx)
	if err != nil {
		t.Fatalf("ExportCourses failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Exported bytes are not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Courses")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 course rows, got %d", len(rows))
	}
	if rows[0][1] != "Title" {
		t.Errorf("Unexpected header row: %v", rows[0])
	}
}

func TestExportService_ExportTransactions(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t)
	student := env.seedUser(t, models.RoleStudent, "student@example.com", studentCard, 30000)
	teacher := env.seedUser(t, models.RoleTeacher, "teacher@example.com", teacherCard, 30000)
	course := env.seedCourse(t, teacher.ID, "Go Basics", 100, 4)

	if _, err := env.paymentService().Transfer(ctx, transferRequest(course, teacher.ID), student.ID); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	svc := NewExportService(env.repo, env.logger)
	data, err := svc.ExportTransactions(ctx)
	if err != nil {
		t.Fatalf("ExportTransactions failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Exported bytes are not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header plus 1 transaction row, got %d", len(rows))
	}
	if rows[1][1] != string(models.TransactionKindTransfer) {
		t.Errorf("Unexpected transaction kind column: %v", rows[1])
	}
}
