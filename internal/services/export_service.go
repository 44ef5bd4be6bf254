package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/gspp-platform/learning-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

var transactionHeaders = []string{"ID", "Kind", "Payer", "Receiver", "Course", "Amount", "Status", "Created At"}

func (s *exportService) ExportTransactions(ctx context.Context) ([]byte, error) {
	txns, _, err := s.repo.Ledger().List(ctx, repositories.TransactionFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Transactions"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range transactionHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, txn := range txns {
		courseID := ""
		if txn.CourseID != nil {
			courseID = fmt.Sprintf("%d", *txn.CourseID)
		}
		values := []interface{}{
			txn.ID,
			string(txn.Kind),
			txn.PayerID,
			txn.PayeeID,
			courseID,
			txn.Amount,
			string(txn.Status),
			txn.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Exported transactions", "rows", len(txns))
	return buf.Bytes(), nil
}

var courseHeaders = []string{"ID", "Title", "Category", "Price", "Rating", "Likes", "Owner", "Created At"}

func (s *exportService) ExportCourses(ctx context.Context) ([]byte, error) {
	courses, _, err := s.repo.Catalog().ListCourses(ctx, repositories.CourseFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Courses"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range courseHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, course := range courses {
		ownerName := course.Owner.Username
		values := []interface{}{
			course.ID,
			course.Title,
			course.Category,
			course.Price,
			course.Rating,
			course.Likes,
			ownerName,
			course.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Exported courses", "rows", len(courses))
	return buf.Bytes(), nil
}
