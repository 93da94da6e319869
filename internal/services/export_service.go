package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

const (
	rosterSheet = "Students"
	totalsSheet = "Totals"
)

var rosterHeader = []interface{}{
	"ID", "Email", "First Name", "Last Name", "Phone", "Course",
	"Payment Status", "Amount Due", "Amount Paid", "Status",
	"Admin Clearance", "Enrollment Date", "Document", "Payment Receipt",
}

type exportService struct {
	store  repositories.DataStore
	logger *slog.Logger
}

func NewExportService(store repositories.DataStore, logger *slog.Logger) ExportService {
	return &exportService{store: store, logger: logger}
}

func (s *exportService) WriteRoster(ctx context.Context, w io.Writer) error {
	students, err := s.store.Users().ListStudents(ctx)
	if err != nil {
		return storeError("list students", err)
	}
	stats, err := s.store.Users().FinancialStats(ctx)
	if err != nil {
		return storeError("compute financial stats", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		return fmt.Errorf("failed to name roster sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(rosterSheet, "A1", &rosterHeader); err != nil {
		return fmt.Errorf("failed to write roster header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(rosterHeader))
	if err := f.SetCellStyle(rosterSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style roster header: %w", err)
	}
	if err := f.SetColWidth(rosterSheet, "A", lastCol, 20); err != nil {
		return fmt.Errorf("failed to size roster columns: %w", err)
	}

	for i, u := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			u.ID, u.Email, u.FirstName, u.LastName, u.Phone, u.EnrolledCourse,
			string(u.PaymentStatus), u.AmountDue, u.AmountPaid, u.Status,
			yesNo(u.AdminClearance), u.EnrollmentDate.Format(time.DateOnly), u.DocumentURL, u.PaymentReceiptURL,
		}
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write roster row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(totalsSheet); err != nil {
		return fmt.Errorf("failed to add totals sheet: %w", err)
	}
	totals := [][]interface{}{
		{"Metric", "Value"},
		{"Students", len(students)},
		{"Total Revenue", stats.TotalRevenue},
		{"Revenue Pending", stats.RevenuePending},
		{"Generated At", time.Now().UTC().Format(time.RFC3339)},
	}
	for i, row := range totals {
		if err := f.SetSheetRow(totalsSheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("failed to write totals: %w", err)
		}
	}
	if err := f.SetCellStyle(totalsSheet, "A1", "B1", bold); err != nil {
		return fmt.Errorf("failed to style totals header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "Roster exported", "students", len(students))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// RosterFilename is the attachment name for an export made at t.
func RosterFilename(t time.Time) string {
	return "students-" + strings.ReplaceAll(t.UTC().Format(time.DateOnly), "-", "") + ".xlsx"
}
