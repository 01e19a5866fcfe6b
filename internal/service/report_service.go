package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/export"
	"fintrack/internal/storage"
)

// ErrNoEmail is returned when a report is requested for an account without
// an email address (guests).
var ErrNoEmail = errors.New("account has no email address")

// ReportMailer delivers summary reports with a spreadsheet attachment.
type ReportMailer interface {
	Enabled() bool
	SendSummaryReport(ctx context.Context, to, subject, html string, attachment []byte, filename string) error
}

// ReportService renders summary spreadsheets and emails them.
type ReportService struct {
	store        storage.Store
	transactions *TransactionService
	mailer       ReportMailer
	logger       *slog.Logger
}

// NewReportService creates a new report service.
func NewReportService(store storage.Store, transactions *TransactionService, mailer ReportMailer, logger *slog.Logger) *ReportService {
	return &ReportService{
		store:        store,
		transactions: transactions,
		mailer:       mailer,
		logger:       logger,
	}
}

// SummaryWorkbook builds the daily or monthly summary spreadsheet and
// returns it together with its download filename.
func (s *ReportService) SummaryWorkbook(ctx context.Context, userID string, monthly bool) ([]byte, string, error) {
	summary, err := s.transactions.Summary(ctx, userID, monthly, time.Now())
	if err != nil {
		return nil, "", err
	}

	data, err := export.SummaryWorkbook(summary)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build workbook: %w", err)
	}

	filename := "daily-summary.xlsx"
	if monthly {
		filename = "monthly-summary.xlsx"
	}
	return data, filename, nil
}

// SendSummary emails the user their daily or monthly summary spreadsheet.
func (s *ReportService) SendSummary(ctx context.Context, userID string, monthly bool) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.Email == "" {
		return ErrNoEmail
	}

	data, _, err := s.SummaryWorkbook(ctx, userID, monthly)
	if err != nil {
		return err
	}

	reportType := "Daily"
	if monthly {
		reportType = "Monthly"
	}
	subject := fmt.Sprintf("Your %s Expense Summary", reportType)
	html := fmt.Sprintf(
		"<html><body><h3>%s Expense Summary</h3><p>Please find attached your %s expense summary.</p></body></html>",
		reportType, strings.ToLower(reportType),
	)
	filename := fmt.Sprintf("expense-summary-%s.xlsx", strings.ToLower(reportType))

	if err := s.mailer.SendSummaryReport(ctx, user.Email, subject, html, data, filename); err != nil {
		s.logger.Error("Summary email failed", "user_id", userID, "error", err)
		return fmt.Errorf("failed to send summary: %w", err)
	}

	s.logger.Info("Summary sent", "user_id", userID, "monthly", monthly)
	return nil
}
