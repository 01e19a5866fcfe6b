package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/models"
)

func TestSummaryWorkbook(t *testing.T) {
	store := newTestStore(t)
	transactions := NewTransactionService(store, testLogger())
	svc := NewReportService(store, transactions, &fakeMailer{}, testLogger())
	ctx := context.Background()

	user := models.NewUser("report@example.com", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := transactions.Create(ctx, user.ID, 50, models.TypeExpense, "groceries", time.Time{}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, tc := range []struct {
		monthly  bool
		filename string
	}{
		{false, "daily-summary.xlsx"},
		{true, "monthly-summary.xlsx"},
	} {
		data, filename, err := svc.SummaryWorkbook(ctx, user.ID, tc.monthly)
		if err != nil {
			t.Fatalf("SummaryWorkbook(monthly=%v) failed: %v", tc.monthly, err)
		}
		if len(data) == 0 {
			t.Errorf("Expected workbook bytes for monthly=%v", tc.monthly)
		}
		if filename != tc.filename {
			t.Errorf("Expected filename %s, got %s", tc.filename, filename)
		}
	}
}

func TestSendSummary(t *testing.T) {
	store := newTestStore(t)
	transactions := NewTransactionService(store, testLogger())
	mailer := &fakeMailer{enabled: true}
	svc := NewReportService(store, transactions, mailer, testLogger())
	ctx := context.Background()

	user := models.NewUser("send@example.com", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := svc.SendSummary(ctx, user.ID, true); err != nil {
		t.Fatalf("SendSummary failed: %v", err)
	}
	if len(mailer.reports) != 1 || mailer.reports[0] != "send@example.com" {
		t.Errorf("Expected report sent to user, got %v", mailer.reports)
	}

	t.Run("guest without email is rejected", func(t *testing.T) {
		guest := models.NewGuest("Roamer", time.Hour)
		if err := store.CreateUser(ctx, guest); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		err := svc.SendSummary(ctx, guest.ID, false)
		if !errors.Is(err, ErrNoEmail) {
			t.Errorf("Expected ErrNoEmail, got %v", err)
		}
	})

	t.Run("mailer failure surfaces", func(t *testing.T) {
		mailer.fail = true
		if err := svc.SendSummary(ctx, user.ID, false); err == nil {
			t.Error("Expected error when mailer fails")
		}
	})
}
