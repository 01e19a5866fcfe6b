package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/models"
)

func TestTransactionCRUD(t *testing.T) {
	store := newTestStore(t)
	svc := NewTransactionService(store, testLogger())
	ctx := context.Background()

	user := models.NewUser("txs@example.com", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("create validates amount and type", func(t *testing.T) {
		if _, err := svc.Create(ctx, user.ID, 0, models.TypeExpense, "", time.Time{}); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Expected ErrInvalidAmount, got %v", err)
		}
		if _, err := svc.Create(ctx, user.ID, -5, models.TypeExpense, "", time.Time{}); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Expected ErrInvalidAmount, got %v", err)
		}
		if _, err := svc.Create(ctx, user.ID, 10, "transfer", "", time.Time{}); !errors.Is(err, ErrInvalidType) {
			t.Errorf("Expected ErrInvalidType, got %v", err)
		}
	})

	t.Run("create then list", func(t *testing.T) {
		tx, err := svc.Create(ctx, user.ID, 120.5, models.TypeIncome, "freelance", time.Time{})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if tx.ID == "" {
			t.Error("Expected transaction ID")
		}
		if tx.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt default")
		}

		txs, err := svc.List(ctx, user.ID)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(txs) != 1 || txs[0].Description != "freelance" {
			t.Errorf("Unexpected list %+v", txs)
		}
	})

	t.Run("update validates before touching storage", func(t *testing.T) {
		txs, _ := svc.List(ctx, user.ID)
		err := svc.Update(ctx, user.ID, txs[0].ID, -1, models.TypeIncome, "")
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("caller-supplied timestamp is kept", func(t *testing.T) {
		when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		tx, err := svc.Create(ctx, user.ID, 7.5, models.TypeExpense, "backfill", when)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if !tx.CreatedAt.Equal(when) {
			t.Errorf("Expected created_at %v, got %v", when, tx.CreatedAt)
		}
	})

	t.Run("list for empty user is an empty slice", func(t *testing.T) {
		other := models.NewUser("empty@example.com", "hash")
		if err := store.CreateUser(ctx, other); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		txs, err := svc.List(ctx, other.ID)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if txs == nil {
			t.Error("Expected empty slice, got nil")
		}
	})
}

func TestTransactionSummary(t *testing.T) {
	store := newTestStore(t)
	svc := NewTransactionService(store, testLogger())
	ctx := context.Background()

	user := models.NewUser("summary@example.com", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	now := time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)
	entries := []struct {
		amount  float64
		txType  string
		created time.Time
	}{
		{100, models.TypeIncome, now},
		{40, models.TypeExpense, now.Add(-2 * time.Hour)},
		{25, models.TypeExpense, now.AddDate(0, 0, -3)}, // same month, earlier day
		{999, models.TypeIncome, now.AddDate(0, -1, 0)}, // previous month
	}
	for _, e := range entries {
		tx := &models.Transaction{
			UserID:    user.ID,
			Amount:    e.amount,
			Type:      e.txType,
			CreatedAt: e.created,
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	t.Run("daily covers the current day only", func(t *testing.T) {
		summary, err := svc.Summary(ctx, user.ID, false, now)
		if err != nil {
			t.Fatalf("Summary failed: %v", err)
		}
		if summary.Monthly {
			t.Error("Expected daily summary")
		}
		if summary.Income != 100 || summary.Expense != 40 {
			t.Errorf("Expected income 100 expense 40, got %v/%v", summary.Income, summary.Expense)
		}
		if len(summary.Entries) != 2 {
			t.Errorf("Expected 2 entries, got %d", len(summary.Entries))
		}
		if summary.Period != "" {
			t.Errorf("Expected empty period for daily summary, got %q", summary.Period)
		}
	})

	t.Run("monthly covers the calendar month", func(t *testing.T) {
		summary, err := svc.Summary(ctx, user.ID, true, now)
		if err != nil {
			t.Fatalf("Summary failed: %v", err)
		}
		if summary.Period != "September 2026" {
			t.Errorf("Expected period September 2026, got %q", summary.Period)
		}
		if summary.Income != 100 || summary.Expense != 65 {
			t.Errorf("Expected income 100 expense 65, got %v/%v", summary.Income, summary.Expense)
		}
		if summary.Net() != 35 {
			t.Errorf("Expected net 35, got %v", summary.Net())
		}
		if len(summary.Entries) != 3 {
			t.Errorf("Expected 3 entries, got %d", len(summary.Entries))
		}
	})
}
