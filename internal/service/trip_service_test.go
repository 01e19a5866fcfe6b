package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/storage"
)

func newTestTripService(t *testing.T) (*TripService, string) {
	t.Helper()

	store := newTestStore(t)
	svc := NewTripService(store, testLogger())

	user := models.NewUser("trips@example.com", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return svc, user.ID
}

func TestCreateTrip(t *testing.T) {
	svc, userID := newTestTripService(t)
	ctx := context.Background()

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, userID, "   ", models.Date{}, models.Date{}, nil)
		if !errors.Is(err, ErrEmptyTripName) {
			t.Errorf("Expected ErrEmptyTripName, got %v", err)
		}
	})

	t.Run("initial roster is trimmed and deduped", func(t *testing.T) {
		trip, err := svc.Create(ctx, userID, "Goa", models.Date{}, models.Date{},
			[]string{" Alice ", "alice", "", "Bob"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		names := trip.ParticipantNames()
		if len(names) != 2 || names[0] != "Alice" || names[1] != "Bob" {
			t.Errorf("Expected [Alice Bob], got %v", names)
		}
	})

	t.Run("dates survive the round trip", func(t *testing.T) {
		start := models.NewDate(2026, 3, 1)
		end := models.NewDate(2026, 3, 7)
		trip, err := svc.Create(ctx, userID, "Manali", start, end, nil)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if !trip.StartDate.Equal(start.Time) || !trip.EndDate.Equal(end.Time) {
			t.Errorf("Expected %v-%v, got %v-%v", start, end, trip.StartDate, trip.EndDate)
		}
	})
}

func TestAddParticipant(t *testing.T) {
	svc, userID := newTestTripService(t)
	ctx := context.Background()

	trip, err := svc.Create(ctx, userID, "Goa", models.Date{}, models.Date{}, []string{"Alice"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("blank name is rejected", func(t *testing.T) {
		err := svc.AddParticipant(ctx, userID, trip.ID, "  ")
		if !errors.Is(err, ErrEmptyParticipant) {
			t.Errorf("Expected ErrEmptyParticipant, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate keeps first casing", func(t *testing.T) {
		if err := svc.AddParticipant(ctx, userID, trip.ID, "ALICE"); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		got, _ := svc.Get(ctx, userID, trip.ID)
		names := got.ParticipantNames()
		if len(names) != 1 || names[0] != "Alice" {
			t.Errorf("Expected [Alice], got %v", names)
		}
	})

	t.Run("unknown trip yields not found", func(t *testing.T) {
		err := svc.AddParticipant(ctx, userID, "missing-trip", "Bob")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestAddExpense(t *testing.T) {
	svc, userID := newTestTripService(t)
	ctx := context.Background()

	trip, err := svc.Create(ctx, userID, "Goa", models.Date{}, models.Date{}, []string{"Alice"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("payer is required and amount must not be negative", func(t *testing.T) {
		if _, err := svc.AddExpense(ctx, userID, trip.ID, " ", 10, "", time.Time{}); !errors.Is(err, ErrEmptyPayer) {
			t.Errorf("Expected ErrEmptyPayer, got %v", err)
		}
		if _, err := svc.AddExpense(ctx, userID, trip.ID, "Bob", -1, "", time.Time{}); !errors.Is(err, ErrNegativeAmount) {
			t.Errorf("Expected ErrNegativeAmount, got %v", err)
		}
	})

	t.Run("zero amount is allowed", func(t *testing.T) {
		expense, err := svc.AddExpense(ctx, userID, trip.ID, "Alice", 0, "placeholder", time.Time{})
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
		if expense.Amount != 0 {
			t.Errorf("Expected zero amount kept, got %v", expense.Amount)
		}
	})

	t.Run("caller-supplied timestamp is kept", func(t *testing.T) {
		when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		expense, err := svc.AddExpense(ctx, userID, trip.ID, "Alice", 12, "ferry", when)
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
		if !expense.CreatedAt.Equal(when) {
			t.Errorf("Expected created_at %v, got %v", when, expense.CreatedAt)
		}

		got, _ := svc.Get(ctx, userID, trip.ID)
		last := got.Expenses[len(got.Expenses)-1]
		if !last.CreatedAt.Equal(when) {
			t.Errorf("Expected stored created_at %v, got %v", when, last.CreatedAt)
		}
	})

	t.Run("new payer joins the roster", func(t *testing.T) {
		expense, err := svc.AddExpense(ctx, userID, trip.ID, "Bob", 90, "hotel", time.Time{})
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
		if expense.PaidBy != "Bob" || expense.Amount != 90 {
			t.Errorf("Unexpected expense %+v", expense)
		}

		got, _ := svc.Get(ctx, userID, trip.ID)
		if !got.HasParticipant("bob") {
			t.Errorf("Expected Bob on roster, got %v", got.ParticipantNames())
		}
	})
}

func TestTripSettlement(t *testing.T) {
	svc, userID := newTestTripService(t)
	ctx := context.Background()

	trip, err := svc.Create(ctx, userID, "Goa", models.Date{}, models.Date{},
		[]string{"Alice", "Bob", "Carol"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.AddExpense(ctx, userID, trip.ID, "Alice", 90, "dinner", time.Time{}); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	result, err := svc.Settlement(ctx, userID, trip.ID)
	if err != nil {
		t.Fatalf("Settlement failed: %v", err)
	}

	if result.Total != 90 {
		t.Errorf("Expected total 90, got %v", result.Total)
	}
	if result.PerPerson != 30 {
		t.Errorf("Expected per person 30, got %v", result.PerPerson)
	}
	if result.Balances["Alice"] != 60 || result.Balances["Bob"] != -30 || result.Balances["Carol"] != -30 {
		t.Errorf("Unexpected balances %v", result.Balances)
	}
	if len(result.Lines) != 2 {
		t.Errorf("Expected 2 settlement lines, got %v", result.Lines)
	}

	t.Run("empty trip settles to zero", func(t *testing.T) {
		empty, err := svc.Create(ctx, userID, "Nowhere", models.Date{}, models.Date{}, nil)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		result, err := svc.Settlement(ctx, userID, empty.ID)
		if err != nil {
			t.Fatalf("Settlement failed: %v", err)
		}
		if result.Total != 0 || len(result.Lines) != 0 {
			t.Errorf("Expected zero settlement, got %+v", result)
		}
		if result.Balances == nil || result.Lines == nil {
			t.Error("Expected non-nil balances and lines")
		}
	})
}
