package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "fintrack-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()

	user := models.NewUser(email, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create and get registered user", func(t *testing.T) {
		user := createTestUser(t, store, "alice@example.com")

		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}

		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil {
			t.Fatal("Expected user, got nil")
		}
		if got.ID != user.ID {
			t.Errorf("Expected ID %s, got %s", user.ID, got.ID)
		}
		if got.IsGuest {
			t.Error("Expected registered user, got guest")
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID == nil || byID.Email != "alice@example.com" {
			t.Errorf("Expected alice@example.com, got %+v", byID)
		}
	})

	t.Run("missing user yields nil without error", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil, got %+v", got)
		}
	})

	t.Run("guest nickname lookup is case-insensitive", func(t *testing.T) {
		guest := models.NewGuest("Wanderer", time.Hour)
		if err := store.CreateUser(ctx, guest); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		got, err := store.GetGuestByNickname(ctx, "wanderer")
		if err != nil {
			t.Fatalf("GetGuestByNickname failed: %v", err)
		}
		if got == nil {
			t.Fatal("Expected guest, got nil")
		}
		if got.Nickname != "Wanderer" {
			t.Errorf("Expected original casing Wanderer, got %s", got.Nickname)
		}
	})

	t.Run("duplicate guest nickname is rejected", func(t *testing.T) {
		first := models.NewGuest("Traveler", time.Hour)
		if err := store.CreateUser(ctx, first); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		dup := models.NewGuest("TRAVELER", time.Hour)
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected unique constraint error for duplicate nickname")
		}
	})

	t.Run("update password", func(t *testing.T) {
		user := createTestUser(t, store, "update-pass@example.com")

		if err := store.UpdateUserPassword(ctx, user.ID, "newhash"); err != nil {
			t.Fatalf("UpdateUserPassword failed: %v", err)
		}

		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.PasswordHash != "newhash" {
			t.Errorf("Expected updated hash, got %s", got.PasswordHash)
		}

		err = store.UpdateUserPassword(ctx, "missing-id", "hash")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "txs@example.com")
	other := createTestUser(t, store, "other@example.com")

	t.Run("create generates ID and timestamp", func(t *testing.T) {
		tx := &models.Transaction{
			UserID: user.ID,
			Amount: 42.5,
			Type:   models.TypeExpense,
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if tx.ID == "" {
			t.Error("Expected transaction ID to be generated")
		}
		if tx.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("list is scoped to the owner", func(t *testing.T) {
		txs, err := store.ListTransactions(ctx, other.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 0 {
			t.Errorf("Expected no transactions for other user, got %d", len(txs))
		}

		mine, err := store.ListTransactions(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(mine) != 1 {
			t.Fatalf("Expected 1 transaction, got %d", len(mine))
		}
		if mine[0].Amount != 42.5 || mine[0].Type != models.TypeExpense {
			t.Errorf("Unexpected transaction %+v", mine[0])
		}
	})

	t.Run("update and delete require ownership", func(t *testing.T) {
		txs, _ := store.ListTransactions(ctx, user.ID)
		txID := txs[0].ID

		err := store.UpdateTransaction(ctx, other.ID, txID, 10, models.TypeIncome, "")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for foreign update, got %v", err)
		}

		if err := store.UpdateTransaction(ctx, user.ID, txID, 10, models.TypeIncome, "salary"); err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}

		updated, _ := store.ListTransactions(ctx, user.ID)
		if updated[0].Amount != 10 || updated[0].Type != models.TypeIncome || updated[0].Description != "salary" {
			t.Errorf("Update not applied: %+v", updated[0])
		}

		err = store.DeleteTransaction(ctx, other.ID, txID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for foreign delete, got %v", err)
		}
		if err := store.DeleteTransaction(ctx, user.ID, txID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}

		remaining, _ := store.ListTransactions(ctx, user.ID)
		if len(remaining) != 0 {
			t.Errorf("Expected no transactions after delete, got %d", len(remaining))
		}
	})
}

func TestTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "trips@example.com")
	other := createTestUser(t, store, "stranger@example.com")

	t.Run("create and get trip", func(t *testing.T) {
		trip := models.NewTrip(user.ID, "Goa", models.Date{}, models.Date{})
		if err := store.CreateTrip(ctx, trip); err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}
		if trip.ID == "" {
			t.Error("Expected trip ID to be generated")
		}

		got, err := store.GetTrip(ctx, user.ID, trip.ID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if got.Name != "Goa" {
			t.Errorf("Expected name Goa, got %s", got.Name)
		}
		if got.Participants == nil || got.Expenses == nil {
			t.Error("Expected non-nil participants and expenses")
		}
	})

	t.Run("foreign trips look missing", func(t *testing.T) {
		trips, _ := store.ListTrips(ctx, user.ID)
		_, err := store.GetTrip(ctx, other.ID, trips[0].ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("participants dedupe case-insensitively keeping first casing", func(t *testing.T) {
		trips, _ := store.ListTrips(ctx, user.ID)
		tripID := trips[0].ID

		for _, name := range []string{"Alice", "alice", "ALICE", "Bob"} {
			if err := store.AddTripParticipant(ctx, tripID, name); err != nil {
				t.Fatalf("AddTripParticipant(%s) failed: %v", name, err)
			}
		}

		got, err := store.GetTrip(ctx, user.ID, tripID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		names := got.ParticipantNames()
		if len(names) != 2 || names[0] != "Alice" || names[1] != "Bob" {
			t.Errorf("Expected [Alice Bob], got %v", names)
		}
	})

	t.Run("expense auto-adds payer to roster", func(t *testing.T) {
		trips, _ := store.ListTrips(ctx, user.ID)
		tripID := trips[0].ID

		expense := &models.TripExpense{PaidBy: "Carol", Amount: 90, Description: "hotel"}
		if err := store.AddTripExpense(ctx, tripID, expense); err != nil {
			t.Fatalf("AddTripExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("Expected expense ID to be generated")
		}

		got, _ := store.GetTrip(ctx, user.ID, tripID)
		if !got.HasParticipant("carol") {
			t.Errorf("Expected payer on roster, got %v", got.ParticipantNames())
		}
		if len(got.Expenses) != 1 || got.Expenses[0].Amount != 90 {
			t.Errorf("Unexpected expenses %+v", got.Expenses)
		}
	})

	t.Run("list returns newest first with children", func(t *testing.T) {
		second := models.NewTrip(user.ID, "Manali", models.Date{}, models.Date{})
		second.CreatedAt = time.Now().Unix() + 10
		if err := store.CreateTrip(ctx, second); err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}

		trips, err := store.ListTrips(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListTrips failed: %v", err)
		}
		if len(trips) != 2 {
			t.Fatalf("Expected 2 trips, got %d", len(trips))
		}
		if trips[0].Name != "Manali" {
			t.Errorf("Expected newest trip first, got %s", trips[0].Name)
		}
		if trips[1].Participants == nil {
			t.Error("Expected children loaded for listed trips")
		}
	})
}
