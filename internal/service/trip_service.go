package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/calculator"
	"fintrack/internal/models"
	"fintrack/internal/storage"
)

var (
	ErrEmptyTripName    = errors.New("trip name is required")
	ErrEmptyParticipant = errors.New("participant name is required")
	ErrEmptyPayer       = errors.New("paid_by is required")
	ErrNegativeAmount   = errors.New("amount must not be negative")
)

// TripService manages trips, their rosters and shared expenses, and runs
// settlements over them.
type TripService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewTripService creates a new trip service.
func NewTripService(store storage.Store, logger *slog.Logger) *TripService {
	return &TripService{store: store, logger: logger}
}

// Create stores a new trip with an optional initial roster. Participant
// names are trimmed; blanks and case-insensitive duplicates are dropped.
func (s *TripService) Create(ctx context.Context, ownerID, name string, startDate, endDate models.Date, participants []string) (*models.Trip, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTripName
	}

	trip := models.NewTrip(ownerID, name, startDate, endDate)
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	for _, p := range participants {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if err := s.store.AddTripParticipant(ctx, trip.ID, p); err != nil {
			return nil, fmt.Errorf("failed to add participant: %w", err)
		}
	}

	created, err := s.store.GetTrip(ctx, ownerID, trip.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Trip created", "user_id", ownerID, "trip_id", trip.ID, "name", name)
	return created, nil
}

// List returns the user's trips, newest first.
func (s *TripService) List(ctx context.Context, ownerID string) ([]*models.Trip, error) {
	trips, err := s.store.ListTrips(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	if trips == nil {
		trips = []*models.Trip{}
	}
	return trips, nil
}

// Get returns a single owned trip with roster and expenses.
func (s *TripService) Get(ctx context.Context, ownerID, tripID string) (*models.Trip, error) {
	return s.store.GetTrip(ctx, ownerID, tripID)
}

// AddParticipant appends a name to the roster. Adding a name already on the
// roster (in any casing) is a no-op that keeps the original casing.
func (s *TripService) AddParticipant(ctx context.Context, ownerID, tripID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyParticipant
	}

	// Ownership check; participants hang off the trip row.
	if _, err := s.store.GetTrip(ctx, ownerID, tripID); err != nil {
		return err
	}

	if err := s.store.AddTripParticipant(ctx, tripID, name); err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	s.logger.Info("Participant added", "trip_id", tripID, "name", name)
	return nil
}

// AddExpense records a shared expense. The payer is added to the roster
// automatically if missing. Zero amounts are allowed (a placeholder entry);
// negative ones are not. A zero createdAt defaults to record creation time.
func (s *TripService) AddExpense(ctx context.Context, ownerID, tripID, paidBy string, amount float64, description string, createdAt time.Time) (*models.TripExpense, error) {
	paidBy = strings.TrimSpace(paidBy)
	if paidBy == "" {
		return nil, ErrEmptyPayer
	}
	if amount < 0 {
		return nil, ErrNegativeAmount
	}

	if _, err := s.store.GetTrip(ctx, ownerID, tripID); err != nil {
		return nil, err
	}

	expense := &models.TripExpense{
		PaidBy:      paidBy,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		CreatedAt:   createdAt,
	}
	if err := s.store.AddTripExpense(ctx, tripID, expense); err != nil {
		return nil, fmt.Errorf("failed to add expense: %w", err)
	}

	s.logger.Info("Expense added", "trip_id", tripID, "paid_by", paidBy, "amount", amount)
	return expense, nil
}

// Settlement computes who owes whom for a trip.
func (s *TripService) Settlement(ctx context.Context, ownerID, tripID string) (*calculator.Result, error) {
	trip, err := s.store.GetTrip(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}

	expenses := make([]calculator.Expense, 0, len(trip.Expenses))
	for _, e := range trip.Expenses {
		expenses = append(expenses, calculator.Expense{PaidBy: e.PaidBy, Amount: e.Amount})
	}

	result := calculator.Settle(trip.ParticipantNames(), expenses)
	return &result, nil
}
