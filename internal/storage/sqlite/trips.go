package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/models"
	"fintrack/internal/storage"
)

// CreateTrip persists a new empty trip.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}

	var start, end interface{}
	if !trip.StartDate.IsZero() {
		start = trip.StartDate.Unix()
	}
	if !trip.EndDate.IsZero() {
		end = trip.EndDate.Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trips (id, owner_id, name, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.OwnerID, trip.Name, start, end, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	return nil
}

// GetTrip retrieves a trip with participants and expenses in insertion
// order. The ownership check is part of the lookup: a trip owned by someone
// else yields ErrNotFound, leaking nothing about its existence.
func (s *SQLiteStore) GetTrip(ctx context.Context, ownerID, tripID string) (*models.Trip, error) {
	trip, err := s.scanTrip(ctx, ownerID, tripID)
	if err != nil {
		return nil, err
	}
	if err := s.loadTripChildren(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// ListTrips returns all trips owned by a user, newest first, with
// participants and expenses loaded.
func (s *SQLiteStore) ListTrips(ctx context.Context, ownerID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, start_date, end_date, created_at
		 FROM trips WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip, err := scanTripRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	for _, trip := range trips {
		if err := s.loadTripChildren(ctx, trip); err != nil {
			return nil, err
		}
	}

	return trips, nil
}

// AddTripParticipant appends a participant. INSERT OR IGNORE against the
// case-insensitive unique index makes the append atomic and keeps the
// first-inserted casing when the name is already on the roster.
func (s *SQLiteStore) AddTripParticipant(ctx context.Context, tripID, name string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO trip_participants (trip_id, name) VALUES (?, ?)",
		tripID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// AddTripExpense appends an expense and auto-adds its payer to the roster in
// one transaction, so every stored paid_by ends up represented in
// participants.
func (s *SQLiteStore) AddTripExpense(ctx context.Context, tripID string, expense *models.TripExpense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if expense.PaidBy != "" {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO trip_participants (trip_id, name) VALUES (?, ?)",
			tripID, expense.PaidBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payer as participant: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trip_expenses (id, trip_id, paid_by, amount, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID, tripID, expense.PaidBy, expense.Amount, expense.Description, expense.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *SQLiteStore) scanTrip(ctx context.Context, ownerID, tripID string) (*models.Trip, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, start_date, end_date, created_at
		 FROM trips WHERE id = ? AND owner_id = ?`,
		tripID, ownerID,
	)
	trip, err := scanTripRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	return trip, err
}

func scanTripRow(scan func(...interface{}) error) (*models.Trip, error) {
	trip := &models.Trip{
		Participants: []models.Participant{},
		Expenses:     []models.TripExpense{},
	}
	var start, end sql.NullInt64
	err := scan(&trip.ID, &trip.OwnerID, &trip.Name, &start, &end, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan trip: %w", err)
	}
	if start.Valid {
		trip.StartDate = models.Date{Time: time.Unix(start.Int64, 0).UTC()}
	}
	if end.Valid {
		trip.EndDate = models.Date{Time: time.Unix(end.Int64, 0).UTC()}
	}
	return trip, nil
}

// loadTripChildren fills participants and expenses, ordered by rowid so
// insertion order is preserved.
func (s *SQLiteStore) loadTripChildren(ctx context.Context, trip *models.Trip) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM trip_participants WHERE trip_id = ? ORDER BY rowid",
		trip.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		trip.Participants = append(trip.Participants, models.Participant{Name: name})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	expRows, err := s.db.QueryContext(ctx,
		`SELECT id, paid_by, amount, description, created_at
		 FROM trip_expenses WHERE trip_id = ? ORDER BY rowid`,
		trip.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expenses: %w", err)
	}
	defer expRows.Close()

	for expRows.Next() {
		var exp models.TripExpense
		var createdAt int64
		if err := expRows.Scan(&exp.ID, &exp.PaidBy, &exp.Amount, &exp.Description, &createdAt); err != nil {
			return fmt.Errorf("failed to scan expense: %w", err)
		}
		exp.CreatedAt = time.Unix(createdAt, 0).UTC()
		trip.Expenses = append(trip.Expenses, exp)
	}
	if err := expRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return nil
}
