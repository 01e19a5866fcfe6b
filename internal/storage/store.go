// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"fintrack/internal/models"
)

// ErrNotFound is returned when a record does not exist or is owned by a
// different user. The two cases are deliberately indistinguishable so a
// lookup leaks nothing about other users' data.
var ErrNotFound = errors.New("not found")

// Store defines the interface for all persistence operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// Users

	// CreateUser persists a new user. The user.ID field must be set.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a registered user by email.
	// Returns (nil, nil) when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) when no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetGuestByNickname retrieves a guest user by nickname,
	// case-insensitively. Returns (nil, nil) when no such guest exists.
	GetGuestByNickname(ctx context.Context, nickname string) (*models.User, error)

	// UpdateUserPassword replaces a user's password hash.
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error

	// Transactions. All owner-scoped; a mismatched owner yields ErrNotFound.

	// CreateTransaction persists a new transaction, assigning an ID if unset.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// ListTransactions returns a user's transactions, newest first.
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)

	// UpdateTransaction updates amount, type and description of an owned
	// transaction.
	UpdateTransaction(ctx context.Context, userID, txID string, amount float64, txType, description string) error

	// DeleteTransaction removes an owned transaction.
	DeleteTransaction(ctx context.Context, userID, txID string) error

	// Trips. Participants and expenses are append-only rows, so concurrent
	// appends to the same trip cannot lose updates.

	// CreateTrip persists a new empty trip. The trip.ID field must be set.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// ListTrips returns all trips owned by a user, with participants and
	// expenses loaded, newest first.
	ListTrips(ctx context.Context, ownerID string) ([]*models.Trip, error)

	// GetTrip retrieves a trip by ID; the ownership check is folded into the
	// lookup and a foreign trip yields ErrNotFound.
	GetTrip(ctx context.Context, ownerID, tripID string) (*models.Trip, error)

	// AddTripParticipant appends a participant unless the name is already on
	// the roster case-insensitively (the first-inserted casing is kept).
	AddTripParticipant(ctx context.Context, tripID, name string) error

	// AddTripExpense appends an expense, assigning an ID if unset.
	AddTripExpense(ctx context.Context, tripID string, expense *models.TripExpense) error

	// Close releases any resources held by the store.
	Close() error
}
