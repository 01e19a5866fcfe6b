package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"fintrack/internal/models"
	"fintrack/internal/storage"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, nickname, password_hash, is_guest, created_at, guest_expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var email interface{}
	if user.Email != "" {
		email = user.Email
	}

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		email,
		user.Nickname,
		user.PasswordHash,
		user.IsGuest,
		user.CreatedAt,
		user.GuestExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a registered user by email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// GetGuestByNickname retrieves a guest user by nickname, case-insensitively.
func (s *SQLiteStore) GetGuestByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return s.getUser(ctx, "is_guest = 1 AND nickname = ? COLLATE NOCASE", nickname)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT id, email, nickname, password_hash, is_guest, created_at, guest_expires_at
		FROM users
		WHERE ` + where

	user := &models.User{}
	var email sql.NullString
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&email,
		&user.Nickname,
		&user.PasswordHash,
		&user.IsGuest,
		&user.CreatedAt,
		&user.GuestExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if email.Valid {
		user.Email = email.String
	}

	return user, nil
}

// UpdateUserPassword replaces a user's password hash.
func (s *SQLiteStore) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?",
		passwordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}

	return nil
}
