package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/models"
	"fintrack/internal/storage"
)

// CreateTransaction persists a new transaction, assigning ID and timestamp
// if unset.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, amount, type, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.Amount, tx.Type, tx.Description, tx.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// ListTransactions returns a user's transactions, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, amount, type, description, created_at
		 FROM transactions WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var createdAt int64
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.CreatedAt = time.Unix(createdAt, 0).UTC()
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}

// UpdateTransaction updates an owned transaction. A transaction belonging to
// another user is indistinguishable from a missing one.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, userID, txID string, amount float64, txType, description string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET amount = ?, type = ?, description = ?
		 WHERE id = ? AND user_id = ?`,
		amount, txType, description, txID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", txID, storage.ErrNotFound)
	}

	return nil
}

// DeleteTransaction removes an owned transaction.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, txID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND user_id = ?",
		txID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", txID, storage.ErrNotFound)
	}

	return nil
}
