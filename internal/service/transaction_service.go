package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/storage"
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrInvalidType   = errors.New("type must be income or expense")
)

// TransactionService manages a user's income and expense entries and
// builds reporting summaries from them.
type TransactionService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(store storage.Store, logger *slog.Logger) *TransactionService {
	return &TransactionService{store: store, logger: logger}
}

// Create validates and stores a new transaction. A zero createdAt defaults
// to record creation time.
func (s *TransactionService) Create(ctx context.Context, userID string, amount float64, txType, description string, createdAt time.Time) (*models.Transaction, error) {
	if err := validateTransaction(amount, txType); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		UserID:      userID,
		Amount:      amount,
		Type:        txType,
		Description: description,
		CreatedAt:   createdAt,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.logger.Info("Transaction created", "user_id", userID, "transaction_id", tx.ID, "type", txType)
	return tx, nil
}

// List returns the user's transactions, newest first.
func (s *TransactionService) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

// Update replaces the amount, type and description of an owned transaction.
func (s *TransactionService) Update(ctx context.Context, userID, txID string, amount float64, txType, description string) error {
	if err := validateTransaction(amount, txType); err != nil {
		return err
	}
	return s.store.UpdateTransaction(ctx, userID, txID, amount, txType, description)
}

// Delete removes an owned transaction.
func (s *TransactionService) Delete(ctx context.Context, userID, txID string) error {
	return s.store.DeleteTransaction(ctx, userID, txID)
}

// Summary aggregates the user's transactions for reporting. Monthly
// summaries cover the current calendar month and carry a "January 2006"
// period label; daily summaries cover the current UTC day.
func (s *TransactionService) Summary(ctx context.Context, userID string, monthly bool, now time.Time) (*models.Summary, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	now = now.UTC()
	summary := &models.Summary{Monthly: monthly, Entries: []models.Transaction{}}
	if monthly {
		summary.Period = now.Format("January 2006")
	}

	for _, tx := range txs {
		created := tx.CreatedAt.UTC()
		if monthly {
			if created.Year() != now.Year() || created.Month() != now.Month() {
				continue
			}
		} else {
			y1, m1, d1 := created.Date()
			y2, m2, d2 := now.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}

		switch tx.Type {
		case models.TypeIncome:
			summary.Income += tx.Amount
		case models.TypeExpense:
			summary.Expense += tx.Amount
		}
		summary.Entries = append(summary.Entries, tx)
	}

	return summary, nil
}

func validateTransaction(amount float64, txType string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if txType != models.TypeIncome && txType != models.TypeExpense {
		return ErrInvalidType
	}
	return nil
}
