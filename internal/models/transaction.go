package models

import "time"

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction represents a single income or expense entry owned by a user.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// UserID is the owner; all reads and mutations are scoped to it.
	UserID string `json:"-"`

	// Amount is the monetary value. Currency-agnostic decimal.
	Amount float64 `json:"amount"`

	// Type is either TypeIncome or TypeExpense.
	Type string `json:"type"`

	// Description is free text, default empty.
	Description string `json:"description"`

	// CreatedAt is when the transaction happened. Defaults to record
	// creation time when the caller does not supply one.
	CreatedAt time.Time `json:"created_at"`
}

// Summary aggregates a user's transactions for a reporting period.
// Daily summaries cover the current day, monthly summaries the current
// calendar month.
type Summary struct {
	// Period is a human-readable label, e.g. "September 2026".
	// Empty for daily summaries.
	Period string `json:"period,omitempty"`

	// Monthly reports whether this is a monthly or daily summary.
	Monthly bool `json:"monthly"`

	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`

	// Entries are the transactions included in the period.
	Entries []Transaction `json:"entries"`
}

// Net returns income minus expense.
func (s Summary) Net() float64 {
	return s.Income - s.Expense
}
