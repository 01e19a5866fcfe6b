package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Date is a calendar date without a time component. The zero value means
// "unset" and marshals to JSON null, so optional trip dates stay optional on
// the wire.
type Date struct {
	time.Time
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 date, accepting either a bare date
// ("2006-01-02") or a full timestamp whose date part is kept.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	y, m, d := t.Date()
	return NewDate(y, int(m), d), nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Participant is a named member of a trip. Names are unique
// case-insensitively within a trip; the first-inserted casing is kept.
type Participant struct {
	Name string `json:"name"`
}

// TripExpense is one shared expense on a trip.
//
// PaidBy is a participant name, not an owning relationship: an expense may
// name a payer that is not yet on the roster, in which case the participant
// is created implicitly.
type TripExpense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"-"`

	// PaidBy is the name of the participant who paid.
	PaidBy string `json:"paid_by"`

	// Amount is the non-negative expense value.
	Amount float64 `json:"amount"`

	// Description is free text, default empty.
	Description string `json:"description"`

	// CreatedAt defaults to record creation time if not supplied.
	CreatedAt time.Time `json:"created_at"`
}

// Trip is a bounded group expense-sharing session. Participants and expenses
// are append-only and keep insertion order.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string `json:"id"`

	// OwnerID is the user who created the trip; all access is scoped to it.
	OwnerID string `json:"-"`

	// Name is a free-text label.
	Name string `json:"name"`

	// StartDate and EndDate are optional; no ordering between them is
	// enforced.
	StartDate Date `json:"start_date"`
	EndDate   Date `json:"end_date"`

	// Participants in insertion order (= display order).
	Participants []Participant `json:"participants"`

	// Expenses in insertion order (= chronological entry order, not
	// necessarily by timestamp).
	Expenses []TripExpense `json:"expenses"`

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64 `json:"created"`
}

// NewTrip creates an empty trip for the given owner.
func NewTrip(ownerID, name string, start, end Date) *Trip {
	return &Trip{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Name:         name,
		StartDate:    start,
		EndDate:      end,
		Participants: []Participant{},
		Expenses:     []TripExpense{},
		CreatedAt:    time.Now().Unix(),
	}
}

// ParticipantNames returns the roster as plain names in display order.
func (t *Trip) ParticipantNames() []string {
	names := make([]string, len(t.Participants))
	for i, p := range t.Participants {
		names[i] = p.Name
	}
	return names
}

// HasParticipant reports whether name is already on the roster,
// case-insensitively.
func (t *Trip) HasParticipant(name string) bool {
	for _, p := range t.Participants {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}
