// Package calculator computes trip settlements: who owes whom how much so
// that every participant ends up having paid an equal share.
//
// All functions are pure; callers pass a snapshot of the trip and nothing is
// retained between calls, so concurrent use is safe.
package calculator

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Expense is the minimal expense view needed for settlement.
type Expense struct {
	// PaidBy is the participant name. May be empty (skipped) or reference a
	// name missing from the roster (added implicitly).
	PaidBy string

	// Amount is the expense value. Absent amounts count as zero.
	Amount float64
}

// Result is the outcome of settling a trip.
type Result struct {
	// Total is the sum of all expense amounts, rounded to 2 decimals.
	Total float64 `json:"total"`

	// PerPerson is Total divided by the final participant count, rounded to
	// 2 decimals. Zero when the trip has no participants.
	PerPerson float64 `json:"per_person"`

	// Balances maps participant name to net amount: paid minus fair share.
	// Positive means the group owes them, negative means they owe the group.
	Balances map[string]float64 `json:"balances"`

	// Lines are human-readable payment instructions, e.g. "B pays 30 to A".
	Lines []string `json:"lines"`
}

// party is a creditor or debtor with a remaining amount in cents.
type party struct {
	name  string
	cents int64
}

// Settle computes the settlement for a trip snapshot.
//
// The participant set is reconciled in a first pass: the explicit roster
// plus any payers discovered in expenses (matched case-insensitively, the
// roster casing wins). When the roster is empty the set is derived from the
// distinct non-empty payers, sorted lexicographically so the output is
// deterministic. The per-person share always uses the final count, so the
// result does not depend on expense order.
//
// Arithmetic is done in integer cents; amounts are converted back to display
// units only in the result. Greedy matching repeatedly pairs the largest
// remaining debtor with the largest remaining creditor, which keeps the
// number of payments minimal. A residue of at most a few cents from
// per-person rounding lands on the last-matched pair; that is a documented
// property, not an error.
func Settle(participants []string, expenses []Expense) Result {
	names, canonical := reconcile(participants, expenses)

	n := len(names)
	if n == 0 {
		return Result{Balances: map[string]float64{}, Lines: []string{}}
	}

	var totalCents int64
	paid := make(map[string]int64, n)
	for _, e := range expenses {
		cents := toCents(e.Amount)
		totalCents += cents
		if e.PaidBy == "" {
			continue
		}
		paid[canonical[strings.ToLower(e.PaidBy)]] += cents
	}

	perPersonCents := int64(math.Round(float64(totalCents) / float64(n)))

	balances := make(map[string]float64, n)
	var creditors, debtors []party
	for _, name := range names {
		bal := paid[name] - perPersonCents
		balances[name] = fromCents(bal)
		switch {
		case bal > 0:
			creditors = append(creditors, party{name: name, cents: bal})
		case bal < 0:
			debtors = append(debtors, party{name: name, cents: -bal})
		}
	}

	// Largest first; ties keep roster order.
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].cents > creditors[j].cents })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].cents > debtors[j].cents })

	lines := []string{}
	ci, di := 0, 0
	for di < len(debtors) && ci < len(creditors) {
		pay := min64(debtors[di].cents, creditors[ci].cents)
		lines = append(lines, fmt.Sprintf("%s pays %s to %s",
			debtors[di].name, FormatAmount(fromCents(pay)), creditors[ci].name))
		debtors[di].cents -= pay
		creditors[ci].cents -= pay
		if debtors[di].cents == 0 {
			di++
		}
		if creditors[ci].cents == 0 {
			ci++
		}
	}

	return Result{
		Total:     fromCents(totalCents),
		PerPerson: fromCents(perPersonCents),
		Balances:  balances,
		Lines:     lines,
	}
}

// reconcile returns the final participant list in display order together
// with a lowercase-name -> canonical-name lookup. Explicit roster names come
// first in insertion order; payers missing from the roster are appended in
// expense order. With no roster at all, distinct payers are sorted
// lexicographically instead.
func reconcile(participants []string, expenses []Expense) ([]string, map[string]string) {
	canonical := make(map[string]string)
	var names []string

	add := func(name string) {
		key := strings.ToLower(name)
		if _, ok := canonical[key]; ok {
			return
		}
		canonical[key] = name
		names = append(names, name)
	}

	for _, p := range participants {
		if p != "" {
			add(p)
		}
	}

	if len(names) == 0 {
		set := make(map[string]struct{})
		for _, e := range expenses {
			if e.PaidBy != "" {
				set[e.PaidBy] = struct{}{}
			}
		}
		derived := make([]string, 0, len(set))
		for name := range set {
			derived = append(derived, name)
		}
		sort.Strings(derived)
		for _, name := range derived {
			add(name)
		}
		return names, canonical
	}

	for _, e := range expenses {
		if e.PaidBy != "" {
			add(e.PaidBy)
		}
	}
	return names, canonical
}

// FormatAmount renders a monetary value without a fractional part when it is
// a whole number, otherwise with exactly two decimals: 30 not 30.00, but
// 33.33.
func FormatAmount(v float64) string {
	cents := toCents(v)
	if cents%100 == 0 {
		return fmt.Sprintf("%d", cents/100)
	}
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// toCents converts a display amount to integer cents with half-up rounding.
// Non-finite values count as zero, matching the permissive input contract.
func toCents(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v * 100))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
