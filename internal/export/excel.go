// Package export renders trips and transaction summaries as xlsx workbooks.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/calculator"
	"fintrack/internal/models"
)

const timeLayout = "2006-01-02 15:04"

// TripWorkbook renders a trip and its settlement as a four-sheet workbook:
// Trip Info, Expenses, Balances and Who Pays Whom.
func TripWorkbook(trip *models.Trip, settlement *calculator.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Trip Info"); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	info := newSheet(f, "Trip Info")
	info.row("Field", "Value")
	info.row("Trip Name", trip.Name)
	info.row("Start Date", dateString(trip.StartDate))
	info.row("End Date", dateString(trip.EndDate))
	info.row("Participants", strings.Join(trip.ParticipantNames(), ", "))
	info.row()
	info.row("Total Expenses", settlement.Total)
	info.row("Per Person", settlement.PerPerson)

	expenses, err := addSheet(f, "Expenses")
	if err != nil {
		return nil, err
	}
	expenses.row("Paid By", "Amount", "Description", "Date")
	for _, e := range trip.Expenses {
		expenses.row(e.PaidBy, e.Amount, e.Description, e.CreatedAt.UTC().Format(timeLayout))
	}

	balances, err := addSheet(f, "Balances")
	if err != nil {
		return nil, err
	}
	balances.row("Person", "Balance")
	for _, name := range balanceOrder(trip, settlement) {
		balances.row(name, settlement.Balances[name])
	}

	payments, err := addSheet(f, "Who Pays Whom")
	if err != nil {
		return nil, err
	}
	payments.row("Payment")
	for _, line := range settlement.Lines {
		payments.row(line)
	}

	for _, w := range []*sheetWriter{info, expenses, balances, payments} {
		if w.err != nil {
			return nil, w.err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SummaryWorkbook renders a daily or monthly transaction summary. Monthly
// reports carry totals plus an entry listing; daily reports are a single
// income/expense pair.
func SummaryWorkbook(summary *models.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := newSheet(f, "Sheet1")
	if summary.Monthly {
		sheet.row("Monthly Report - " + summary.Period)
		sheet.row()
		sheet.row("Income", summary.Income)
		sheet.row("Expense", summary.Expense)
		sheet.row("Net", summary.Net())
		sheet.row()
		sheet.row("Date", "Type", "Amount", "Description")
		for _, entry := range summary.Entries {
			sheet.row(entry.CreatedAt.UTC().Format(timeLayout), entry.Type, entry.Amount, entry.Description)
		}
	} else {
		sheet.row("Income", "Expense")
		sheet.row(summary.Income, summary.Expense)
	}
	if sheet.err != nil {
		return nil, sheet.err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// balanceOrder lists balance holders in roster order, then any payers the
// settlement discovered outside the roster, sorted.
func balanceOrder(trip *models.Trip, settlement *calculator.Result) []string {
	seen := make(map[string]bool, len(settlement.Balances))
	order := make([]string, 0, len(settlement.Balances))
	for _, p := range trip.Participants {
		if _, ok := settlement.Balances[p.Name]; ok && !seen[p.Name] {
			seen[p.Name] = true
			order = append(order, p.Name)
		}
	}

	var extra []string
	for name := range settlement.Balances {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

func dateString(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// sheetWriter appends rows to one sheet, tracking the first error so
// callers check once at the end.
type sheetWriter struct {
	f    *excelize.File
	name string
	next int
	err  error
}

func newSheet(f *excelize.File, name string) *sheetWriter {
	return &sheetWriter{f: f, name: name, next: 1}
}

func addSheet(f *excelize.File, name string) (*sheetWriter, error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return newSheet(f, name), nil
}

func (w *sheetWriter) row(cells ...interface{}) {
	row := w.next
	w.next++
	if w.err != nil || len(cells) == 0 {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.name, cell, &cells); err != nil {
		w.err = fmt.Errorf("failed to write row %d of %s: %w", row, w.name, err)
	}
}
