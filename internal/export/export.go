// =============================================================================
// Receipts - Monthly Export
// =============================================================================
//
// This module turns receipt history into the monthly income rows that get
// pasted into the bookkeeping spreadsheet. Two writers share the same rows:
//   - TSV (tsv.go):  tab-separated text for the clipboard or a file
//   - XLSX (xlsx.go): a right-to-left workbook with numeric amounts
//
// ROW LAYOUT (one row per receipt, no header):
//
//   | A      | B    | C       | D        | E | F          | G          | H           | I           |
//   |--------|------|---------|----------|---|------------|------------|-------------|-------------|
//   | הכנסה  | Date | payment | customer |   | receipt no | BankNumber | bankAccount | CheckNumber |
//
// SELECTION:
//   Only entries whose Date parses as D/M/Y and falls in the requested
//   month are exported. Rows are ordered by date; receipts on the same day
//   keep history (receipt number) order.
//
// =============================================================================

package export

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/receipts/internal/record"
)

// IncomeLabel fills the first column of every row.
const IncomeLabel = "הכנסה"

// ColumnCount is the number of columns in a row.
const ColumnCount = 9

// paymentColumn is the zero-based index of the payment column.
const paymentColumn = 2

// =============================================================================
// ROW STRUCTURE
// =============================================================================

// Row is one exported receipt.
type Row struct {
	Date        time.Time
	DateText    string
	Payment     string
	Customer    string
	Number      string
	BankNumber  string
	BankAccount string
	CheckNumber string
}

// Values returns the row's cells in column order.
func (r Row) Values() []string {
	return []string{
		IncomeLabel,
		r.DateText,
		r.Payment,
		r.Customer,
		"",
		r.Number,
		r.BankNumber,
		r.BankAccount,
		r.CheckNumber,
	}
}

// Amount parses the payment. ok is false when it is empty or not a number.
func (r Row) Amount() (decimal.Decimal, bool) {
	if strings.TrimSpace(r.Payment) == "" {
		return decimal.Zero, false
	}
	d, err := record.ParseAmount(r.Payment)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// =============================================================================
// SELECTION
// =============================================================================

// Rows selects the entries dated in month/year and orders them by date.
//
// PARAMETERS:
//   - entries: History entries, normally sorted by key.
//   - month: 1 to 12.
//   - year: Four-digit year.
//
// RETURNS:
//   - The matching rows, oldest first.
func Rows(entries []record.Entry, month, year int) []Row {
	var rows []Row
	for _, e := range entries {
		rec := e.Receipt
		if rec == nil {
			continue
		}
		d, ok := record.ParseDate(rec.Date)
		if !ok || d.Month != month || d.Year != year {
			continue
		}

		number := rec.RecipeNum
		if number == "" {
			number = e.Key
		}

		rows = append(rows, Row{
			Date:        d.Time(),
			DateText:    rec.Date,
			Payment:     rec.Payment,
			Customer:    e.Customer,
			Number:      number,
			BankNumber:  rec.BankNumber,
			BankAccount: rec.BankAccount,
			CheckNumber: rec.CheckNumber,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary totals a set of rows.
type Summary struct {
	// Count is the number of rows.
	Count int

	// Total is the sum of every numeric payment.
	Total decimal.Decimal

	// Skipped lists receipt numbers whose payment is not a number.
	Skipped []string
}

// Summarize adds up the payments of rows.
func Summarize(rows []Row) Summary {
	s := Summary{Count: len(rows), Total: decimal.Zero}
	for _, r := range rows {
		amount, ok := r.Amount()
		if !ok {
			if strings.TrimSpace(r.Payment) != "" {
				s.Skipped = append(s.Skipped, r.Number)
			}
			continue
		}
		s.Total = s.Total.Add(amount)
	}
	return s
}
