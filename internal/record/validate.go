// =============================================================================
// Receipts - Record Validation
// =============================================================================
//
// This module checks the shape of a receipt's field values before it is
// composed. It never decides whether an amount is correct; it only reports
// values that would print oddly or could not be filed, such as a receipt
// number that is not numeric or a date the file name cannot be derived from.
//
// SEVERITY:
//   - "warning": composition continues, the issue is logged
//   - "error":   the caller should refuse to persist the receipt
//
// =============================================================================

package record

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// VALIDATION ISSUE TYPES
// =============================================================================

// Severity levels for an Issue.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Issue is a single validation finding.
type Issue struct {
	// Severity is SeverityWarning or SeverityError.
	Severity string

	// Field is the record key the issue is about.
	Field string

	// Value is the offending value.
	Value string

	// Rule names the check that failed.
	Rule string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	return fmt.Sprintf("[%s] field '%s': %s (value: '%s')",
		strings.ToUpper(i.Severity), i.Field, i.Message, i.Value)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result collects the issues found for one record.
type Result struct {
	Issues       []*Issue
	ErrorCount   int
	WarningCount int
}

// OK reports whether no error-level issue was found.
func (r *Result) OK() bool {
	return r.ErrorCount == 0
}

func (r *Result) add(issue *Issue) {
	r.Issues = append(r.Issues, issue)
	if issue.Severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks rec and returns every issue found.
//
// CHECKS:
//   - recipeNum is present and numeric (error: it becomes the history key)
//   - payment and mamVal parse as decimal amounts when set
//   - Date parses as D/M/YYYY when set
//   - SaveFolder is absolute when set (relative folders are ignored)
//   - a transfer reference comes with a transfer account
func Validate(rec *Receipt) *Result {
	result := &Result{}

	if strings.TrimSpace(rec.RecipeNum) == "" {
		result.add(&Issue{
			Severity: SeverityError,
			Field:    KeyRecipeNum,
			Rule:     "required",
			Message:  "receipt number is empty",
		})
	} else if _, ok := ParseNumber(rec.RecipeNum); !ok {
		result.add(&Issue{
			Severity: SeverityWarning,
			Field:    KeyRecipeNum,
			Value:    rec.RecipeNum,
			Rule:     "numeric",
			Message:  "receipt number is not numeric and will not be zero-padded",
		})
	}

	for _, key := range []string{KeyPayment, KeyMamVal} {
		value := strings.TrimSpace(rec.Get(key))
		if value == "" {
			continue
		}
		if _, err := ParseAmount(value); err != nil {
			result.add(&Issue{
				Severity: SeverityWarning,
				Field:    key,
				Value:    value,
				Rule:     "decimal",
				Message:  "value is not a decimal amount",
			})
		}
	}

	if rec.Date != "" {
		if _, ok := ParseDate(rec.Date); !ok {
			result.add(&Issue{
				Severity: SeverityWarning,
				Field:    KeyDate,
				Value:    rec.Date,
				Rule:     "date",
				Message:  "date is not D/M/YYYY; the file name will have no month tag",
			})
		}
	}

	if rec.SaveFolder != "" && !filepath.IsAbs(rec.SaveFolder) {
		result.add(&Issue{
			Severity: SeverityWarning,
			Field:    KeySaveFolder,
			Value:    rec.SaveFolder,
			Rule:     "absolute",
			Message:  "save folder is relative and will be ignored",
		})
	}

	if rec.HasTransfer() && strings.TrimSpace(rec.TransferAccount) == "" {
		result.add(&Issue{
			Severity: SeverityWarning,
			Field:    KeyTransferAccount,
			Rule:     "transfer",
			Message:  "transfer reference given without a transfer account",
		})
	}

	return result
}

// ParseAmount reads an amount such as "300", "1,250.50" or "₪ 300".
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '₪':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	return decimal.NewFromString(cleaned)
}
