// =============================================================================
// Receipts - Variable Line Layout Policy
// =============================================================================
//
// This module builds the single "variable line" printed in the payment/bank
// area of a receipt. It chooses between two formats:
//
//   TRANSFER (bank_transfer_referance set):
//     transfer_bankAccount + "from account" label
//     + bank_transfer_referance + "bank transfer reference" label
//
//   ITEMIZED (otherwise), each part only when its value is non-empty:
//     payment + "amount" label
//     bankAccount + "account" label
//     BankNumber + "bank" label
//     CheckNumber + "cheque no." label
//
// LABELS:
//   Labels are kept already reversed. The assembled line is in visual order
//   and must be drawn through shaper.ShapeVisual, which leaves the sequence
//   as is. Nothing here reorders text.
//
// =============================================================================

package layout

import (
	"strings"

	"github.com/ginjaninja78/receipts/internal/record"
)

// =============================================================================
// FORMATS AND LABELS
// =============================================================================

// Format identifies which variable-line layout applies to a record.
type Format string

const (
	FormatTransfer Format = "transfer"
	FormatItemized Format = "itemized"
)

// Pre-reversed labels. Each is placed to the right of its value.
var (
	LabelFromAccount       = reverse(" :מחשבון ")
	LabelTransferReference = reverse("  העברה בנקאית אסמכתא: ")
	LabelAmount            = reverse(" סכום: ")
	LabelAccount           = reverse(" חשבון: ")
	LabelBank              = reverse(" בנק: ")
	LabelCheck             = reverse(" מס צ'ק: ")
)

// =============================================================================
// PART CHAIN
// =============================================================================

// Part is one value and the label that follows it.
type Part struct {
	Field string
	Value string
	Label string
}

// String renders the part as value followed by label.
func (p Part) String() string {
	return p.Value + p.Label
}

// rule pairs a record field with its label.
type rule struct {
	field string
	label string
}

// itemizedRules is the fixed order of the itemized format.
var itemizedRules = []rule{
	{field: record.KeyPayment, label: LabelAmount},
	{field: record.KeyBankAccount, label: LabelAccount},
	{field: record.KeyBankNumber, label: LabelBank},
	{field: record.KeyCheckNumber, label: LabelCheck},
}

// FormatOf reports which layout applies to rec. A transfer reference always
// takes precedence over itemized fields.
func FormatOf(rec *record.Receipt) Format {
	if rec.HasTransfer() {
		return FormatTransfer
	}
	return FormatItemized
}

// Parts returns the ordered parts of rec's variable line.
func Parts(rec *record.Receipt) []Part {
	if FormatOf(rec) == FormatTransfer {
		return []Part{
			{Field: record.KeyTransferAccount, Value: rec.TransferAccount, Label: LabelFromAccount},
			{Field: record.KeyTransferReference, Value: rec.TransferReference, Label: LabelTransferReference},
		}
	}

	var parts []Part
	for _, r := range itemizedRules {
		value := rec.Get(r.field)
		if value == "" {
			continue
		}
		parts = append(parts, Part{Field: r.field, Value: value, Label: r.label})
	}
	return parts
}

// VariableLine concatenates Parts(rec) with no separator. It returns "" when
// no part applies.
func VariableLine(rec *record.Receipt) string {
	var b strings.Builder
	for _, p := range Parts(rec) {
		b.WriteString(p.String())
	}
	return b.String()
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
