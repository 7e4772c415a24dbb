// =============================================================================
// Receipts - Record Types
// =============================================================================
//
// This package contains the record types shared by the composer, the layout
// policy, the stores and the exporters:
//   - Receipt:  one receipt's field values (also the customer template shape)
//   - Entry:    one history entry (receipt number -> customer -> receipt)
//
// JSON KEYS:
//   Field keys are the ones the existing data files already use, including
//   their historical spellings ("discription", "bank_transfer_referance").
//   Keys the type does not know about are kept in Receipt.Extra so that a
//   load/save cycle never drops data.
//
// =============================================================================

package record

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// =============================================================================
// FIELD KEYS
// =============================================================================

// Field keys as stored on disk.
const (
	KeyRecipeNum         = "recipeNum"
	KeyDescription       = "discription"
	KeyInvoiceNo         = "invoice_no"
	KeyCustomer          = "customer"
	KeyPayment           = "payment"
	KeyMamVal            = "mamVal"
	KeyBankAccount       = "bankAccount"
	KeyBankNumber        = "BankNumber"
	KeyCheckNumber       = "CheckNumber"
	KeyDate              = "Date"
	KeySaveFolder        = "SaveFolder"
	KeyTransferReference = "bank_transfer_referance"
	KeyTransferAccount   = "transfer_bankAccount"
)

// SampleKeys are the keys every stored record carries, in file order. New
// customer templates are seeded with exactly these keys.
var SampleKeys = []string{
	KeyRecipeNum,
	KeyDescription,
	KeyInvoiceNo,
	KeyCustomer,
	KeyPayment,
	KeyMamVal,
	KeyBankAccount,
	KeyBankNumber,
	KeyCheckNumber,
	KeyDate,
	KeySaveFolder,
}

// transferKeys are written only when set.
var transferKeys = []string{
	KeyTransferReference,
	KeyTransferAccount,
}

// NumberWidth is the zero-padded width of receipt numbers.
const NumberWidth = 5

// =============================================================================
// RECEIPT
// =============================================================================

// Receipt holds the field values used to compose one receipt. Every field is
// optional.
type Receipt struct {
	RecipeNum   string
	Description string
	InvoiceNo   string
	Customer    string
	Payment     string
	MamVal      string
	BankAccount string
	BankNumber  string
	CheckNumber string

	// Date is D/M/YYYY or DD/MM/YYYY.
	Date string

	// SaveFolder is used for the default output path only when absolute.
	SaveFolder string

	// TransferReference selects the bank-transfer variable line when set.
	TransferReference string
	TransferAccount   string

	// Extra keeps keys not modelled above.
	Extra map[string]string
}

// fieldRefs maps each known key to the field that stores it.
var fieldRefs = map[string]func(*Receipt) *string{
	KeyRecipeNum:         func(r *Receipt) *string { return &r.RecipeNum },
	KeyDescription:       func(r *Receipt) *string { return &r.Description },
	KeyInvoiceNo:         func(r *Receipt) *string { return &r.InvoiceNo },
	KeyCustomer:          func(r *Receipt) *string { return &r.Customer },
	KeyPayment:           func(r *Receipt) *string { return &r.Payment },
	KeyMamVal:            func(r *Receipt) *string { return &r.MamVal },
	KeyBankAccount:       func(r *Receipt) *string { return &r.BankAccount },
	KeyBankNumber:        func(r *Receipt) *string { return &r.BankNumber },
	KeyCheckNumber:       func(r *Receipt) *string { return &r.CheckNumber },
	KeyDate:              func(r *Receipt) *string { return &r.Date },
	KeySaveFolder:        func(r *Receipt) *string { return &r.SaveFolder },
	KeyTransferReference: func(r *Receipt) *string { return &r.TransferReference },
	KeyTransferAccount:   func(r *Receipt) *string { return &r.TransferAccount },
}

// IsKnownKey reports whether key maps onto a named Receipt field.
func IsKnownKey(key string) bool {
	_, ok := fieldRefs[key]
	return ok
}

// Get returns the value stored under key, looking in Extra for unknown keys.
func (r *Receipt) Get(key string) string {
	if ref, ok := fieldRefs[key]; ok {
		return *ref(r)
	}
	return r.Extra[key]
}

// Set stores value under key. Unknown keys go to Extra.
func (r *Receipt) Set(key, value string) {
	if ref, ok := fieldRefs[key]; ok {
		*ref(r) = value
		return
	}
	if r.Extra == nil {
		r.Extra = make(map[string]string)
	}
	r.Extra[key] = value
}

// Keys returns the keys present on r in file order: the sample keys, then
// transfer keys that are set, then extra keys sorted.
func (r *Receipt) Keys() []string {
	keys := append([]string(nil), SampleKeys...)
	for _, k := range transferKeys {
		if r.Get(k) != "" {
			keys = append(keys, k)
		}
	}
	extra := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		if !IsKnownKey(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// Clone returns a deep copy of r.
func (r *Receipt) Clone() *Receipt {
	c := *r
	if r.Extra != nil {
		c.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// HasTransfer reports whether the bank-transfer format applies.
func (r *Receipt) HasTransfer() bool {
	return r.TransferReference != ""
}

// Key returns the history key for r: the receipt number zero-padded to
// NumberWidth when it is numeric, unchanged otherwise.
func (r *Receipt) Key() string {
	return PadNumber(r.RecipeNum)
}

// CustomerName returns the name used to group r in history.
func (r *Receipt) CustomerName() string {
	if name := strings.TrimSpace(r.Customer); name != "" {
		return name
	}
	return "Unknown"
}

// =============================================================================
// NUMBER HELPERS
// =============================================================================

// PadNumber zero-pads an all-digit string to NumberWidth. Anything else is
// returned unchanged.
func PadNumber(s string) string {
	n, ok := ParseNumber(s)
	if !ok {
		return s
	}
	return FormatNumber(n)
}

// ParseNumber parses an all-digit receipt number.
func ParseNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatNumber renders n zero-padded to NumberWidth.
func FormatNumber(n int) string {
	return fmt.Sprintf("%0*d", NumberWidth, n)
}

// =============================================================================
// HISTORY ENTRY
// =============================================================================

// Entry is one generated receipt as stored in history.
type Entry struct {
	// Key is the zero-padded receipt number.
	Key string

	// Customer is the name the receipt is grouped under.
	Customer string

	// Receipt is the exact record the artifact was composed from.
	Receipt *Receipt
}
