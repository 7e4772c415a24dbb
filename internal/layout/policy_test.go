package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/receipts/internal/record"
)

func TestVariableLine_TransferTakesPrecedence(t *testing.T) {
	rec := &record.Receipt{
		TransferAccount:   "012909912",
		TransferReference: "1234567890",
		Payment:           "300",
		BankAccount:       "555",
		BankNumber:        "12",
		CheckNumber:       "77",
	}

	assert.Equal(t, FormatTransfer, FormatOf(rec))
	assert.Equal(t,
		"012909912"+LabelFromAccount+"1234567890"+LabelTransferReference,
		VariableLine(rec))

	line := VariableLine(rec)
	assert.NotContains(t, line, LabelAmount)
	assert.NotContains(t, line, "555")
	assert.NotContains(t, line, LabelCheck)
}

func TestVariableLine_Additive(t *testing.T) {
	rec := &record.Receipt{Payment: "500", BankNumber: "12"}

	parts := Parts(rec)
	require.Len(t, parts, 2)
	assert.Equal(t, record.KeyPayment, parts[0].Field)
	assert.Equal(t, record.KeyBankNumber, parts[1].Field)

	assert.Equal(t, FormatItemized, FormatOf(rec))
	assert.Equal(t, "500"+LabelAmount+"12"+LabelBank, VariableLine(rec))
}

func TestVariableLine_FixedOrder(t *testing.T) {
	rec := &record.Receipt{CheckNumber: "4", BankNumber: "3", BankAccount: "2", Payment: "1"}
	assert.Equal(t,
		"1"+LabelAmount+"2"+LabelAccount+"3"+LabelBank+"4"+LabelCheck,
		VariableLine(rec))
}

func TestVariableLine_Empty(t *testing.T) {
	assert.Equal(t, "", VariableLine(&record.Receipt{CheckNumber: ""}))
	assert.Empty(t, Parts(&record.Receipt{}))
}

func TestVariableLine_DoesNotMutateRecord(t *testing.T) {
	rec := &record.Receipt{Payment: "500", TransferReference: ""}
	before := *rec
	_ = VariableLine(rec)
	assert.Equal(t, before, *rec)
}

func TestLabelsArePreReversed(t *testing.T) {
	assert.Equal(t, " :םוכס ", LabelAmount)
	assert.Equal(t, " :קנב ", LabelBank)
	assert.Equal(t, " ןובשחמ: ", LabelFromAccount)
	assert.Equal(t, " :ק'צ סמ ", LabelCheck)
}
