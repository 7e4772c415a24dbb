package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/receipts/pkg/utils"
)

// TotalLabel heads the total row.
const TotalLabel = `סה"כ`

// amountFormat is the built-in "#,##0.00" number format.
const amountFormat = 4

// XLSXOptions configures WriteXLSX.
type XLSXOptions struct {
	// SheetName names the single sheet. Default: "Sheet1"
	SheetName string

	// WithTotal appends a row summing the payment column.
	WithTotal bool
}

// WriteXLSX writes rows to a new workbook at path. The sheet reads right to
// left, payments are stored as numbers where they parse, and the file is
// replaced atomically.
//
// PARAMETERS:
//   - path: The output .xlsx path. Its directory is created when missing.
//   - rows: The rows to write, in order.
//   - opts: Sheet options.
func WriteXLSX(path string, rows []Row, opts XLSXOptions) error {
	f, err := buildWorkbook(rows, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	return utils.WriteFileAtomicFrom(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

// buildWorkbook lays out the sheet in memory.
func buildWorkbook(rows []Row, opts XLSXOptions) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := f.GetSheetName(0)
	if opts.SheetName != "" && opts.SheetName != sheet {
		if err := f.SetSheetName(sheet, opts.SheetName); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
		sheet = opts.SheetName
	}

	rtl := true
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set sheet direction: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		values := cellValues(r)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	last := len(rows)
	if opts.WithTotal && last > 0 {
		last++
		total := Summarize(rows).Total
		values := []interface{}{TotalLabel, "", total.InexactFloat64()}
		cell, _ := excelize.CoordinatesToCellName(1, last)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write total row: %w", err)
		}
	}

	if last > 0 {
		style, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create amount style: %w", err)
		}
		top, _ := excelize.CoordinatesToCellName(paymentColumn+1, 1)
		bottom, _ := excelize.CoordinatesToCellName(paymentColumn+1, last)
		if err := f.SetCellStyle(sheet, top, bottom, style); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to style amounts: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "I", 14); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// cellValues converts a row for SetSheetRow, storing the payment as a number
// when it parses.
func cellValues(r Row) []interface{} {
	strs := r.Values()
	values := make([]interface{}, len(strs))
	for i, s := range strs {
		values[i] = s
	}
	if amount, ok := r.Amount(); ok {
		values[paymentColumn] = amount.InexactFloat64()
	}
	return values
}
