// =============================================================================
// Receipts - Export Command
// =============================================================================
//
// This file defines the 'export' command, which writes one month of history
// as an income report.
//
// COMMAND USAGE:
//   receipts export --month 7 --year 2025 [--tsv out.tsv] [--xlsx out.xlsx]
//
// OUTPUT:
//   Without --tsv or --xlsx the TSV rows go to stdout. "-" as the TSV path
//   also means stdout. A one-line summary goes to stderr.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/receipts/internal/export"
	"github.com/ginjaninja78/receipts/pkg/utils"
)

var (
	exportMonth int
	exportYear  int
	exportTSV   string
	exportXLSX  string
	exportTotal bool
)

// exportCmd represents the 'export' command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a monthly income report",
	Long: `Export the receipts dated in one month, oldest first, one row per receipt:

  income | date | payment | customer | (empty) | number | bank | account | check

--month and --year default to the current month.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().IntVar(&exportMonth, "month", 0, "Month to export, 1-12 (default: current month)")
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "Year to export (default: current year)")
	exportCmd.Flags().StringVar(&exportTSV, "tsv", "", `Write tab-separated rows to this path ("-" for stdout)`)
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "Write a workbook to this path")
	exportCmd.Flags().BoolVar(&exportTotal, "total", true, "Append a total row to the workbook")
}

func runExport(cmd *cobra.Command, args []string) error {
	now := time.Now()
	month, year := exportMonth, exportYear
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("invalid month %d", month)
	}

	entries, err := newStore().Entries()
	if err != nil {
		return err
	}
	rows := export.Rows(entries, month, year)

	// =========================================================================
	// WRITE OUTPUTS
	// =========================================================================

	tsvPath := exportTSV
	if tsvPath == "" && exportXLSX == "" {
		tsvPath = "-"
	}

	switch tsvPath {
	case "":
	case "-":
		if err := export.WriteTSV(cmd.OutOrStdout(), rows); err != nil {
			return err
		}
	default:
		err := utils.WriteFileAtomicFrom(tsvPath, func(w io.Writer) error {
			return export.WriteTSV(w, rows)
		})
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", tsvPath, err)
		}
	}

	if exportXLSX != "" {
		opts := export.XLSXOptions{
			SheetName: fmt.Sprintf("%02d-%d", month, year),
			WithTotal: exportTotal,
		}
		if err := export.WriteXLSX(exportXLSX, rows, opts); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportXLSX, err)
		}
	}

	// =========================================================================
	// SUMMARY
	// =========================================================================

	summary := export.Summarize(rows)
	log.Info("export finished",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("rows", summary.Count),
		zap.String("total", summary.Total.StringFixed(2)),
	)

	fmt.Fprintf(cmd.ErrOrStderr(), "%02d/%d: %d receipt(s), total %s\n",
		month, year, summary.Count, summary.Total.StringFixed(2))
	if len(summary.Skipped) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "not counted (payment is not a number): %s\n",
			strings.Join(summary.Skipped, ", "))
	}
	return nil
}
