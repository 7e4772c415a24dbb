// =============================================================================
// Receipts - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, the main command of the tool. It
// composes one receipt and records it in history.
//
// COMMAND USAGE:
//   receipts generate [flags]
//
// FLAGS:
//   --customer : Start from the named customer's template
//   --record   : Start from a JSON record file instead
//   --set      : Override a field, key=value (repeatable)
//   --number   : Receipt number; defaults to the next suggested number
//   --out      : Output path; defaults to "<customer> <number> <mon> <yy>.pdf"
//   --dry-run  : Print the drawing operations instead of writing anything
//
// PROCESSING PIPELINE:
//   1. Build the record (template or file, then overrides)
//   2. Validate field formats (warnings only)
//   3. Compose the PDF and write it atomically
//   4. Commit the record to history and advance the counter
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/receipts/internal/record"
	"github.com/ginjaninja78/receipts/internal/render"
	"github.com/ginjaninja78/receipts/internal/store"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	genCustomer string
	genRecord   string
	genSet      []string
	genNumber   string
	genOut      string
	genDryRun   bool
)

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

// generateCmd represents the 'generate' command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compose a new receipt and record it in history",
	Long: `The generate command fills the receipt template with a record's fields and
writes a single-page PDF.

The record starts from a customer template (--customer) or a JSON file
(--record); --set overrides individual fields. When no receipt number is
given the next suggested number is used.

On success:
  - The PDF is written to --out or to the default name
  - The record is added to history under its receipt number
  - The counter moves past the number used

On error:
  - Nothing is added to history and the counter does not move
  - A number already in history is refused before anything is drawn`,

	Example: `  receipts generate --customer Dalya --set Date=1/7/2025
  receipts generate --record receipt.json --number 00012 --out r12.pdf
  receipts generate --customer Dalya --dry-run`,

	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&genCustomer, "customer", "", "Start from the named customer's template")
	generateCmd.Flags().StringVar(&genRecord, "record", "", "Start from a JSON record file")
	generateCmd.Flags().StringArrayVar(&genSet, "set", nil, "Override a field as key=value (repeatable)")
	generateCmd.Flags().StringVar(&genNumber, "number", "", "Receipt number (default: next suggested number)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Output PDF path")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Print the drawing operations without writing anything")

	generateCmd.MarkFlagsMutuallyExclusive("customer", "record")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runGenerate(cmd *cobra.Command, args []string) error {
	overrides, err := parseAssignments(genSet)
	if err != nil {
		return err
	}
	if genNumber != "" {
		overrides[record.KeyRecipeNum] = genNumber
	}

	svc, st := newService()

	// =========================================================================
	// STEP 1: BUILD THE RECORD
	// =========================================================================

	var rec *record.Receipt
	if genRecord != "" {
		rec, err = readRecord(genRecord)
		if err != nil {
			return err
		}
		for key, value := range overrides {
			rec.Set(key, value)
		}
		if strings.TrimSpace(rec.RecipeNum) == "" {
			rec.RecipeNum, _ = st.NextNumber()
		}
	} else {
		rec, err = svc.Prepare(genCustomer, overrides)
		if err != nil {
			return err
		}
	}

	// =========================================================================
	// STEP 2: DRY RUN
	// =========================================================================

	if genDryRun {
		artifact, err := newComposer(render.NewRecorder()).Render(cmd.Context(), rec, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		printWarnings(cmd, artifact.Warnings)
		return nil
	}

	// =========================================================================
	// STEP 3: GENERATE
	// =========================================================================

	result, err := svc.Generate(cmd.Context(), rec, genOut)
	if err != nil {
		if store.IsSequenceInconsistency(err) {
			log.Error("history and counter disagree", zap.Error(err))
		}
		return err
	}

	printWarnings(cmd, result.Artifact.Warnings)
	for _, issue := range result.Validation.Issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", issue.Error())
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Receipt %s written to %s\n", result.Commit.Key, result.Artifact.Path)
	fmt.Fprintf(out, "Next number: %s\n", result.Commit.NextNumber)
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseAssignments splits key=value pairs. The value may contain '='.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}

// readRecord loads a single record from a JSON file.
func readRecord(path string) (*record.Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	rec := &record.Receipt{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", path, err)
	}
	return rec, nil
}

func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}
