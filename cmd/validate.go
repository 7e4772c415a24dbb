package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/receipts/internal/composer"
	"github.com/ginjaninja78/receipts/internal/record"
	"github.com/ginjaninja78/receipts/internal/render"
)

// validateCmd checks that a receipt can be composed and the store files load.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check configuration, resources and store files",
	Long: `Validate resolves the template, fonts and signature by drawing an empty
receipt without writing it, then loads the customer, history and counter
files. It fails when a required resource is missing or a store file is
corrupt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := false

		artifact, err := newComposer(render.NewRecorder()).Render(cmd.Context(), &record.Receipt{}, io.Discard)
		switch {
		case err != nil && composer.IsResourceMissing(err):
			fmt.Fprintf(out, "resources: %v\n", err)
			failed = true
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "resources: ok (%s)\n", cfg.ResourceDir)
			for _, w := range artifact.Warnings {
				fmt.Fprintf(out, "  warning: %s\n", w)
			}
		}

		st := newStore()
		_, status, err := st.LoadCustomers()
		fmt.Fprintf(out, "customers: %s (%s)\n", status, st.CustomersPath())
		if err != nil {
			fmt.Fprintf(out, "  %v\n", err)
			failed = true
		}

		_, status, err = st.LoadHistory()
		fmt.Fprintf(out, "history: %s (%s)\n", status, st.HistoryPath())
		if err != nil {
			fmt.Fprintf(out, "  %v\n", err)
			failed = true
		}

		next, err := st.NextNumber()
		fmt.Fprintf(out, "next number: %s\n", next)
		if err != nil {
			fmt.Fprintf(out, "  %v\n", err)
			failed = true
		}

		if failed {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
