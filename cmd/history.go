package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/receipts/internal/record"
	"github.com/ginjaninja78/receipts/internal/store"
)

var (
	histCustomer string
	histDate     string
	histJSON     bool

	regenOut string
)

// historyCmd lists recorded receipts.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded receipts",
	Long: `List the receipts recorded in history, sorted by number.

--date takes a month such as 7/2025 or 07-25, or any text matched against
the stored date.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := newStore().Entries()
		if err != nil {
			return err
		}
		entries = store.Filter{Customer: histCustomer, Date: histDate}.Apply(entries)

		if histJSON {
			data, err := record.EncodeIndent(entries)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NUMBER\tCUSTOMER\tDATE\tPAYMENT")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Key, e.Customer, e.Receipt.Date, e.Receipt.Payment)
		}
		return w.Flush()
	},
}

// regenerateCmd composes a recorded receipt again.
var regenerateCmd = &cobra.Command{
	Use:   "regenerate <number>",
	Short: "Compose a recorded receipt again",
	Long: `Compose the receipt recorded under <number> again from its stored fields.
The default output name carries a "_recreate" suffix. History and the
counter are not changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _ := newService()
		artifact, err := svc.Regenerate(cmd.Context(), args[0], regenOut)
		if err != nil {
			return err
		}
		printWarnings(cmd, artifact.Warnings)
		fmt.Fprintf(cmd.OutOrStdout(), "Receipt %s written to %s\n", artifact.Receipt, artifact.Path)
		return nil
	},
}

// nextCmd prints the next suggested number.
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next suggested receipt number",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newStore().NextNumber()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd, regenerateCmd, nextCmd)

	historyCmd.Flags().StringVar(&histCustomer, "customer", store.AllCustomers, "Only show this customer's receipts")
	historyCmd.Flags().StringVar(&histDate, "date", "", "Only show receipts from this month or matching this date text")
	historyCmd.Flags().BoolVar(&histJSON, "json", false, "Print the entries as JSON")

	regenerateCmd.Flags().StringVarP(&regenOut, "out", "o", "", "Output PDF path")
}
