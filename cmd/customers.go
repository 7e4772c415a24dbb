package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/receipts/internal/record"
	"github.com/ginjaninja78/receipts/internal/store"
)

var custSet []string

// customersCmd groups the customer template commands.
var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Manage customer templates",
}

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customer names",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := newStore().ListCustomers()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var customersShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a customer template as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := newStore().GetCustomer(args[0])
		if err != nil {
			return err
		}
		data, err := record.EncodeIndent(rec)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var customersSetCmd = &cobra.Command{
	Use:     "set <name>",
	Short:   "Create a customer template or update its fields",
	Example: `  receipts customers set Dalya --set payment=300 --set discription="שכר דירה"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		fields, err := parseAssignments(custSet)
		if err != nil {
			return err
		}

		st := newStore()
		rec, err := st.GetCustomer(name)
		switch {
		case errors.Is(err, store.ErrNotFound):
			rec = store.NewCustomer(name)
		case err != nil:
			return err
		}
		for key, value := range fields {
			rec.Set(key, value)
		}

		if err := st.PutCustomer(cmd.Context(), name, rec); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Customer %s saved\n", name)
		return nil
	},
}

var customersDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a customer template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newStore().DeleteCustomer(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Customer %s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(customersCmd)
	customersCmd.AddCommand(customersListCmd, customersShowCmd, customersSetCmd, customersDeleteCmd)

	customersSetCmd.Flags().StringArrayVar(&custSet, "set", nil, "Set a field as key=value (repeatable)")
}
