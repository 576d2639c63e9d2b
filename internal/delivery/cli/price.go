package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSubmitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <product-id> <store-id> <amount>",
		Short: "Record a price observed now",
		Long:  "Records a price. The amount is read like the price entry field: currency symbols and spaces are ignored and a comma is a decimal separator.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				session, err := a.products.Open(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				record, err := a.products.SubmitPriceInput(cmd.Context(), session, args[1], strings.Join(args[2:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s\t%s\n", record.ID, a.formatter.PriceSegment(record))
				return nil
			})
		},
	}
}

func newSkipCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "skip <product-id> <store-id>",
		Short: "Record that the product had no price at a store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				session, err := a.products.Open(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				record, err := a.products.SkipPrice(cmd.Context(), session, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "skipped %s\t%s\n", record.ID, a.formatter.StoreName(*record))
				return nil
			})
		},
	}
}
