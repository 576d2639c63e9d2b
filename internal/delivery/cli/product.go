package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yourusername/grocery-price-ledger/internal/usecase"
)

func newProductCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "product <product-id>",
		Short: "Show a product with its latest price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				session, err := a.products.Open(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printProduct(cmd.OutOrStdout(), a, session)
				return nil
			})
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	var excludeSkipped, latestOnly bool

	cmd := &cobra.Command{
		Use:   "history <product-id>",
		Short: "List recorded prices, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				session, err := a.products.Open(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				records := session.Ledger().Records()
				if excludeSkipped {
					records = usecase.WithoutSkipped(records)
				}

				out := cmd.OutOrStdout()
				if latestOnly {
					latest, ok := usecase.LatestPrice(records)
					if !ok {
						fmt.Fprintln(out, "no prices recorded")
						return nil
					}
					fmt.Fprintln(out, a.formatter.PriceSegment(&latest))
					return nil
				}

				if len(records) == 0 {
					fmt.Fprintln(out, "no prices recorded")
					return nil
				}
				for _, record := range records {
					amount := a.formatter.Currency(record.Amount)
					if record.IsSkipped() {
						amount += " (skipped)"
					}
					fmt.Fprintf(out, "%s\t%s\t%s\n", a.formatter.Date(record.ObservedAt), a.formatter.StoreName(record), amount)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&excludeSkipped, "exclude-skipped", false, "leave out skipped observations")
	cmd.Flags().BoolVar(&latestOnly, "latest", false, "print only the latest observation")
	return cmd
}

func newStoresCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stores",
		Short: "List stores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				stores, err := a.data.Stores.GetAll(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, store := range stores {
					fmt.Fprintf(out, "%s\t%s\t%s\n", store.ID, store.Name, store.Address)
				}
				return nil
			})
		},
	}
}

func newShareCmd(opts *options) *cobra.Command {
	var withTitle bool

	cmd := &cobra.Command{
		Use:   "share <product-id>",
		Short: "Print the share message of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				session, err := a.products.Open(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				title, message := a.products.Share(session)
				out := cmd.OutOrStdout()
				if withTitle {
					fmt.Fprintln(out, title)
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, message)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withTitle, "title", false, "print the share title first")
	return cmd
}

func printProduct(out io.Writer, a *app, session *usecase.ProductSession) {
	product := session.Product()
	fmt.Fprintf(out, "%s\t%s\n", product.ID, product.Name)
	if product.Description != "" {
		fmt.Fprintln(out, product.Description)
	}
	if category := product.Category(); category != "" {
		fmt.Fprintf(out, "category: %s\n", category)
	}
	if latest, ok := session.Ledger().Latest(); ok {
		fmt.Fprintf(out, "%s (%s)\n", a.formatter.PriceSegment(&latest), a.formatter.StoreName(latest))
	}
}
