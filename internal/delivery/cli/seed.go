package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load stores, products and prices from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				report, err := seedFile(cmd.Context(), args[0], a.data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d stores, %d products, %d prices\n",
					report.Stores, report.Products, report.Prices)
				return nil
			})
		},
	}
}
