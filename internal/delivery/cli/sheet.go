package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <product-id>",
		Short: "Write the price history to an .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = fmt.Sprintf("prices-%s.xlsx", args[0])
			}

			return withApp(cmd.Context(), opts, func(a *app) error {
				session, err := a.products.Open(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				if err := a.sheets.Export(cmd.Context(), session, f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d prices to %s\n", session.Ledger().Len(), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default prices-<product-id>.xlsx)")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <product-id> <file.xlsx>",
		Short: "Record prices from an .xlsx sheet (store, price, date)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				session, err := a.products.Open(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				f, err := os.Open(args[1])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[1], err)
				}
				defer f.Close()

				report, err := a.sheets.Import(cmd.Context(), session, f)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "imported %d\n", report.Imported)
				for _, row := range report.Skipped {
					fmt.Fprintf(out, "skipped row %d: %s\n", row.Line, row.Reason)
				}
				return err
			})
		},
	}
}
