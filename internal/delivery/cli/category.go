package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yourusername/grocery-price-ledger/internal/domain/entity"
	"github.com/yourusername/grocery-price-ledger/internal/usecase"
)

func newCategoryCmd(opts *options) *cobra.Command {
	var clearCategory bool

	cmd := &cobra.Command{
		Use:   "category <product-id> [category]",
		Short: "Set the category of a product's generic product",
		Long:  "Sets the category. Known categories: " + strings.Join(entity.Categories, ", "),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := ""
			if len(args) == 2 {
				category = resolveCategory(args[1])
			}
			if category == "" && !clearCategory {
				return fmt.Errorf("%w: a category or --clear is required", usecase.ErrValidation)
			}

			return withApp(cmd.Context(), opts, func(a *app) error {
				session, err := a.products.Open(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				session.SelectCategory(category)
				if err := a.products.SaveCategory(cmd.Context(), session); err != nil {
					return err
				}
				if category == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "category cleared")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "category: %s\n", category)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearCategory, "clear", false, "remove the category")
	return cmd
}

func newSuggestCmd(opts *options) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "suggest <product-id>",
		Short: "Ask Gemini for a category (needs GEMINI_API_KEY)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				session, err := a.products.Open(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				category, err := a.products.SuggestCategory(cmd.Context(), session)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "suggested: %s\n", category)
				if !apply {
					return nil
				}
				session.SelectCategory(category)
				return a.products.SaveCategory(cmd.Context(), session)
			})
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "save the suggested category")
	return cmd
}

// resolveCategory canonical spelling of a known category, otherwise the input
func resolveCategory(name string) string {
	name = strings.TrimSpace(name)
	for _, category := range entity.Categories {
		if strings.EqualFold(category, name) {
			return category
		}
	}
	return name
}
