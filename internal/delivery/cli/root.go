package cli

import (
	"github.com/spf13/cobra"
)

// options persistent flags; empty values fall back to the environment
type options struct {
	backend  string
	dbPath   string
	locale   string
	timezone string
	logLevel string
	fixture  string
}

// NewRootCmd builds the pricectl command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "pricectl",
		Short:         "Grocery price ledger",
		Long:          "pricectl records, inspects and shares grocery price observations per product and store",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.backend, "backend", "", "data service backend: sqlite or memory (LEDGER_BACKEND)")
	flags.StringVar(&opts.dbPath, "db", "", "sqlite database path (LEDGER_DB_PATH)")
	flags.StringVar(&opts.locale, "locale", "", "display locale, e.g. pt-BR or en-US (LEDGER_LOCALE)")
	flags.StringVar(&opts.timezone, "timezone", "", "time zone for dates (LEDGER_TIMEZONE)")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	flags.StringVar(&opts.fixture, "fixture", "", "YAML fixture loaded before the command runs")

	root.AddCommand(
		newProductCmd(opts),
		newHistoryCmd(opts),
		newStoresCmd(opts),
		newSubmitCmd(opts),
		newSkipCmd(opts),
		newCategoryCmd(opts),
		newSuggestCmd(opts),
		newShareCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newSeedCmd(opts),
	)

	return root
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}
