package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/ledger/internal/version"
	"github.com/example/ledger/internal/wire"
)

// RootCmd returns the ledger command with every subcommand attached.
func RootCmd() *cobra.Command {
	var opts wire.Options

	root := &cobra.Command{
		Use:     "ledger",
		Short:   "Ledger - track commissions, shipments, and tasks",
		Version: version.String(),
		Long: `Ledger is a CLI tool for tracking commissions, the shipments that deliver
them, and the tasks inside each shipment. Records live in a local SQLite
database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.ValidateOutput(opts.Output); err != nil {
				return err
			}
			opts.Out = cmd.OutOrStdout()
			wire.Configure(opts)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.Output, "output", "o", "", "Output format: text, json or yaml (default from config)")
	root.PersistentFlags().BoolVar(&opts.Markdown, "render", false, "Render descriptions as markdown")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&opts.Dir, "dir", "", "Directory holding .ledger/config.json (default: working directory)")

	root.AddCommand(InitCmd())
	root.AddCommand(CommissionCmd())
	root.AddCommand(ShipmentCmd())
	root.AddCommand(TaskCmd())
	root.AddCommand(RepoCmd())
	root.AddCommand(LogCmd())

	return root
}
