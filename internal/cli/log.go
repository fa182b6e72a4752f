package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/ledger/internal/ports/primary"
	"github.com/example/ledger/internal/wire"
)

// LogCmd returns the log command with all subcommands attached.
func LogCmd() *cobra.Command {
	var filters primary.LogFilters
	var follow bool

	cmd := &cobra.Command{
		Use:   "log [entity-id]",
		Short: "View the activity log",
		Long: `Show recent ledger activity, oldest first.

Every create, delete and field change is recorded. Pass an entity ID to see
the history of a single commission, shipment, task or repository.

Examples:
  ledger log
  ledger log TASK-001
  ledger log --type shipment --action update -n 20
  ledger log --follow`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				filters.EntityID = args[0]
			}
			if filters.EntityType != "" {
				if _, ok := entityPrefixes[filters.EntityType]; !ok {
					return fmt.Errorf("invalid --type %q (valid: commission, shipment, task, repo)", filters.EntityType)
				}
			}
			return wire.LogAdapter().Tail(cmd.Context(), filters, follow)
		},
	}

	cmd.Flags().StringVarP(&filters.EntityType, "type", "t", "", "Filter by entity type")
	cmd.Flags().StringVarP(&filters.Action, "action", "a", "", "Filter by action (create, update, delete)")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 50, "Number of entries to show (0 for all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep polling for new entries")

	cmd.AddCommand(logPruneCmd())

	return cmd
}

func logPruneCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.LogAdapter().Prune(cmd.Context(), days)
		},
	}

	cmd.Flags().IntVar(&days, "older-than", 30, "Delete entries older than N days")

	return cmd
}
