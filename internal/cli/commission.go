package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/wire"
)

// CommissionCmd returns the commission command
func CommissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commission",
		Short: "Manage commissions (top-level work streams)",
		Long:  "Create, list, and manage commissions in the ledger",
	}

	cmd.AddCommand(commissionCreateCmd())
	cmd.AddCommand(commissionListCmd())
	cmd.AddCommand(commissionShowCmd())
	cmd.AddCommand(commissionUpdateCmd())
	cmd.AddCommand(commissionStatusCmd())
	cmd.AddCommand(commissionPinCmd())
	cmd.AddCommand(commissionUnpinCmd())
	cmd.AddCommand(commissionDeleteCmd())

	return cmd
}

func commissionCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new commission",
		Long: `Create a new commission.

Examples:
  ledger commission create "Storage rewrite" -d "Move reads onto joins"
  ledger commission create --file commission.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			payload, ok, err := readPayload(cmd)
			if err != nil {
				return err
			}
			if ok {
				if len(args) > 0 {
					return errTitleWithFile
				}
				if err := rejectFieldFlags(cmd, "description"); err != nil {
					return err
				}
				return wire.CommissionAdapter().CreateFromJSON(ctx, payload)
			}

			if len(args) == 0 {
				return errTitleRequired
			}
			return wire.CommissionAdapter().Create(ctx, args[0], description)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Commission description")
	addFileFlag(cmd)

	return cmd
}

func commissionListCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List commissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CommissionAdapter().List(cmd.Context(), status, limit)
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (active, paused, complete, archived)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of commissions to show")

	return cmd
}

func commissionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [commission-id]",
		Short: "Show commission details with its shipments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "commission"); err != nil {
				return err
			}
			_, err := wire.CommissionAdapter().Show(cmd.Context(), args[0])
			return err
		},
	}
}

func commissionUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [commission-id]",
		Short: "Update commission title and/or description",
		Long: `Update a commission. Only the fields given are changed.

Examples:
  ledger commission update COMM-001 --title "New title"
  ledger commission update COMM-001 --clear-description
  echo '{"description": null}' | ledger commission update COMM-001 --file -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			if err := validateEntityID(id, "commission"); err != nil {
				return err
			}

			payload, ok, err := readPayload(cmd)
			if err != nil {
				return err
			}
			if ok {
				if err := rejectFieldFlags(cmd, "title", "description", "clear-description"); err != nil {
					return err
				}
				return wire.CommissionAdapter().UpdateFromJSON(ctx, id, payload)
			}

			return wire.CommissionAdapter().Update(ctx, id, commissionPatch(cmd))
		},
	}

	cmd.Flags().StringP("title", "t", "", "New commission title")
	cmd.Flags().StringP("description", "d", "", "New commission description")
	addClearFlag(cmd, "description", "Remove the commission description")
	addFileFlag(cmd)

	return cmd
}

func commissionPatch(cmd *cobra.Command) models.CommissionUpdate {
	return models.CommissionUpdate{Data: models.CommissionData[update]{
		Title:       stringField(cmd, "title"),
		Description: nullableStringField(cmd, "description"),
	}}
}

func commissionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [commission-id] [status]",
		Short: "Move a commission to a new status",
		Long: `Move a commission to a new status (active, paused, complete, archived).
Pinned commissions cannot be completed or archived.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "commission"); err != nil {
				return err
			}
			return wire.CommissionAdapter().SetStatus(cmd.Context(), args[0], args[1])
		},
	}
}

func commissionPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin [commission-id]",
		Short: "Pin commission to keep it open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CommissionAdapter().Pin(cmd.Context(), args[0])
		},
	}
}

func commissionUnpinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpin [commission-id]",
		Short: "Unpin commission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.CommissionAdapter().Unpin(cmd.Context(), args[0])
		},
	}
}

func commissionDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [commission-id]",
		Short: "Delete a commission from the database",
		Long: `Delete a commission.

A commission that still has shipments is only deleted with --force, which
removes its shipments and their tasks as well.

Examples:
  ledger commission delete COMM-003
  ledger commission delete COMM-001 --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "commission"); err != nil {
				return err
			}
			return wire.CommissionAdapter().Delete(cmd.Context(), args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete even if the commission has shipments")

	return cmd
}
