package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/ledger/internal/adapters/cli"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/shape"
	"github.com/example/ledger/internal/wire"
)

// ShipmentCmd returns the shipment command
func ShipmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipment",
		Short: "Manage shipments (deliverable units of a commission)",
		Long:  "Create, list, and manage shipments and their tasks",
	}

	cmd.AddCommand(shipmentCreateCmd())
	cmd.AddCommand(shipmentListCmd())
	cmd.AddCommand(shipmentShowCmd())
	cmd.AddCommand(shipmentUpdateCmd())
	cmd.AddCommand(shipmentStatusCmd())
	cmd.AddCommand(shipmentDeleteCmd())

	return cmd
}

func shipmentCreateCmd() *cobra.Command {
	var fields cli.ShipmentFields

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new shipment",
		Long: `Create a new shipment under a commission.

When a repository is linked and no branch is given, a branch name is
generated from the shipment ID and title.

Examples:
  ledger shipment create "Row collector" --commission COMM-001
  ledger shipment create "Docs" --commission COMM-001 --repo REPO-002
  ledger shipment create --file shipment.json`,
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
				if err := rejectFieldFlags(cmd, "commission", "description", "branch", "repo"); err != nil {
					return err
				}
				return wire.ShipmentAdapter().CreateFromJSON(ctx, payload)
			}

			if len(args) == 0 {
				return errTitleRequired
			}
			if fields.CommissionID == "" {
				return errCommissionRequired
			}
			if err := validateEntityID(fields.CommissionID, "commission"); err != nil {
				return err
			}
			if err := validateEntityID(fields.RepoID, "repo"); err != nil {
				return err
			}
			fields.Title = args[0]
			return wire.ShipmentAdapter().Create(ctx, fields)
		},
	}

	cmd.Flags().StringVarP(&fields.CommissionID, "commission", "c", "", "Commission ID (required without --file)")
	cmd.Flags().StringVarP(&fields.Description, "description", "d", "", "Shipment description")
	cmd.Flags().StringVarP(&fields.Branch, "branch", "b", "", "Branch name")
	cmd.Flags().StringVarP(&fields.RepoID, "repo", "r", "", "Repository ID")
	addFileFlag(cmd)

	return cmd
}

func shipmentListCmd() *cobra.Command {
	var commissionID, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shipments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(commissionID, "commission"); err != nil {
				return err
			}
			return wire.ShipmentAdapter().List(cmd.Context(), commissionID, status)
		},
	}

	cmd.Flags().StringVarP(&commissionID, "commission", "c", "", "Filter by commission")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (draft, in_progress, paused, complete)")

	return cmd
}

func shipmentShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [shipment-id]",
		Short: "Show shipment details with its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "shipment"); err != nil {
				return err
			}
			_, err := wire.ShipmentAdapter().Show(cmd.Context(), args[0])
			return err
		},
	}
}

func shipmentUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [shipment-id]",
		Short: "Update shipment fields",
		Long: `Update a shipment. Only the fields given are changed.

Examples:
  ledger shipment update SHIP-001 --title "New title"
  ledger shipment update SHIP-001 --commission COMM-002
  ledger shipment update SHIP-001 --clear-repo --clear-branch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			if err := validateEntityID(id, "shipment"); err != nil {
				return err
			}

			payload, ok, err := readPayload(cmd)
			if err != nil {
				return err
			}
			if ok {
				if err := rejectFieldFlags(cmd, shipmentFieldFlags...); err != nil {
					return err
				}
				return wire.ShipmentAdapter().UpdateFromJSON(ctx, id, payload)
			}

			return wire.ShipmentAdapter().Update(ctx, id, shipmentPatch(cmd))
		},
	}

	cmd.Flags().StringP("commission", "c", "", "Move the shipment to another commission")
	cmd.Flags().StringP("title", "t", "", "New shipment title")
	cmd.Flags().StringP("description", "d", "", "New shipment description")
	cmd.Flags().StringP("branch", "b", "", "New branch name")
	cmd.Flags().StringP("repo", "r", "", "Link a repository")
	addClearFlag(cmd, "description", "Remove the shipment description")
	addClearFlag(cmd, "branch", "Remove the branch name")
	addClearFlag(cmd, "repo", "Unlink the repository")
	addFileFlag(cmd)

	return cmd
}

var shipmentFieldFlags = []string{
	"commission", "title", "description", "branch", "repo",
	"clear-description", "clear-branch", "clear-repo",
}

func shipmentPatch(cmd *cobra.Command) models.ShipmentUpdate {
	return models.ShipmentUpdate{Data: models.ShipmentData[update]{
		CommissionID: stringField(cmd, "commission"),
		Title:        stringField(cmd, "title"),
		Description:  nullableStringField(cmd, "description"),
		Branch:       nullableStringField(cmd, "branch"),
		Repo:         repoField(cmd),
	}}
}

// repoField turns --repo and --clear-repo into a reference patch.
func repoField(cmd *cobra.Command) shape.Data[update, *models.RepoRef] {
	if clear, _ := cmd.Flags().GetBool("clear-repo"); clear {
		return shape.DataNull[update, *models.RepoRef]()
	}
	if !cmd.Flags().Changed("repo") {
		return shape.DataFrom[update](shape.Absent[*models.RepoRef]())
	}
	id, _ := cmd.Flags().GetString("repo")
	ref := shape.Ref[models.RepoData[shape.Reference]](id)
	return shape.DataOf[update](&ref)
}

func shipmentStatusCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "status [shipment-id] [status]",
		Short: "Move a shipment to a new status",
		Long: `Move a shipment to a new status (draft, in_progress, paused, complete).

A shipment is only completed once all of its tasks are complete, unless
--force is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "shipment"); err != nil {
				return err
			}
			return wire.ShipmentAdapter().SetStatus(cmd.Context(), args[0], args[1], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Complete even with unfinished tasks")

	return cmd
}

func shipmentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [shipment-id]",
		Short: "Delete a shipment and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "shipment"); err != nil {
				return err
			}
			return wire.ShipmentAdapter().Delete(cmd.Context(), args[0])
		},
	}
}
