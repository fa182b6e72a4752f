package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/wire"
)

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks (units of work within a shipment)",
	}

	cmd.AddCommand(taskCreateCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskShowCmd())
	cmd.AddCommand(taskUpdateCmd())
	cmd.AddCommand(taskStatusCmd())
	cmd.AddCommand(taskDeleteCmd())

	return cmd
}

func taskCreateCmd() *cobra.Command {
	var shipmentID, description string

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new task",
		Long: `Create a new task in a shipment.

Examples:
  ledger task create "Write collector tests" --shipment SHIP-001 --priority 1
  ledger task create --file task.json`,
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
				if err := rejectFieldFlags(cmd, "shipment", "description", "priority"); err != nil {
					return err
				}
				return wire.TaskAdapter().CreateFromJSON(ctx, payload)
			}

			if len(args) == 0 {
				return errTitleRequired
			}
			if shipmentID == "" {
				return errShipmentRequired
			}
			if err := validateEntityID(shipmentID, "shipment"); err != nil {
				return err
			}
			return wire.TaskAdapter().Create(ctx, shipmentID, args[0], description, optionalInt(cmd, "priority"))
		},
	}

	cmd.Flags().StringVarP(&shipmentID, "shipment", "S", "", "Shipment ID (required without --file)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().IntP("priority", "p", 0, "Task priority (lower is more urgent)")
	addFileFlag(cmd)

	return cmd
}

func taskListCmd() *cobra.Command {
	var shipmentID, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(shipmentID, "shipment"); err != nil {
				return err
			}
			return wire.TaskAdapter().List(cmd.Context(), shipmentID, status)
		},
	}

	cmd.Flags().StringVarP(&shipmentID, "shipment", "S", "", "Filter by shipment")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (ready, in_progress, blocked, complete)")

	return cmd
}

func taskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "task"); err != nil {
				return err
			}
			_, err := wire.TaskAdapter().Show(cmd.Context(), args[0])
			return err
		},
	}
}

func taskUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [task-id]",
		Short: "Update task fields",
		Long: `Update a task. Only the fields given are changed.

Examples:
  ledger task update TASK-001 --priority 2
  ledger task update TASK-001 --clear-priority
  ledger task update TASK-001 --shipment SHIP-002`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			if err := validateEntityID(id, "task"); err != nil {
				return err
			}

			payload, ok, err := readPayload(cmd)
			if err != nil {
				return err
			}
			if ok {
				if err := rejectFieldFlags(cmd, taskFieldFlags...); err != nil {
					return err
				}
				return wire.TaskAdapter().UpdateFromJSON(ctx, id, payload)
			}

			return wire.TaskAdapter().Update(ctx, id, taskPatch(cmd))
		},
	}

	cmd.Flags().StringP("shipment", "S", "", "Move the task to another shipment")
	cmd.Flags().StringP("title", "t", "", "New task title")
	cmd.Flags().StringP("description", "d", "", "New task description")
	cmd.Flags().IntP("priority", "p", 0, "New task priority")
	addClearFlag(cmd, "description", "Remove the task description")
	addClearFlag(cmd, "priority", "Remove the task priority")
	addFileFlag(cmd)

	return cmd
}

var taskFieldFlags = []string{
	"shipment", "title", "description", "priority",
	"clear-description", "clear-priority",
}

func taskPatch(cmd *cobra.Command) models.TaskUpdate {
	return models.TaskUpdate{Data: models.TaskData[update]{
		ShipmentID:  stringField(cmd, "shipment"),
		Title:       stringField(cmd, "title"),
		Description: nullableStringField(cmd, "description"),
		Priority:    nullableIntField(cmd, "priority"),
	}}
}

func taskStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [task-id] [status]",
		Short: "Move a task to a new status",
		Long:  `Move a task to a new status (ready, in_progress, blocked, complete).`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "task"); err != nil {
				return err
			}
			return wire.TaskAdapter().SetStatus(cmd.Context(), args[0], args[1])
		},
	}
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [task-id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "task"); err != nil {
				return err
			}
			return wire.TaskAdapter().Delete(cmd.Context(), args[0])
		},
	}
}
