package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/example/ledger/internal/collect"
	"github.com/example/ledger/internal/grouping"
	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/primary"
	"github.com/example/ledger/internal/shape"
)

// ShipmentAdapter is a thin adapter that translates CLI operations to ShipmentService calls.
type ShipmentAdapter struct {
	service primary.ShipmentService
	out     io.Writer
	output  Output
}

// NewShipmentAdapter creates a new ShipmentAdapter with the given service.
func NewShipmentAdapter(service primary.ShipmentService, out io.Writer, output Output) *ShipmentAdapter {
	return &ShipmentAdapter{
		service: service,
		out:     out,
		output:  output,
	}
}

// ShipmentFields are the creation flags of a shipment. Empty strings mean
// "not given".
type ShipmentFields struct {
	CommissionID string
	Title        string
	Description  string
	Branch       string
	RepoID       string
}

// Create creates a new shipment.
func (a *ShipmentAdapter) Create(ctx context.Context, f ShipmentFields) error {
	type create = shape.Create

	var repo *models.RepoRef
	if f.RepoID != "" {
		ref := shape.Ref[models.RepoData[shape.Reference]](f.RepoID)
		repo = &ref
	}

	return a.create(ctx, models.ShipmentCreate{Data: models.ShipmentData[create]{
		CommissionID: shape.DataOf[create](f.CommissionID),
		Title:        shape.DataOf[create](f.Title),
		Description:  shape.DataOf[create](optional(f.Description)),
		Branch:       shape.DataOf[create](optional(f.Branch)),
		Repo:         shape.DataOf[create](repo),
	}})
}

// CreateFromJSON creates a shipment from a JSON payload.
func (a *ShipmentAdapter) CreateFromJSON(ctx context.Context, payload []byte) error {
	s, err := shape.Decode[shape.Create, models.ShipmentData[shape.Create]](payload)
	if err != nil {
		return err
	}
	return a.create(ctx, s)
}

func (a *ShipmentAdapter) create(ctx context.Context, payload models.ShipmentCreate) error {
	s, err := a.service.CreateShipment(ctx, payload)
	if err != nil {
		return err
	}

	if ok, err := a.output.structured(a.out, s); ok {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created shipment %s: %s\n", s.ID.Get(), s.Data.Title.Get())
	fmt.Fprintf(a.out, "  Commission: %s\n", s.Data.CommissionID.Get())
	if b, ok := deref(s.Data.Branch.Get()); ok {
		fmt.Fprintf(a.out, "  Branch: %s\n", b)
	}
	return nil
}

// List lists shipments with optional filters.
func (a *ShipmentAdapter) List(ctx context.Context, commissionID, status string) error {
	shipments, err := a.service.ListShipments(ctx, primary.ShipmentFilters{
		CommissionID: commissionID,
		Status:       status,
	})
	if err != nil {
		return fmt.Errorf("failed to list shipments: %w", err)
	}

	if ok, err := a.output.structured(a.out, shipments); ok {
		return err
	}

	if len(shipments) == 0 {
		fmt.Fprintln(a.out, "No shipments found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-10s %-12s %-5s %s\n", "ID", "COMMISSION", "STATUS", "TASKS", "TITLE")
	fmt.Fprintln(a.out, rule)
	for _, s := range shipments {
		fmt.Fprintf(a.out, "%-10s %-10s %s %-5d %s\n",
			s.ID.Get(), s.Data.CommissionID.Get(), colorStatus(s.Data.Status.Get(), 12), len(s.Data.Tasks.Get()), s.Data.Title.Get())
	}
	fmt.Fprintln(a.out)

	return nil
}

// taskStatusOrder is the order task groups are shown in.
var taskStatusOrder = []string{
	models.TaskStatusInProgress,
	models.TaskStatusBlocked,
	models.TaskStatusReady,
	models.TaskStatusComplete,
}

func statusRank(status string) int {
	if i := slices.Index(taskStatusOrder, status); i >= 0 {
		return i
	}
	return len(taskStatusOrder)
}

// taskGroup is the tasks of a shipment that share a status.
type taskGroup struct {
	Status string
	Tasks  []models.Task
}

// groupTasksByStatus orders tasks by status and gathers each status into one
// group, keeping ID order within a group.
func groupTasksByStatus(tasks []models.Task) []taskGroup {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b models.Task) int {
		return statusRank(a.Data.Status.Get()) - statusRank(b.Data.Status.Get())
	})

	status := func(t models.Task) string { return t.Data.Status.Get() }
	return collect.AllSlice(sorted, status, func(s string, run *grouping.Run[string, models.Task]) taskGroup {
		return taskGroup{Status: s, Tasks: slices.Collect(run.All())}
	})
}

// Show displays a shipment with its tasks grouped by status.
func (a *ShipmentAdapter) Show(ctx context.Context, shipmentID string) (models.Shipment, error) {
	s, err := a.service.GetShipment(ctx, shipmentID)
	if err != nil {
		return models.Shipment{}, fmt.Errorf("failed to get shipment: %w", err)
	}

	if ok, err := a.output.structured(a.out, s); ok {
		return s, err
	}

	fmt.Fprintf(a.out, "\nShipment:   %s\n", s.ID.Get())
	fmt.Fprintf(a.out, "Commission: %s\n", s.Data.CommissionID.Get())
	fmt.Fprintf(a.out, "Title:      %s\n", s.Data.Title.Get())
	fmt.Fprintf(a.out, "Status:     %s\n", colorStatus(s.Data.Status.Get(), 0))
	if repo := s.Data.Repo.Get(); repo != nil {
		fmt.Fprintf(a.out, "Repo:       %s (%s)\n", repo.Data.Name.Get(), repo.ID.Get())
	}
	if b, ok := deref(s.Data.Branch.Get()); ok {
		fmt.Fprintf(a.out, "Branch:     %s\n", b)
	}
	if d, ok := deref(s.Data.Description.Get()); ok {
		if a.output.Markdown {
			fmt.Fprintf(a.out, "Description:\n%s\n", renderMarkdown(d))
		} else {
			fmt.Fprintf(a.out, "Description: %s\n", d)
		}
	}

	tasks := s.Data.Tasks.Get()
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "\nNo tasks")
	}
	for _, g := range groupTasksByStatus(tasks) {
		fmt.Fprintf(a.out, "\n%s (%d):\n", colorStatus(g.Status, 0), len(g.Tasks))
		for _, t := range g.Tasks {
			line := fmt.Sprintf("  %-10s %s", t.ID.Get(), t.Data.Title.Get())
			if p, ok := deref(t.Data.Priority.Get()); ok {
				line += fmt.Sprintf(" [P%d]", p)
			}
			fmt.Fprintln(a.out, line)
		}
	}
	fmt.Fprintln(a.out)

	return s, nil
}

// Update applies a patch to a shipment.
func (a *ShipmentAdapter) Update(ctx context.Context, shipmentID string, patch models.ShipmentUpdate) error {
	s, err := a.service.UpdateShipment(ctx, shipmentID, patch)
	if err != nil {
		return fmt.Errorf("failed to update shipment: %w", err)
	}

	if ok, err := a.output.structured(a.out, s); ok {
		return err
	}
	fmt.Fprintf(a.out, "✓ Shipment %s updated\n", shipmentID)
	return nil
}

// UpdateFromJSON applies a JSON patch to a shipment.
func (a *ShipmentAdapter) UpdateFromJSON(ctx context.Context, shipmentID string, payload []byte) error {
	patch, err := shape.Decode[shape.Update, models.ShipmentData[shape.Update]](payload)
	if err != nil {
		return err
	}
	return a.Update(ctx, shipmentID, patch)
}

// SetStatus moves a shipment to a new status.
func (a *ShipmentAdapter) SetStatus(ctx context.Context, shipmentID, status string, force bool) error {
	err := a.service.SetShipmentStatus(ctx, primary.SetShipmentStatusRequest{
		ShipmentID: shipmentID,
		Status:     status,
		Force:      force,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Shipment %s marked as %s\n", shipmentID, status)
	return nil
}

// Delete deletes a shipment.
func (a *ShipmentAdapter) Delete(ctx context.Context, shipmentID string) error {
	if err := a.service.DeleteShipment(ctx, shipmentID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Shipment %s deleted\n", shipmentID)
	return nil
}
