package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/ledger/internal/models"
	"github.com/example/ledger/internal/ports/primary"
	"github.com/example/ledger/internal/shape"
)

// CommissionAdapter is a thin adapter that translates CLI operations to CommissionService calls.
// It depends only on the CommissionService interface, enabling easy testing with mocks.
type CommissionAdapter struct {
	service primary.CommissionService
	out     io.Writer
	output  Output
}

// NewCommissionAdapter creates a new CommissionAdapter with the given service.
func NewCommissionAdapter(service primary.CommissionService, out io.Writer, output Output) *CommissionAdapter {
	return &CommissionAdapter{
		service: service,
		out:     out,
		output:  output,
	}
}

// Create creates a new commission. An empty description is stored as null.
func (a *CommissionAdapter) Create(ctx context.Context, title, description string) error {
	type create = shape.Create
	return a.create(ctx, models.CommissionCreate{Data: models.CommissionData[create]{
		Title:       shape.DataOf[create](title),
		Description: shape.DataOf[create](optional(description)),
	}})
}

// CreateFromJSON creates a commission from a JSON payload.
func (a *CommissionAdapter) CreateFromJSON(ctx context.Context, payload []byte) error {
	c, err := shape.Decode[shape.Create, models.CommissionData[shape.Create]](payload)
	if err != nil {
		return err
	}
	return a.create(ctx, c)
}

func (a *CommissionAdapter) create(ctx context.Context, payload models.CommissionCreate) error {
	c, err := a.service.CreateCommission(ctx, payload)
	if err != nil {
		return err
	}

	if ok, err := a.output.structured(a.out, c); ok {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created commission %s: %s\n", c.ID.Get(), c.Data.Title.Get())
	return nil
}

// List lists commissions with optional status filter.
func (a *CommissionAdapter) List(ctx context.Context, status string, limit int) error {
	commissions, err := a.service.ListCommissions(ctx, primary.CommissionFilters{
		Status: status,
		Limit:  limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list commissions: %w", err)
	}

	if ok, err := a.output.structured(a.out, commissions); ok {
		return err
	}

	if len(commissions) == 0 {
		fmt.Fprintln(a.out, "No commissions found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-10s %-9s %s\n", "ID", "STATUS", "SHIPMENTS", "TITLE")
	fmt.Fprintln(a.out, rule)
	for _, c := range commissions {
		title := c.Data.Title.Get()
		if c.Data.Pinned.Get() {
			title += " [pinned]"
		}
		fmt.Fprintf(a.out, "%-10s %s %-9d %s\n",
			c.ID.Get(), colorStatus(c.Data.Status.Get(), 10), len(c.Data.Shipments.Get()), title)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays a commission with its shipments and their task counts.
func (a *CommissionAdapter) Show(ctx context.Context, commissionID string) (models.Commission, error) {
	c, err := a.service.GetCommission(ctx, commissionID)
	if err != nil {
		return models.Commission{}, fmt.Errorf("failed to get commission: %w", err)
	}

	if ok, err := a.output.structured(a.out, c); ok {
		return c, err
	}

	fmt.Fprintf(a.out, "\nCommission: %s\n", c.ID.Get())
	fmt.Fprintf(a.out, "Title:   %s\n", c.Data.Title.Get())
	fmt.Fprintf(a.out, "Status:  %s\n", colorStatus(c.Data.Status.Get(), 0))
	if c.Data.Pinned.Get() {
		fmt.Fprintln(a.out, "Pinned:  yes")
	}
	if d, ok := deref(c.Data.Description.Get()); ok {
		a.printDescription(d)
	}
	fmt.Fprintf(a.out, "Created: %s\n", c.Created.Get().Format(timeLayout))

	shipments := c.Data.Shipments.Get()
	if len(shipments) > 0 {
		fmt.Fprintf(a.out, "\nShipments (%d):\n", len(shipments))
		for _, s := range shipments {
			tasks := s.Data.Tasks.Get()
			done := 0
			for _, t := range tasks {
				if t.Data.Status.Get() == models.TaskStatusComplete {
					done++
				}
			}
			fmt.Fprintf(a.out, "  %-10s %s %d/%d tasks  %s\n",
				s.ID.Get(), colorStatus(s.Data.Status.Get(), 12), done, len(tasks), s.Data.Title.Get())
		}
	}
	fmt.Fprintln(a.out)

	return c, nil
}

func (a *CommissionAdapter) printDescription(d string) {
	if a.output.Markdown {
		fmt.Fprintf(a.out, "Description:\n%s\n", renderMarkdown(d))
		return
	}
	fmt.Fprintf(a.out, "Description: %s\n", d)
}

// Update applies a patch to a commission.
func (a *CommissionAdapter) Update(ctx context.Context, commissionID string, patch models.CommissionUpdate) error {
	c, err := a.service.UpdateCommission(ctx, commissionID, patch)
	if err != nil {
		return fmt.Errorf("failed to update commission: %w", err)
	}

	if ok, err := a.output.structured(a.out, c); ok {
		return err
	}
	fmt.Fprintf(a.out, "✓ Commission %s updated\n", commissionID)
	return nil
}

// UpdateFromJSON applies a JSON patch to a commission.
func (a *CommissionAdapter) UpdateFromJSON(ctx context.Context, commissionID string, payload []byte) error {
	patch, err := shape.Decode[shape.Update, models.CommissionData[shape.Update]](payload)
	if err != nil {
		return err
	}
	return a.Update(ctx, commissionID, patch)
}

// SetStatus moves a commission to a new status.
func (a *CommissionAdapter) SetStatus(ctx context.Context, commissionID, status string) error {
	if err := a.service.SetCommissionStatus(ctx, commissionID, status); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Commission %s marked as %s\n", commissionID, status)
	return nil
}

// Pin pins a commission.
func (a *CommissionAdapter) Pin(ctx context.Context, commissionID string) error {
	if err := a.service.PinCommission(ctx, commissionID); err != nil {
		return fmt.Errorf("failed to pin commission: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Commission %s pinned 📌\n", commissionID)
	return nil
}

// Unpin unpins a commission.
func (a *CommissionAdapter) Unpin(ctx context.Context, commissionID string) error {
	if err := a.service.UnpinCommission(ctx, commissionID); err != nil {
		return fmt.Errorf("failed to unpin commission: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Commission %s unpinned\n", commissionID)
	return nil
}

// Delete deletes a commission.
func (a *CommissionAdapter) Delete(ctx context.Context, commissionID string, force bool) error {
	err := a.service.DeleteCommission(ctx, primary.DeleteCommissionRequest{
		CommissionID: commissionID,
		Force:        force,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Commission %s deleted\n", commissionID)
	return nil
}
