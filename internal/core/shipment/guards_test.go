package shipment

import "testing"

func TestCanCreateShipment(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CreateShipmentContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "can create shipment when commission exists",
			ctx: CreateShipmentContext{
				CommissionID:     "COMM-001",
				CommissionExists: true,
			},
			wantAllowed: true,
		},
		{
			name: "cannot create shipment when commission not found",
			ctx: CreateShipmentContext{
				CommissionID:     "COMM-999",
				CommissionExists: false,
			},
			wantAllowed: false,
			wantReason:  "commission COMM-999 not found",
		},
		{
			name: "cannot link a missing repo",
			ctx: CreateShipmentContext{
				CommissionID:     "COMM-001",
				CommissionExists: true,
				RepoID:           "REPO-404",
			},
			wantAllowed: false,
			wantReason:  "repo REPO-404 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanCreateShipment(tt.ctx)

			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanCreateShipment() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("CanCreateShipment() Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanUpdateShipment(t *testing.T) {
	tests := []struct {
		name        string
		ctx         UpdateShipmentContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "empty patch",
			ctx:         UpdateShipmentContext{ShipmentID: "SHIP-001"},
			wantAllowed: false,
			wantReason:  "nothing to update for shipment SHIP-001",
		},
		{
			name: "unlink repo",
			ctx: UpdateShipmentContext{
				ShipmentID: "SHIP-001",
				SetFields:  []string{"repo"},
				NullFields: []string{"repo"},
			},
			wantAllowed: true,
		},
		{
			name: "null commission",
			ctx: UpdateShipmentContext{
				ShipmentID: "SHIP-001",
				SetFields:  []string{"commission_id"},
				NullFields: []string{"commission_id"},
			},
			wantAllowed: false,
			wantReason:  "field commission_id of shipment SHIP-001 cannot be null",
		},
		{
			name: "move to missing commission",
			ctx: UpdateShipmentContext{
				ShipmentID:   "SHIP-001",
				SetFields:    []string{"commission_id"},
				CommissionID: "COMM-404",
			},
			wantAllowed: false,
			wantReason:  "commission COMM-404 not found",
		},
		{
			name: "move to existing commission",
			ctx: UpdateShipmentContext{
				ShipmentID:       "SHIP-001",
				SetFields:        []string{"commission_id"},
				CommissionID:     "COMM-002",
				CommissionExists: true,
			},
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanUpdateShipment(tt.ctx)

			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanUpdateShipment() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("CanUpdateShipment() Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanSetStatus(t *testing.T) {
	tasks := []TaskSummary{
		{ID: "TASK-001", Status: "complete"},
		{ID: "TASK-002", Status: "ready"},
	}

	tests := []struct {
		name        string
		ctx         StatusContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "unknown status",
			ctx:         StatusContext{ShipmentID: "SHIP-001", NewStatus: "shipped"},
			wantAllowed: false,
			wantReason:  `invalid shipment status "shipped" (valid: draft, in_progress, paused, complete)`,
		},
		{
			name:        "pause from draft",
			ctx:         StatusContext{ShipmentID: "SHIP-001", CurrentStatus: StatusDraft, NewStatus: StatusPaused},
			wantAllowed: false,
			wantReason:  "can only pause in_progress shipments (current status: draft)",
		},
		{
			name:        "pause from in_progress",
			ctx:         StatusContext{ShipmentID: "SHIP-001", CurrentStatus: StatusInProgress, NewStatus: StatusPaused},
			wantAllowed: true,
		},
		{
			name:        "complete with open tasks",
			ctx:         StatusContext{ShipmentID: "SHIP-001", NewStatus: StatusComplete, Tasks: tasks},
			wantAllowed: false,
			wantReason:  "cannot complete shipment SHIP-001: 1 incomplete task(s) (TASK-002). Use --force to complete anyway",
		},
		{
			name:        "forced completion",
			ctx:         StatusContext{ShipmentID: "SHIP-001", NewStatus: StatusComplete, Tasks: tasks, ForceCompletion: true},
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanSetStatus(tt.ctx)

			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanSetStatus() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("CanSetStatus() Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestGenerateShipmentID(t *testing.T) {
	if got := GenerateShipmentID(9); got != "SHIP-010" {
		t.Errorf("GenerateShipmentID(9) = %q, want SHIP-010", got)
	}
}
