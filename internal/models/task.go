package models

import "github.com/example/ledger/internal/shape"

// TaskData is the body of a task record.
type TaskData[S shape.Shape] struct {
	ShipmentID  shape.Data[S, string]  `json:"shipment_id,omitzero"`
	Title       shape.Data[S, string]  `json:"title,omitzero"`
	Description shape.Data[S, *string] `json:"description,omitzero"`
	Priority    shape.Data[S, *int]    `json:"priority,omitzero"`
	Status      shape.Meta[S, string]  `json:"status,omitzero"`
}

type (
	Task       = shape.Record[shape.Query, TaskData[shape.Query]]
	TaskCreate = shape.Record[shape.Create, TaskData[shape.Create]]
	TaskUpdate = shape.Record[shape.Update, TaskData[shape.Update]]
	TaskRef    = shape.Record[shape.Reference, TaskData[shape.Reference]]
)

// Task status constants
const (
	TaskStatusReady      = "ready"
	TaskStatusInProgress = "in_progress"
	TaskStatusBlocked    = "blocked"
	TaskStatusComplete   = "complete"
)
