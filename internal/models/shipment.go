package models

import "github.com/example/ledger/internal/shape"

// ShipmentData is the body of a shipment record. Repo is a nullable link to
// a repository; reads hydrate it with the repository's fields.
type ShipmentData[S shape.Shape] struct {
	CommissionID shape.Data[S, string]                         `json:"commission_id,omitzero"`
	Title        shape.Data[S, string]                         `json:"title,omitzero"`
	Description  shape.Data[S, *string]                        `json:"description,omitzero"`
	Status       shape.Meta[S, string]                         `json:"status,omitzero"`
	Branch       shape.Data[S, *string]                        `json:"branch,omitzero"`
	Repo         shape.Data[S, *RepoRef]                       `json:"repo,omitzero"`
	Tasks        shape.Meta[S, []shape.Record[S, TaskData[S]]] `json:"tasks,omitzero"`
}

type (
	Shipment       = shape.Record[shape.Query, ShipmentData[shape.Query]]
	ShipmentCreate = shape.Record[shape.Create, ShipmentData[shape.Create]]
	ShipmentUpdate = shape.Record[shape.Update, ShipmentData[shape.Update]]
	ShipmentRef    = shape.Record[shape.Reference, ShipmentData[shape.Reference]]
)

// Shipment status constants
const (
	ShipmentStatusDraft      = "draft"
	ShipmentStatusInProgress = "in_progress"
	ShipmentStatusPaused     = "paused"
	ShipmentStatusComplete   = "complete"
)
