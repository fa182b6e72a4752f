// Package models declares the ledger's entities once, as shape templates, and
// derives the read, create, update and reference forms of each from that one
// definition.
package models

import "github.com/example/ledger/internal/shape"

// CommissionData is the body of a commission record. Status and Pinned are
// server-managed; Shipments is the read-only nested list filled on reads.
type CommissionData[S shape.Shape] struct {
	Title       shape.Data[S, string]                             `json:"title,omitzero"`
	Description shape.Data[S, *string]                            `json:"description,omitzero"`
	Status      shape.Meta[S, string]                             `json:"status,omitzero"`
	Pinned      shape.Meta[S, bool]                               `json:"pinned,omitzero"`
	Shipments   shape.Meta[S, []shape.Record[S, ShipmentData[S]]] `json:"shipments,omitzero"`
}

type (
	Commission       = shape.Record[shape.Query, CommissionData[shape.Query]]
	CommissionCreate = shape.Record[shape.Create, CommissionData[shape.Create]]
	CommissionUpdate = shape.Record[shape.Update, CommissionData[shape.Update]]
	CommissionRef    = shape.Record[shape.Reference, CommissionData[shape.Reference]]
)

// Commission status constants
const (
	CommissionStatusActive   = "active"
	CommissionStatusPaused   = "paused"
	CommissionStatusComplete = "complete"
	CommissionStatusArchived = "archived"
)
