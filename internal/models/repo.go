package models

import "github.com/example/ledger/internal/shape"

// RepoData is the body of a repository record.
type RepoData[S shape.Shape] struct {
	Name          shape.Data[S, string]  `json:"name,omitzero"`
	URL           shape.Data[S, *string] `json:"url,omitzero"`
	DefaultBranch shape.Data[S, string]  `json:"default_branch,omitzero"`
}

type (
	Repo       = shape.Record[shape.Query, RepoData[shape.Query]]
	RepoCreate = shape.Record[shape.Create, RepoData[shape.Create]]
	RepoUpdate = shape.Record[shape.Update, RepoData[shape.Update]]
	RepoRef    = shape.Record[shape.Reference, RepoData[shape.Reference]]
)

// DefaultBranch is used when a repository is created without one.
const DefaultBranch = "main"
