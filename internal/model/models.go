// internal/model/models.go
package model

import (
	"time"
)

// UnknownOwner is stored when the upstream item carries no owner login.
const UnknownOwner = "Unknown"

// Repository is the canonical stored record for a GitHub repository.
// ID is the upstream-assigned identity and the upsert key.
type Repository struct {
	ID          int64
	Name        string
	Description *string
	Owner       string
	Language    *string
	Stars       int
	Forks       int
	LastUpdated time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SearchRequest is a single upstream search issued on behalf of a client.
type SearchRequest struct {
	Term     string
	Language string
	Sort     SortKey
}

// RepositoryFilter narrows a listing of stored repositories.
// Nil fields place no constraint on that dimension.
type RepositoryFilter struct {
	Language *string
	MinStars *int
	Sort     SortKey
}
