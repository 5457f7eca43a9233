// internal/github/mapper.go
package github

import (
	"github.com/google/go-github/v62/github"

	"repo-searcher/internal/model"
)

// ToRecord translates a search result item into an unsaved model.Repository.
// CreatedAt and UpdatedAt are left zero; the store stamps them.
func ToRecord(r *github.Repository) model.Repository {
	return model.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		Description: r.Description,
		Owner:       ownerOrUnknown(r.Owner),
		Language:    r.Language,
		Stars:       countOrZero(r.StargazersCount),
		Forks:       countOrZero(r.ForksCount),
		LastUpdated: r.GetUpdatedAt().Time.UTC(),
	}
}

// ToRecords maps items in order, skipping nil entries.
func ToRecords(items []*github.Repository) []model.Repository {
	records := make([]model.Repository, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, ToRecord(item))
	}
	return records
}

func ownerOrUnknown(owner *github.User) string {
	if owner == nil || owner.Login == nil {
		return model.UnknownOwner
	}
	return *owner.Login
}

// countOrZero copies upstream counts unclamped.
func countOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
