// internal/listing/listing.go
package listing

import (
	"context"
	"log/slog"
	"strings"

	"repo-searcher/internal/model"
)

// RepositoryLister is the filtered scan the Lister delegates to.
type RepositoryLister interface {
	ListRepositories(ctx context.Context, filter model.RepositoryFilter) ([]model.Repository, error)
}

// Lister serves filtered, sorted views of stored repositories.
type Lister struct {
	store  RepositoryLister
	logger *slog.Logger
}

// NewLister creates a new Lister instance.
func NewLister(store RepositoryLister, logger *slog.Logger) *Lister {
	return &Lister{store: store, logger: logger}
}

// NormalizeSortKey lower-cases and trims s, falling back to stars for anything
// that is not an allowed sort key.
func NormalizeSortKey(s string) model.SortKey {
	key, ok := model.ParseSortKey(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return model.SortStars
	}
	return key
}

// List returns every stored repository matching all present filters, ordered descending
// by the normalized sort key. A blank language places no constraint.
func (l *Lister) List(ctx context.Context, language *string, minStars *int, sort string) ([]model.Repository, error) {
	filter := model.RepositoryFilter{
		MinStars: minStars,
		Sort:     NormalizeSortKey(sort),
	}
	if language != nil {
		if trimmed := strings.TrimSpace(*language); trimmed != "" {
			filter.Language = &trimmed
		}
	}

	logger := l.logger.With("sort", filter.Sort.String())
	if filter.Language != nil {
		logger = logger.With("language", *filter.Language)
	}
	if minStars != nil {
		logger = logger.With("min_stars", *minStars)
	}
	logger.Info("Retrieving repositories with filters")

	repos, err := l.store.ListRepositories(ctx, filter)
	if err != nil {
		return nil, err
	}

	logger.Info("Found repositories matching the criteria", "count", len(repos))
	return repos, nil
}
