// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"repo-searcher/internal/github"
	"repo-searcher/internal/metrics"
	"repo-searcher/internal/model"
	"repo-searcher/internal/store"
)

// Searcher runs one upstream repository search.
type Searcher interface {
	Search(ctx context.Context, req model.SearchRequest) (*github.SearchResult, error)
}

// RepositoryStore is the keyed persistence the syncer reconciles against.
type RepositoryStore interface {
	GetRepository(ctx context.Context, id int64) (model.Repository, error)
	InsertRepository(ctx context.Context, repo model.Repository) (model.Repository, error)
	UpdateRepository(ctx context.Context, repo model.Repository) (model.Repository, error)
}

// Syncer orchestrates fetching repositories from GitHub and reconciling them into the store.
type Syncer struct {
	searcher Searcher
	store    RepositoryStore
	logger   *slog.Logger
}

// NewSyncer creates a new Syncer instance.
func NewSyncer(searcher Searcher, store RepositoryStore, logger *slog.Logger) *Syncer {
	return &Syncer{
		searcher: searcher,
		store:    store,
		logger:   logger,
	}
}

// SearchAndSync runs one bounded search and reconciles every returned item.
// The result is empty (never nil) when GitHub reports no matches.
func (s *Syncer) SearchAndSync(ctx context.Context, req model.SearchRequest) ([]model.Repository, error) {
	logger := s.logger.With("term", req.Term, "language", req.Language, "sort", req.Sort.String())
	logger.Info("Starting repository search and sync")

	res, err := s.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(res.Items) == 0 {
		logger.Info("No repositories found for search query")
		return []model.Repository{}, nil
	}

	saved, err := s.Reconcile(ctx, github.ToRecords(res.Items))
	if err != nil {
		return nil, err
	}

	logger.Info("Successfully processed repositories", "count", len(saved))
	return saved, nil
}

// Reconcile upserts each record by id and returns the stored records in input order.
// Records are written one at a time outside any batch transaction: a failure on one
// record stops the batch and leaves the earlier records committed.
func (s *Syncer) Reconcile(ctx context.Context, repos []model.Repository) ([]model.Repository, error) {
	if len(repos) == 0 {
		return []model.Repository{}, nil
	}

	saved := make([]model.Repository, 0, len(repos))
	for _, repo := range repos {
		stored, err := s.upsertRepository(ctx, repo)
		if err != nil {
			metrics.ReconciledRepositories.WithLabelValues(metrics.ActionFailed).Inc()
			return nil, fmt.Errorf("reconcile repository %d: %w", repo.ID, err)
		}
		saved = append(saved, stored)
	}
	return saved, nil
}

// upsertRepository creates or updates a repository.
func (s *Syncer) upsertRepository(ctx context.Context, repo model.Repository) (model.Repository, error) {
	logger := s.logger.With("repo_id", repo.ID, "name", repo.Name)

	existing, err := s.store.GetRepository(ctx, repo.ID)
	if errors.Is(err, store.ErrNotFound) {
		saved, err := s.store.InsertRepository(ctx, repo)
		if err != nil {
			return model.Repository{}, err
		}
		logger.Debug("Saved new repository")
		metrics.ReconciledRepositories.WithLabelValues(metrics.ActionInserted).Inc()
		return saved, nil
	} else if err != nil {
		return model.Repository{}, err
	}

	saved, err := s.store.UpdateRepository(ctx, mergeRepository(existing, repo))
	if err != nil {
		return model.Repository{}, err
	}
	logger.Debug("Updated existing repository")
	metrics.ReconciledRepositories.WithLabelValues(metrics.ActionUpdated).Inc()
	return saved, nil
}

// mergeRepository overwrites every field of existing except ID and CreatedAt with incoming's values.
func mergeRepository(existing, incoming model.Repository) model.Repository {
	merged := incoming
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	merged.UpdatedAt = existing.UpdatedAt
	return merged
}
