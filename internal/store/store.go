// internal/store/store.go
package store

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"repo-searcher/internal/database"
	"repo-searcher/internal/model"
)

// ErrNotFound is returned by GetRepository when no row has the requested id.
var ErrNotFound = errors.New("repository not found")

// Store adapts the generated queries to model.Repository and owns timestamp stamping:
// inserts set created_at and updated_at to the same instant, updates only refresh updated_at.
type Store struct {
	q   database.Querier
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source used for stamping writes.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a Store backed by q.
func New(q database.Querier, opts ...Option) *Store {
	s := &Store{
		q:   q,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetRepository looks up a stored repository by its upstream id.
func (s *Store) GetRepository(ctx context.Context, id int64) (model.Repository, error) {
	row, err := s.q.GetRepository(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Repository{}, ErrNotFound
	}
	if err != nil {
		return model.Repository{}, err
	}
	return fromRow(row), nil
}

// InsertRepository stores a new repository, stamping CreatedAt and UpdatedAt with the
// same instant. Any CreatedAt/UpdatedAt on repo are ignored.
func (s *Store) InsertRepository(ctx context.Context, repo model.Repository) (model.Repository, error) {
	now := s.stamp()
	row, err := s.q.CreateRepository(ctx, database.CreateRepositoryParams{
		ID:          repo.ID,
		Name:        repo.Name,
		Description: repo.Description,
		Owner:       repo.Owner,
		Language:    repo.Language,
		Stars:       int32(repo.Stars),
		Forks:       int32(repo.Forks),
		LastUpdated: repo.LastUpdated,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Repository{}, err
	}
	return fromRow(row), nil
}

// UpdateRepository overwrites every mutable field of the stored repository with repo's
// values and refreshes UpdatedAt. The stored CreatedAt is never touched; repo.CreatedAt
// only bounds the new UpdatedAt from below.
func (s *Store) UpdateRepository(ctx context.Context, repo model.Repository) (model.Repository, error) {
	now := s.stamp()
	if now.Before(repo.CreatedAt) {
		now = repo.CreatedAt
	}
	row, err := s.q.UpdateRepository(ctx, database.UpdateRepositoryParams{
		ID:          repo.ID,
		Name:        repo.Name,
		Description: repo.Description,
		Owner:       repo.Owner,
		Language:    repo.Language,
		Stars:       int32(repo.Stars),
		Forks:       int32(repo.Forks),
		LastUpdated: repo.LastUpdated,
		UpdatedAt:   now,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Repository{}, ErrNotFound
	}
	if err != nil {
		return model.Repository{}, err
	}
	return fromRow(row), nil
}

// ListRepositories runs one filtered scan ordered descending by the filter's sort key.
func (s *Store) ListRepositories(ctx context.Context, filter model.RepositoryFilter) ([]model.Repository, error) {
	params := database.ListRepositoriesParams{
		Language: filter.Language,
		SortBy:   filter.Sort.String(),
	}
	if filter.MinStars != nil {
		// No stored count can exceed the column range.
		if *filter.MinStars > math.MaxInt32 {
			return []model.Repository{}, nil
		}
		minStars := int32(max(*filter.MinStars, math.MinInt32))
		params.MinStars = &minStars
	}

	rows, err := s.q.ListRepositories(ctx, params)
	if err != nil {
		return nil, err
	}

	repos := make([]model.Repository, len(rows))
	for i, row := range rows {
		repos[i] = fromRow(row)
	}
	return repos, nil
}

// stamp truncates to the column precision so returned and stored values agree.
func (s *Store) stamp() time.Time {
	return s.now().Truncate(time.Microsecond)
}

func fromRow(r database.Repository) model.Repository {
	return model.Repository{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Owner:       r.Owner,
		Language:    r.Language,
		Stars:       int(r.Stars),
		Forks:       int(r.Forks),
		LastUpdated: r.LastUpdated,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
