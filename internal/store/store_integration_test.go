//go:build integration

// internal/store/store_integration_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"repo-searcher/internal/database"
	"repo-searcher/internal/model"
)

func setupTestDatabase(ctx context.Context, t *testing.T) *pgxpool.Pool {
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, pgContainer.Terminate(context.Background())) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dbpool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(dbpool.Close)

	mg, err := database.NewMigrator(dbpool)
	require.NoError(t, err)
	require.NoError(t, mg.Up())

	return dbpool
}

func TestStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool := setupTestDatabase(ctx, t)

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(database.New(dbpool), WithClock(func() time.Time { return clock }))

	java, goLang := "Java", "Go"
	seed := []model.Repository{
		{ID: 1, Name: "a", Owner: "o", Language: &java, Stars: 10, Forks: 30, LastUpdated: clock.Add(-3 * time.Hour)},
		{ID: 2, Name: "b", Owner: "o", Language: &goLang, Stars: 30, Forks: 10, LastUpdated: clock.Add(-1 * time.Hour)},
		{ID: 3, Name: "c", Owner: "o", Language: nil, Stars: 20, Forks: 20, LastUpdated: clock.Add(-2 * time.Hour)},
	}
	for _, r := range seed {
		saved, err := s.InsertRepository(ctx, r)
		require.NoError(t, err)
		assert.True(t, saved.CreatedAt.Equal(saved.UpdatedAt))
	}

	ids := func(repos []model.Repository) []int64 {
		out := make([]int64, len(repos))
		for i, r := range repos {
			out[i] = r.ID
		}
		return out
	}

	t.Run("default listing is ordered by stars", func(t *testing.T) {
		repos, err := s.ListRepositories(ctx, model.RepositoryFilter{})
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3, 1}, ids(repos))
	})

	t.Run("orders by forks and updated", func(t *testing.T) {
		repos, err := s.ListRepositories(ctx, model.RepositoryFilter{Sort: model.SortForks})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 3, 2}, ids(repos))

		repos, err = s.ListRepositories(ctx, model.RepositoryFilter{Sort: model.SortUpdated})
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 3, 1}, ids(repos))
	})

	t.Run("language filter is case-insensitive", func(t *testing.T) {
		lower := "java"
		repos, err := s.ListRepositories(ctx, model.RepositoryFilter{Language: &lower})
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, ids(repos))
	})

	t.Run("min stars filter", func(t *testing.T) {
		for _, tc := range []struct {
			threshold int
			want      []int64
		}{
			{0, []int64{2, 3, 1}},
			{20, []int64{2, 3}},
			{31, []int64{}},
		} {
			threshold := tc.threshold
			repos, err := s.ListRepositories(ctx, model.RepositoryFilter{MinStars: &threshold})
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(repos))
		}
	})

	t.Run("update preserves created_at", func(t *testing.T) {
		existing, err := s.GetRepository(ctx, 1)
		require.NoError(t, err)

		clock = clock.Add(time.Hour)
		existing.Stars = 99
		updated, err := s.UpdateRepository(ctx, existing)
		require.NoError(t, err)

		assert.True(t, existing.CreatedAt.Equal(updated.CreatedAt))
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
		assert.Equal(t, 99, updated.Stars)
	})

	t.Run("insert of an existing id keeps created_at", func(t *testing.T) {
		before, err := s.GetRepository(ctx, 2)
		require.NoError(t, err)

		clock = clock.Add(time.Hour)
		again, err := s.InsertRepository(ctx, model.Repository{ID: 2, Name: "b2", Owner: "o", Stars: 31, LastUpdated: clock})
		require.NoError(t, err)

		assert.True(t, before.CreatedAt.Equal(again.CreatedAt))
		assert.Equal(t, "b2", again.Name)
	})
}
