//go:build integration

// cmd/service/integration_test.go
package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"repo-searcher/internal/config"
	"repo-searcher/internal/database"
)

func setupTestDatabase(ctx context.Context, t *testing.T) *pgxpool.Pool {
	// Start a postgres container
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

	dbpool, err := openPool(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(dbpool.Close)

	mg, err := database.NewMigrator(dbpool)
	require.NoError(t, err)
	require.NoError(t, mg.Up())

	return dbpool
}

type repoJSON struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Owner       string  `json:"owner"`
	Language    *string `json:"language"`
	Stars       int     `json:"stars"`
	Forks       int     `json:"forks"`
	LastUpdated string  `json:"lastUpdated"`
}

type responseJSON struct {
	Message      string     `json:"message"`
	Repositories []repoJSON `json:"repositories"`
}

func TestService_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool := setupTestDatabase(ctx, t)

	// Fake GitHub search API; the second search reports more stars.
	var calls atomic.Int32
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/repositories" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "spring language:Java", r.URL.Query().Get("q"))
		stars := 1000
		if calls.Add(1) > 1 {
			stars = 1200
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_count":        2,
			"incomplete_results": false,
			"items": []map[string]any{
				{
					"id": 123456, "name": "spring-boot", "description": "Spring Boot framework",
					"language": "Java", "stargazers_count": stars, "forks_count": 500,
					"updated_at": "2024-01-02T03:04:05Z", "owner": map[string]any{"login": "spring-projects"},
				},
				{
					"id": 777, "name": "spring-petclinic", "language": "Java",
					"stargazers_count": 50, "forks_count": 900,
					"updated_at": "2024-02-02T03:04:05Z",
				},
			},
		})
	}))
	t.Cleanup(gh.Close)

	cfg := &config.Config{
		GithubBaseURL:  gh.URL,
		GithubTimeout:  5 * time.Second,
		RequestTimeout: 30 * time.Second,
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	router, err := newRouter(cfg, dbpool, logger)
	require.NoError(t, err)

	api := httptest.NewServer(router)
	t.Cleanup(api.Close)

	post := func(body string) (int, responseJSON) {
		resp, err := http.Post(api.URL+"/api/github/search", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		var out responseJSON
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
		return resp.StatusCode, out
	}
	get := func(query string) (int, responseJSON) {
		resp, err := http.Get(api.URL + "/api/github/repositories" + query)
		require.NoError(t, err)
		defer resp.Body.Close()
		var out responseJSON
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp.StatusCode, out
	}
	createdAt := func(id int64) time.Time {
		var ts time.Time
		require.NoError(t, dbpool.QueryRow(ctx, "SELECT created_at FROM repositories WHERE id = $1", id).Scan(&ts))
		return ts
	}

	// --- first search inserts ---
	status, body := post(`{"query":"spring","language":"Java","sort":"stars"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Repositories fetched and saved successfully", body.Message)
	require.Len(t, body.Repositories, 2)
	assert.Equal(t, int64(123456), body.Repositories[0].ID)
	assert.Equal(t, 1000, body.Repositories[0].Stars)
	assert.Equal(t, "2024-01-02T03:04:05Z", body.Repositories[0].LastUpdated)
	assert.Equal(t, "Unknown", body.Repositories[1].Owner)
	assert.Nil(t, body.Repositories[1].Description)
	firstCreated := createdAt(123456)

	// --- repeated search updates in place ---
	status, body = post(`{"query":"spring","language":"Java"}`)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Repositories, 2)
	assert.Equal(t, 1200, body.Repositories[0].Stars)
	assert.True(t, firstCreated.Equal(createdAt(123456)), "created_at must not change on update")

	var count int
	require.NoError(t, dbpool.QueryRow(ctx, "SELECT COUNT(*) FROM repositories").Scan(&count))
	assert.Equal(t, 2, count)

	// --- listing ---
	status, body = get("?language=java&sort=forks")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Repositories, 2)
	assert.Equal(t, int64(777), body.Repositories[0].ID)

	status, body = get("?minStars=1000")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Repositories, 1)
	assert.Equal(t, 1200, body.Repositories[0].Stars)

	status, body = get("?sort=bogus")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Repositories, 2)
	assert.Equal(t, int64(123456), body.Repositories[0].ID)

	// --- validation ---
	status, _ = post(`{"query":"  "}`)
	assert.Equal(t, http.StatusBadRequest, status)
}
