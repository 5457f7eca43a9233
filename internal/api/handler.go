// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	custom_errors "repo-searcher/internal/errors"
	"repo-searcher/internal/model"
)

const (
	maxBodyBytes = 1 << 20

	msgSearchSaved = "Repositories fetched and saved successfully"
	msgSearchEmpty = "No repositories found for the given criteria"

	msgQueryRequired = "Query is required"
	msgSortInvalid   = "Sort must be one of: stars, forks, updated"
	msgMinStarsInt   = "minStars must be an integer"
	msgBodyInvalid   = "Request body must be a valid JSON object"
)

// RepositorySyncer runs a search and reconciles the results into the store.
type RepositorySyncer interface {
	SearchAndSync(ctx context.Context, req model.SearchRequest) ([]model.Repository, error)
}

// RepositoryLister lists stored repositories.
type RepositoryLister interface {
	List(ctx context.Context, language *string, minStars *int, sort string) ([]model.Repository, error)
}

// Handler is the container for API dependencies.
type Handler struct {
	syncer RepositorySyncer
	lister RepositoryLister
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(syncer RepositorySyncer, lister RepositoryLister, logger *slog.Logger, requestTimeout time.Duration) http.Handler {
	h := &Handler{
		syncer: syncer,
		lister: lister,
		logger: logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Route("/api/github", func(r chi.Router) {
		r.With(instrument("/api/github/search")).Post("/search", h.searchRepositories)
		r.With(instrument("/api/github/repositories")).Get("/repositories", h.getRepositories)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type searchRequest struct {
	Query    string  `json:"query"`
	Language string  `json:"language"`
	Sort     *string `json:"sort"`
}

// toModel validates the body. An absent sort defaults to stars; a present one must match exactly.
func (s searchRequest) toModel() (model.SearchRequest, error) {
	verr := &custom_errors.ErrValidation{}
	if strings.TrimSpace(s.Query) == "" {
		verr.Add("query", msgQueryRequired)
	}

	sortKey := model.SortStars
	if s.Sort != nil {
		key, ok := model.ParseSortKey(*s.Sort)
		if !ok {
			verr.Add("sort", msgSortInvalid)
		}
		sortKey = key
	}

	if err := verr.OrNil(); err != nil {
		return model.SearchRequest{}, err
	}
	return model.SearchRequest{Term: s.Query, Language: s.Language, Sort: sortKey}, nil
}

// searchRepositories searches GitHub and stores the results.
// POST /api/github/search
func (h *Handler) searchRepositories(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := decodeJSON(w, r, &body); err != nil {
		h.respondWithFailure(w, r, err)
		return
	}

	req, err := body.toModel()
	if err != nil {
		h.respondWithFailure(w, r, err)
		return
	}
	h.logger.Info("Received search request", "query", req.Term, "language", req.Language, "sort", req.Sort.String())

	repos, err := h.syncer.SearchAndSync(r.Context(), req)
	if err != nil {
		h.respondWithFailure(w, r, err)
		return
	}

	message := msgSearchSaved
	if len(repos) == 0 {
		message = msgSearchEmpty
	}
	respondWithJSON(w, http.StatusOK, searchResponse{
		Message:      message,
		Repositories: toRepositoryDTOs(repos),
	})
}

// getRepositories lists stored repositories.
// GET /api/github/repositories?language=&minStars=&sort=stars
func (h *Handler) getRepositories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var language *string
	if q.Has("language") {
		v := q.Get("language")
		language = &v
	}

	var minStars *int
	if q.Has("minStars") {
		n, err := strconv.Atoi(strings.TrimSpace(q.Get("minStars")))
		if err != nil {
			verr := &custom_errors.ErrValidation{}
			verr.Add("minStars", msgMinStarsInt)
			h.respondWithFailure(w, r, verr)
			return
		}
		minStars = &n
	}

	sort := "stars"
	if q.Has("sort") {
		sort = q.Get("sort")
	}

	repos, err := h.lister.List(r.Context(), language, minStars, sort)
	if err != nil {
		h.respondWithFailure(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, repositoriesResponse{Repositories: toRepositoryDTOs(repos)})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		verr := &custom_errors.ErrValidation{}
		verr.Add("body", msgBodyInvalid)
		if errors.Is(err, io.EOF) {
			return verr
		}
		return errors.Join(verr, err)
	}
	return nil
}
