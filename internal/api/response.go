// internal/api/response.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	custom_errors "repo-searcher/internal/errors"
	"repo-searcher/internal/model"
)

const (
	lastUpdatedLayout = "2006-01-02T15:04:05Z"

	msgValidationFailed = "Validation failed"
	msgUnexpected       = "An unexpected error occurred. Please try again later."
)

type repositoryDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Owner       string  `json:"owner"`
	Language    *string `json:"language"`
	Stars       int     `json:"stars"`
	Forks       int     `json:"forks"`
	LastUpdated string  `json:"lastUpdated"`
}

type searchResponse struct {
	Message      string          `json:"message"`
	Repositories []repositoryDTO `json:"repositories"`
}

type repositoriesResponse struct {
	Repositories []repositoryDTO `json:"repositories"`
}

// errorResponse is the envelope for every failed request.
type errorResponse struct {
	Message string            `json:"message"`
	Data    any               `json:"data"`
	Success bool              `json:"success"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func toRepositoryDTO(r model.Repository) repositoryDTO {
	return repositoryDTO{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Owner:       r.Owner,
		Language:    r.Language,
		Stars:       r.Stars,
		Forks:       r.Forks,
		LastUpdated: formatTimestamp(r.LastUpdated),
	}
}

func toRepositoryDTOs(repos []model.Repository) []repositoryDTO {
	out := make([]repositoryDTO, len(repos))
	for i, r := range repos {
		out[i] = toRepositoryDTO(r)
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(lastUpdatedLayout)
}

// respondWithFailure maps err onto a status code and the error envelope.
// Unexpected errors are logged in full and never echoed to the caller.
func (h *Handler) respondWithFailure(w http.ResponseWriter, r *http.Request, err error) {
	logger := h.logger.With("request_id", middleware.GetReqID(r.Context()), "error", err)

	var verr *custom_errors.ErrValidation
	var uerr *custom_errors.ErrUpstream
	switch {
	case errors.As(err, &verr):
		logger.Warn("Validation error", "fields", verr.Fields)
		respondWithJSON(w, http.StatusBadRequest, errorResponse{
			Message: msgValidationFailed,
			Errors:  verr.Fields,
		})
	case errors.As(err, &uerr):
		logger.Error("GitHub API error", "kind", uerr.Kind.String())
		respondWithError(w, upstreamStatus(uerr.Kind), uerr.Message)
	default:
		logger.Error("Unexpected error occurred")
		respondWithError(w, http.StatusInternalServerError, msgUnexpected)
	}
}

func upstreamStatus(kind custom_errors.UpstreamKind) int {
	switch kind {
	case custom_errors.UpstreamRateLimited:
		return http.StatusTooManyRequests
	case custom_errors.UpstreamRejectedQuery:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Message: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
