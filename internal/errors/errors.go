// internal/errors/errors.go
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// UpstreamKind classifies a failed call to the GitHub API.
type UpstreamKind int

const (
	// UpstreamRateLimited means the request quota is exhausted; retry later.
	UpstreamRateLimited UpstreamKind = iota + 1
	// UpstreamRejectedQuery means GitHub could not process the search term.
	UpstreamRejectedQuery
	// UpstreamUnavailable covers server failures, timeouts, transport errors and empty bodies.
	UpstreamUnavailable
)

func (k UpstreamKind) String() string {
	switch k {
	case UpstreamRateLimited:
		return "rate_limited"
	case UpstreamRejectedQuery:
		return "rejected_query"
	case UpstreamUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ErrUpstream is the only error the search client returns. Message is safe to show to API callers.
type ErrUpstream struct {
	Kind    UpstreamKind
	Message string
	Err     error
}

func (e *ErrUpstream) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("github %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("github %s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}

// ErrValidation is returned when request fields fail validation. Fields maps every
// offending field to its message.
type ErrValidation struct {
	Fields map[string]string
}

func (e *ErrValidation) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field, keeping the first message reported for it.
func (e *ErrValidation) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// OrNil returns e when at least one field failed, nil otherwise.
func (e *ErrValidation) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
