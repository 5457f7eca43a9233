// internal/github/client.go
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	custom_errors "repo-searcher/internal/errors"
	"repo-searcher/internal/metrics"
	"repo-searcher/internal/model"
)

const (
	// Only the first page is ever requested.
	searchPageSize = 30
	searchOrder    = "desc"

	defaultTimeout = 30 * time.Second
)

// Messages returned to API callers for each upstream failure class.
const (
	msgRateLimited  = "GitHub API rate limit exceeded. Please try again later."
	msgRejected     = "Invalid search query. Please check your request parameters."
	msgUnavailable  = "GitHub API is currently unavailable. Please try again later."
	msgNoResponse   = "No response received from GitHub API"
	msgLocalLimited = "Search request budget exhausted. Please try again later."
)

// SearchResult is one page of GitHub search results.
type SearchResult struct {
	Total             int
	IncompleteResults bool
	Items             []*github.Repository
}

// Client is a wrapper around the go-github client for repository search.
type Client struct {
	gh      *github.Client
	logger  *slog.Logger
	timeout time.Duration
	limiter *rate.Limiter
}

type clientOptions struct {
	token      string
	baseURL    string
	timeout    time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*clientOptions)

// WithToken authenticates requests with a personal access token.
func WithToken(token string) Option {
	return func(o *clientOptions) { o.token = token }
}

// WithBaseURL points the client at a different API root, e.g. GitHub Enterprise or a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// WithTimeout bounds every search call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLimiter applies a client-side request budget in front of every search.
func WithLimiter(l *rate.Limiter) Option {
	return func(o *clientOptions) { o.limiter = l }
}

// WithHTTPClient sets the underlying transport client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// NewRateLimiter returns a limiter allowing perHour searches per hour, or nil when perHour <= 0.
func NewRateLimiter(perHour int) *rate.Limiter {
	if perHour <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), perHour)
}

// NewClient creates and configures a new Client instance.
// When a token is provided it is used to create an authenticated http.Client.
func NewClient(logger *slog.Logger, opts ...Option) (*Client, error) {
	o := clientOptions{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if o.token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: o.token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		logger.Warn("Using unauthenticated GitHub client (rate limited)")
	}

	gh := github.NewClient(httpClient)
	if o.baseURL != "" {
		u, err := parseBaseURL(o.baseURL)
		if err != nil {
			return nil, err
		}
		gh.BaseURL = u
	}

	return &Client{
		gh:      gh,
		logger:  logger,
		timeout: o.timeout,
		limiter: o.limiter,
	}, nil
}

// BuildQuery composes the GitHub search string from a free-text term and an optional
// language qualifier. A blank language adds no qualifier.
func BuildQuery(term, language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return term
	}
	return term + " language:" + language
}

// Search issues exactly one bounded search request. Every failure is returned as a
// *custom_errors.ErrUpstream; raw transport errors never escape.
func (c *Client) Search(ctx context.Context, req model.SearchRequest) (*SearchResult, error) {
	query := BuildQuery(req.Term, req.Language)
	logger := c.logger.With("query", query, "sort", req.Sort.String())
	logger.Info("Searching GitHub repositories")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, upstreamErr := c.search(ctx, query, req.Sort)
	metrics.UpstreamSearchDuration.Observe(time.Since(start).Seconds())

	if upstreamErr != nil {
		metrics.UpstreamSearches.WithLabelValues(upstreamErr.Kind.String()).Inc()
		logger.Warn("GitHub search failed", "kind", upstreamErr.Kind.String(), "error", upstreamErr.Err)
		return nil, upstreamErr
	}

	metrics.UpstreamSearches.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logger.Info("Fetched repositories from GitHub", "count", len(result.Items), "total", result.Total, "incomplete", result.IncompleteResults)
	return result, nil
}

func (c *Client) search(ctx context.Context, query string, sort model.SortKey) (*SearchResult, *custom_errors.ErrUpstream) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &custom_errors.ErrUpstream{Kind: custom_errors.UpstreamRateLimited, Message: msgLocalLimited, Err: err}
		}
	}

	opts := &github.SearchOptions{
		Sort:  sort.String(),
		Order: searchOrder,
		ListOptions: github.ListOptions{
			PerPage: searchPageSize,
		},
	}
	res, _, err := c.gh.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, classifyError(err)
	}
	if res == nil || res.Total == nil {
		return nil, &custom_errors.ErrUpstream{Kind: custom_errors.UpstreamUnavailable, Message: msgNoResponse}
	}

	return &SearchResult{
		Total:             res.GetTotal(),
		IncompleteResults: res.GetIncompleteResults(),
		Items:             res.Repositories,
	}, nil
}

// classifyError translates a go-github error into one of the upstream failure classes.
func classifyError(err error) *custom_errors.ErrUpstream {
	var (
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		respErr  *github.ErrorResponse
	)
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return &custom_errors.ErrUpstream{Kind: custom_errors.UpstreamRateLimited, Message: msgRateLimited, Err: err}
	case errors.As(err, &respErr) && respErr.Response != nil:
		switch code := respErr.Response.StatusCode; code {
		case http.StatusForbidden, http.StatusTooManyRequests:
			return &custom_errors.ErrUpstream{Kind: custom_errors.UpstreamRateLimited, Message: msgRateLimited, Err: err}
		case http.StatusUnprocessableEntity:
			return &custom_errors.ErrUpstream{Kind: custom_errors.UpstreamRejectedQuery, Message: msgRejected, Err: err}
		}
	}
	return &custom_errors.ErrUpstream{Kind: custom_errors.UpstreamUnavailable, Message: msgUnavailable, Err: err}
}

// parseBaseURL parses s and guarantees the trailing slash go-github requires.
func parseBaseURL(s string) (*url.URL, error) {
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub base URL %q: %w", s, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid GitHub base URL %q: scheme and host are required", s)
	}
	return u, nil
}
