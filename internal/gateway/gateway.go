// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/naka-gawa/top-langs/internal/domain"
	"golang.org/x/oauth2"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// ListRepositories returns every repository visible for the configured
	// scope. On a failed page it returns the repositories collected so far
	// together with the error.
	ListRepositories(ctx context.Context) ([]domain.Repository, error)
	FetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
}

// Options selects which repositories are listed and where the API lives.
type Options struct {
	// Scope is "authenticated" (public and private repositories of the
	// token owner) or "user" (public repositories of Account).
	Scope   string
	Account string
	// API is "rest" or "graphql".
	API string
	// BaseURL points at a GitHub Enterprise API root. Empty means github.com.
	BaseURL string
}

// New creates the Fetcher selected by opts.API.
func New(token string, logger *log.Logger, opts Options) (Fetcher, error) {
	httpClient, err := newHTTPClient(token)
	if err != nil {
		return nil, err
	}
	switch opts.API {
	case "", "rest":
		gateway, err := newRESTGateway(httpClient, logger, opts)
		if err != nil {
			return nil, err
		}
		return gateway, nil
	case "graphql":
		return newGraphQLGateway(httpClient, logger, opts), nil
	default:
		return nil, fmt.Errorf("unknown api %q", opts.API)
	}
}

// newHTTPClient layers the bearer token over a secondary rate limit waiter.
func newHTTPClient(token string) (*http.Client, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}, nil
}
