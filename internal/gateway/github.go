package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/top-langs/internal/domain"
)

// reposPerPage is the page size used for repository listing.
const reposPerPage = 100

// GitHubGateway is the REST implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
	opts       Options
}

func newRESTGateway(httpClient *http.Client, logger *log.Logger, opts Options) (*GitHubGateway, error) {
	client := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		base := strings.TrimSuffix(opts.BaseURL, "/") + "/"
		var err error
		client, err = client.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub base URL: %w", err)
		}
	}
	return &GitHubGateway{
		restClient: client,
		logger:     logger,
		opts:       opts,
	}, nil
}

// ListRepositories requests page after page until an empty page comes back.
// A failing page ends the listing; what was collected before it is returned.
func (g *GitHubGateway) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	g.logger.Info("[1/3] Fetching repositories using REST API...", "scope", g.opts.Scope)
	var repos []domain.Repository
	for page := 1; ; page++ {
		pageRepos, err := g.listPage(ctx, page)
		if err != nil {
			return repos, fmt.Errorf("failed to list repositories (page %d): %w", page, err)
		}
		if len(pageRepos) == 0 {
			break
		}
		for _, r := range pageRepos {
			repos = append(repos, domain.Repository{
				Name:    r.GetName(),
				Owner:   r.GetOwner().GetLogin(),
				Private: r.GetPrivate(),
				Fork:    r.GetFork(),
			})
		}
		g.logger.Debug("  Fetched page of repositories", "page", page, "count", len(pageRepos))
	}
	g.logger.Infof("Found %d repositories.", len(repos))
	return repos, nil
}

func (g *GitHubGateway) listPage(ctx context.Context, page int) ([]*github.Repository, error) {
	listOpts := github.ListOptions{Page: page, PerPage: reposPerPage}
	if g.opts.Scope == "user" {
		repos, _, err := g.restClient.Repositories.ListByUser(ctx, g.opts.Account, &github.RepositoryListByUserOptions{
			Type:        "all",
			ListOptions: listOpts,
		})
		return repos, err
	}
	repos, _, err := g.restClient.Repositories.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
		Type:        "all",
		ListOptions: listOpts,
	})
	return repos, err
}

// FetchLanguages returns the language breakdown (bytes per language) of one repository.
func (g *GitHubGateway) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	langs, _, err := g.restClient.Repositories.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch languages for %s/%s: %w", owner, repo, err)
	}
	return langs, nil
}
