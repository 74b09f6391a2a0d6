package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/naka-gawa/top-langs/internal/domain"
	"github.com/shurcooL/githubv4"
)

// repositoryNode is the per-repository selection shared by both listing queries.
// Languages are fetched in the same query, so no second round trip is needed.
type repositoryNode struct {
	Name      string
	IsPrivate bool
	IsFork    bool
	Owner     struct {
		Login string
	}
	Languages struct {
		Edges []struct {
			Size int
			Node struct {
				Name string
			}
		}
	} `graphql:"languages(first: 100)"`
}

type repositoryConnection struct {
	PageInfo struct {
		HasNextPage bool
		EndCursor   githubv4.String
	}
	Nodes []repositoryNode
}

// viewerRepositoriesQuery lists what the token owner can see, private included.
type viewerRepositoriesQuery struct {
	Viewer struct {
		Repositories repositoryConnection `graphql:"repositories(first: 100, after: $cursor, ownerAffiliations: [OWNER, COLLABORATOR, ORGANIZATION_MEMBER])"`
	}
}

// userRepositoriesQuery lists the public repositories of a single account.
type userRepositoriesQuery struct {
	User struct {
		Repositories repositoryConnection `graphql:"repositories(first: 100, after: $cursor, privacy: PUBLIC)"`
	} `graphql:"user(login: $login)"`
}

// GraphQLGateway implements Fetcher on top of the GitHub GraphQL API.
// Language breakdowns are captured during listing and served from memory.
type GraphQLGateway struct {
	graphqlClient *githubv4.Client
	logger        *log.Logger
	opts          Options

	mu        sync.RWMutex
	languages map[string]map[string]int
}

func newGraphQLGateway(httpClient *http.Client, logger *log.Logger, opts Options) *GraphQLGateway {
	client := githubv4.NewClient(httpClient)
	if opts.BaseURL != "" {
		client = githubv4.NewEnterpriseClient(strings.TrimSuffix(opts.BaseURL, "/")+"/graphql", httpClient)
	}
	return &GraphQLGateway{
		graphqlClient: client,
		logger:        logger,
		opts:          opts,
		languages:     make(map[string]map[string]int),
	}
}

func (g *GraphQLGateway) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	g.logger.Info("[1/3] Fetching repositories using GraphQL API...", "scope", g.opts.Scope)
	variables := map[string]interface{}{"cursor": (*githubv4.String)(nil)}
	if g.opts.Scope == "user" {
		variables["login"] = githubv4.String(g.opts.Account)
	}

	var repos []domain.Repository
	for {
		conn, err := g.queryPage(ctx, variables)
		if err != nil {
			return repos, fmt.Errorf("failed to execute GraphQL query for repositories: %w", err)
		}
		for _, node := range conn.Nodes {
			repos = append(repos, g.remember(node))
		}
		if !conn.PageInfo.HasNextPage || len(conn.Nodes) == 0 {
			break
		}
		variables["cursor"] = githubv4.NewString(conn.PageInfo.EndCursor)
		g.logger.Debug("  Fetching next page of repositories...")
	}
	g.logger.Infof("Found %d repositories.", len(repos))
	return repos, nil
}

func (g *GraphQLGateway) queryPage(ctx context.Context, variables map[string]interface{}) (repositoryConnection, error) {
	if g.opts.Scope == "user" {
		var q userRepositoriesQuery
		err := g.graphqlClient.Query(ctx, &q, variables)
		return q.User.Repositories, err
	}
	var q viewerRepositoriesQuery
	err := g.graphqlClient.Query(ctx, &q, variables)
	return q.Viewer.Repositories, err
}

func (g *GraphQLGateway) remember(node repositoryNode) domain.Repository {
	langs := make(map[string]int, len(node.Languages.Edges))
	for _, edge := range node.Languages.Edges {
		langs[edge.Node.Name] += edge.Size
	}
	g.mu.Lock()
	g.languages[node.Owner.Login+"/"+node.Name] = langs
	g.mu.Unlock()
	return domain.Repository{
		Name:    node.Name,
		Owner:   node.Owner.Login,
		Private: node.IsPrivate,
		Fork:    node.IsFork,
	}
}

// FetchLanguages returns the breakdown captured by ListRepositories.
func (g *GraphQLGateway) FetchLanguages(_ context.Context, owner, repo string) (map[string]int, error) {
	g.mu.RLock()
	langs, ok := g.languages[owner+"/"+repo]
	g.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("failed to fetch languages for %s/%s: repository was not listed", owner, repo)
	}
	return langs, nil
}
