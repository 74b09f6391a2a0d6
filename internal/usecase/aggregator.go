// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/naka-gawa/top-langs/internal/domain"
	"github.com/naka-gawa/top-langs/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// Options tunes a single aggregation run.
type Options struct {
	// Account is used as the owner for repositories whose record has none.
	Account string
	// Concurrency bounds the number of in-flight language requests.
	Concurrency int
	SkipForks   bool
	// StrictListing aborts the run when listing fails instead of
	// continuing with the repositories collected so far.
	StrictListing bool
}

// Aggregator is the use case for building the language tally.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	opts    Options
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger, opts Options) *Aggregator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
		opts:    opts,
	}
}

// Aggregate lists repositories, fetches each one's language breakdown and
// sums them into a single tally. A repository whose breakdown cannot be
// fetched contributes nothing. An empty tally yields domain.ErrNoLanguageData.
func (a *Aggregator) Aggregate(ctx context.Context) (*domain.Result, error) {
	a.logger.Debug("Usecase: Starting language aggregation...")

	repos, err := a.fetcher.ListRepositories(ctx)
	if err != nil {
		if a.opts.StrictListing {
			return nil, fmt.Errorf("failed to list repositories: %w", err)
		}
		a.logger.Warn("Listing stopped early, continuing with collected repositories", "count", len(repos), "err", err)
	}
	repos = a.filter(repos)

	a.logger.Infof("[2/3] Fetching languages for %d repositories...", len(repos))
	breakdowns, err := a.fetchAll(ctx, repos)
	if err != nil {
		return nil, err
	}

	// Sum in listing order so the result does not depend on scheduling.
	result := &domain.Result{
		Repositories: repos,
		Tally:        make(domain.LanguageTally),
	}
	for _, langs := range breakdowns {
		if len(langs) == 0 {
			continue
		}
		before := result.Tally.Total()
		result.Tally.Add(langs)
		if added := result.Tally.Total() - before; added > 0 {
			result.RepoBytes = append(result.RepoBytes, added)
		}
	}

	if len(result.Tally) == 0 {
		return result, domain.ErrNoLanguageData
	}
	a.logger.Debug("Usecase: Aggregation complete.", "languages", len(result.Tally))
	return result, nil
}

func (a *Aggregator) filter(repos []domain.Repository) []domain.Repository {
	if !a.opts.SkipForks {
		return repos
	}
	kept := make([]domain.Repository, 0, len(repos))
	for _, r := range repos {
		if r.Fork {
			a.logger.Debug("  Skipping fork", "repo", r.Name)
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// fetchAll requests every breakdown through a bounded pool. Slot i of the
// returned slice belongs to repos[i]; failed repositories leave it nil.
func (a *Aggregator) fetchAll(ctx context.Context, repos []domain.Repository) ([]map[string]int, error) {
	breakdowns := make([]map[string]int, len(repos))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.opts.Concurrency)
	for i, repo := range repos {
		owner := repo.Owner
		if owner == "" {
			owner = a.opts.Account
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			langs, err := a.fetcher.FetchLanguages(egCtx, owner, repo.Name)
			if err != nil {
				a.logger.Debug("  Skipping repository", "repo", owner+"/"+repo.Name, "err", err)
				return nil
			}
			breakdowns[i] = langs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch languages: %w", err)
	}
	return breakdowns, nil
}
