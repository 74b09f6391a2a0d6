package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/naka-gawa/top-langs/internal/config"
	"github.com/naka-gawa/top-langs/internal/domain"
	"github.com/naka-gawa/top-langs/internal/gateway"
	"github.com/naka-gawa/top-langs/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// getenv is swapped in tests.
var getenv = os.Getenv

// addRunFlags registers the flags shared by every command that talks to GitHub.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("account", "a", "", "GitHub account used as repository owner (required with --scope user)")
	f.String("scope", "", `Repositories to include: "authenticated" (public and private) or "user" (public only)`)
	f.String("api", "", `GitHub API to use: "rest" or "graphql"`)
	f.String("variant", "", `Output preset: "list", "styled" or "table"`)
	f.String("format", "", "Override the preset's format")
	f.Int("top", 0, "Number of languages written to the README")
	f.Int("report-top", 0, "Number of languages printed to standard output")
	f.StringP("readme", "r", "", "Path of the README to update")
	f.String("start-marker", "", "Marker opening the managed section")
	f.String("end-marker", "", "Marker closing the managed section")
	f.Int("concurrency", 0, "Maximum number of concurrent language requests")
	f.Bool("skip-forks", false, "Ignore forked repositories")
	f.Bool("strict", false, "Abort when repository listing fails instead of using the pages fetched so far")
	f.String("token-env", "", "Environment variable holding the GitHub token (default GITHUB_TOKEN, then GH_TOKEN)")
	f.String("base-url", "", "GitHub Enterprise API base URL")
}

// loadConfig merges the config file and the flags that were set explicitly,
// then fills the remaining fields from the variant preset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	cfg := &config.Config{}
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	overrideString(flags, "account", &cfg.Account)
	overrideString(flags, "scope", &cfg.Scope)
	overrideString(flags, "api", &cfg.API)
	overrideString(flags, "variant", &cfg.Variant)
	overrideString(flags, "format", &cfg.Format)
	overrideString(flags, "readme", &cfg.Readme)
	overrideString(flags, "start-marker", &cfg.StartMarker)
	overrideString(flags, "end-marker", &cfg.EndMarker)
	overrideString(flags, "token-env", &cfg.TokenEnv)
	overrideString(flags, "base-url", &cfg.BaseURL)
	overrideInt(flags, "top", &cfg.Top)
	overrideInt(flags, "report-top", &cfg.ReportTop)
	overrideInt(flags, "concurrency", &cfg.Concurrency)
	overrideBool(flags, "skip-forks", &cfg.SkipForks)
	overrideBool(flags, "strict", &cfg.StrictListing)

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

func overrideInt(flags *pflag.FlagSet, name string, dst *int) {
	if flags.Changed(name) {
		*dst, _ = flags.GetInt(name)
	}
}

func overrideBool(flags *pflag.FlagSet, name string, dst *bool) {
	if flags.Changed(name) {
		*dst, _ = flags.GetBool(name)
	}
}

// aggregate runs the listing and language aggregation stages for cfg.
// The credential is resolved before any network call is made.
func aggregate(ctx context.Context, cfg *config.Config, logger *log.Logger) (*domain.Result, error) {
	token, err := cfg.Token(getenv)
	if err != nil {
		return nil, err
	}

	// Inject dependencies and run the main business logic.
	fetcher, err := gateway.New(token, logger, gateway.Options{
		Scope:   cfg.Scope,
		Account: cfg.Account,
		API:     cfg.API,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	aggregator := usecase.NewAggregator(fetcher, logger, usecase.Options{
		Account:       cfg.Account,
		Concurrency:   cfg.Concurrency,
		SkipForks:     cfg.SkipForks,
		StrictListing: cfg.StrictListing,
	})
	return aggregator.Aggregate(ctx)
}
