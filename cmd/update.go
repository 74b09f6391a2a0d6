package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/naka-gawa/top-langs/internal/domain"
	"github.com/naka-gawa/top-langs/internal/readme"
	"github.com/naka-gawa/top-langs/internal/render"
	"github.com/spf13/cobra"
)

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rewrites the top languages section of a README",
		Long: `Aggregates the languages of every repository visible to the token, renders
the top languages with the selected variant, and replaces the content between
the section markers of the README. When the markers are missing the section is
appended to the end of the document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.Readme); err != nil {
				return fmt.Errorf("failed to access README: %w", err)
			}

			result, err := aggregate(ctx, cfg, logger)
			if errors.Is(err, domain.ErrNoLanguageData) {
				logger.Info("No language data found, README left untouched.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to aggregate languages: %w", err)
			}

			ranked := render.Rank(result.Tally)
			fragment, err := render.Render(render.Policy{Format: render.Format(cfg.Format), TopK: cfg.Top}, ranked)
			if err != nil {
				return fmt.Errorf("failed to render summary: %w", err)
			}

			// The dry-run preview owns stdout, so reports move to stderr.
			out := cmd.OutOrStdout()
			if dryRun {
				out = cmd.ErrOrStderr()
			}
			if err := render.Report(out, "Languages Found", ranked, cfg.ReportTop); err != nil {
				return err
			}

			logger.Info("[3/3] Updating README...", "path", cfg.Readme)
			if dryRun {
				content, err := readme.Preview(cfg.Readme, cfg.StartMarker, cfg.EndMarker, fragment)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprint(cmd.OutOrStdout(), content); err != nil {
					return err
				}
			} else {
				changed, err := readme.Update(cfg.Readme, cfg.StartMarker, cfg.EndMarker, fragment)
				if err != nil {
					return fmt.Errorf("failed to update README: %w", err)
				}
				if changed {
					logger.Info("README updated successfully!")
				} else {
					logger.Info("README already up to date.")
				}
			}
			return render.Report(out, "Top Languages", ranked, cfg.Top)
		},
	}

	addRunFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Print the updated README instead of writing it")
	return cmd
}
