package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/naka-gawa/top-langs/internal/domain"
	"github.com/naka-gawa/top-langs/internal/render"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregates repository languages and outputs them as JSON",
		Long:  `Aggregates the languages of every repository visible to the token and prints the ranked languages with a repository summary in JSON format. The README is not touched.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			result, err := aggregate(ctx, cfg, logger)
			if err != nil && !errors.Is(err, domain.ErrNoLanguageData) {
				return fmt.Errorf("failed to aggregate languages: %w", err)
			}
			if err != nil {
				logger.Info("No language data found.")
			}

			summary, err := render.Summarize(result, cfg.ReportTop)
			if err != nil {
				return err
			}

			// Marshal the results into a pretty-printed JSON string.
			jsonData, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal results to JSON: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return err
		},
	}

	addRunFlags(cmd)
	return cmd
}
