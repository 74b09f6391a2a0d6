package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/top-langs/internal/domain"
)

// Report writes a titled list of the top k languages with their share to w.
// Styling is dropped automatically when w is not a terminal.
func Report(w io.Writer, heading string, ranked []domain.LanguageStat, k int) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)
	name := r.NewStyle().Foreground(lipgloss.Color("12"))
	percent := r.NewStyle().Faint(true)

	if _, err := fmt.Fprintln(w, title.Render(heading+":")); err != nil {
		return err
	}
	for _, s := range Top(ranked, k) {
		line := fmt.Sprintf("  %s: %s", name.Render(s.Name), percent.Render(fmt.Sprintf("%.2f%%", s.Percent)))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Summary describes a finished aggregation.
type Summary struct {
	Repositories             int                   `json:"repositories"`
	ContributingRepositories int                   `json:"contributing_repositories"`
	Languages                int                   `json:"languages"`
	TotalBytes               int64                 `json:"total_bytes"`
	MeanRepoBytes            float64               `json:"mean_repo_bytes"`
	MedianRepoBytes          float64               `json:"median_repo_bytes"`
	Top                      []domain.LanguageStat `json:"top"`
}

// Summarize builds the summary of result with the top k ranked languages.
func Summarize(result *domain.Result, k int) (*Summary, error) {
	ranked := Rank(result.Tally)
	summary := &Summary{
		Repositories:             len(result.Repositories),
		ContributingRepositories: len(result.RepoBytes),
		Languages:                len(ranked),
		TotalBytes:               result.Tally.Total(),
		Top:                      Top(ranked, k),
	}
	if len(result.RepoBytes) == 0 {
		return summary, nil
	}

	data := make(stats.Float64Data, len(result.RepoBytes))
	for i, n := range result.RepoBytes {
		data[i] = float64(n)
	}
	mean, err := data.Mean()
	if err != nil {
		return nil, fmt.Errorf("failed to compute mean repository size: %w", err)
	}
	median, err := data.Median()
	if err != nil {
		return nil, fmt.Errorf("failed to compute median repository size: %w", err)
	}
	summary.MeanRepoBytes = mean
	summary.MedianRepoBytes = median
	return summary, nil
}
