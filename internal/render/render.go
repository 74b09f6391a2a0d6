// Package render turns a language tally into the fragments written to the
// README and the report printed to the terminal.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/naka-gawa/top-langs/internal/domain"
)

// ErrUnknownFormat is returned by Render for a format it cannot produce.
var ErrUnknownFormat = errors.New("unknown format")

// Format selects the shape of the rendered fragment.
type Format string

const (
	// FormatList renders one markdown bullet per language with its byte count.
	FormatList Format = "list"
	// FormatStyled renders an HTML card grid with a percentage bar per language.
	FormatStyled Format = "styled"
	// FormatTable renders the language names on a single pipe-separated line.
	FormatTable Format = "table"
)

// Policy is the presentation policy of one run.
type Policy struct {
	Format Format
	// TopK is the number of languages kept. Zero or less keeps all of them.
	TopK int
}

// Rank orders the tally by bytes, largest first. Equal counts are ordered by
// language name so the ranking never depends on map iteration order.
// Percentages are computed against the total of the whole tally.
func Rank(tally domain.LanguageTally) []domain.LanguageStat {
	total := tally.Total()
	stats := make([]domain.LanguageStat, 0, len(tally))
	for name, n := range tally {
		stat := domain.LanguageStat{Name: name, Bytes: n}
		if total > 0 {
			stat.Percent = float64(n) / float64(total) * 100
		}
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Bytes != stats[j].Bytes {
			return stats[i].Bytes > stats[j].Bytes
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// Top returns the first k ranked entries.
func Top(stats []domain.LanguageStat, k int) []domain.LanguageStat {
	if k <= 0 || k >= len(stats) {
		return stats
	}
	return stats[:k]
}

// Render produces the fragment for ranked according to p. Output is a pure
// function of its input.
func Render(p Policy, ranked []domain.LanguageStat) (string, error) {
	top := Top(ranked, p.TopK)
	switch p.Format {
	case FormatList:
		return renderList(top), nil
	case FormatStyled:
		return renderStyled(top), nil
	case FormatTable:
		return renderTable(top), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, p.Format)
	}
}

func renderList(stats []domain.LanguageStat) string {
	var b strings.Builder
	for _, s := range stats {
		fmt.Fprintf(&b, "- **%s**: %d bytes\n", s.Name, s.Bytes)
	}
	return b.String()
}

func renderTable(stats []domain.LanguageStat) string {
	names := make([]string, len(stats))
	for i, s := range stats {
		names[i] = s.Name
	}
	return strings.Join(names, " | ")
}

// fillColor picks the bar shade for a percentage.
func fillColor(percent float64) string {
	switch {
	case percent >= 50:
		return "#ffffff"
	case percent >= 10:
		return "#e0e0e0"
	case percent >= 1:
		return "#b0b0b0"
	default:
		return "#808080"
	}
}

func renderStyled(stats []domain.LanguageStat) string {
	var b strings.Builder
	b.WriteString(`<div align="center" style="background:#000000; padding:20px; border-radius:10px; margin:20px 0; max-width:600px; color:#ffffff; text-align:center; font-family:Arial,sans-serif; border:1px solid #333333;">` + "\n")
	b.WriteString(`  <h3 style="color:#ffffff; margin-bottom:20px; font-weight:600;">Top Languages</h3>` + "\n")
	b.WriteString("  \n")
	b.WriteString(`  <div style="display:grid; grid-template-columns:1fr 1fr; gap:15px; max-width:600px; margin:0 auto;">` + "\n")
	for _, s := range stats {
		b.WriteString(`    <div style="background:#111111; padding:15px; border-radius:8px; text-align:left; border:1px solid #333333;">` + "\n")
		fmt.Fprintf(&b, `      <p style="color:#ffffff; margin:0 0 8px 0; font-weight:bold;">%s — %.2f%%</p>`+"\n", s.Name, s.Percent)
		b.WriteString(`      <div style="background:#333333; border-radius:4px; height:8px; width:100%;">` + "\n")
		fmt.Fprintf(&b, `        <div style="background:%s; height:8px; border-radius:4px; width:%.2f%%;"></div>`+"\n", fillColor(s.Percent), s.Percent)
		b.WriteString("      </div>\n")
		b.WriteString("    </div>\n")
	}
	b.WriteString("  </div>\n")
	b.WriteString("</div>\n")
	return b.String()
}
