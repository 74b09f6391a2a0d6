// Package domain contains the core data structures and domain logic for the application.
package domain

import "errors"

var (
	// ErrMissingToken is returned when no GitHub credential is found in the environment.
	ErrMissingToken = errors.New("GitHub token is not set")

	// ErrNoLanguageData is returned when no repository reported any language bytes.
	ErrNoLanguageData = errors.New("no language data found")
)

// Repository is a repository record returned by the listing endpoint.
// Only the fields needed to request its language breakdown are kept.
type Repository struct {
	Name    string `json:"name"`
	Owner   string `json:"owner"`
	Private bool   `json:"private"`
	Fork    bool   `json:"fork"`
}

// LanguageTally maps a language name to the bytes accumulated across repositories.
type LanguageTally map[string]int64

// Add sums a single repository's language breakdown into the tally.
// Negative counts are ignored.
func (t LanguageTally) Add(langs map[string]int) {
	for name, n := range langs {
		if n < 0 {
			continue
		}
		t[name] += int64(n)
	}
}

// Total returns the byte count across all languages.
func (t LanguageTally) Total() int64 {
	var total int64
	for _, n := range t {
		total += n
	}
	return total
}

// LanguageStat is one ranked entry of the tally.
type LanguageStat struct {
	Name    string  `json:"name"`
	Bytes   int64   `json:"bytes"`
	Percent float64 `json:"percent"`
}

// Result is the outcome of a single aggregation run.
type Result struct {
	Repositories []Repository  `json:"repositories"`
	Tally        LanguageTally `json:"tally"`
	// RepoBytes holds the total bytes of each repository that contributed
	// language data, in listing order.
	RepoBytes []int64 `json:"repo_bytes"`
}
