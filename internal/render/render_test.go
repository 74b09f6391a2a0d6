package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/naka-gawa/top-langs/internal/domain"
	"github.com/naka-gawa/top-langs/internal/testutil/golden"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var sampleTally = domain.LanguageTally{
	"Go":       6000,
	"Python":   2500,
	"Shell":    1000,
	"HTML":     450,
	"Makefile": 50,
}

func TestRank(t *testing.T) {
	testCases := []struct {
		name     string
		tally    domain.LanguageTally
		expected []domain.LanguageStat
	}{
		{
			name:  "orders by bytes descending",
			tally: domain.LanguageTally{"Python": 300, "JavaScript": 500, "HTML": 200},
			expected: []domain.LanguageStat{
				{Name: "JavaScript", Bytes: 500, Percent: 50},
				{Name: "Python", Bytes: 300, Percent: 30},
				{Name: "HTML", Bytes: 200, Percent: 20},
			},
		},
		{
			name:  "ties are broken by name",
			tally: domain.LanguageTally{"Zig": 100, "C": 100, "Lua": 100, "Go": 700},
			expected: []domain.LanguageStat{
				{Name: "Go", Bytes: 700, Percent: 70},
				{Name: "C", Bytes: 100, Percent: 10},
				{Name: "Lua", Bytes: 100, Percent: 10},
				{Name: "Zig", Bytes: 100, Percent: 10},
			},
		},
		{
			name:     "empty tally",
			tally:    domain.LanguageTally{},
			expected: []domain.LanguageStat{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Rank(tc.tally)
			require.Len(t, got, len(tc.expected))
			for i := range tc.expected {
				assert.Equal(t, tc.expected[i].Name, got[i].Name)
				assert.Equal(t, tc.expected[i].Bytes, got[i].Bytes)
				assert.InDelta(t, tc.expected[i].Percent, got[i].Percent, 1e-9)
			}
		})
	}
}

func TestRank_TopKSelectsLargest(t *testing.T) {
	ranked := Rank(sampleTally)
	for k := 1; k <= len(sampleTally); k++ {
		top := Top(ranked, k)
		require.Len(t, top, k)

		smallestKept := top[len(top)-1].Bytes
		for _, dropped := range ranked[k:] {
			assert.LessOrEqual(t, dropped.Bytes, smallestKept)
		}
	}
}

func TestRank_PercentagesSumToHundred(t *testing.T) {
	var total float64
	for _, s := range Rank(sampleTally) {
		total += s.Percent
	}
	assert.InDelta(t, 100.0, total, 1e-9)

	var partial float64
	for _, s := range Top(Rank(sampleTally), 2) {
		partial += s.Percent
	}
	assert.LessOrEqual(t, partial, 100.0)
}

func TestTop(t *testing.T) {
	ranked := Rank(sampleTally)
	assert.Len(t, Top(ranked, 0), 5)
	assert.Len(t, Top(ranked, -1), 5)
	assert.Len(t, Top(ranked, 99), 5)
	assert.Len(t, Top(ranked, 3), 3)
}

func TestRender(t *testing.T) {
	ranked := Rank(sampleTally)
	dir := golden.TestdataDir(t)

	t.Run("list", func(t *testing.T) {
		got, err := Render(Policy{Format: FormatList, TopK: 10}, ranked)
		require.NoError(t, err)
		golden.Assert(t, dir, "list_all", got)
	})

	t.Run("styled", func(t *testing.T) {
		got, err := Render(Policy{Format: FormatStyled, TopK: 6}, ranked)
		require.NoError(t, err)
		golden.Assert(t, dir, "styled_all", got)
	})

	t.Run("table", func(t *testing.T) {
		got, err := Render(Policy{Format: FormatTable, TopK: 3}, ranked)
		require.NoError(t, err)
		assert.Equal(t, "Go | Python | Shell", got)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Render(Policy{Format: "csv"}, ranked)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("deterministic", func(t *testing.T) {
		for _, format := range []Format{FormatList, FormatStyled, FormatTable} {
			first, err := Render(Policy{Format: format, TopK: 4}, Rank(sampleTally))
			require.NoError(t, err)
			second, err := Render(Policy{Format: format, TopK: 4}, Rank(sampleTally))
			require.NoError(t, err)
			assert.Equal(t, first, second)
		}
	})
}

func TestRender_StyledFillTiers(t *testing.T) {
	testCases := []struct {
		percent float64
		color   string
	}{
		{percent: 75, color: "#ffffff"},
		{percent: 50, color: "#ffffff"},
		{percent: 49.99, color: "#e0e0e0"},
		{percent: 10, color: "#e0e0e0"},
		{percent: 9.5, color: "#b0b0b0"},
		{percent: 1, color: "#b0b0b0"},
		{percent: 0.99, color: "#808080"},
		{percent: 0, color: "#808080"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.color, fillColor(tc.percent), "percent %v", tc.percent)
	}
}

func TestRender_ListIsMarkdownList(t *testing.T) {
	const k = 3
	fragment, err := Render(Policy{Format: FormatList, TopK: k}, Rank(sampleTally))
	require.NoError(t, err)

	source := []byte(fragment)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var lists, items int
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindList:
			lists++
		case ast.KindListItem:
			items++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, lists)
	assert.Equal(t, k, items)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	ranked := Rank(domain.LanguageTally{"Python": 300, "JavaScript": 500, "HTML": 200})

	require.NoError(t, Report(&buf, "Top Languages", ranked, 2))

	assert.Equal(t, "Top Languages:\n  JavaScript: 50.00%\n  Python: 30.00%\n", buf.String())
	assert.False(t, strings.Contains(buf.String(), "HTML"))

	buf.Reset()
	require.NoError(t, Report(&buf, "Languages Found", ranked, 0))
	assert.Equal(t, "Languages Found:\n  JavaScript: 50.00%\n  Python: 30.00%\n  HTML: 20.00%\n", buf.String())
}

func TestSummarize(t *testing.T) {
	result := &domain.Result{
		Repositories: []domain.Repository{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}},
		Tally:        domain.LanguageTally{"Go": 600, "Python": 300},
		RepoBytes:    []int64{100, 200, 600},
	}

	summary, err := Summarize(result, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Repositories)
	assert.Equal(t, 3, summary.ContributingRepositories)
	assert.Equal(t, 2, summary.Languages)
	assert.Equal(t, int64(900), summary.TotalBytes)
	assert.InDelta(t, 300.0, summary.MeanRepoBytes, 1e-9)
	assert.InDelta(t, 200.0, summary.MedianRepoBytes, 1e-9)
	require.Len(t, summary.Top, 1)
	assert.Equal(t, "Go", summary.Top[0].Name)
}

func TestSummarize_NoContributions(t *testing.T) {
	summary, err := Summarize(&domain.Result{Tally: domain.LanguageTally{}}, 5)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalBytes)
	assert.Zero(t, summary.MeanRepoBytes)
	assert.Empty(t, summary.Top)
}
