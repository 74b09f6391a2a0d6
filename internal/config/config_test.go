package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/naka-gawa/top-langs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name        string
		file        string
		content     string
		expected    *Config
		expectError bool
	}{
		{
			name: "toml file",
			file: "top-langs.toml",
			content: `account = "octocat"
variant = "list"
top = 3
skip_forks = true
`,
			expected: &Config{Account: "octocat", Variant: "list", Top: 3, SkipForks: true},
		},
		{
			name: "yaml file",
			file: "top-langs.yaml",
			content: `account: octocat
scope: user
concurrency: 2
start_marker: "<!--S-->"
end_marker: "<!--E-->"
`,
			expected: &Config{Account: "octocat", Scope: "user", Concurrency: 2, StartMarker: "<!--S-->", EndMarker: "<!--E-->"},
		},
		{
			name:        "unsupported extension",
			file:        "top-langs.ini",
			content:     "account=octocat",
			expectError: true,
		},
		{
			name:        "malformed toml",
			file:        "broken.toml",
			content:     "account = ",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, tc.file, tc.content)
			cfg, err := Load(path)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	t.Run("styled preset is the default", func(t *testing.T) {
		cfg := &Config{}
		cfg.ApplyDefaults()
		assert.Equal(t, VariantStyled, cfg.Variant)
		assert.Equal(t, VariantStyled, cfg.Format)
		assert.Equal(t, 6, cfg.Top)
		assert.Equal(t, 8, cfg.ReportTop)
		assert.Equal(t, TopLangsStartMarker, cfg.StartMarker)
		assert.Equal(t, TopLangsEndMarker, cfg.EndMarker)
		assert.Equal(t, ScopeAuthenticated, cfg.Scope)
		assert.Equal(t, APIREST, cfg.API)
		assert.Equal(t, DefaultReadme, cfg.Readme)
		assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("explicit values override the preset", func(t *testing.T) {
		cfg := &Config{Variant: VariantTable, Top: 2, StartMarker: "<!--S-->", EndMarker: "<!--E-->"}
		cfg.ApplyDefaults()
		assert.Equal(t, VariantTable, cfg.Format)
		assert.Equal(t, 2, cfg.Top)
		assert.Equal(t, 5, cfg.ReportTop)
		assert.Equal(t, "<!--S-->", cfg.StartMarker)
		assert.Equal(t, "<!--E-->", cfg.EndMarker)
	})

	t.Run("list preset", func(t *testing.T) {
		cfg := &Config{Variant: VariantList}
		cfg.ApplyDefaults()
		assert.Equal(t, 10, cfg.Top)
		assert.Equal(t, LanguagesStartMarker, cfg.StartMarker)
	})
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(c *Config)
	}{
		{name: "unknown variant", modify: func(c *Config) { c.Variant = "fancy" }},
		{name: "unknown format", modify: func(c *Config) { c.Format = "csv" }},
		{name: "unknown scope", modify: func(c *Config) { c.Scope = "org" }},
		{name: "user scope without account", modify: func(c *Config) { c.Scope = ScopeUser; c.Account = "" }},
		{name: "unknown api", modify: func(c *Config) { c.API = "soap" }},
		{name: "equal markers", modify: func(c *Config) { c.EndMarker = c.StartMarker }},
		{name: "missing end marker", modify: func(c *Config) { c.EndMarker = "" }},
		{name: "negative top", modify: func(c *Config) { c.Top = -1 }},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Account: "octocat"}
			cfg.ApplyDefaults()
			tc.modify(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfig_Token(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(key string) string { return vars[key] }
	}

	t.Run("GITHUB_TOKEN wins", func(t *testing.T) {
		token, err := (&Config{}).Token(env(map[string]string{"GITHUB_TOKEN": "a", "GH_TOKEN": "b"}))
		require.NoError(t, err)
		assert.Equal(t, "a", token)
	})

	t.Run("GH_TOKEN fallback", func(t *testing.T) {
		token, err := (&Config{}).Token(env(map[string]string{"GH_TOKEN": "b"}))
		require.NoError(t, err)
		assert.Equal(t, "b", token)
	})

	t.Run("custom variable only", func(t *testing.T) {
		_, err := (&Config{TokenEnv: "MY_TOKEN"}).Token(env(map[string]string{"GITHUB_TOKEN": "a"}))
		assert.ErrorIs(t, err, domain.ErrMissingToken)
		assert.Contains(t, err.Error(), "MY_TOKEN")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := (&Config{}).Token(env(nil))
		assert.ErrorIs(t, err, domain.ErrMissingToken)
		assert.Contains(t, err.Error(), "GITHUB_TOKEN or GH_TOKEN")
	})
}
