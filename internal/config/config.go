// Package config holds the run configuration for top-langs and the presets
// that reproduce each README variant.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/naka-gawa/top-langs/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	ScopeAuthenticated = "authenticated"
	ScopeUser          = "user"

	APIREST    = "rest"
	APIGraphQL = "graphql"

	VariantList   = "list"
	VariantStyled = "styled"
	VariantTable  = "table"

	DefaultReadme      = "README.md"
	DefaultConcurrency = 4
	DefaultTokenEnv    = "GITHUB_TOKEN"
	fallbackTokenEnv   = "GH_TOKEN"
)

// Marker pairs owned by the tool.
const (
	LanguagesStartMarker = "<!--LANGUAGES_START-->"
	LanguagesEndMarker   = "<!--LANGUAGES_END-->"
	TopLangsStartMarker  = "<!--START_SECTION:top_langs-->"
	TopLangsEndMarker    = "<!--END_SECTION:top_langs-->"
)

// Config is the full configuration of one run. It is built once and handed
// to each component; nothing reads it from package state.
type Config struct {
	Account       string `toml:"account" yaml:"account"`
	Scope         string `toml:"scope" yaml:"scope"`
	API           string `toml:"api" yaml:"api"`
	Variant       string `toml:"variant" yaml:"variant"`
	Format        string `toml:"format" yaml:"format"`
	Top           int    `toml:"top" yaml:"top"`
	ReportTop     int    `toml:"report_top" yaml:"report_top"`
	Readme        string `toml:"readme" yaml:"readme"`
	StartMarker   string `toml:"start_marker" yaml:"start_marker"`
	EndMarker     string `toml:"end_marker" yaml:"end_marker"`
	Concurrency   int    `toml:"concurrency" yaml:"concurrency"`
	SkipForks     bool   `toml:"skip_forks" yaml:"skip_forks"`
	StrictListing bool   `toml:"strict_listing" yaml:"strict_listing"`
	TokenEnv      string `toml:"token_env" yaml:"token_env"`
	BaseURL       string `toml:"base_url" yaml:"base_url"`
}

// Preset is the presentation policy of one README variant.
type Preset struct {
	Format      string
	Top         int
	ReportTop   int
	StartMarker string
	EndMarker   string
}

var presets = map[string]Preset{
	VariantList: {
		Format:      VariantList,
		Top:         10,
		ReportTop:   10,
		StartMarker: LanguagesStartMarker,
		EndMarker:   LanguagesEndMarker,
	},
	VariantStyled: {
		Format:      VariantStyled,
		Top:         6,
		ReportTop:   8,
		StartMarker: TopLangsStartMarker,
		EndMarker:   TopLangsEndMarker,
	},
	VariantTable: {
		Format:      VariantTable,
		Top:         5,
		ReportTop:   5,
		StartMarker: LanguagesStartMarker,
		EndMarker:   LanguagesEndMarker,
	},
}

// PresetFor returns the preset registered for variant.
func PresetFor(variant string) (Preset, bool) {
	p, ok := presets[variant]
	return p, ok
}

// Load reads a configuration file. The decoder is chosen by extension:
// .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode YAML config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config extension %q", ErrInvalidConfig, ext)
	}
	return &cfg, nil
}

// ApplyDefaults fills every unset field, first from the variant preset and
// then from the global defaults. Fields that are already set win.
func (c *Config) ApplyDefaults() {
	if c.Variant == "" {
		c.Variant = VariantStyled
	}
	if p, ok := presets[c.Variant]; ok {
		if c.Format == "" {
			c.Format = p.Format
		}
		if c.Top == 0 {
			c.Top = p.Top
		}
		if c.ReportTop == 0 {
			c.ReportTop = p.ReportTop
		}
		if c.StartMarker == "" && c.EndMarker == "" {
			c.StartMarker, c.EndMarker = p.StartMarker, p.EndMarker
		}
	}
	if c.Scope == "" {
		c.Scope = ScopeAuthenticated
	}
	if c.API == "" {
		c.API = APIREST
	}
	if c.Readme == "" {
		c.Readme = DefaultReadme
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, ok := presets[c.Variant]; !ok {
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, c.Variant)
	}
	switch c.Format {
	case VariantList, VariantStyled, VariantTable:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	switch c.Scope {
	case ScopeAuthenticated:
	case ScopeUser:
		if c.Account == "" {
			return fmt.Errorf("%w: scope %q requires an account", ErrInvalidConfig, c.Scope)
		}
	default:
		return fmt.Errorf("%w: unknown scope %q", ErrInvalidConfig, c.Scope)
	}
	switch c.API {
	case APIREST, APIGraphQL:
	default:
		return fmt.Errorf("%w: unknown api %q", ErrInvalidConfig, c.API)
	}
	if c.StartMarker == "" || c.EndMarker == "" {
		return fmt.Errorf("%w: start and end markers must both be set", ErrInvalidConfig)
	}
	if c.StartMarker == c.EndMarker {
		return fmt.Errorf("%w: start and end markers must differ", ErrInvalidConfig)
	}
	if c.Top < 0 || c.ReportTop < 0 {
		return fmt.Errorf("%w: top counts must not be negative", ErrInvalidConfig)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// Token returns the bearer credential from the environment. When TokenEnv is
// empty both GITHUB_TOKEN and GH_TOKEN are tried.
func (c *Config) Token(getenv func(string) string) (string, error) {
	names := []string{DefaultTokenEnv, fallbackTokenEnv}
	if c.TokenEnv != "" {
		names = []string{c.TokenEnv}
	}
	for _, name := range names {
		if token := getenv(name); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("%w: please set the %s environment variable", domain.ErrMissingToken, strings.Join(names, " or "))
}
