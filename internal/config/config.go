// changelog-gen - Keep a Changelog parser, formatter and release manager
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/changelog-gen

// Package config provides hierarchical configuration management for changelog-gen using koanf.
// Configuration is loaded with priority: environment variables > project config (.changelog-gen/config.yml)
// > user config (~/.config/changelog-gen/config.yml) > defaults. The project config may also be the
// legacy .changelog-gen/config.json, which triggers a migration warning.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	"github.com/ariel-frischer/changelog-gen/internal/commitparse"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CHANGELOG_GEN_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// MergeDevVersions controls whether prereleases of a version are folded
// into it on release.
type MergeDevVersions string

const (
	// MergeAuto merges when the released version is not a prerelease.
	MergeAuto MergeDevVersions = "auto"
	// MergeYes behaves like MergeAuto; prereleases are never merged into
	// another prerelease.
	MergeYes MergeDevVersions = "yes"
	MergeNo  MergeDevVersions = "no"
)

// Enabled reports whether dev versions are merged at all.
func (m MergeDevVersions) Enabled() bool {
	return m != MergeNo
}

// Configuration represents the changelog-gen configuration
type Configuration struct {
	// File is the changelog path, relative to the working directory.
	File string `koanf:"file" yaml:"file"`

	// Provider selects the code-hosting provider: github | none.
	Provider string `koanf:"provider" yaml:"provider"`
	// Repo is "owner/name". Falls back to GITHUB_REPOSITORY.
	Repo string `koanf:"repo" yaml:"repo"`
	// TagPrefix is prepended to versions to form tag names in links.
	TagPrefix string `koanf:"tag_prefix" yaml:"tag_prefix"`
	// GitHubTokenEnv names the variable holding the GitHub API token.
	GitHubTokenEnv string `koanf:"github_token_env" yaml:"github_token_env"`

	// Parsing is the commit parsing mode: smart | strict.
	Parsing             string `koanf:"parsing" yaml:"parsing"`
	ExcludeUnidentified bool   `koanf:"exclude_unidentified" yaml:"exclude_unidentified"`
	ExcludeNotPR        bool   `koanf:"exclude_not_pr" yaml:"exclude_not_pr"`
	OmitPRLink          bool   `koanf:"omit_pr_link" yaml:"omit_pr_link"`
	OmitThanks          bool   `koanf:"omit_thanks" yaml:"omit_thanks"`
	MaxParallel         int    `koanf:"max_parallel" yaml:"max_parallel"`

	OmitDiff         bool             `koanf:"omit_diff" yaml:"omit_diff"`
	MergeDevVersions MergeDevVersions `koanf:"merge_dev_versions" yaml:"merge_dev_versions"`

	SortScope    bool     `koanf:"sort_scope" yaml:"sort_scope"`
	SectionOrder []string `koanf:"section_order" yaml:"section_order"`
	// Map lists the commit types feeding each section. Empty means the
	// built-in mapping.
	Map map[string][]string `koanf:"map" yaml:"map"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .changelog-gen/config.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: XDG config dir)
	UserConfigPath string
	// SkipUserConfig ignores the user config entirely
	SkipUserConfig bool
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if it exists.
func loadUserConfig(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	return nil
}

// loadProjectConfig loads project-level config (YAML preferred, legacy JSON supported).
// Warns if both exist (YAML used, JSON ignored) or if only legacy JSON exists.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	projectYAMLPath := ProjectConfigPath()
	if customPath != "" {
		projectYAMLPath = customPath
	}
	legacyProjectPath := LegacyProjectConfigPath()

	projectYAMLExists := fileExists(projectYAMLPath)
	legacyProjectExists := fileExists(legacyProjectPath)

	if projectYAMLExists {
		if err := loadYAMLConfig(k, projectYAMLPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		if legacyProjectExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyProjectPath, projectYAMLPath)
			fmt.Fprintf(warningWriter, "  Run 'changelog-gen config migrate' to remove the legacy file.\n\n")
		}
	} else if legacyProjectExists {
		if err := k.Load(file.Provider(legacyProjectPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load legacy project config %s: %w", legacyProjectPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyProjectPath)
			fmt.Fprintf(warningWriter, "  Run 'changelog-gen config migrate' to migrate to YAML format.\n\n")
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides.
// List-valued keys take comma-separated values.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOG_GEN_OMIT_DIFF -> omit_diff
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "section_order" {
		var items []string
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return key, items
	}
	return key, value
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.normalize()
	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Repo == "" {
		cfg.Repo = os.Getenv("GITHUB_REPOSITORY")
	}
	return &cfg, nil
}

func (c *Configuration) normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Parsing = strings.ToLower(strings.TrimSpace(c.Parsing))
	c.MergeDevVersions = MergeDevVersions(strings.ToLower(strings.TrimSpace(string(c.MergeDevVersions))))
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// SectionMap returns the commit type mapping, ordered by SectionOrder.
func (c *Configuration) SectionMap() commitparse.SectionMap {
	if len(c.Map) == 0 {
		return commitparse.DefaultSectionMap()
	}
	return commitparse.NewSectionMap(c.Map, c.SectionOrder)
}

// Classifier builds the commit classifier described by the configuration.
func (c *Configuration) Classifier() (*commitparse.Classifier, error) {
	parsing, err := commitparse.ParseParsing(c.Parsing)
	if err != nil {
		return nil, err
	}
	return &commitparse.Classifier{
		Map:                 c.SectionMap(),
		Parsing:             parsing,
		ExcludeUnidentified: c.ExcludeUnidentified,
	}, nil
}

// SanitizeOptions returns the sanitizer settings. Without an explicit
// section_order, sections follow the commit type mapping.
func (c *Configuration) SanitizeOptions() changelog.SanitizeOptions {
	order := c.SectionOrder
	if len(order) == 0 {
		order = c.SectionMap().Sections()
	}
	return changelog.SanitizeOptions{SectionOrder: order, SortScope: c.SortScope}
}
