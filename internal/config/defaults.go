package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# changelog-gen configuration
# Environment variables override this file: CHANGELOG_GEN_<KEY>, e.g. CHANGELOG_GEN_OMIT_DIFF=true

file: CHANGELOG.md                    # Changelog path

# Code-hosting provider
provider: github                      # github | none
repo: ""                              # owner/name (default: $GITHUB_REPOSITORY)
tag_prefix: ""                        # Prepended to versions in release and diff links, e.g. "v"
github_token_env: GITHUB_TOKEN        # Variable holding the API token

# Note generation
parsing: smart                        # smart | strict
exclude_unidentified: false           # Drop commits whose type cannot be found
exclude_not_pr: false                 # Drop commits without a pull request
omit_pr_link: false                   # Do not append " in [#N](url)"
omit_thanks: false                    # Do not append " by [@author](url)"
max_parallel: 4                       # Concurrent pull request lookups

# Release
omit_diff: false                      # Do not add a "Full Changelog" link
merge_dev_versions: auto              # auto | yes | no

# Formatting
sort_scope: true                      # Group notes by scope inside a section
section_order: []                     # Default: order of the map below
map:                                  # Section -> commit types
  Fixed: [fix]
  Added: [feat]
  Changed: [improve, impr, refactor, perf]
  Removed: [remove]
  Security: [security]
  Documentation: [doc, docs]
`
}

// GetDefaults returns the default configuration values.
// The commit type map is deliberately absent: a user map replaces the
// built-in one instead of being merged into it.
func GetDefaults() map[string]any {
	return map[string]any{
		"file":                 "CHANGELOG.md",
		"provider":             "github",
		"repo":                 "",
		"tag_prefix":           "",
		"github_token_env":     "GITHUB_TOKEN",
		"parsing":              "smart",
		"exclude_unidentified": false,
		"exclude_not_pr":       false,
		"omit_pr_link":         false,
		"omit_thanks":          false,
		"max_parallel":         4,
		"omit_diff":            false,
		"merge_dev_versions":   string(MergeAuto),
		"sort_scope":           true,
		"section_order":        []string{},
	}
}
