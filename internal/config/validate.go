package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateYAMLSyntax checks that a config file is well-formed YAML, so a
// typo is reported with its position instead of as a koanf load failure.
// Missing and blank files are valid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	switch {
	case os.IsNotExist(err):
		return nil
	case os.IsPermission(err):
		return &ValidationError{FilePath: filePath, Message: "permission denied"}
	case err != nil:
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return yamlError(filePath, err)
	}
	return nil
}

func yamlError(filePath string, err error) *ValidationError {
	var typeError *yaml.TypeError
	if errors.As(err, &typeError) {
		return &ValidationError{FilePath: filePath, Message: strings.Join(typeError.Errors, "; ")}
	}
	line, column := extractLineColumn(err.Error())
	return &ValidationError{
		FilePath: filePath,
		Line:     line,
		Column:   column,
		Message:  cleanYAMLError(err.Error()),
	}
}

// ValidateConfigValues validates configuration values against expected types and constraints.
// Returns nil if valid, or a ValidationError with field information if invalid.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	fieldErr := func(field, msg string) error {
		return &ValidationError{FilePath: filePath, Field: field, Message: msg}
	}

	if strings.TrimSpace(cfg.File) == "" {
		return fieldErr("file", "is required")
	}
	switch cfg.Provider {
	case "github", "none":
	default:
		return fieldErr("provider", fmt.Sprintf("must be one of: github, none (got %q)", cfg.Provider))
	}
	switch cfg.Parsing {
	case "smart", "strict":
	default:
		return fieldErr("parsing", fmt.Sprintf("must be one of: smart, strict (got %q)", cfg.Parsing))
	}
	switch cfg.MergeDevVersions {
	case MergeAuto, MergeYes, MergeNo:
	default:
		return fieldErr("merge_dev_versions", fmt.Sprintf("must be one of: auto, yes, no (got %q)", cfg.MergeDevVersions))
	}
	if cfg.MaxParallel < 1 || cfg.MaxParallel > 64 {
		return fieldErr("max_parallel", "must be between 1 and 64")
	}
	if cfg.Repo != "" {
		owner, name, ok := strings.Cut(cfg.Repo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return fieldErr("repo", fmt.Sprintf("must be owner/name (got %q)", cfg.Repo))
		}
	}
	for section, types := range cfg.Map {
		if strings.TrimSpace(section) == "" {
			return fieldErr("map", "section title must not be empty")
		}
		if len(types) == 0 {
			return fieldErr("map", fmt.Sprintf("section %q has no commit types", section))
		}
	}

	return nil
}

// extractLineColumn reads the position out of a yaml.v3 message such as
// "yaml: line 5: could not find expected ':'". It returns 0, 0 when there is
// none.
func extractLineColumn(errMsg string) (line, column int) {
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError drops the "yaml: line X:" prefix, which Line and Column
// already carry.
func cleanYAMLError(errMsg string) string {
	if !strings.HasPrefix(errMsg, "yaml:") {
		return errMsg
	}
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		return errMsg[idx+2:]
	}
	return errMsg
}
