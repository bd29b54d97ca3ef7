package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MigrationResult describes the outcome of a migration operation
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Success    bool
	DryRun     bool
	Message    string
}

// MigrateJSONToYAML converts a JSON config file to YAML format.
// It never overwrites an existing YAML file and, in dry-run mode, only
// reports what it would do.
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: jsonPath,
		TargetPath: yamlPath,
		DryRun:     dryRun,
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Message = fmt.Sprintf("No JSON config found at %s", jsonPath)
			return result, nil
		}
		return nil, fmt.Errorf("failed to read JSON config: %w", err)
	}

	var configData map[string]any
	if err := json.Unmarshal(jsonData, &configData); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	if _, err := os.Stat(yamlPath); err == nil {
		result.Message = fmt.Sprintf("YAML config already exists at %s (skipped)", yamlPath)
		return result, nil
	}

	if dryRun {
		result.Success = true
		result.Message = fmt.Sprintf("Would migrate %s → %s", jsonPath, yamlPath)
		return result, nil
	}

	yamlData, err := yaml.Marshal(configData)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(yamlPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# changelog-gen configuration\n# Migrated from JSON format\n\n"
	if err := os.WriteFile(yamlPath, []byte(header+string(yamlData)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write YAML config: %w", err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Migrated %s → %s", jsonPath, yamlPath)
	return result, nil
}

// MigrateProjectConfig migrates the project-level config from JSON to YAML.
func MigrateProjectConfig(dryRun bool) (*MigrationResult, error) {
	return MigrateJSONToYAML(LegacyProjectConfigPath(), ProjectConfigPath(), dryRun)
}

// RemoveLegacyConfig renames a legacy JSON config to .bak after a
// successful migration.
func RemoveLegacyConfig(jsonPath string, dryRun bool) error {
	if dryRun {
		return nil
	}
	if _, err := os.Stat(jsonPath); os.IsNotExist(err) {
		return nil
	}
	if err := os.Rename(jsonPath, jsonPath+".bak"); err != nil {
		return fmt.Errorf("failed to backup legacy config: %w", err)
	}
	return nil
}
