package config

import (
	"os"
	"path/filepath"
)

const appName = "changelog-gen"

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/changelog-gen/config.yml
// - macOS: ~/Library/Application Support/changelog-gen/config.yml
// - Windows: %APPDATA%\changelog-gen\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName, "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file,
// relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.yml")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return "." + appName
}

// LegacyProjectConfigPath returns the path to the legacy project-level JSON config file.
func LegacyProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.json")
}
