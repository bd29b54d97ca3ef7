package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/changelog-gen/internal/config"
	"github.com/ariel-frischer/changelog-gen/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage changelog-gen configuration",
	Long: `Manage changelog-gen configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (CHANGELOG_GEN_*)
  2. Project config (.changelog-gen/config.yml)
  3. User config (~/.config/changelog-gen/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  changelog-gen config show

  # Write a commented project config
  changelog-gen config init

  # Convert a legacy .changelog-gen/config.json
  changelog-gen config migrate`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(cfg.Map) == 0 {
			cfg.Map = cfg.SectionMap().ToMap()
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented project config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.ProjectConfigPath()
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			output.PrintInfo(cmd.OutOrStdout(), "%s already exists (use --force to overwrite)", path)
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		output.PrintSuccess(cmd.OutOrStdout(), "Created %s", path)
		return nil
	},
}

var configMigrateDryRun bool

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert the legacy JSON project config to YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := config.MigrateProjectConfig(configMigrateDryRun)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !res.Success {
			output.PrintInfo(out, "%s", res.Message)
			return nil
		}
		if err := config.RemoveLegacyConfig(res.SourcePath, res.DryRun); err != nil {
			return err
		}
		output.PrintSuccess(out, "%s", res.Message)
		if !res.DryRun {
			output.PrintInfo(out, "The JSON file was kept as %s.bak", res.SourcePath)
		}
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupSetup
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd, configMigrateCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config")
	configMigrateCmd.Flags().BoolVar(&configMigrateDryRun, "dry-run", false, "Report without writing")
}
