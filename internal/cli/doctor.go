package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-gen/internal/health"
)

var doctorRepoPath string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the changelog, repository and provider setup",
	Long: `Run health checks and report what changelog-gen can do here:
  - the configuration loads
  - the changelog exists and parses
  - a git repository is found (needed by generate)
  - the provider has a repository for links and pull request lookups

Failing the first two checks exits with status 4.`,
	Example: `  changelog-gen doctor`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		report := health.RunHealthChecks(health.Options{
			Config:    cfg,
			ConfigErr: err,
			RepoPath:  doctorRepoPath,
		})
		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
		if !report.Passed {
			return NewExitError(ExitMissingDependencies)
		}
		return nil
	},
}

func init() {
	doctorCmd.GroupID = GroupSetup
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVar(&doctorRepoPath, "repo-path", "", "Path inside the git repository (default working directory)")
}
