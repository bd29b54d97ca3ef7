package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-gen/internal/version"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/changelog-gen"

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for changelog-gen",
	Example: `  # Show version info
  changelog-gen version

  # Plain output (for scripts)
  changelog-gen version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionPlain {
			fmt.Fprint(out, version.Plain())
			return
		}

		label := color.New(color.FgYellow).SprintFunc()
		value := color.New(color.FgWhite, color.Bold).SprintFunc()
		for _, f := range version.Fields() {
			fmt.Fprintf(out, "%s  %s\n", label(fmt.Sprintf("%10s", f.Label)), value(f.Value))
		}
		fmt.Fprintf(out, "%s  %s\n", label(fmt.Sprintf("%10s", "Source")), SourceURL)
	},
}

func init() {
	versionCmd.GroupID = GroupSetup
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
}
