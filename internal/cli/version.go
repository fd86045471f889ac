package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	slidemodel "github.com/VantageDataChat/GoSlideModel"
)

var (
	// Build information - typically set via ldflags at build time
	GitCommit = "none"
	BuildDate = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of slidemodel",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "slidemodel %s\n", slidemodel.Version)
		fmt.Fprintf(out, "Record version: %d\n", slidemodel.RecordVersion)
		fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
		fmt.Fprintf(out, "Build date: %s\n", BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
