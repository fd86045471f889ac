package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	slidemodel "github.com/VantageDataChat/GoSlideModel"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <pptx>",
	Short: "Check a package for structural problems",
	Long: `Validate checks that every XML part parses, every part has a content
type and every relationship id used by a part resolves to an existing
target.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	c := currentConfig()
	reg, err := slidemodel.LoadZip(f, info.Size(), slidemodel.Limits{
		MaxEntrySize: c.Reader.MaxEntrySize,
		MaxTotalSize: c.Reader.MaxTotalSize,
		MaxEntries:   c.Reader.MaxEntries,
	})
	if err != nil {
		return err
	}
	if err := slidemodel.Validate(reg); err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "%s: ok (%d parts)\n", args[0], reg.Len())
	return nil
}
