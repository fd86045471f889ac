package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	slidemodel "github.com/VantageDataChat/GoSlideModel"
)

// roundtripCmd represents the roundtrip command
var roundtripCmd = &cobra.Command{
	Use:   "roundtrip <in.pptx> <out.pptx>",
	Short: "Extract a presentation and generate it again",
	Long: `Roundtrip extracts a package into a record in memory and immediately
generates a new package from that record. It is the quickest way to see
what the record preserves.`,
	Args: cobra.ExactArgs(2),
	RunE: runRoundtrip,
}

func init() {
	rootCmd.AddCommand(roundtripCmd)
}

func runRoundtrip(cmd *cobra.Command, args []string) error {
	c := currentConfig()
	progress := newSlideProgress(cmd.ErrOrStderr(), quiet)
	ext, err := slidemodel.Open(args[0], append(c.ReadOptions(), slidemodel.WithProgress(progress.update))...)
	progress.finish()
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", args[0], err)
	}
	reportWarnings(cmd.ErrOrStderr(), ext.Errors)

	res, err := slidemodel.GenerateFile(ext.Document, args[1], c.WriteOptions()...)
	if err != nil {
		return err
	}
	reportResult(cmd.ErrOrStderr(), res)
	printf(cmd.OutOrStdout(), "Wrote %s (%d slides, run %s)\n", args[1], len(ext.Document.Slides), res.RunID)
	return nil
}
