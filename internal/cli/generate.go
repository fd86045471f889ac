package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	slidemodel "github.com/VantageDataChat/GoSlideModel"
)

var generateOutput string

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <record.json>",
	Short: "Generate a presentation from a JSON record",
	Long: `Generate builds a valid .pptx package from a JSON record. Shapes that
cannot be built as recorded are replaced by simpler ones and listed as
fallbacks.

Examples:
  slidemodel generate deck.json -o deck.pptx
`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output package (required)")
	generateCmd.MarkFlagRequired("output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open record: %w", err)
	}
	defer f.Close()

	doc, err := slidemodel.DecodeDocument(f)
	if err != nil {
		return err
	}
	res, err := slidemodel.GenerateFile(doc, generateOutput, currentConfig().WriteOptions()...)
	if err != nil {
		return err
	}
	reportResult(cmd.ErrOrStderr(), res)
	printf(cmd.OutOrStdout(), "Wrote %s (%d slides)\n", generateOutput, len(doc.Slides))
	return nil
}

func reportResult(w io.Writer, res *slidemodel.Result) {
	reportWarnings(w, res.Warnings)
	if len(res.Fallbacks) == 0 {
		return
	}
	printf(w, "%d fallback(s):\n", len(res.Fallbacks))
	for _, fb := range res.Fallbacks {
		printf(w, "  slide %d shape %d %q: %v\n", fb.Slide, fb.ShapeID, fb.Name, fb.Err)
	}
}
