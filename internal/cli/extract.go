package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	slidemodel "github.com/VantageDataChat/GoSlideModel"
)

var (
	extractOutput string
	extractText   bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <in.pptx>",
	Short: "Extract a presentation into a JSON record",
	Long: `Extract reads a .pptx package and writes its normalized JSON record.
Problems with individual shapes are reported as warnings and do not stop
the extraction.

Examples:
  # Write the record to a file
  slidemodel extract deck.pptx -o deck.json

  # Print the indexable text of every shape
  slidemodel extract deck.pptx --text
`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "record file (default stdout)")
	extractCmd.Flags().BoolVar(&extractText, "text", false, "print shape text instead of the record")
}

func runExtract(cmd *cobra.Command, args []string) error {
	progress := newSlideProgress(cmd.ErrOrStderr(), quiet || extractOutput == "")
	opts := append(currentConfig().ReadOptions(), slidemodel.WithProgress(progress.update))
	ext, err := slidemodel.Open(args[0], opts...)
	progress.finish()
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", args[0], err)
	}
	reportWarnings(cmd.ErrOrStderr(), ext.Errors)

	if extractText {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), ext.Document.ExtractText())
		return err
	}
	return writeRecord(cmd.OutOrStdout(), extractOutput, ext.Document)
}

// writeRecord encodes doc to path, or to w when path is empty.
func writeRecord(w io.Writer, path string, doc *slidemodel.Document) error {
	if path == "" {
		return doc.Encode(w)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := doc.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func reportWarnings(w io.Writer, warnings []slidemodel.Warning) {
	if len(warnings) == 0 {
		return
	}
	printf(w, "%d warning(s):\n", len(warnings))
	for _, wr := range warnings {
		printf(w, "  [%s] %s\n", wr.Code(), wr)
	}
}
