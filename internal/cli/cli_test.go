package cli

// Test Plan for CLI commands:
// - extract writes a record that decodes back to the same slides
// - extract --text prints shape text
// - generate builds a package that validate accepts
// - roundtrip writes a readable package
// - validate rejects a file that is not a package
// - version prints the engine version

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slidemodel "github.com/VantageDataChat/GoSlideModel"
)

// writeFixture generates a one-slide package and returns its path.
func writeFixture(t *testing.T) string {
	t.Helper()
	doc := slidemodel.NewDocument()
	doc.AddSlide(slidemodel.ShapeModel{
		ShapeID: 2, Name: "Title",
		OffsetX: slidemodel.Inch(1), OffsetY: slidemodel.Inch(1),
		ExtentW: slidemodel.Inch(4), ExtentH: slidemodel.Inch(1),
		Kind: slidemodel.ShapeKind{Type: slidemodel.KindTextBox},
		Text: slidemodel.PlainTextFrame("Quarterly review"),
	})
	path := filepath.Join(t.TempDir(), "fixture.pptx")
	_, err := slidemodel.GenerateFile(doc, path)
	require.NoError(t, err)
	return path
}

func testCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		extractOutput, extractText, generateOutput, quiet = "", false, "", false
	})
	quiet = true
}

func TestRunExtract_WritesRecord(t *testing.T) {
	resetFlags(t)
	in := writeFixture(t)
	extractOutput = filepath.Join(t.TempDir(), "deck.json")

	cmd, _, _ := testCmd()
	require.NoError(t, runExtract(cmd, []string{in}))

	f, err := os.Open(extractOutput)
	require.NoError(t, err)
	defer f.Close()
	doc, err := slidemodel.DecodeDocument(f)
	require.NoError(t, err)
	require.Len(t, doc.Slides, 1)
	require.Len(t, doc.Slides[0].Shapes, 1)
	assert.Equal(t, "Quarterly review", doc.Slides[0].Shapes[0].Text.PlainText())
}

func TestRunExtract_Text(t *testing.T) {
	resetFlags(t)
	in := writeFixture(t)
	extractText = true

	cmd, out, _ := testCmd()
	require.NoError(t, runExtract(cmd, []string{in}))
	assert.Contains(t, out.String(), "Quarterly review")
}

func TestRunGenerate_ThenValidate(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	record := filepath.Join(dir, "deck.json")

	doc := slidemodel.NewDocument()
	doc.AddSlide(slidemodel.ShapeModel{
		ShapeID: 2, Name: "Box",
		ExtentW: slidemodel.Inch(1), ExtentH: slidemodel.Inch(1),
		Kind: slidemodel.AutoShapeKind(slidemodel.PresetGeometry("rectangle")),
		Fill: slidemodel.SolidFill(slidemodel.RGB(255, 0, 0)),
	})
	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	require.NoError(t, os.WriteFile(record, buf.Bytes(), 0o644))

	generateOutput = filepath.Join(dir, "deck.pptx")
	cmd, _, _ := testCmd()
	require.NoError(t, runGenerate(cmd, []string{record}))

	quiet = false
	cmd, out, _ := testCmd()
	require.NoError(t, runValidate(cmd, []string{generateOutput}))
	assert.Contains(t, out.String(), "ok")
}

func TestRunRoundtrip(t *testing.T) {
	resetFlags(t)
	in := writeFixture(t)
	out := filepath.Join(t.TempDir(), "copy.pptx")

	cmd, _, _ := testCmd()
	require.NoError(t, runRoundtrip(cmd, []string{in, out}))

	ext, err := slidemodel.Open(out)
	require.NoError(t, err)
	assert.Len(t, ext.Document.Slides, 1)
}

func TestRunValidate_RejectsGarbage(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "bad.pptx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	cmd, _, _ := testCmd()
	require.Error(t, runValidate(cmd, []string{path}))
}

func TestVersionCommand(t *testing.T) {
	cmd, out, _ := testCmd()
	versionCmd.Run(cmd, nil)
	assert.Contains(t, out.String(), "slidemodel "+slidemodel.Version)
}
