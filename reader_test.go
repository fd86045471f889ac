package slidemodel

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// testPNG returns a small encoded image.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 0x20, G: uint8(x * 60), B: 0xC0, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// extract writes doc and reads the package back.
func extract(t *testing.T, doc *Document, opts ...ReadOption) *Extraction {
	t.Helper()
	data, err := generate(t, doc).Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	ex, err := Extract(bytes.NewReader(data), int64(len(data)), opts...)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return ex
}

var ignorePreservation = cmpopts.IgnoreFields(ShapeModel{}, "OriginalXML", "Namespaces", "Relationships", "GroupPath")

func roundTripDocument(t *testing.T) *Document {
	rectGeom := PresetGeometry("rectangle")

	red := rect(2, "Red")
	red.Fill = SolidFill(RGB(255, 0, 0))
	red.Line = NoLine()

	box := ShapeModel{
		ShapeID: 3, Name: "Box",
		OffsetX: Inch(1), OffsetY: Inch(3), ExtentW: Inch(4), ExtentH: Inch(1),
		Kind: ShapeKind{Type: KindTextBox, Geometry: &rectGeom},
		Text: &TextFrameSpec{Wrap: boolPtr(true), Paragraphs: []ParagraphSpec{
			{Align: "ctr", Runs: []RunSpec{{Text: "Quarterly", Font: &FontSpec{Size: 24, Bold: true}}}},
			{Runs: []RunSpec{{Text: "review"}}},
		}},
	}

	logo := ShapeModel{
		ShapeID: 4, Name: "Logo",
		OffsetX: Inch(6), OffsetY: Inch(1), ExtentW: Inch(1), ExtentH: Inch(1),
		Rotation: 90,
		Kind:     PictureKind("image1.png"),
	}

	grid := ShapeModel{
		ShapeID: 5, Name: "Grid",
		OffsetX: Inch(1), OffsetY: Inch(5), ExtentW: Inch(2), ExtentH: Inch(0.5),
		Kind: ShapeKind{Type: KindTable, Table: &TableSpec{
			Columns:  []int64{Inch(1), Inch(1)},
			Rows:     []TableRow{{Height: Inch(0.5), Cells: []TableCell{{Text: "a"}, {Text: "b"}}}},
			FirstRow: true,
		}},
	}

	doc := NewDocument()
	doc.Properties.Title = "Round trip"
	doc.Properties.Company = "Acme"
	doc.Layouts = []LayoutRecord{{Name: "Title Slide", Type: "title"}, {Name: "Blank", Type: "blank"}}
	doc.Media.Put("image1.png", testPNG(t), "")
	slide := doc.AddSlide(red, box, logo, grid)
	slide.Notes = "Speaker notes"
	slide.Layout = "Blank"
	slide.Hidden = true
	doc.AddSlide(rect(2, "Second"))
	return doc
}

func TestExtract_RoundTrip(t *testing.T) {
	doc := roundTripDocument(t)
	ex := extract(t, doc)
	if len(ex.Errors) != 0 {
		t.Errorf("unexpected errors: %v", ex.Errors)
	}
	got := ex.Document

	if got.Version != RecordVersion {
		t.Errorf("version = %d", got.Version)
	}
	if got.SlideSize.Width != doc.SlideSize.Width || got.SlideSize.Height != doc.SlideSize.Height {
		t.Errorf("slide size = %+v", got.SlideSize)
	}
	if got.Properties.Title != "Round trip" || got.Properties.Company != "Acme" {
		t.Errorf("properties = %+v", got.Properties)
	}
	if diff := cmp.Diff(doc.Layouts, got.Layouts); diff != "" {
		t.Errorf("layouts (-want +got):\n%s", diff)
	}
	if len(got.Slides) != 2 {
		t.Fatalf("read %d slides, want 2", len(got.Slides))
	}

	s1 := got.Slides[0]
	if s1.SlideIndex != 1 || s1.Layout != "Blank" || !s1.Hidden || s1.Notes != "Speaker notes" {
		t.Errorf("slide 1 = index %d layout %q hidden %v notes %q", s1.SlideIndex, s1.Layout, s1.Hidden, s1.Notes)
	}
	if diff := cmp.Diff(doc.Slides[0].Shapes, s1.Shapes, ignorePreservation, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("shapes (-want +got):\n%s", diff)
	}
	if s2 := got.Slides[1]; s2.Hidden || s2.Notes != "" || s2.Layout != "Title Slide" {
		t.Errorf("slide 2 = layout %q hidden %v notes %q", s2.Layout, s2.Hidden, s2.Notes)
	}

	item, ok := got.Media.Get("image1.png")
	if !ok || !bytes.Equal(item.Data, testPNG(t)) || item.ContentType != "image/png" {
		t.Errorf("media not read back: %v %q", ok, item.ContentType)
	}
	if got.Theme == nil || got.Theme.Colors[SlotAccent1] != DefaultTheme().Colors[SlotAccent1] {
		t.Errorf("theme = %+v", got.Theme)
	}
}

func TestExtract_PreservationData(t *testing.T) {
	ex := extract(t, roundTripDocument(t))
	logo := ex.Document.Slides[0].Shapes[2]
	if logo.OriginalXML == "" || logo.Namespaces["p"] != nsPresentationML {
		t.Errorf("fragment not kept: %q %v", logo.OriginalXML, logo.Namespaces)
	}
	if len(logo.Relationships) != 1 {
		t.Fatalf("bindings = %v", logo.Relationships)
	}
	for _, b := range logo.Relationships {
		if b.Type != relTypeImage || b.Target != "ppt/media/image1.png" || b.MediaKey != "image1.png" {
			t.Errorf("binding = %+v", b)
		}
	}

	// The fragment alone regenerates the picture in a new package.
	doc := NewDocument()
	doc.Media = ex.Document.Media
	doc.AddSlide(logo)
	again := extract(t, doc)
	if diff := cmp.Diff(logo, again.Document.Slides[0].Shapes[0], ignorePreservation); diff != "" {
		t.Errorf("second round trip (-want +got):\n%s", diff)
	}
}

const brokenSlide = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="` + nsDrawingML + `" xmlns:r="` + nsOfficeDocRels + `" xmlns:p="` + nsPresentationML + `"><p:cSld><p:spTree>` +
	`<p:sp><p:nvSpPr><p:cNvPr id="x" name="Bad"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>` +
	`<p:spPr><a:xfrm><a:off x="1" y="oops"/><a:ext cx="10" cy="10"/></a:xfrm><a:prstGeom prst="notAShape"/></p:spPr></p:sp>` +
	`<p:pic><p:nvPicPr><p:cNvPr id="3" name="Gone"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
	`<p:blipFill><a:blip r:embed="rId99"/></p:blipFill><p:spPr/></p:pic>` +
	`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="4" name="G"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm rot="5400000"><a:off x="100" y="100"/><a:ext cx="200" cy="200"/><a:chOff x="0" y="0"/><a:chExt cx="100" cy="100"/></a:xfrm></p:grpSpPr>` +
	`<p:sp><p:nvSpPr><p:cNvPr id="5" name="Child"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>` +
	`<p:spPr><a:xfrm><a:off x="10" y="10"/><a:ext cx="50" cy="50"/></a:xfrm></p:spPr></p:sp>` +
	`</p:grpSp>` +
	`</p:spTree></p:cSld></p:sld>`

func TestReadParts_RecoversFromBrokenShapes(t *testing.T) {
	doc := NewDocument()
	doc.AddSlide(rect(2, "Placeholder"))
	reg := generate(t, doc).Parts
	reg.PutString(slidePart(1), brokenSlide)

	ex, err := NewReader().ReadParts(reg)
	if err != nil {
		t.Fatalf("ReadParts: %v", err)
	}
	shapes := ex.Document.Slides[0].Shapes
	if len(shapes) != 3 {
		t.Fatalf("read %d shapes, want 3", len(shapes))
	}
	if shapes[0].Name != "Bad" || shapes[0].Kind.Geometry == nil || shapes[0].Kind.Geometry.Preset != "notAShape" {
		t.Errorf("bad shape = %+v", shapes[0].Kind)
	}
	if shapes[1].Kind.Type != KindPicture || shapes[1].Kind.MediaKey != "" {
		t.Errorf("picture kind = %+v", shapes[1].Kind)
	}

	child := shapes[2]
	want := [4]int64{120, 120, 100, 100}
	if got := [4]int64{child.OffsetX, child.OffsetY, child.ExtentW, child.ExtentH}; got != want {
		t.Errorf("flattened child = %v, want %v", got, want)
	}
	if diff := cmp.Diff([]string{"G"}, child.GroupPath); diff != "" {
		t.Errorf("group path (-want +got):\n%s", diff)
	}

	for _, code := range []string{"field_extraction", "unsupported_shape_kind", "dangling_relationship", "property_loss"} {
		if !hasCode(ex.Errors, code) {
			t.Errorf("no %s warning in %v", code, ex.Errors)
		}
	}
	for _, w := range ex.Errors {
		if w.Slide != 1 {
			t.Errorf("warning not attributed to slide 1: %v", w)
		}
	}
}

func TestReadParts_AlternateContentUsesFallback(t *testing.T) {
	doc := NewDocument()
	doc.AddSlide()
	reg := generate(t, doc).Parts
	reg.PutString(slidePart(1), `<p:sld xmlns:a="`+nsDrawingML+`" xmlns:p="`+nsPresentationML+`" xmlns:mc="urn:mc"><p:cSld><p:spTree>`+
		`<mc:AlternateContent><mc:Choice Requires="x"><p:sp><p:nvSpPr><p:cNvPr id="7" name="New"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/></p:sp></mc:Choice>`+
		`<mc:Fallback><p:sp><p:nvSpPr><p:cNvPr id="8" name="Old"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/></p:sp></mc:Fallback></mc:AlternateContent>`+
		`</p:spTree></p:cSld></p:sld>`)

	ex, err := NewReader().ReadParts(reg)
	if err != nil {
		t.Fatalf("ReadParts: %v", err)
	}
	shapes := ex.Document.Slides[0].Shapes
	if len(shapes) != 1 || shapes[0].Name != "Old" {
		t.Fatalf("shapes = %+v", shapes)
	}
	if g := shapes[0].Kind.Geometry; shapes[0].Kind.Type != KindAutoShape || g == nil || g.Preset != "rectangle" {
		t.Errorf("shape without geometry = %+v", shapes[0].Kind)
	}
}

func TestReadParts_UnreadableSlideIsReported(t *testing.T) {
	doc := NewDocument()
	doc.AddSlide(rect(2, "A"))
	doc.AddSlide(rect(2, "B"))
	reg := generate(t, doc).Parts
	reg.PutString(slidePart(1), "<p:sld><unclosed>")

	ex, err := NewReader().ReadParts(reg)
	if err != nil {
		t.Fatalf("ReadParts: %v", err)
	}
	if len(ex.Document.Slides) != 2 || len(ex.Document.Slides[0].Shapes) != 0 {
		t.Fatalf("slides = %+v", ex.Document.Slides)
	}
	if got := ex.Document.Slides[1].Shapes; len(got) != 1 || got[0].Name != "B" {
		t.Errorf("second slide = %+v", got)
	}
	if len(ex.Errors) == 0 || ex.Errors[0].Slide != 1 || ex.Errors[0].Code() != "field_extraction" {
		t.Errorf("errors = %v", ex.Errors)
	}
}

func TestExtract_Failures(t *testing.T) {
	if _, err := Extract(bytes.NewReader([]byte("not a zip")), 9); err == nil {
		t.Error("garbage extracted")
	}

	reg := NewPartRegistry()
	reg.PutString("docProps/core.xml", "<cp:coreProperties/>")
	if _, err := NewReader().ReadParts(reg); err == nil {
		t.Error("package without a presentation extracted")
	}
}

func TestExtract_ProgressAndOpen(t *testing.T) {
	doc := roundTripDocument(t)
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if _, err := GenerateFile(doc, path); err != nil {
		t.Fatalf("GenerateFile: %v", err)
	}

	var calls [][2]int
	ex, err := Open(path, WithProgress(func(done, total int) { calls = append(calls, [2]int{done, total}) }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(ex.Document.Slides) != 2 {
		t.Errorf("read %d slides", len(ex.Document.Slides))
	}
	if diff := cmp.Diff([][2]int{{1, 2}, {2, 2}}, calls); diff != "" {
		t.Errorf("progress (-want +got):\n%s", diff)
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pptx")); err == nil {
		t.Error("missing file opened")
	}
}
