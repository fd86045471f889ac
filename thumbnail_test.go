package slidemodel

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// 4:3 at 100px wide: one inch is ten pixels.
var size4x3 = SlideSize{Width: 9144000, Height: 6858000}

func at(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestRenderSlide_Shapes(t *testing.T) {
	red := rect(2, "Red")
	red.Fill = SolidFill(RGB(255, 0, 0))

	oval := rect(3, "Oval")
	oval.OffsetY = Inch(3)
	oval.Kind = AutoShapeKind(PresetGeometry("ellipse"))
	oval.Fill = SolidFill(ThemeColor(SlotAccent1, 0))

	pic := ShapeModel{ShapeID: 4, OffsetX: Inch(5), OffsetY: Inch(1), ExtentW: Inch(1), ExtentH: Inch(1), Kind: PictureKind("image1.png")}
	gone := ShapeModel{ShapeID: 5, OffsetX: Inch(7), OffsetY: Inch(1), ExtentW: Inch(1), ExtentH: Inch(1), Kind: PictureKind("missing.png")}

	media := NewMediaCatalog()
	media.Put("image1.png", testPNG(t), "")
	slide := &SlideRecord{SlideIndex: 1, Shapes: []ShapeModel{red, oval, pic, gone}}

	img, err := RenderSlide(slide, size4x3, DefaultTheme(), media, 100)
	if err != nil {
		t.Fatalf("RenderSlide: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 75 {
		t.Fatalf("bounds = %v", b)
	}

	white := color.RGBA{255, 255, 255, 255}
	if got := at(img, 2, 2); got != white {
		t.Errorf("background = %v", got)
	}
	if got := at(img, 20, 15); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("rect center = %v", got)
	}
	if got := at(img, 20, 35); got != (color.RGBA{0x44, 0x72, 0xC4, 255}) {
		t.Errorf("ellipse center = %v", got)
	}
	if got := at(img, 10, 30); got != white {
		t.Errorf("ellipse bounding box corner painted: %v", got)
	}
	if got := at(img, 55, 15); got.B < 0x80 || got.R > 0x60 {
		t.Errorf("picture pixel = %v", got)
	}
	if got := at(img, 75, 15); got != (color.RGBA{0xD9, 0xD9, 0xD9, 255}) {
		t.Errorf("missing picture = %v", got)
	}
}

func TestRenderSlide_BackgroundAndErrors(t *testing.T) {
	bg := SolidFill(RGB(0, 0, 255))
	img, err := RenderSlide(&SlideRecord{Background: &bg}, SlideSize{}, nil, nil, 0)
	if err != nil {
		t.Fatalf("RenderSlide: %v", err)
	}
	if img.Bounds().Dx() != 256 || img.Bounds().Dy() != 144 {
		t.Errorf("default width gives %v", img.Bounds())
	}
	if got := at(img, 0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("background = %v", got)
	}
	if _, err := RenderSlide(nil, size4x3, nil, nil, 10); err == nil {
		t.Error("nil slide rendered")
	}
}

func TestRenderThumbnail_JPEG(t *testing.T) {
	slide := &SlideRecord{Shapes: []ShapeModel{rect(2, "A")}}
	data, err := RenderThumbnail(slide, size4x3, nil, nil, 40)
	if err != nil {
		t.Fatalf("RenderThumbnail: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("jpeg.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("bounds = %v", b)
	}
}

func TestRenderSlide_TextWithFonts(t *testing.T) {
	fc := NewFontCache()
	if err := fc.AddFont("Go", goregular.TTF); err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	r := &renderer{fonts: fc, scaleY: 75.0 / float64(size4x3.Height)}
	if r.face(&FontSpec{Name: "Go", Size: 60}) == basicfont.Face7x13 {
		t.Error("registered font not used")
	}
	if r.face(&FontSpec{Name: "Unknown", Size: 60}) != basicfont.Face7x13 {
		t.Error("unknown font did not fall back")
	}
	if r.face(&FontSpec{Name: "Go", Size: 4}) != basicfont.Face7x13 {
		t.Error("tiny text did not fall back")
	}
	if (&renderer{}).face(&FontSpec{Name: "Go"}) != basicfont.Face7x13 {
		t.Error("renderer without fonts did not fall back")
	}

	box := rect(2, "Box")
	box.ExtentW, box.ExtentH = Inch(8), Inch(2)
	box.Text = &TextFrameSpec{Paragraphs: []ParagraphSpec{{Runs: []RunSpec{{
		Text: "Hello", Font: &FontSpec{Name: "Go", Size: 60, Color: &ColorSpec{Type: ColorRGB}},
	}}}}}
	img, err := RenderSlide(&SlideRecord{Shapes: []ShapeModel{box}}, size4x3, nil, nil, 100, WithFonts(fc))
	if err != nil {
		t.Fatalf("RenderSlide: %v", err)
	}
	dark := 0
	for y := 10; y < 30; y++ {
		for x := 10; x < 90; x++ {
			if c := at(img, x, y); c.R < 0xC0 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no text pixels drawn")
	}
}

func TestFontCache(t *testing.T) {
	var nilCache *FontCache
	if _, ok := nilCache.Face("Go", 12, false, false); ok {
		t.Error("nil cache returned a face")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "custom.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.ttf"), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	fc := NewFontCache(dir)
	for _, name := range []string{"custom", "CUSTOM", "Go", "Go Regular"} {
		if _, ok := fc.Face(name, 12, false, false); !ok {
			t.Errorf("Face(%q) not found", name)
		}
	}
	a, _ := fc.Face("custom", 12, true, false)
	b, _ := fc.Face("custom", 12, true, false)
	if a == nil || a != b {
		t.Error("bold lookup did not fall back to regular or was not cached")
	}
	if _, ok := fc.Face("broken", 12, false, false); ok {
		t.Error("unparseable font registered")
	}
	if _, ok := fc.Face("custom", 0, false, false); ok {
		t.Error("zero size accepted")
	}
	if err := fc.AddFont("bad", []byte("nope")); err == nil {
		t.Error("AddFont accepted garbage")
	}
}
