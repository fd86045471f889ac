package slidemodel

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDocument_EncodeDecode(t *testing.T) {
	doc := roundTripDocument(t)
	doc.Slides[0].Background = &FillSpec{Type: FillGradient, Angle: 45, Stops: []GradientStop{
		{Position: 0, Color: ThemeColor(SlotAccent2, -0.25)},
		{Position: 1, Color: RGB(1, 2, 3)},
	}}

	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"kind": {`) || !strings.Contains(buf.String(), `"type": "text_box"`) {
		t.Errorf("record does not name kinds:\n%s", buf.String())
	}
	back, err := DecodeDocument(&buf)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if diff := cmp.Diff(doc.Slides, back.Slides, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("slides (-want +got):\n%s", diff)
	}
	if !back.Properties.Created.Equal(doc.Properties.Created) || back.Properties.Title != "Round trip" {
		t.Errorf("properties = %+v", back.Properties)
	}
	if diff := cmp.Diff(doc.Media.Keys(), back.Media.Keys()); diff != "" {
		t.Errorf("media keys (-want +got):\n%s", diff)
	}
}

func TestDecodeDocument_SchemaViolations(t *testing.T) {
	tests := map[string]string{
		"not json":         `{"version":`,
		"missing slides":   `{"version":1,"slide_size":{"width":1,"height":1}}`,
		"zero version":     `{"version":0,"slide_size":{"width":1,"height":1},"slides":[]}`,
		"bad kind":         `{"version":1,"slide_size":{"width":1,"height":1},"slides":[{"slide_index":1,"shapes":[{"shape_id":2,"kind":{"type":"blob"}}]}]}`,
		"bad theme color":  `{"version":1,"slide_size":{"width":1,"height":1},"slides":[],"theme":{"colors":{"accent1":"red"}}}`,
		"bad slot":         `{"version":1,"slide_size":{"width":1,"height":1},"slides":[],"theme":{"colors":{"accent9":"FF0000"}}}`,
		"slide index zero": `{"version":1,"slide_size":{"width":1,"height":1},"slides":[{"slide_index":0}]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDocument(strings.NewReader(in))
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("err = %v, want ErrInvalidRecord", err)
			}
		})
	}
}

func TestDecodeDocument_MinimalRecord(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(`{"version":1,"slide_size":{"width":9144000,"height":6858000},"slides":null}`))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if doc.Media == nil || doc.Media.Len() != 0 {
		t.Errorf("media = %v", doc.Media)
	}
	// A minimal record still generates a valid package.
	generate(t, doc)
}

func TestRecordSchema_IsACopy(t *testing.T) {
	a := RecordSchema()
	a[0] = 'x'
	var v map[string]any
	if err := json.Unmarshal(RecordSchema(), &v); err != nil {
		t.Fatalf("schema is not JSON after caller mutation: %v", err)
	}
	if v["title"] != "slidemodel document" {
		t.Errorf("title = %v", v["title"])
	}
}

func TestDocumentOps(t *testing.T) {
	doc := NewDocument()
	for _, name := range []string{"A", "B", "C"} {
		doc.AddSlide(rect(2, name))
	}
	names := func() string {
		var b strings.Builder
		for i, s := range doc.Slides {
			if s.SlideIndex != i+1 {
				t.Errorf("slide %d has index %d", i, s.SlideIndex)
			}
			b.WriteString(s.Shapes[0].Name)
		}
		return b.String()
	}

	if err := doc.MoveSlide(0, 2); err != nil {
		t.Fatalf("MoveSlide: %v", err)
	}
	if got := names(); got != "BCA" {
		t.Errorf("after move = %s", got)
	}
	if err := doc.RemoveSlide(1); err != nil {
		t.Fatalf("RemoveSlide: %v", err)
	}
	if got := names(); got != "BA" {
		t.Errorf("after remove = %s", got)
	}
	cp, err := doc.CopySlide(0)
	if err != nil {
		t.Fatalf("CopySlide: %v", err)
	}
	cp.Shapes[0].Name = "B2"
	cp.Shapes[0].Kind.Geometry.Preset = "ellipse"
	if got := names(); got != "BAB2" {
		t.Errorf("after copy = %s", got)
	}
	if doc.Slides[0].Shapes[0].Kind.Geometry.Preset != "rectangle" {
		t.Error("copy shares geometry with its source")
	}

	if _, err := doc.Slide(3); err == nil {
		t.Error("Slide(3) succeeded")
	}
	if err := doc.RemoveSlide(-1); err == nil {
		t.Error("RemoveSlide(-1) succeeded")
	}
	if err := doc.MoveSlide(0, 5); err == nil {
		t.Error("MoveSlide out of range succeeded")
	}
	if _, err := doc.CopySlide(9); err == nil {
		t.Error("CopySlide(9) succeeded")
	}
}

func TestDocument_ExtractText(t *testing.T) {
	doc := NewDocument()
	box := rect(3, "Box")
	box.Kind = ShapeKind{Type: KindTextBox}
	box.Text = PlainTextFrame("Hello\nworld")
	slide := doc.AddSlide(box, ShapeModel{ShapeID: 4, Name: "Logo", Kind: PictureKind("a.png")})
	slide.Notes = "remember"

	want := "text_box Box: Hello / world\npicture Logo [a.png]\nremember"
	if got := doc.ExtractText(); got != want {
		t.Errorf("ExtractText =\n%s\nwant\n%s", got, want)
	}
}
