package slidemodel

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeIndexer struct{ got []IndexEntry }

func (f *fakeIndexer) Index(_ context.Context, entries []IndexEntry) error {
	f.got = append(f.got, entries...)
	return nil
}

type fakeSuggester struct {
	prompt string
	cmds   []PathCommand
	err    error
}

func (f *fakeSuggester) Suggest(_ context.Context, prompt string) ([]PathCommand, error) {
	f.prompt = prompt
	return f.cmds, f.err
}

type fakeLoader map[string]string

func (f fakeLoader) Load(_ context.Context, path string) (string, error) {
	s, ok := f[path]
	if !ok {
		return "", errors.New("no such context")
	}
	return s, nil
}

type fakeRenderer struct{ size int }

func (f *fakeRenderer) Render(_ context.Context, pptx []byte) ([][]byte, error) {
	f.size = len(pptx)
	return [][]byte{[]byte("png")}, nil
}

func TestIndexDocument(t *testing.T) {
	doc := NewDocument()
	doc.AddSlide(rect(2, "Red"))
	doc.AddSlide(ShapeModel{ShapeID: 3, Name: "Logo", Kind: PictureKind("logo.png")})

	ix := &fakeIndexer{}
	if err := IndexDocument(context.Background(), ix, doc); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}
	want := []IndexEntry{
		{Slide: 1, ShapeID: 2, Kind: "auto_shape", Text: "auto_shape Red [rectangle]"},
		{Slide: 2, ShapeID: 3, Kind: "picture", Text: "picture Logo [logo.png]"},
	}
	if diff := cmp.Diff(want, ix.got); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}

	empty := &fakeIndexer{}
	if err := IndexDocument(context.Background(), empty, NewDocument()); err != nil || empty.got != nil {
		t.Errorf("empty document indexed: %v %v", empty.got, err)
	}
}

func TestSuggestShape(t *testing.T) {
	tri := []PathCommand{
		{Op: OpMoveTo, Pts: []PathPoint{{X: 50, Y: 0}}},
		{Op: OpLineTo, Pts: []PathPoint{{X: 100, Y: 100}}},
		{Op: OpLineTo, Pts: []PathPoint{{X: 0, Y: 100}}},
		Close(),
	}
	s := &fakeSuggester{cmds: tri}
	loader := fakeLoader{"brand.md": "Use triangles."}

	shape, err := SuggestShape(context.Background(), s, loader, "brand.md", "a warning sign", 0, 0, Inch(1), Inch(1))
	if err != nil {
		t.Fatalf("SuggestShape: %v", err)
	}
	if !strings.HasPrefix(s.prompt, "Use triangles.") || !strings.HasSuffix(s.prompt, "a warning sign") {
		t.Errorf("prompt = %q", s.prompt)
	}
	g := shape.Kind.Geometry
	if shape.Kind.Type != KindAutoShape || g == nil || g.Type != GeometryCustom || len(g.Paths) != 1 {
		t.Fatalf("kind = %+v", shape.Kind)
	}
	if g.Paths[0].Width != float64(Inch(1)) {
		t.Errorf("path width = %v", g.Paths[0].Width)
	}

	// The suggestion is generated like any other custom shape.
	shape.ShapeID = 2
	doc := NewDocument()
	doc.AddSlide(shape)
	res := generate(t, doc)
	if len(res.Warnings) != 0 {
		t.Errorf("warnings: %v", res.Warnings)
	}

	if _, err := SuggestShape(context.Background(), s, loader, "missing.md", "x", 0, 0, 10, 10); err == nil {
		t.Error("loader failure ignored")
	}
	s.cmds = []PathCommand{{Op: OpMoveTo, Pts: []PathPoint{{X: 1, Y: 1}}}}
	var ig *InsufficientGeometryError
	if _, err := SuggestShape(context.Background(), s, nil, "", "x", 0, 0, 10, 10); !errors.As(err, &ig) {
		t.Errorf("degenerate suggestion err = %v", err)
	}
	s.err = errors.New("model offline")
	if _, err := SuggestShape(context.Background(), s, nil, "", "x", 0, 0, 10, 10); err == nil {
		t.Error("suggester failure ignored")
	}
}

func TestPreview(t *testing.T) {
	doc := NewDocument()
	doc.AddSlide(rect(2, "A"))
	r := &fakeRenderer{}
	pages, err := Preview(context.Background(), r, doc)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(pages) != 1 || r.size == 0 {
		t.Errorf("pages = %d, package size = %d", len(pages), r.size)
	}
	if _, err := Preview(context.Background(), r, nil); err == nil {
		t.Error("nil document previewed")
	}
}
