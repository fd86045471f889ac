package slidemodel

import "context"

// IndexEntry is one shape as handed to a search indexer.
type IndexEntry struct {
	Slide   int    `json:"slide"`
	ShapeID int    `json:"shape_id"`
	Kind    string `json:"kind"`
	Text    string `json:"text"`
}

// ShapeIndexer stores shape descriptions for retrieval.
type ShapeIndexer interface {
	Index(ctx context.Context, entries []IndexEntry) error
}

// ShapeSuggester turns a free-text prompt into custom path commands.
type ShapeSuggester interface {
	Suggest(ctx context.Context, prompt string) ([]PathCommand, error)
}

// SpecContextLoader loads reference material for a suggester prompt.
type SpecContextLoader interface {
	Load(ctx context.Context, path string) (string, error)
}

// PreviewRenderer renders a generated package to one image per slide.
type PreviewRenderer interface {
	Render(ctx context.Context, pptx []byte) ([][]byte, error)
}

// IndexEntries builds the indexer input for every shape of doc.
func IndexEntries(doc *Document) []IndexEntry {
	var out []IndexEntry
	for _, slide := range doc.Slides {
		for i := range slide.Shapes {
			s := &slide.Shapes[i]
			out = append(out, IndexEntry{
				Slide:   slide.SlideIndex,
				ShapeID: s.ShapeID,
				Kind:    s.Kind.Type.String(),
				Text:    s.IndexText(),
			})
		}
	}
	return out
}

// IndexDocument sends every shape of doc to ix in one batch.
func IndexDocument(ctx context.Context, ix ShapeIndexer, doc *Document) error {
	entries := IndexEntries(doc)
	if len(entries) == 0 {
		return nil
	}
	return ix.Index(ctx, entries)
}

// SuggestShape asks s for a path, loading context first when a loader is
// given, and returns it as a custom freeform shape at the given placement.
// A suggestion the synthesizer cannot turn into a polygon is rejected.
func SuggestShape(ctx context.Context, s ShapeSuggester, loader SpecContextLoader, contextPath, prompt string, x, y, w, h int64) (ShapeModel, error) {
	if loader != nil && contextPath != "" {
		extra, err := loader.Load(ctx, contextPath)
		if err != nil {
			return ShapeModel{}, err
		}
		prompt = extra + "\n\n" + prompt
	}
	cmds, err := s.Suggest(ctx, prompt)
	if err != nil {
		return ShapeModel{}, err
	}
	if _, err := Synthesize(cmds, float64(w), float64(h), float64(w), float64(h)); err != nil {
		return ShapeModel{}, err
	}
	g := CustomGeometry(CustomPath{Width: float64(w), Height: float64(h), Commands: cmds})
	return ShapeModel{
		Name:    "Suggested Shape",
		OffsetX: x, OffsetY: y, ExtentW: w, ExtentH: h,
		Kind: AutoShapeKind(g),
		Line: SolidLine(Point(1), ThemeColor(SlotAccent1, 0)),
		Fill: SolidFill(ThemeColor(SlotAccent1, 0.4)),
	}, nil
}

// Preview generates a package and hands it to r.
func Preview(ctx context.Context, r PreviewRenderer, doc *Document, opts ...WriteOption) ([][]byte, error) {
	res, err := Generate(doc, opts...)
	if err != nil {
		return nil, err
	}
	data, err := res.Bytes()
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, data)
}
