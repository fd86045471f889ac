package slidemodel

import (
	"encoding/json"
	"fmt"
	"io"
)

// RecordVersion is the version stamped into every Document.
const RecordVersion = 1

// Document is the language-neutral intermediate record of a presentation.
// It is the only thing exchanged with collaborators: the reader produces
// one and the writer consumes one.
type Document struct {
	Version    int                `json:"version"`
	SlideSize  SlideSize          `json:"slide_size"`
	Slides     []SlideRecord      `json:"slides"`
	Layouts    []LayoutRecord     `json:"layouts,omitempty"`
	Theme      *Theme             `json:"theme,omitempty"`
	Media      *MediaCatalog      `json:"media,omitempty"`
	Properties DocumentProperties `json:"properties"`
}

// SlideRecord is one slide. Shapes are in z-order, back to front.
type SlideRecord struct {
	SlideIndex int          `json:"slide_index"`
	Layout     string       `json:"layout,omitempty"`
	Background *FillSpec    `json:"background,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	Hidden     bool         `json:"hidden,omitempty"`
	Shapes     []ShapeModel `json:"shapes"`
}

// LayoutRecord names one slide layout. Type is the ST_SlideLayoutType
// value such as "title" or "blank".
type LayoutRecord struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// NewDocument returns an empty document with the default size, theme and
// properties.
func NewDocument() *Document {
	return &Document{
		Version:    RecordVersion,
		SlideSize:  DefaultSlideSize(),
		Theme:      DefaultTheme(),
		Media:      NewMediaCatalog(),
		Properties: NewDocumentProperties(),
	}
}

// AddSlide appends a slide and returns it for filling in.
func (d *Document) AddSlide(shapes ...ShapeModel) *SlideRecord {
	d.Slides = append(d.Slides, SlideRecord{SlideIndex: len(d.Slides) + 1, Shapes: shapes})
	return &d.Slides[len(d.Slides)-1]
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// DecodeDocument reads a JSON record, validating it against the record
// schema before unmarshalling.
func DecodeDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if err := validateRecord(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc.Media == nil {
		doc.Media = NewMediaCatalog()
	}
	return &doc, nil
}

// Extraction is the result of reading a container: the record plus every
// error recovered along the way.
type Extraction struct {
	Document *Document `json:"document"`
	Errors   []Warning `json:"errors,omitempty"`
}
