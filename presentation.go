// Package slidemodel reads PowerPoint presentation files (.pptx) into a
// language-neutral JSON record and generates valid packages back from
// such records, following the Office Open XML (OOXML) standard.
//
// Extraction never fails on a single bad shape: recoverable problems are
// collected as Warnings next to the record. Generation recovers the same
// way, substituting simpler shapes where needed, and only fails when the
// assembled package does not pass validation.
//
// See the Version variable for the current engine version.
package slidemodel

import (
	"errors"
	"fmt"
	"strings"
)

// Slide returns a slide by 0-based index.
func (d *Document) Slide(index int) (*SlideRecord, error) {
	if index < 0 || index >= len(d.Slides) {
		return nil, errors.New("slide index out of range")
	}
	return &d.Slides[index], nil
}

// RemoveSlide removes a slide by index.
func (d *Document) RemoveSlide(index int) error {
	if index < 0 || index >= len(d.Slides) {
		return errors.New("slide index out of range")
	}
	d.Slides = append(d.Slides[:index], d.Slides[index+1:]...)
	d.renumber()
	return nil
}

// MoveSlide moves a slide from one index to another.
func (d *Document) MoveSlide(fromIndex, toIndex int) error {
	if fromIndex < 0 || fromIndex >= len(d.Slides) {
		return errors.New("fromIndex out of range")
	}
	if toIndex < 0 || toIndex >= len(d.Slides) {
		return errors.New("toIndex out of range")
	}
	if fromIndex == toIndex {
		return nil
	}
	slide := d.Slides[fromIndex]
	d.Slides = append(d.Slides[:fromIndex], d.Slides[fromIndex+1:]...)
	d.Slides = append(d.Slides, SlideRecord{})
	copy(d.Slides[toIndex+1:], d.Slides[toIndex:])
	d.Slides[toIndex] = slide
	d.renumber()
	return nil
}

// CopySlide appends a deep copy of the slide at index.
func (d *Document) CopySlide(index int) (*SlideRecord, error) {
	if index < 0 || index >= len(d.Slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(d.Slides)-1)
	}
	src := d.Slides[index]
	dst := src
	if src.Background != nil {
		bg := *src.Background
		dst.Background = &bg
	}
	dst.Shapes = make([]ShapeModel, len(src.Shapes))
	for i, s := range src.Shapes {
		dst.Shapes[i] = s.clone()
	}
	d.Slides = append(d.Slides, dst)
	d.renumber()
	return &d.Slides[len(d.Slides)-1], nil
}

// renumber keeps SlideIndex equal to the 1-based position.
func (d *Document) renumber() {
	for i := range d.Slides {
		d.Slides[i].SlideIndex = i + 1
	}
}

// ExtractText returns the indexable text of every shape and the notes,
// one line per shape.
func (d *Document) ExtractText() string {
	var parts []string
	for _, slide := range d.Slides {
		for i := range slide.Shapes {
			parts = append(parts, slide.Shapes[i].IndexText())
		}
		if slide.Notes != "" {
			parts = append(parts, slide.Notes)
		}
	}
	return joinNonEmpty(parts, "\n")
}

// clone copies the reference-typed fields a caller is likely to mutate.
func (s ShapeModel) clone() ShapeModel {
	if s.Line != nil {
		l := *s.Line
		s.Line = &l
	}
	if s.Text != nil {
		t := *s.Text
		t.Paragraphs = append([]ParagraphSpec(nil), t.Paragraphs...)
		s.Text = &t
	}
	if s.Kind.Geometry != nil {
		g := *s.Kind.Geometry
		s.Kind.Geometry = &g
	}
	if s.Relationships != nil {
		rels := make(map[string]Binding, len(s.Relationships))
		for k, v := range s.Relationships {
			rels[k] = v
		}
		s.Relationships = rels
	}
	s.GroupPath = append([]string(nil), s.GroupPath...)
	return s
}

func joinNonEmpty(parts []string, sep string) string {
	var result []string
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return strings.Join(result, sep)
}
