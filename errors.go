package slidemodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// FieldExtractionError reports one property that could not be read. The
// property takes its default and extraction continues.
type FieldExtractionError struct {
	Field string
	Err   error
}

func (e *FieldExtractionError) Error() string {
	return fmt.Sprintf("cannot extract %s: %v", e.Field, e.Err)
}

func (e *FieldExtractionError) Unwrap() error { return e.Err }

// UnsupportedShapeKindError reports a shape that has no constructible
// mapping. The writer replaces it with a rectangle.
type UnsupportedShapeKindError struct {
	Kind string
}

func (e *UnsupportedShapeKindError) Error() string {
	return fmt.Sprintf("unsupported shape kind %q", e.Kind)
}

// InsufficientGeometryError reports a custom path that flattens to fewer
// than two vertices.
type InsufficientGeometryError struct {
	Vertices int
}

func (e *InsufficientGeometryError) Error() string {
	return fmt.Sprintf("custom geometry has %d vertices, need at least 2", e.Vertices)
}

// DanglingRelationshipError reports a relationship id used in a part
// with no entry in that part's relationship table.
type DanglingRelationshipError struct {
	Part string
	ID   string
}

func (e *DanglingRelationshipError) Error() string {
	return fmt.Sprintf("relationship %s referenced in %s has no target", e.ID, e.Part)
}

// MediaNotFoundError reports a media key with no tolerant match in the
// catalog.
type MediaNotFoundError struct {
	Key string
}

func (e *MediaNotFoundError) Error() string {
	return fmt.Sprintf("media %q not found", e.Key)
}

// PropertyLossError records an appearance property that is not carried
// through the round trip (3-D, OLE, non-solid transparency).
type PropertyLossError struct {
	Property string
}

func (e *PropertyLossError) Error() string {
	return fmt.Sprintf("property %s is not preserved", e.Property)
}

// UnreferencedPartError reports a part that no relationship chain from the
// package root reaches.
type UnreferencedPartError struct {
	Part string
}

func (e *UnreferencedPartError) Error() string {
	return fmt.Sprintf("part %s is not referenced", e.Part)
}

// PackageValidationError is the one fatal error: a generated part failed
// the final validation gate.
type PackageValidationError struct {
	Part string
	Err  error
}

func (e *PackageValidationError) Error() string {
	return fmt.Sprintf("package validation failed for %s: %v", e.Part, e.Err)
}

func (e *PackageValidationError) Unwrap() error { return e.Err }

// Warning is one recovered error with its provenance. Slide is 1-based;
// zero means the warning is not tied to a slide.
type Warning struct {
	Slide   int
	ShapeID int
	Part    string
	Field   string
	Err     error
}

func (w Warning) String() string {
	loc := w.Part
	if w.Slide > 0 {
		loc = fmt.Sprintf("slide %d", w.Slide)
		if w.ShapeID > 0 {
			loc += fmt.Sprintf(" shape %d", w.ShapeID)
		}
	}
	if loc == "" {
		return w.Err.Error()
	}
	return loc + ": " + w.Err.Error()
}

// Code returns a stable name for the warning's error class.
func (w Warning) Code() string {
	var (
		fe *FieldExtractionError
		us *UnsupportedShapeKindError
		ig *InsufficientGeometryError
		dr *DanglingRelationshipError
		mn *MediaNotFoundError
		pl *PropertyLossError
		up *UnreferencedPartError
	)
	switch {
	case errors.As(w.Err, &fe):
		return "field_extraction"
	case errors.As(w.Err, &us):
		return "unsupported_shape_kind"
	case errors.As(w.Err, &ig):
		return "insufficient_geometry"
	case errors.As(w.Err, &dr):
		return "dangling_relationship"
	case errors.As(w.Err, &mn):
		return "media_not_found"
	case errors.As(w.Err, &pl):
		return "property_loss"
	case errors.As(w.Err, &up):
		return "unreferenced_part"
	}
	return "other"
}

func (w Warning) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code    string `json:"code"`
		Slide   int    `json:"slide,omitempty"`
		ShapeID int    `json:"shape_id,omitempty"`
		Part    string `json:"part,omitempty"`
		Field   string `json:"field,omitempty"`
		Message string `json:"message"`
	}{w.Code(), w.Slide, w.ShapeID, w.Part, w.Field, w.Err.Error()})
}

// warnings accumulates recovered errors for one pass and mirrors each one
// to the logger.
type warnings struct {
	list []Warning
	log  *slog.Logger
}

func newWarnings(log *slog.Logger) *warnings {
	return &warnings{log: log}
}

func (ws *warnings) add(w Warning) {
	ws.list = append(ws.list, w)
	ws.log.Warn("recovered error",
		slog.String("code", w.Code()),
		slog.Int("slide", w.Slide),
		slog.Int("shape_id", w.ShapeID),
		slog.String("part", w.Part),
		slog.String("error", w.Err.Error()),
	)
}

// field records a FieldExtractionError for a shape property.
func (ws *warnings) field(slide, shapeID int, field string, err error) {
	ws.add(Warning{Slide: slide, ShapeID: shapeID, Field: field, Err: &FieldExtractionError{Field: field, Err: err}})
}

func (ws *warnings) all() []Warning {
	out := make([]Warning, len(ws.list))
	copy(out, ws.list)
	return out
}
