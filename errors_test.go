package slidemodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestWarning_CodeAndString(t *testing.T) {
	tests := []struct {
		w    Warning
		code string
		str  string
	}{
		{Warning{Slide: 2, ShapeID: 5, Err: &FieldExtractionError{Field: "rotation", Err: errors.New("bad")}},
			"field_extraction", "slide 2 shape 5: cannot extract rotation: bad"},
		{Warning{Slide: 1, Err: &UnsupportedShapeKindError{Kind: "blob"}}, "unsupported_shape_kind", `slide 1: unsupported shape kind "blob"`},
		{Warning{Err: &InsufficientGeometryError{Vertices: 1}}, "insufficient_geometry", "custom geometry has 1 vertices, need at least 2"},
		{Warning{Part: "ppt/slides/slide1.xml", Err: &DanglingRelationshipError{Part: "ppt/slides/slide1.xml", ID: "rId4"}},
			"dangling_relationship", "ppt/slides/slide1.xml: relationship rId4 referenced in ppt/slides/slide1.xml has no target"},
		{Warning{Err: fmt.Errorf("wrapped: %w", &MediaNotFoundError{Key: "a.png"})}, "media_not_found", `wrapped: media "a.png" not found`},
		{Warning{Err: &PropertyLossError{Property: "3d"}}, "property_loss", "property 3d is not preserved"},
		{Warning{Part: "ppt/media/a.png", Err: &UnreferencedPartError{Part: "ppt/media/a.png"}},
			"unreferenced_part", "ppt/media/a.png: part ppt/media/a.png is not referenced"},
		{Warning{Err: errors.New("x")}, "other", "x"},
	}
	for _, tt := range tests {
		if got := tt.w.Code(); got != tt.code {
			t.Errorf("Code() = %q, want %q", got, tt.code)
		}
		if got := tt.w.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
	}
}

func TestWarning_JSON(t *testing.T) {
	w := Warning{Slide: 3, ShapeID: 7, Field: "media", Err: &FieldExtractionError{Field: "media", Err: &MediaNotFoundError{Key: "rId2"}}}
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"code":"field_extraction","slide":3,"shape_id":7,"field":"media","message":"cannot extract media: media \"rId2\" not found"}`
	if string(data) != want {
		t.Errorf("got  %s\nwant %s", data, want)
	}
	var nf *MediaNotFoundError
	if !errors.As(w.Err, &nf) {
		t.Error("wrapped cause not reachable")
	}
}

func TestPackageValidationError_Unwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := error(&PackageValidationError{Part: "ppt/slides/slide1.xml", Err: cause})
	if !errors.Is(err, cause) {
		t.Error("cause not unwrapped")
	}
	if err.Error() != "package validation failed for ppt/slides/slide1.xml: unexpected EOF" {
		t.Errorf("Error() = %q", err.Error())
	}
}
