package slidemodel

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/vec"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestUnitConversions(t *testing.T) {
	if got := Inch(1); got != 914400 {
		t.Errorf("Inch(1) = %d", got)
	}
	if got := Point(1); got != 12700 {
		t.Errorf("Point(1) = %d", got)
	}
	if got := Centimeter(2.54); got != 914400 {
		t.Errorf("Centimeter(2.54) = %d", got)
	}
	if got := ToDisplay(ToDocument(3.25)); got != 3.25 {
		t.Errorf("round trip of 3.25in = %v", got)
	}
	if got := ToDocument(math.Inf(1)); got != maxEMU {
		t.Errorf("ToDocument(+Inf) = %d, want clamp", got)
	}
	if got := ToDocument(math.NaN()); got != 0 {
		t.Errorf("ToDocument(NaN) = %d", got)
	}
}

func TestUnitRoundTrip(t *testing.T) {
	values := []int64{0, 1, 2, 635, 9525, 12700, 360000, 914400, 914401, 6858000, 12192000, 1 << 32, 1 << 40, 1<<45 + 7}
	for u := int64(0); u < 2000000; u += 9973 {
		values = append(values, u)
	}
	for _, u := range values {
		if got := ToDocument(ToDisplay(u)); got != u {
			t.Errorf("ToDocument(ToDisplay(%d)) = %d", u, got)
		}
	}
}

func TestAngles(t *testing.T) {
	if got := angleToOOXML(45); got != 2700000 {
		t.Errorf("angleToOOXML(45) = %d", got)
	}
	if got := angleFromOOXML(5400000); got != 90 {
		t.Errorf("angleFromOOXML = %v", got)
	}
	for in, want := range map[float64]float64{-90: 270, 720: 0, 359.5: 359.5, 450: 90} {
		if got := normalizeRotation(in); got != want {
			t.Errorf("normalizeRotation(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSynthesize_CubicSamplesControlPolygon(t *testing.T) {
	cmds := []PathCommand{MoveTo(0, 0), CubicTo(10, 0, 10, 10, 0, 10), Close()}
	poly, err := Synthesize(cmds, 10, 10, 100, 100)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	want := []vec.Vec2{{X: 0, Y: 0}, {X: 60, Y: 0}, {X: 100, Y: 20}, {X: 100, Y: 80}, {X: 60, Y: 100}, {X: 0, Y: 100}}
	if diff := cmp.Diff(want, poly.Vertices, approx); diff != "" {
		t.Errorf("vertices (-want +got):\n%s", diff)
	}
	if !poly.Closed {
		t.Error("expected closed polyline")
	}
}

func TestSynthesize_QuadAndArc(t *testing.T) {
	poly, err := Synthesize([]PathCommand{MoveTo(0, 0), QuadTo(5, 0, 10, 10)}, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(poly.Vertices) != 1+quadSamples {
		t.Fatalf("got %d vertices, want %d", len(poly.Vertices), 1+quadSamples)
	}
	if diff := cmp.Diff(vec.Vec2{X: 10, Y: 10}, poly.Vertices[len(poly.Vertices)-1], approx); diff != "" {
		t.Errorf("quad end (-want +got):\n%s", diff)
	}

	// Half an ellipse from the right-hand side of a circle of radius 5
	// ends on its left-hand side.
	poly, err = Synthesize([]PathCommand{MoveTo(10, 5), ArcTo(5, 5, 0, 180)}, 20, 10, 20, 10)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if diff := cmp.Diff([]vec.Vec2{{X: 10, Y: 5}, {X: 0, Y: 5}}, poly.Vertices, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("arc (-want +got):\n%s", diff)
	}
	if poly.Closed {
		t.Error("open path reported closed")
	}
}

func TestSynthesize_InsufficientGeometry(t *testing.T) {
	for name, cmds := range map[string][]PathCommand{
		"empty":       nil,
		"single move": {MoveTo(1, 1)},
		"close only":  {Close()},
		"short cubic": {MoveTo(0, 0), {Op: OpCubicTo, Pts: []PathPoint{{X: 1, Y: 1}}}},
	} {
		_, err := Synthesize(cmds, 1, 1, 1, 1)
		var ig *InsufficientGeometryError
		if !errors.As(err, &ig) {
			t.Errorf("%s: err = %v, want InsufficientGeometryError", name, err)
		}
	}
}

func TestPathXML(t *testing.T) {
	p := CustomPath{Width: 100, Height: 50, Commands: []PathCommand{
		MoveTo(0, 0), LineTo(100, 0), QuadTo(100, 50, 50, 50), ArcTo(25, 25, 90, 180), Close(),
	}}
	got := PathXML(p)
	for _, want := range []string{
		`<a:path w="100" h="50">`,
		`<a:moveTo><a:pt x="0" y="0"/></a:moveTo>`,
		`<a:lnTo><a:pt x="100" y="0"/></a:lnTo>`,
		`<a:quadBezTo><a:pt x="100" y="50"/><a:pt x="50" y="50"/></a:quadBezTo>`,
		`<a:arcTo wR="25" hR="25" stAng="5400000" swAng="10800000"/>`,
		`<a:close/></a:path>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("PathXML missing %s in\n%s", want, got)
		}
	}
}

func TestPolylineXML(t *testing.T) {
	got := PolylineXML(Polyline{Vertices: []vec.Vec2{{X: 0, Y: 0}, {X: 10.4, Y: 20.6}}, Closed: true}, 10, 21)
	want := `<a:path w="10" h="21"><a:moveTo><a:pt x="0" y="0"/></a:moveTo><a:lnTo><a:pt x="10" y="21"/></a:lnTo><a:close/></a:path>`
	if got != want {
		t.Errorf("PolylineXML =\n%s\nwant\n%s", got, want)
	}
}
