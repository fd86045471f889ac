package slidemodel

import (
	"fmt"
	"math"
	"strings"

	"seehuhn.de/go/geom/vec"
)

// Number of interpolated samples emitted per curve segment.
const (
	cubicSamples = 5
	quadSamples  = 3
)

// Polyline is the flattened form of one custom path in target space.
type Polyline struct {
	Vertices []vec.Vec2
	Closed   bool
}

// Synthesize flattens path commands from a pathW x pathH local space into
// a polyline scaled to targetW x targetH.
//
// Curves are sampled uniformly in t and each sample is taken by linear
// interpolation along the control polygon, not by evaluating the Bezier
// polynomial; the result is an approximation that hugs the control
// polygon. Arcs contribute only their end point. Both are lossy.
func Synthesize(cmds []PathCommand, pathW, pathH, targetW, targetH float64) (Polyline, error) {
	sx, sy := 1.0, 1.0
	if pathW != 0 {
		sx = targetW / pathW
	}
	if pathH != 0 {
		sy = targetH / pathH
	}
	scale := func(p vec.Vec2) vec.Vec2 { return vec.Vec2{X: p.X * sx, Y: p.Y * sy} }

	var out Polyline
	var cur vec.Vec2
	emit := func(p vec.Vec2) {
		out.Vertices = append(out.Vertices, scale(p))
		cur = p
	}

	for _, c := range cmds {
		switch c.Op {
		case OpMoveTo, OpLineTo:
			if len(c.Pts) < 1 {
				continue
			}
			emit(toVec(c.Pts[0]))
		case OpCubicTo:
			if len(c.Pts) < 3 {
				continue
			}
			ctrl := []vec.Vec2{cur, toVec(c.Pts[0]), toVec(c.Pts[1]), toVec(c.Pts[2])}
			for _, p := range samplePolygon(ctrl, cubicSamples) {
				emit(p)
			}
		case OpQuadTo:
			if len(c.Pts) < 2 {
				continue
			}
			ctrl := []vec.Vec2{cur, toVec(c.Pts[0]), toVec(c.Pts[1])}
			for _, p := range samplePolygon(ctrl, quadSamples) {
				emit(p)
			}
		case OpArcTo:
			emit(arcEnd(cur, c))
		case OpClose:
			out.Closed = true
		}
	}

	if len(out.Vertices) < 2 {
		return Polyline{}, &InsufficientGeometryError{Vertices: len(out.Vertices)}
	}
	return out, nil
}

func toVec(p PathPoint) vec.Vec2 { return vec.Vec2{X: p.X, Y: p.Y} }

// samplePolygon returns n points at t = 1/n .. 1 along the polyline
// through ctrl, parameterized uniformly per segment.
func samplePolygon(ctrl []vec.Vec2, n int) []vec.Vec2 {
	segs := float64(len(ctrl) - 1)
	out := make([]vec.Vec2, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n) * segs
		k := int(math.Floor(t))
		if k >= len(ctrl)-1 {
			out = append(out, ctrl[len(ctrl)-1])
			continue
		}
		f := t - float64(k)
		a, b := ctrl[k], ctrl[k+1]
		out = append(out, a.Add(b.Sub(a).Mul(f)))
	}
	return out
}

// arcEnd computes the end point of an a:arcTo starting at cur. The
// ellipse centre is placed so that cur lies at the start angle.
func arcEnd(cur vec.Vec2, c PathCommand) vec.Vec2 {
	st := c.StartAngle * math.Pi / 180
	en := (c.StartAngle + c.SweepAngle) * math.Pi / 180
	centre := vec.Vec2{X: cur.X - c.WR*math.Cos(st), Y: cur.Y - c.HR*math.Sin(st)}
	return vec.Vec2{X: centre.X + c.WR*math.Cos(en), Y: centre.Y + c.HR*math.Sin(en)}
}

// PathXML renders a custom path as an a:path element in its own local
// coordinate space. This is the declarative equivalent used when a shape
// must not be flattened.
func PathXML(p CustomPath) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<a:path w="%d" h="%d">`, roundCoord(p.Width), roundCoord(p.Height)))
	for _, c := range p.Commands {
		switch c.Op {
		case OpMoveTo, OpLineTo:
			if len(c.Pts) < 1 {
				continue
			}
			tag := "moveTo"
			if c.Op == OpLineTo {
				tag = "lnTo"
			}
			b.WriteString("<a:" + tag + ">" + ptXML(c.Pts[0]) + "</a:" + tag + ">")
		case OpCubicTo:
			if len(c.Pts) < 3 {
				continue
			}
			b.WriteString("<a:cubicBezTo>" + ptXML(c.Pts[0]) + ptXML(c.Pts[1]) + ptXML(c.Pts[2]) + "</a:cubicBezTo>")
		case OpQuadTo:
			if len(c.Pts) < 2 {
				continue
			}
			b.WriteString("<a:quadBezTo>" + ptXML(c.Pts[0]) + ptXML(c.Pts[1]) + "</a:quadBezTo>")
		case OpArcTo:
			b.WriteString(fmt.Sprintf(`<a:arcTo wR="%d" hR="%d" stAng="%d" swAng="%d"/>`,
				roundCoord(c.WR), roundCoord(c.HR), angleToOOXML(c.StartAngle), angleToOOXML(c.SweepAngle)))
		case OpClose:
			b.WriteString("<a:close/>")
		}
	}
	b.WriteString("</a:path>")
	return b.String()
}

// PolylineXML renders a flattened polyline as an a:path in a w x h space.
func PolylineXML(p Polyline, w, h int64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<a:path w="%d" h="%d">`, w, h))
	for i, v := range p.Vertices {
		tag := "lnTo"
		if i == 0 {
			tag = "moveTo"
		}
		b.WriteString(fmt.Sprintf(`<a:%s><a:pt x="%d" y="%d"/></a:%s>`, tag, roundCoord(v.X), roundCoord(v.Y), tag))
	}
	if p.Closed {
		b.WriteString("<a:close/>")
	}
	b.WriteString("</a:path>")
	return b.String()
}

// custGeomXML wraps a list of a:path elements in a complete a:custGeom.
func custGeomXML(paths []string) string {
	return `<a:custGeom><a:avLst/><a:gdLst/><a:ahLst/><a:cxnLst/><a:rect l="l" t="t" r="r" b="b"/><a:pathLst>` +
		strings.Join(paths, "") + `</a:pathLst></a:custGeom>`
}

func ptXML(p PathPoint) string {
	return fmt.Sprintf(`<a:pt x="%d" y="%d"/>`, roundCoord(p.X), roundCoord(p.Y))
}

func roundCoord(v float64) int64 {
	return clampEMU(math.Round(v))
}
