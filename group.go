package slidemodel

import "math"

// PlaceholderRole is the p:ph type of a placeholder shape.
type PlaceholderRole string

const (
	PlaceholderTitle    PlaceholderRole = "title"
	PlaceholderBody     PlaceholderRole = "body"
	PlaceholderCtrTitle PlaceholderRole = "ctrTitle"
	PlaceholderSubTitle PlaceholderRole = "subTitle"
	PlaceholderDate     PlaceholderRole = "dt"
	PlaceholderFooter   PlaceholderRole = "ftr"
	PlaceholderSlideNum PlaceholderRole = "sldNum"
	PlaceholderPicture  PlaceholderRole = "pic"
	PlaceholderObject   PlaceholderRole = "obj"
)

// groupFrame maps a group's child coordinate space (chOff/chExt) onto its
// own placement (off/ext) in the parent space. Frames compose for nested
// groups.
type groupFrame struct {
	name           string
	offX, offY     int64
	extX, extY     int64
	chOffX, chOffY int64
	chExtX, chExtY int64
}

// scale returns the child-to-parent scale factors. A zero child extent
// maps 1:1.
func (g groupFrame) scale() (float64, float64) {
	sx, sy := 1.0, 1.0
	if g.chExtX != 0 {
		sx = float64(g.extX) / float64(g.chExtX)
	}
	if g.chExtY != 0 {
		sy = float64(g.extY) / float64(g.chExtY)
	}
	return sx, sy
}

// apply maps a child rectangle into the group's parent space.
func (g groupFrame) apply(x, y, w, h int64) (int64, int64, int64, int64) {
	sx, sy := g.scale()
	nx := g.offX + int64(math.Round(float64(x-g.chOffX)*sx))
	ny := g.offY + int64(math.Round(float64(y-g.chOffY)*sy))
	return nx, ny, int64(math.Round(float64(w) * sx)), int64(math.Round(float64(h) * sy))
}

// flattenRect applies a stack of frames, innermost last.
func flattenRect(frames []groupFrame, x, y, w, h int64) (int64, int64, int64, int64) {
	for i := len(frames) - 1; i >= 0; i-- {
		x, y, w, h = frames[i].apply(x, y, w, h)
	}
	return x, y, w, h
}

func groupPath(frames []groupFrame) []string {
	if len(frames) == 0 {
		return nil
	}
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.name
	}
	return out
}
