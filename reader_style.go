package slidemodel

import (
	"fmt"
	"strconv"
	"strings"
)

// presetColors covers the a:prstClr values seen in practice.
var presetColors = map[string]ColorSpec{
	"black":  RGB(0, 0, 0),
	"white":  RGB(255, 255, 255),
	"red":    RGB(255, 0, 0),
	"green":  RGB(0, 128, 0),
	"blue":   RGB(0, 0, 255),
	"yellow": RGB(255, 255, 0),
	"gray":   RGB(128, 128, 128),
	"orange": RGB(255, 165, 0),
}

// colorFromFill reads the color choice inside a fill-like container such
// as a:solidFill, a:fgClr or a:gs.
func colorFromFill(n *xmlNode) (ColorSpec, bool) {
	c, _, ok := colorChoice(n)
	return c, ok
}

// colorChoice also reports whether the color carries an alpha modifier,
// which the record cannot hold.
func colorChoice(n *xmlNode) (ColorSpec, bool, bool) {
	if n == nil {
		return ColorSpec{}, false, false
	}
	for _, el := range n.elements() {
		alpha := el.child("alpha") != nil
		switch el.Name.Local {
		case "srgbClr":
			c, err := ParseHexColor(el.attr("val"))
			if err != nil {
				return ColorSpec{}, alpha, false
			}
			return c, alpha, true
		case "sysClr":
			c, err := ParseHexColor(el.attr("lastClr"))
			if err != nil {
				if el.attr("val") == "window" {
					return RGB(255, 255, 255), alpha, true
				}
				return RGB(0, 0, 0), alpha, true
			}
			return c, alpha, true
		case "prstClr":
			c, ok := presetColors[el.attr("val")]
			return c, alpha, ok
		case "schemeClr":
			slot, ok := slotFromScheme(el.attr("val"))
			if !ok {
				return ColorSpec{}, alpha, false
			}
			mod, off := 100000, 0
			if m := el.child("lumMod"); m != nil {
				mod, _ = strconv.Atoi(m.attr("val"))
			}
			if o := el.child("lumOff"); o != nil {
				off, _ = strconv.Atoi(o.attr("val"))
			}
			return ThemeColor(slot, brightnessFromLum(mod, off)), alpha, true
		}
	}
	return ColorSpec{}, false, false
}

// fill reads the fill choice among the children of parent. No fill
// element means the fill is inherited.
func (r *slideReader) fill(parent *xmlNode) FillSpec {
	if parent == nil {
		return FillSpec{}
	}
	for _, el := range parent.elements() {
		switch el.Name.Local {
		case "noFill":
			return NoFill()
		case "solidFill":
			c, alpha, ok := colorChoice(el)
			if alpha {
				r.loss("fill_alpha")
			}
			if !ok {
				r.fieldErr("fill", fmt.Errorf("unreadable solid fill color"))
				return FillSpec{}
			}
			return SolidFill(c)
		case "gradFill":
			f := FillSpec{Type: FillGradient}
			for _, gs := range el.path("gsLst").elements() {
				pos, err := strconv.Atoi(gs.attr("pos"))
				if err != nil {
					r.fieldErr("gradient_stop", err)
					continue
				}
				c, alpha, ok := colorChoice(gs)
				if alpha {
					r.loss("fill_alpha")
				}
				if ok {
					f.Stops = append(f.Stops, GradientStop{Position: float64(pos) / 100000, Color: c})
				}
			}
			if lin := el.child("lin"); lin != nil {
				if ang, err := strconv.ParseInt(lin.attr("ang"), 10, 64); err == nil {
					f.Angle = angleFromOOXML(ang)
				}
			} else if el.child("path") != nil {
				r.loss("gradient_path")
			}
			return f
		case "pattFill":
			fore, _ := colorFromFill(el.child("fgClr"))
			back, ok := colorFromFill(el.child("bgClr"))
			if !ok {
				back = RGB(255, 255, 255)
			}
			return PatternFill(el.attr("prst"), fore, back)
		case "blipFill":
			key, ok := r.mediaKey(relAttr(el.child("blip"), "embed"))
			if !ok {
				r.fieldErr("fill", &MediaNotFoundError{Key: relAttr(el.child("blip"), "embed")})
				return FillSpec{}
			}
			return PictureFill(key)
		case "grpFill":
			r.loss("group_fill")
			return FillSpec{}
		}
	}
	return FillSpec{}
}

// line reads an a:ln. A missing width is the DrawingML default of 9525
// EMU; a noFill line reads as width zero.
func (r *slideReader) line(ln *xmlNode) *LineSpec {
	if ln == nil {
		return nil
	}
	l := &LineSpec{Width: 9525}
	if v := ln.attr("w"); v != "" {
		w, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			r.fieldErr("line_width", err)
		} else {
			l.Width = w
		}
	}
	f := r.fill(ln)
	switch f.Type {
	case FillNone:
		return NoLine()
	case FillSolid:
		l.Color = *f.Color
	case FillInherited:
	default:
		l.Fill = f
	}
	if d := ln.child("prstDash"); d != nil {
		dash, ok := dashFromPrst(d.attr("val"))
		if !ok {
			r.loss("line_dash")
		}
		l.Dash = dash
	}
	if ln.child("custDash") != nil {
		r.loss("line_dash")
	}
	l.HeadEnd = lineEnd(ln.child("headEnd"))
	l.TailEnd = lineEnd(ln.child("tailEnd"))
	return l
}

func lineEnd(n *xmlNode) *LineEnd {
	if n == nil || n.attr("type") == "" || n.attr("type") == "none" {
		return nil
	}
	return &LineEnd{Type: n.attr("type"), Width: n.attr("w"), Length: n.attr("len")}
}

// textBody reads a p:txBody or a:txBody.
func (r *slideReader) textBody(tb *xmlNode) *TextFrameSpec {
	if tb == nil {
		return nil
	}
	t := &TextFrameSpec{}
	if bp := tb.child("bodyPr"); bp != nil {
		t.Anchor = bp.attr("anchor")
		t.Vertical = bp.attr("vert")
		switch bp.attr("wrap") {
		case "square":
			t.Wrap = boolPtr(true)
		case "none":
			t.Wrap = boolPtr(false)
		}
		if bp.hasAttr("lIns") || bp.hasAttr("tIns") || bp.hasAttr("rIns") || bp.hasAttr("bIns") {
			in := &Insets{Left: 91440, Top: 45720, Right: 91440, Bottom: 45720}
			for _, a := range []struct {
				name string
				dst  *int64
			}{{"lIns", &in.Left}, {"tIns", &in.Top}, {"rIns", &in.Right}, {"bIns", &in.Bottom}} {
				if v := bp.attr(a.name); v != "" {
					n, err := strconv.ParseInt(v, 10, 64)
					if err != nil {
						r.fieldErr("text_insets", err)
						continue
					}
					*a.dst = n
				}
			}
			t.Insets = in
		}
		switch {
		case bp.child("normAutofit") != nil:
			t.AutoFit = "norm"
		case bp.child("spAutoFit") != nil:
			t.AutoFit = "shape"
		case bp.child("noAutofit") != nil:
			t.AutoFit = "none"
		}
	}
	for _, p := range tb.elements() {
		if p.Name.Local == "p" {
			t.Paragraphs = append(t.Paragraphs, r.paragraph(p))
		}
	}
	return t
}

func (r *slideReader) paragraph(p *xmlNode) ParagraphSpec {
	var ps ParagraphSpec
	if ppr := p.child("pPr"); ppr != nil {
		ps.Align = ppr.attr("algn")
		if v := ppr.attr("lvl"); v != "" {
			lvl, err := strconv.Atoi(v)
			if err != nil {
				r.fieldErr("paragraph_level", err)
			}
			ps.Level = lvl
		}
	}
	for _, el := range p.elements() {
		switch el.Name.Local {
		case "r", "fld":
			run := RunSpec{Text: el.child("t").text(), Font: r.font(el.child("rPr"))}
			if h := el.path("rPr", "hlinkClick"); h != nil {
				if rel, ok := r.rels.Lookup(relAttr(h, "id")); ok && rel.External {
					run.Link = rel.Target
				}
			}
			ps.Runs = append(ps.Runs, run)
		case "br":
			ps.Runs = append(ps.Runs, RunSpec{Break: true})
		}
	}
	return ps
}

// font reads run properties. It returns nil when nothing the record can
// carry is set.
func (r *slideReader) font(rPr *xmlNode) *FontSpec {
	if rPr == nil {
		return nil
	}
	f := &FontSpec{
		Bold:      rPr.attr("b") == "1" || rPr.attr("b") == "true",
		Italic:    rPr.attr("i") == "1" || rPr.attr("i") == "true",
		Underline: rPr.attr("u") != "" && rPr.attr("u") != "none",
		Strike:    rPr.attr("strike") != "" && rPr.attr("strike") != "noStrike",
	}
	if v := rPr.attr("sz"); v != "" {
		sz, err := strconv.Atoi(v)
		if err != nil {
			r.fieldErr("font_size", err)
		} else {
			f.Size = float64(sz) / 100
		}
	}
	if c, ok := colorFromFill(rPr.child("solidFill")); ok {
		f.Color = &c
	}
	if latin := rPr.child("latin"); latin != nil {
		f.Name = latin.attr("typeface")
	} else if ea := rPr.child("ea"); ea != nil {
		f.Name = ea.attr("typeface")
	}
	if strings.HasPrefix(f.Name, "+") {
		// Theme font reference such as +mn-lt.
		f.Name = ""
	}
	if *f == (FontSpec{}) {
		return nil
	}
	return f
}
