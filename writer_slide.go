package slidemodel

import (
	"fmt"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"
)

// slideBuilder turns ShapeModels into shape XML for one slide. Every
// relationship a shape needs is registered in rels as it is built.
type slideBuilder struct {
	g    *GenerationContext
	num  int
	part string
	rels *RelTable
}

func newSlideBuilder(g *GenerationContext, num int) *slideBuilder {
	part := slidePart(num)
	return &slideBuilder{g: g, num: num, part: part, rels: g.rels.Table(part)}
}

func (b *slideBuilder) warn(s *ShapeModel, err error) {
	b.g.warnings.add(Warning{Slide: b.num, ShapeID: s.ShapeID, Part: b.part, Err: err})
}

// classify resolves the kind a shape is built as, falling back to its
// legacy type code when Kind is unset.
func classify(s *ShapeModel) (KindType, error) {
	if s.Kind.Type != KindUnset {
		return s.Kind.Type, nil
	}
	if k, ok := classifyLegacy(s.LegacyType); ok {
		return k, nil
	}
	kind := s.LegacyType
	if kind == "" {
		kind = "unset"
	}
	return KindUnset, &UnsupportedShapeKindError{Kind: kind}
}

// build renders one shape. An error means the caller must substitute a
// fallback.
func (b *slideBuilder) build(s *ShapeModel) (string, error) {
	kind, err := classify(s)
	if err != nil {
		return "", err
	}
	switch kind {
	case KindChart:
		return b.chartXML(s)
	case KindTable:
		return b.tableXML(s)
	case KindPicture:
		return b.pictureXML(s)
	case KindTextBox:
		return b.textShapeXML(s, `<p:cNvSpPr txBox="1"/>`, "<p:nvPr/>")
	case KindPlaceholder:
		return b.placeholderXML(s)
	case KindConnector:
		return b.connectorXML(s)
	default:
		return b.autoShapeXML(s)
	}
}

// --- common fragments ---

func (b *slideBuilder) extents(s *ShapeModel) (int64, int64) {
	w, fixedW := clampExtent(s.ExtentW)
	h, fixedH := clampExtent(s.ExtentH)
	if fixedW || fixedH {
		b.warn(s, &FieldExtractionError{Field: "extent", Err: fmt.Errorf("negative extent %dx%d clamped to 0", s.ExtentW, s.ExtentH)})
	}
	return w, h
}

// xfrmAttrs builds the attribute string for <a:xfrm> including rotation and flip.
func xfrmAttrs(s *ShapeModel) string {
	var sb strings.Builder
	if rot := normalizeRotation(s.Rotation); rot != 0 {
		fmt.Fprintf(&sb, ` rot="%d"`, angleToOOXML(rot))
	}
	if s.FlipH {
		sb.WriteString(` flipH="1"`)
	}
	if s.FlipV {
		sb.WriteString(` flipV="1"`)
	}
	return sb.String()
}

func (b *slideBuilder) xfrmXML(s *ShapeModel, tag string) string {
	w, h := b.extents(s)
	attrs := ""
	if tag == "a:xfrm" {
		attrs = xfrmAttrs(s)
	}
	return fmt.Sprintf(`<%s%s><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></%s>`,
		tag, attrs, s.OffsetX, s.OffsetY, w, h, tag)
}

func cNvPrXML(s *ShapeModel, fallbackName string) string {
	name := s.Name
	if name == "" {
		name = fmt.Sprintf("%s %d", fallbackName, s.ShapeID)
	}
	descr := ""
	if s.Descr != "" {
		descr = fmt.Sprintf(` descr="%s"`, xmlEscape(s.Descr))
	}
	return fmt.Sprintf(`<p:cNvPr id="%d" name="%s"%s/>`, s.ShapeID, xmlEscape(name), descr)
}

func colorXML(c ColorSpec) string {
	if c.Type == ColorTheme {
		mod, off := lumModOff(c.Brightness)
		var mods string
		if mod != 100000 {
			mods += fmt.Sprintf(`<a:lumMod val="%d"/>`, mod)
		}
		if off != 0 {
			mods += fmt.Sprintf(`<a:lumOff val="%d"/>`, off)
		}
		if mods == "" {
			return fmt.Sprintf(`<a:schemeClr val="%s"/>`, c.Slot.SchemeName())
		}
		return fmt.Sprintf(`<a:schemeClr val="%s">%s</a:schemeClr>`, c.Slot.SchemeName(), mods)
	}
	return fmt.Sprintf(`<a:srgbClr val="%s"/>`, c.Hex())
}

func colorOr(c *ColorSpec, def ColorSpec) ColorSpec {
	if c == nil {
		return def
	}
	return *c
}

// fillXML renders a fill. Inherited fills produce nothing so the layout
// or theme applies.
func (b *slideBuilder) fillXML(s *ShapeModel, f FillSpec) string {
	switch f.Type {
	case FillNone:
		return "<a:noFill/>"
	case FillSolid:
		return "<a:solidFill>" + colorXML(colorOr(f.Color, RGB(0, 0, 0))) + "</a:solidFill>"
	case FillGradient:
		var sb strings.Builder
		sb.WriteString(`<a:gradFill rotWithShape="1"><a:gsLst>`)
		for _, st := range f.normalizedStops() {
			fmt.Fprintf(&sb, `<a:gs pos="%d">%s</a:gs>`, int(math.Round(st.Position*100000)), colorXML(st.Color))
		}
		fmt.Fprintf(&sb, `</a:gsLst><a:lin ang="%d" scaled="1"/></a:gradFill>`, angleToOOXML(normalizeRotation(f.Angle)))
		return sb.String()
	case FillPattern:
		prst := f.Pattern
		if prst == "" {
			prst = "pct50"
		}
		return fmt.Sprintf(`<a:pattFill prst="%s"><a:fgClr>%s</a:fgClr><a:bgClr>%s</a:bgClr></a:pattFill>`,
			xmlEscape(prst), colorXML(colorOr(f.Fore, RGB(0, 0, 0))), colorXML(colorOr(f.Back, RGB(255, 255, 255))))
	case FillPicture:
		target, err := b.g.resolveMedia(f.MediaKey)
		if err != nil {
			b.warn(s, err)
			return "<a:solidFill>" + colorXML(b.placeholderColor()) + "</a:solidFill>"
		}
		rid := b.relFor(relTypeImage, relativeTarget(b.part, target), false)
		return fmt.Sprintf(`<a:blipFill rotWithShape="1"><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></a:blipFill>`, rid)
	}
	return ""
}

func (b *slideBuilder) placeholderColor() ColorSpec {
	c, err := ParseHexColor(b.g.opts.placeholderColor)
	if err != nil {
		return RGB(0xD9, 0xD9, 0xD9)
	}
	return c
}

// lineXML renders an outline. A zero width always becomes an explicit
// noFill line.
func (b *slideBuilder) lineXML(s *ShapeModel, l *LineSpec) string {
	if l == nil {
		return ""
	}
	if l.Width <= 0 {
		return "<a:ln><a:noFill/></a:ln>"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `<a:ln w="%d">`, l.Width)
	switch l.Fill.Type {
	case FillInherited:
		sb.WriteString("<a:solidFill>" + colorXML(l.Color) + "</a:solidFill>")
	case FillSolid:
		sb.WriteString("<a:solidFill>" + colorXML(colorOr(l.Fill.Color, l.Color)) + "</a:solidFill>")
	case FillPicture:
		// a:ln has no blip fill; keep the stroke visible.
		sb.WriteString("<a:solidFill>" + colorXML(l.Color) + "</a:solidFill>")
	default:
		sb.WriteString(b.fillXML(s, l.Fill))
	}
	if l.Dash != DashSolid {
		fmt.Fprintf(&sb, `<a:prstDash val="%s"/>`, l.Dash.prstDash())
	}
	sb.WriteString(lineEndXML("a:headEnd", l.HeadEnd))
	sb.WriteString(lineEndXML("a:tailEnd", l.TailEnd))
	sb.WriteString("</a:ln>")
	return sb.String()
}

func lineEndXML(tag string, e *LineEnd) string {
	if e == nil || e.Type == "" || e.Type == "none" {
		return ""
	}
	attrs := fmt.Sprintf(` type="%s"`, xmlEscape(e.Type))
	if e.Width != "" {
		attrs += fmt.Sprintf(` w="%s"`, xmlEscape(e.Width))
	}
	if e.Length != "" {
		attrs += fmt.Sprintf(` len="%s"`, xmlEscape(e.Length))
	}
	return "<" + tag + attrs + "/>"
}

const shapeStyleXML = `<p:style><a:lnRef idx="2"><a:schemeClr val="accent1"><a:shade val="50000"/></a:schemeClr></a:lnRef>` +
	`<a:fillRef idx="1"><a:schemeClr val="accent1"/></a:fillRef><a:effectRef idx="0"><a:schemeClr val="accent1"/></a:effectRef>` +
	`<a:fontRef idx="minor"><a:schemeClr val="lt1"/></a:fontRef></p:style>`

func styleXML(s *ShapeModel) string {
	if s.HasStyle {
		return shapeStyleXML
	}
	return ""
}

// relFor returns an id for the relationship, sharing an existing entry
// with the same type and target.
func (b *slideBuilder) relFor(relType, target string, external bool) string {
	if id, ok := b.rels.FindTarget(relType, target); ok {
		return id
	}
	return b.rels.Add(relType, target, external)
}

// --- text ---

func (b *slideBuilder) textBodyXML(t *TextFrameSpec, tag string) string {
	if t == nil {
		return ""
	}
	var attrs strings.Builder
	if t.Wrap != nil {
		if *t.Wrap {
			attrs.WriteString(` wrap="square"`)
		} else {
			attrs.WriteString(` wrap="none"`)
		}
	}
	if in := t.Insets; in != nil {
		fmt.Fprintf(&attrs, ` lIns="%d" tIns="%d" rIns="%d" bIns="%d"`, in.Left, in.Top, in.Right, in.Bottom)
	}
	if t.Anchor != "" {
		fmt.Fprintf(&attrs, ` anchor="%s"`, xmlEscape(t.Anchor))
	}
	if t.Vertical != "" {
		fmt.Fprintf(&attrs, ` vert="%s"`, xmlEscape(t.Vertical))
	}
	autofit := ""
	switch t.AutoFit {
	case "norm":
		autofit = "<a:normAutofit/>"
	case "shape":
		autofit = "<a:spAutoFit/>"
	case "none":
		autofit = "<a:noAutofit/>"
	}
	var paras strings.Builder
	for _, p := range t.Paragraphs {
		paras.WriteString(b.paragraphXML(p))
	}
	if len(t.Paragraphs) == 0 {
		paras.WriteString(`<a:p><a:endParaRPr lang="en-US" dirty="0"/></a:p>`)
	}
	return fmt.Sprintf(`<%s><a:bodyPr%s>%s</a:bodyPr><a:lstStyle/>%s</%s>`, tag, attrs.String(), autofit, paras.String(), tag)
}

func (b *slideBuilder) paragraphXML(p ParagraphSpec) string {
	var attrs string
	if p.Align != "" {
		attrs += fmt.Sprintf(` algn="%s"`, xmlEscape(p.Align))
	}
	if p.Level > 0 {
		attrs += fmt.Sprintf(` lvl="%d"`, p.Level)
	}
	var runs strings.Builder
	for _, r := range p.Runs {
		if r.Break {
			runs.WriteString("<a:br/>")
			continue
		}
		runs.WriteString(b.runXML(r))
	}
	pPr := ""
	if attrs != "" {
		pPr = "<a:pPr" + attrs + "/>"
	}
	return "<a:p>" + pPr + runs.String() + "</a:p>"
}

func (b *slideBuilder) runXML(r RunSpec) string {
	attrs := ` lang="en-US" dirty="0"`
	var children strings.Builder
	if f := r.Font; f != nil {
		if f.Size > 0 {
			attrs += fmt.Sprintf(` sz="%d"`, int(math.Round(f.Size*100)))
		}
		if f.Bold {
			attrs += ` b="1"`
		}
		if f.Italic {
			attrs += ` i="1"`
		}
		if f.Underline {
			attrs += ` u="sng"`
		}
		if f.Strike {
			attrs += ` strike="sngStrike"`
		}
		if f.Color != nil {
			children.WriteString("<a:solidFill>" + colorXML(*f.Color) + "</a:solidFill>")
		}
		if f.Name != "" {
			fmt.Fprintf(&children, `<a:latin typeface="%s"/>`, xmlEscape(f.Name))
		}
	}
	if r.Link != "" {
		rid := b.relFor(relTypeHyperlink, r.Link, true)
		fmt.Fprintf(&children, `<a:hlinkClick r:id="%s"/>`, rid)
	}
	rPr := "<a:rPr" + attrs + "/>"
	if children.Len() > 0 {
		rPr = "<a:rPr" + attrs + ">" + children.String() + "</a:rPr>"
	}
	return "<a:r>" + rPr + "<a:t>" + xmlEscape(r.Text) + "</a:t></a:r>"
}

// --- shape kinds ---

func (b *slideBuilder) spXML(s *ShapeModel, cNvSpPr, nvPr, geometry string) string {
	return fmt.Sprintf(`<p:sp>
  <p:nvSpPr>%s%s%s</p:nvSpPr>
  <p:spPr>%s%s%s%s</p:spPr>%s%s
</p:sp>`,
		cNvPrXML(s, "Shape"), cNvSpPr, nvPr,
		b.xfrmXML(s, "a:xfrm"), geometry, b.fillXML(s, s.Fill), b.lineXML(s, s.Line),
		styleXML(s), b.textBodyXML(s.Text, "p:txBody"))
}

func presetGeomXML(prst string, adjust map[string]int) string {
	if len(adjust) == 0 {
		return fmt.Sprintf(`<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, prst)
	}
	names := make([]string, 0, len(adjust))
	for n := range adjust {
		names = append(names, n)
	}
	sort.Strings(names)
	var gd strings.Builder
	for _, n := range names {
		fmt.Fprintf(&gd, `<a:gd name="%s" fmla="val %d"/>`, xmlEscape(n), adjust[n])
	}
	return fmt.Sprintf(`<a:prstGeom prst="%s"><a:avLst>%s</a:avLst></a:prstGeom>`, prst, gd.String())
}

func (b *slideBuilder) autoShapeXML(s *ShapeModel) (string, error) {
	g := s.Kind.Geometry
	if g == nil {
		return b.spXML(s, "<p:cNvSpPr/>", "<p:nvPr/>", presetGeomXML("rect", nil)), nil
	}
	if g.Type == GeometryPreset {
		prst, err := presetForName(g.Preset)
		if err != nil {
			if s.OriginalXML == "" {
				return "", err
			}
			b.warn(s, err)
			return b.spliceFragment(s)
		}
		return b.spXML(s, "<p:cNvSpPr/>", "<p:nvPr/>", presetGeomXML(prst, g.Adjust)), nil
	}
	if s.IsFreeform() && s.OriginalXML != "" {
		return b.spliceFragment(s)
	}
	geom, err := b.customGeomXML(s, g)
	if err != nil {
		return "", err
	}
	return b.spXML(s, "<p:cNvSpPr/>", "<p:nvPr/>", geom), nil
}

// customGeomXML renders custom paths. Freeform paths are written
// declaratively; other paths are flattened to the shape's extent.
func (b *slideBuilder) customGeomXML(s *ShapeModel, g *GeometrySpec) (string, error) {
	if len(g.Paths) == 0 {
		return "", &InsufficientGeometryError{Vertices: 0}
	}
	paths := make([]string, 0, len(g.Paths))
	if s.IsFreeform() {
		for _, p := range g.Paths {
			paths = append(paths, PathXML(p))
		}
		return custGeomXML(paths), nil
	}
	w, h := b.extents(s)
	for _, p := range g.Paths {
		poly, err := Synthesize(p.Commands, p.Width, p.Height, float64(w), float64(h))
		if err != nil {
			return "", err
		}
		paths = append(paths, PolylineXML(poly, w, h))
	}
	return custGeomXML(paths), nil
}

func (b *slideBuilder) textShapeXML(s *ShapeModel, cNvSpPr, nvPr string) (string, error) {
	geom := presetGeomXML("rect", nil)
	if g := s.Kind.Geometry; g != nil && g.Type == GeometryPreset {
		if prst, err := presetForName(g.Preset); err == nil {
			geom = presetGeomXML(prst, g.Adjust)
		}
	}
	if s.Text == nil {
		t := *s
		t.Text = &TextFrameSpec{Wrap: boolPtr(true)}
		s = &t
	}
	return b.spXML(s, cNvSpPr, nvPr, geom), nil
}

func (b *slideBuilder) placeholderXML(s *ShapeModel) (string, error) {
	var attrs string
	if role := s.Kind.Role; role != "" && role != PlaceholderObject {
		attrs += fmt.Sprintf(` type="%s"`, xmlEscape(string(role)))
	}
	if s.Kind.Index > 0 {
		attrs += fmt.Sprintf(` idx="%d"`, s.Kind.Index)
	}
	nvPr := "<p:nvPr><p:ph" + attrs + "/></p:nvPr>"
	cNvSpPr := `<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`
	if s.ExtentW == 0 && s.ExtentH == 0 {
		// Geometry inherits from the layout.
		return fmt.Sprintf(`<p:sp><p:nvSpPr>%s%s%s</p:nvSpPr><p:spPr/>%s%s</p:sp>`,
			cNvPrXML(s, "Placeholder"), cNvSpPr, nvPr, styleXML(s), b.textBodyXML(s.Text, "p:txBody")), nil
	}
	return b.spXML(s, cNvSpPr, nvPr, ""), nil
}

func (b *slideBuilder) connectorXML(s *ShapeModel) (string, error) {
	prst := "line"
	if g := s.Kind.Geometry; g != nil && g.Type == GeometryPreset && g.Preset != "" {
		p, err := presetForName(g.Preset)
		if err != nil {
			return "", err
		}
		prst = p
	}
	line := s.Line
	if line == nil {
		line = SolidLine(Point(1), RGB(0, 0, 0))
	}
	return fmt.Sprintf(`<p:cxnSp>
  <p:nvCxnSpPr>%s<p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr>
  <p:spPr>%s%s%s</p:spPr>%s
</p:cxnSp>`, cNvPrXML(s, "Connector"), b.xfrmXML(s, "a:xfrm"), presetGeomXML(prst, nil),
		b.lineXML(s, line), styleXML(s)), nil
}

func (b *slideBuilder) pictureXML(s *ShapeModel) (string, error) {
	target, err := b.g.resolveMedia(s.Kind.MediaKey)
	if err != nil {
		b.warn(s, err)
		return b.mediaPlaceholderXML(s), nil
	}
	rid := b.relFor(relTypeImage, relativeTarget(b.part, target), false)
	return fmt.Sprintf(`<p:pic>
  <p:nvPicPr>%s<p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>
  <p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>
  <p:spPr>%s%s%s</p:spPr>
</p:pic>`, cNvPrXML(s, "Picture"), rid, b.xfrmXML(s, "a:xfrm"), presetGeomXML("rect", nil), b.lineXML(s, s.Line)), nil
}

// mediaPlaceholderXML stands in for a picture whose media is missing: a
// gray rectangle labelled with the wanted key.
func (b *slideBuilder) mediaPlaceholderXML(s *ShapeModel) string {
	label := s.Kind.MediaKey
	if label == "" {
		label = "missing image"
	}
	fill := SolidFill(b.placeholderColor())
	t := *s
	t.Fill = fill
	t.Line = NoLine()
	t.Text = &TextFrameSpec{Anchor: "ctr", Paragraphs: []ParagraphSpec{{Align: "ctr", Runs: []RunSpec{{
		Text: label,
		Font: &FontSpec{Size: 10, Color: &ColorSpec{Type: ColorRGB, R: 0x59, G: 0x59, B: 0x59}},
	}}}}}
	t.HasStyle = false
	return b.spXML(&t, "<p:cNvSpPr/>", "<p:nvPr/>", presetGeomXML("rect", nil))
}

func (b *slideBuilder) tableXML(s *ShapeModel) (string, error) {
	t := s.Kind.Table
	if t == nil || len(t.Rows) == 0 {
		return "", &UnsupportedShapeKindError{Kind: "table without rows"}
	}
	cols := t.Columns
	if len(cols) == 0 {
		n := len(t.Rows[0].Cells)
		if n == 0 {
			n = 1
		}
		w, _ := b.extents(s)
		for i := 0; i < n; i++ {
			cols = append(cols, w/int64(n))
		}
	}
	var grid strings.Builder
	for _, w := range cols {
		fmt.Fprintf(&grid, `<a:gridCol w="%d"/>`, w)
	}
	var rows strings.Builder
	for _, row := range t.Rows {
		fmt.Fprintf(&rows, `<a:tr h="%d">`, row.Height)
		for i := range cols {
			var cell TableCell
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			rows.WriteString(b.tableCellXML(s, cell))
		}
		rows.WriteString("</a:tr>")
	}
	return fmt.Sprintf(`<p:graphicFrame>
  <p:nvGraphicFramePr>%s<p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>
  %s
  <a:graphic><a:graphicData uri="%s"><a:tbl><a:tblPr firstRow="%s" bandRow="%s"/><a:tblGrid>%s</a:tblGrid>%s</a:tbl></a:graphicData></a:graphic>
</p:graphicFrame>`, cNvPrXML(s, "Table"), b.xfrmXML(s, "p:xfrm"), uriTable,
		boolToXML(t.FirstRow), boolToXML(t.BandRow), grid.String(), rows.String()), nil
}

func (b *slideBuilder) tableCellXML(s *ShapeModel, c TableCell) string {
	var attrs string
	if c.GridSpan > 1 {
		attrs += fmt.Sprintf(` gridSpan="%d"`, c.GridSpan)
	}
	if c.RowSpan > 1 {
		attrs += fmt.Sprintf(` rowSpan="%d"`, c.RowSpan)
	}
	if c.HMerge {
		attrs += ` hMerge="1"`
	}
	if c.VMerge {
		attrs += ` vMerge="1"`
	}
	var paras []ParagraphSpec
	for _, line := range strings.Split(c.Text, "\n") {
		paras = append(paras, ParagraphSpec{Runs: []RunSpec{{Text: line, Font: c.Font}}})
	}
	body := b.textBodyXML(&TextFrameSpec{Paragraphs: paras}, "a:txBody")
	return fmt.Sprintf(`<a:tc%s>%s<a:tcPr>%s</a:tcPr></a:tc>`, attrs, body, b.fillXML(s, c.Fill))
}

func (b *slideBuilder) chartXML(s *ShapeModel) (string, error) {
	c := s.Kind.Chart
	if c == nil {
		return "", &UnsupportedShapeKindError{Kind: "chart without data"}
	}
	b.g.charts++
	part := chartPart(b.g.charts)
	b.g.parts.PutString(part, chartPartXML(c))
	b.g.types.Register(part)
	rid := b.rels.Add(relTypeChart, relativeTarget(b.part, part), false)
	return fmt.Sprintf(`<p:graphicFrame>
  <p:nvGraphicFramePr>%s<p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>
  %s
  <a:graphic><a:graphicData uri="%s"><c:chart xmlns:c="%s" r:id="%s"/></a:graphicData></a:graphic>
</p:graphicFrame>`, cNvPrXML(s, "Chart"), b.xfrmXML(s, "p:xfrm"), uriChart, nsChart, rid), nil
}

// minimalRectXML is the last-resort stand-in: a rectangle at the shape's
// position, filled with the placeholder color and outlined in gray.
func (b *slideBuilder) minimalRectXML(s *ShapeModel) string {
	w, _ := clampExtent(s.ExtentW)
	h, _ := clampExtent(s.ExtentH)
	return fmt.Sprintf(`<p:sp><p:nvSpPr>%s<p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>%s`+
		`<a:solidFill>%s</a:solidFill><a:ln w="9525"><a:solidFill>%s</a:solidFill></a:ln></p:spPr></p:sp>`,
		cNvPrXML(s, "Shape"), s.OffsetX, s.OffsetY, w, h, presetGeomXML("rect", nil),
		colorXML(b.placeholderColor()), colorXML(RGB(0x7F, 0x7F, 0x7F)))
}

// retrySimplified builds the simplified form of a shape that fell back.
func (b *slideBuilder) retrySimplified(s *ShapeModel) (*xmlNode, bool) {
	simple := simplified(*s)
	x, err := b.build(&simple)
	if err != nil {
		return nil, false
	}
	n, err := parseFragment(x)
	if err != nil {
		return nil, false
	}
	return n, true
}

// simplified strips a shape down to a preset rectangle carrying the same
// fill, line and text.
func simplified(s ShapeModel) ShapeModel {
	s.OriginalXML = ""
	s.Relationships = nil
	s.LegacyType = ""
	if s.Kind.Type == KindPicture {
		s.Fill = PictureFill(s.Kind.MediaKey)
	}
	s.Kind = AutoShapeKind(PresetGeometry("rectangle"))
	return s
}

// --- fragment splicing ---

var relAttrLocals = map[string]bool{"embed": true, "id": true, "link": true, "pict": true}

// isRelAttr reports whether an attribute holds a relationship id. The
// prefix is resolved against the shape's recorded namespaces first.
func isRelAttr(n *xmlNode, a xmlAttrRef, ns map[string]string) bool {
	if !relAttrLocals[a.local] || a.prefix == "" {
		return false
	}
	if uri, ok := ns[a.prefix]; ok {
		return uri == nsOfficeDocRels
	}
	if uri := n.namespaceFor(a.prefix); uri != "" {
		return uri == nsOfficeDocRels
	}
	return a.prefix == "r"
}

type xmlAttrRef struct{ prefix, local string }

// spliceFragment re-emits a shape's original XML, re-binding every
// relationship id it uses through the record's bindings and placing it at
// the recorded position.
func (b *slideBuilder) spliceFragment(s *ShapeModel) (string, error) {
	frag, err := parseFragment(s.OriginalXML)
	if err != nil {
		return "", fmt.Errorf("original fragment does not parse: %w", err)
	}
	remap := make(map[string]string)
	frag.walk(func(n *xmlNode) bool {
		for i, a := range n.Attr {
			if !isRelAttr(n, xmlAttrRef{a.Name.Space, a.Name.Local}, s.Namespaces) {
				continue
			}
			if id, ok := remap[a.Value]; ok {
				n.Attr[i].Value = id
				continue
			}
			id, ok := b.rebind(s, a.Value)
			if !ok {
				id = staleRelID(a.Value)
			}
			remap[a.Value] = id
			n.Attr[i].Value = id
		}
		return true
	})
	if xfrm := frag.path("spPr", "xfrm"); xfrm != nil {
		w, h := b.extents(s)
		if off := xfrm.child("off"); off != nil {
			off.setAttr("x", strconv.FormatInt(s.OffsetX, 10))
			off.setAttr("y", strconv.FormatInt(s.OffsetY, 10))
		}
		if ext := xfrm.child("ext"); ext != nil {
			ext.setAttr("cx", strconv.FormatInt(w, 10))
			ext.setAttr("cy", strconv.FormatInt(h, 10))
		}
	}
	if nv := frag.find("cNvPr"); nv != nil && s.ShapeID > 0 {
		nv.setAttr("id", strconv.Itoa(s.ShapeID))
	}
	return frag.String(), nil
}

// staleRelID marks an original id that could not be rebound. RelTable.Add
// only hands out rIdN, so a stale id never resolves and reference repair
// always sees it.
func staleRelID(id string) string { return "stale-" + id }

// rebind registers the target the record carries for an original id and
// returns the id it got in this slide. Unknown ids are left for reference
// repair.
func (b *slideBuilder) rebind(s *ShapeModel, oldID string) (string, bool) {
	bind, ok := s.Relationships[oldID]
	if !ok {
		return "", false
	}
	if bind.External {
		return b.relFor(bind.Type, bind.Target, true), true
	}
	key := bind.MediaKey
	if key == "" && bind.Type == relTypeImage {
		key = path.Base(bind.Target)
	}
	if key == "" {
		return "", false
	}
	target, err := b.g.resolveMedia(key)
	if err != nil {
		b.warn(s, err)
		return "", false
	}
	relType := bind.Type
	if relType == "" {
		relType = relTypeImage
	}
	return b.relFor(relType, relativeTarget(b.part, target), false), true
}

func boolPtr(v bool) *bool { return &v }
