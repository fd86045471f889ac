package slidemodel

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// slideReader carries the state of reading one slide part.
type slideReader struct {
	x          *extractor
	num        int
	part       string
	data       []byte
	rels       *RelTable
	layout     *layoutInfo
	namespaces map[string]string
	shapeID    int
}

func (x *extractor) readSlide(num int, part string) SlideRecord {
	slide := SlideRecord{SlideIndex: num}
	tree, data, err := x.parsePart(part)
	if err != nil {
		x.warnings.add(Warning{Slide: num, Part: part, Field: "slide", Err: &FieldExtractionError{Field: "slide", Err: err}})
		return slide
	}
	root := tree.root()
	r := &slideReader{
		x:          x,
		num:        num,
		part:       part,
		data:       data,
		rels:       x.relsOf(part),
		namespaces: root.declarations(),
	}
	if lp, ok := x.firstTarget(part, relTypeSlideLayout); ok {
		r.layout = x.layout(lp)
		if r.layout != nil {
			slide.Layout = r.layout.record.Name
		}
	}
	slide.Hidden = root.attr("show") == "0"
	if bgPr := root.path("cSld", "bg", "bgPr"); bgPr != nil {
		if f := r.fill(bgPr); f.Type != FillInherited {
			slide.Background = &f
		}
	}

	r.readTree(root.path("cSld", "spTree"), nil, &slide.Shapes)

	// Read notes if relationship exists
	if np, ok := x.firstTarget(part, relTypeNotesSlide); ok {
		notes, err := x.readNotes(np)
		if err != nil {
			x.warnings.add(Warning{Slide: num, Part: np, Field: "notes", Err: &FieldExtractionError{Field: "notes", Err: err}})
		}
		slide.Notes = notes
	}
	return slide
}

func (r *slideReader) fieldErr(field string, err error) {
	r.x.warnings.add(Warning{Slide: r.num, ShapeID: r.shapeID, Part: r.part, Field: field, Err: &FieldExtractionError{Field: field, Err: err}})
}

// loss records a property that was read but cannot be represented.
func (r *slideReader) loss(property string) {
	r.x.warnings.add(Warning{Slide: r.num, ShapeID: r.shapeID, Part: r.part, Field: property, Err: &PropertyLossError{Property: property}})
}

// readTree appends the shapes below container in document order. Groups
// are flattened into their children; frames is the enclosing group stack.
func (r *slideReader) readTree(container *xmlNode, frames []groupFrame, out *[]ShapeModel) {
	for _, el := range container.elements() {
		switch el.Name.Local {
		case "sp", "pic", "graphicFrame", "cxnSp":
			*out = append(*out, r.readShape(el, frames))
		case "grpSp":
			f := r.groupFrameOf(el)
			r.readTree(el, append(frames[:len(frames):len(frames)], f), out)
		case "AlternateContent":
			pick := el.child("Fallback")
			if pick == nil {
				pick = el.child("Choice")
			}
			r.readTree(pick, frames, out)
		case "contentPart":
			r.shapeID = 0
			r.loss("content_part")
		}
	}
}

func (r *slideReader) groupFrameOf(grp *xmlNode) groupFrame {
	f := groupFrame{name: grp.path("nvGrpSpPr", "cNvPr").attr("name")}
	xfrm := grp.path("grpSpPr", "xfrm")
	if xfrm == nil {
		return f
	}
	f.offX, f.offY = r.point(xfrm.child("off"), "x", "y", "group_offset")
	f.extX, f.extY = r.point(xfrm.child("ext"), "cx", "cy", "group_extent")
	f.chOffX, f.chOffY = r.point(xfrm.child("chOff"), "x", "y", "group_child_offset")
	f.chExtX, f.chExtY = r.point(xfrm.child("chExt"), "cx", "cy", "group_child_extent")
	if xfrm.attr("rot") != "" && xfrm.attr("rot") != "0" {
		r.loss("group_rotation")
	}
	return f
}

// point reads a coordinate pair. Both attributes are required when the
// element is present.
func (r *slideReader) point(n *xmlNode, ax, ay, field string) (int64, int64) {
	if n == nil {
		return 0, 0
	}
	x, errX := strconv.ParseInt(n.attr(ax), 10, 64)
	y, errY := strconv.ParseInt(n.attr(ay), 10, 64)
	if errX != nil || errY != nil {
		r.fieldErr(field, fmt.Errorf("invalid %s=%q %s=%q", ax, n.attr(ax), ay, n.attr(ay)))
	}
	return x, y
}

// nvProps returns the non-visual property container of a shape element.
func nvProps(el *xmlNode) *xmlNode {
	for _, c := range el.elements() {
		if strings.HasPrefix(c.Name.Local, "nv") {
			return c
		}
	}
	return nil
}

func (r *slideReader) readShape(el *xmlNode, frames []groupFrame) ShapeModel {
	var s ShapeModel
	nv := nvProps(el)
	cNvPr := nv.child("cNvPr")
	r.shapeID = 0
	if id, err := strconv.Atoi(cNvPr.attr("id")); err == nil {
		s.ShapeID = id
		r.shapeID = id
	} else {
		r.fieldErr("shape_id", fmt.Errorf("invalid cNvPr id %q", cNvPr.attr("id")))
	}
	s.Name = cNvPr.attr("name")
	s.Descr = cNvPr.attr("descr")
	s.OriginalXML = string(r.data[el.start:el.end])
	s.Namespaces = r.namespaces
	s.GroupPath = groupPath(frames)
	s.HasStyle = el.child("style") != nil
	s.Relationships = r.bindings(el)

	spPr := el.child("spPr")
	xfrm := spPr.child("xfrm")
	if el.Name.Local == "graphicFrame" {
		xfrm = el.child("xfrm")
	}
	hasXfrm := r.readXfrm(&s, xfrm, frames)

	switch el.Name.Local {
	case "graphicFrame":
		r.readGraphicFrame(&s, el)
	case "pic":
		key, ok := r.mediaKey(relAttr(el.path("blipFill", "blip"), "embed"))
		if !ok {
			if relAttr(el.path("blipFill", "blip"), "link") != "" {
				r.loss("linked_picture")
			} else {
				r.fieldErr("media", &MediaNotFoundError{Key: relAttr(el.path("blipFill", "blip"), "embed")})
			}
		}
		s.Kind = PictureKind(key)
		if nvPr := nv.child("nvPr"); nvPr.child("videoFile") != nil || nvPr.child("audioFile") != nil {
			r.loss("embedded_media")
		}
	case "cxnSp":
		s.Kind = ShapeKind{Type: KindConnector, Geometry: r.geometry(spPr, s.Name)}
	default:
		if ph := nv.path("nvPr", "ph"); ph != nil {
			role := PlaceholderRole(ph.attr("type"))
			if role == "" {
				role = PlaceholderObject
			}
			idx := 0
			if v := ph.attr("idx"); v != "" {
				var err error
				if idx, err = strconv.Atoi(v); err != nil {
					r.fieldErr("placeholder_index", err)
				}
			}
			s.Kind = PlaceholderKind(role, idx)
			s.Kind.Geometry = r.geometry(spPr, s.Name)
			if !hasXfrm {
				r.inheritPlacement(&s, ph.attr("type"), idx)
			}
		} else if nv.child("cNvSpPr").attr("txBox") == "1" {
			s.Kind = ShapeKind{Type: KindTextBox, Geometry: r.geometry(spPr, s.Name)}
		} else {
			g := r.geometry(spPr, s.Name)
			if g == nil {
				pg := PresetGeometry("rectangle")
				g = &pg
			}
			s.Kind = AutoShapeKind(*g)
		}
	}

	if el.Name.Local != "graphicFrame" {
		s.Fill = r.fill(spPr)
		s.Line = r.line(spPr.child("ln"))
	}
	s.Text = r.textBody(el.child("txBody"))
	if spPr.child("scene3d") != nil || spPr.child("sp3d") != nil {
		r.loss("3d")
	}
	if el.Name.Local == "pic" && el.path("blipFill", "srcRect") != nil {
		r.loss("picture_crop")
	}
	return s
}

// readXfrm reads placement and flattens it through the group stack. It
// reports whether the shape carried its own transform.
func (r *slideReader) readXfrm(s *ShapeModel, xfrm *xmlNode, frames []groupFrame) bool {
	if xfrm == nil {
		return false
	}
	x, y := r.point(xfrm.child("off"), "x", "y", "offset")
	w, h := r.point(xfrm.child("ext"), "cx", "cy", "extent")
	if v := xfrm.attr("rot"); v != "" {
		rot, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			r.fieldErr("rotation", err)
		} else {
			s.Rotation = normalizeRotation(angleFromOOXML(rot))
		}
	}
	s.FlipH = xfrm.attr("flipH") == "1" || xfrm.attr("flipH") == "true"
	s.FlipV = xfrm.attr("flipV") == "1" || xfrm.attr("flipV") == "true"
	s.OffsetX, s.OffsetY, s.ExtentW, s.ExtentH = flattenRect(frames, x, y, w, h)
	return true
}

// inheritPlacement copies the position of the matching layout
// placeholder onto a placeholder that has none of its own.
func (r *slideReader) inheritPlacement(s *ShapeModel, typ string, idx int) {
	rect, ok := r.layout.inheritedRect(typ, idx)
	if !ok {
		return
	}
	s.OffsetX, s.OffsetY, s.ExtentW, s.ExtentH = rect[0], rect[1], rect[2], rect[3]
}

// bindings records the target of every relationship id used inside a
// shape so a spliced fragment can be re-bound in another package.
func (r *slideReader) bindings(el *xmlNode) map[string]Binding {
	refs := collectRelRefs(el, nil)
	if len(refs) == 0 {
		return nil
	}
	out := make(map[string]Binding, len(refs))
	for _, ref := range refs {
		if _, done := out[ref.id]; done {
			continue
		}
		rel, ok := r.rels.Lookup(ref.id)
		if !ok {
			r.x.warnings.add(Warning{Slide: r.num, ShapeID: r.shapeID, Part: r.part,
				Err: &DanglingRelationshipError{Part: r.part, ID: ref.id}})
			continue
		}
		b := Binding{Type: rel.Type, External: rel.External, Target: rel.Target}
		if !rel.External {
			b.Target = r.rels.Resolve(rel)
			if strings.HasPrefix(b.Target, "ppt/media/") {
				b.MediaKey = path.Base(b.Target)
			}
		}
		out[ref.id] = b
	}
	return out
}

// mediaKey returns the catalog key of an internal image relationship.
func (r *slideReader) mediaKey(rid string) (string, bool) {
	if rid == "" {
		return "", false
	}
	rel, ok := r.rels.Lookup(rid)
	if !ok || rel.External {
		return "", false
	}
	target := r.rels.Resolve(rel)
	if !r.x.reg.Has(target) {
		return "", false
	}
	return path.Base(target), true
}

// readGraphicFrame classifies a graphic frame by its graphicData uri.
// Anything other than a chart or a table is kept as a rectangle with its
// original XML.
func (r *slideReader) readGraphicFrame(s *ShapeModel, el *xmlNode) {
	gd := el.path("graphic", "graphicData")
	switch {
	case gd.child("chart") != nil:
		if spec, ok := r.readChart(relAttr(gd.child("chart"), "id")); ok {
			s.Kind = ShapeKind{Type: KindChart, Chart: spec}
			return
		}
	case gd.child("tbl") != nil:
		s.Kind = ShapeKind{Type: KindTable, Table: r.readTable(gd.child("tbl"))}
		return
	default:
		r.loss("graphic_frame:" + gd.attr("uri"))
	}
	s.Kind = AutoShapeKind(PresetGeometry("rectangle"))
}

func (r *slideReader) readChart(rid string) (*ChartSpec, bool) {
	rel, ok := r.rels.Lookup(rid)
	if !ok {
		return nil, false
	}
	part := r.rels.Resolve(rel)
	data, ok := r.x.reg.Get(part)
	if !ok {
		r.x.warnings.add(Warning{Slide: r.num, ShapeID: r.shapeID, Part: r.part,
			Err: &DanglingRelationshipError{Part: r.part, ID: rid}})
		return nil, false
	}
	spec, known, err := parseChartPart(data)
	if err != nil {
		r.fieldErr("chart", err)
		return nil, false
	}
	if !known {
		r.loss("chart_type")
	}
	return spec, true
}

func (r *slideReader) readTable(tbl *xmlNode) *TableSpec {
	t := &TableSpec{}
	if pr := tbl.child("tblPr"); pr != nil {
		t.FirstRow = pr.attr("firstRow") == "1"
		t.BandRow = pr.attr("bandRow") == "1"
	}
	for _, gc := range tbl.path("tblGrid").elements() {
		w, err := strconv.ParseInt(gc.attr("w"), 10, 64)
		if err != nil {
			r.fieldErr("table_column", err)
		}
		t.Columns = append(t.Columns, w)
	}
	for _, tr := range tbl.elements() {
		if tr.Name.Local != "tr" {
			continue
		}
		row := TableRow{}
		if h, err := strconv.ParseInt(tr.attr("h"), 10, 64); err == nil {
			row.Height = h
		} else {
			r.fieldErr("table_row_height", err)
		}
		for _, tc := range tr.elements() {
			if tc.Name.Local != "tc" {
				continue
			}
			row.Cells = append(row.Cells, r.readCell(tc))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func (r *slideReader) readCell(tc *xmlNode) TableCell {
	c := TableCell{
		HMerge: tc.attr("hMerge") == "1",
		VMerge: tc.attr("vMerge") == "1",
		Fill:   r.fill(tc.child("tcPr")),
	}
	c.GridSpan, _ = strconv.Atoi(tc.attr("gridSpan"))
	c.RowSpan, _ = strconv.Atoi(tc.attr("rowSpan"))
	if body := r.textBody(tc.child("txBody")); body != nil {
		c.Text = body.PlainText()
		for _, p := range body.Paragraphs {
			for _, run := range p.Runs {
				if run.Font != nil {
					c.Font = run.Font
					break
				}
			}
			if c.Font != nil {
				break
			}
		}
	}
	return c
}

// geometry reads a prstGeom or custGeom under spPr. It returns nil when
// the shape declares neither.
func (r *slideReader) geometry(spPr *xmlNode, name string) *GeometrySpec {
	if pg := spPr.child("prstGeom"); pg != nil {
		prst := pg.attr("prst")
		canonical, ok := CanonicalPresetName(prst)
		if !ok {
			r.x.warnings.add(Warning{Slide: r.num, ShapeID: r.shapeID, Part: r.part, Field: "geometry",
				Err: &UnsupportedShapeKindError{Kind: prst}})
		}
		g := PresetGeometry(canonical)
		for _, gd := range pg.path("avLst").elements() {
			v, ok := strings.CutPrefix(gd.attr("fmla"), "val ")
			if !ok {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				r.fieldErr("geometry_adjust", err)
				continue
			}
			if g.Adjust == nil {
				g.Adjust = make(map[string]int)
			}
			g.Adjust[gd.attr("name")] = n
		}
		return &g
	}
	cg := spPr.child("custGeom")
	if cg == nil {
		return nil
	}
	var paths []CustomPath
	for _, p := range cg.path("pathLst").elements() {
		if p.Name.Local == "path" {
			paths = append(paths, r.customPath(p))
		}
	}
	g := CustomGeometry(paths...)
	g.Freeform = strings.HasPrefix(name, "Freeform")
	for _, p := range paths {
		if p.hasCurves() {
			g.Freeform = true
		}
	}
	return &g
}

func (r *slideReader) customPath(p *xmlNode) CustomPath {
	num := func(n *xmlNode, attr, field string) float64 {
		v := n.attr(attr)
		if v == "" {
			return 0
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			// Guide references such as "wd2" cannot be evaluated here.
			r.fieldErr(field, err)
			return 0
		}
		return f
	}
	pts := func(n *xmlNode) []PathPoint {
		var out []PathPoint
		for _, pt := range n.elements() {
			if pt.Name.Local == "pt" {
				out = append(out, PathPoint{X: num(pt, "x", "path_point"), Y: num(pt, "y", "path_point")})
			}
		}
		return out
	}
	cp := CustomPath{Width: num(p, "w", "path_width"), Height: num(p, "h", "path_height")}
	for _, c := range p.elements() {
		switch c.Name.Local {
		case "moveTo":
			cp.Commands = append(cp.Commands, PathCommand{Op: OpMoveTo, Pts: pts(c)})
		case "lnTo":
			cp.Commands = append(cp.Commands, PathCommand{Op: OpLineTo, Pts: pts(c)})
		case "cubicBezTo":
			cp.Commands = append(cp.Commands, PathCommand{Op: OpCubicTo, Pts: pts(c)})
		case "quadBezTo":
			cp.Commands = append(cp.Commands, PathCommand{Op: OpQuadTo, Pts: pts(c)})
		case "arcTo":
			cp.Commands = append(cp.Commands, ArcTo(
				num(c, "wR", "arc_radius"), num(c, "hR", "arc_radius"),
				num(c, "stAng", "arc_angle")/60000, num(c, "swAng", "arc_angle")/60000))
		case "close":
			cp.Commands = append(cp.Commands, Close())
		}
	}
	return cp
}
