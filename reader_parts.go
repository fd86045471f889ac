package slidemodel

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

func (x *extractor) contentTypes() (*ContentTypes, error) {
	data, ok := x.reg.Get(contentTypesPath)
	if !ok {
		return NewContentTypes(), fmt.Errorf("%s missing", contentTypesPath)
	}
	ct, err := parseContentTypes(data)
	if err != nil {
		x.warnings.add(Warning{Part: contentTypesPath, Err: &FieldExtractionError{Field: "content_types", Err: err}})
		return NewContentTypes(), err
	}
	return ct, nil
}

// presentationPart finds the main part through the package relationships,
// falling back to the conventional path.
func (x *extractor) presentationPart() (string, error) {
	if p, ok := x.firstTarget("", relTypeOfficeDoc); ok && x.reg.Has(p) {
		return p, nil
	}
	if x.reg.Has(partPresentation) {
		return partPresentation, nil
	}
	return "", fmt.Errorf("package has no presentation part")
}

// parsePart reads a part into a tree, converting legacy encodings first.
func (x *extractor) parsePart(part string) (*xmlNode, []byte, error) {
	data, ok := x.reg.Get(part)
	if !ok {
		return nil, nil, fmt.Errorf("part %s not found", part)
	}
	data, err := toUTF8(data)
	if err != nil {
		return nil, nil, err
	}
	doc, err := parseXMLTree(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", part, err)
	}
	return doc, data, nil
}

// readPresentation reads the slide size and the ordered slide parts.
func (x *extractor) readPresentation(part string, doc *Document) ([]string, error) {
	tree, _, err := x.parsePart(part)
	if err != nil {
		return nil, err
	}
	root := tree.root()
	if sz := root.child("sldSz"); sz != nil {
		size := SlideSize{Type: sz.attr("type")}
		cx, errX := strconv.ParseInt(sz.attr("cx"), 10, 64)
		cy, errY := strconv.ParseInt(sz.attr("cy"), 10, 64)
		if errX != nil || errY != nil || cx <= 0 || cy <= 0 {
			x.warnings.add(Warning{Part: part, Field: "slide_size",
				Err: &FieldExtractionError{Field: "slide_size", Err: fmt.Errorf("invalid sldSz %q x %q", sz.attr("cx"), sz.attr("cy"))}})
		} else {
			size.Width, size.Height = cx, cy
			doc.SlideSize = size
		}
	}
	rels := x.relsOf(part)
	var slides []string
	for _, id := range root.path("sldIdLst").elements() {
		rid := relAttr(id, "id")
		r, ok := rels.Lookup(rid)
		if !ok {
			x.warnings.add(Warning{Part: part, Err: &DanglingRelationshipError{Part: part, ID: rid}})
			continue
		}
		target := rels.Resolve(r)
		if !x.reg.Has(target) {
			x.warnings.add(Warning{Part: part, Err: &DanglingRelationshipError{Part: part, ID: rid}})
			continue
		}
		slides = append(slides, target)
	}
	return slides, nil
}

// relAttr returns the value of an r:-prefixed attribute, resolving the
// prefix through the in-scope declarations.
func relAttr(n *xmlNode, local string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space != "" && n.namespaceFor(a.Name.Space) == nsOfficeDocRels {
			return a.Value
		}
	}
	for _, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space == "r" {
			return a.Value
		}
	}
	return ""
}

// readTheme reads the presentation theme, or the master's when the
// presentation does not reference one directly.
func (x *extractor) readTheme(presPart string) *Theme {
	part, ok := x.firstTarget(presPart, relTypeTheme)
	if !ok {
		if master, ok := x.firstTarget(presPart, relTypeSlideMaster); ok {
			part, ok = x.firstTarget(master, relTypeTheme)
			if !ok {
				part = ""
			}
		}
	}
	if part == "" {
		return DefaultTheme()
	}
	data, ok := x.reg.Get(part)
	if !ok {
		return DefaultTheme()
	}
	theme, err := parseTheme(data, func(field string, err error) {
		x.warnings.add(Warning{Part: part, Field: field, Err: &FieldExtractionError{Field: field, Err: err}})
	})
	if err != nil {
		x.warnings.add(Warning{Part: part, Field: "theme", Err: &FieldExtractionError{Field: "theme", Err: err}})
		return DefaultTheme()
	}
	def := DefaultTheme()
	for slot, hex := range def.Colors {
		if _, ok := theme.Colors[slot]; !ok {
			theme.Colors[slot] = hex
		}
	}
	if theme.MajorFont == "" {
		theme.MajorFont = def.MajorFont
	}
	if theme.MinorFont == "" {
		theme.MinorFont = def.MinorFont
	}
	return theme
}

func (x *extractor) readProperties() DocumentProperties {
	var props DocumentProperties
	core, ok := x.firstTarget("", relTypeCoreProps)
	if !ok {
		core = partCore
	}
	if data, ok := x.reg.Get(core); ok {
		p, err := parseCoreProperties(data, func(field string, err error) {
			x.warnings.add(Warning{Part: core, Field: field, Err: &FieldExtractionError{Field: field, Err: err}})
		})
		if err != nil {
			x.warnings.add(Warning{Part: core, Field: "properties", Err: &FieldExtractionError{Field: "properties", Err: err}})
		}
		props = p
	}
	app, ok := x.firstTarget("", relTypeExtProps)
	if !ok {
		app = partApp
	}
	if data, ok := x.reg.Get(app); ok {
		props.Company = parseAppCompany(data)
	}
	return props
}

// readMedia adds every ppt/media part to the catalog under its base name.
func (x *extractor) readMedia(media *MediaCatalog) {
	for _, p := range x.reg.Paths() {
		if !strings.HasPrefix(p, "ppt/media/") {
			continue
		}
		data, _ := x.reg.Get(p)
		ct := ""
		if x.types != nil {
			ct, _ = x.types.Lookup(p)
		}
		if ct == "" {
			ct = guessMimeType(p)
		}
		media.Put(path.Base(p), data, ct)
	}
}

// layoutInfo is what the reader keeps of a slide layout.
type layoutInfo struct {
	record       LayoutRecord
	placeholders map[string][4]int64 // "type:idx", "type:", ":idx" -> off/ext
}

var layoutNumber = regexp.MustCompile(`slideLayout(\d+)\.xml$`)

// readLayouts reads every slide layout part in numeric order.
func (x *extractor) readLayouts() []LayoutRecord {
	var parts []string
	for _, p := range x.reg.Paths() {
		if strings.HasPrefix(p, "ppt/slideLayouts/") && layoutNumber.MatchString(p) {
			parts = append(parts, p)
		}
	}
	num := func(p string) int {
		n, _ := strconv.Atoi(layoutNumber.FindStringSubmatch(p)[1])
		return n
	}
	sort.Slice(parts, func(i, j int) bool { return num(parts[i]) < num(parts[j]) })
	out := make([]LayoutRecord, 0, len(parts))
	for _, p := range parts {
		if info := x.layout(p); info != nil {
			out = append(out, info.record)
		}
	}
	return out
}

// layout reads and caches one layout part.
func (x *extractor) layout(part string) *layoutInfo {
	if info, ok := x.layouts[part]; ok {
		return info
	}
	tree, _, err := x.parsePart(part)
	if err != nil {
		x.warnings.add(Warning{Part: part, Field: "layout", Err: &FieldExtractionError{Field: "layout", Err: err}})
		x.layouts[part] = nil
		return nil
	}
	root := tree.root()
	info := &layoutInfo{
		record:       LayoutRecord{Name: root.path("cSld").attr("name"), Type: root.attr("type")},
		placeholders: make(map[string][4]int64),
	}
	if info.record.Name == "" {
		info.record.Name = strings.TrimSuffix(path.Base(part), ".xml")
	}
	root.path("cSld", "spTree").walk(func(n *xmlNode) bool {
		ph := n.find("ph")
		if n.Name.Local != "sp" || ph == nil {
			return true
		}
		xfrm := n.path("spPr", "xfrm")
		if xfrm == nil {
			return false
		}
		var rect [4]int64
		rect[0], _ = strconv.ParseInt(xfrm.child("off").attr("x"), 10, 64)
		rect[1], _ = strconv.ParseInt(xfrm.child("off").attr("y"), 10, 64)
		rect[2], _ = strconv.ParseInt(xfrm.child("ext").attr("cx"), 10, 64)
		rect[3], _ = strconv.ParseInt(xfrm.child("ext").attr("cy"), 10, 64)
		typ, idx := ph.attr("type"), ph.attr("idx")
		for _, k := range []string{typ + ":" + idx, typ + ":", ":" + idx} {
			if k == ":" {
				continue
			}
			if _, ok := info.placeholders[k]; !ok {
				info.placeholders[k] = rect
			}
		}
		return false
	})
	x.layouts[part] = info
	return info
}

// inheritedRect finds the layout placeholder a slide placeholder inherits
// its position from, matching on type and index first.
func (info *layoutInfo) inheritedRect(typ string, idx int) ([4]int64, bool) {
	if info == nil {
		return [4]int64{}, false
	}
	i := ""
	if idx > 0 {
		i = strconv.Itoa(idx)
	}
	for _, k := range []string{typ + ":" + i, typ + ":", ":" + i} {
		if k == ":" {
			continue
		}
		if r, ok := info.placeholders[k]; ok {
			return r, true
		}
	}
	return [4]int64{}, false
}

// readNotes returns the body text of a notes slide, one line per
// paragraph.
func (x *extractor) readNotes(part string) (string, error) {
	tree, _, err := x.parsePart(part)
	if err != nil {
		return "", err
	}
	var body *xmlNode
	tree.root().walk(func(n *xmlNode) bool {
		if body != nil {
			return false
		}
		if n.Name.Local == "sp" {
			if ph := n.find("ph"); ph != nil && ph.attr("type") == "body" {
				body = n.child("txBody")
			}
			return false
		}
		return true
	})
	if body == nil {
		return "", nil
	}
	var lines []string
	for _, p := range body.elements() {
		if p.Name.Local == "p" {
			lines = append(lines, p.text())
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n"), nil
}
