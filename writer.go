package slidemodel

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// Result is a generated package plus everything recovered while building
// it.
type Result struct {
	RunID     string
	Parts     *PartRegistry
	Warnings  []Warning
	Fallbacks []Fallback
}

// WriteTo writes the package as a zip container.
func (r *Result) WriteTo(w io.Writer) error {
	if r == nil || r.Parts == nil {
		return fmt.Errorf("result is empty")
	}
	return r.Parts.WriteZip(w)
}

// Bytes returns the zip container in memory.
func (r *Result) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Generate builds a complete package from a document record. Per-shape
// problems are recovered and reported in the Result; only a package that
// fails the validation gate returns an error.
func Generate(doc *Document, opts ...WriteOption) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	o := defaultWriteOptions()
	for _, opt := range opts {
		opt(&o)
	}
	g := newGenerationContext(doc, o)
	g.log.Info("generation started", slog.Int("slides", len(doc.Slides)), slog.Int("media", g.Media.Len()))

	if err := g.assemble(doc); err != nil {
		return nil, err
	}
	if o.validate {
		if err := validatePackage(g.parts, g.rels, g.types); err != nil {
			g.log.Error("package validation failed", slog.Any("error", err))
			return nil, err
		}
	}
	if err := reportUnreferenced(g.parts, g.rels, g.warnings); err != nil {
		return nil, err
	}
	res := &Result{
		RunID:     g.RunID,
		Parts:     g.parts,
		Warnings:  g.warnings.all(),
		Fallbacks: append([]Fallback(nil), g.fallbacks...),
	}
	g.log.Info("generation finished",
		slog.Int("parts", g.parts.Len()),
		slog.Int("warnings", len(res.Warnings)),
		slog.Int("fallbacks", len(res.Fallbacks)))
	return res, nil
}

func (g *GenerationContext) assemble(doc *Document) error {
	layouts := doc.Layouts
	if len(layouts) == 0 {
		layouts = []LayoutRecord{{Name: "Blank", Type: "blank"}}
	}

	presRels := g.rels.Table(partPresentation)
	masterRID := presRels.Add(relTypeSlideMaster, relativeTarget(partPresentation, partMaster), false)

	masterRels := g.rels.Table(partMaster)
	layoutRIDs := make([]string, len(layouts))
	for i, l := range layouts {
		lp := layoutPart(i + 1)
		g.parts.PutString(lp, slideLayoutXML(l))
		g.rels.Table(lp).Add(relTypeSlideMaster, relativeTarget(lp, partMaster), false)
		layoutRIDs[i] = masterRels.Add(relTypeSlideLayout, relativeTarget(partMaster, lp), false)
	}
	masterRels.Add(relTypeTheme, relativeTarget(partMaster, partTheme), false)
	g.parts.PutString(partMaster, slideMasterXML(layoutRIDs))
	g.parts.PutString(partTheme, themeXML(g.Theme))

	slideRIDs := make([]string, 0, len(doc.Slides))
	hasNotes := false
	for i := range doc.Slides {
		num := i + 1
		rec := &doc.Slides[i]
		sp := slidePart(num)
		slideRIDs = append(slideRIDs, presRels.Add(relTypeSlide, relativeTarget(partPresentation, sp), false))
		layout := layoutPart(layoutIndex(layouts, rec.Layout))
		if err := g.writeSlide(num, rec, layout); err != nil {
			return err
		}
		if rec.Notes != "" {
			g.writeNotes(num, rec.Notes)
			hasNotes = true
		}
	}

	notesMasterRID := ""
	if hasNotes {
		notesMasterRID = presRels.Add(relTypeNotesMaster, relativeTarget(partPresentation, partNotesMaster), false)
		g.parts.PutString(partNotesMaster, notesMasterXML())
		g.parts.PutString(partNotesTheme, themeXML(g.Theme))
		g.rels.Table(partNotesMaster).Add(relTypeTheme, relativeTarget(partNotesMaster, partNotesTheme), false)
	}
	presRels.Add(relTypePresProps, relativeTarget(partPresentation, partPresProps), false)
	presRels.Add(relTypeViewProps, relativeTarget(partPresentation, partViewProps), false)
	presRels.Add(relTypeTheme, relativeTarget(partPresentation, partTheme), false)
	presRels.Add(relTypeTableStyles, relativeTarget(partPresentation, partTableStyles), false)

	g.parts.PutString(partPresentation, presentationXML(doc.SlideSize.normalized(), masterRID, notesMasterRID, slideRIDs))
	g.parts.PutString(partPresProps, presPropsXML())
	g.parts.PutString(partViewProps, viewPropsXML())
	g.parts.PutString(partTableStyles, tableStylesXML())

	props := doc.Properties
	if props.Created.IsZero() {
		props = mergeProperties(NewDocumentProperties(), props)
	}
	g.parts.PutString(partCore, corePropertiesXML(props))
	g.parts.PutString(partApp, appPropertiesXML(props, len(doc.Slides)))

	rootRels := g.rels.Table("")
	rootRels.Add(relTypeOfficeDoc, partPresentation, false)
	rootRels.Add(relTypeCoreProps, partCore, false)
	rootRels.Add(relTypeExtProps, partApp, false)

	if g.opts.thumbnail && len(doc.Slides) > 0 {
		img, err := RenderThumbnail(&doc.Slides[0], doc.SlideSize.normalized(), g.Theme, g.Media, g.opts.thumbnailWidth, WithFonts(g.opts.thumbnailFonts))
		if err != nil {
			g.warnings.add(Warning{Part: partThumbnail, Err: &PropertyLossError{Property: "thumbnail: " + err.Error()}})
		} else {
			g.parts.Put(partThumbnail, img)
			rootRels.Add(relTypeThumbnail, partThumbnail, false)
		}
	}

	if err := g.rels.Store(g.parts); err != nil {
		return fmt.Errorf("failed to store relationships: %w", err)
	}
	g.types.registerAll(g.parts)
	ct, err := g.types.Marshal()
	if err != nil {
		return fmt.Errorf("failed to write content types: %w", err)
	}
	g.parts.Put(contentTypesPath, ct)
	return nil
}

// mergeProperties fills zero fields of p from defaults.
func mergeProperties(defaults, p DocumentProperties) DocumentProperties {
	if p.Creator == "" {
		p.Creator = defaults.Creator
	}
	if p.LastModifiedBy == "" {
		p.LastModifiedBy = defaults.LastModifiedBy
	}
	if p.Revision == "" {
		p.Revision = defaults.Revision
	}
	if p.Created.IsZero() {
		p.Created = defaults.Created
	}
	if p.Modified.IsZero() {
		p.Modified = defaults.Modified
	}
	return p
}

// layoutIndex returns the 1-based layout for a slide's layout name. Unknown
// names use the first layout.
func layoutIndex(layouts []LayoutRecord, name string) int {
	if name == "" {
		return 1
	}
	for i, l := range layouts {
		if strings.EqualFold(l.Name, name) || strings.EqualFold(l.Type, name) {
			return i + 1
		}
	}
	return 1
}

func (g *GenerationContext) writeNotes(num int, notes string) {
	np := notesPart(num)
	sp := slidePart(num)
	g.parts.PutString(np, notesSlideXML(notes))
	nr := g.rels.Table(np)
	nr.Add(relTypeNotesMaster, relativeTarget(np, partNotesMaster), false)
	nr.Add(relTypeSlide, relativeTarget(np, sp), false)
	g.rels.Table(sp).Add(relTypeNotesSlide, relativeTarget(sp, np), false)
}

// writeSlide builds one slide: shapes are built in z-order, assembled into
// a tree, retried and repaired, then serialized.
func (g *GenerationContext) writeSlide(num int, rec *SlideRecord, layout string) error {
	b := newSlideBuilder(g, num)
	b.rels.Add(relTypeSlideLayout, relativeTarget(b.part, layout), false)

	nodes := make([]*xmlNode, len(rec.Shapes))
	pending := make(map[int]int) // shape index -> fallback index
	namespaces := make(map[string]string)
	for i := range rec.Shapes {
		s := &rec.Shapes[i]
		for prefix, uri := range s.Namespaces {
			namespaces[prefix] = uri
		}
		x, err := b.build(s)
		var n *xmlNode
		if err == nil {
			n, err = parseFragment(x)
		}
		if err != nil {
			b.warn(s, err)
			pending[i] = g.fallback(Fallback{Slide: num, ShapeID: s.ShapeID, Name: s.Name, Err: err})
			n = b.mustFragment(b.minimalRectXML(s))
		}
		nodes[i] = n
	}

	doc, err := parseXMLTree([]byte(slideXML(namespaces, b.backgroundXML(rec), rec.Hidden)))
	if err != nil {
		return fmt.Errorf("failed to assemble slide %d: %w", num, err)
	}
	spTree := doc.root().path("cSld", "spTree")
	for _, n := range nodes {
		spTree.appendChild(n)
	}

	// Simplified retry for everything that fell back.
	idx := make([]int, 0, len(pending))
	for i := range pending {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	for _, i := range idx {
		n, ok := b.retrySimplified(&rec.Shapes[i])
		if !ok {
			continue
		}
		spTree.replaceChild(nodes[i], n)
		nodes[i] = n
		g.fallbacks[pending[i]].Recovered = true
	}

	repairSlide(spTree, rec.Shapes, nodes)
	b.repairReferences(doc.root(), rec.Shapes, nodes)

	g.parts.Put(b.part, doc.document())
	return nil
}

// mustFragment parses XML the builder produced itself. Builder output that
// does not parse is a programming error.
func (b *slideBuilder) mustFragment(x string) *xmlNode {
	n, err := parseFragment(x)
	if err != nil {
		panic(fmt.Sprintf("slidemodel: generated invalid fragment: %v", err))
	}
	return n
}

func (b *slideBuilder) backgroundXML(rec *SlideRecord) string {
	if rec.Background == nil || rec.Background.Type == FillInherited {
		return ""
	}
	s := &ShapeModel{Name: "background"}
	fill := b.fillXML(s, *rec.Background)
	if fill == "" {
		return ""
	}
	return "<p:bg><p:bgPr>" + fill + "<a:effectLst/></p:bgPr></p:bg>"
}

// slideXML is the slide skeleton with an empty shape tree. Extra
// namespaces recorded on shapes are declared on the root.
func slideXML(namespaces map[string]string, bg string, hidden bool) string {
	base := map[string]string{"a": nsDrawingML, "r": nsOfficeDocRels, "p": nsPresentationML}
	prefixes := make([]string, 0, len(namespaces))
	for prefix := range namespaces {
		if _, ok := base[prefix]; ok || prefix == "" || prefix == "xml" || prefix == "xmlns" {
			continue
		}
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	var decl strings.Builder
	for _, prefix := range prefixes {
		fmt.Fprintf(&decl, ` xmlns:%s="%s"`, prefix, escapeAttr(namespaces[prefix]))
	}
	show := ""
	if hidden {
		show = ` show="0"`
	}
	return fmt.Sprintf(`%s<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"%s%s>
  <p:cSld>%s
    <p:spTree>%s</p:spTree>
  </p:cSld>
  <p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>
</p:sld>`, xmlDeclaration, nsDrawingML, nsOfficeDocRels, nsPresentationML, decl.String(), show, bg, spTreeHeader)
}
