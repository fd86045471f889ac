package slidemodel

import (
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

type xmlContentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// overrideRule derives an Override from a part path.
type overrideRule struct {
	pattern     string
	matcher     glob.Glob
	contentType string
}

// overrideRules map part paths to the content types PowerPoint expects.
// Patterns are matched against "/"-rooted part names.
var overrideRules = mustRules([][2]string{
	{"/ppt/presentation.xml", ctPresentation},
	{"/ppt/presProps.xml", ctPresProps},
	{"/ppt/viewProps.xml", ctViewProps},
	{"/ppt/tableStyles.xml", ctTableStyles},
	{"/ppt/slides/slide*.xml", ctSlide},
	{"/ppt/slideLayouts/slideLayout*.xml", ctSlideLayout},
	{"/ppt/slideMasters/slideMaster*.xml", ctSlideMaster},
	{"/ppt/notesSlides/notesSlide*.xml", ctNotesSlide},
	{"/ppt/notesMasters/notesMaster*.xml", ctNotesMaster},
	{"/ppt/theme/theme*.xml", ctTheme},
	{"/ppt/charts/chart*.xml", ctChart},
	{"/ppt/comments/comment*.xml", ctComments},
	{"/ppt/commentAuthors.xml", ctCommentAuthors},
	{"/docProps/core.xml", ctCoreProps},
	{"/docProps/app.xml", ctExtProps},
})

func mustRules(pairs [][2]string) []overrideRule {
	out := make([]overrideRule, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, overrideRule{pattern: p[0], matcher: glob.MustCompile(p[0], '/'), contentType: p[1]})
	}
	return out
}

// ruleContentType returns the override content type for a part, if any
// rule matches.
func ruleContentType(part string) (string, bool) {
	name := "/" + normalizePartPath(part)
	for _, r := range overrideRules {
		if r.matcher.Match(name) {
			return r.contentType, true
		}
	}
	return "", false
}

// ContentTypes is the [Content_Types].xml table: Default entries keyed by
// lower-case extension and Override entries keyed by part name.
type ContentTypes struct {
	defaults     map[string]string
	defaultOrder []string
	overrides    map[string]string
}

// NewContentTypes returns a table with the rels and xml defaults.
func NewContentTypes() *ContentTypes {
	ct := &ContentTypes{defaults: make(map[string]string), overrides: make(map[string]string)}
	ct.AddDefault("rels", ctRels)
	ct.AddDefault("xml", "application/xml")
	return ct
}

// AddDefault registers an extension. An extension already registered
// keeps its first content type.
func (ct *ContentTypes) AddDefault(ext, contentType string) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return
	}
	if _, ok := ct.defaults[ext]; ok {
		return
	}
	ct.defaults[ext] = contentType
	ct.defaultOrder = append(ct.defaultOrder, ext)
}

// AddOverride registers a part-specific content type.
func (ct *ContentTypes) AddOverride(part, contentType string) {
	ct.overrides["/"+normalizePartPath(part)] = contentType
}

// HasDefault reports whether ext is registered.
func (ct *ContentTypes) HasDefault(ext string) bool {
	_, ok := ct.defaults[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}

// Lookup returns the content type of a part: its override, else its
// extension default.
func (ct *ContentTypes) Lookup(part string) (string, bool) {
	if t, ok := ct.overrides["/"+normalizePartPath(part)]; ok {
		return t, true
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(part), "."))
	t, ok := ct.defaults[ext]
	return t, ok
}

// Register adds whatever the part needs: an override when a rule matches,
// otherwise a default for its extension.
func (ct *ContentTypes) Register(part string) {
	if t, ok := ruleContentType(part); ok {
		ct.AddOverride(part, t)
		return
	}
	ext := strings.TrimPrefix(path.Ext(part), ".")
	if ext == "" || ct.HasDefault(ext) {
		return
	}
	ct.AddDefault(ext, guessMimeType(part))
}

// parseContentTypes reads a [Content_Types].xml part.
func parseContentTypes(data []byte) (*ContentTypes, error) {
	var x xmlContentTypes
	if err := newXMLDecoder(strings.NewReader(string(data))).Decode(&x); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", contentTypesPath, err)
	}
	ct := &ContentTypes{defaults: make(map[string]string), overrides: make(map[string]string)}
	for _, d := range x.Defaults {
		ct.AddDefault(d.Extension, d.ContentType)
	}
	for _, o := range x.Overrides {
		ct.AddOverride(o.PartName, o.ContentType)
	}
	return ct, nil
}

// Marshal renders the table. Defaults keep registration order; overrides
// are sorted by part name.
func (ct *ContentTypes) Marshal() ([]byte, error) {
	x := xmlContentTypes{Xmlns: nsContentTypes}
	for _, ext := range ct.defaultOrder {
		x.Defaults = append(x.Defaults, xmlDefault{Extension: ext, ContentType: ct.defaults[ext]})
	}
	names := make([]string, 0, len(ct.overrides))
	for n := range ct.overrides {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		x.Overrides = append(x.Overrides, xmlOverride{PartName: n, ContentType: ct.overrides[n]})
	}
	out, err := xml.Marshal(x)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", contentTypesPath, err)
	}
	return append([]byte(xml.Header), out...), nil
}

// registerAll registers every part in reg.
func (ct *ContentTypes) registerAll(reg *PartRegistry) {
	for _, p := range reg.Paths() {
		if p == contentTypesPath {
			continue
		}
		ct.Register(p)
	}
}
