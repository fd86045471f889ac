package slidemodel

import (
	"encoding/xml"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/dominikbraun/graph"
)

// Relationship is one entry of a part's relationship table.
type Relationship struct {
	ID       string
	Type     string
	Target   string // as written in the .rels file
	External bool
}

// RelTable is the relationship table of a single source part.
type RelTable struct {
	part string
	rels []Relationship
	byID map[string]int
	next int
}

func newRelTable(part string) *RelTable {
	return &RelTable{part: part, byID: make(map[string]int), next: 1}
}

// Part returns the source part the table belongs to.
func (t *RelTable) Part() string { return t.part }

// Add registers a relationship under the next free rIdN and returns the id.
func (t *RelTable) Add(relType, target string, external bool) string {
	for {
		id := "rId" + strconv.Itoa(t.next)
		t.next++
		if _, taken := t.byID[id]; !taken {
			t.put(Relationship{ID: id, Type: relType, Target: target, External: external})
			return id
		}
	}
}

// Bind registers a relationship under a specific id, replacing any entry
// already using it.
func (t *RelTable) Bind(id, relType, target string, external bool) {
	t.put(Relationship{ID: id, Type: relType, Target: target, External: external})
}

func (t *RelTable) put(r Relationship) {
	if i, ok := t.byID[r.ID]; ok {
		t.rels[i] = r
		return
	}
	t.byID[r.ID] = len(t.rels)
	t.rels = append(t.rels, r)
}

// Lookup returns the relationship with the given id.
func (t *RelTable) Lookup(id string) (Relationship, bool) {
	if t == nil {
		return Relationship{}, false
	}
	i, ok := t.byID[id]
	if !ok {
		return Relationship{}, false
	}
	return t.rels[i], true
}

// FindTarget returns the id of an existing relationship with the same type
// and target, so a part referenced twice shares one entry.
func (t *RelTable) FindTarget(relType, target string) (string, bool) {
	for _, r := range t.rels {
		if r.Type == relType && r.Target == target {
			return r.ID, true
		}
	}
	return "", false
}

// ByType returns the relationships of one type in table order.
func (t *RelTable) ByType(relType string) []Relationship {
	if t == nil {
		return nil
	}
	var out []Relationship
	for _, r := range t.rels {
		if r.Type == relType {
			out = append(out, r)
		}
	}
	return out
}

// All returns the relationships in table order.
func (t *RelTable) All() []Relationship {
	if t == nil {
		return nil
	}
	out := make([]Relationship, len(t.rels))
	copy(out, t.rels)
	return out
}

// Len returns the number of relationships.
func (t *RelTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rels)
}

// Resolve returns the package path an internal relationship points at.
func (t *RelTable) Resolve(r Relationship) string {
	return ResolveTarget(t.part, r.Target)
}

// --- serialization ---

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// parseRelTable reads a .rels part for source part.
func parseRelTable(part string, data []byte) (*RelTable, error) {
	var rels xmlRelationships
	d := newXMLDecoder(strings.NewReader(string(data)))
	if err := d.Decode(&rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships %s: %w", RelsPath(part), err)
	}
	t := newRelTable(part)
	for _, r := range rels.Relationships {
		t.put(Relationship{
			ID:       r.ID,
			Type:     r.Type,
			Target:   r.Target,
			External: strings.EqualFold(r.TargetMode, "External"),
		})
	}
	t.next = len(t.rels) + 1
	return t, nil
}

// Marshal renders the table as a .rels part.
func (t *RelTable) Marshal() ([]byte, error) {
	rels := xmlRelationships{Xmlns: nsRelationships}
	for _, r := range t.rels {
		x := xmlRelationship{ID: r.ID, Type: r.Type, Target: r.Target}
		if r.External {
			x.TargetMode = "External"
		}
		rels.Relationships = append(rels.Relationships, x)
	}
	out, err := xml.Marshal(rels)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", RelsPath(t.part), err)
	}
	return append([]byte(xml.Header), out...), nil
}

// RelsPath returns the .rels part holding the relationships of part. The
// package itself is the empty part "".
func RelsPath(part string) string {
	part = normalizePartPath(part)
	if part == "" {
		return "_rels/.rels"
	}
	dir, name := path.Split(part)
	return dir + "_rels/" + name + ".rels"
}

// sourceOfRels is the inverse of RelsPath. It reports false for paths
// that are not .rels parts.
func sourceOfRels(relsPath string) (string, bool) {
	relsPath = normalizePartPath(relsPath)
	if relsPath == "_rels/.rels" {
		return "", true
	}
	dir, name := path.Split(relsPath)
	if !strings.HasSuffix(dir, "_rels/") || !strings.HasSuffix(name, ".rels") {
		return "", false
	}
	return strings.TrimSuffix(dir, "_rels/") + strings.TrimSuffix(name, ".rels"), true
}

// ResolveTarget resolves a relationship target relative to the directory
// of its source part. Absolute targets are package-rooted. ".." segments
// never climb above the package root.
func ResolveTarget(part, target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	dir := path.Dir(normalizePartPath(part))
	if dir == "." {
		dir = ""
	}
	segs := strings.Split(dir, "/")
	if dir == "" {
		segs = nil
	}
	for _, s := range strings.Split(target, "/") {
		switch s {
		case "..":
			if len(segs) > 0 {
				segs = segs[:len(segs)-1]
			}
		case ".", "":
		default:
			segs = append(segs, s)
		}
	}
	return strings.Join(segs, "/")
}

// relativeTarget expresses an absolute part path relative to the
// directory of from, as PowerPoint writes targets.
func relativeTarget(from, to string) string {
	fromDir := path.Dir(normalizePartPath(from))
	if fromDir == "." {
		return normalizePartPath(to)
	}
	fromSegs := strings.Split(fromDir, "/")
	toSegs := strings.Split(normalizePartPath(to), "/")
	i := 0
	for i < len(fromSegs) && i < len(toSegs)-1 && fromSegs[i] == toSegs[i] {
		i++
	}
	var out []string
	for j := i; j < len(fromSegs); j++ {
		out = append(out, "..")
	}
	out = append(out, toSegs[i:]...)
	return strings.Join(out, "/")
}

// RelationshipManager holds the relationship tables of every part of a
// package, keyed by source part.
type RelationshipManager struct {
	tables map[string]*RelTable
}

// NewRelationshipManager returns an empty manager.
func NewRelationshipManager() *RelationshipManager {
	return &RelationshipManager{tables: make(map[string]*RelTable)}
}

// Table returns the table of part, creating it if needed.
func (m *RelationshipManager) Table(part string) *RelTable {
	part = normalizePartPath(part)
	t, ok := m.tables[part]
	if !ok {
		t = newRelTable(part)
		m.tables[part] = t
	}
	return t
}

// Existing returns the table of part, or nil when the part has none.
func (m *RelationshipManager) Existing(part string) *RelTable {
	return m.tables[normalizePartPath(part)]
}

// Parts returns every source part with a table, sorted.
func (m *RelationshipManager) Parts() []string {
	out := make([]string, 0, len(m.tables))
	for p := range m.tables {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// LoadRelationships parses every .rels part in reg.
func LoadRelationships(reg *PartRegistry) (*RelationshipManager, error) {
	m := NewRelationshipManager()
	for _, p := range reg.Paths() {
		src, ok := sourceOfRels(p)
		if !ok {
			continue
		}
		data, _ := reg.Get(p)
		t, err := parseRelTable(src, data)
		if err != nil {
			return nil, err
		}
		m.tables[src] = t
	}
	return m, nil
}

// Store serializes every non-empty table into reg.
func (m *RelationshipManager) Store(reg *PartRegistry) error {
	for _, p := range m.Parts() {
		t := m.tables[p]
		if t.Len() == 0 {
			continue
		}
		data, err := t.Marshal()
		if err != nil {
			return err
		}
		reg.Put(RelsPath(p), data)
	}
	return nil
}

// Graph builds a directed graph of the internal relationships. Vertices
// are part paths, with "" standing for the package root.
func (m *RelationshipManager) Graph() (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())
	addVertex := func(v string) error {
		if err := g.AddVertex(v); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return err
		}
		return nil
	}
	if err := addVertex(""); err != nil {
		return nil, err
	}
	for _, src := range m.Parts() {
		if err := addVertex(src); err != nil {
			return nil, err
		}
		t := m.tables[src]
		for _, r := range t.rels {
			if r.External {
				continue
			}
			dst := t.Resolve(r)
			if err := addVertex(dst); err != nil {
				return nil, err
			}
			if err := g.AddEdge(src, dst); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("failed to link %s -> %s: %w", src, dst, err)
			}
		}
	}
	return g, nil
}

// MissingTarget is an internal relationship whose target part does not
// exist.
type MissingTarget struct {
	Part   string
	ID     string
	Target string
}

// Missing lists the internal relationship targets absent from reg.
func (m *RelationshipManager) Missing(reg *PartRegistry) []MissingTarget {
	var out []MissingTarget
	for _, src := range m.Parts() {
		t := m.tables[src]
		for _, r := range t.rels {
			if r.External {
				continue
			}
			if dst := t.Resolve(r); !reg.Has(dst) {
				out = append(out, MissingTarget{Part: src, ID: r.ID, Target: dst})
			}
		}
	}
	return out
}

// Orphans lists the parts of reg that cannot be reached from the package
// root through internal relationships. [Content_Types].xml and .rels
// parts are never orphans.
func (m *RelationshipManager) Orphans(reg *PartRegistry) ([]string, error) {
	g, err := m.Graph()
	if err != nil {
		return nil, err
	}
	reached := map[string]bool{}
	if err := graph.BFS(g, "", func(v string) bool {
		reached[v] = true
		return false
	}); err != nil {
		return nil, err
	}
	var out []string
	for _, p := range reg.Paths() {
		if p == contentTypesPath || reached[p] {
			continue
		}
		if _, isRels := sourceOfRels(p); isRels {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
