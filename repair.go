package slidemodel

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"strconv"
)

// repairSlide runs on every generated slide. It makes sure each group has
// a transform, drops style references the record did not ask for, pins
// the tree root to id 1 and makes every shape id unique.
func repairSlide(spTree *xmlNode, shapes []ShapeModel, nodes []*xmlNode) {
	spTree.walk(func(n *xmlNode) bool {
		if n.Name.Local == "grpSpPr" && n.child("xfrm") == nil {
			xfrm, _ := parseFragment(`<a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm>`)
			n.insertChild(0, xfrm)
		}
		return true
	})

	for i, n := range nodes {
		if i >= len(shapes) || shapes[i].HasStyle {
			continue
		}
		if st := n.child("style"); st != nil {
			n.removeChild(st)
		}
	}

	if nv := spTree.path("nvGrpSpPr", "cNvPr"); nv != nil {
		nv.setAttr("id", "1")
		nv.setAttr("name", "")
	}
	uniqueShapeIDs(spTree)
}

// uniqueShapeIDs renumbers cNvPr ids that are missing, unparseable or
// already taken. The first holder of an id keeps it.
func uniqueShapeIDs(spTree *xmlNode) {
	var all []*xmlNode
	spTree.walk(func(n *xmlNode) bool {
		if n.Name.Local == "cNvPr" {
			all = append(all, n)
		}
		return true
	})
	maxID := 1
	for _, n := range all {
		if id, err := strconv.Atoi(n.attr("id")); err == nil && id > maxID {
			maxID = id
		}
	}
	root := spTree.path("nvGrpSpPr", "cNvPr")
	taken := map[int]bool{1: true}
	for _, n := range all {
		if n == root {
			continue
		}
		id, err := strconv.Atoi(n.attr("id"))
		if err != nil || id < 1 || taken[id] {
			maxID++
			id = maxID
			n.setAttr("id", strconv.Itoa(id))
		}
		taken[id] = true
	}
}

// relRef is one relationship id attribute found in a slide tree.
type relRef struct {
	node  *xmlNode
	name  xml.Name
	id    string
	owner int // index of the owning top-level shape, -1 when none
}

// collectRelRefs finds every r:embed, r:id, r:link and r:pict attribute
// below root, resolving prefixes through in-scope declarations.
func collectRelRefs(root *xmlNode, nodes []*xmlNode) []relRef {
	owners := make(map[*xmlNode]int, len(nodes))
	for i, n := range nodes {
		owners[n] = i
	}
	var refs []relRef
	root.walk(func(n *xmlNode) bool {
		for _, a := range n.Attr {
			if !relAttrLocals[a.Name.Local] || a.Name.Space == "" {
				continue
			}
			if n.namespaceFor(a.Name.Space) != nsOfficeDocRels {
				continue
			}
			owner := -1
			for x := n; x != nil; x = x.parent {
				if i, ok := owners[x]; ok {
					owner = i
					break
				}
			}
			refs = append(refs, relRef{node: n, name: a.Name, id: a.Value, owner: owner})
		}
		return true
	})
	return refs
}

// inMediaContext reports whether a reference points at image data: a blip
// embed or link, a legacy pict, or any id inside a picture.
func inMediaContext(n *xmlNode, local string) bool {
	if local == "embed" || local == "link" || local == "pict" {
		return true
	}
	for x := n; x != nil; x = x.parent {
		if x.Name.Local == "blip" || x.Name.Local == "pic" {
			return true
		}
	}
	return false
}

// repairReferences resolves every relationship id the slide uses. A
// dangling id in a media context is bound to the first unused catalog
// image under a fresh id; any other dangling id sends its owning shape to
// the fallback path: the simplified retry, or a plain rectangle when that
// fails too.
func (b *slideBuilder) repairReferences(root *xmlNode, shapes []ShapeModel, nodes []*xmlNode) {
	replaced := make(map[int]bool)
	for _, ref := range collectRelRefs(root, nodes) {
		if ref.owner >= 0 && replaced[ref.owner] {
			continue
		}
		if _, ok := b.rels.Lookup(ref.id); ok {
			continue
		}
		var s *ShapeModel
		if ref.owner >= 0 && ref.owner < len(shapes) {
			s = &shapes[ref.owner]
		} else {
			s = &ShapeModel{}
		}
		if inMediaContext(ref.node, ref.name.Local) {
			if key, ok := b.g.Media.FirstUnused(b.g.usedMedia); ok {
				target, err := b.g.mediaTarget(key)
				if err == nil {
					id := b.relFor(relTypeImage, relativeTarget(b.part, target), false)
					setAttrValue(ref.node, ref.name, id)
					b.g.log.Debug("dangling media reference rebound",
						slog.Int("slide", b.num), slog.String("id", ref.id), slog.String("rebound", id), slog.String("media", key))
					continue
				}
			}
		}
		b.warn(s, &DanglingRelationshipError{Part: b.part, ID: ref.id})
		if ref.owner < 0 {
			removeAttr(ref.node, ref.name)
			continue
		}
		fb := b.g.fallback(Fallback{Slide: b.num, ShapeID: s.ShapeID, Name: s.Name,
			Err: fmt.Errorf("unresolvable reference %s: %w", ref.id, &DanglingRelationshipError{Part: b.part, ID: ref.id})})
		n, ok := b.retrySimplified(s)
		if ok {
			b.g.fallbacks[fb].Recovered = true
		} else {
			n = b.mustFragment(b.minimalRectXML(s))
		}
		old := nodes[ref.owner]
		if old.parent != nil && old.parent.replaceChild(old, n) {
			nodes[ref.owner] = n
		}
		replaced[ref.owner] = true
	}
	if len(replaced) > 0 {
		uniqueShapeIDs(root.path("cSld", "spTree"))
	}
}

func setAttrValue(n *xmlNode, name xml.Name, value string) {
	for i, a := range n.Attr {
		if a.Name == name {
			n.Attr[i].Value = value
			return
		}
	}
}

func removeAttr(n *xmlNode, name xml.Name) {
	for i, a := range n.Attr {
		if a.Name == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}
