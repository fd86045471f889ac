package slidemodel

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// newXMLDecoder returns a decoder that accepts any encoding the charset
// package knows, not just UTF-8.
func newXMLDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	return d
}

var xmlDeclEncoding = regexp.MustCompile(`^\s*<\?xml[^>]*encoding=["']([^"']+)["'][^>]*\?>`)

// toUTF8 re-encodes a part that declares a non-UTF-8 encoding so byte
// offsets taken while decoding line up with the returned data.
func toUTF8(data []byte) ([]byte, error) {
	m := xmlDeclEncoding.FindSubmatchIndex(data)
	if m == nil {
		return data, nil
	}
	label := strings.ToLower(string(data[m[2]:m[3]]))
	if label == "utf-8" || label == "utf8" {
		return data, nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data[m[1]:]))
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s content: %w", label, err)
	}
	out := append([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`), body...)
	return out, nil
}

// attrValue returns the value of the first attribute with the given local
// name, ignoring its namespace.
func attrValue(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// xmlEscape escapes special XML characters using the standard library.
func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

type nodeKind int

const (
	elementNode nodeKind = iota
	textNode
	commentNode
	procInstNode
	directiveNode
)

// xmlNode is a prefix-preserving element tree. Name.Space holds the
// literal prefix ("p", "a", "r"), not a namespace URI, so a tree
// serializes back to the same qualified names it was parsed from.
type xmlNode struct {
	kind     nodeKind
	Name     xml.Name
	Attr     []xml.Attr
	Children []*xmlNode
	Text     string
	parent   *xmlNode

	// Byte range of the element in the source, when parsed.
	start, end int64
}

func newElement(prefix, local string, attrs ...xml.Attr) *xmlNode {
	return &xmlNode{kind: elementNode, Name: xml.Name{Space: prefix, Local: local}, Attr: attrs}
}

func xmlAttr(prefix, local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Space: prefix, Local: local}, Value: value}
}

// parseXMLTree parses a whole document. The returned node is a synthetic
// document node whose children are the prolog and the root element.
func parseXMLTree(data []byte) (*xmlNode, error) {
	doc := &xmlNode{kind: elementNode}
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = true
	d.CharsetReader = charset.NewReaderLabel
	cur := doc
	for {
		off := d.InputOffset()
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{kind: elementNode, Name: t.Name, Attr: append([]xml.Attr(nil), t.Attr...), parent: cur, start: off}
			cur.Children = append(cur.Children, n)
			cur = n
		case xml.EndElement:
			if cur == doc || cur.Name != t.Name {
				return nil, fmt.Errorf("unexpected end element </%s> at offset %d", qualified(t.Name), off)
			}
			cur.end = d.InputOffset()
			cur = cur.parent
		case xml.CharData:
			if cur == doc {
				continue
			}
			cur.Children = append(cur.Children, &xmlNode{kind: textNode, Text: string(t), parent: cur})
		case xml.Comment:
			cur.Children = append(cur.Children, &xmlNode{kind: commentNode, Text: string(t), parent: cur})
		case xml.ProcInst:
			if t.Target == "xml" {
				continue
			}
			cur.Children = append(cur.Children, &xmlNode{kind: procInstNode, Name: xml.Name{Local: t.Target}, Text: string(t.Inst), parent: cur})
		case xml.Directive:
			cur.Children = append(cur.Children, &xmlNode{kind: directiveNode, Text: string(t), parent: cur})
		}
	}
	if cur != doc {
		return nil, fmt.Errorf("unclosed element <%s>", qualified(cur.Name))
	}
	if doc.root() == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return doc, nil
}

// parseFragment parses a single element, such as a shape, into a detached
// node.
func parseFragment(s string) (*xmlNode, error) {
	doc, err := parseXMLTree([]byte(s))
	if err != nil {
		return nil, err
	}
	root := doc.root()
	root.parent = nil
	return root, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// root returns the first element child of a document node.
func (n *xmlNode) root() *xmlNode {
	for _, c := range n.Children {
		if c.kind == elementNode {
			return c
		}
	}
	return nil
}

func (n *xmlNode) is(prefix, local string) bool {
	return n != nil && n.kind == elementNode && n.Name.Local == local && (prefix == "" || n.Name.Space == prefix)
}

// child returns the first element child with the given local name.
func (n *xmlNode) child(local string) *xmlNode {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.kind == elementNode && c.Name.Local == local {
			return c
		}
	}
	return nil
}

// path walks a chain of local names from n.
func (n *xmlNode) path(locals ...string) *xmlNode {
	cur := n
	for _, l := range locals {
		cur = cur.child(l)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// elements returns the element children.
func (n *xmlNode) elements() []*xmlNode {
	if n == nil {
		return nil
	}
	out := make([]*xmlNode, 0, len(n.Children))
	for _, c := range n.Children {
		if c.kind == elementNode {
			out = append(out, c)
		}
	}
	return out
}

// find returns the first descendant with the given local name.
func (n *xmlNode) find(local string) *xmlNode {
	var found *xmlNode
	n.walk(func(c *xmlNode) bool {
		if found != nil {
			return false
		}
		if c != n && c.Name.Local == local {
			found = c
			return false
		}
		return true
	})
	return found
}

// walk visits n and its element descendants depth first. Returning false
// skips a node's children.
func (n *xmlNode) walk(fn func(*xmlNode) bool) {
	if n == nil || n.kind != elementNode {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn)
	}
}

func (n *xmlNode) attr(local string) string {
	if n == nil {
		return ""
	}
	return attrValue(n.Attr, local)
}

func (n *xmlNode) hasAttr(local string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return true
		}
	}
	return false
}

// setAttr replaces or appends an unprefixed attribute.
func (n *xmlNode) setAttr(local, value string) {
	for i, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xmlAttr("", local, value))
}

// text returns the concatenated character data below n.
func (n *xmlNode) text() string {
	var b strings.Builder
	var rec func(*xmlNode)
	rec = func(x *xmlNode) {
		for _, c := range x.Children {
			switch c.kind {
			case textNode:
				b.WriteString(c.Text)
			case elementNode:
				rec(c)
			}
		}
	}
	if n != nil {
		rec(n)
	}
	return b.String()
}

func (n *xmlNode) appendChild(c *xmlNode) {
	c.parent = n
	n.Children = append(n.Children, c)
}

// insertChild inserts c at element position i among n's children.
func (n *xmlNode) insertChild(i int, c *xmlNode) {
	c.parent = n
	if i >= len(n.Children) {
		n.Children = append(n.Children, c)
		return
	}
	n.Children = append(n.Children[:i+1], n.Children[i:]...)
	n.Children[i] = c
}

func (n *xmlNode) removeChild(c *xmlNode) {
	for i, x := range n.Children {
		if x == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

func (n *xmlNode) replaceChild(old, with *xmlNode) bool {
	for i, x := range n.Children {
		if x == old {
			n.Children[i] = with
			with.parent = n
			old.parent = nil
			return true
		}
	}
	return false
}

// namespaceFor resolves a prefix through xmlns declarations on n and its
// ancestors.
func (n *xmlNode) namespaceFor(prefix string) string {
	for x := n; x != nil; x = x.parent {
		for _, a := range x.Attr {
			if prefix == "" && a.Name.Space == "" && a.Name.Local == "xmlns" {
				return a.Value
			}
			if a.Name.Space == "xmlns" && a.Name.Local == prefix {
				return a.Value
			}
		}
	}
	return ""
}

// declarations returns the xmlns declarations made directly on n, keyed
// by prefix.
func (n *xmlNode) declarations() map[string]string {
	out := make(map[string]string)
	for _, a := range n.Attr {
		if a.Name.Space == "xmlns" {
			out[a.Name.Local] = a.Value
		}
	}
	return out
}

// String serializes the subtree.
func (n *xmlNode) String() string {
	var b strings.Builder
	n.writeTo(&b)
	return b.String()
}

// document serializes a document node with a standalone XML declaration.
func (n *xmlNode) document() []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	for _, c := range n.Children {
		if c.kind == textNode {
			continue
		}
		c.writeTo(&b)
	}
	return []byte(b.String())
}

func (n *xmlNode) writeTo(b *strings.Builder) {
	switch n.kind {
	case textNode:
		b.WriteString(xmlEscape(n.Text))
		return
	case commentNode:
		b.WriteString("<!--" + n.Text + "-->")
		return
	case procInstNode:
		b.WriteString("<?" + n.Name.Local + " " + n.Text + "?>")
		return
	case directiveNode:
		b.WriteString("<!" + n.Text + ">")
		return
	}
	if n.Name.Local == "" {
		for _, c := range n.Children {
			c.writeTo(b)
		}
		return
	}
	name := qualified(n.Name)
	b.WriteString("<" + name)
	for _, a := range n.Attr {
		b.WriteString(" " + qualified(a.Name) + `="` + escapeAttr(a.Value) + `"`)
	}
	if len(n.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
	for _, c := range n.Children {
		c.writeTo(b)
	}
	b.WriteString("</" + name + ">")
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;", "\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;")

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
