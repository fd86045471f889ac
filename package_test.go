package slidemodel

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct{ part, target, want string }{
		{"ppt/slides/slide1.xml", "../media/image1.png", "ppt/media/image1.png"},
		{"ppt/slides/slide1.xml", "../slideLayouts/slideLayout2.xml", "ppt/slideLayouts/slideLayout2.xml"},
		{"ppt/presentation.xml", "slides/slide3.xml", "ppt/slides/slide3.xml"},
		{"", "ppt/presentation.xml", "ppt/presentation.xml"},
		{"ppt/slides/slide1.xml", "/ppt/media/x.png", "ppt/media/x.png"},
		{"ppt/slides/slide1.xml", "../../../../etc/passwd", "etc/passwd"},
		{"ppt/slides/slide1.xml", "./chart.xml", "ppt/slides/chart.xml"},
	}
	for _, tt := range tests {
		if got := ResolveTarget(tt.part, tt.target); got != tt.want {
			t.Errorf("ResolveTarget(%q, %q) = %q, want %q", tt.part, tt.target, got, tt.want)
		}
	}
}

func TestRelativeTargetInvertsResolve(t *testing.T) {
	pairs := [][2]string{
		{"ppt/slides/slide1.xml", "ppt/media/image1.png"},
		{"ppt/presentation.xml", "ppt/slides/slide1.xml"},
		{"ppt/slideMasters/slideMaster1.xml", "ppt/theme/theme1.xml"},
		{"", "docProps/core.xml"},
		{"ppt/notesSlides/notesSlide1.xml", "ppt/slides/slide1.xml"},
	}
	for _, p := range pairs {
		rel := relativeTarget(p[0], p[1])
		if got := ResolveTarget(p[0], rel); got != p[1] {
			t.Errorf("%s -> %s: relative %q resolves to %q", p[0], p[1], rel, got)
		}
	}
	if got := relativeTarget("ppt/slides/slide1.xml", "ppt/media/image1.png"); got != "../media/image1.png" {
		t.Errorf("relativeTarget = %q", got)
	}
}

func TestRelsPath(t *testing.T) {
	for part, want := range map[string]string{
		"":                       "_rels/.rels",
		"ppt/presentation.xml":   "ppt/_rels/presentation.xml.rels",
		"/ppt/slides/slide2.xml": "ppt/slides/_rels/slide2.xml.rels",
	} {
		got := RelsPath(part)
		if got != want {
			t.Errorf("RelsPath(%q) = %q, want %q", part, got, want)
		}
		src, ok := sourceOfRels(got)
		if !ok || src != strings.TrimPrefix(part, "/") {
			t.Errorf("sourceOfRels(%q) = %q, %v", got, src, ok)
		}
	}
	if _, ok := sourceOfRels("ppt/slides/slide1.xml"); ok {
		t.Error("slide part taken for a rels part")
	}
}

func TestRelTable_AddBindMarshal(t *testing.T) {
	tbl := newRelTable("ppt/slides/slide1.xml")
	tbl.Bind("rId2", relTypeImage, "../media/image1.png", false)
	id1 := tbl.Add(relTypeSlideLayout, "../slideLayouts/slideLayout1.xml", false)
	id3 := tbl.Add(relTypeHyperlink, "https://example.com/?a=1&b=2", true)
	if id1 != "rId1" || id3 != "rId3" {
		t.Fatalf("ids = %s, %s; Add must skip the bound rId2", id1, id3)
	}
	if id, ok := tbl.FindTarget(relTypeImage, "../media/image1.png"); !ok || id != "rId2" {
		t.Errorf("FindTarget = %q, %v", id, ok)
	}

	data, err := tbl.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := parseRelTable(tbl.Part(), data)
	if err != nil {
		t.Fatalf("parseRelTable: %v", err)
	}
	if diff := cmp.Diff(tbl.All(), back.All()); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	if next := back.Add(relTypeImage, "../media/image2.png", false); next != "rId4" {
		t.Errorf("next id after reload = %s", next)
	}
	if got := back.Resolve(Relationship{Target: "../media/image1.png"}); got != "ppt/media/image1.png" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestRelationshipManager_MissingAndOrphans(t *testing.T) {
	reg := NewPartRegistry()
	reg.PutString(partPresentation, "<p:presentation/>")
	reg.PutString("ppt/slides/slide1.xml", "<p:sld/>")
	reg.PutString("ppt/media/unused.png", "x")

	m := NewRelationshipManager()
	m.Table("").Add(relTypeOfficeDoc, partPresentation, false)
	pres := m.Table(partPresentation)
	pres.Add(relTypeSlide, "slides/slide1.xml", false)
	pres.Add(relTypeSlide, "slides/slide2.xml", false)
	m.Table("ppt/slides/slide1.xml").Add(relTypeHyperlink, "https://example.com", true)

	missing := m.Missing(reg)
	want := []MissingTarget{{Part: partPresentation, ID: "rId2", Target: "ppt/slides/slide2.xml"}}
	if diff := cmp.Diff(want, missing); diff != "" {
		t.Errorf("Missing (-want +got):\n%s", diff)
	}

	if err := m.Store(reg); err != nil {
		t.Fatalf("Store: %v", err)
	}
	orphans, err := m.Orphans(reg)
	if err != nil {
		t.Fatalf("Orphans: %v", err)
	}
	if diff := cmp.Diff([]string{"ppt/media/unused.png"}, orphans); diff != "" {
		t.Errorf("Orphans (-want +got):\n%s", diff)
	}

	loaded, err := LoadRelationships(reg)
	if err != nil {
		t.Fatalf("LoadRelationships: %v", err)
	}
	if diff := cmp.Diff(m.Parts(), loaded.Parts()); diff != "" {
		t.Errorf("reloaded parts (-want +got):\n%s", diff)
	}
}

func TestContentTypes(t *testing.T) {
	ct := NewContentTypes()
	for _, p := range []string{
		"ppt/presentation.xml", "ppt/slides/slide12.xml", "ppt/theme/theme2.xml",
		"ppt/media/image1.PNG", "ppt/media/image2.png", "docProps/thumbnail.jpeg", "ppt/custom.xml",
	} {
		ct.Register(p)
	}
	for part, want := range map[string]string{
		"ppt/slides/slide12.xml":  ctSlide,
		"/ppt/theme/theme2.xml":   ctTheme,
		"ppt/media/image2.png":    "image/png",
		"docProps/thumbnail.jpeg": "image/jpeg",
		"ppt/custom.xml":          "application/xml",
		"ppt/_rels/x.xml.rels":    ctRels,
	} {
		if got, ok := ct.Lookup(part); !ok || got != want {
			t.Errorf("Lookup(%q) = %q, %v; want %q", part, got, ok, want)
		}
	}
	if _, ok := ct.Lookup("ppt/media/movie.mp4"); ok {
		t.Error("unregistered extension resolved")
	}

	data, err := ct.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := parseContentTypes(data)
	if err != nil {
		t.Fatalf("parseContentTypes: %v", err)
	}
	again, err := back.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Errorf("content types do not round trip:\n%s\n%s", data, again)
	}
}

func TestPartRegistry_ZipRoundTrip(t *testing.T) {
	reg := NewPartRegistry()
	reg.PutString("ppt/slides/slide1.xml", "<p:sld/>")
	reg.PutString("_rels/.rels", "<Relationships/>")
	reg.PutString(contentTypesPath, "<Types/>")
	reg.Put("/ppt/media/a.bin", []byte{1, 2, 3})

	data, ok := reg.Get("ppt/media/a.bin")
	if !ok {
		t.Fatal("leading slash not normalized")
	}
	data[0] = 9
	if again, _ := reg.Get("ppt/media/a.bin"); again[0] != 1 {
		t.Error("Get exposed the stored part")
	}

	var buf bytes.Buffer
	if err := reg.WriteZip(&buf); err != nil {
		t.Fatalf("WriteZip: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	want := []string{contentTypesPath, "_rels/.rels", "ppt/media/a.bin", "ppt/slides/slide1.xml"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("zip order (-want +got):\n%s", diff)
	}

	back, err := LoadZip(bytes.NewReader(buf.Bytes()), int64(buf.Len()), DefaultLimits())
	if err != nil {
		t.Fatalf("LoadZip: %v", err)
	}
	if diff := cmp.Diff(reg.Paths(), back.Paths()); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}
}

func TestLoadZip_Limits(t *testing.T) {
	reg := NewPartRegistry()
	reg.PutString("a.xml", strings.Repeat("x", 100))
	reg.PutString("b.xml", "y")
	var buf bytes.Buffer
	if err := reg.WriteZip(&buf); err != nil {
		t.Fatalf("WriteZip: %v", err)
	}
	r := bytes.NewReader(buf.Bytes())
	size := int64(buf.Len())

	if _, err := LoadZip(r, size, Limits{MaxEntrySize: 50, MaxTotalSize: 1 << 20, MaxEntries: 10}); err == nil {
		t.Error("oversized entry accepted")
	}
	if _, err := LoadZip(r, size, Limits{MaxEntrySize: 1 << 20, MaxTotalSize: 1 << 20, MaxEntries: 1}); err == nil {
		t.Error("too many entries accepted")
	}
	if _, err := LoadZip(r, size, Limits{MaxEntrySize: 1 << 20, MaxTotalSize: 10, MaxEntries: 10}); err == nil {
		t.Error("oversized container accepted")
	}
	if _, err := LoadZip(bytes.NewReader([]byte("not a zip")), 9, DefaultLimits()); err == nil {
		t.Error("garbage accepted")
	}
}
