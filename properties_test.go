package slidemodel

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCoreProperties_RoundTrip(t *testing.T) {
	want := DocumentProperties{
		Creator:        "Ada",
		LastModifiedBy: "Grace",
		Title:          "Plan & budget",
		Description:    "FY review",
		Subject:        "finance",
		Keywords:       "q1 q2",
		Category:       "internal",
		Revision:       "7",
		Created:        time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Modified:       time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	got, err := parseCoreProperties([]byte(corePropertiesXML(want)), func(field string, err error) {
		t.Errorf("warning on %s: %v", field, err)
	})
	if err != nil {
		t.Fatalf("parseCoreProperties: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	props := want
	props.Company = "Acme <Ltd>"
	if got := parseAppCompany([]byte(appPropertiesXML(props, 3))); got != "Acme <Ltd>" {
		t.Errorf("company = %q", got)
	}
}

func TestCoreProperties_BadDate(t *testing.T) {
	data := `<cp:coreProperties xmlns:cp="urn:cp" xmlns:dcterms="urn:dcterms"><dcterms:created>yesterday</dcterms:created></cp:coreProperties>`
	var fields []string
	got, err := parseCoreProperties([]byte(data), func(field string, err error) { fields = append(fields, field) })
	if err != nil {
		t.Fatalf("parseCoreProperties: %v", err)
	}
	if !got.Created.IsZero() {
		t.Errorf("created = %v", got.Created)
	}
	if diff := cmp.Diff([]string{"properties.created"}, fields); diff != "" {
		t.Errorf("warnings (-want +got):\n%s", diff)
	}
}

func TestSlideSizes(t *testing.T) {
	if s, ok := NamedSlideSize(LayoutScreen4x3); !ok || s.Width != 9144000 || s.Height != 6858000 || s.Type != "screen4x3" {
		t.Errorf("screen4x3 = %+v, %v", s, ok)
	}
	if _, ok := NamedSlideSize("poster"); ok {
		t.Error("unknown size resolved")
	}
	if got := (SlideSize{Width: -1, Height: 100}).normalized(); got.Width != DefaultSlideSize().Width || got.Height != 100 {
		t.Errorf("normalized = %+v", got)
	}
}

func TestMergeProperties(t *testing.T) {
	defaults := NewDocumentProperties()
	got := mergeProperties(defaults, DocumentProperties{Creator: "Ada"})
	if got.Creator != "Ada" || got.LastModifiedBy != defaults.LastModifiedBy || got.Revision != "1" || got.Created.IsZero() {
		t.Errorf("merged = %+v", got)
	}
	if got.Title != "" {
		t.Error("title filled from defaults")
	}
}
