package slidemodel

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTheme_RoundTrip(t *testing.T) {
	want := DefaultTheme()
	want.Name = "Corporate"
	want.Colors[SlotAccent1] = "112233"
	want.MajorFont = "Georgia"

	var warned []string
	got, err := parseTheme([]byte(themeXML(want)), func(field string, err error) { warned = append(warned, field) })
	if err != nil {
		t.Fatalf("parseTheme: %v", err)
	}
	if len(warned) != 0 {
		t.Errorf("warnings: %v", warned)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParseTheme_SysClrAndMissingSlots(t *testing.T) {
	data := `<a:theme xmlns:a="urn:a" name="T"><a:themeElements><a:clrScheme name="x">` +
		`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
		`<a:lt1><a:sysClr val="window"/></a:lt1>` +
		`<a:accent1><a:srgbClr val="abcdef"/></a:accent1>` +
		`</a:clrScheme></a:themeElements></a:theme>`
	var warned []string
	got, err := parseTheme([]byte(data), func(field string, err error) { warned = append(warned, field) })
	if err != nil {
		t.Fatalf("parseTheme: %v", err)
	}
	if got.Colors[SlotDark1] != "000000" || got.Colors[SlotAccent1] != "ABCDEF" {
		t.Errorf("colors = %v", got.Colors)
	}
	if _, ok := got.Colors[SlotLight1]; ok {
		t.Error("sysClr without lastClr produced a color")
	}
	// lt1 is reported twice: once for the bad sysClr, once as missing.
	if !strings.Contains(strings.Join(warned, ","), "theme.lt1") || len(warned) != 11 {
		t.Errorf("warned = %v", warned)
	}
	if _, err := parseTheme([]byte("<a:theme><a:clrScheme>"), func(string, error) {}); err == nil {
		t.Error("truncated theme parsed")
	}
}

func TestThemeColorFallback(t *testing.T) {
	var nilTheme *Theme
	if got := nilTheme.Color(SlotAccent6); got.Hex() != "70AD47" {
		t.Errorf("nil theme accent6 = %s", got.Hex())
	}
	broken := &Theme{Colors: map[ThemeSlot]string{SlotAccent6: "zz"}}
	if got := broken.Color(SlotAccent6); got.Hex() != "70AD47" {
		t.Errorf("unparseable slot = %s", got.Hex())
	}
}
