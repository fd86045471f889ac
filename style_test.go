package slidemodel

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHexColor(t *testing.T) {
	for in, want := range map[string]ColorSpec{
		"FF0000":   RGB(255, 0, 0),
		"#00ff80":  RGB(0, 255, 128),
		"80112233": RGB(0x11, 0x22, 0x33),
		" 0A0B0C ": RGB(10, 11, 12),
	} {
		got, err := ParseHexColor(in)
		if err != nil {
			t.Errorf("ParseHexColor(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseHexColor(%q) = %+v, want %+v", in, got, want)
		}
	}
	for _, bad := range []string{"", "FFF", "GGGGGG", "1234567"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("ParseHexColor(%q) accepted", bad)
		}
	}
	if got := RGB(1, 171, 255).Hex(); got != "01ABFF" {
		t.Errorf("Hex = %s", got)
	}
}

func TestColorResolve(t *testing.T) {
	theme := DefaultTheme()
	if got := ThemeColor(SlotAccent1, 0).Resolve(theme); got != RGB(0x44, 0x72, 0xC4) {
		t.Errorf("accent1 = %s", got.Hex())
	}
	if got := ThemeColor(SlotAccent1, 1).Resolve(theme); got != RGB(255, 255, 255) {
		t.Errorf("full brightness = %s, want white", got.Hex())
	}
	if got := ThemeColor(SlotAccent1, -1).Resolve(theme); got != RGB(0, 0, 0) {
		t.Errorf("full darkness = %s, want black", got.Hex())
	}
	lighter := ThemeColor(SlotAccent1, 0.4).Resolve(nil)
	if int(lighter.R)+int(lighter.G)+int(lighter.B) <= 0x44+0x72+0xC4 {
		t.Errorf("lightened accent1 %s is not lighter", lighter.Hex())
	}
	custom := &Theme{Colors: map[ThemeSlot]string{SlotAccent2: "123456"}}
	if got := ThemeColor(SlotAccent2, 0).Resolve(custom); got != RGB(0x12, 0x34, 0x56) {
		t.Errorf("custom accent2 = %s", got.Hex())
	}
	if got := ThemeColor(SlotDark2, 0).Resolve(custom); got.Hex() != "44546A" {
		t.Errorf("missing slot falls back to default, got %s", got.Hex())
	}
	if ThemeColor(SlotAccent1, 5).Brightness != 1 {
		t.Error("brightness not clamped")
	}
}

func TestLumModOffRoundTrip(t *testing.T) {
	for _, b := range []float64{0, 0.25, 0.4, 0.8, -0.25, -0.5} {
		mod, off := lumModOff(b)
		if got := brightnessFromLum(mod, off); got < b-1e-9 || got > b+1e-9 {
			t.Errorf("brightness %v -> (%d, %d) -> %v", b, mod, off, got)
		}
	}
	if mod, off := lumModOff(0); mod != 100000 || off != 0 {
		t.Errorf("lumModOff(0) = %d, %d", mod, off)
	}
}

func TestSlotFromScheme(t *testing.T) {
	for val, want := range map[string]ThemeSlot{"tx1": SlotDark1, "bg1": SlotLight1, "accent6": SlotAccent6, "folHlink": SlotFollowedHyperlink} {
		if got, ok := slotFromScheme(val); !ok || got != want {
			t.Errorf("slotFromScheme(%q) = %v, %v", val, got, ok)
		}
	}
	if _, ok := slotFromScheme("phClr"); ok {
		t.Error("phClr mapped to a slot")
	}
}

func TestGradientStopsNormalized(t *testing.T) {
	f := GradientFill(90,
		GradientStop{Position: 1.5, Color: RGB(0, 0, 255)},
		GradientStop{Position: -1, Color: RGB(255, 0, 0)},
		GradientStop{Position: 0.5, Color: RGB(0, 255, 0)},
	)
	want := []GradientStop{
		{Position: 0, Color: RGB(255, 0, 0)},
		{Position: 0.5, Color: RGB(0, 255, 0)},
		{Position: 1, Color: RGB(0, 0, 255)},
	}
	if diff := cmp.Diff(want, f.normalizedStops()); diff != "" {
		t.Errorf("stops (-want +got):\n%s", diff)
	}
	if f.Stops[0].Position != 1.5 {
		t.Error("normalizedStops mutated the fill")
	}
}

func TestLineVisible(t *testing.T) {
	var nilLine *LineSpec
	if nilLine.Visible() || NoLine().Visible() {
		t.Error("absent or zero-width line is visible")
	}
	if !SolidLine(Point(1), RGB(0, 0, 0)).Visible() {
		t.Error("solid line is invisible")
	}
	l := SolidLine(Point(1), RGB(0, 0, 0))
	l.Fill = NoFill()
	if l.Visible() {
		t.Error("noFill line is visible")
	}
}

func TestEnumsMarshalAsNames(t *testing.T) {
	in := FillSpec{Type: FillPattern, Pattern: "pct50", Fore: &ColorSpec{Type: ColorTheme, Slot: SlotAccent3}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"type":"pattern","pattern":"pct50","fore":{"type":"theme","slot":"accent3"}}`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
	var back FillSpec
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, back); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	var d DashStyle
	if err := d.UnmarshalText([]byte("zigzag")); err == nil {
		t.Error("unknown dash accepted")
	}
}
