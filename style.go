package slidemodel

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ColorType discriminates the ColorSpec variants.
type ColorType int

const (
	ColorRGB ColorType = iota
	ColorTheme
)

var colorTypeNames = []string{"rgb", "theme"}

func (t ColorType) String() string {
	if int(t) < len(colorTypeNames) {
		return colorTypeNames[t]
	}
	return "rgb"
}

func (t ColorType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ColorType) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, colorTypeNames, (*int)(t), "color type")
}

// ThemeSlot names one entry of the theme color scheme.
type ThemeSlot int

const (
	SlotDark1 ThemeSlot = iota
	SlotLight1
	SlotDark2
	SlotLight2
	SlotAccent1
	SlotAccent2
	SlotAccent3
	SlotAccent4
	SlotAccent5
	SlotAccent6
	SlotHyperlink
	SlotFollowedHyperlink
)

var themeSlotNames = []string{
	"dark1", "light1", "dark2", "light2",
	"accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
	"hyperlink", "followed_hyperlink",
}

// schemeNames are the a:clrScheme child element names, in slot order.
var schemeNames = []string{
	"dk1", "lt1", "dk2", "lt2",
	"accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
	"hlink", "folHlink",
}

func (s ThemeSlot) String() string {
	if int(s) < len(themeSlotNames) {
		return themeSlotNames[s]
	}
	return "dark1"
}

// SchemeName returns the DrawingML scheme color value for the slot.
func (s ThemeSlot) SchemeName() string {
	if int(s) < len(schemeNames) {
		return schemeNames[s]
	}
	return "dk1"
}

func (s ThemeSlot) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ThemeSlot) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, themeSlotNames, (*int)(s), "theme slot")
}

// slotFromScheme maps an a:schemeClr val to a slot. The mapped names
// tx1/bg1/tx2/bg2 resolve through the default color map.
func slotFromScheme(val string) (ThemeSlot, bool) {
	switch val {
	case "tx1":
		return SlotDark1, true
	case "bg1":
		return SlotLight1, true
	case "tx2":
		return SlotDark2, true
	case "bg2":
		return SlotLight2, true
	}
	for i, n := range schemeNames {
		if n == val {
			return ThemeSlot(i), true
		}
	}
	return SlotDark1, false
}

// ColorSpec is either an explicit RGB color or a theme slot reference with
// a brightness adjustment in [-1, 1].
type ColorSpec struct {
	Type       ColorType `json:"type"`
	R          uint8     `json:"r,omitempty"`
	G          uint8     `json:"g,omitempty"`
	B          uint8     `json:"b,omitempty"`
	Slot       ThemeSlot `json:"slot,omitempty"`
	Brightness float64   `json:"brightness,omitempty"`
}

// RGB returns an explicit color.
func RGB(r, g, b uint8) ColorSpec {
	return ColorSpec{Type: ColorRGB, R: r, G: g, B: b}
}

// ThemeColor returns a theme reference. Brightness is clamped to [-1, 1].
func ThemeColor(slot ThemeSlot, brightness float64) ColorSpec {
	return ColorSpec{Type: ColorTheme, Slot: slot, Brightness: clampUnit(brightness)}
}

// ParseHexColor accepts "RRGGBB", "#RRGGBB" or "AARRGGBB".
func ParseHexColor(s string) (ColorSpec, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 8 {
		s = s[2:]
	}
	if len(s) != 6 {
		return ColorSpec{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return ColorSpec{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Hex returns the RGB value as six upper-case hex digits.
func (c ColorSpec) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Resolve returns the concrete RGB color, looking theme references up in
// theme. A nil theme falls back to the default Office palette.
func (c ColorSpec) Resolve(theme *Theme) ColorSpec {
	if c.Type == ColorRGB {
		return c
	}
	if theme == nil {
		theme = DefaultTheme()
	}
	base := theme.Color(c.Slot)
	if c.Brightness == 0 {
		return base
	}
	if c.Brightness > 0 {
		return adjustLuminance(base, 1-c.Brightness, c.Brightness)
	}
	return adjustLuminance(base, 1+c.Brightness, 0)
}

// lumModOff converts a brightness adjustment to lumMod/lumOff values in
// 1/100000 units. A zero lumOff means the element is omitted.
func lumModOff(brightness float64) (lumMod, lumOff int) {
	b := clampUnit(brightness)
	switch {
	case b > 0:
		return int(math.Round((1 - b) * 100000)), int(math.Round(b * 100000))
	case b < 0:
		return int(math.Round((1 + b) * 100000)), 0
	}
	return 100000, 0
}

// brightnessFromLum inverts lumModOff.
func brightnessFromLum(lumMod, lumOff int) float64 {
	if lumOff > 0 {
		return clampUnit(float64(lumOff) / 100000)
	}
	if lumMod > 0 && lumMod < 100000 {
		return clampUnit(float64(lumMod)/100000 - 1)
	}
	return 0
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// adjustLuminance applies lumMod and lumOff in HSL space.
func adjustLuminance(c ColorSpec, mod, off float64) ColorSpec {
	h, s, l := rgbToHSL(c.R, c.G, c.B)
	l = math.Max(0, math.Min(1, l*mod+off))
	r, g, b := hslToRGB(h, s, l)
	return RGB(r, g, b)
}

// applyTint blends toward white. applyShade blends toward black.
func applyTint(c ColorSpec, t float64) ColorSpec {
	blend := func(v uint8) uint8 { return uint8(math.Round(float64(v)*t + 255*(1-t))) }
	return RGB(blend(c.R), blend(c.G), blend(c.B))
}

func applyShade(c ColorSpec, s float64) ColorSpec {
	blend := func(v uint8) uint8 { return uint8(math.Round(float64(v) * s)) }
	return RGB(blend(c.R), blend(c.G), blend(c.B))
}

func rgbToHSL(r8, g8, b8 uint8) (h, s, l float64) {
	r, g, b := float64(r8)/255, float64(g8)/255, float64(b8)/255
	mx := math.Max(r, math.Max(g, b))
	mn := math.Min(r, math.Min(g, b))
	l = (mx + mn) / 2
	if mx == mn {
		return 0, 0, l
	}
	d := mx - mn
	if l > 0.5 {
		s = d / (2 - mx - mn)
	} else {
		s = d / (mx + mn)
	}
	switch mx {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hue := func(t float64) uint8 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		var v float64
		switch {
		case t < 1.0/6:
			v = p + (q-p)*6*t
		case t < 0.5:
			v = q
		case t < 2.0/3:
			v = p + (q-p)*(2.0/3-t)*6
		default:
			v = p
		}
		return uint8(math.Round(v * 255))
	}
	return hue(h + 1.0/3), hue(h), hue(h - 1.0/3)
}

// FillType discriminates the FillSpec variants. The zero value means the
// fill is inherited from the layout or theme.
type FillType int

const (
	FillInherited FillType = iota
	FillNone
	FillSolid
	FillGradient
	FillPattern
	FillPicture
)

var fillTypeNames = []string{"inherited", "none", "solid", "gradient", "pattern", "picture"}

func (t FillType) String() string {
	if int(t) < len(fillTypeNames) {
		return fillTypeNames[t]
	}
	return "inherited"
}

func (t FillType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *FillType) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, fillTypeNames, (*int)(t), "fill type")
}

// GradientStop is one color stop; Position is in [0, 1].
type GradientStop struct {
	Position float64   `json:"position"`
	Color    ColorSpec `json:"color"`
}

// FillSpec describes how a shape or line interior is painted.
type FillSpec struct {
	Type     FillType       `json:"type"`
	Color    *ColorSpec     `json:"color,omitempty"`
	Stops    []GradientStop `json:"stops,omitempty"`
	Angle    float64        `json:"angle,omitempty"` // linear gradient angle, degrees
	Pattern  string         `json:"pattern,omitempty"`
	Fore     *ColorSpec     `json:"fore,omitempty"`
	Back     *ColorSpec     `json:"back,omitempty"`
	MediaKey string         `json:"media_key,omitempty"`
}

// NoFill returns an explicit empty fill.
func NoFill() FillSpec { return FillSpec{Type: FillNone} }

// SolidFill returns a single-color fill.
func SolidFill(c ColorSpec) FillSpec { return FillSpec{Type: FillSolid, Color: &c} }

// GradientFill returns a linear gradient. Stops may be given in any order.
func GradientFill(angle float64, stops ...GradientStop) FillSpec {
	return FillSpec{Type: FillGradient, Angle: angle, Stops: stops}
}

// PatternFill returns a preset pattern fill such as "pct50" or "dkHorz".
func PatternFill(pattern string, fore, back ColorSpec) FillSpec {
	return FillSpec{Type: FillPattern, Pattern: pattern, Fore: &fore, Back: &back}
}

// PictureFill returns a blip fill referencing a media catalog key.
func PictureFill(mediaKey string) FillSpec {
	return FillSpec{Type: FillPicture, MediaKey: mediaKey}
}

// normalizedStops returns the stops sorted by position with positions
// clamped to [0, 1]. Equal positions keep their input order.
func (f FillSpec) normalizedStops() []GradientStop {
	out := make([]GradientStop, len(f.Stops))
	copy(out, f.Stops)
	for i := range out {
		out[i].Position = math.Max(0, math.Min(1, out[i].Position))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// DashStyle is a preset line dash.
type DashStyle int

const (
	DashSolid DashStyle = iota
	DashDash
	DashDot
	DashDashDot
	DashLongDash
	DashLongDashDot
	DashSysDash
	DashSysDot
)

var dashNames = []string{"solid", "dash", "dot", "dash_dot", "long_dash", "long_dash_dot", "sys_dash", "sys_dot"}

// prstDash values in DashStyle order.
var prstDashValues = []string{"solid", "dash", "dot", "dashDot", "lgDash", "lgDashDot", "sysDash", "sysDot"}

func (d DashStyle) String() string {
	if int(d) < len(dashNames) {
		return dashNames[d]
	}
	return "solid"
}

func (d DashStyle) prstDash() string {
	if int(d) < len(prstDashValues) {
		return prstDashValues[d]
	}
	return "solid"
}

func dashFromPrst(v string) (DashStyle, bool) {
	for i, n := range prstDashValues {
		if n == v {
			return DashStyle(i), true
		}
	}
	return DashSolid, false
}

func (d DashStyle) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DashStyle) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, dashNames, (*int)(d), "dash style")
}

// LineEnd describes an arrowhead at one end of a line.
type LineEnd struct {
	Type   string `json:"type"` // triangle, stealth, diamond, oval, arrow
	Width  string `json:"width,omitempty"`
	Length string `json:"length,omitempty"`
}

// LineSpec describes a shape outline. A zero Width means "no visible
// line" and is written as an explicit noFill, never as a zero-width
// solid stroke.
type LineSpec struct {
	Width   int64     `json:"width"` // EMU
	Color   ColorSpec `json:"color"`
	Dash    DashStyle `json:"dash"`
	Fill    FillSpec  `json:"fill"` // inherited means "solid Color"
	HeadEnd *LineEnd  `json:"head_end,omitempty"`
	TailEnd *LineEnd  `json:"tail_end,omitempty"`
}

// NoLine returns a line that renders as nothing.
func NoLine() *LineSpec { return &LineSpec{Width: 0} }

// SolidLine returns a solid stroke of the given width in EMU.
func SolidLine(width int64, c ColorSpec) *LineSpec {
	return &LineSpec{Width: width, Color: c}
}

// Visible reports whether the line paints anything.
func (l *LineSpec) Visible() bool {
	return l != nil && l.Width > 0 && l.Fill.Type != FillNone
}

func unmarshalEnum(b []byte, names []string, dst *int, what string) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range names {
		if n == s {
			*dst = i
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", what, s)
}
