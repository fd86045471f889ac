package slidemodel

import (
	"strings"
)

// KindType discriminates the ShapeKind variants. KindUnset lets the
// writer fall back to the legacy numeric type code.
type KindType int

const (
	KindUnset KindType = iota
	KindAutoShape
	KindPicture
	KindChart
	KindTable
	KindTextBox
	KindPlaceholder
	KindConnector
)

var kindNames = []string{"unset", "auto_shape", "picture", "chart", "table", "text_box", "placeholder", "connector"}

func (k KindType) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unset"
}

func (k KindType) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *KindType) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, kindNames, (*int)(k), "shape kind")
}

// ShapeKind is the tagged variant describing what a shape is. Only the
// fields belonging to Type are meaningful.
type ShapeKind struct {
	Type     KindType        `json:"type"`
	Geometry *GeometrySpec   `json:"geometry,omitempty"` // auto shape, connector
	MediaKey string          `json:"media_key,omitempty"` // picture
	Chart    *ChartSpec      `json:"chart,omitempty"`
	Table    *TableSpec      `json:"table,omitempty"`
	Role     PlaceholderRole `json:"role,omitempty"` // placeholder
	Index    int             `json:"index,omitempty"`
}

// AutoShapeKind returns an auto shape kind with the given geometry.
func AutoShapeKind(g GeometrySpec) ShapeKind {
	return ShapeKind{Type: KindAutoShape, Geometry: &g}
}

// PictureKind returns a picture kind bound to a media key.
func PictureKind(mediaKey string) ShapeKind {
	return ShapeKind{Type: KindPicture, MediaKey: mediaKey}
}

// PlaceholderKind returns a placeholder kind.
func PlaceholderKind(role PlaceholderRole, index int) ShapeKind {
	return ShapeKind{Type: KindPlaceholder, Role: role, Index: index}
}

// GeometryType discriminates preset and custom geometry.
type GeometryType int

const (
	GeometryPreset GeometryType = iota
	GeometryCustom
)

var geometryTypeNames = []string{"preset", "custom"}

func (g GeometryType) MarshalText() ([]byte, error) {
	if int(g) < len(geometryTypeNames) {
		return []byte(geometryTypeNames[g]), nil
	}
	return []byte("preset"), nil
}

func (g *GeometryType) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, geometryTypeNames, (*int)(g), "geometry type")
}

// GeometrySpec is either a named preset (canonical vocabulary, see
// presets.go) or a list of custom paths.
type GeometrySpec struct {
	Type     GeometryType   `json:"type"`
	Preset   string         `json:"preset,omitempty"`
	Paths    []CustomPath   `json:"paths,omitempty"`
	Freeform bool           `json:"freeform,omitempty"`
	Adjust   map[string]int `json:"adjust,omitempty"` // avLst guide values
}

// PresetGeometry returns a preset geometry by canonical name.
func PresetGeometry(name string) GeometrySpec {
	return GeometrySpec{Type: GeometryPreset, Preset: name}
}

// CustomGeometry returns a custom geometry made of the given paths.
func CustomGeometry(paths ...CustomPath) GeometrySpec {
	return GeometrySpec{Type: GeometryCustom, Paths: paths}
}

// CustomPath is one a:path: commands in a local coordinate space of
// Width x Height.
type CustomPath struct {
	Width    float64       `json:"w"`
	Height   float64       `json:"h"`
	Commands []PathCommand `json:"commands"`
}

// hasCurves reports whether the path contains Bezier segments.
func (p CustomPath) hasCurves() bool {
	for _, c := range p.Commands {
		if c.Op == OpCubicTo || c.Op == OpQuadTo {
			return true
		}
	}
	return false
}

// PathOp is a path instruction.
type PathOp int

const (
	OpMoveTo PathOp = iota
	OpLineTo
	OpCubicTo
	OpQuadTo
	OpArcTo
	OpClose
)

var pathOpNames = []string{"move_to", "line_to", "cubic_to", "quad_to", "arc_to", "close"}

func (o PathOp) String() string {
	if int(o) < len(pathOpNames) {
		return pathOpNames[o]
	}
	return "close"
}

func (o PathOp) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *PathOp) UnmarshalText(b []byte) error {
	return unmarshalEnum(b, pathOpNames, (*int)(o), "path op")
}

// PathPoint is a point in path-local coordinates.
type PathPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PathCommand is one instruction. Pts holds 1 point for move/line, 3 for
// cubic (c1, c2, end) and 2 for quadratic (c, end). Arc angles are in
// degrees.
type PathCommand struct {
	Op         PathOp      `json:"op"`
	Pts        []PathPoint `json:"pts,omitempty"`
	WR         float64     `json:"wr,omitempty"`
	HR         float64     `json:"hr,omitempty"`
	StartAngle float64     `json:"start_angle,omitempty"`
	SweepAngle float64     `json:"sweep_angle,omitempty"`
}

func MoveTo(x, y float64) PathCommand {
	return PathCommand{Op: OpMoveTo, Pts: []PathPoint{{x, y}}}
}

func LineTo(x, y float64) PathCommand {
	return PathCommand{Op: OpLineTo, Pts: []PathPoint{{x, y}}}
}

func CubicTo(x1, y1, x2, y2, x, y float64) PathCommand {
	return PathCommand{Op: OpCubicTo, Pts: []PathPoint{{x1, y1}, {x2, y2}, {x, y}}}
}

func QuadTo(cx, cy, x, y float64) PathCommand {
	return PathCommand{Op: OpQuadTo, Pts: []PathPoint{{cx, cy}, {x, y}}}
}

func ArcTo(wr, hr, startAngle, sweepAngle float64) PathCommand {
	return PathCommand{Op: OpArcTo, WR: wr, HR: hr, StartAngle: startAngle, SweepAngle: sweepAngle}
}

func Close() PathCommand { return PathCommand{Op: OpClose} }

// Binding is the original target of a relationship id used inside a
// shape's XML fragment.
type Binding struct {
	Type     string `json:"type"`
	Target   string `json:"target,omitempty"`
	MediaKey string `json:"media_key,omitempty"`
	External bool   `json:"external,omitempty"`
}

// ShapeModel is the normalized record of one shape. A slide's z-order is
// the order of its ShapeModel slice. Line == nil means the outline is
// inherited; Text == nil means the shape has no text body.
type ShapeModel struct {
	ShapeID  int            `json:"shape_id"`
	Name     string         `json:"name"`
	OffsetX  int64          `json:"offset_x"`
	OffsetY  int64          `json:"offset_y"`
	ExtentW  int64          `json:"extent_w"`
	ExtentH  int64          `json:"extent_h"`
	Rotation float64        `json:"rotation,omitempty"`
	FlipH    bool           `json:"flip_h,omitempty"`
	FlipV    bool           `json:"flip_v,omitempty"`
	Kind     ShapeKind      `json:"kind"`
	Fill     FillSpec       `json:"fill"`
	Line     *LineSpec      `json:"line,omitempty"`
	Text     *TextFrameSpec `json:"text,omitempty"`
	HasStyle bool           `json:"has_style,omitempty"`
	Descr    string         `json:"descr,omitempty"`

	// Preservation data.
	OriginalXML   string             `json:"original_xml,omitempty"`
	Namespaces    map[string]string  `json:"namespaces,omitempty"`
	Relationships map[string]Binding `json:"relationships,omitempty"`
	GroupPath     []string           `json:"group_path,omitempty"`

	// LegacyType is a free-form type code such as "PICTURE (13)" carried
	// by older records that predate Kind.
	LegacyType string `json:"legacy_type,omitempty"`
}

// IsFreeform reports whether the shape is a free-form custom geometry,
// which is never regenerated from its path data when a fragment exists.
func (s *ShapeModel) IsFreeform() bool {
	g := s.Kind.Geometry
	if g == nil || g.Type != GeometryCustom {
		return false
	}
	if g.Freeform {
		return true
	}
	return strings.HasPrefix(s.Name, "Freeform")
}

// IndexText renders the shape as plain text for search indexers.
func (s *ShapeModel) IndexText() string {
	var b strings.Builder
	b.WriteString(s.Kind.Type.String())
	if s.Name != "" {
		b.WriteString(" ")
		b.WriteString(s.Name)
	}
	switch s.Kind.Type {
	case KindAutoShape, KindConnector:
		if g := s.Kind.Geometry; g != nil && g.Type == GeometryPreset {
			b.WriteString(" [" + g.Preset + "]")
		}
	case KindPicture:
		b.WriteString(" [" + s.Kind.MediaKey + "]")
	case KindChart:
		if c := s.Kind.Chart; c != nil {
			b.WriteString(" [" + string(c.Type) + "] " + c.Title)
		}
	case KindTable:
		if t := s.Kind.Table; t != nil {
			for _, row := range t.Rows {
				for _, cell := range row.Cells {
					if cell.Text != "" {
						b.WriteString(" | " + cell.Text)
					}
				}
			}
		}
	case KindPlaceholder:
		b.WriteString(" [" + string(s.Kind.Role) + "]")
	}
	if s.Text != nil {
		if txt := s.Text.PlainText(); txt != "" {
			b.WriteString(": ")
			b.WriteString(strings.ReplaceAll(txt, "\n", " / "))
		}
	}
	return b.String()
}

// TableSpec is a table grid. Column widths are in EMU.
type TableSpec struct {
	Columns  []int64    `json:"columns"`
	Rows     []TableRow `json:"rows"`
	FirstRow bool       `json:"first_row,omitempty"`
	BandRow  bool       `json:"band_row,omitempty"`
}

// TableRow is one a:tr.
type TableRow struct {
	Height int64       `json:"height"`
	Cells  []TableCell `json:"cells"`
}

// TableCell is one a:tc.
type TableCell struct {
	Text     string    `json:"text"`
	Fill     FillSpec  `json:"fill"`
	GridSpan int       `json:"grid_span,omitempty"`
	RowSpan  int       `json:"row_span,omitempty"`
	HMerge   bool      `json:"h_merge,omitempty"`
	VMerge   bool      `json:"v_merge,omitempty"`
	Font     *FontSpec `json:"font,omitempty"`
}

// NewTableSpec returns a rows x cols grid spread evenly over w x h.
func NewTableSpec(rows, cols int, w, h int64) *TableSpec {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	t := &TableSpec{FirstRow: true, BandRow: true}
	for c := 0; c < cols; c++ {
		t.Columns = append(t.Columns, w/int64(cols))
	}
	for r := 0; r < rows; r++ {
		t.Rows = append(t.Rows, TableRow{Height: h / int64(rows), Cells: make([]TableCell, cols)})
	}
	return t
}
