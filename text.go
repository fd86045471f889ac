package slidemodel

import "strings"

// TextFrameSpec is a shape's text body.
type TextFrameSpec struct {
	Paragraphs []ParagraphSpec `json:"paragraphs"`
	Anchor     string          `json:"anchor,omitempty"`  // t, ctr, b
	Wrap       *bool           `json:"wrap,omitempty"`    // nil inherits
	AutoFit    string          `json:"autofit,omitempty"` // "", "norm", "shape", "none"
	Insets     *Insets         `json:"insets,omitempty"`
	Vertical   string          `json:"vertical,omitempty"` // bodyPr vert
}

// Insets are body padding in EMU.
type Insets struct {
	Left   int64 `json:"left"`
	Top    int64 `json:"top"`
	Right  int64 `json:"right"`
	Bottom int64 `json:"bottom"`
}

// ParagraphSpec is one a:p.
type ParagraphSpec struct {
	Runs  []RunSpec `json:"runs"`
	Align string    `json:"align,omitempty"` // l, ctr, r, just
	Level int       `json:"level,omitempty"`
}

// RunSpec is one a:r. Link is an external hyperlink target.
type RunSpec struct {
	Text  string    `json:"text"`
	Font  *FontSpec `json:"font,omitempty"`
	Link  string    `json:"link,omitempty"`
	Break bool      `json:"break,omitempty"` // a:br rather than a:r
}

// FontSpec holds run properties. Size is in points; zero inherits.
type FontSpec struct {
	Name      string     `json:"name,omitempty"`
	Size      float64    `json:"size,omitempty"`
	Bold      bool       `json:"bold,omitempty"`
	Italic    bool       `json:"italic,omitempty"`
	Underline bool       `json:"underline,omitempty"`
	Strike    bool       `json:"strike,omitempty"`
	Color     *ColorSpec `json:"color,omitempty"`
}

// PlainTextFrame builds a text frame with one run per line.
func PlainTextFrame(text string) *TextFrameSpec {
	tf := &TextFrameSpec{}
	for _, line := range strings.Split(text, "\n") {
		tf.Paragraphs = append(tf.Paragraphs, ParagraphSpec{Runs: []RunSpec{{Text: line}}})
	}
	return tf
}

// PlainText joins run text, one line per paragraph.
func (t *TextFrameSpec) PlainText() string {
	if t == nil {
		return ""
	}
	lines := make([]string, 0, len(t.Paragraphs))
	for _, p := range t.Paragraphs {
		var b strings.Builder
		for _, r := range p.Runs {
			if r.Break {
				b.WriteString("\v")
				continue
			}
			b.WriteString(r.Text)
		}
		lines = append(lines, b.String())
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// links returns the distinct hyperlink targets in document order.
func (t *TextFrameSpec) links() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range t.Paragraphs {
		for _, r := range p.Runs {
			if r.Link != "" && !seen[r.Link] {
				seen[r.Link] = true
				out = append(out, r.Link)
			}
		}
	}
	return out
}
