package slidemodel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// RenderOption configures RenderSlide.
type RenderOption func(*renderer)

// WithFonts resolves run fonts through fc. Text falls back to a bitmap
// face when fc is nil or has no match.
func WithFonts(fc *FontCache) RenderOption {
	return func(r *renderer) { r.fonts = fc }
}

// RenderSlide rasterizes a slide record at the given pixel width. The
// height follows the slide aspect ratio. Rotation is ignored; the result
// is a preview, not a faithful rendering.
func RenderSlide(slide *SlideRecord, size SlideSize, theme *Theme, media *MediaCatalog, width int, opts ...RenderOption) (*image.RGBA, error) {
	if slide == nil {
		return nil, fmt.Errorf("slide is nil")
	}
	size = size.normalized()
	if width <= 0 {
		width = 256
	}
	slideW := float64(size.Width)
	slideH := float64(size.Height)
	imgW := width
	imgH := int(math.Round(float64(imgW) * slideH / slideW))
	if imgH < 1 {
		imgH = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, imgW, imgH))
	r := &renderer{
		img:    img,
		scaleX: float64(imgW) / slideW,
		scaleY: float64(imgH) / slideH,
		theme:  theme,
		media:  media,
	}
	for _, opt := range opts {
		opt(r)
	}

	bg := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if slide.Background != nil {
		if c, ok := r.fillColor(*slide.Background); ok {
			bg = c
		}
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	for i := range slide.Shapes {
		r.renderShape(&slide.Shapes[i])
	}
	return img, nil
}

// RenderThumbnail renders a slide and encodes it as JPEG, the format
// docProps/thumbnail.jpeg uses.
func RenderThumbnail(slide *SlideRecord, size SlideSize, theme *Theme, media *MediaCatalog, width int, opts ...RenderOption) ([]byte, error) {
	img, err := RenderSlide(slide, size, theme, media, width, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// --- renderer ---

type renderer struct {
	img    *image.RGBA
	scaleX float64
	scaleY float64
	theme  *Theme
	media  *MediaCatalog
	fonts  *FontCache
}

func (r *renderer) rect(s *ShapeModel) image.Rectangle {
	x := int(float64(s.OffsetX) * r.scaleX)
	y := int(float64(s.OffsetY) * r.scaleY)
	w := int(math.Max(0, float64(s.ExtentW)*r.scaleX))
	h := int(math.Max(0, float64(s.ExtentH)*r.scaleY))
	return image.Rect(x, y, x+w, y+h)
}

func (r *renderer) rgba(c ColorSpec) color.RGBA {
	c = c.Resolve(r.theme)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// fillColor reduces a fill to one flat color. Gradients use their first
// stop and patterns their foreground.
func (r *renderer) fillColor(f FillSpec) (color.RGBA, bool) {
	switch f.Type {
	case FillSolid:
		if f.Color != nil {
			return r.rgba(*f.Color), true
		}
	case FillGradient:
		if stops := f.normalizedStops(); len(stops) > 0 {
			return r.rgba(stops[0].Color), true
		}
	case FillPattern:
		if f.Fore != nil {
			return r.rgba(*f.Fore), true
		}
	}
	return color.RGBA{}, false
}

func (r *renderer) renderShape(s *ShapeModel) {
	rect := r.rect(s)
	kind, err := classify(s)
	if err != nil {
		kind = KindAutoShape
	}
	switch kind {
	case KindPicture:
		if !r.renderPicture(s.Kind.MediaKey, rect) {
			draw.Draw(r.img, rect, &image.Uniform{color.RGBA{R: 0xD9, G: 0xD9, B: 0xD9, A: 255}}, image.Point{}, draw.Over)
		}
	case KindConnector:
		c := color.RGBA{A: 255}
		if s.Line != nil {
			c = r.rgba(s.Line.Color)
		}
		x1, y1, x2, y2 := rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y
		if s.FlipH {
			x1, x2 = x2, x1
		}
		if s.FlipV {
			y1, y2 = y2, y1
		}
		r.strokeLine(float32(x1), float32(y1), float32(x2), float32(y2), 1, c)
	case KindTable:
		r.renderTable(s, rect)
	default:
		r.renderAutoShape(s, rect)
	}
	if s.Text != nil && kind != KindTable {
		r.drawText(s.Text, rect)
	}
}

func (r *renderer) renderAutoShape(s *ShapeModel, rect image.Rectangle) {
	outline := r.outline(s, rect)
	if s.Fill.Type == FillPicture {
		r.renderPicture(s.Fill.MediaKey, rect)
	} else if c, ok := r.fillColor(s.Fill); ok {
		r.fillPolygon(outline, c)
	}
	if s.Line.Visible() {
		c := r.rgba(s.Line.Color)
		w := float32(math.Max(1, float64(s.Line.Width)*r.scaleX))
		for i := range outline {
			a, b := outline[i], outline[(i+1)%len(outline)]
			r.strokeLine(a[0], a[1], b[0], b[1], w, c)
		}
	}
}

// outline returns the pixel polygon of a shape: an ellipse, a flattened
// custom path or the bounding rectangle.
func (r *renderer) outline(s *ShapeModel, rect image.Rectangle) [][2]float32 {
	x0, y0 := float32(rect.Min.X), float32(rect.Min.Y)
	x1, y1 := float32(rect.Max.X), float32(rect.Max.Y)
	if g := s.Kind.Geometry; g != nil {
		switch g.Type {
		case GeometryPreset:
			if prst, err := presetForName(g.Preset); err == nil && prst == "ellipse" {
				return ellipsePolygon(rect, 48)
			}
		case GeometryCustom:
			if len(g.Paths) > 0 {
				p := g.Paths[0]
				poly, err := Synthesize(p.Commands, p.Width, p.Height, float64(rect.Dx()), float64(rect.Dy()))
				if err == nil && len(poly.Vertices) >= 2 {
					out := make([][2]float32, len(poly.Vertices))
					for i, v := range poly.Vertices {
						out[i] = [2]float32{x0 + float32(v.X), y0 + float32(v.Y)}
					}
					return out
				}
			}
		}
	}
	return [][2]float32{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func ellipsePolygon(rect image.Rectangle, steps int) [][2]float32 {
	rx := float64(rect.Dx()) / 2
	ry := float64(rect.Dy()) / 2
	cx := float64(rect.Min.X) + rx
	cy := float64(rect.Min.Y) + ry
	out := make([][2]float32, steps)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(steps)
		out[i] = [2]float32{float32(cx + rx*math.Cos(a)), float32(cy + ry*math.Sin(a))}
	}
	return out
}

func (r *renderer) fillPolygon(pts [][2]float32, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	b := r.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		z.LineTo(p[0], p[1])
	}
	z.ClosePath()
	z.Draw(r.img, b, &image.Uniform{c}, image.Point{})
}

// strokeLine draws a segment as a quad of the given pixel width.
func (r *renderer) strokeLine(x1, y1, x2, y2, width float32, c color.RGBA) {
	dx, dy := float64(x2-x1), float64(y2-y1)
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx := float32(-dy / l * float64(width) / 2)
	ny := float32(dx / l * float64(width) / 2)
	r.fillPolygon([][2]float32{
		{x1 + nx, y1 + ny}, {x2 + nx, y2 + ny}, {x2 - nx, y2 - ny}, {x1 - nx, y1 - ny},
	}, c)
}

func (r *renderer) renderPicture(key string, rect image.Rectangle) bool {
	if r.media == nil || rect.Empty() {
		return false
	}
	_, item, err := r.media.Lookup(key)
	if err != nil {
		return false
	}
	src, _, err := image.Decode(bytes.NewReader(item.Data))
	if err != nil {
		return false
	}
	draw.ApproxBiLinear.Scale(r.img, rect, src, src.Bounds(), draw.Over, nil)
	return true
}

func (r *renderer) renderTable(s *ShapeModel, rect image.Rectangle) {
	t := s.Kind.Table
	if t == nil || len(t.Rows) == 0 {
		return
	}
	var totalH int64
	for _, row := range t.Rows {
		totalH += row.Height
	}
	y := float64(rect.Min.Y)
	for _, row := range t.Rows {
		h := float64(rect.Dy()) / float64(len(t.Rows))
		if totalH > 0 {
			h = float64(rect.Dy()) * float64(row.Height) / float64(totalH)
		}
		x := float64(rect.Min.X)
		for i, cell := range row.Cells {
			w := float64(rect.Dx()) / float64(len(row.Cells))
			if i < len(t.Columns) {
				w = float64(t.Columns[i]) * r.scaleX
			}
			cellRect := image.Rect(int(x), int(y), int(x+w), int(y+h))
			if c, ok := r.fillColor(cell.Fill); ok {
				draw.Draw(r.img, cellRect, &image.Uniform{c}, image.Point{}, draw.Over)
			}
			r.drawText(PlainTextFrame(cell.Text), cellRect.Inset(2))
			x += w
		}
		y += h
	}
}

// drawText lays text out per paragraph, clipped to rect. Each paragraph
// uses the face of its first styled run.
func (r *renderer) drawText(t *TextFrameSpec, rect image.Rectangle) {
	curY := rect.Min.Y
	for _, p := range t.Paragraphs {
		var sb strings.Builder
		col := color.RGBA{A: 255}
		var style *FontSpec
		for _, run := range p.Runs {
			sb.WriteString(run.Text)
			if run.Font == nil {
				continue
			}
			if style == nil {
				style = run.Font
			}
			if run.Font.Color != nil {
				col = r.rgba(*run.Font.Color)
			}
		}
		face := r.face(style)
		lineH := face.Metrics().Height.Ceil()
		for _, line := range wrapWords(sb.String(), face, rect.Dx()) {
			curY += lineH
			if curY > rect.Max.Y {
				return
			}
			x := rect.Min.X
			w := font.MeasureString(face, line).Ceil()
			switch p.Align {
			case "ctr":
				x += (rect.Dx() - w) / 2
			case "r":
				x += rect.Dx() - w
			}
			d := &font.Drawer{Dst: r.img, Src: &image.Uniform{col}, Face: face, Dot: fixed.P(x, curY)}
			d.DrawString(line)
		}
	}
}

// face picks a TrueType face for f scaled to the image, or the bitmap
// fallback.
func (r *renderer) face(f *FontSpec) font.Face {
	if r.fonts == nil || f == nil {
		return basicfont.Face7x13
	}
	size := f.Size
	if size <= 0 {
		size = 18
	}
	px := float64(Point(size)) * r.scaleY
	if px < 4 {
		return basicfont.Face7x13
	}
	if face, ok := r.fonts.Face(f.Name, px, f.Bold, f.Italic); ok {
		return face
	}
	return basicfont.Face7x13
}

// wrapWords breaks text into lines no wider than maxWidth pixels.
func wrapWords(text string, face font.Face, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || maxWidth <= 0 {
		return []string{text}
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if font.MeasureString(face, cur+" "+w).Ceil() > maxWidth {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	return append(lines, cur)
}
