package slidemodel

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/VantageDataChat/GoSlideModel/logging"
)

// WriteOption configures Generate.
type WriteOption func(*writeOptions)

type writeOptions struct {
	logger           *slog.Logger
	validate         bool
	thumbnail        bool
	thumbnailWidth   int
	thumbnailFonts   *FontCache
	placeholderColor string
}

func defaultWriteOptions() writeOptions {
	return writeOptions{
		validate:         true,
		thumbnailWidth:   256,
		placeholderColor: "D9D9D9",
	}
}

// WithWriteLogger routes generation logs to l instead of the package logger.
func WithWriteLogger(l *slog.Logger) WriteOption {
	return func(o *writeOptions) { o.logger = l }
}

// WithValidation toggles the final package validation gate. It is on by
// default.
func WithValidation(on bool) WriteOption {
	return func(o *writeOptions) { o.validate = on }
}

// WithThumbnail renders slide 1 into docProps/thumbnail.jpeg at the given
// pixel width.
func WithThumbnail(width int) WriteOption {
	return func(o *writeOptions) {
		o.thumbnail = true
		if width > 0 {
			o.thumbnailWidth = width
		}
	}
}

// WithThumbnailFonts draws thumbnail text with TrueType faces from fc
// instead of the built-in bitmap face.
func WithThumbnailFonts(fc *FontCache) WriteOption {
	return func(o *writeOptions) { o.thumbnailFonts = fc }
}

// WithPlaceholderColor sets the fill of the rectangle that stands in for a
// picture whose media cannot be found.
func WithPlaceholderColor(hex string) WriteOption {
	return func(o *writeOptions) {
		if _, err := ParseHexColor(hex); err == nil {
			o.placeholderColor = hex
		}
	}
}

// Fallback records a shape that could not be built as specified.
type Fallback struct {
	Slide   int
	ShapeID int
	Name    string
	Err     error
	// Recovered is true when the simplified retry replaced the minimal
	// rectangle.
	Recovered bool
}

// GenerationContext carries everything one Generate call shares across
// slides. It is built once per run and never outlives it.
type GenerationContext struct {
	RunID string
	Theme *Theme
	Media *MediaCatalog

	usedMedia map[string]bool
	fallbacks []Fallback
	warnings  *warnings
	log       *slog.Logger
	opts      writeOptions

	parts *PartRegistry
	rels  *RelationshipManager
	types *ContentTypes

	written map[string]string // media key -> part path
	charts  int
}

func newGenerationContext(doc *Document, opts writeOptions) *GenerationContext {
	runID := uuid.NewString()
	log := opts.logger
	if log == nil {
		log = logging.WithComponent("writer")
	}
	log = log.With(slog.String("run_id", runID))
	theme := doc.Theme
	if theme == nil {
		theme = DefaultTheme()
	}
	media := doc.Media
	if media == nil {
		media = NewMediaCatalog()
	}
	return &GenerationContext{
		RunID:     runID,
		Theme:     theme,
		Media:     media,
		usedMedia: make(map[string]bool),
		warnings:  newWarnings(log),
		log:       log,
		opts:      opts,
		parts:     NewPartRegistry(),
		rels:      NewRelationshipManager(),
		types:     NewContentTypes(),
		written:   make(map[string]string),
	}
}

func (g *GenerationContext) fallback(f Fallback) int {
	g.fallbacks = append(g.fallbacks, f)
	return len(g.fallbacks) - 1
}

// mediaTarget copies a catalog item into ppt/media once and returns its
// part path. The key is marked used.
func (g *GenerationContext) mediaTarget(key string) (string, error) {
	if p, ok := g.written[key]; ok {
		g.usedMedia[key] = true
		return p, nil
	}
	item, ok := g.Media.Get(key)
	if !ok {
		return "", &MediaNotFoundError{Key: key}
	}
	p := mediaPart(key)
	ext := path.Ext(p)
	stem := strings.TrimSuffix(p, ext)
	for n := 2; g.parts.Has(p); n++ {
		p = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
	g.parts.Put(p, item.Data)
	g.types.Register(p)
	g.written[key] = p
	g.usedMedia[key] = true
	return p, nil
}

// resolveMedia looks key up tolerantly and copies the hit into the
// package.
func (g *GenerationContext) resolveMedia(key string) (string, error) {
	bound, _, err := g.Media.Lookup(key)
	if err != nil {
		return "", err
	}
	if bound != key {
		g.log.Debug("media key rebound", slog.String("wanted", key), slog.String("bound", bound))
	}
	return g.mediaTarget(bound)
}
