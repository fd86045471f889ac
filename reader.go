package slidemodel

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/VantageDataChat/GoSlideModel/logging"
)

// ReadOption configures extraction.
type ReadOption func(*readOptions)

type readOptions struct {
	logger   *slog.Logger
	limits   Limits
	progress func(done, total int)
}

// WithReadLogger routes extraction logs to l.
func WithReadLogger(l *slog.Logger) ReadOption {
	return func(o *readOptions) { o.logger = l }
}

// WithLimits overrides the zip safety limits.
func WithLimits(l Limits) ReadOption {
	return func(o *readOptions) { o.limits = l }
}

// WithProgress registers a callback invoked after each slide is read.
func WithProgress(fn func(done, total int)) ReadOption {
	return func(o *readOptions) { o.progress = fn }
}

// PPTXReader extracts Document records from PPTX containers.
type PPTXReader struct {
	opts readOptions
}

// NewReader returns a reader with the given options applied.
func NewReader(opts ...ReadOption) *PPTXReader {
	o := readOptions{limits: DefaultLimits()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.WithComponent("reader")
	}
	return &PPTXReader{opts: o}
}

// Extract reads a container from r. Recoverable problems are returned in
// Extraction.Errors; only an unreadable container fails.
func Extract(r io.ReaderAt, size int64, opts ...ReadOption) (*Extraction, error) {
	return NewReader(opts...).ReadFrom(r, size)
}

// Read reads a presentation from a file path.
func (r *PPTXReader) Read(path string) (*Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return r.ReadFrom(f, info.Size())
}

// ReadFrom reads a presentation from an io.ReaderAt.
func (r *PPTXReader) ReadFrom(reader io.ReaderAt, size int64) (*Extraction, error) {
	reg, err := LoadZip(reader, size, r.opts.limits)
	if err != nil {
		return nil, err
	}
	return r.ReadParts(reg)
}

// ReadParts extracts a record from an already loaded package.
func (r *PPTXReader) ReadParts(reg *PartRegistry) (*Extraction, error) {
	rels, err := LoadRelationships(reg)
	if err != nil {
		return nil, err
	}
	x := &extractor{
		reg:      reg,
		rels:     rels,
		log:      r.opts.logger,
		warnings: newWarnings(r.opts.logger),
		layouts:  make(map[string]*layoutInfo),
	}
	x.types, _ = x.contentTypes()

	presPart, err := x.presentationPart()
	if err != nil {
		return nil, err
	}
	doc := &Document{
		Version:    RecordVersion,
		SlideSize:  DefaultSlideSize(),
		Media:      NewMediaCatalog(),
		Properties: x.readProperties(),
	}
	slideParts, err := x.readPresentation(presPart, doc)
	if err != nil {
		return nil, err
	}
	doc.Theme = x.readTheme(presPart)
	x.readMedia(doc.Media)
	doc.Layouts = x.readLayouts()

	r.opts.logger.Info("extraction started", slog.Int("slides", len(slideParts)), slog.Int("parts", reg.Len()))
	for i, part := range slideParts {
		doc.Slides = append(doc.Slides, x.readSlide(i+1, part))
		if r.opts.progress != nil {
			r.opts.progress(i+1, len(slideParts))
		}
	}
	errs := x.warnings.all()
	r.opts.logger.Info("extraction finished", slog.Int("slides", len(doc.Slides)), slog.Int("errors", len(errs)))
	return &Extraction{Document: doc, Errors: errs}, nil
}

// extractor carries the state of one extraction run.
type extractor struct {
	reg      *PartRegistry
	rels     *RelationshipManager
	types    *ContentTypes
	log      *slog.Logger
	warnings *warnings
	layouts  map[string]*layoutInfo
}

// relsOf returns the relationship table of part, empty when it has none.
func (x *extractor) relsOf(part string) *RelTable {
	if t := x.rels.Existing(part); t != nil {
		return t
	}
	return newRelTable(part)
}

// firstTarget resolves the first relationship of relType from part.
func (x *extractor) firstTarget(part, relType string) (string, bool) {
	t := x.relsOf(part)
	for _, r := range t.ByType(relType) {
		if !r.External {
			return t.Resolve(r), true
		}
	}
	return "", false
}
