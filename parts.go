package slidemodel

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Limits bound what LoadZip accepts from an untrusted container.
type Limits struct {
	MaxEntrySize int64 // bytes per part
	MaxTotalSize int64 // bytes across all parts
	MaxEntries   int
}

// DefaultLimits returns the zip-bomb guards used when none are given.
// 50 MB is generous for any legitimate PPTX part.
func DefaultLimits() Limits {
	return Limits{
		MaxEntrySize: 50 << 20,
		MaxTotalSize: 200 << 20,
		MaxEntries:   10000,
	}
}

const contentTypesPath = "[Content_Types].xml"

// PartRegistry maps part paths (without a leading slash) to their raw
// content. Parts are immutable once stored: Put replaces a whole part and
// Get returns a copy, so no caller can observe a half-edited part.
type PartRegistry struct {
	parts map[string][]byte
}

// NewPartRegistry returns an empty registry.
func NewPartRegistry() *PartRegistry {
	return &PartRegistry{parts: make(map[string][]byte)}
}

func normalizePartPath(p string) string {
	return strings.TrimPrefix(strings.ReplaceAll(p, "\\", "/"), "/")
}

// Put stores a copy of data under path, replacing any previous part.
func (r *PartRegistry) Put(path string, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	r.parts[normalizePartPath(path)] = cp
}

// PutString stores a text part.
func (r *PartRegistry) PutString(path, content string) {
	r.parts[normalizePartPath(path)] = []byte(content)
}

// Get returns a copy of the part at path.
func (r *PartRegistry) Get(path string) ([]byte, bool) {
	data, ok := r.parts[normalizePartPath(path)]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true
}

// Has reports whether a part exists.
func (r *PartRegistry) Has(path string) bool {
	_, ok := r.parts[normalizePartPath(path)]
	return ok
}

// Delete removes a part.
func (r *PartRegistry) Delete(path string) {
	delete(r.parts, normalizePartPath(path))
}

// Len returns the number of parts.
func (r *PartRegistry) Len() int { return len(r.parts) }

// Paths returns every part path in sorted order.
func (r *PartRegistry) Paths() []string {
	out := make([]string, 0, len(r.parts))
	for p := range r.parts {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// LoadZip reads every entry of a container into a new registry.
func LoadZip(reader io.ReaderAt, size int64, limits Limits) (*PartRegistry, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid reader size: %d", size)
	}
	if size > limits.MaxTotalSize {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed (%d bytes)", size, limits.MaxTotalSize)
	}
	zr, err := zip.NewReader(reader, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	if len(zr.File) > limits.MaxEntries {
		return nil, fmt.Errorf("zip archive contains too many entries (%d > %d)", len(zr.File), limits.MaxEntries)
	}

	reg := NewPartRegistry()
	var total int64
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		data, err := readZipEntry(f, limits.MaxEntrySize)
		if err != nil {
			return nil, err
		}
		total += int64(len(data))
		if total > limits.MaxTotalSize {
			return nil, fmt.Errorf("zip content exceeds maximum allowed total size (%d bytes)", limits.MaxTotalSize)
		}
		reg.parts[normalizePartPath(f.Name)] = data
	}
	return reg, nil
}

func readZipEntry(f *zip.File, maxSize int64) ([]byte, error) {
	if f.UncompressedSize64 > uint64(maxSize) {
		return nil, fmt.Errorf("file %s exceeds maximum allowed size (%d bytes)", f.Name, maxSize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", f.Name, err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("file %s actual size exceeds maximum allowed size", f.Name)
	}
	return data, nil
}

// WriteZip serializes the registry as a container. [Content_Types].xml
// goes first, then the package rels, then everything else by path.
func (r *PartRegistry) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, p := range r.zipOrder() {
		fw, err := zw.Create(p)
		if err != nil {
			return fmt.Errorf("failed to create %s in zip: %w", p, err)
		}
		if _, err := fw.Write(r.parts[p]); err != nil {
			return fmt.Errorf("failed to write %s: %w", p, err)
		}
	}
	return zw.Close()
}

func (r *PartRegistry) zipOrder() []string {
	paths := r.Paths()
	rank := func(p string) int {
		switch p {
		case contentTypesPath:
			return 0
		case "_rels/.rels":
			return 1
		}
		return 2
	}
	sort.SliceStable(paths, func(i, j int) bool { return rank(paths[i]) < rank(paths[j]) })
	return paths
}
