package slidemodel

import (
	"fmt"
	"os"
	"path/filepath"
)

// Open reads a PPTX file from disk and returns its record.
// This is a convenience wrapper around NewReader + Read.
func Open(path string, opts ...ReadOption) (*Extraction, error) {
	return NewReader(opts...).Read(path)
}

// GenerateFile builds a package from doc and saves it to path.
func GenerateFile(doc *Document, path string, opts ...WriteOption) (*Result, error) {
	res, err := Generate(doc, opts...)
	if err != nil {
		return nil, err
	}
	if err := res.Save(path); err != nil {
		return nil, err
	}
	return res, nil
}

// Save writes the package to path. The container is written to a
// temporary file in the same directory and renamed into place, so a
// failed save never leaves a truncated file behind.
func (r *Result) Save(path string) (err error) {
	if r == nil || r.Parts == nil {
		return fmt.Errorf("result is empty")
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".slidemodel-*.pptx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if err = r.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write package: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move package into place: %w", err)
	}
	return nil
}

// SaveToFile is an alias for Save.
func (r *Result) SaveToFile(path string) error {
	return r.Save(path)
}
