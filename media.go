package slidemodel

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MediaItem is one binary asset.
type MediaItem struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
}

// MediaCatalog maps logical file names (e.g. "image2.png") to media
// bytes. Keys are not guaranteed unique across short names, so Lookup
// tolerates near misses.
type MediaCatalog struct {
	items map[string]MediaItem
}

// NewMediaCatalog returns an empty catalog.
func NewMediaCatalog() *MediaCatalog {
	return &MediaCatalog{items: make(map[string]MediaItem)}
}

// Put stores an item under key. An empty content type is guessed from the
// key's extension.
func (m *MediaCatalog) Put(key string, data []byte, contentType string) {
	if contentType == "" {
		contentType = guessMimeType(key)
	}
	if m.items == nil {
		m.items = make(map[string]MediaItem)
	}
	m.items[key] = MediaItem{Data: data, ContentType: contentType}
}

// Get returns the item stored under exactly key.
func (m *MediaCatalog) Get(key string) (MediaItem, bool) {
	if m == nil {
		return MediaItem{}, false
	}
	it, ok := m.items[key]
	return it, ok
}

// Len returns the number of items.
func (m *MediaCatalog) Len() int {
	if m == nil {
		return 0
	}
	return len(m.items)
}

// Keys returns all keys in sorted order.
func (m *MediaCatalog) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var keyFolder = cases.Fold()

func foldKey(s string) string {
	return keyFolder.String(norm.NFC.String(s))
}

func splitKey(key string) (stem, ext string) {
	base := path.Base(strings.ReplaceAll(key, "\\", "/"))
	ext = path.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

// Lookup resolves key tolerantly and returns the catalog key it bound to.
// Candidates are tried in this order:
//
//  1. the exact key
//  2. the case-folded, NFC-normalized key
//  3. the same base name under a different directory
//  4. the same extension, with a stem that extends the wanted stem after
//     a separator ("image2.png" -> "image2_final.png", never "image20.png")
//  5. the same stem with a different extension
//
// Within a step the first key in sorted order wins.
func (m *MediaCatalog) Lookup(key string) (string, MediaItem, error) {
	if m == nil || key == "" {
		return "", MediaItem{}, &MediaNotFoundError{Key: key}
	}
	if it, ok := m.items[key]; ok {
		return key, it, nil
	}

	keys := m.Keys()
	want := foldKey(key)
	wantStem, wantExt := splitKey(want)

	type matcher func(k, stem, ext string) bool
	steps := []matcher{
		func(k, _, _ string) bool { return k == want },
		func(_, stem, ext string) bool { return stem == wantStem && ext == wantExt },
		func(_, stem, ext string) bool {
			if ext != wantExt || !strings.HasPrefix(stem, wantStem) || len(stem) == len(wantStem) {
				return false
			}
			return isKeySeparator(stem[len(wantStem)])
		},
		func(_, stem, _ string) bool { return stem == wantStem },
	}
	for _, match := range steps {
		for _, k := range keys {
			fk := foldKey(k)
			stem, ext := splitKey(fk)
			if match(fk, stem, ext) {
				return k, m.items[k], nil
			}
		}
	}
	return "", MediaItem{}, &MediaNotFoundError{Key: key}
}

func isKeySeparator(c byte) bool {
	return c == '_' || c == '-' || c == '.' || c == ' ' || c == '('
}

// FirstUnused returns the first image key, in sorted order, that has a
// recognized image extension and is not in used.
func (m *MediaCatalog) FirstUnused(used map[string]bool) (string, bool) {
	for _, k := range m.Keys() {
		if used[k] {
			continue
		}
		if isImageExtension(path.Ext(k)) {
			return k, true
		}
	}
	return "", false
}

func isImageExtension(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "svg", "emf", "wmf", "wdp":
		return true
	}
	return false
}

// MarshalJSON writes the catalog as {key: {content_type, data}} with
// base64 payloads.
func (m *MediaCatalog) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.items)
}

func (m *MediaCatalog) UnmarshalJSON(b []byte) error {
	items := make(map[string]MediaItem)
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("failed to decode media catalog: %w", err)
	}
	m.items = items
	return nil
}

// guessMimeType guesses the content type of a media file from its name.
func guessMimeType(name string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "svg":
		return "image/svg+xml"
	case "wmf":
		return "image/x-wmf"
	case "emf":
		return "image/x-emf"
	case "tif", "tiff":
		return "image/tiff"
	case "wdp":
		return "image/vnd.ms-photo"
	case "mp4":
		return "video/mp4"
	case "wav":
		return "audio/wav"
	case "mp3":
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}
