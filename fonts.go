package slidemodel

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// maxFontScanDepth limits recursive directory traversal when scanning for fonts.
const maxFontScanDepth = 3

// maxFontFileSize limits the size of individual font files loaded into memory.
const maxFontFileSize = 20 << 20 // 20 MB

type faceKey struct {
	name         string
	px           float64
	bold, italic bool
}

// FontCache resolves run font names to TrueType faces for thumbnail text.
// Directories are scanned lazily on first lookup.
type FontCache struct {
	mu      sync.Mutex
	dirs    []string
	fonts   map[string]*opentype.Font // lowercase name -> parsed font
	faces   map[faceKey]font.Face
	scanned bool
}

// NewFontCache returns a cache that searches dirs.
func NewFontCache(dirs ...string) *FontCache {
	return &FontCache{
		dirs:  dirs,
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// SystemFontCache returns a cache over the OS font directories plus extra.
func SystemFontCache(extra ...string) *FontCache {
	return NewFontCache(append(systemFontDirs(), extra...)...)
}

// AddFont registers font data under name and under its family and full
// names.
func (fc *FontCache) AddFont(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", name, err)
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.fonts[strings.ToLower(name)] = f
	fc.registerNames(f)
	return nil
}

// Face returns a face for name at px pixels. It reports false when no
// matching font is known.
func (fc *FontCache) Face(name string, px float64, bold, italic bool) (font.Face, bool) {
	if fc == nil || name == "" || px <= 0 {
		return nil, false
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.scan()

	key := faceKey{name: strings.ToLower(name), px: px, bold: bold, italic: italic}
	if face, ok := fc.faces[key]; ok {
		return face, true
	}
	f := fc.find(key.name, bold, italic)
	if f == nil {
		if alias, ok := eastAsianFontAliases[key.name]; ok {
			f = fc.find(alias, bold, italic)
		}
	}
	if f == nil {
		return nil, false
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: px, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, false
	}
	fc.faces[key] = face
	return face, true
}

// styleSuffixes are tried in order; Windows names styles "arialbd",
// "arialbi" and so on.
var styleSuffixes = map[[2]bool][]string{
	{true, true}:  {" bold italic", "bi", " bolditalic", "z"},
	{true, false}: {" bold", "bd", "b"},
	{false, true}: {" italic", "i", " it"},
}

func (fc *FontCache) find(lower string, bold, italic bool) *opentype.Font {
	for _, style := range [][2]bool{{bold, italic}, {bold, false}, {false, italic}} {
		for _, suffix := range styleSuffixes[style] {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	return fc.fonts[lower]
}

// scan loads every font below the configured directories once. The
// caller holds mu.
func (fc *FontCache) scan() {
	if fc.scanned {
		return
	}
	fc.scanned = true
	for _, dir := range fc.dirs {
		fc.scanDir(dir, 0)
	}
}

func (fc *FontCache) scanDir(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			fc.scanDir(p, depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		ext := filepath.Ext(lower)
		if ext != ".ttf" && ext != ".otf" && ext != ".ttc" && ext != ".otc" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		base := strings.TrimSuffix(lower, ext)
		if ext == ".ttc" || ext == ".otc" {
			coll, err := opentype.ParseCollection(data)
			if err != nil {
				continue
			}
			for i := 0; i < coll.NumFonts(); i++ {
				f, err := coll.Font(i)
				if err != nil {
					continue
				}
				if i == 0 {
					fc.fonts[base] = f
				}
				fc.registerNames(f)
			}
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			continue
		}
		fc.fonts[base] = f
		fc.registerNames(f)
	}
}

func (fc *FontCache) registerNames(f *opentype.Font) {
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDFull} {
		if n, err := f.Name(nil, id); err == nil && n != "" {
			fc.fonts[strings.ToLower(n)] = f
		}
	}
}

// eastAsianFontAliases maps localized font names written by Chinese
// editions of PowerPoint to the family names fonts register under.
var eastAsianFontAliases = map[string]string{
	"宋体":      "simsun",
	"黑体":      "simhei",
	"微软雅黑":    "microsoft yahei",
	"微软雅黑 ui": "microsoft yahei ui",
	"楷体":      "kaiti",
	"仿宋":      "fangsong",
	"新宋体":     "nsimsun",
	"等线":      "dengxian",
	"隶书":      "lisu",
	"幼圆":      "youyuan",
}

// systemFontDirs returns OS-specific font directories.
func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	var dirs []string
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs = []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
	case "darwin":
		dirs = []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	default:
		dirs = []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
	}
	return dirs
}
