// Package fonts loads TrueType fonts and measures text with them.
//
// A [Font] is a parsed font file and is safe to share. A [Face] is a font at
// a given size; faces keep a glyph cache and must not be shared between
// goroutines, so callers create one per render with [Font.Face].
//
// The Go fonts from golang.org/x/image are always available under the names
// listed in [BuiltinNames], which keeps rendering usable without any font
// files on disk.
package fonts

import (
	"fmt"
	"sort"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/resource"
)

// Default is the font used when a configuration names none.
const Default = "goregular"

var builtin = resource.MapResolver{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"gomono":    gomono.TTF,
}

// Builtin returns a resolver for the embedded Go fonts.
func Builtin() resource.Resolver { return builtin }

// BuiltinNames lists the names served by [Builtin].
func BuiltinNames() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Font is a parsed TrueType font.
type Font struct {
	Name   string
	Digest string // SHA-256 of the font file
	ttf    *truetype.Font
}

// Parse parses TrueType data.
func Parse(name string, data []byte) (*Font, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse font %s", name)
	}
	return &Font{Name: name, Digest: cache.Hash(data), ttf: f}, nil
}

// Face returns a new face at the given size in points (72 DPI, so points
// equal pixels).
func (f *Font) Face(size float64) *Face {
	ff := truetype.NewFace(f.ttf, &truetype.Options{Size: size})
	return &Face{
		face:       ff,
		lineHeight: float64(ff.Metrics().Height) / 64,
	}
}

// Face is a font at a fixed size. It implements text.Measurer.
type Face struct {
	face       font.Face
	lineHeight float64
}

// Measure returns the advance width of s and the line height.
func (f *Face) Measure(s string) (w, h float64) {
	adv := font.MeasureString(f.face, s)
	return float64(adv) / 64, f.lineHeight
}

// LineHeight returns the recommended distance between baselines.
func (f *Face) LineHeight() float64 { return f.lineHeight }

// Ascent returns the distance from the top of a line to its baseline.
func (f *Face) Ascent() float64 { return float64(f.face.Metrics().Ascent) / 64 }

// FontFace exposes the underlying face for drawing.
func (f *Face) FontFace() font.Face { return f.face }

// Library resolves fonts by name and keeps parsed fonts for reuse.
// It is safe for concurrent use.
type Library struct {
	resolver resource.Resolver

	mu     sync.Mutex
	loaded map[string]*Font
}

// NewLibrary creates a library that looks names up in r, falling back to the
// built-in fonts.
func NewLibrary(r resource.Resolver) *Library {
	chain := resource.Chain{Builtin()}
	if r != nil {
		chain = resource.Chain{r, Builtin()}
	}
	return &Library{resolver: chain, loaded: make(map[string]*Font)}
}

// Load returns the font registered under name, parsing it on first use.
func (l *Library) Load(name string) (*Font, error) {
	if name == "" {
		name = Default
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.loaded[name]; ok {
		return f, nil
	}
	data, err := l.resolver.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	f, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	l.loaded[name] = f
	return f, nil
}
