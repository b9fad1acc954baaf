package text

import (
	"fmt"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// FontKey identifies a font the way layout asks for it: a point size, a
// weight ("normal" or "bold") and a style ("roman" or "italic").
type FontKey struct {
	Size   int
	Weight string
	Style  string
}

func (k FontKey) Bold() bool   { return k.Weight == "bold" }
func (k FontKey) Italic() bool { return k.Style == "italic" }

func (k FontKey) String() string {
	return fmt.Sprintf("%d %s %s", k.Size, k.Weight, k.Style)
}

type Metrics struct {
	Ascent    float64
	Descent   float64
	Linespace float64
}

// Provider answers width and vertical metric queries in pixels.
type Provider interface {
	Measure(key FontKey, s string) float64
	Metrics(key FontKey) Metrics
}

// FontConfig holds paths to font files used for text measurement and rendering.
// An empty path selects the matching embedded Go font.
type FontConfig struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
}

// FontPath returns the font path for the given style combination.
func (fc FontConfig) FontPath(bold, italic bool) string {
	switch {
	case bold && italic:
		return fc.BoldItalic
	case bold:
		return fc.Bold
	case italic:
		return fc.Italic
	}
	return fc.Regular
}

// dpi makes one point equal to 4/3 pixels, so a size of int(px*0.75) comes
// back out at roughly px pixels.
const dpi = 96

// Faces is a Provider backed by TrueType fonts.
type Faces struct {
	fonts [4]*truetype.Font // indexed by variant

	mu    sync.Mutex
	faces map[FontKey]font.Face
}

func variant(bold, italic bool) int {
	v := 0
	if bold {
		v |= 1
	}
	if italic {
		v |= 2
	}
	return v
}

// NewFaces loads the four variants named by cfg.
func NewFaces(cfg FontConfig) (*Faces, error) {
	builtin := [4][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF}
	f := &Faces{faces: make(map[FontKey]font.Face)}
	for _, bold := range []bool{false, true} {
		for _, italic := range []bool{false, true} {
			v := variant(bold, italic)
			data := builtin[v]
			if path := cfg.FontPath(bold, italic); path != "" {
				b, err := os.ReadFile(path)
				if err != nil {
					return nil, fmt.Errorf("unable to read font: %w", err)
				}
				data = b
			}
			parsed, err := truetype.Parse(data)
			if err != nil {
				return nil, fmt.Errorf("unable to parse font %q: %w", cfg.FontPath(bold, italic), err)
			}
			f.fonts[v] = parsed
		}
	}
	return f, nil
}

// NewDefaultFaces uses the embedded Go fonts only.
func NewDefaultFaces() *Faces {
	f, err := NewFaces(FontConfig{})
	if err != nil {
		panic(err)
	}
	return f
}

// Face returns the cached face for key, creating it on first use.
func (f *Faces) Face(key FontKey) font.Face {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(f.fonts[variant(key.Bold(), key.Italic())], &truetype.Options{
		Size:    float64(key.Size),
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	f.faces[key] = face
	return face
}

func (f *Faces) Measure(key FontKey, s string) float64 {
	face := f.Face(key)
	f.mu.Lock()
	defer f.mu.Unlock()
	return toFloat(font.MeasureString(face, s))
}

func (f *Faces) Metrics(key FontKey) Metrics {
	face := f.Face(key)
	f.mu.Lock()
	m := face.Metrics()
	f.mu.Unlock()
	ascent, descent := toFloat(m.Ascent), toFloat(m.Descent)
	return Metrics{Ascent: ascent, Descent: descent, Linespace: ascent + descent}
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Fixed is a Provider where every character has the same width, independent
// of the font key. It is used for deterministic layout.
type Fixed struct {
	CharWidth float64
	Ascent    float64
	Descent   float64
}

func (p Fixed) Measure(_ FontKey, s string) float64 {
	return p.CharWidth * float64(utf8.RuneCountInString(s))
}

func (p Fixed) Metrics(FontKey) Metrics {
	return Metrics{Ascent: p.Ascent, Descent: p.Descent, Linespace: p.Ascent + p.Descent}
}
