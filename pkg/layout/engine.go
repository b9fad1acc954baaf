package layout

import (
	"math"

	"go.uber.org/zap"

	"minibrowser/pkg/css"
	"minibrowser/pkg/text"
)

const (
	DefaultHStep = 13.0
	DefaultVStep = 18.0

	// Font sizes in CSS pixels are clamped to this range.
	minFontSize = 1.0
	maxFontSize = 1000.0
)

type fontEntry struct {
	metrics text.Metrics
	space   float64
}

// LayoutEngine turns styled DOM trees into geometry trees. Each engine owns
// its font cache, so engines never share font state.
type LayoutEngine struct {
	provider text.Provider
	fonts    map[text.FontKey]fontEntry
	hstep    float64
	vstep    float64
	log      *zap.Logger
}

type Option func(*LayoutEngine)

// WithMargins sets the horizontal and vertical page margins. The vertical
// step is also the extra space after a paragraph.
func WithMargins(hstep, vstep float64) Option {
	return func(le *LayoutEngine) {
		le.hstep = hstep
		le.vstep = vstep
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(le *LayoutEngine) {
		if log != nil {
			le.log = log
		}
	}
}

func NewLayoutEngine(provider text.Provider, opts ...Option) *LayoutEngine {
	le := &LayoutEngine{
		provider: provider,
		fonts:    make(map[text.FontKey]fontEntry),
		hstep:    DefaultHStep,
		vstep:    DefaultVStep,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(le)
	}
	le.log = le.log.Named("layout")
	return le
}

func (le *LayoutEngine) font(key text.FontKey) fontEntry {
	if f, ok := le.fonts[key]; ok {
		return f
	}
	f := fontEntry{
		metrics: le.provider.Metrics(key),
		space:   le.provider.Measure(key, " "),
	}
	le.fonts[key] = f
	return f
}

// fontKey maps a resolved style to a provider key. CSS pixels become points
// at three quarters of their value, and "normal" style is the roman face.
func (le *LayoutEngine) fontKey(style map[string]string) text.FontKey {
	px, ok := css.ParseLength(style["font-size"])
	if !ok {
		le.log.Debug("Unusable font size", zap.String("font-size", style["font-size"]))
		px = css.DefaultFontSize
	}
	px = math.Max(minFontSize, math.Min(px, maxFontSize))
	weight := style["font-weight"]
	if weight == "" {
		weight = "normal"
	}
	fontStyle := style["font-style"]
	if fontStyle == "" || fontStyle == "normal" {
		fontStyle = "roman"
	}
	return text.FontKey{Size: max(int(px*0.75), 1), Weight: weight, Style: fontStyle}
}
