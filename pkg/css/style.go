package css

import (
	_ "embed"
	"math"
	"strconv"
	"strings"
	"sync"
)

//go:embed browser.css
var defaultSheet string

var defaultRules = sync.OnceValue(func() []Rule {
	return ParseStylesheet(defaultSheet)
})

// DefaultStylesheet returns the built-in rules in source order. The slice is
// a copy and may be appended to.
func DefaultStylesheet() []Rule {
	rules := defaultRules()
	return append(make([]Rule, 0, len(rules)), rules...)
}

// ParseLength parses a length value (e.g., "100px" or "100"). NaN and
// infinities are not lengths.
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false
	}
	return num, true
}

type Color struct {
	R, G, B, A uint8
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * uint32(c.A) / 0xff
	g = uint32(c.G) * uint32(c.A) / 0xff
	b = uint32(c.B) * uint32(c.A) / 0xff
	a = uint32(c.A)
	return r | r<<8, g | g<<8, b | b<<8, a | a<<8
}

var namedColors = map[string]Color{
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"cyan":        {0, 255, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"white":       {255, 255, 255, 255},
	"black":       {0, 0, 0, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"lightgray":   {211, 211, 211, 255},
	"orange":      {255, 165, 0, 255},
	"purple":      {128, 0, 128, 255},
	"pink":        {255, 192, 203, 255},
	"brown":       {165, 42, 42, 255},
	"lime":        {0, 255, 0, 255},
	"navy":        {0, 0, 128, 255},
	"teal":        {0, 128, 128, 255},
	"silver":      {192, 192, 192, 255},
	"maroon":      {128, 0, 0, 255},
	"olive":       {128, 128, 0, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor understands the named colours above and #rgb / #rrggbb.
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if c, ok := namedColors[colorStr]; ok {
		return c, true
	}
	hex, ok := strings.CutPrefix(colorStr, "#")
	if !ok {
		return Color{}, false
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}
