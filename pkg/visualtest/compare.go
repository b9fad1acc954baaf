package visualtest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Result describes how two images differ.
type Result struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // largest per-channel difference, 0-255

	// Diff shows matching pixels in grey and mismatches in red. It is only
	// set when Options.Diff is.
	Diff *image.RGBA
}

// Options configures a comparison.
type Options struct {
	// Tolerance is the largest per-channel difference still counted as equal.
	Tolerance int

	// FuzzyRadius lets a pixel match any pixel of the other image within
	// this many pixels. Text shifted by a pixel still matches.
	FuzzyRadius int

	// MaxDifferentPercent accepts images whose share of different pixels
	// does not exceed it.
	MaxDifferentPercent float64

	Diff bool
}

func DefaultOptions() Options {
	return Options{Tolerance: 2}
}

// Compare compares two images of the same size pixel by pixel.
func Compare(actual, expected image.Image, opts Options) (Result, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return Result{}, fmt.Errorf("image dimensions differ: actual=%v, expected=%v", bounds, expected.Bounds())
	}

	result := Result{Match: true, TotalPixels: bounds.Dx() * bounds.Dy()}
	if opts.Diff {
		result.Diff = image.NewRGBA(bounds)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := rgba8(actual.At(x, y))
			diff := difference(a, rgba8(expected.At(x, y)))
			result.MaxDifference = max(result.MaxDifference, diff)

			same := diff <= opts.Tolerance ||
				(opts.FuzzyRadius > 0 && fuzzyMatch(a, expected, x, y, opts.FuzzyRadius, opts.Tolerance))
			if !same {
				result.Match = false
				result.DifferentPixels++
			}
			if result.Diff != nil {
				if same {
					result.Diff.Set(x, y, color.RGBA{a.R, a.R, a.R, 255})
				} else {
					result.Diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				}
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 {
		pct := float64(result.DifferentPixels) / float64(result.TotalPixels) * 100
		result.Match = pct <= opts.MaxDifferentPercent
	}
	return result, nil
}

// ComparePNG loads two PNG files and compares them.
func ComparePNG(actualPath, expectedPath string, opts Options) (Result, error) {
	actual, err := loadPNG(actualPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load actual image: %w", err)
	}
	expected, err := loadPNG(expectedPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load expected image: %w", err)
	}
	return Compare(actual, expected, opts)
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func rgba8(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func difference(a, b color.RGBA) int {
	return max(
		absInt(int(a.R)-int(b.R)),
		absInt(int(a.G)-int(b.G)),
		absInt(int(a.B)-int(b.B)),
		absInt(int(a.A)-int(b.A)),
	)
}

// fuzzyMatch reports whether a matches any pixel of expected within radius
// of (x, y).
func fuzzyMatch(a color.RGBA, expected image.Image, x, y, radius, tolerance int) bool {
	bounds := expected.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := image.Pt(x+dx, y+dy)
			if !p.In(bounds) {
				continue
			}
			if difference(a, rgba8(expected.At(p.X, p.Y))) <= tolerance {
				return true
			}
		}
	}
	return false
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
