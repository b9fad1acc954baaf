package visualtest

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"minibrowser/pkg/browser"
	"minibrowser/pkg/html"
	"minibrowser/pkg/render"
	"minibrowser/pkg/resource"
	"minibrowser/pkg/text"
	stdnet "minibrowser/std/net"
)

// ErrNoReference is returned when a test page names no reference page.
var ErrNoReference = errors.New(`no <link rel="match"> reference`)

// Harness renders pages the way a browser window shows them.
type Harness struct {
	Fetcher resource.Fetcher
	Faces   *text.Faces
	Options browser.Options
	Log     *zap.Logger
}

// Render loads u into a fresh tab and paints its first screen.
func (h *Harness) Render(ctx context.Context, u *stdnet.URL) (*image.RGBA, *browser.Tab, error) {
	tab := browser.NewTab(h.Fetcher, h.Faces, h.Options, h.Log)
	if err := tab.Load(ctx, u); err != nil {
		return nil, nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, int(h.Options.Width), int(h.Options.Height)))
	r := render.NewRendererForImage(img, h.Faces)
	r.Clear()
	tab.Draw(r, 0)
	return img, tab, nil
}

// Reftest renders test and reference and compares the two. A nil reference
// is taken from the test page's <link rel="match" href="...">.
func (h *Harness) Reftest(ctx context.Context, test, reference *stdnet.URL, opts Options) (Result, error) {
	actual, tab, err := h.Render(ctx, test)
	if err != nil {
		return Result{}, fmt.Errorf("rendering test page: %w", err)
	}
	if reference == nil {
		href, ok := ReferenceOf(tab.Nodes())
		if !ok {
			return Result{}, ErrNoReference
		}
		if reference, err = test.Resolve(href); err != nil {
			return Result{}, err
		}
	}
	expected, _, err := h.Render(ctx, reference)
	if err != nil {
		return Result{}, fmt.Errorf("rendering reference page: %w", err)
	}
	result, err := Compare(actual, expected, opts)
	if err != nil {
		return Result{}, err
	}
	h.log().Debug("Compared pages",
		zap.Stringer("test", test),
		zap.Stringer("reference", reference),
		zap.Bool("match", result.Match),
		zap.Int("different", result.DifferentPixels))
	return result, nil
}

func (h *Harness) log() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

// ReferenceOf returns the href of the first <link rel="match"> in the tree.
func ReferenceOf(root *html.Node) (string, bool) {
	for _, node := range html.TreeToList(root, nil) {
		if node.IsElement("link") && node.Attributes["rel"] == "match" {
			if href, ok := node.GetAttribute("href"); ok && href != "" {
				return href, true
			}
		}
	}
	return "", false
}
