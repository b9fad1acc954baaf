package main

import (
	"context"
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"minibrowser/pkg/browser"
	"minibrowser/pkg/render"
	"minibrowser/pkg/text"
	stdnet "minibrowser/std/net"
)

// browserWindow connects a tab to a fyne window. Loads run in the
// background; mu keeps the tab to one user at a time.
type browserWindow struct {
	ctx    context.Context
	log    *zap.Logger
	window fyne.Window

	mu  sync.Mutex
	tab *browser.Tab

	faces   *text.Faces
	view    *pageView
	address *widget.Entry
	status  *widget.Label
}

func newBrowserWindow(ctx context.Context, a fyne.App, tab *browser.Tab, faces *text.Faces, log *zap.Logger) *browserWindow {
	opts := tab.Options()
	b := &browserWindow{
		ctx:     ctx,
		log:     log.Named("gui"),
		window:  a.NewWindow("minibrowser"),
		tab:     tab,
		faces:   faces,
		address: widget.NewEntry(),
		status:  widget.NewLabel("Enter a URL and press Enter"),
	}
	b.view = newPageView(b.paint(), b.tapped)

	b.address.SetPlaceHolder(stdnet.DefaultURL)
	b.address.OnSubmitted = b.navigate
	back := widget.NewButton("Back", b.back)

	topBar := container.NewBorder(nil, nil, back, nil, b.address)
	b.window.SetContent(container.NewBorder(topBar, b.status, nil, nil, b.view))
	b.window.Canvas().SetOnTypedKey(b.typedKey)
	b.window.Resize(fyne.NewSize(float32(opts.Width), float32(opts.Height)+80))
	return b
}

// navigate loads the locator typed into the address bar.
func (b *browserWindow) navigate(raw string) {
	u, err := stdnet.Parse(raw)
	if err != nil {
		b.log.Warn("Using default page", zap.String("requested", raw), zap.Error(err))
		u = stdnet.ParseOrDefault(raw)
	}
	b.status.SetText("Loading " + u.String() + "...")
	b.inBackground(func() error { return b.tab.Load(b.ctx, u) })
}

func (b *browserWindow) back() {
	b.inBackground(func() error { return b.tab.Back(b.ctx) })
}

// tapped converts a tap on the page view into page pixels and forwards it to
// the tab.
func (b *browserWindow) tapped(pos fyne.Position) {
	scale := b.window.Canvas().Scale()
	x, y := float64(pos.X*scale), float64(pos.Y*scale)
	b.window.Canvas().Unfocus()
	b.inBackground(func() error { return b.tab.Click(b.ctx, x, y) })
}

func (b *browserWindow) typedKey(ev *fyne.KeyEvent) {
	if !b.mu.TryLock() {
		// a page is loading
		return
	}
	switch ev.Name {
	case fyne.KeyDown:
		b.tab.ScrollDown()
	case fyne.KeyUp:
		b.tab.ScrollUp()
	default:
		b.mu.Unlock()
		return
	}
	frame := b.paint()
	b.mu.Unlock()
	b.view.show(frame)
}

// inBackground runs fn with the tab locked off the UI goroutine and shows the
// outcome once it finishes. The new frame is handed to the view on the UI
// goroutine only.
func (b *browserWindow) inBackground(fn func() error) {
	go func() {
		b.mu.Lock()
		var frame *image.RGBA
		err := fn()
		if err == nil {
			frame = b.paint()
		}
		var location string
		if u := b.tab.URL(); u != nil {
			location = u.String()
		}
		b.mu.Unlock()

		fyne.Do(func() { b.show(location, frame, err) })
	}()
}

func (b *browserWindow) show(location string, frame *image.RGBA, err error) {
	if err != nil {
		b.log.Error("Navigation failed", zap.Error(err))
		b.status.SetText("Error: " + err.Error())
		return
	}
	b.address.SetText(location)
	b.status.SetText(location)
	b.window.SetTitle("minibrowser - " + location)
	if frame != nil {
		b.view.show(frame)
	}
}

// paint draws the visible part of the page into a new image, so a frame the
// view is showing is never written to. The caller holds mu, or the tab is not
// shared yet.
func (b *browserWindow) paint() *image.RGBA {
	opts := b.tab.Options()
	frame := image.NewRGBA(image.Rect(0, 0, int(opts.Width), int(opts.Height)))
	r := render.NewRendererForImage(frame, b.faces)
	r.Clear()
	b.tab.Draw(r, 0)
	return frame
}
