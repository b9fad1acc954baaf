package main

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// pageView shows the rendered page and reports taps on it.
type pageView struct {
	widget.BaseWidget

	image *canvas.Image
	onTap func(pos fyne.Position)
}

func newPageView(img image.Image, onTap func(pos fyne.Position)) *pageView {
	v := &pageView{image: canvas.NewImageFromImage(img), onTap: onTap}
	v.image.FillMode = canvas.ImageFillOriginal
	v.image.ScaleMode = canvas.ImageScalePixels
	v.ExtendBaseWidget(v)
	return v
}

func (v *pageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.image)
}

func (v *pageView) Tapped(ev *fyne.PointEvent) {
	if v.onTap != nil {
		v.onTap(ev.Position)
	}
}

// show replaces the displayed frame. It must run on the UI goroutine.
func (v *pageView) show(frame image.Image) {
	v.image.Image = frame
	v.image.Refresh()
}
