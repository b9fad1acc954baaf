package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"

	"minibrowser/pkg/css"
	"minibrowser/pkg/paint"
	"minibrowser/pkg/text"
)

// Renderer is a paint.Sink that rasterizes commands onto an image.
type Renderer struct {
	context *gg.Context
	faces   *text.Faces
}

func NewRenderer(width, height int, faces *text.Faces) *Renderer {
	return &Renderer{context: gg.NewContext(width, height), faces: faces}
}

// NewRendererForImage draws into an existing RGBA image.
func NewRendererForImage(img *image.RGBA, faces *text.Faces) *Renderer {
	return &Renderer{context: gg.NewContextForRGBA(img), faces: faces}
}

// Clear fills the whole surface with white.
func (r *Renderer) Clear() {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
}

func (r *Renderer) Execute(cmd paint.Command, scroll float64) {
	switch c := cmd.(type) {
	case paint.DrawRect:
		r.setColor(c.Color)
		r.context.DrawRectangle(c.Left, c.Top-scroll, c.Right-c.Left, c.Bottom-c.Top)
		r.context.Fill()
	case paint.DrawText:
		r.setColor(c.Color)
		r.context.SetFontFace(r.faces.Face(c.Font))
		// Commands are anchored at their top left corner; gg draws on the
		// baseline.
		baseline := c.Top - scroll + r.faces.Metrics(c.Font).Ascent
		r.context.DrawString(c.Text, c.Left, baseline)
	}
}

// setColor selects a CSS colour, falling back to black for unknown names.
func (r *Renderer) setColor(name string) {
	color, ok := css.ParseColor(name)
	if !ok {
		color = css.Color{A: 255}
	}
	r.context.SetColor(color)
}

func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}
