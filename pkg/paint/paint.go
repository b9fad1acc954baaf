package paint

import (
	"fmt"

	"minibrowser/pkg/html"
	"minibrowser/pkg/layout"
	"minibrowser/pkg/text"
)

// Command is one entry of a display list: DrawText or DrawRect.
type Command interface {
	// Extent returns the vertical span of the command in page coordinates.
	Extent() (top, bottom float64)
	String() string
	command()
}

type DrawText struct {
	Left   float64
	Top    float64
	Bottom float64
	Text   string
	Font   text.FontKey
	Color  string
}

func (c DrawText) Extent() (float64, float64) { return c.Top, c.Bottom }
func (DrawText) command()                     {}

func (c DrawText) String() string {
	return fmt.Sprintf("DrawText(top=%g left=%g bottom=%g text=%q font=%s color=%s)",
		c.Top, c.Left, c.Bottom, c.Text, c.Font, c.Color)
}

type DrawRect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
	Color  string
}

func (c DrawRect) Extent() (float64, float64) { return c.Top, c.Bottom }
func (DrawRect) command()                     {}

func (c DrawRect) String() string {
	return fmt.Sprintf("DrawRect(top=%g left=%g bottom=%g right=%g color=%s)",
		c.Top, c.Left, c.Bottom, c.Right, c.Color)
}

// PaintTree appends the commands of box and its descendants in pre-order.
// Later commands draw on top of earlier ones.
func PaintTree(box *layout.Box, list []Command) []Command {
	list = append(list, paintBox(box)...)
	for _, child := range box.Children {
		list = PaintTree(child, list)
	}
	return list
}

func paintBox(box *layout.Box) []Command {
	switch box.Kind {
	case layout.BlockKind:
		bg := box.Node.Style["background-color"]
		if bg == "" || bg == "transparent" {
			return nil
		}
		return []Command{DrawRect{
			Left:   box.X,
			Top:    box.Y,
			Right:  box.X + box.Width,
			Bottom: box.Y + box.Height,
			Color:  bg,
		}}
	case layout.TextKind:
		return []Command{DrawText{
			Left:   box.X,
			Top:    box.Y,
			Bottom: box.Y + box.Height,
			Text:   box.Word,
			Font:   box.Font,
			Color:  box.Color,
		}}
	}
	return nil
}

// HitTest finds the topmost box containing the document point (x, y) and
// returns the nearest enclosing link of its node: an a element with a
// non-empty href. It returns nil when there is none.
func HitTest(root *layout.Box, x, y float64) *html.Node {
	boxes := layout.TreeToList(root, nil)
	for i := len(boxes) - 1; i >= 0; i-- {
		if !boxes[i].Contains(x, y) {
			continue
		}
		for node := boxes[i].Node; node != nil; node = node.Parent {
			if href, _ := node.GetAttribute("href"); node.IsElement("a") && href != "" {
				return node
			}
		}
		return nil
	}
	return nil
}
