package layout

import (
	"fmt"
	"io"
	"strings"

	"minibrowser/pkg/html"
	"minibrowser/pkg/text"
)

// Kind says which part of the layout algorithm produced a Box.
type Kind int

const (
	DocumentKind Kind = iota
	BlockKind
	LineKind
	TextKind
)

func (k Kind) String() string {
	switch k {
	case DocumentKind:
		return "document"
	case BlockKind:
		return "block"
	case LineKind:
		return "line"
	case TextKind:
		return "text"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Box is a node of the geometry tree. Document and Block boxes are backed by
// the DOM node they lay out; a Line box carries the node of the block that
// owns it; a Text box carries the text node its word came from.
type Box struct {
	Kind     Kind
	Node     *html.Node
	Parent   *Box
	Previous *Box // previous sibling, used for vertical stacking
	Children []*Box

	X      float64
	Y      float64
	Width  float64
	Height float64

	// Text boxes only
	Word  string
	Font  text.FontKey
	Color string
}

// Contains reports whether the point lies inside the box. The right and
// bottom edges are exclusive.
func (b *Box) Contains(x, y float64) bool {
	return b.X <= x && x < b.X+b.Width && b.Y <= y && y < b.Y+b.Height
}

func (b *Box) String() string {
	switch b.Kind {
	case TextKind:
		return fmt.Sprintf("text(x=%g, y=%g, width=%g, height=%g, word=%q, font=%s)",
			b.X, b.Y, b.Width, b.Height, b.Word, b.Font)
	case BlockKind:
		return fmt.Sprintf("block[%s](x=%g, y=%g, width=%g, height=%g, node=%s)",
			modeOf(b.Node), b.X, b.Y, b.Width, b.Height, b.Node)
	}
	return fmt.Sprintf("%s(x=%g, y=%g, width=%g, height=%g)", b.Kind, b.X, b.Y, b.Width, b.Height)
}

// TreeToList appends box and all of its descendants in pre-order.
func TreeToList(box *Box, list []*Box) []*Box {
	list = append(list, box)
	for _, child := range box.Children {
		list = TreeToList(child, list)
	}
	return list
}

// PrintTree writes an indented dump of the geometry tree.
func PrintTree(w io.Writer, box *Box) error {
	return printTree(w, box, 0)
}

func printTree(w io.Writer, box *Box, indent int) error {
	if _, err := fmt.Fprintln(w, strings.Repeat(" ", indent)+box.String()); err != nil {
		return err
	}
	for _, child := range box.Children {
		if err := printTree(w, child, indent+2); err != nil {
			return err
		}
	}
	return nil
}
