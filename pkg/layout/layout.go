package layout

import (
	"math"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/atom"

	"minibrowser/pkg/html"
)

var blockElements = map[atom.Atom]bool{
	atom.Html: true, atom.Body: true, atom.Article: true, atom.Section: true,
	atom.Nav: true, atom.Aside: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Hgroup: true,
	atom.Header: true, atom.Footer: true, atom.Address: true, atom.P: true,
	atom.Hr: true, atom.Pre: true, atom.Blockquote: true, atom.Ol: true,
	atom.Ul: true, atom.Menu: true, atom.Li: true, atom.Dl: true, atom.Dt: true,
	atom.Dd: true, atom.Figure: true, atom.Figcaption: true, atom.Main: true,
	atom.Div: true, atom.Table: true, atom.Form: true, atom.Fieldset: true,
	atom.Legend: true, atom.Details: true, atom.Summary: true,
}

// IsBlockElement reports whether tag starts a block of its own.
func IsBlockElement(tag string) bool {
	return blockElements[atom.Lookup([]byte(tag))]
}

type mode int

const (
	blockMode mode = iota
	inlineMode
)

func (m mode) String() string {
	if m == inlineMode {
		return "inline"
	}
	return "block"
}

// modeOf decides how a node lays out its children: text flows inline, as
// does any element with children none of which is a block element. Empty
// elements are blocks.
func modeOf(node *html.Node) mode {
	if node.Type == html.TextNode {
		return inlineMode
	}
	for _, child := range node.Children {
		if child.Type == html.ElementNode && IsBlockElement(child.TagName) {
			return blockMode
		}
	}
	if len(node.Children) > 0 {
		return inlineMode
	}
	return blockMode
}

// Layout builds the geometry tree of a styled document for the given
// viewport width.
func (le *LayoutEngine) Layout(root *html.Node, viewportWidth float64) *Box {
	doc := &Box{
		Kind:  DocumentKind,
		Node:  root,
		X:     le.hstep,
		Y:     le.vstep,
		Width: viewportWidth - 2*le.hstep,
	}
	child := &Box{Kind: BlockKind, Node: root, Parent: doc}
	doc.Children = []*Box{child}
	le.layoutBlock(child)
	doc.Height = child.Height

	le.log.Debug("Layout complete",
		zap.Float64("width", doc.Width),
		zap.Float64("height", doc.Height))
	return doc
}

func (le *LayoutEngine) layoutBlock(b *Box) {
	b.X = b.Parent.X
	b.Width = b.Parent.Width
	if b.Previous != nil {
		b.Y = b.Previous.Y + b.Previous.Height
	} else {
		b.Y = b.Parent.Y
	}

	if modeOf(b.Node) == inlineMode {
		il := &inlineLayout{engine: le, block: b}
		il.recurse(b.Node)
		il.flush()
		b.Height = il.cursorY
		return
	}

	var previous *Box
	for _, node := range b.Node.Children {
		child := &Box{Kind: BlockKind, Node: node, Parent: b, Previous: previous}
		b.Children = append(b.Children, child)
		previous = child
	}
	b.Height = 0
	for _, child := range b.Children {
		le.layoutBlock(child)
		b.Height += child.Height
	}
}

// inlineLayout flows the words below one block into line boxes. Cursors are
// relative to the block's top left corner.
type inlineLayout struct {
	engine  *LayoutEngine
	block   *Box
	cursorX float64
	cursorY float64
	line    []*Box // words of the line being filled
}

func (il *inlineLayout) recurse(node *html.Node) {
	if node.Type == html.TextNode {
		for _, word := range strings.Fields(node.Text) {
			il.word(node, word)
		}
		return
	}
	if node.TagName == "br" {
		il.flush()
	}
	for _, child := range node.Children {
		il.recurse(child)
	}
	if node.TagName == "p" {
		il.flush()
		il.cursorY += il.engine.vstep
	}
}

func (il *inlineLayout) word(node *html.Node, word string) {
	key := il.engine.fontKey(node.Style)
	font := il.engine.font(key)
	w := il.engine.provider.Measure(key, word)

	if il.cursorX+w > il.block.Width {
		il.flush()
	}

	box := &Box{
		Kind:   TextKind,
		Node:   node,
		X:      il.block.X + il.cursorX,
		Width:  w,
		Height: font.metrics.Linespace,
		Word:   word,
		Font:   key,
		Color:  node.Style["color"],
	}
	il.line = append(il.line, box)
	il.cursorX += w + font.space
}

// flush aligns the pending words on a shared baseline and closes the line.
func (il *inlineLayout) flush() {
	if len(il.line) == 0 {
		return
	}

	maxAscent, maxDescent := math.Inf(-1), math.Inf(-1)
	for _, w := range il.line {
		m := il.engine.font(w.Font).metrics
		maxAscent = math.Max(maxAscent, m.Ascent)
		maxDescent = math.Max(maxDescent, m.Descent)
	}
	baseline := il.cursorY + 1.25*maxAscent

	line := &Box{
		Kind:   LineKind,
		Node:   il.block.Node,
		Parent: il.block,
		X:      il.block.X,
		Y:      il.block.Y + il.cursorY,
		Width:  il.block.Width,
	}
	if n := len(il.block.Children); n > 0 {
		line.Previous = il.block.Children[n-1]
	}

	var previous *Box
	for _, w := range il.line {
		w.Parent = line
		w.Previous = previous
		w.Y = il.block.Y + baseline - il.engine.font(w.Font).metrics.Ascent
		previous = w
	}
	line.Children = il.line
	il.block.Children = append(il.block.Children, line)

	il.cursorX = 0
	il.line = nil
	il.cursorY = baseline + 1.25*maxDescent
	line.Height = il.block.Y + il.cursorY - line.Y
}
