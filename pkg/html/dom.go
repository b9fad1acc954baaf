package html

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Node is a DOM node: either an element or a run of text.
type Node struct {
	Type       NodeType
	TagName    string            // elements only, lower case
	Attributes map[string]string // elements only
	Text       string            // text nodes only
	Children   []*Node
	Parent     *Node

	// Style is the resolved style of the node, filled in by the cascade.
	Style map[string]string
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// NewElement creates an element whose parent is set but which is not yet
// attached to the parent's children.
func NewElement(tag string, attributes map[string]string, parent *Node) *Node {
	if attributes == nil {
		attributes = make(map[string]string)
	}
	return &Node{
		Type:       ElementNode,
		TagName:    tag,
		Attributes: attributes,
		Children:   make([]*Node, 0),
		Parent:     parent,
	}
}

// NewText creates a text node under parent without attaching it.
func NewText(text string, parent *Node) *Node {
	return &Node{Type: TextNode, Text: text, Parent: parent}
}

func (n *Node) IsElement(tag string) bool {
	return n.Type == ElementNode && n.TagName == tag
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(NewText(text, n))
}

// String renders an element as its start tag and a text node as a quoted
// string.
func (n *Node) String() string {
	if n.Type == TextNode {
		return strconv.Quote(n.Text)
	}
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(n.TagName)

	// Sort attributes for deterministic output
	keys := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(strconv.Quote(n.Attributes[k]))
	}
	sb.WriteByte('>')
	return sb.String()
}

// TreeToList appends node and all of its descendants in pre-order.
func TreeToList(node *Node, list []*Node) []*Node {
	list = append(list, node)
	for _, child := range node.Children {
		list = TreeToList(child, list)
	}
	return list
}

// PrintTree writes an indented dump of the tree. With styles set, each node
// is followed by its resolved style.
func PrintTree(w io.Writer, node *Node, styles bool) error {
	return printTree(w, node, 0, styles)
}

func printTree(w io.Writer, node *Node, indent int, styles bool) error {
	line := strings.Repeat(" ", indent) + node.String()
	if styles && len(node.Style) > 0 {
		line += " " + formatStyle(node.Style)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := printTree(w, child, indent+2, styles); err != nil {
			return err
		}
	}
	return nil
}

func formatStyle(style map[string]string) string {
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+style[k])
	}
	return "{" + strings.Join(parts, "; ") + "}"
}
