package css

import (
	"math"
	"strconv"
	"strings"

	"minibrowser/pkg/html"
)

// DefaultFontSize is the font size of the root and the base for percentage
// sizes when no parent size is known.
const DefaultFontSize = 16.0

// InheritedProperties are copied from the parent before any rule applies.
var InheritedProperties = map[string]string{
	"font-size":   "16px",
	"font-style":  "normal",
	"font-weight": "normal",
	"color":       "black",
}

// Style resolves the style map of node and every node below it, parents
// first. rules must already be sorted by SortRules. Each call rebuilds the
// maps from scratch, so repeating it with the same rules changes nothing.
func Style(node *html.Node, rules []Rule) {
	style := make(map[string]string, len(InheritedProperties))
	for prop, def := range InheritedProperties {
		if v, ok := parentStyle(node)[prop]; ok {
			style[prop] = v
		} else {
			style[prop] = def
		}
	}

	for _, rule := range rules {
		if !rule.Selector.Matches(node) {
			continue
		}
		for prop, value := range rule.Body {
			style[prop] = value
		}
	}

	if node.Type == html.ElementNode {
		if attr, ok := node.GetAttribute("style"); ok {
			for prop, value := range ParseDeclarations(attr) {
				style[prop] = value
			}
		}
	}

	if size := style["font-size"]; strings.HasSuffix(size, "%") {
		style["font-size"] = resolvePercentSize(size, parentFontSize(node))
	}

	node.Style = style
	for _, child := range node.Children {
		Style(child, rules)
	}
}

func parentStyle(node *html.Node) map[string]string {
	if node.Parent == nil {
		return nil
	}
	return node.Parent.Style
}

func parentFontSize(node *html.Node) float64 {
	if px, ok := ParseLength(parentStyle(node)["font-size"]); ok {
		return px
	}
	return DefaultFontSize
}

// resolvePercentSize turns "150%" into pixels relative to parentPx. A value
// that does not parse keeps the parent size.
func resolvePercentSize(size string, parentPx float64) string {
	pct, err := strconv.ParseFloat(strings.TrimSuffix(size, "%"), 64)
	if err != nil || math.IsNaN(pct) || math.IsInf(pct, 0) {
		return FormatPx(parentPx)
	}
	px := pct / 100 * parentPx
	if math.IsInf(px, 0) {
		return FormatPx(parentPx)
	}
	return FormatPx(px)
}

// FormatPx renders a pixel length, always with a fractional part: 30 becomes
// "30.0px" and 14.4 stays "14.4px".
func FormatPx(px float64) string {
	s := strconv.FormatFloat(px, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "px"
}
