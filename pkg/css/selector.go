package css

import (
	"sort"

	"minibrowser/pkg/html"
)

// Selector is either a TagSelector or a DescendantSelector.
type Selector interface {
	Matches(node *html.Node) bool
	// Priority is the number of tag components in the selector.
	Priority() int
	String() string
	selector()
}

type TagSelector struct {
	Tag string
}

func (s TagSelector) Matches(node *html.Node) bool {
	return node.Type == html.ElementNode && node.TagName == s.Tag
}

func (TagSelector) Priority() int    { return 1 }
func (s TagSelector) String() string { return s.Tag }
func (TagSelector) selector()        {}

// DescendantSelector matches a node matched by Descendant that has a strict
// ancestor matched by Ancestor.
type DescendantSelector struct {
	Ancestor   Selector
	Descendant Selector
}

func (s DescendantSelector) Matches(node *html.Node) bool {
	if !s.Descendant.Matches(node) {
		return false
	}
	for n := node.Parent; n != nil; n = n.Parent {
		if s.Ancestor.Matches(n) {
			return true
		}
	}
	return false
}

func (s DescendantSelector) Priority() int {
	return s.Ancestor.Priority() + s.Descendant.Priority()
}

func (s DescendantSelector) String() string {
	return s.Ancestor.String() + " " + s.Descendant.String()
}

func (DescendantSelector) selector() {}

type Rule struct {
	Selector Selector
	Body     map[string]string
}

// SortRules orders rules by ascending priority. Rules of equal priority keep
// their relative order, so later rules still win ties.
func SortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Selector.Priority() < rules[j].Selector.Priority()
	})
}
