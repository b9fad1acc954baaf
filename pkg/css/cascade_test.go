package css

import (
	"reflect"
	"testing"

	"minibrowser/pkg/html"
)

func styled(markup, sheet string) *html.Node {
	rules := ParseStylesheet(sheet)
	SortRules(rules)
	root := html.Parse(markup)
	Style(root, rules)
	return root
}

// find returns the first element with the given tag in pre-order.
func find(root *html.Node, tag string) *html.Node {
	for _, n := range html.TreeToList(root, nil) {
		if n.IsElement(tag) {
			return n
		}
	}
	return nil
}

func TestStyle_Defaults(t *testing.T) {
	root := styled("<p>hi</p>", "")
	for _, n := range html.TreeToList(root, nil) {
		for prop, def := range InheritedProperties {
			if n.Style[prop] != def {
				t.Errorf("%v: expected %s=%s, got %q", n, prop, def, n.Style[prop])
			}
		}
	}
}

func TestStyle_Inheritance(t *testing.T) {
	root := styled("<div><span>x</span></div>", "div { color: red; font-weight: bold; background-color: gray; }")
	span := find(root, "span")
	if span.Style["color"] != "red" || span.Style["font-weight"] != "bold" {
		t.Errorf("expected inherited color and weight, got %v", span.Style)
	}
	if _, ok := span.Style["background-color"]; ok {
		t.Error("background-color must not be inherited")
	}
	text := span.Children[0]
	if text.Style["color"] != "red" {
		t.Errorf("expected text node to inherit color, got %v", text.Style)
	}
}

func TestStyle_SpecificityBeatsSourceOrder(t *testing.T) {
	root := styled("<div><p>text</p></div>", "div p { color: red; } p { color: blue; }")
	text := find(root, "p").Children[0]
	if text.Style["color"] != "red" {
		t.Errorf("expected color 'red', got '%s'", text.Style["color"])
	}
}

func TestStyle_EqualPriorityLaterWins(t *testing.T) {
	root := styled("<p>x</p>", "p { color: blue; } p { color: green; }")
	if got := find(root, "p").Style["color"]; got != "green" {
		t.Errorf("expected 'green', got '%s'", got)
	}
}

func TestStyle_InlineOverridesRules(t *testing.T) {
	root := styled(`<div><p style="color: green">x</p></div>`, "div p { color: red; }")
	if got := find(root, "p").Style["color"]; got != "green" {
		t.Errorf("expected 'green', got '%s'", got)
	}
}

func TestStyle_PercentFontSize(t *testing.T) {
	tests := []struct {
		name     string
		sheet    string
		expected string
	}{
		{"150% of 20px", "div { font-size: 20px; } p { font-size: 150%; }", "30.0px"},
		{"90% of default", "p { font-size: 90%; }", "14.4px"},
		{"unparseable percent keeps parent", "div { font-size: 20px; } p { font-size: x%; }", "20.0px"},
		{"absolute size is untouched", "p { font-size: 12px; }", "12px"},
		{"non-finite parent counts as default", "div { font-size: NaNpx; } p { font-size: 50%; }", "8.0px"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := styled("<div><p>x</p></div>", tt.sheet)
			if got := find(root, "p").Style["font-size"]; got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResolvePercentSize_Overflow(t *testing.T) {
	if got := resolvePercentSize("1e308%", 1e10); got != "10000000000.0px" {
		t.Errorf("expected parent size on overflow, got %q", got)
	}
}

func TestStyle_PercentOnRoot(t *testing.T) {
	root := html.Parse("<p>x</p>")
	root.Attributes["style"] = "font-size: 50%"
	Style(root, nil)
	if root.Style["font-size"] != "8.0px" {
		t.Errorf("expected 8.0px, got %q", root.Style["font-size"])
	}
}

func TestStyle_Idempotent(t *testing.T) {
	rules := DefaultStylesheet()
	rules = append(rules, ParseStylesheet("div { font-size: 150%; } div p { color: red; }")...)
	SortRules(rules)

	root := html.Parse(`<div><p>a <small>b</small> <big style="color: green">c</big></p></div>`)
	Style(root, rules)
	first := make(map[*html.Node]map[string]string)
	for _, n := range html.TreeToList(root, nil) {
		first[n] = n.Style
	}

	Style(root, rules)
	for _, n := range html.TreeToList(root, nil) {
		if !reflect.DeepEqual(first[n], n.Style) {
			t.Errorf("%v: style changed from %v to %v", n, first[n], n.Style)
		}
	}
}

func TestSelector_Matches(t *testing.T) {
	root := html.Parse("<div><ul><li>x</li></ul></div><li>y</li>")
	lis := []*html.Node{}
	for _, n := range html.TreeToList(root, nil) {
		if n.IsElement("li") {
			lis = append(lis, n)
		}
	}
	sel := DescendantSelector{Ancestor: TagSelector{Tag: "div"}, Descendant: TagSelector{Tag: "li"}}
	if !sel.Matches(lis[0]) {
		t.Error("expected nested li to match 'div li'")
	}
	if sel.Matches(lis[1]) {
		t.Error("expected top-level li not to match 'div li'")
	}
	if (TagSelector{Tag: "li"}).Matches(lis[0].Children[0]) {
		t.Error("tag selector must not match text")
	}
	self := DescendantSelector{Ancestor: TagSelector{Tag: "li"}, Descendant: TagSelector{Tag: "li"}}
	if self.Matches(lis[0]) {
		t.Error("ancestor must be strict")
	}
}

func TestSortRules_Stable(t *testing.T) {
	rules := ParseStylesheet("div p { color: red; } p { color: blue; } a { color: green; }")
	SortRules(rules)
	var got []string
	for _, r := range rules {
		got = append(got, r.Selector.String())
	}
	want := []string{"p", "a", "div p"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDefaultStylesheet(t *testing.T) {
	rules := DefaultStylesheet()
	if len(rules) != 6 {
		t.Fatalf("expected 6 default rules, got %d", len(rules))
	}
	root := styled("<pre>x</pre><a href=/>l</a>", "")
	Style(root, DefaultStylesheet())
	if got := find(root, "pre").Style["background-color"]; got != "gray" {
		t.Errorf("expected gray pre background, got %q", got)
	}
	if got := find(root, "a").Style["color"]; got != "blue" {
		t.Errorf("expected blue link, got %q", got)
	}
}
