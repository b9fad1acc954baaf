package html

import (
	"go.uber.org/zap"
	"golang.org/x/net/html/atom"
)

// Parser builds a DOM tree from tokens, repairing missing html/head/body
// structure on the way. It never fails: any input yields a tree rooted at an
// html element whose children are exactly one head and one body.
type Parser struct {
	tokenizer  *Tokenizer
	unfinished []*Node // open elements, innermost last
	log        *zap.Logger
}

func NewParser(html string, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		tokenizer: NewTokenizer(html),
		log:       log.Named("html"),
	}
}

func (p *Parser) Parse() *Node {
	for {
		token := p.tokenizer.NextToken()
		switch token.Type {
		case TokenEOF:
			return p.finish()
		case TokenText:
			p.addText(token.Text)
		case TokenStartTag, TokenEndTag:
			p.addTag(token)
		}
	}
}

// Parse parses markup with a no-op logger.
func Parse(html string) *Node {
	return NewParser(html, nil).Parse()
}

// selfClosingTags are appended as childless elements and never opened.
var selfClosingTags = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

// headTags may only appear inside head.
var headTags = map[atom.Atom]bool{
	atom.Base: true, atom.Basefont: true, atom.Bgsound: true, atom.Noscript: true,
	atom.Link: true, atom.Meta: true, atom.Title: true, atom.Style: true,
	atom.Script: true,
}

func IsSelfClosing(tag string) bool {
	return selfClosingTags[atom.Lookup([]byte(tag))]
}

func isHeadTag(tag string) bool {
	return headTags[atom.Lookup([]byte(tag))]
}

func (p *Parser) top() *Node {
	if len(p.unfinished) == 0 {
		return nil
	}
	return p.unfinished[len(p.unfinished)-1]
}

func (p *Parser) pop() *Node {
	node := p.unfinished[len(p.unfinished)-1]
	p.unfinished = p.unfinished[:len(p.unfinished)-1]
	return node
}

func (p *Parser) addText(text string) {
	if isWhitespace(text) {
		return
	}
	p.implicitTags("")
	p.top().AppendText(text)
}

func (p *Parser) addTag(token Token) {
	key := token.TagName
	if token.Type == TokenEndTag {
		key = "/" + key
	}
	p.implicitTags(key)

	switch {
	case token.Type == TokenEndTag:
		if len(p.unfinished) == 1 {
			p.log.Debug("Ignoring close tag of root", zap.String("tag", token.TagName))
			return
		}
		node := p.pop()
		p.top().AddChild(node)
	case IsSelfClosing(token.TagName):
		parent := p.top()
		parent.AddChild(NewElement(token.TagName, token.Attributes, parent))
	default:
		p.unfinished = append(p.unfinished, NewElement(token.TagName, token.Attributes, p.top()))
	}
}

func (p *Parser) synthesize(tag string) {
	p.log.Debug("Inserting implicit tag", zap.String("tag", tag))
	if tag[0] == '/' {
		p.addTag(Token{Type: TokenEndTag, TagName: tag[1:]})
		return
	}
	p.addTag(Token{Type: TokenStartTag, TagName: tag})
}

// implicitTags inserts the html, head and body structure that the incoming
// tag needs until no pattern applies. tag is "" for text and end of input,
// and carries a leading '/' for close tags.
func (p *Parser) implicitTags(tag string) {
	for {
		open := make([]string, len(p.unfinished))
		for i, node := range p.unfinished {
			open[i] = node.TagName
		}

		switch {
		case len(open) == 0 && tag != "html":
			p.synthesize("html")
		case len(open) == 1 && open[0] == "html" &&
			tag != "head" && tag != "body" && tag != "/html":
			if isHeadTag(tag) {
				p.synthesize("head")
			} else {
				p.synthesize("body")
			}
		case len(open) == 2 && open[0] == "html" && open[1] == "head" &&
			tag != "/head" && !isHeadTag(tag):
			p.synthesize("/head")
		default:
			return
		}
	}
}

func (p *Parser) finish() *Node {
	if len(p.unfinished) == 0 {
		p.implicitTags("")
	}
	for len(p.unfinished) > 1 {
		node := p.pop()
		p.top().AddChild(node)
	}
	root := p.pop()
	normalizeDocument(root)
	return root
}

// normalizeDocument leaves root with exactly one head followed by exactly
// one body. Repeated heads or bodies are merged into the first one.
func normalizeDocument(root *Node) {
	var head, body *Node
	var stray []*Node
	for _, child := range root.Children {
		switch {
		case child.IsElement("head"):
			if head == nil {
				head = child
			} else {
				adopt(head, child)
			}
		case child.IsElement("body"):
			if body == nil {
				body = child
			} else {
				adopt(body, child)
			}
		default:
			stray = append(stray, child)
		}
	}
	if head == nil {
		head = NewElement("head", nil, root)
	}
	if body == nil {
		body = NewElement("body", nil, root)
	}
	for _, node := range stray {
		body.AddChild(node)
	}
	root.Children = []*Node{head, body}
}

func adopt(dst, src *Node) {
	for _, child := range src.Children {
		dst.AddChild(child)
	}
	src.Children = nil
	src.Parent = nil
}
