package css

import (
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// ParseError reports where and why a parser primitive failed. It never
// escapes Parse or Body: both recover by skipping ahead.
type ParseError struct {
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("css: %s at offset %d", e.Reason, e.Pos)
}

// Parser is a recursive-descent parser over a single string cursor.
type Parser struct {
	s    string
	i    int
	fold cases.Caser
	log  *zap.Logger
}

func NewParser(s string, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{s: s, fold: cases.Fold(), log: log.Named("css")}
}

// ParseStylesheet parses a whole stylesheet with a no-op logger.
func ParseStylesheet(s string) []Rule {
	return NewParser(s, nil).Parse()
}

// ParseDeclarations parses the contents of an inline style attribute.
func ParseDeclarations(s string) map[string]string {
	return NewParser(s, nil).Body()
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Pos: p.i, Reason: fmt.Sprintf(format, args...)}
}

// whitespace skips spaces and /* */ comments. An unterminated comment runs
// to the end of input.
func (p *Parser) whitespace() {
	for p.i < len(p.s) {
		switch {
		case unicode.IsSpace(rune(p.s[p.i])):
			p.i++
		case strings.HasPrefix(p.s[p.i:], "/*"):
			end := strings.Index(p.s[p.i+2:], "*/")
			if end < 0 {
				p.i = len(p.s)
				return
			}
			p.i += 2 + end + 2
		default:
			return
		}
	}
}

func (p *Parser) literal(c byte) error {
	if p.i >= len(p.s) || p.s[p.i] != c {
		return p.errorf("expected %q", c)
	}
	p.i++
	return nil
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		strings.IndexByte("#-.%", c) >= 0
}

func (p *Parser) word() (string, error) {
	start := p.i
	for p.i < len(p.s) && isWordByte(p.s[p.i]) {
		p.i++
	}
	if p.i == start {
		return "", p.errorf("expected word")
	}
	return p.s[start:p.i], nil
}

func (p *Parser) pair() (string, string, error) {
	prop, err := p.word()
	if err != nil {
		return "", "", err
	}
	p.whitespace()
	if err := p.literal(':'); err != nil {
		return "", "", err
	}
	p.whitespace()
	val, err := p.word()
	if err != nil {
		return "", "", err
	}
	return p.fold.String(prop), val, nil
}

// ignoreUntil advances to the first byte in chars and returns it, or 0 at
// end of input.
func (p *Parser) ignoreUntil(chars string) byte {
	for p.i < len(p.s) {
		if strings.IndexByte(chars, p.s[p.i]) >= 0 {
			return p.s[p.i]
		}
		p.i++
	}
	return 0
}

// Body parses a ';'-separated declaration list up to a closing '}' or the
// end of input. A malformed declaration is dropped.
func (p *Parser) Body() map[string]string {
	pairs := make(map[string]string)
	p.whitespace()
	for p.i < len(p.s) && p.s[p.i] != '}' {
		err := p.declaration(pairs)
		if err == nil {
			continue
		}
		p.log.Debug("Skipping declaration", zap.Error(err))
		if p.ignoreUntil(";}") != ';' {
			break
		}
		p.i++
		p.whitespace()
	}
	return pairs
}

func (p *Parser) declaration(pairs map[string]string) error {
	prop, val, err := p.pair()
	if err != nil {
		return err
	}
	pairs[prop] = val
	p.whitespace()
	if err := p.literal(';'); err != nil {
		return err
	}
	p.whitespace()
	return nil
}

func (p *Parser) selector() (Selector, error) {
	tag, err := p.word()
	if err != nil {
		return nil, err
	}
	var out Selector = TagSelector{Tag: p.fold.String(tag)}
	p.whitespace()
	for p.i < len(p.s) && p.s[p.i] != '{' {
		tag, err := p.word()
		if err != nil {
			return nil, err
		}
		out = DescendantSelector{Ancestor: out, Descendant: TagSelector{Tag: p.fold.String(tag)}}
		p.whitespace()
	}
	return out, nil
}

func (p *Parser) rule() (Rule, error) {
	sel, err := p.selector()
	if err != nil {
		return Rule{}, err
	}
	if err := p.literal('{'); err != nil {
		return Rule{}, err
	}
	body := p.Body()
	if err := p.literal('}'); err != nil {
		return Rule{}, err
	}
	return Rule{Selector: sel, Body: body}, nil
}

// Parse returns the rules of the stylesheet in source order. A rule whose
// selector or braces are malformed is skipped up to the next '}'.
func (p *Parser) Parse() []Rule {
	var rules []Rule
	for {
		p.whitespace()
		if p.i >= len(p.s) {
			return rules
		}
		r, err := p.rule()
		if err == nil {
			rules = append(rules, r)
			continue
		}
		p.log.Debug("Skipping rule", zap.Error(err))
		if p.ignoreUntil("}") == 0 {
			return rules
		}
		p.i++
	}
}
