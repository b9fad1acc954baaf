package html

import (
	gohtml "html"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenEOF
)

type Token struct {
	Type       TokenType
	TagName    string
	Attributes map[string]string
	Text       string
}

// Tokenizer splits markup into tag and text tokens in a single left-to-right
// pass. The only scanner state is whether the cursor is inside a tag.
type Tokenizer struct {
	input string
	pos   int
	inTag bool
	buf   strings.Builder
	fold  cases.Caser
}

func NewTokenizer(html string) *Tokenizer {
	return &Tokenizer{input: html, fold: cases.Fold()}
}

// NextToken returns the next token. Whitespace-only text, comments, doctypes
// and empty tags never produce a token; TokenEOF is returned once the input
// is exhausted. Text left inside an unterminated tag at the end is dropped.
func (t *Tokenizer) NextToken() Token {
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		t.pos++
		switch {
		case c == '<':
			// A '<' inside a tag restarts the tag; the partial tag becomes text.
			t.inTag = true
			raw := t.take()
			if !isWhitespace(raw) {
				return Token{Type: TokenText, Text: gohtml.UnescapeString(raw)}
			}
		case c == '>' && t.inTag:
			t.inTag = false
			if tok, ok := t.tagToken(t.take()); ok {
				return tok
			}
		default:
			t.buf.WriteByte(c)
		}
	}
	if !t.inTag {
		if raw := t.take(); !isWhitespace(raw) {
			return Token{Type: TokenText, Text: gohtml.UnescapeString(raw)}
		}
	}
	t.take()
	return Token{Type: TokenEOF}
}

func (t *Tokenizer) take() string {
	s := t.buf.String()
	t.buf.Reset()
	return s
}

// tagToken turns the text between '<' and '>' into a start or end tag.
func (t *Tokenizer) tagToken(raw string) (Token, bool) {
	parts := splitTagFields(raw)
	if len(parts) == 0 {
		return Token{}, false
	}
	// <br/> and <div /> style endings carry no meaning here.
	if parts[len(parts)-1] == "/" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return Token{}, false
	}
	name := t.fold.String(parts[0])
	if strings.HasPrefix(name, "!") || name == "/" {
		return Token{}, false
	}
	if len(name) > 1 && strings.HasSuffix(name, "/") {
		name = name[:len(name)-1]
	}
	if strings.HasPrefix(name, "/") {
		return Token{Type: TokenEndTag, TagName: name[1:]}, true
	}

	attributes := make(map[string]string)
	for _, pair := range parts[1:] {
		if key, value, ok := strings.Cut(pair, "="); ok {
			attributes[t.fold.String(key)] = unquote(value)
		} else {
			attributes[t.fold.String(pair)] = ""
		}
	}
	return Token{Type: TokenStartTag, TagName: name, Attributes: attributes}, true
}

// splitTagFields splits a tag body on whitespace, except inside single or
// double quotes.
func splitTagFields(s string) []string {
	var (
		fields []string
		cur    strings.Builder
		quote  rune
	)
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return fields
}

func unquote(value string) string {
	if value == "" || (value[0] != '"' && value[0] != '\'') {
		return value
	}
	q := value[0]
	value = value[1:]
	if n := len(value); n > 0 && value[n-1] == q {
		value = value[:n-1]
	}
	return value
}

func isWhitespace(s string) bool {
	return strings.TrimSpace(s) == ""
}
