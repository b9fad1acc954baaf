package html

import "testing"

func collectTokens(input string) []Token {
	tokenizer := NewTokenizer(input)
	var tokens []Token
	for {
		token := tokenizer.NextToken()
		if token.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, token)
	}
}

func TestTokenizer_SimpleStartTag(t *testing.T) {
	tokens := collectTokens("<div>")
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	if tokens[0].Type != TokenStartTag {
		t.Errorf("expected TokenStartTag, got %v", tokens[0].Type)
	}
	if tokens[0].TagName != "div" {
		t.Errorf("expected tag name 'div', got '%s'", tokens[0].TagName)
	}
}

func TestTokenizer_TagNameIsCaseFolded(t *testing.T) {
	tokens := collectTokens("<DIV></Div>")
	if tokens[0].TagName != "div" || tokens[1].TagName != "div" {
		t.Errorf("expected folded names, got '%s' and '%s'", tokens[0].TagName, tokens[1].TagName)
	}
	if tokens[1].Type != TokenEndTag {
		t.Errorf("expected TokenEndTag, got %v", tokens[1].Type)
	}
}

func TestTokenizer_TagWithAttributes(t *testing.T) {
	tokens := collectTokens(`<div style="color: red" id='main' hidden class=x>`)
	attrs := tokens[0].Attributes
	if attrs["style"] != "color: red" {
		t.Errorf("expected style='color: red', got '%s'", attrs["style"])
	}
	if attrs["id"] != "main" {
		t.Errorf("expected id='main', got '%s'", attrs["id"])
	}
	if v, ok := attrs["hidden"]; !ok || v != "" {
		t.Errorf("expected bare attribute 'hidden' with empty value, got %q (%v)", v, ok)
	}
	if attrs["class"] != "x" {
		t.Errorf("expected class='x', got '%s'", attrs["class"])
	}
}

func TestTokenizer_CompleteSequence(t *testing.T) {
	tokens := collectTokens("<div>Hello</div>")
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if tokens[0].Type != TokenStartTag || tokens[0].TagName != "div" {
		t.Error("expected start tag 'div'")
	}
	if tokens[1].Type != TokenText || tokens[1].Text != "Hello" {
		t.Error("expected text 'Hello'")
	}
	if tokens[2].Type != TokenEndTag {
		t.Error("expected end tag")
	}
}

func TestTokenizer_DropsWhitespaceOnlyText(t *testing.T) {
	tokens := collectTokens("<p>\n   </p>  \n")
	for _, tok := range tokens {
		if tok.Type == TokenText {
			t.Errorf("unexpected text token %q", tok.Text)
		}
	}
}

func TestTokenizer_DiscardsCommentsAndDoctype(t *testing.T) {
	tokens := collectTokens("<!doctype html><!-- note --><p>")
	if len(tokens) != 1 || tokens[0].TagName != "p" {
		t.Fatalf("expected only the p tag, got %+v", tokens)
	}
}

func TestTokenizer_UnterminatedTagIsDropped(t *testing.T) {
	tokens := collectTokens("text<div class=")
	if len(tokens) != 1 || tokens[0].Text != "text" {
		t.Fatalf("expected single text token, got %+v", tokens)
	}
}

func TestTokenizer_StrayGreaterThanIsText(t *testing.T) {
	tokens := collectTokens("a > b")
	if len(tokens) != 1 || tokens[0].Text != "a > b" {
		t.Fatalf("expected text 'a > b', got %+v", tokens)
	}
}

func TestTokenizer_SelfClosingSlash(t *testing.T) {
	tokens := collectTokens("<br/><img src=a.png />")
	if tokens[0].TagName != "br" {
		t.Errorf("expected 'br', got '%s'", tokens[0].TagName)
	}
	if tokens[1].TagName != "img" || tokens[1].Attributes["src"] != "a.png" {
		t.Errorf("unexpected img token %+v", tokens[1])
	}
	if _, ok := tokens[1].Attributes["/"]; ok {
		t.Error("trailing slash must not become an attribute")
	}
}

func TestTokenizer_UnescapesEntities(t *testing.T) {
	tokens := collectTokens("<p>a &lt; b &amp;&amp; c</p>")
	if tokens[1].Text != "a < b && c" {
		t.Errorf("expected unescaped text, got %q", tokens[1].Text)
	}
}

func TestTokenizer_EmptyTagIsIgnored(t *testing.T) {
	tokens := collectTokens("<>x")
	if len(tokens) != 1 || tokens[0].Type != TokenText {
		t.Fatalf("expected one text token, got %+v", tokens)
	}
}

func TestTokenizer_LessThanInsideTagStartsNewTag(t *testing.T) {
	tokens := collectTokens("x<b<i>y")
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %+v", tokens)
	}
	if tokens[0].Text != "x" || tokens[1].Type != TokenText || tokens[1].Text != "b" {
		t.Errorf("expected texts 'x' and 'b', got %+v", tokens[:2])
	}
	if tokens[2].Type != TokenStartTag || tokens[2].TagName != "i" {
		t.Errorf("expected <i>, got %+v", tokens[2])
	}
	if tokens[3].Text != "y" {
		t.Errorf("expected text 'y', got %+v", tokens[3])
	}
}
