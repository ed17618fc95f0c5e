package lexer

import "testing"

func TestNextTokenCoversBasicSyntax(t *testing.T) {
	input := `let a = 1
a["b"] = 2.5
rescue({"k" => id}) do
  raise(a)
end # trailing comment
fn(x, y) do end
true false`

	want := []TokenType{
		TOKEN_LET, TOKEN_IDENTIFIER, TOKEN_ASSIGN, TOKEN_NUMBER,
		TOKEN_IDENTIFIER, TOKEN_LBRACKET, TOKEN_STRING, TOKEN_RBRACKET, TOKEN_ASSIGN, TOKEN_NUMBER,
		TOKEN_RESCUE, TOKEN_LPAREN, TOKEN_LBRACE, TOKEN_STRING, TOKEN_FATARROW, TOKEN_IDENTIFIER, TOKEN_RBRACE, TOKEN_RPAREN, TOKEN_DO,
		TOKEN_RAISE, TOKEN_LPAREN, TOKEN_IDENTIFIER, TOKEN_RPAREN,
		TOKEN_END,
		TOKEN_FN, TOKEN_LPAREN, TOKEN_IDENTIFIER, TOKEN_COMMA, TOKEN_IDENTIFIER, TOKEN_RPAREN, TOKEN_DO, TOKEN_END,
		TOKEN_TRUE, TOKEN_FALSE,
		TOKEN_EOF,
	}

	l := New(input)
	for i, expected := range want {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("token %d: expected %v, got %v (%q)", i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\t\"c\\"`)
	tok := l.NextToken()
	if tok.Type != TOKEN_STRING {
		t.Fatalf("expected a string token, got %v", tok.Type)
	}
	want := "a\nb\t\"c\\"
	if tok.Literal != want {
		t.Fatalf("expected %q, got %q", want, tok.Literal)
	}
}

func TestComparisonOperators(t *testing.T) {
	l := New(`>= <= > < = =>`)
	want := []TokenType{TOKEN_GE, TOKEN_LE, TOKEN_GT, TOKEN_LT, TOKEN_ASSIGN, TOKEN_FATARROW, TOKEN_EOF}
	for i, expected := range want {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("token %d: expected %v, got %v", i, expected, tok.Type)
		}
	}
}
