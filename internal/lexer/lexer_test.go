package lexer

import (
	"testing"

	"github.com/monad-lang/monad/internal/token"
)

func TestNextBasicTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{"parens", "()", []token.Kind{token.OpenParen, token.CloseParen, token.EOF}},
		{"brackets", "[]", []token.Kind{token.OpenBracket, token.CloseBracket, token.EOF}},
		{"arrow", "->", []token.Kind{token.Arrow, token.EOF}},
		{"quote", "'(foo)", []token.Kind{token.QuotePrefix, token.OpenParen, token.Symbol, token.CloseParen, token.EOF}},
		{"comment skipped", "; hi\n(x)", []token.Kind{token.OpenParen, token.Symbol, token.CloseParen, token.EOF}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := All(tc.input)
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}
			if len(toks) != len(tc.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tc.want), toks)
			}
			for i, k := range tc.want {
				if toks[i].Kind != k {
					t.Errorf("token[%d].Kind = %s, want %s", i, toks[i].Kind, k)
				}
			}
		})
	}
}

func TestNextPosition(t *testing.T) {
	toks, err := All("(a\n  b)")
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	// ( a  on line 1, b ) on line 2
	if toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Errorf("'(' pos = %v, want 1:1", toks[0].Pos)
	}
	if toks[2].Pos.Line != 2 || toks[2].Pos.Column != 3 {
		t.Errorf("'b' pos = %v, want 2:3", toks[2].Pos)
	}
}

func TestNextUnexpectedByte(t *testing.T) {
	_, err := All("(@)")
	if err == nil {
		t.Fatal("expected error for unexpected byte, got nil")
	}
}
