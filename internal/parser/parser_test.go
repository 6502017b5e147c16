package parser

import (
	"testing"

	"github.com/monad-lang/monad/internal/ast"
	"github.com/monad-lang/monad/internal/reporter"
)

func parseOne(t *testing.T, src string) *ast.Node {
	t.Helper()
	rep := reporter.New("<test>", src)
	n, err := ParseOne(src, rep)
	if err != nil {
		t.Fatalf("ParseOne(%q) error = %v", src, err)
	}
	return n
}

func TestParseOneLiterals(t *testing.T) {
	tests := []struct {
		src  string
		kind ast.Kind
	}{
		{"123", ast.KindNumber},
		{"0xFF", ast.KindNumber},
		{`"hi"`, ast.KindString},
		{"'c'", ast.KindChar},
		{"foo", ast.KindSymbol},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			n := parseOne(t, tc.src)
			if n.Kind != tc.kind {
				t.Errorf("Kind = %v, want %v", n.Kind, tc.kind)
			}
		})
	}
}

func TestParseOneList(t *testing.T) {
	n := parseOne(t, "(+ 1 2 3)")
	if n.Kind != ast.KindList || len(n.Items) != 4 {
		t.Fatalf("got %#v", n)
	}
	if n.HeadSymbol() != "+" {
		t.Errorf("HeadSymbol() = %q", n.HeadSymbol())
	}
}

func TestParseOneQuote(t *testing.T) {
	n := parseOne(t, `'(a 1 "b")`)
	if n.Kind != ast.KindList || n.HeadSymbol() != "quote" {
		t.Fatalf("quote did not rewrite to (quote ...): %#v", n)
	}
	if len(n.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(n.Items))
	}
}

func TestParseOneLambda(t *testing.T) {
	n := parseOne(t, `(lambda ([x :: Int] -> Int) "doubles x" (* x 2))`)
	if n.Kind != ast.KindLambda {
		t.Fatalf("got kind %v", n.Kind)
	}
	if len(n.Params) != 1 || n.Params[0].Name != "x" || n.Params[0].Type != "Int" {
		t.Fatalf("params = %#v", n.Params)
	}
	if n.ReturnType != "Int" {
		t.Errorf("ReturnType = %q", n.ReturnType)
	}
	if n.Doc != "doubles x" {
		t.Errorf("Doc = %q", n.Doc)
	}
}

func TestParseDefineShortFormRewrite(t *testing.T) {
	n := parseOne(t, `(define (sq [x :: Int] -> Int) (* x x))`)
	if n.Kind != ast.KindList || n.HeadSymbol() != "define" {
		t.Fatalf("got %#v", n)
	}
	if len(n.Items) != 3 {
		t.Fatalf("expected 3 items (define name lambda), got %d", len(n.Items))
	}
	if n.Items[1].Text != "sq" {
		t.Errorf("name = %q, want sq", n.Items[1].Text)
	}
	if n.Items[2].Kind != ast.KindLambda {
		t.Errorf("third item kind = %v, want KindLambda", n.Items[2].Kind)
	}
}

func TestParseAllMultipleForms(t *testing.T) {
	rep := reporter.New("<test>", "(show (+ 1 2)) (define x 1)")
	forms, err := ParseAll("(show (+ 1 2)) (define x 1)", rep)
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("got %d forms, want 2", len(forms))
	}
}

func TestParseOneMissingCloseParen(t *testing.T) {
	rep := reporter.New("<test>", "(+ 1 2")
	_, err := ParseOne("(+ 1 2", rep)
	if err == nil {
		t.Fatal("expected error for missing ')'")
	}
}

func TestParseOneUnknownAnnotation(t *testing.T) {
	rep := reporter.New("<test>", "(lambda ([x :: Weird]) x)")
	_, err := ParseOne("(lambda ([x :: Weird]) x)", rep)
	// Parsing itself accepts any symbol as a type name; rejecting unknown
	// names is the type model's job (types.ParseAnnotation), exercised in
	// codegen, not here.
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
}
