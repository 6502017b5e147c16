package ast

import "testing"

func TestNodeStringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{
			name: "symbol",
			node: Symbol("foo", Span{1, 1, 3}),
			want: "foo",
		},
		{
			name: "string literal",
			node: Str("x", Span{1, 1, 3}),
			want: `"x"`,
		},
		{
			name: "char literal",
			node: Char('c', Span{1, 1, 3}),
			want: "'c'",
		},
		{
			name: "nested list",
			node: List([]*Node{
				Symbol("foo", Span{1, 2, 4}),
				Number(1, "1", Span{1, 6, 6}),
				Str("x", Span{1, 8, 10}),
			}, Span{1, 1, 11}),
			want: `(foo 1 "x")`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.node.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestHeadSymbol(t *testing.T) {
	n := List([]*Node{Symbol("+", Span{1, 2, 2}), Number(1, "1", Span{1, 4, 4})}, Span{1, 1, 5})
	if got := n.HeadSymbol(); got != "+" {
		t.Errorf("HeadSymbol() = %q, want %q", got, "+")
	}

	empty := List(nil, Span{1, 1, 2})
	if got := empty.HeadSymbol(); got != "" {
		t.Errorf("HeadSymbol() on empty list = %q, want empty", got)
	}
}

func TestSpanInvariant(t *testing.T) {
	n := Symbol("x", Span{StartLine: 3, StartCol: 5, EndCol: 5})
	if n.Span.StartLine < 1 {
		t.Errorf("StartLine = %d, want >= 1", n.Span.StartLine)
	}
	if n.Span.EndCol < n.Span.StartCol {
		t.Errorf("EndCol %d < StartCol %d", n.Span.EndCol, n.Span.StartCol)
	}
}
