// Package ast defines Monad's abstract syntax tree: a tagged variant over
// numbers, symbols, strings, characters, lists and lambdas, each carrying
// its source span.
package ast

import (
	"fmt"
	"strings"
)

// Kind tags the variant a Node holds.
type Kind int

const (
	KindNumber Kind = iota
	KindSymbol
	KindString
	KindChar
	KindList
	KindLambda
)

// Span is the source range of a node: the line and column of its first byte
// and the column of its last byte. Multi-line nodes record only the start
// line, matching the single-line caret diagnostics of §6.
type Span struct {
	StartLine int
	StartCol  int
	EndCol    int
}

// Param is one formal parameter of a lambda signature: a name and an
// optional type-annotation string (empty when the parameter carries no
// annotation, in which case the lowering engine defaults it to Float).
type Param struct {
	Name string
	Type string // annotation name, or "" if unannotated
}

// Node is a single Monad expression. Exactly one of the accessor groups
// below is meaningful, selected by Kind.
type Node struct {
	Kind Kind
	Span Span

	// KindNumber
	NumberValue  float64
	NumberLexeme string // original source slice, used to disambiguate base/float

	// KindSymbol, KindString
	Text string

	// KindChar
	CharValue byte

	// KindList
	Items []*Node

	// KindLambda
	Params     []Param
	ReturnType string // "" if unannotated
	Doc        string // "" if absent
	Body       *Node
}

// Number constructs a numeric literal node.
func Number(v float64, lexeme string, span Span) *Node {
	return &Node{Kind: KindNumber, NumberValue: v, NumberLexeme: lexeme, Span: span}
}

// Symbol constructs a symbol node.
func Symbol(name string, span Span) *Node {
	return &Node{Kind: KindSymbol, Text: name, Span: span}
}

// Str constructs a decoded string literal node.
func Str(value string, span Span) *Node {
	return &Node{Kind: KindString, Text: value, Span: span}
}

// Char constructs a character literal node.
func Char(v byte, span Span) *Node {
	return &Node{Kind: KindChar, CharValue: v, Span: span}
}

// List constructs a list (application) node from ordered children.
func List(items []*Node, span Span) *Node {
	return &Node{Kind: KindList, Items: items, Span: span}
}

// Lambda constructs a lambda node.
func Lambda(params []Param, returnType, doc string, body *Node, span Span) *Node {
	return &Node{Kind: KindLambda, Params: params, ReturnType: returnType, Doc: doc, Body: body, Span: span}
}

// Head returns the first element of a list node, or nil if the list is
// empty or n is not a list.
func (n *Node) Head() *Node {
	if n == nil || n.Kind != KindList || len(n.Items) == 0 {
		return nil
	}
	return n.Items[0]
}

// HeadSymbol returns the text of Head() when it is a symbol, else "".
func (n *Node) HeadSymbol() string {
	h := n.Head()
	if h == nil || h.Kind != KindSymbol {
		return ""
	}
	return h.Text
}

// String renders n the way the structural quote-printer does: numbers via
// %g, symbols as bare text, strings with enclosing quotes, chars with
// enclosing ticks, lists as space-separated children inside parentheses.
// Re-parsing String's output must reproduce a structurally equal tree
// (up to whitespace), per §8's ast_print round-trip property.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindNumber:
		return formatNumber(n.NumberValue)
	case KindSymbol:
		return n.Text
	case KindString:
		return fmt.Sprintf("%q", n.Text)
	case KindChar:
		return fmt.Sprintf("'%c'", n.CharValue)
	case KindList:
		parts := make([]string, len(n.Items))
		for i, it := range n.Items {
			parts[i] = it.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	case KindLambda:
		return n.lambdaString()
	default:
		return ""
	}
}

func (n *Node) lambdaString() string {
	var sb strings.Builder
	sb.WriteString("(lambda (")
	for i, p := range n.Params {
		if i > 0 {
			sb.WriteString(" ")
		}
		if p.Type != "" {
			sb.WriteString(fmt.Sprintf("[%s :: %s]", p.Name, p.Type))
		} else {
			sb.WriteString(fmt.Sprintf("[%s]", p.Name))
		}
	}
	if n.ReturnType != "" {
		sb.WriteString(" -> " + n.ReturnType)
	}
	sb.WriteString(")")
	if n.Doc != "" {
		sb.WriteString(fmt.Sprintf(" %q", n.Doc))
	}
	sb.WriteString(" " + n.Body.String() + ")")
	return sb.String()
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}
