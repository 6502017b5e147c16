// Package parser implements Monad's recursive-descent reader: the generic
// S-expression grammar plus the small grammar of typed function signatures,
// lambda/define short-form rewriting, and quote.
package parser

import (
	"github.com/monad-lang/monad/internal/ast"
	"github.com/monad-lang/monad/internal/lexer"
	"github.com/monad-lang/monad/internal/reporter"
	"github.com/monad-lang/monad/internal/token"
)

// Parser is a one-token-lookahead recursive-descent reader over a Lexer.
type Parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	rep  *reporter.Reporter
	peek *token.Token // buffered lookahead, for signature disambiguation
}

// New constructs a Parser over source, reporting diagnostics through rep.
func New(source string, rep *reporter.Reporter) (*Parser, error) {
	p := &Parser{lex: lexer.New(source), rep: rep}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	if p.peek != nil {
		p.cur = *p.peek
		p.peek = nil
		return nil
	}
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) lookahead() (token.Token, error) {
	if p.peek == nil {
		tok, err := p.lex.Next()
		if err != nil {
			return token.Token{}, err
		}
		p.peek = &tok
	}
	return *p.peek, nil
}

func (p *Parser) fail(pos token.Position, format string, args ...any) error {
	return p.rep.Fail(pos, format, args...)
}

// ParseOne parses a single top-level expression, the entry point used by
// the interactive evaluator.
func ParseOne(source string, rep *reporter.Reporter) (*ast.Node, error) {
	p, err := New(source, rep)
	if err != nil {
		return nil, err
	}
	return p.parseExpr()
}

// ParseAll parses every top-level expression in source, the entry point
// used for whole-file compilation.
func ParseAll(source string, rep *reporter.Reporter) ([]*ast.Node, error) {
	p, err := New(source, rep)
	if err != nil {
		return nil, err
	}
	var forms []*ast.Node
	for p.cur.Kind != token.EOF {
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		forms = append(forms, n)
	}
	return forms, nil
}

func (p *Parser) parseExpr() (*ast.Node, error) {
	switch p.cur.Kind {
	case token.Number:
		return p.parseNumber()
	case token.Symbol:
		return p.parseSymbol()
	case token.Arrow:
		n := ast.Symbol("->", spanOf(p.cur, p.cur.Pos.Column+1))
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	case token.String:
		n := ast.Str(p.cur.Lexeme, spanOf(p.cur, p.cur.Pos.Column+1))
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	case token.Char:
		n := ast.Char(p.cur.Lexeme[0], spanOf(p.cur, p.cur.Pos.Column+1))
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	case token.QuotePrefix:
		return p.parseQuote()
	case token.OpenParen:
		return p.parseParenForm()
	case token.OpenBracket:
		return p.parseBracketList()
	default:
		return nil, p.fail(p.cur.Pos, "unexpected token %s", p.cur)
	}
}

func (p *Parser) parseNumber() (*ast.Node, error) {
	lexeme := p.cur.Lexeme
	pos := p.cur.Pos
	v, err := parseNumberValue(lexeme)
	if err != nil {
		return nil, p.fail(pos, "malformed numeric literal %q: %v", lexeme, err)
	}
	n := ast.Number(v, lexeme, Span(pos, pos.Column+len(lexeme)))
	if err := p.advance(); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseSymbol() (*ast.Node, error) {
	pos := p.cur.Pos
	n := ast.Symbol(p.cur.Lexeme, Span(pos, pos.Column+len(p.cur.Lexeme)))
	if err := p.advance(); err != nil {
		return nil, err
	}
	return n, nil
}

// parseQuote consumes a leading ' and the expression it prefixes, producing
// the list (quote expr).
func (p *Parser) parseQuote() (*ast.Node, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	items := []*ast.Node{ast.Symbol("quote", Span(pos, pos.Column+1)), inner}
	return ast.List(items, Span(pos, inner.Span.EndCol)), nil
}

// parseParenForm parses a ( ... ) list, dispatching to the lambda and
// define short-form grammars when the head symbol requires it.
func (p *Parser) parseParenForm() (*ast.Node, error) {
	openPos := p.cur.Pos
	if err := p.advance(); err != nil { // consume (
		return nil, err
	}

	if p.cur.Kind == token.Symbol && p.cur.Lexeme == "lambda" {
		return p.parseLambdaForm(openPos)
	}
	if p.cur.Kind == token.Symbol && p.cur.Lexeme == "define" {
		la, err := p.lookahead()
		if err != nil {
			return nil, err
		}
		if la.Kind == token.OpenParen {
			return p.parseDefineShortForm(openPos)
		}
	}

	var items []*ast.Node
	for p.cur.Kind != token.CloseParen {
		if p.cur.Kind == token.EOF {
			return nil, p.fail(openPos, "missing ')'")
		}
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	closePos := p.cur.Pos
	if err := p.advance(); err != nil { // consume )
		return nil, err
	}
	return ast.List(items, Span(openPos, closePos.Column+1)), nil
}

// parseBracketList parses a [ ... ] list, used for type annotations and
// parameter descriptors. Grammar is identical to parseParenForm save for
// the terminator.
func (p *Parser) parseBracketList() (*ast.Node, error) {
	openPos := p.cur.Pos
	if err := p.advance(); err != nil { // consume [
		return nil, err
	}
	var items []*ast.Node
	for p.cur.Kind != token.CloseBracket {
		if p.cur.Kind == token.EOF {
			return nil, p.fail(openPos, "missing ']'")
		}
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	closePos := p.cur.Pos
	if err := p.advance(); err != nil { // consume ]
		return nil, err
	}
	return ast.List(items, Span(openPos, closePos.Column+1)), nil
}

// parseLambdaForm parses the body of `lambda` after its head symbol has
// been recognised but not yet consumed: `lambda (sig...) docstring? body)`.
func (p *Parser) parseLambdaForm(openPos token.Position) (*ast.Node, error) {
	if err := p.advance(); err != nil { // consume 'lambda'
		return nil, err
	}
	if p.cur.Kind != token.OpenParen {
		return nil, p.fail(p.cur.Pos, "expected '(' to open lambda signature")
	}
	if err := p.advance(); err != nil { // consume (
		return nil, err
	}
	params, returnType, err := p.parseSignature()
	if err != nil {
		return nil, err
	}

	var doc string
	if p.cur.Kind == token.String {
		doc = p.cur.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.CloseParen {
		return nil, p.fail(p.cur.Pos, "missing ')' closing lambda")
	}
	closePos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	return ast.Lambda(params, returnType, doc, body, Span(openPos, closePos.Column+1)), nil
}

// parseSignature parses a sequence of bracket-lists `[name]` or
// `[name :: Type]`, optionally followed by `->` and a trailing return-type
// symbol, then consumes the `)` that closes the signature.
func (p *Parser) parseSignature() ([]ast.Param, string, error) {
	var params []ast.Param
	for p.cur.Kind == token.OpenBracket {
		param, err := p.parseOneParam()
		if err != nil {
			return nil, "", err
		}
		params = append(params, param)
	}

	var returnType string
	if p.cur.Kind == token.Arrow {
		if err := p.advance(); err != nil {
			return nil, "", err
		}
		if p.cur.Kind != token.Symbol {
			return nil, "", p.fail(p.cur.Pos, "expected return type name after '->'")
		}
		returnType = p.cur.Lexeme
		if err := p.advance(); err != nil {
			return nil, "", err
		}
	}
	if p.cur.Kind != token.CloseParen {
		return nil, "", p.fail(p.cur.Pos, "malformed function signature: missing ')'")
	}
	if err := p.advance(); err != nil { // consume )
		return nil, "", err
	}
	return params, returnType, nil
}

func (p *Parser) parseOneParam() (ast.Param, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil { // consume [
		return ast.Param{}, err
	}
	if p.cur.Kind != token.Symbol {
		return ast.Param{}, p.fail(pos, "malformed function signature: expected parameter name")
	}
	name := p.cur.Lexeme
	if err := p.advance(); err != nil {
		return ast.Param{}, err
	}

	var typ string
	if p.cur.Kind == token.Symbol && p.cur.Lexeme == "::" {
		if err := p.advance(); err != nil {
			return ast.Param{}, err
		}
		if p.cur.Kind != token.Symbol {
			return ast.Param{}, p.fail(p.cur.Pos, "malformed type annotation: expected type name after '::'")
		}
		typ = p.cur.Lexeme
		if err := p.advance(); err != nil {
			return ast.Param{}, err
		}
	}
	if p.cur.Kind != token.CloseBracket {
		return ast.Param{}, p.fail(p.cur.Pos, "malformed function signature: missing ']'")
	}
	if err := p.advance(); err != nil { // consume ]
		return ast.Param{}, err
	}
	return ast.Param{Name: name, Type: typ}, nil
}

// parseDefineShortForm rewrites `(define (name sig…) docstring? body)` into
// the list `(define name (lambda sig docstring? body))`, per §4.2.
func (p *Parser) parseDefineShortForm(openPos token.Position) (*ast.Node, error) {
	if err := p.advance(); err != nil { // consume 'define'
		return nil, err
	}
	innerOpen := p.cur.Pos
	if err := p.advance(); err != nil { // consume inner (
		return nil, err
	}
	if p.cur.Kind != token.Symbol {
		return nil, p.fail(p.cur.Pos, "expected function name in short-form define")
	}
	name := p.cur.Lexeme
	namePos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	params, returnType, err := p.parseSignature()
	if err != nil {
		return nil, err
	}

	var doc string
	if p.cur.Kind == token.String {
		doc = p.cur.Lexeme
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.CloseParen {
		return nil, p.fail(p.cur.Pos, "missing ')' closing short-form define")
	}
	closePos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}

	lambda := ast.Lambda(params, returnType, doc, body, Span(innerOpen, closePos.Column+1))
	items := []*ast.Node{
		ast.Symbol("define", Span(openPos, openPos.Column+6)),
		ast.Symbol(name, Span(namePos, namePos.Column+len(name))),
		lambda,
	}
	return ast.List(items, Span(openPos, closePos.Column+1)), nil
}

// Span builds an ast.Span on a single source line.
func Span(start token.Position, endCol int) ast.Span {
	return ast.Span{StartLine: start.Line, StartCol: start.Column, EndCol: endCol}
}

func spanOf(tok token.Token, endCol int) ast.Span {
	return Span(tok.Pos, endCol)
}
