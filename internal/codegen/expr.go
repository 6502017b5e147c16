package codegen

import (
	"strconv"

	"github.com/monad-lang/monad/internal/ast"
	"github.com/monad-lang/monad/internal/env"
	"github.com/monad-lang/monad/internal/types"
	"tinygo.org/x/go-llvm"
)

// lowerExpr is the form-directed dispatcher of §4.5: it lowers one AST
// node to an LLVM value and reports the Kind that value was produced as.
func (e *Engine) lowerExpr(n *ast.Node) (llvm.Value, types.Kind, error) {
	switch n.Kind {
	case ast.KindNumber:
		return e.lowerNumber(n)
	case ast.KindChar:
		return llvm.ConstInt(e.Ctx.Int8Type(), uint64(n.CharValue), false), types.Char, nil
	case ast.KindString:
		return e.lowerStringLiteral(n.Text), types.String, nil
	case ast.KindSymbol:
		return e.lowerSymbol(n)
	case ast.KindList:
		return e.lowerList(n)
	case ast.KindLambda:
		return llvm.Value{}, types.Unknown, e.fail(n, "lambda may only appear as the value of a define")
	default:
		return llvm.Value{}, types.Unknown, e.fail(n, "unsupported expression form")
	}
}

func (e *Engine) lowerNumber(n *ast.Node) (llvm.Value, types.Kind, error) {
	kind := types.InferLiteral(n.NumberValue, n.NumberLexeme)
	if kind == types.Float {
		return llvm.ConstFloat(e.Ctx.DoubleType(), n.NumberValue), types.Float, nil
	}
	return llvm.ConstInt(e.Ctx.Int64Type(), uint64(int64(n.NumberValue)), true), kind, nil
}

func (e *Engine) lowerStringLiteral(s string) llvm.Value {
	name := e.freshGlobalName("str")
	return e.Builder.CreateGlobalStringPtr(s, name)
}

func (e *Engine) freshGlobalName(prefix string) string {
	e.strGlobalSeq++
	return prefix + "." + strconv.Itoa(e.strGlobalSeq)
}

// lowerSymbol loads a bound variable. An unbound symbol, or a symbol bound
// to something other than a variable (a builtin or user function
// referenced bare, outside of a define-aliasing context — see
// lowerFunctionAlias), is a fatal error naming the symbol's span.
func (e *Engine) lowerSymbol(n *ast.Node) (llvm.Value, types.Kind, error) {
	ent, ok := e.Cur.Lookup(n.Text)
	if !ok {
		return llvm.Value{}, types.Unknown, e.fail(n, "unbound symbol %q", n.Text)
	}
	if ent.Kind != env.Variable {
		return llvm.Value{}, types.Unknown, e.fail(n, "%q is a function, not a value", n.Text)
	}
	loaded := e.Builder.CreateLoad(ent.Storage, n.Text)
	return loaded, ent.VarType, nil
}

// lowerList dispatches a parenthesised form on its head symbol: the
// recognised special forms and arithmetic builtins, falling through to a
// user-function call.
func (e *Engine) lowerList(n *ast.Node) (llvm.Value, types.Kind, error) {
	head := n.HeadSymbol()
	if head == "" {
		return llvm.Value{}, types.Unknown, e.fail(n, "list head must be a symbol")
	}
	args := n.Items[1:]

	switch head {
	case "define":
		return e.lowerDefine(n, args)
	case "show":
		return e.lowerShow(n, args)
	case "quote":
		return e.lowerQuoteExpr(n, args)
	case "+", "-", "*", "/":
		return e.lowerArithmetic(n, head, args)
	case "lambda":
		return llvm.Value{}, types.Unknown, e.fail(n, "lambda may only appear as the value of a define")
	default:
		return e.lowerCall(n, head, args)
	}
}
