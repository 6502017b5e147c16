package codegen

import (
	"github.com/monad-lang/monad/internal/ast"
	"github.com/monad-lang/monad/internal/types"
	"tinygo.org/x/go-llvm"
)

// lowerArithmetic implements the `+ - * /` builtins of §4.5: at least one
// argument is required; the first operand's type seeds the running result
// type; a unary `-` negates and a unary `/` computes a reciprocal;
// subsequent operands fold left under §4.3's promotion rule, with
// coercion instructions bringing both sides to the promoted kind before
// the chosen instruction form.
func (e *Engine) lowerArithmetic(n *ast.Node, op string, args []*ast.Node) (llvm.Value, types.Kind, error) {
	if len(args) == 0 {
		return llvm.Value{}, types.Unknown, e.fail(n, "%q expects at least 1 argument, got 0", op)
	}

	firstVal, firstKind, err := e.lowerExpr(args[0])
	if err != nil {
		return llvm.Value{}, types.Unknown, err
	}

	if len(args) == 1 {
		return e.lowerUnary(n, op, firstVal, firstKind)
	}

	accVal, accKind := firstVal, firstKind
	for _, arg := range args[1:] {
		rhsVal, rhsKind, err := e.lowerExpr(arg)
		if err != nil {
			return llvm.Value{}, types.Unknown, err
		}
		resultKind, err := types.Promote(accKind, rhsKind)
		if err != nil {
			return llvm.Value{}, types.Unknown, e.fail(n, "%v", err)
		}
		lhsCoerced, err := e.coerce(accVal, accKind, resultKind, "lhs")
		if err != nil {
			return llvm.Value{}, types.Unknown, e.fail(n, "%v", err)
		}
		rhsCoerced, err := e.coerce(rhsVal, rhsKind, resultKind, "rhs")
		if err != nil {
			return llvm.Value{}, types.Unknown, e.fail(n, "%v", err)
		}
		accVal = e.emitBinOp(op, lhsCoerced, rhsCoerced, resultKind)
		accKind = resultKind
	}
	return accVal, accKind, nil
}

func (e *Engine) emitBinOp(op string, lhs, rhs llvm.Value, kind types.Kind) llvm.Value {
	if kind == types.Float {
		switch op {
		case "+":
			return e.Builder.CreateFAdd(lhs, rhs, "")
		case "-":
			return e.Builder.CreateFSub(lhs, rhs, "")
		case "*":
			return e.Builder.CreateFMul(lhs, rhs, "")
		case "/":
			return e.Builder.CreateFDiv(lhs, rhs, "")
		}
	}
	switch op {
	case "+":
		return e.Builder.CreateAdd(lhs, rhs, "")
	case "-":
		return e.Builder.CreateSub(lhs, rhs, "")
	case "*":
		return e.Builder.CreateMul(lhs, rhs, "")
	case "/":
		return e.Builder.CreateSDiv(lhs, rhs, "")
	}
	panic("unreachable: unknown arithmetic op " + op)
}

// lowerUnary handles `(- x)` and `(/ x)`: unary minus negates (floating
// negation, or the integer form `0 - x`); unary slash computes a
// reciprocal, promoting any integer kind to Float first.
func (e *Engine) lowerUnary(n *ast.Node, op string, val llvm.Value, kind types.Kind) (llvm.Value, types.Kind, error) {
	switch op {
	case "-":
		if kind == types.Float {
			return e.Builder.CreateFNeg(val, ""), types.Float, nil
		}
		resultKind := intRepresentationOf(kind)
		zero := llvm.ConstInt(e.Ctx.Int64Type(), 0, true)
		widened, err := e.coerce(val, kind, resultKind, "")
		if err != nil {
			return llvm.Value{}, types.Unknown, e.fail(n, "%v", err)
		}
		return e.Builder.CreateSub(zero, widened, ""), resultKind, nil
	case "/":
		asFloat, err := e.coerce(val, kind, types.Float, "")
		if err != nil {
			return llvm.Value{}, types.Unknown, e.fail(n, "%v", err)
		}
		one := llvm.ConstFloat(e.Ctx.DoubleType(), 1.0)
		return e.Builder.CreateFDiv(one, asFloat, ""), types.Float, nil
	default:
		return llvm.Value{}, types.Unknown, e.fail(n, "%q is not a valid unary operator", op)
	}
}

// intRepresentationOf maps Char to Int, the kind of the shared 64-bit
// representation; Int, Hex, Bin and Oct are returned unchanged.
func intRepresentationOf(k types.Kind) types.Kind {
	if k == types.Char {
		return types.Int
	}
	return k
}
