package codegen

import (
	"github.com/monad-lang/monad/internal/ast"
	"github.com/monad-lang/monad/internal/env"
	"github.com/monad-lang/monad/internal/types"
	"tinygo.org/x/go-llvm"
)

// lowerDefine implements the `define` binding form of §4.5: a plain
// variable binding with optional explicit annotation, or a function
// binding when the value is a lambda (short-form define has already been
// rewritten into this shape by the parser).
func (e *Engine) lowerDefine(n *ast.Node, args []*ast.Node) (llvm.Value, types.Kind, error) {
	if len(args) < 2 {
		return llvm.Value{}, types.Unknown, e.fail(n, "define expects a name and a value, got %d argument(s)", len(args))
	}

	target := args[0]
	valueNode := args[1]

	if valueNode.Kind == ast.KindLambda {
		return e.lowerFunctionDefine(n, target, valueNode)
	}

	// Open Question (spec.md §9): a define whose value is a bare symbol
	// naming a function is treated here as binding a first-class handle to
	// that function under the new name, rather than attempting to load it
	// as a variable (which would fail — function entries carry no
	// Storage). This is Monad's resolution, recorded in DESIGN.md.
	if valueNode.Kind == ast.KindSymbol {
		if ent, ok := e.Cur.Lookup(valueNode.Text); ok && ent.Kind == env.UserFunction {
			return e.lowerFunctionAlias(target, ent)
		}
	}

	declaredName, declaredType, hasAnnotation, err := e.parseDefineTarget(target)
	if err != nil {
		return llvm.Value{}, types.Unknown, err
	}

	val, valKind, err := e.lowerExpr(valueNode)
	if err != nil {
		return llvm.Value{}, types.Unknown, err
	}

	storageType := valKind
	if hasAnnotation {
		storageType = declaredType
		val, err = e.coerce(val, valKind, declaredType, declaredName)
		if err != nil {
			return llvm.Value{}, types.Unknown, e.fail(n, "%v", err)
		}
	}

	storage := e.allocateStorage(declaredName, storageType)
	e.Builder.CreateStore(val, storage)
	e.Cur.InsertVariable(declaredName, storageType, storage)

	return val, storageType, nil
}

// lowerFunctionAlias binds name to the same llvm.Value handle as an
// existing user function, per the Open Question resolution above.
func (e *Engine) lowerFunctionAlias(target *ast.Node, fn *env.Entry) (llvm.Value, types.Kind, error) {
	name := target.Text
	if target.Kind == ast.KindList { // [name :: T] form is not meaningful for a function alias
		name = target.Items[0].Text
	}
	e.Cur.InsertFunction(name, fn.Params, fn.Return, fn.Handle, fn.Doc)
	return fn.Handle, types.Function, nil
}

// parseDefineTarget reads the binding target, either a bare symbol or a
// `[name :: T]` annotation list.
func (e *Engine) parseDefineTarget(target *ast.Node) (name string, declared types.Kind, hasAnnotation bool, err error) {
	if target.Kind == ast.KindSymbol {
		return target.Text, types.Unknown, false, nil
	}
	if target.Kind != ast.KindList || len(target.Items) == 0 {
		return "", types.Unknown, false, e.fail(target, "malformed define target")
	}
	nameNode := target.Items[0]
	if nameNode.Kind != ast.KindSymbol {
		return "", types.Unknown, false, e.fail(target, "malformed type annotation: expected a name")
	}
	typeName, ok := findAnnotationType(target.Items)
	if !ok {
		return "", types.Unknown, false, e.fail(target, "malformed type annotation: expected '::' and a type name")
	}
	k, ok := types.ParseAnnotation(typeName)
	if !ok {
		return "", types.Unknown, false, e.fail(target, "unknown type name %q in annotation", typeName)
	}
	return nameNode.Text, k, true, nil
}

// findAnnotationType scans a bracket-list's children for a `::` symbol,
// per §4.3, returning the following symbol's name.
func findAnnotationType(items []*ast.Node) (string, bool) {
	for i, it := range items {
		if it.Kind == ast.KindSymbol && it.Text == "::" && i+1 < len(items) {
			return items[i+1].Text, true
		}
	}
	return "", false
}

// allocateStorage creates storage for a variable: a module global with a
// null initialiser in REPL mode (so its address survives across wrapper
// functions), or a stack slot (alloca) in batch compilation. Both share
// the same call site here; see Engine.ReplMode.
func (e *Engine) allocateStorage(name string, kind types.Kind) llvm.Value {
	ty := e.llvmType(kind)
	if e.ReplMode {
		g := llvm.AddGlobal(e.Mod, ty, e.freshGlobalName("g_"+name))
		g.SetInitializer(llvm.ConstNull(ty))
		g.SetLinkage(llvm.InternalLinkage)
		return g
	}
	return e.Builder.CreateAlloca(ty, name)
}

// lowerShow implements the `show` special form of §4.5: exactly one
// argument, dispatched by its AST shape, always returning a dummy Float
// zero per spec.md's description of show's return value.
func (e *Engine) lowerShow(n *ast.Node, args []*ast.Node) (llvm.Value, types.Kind, error) {
	if len(args) != 1 {
		return llvm.Value{}, types.Unknown, e.fail(n, "show expects 1 argument, got %d", len(args))
	}
	arg := args[0]

	switch {
	case arg.Kind == ast.KindList && arg.HeadSymbol() == "quote":
		e.emitPrintString(arg.Items[1].String())
	case arg.Kind == ast.KindString:
		e.emitPrintf(e.fmtString(), []llvm.Value{e.lowerStringLiteral(arg.Text)})
	case arg.Kind == ast.KindChar:
		e.emitPrintf(e.fmtChar(), []llvm.Value{llvm.ConstInt(e.Ctx.Int8Type(), uint64(arg.CharValue), false)})
	case arg.Kind == ast.KindSymbol:
		if err := e.showSymbol(arg); err != nil {
			return llvm.Value{}, types.Unknown, err
		}
	default:
		val, kind, err := e.lowerExpr(arg)
		if err != nil {
			return llvm.Value{}, types.Unknown, err
		}
		e.emitShowValue(val, kind)
	}

	return llvm.ConstFloat(e.Ctx.DoubleType(), 0), types.Float, nil
}

func (e *Engine) showSymbol(arg *ast.Node) error {
	ent, ok := e.Cur.Lookup(arg.Text)
	if !ok {
		return e.fail(arg, "unbound symbol %q", arg.Text)
	}
	if ent.Kind != env.Variable {
		return e.fail(arg, "%q is a function, not a value", arg.Text)
	}
	loaded := e.Builder.CreateLoad(ent.Storage, arg.Text)
	e.emitShowValue(loaded, ent.VarType)
	return nil
}

// emitShowValue prints val according to kind, dispatching to the
// dedicated Hex/Bin/Oct/Char/String/Float/Int formatter.
func (e *Engine) emitShowValue(val llvm.Value, kind types.Kind) {
	switch kind {
	case types.Hex:
		e.emitPrintf(e.fmtHex(), []llvm.Value{val})
	case types.Oct:
		e.emitPrintf(e.fmtOct(), []llvm.Value{val})
	case types.Bin:
		e.emitCallPrintBinary(val)
	case types.Char:
		e.emitPrintf(e.fmtChar(), []llvm.Value{val})
	case types.String:
		e.emitPrintf(e.fmtString(), []llvm.Value{val})
	case types.Float:
		e.emitPrintf(e.fmtFloat(), []llvm.Value{val})
	default:
		e.emitPrintf(e.fmtInt(), []llvm.Value{val})
	}
}

func (e *Engine) emitPrintString(s string) {
	e.emitPrintf(e.fmtString(), []llvm.Value{e.lowerStringLiteral(s)})
}

// lowerQuoteExpr implements `quote` in expression position: the quoted
// payload is rendered by the same structural printer ast.Node.String()
// uses, matching §4.5's structural-printer contract, and lowered to a
// single precomputed string constant; nothing is printed here (§9's Design Note on quoted-
// expression printing: the whole payload is literal data known at lowering
// time, so there is nothing to walk at runtime).
func (e *Engine) lowerQuoteExpr(n *ast.Node, args []*ast.Node) (llvm.Value, types.Kind, error) {
	if len(args) != 1 {
		return llvm.Value{}, types.Unknown, e.fail(n, "quote expects 1 argument, got %d", len(args))
	}
	rendered := args[0].String()
	return e.lowerStringLiteral(rendered), types.String, nil
}
