package codegen

import (
	"github.com/monad-lang/monad/internal/ast"
	"github.com/monad-lang/monad/internal/env"
	"github.com/monad-lang/monad/internal/types"
	"tinygo.org/x/go-llvm"
)

// lowerFunctionDefine lowers `(define name (lambda sig body))` — the shape
// the parser rewrites a `(define (name sig) body)` short form into — per
// §4.5. An unannotated parameter or return position defaults to Float,
// matching the type model's default-inference rule.
func (e *Engine) lowerFunctionDefine(n *ast.Node, target *ast.Node, lambda *ast.Node) (llvm.Value, types.Kind, error) {
	if target.Kind != ast.KindSymbol {
		return llvm.Value{}, types.Unknown, e.fail(n, "a function define's target must be a plain name")
	}
	name := target.Text

	params := make([]types.Param, len(lambda.Params))
	for i, p := range lambda.Params {
		k := types.Float
		if p.Type != "" {
			var ok bool
			k, ok = types.ParseAnnotation(p.Type)
			if !ok {
				return llvm.Value{}, types.Unknown, e.fail(n, "unknown type name %q in parameter %q", p.Type, p.Name)
			}
		}
		params[i] = types.Param{Name: p.Name, Kind: k}
	}

	retKind := types.Float
	if lambda.ReturnType != "" {
		var ok bool
		retKind, ok = types.ParseAnnotation(lambda.ReturnType)
		if !ok {
			return llvm.Value{}, types.Unknown, e.fail(n, "unknown return type name %q", lambda.ReturnType)
		}
	}

	paramTypes := make([]llvm.Type, len(params))
	for i, p := range params {
		paramTypes[i] = e.llvmType(p.Kind)
	}
	fnType := llvm.FunctionType(e.llvmType(retKind), paramTypes, false)
	fn := llvm.AddFunction(e.Mod, e.freshGlobalName("fn_"+name), fnType)

	// Insert the entry before lowering the body, so a recursive call inside
	// the body resolves.
	e.Cur.InsertFunction(name, params, retKind, fn, lambda.Doc)

	savedBlock := e.Builder.GetInsertBlock()
	savedEnv := e.Cur

	entry := e.Ctx.AddBasicBlock(fn, "entry")
	e.Builder.SetInsertPointAtEnd(entry)
	bodyEnv := env.NewChild(savedEnv)
	e.Cur = bodyEnv

	for i, p := range params {
		slot := e.Builder.CreateAlloca(e.llvmType(p.Kind), p.Name)
		e.Builder.CreateStore(fn.Param(i), slot)
		bodyEnv.InsertVariable(p.Name, p.Kind, slot)
	}

	bodyVal, bodyKind, err := e.lowerExpr(lambda.Body)
	if err != nil {
		e.Cur = savedEnv
		return llvm.Value{}, types.Unknown, err
	}
	coerced, err := e.coerce(bodyVal, bodyKind, retKind, "ret")
	if err != nil {
		e.Cur = savedEnv
		return llvm.Value{}, types.Unknown, e.fail(lambda.Body, "%v", err)
	}
	e.Builder.CreateRet(coerced)

	e.Cur = savedEnv
	if !savedBlock.IsNil() {
		e.Builder.SetInsertPointAtEnd(savedBlock)
	}

	return fn, types.Function, nil
}

// lowerCall lowers a call to a user-defined function: strict arity equality
// (§4.5's "calls require an exact argument count match"), per-argument
// lowering and coercion to the declared parameter kind, and a reported
// result Kind equal to the function's declared return type.
func (e *Engine) lowerCall(n *ast.Node, name string, args []*ast.Node) (llvm.Value, types.Kind, error) {
	ent, ok := e.Cur.Lookup(name)
	if !ok {
		return llvm.Value{}, types.Unknown, e.fail(n, "unbound symbol %q", name)
	}
	if ent.Kind == env.Variable {
		return llvm.Value{}, types.Unknown, e.fail(n, "%q is a variable, not a function", name)
	}
	if ent.Kind == env.Builtin {
		return llvm.Value{}, types.Unknown, e.fail(n, "%q is a builtin special form and cannot be called as a function here", name)
	}
	if err := ent.CheckArity(len(args)); err != nil {
		return llvm.Value{}, types.Unknown, e.fail(n, "%v", err)
	}

	argVals := make([]llvm.Value, len(args))
	for i, a := range args {
		val, kind, err := e.lowerExpr(a)
		if err != nil {
			return llvm.Value{}, types.Unknown, err
		}
		coerced, err := e.coerce(val, kind, ent.Params[i].Kind, ent.Params[i].Name)
		if err != nil {
			return llvm.Value{}, types.Unknown, e.fail(a, "argument %d to %q: %v", i+1, name, err)
		}
		argVals[i] = coerced
	}

	call := e.Builder.CreateCall(ent.Handle, argVals, "")
	return call, ent.Return, nil
}
