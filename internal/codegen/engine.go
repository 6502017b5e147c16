// Package codegen is Monad's typed-IR lowering engine: it walks each
// top-level form, resolves symbols against the lexically nested
// environment, and emits LLVM IR for arithmetic folds, `show` dispatch,
// `define`, and user function calls with automatic operand coercion.
//
// Grounded on the LLVM code generation style of
// other_examples/...hhramberg-go-vslc__src-ir-llvm-transform.go.go: one
// context/module/builder triple per compilation run, AddFunction/
// AddBasicBlock/CreateXxx IR construction, and a target-machine pipeline
// for the backend driver layered on top (see internal/backend).
package codegen

import (
	"fmt"

	"github.com/monad-lang/monad/internal/ast"
	"github.com/monad-lang/monad/internal/env"
	"github.com/monad-lang/monad/internal/reporter"
	"github.com/monad-lang/monad/internal/token"
	"github.com/monad-lang/monad/internal/types"
	"tinygo.org/x/go-llvm"
)

// Engine owns one IR module, its builder, a context handle, and the
// current environment frame. Format-string globals, the printf
// declaration and the __print_binary helper are memoised here so they are
// materialised at most once per module, per §4.5/§9.
type Engine struct {
	Ctx     llvm.Context
	Mod     llvm.Module
	Builder llvm.Builder
	Root    *env.Environment
	Cur     *env.Environment
	Rep     *reporter.Reporter

	// ReplMode switches variable storage from a function-local alloca to a
	// module-level global, so a top-level define's value survives across
	// the REPL's one-wrapper-function-per-line protocol (§4.7).
	ReplMode bool

	printfFn       llvm.Value
	printfSet      bool
	printBinaryFn  llvm.Value
	printBinarySet bool
	fmtGlobals     map[string]llvm.Value
	strGlobalSeq   int
}

// New constructs an Engine with a fresh context and module, and a root
// environment pre-populated with Monad's builtin forms.
func New(moduleName string, rep *reporter.Reporter) *Engine {
	ctx := llvm.NewContext()
	mod := ctx.NewModule(moduleName)
	builder := ctx.NewBuilder()

	root := env.New()
	registerBuiltins(root)

	e := &Engine{
		Ctx:        ctx,
		Mod:        mod,
		Builder:    builder,
		Root:       root,
		Cur:        root,
		Rep:        rep,
		fmtGlobals: make(map[string]llvm.Value),
	}
	return e
}

// Dispose releases the context and builder. The module is not disposed
// here: in the REPL the execution engine owns and disposes it, and
// internal/backend does not dispose it.
func (e *Engine) Dispose() {
	e.Builder.Dispose()
	e.Ctx.Dispose()
}

// registerBuiltins pre-registers the builtin forms with their arity
// bounds, per §4.7. lowerList dispatches these forms on their head symbol
// without consulting these entries, so their arity bounds are not checked
// during lowering; a bare reference to one is rejected as not a value.
func registerBuiltins(root *env.Environment) {
	root.InsertBuiltin("+", 1, -1)
	root.InsertBuiltin("-", 1, -1)
	root.InsertBuiltin("*", 1, -1)
	root.InsertBuiltin("/", 1, -1)
	root.InsertBuiltin("show", 1, 1)
	root.InsertBuiltin("quote", 1, 1)
	root.InsertBuiltin("define", 2, 3)
}

// llvmType maps a Kind to its LLVM representation. Hex/Bin/Oct share
// Int64Type with Int: spec.md is explicit that "all integer kinds share
// the same 64-bit representation", so no mixed-width conversions arise.
func (e *Engine) llvmType(k types.Kind) llvm.Type {
	switch k {
	case types.Int, types.Hex, types.Bin, types.Oct:
		return e.Ctx.Int64Type()
	case types.Float:
		return e.Ctx.DoubleType()
	case types.Char:
		return e.Ctx.Int8Type()
	case types.String:
		return llvm.PointerType(e.Ctx.Int8Type(), 0)
	case types.Bool:
		return e.Ctx.Int1Type()
	default:
		return e.Ctx.Int64Type()
	}
}

// LowerProgram lowers every top-level form of a batch compilation into a
// single synthesised `main` function: top-level `define` storage is a
// stack slot in that function per §4.5, and top-level side effects (show
// prints, define stores) execute in source order per §5.
func (e *Engine) LowerProgram(forms []*ast.Node) error {
	i32 := e.Ctx.Int32Type()
	mainType := llvm.FunctionType(i32, nil, false)
	mainFn := llvm.AddFunction(e.Mod, "main", mainType)
	entry := e.Ctx.AddBasicBlock(mainFn, "entry")
	e.Builder.SetInsertPointAtEnd(entry)

	for _, form := range forms {
		if _, _, err := e.lowerTopLevel(form); err != nil {
			return err
		}
	}

	e.Builder.CreateRet(llvm.ConstInt(i32, 0, false))
	return nil
}

// lowerTopLevel lowers one top-level form of a batch compilation for its
// side effects, returning the value/kind it produced. The REPL's
// wrapper-per-line path uses LowerForLine instead.
func (e *Engine) lowerTopLevel(form *ast.Node) (llvm.Value, types.Kind, error) {
	return e.lowerExpr(form)
}

// LowerForLine lowers a single top-level form for the REPL's
// wrapper-per-line protocol, returning the value and Kind it produced so
// the caller can decide whether to append an implicit result print.
func (e *Engine) LowerForLine(form *ast.Node) (llvm.Value, types.Kind, error) {
	return e.lowerExpr(form)
}

// EmitResultPrint prints val per kind, the same dispatch `show` uses,
// for the REPL's implicit print of a non-define/show line's result.
func (e *Engine) EmitResultPrint(val llvm.Value, kind types.Kind) {
	e.emitShowValue(val, kind)
}

func (e *Engine) fail(n *ast.Node, format string, args ...any) error {
	pos := token.Position{Line: n.Span.StartLine, Column: n.Span.StartCol}
	return e.Rep.FailRange(pos, n.Span.EndCol, format, args...)
}
