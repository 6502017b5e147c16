// Package repl implements Monad's interactive evaluator: the
// wrapper-per-line protocol of §4.7. Each accepted line is lowered into a
// uniquely named void function appended to one persistent, live module,
// then JIT-invoked through an MCJIT execution engine. Defined names become
// module-global storage (via codegen.Engine.ReplMode) so a later line sees
// an earlier line's bindings.
package repl

import (
	"fmt"

	"github.com/monad-lang/monad/internal/ast"
	"github.com/monad-lang/monad/internal/codegen"
	"github.com/monad-lang/monad/internal/parser"
	"github.com/monad-lang/monad/internal/reporter"
	"tinygo.org/x/go-llvm"
)

// LineReader supplies one line of input at a time. It returns ok=false at
// end of input, which is the REPL's only cancellation signal (§4.7).
type LineReader func() (line string, ok bool)

// REPL owns one live module, its lowering engine, and its execution
// engine. Both survive across every accepted line.
type REPL struct {
	engine  *codegen.Engine
	execEng llvm.ExecutionEngine
	seq     int
}

func init() {
	llvm.LinkInMCJIT()
	llvm.InitializeNativeTarget()
	llvm.InitializeNativeAsmPrinter()
}

// New constructs a REPL with a fresh live module and its MCJIT execution
// engine.
func New() (*REPL, error) {
	rep := reporter.New("<repl>", "")
	e := codegen.New("repl", rep)
	e.ReplMode = true

	opts := llvm.NewMCJITCompilerOptions()
	opts.SetMCJITOptimizationLevel(0)
	ee, err := llvm.NewMCJITCompiler(e.Mod, opts)
	if err != nil {
		return nil, fmt.Errorf("creating execution engine: %w", err)
	}

	return &REPL{engine: e, execEng: ee}, nil
}

// Dispose releases the execution engine (which owns the module) and the
// lowering engine's context and builder.
func (r *REPL) Dispose() {
	r.execEng.Dispose()
	r.engine.Dispose()
}

// Run drives the read-eval loop until read returns ok=false, printing any
// per-line error to report via the caller-supplied sink rather than
// aborting the whole session: one bad line does not end the REPL.
func (r *REPL) Run(read LineReader, report func(error)) {
	for {
		line, ok := read()
		if !ok {
			return
		}
		if isBlank(line) {
			continue
		}
		if err := r.Eval(line); err != nil {
			report(err)
		}
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// Eval parses one line, lowers it into a freshly wrapped void function, and
// invokes it immediately. On verification failure, the unfinished wrapper
// is deleted from the module before returning, per §4.7's transactional
// wrapper guarantee — a bad line never leaves dangling IR behind for the
// next line to trip over.
func (r *REPL) Eval(line string) error {
	rep := reporter.New("<repl>", line)
	r.engine.Rep = rep

	form, err := parser.ParseOne(line, rep)
	if err != nil {
		return err
	}

	r.seq++
	wrapperName := fmt.Sprintf("__line_%d", r.seq)
	voidType := r.engine.Ctx.VoidType()
	fnType := llvm.FunctionType(voidType, nil, false)
	fn := llvm.AddFunction(r.engine.Mod, wrapperName, fnType)
	entry := r.engine.Ctx.AddBasicBlock(fn, "entry")
	r.engine.Builder.SetInsertPointAtEnd(entry)

	val, kind, lowerErr := r.engine.LowerForLine(form)
	if lowerErr != nil {
		fn.EraseFromParentAsFunction()
		return lowerErr
	}

	if !isDefineOrShow(form) {
		r.engine.EmitResultPrint(val, kind)
	}
	r.engine.Builder.CreateRetVoid()

	if err := llvm.VerifyFunction(fn, llvm.PrintMessageAction); err != nil {
		fn.EraseFromParentAsFunction()
		return fmt.Errorf("line %d: verification failed: %w", r.seq, err)
	}

	r.execEng.RunFunction(fn, nil)
	return nil
}

func isDefineOrShow(n *ast.Node) bool {
	head := n.HeadSymbol()
	return head == "define" || head == "show"
}
