package codegen

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/monad-lang/monad/internal/parser"
	"github.com/monad-lang/monad/internal/reporter"
)

// compileModule parses and lowers every form in source into a fresh batch
// module, returning its textual IR. Mirrors §8's testable properties,
// asserted here against the engine's IR output rather than against JIT
// execution, since running compiled code is outside a Go test's reach.
func compileModule(t *testing.T, source string) string {
	t.Helper()
	rep := reporter.New("test.mo", source)
	forms, err := parser.ParseAll(source, rep)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	e := New("test", rep)
	defer e.Dispose()

	if err := e.LowerProgram(forms); err != nil {
		t.Fatalf("lower error: %v", err)
	}
	return e.Mod.String()
}

func compileModuleErr(t *testing.T, source string) error {
	t.Helper()
	rep := reporter.New("test.mo", source)
	forms, err := parser.ParseAll(source, rep)
	if err != nil {
		return err
	}
	e := New("test", rep)
	defer e.Dispose()
	return e.LowerProgram(forms)
}

func TestArithmeticFold(t *testing.T) {
	ir := compileModule(t, `(show (+ 1 2 3))`)
	if !strings.Contains(ir, "add i64") {
		t.Errorf("expected an integer add instruction in IR, got:\n%s", ir)
	}
	snaps.MatchSnapshot(t, ir)
}

func TestDefineHexRoundTrip(t *testing.T) {
	ir := compileModule(t, `(define x 0xFF) (show x)`)
	if !strings.Contains(ir, "0x%lX") {
		t.Errorf("expected the hex format string in IR, got:\n%s", ir)
	}
}

func TestDefineFloatAnnotationCoercesIntOperand(t *testing.T) {
	ir := compileModule(t, `(define [y :: Float] 3) (show (+ y 1))`)
	if !strings.Contains(ir, "sitofp") {
		t.Errorf("expected an int-to-float coercion in IR, got:\n%s", ir)
	}
}

func TestFunctionDefineAndCall(t *testing.T) {
	ir := compileModule(t, `(define (sq [x :: Int] -> Int) (* x x)) (show (sq 5))`)
	if !strings.Contains(ir, "call i64") {
		t.Errorf("expected a call instruction in IR, got:\n%s", ir)
	}
}

func TestQuoteStructuralPrint(t *testing.T) {
	ir := compileModule(t, `(show '(a 1 "b"))`)
	if !strings.Contains(ir, `(a 1 \22b\22)`) && !strings.Contains(ir, `(a 1 "b")`) {
		t.Errorf("expected the rendered quoted form as a string constant in IR, got:\n%s", ir)
	}
}

func TestMixedBaseArithmeticIsFatal(t *testing.T) {
	err := compileModuleErr(t, `(show (+ 0xFF 0b10))`)
	if err == nil {
		t.Fatal("expected a fatal error mixing Hex and Bin in one arithmetic form")
	}
	if !strings.Contains(err.Error(), "mix") {
		t.Errorf("expected a mixed-base error message, got: %v", err)
	}
}

func TestUnboundSymbolIsFatal(t *testing.T) {
	err := compileModuleErr(t, `(show nope)`)
	if err == nil {
		t.Fatal("expected a fatal error for an unbound symbol")
	}
	if !strings.Contains(err.Error(), "unbound symbol") {
		t.Errorf("expected an unbound-symbol message, got: %v", err)
	}
}

func TestCallArityMismatchIsFatal(t *testing.T) {
	err := compileModuleErr(t, `(define (sq [x :: Int] -> Int) (* x x)) (show (sq 1 2))`)
	if err == nil {
		t.Fatal("expected a fatal error for an arity mismatch")
	}
}

func TestBinaryShowUsesPrintBinaryHelper(t *testing.T) {
	ir := compileModule(t, `(define b 0b101) (show b)`)
	if !strings.Contains(ir, "__print_binary") {
		t.Errorf("expected a call into __print_binary, got:\n%s", ir)
	}
	if !strings.Contains(ir, "store i8 48,") || !strings.Contains(ir, "store i8 98,") {
		t.Errorf("expected stores of '0' (48) and 'b' (98) prefix bytes into the binary buffer, got:\n%s", ir)
	}
	if !strings.Contains(ir, "0b0") {
		t.Errorf("expected the zero-case format string to read \"0b0\\n\", got:\n%s", ir)
	}
}

func TestUnaryReciprocal(t *testing.T) {
	ir := compileModule(t, `(show (/ 4))`)
	if !strings.Contains(ir, "fdiv") {
		t.Errorf("expected a floating reciprocal division, got:\n%s", ir)
	}
}
