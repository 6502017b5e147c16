package env

import (
	"testing"

	"github.com/monad-lang/monad/internal/types"
	"tinygo.org/x/go-llvm"
)

func TestInsertReplaceSemantics(t *testing.T) {
	e := New()
	e.InsertVariable("x", types.Int, llvm.Value{})
	sizeAfterFirst := len(e.store)

	e.InsertVariable("x", types.Float, llvm.Value{})
	sizeAfterSecond := len(e.store)

	if sizeAfterFirst != sizeAfterSecond {
		t.Fatalf("size changed between inserts: %d -> %d", sizeAfterFirst, sizeAfterSecond)
	}

	ent, ok := e.Lookup("x")
	if !ok {
		t.Fatal("lookup(x) failed")
	}
	if ent.VarType != types.Float {
		t.Errorf("VarType = %v, want Float (second insert should win)", ent.VarType)
	}
}

func TestLookupInnermostFirst(t *testing.T) {
	outer := New()
	outer.InsertVariable("x", types.Int, llvm.Value{})

	inner := NewChild(outer)
	inner.InsertVariable("x", types.Float, llvm.Value{})

	ent, ok := inner.Lookup("x")
	if !ok || ent.VarType != types.Float {
		t.Fatalf("inner lookup = %#v, %v, want Float entry", ent, ok)
	}

	outerEnt, ok := outer.Lookup("x")
	if !ok || outerEnt.VarType != types.Int {
		t.Fatalf("outer lookup = %#v, %v, want unchanged Int entry", outerEnt, ok)
	}
}

func TestChildScopeDoesNotLeakToParent(t *testing.T) {
	outer := New()
	inner := NewChild(outer)
	inner.InsertVariable("local", types.Int, llvm.Value{})

	if _, ok := outer.Lookup("local"); ok {
		t.Fatal("binding defined in child scope leaked into parent")
	}
}

func TestCheckArity(t *testing.T) {
	e := New()
	e.InsertBuiltin("+", 1, -1)
	ent, _ := e.Lookup("+")

	if err := ent.CheckArity(0); err == nil {
		t.Error("expected arity error for 0 arguments")
	}
	if err := ent.CheckArity(1); err != nil {
		t.Errorf("unexpected arity error: %v", err)
	}
	if err := ent.CheckArity(10); err != nil {
		t.Errorf("unbounded max arity should accept 10 args: %v", err)
	}
}

func TestUserFunctionArityFixed(t *testing.T) {
	e := New()
	params := []types.Param{{Name: "x", Kind: types.Int}}
	e.InsertFunction("sq", params, types.Int, llvm.Value{}, "")
	ent, _ := e.Lookup("sq")

	if ent.MinArity != 1 || ent.MaxArity != 1 {
		t.Errorf("arity = [%d,%d], want [1,1]", ent.MinArity, ent.MaxArity)
	}
	if err := ent.CheckArity(2); err == nil {
		t.Error("expected arity error for too many arguments")
	}
}
