// Package env implements Monad's environment: a scoped name-to-entry
// mapping used both by the batch compiler (a stack of environments, with
// function bodies lowered under a nested child environment whose bindings
// vanish on exit) and by the REPL (a single persistent environment that
// survives across inputs).
//
// Design Note 1 of spec.md replaces the source's mutable linked-list
// entries with an owned map from name to a tagged entry value; rebinding
// replaces in place and shadowing across nested scopes uses a stack of
// maps rather than back-pointers. Environment follows the teacher's
// runtime.Environment shape (store map + outer pointer) for exactly that
// reason.
package env

import (
	"fmt"

	"github.com/monad-lang/monad/internal/types"
	"tinygo.org/x/go-llvm"
)

// EntryKind classifies what an Entry's value representation means.
type EntryKind int

const (
	Variable EntryKind = iota
	Builtin
	UserFunction
)

// Entry is a single binding. Only the fields relevant to Kind are
// meaningful: Variable entries use VarType/Storage, Builtin and
// UserFunction entries use Params/Return/MinArity/MaxArity, and
// UserFunction additionally uses Handle.
type Entry struct {
	Name string
	Kind EntryKind

	// Variable
	VarType types.Kind
	Storage llvm.Value // alloca (batch) or module global (REPL)

	// Builtin, UserFunction
	Params   []types.Param
	Return   types.Kind
	MinArity int
	MaxArity int // -1 = unbounded
	Doc      string

	// UserFunction
	Handle llvm.Value // the defined llvm.Function
}

// Environment is a single scope frame: an owned map of bindings plus a
// pointer to the enclosing frame. Lookup proceeds innermost-first;
// Insert* never reaches past the current frame, so a nested define can
// never clobber a shadowed outer binding.
type Environment struct {
	store map[string]*Entry
	outer *Environment
}

// New creates a root environment with no enclosing scope. The REPL and the
// compiler's top level both start here.
func New() *Environment {
	return &Environment{store: make(map[string]*Entry)}
}

// NewChild creates a scope nested under e, used for a function body. Its
// bindings are discarded (simply dropped, per spec.md's Lifecycle note)
// when the caller stops referencing it after lowering the body.
func NewChild(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*Entry), outer: outer}
}

// Lookup searches innermost-first, falling through to enclosing scopes.
func (e *Environment) Lookup(name string) (*Entry, bool) {
	if ent, ok := e.store[name]; ok {
		return ent, true
	}
	if e.outer != nil {
		return e.outer.Lookup(name)
	}
	return nil, false
}

// InsertVariable creates or replaces a variable entry in the current frame.
func (e *Environment) InsertVariable(name string, kind types.Kind, storage llvm.Value) *Entry {
	ent := &Entry{Name: name, Kind: Variable, VarType: kind, Storage: storage, MinArity: -1, MaxArity: -1}
	e.store[name] = ent
	return ent
}

// InsertBuiltin creates or replaces a builtin entry in the current frame.
func (e *Environment) InsertBuiltin(name string, minArity, maxArity int) *Entry {
	ent := &Entry{Name: name, Kind: Builtin, MinArity: minArity, MaxArity: maxArity}
	e.store[name] = ent
	return ent
}

// InsertFunction creates or replaces a user-function entry. Arity is fixed
// at len(params), per spec.md's environment-entry invariant.
func (e *Environment) InsertFunction(name string, params []types.Param, ret types.Kind, handle llvm.Value, doc string) *Entry {
	ent := &Entry{
		Name:     name,
		Kind:     UserFunction,
		Params:   params,
		Return:   ret,
		Handle:   handle,
		Doc:      doc,
		MinArity: len(params),
		MaxArity: len(params),
	}
	e.store[name] = ent
	return ent
}

// FuncType renders e's function-shaped fields into a types.FuncType.
// show does not print function entries: it rejects a symbol bound to one.
func (e *Entry) FuncType() types.FuncType {
	return types.FuncType{Params: e.Params, Return: e.Return}
}

// CheckArity validates n actual arguments against e's declared arity
// bounds, returning a descriptive error on mismatch.
func (e *Entry) CheckArity(n int) error {
	if n < e.MinArity {
		return fmt.Errorf("%q expects at least %d argument(s), got %d", e.Name, e.MinArity, n)
	}
	if e.MaxArity != -1 && n > e.MaxArity {
		return fmt.Errorf("%q expects at most %d argument(s), got %d", e.Name, e.MaxArity, n)
	}
	return nil
}
