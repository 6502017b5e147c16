package codegen

import (
	"github.com/monad-lang/monad/internal/types"
	"tinygo.org/x/go-llvm"
)

// coerce converts val from one Kind's representation to another's,
// following §4.3's conversion rules: Char extends to the 64-bit integer
// representation before any further step; integer-to-float uses
// signed-integer-to-float; Hex/Bin/Oct/Int share one 64-bit representation
// so converting among them is a no-op retag, never a bitcast.
func (e *Engine) coerce(val llvm.Value, from, to types.Kind, name string) (llvm.Value, error) {
	if from == to {
		return val, nil
	}
	if isIntFamily(from) && isIntFamily(to) {
		return val, nil // same 64-bit representation, only the Kind tag differs
	}
	switch {
	case from == types.Char && isIntFamily(to):
		return e.Builder.CreateSExt(val, e.Ctx.Int64Type(), name), nil
	case isIntFamily(from) && to == types.Char:
		return e.Builder.CreateTrunc(val, e.Ctx.Int8Type(), name), nil
	case isIntFamily(from) && to == types.Float:
		return e.Builder.CreateSIToFP(val, e.Ctx.DoubleType(), name), nil
	case from == types.Float && isIntFamily(to):
		return e.Builder.CreateFPToSI(val, e.Ctx.Int64Type(), name), nil
	case from == types.Char && to == types.Float:
		widened := e.Builder.CreateSExt(val, e.Ctx.Int64Type(), name)
		return e.Builder.CreateSIToFP(widened, e.Ctx.DoubleType(), name), nil
	case from == types.Float && to == types.Char:
		asInt := e.Builder.CreateFPToSI(val, e.Ctx.Int64Type(), name)
		return e.Builder.CreateTrunc(asInt, e.Ctx.Int8Type(), name), nil
	default:
		return llvm.Value{}, errCoerce(from, to)
	}
}

func isIntFamily(k types.Kind) bool {
	switch k {
	case types.Int, types.Hex, types.Bin, types.Oct:
		return true
	default:
		return false
	}
}

func errCoerce(from, to types.Kind) error {
	return coerceError{from: from, to: to}
}

type coerceError struct{ from, to types.Kind }

func (c coerceError) Error() string {
	return "cannot coerce " + c.from.String() + " to " + c.to.String()
}
