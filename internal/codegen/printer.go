package codegen

import "tinygo.org/x/go-llvm"

// fmtString through fmtOct return the format-string global for each show
// destination kind, materialising it once per module on first use (§4.5/§9):
// a memoised global keeps a module with a thousand shows from emitting a
// thousand identical string constants.
func (e *Engine) fmtString() llvm.Value { return e.cachedFormat("fmt.s", "%s\n") }
func (e *Engine) fmtChar() llvm.Value   { return e.cachedFormat("fmt.c", "%c\n") }
func (e *Engine) fmtInt() llvm.Value    { return e.cachedFormat("fmt.d", "%ld\n") }
func (e *Engine) fmtFloat() llvm.Value  { return e.cachedFormat("fmt.g", "%g\n") }
func (e *Engine) fmtHex() llvm.Value    { return e.cachedFormat("fmt.hex", "0x%lX\n") }
func (e *Engine) fmtOct() llvm.Value    { return e.cachedFormat("fmt.oct", "0o%lo\n") }

func (e *Engine) cachedFormat(cacheKey, literal string) llvm.Value {
	if g, ok := e.fmtGlobals[cacheKey]; ok {
		return g
	}
	g := e.Builder.CreateGlobalStringPtr(literal, cacheKey)
	e.fmtGlobals[cacheKey] = g
	return g
}

// printfDecl returns the module's `printf` declaration, declaring it the
// first time it's needed as a variadic external function.
func (e *Engine) printfDecl() llvm.Value {
	if e.printfSet {
		return e.printfFn
	}
	charPtr := llvm.PointerType(e.Ctx.Int8Type(), 0)
	fnType := llvm.FunctionType(e.Ctx.Int32Type(), []llvm.Type{charPtr}, true)
	e.printfFn = llvm.AddFunction(e.Mod, "printf", fnType)
	e.printfSet = true
	return e.printfFn
}

// emitPrintf emits a call to printf with fmtGlobal as the format argument followed
// by args.
func (e *Engine) emitPrintf(fmtGlobal llvm.Value, args []llvm.Value) llvm.Value {
	callArgs := append([]llvm.Value{fmtGlobal}, args...)
	return e.Builder.CreateCall(e.printfDecl(), callArgs, "")
}

// binDigitSlots is the number of buffer slots reserved for binary digits: a
// 64-bit value has at most 64 binary digits.
const binDigitSlots = 64

// printBinaryDecl returns the module's `__print_binary` helper, defining it
// the first time it's needed. It prints an Int64 value as an unsigned
// binary literal prefixed `0b`, with no leading zeros past the prefix,
// printing `0b0` for a zero input, per §4.5/§9 ("a hand-rolled
// `__print_binary` function that prints a 64-bit value as `0b…`") — there
// is no printf binary conversion specifier, so Bin values need this
// hand-rolled helper.
func (e *Engine) printBinaryDecl() llvm.Value {
	if e.printBinarySet {
		return e.printBinaryFn
	}

	i64 := e.Ctx.Int64Type()
	fnType := llvm.FunctionType(e.Ctx.VoidType(), []llvm.Type{i64}, false)
	fn := llvm.AddFunction(e.Mod, "__print_binary", fnType)
	e.printBinaryFn = fn
	e.printBinarySet = true

	savedBlock := e.Builder.GetInsertBlock()

	entry := e.Ctx.AddBasicBlock(fn, "entry")
	zeroCase := e.Ctx.AddBasicBlock(fn, "zero_case")
	loopHeader := e.Ctx.AddBasicBlock(fn, "loop_header")
	loopBody := e.Ctx.AddBasicBlock(fn, "loop_body")
	done := e.Ctx.AddBasicBlock(fn, "done")

	e.Builder.SetInsertPointAtEnd(entry)
	n := fn.Param(0)
	isZero := e.Builder.CreateICmp(llvm.IntEQ, n, llvm.ConstInt(i64, 0, false), "is_zero")
	e.Builder.CreateCondBr(isZero, zeroCase, loopHeader)

	e.Builder.SetInsertPointAtEnd(zeroCase)
	e.emitPrintf(e.cachedFormat("fmt.bin.zero", "0b0\n"), nil)
	e.Builder.CreateRetVoid()

	// Layout: buf[2:2+binDigitSlots] holds up to 64 digits filled
	// back-to-front, the final byte is the NUL terminator printf's %s needs,
	// and the "0b" prefix is written into the two bytes just before the
	// first digit once the loop ends.
	bufLen := 2 + binDigitSlots + 1
	bufType := llvm.ArrayType(e.Ctx.Int8Type(), bufLen)
	e.Builder.SetInsertPointAtEnd(loopHeader)
	buf := e.Builder.CreateAlloca(bufType, "bin_buf")
	idxPtr := e.Builder.CreateAlloca(i64, "idx")
	valPtr := e.Builder.CreateAlloca(i64, "val")

	i32 := e.Ctx.Int32Type()
	gepAt := func(index int64) llvm.Value {
		return e.Builder.CreateGEP(buf, []llvm.Value{llvm.ConstInt(i32, 0, false), llvm.ConstInt(i64, uint64(index), false)}, "")
	}

	e.Builder.CreateStore(llvm.ConstInt(e.Ctx.Int8Type(), 0, false), gepAt(int64(bufLen-1)))
	e.Builder.CreateStore(llvm.ConstInt(i64, uint64(bufLen-2), false), idxPtr)
	e.Builder.CreateStore(n, valPtr)
	e.Builder.CreateBr(loopBody)

	e.Builder.SetInsertPointAtEnd(loopBody)
	curVal := e.Builder.CreateLoad(valPtr, "cur_val")
	curIdx := e.Builder.CreateLoad(idxPtr, "cur_idx")
	bit := e.Builder.CreateAnd(curVal, llvm.ConstInt(i64, 1, false), "bit")
	digit := e.Builder.CreateAdd(bit, llvm.ConstInt(i64, uint64('0'), false), "digit")
	digit8 := e.Builder.CreateTrunc(digit, e.Ctx.Int8Type(), "digit8")
	slot := e.Builder.CreateGEP(buf, []llvm.Value{llvm.ConstInt(i32, 0, false), curIdx}, "slot")
	e.Builder.CreateStore(digit8, slot)
	nextVal := e.Builder.CreateLShr(curVal, llvm.ConstInt(i64, 1, false), "next_val")
	nextIdx := e.Builder.CreateSub(curIdx, llvm.ConstInt(i64, 1, false), "next_idx")
	e.Builder.CreateStore(nextVal, valPtr)
	e.Builder.CreateStore(nextIdx, idxPtr)
	stillNonZero := e.Builder.CreateICmp(llvm.IntNE, nextVal, llvm.ConstInt(i64, 0, false), "still_nonzero")
	e.Builder.CreateCondBr(stillNonZero, loopBody, done)

	e.Builder.SetInsertPointAtEnd(done)
	startIdx := e.Builder.CreateLoad(idxPtr, "start_idx")
	firstDigit := e.Builder.CreateAdd(startIdx, llvm.ConstInt(i64, 1, false), "first_digit")
	printStart := e.Builder.CreateSub(firstDigit, llvm.ConstInt(i64, 2, false), "print_start")
	strPtr := e.Builder.CreateGEP(buf, []llvm.Value{llvm.ConstInt(i32, 0, false), printStart}, "str_ptr")
	e.Builder.CreateStore(llvm.ConstInt(e.Ctx.Int8Type(), uint64('0'), false), strPtr)
	bPtr := e.Builder.CreateGEP(buf, []llvm.Value{llvm.ConstInt(i32, 0, false), startIdx}, "b_ptr")
	e.Builder.CreateStore(llvm.ConstInt(e.Ctx.Int8Type(), uint64('b'), false), bPtr)
	e.emitPrintf(e.cachedFormat("fmt.s", "%s\n"), []llvm.Value{strPtr})
	e.Builder.CreateRetVoid()

	if !savedBlock.IsNil() {
		e.Builder.SetInsertPointAtEnd(savedBlock)
	}
	return fn
}

// emitCallPrintBinary calls the (lazily defined) __print_binary helper.
func (e *Engine) emitCallPrintBinary(val llvm.Value) {
	e.Builder.CreateCall(e.printBinaryDecl(), []llvm.Value{val}, "")
}
