package codegen

import (
	"bytes"
	"sort"

	"kanso/internal/ast"

	"github.com/ethereum/go-ethereum/core/vm"
)

// dispatchTarget defers a matched-selector's body emission until after
// the comparison chain, so the chain itself stays a flat sequence of
// compare-and-branch pairs, in ascending selector order (sortedSelectors).
type dispatchTarget struct {
	tag Tag
	fn  *ast.Function
}

// emitRuntimeDispatcher is the runtime image's entry sequence,
// comparing calldata's leading 4-byte selector against every
// externally callable function's, unpacking matched calldata into
// stack arguments, jumping to the function body, and packing its
// return values before RETURN. No match falls through to the
// contract's fallback function, if declared, else REVERT.
func emitRuntimeDispatcher(ctx *CompilerContext, linearization []*ast.Contract) {
	iface := externalInterfaceFunctions(linearization)
	fallbackTag := ctx.Buffer.NewTag()

	// CALLDATASIZE < 4 can never match a selector; skip straight to the
	// fallback-or-revert path rather than reading out-of-bounds calldata.
	// Both this path and a fully exhausted comparison chain land on
	// fallbackTag with an empty stack.
	ctx.Buffer.Push(wordBytesInt(4))
	ctx.Buffer.Append(vm.CALLDATASIZE) // LT takes its left operand from the top
	ctx.Buffer.Append(vm.LT)
	ctx.Buffer.AppendConditionalJumpTo(fallbackTag)

	ctx.Buffer.Push(nil)
	ctx.Buffer.Append(vm.CALLDATALOAD) // loads bytes [0:32); selector is its top 4 bytes
	ctx.Buffer.Push(wordBytesInt(224))
	ctx.Buffer.Append(vm.SHR)

	var targets []dispatchTarget
	for _, selector := range sortedSelectors(iface) {
		fn := iface[selector]
		ctx.Buffer.Append(vm.DUP1)
		ctx.Buffer.Push(selectorBytes(selector))
		ctx.Buffer.Append(vm.EQ)
		matchTag := ctx.Buffer.AppendConditionalJump()
		targets = append(targets, dispatchTarget{tag: matchTag, fn: fn})
	}
	ctx.Buffer.Append(vm.POP) // no selector matched; discard the extracted value
	ctx.Buffer.AppendJumpTo(fallbackTag)

	for _, d := range targets {
		ctx.Buffer.DefineTag(d.tag)
		ctx.Buffer.Append(vm.POP) // discard the duplicated selector
		emitCallThroughDispatch(ctx, d.fn)
	}

	ctx.Buffer.DefineTag(fallbackTag)
	emitFallbackOrRevert(ctx, linearization)
}

// emitCallThroughDispatch unpacks fn's calldata arguments, jumps to
// its entry, and packs its return values into the ABI's static return
// encoding before RETURN.
func emitCallThroughDispatch(ctx *CompilerContext, fn *ast.Function) {
	retTag := ctx.Buffer.PushNewTag()
	unpackCalldataArgs(ctx, functionParamTypes(fn))

	entry := ctx.GetFunctionEntryLabel(fn)
	ctx.Buffer.AppendJumpTo(entry)
	ctx.Buffer.DefineTag(retTag)

	packReturnValues(ctx, functionReturnTypes(fn))
}

// unpackCalldataArgs pushes every one of types' calldata arguments
// onto the stack, in order, implementing kanso's older ABI dialect: a
// dynamically-sized parameter's header word is its length directly,
// and every dynamic parameter's header word is packed into a
// dedicated block right after the selector (one word per dynamic
// parameter, addressed by its position among dynamic parameters only,
// not by its position among all parameters).
//
// Parameters preceding the first dynamic one are read at a
// compile-time-known offset, same as before any dynamic parameter
// exists. From the first dynamic parameter onward, every remaining
// parameter — static or dynamic — is read through a single running
// calldata cursor carried on top of the stack: a dynamic parameter
// advances it by its length rounded up to a full word, a static one
// advances it by its encoded size. This mirrors
// Compiler::appendCalldataUnpacker's dynamicParameterCount/offset
// bookkeeping.
func unpackCalldataArgs(ctx *CompilerContext, types []CGType) {
	dynamicCount := 0
	for _, t := range types {
		if t.IsDynamicallySized() {
			dynamicCount++
		}
	}

	offset := 4 + dynamicCount*32 // past the selector and every length header
	dynIndex := 0
	inDynamicMode := false

	for _, t := range types {
		headerSlot := 4 + dynIndex*32
		switch {
		case t.IsDynamicallySized() && !inDynamicMode:
			ctx.Buffer.Push(wordBytesInt(offset))
			emitDynamicArg(ctx, headerSlot)
			inDynamicMode = true
			dynIndex++
		case t.IsDynamicallySized():
			emitDynamicArg(ctx, headerSlot)
			dynIndex++
		case inDynamicMode:
			emitDynamicModeStaticArg(ctx, t)
		default:
			ctx.Buffer.Push(wordBytesInt(offset))
			ctx.Buffer.Append(vm.CALLDATALOAD)
			offset += t.CalldataEncodedSize()
		}
	}

	if dynamicCount > 0 {
		ctx.Buffer.Pop() // drop the final running cursor; nothing reads past it
	}
}

// emitDynamicArg consumes the running cursor on top of the stack and
// leaves [length, cursor, next_cursor]: length is loaded from its
// fixed header slot, cursor is left untouched beneath it as this
// parameter's own data pointer (its [length, pointer] representation),
// and next_cursor is cursor advanced past this parameter's data,
// padded up to a full word, ready for whatever reads next.
func emitDynamicArg(ctx *CompilerContext, headerSlot int) {
	ctx.Buffer.Push(wordBytesInt(headerSlot))
	ctx.Buffer.Append(vm.CALLDATALOAD) // length
	// stack: cursor, length
	ctx.Buffer.Append(vm.DUP1)
	ctx.Buffer.Push([]byte{31})
	ctx.Buffer.Append(vm.ADD)
	ctx.Buffer.Push([]byte{31})
	ctx.Buffer.Append(vm.NOT)
	ctx.Buffer.Append(vm.AND) // (length + 31) & ~31 == ceil(length/32)*32
	// stack: cursor, length, padded_length
	ctx.Buffer.Append(vm.DUP3)
	ctx.Buffer.Append(vm.ADD)
	// stack: cursor, length, next_cursor
}

// emitDynamicModeStaticArg consumes the running cursor on top of the
// stack and leaves [value, next_cursor]: value is loaded from the
// cursor's calldata position, and next_cursor is cursor advanced by
// typ's encoded size.
func emitDynamicModeStaticArg(ctx *CompilerContext, typ CGType) {
	ctx.Buffer.Append(vm.DUP1)
	ctx.Buffer.Append(vm.CALLDATALOAD)
	ctx.Buffer.Append(vm.SWAP1)
	// stack: value, cursor
	ctx.Buffer.Push(wordBytesInt(typ.CalldataEncodedSize()))
	ctx.Buffer.Append(vm.ADD)
	// stack: value, next_cursor
}

// packReturnValues moves fn's (already on top of the stack) return
// words into scratch memory starting at 0 and RETURNs that region —
// the ABI's static return encoding.
// The reshuffle epilogue leaves the stack bottom-to-top as
// ret_0..ret_{m-1}, so the top word is ret_{m-1}; memory offsets are
// assigned working from the top down.
func packReturnValues(ctx *CompilerContext, returns []CGType) {
	total := 0
	for _, t := range returns {
		total += t.SizeOnStack()
	}
	for i := total - 1; i >= 0; i-- {
		ctx.Buffer.Push(wordBytesInt(i * 32))
		ctx.Buffer.Append(vm.MSTORE)
	}
	ctx.Buffer.Push(wordBytesInt(total * 32))
	ctx.Buffer.Push(nil)
	ctx.Buffer.Append(vm.RETURN)
}

// emitFallbackOrRevert jumps into the contract's #[fallback] function
// if one is declared anywhere in the linearization, else REVERTs with
// no data. Called with an empty stack.
func emitFallbackOrRevert(ctx *CompilerContext, linearization []*ast.Contract) {
	for _, c := range linearization {
		if fb := findFallback(c); fb != nil {
			retTag := ctx.Buffer.PushNewTag()
			entry := ctx.GetFunctionEntryLabel(fb)
			ctx.Buffer.AppendJumpTo(entry)
			ctx.Buffer.DefineTag(retTag)
			ctx.Buffer.Append(vm.STOP)
			return
		}
	}
	ctx.Buffer.Push(nil)
	ctx.Buffer.Push(nil)
	ctx.Buffer.Append(vm.REVERT)
}

func selectorBytes(sel [4]byte) []byte {
	return sel[:]
}

// sortedSelectors orders iface's keys so the comparison chain's shape
// does not depend on Go's randomized map iteration order.
func sortedSelectors(iface map[[4]byte]*ast.Function) [][4]byte {
	out := make([][4]byte, 0, len(iface))
	for sel := range iface {
		out = append(out, sel)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
