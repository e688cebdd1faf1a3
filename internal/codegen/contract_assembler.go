package codegen

import (
	"kanso/internal/ast"

	"github.com/ethereum/go-ethereum/core/vm"
)

// Options carries the knobs a driver threads through to Compile:
// currently just the optimize flag, which this package accepts but
// does not yet act on — no optimization passes are implemented.
type Options struct {
	Optimize bool
}

// Images is the result of compiling one contract: the creation
// payload and, separately, the runtime payload it embeds and
// returns.
type Images struct {
	Creation []byte
	Runtime  []byte
}

// Compile is the package's single entry point: ContractAssembler's
// top-level algorithm, recovering any CodegenError raised by an
// invariant violation deep in the tree walk so no panic escapes this
// boundary.
func Compile(contract *ast.Contract, siblings map[string]*ast.Contract, opts Options) (images Images, err error) {
	defer Recover(&err)

	linearization := Linearize(contract, siblings)

	runtimeCtx := NewCompilerContext()
	runtimeCtx.SetInheritanceHierarchy(linearization)
	runtimeCtx.SetFunctionScope(functionRegistry(linearization))
	runtimeCtx.SetModifierScope(modifierRegistry(linearization))
	assignStorageSlots(runtimeCtx, linearization)

	emitRuntimeDispatcher(runtimeCtx, linearization)
	drainPendingFunctions(runtimeCtx)

	runtimeBuffer := runtimeCtx.Buffer

	creationCtx := NewCompilerContext()
	creationCtx.SetInheritanceHierarchy(linearization)
	creationCtx.SetFunctionScope(functionRegistry(linearization))
	creationCtx.SetModifierScope(modifierRegistry(linearization))
	assignStorageSlots(creationCtx, linearization)

	emitConstructorChain(creationCtx, linearization)
	emitRuntimeEmbeddingEpilogue(creationCtx, runtimeBuffer)
	drainPendingFunctions(creationCtx)

	creationBytes, ferr := creationCtx.Buffer.Finalize()
	invariant(ferr == nil, "E0901", "creation image failed to finalize: %v", ferr)
	runtimeBytes, ferr := runtimeBuffer.Finalize()
	invariant(ferr == nil, "E0901", "runtime image failed to finalize: %v", ferr)

	return Images{Creation: creationBytes, Runtime: runtimeBytes}, nil
}

// assignStorageSlots registers all state variables of all base
// contracts in reverse linearization order (least-derived first), so
// storage slots are assigned base-fields-before-derived-fields.
func assignStorageSlots(ctx *CompilerContext, linearization []*ast.Contract) {
	for i := len(linearization) - 1; i >= 0; i-- {
		for _, field := range stateVariables(linearization[i]) {
			ctx.AddStateVariable(field.Name.Value)
		}
	}
}

// drainPendingFunctions is a fixed-point loop over CompilerContext's
// pending-function queue, terminating when it is empty. Emitting one
// function's body can reference another function for the first time,
// queuing more work, so this has to loop until nothing new appears.
func drainPendingFunctions(ctx *CompilerContext) {
	for {
		pending := ctx.GetFunctionsWithoutCode()
		if len(pending) == 0 {
			return
		}
		for _, fn := range pending {
			emitFunctionBody(ctx, fn)
		}
	}
}

// emitFunctionBody emits one function's prologue, body, and epilogue,
// shared between the runtime and creation images. Stack on entry:
// [ret-addr][arg_0]...[arg_{n-1}].
func emitFunctionBody(ctx *CompilerContext, fn *ast.Function) {
	ctx.StartFunction(fn)
	ctx.ResetFunctionScope()

	cursor := 1 // the return address, already on the stack
	for _, p := range fn.Params {
		typ := resolveType(p.Type)
		cursor += typ.SizeOnStack()
		ctx.AddVariableAtOffset(p.Name.Value, typ, cursor)
	}
	ctx.Buffer.SetCursor(cursor)

	returnTypes := functionReturnTypes(fn)
	returnSlots := make([]string, len(returnTypes))
	for i, rt := range returnTypes {
		returnSlots[i] = returnSlotName(i)
		ctx.AddAndInitializeVariable(returnSlots[i], rt)
	}

	PreReserveLocals(ctx, fn)

	se := NewStatementEmitter(ctx)
	se.fn = fn
	se.returnSlots = returnSlots
	se.returnTag = ctx.Buffer.NewTag()

	se.SpliceModifierOrBody()

	ctx.Buffer.DefineTag(se.returnTag)
	emitStackReshuffle(ctx, len(fn.Params), returnTypes)
	ctx.Buffer.Append(vm.JUMP)
}

func returnSlotName(i int) string {
	const names = "0123456789"
	if i < len(names) {
		return "$ret" + names[i:i+1]
	}
	return "$retN"
}

// emitStackReshuffle builds an intent vector over every slot currently
// in the frame above the caller's own words, and repeatedly pop/swaps
// until the top of the vector is already at its target, leaving
// [ret_0]...[ret_{m-1}][ret-addr] for the trailing JUMP.
func emitStackReshuffle(ctx *CompilerContext, paramCount int, returnTypes []CGType) {
	returnWords := 0
	for _, rt := range returnTypes {
		returnWords += rt.SizeOnStack()
	}

	// intent vector, bottom-to-top: [ret-addr][args...][returns...][locals...]
	// The buffer's remaining frame above the caller's words is exactly
	// what's currently on the stack; paramCount/returnWords are known,
	// everything else still on the stack is a local.
	frameWords := ctx.Buffer.Cursor()
	localWords := frameWords - 1 - paramCount - returnWords
	invariant(localWords >= 0, "E0900", "stack reshuffle: frame shorter than ret-addr+args+returns")

	intent := make([]int, 0, frameWords)
	intent = append(intent, returnWords) // return-address target: right above all returns
	for i := 0; i < paramCount; i++ {
		intent = append(intent, -1)
	}
	for i := 0; i < returnWords; i++ {
		intent = append(intent, i)
	}
	for i := 0; i < localWords; i++ {
		intent = append(intent, -1)
	}

	for len(intent) > 0 {
		top := len(intent) - 1
		target := intent[top]
		if target == -1 {
			ctx.Pop()
			intent = intent[:top]
			continue
		}
		if target == top {
			break
		}
		distance := len(intent) - target - 1
		ctx.Swap(distance)
		intent[top], intent[target] = intent[target], intent[top]
	}
}

// emitConstructorChain runs base constructors in base-to-derived
// order, each preceded by that base's own
// state-variable initializers, followed by the most-derived contract's
// initializers and constructor.
func emitConstructorChain(ctx *CompilerContext, linearization []*ast.Contract) {
	for i := len(linearization) - 1; i >= 1; i-- {
		base := linearization[i]
		emitStateVariableInitializers(ctx, base)
		if ctor := findConstructor(base); ctor != nil {
			args := ResolveBaseConstructorArgs(base, linearization)
			emitConstructorCall(ctx, ctor, args)
		}
	}
	derived := linearization[0]
	emitStateVariableInitializers(ctx, derived)
	if ctor := findConstructor(derived); ctor != nil {
		emitConstructorCall(ctx, ctor, nil)
	}
}

func emitStateVariableInitializers(ctx *CompilerContext, contract *ast.Contract) {
	expr := NewExpressionCompiler(ctx)
	for _, field := range stateVariables(contract) {
		expr.AppendStateVariableInitialization(field, nil)
	}
}

// emitConstructorCall evaluates args in the caller's scope, jumps to
// the constructor's entry, and discards its (nonexistent) return
// value — constructors never return values, only side effects.
func emitConstructorCall(ctx *CompilerContext, ctor *ast.Function, args []ast.Expr) {
	expr := NewExpressionCompiler(ctx)
	retTag := ctx.Buffer.PushNewTag()
	for _, a := range args {
		expr.Compile(a)
	}
	entry := ctx.GetFunctionEntryLabel(ctor)
	ctx.Buffer.AppendJumpTo(entry)
	ctx.Buffer.DefineTag(retTag)
}

// emitRuntimeEmbeddingEpilogue embeds the runtime buffer as a
// subroutine, CODECOPYs it to memory offset 0, and RETURNs it — the
// effect that turns the creation image's execution into a deployed
// contract.
//
// AddSubroutine leaves [size, offset] (top to bottom). A copy of size
// is kept aside for RETURN, since CODECOPY consumes its own.
func emitRuntimeEmbeddingEpilogue(ctx *CompilerContext, runtime *Buffer) {
	ctx.AddSubroutine(runtime) // [size, offset]
	ctx.Dup(1)                 // [size, size, offset]
	ctx.Swap(2)                // [offset, size, size]
	ctx.Buffer.Push(nil)       // dest = 0; [0, offset, size, size]
	ctx.Buffer.Append(vm.CODECOPY)
	ctx.Buffer.Push(nil) // dest = 0; [0, size]
	ctx.Buffer.Append(vm.RETURN)
}
