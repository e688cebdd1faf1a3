package codegen

import (
	"kanso/internal/ast"

	"github.com/ethereum/go-ethereum/core/vm"
)

// localVar records where a local (parameter, return slot, or
// let-bound variable) lives: its stack offset at the time it was
// declared, resolved at read/write time by subtracting the buffer's
// current cursor.
type localVar struct {
	offsetAtDeclaration int
	typ                 CGType
}

// CompilerContext is per-image mutable state shared by
// every collaborator compiling a single image (creation or runtime).
type CompilerContext struct {
	Buffer *Buffer

	// state-variable table: name -> storage slot.
	storageSlots map[string]int
	nextSlot     int

	// local-variable table, scoped to the function currently being emitted.
	locals map[string]localVar

	// function-entry table: function identity -> entry tag.
	entryTags map[*ast.Function]Tag
	pending   map[*ast.Function]bool
	pendingOrder []*ast.Function

	// currently-compiled contract's linearized scope.
	modifiers map[string]*ast.Modifier

	// functions callable by name within the currently-compiled contract
	// (including inherited ones), used to resolve direct (non-ABI) calls.
	functions map[string]*ast.Function

	// inheritance hierarchy, most-derived first.
	linearization []*ast.Contract

	// sibling contracts available for `new` expressions.
	compiledContracts map[string][]byte

	breakTags    []Tag
	continueTags []Tag

	// ReturnCleanupCounter: words a `return` inside the current modifier
	// frame must POP before jumping to the function's return tag.
	ReturnCleanupCounter int

	// ModifierDepth: 0 = outermost modifier, len(modifiers) = the
	// function body itself.
	ModifierDepth int
}

// NewCompilerContext creates an empty CompilerContext for one image.
func NewCompilerContext() *CompilerContext {
	return &CompilerContext{
		Buffer:            NewBuffer(),
		storageSlots:      make(map[string]int),
		locals:            make(map[string]localVar),
		entryTags:         make(map[*ast.Function]Tag),
		pending:           make(map[*ast.Function]bool),
		modifiers:         make(map[string]*ast.Modifier),
		compiledContracts: make(map[string][]byte),
	}
}

// SetInheritanceHierarchy records the linearized bases, most-derived
// first.
func (c *CompilerContext) SetInheritanceHierarchy(linearized []*ast.Contract) {
	c.linearization = linearized
}

// SetCompiledContracts exposes sibling contracts' bytecode to the
// ExpressionCompiler collaborator for `new` expressions.
func (c *CompilerContext) SetCompiledContracts(bytecode map[string][]byte) {
	c.compiledContracts = bytecode
}

// SetModifierScope registers the modifier definitions reachable from
// the currently-compiled contract's linearized scope.
func (c *CompilerContext) SetModifierScope(mods map[string]*ast.Modifier) {
	c.modifiers = mods
}

func (c *CompilerContext) LookupModifier(name string) (*ast.Modifier, bool) {
	m, ok := c.modifiers[name]
	return m, ok
}

// SetFunctionScope registers the functions callable-by-name within the
// currently-compiled contract's linearized scope.
func (c *CompilerContext) SetFunctionScope(fns map[string]*ast.Function) {
	c.functions = fns
}

func (c *CompilerContext) lookupSibling(name string) (*ast.Function, bool) {
	fn, ok := c.functions[name]
	return fn, ok
}

// AddStateVariable assigns the next storage slot to decl. Callers
// are responsible for driving the base-first, declaration-order
// iteration across the inheritance chain.
func (c *CompilerContext) AddStateVariable(name string) int {
	slot := c.nextSlot
	c.storageSlots[name] = slot
	c.nextSlot++
	return slot
}

func (c *CompilerContext) StorageSlot(name string) (int, bool) {
	slot, ok := c.storageSlots[name]
	return slot, ok
}

// AddVariable registers a local whose word(s) are already on top of
// the stack. offsetAtDeclaration is recorded
// as the cursor value immediately after the variable's last word, so
// ResolveLocal's cursor_now - offsetAtDeclaration always yields the
// current depth-from-top of the variable's topmost (last-pushed) word.
func (c *CompilerContext) AddVariable(name string, typ CGType) {
	c.locals[name] = localVar{offsetAtDeclaration: c.Buffer.Cursor(), typ: typ}
}

// AddVariableAtOffset registers a local whose word(s) were placed on
// the stack by someone else (the caller, for parameters) at a known
// cursor value, rather than just pushed by this context.
func (c *CompilerContext) AddVariableAtOffset(name string, typ CGType, cursorAfterDeclaration int) {
	c.locals[name] = localVar{offsetAtDeclaration: cursorAfterDeclaration, typ: typ}
}

// AddAndInitializeVariable emits a zero initializer — one PUSH0 per
// stack word the type occupies — then registers the local.
func (c *CompilerContext) AddAndInitializeVariable(name string, typ CGType) {
	for i := 0; i < typ.SizeOnStack(); i++ {
		c.Buffer.Push(nil)
	}
	c.AddVariable(name, typ)
}

// ResolveLocal returns the local's current absolute distance from the
// top of the stack (0 = top), i.e. cursor_now - offset_at_declaration.
func (c *CompilerContext) ResolveLocal(name string) (depthFromTop int, typ CGType, ok bool) {
	lv, found := c.locals[name]
	if !found {
		return 0, CGType{}, false
	}
	return c.Buffer.Cursor() - lv.offsetAtDeclaration, lv.typ, true
}

// ResetFunctionScope clears the local-variable table for a new
// frame, part of starting a new function.
func (c *CompilerContext) ResetFunctionScope() {
	c.locals = make(map[string]localVar)
	c.ReturnCleanupCounter = 0
	c.ModifierDepth = 0
}

// GetFunctionEntryLabel returns decl's entry tag, allocating one and
// marking it pending on first reference.
func (c *CompilerContext) GetFunctionEntryLabel(decl *ast.Function) Tag {
	if t, ok := c.entryTags[decl]; ok {
		return t
	}
	t := c.Buffer.NewTag()
	c.entryTags[decl] = t
	if !c.pending[decl] {
		c.pending[decl] = true
		c.pendingOrder = append(c.pendingOrder, decl)
	}
	return t
}

// GetFunctionsWithoutCode drains and returns the functions queued since
// the last call, in the order they were first referenced. Each call
// empties that queue; an entry leaves the pending set only when
// StartFunction emits it. Callers loop until it returns empty.
func (c *CompilerContext) GetFunctionsWithoutCode() []*ast.Function {
	drained := c.pendingOrder
	c.pendingOrder = nil
	return drained
}

// StartFunction emits decl's entry tag definition and clears it from
// pending. Scope reset is the caller's
// responsibility via ResetFunctionScope, since the caller also needs
// to register parameters before locals are meaningful.
func (c *CompilerContext) StartFunction(decl *ast.Function) {
	t := c.GetFunctionEntryLabel(decl)
	c.Buffer.DefineTag(t)
	delete(c.pending, decl)
}

// AdjustStackOffset manually corrects the cursor after an opaque
// stack manipulation such as a callee leaving behind an
// already-reshuffled frame.
func (c *CompilerContext) AdjustStackOffset(delta int) {
	c.Buffer.SetCursor(c.Buffer.Cursor() + delta)
}

// AddSubroutine embeds other as code-data in the current buffer.
func (c *CompilerContext) AddSubroutine(other *Buffer) {
	c.Buffer.AddSubroutine(other)
}

func (c *CompilerContext) PushBreakTag(t Tag)    { c.breakTags = append(c.breakTags, t) }
func (c *CompilerContext) PopBreakTag()          { c.breakTags = c.breakTags[:len(c.breakTags)-1] }
func (c *CompilerContext) PushContinueTag(t Tag) { c.continueTags = append(c.continueTags, t) }
func (c *CompilerContext) PopContinueTag()       { c.continueTags = c.continueTags[:len(c.continueTags)-1] }

// BreakTarget returns the innermost break target, if any is in
// scope. Callers emit nothing for a break/continue with no enclosing
// loop.
func (c *CompilerContext) BreakTarget() (Tag, bool) {
	if len(c.breakTags) == 0 {
		return 0, false
	}
	return c.breakTags[len(c.breakTags)-1], true
}

func (c *CompilerContext) ContinueTarget() (Tag, bool) {
	if len(c.continueTags) == 0 {
		return 0, false
	}
	return c.continueTags[len(c.continueTags)-1], true
}

// Dup/Swap/Pop are thin convenience wrappers over the real opcodes,
// used pervasively by the stack-reshuffle epilogue and by local
// variable access.
func (c *CompilerContext) Dup(n int)  { c.Buffer.Append(vm.DUP1 + vm.OpCode(n-1)) }
func (c *CompilerContext) Swap(n int) { c.Buffer.Append(vm.SWAP1 + vm.OpCode(n-1)) }
func (c *CompilerContext) Pop()       { c.Buffer.Append(vm.POP) }
