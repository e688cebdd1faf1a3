package codegen

import (
	"kanso/internal/ast"

	"github.com/ethereum/go-ethereum/core/vm"
)

// StatementEmitter tree-walks statement nodes, emitting control
// flow, declarations, expression statements, and modifier-placeholder
// splicing. Every handler is wrapped by the stack-height guard
// enforced by emitBlockItem/EmitBlock below.
type StatementEmitter struct {
	ctx  *CompilerContext
	expr *ExpressionCompiler

	// the function currently being emitted, needed by Return and by
	// the modifier-or-body splicer.
	fn        *ast.Function
	returnTag Tag
	// pre-allocated return-slot names, in declaration order: one stack
	// slot reserved above the arguments for each return parameter.
	returnSlots []string
}

func NewStatementEmitter(ctx *CompilerContext) *StatementEmitter {
	return &StatementEmitter{ctx: ctx, expr: NewExpressionCompiler(ctx)}
}

// EmitBlock walks every item of a FunctionBlock, then its optional
// tail expression, verifying the stack-height invariant (the static
// stack height must be known at every statement boundary) around each
// item.
func (se *StatementEmitter) EmitBlock(block *ast.FunctionBlock) {
	for _, item := range block.Items {
		se.emitGuarded(item)
	}
	if block.TailExpr != nil {
		se.expr.Compile(block.TailExpr.Expr)
	}
}

// emitGuarded wraps one statement's emission with the entry/exit
// height check. Control-flow statements that terminate the enclosing
// block (Return, Break, Continue) are exempt from the exit check: the
// walk past them is unreachable and the cursor is restored by the
// caller to keep the static model consistent for any statements that
// still follow it lexically.
func (se *StatementEmitter) emitGuarded(item ast.FunctionBlockItem) {
	entry := se.ctx.Buffer.Cursor()
	switch s := item.(type) {
	case *ast.LetStmt:
		se.emitLet(s)
	case *ast.AssignStmt:
		se.emitAssign(s)
	case *ast.RequireStmt:
		se.emitRequire(s)
	case *ast.ExprStmt:
		se.emitExprStmt(s)
	case *ast.ReturnStmt:
		se.emitReturn(s)
		se.ctx.Buffer.SetCursor(entry)
		return
	case *ast.IfStmt:
		se.emitIf(s)
	case *ast.WhileStmt:
		se.emitWhile(s)
	case *ast.ForStmt:
		se.emitFor(s)
	case *ast.BreakStmt:
		se.emitBreak()
		se.ctx.Buffer.SetCursor(entry)
		return
	case *ast.ContinueStmt:
		se.emitContinue()
		se.ctx.Buffer.SetCursor(entry)
		return
	case *ast.PlaceholderStmt:
		se.emitPlaceholder()
	case *ast.Comment:
		return
	default:
		invariant(false, "E0900", "unsupported statement node %T", item)
	}
	invariant(se.ctx.Buffer.Cursor() == entry, "E0900",
		"stack height mismatch: entered statement at %d, left it at %d", entry, se.ctx.Buffer.Cursor())
}

// emitLet handles a let statement. Top-level function locals are
// pre-reserved (zero-initialized) at function entry, so a matching
// let here just moves the computed initializer into the
// already-addressed slot. A name with no pre-reserved slot is a
// modifier-body local — those are not part of the function's fixed
// frame, so they're allocated on the fly and their cleanup is tracked
// via ReturnCleanupCounter instead of the stack-reshuffle epilogue.
func (se *StatementEmitter) emitLet(s *ast.LetStmt) {
	if s.Expr == nil {
		if _, _, ok := se.ctx.ResolveLocal(s.Name.Value); ok {
			return // pre-reserved and already zero-initialized at function entry
		}
		typ := scalarTypes["U256"]
		if s.Type != nil {
			typ = resolveType(s.Type)
		}
		se.ctx.AddAndInitializeVariable(s.Name.Value, typ)
		se.ctx.ReturnCleanupCounter += typ.SizeOnStack()
		return
	}

	// resolved before compiling, so depth is measured below the new value
	depth, slotType, reserved := se.ctx.ResolveLocal(s.Name.Value)
	typ := se.expr.Compile(s.Expr)
	if reserved {
		se.storeIntoSlot(depth, slotType)
		return
	}
	se.ctx.AddVariable(s.Name.Value, typ)
	se.ctx.ReturnCleanupCounter += typ.SizeOnStack()
}

// storeIntoSlot moves the freshly computed value on top of the stack
// into the slot at depth (0 = immediately below the new value),
// discarding the value already resident there. Every SWAP reaches the
// same depth: each POP brings the next slot word one position closer.
func (se *StatementEmitter) storeIntoSlot(depth int, typ CGType) {
	for i := typ.SizeOnStack() - 1; i >= 0; i-- {
		se.ctx.Swap(depth + typ.SizeOnStack())
		se.ctx.Pop()
	}
}

func (se *StatementEmitter) emitAssign(s *ast.AssignStmt) {
	switch target := s.Target.(type) {
	case *ast.IdentExpr:
		se.assignLocal(target.Name, s)
	case *ast.FieldAccessExpr:
		se.assignStorage(target, s)
	case *ast.IndexExpr:
		se.assignKeyedStorage(target, s)
	default:
		invariant(false, "E0900", "unsupported assignment target %T", s.Target)
	}
}

func (se *StatementEmitter) assignLocal(name string, s *ast.AssignStmt) {
	depth, typ, ok := se.ctx.ResolveLocal(name)
	invariant(ok, "E0900", "assignment to undeclared local %q", name)
	se.compileCompoundRHS(s, typ)
	se.storeIntoSlot(depth, typ)
}

func (se *StatementEmitter) assignStorage(target *ast.FieldAccessExpr, s *ast.AssignStmt) {
	slot, ok := se.ctx.StorageSlot(target.Field)
	invariant(ok, "E0900", "assignment to unknown storage field %q", target.Field)
	se.compileCompoundRHS(s, scalarTypes["U256"])
	se.ctx.Buffer.Push(wordBytesInt(slot))
	se.ctx.Buffer.Append(vm.SSTORE)
}

func (se *StatementEmitter) assignKeyedStorage(target *ast.IndexExpr, s *ast.AssignStmt) {
	field, ok := target.Target.(*ast.FieldAccessExpr)
	invariant(ok, "E0900", "keyed storage assignment target must be a field access")
	slot, ok := se.ctx.StorageSlot(field.Field)
	invariant(ok, "E0900", "assignment to unknown storage field %q", field.Field)

	se.compileCompoundRHS(s, scalarTypes["U256"])
	se.expr.Compile(target.Index)
	se.ctx.Buffer.Push(wordBytesInt(slot))
	se.expr.emitMappingSlotHash()
	se.ctx.Buffer.Append(vm.SSTORE)
}

// compileCompoundRHS evaluates s.Value; for a compound-assignment
// operator, the accumulation (current-value OP rhs) is folded into a
// synthetic BinaryExpr so e.g. `total += amount` reuses the same
// arithmetic path ExpressionCompiler already knows.
func (se *StatementEmitter) compileCompoundRHS(s *ast.AssignStmt, typ CGType) {
	if s.Operator == ast.ASSIGN {
		se.expr.Compile(s.Value)
		return
	}
	op := compoundOperator(s.Operator)
	se.expr.Compile(&ast.BinaryExpr{Op: op, Left: s.Target, Right: s.Value})
}

func compoundOperator(op ast.AssignType) string {
	switch op {
	case ast.PLUS_ASSIGN:
		return "+"
	case ast.MINUS_ASSIGN:
		return "-"
	case ast.STAR_ASSIGN:
		return "*"
	case ast.SLASH_ASSIGN:
		return "/"
	case ast.PERCENT_ASSIGN:
		return "%"
	default:
		invariant(false, "E0900", "unsupported compound assignment operator")
		return ""
	}
}

func (se *StatementEmitter) emitRequire(s *ast.RequireStmt) {
	invariant(len(s.Args) >= 1, "E0900", "require! needs at least a condition argument")
	se.expr.Compile(s.Args[0])
	se.ctx.Buffer.Append(vm.ISZERO)
	failTag := se.ctx.Buffer.AppendConditionalJump()
	okTag := se.ctx.Buffer.NewTag()
	se.ctx.Buffer.AppendJumpTo(okTag)
	se.ctx.Buffer.DefineTag(failTag)
	se.ctx.Buffer.Push(nil)
	se.ctx.Buffer.Push(nil)
	se.ctx.Buffer.Append(vm.REVERT)
	se.ctx.Buffer.DefineTag(okTag)
}

func (se *StatementEmitter) emitExprStmt(s *ast.ExprStmt) {
	typ := se.expr.Compile(s.Expr)
	for i := 0; i < typ.SizeOnStack(); i++ {
		se.ctx.Pop()
	}
}

// emitReturn handles a return statement. Only the first return
// expression is compiled and stored into the first return slot;
// multi-value return via separate return expressions is not
// supported. A tuple-valued return still works, since TupleExpr
// compiles all of its elements in one Compile call and storeIntoSlot
// pops the right number of words for the declared return type.
func (se *StatementEmitter) emitReturn(s *ast.ReturnStmt) {
	if s.Value != nil {
		invariant(len(se.returnSlots) > 0, "E0900", "return with a value but function declares none")
		depth, slotType, ok := se.ctx.ResolveLocal(se.returnSlots[0])
		invariant(ok, "E0900", "missing return slot %q", se.returnSlots[0])
		se.expr.Compile(s.Value)
		se.storeIntoSlot(depth, slotType)
	}
	for i := 0; i < se.ctx.ReturnCleanupCounter; i++ {
		se.ctx.Pop()
	}
	se.ctx.Buffer.AppendJumpTo(se.returnTag)
}

func (se *StatementEmitter) emitBreak() {
	if t, ok := se.ctx.BreakTarget(); ok {
		se.ctx.Buffer.AppendJumpTo(t)
	}
}

func (se *StatementEmitter) emitContinue() {
	if t, ok := se.ctx.ContinueTarget(); ok {
		se.ctx.Buffer.AppendJumpTo(t)
	}
}

// emitIf compiles the false branch first, jumps over it to the end
// tag, defines the true tag, then emits the then-branch.
func (se *StatementEmitter) emitIf(s *ast.IfStmt) {
	se.expr.Compile(s.Condition)
	trueTag := se.ctx.Buffer.AppendConditionalJump()
	if s.ElseBlock != nil {
		se.EmitBlock(s.ElseBlock)
	}
	endTag := se.ctx.Buffer.NewTag()
	se.ctx.Buffer.AppendJumpTo(endTag)
	se.ctx.Buffer.DefineTag(trueTag)
	se.EmitBlock(s.ThenBlock)
	se.ctx.Buffer.DefineTag(endTag)
}

func (se *StatementEmitter) emitWhile(s *ast.WhileStmt) {
	loopStart := se.ctx.Buffer.NewTag()
	loopEnd := se.ctx.Buffer.NewTag()
	se.ctx.Buffer.DefineTag(loopStart)
	se.ctx.PushContinueTag(loopStart)
	se.ctx.PushBreakTag(loopEnd)

	se.expr.Compile(s.Condition)
	se.ctx.Buffer.Append(vm.ISZERO)
	se.ctx.Buffer.AppendConditionalJumpTo(loopEnd)
	se.EmitBlock(s.Body)
	se.ctx.Buffer.AppendJumpTo(loopStart)
	se.ctx.Buffer.DefineTag(loopEnd)

	se.ctx.PopBreakTag()
	se.ctx.PopContinueTag()
}

func (se *StatementEmitter) emitFor(s *ast.ForStmt) {
	if s.Init != nil {
		se.emitGuarded(s.Init)
	}
	loopStart := se.ctx.Buffer.NewTag()
	loopEnd := se.ctx.Buffer.NewTag()
	se.ctx.Buffer.DefineTag(loopStart)
	se.ctx.PushContinueTag(loopStart)
	se.ctx.PushBreakTag(loopEnd)

	if s.Condition != nil {
		se.expr.Compile(s.Condition)
		se.ctx.Buffer.Append(vm.ISZERO)
		se.ctx.Buffer.AppendConditionalJumpTo(loopEnd)
	}
	se.EmitBlock(s.Body)
	if s.Post != nil {
		se.emitGuarded(s.Post)
	}
	se.ctx.Buffer.AppendJumpTo(loopStart)
	se.ctx.Buffer.DefineTag(loopEnd)

	se.ctx.PopBreakTag()
	se.ctx.PopContinueTag()
}

// emitPlaceholder increments modifier depth and recursively invokes
// the modifier-or-body splicer, then decrements.
func (se *StatementEmitter) emitPlaceholder() {
	se.ctx.ModifierDepth++
	se.SpliceModifierOrBody()
	se.ctx.ModifierDepth--
}

// SpliceModifierOrBody is the modifier-or-body splicer, driven by
// se.ctx.ModifierDepth against se.fn.Modifiers.
func (se *StatementEmitter) SpliceModifierOrBody() {
	if se.ctx.ModifierDepth == len(se.fn.Modifiers) {
		se.EmitBlock(se.fn.Body)
		return
	}

	invocation := se.fn.Modifiers[se.ctx.ModifierDepth]
	modDef, ok := se.ctx.LookupModifier(invocation.Name.Value)
	invariant(ok, "E0900", "modifier %q has no registered definition", invocation.Name.Value)
	invariant(len(modDef.Params) == len(invocation.Args), "E0904",
		"modifier %q expects %d arguments, got %d", invocation.Name.Value, len(modDef.Params), len(invocation.Args))

	counterBefore := se.ctx.ReturnCleanupCounter
	for i, param := range modDef.Params {
		typ := resolveType(param.Type)
		se.expr.Compile(invocation.Args[i])
		se.ctx.AddVariable(param.Name.Value, typ)
		se.ctx.ReturnCleanupCounter += typ.SizeOnStack()
	}
	// modDef.Body may itself declare further modifier-local variables
	// (via emitLet's fallback path), bumping ReturnCleanupCounter
	// further; the delta below accounts for parameters and locals alike.
	se.EmitBlock(modDef.Body)
	reserved := se.ctx.ReturnCleanupCounter - counterBefore
	for i := 0; i < reserved; i++ {
		se.ctx.Pop()
	}
	se.ctx.ReturnCleanupCounter = counterBefore
}

// collectLocalLets walks block and every nested if/while/for body,
// returning every LetStmt found — the set of locals that must be
// reserved as part of a function's fixed frame at entry, since any
// one of them may or may not execute depending on which branch runs,
// but the stack-reshuffle epilogue needs a single frame layout valid
// for every return path.
func collectLocalLets(block *ast.FunctionBlock) []*ast.LetStmt {
	var lets []*ast.LetStmt
	var walk func(b *ast.FunctionBlock)
	walk = func(b *ast.FunctionBlock) {
		for _, item := range b.Items {
			switch s := item.(type) {
			case *ast.LetStmt:
				lets = append(lets, s)
			case *ast.IfStmt:
				walk(s.ThenBlock)
				if s.ElseBlock != nil {
					walk(s.ElseBlock)
				}
			case *ast.WhileStmt:
				walk(s.Body)
			case *ast.ForStmt:
				if l, ok := s.Init.(*ast.LetStmt); ok {
					lets = append(lets, l)
				}
				walk(s.Body)
			}
		}
	}
	walk(block)
	return lets
}

// PreReserveLocals reserves and zero-initializes a stack slot for
// every let-bound local in fn's body, above the slots already
// reserved for its return parameters, before the modifier-or-body
// splicer runs. A let with an explicit type annotation is sized from
// it directly; otherwise the type is inferred structurally from its
// initializer.
func PreReserveLocals(ctx *CompilerContext, fn *ast.Function) {
	for _, let := range collectLocalLets(fn.Body) {
		if _, _, ok := ctx.ResolveLocal(let.Name.Value); ok {
			continue // already reserved (same name declared on a sibling branch)
		}
		typ := scalarTypes["U256"]
		switch {
		case let.Type != nil:
			typ = resolveType(let.Type)
		case let.Expr != nil:
			typ = inferExprType(ctx, let.Expr)
		}
		ctx.AddAndInitializeVariable(let.Name.Value, typ)
	}
}

// inferExprType approximates an expression's CGType without emitting
// any code, just well enough to size a pre-reserved local slot.
// Every builtin scalar is one stack word, so a wrong guess among them
// is harmless; only the tuple/struct word count needs to be right.
func inferExprType(ctx *CompilerContext, expr ast.Expr) CGType {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		if e.Value == "true" || e.Value == "false" {
			return scalarTypes["Bool"]
		}
		return scalarTypes["U256"]
	case *ast.IdentExpr:
		if _, typ, ok := ctx.ResolveLocal(e.Name); ok {
			return typ
		}
		return scalarTypes["U256"]
	case *ast.ParenExpr:
		return inferExprType(ctx, e.Value)
	case *ast.UnaryExpr:
		if e.Op == "!" {
			return scalarTypes["Bool"]
		}
		return inferExprType(ctx, e.Value)
	case *ast.BinaryExpr:
		switch e.Op {
		case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
			return scalarTypes["Bool"]
		default:
			return inferExprType(ctx, e.Left)
		}
	case *ast.FieldAccessExpr, *ast.IndexExpr:
		return scalarTypes["U256"]
	case *ast.CallExpr:
		if calleeName(e.Callee) == "sender" {
			return scalarTypes["Address"]
		}
		if fn, ok := ctx.lookupSibling(calleeName(e.Callee)); ok {
			if returns := functionReturnTypes(fn); len(returns) > 0 {
				total := 0
				for _, r := range returns {
					total += r.SizeOnStack()
				}
				return CGType{Name: "CallResult", stackWords: total}
			}
		}
		return scalarTypes["U256"]
	case *ast.TupleExpr:
		words := 0
		for _, elem := range e.Elements {
			words += inferExprType(ctx, elem).SizeOnStack()
		}
		return CGType{Name: "Tuple", stackWords: words}
	case *ast.StructLiteralExpr:
		words := 0
		for _, f := range e.Fields {
			words += inferExprType(ctx, f.Value).SizeOnStack()
		}
		return CGType{Name: e.Name, stackWords: words}
	default:
		return scalarTypes["U256"]
	}
}

func wordBytesInt(n int) []byte {
	if n == 0 {
		return nil
	}
	out := make([]byte, 0, 4)
	for shift := 24; shift >= 0; shift -= 8 {
		b := byte(uint32(n) >> uint(shift))
		if b != 0 || len(out) > 0 {
			out = append(out, b)
		}
	}
	return out
}
