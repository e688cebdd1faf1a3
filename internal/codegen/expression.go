package codegen

import (
	"math/big"
	"strconv"
	"strings"

	"kanso/internal/ast"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
)

// ExpressionCompiler compiles an expression node, converts between
// wire/stack type representations, and emits the two state-variable
// helpers the statement/dispatcher layers call into.
// It walks expressions with one type switch (Compile) and one helper
// per node kind, emitting stack code directly.
type ExpressionCompiler struct {
	ctx *CompilerContext
}

func NewExpressionCompiler(ctx *CompilerContext) *ExpressionCompiler {
	return &ExpressionCompiler{ctx: ctx}
}

// Compile emits code that leaves expr's CGType.SizeOnStack() words on
// the stack, and returns that type so callers (StatementEmitter) know
// how many words to clean up or convert.
func (e *ExpressionCompiler) Compile(expr ast.Expr) CGType {
	switch ex := expr.(type) {
	case *ast.LiteralExpr:
		return e.compileLiteral(ex)
	case *ast.IdentExpr:
		return e.compileIdent(ex)
	case *ast.ParenExpr:
		return e.Compile(ex.Value)
	case *ast.UnaryExpr:
		return e.compileUnary(ex)
	case *ast.BinaryExpr:
		return e.compileBinary(ex)
	case *ast.FieldAccessExpr:
		return e.compileFieldAccess(ex)
	case *ast.IndexExpr:
		return e.compileIndex(ex)
	case *ast.CallExpr:
		return e.compileCall(ex)
	case *ast.TupleExpr:
		return e.compileTuple(ex)
	case *ast.StructLiteralExpr:
		return e.compileStructLiteral(ex)
	default:
		invariant(false, "E0900", "unsupported expression node %T", expr)
		return CGType{}
	}
}

func (e *ExpressionCompiler) compileLiteral(lit *ast.LiteralExpr) CGType {
	switch lit.Value {
	case "true":
		e.ctx.Buffer.Push([]byte{1})
		return scalarTypes["Bool"]
	case "false":
		e.ctx.Buffer.Push(nil)
		return scalarTypes["Bool"]
	}
	v, ok := new(big.Int).SetString(lit.Value, 0)
	invariant(ok, "E0900", "malformed integer literal %q reached codegen", lit.Value)
	e.ctx.Buffer.Push(wordBytes(v))
	return scalarTypes["U256"]
}

// wordBytes renders v as the minimal big-endian byte slice codegen's
// push encoder expects, via uint256.Int the way specops's wordPusher does.
func wordBytes(v *big.Int) []byte {
	var u uint256.Int
	u.SetFromBig(v)
	b := u.Bytes32()
	trimmed := b[:]
	for len(trimmed) > 0 && trimmed[0] == 0 {
		trimmed = trimmed[1:]
	}
	return trimmed
}

// compileIdent copies a local variable's words onto the top of the
// stack, deepest word first, so the copy's own bottom-to-top order
// matches the original. ResolveLocal's depth tracks the variable's
// topmost (last-pushed) word at the moment this is called; each
// already-issued DUP in this loop shifts every not-yet-copied word one
// position deeper, which exactly cancels the fact that the next word
// to copy is naturally one position shallower than the previous target
// — so every DUP in the loop targets the same depth.
func (e *ExpressionCompiler) compileIdent(id *ast.IdentExpr) CGType {
	depth, typ, ok := e.ctx.ResolveLocal(id.Name)
	invariant(ok, "E0900", "identifier %q has no registered local slot", id.Name)
	words := typ.SizeOnStack()
	for i := 0; i < words; i++ {
		e.ctx.Dup(depth + words)
	}
	return typ
}

func (e *ExpressionCompiler) compileUnary(u *ast.UnaryExpr) CGType {
	if u.Op == "&" {
		// reference-taking is a compile-time view, not a runtime op;
		// the referenced value's own words are already on the stack.
		return e.Compile(u.Value)
	}
	typ := e.Compile(u.Value)
	switch u.Op {
	case "-":
		e.ctx.Buffer.Push(nil) // 0 on top: SUB computes 0 - value
		e.ctx.Buffer.Append(vm.SUB)
	case "!":
		e.ctx.Buffer.Append(vm.ISZERO)
	default:
		invariant(false, "E0900", "unsupported unary operator %q", u.Op)
	}
	return typ
}

func (e *ExpressionCompiler) compileBinary(b *ast.BinaryExpr) CGType {
	// Right is evaluated first so Left ends up on top: SUB, DIV, MOD, LT
	// and GT take their left operand from the top of the stack.
	e.Compile(b.Right)
	leftType := e.Compile(b.Left)
	op, negate, resultType := binaryOpcode(b.Op, leftType)
	e.ctx.Buffer.Append(op)
	if negate {
		e.ctx.Buffer.Append(vm.ISZERO)
	}
	return resultType
}

// binaryOpcode returns the opcode implementing op, whether its result
// must be negated with a trailing ISZERO (used for the two comparisons
// that have no single dedicated EVM opcode), and the result type.
func binaryOpcode(op string, operandType CGType) (vm.OpCode, bool, CGType) {
	boolType := scalarTypes["Bool"]
	switch op {
	case "+":
		return vm.ADD, false, operandType
	case "-":
		return vm.SUB, false, operandType
	case "*":
		return vm.MUL, false, operandType
	case "/":
		return vm.DIV, false, operandType
	case "%":
		return vm.MOD, false, operandType
	case "==":
		return vm.EQ, false, boolType
	case "!=":
		return vm.EQ, true, boolType
	case "<":
		return vm.LT, false, boolType
	case ">":
		return vm.GT, false, boolType
	case "<=":
		return vm.GT, true, boolType
	case ">=":
		return vm.LT, true, boolType
	case "&&":
		return vm.AND, false, boolType
	case "||":
		return vm.OR, false, boolType
	default:
		invariant(false, "E0900", "unsupported binary operator %q", op)
		return 0, false, CGType{}
	}
}

func (e *ExpressionCompiler) compileFieldAccess(f *ast.FieldAccessExpr) CGType {
	slot, ok := e.ctx.StorageSlot(f.Field)
	invariant(ok, "E0900", "field access to unknown storage slot %q", f.Field)
	e.ctx.Buffer.Push(wordBytes(big.NewInt(int64(slot))))
	e.ctx.Buffer.Append(vm.SLOAD)
	return scalarTypes["U256"]
}

// compileIndex lowers a keyed storage read (e.g. State.balances[owner])
// by hashing the key together with the base slot (emitMappingSlotHash).
func (e *ExpressionCompiler) compileIndex(ix *ast.IndexExpr) CGType {
	field, ok := ix.Target.(*ast.FieldAccessExpr)
	invariant(ok, "E0900", "indexed storage access target must be a field access")
	slot, ok := e.ctx.StorageSlot(field.Field)
	invariant(ok, "E0900", "indexed access to unknown storage slot %q", field.Field)

	e.Compile(ix.Index)
	e.ctx.Buffer.Push(wordBytes(big.NewInt(int64(slot))))
	e.emitMappingSlotHash()
	e.ctx.Buffer.Append(vm.SLOAD)
	return scalarTypes["U256"]
}

// emitMappingSlotHash consumes [key, base_slot] and leaves
// keccak256(key . base_slot) on the stack: it writes both words to
// scratch memory and hashes that 64-byte region.
func (e *ExpressionCompiler) emitMappingSlotHash() {
	e.ctx.Buffer.Push([]byte{0x20}) // base_slot -> memory [32, 64)
	e.ctx.Buffer.Append(vm.MSTORE)
	e.ctx.Buffer.Push(nil) // key -> memory [0, 32)
	e.ctx.Buffer.Append(vm.MSTORE)
	e.ctx.Buffer.Push([]byte{0x40})
	e.ctx.Buffer.Push(nil)
	e.ctx.Buffer.Append(vm.KECCAK256)
}

func (e *ExpressionCompiler) compileTuple(t *ast.TupleExpr) CGType {
	words := 0
	for _, elem := range t.Elements {
		words += e.Compile(elem).SizeOnStack()
	}
	return CGType{Name: "Tuple", stackWords: words}
}

func (e *ExpressionCompiler) compileStructLiteral(s *ast.StructLiteralExpr) CGType {
	words := 0
	for _, field := range s.Fields {
		words += e.Compile(field.Value).SizeOnStack()
	}
	return CGType{Name: s.Name, stackWords: words}
}

// compileCall dispatches a call expression: a direct jump to a
// sibling function's entry (the supplemented "free function" feature,
// SPEC_FULL.md), or a recognized stdlib builtin such as sender()/emit(...).
func (e *ExpressionCompiler) compileCall(c *ast.CallExpr) CGType {
	name := calleeName(c.Callee)
	switch name {
	case "sender":
		e.ctx.Buffer.Append(vm.CALLER)
		return scalarTypes["Address"]
	case "emit":
		return e.compileEmit(c)
	default:
		if fn, ok := e.ctx.lookupSibling(name); ok {
			return e.compileDirectCall(fn, c.Args)
		}
		invariant(false, "E0900", "call to unresolved function %q reached codegen", name)
		return CGType{}
	}
}

func calleeName(callee ast.Expr) string {
	switch c := callee.(type) {
	case *ast.IdentExpr:
		return c.Name
	case *ast.CalleePath:
		if len(c.Parts) > 0 {
			return c.Parts[len(c.Parts)-1].Value
		}
	}
	return ""
}

// compileDirectCall implements the original's non-member-call path
// (SUPPLEMENTED FEATURES): push a return tag, push arguments, jump to
// the callee's entry, define the return tag. No selector matching —
// this never goes through the ABI dispatcher.
func (e *ExpressionCompiler) compileDirectCall(fn *ast.Function, args []ast.Expr) CGType {
	entryHeight := e.ctx.Buffer.Cursor()
	retTag := e.ctx.Buffer.PushNewTag()
	for _, a := range args {
		e.Compile(a)
	}
	entry := e.ctx.GetFunctionEntryLabel(fn)
	e.ctx.Buffer.AppendJumpTo(entry)
	e.ctx.Buffer.DefineTag(retTag)
	returns := functionReturnTypes(fn)
	total := 0
	for _, r := range returns {
		total += r.SizeOnStack()
	}
	// the callee consumed the return tag and the arguments and left
	// only its return words
	e.ctx.Buffer.SetCursor(entryHeight + total)
	return CGType{Name: "CallResult", stackWords: total}
}

// compileEmit lowers emit(EventStruct{...}) to a LOG1 whose single topic
// is keccak256(canonical signature), with every field ABI-encoded into
// scratch memory (SUPPLEMENTED FEATURES: event emission).
func (e *ExpressionCompiler) compileEmit(c *ast.CallExpr) CGType {
	invariant(len(c.Args) == 1, "E0900", "emit() expects exactly one struct literal argument")
	lit, ok := c.Args[0].(*ast.StructLiteralExpr)
	invariant(ok, "E0900", "emit() argument must be a struct literal")

	sig := eventSignature(lit)
	topic := selectorHash(sig)

	offset := 0
	for _, f := range lit.Fields {
		e.Compile(f.Value)
		e.ctx.Buffer.Push(wordBytes(big.NewInt(int64(offset))))
		e.ctx.Buffer.Append(vm.MSTORE)
		offset += 32
	}
	e.ctx.Buffer.Push(topic[:])
	e.ctx.Buffer.Push(wordBytes(big.NewInt(int64(offset))))
	e.ctx.Buffer.Push(nil)
	e.ctx.Buffer.Append(vm.LOG1)
	return CGType{Name: "Void"}
}

func eventSignature(lit *ast.StructLiteralExpr) string {
	parts := make([]string, len(lit.Fields))
	for i := range lit.Fields {
		parts[i] = "uint256"
	}
	return lit.Name + "(" + strings.Join(parts, ",") + ")"
}

// AppendTypeConversion emits conversion code consuming fromType's
// stack representation and producing toType's. With cleanupOnly it
// pops fromType's words. Otherwise it emits nothing: every builtin
// scalar shares a single-word untyped-integer representation on the
// stack, and no boolean normalization is done. It is kept
// as an explicit call site so widening/narrowing support has a single
// place to grow into.
func (e *ExpressionCompiler) AppendTypeConversion(from, to CGType, cleanupOnly bool) {
	if cleanupOnly {
		for i := 0; i < from.SizeOnStack(); i++ {
			e.ctx.Pop()
		}
		return
	}
	_ = to
}

// AppendStateVariableInitialization evaluates decl's initializer and
// writes it to storage.
func (e *ExpressionCompiler) AppendStateVariableInitialization(field *ast.StructField, init ast.Expr) {
	slot, ok := e.ctx.StorageSlot(field.Name.Value)
	invariant(ok, "E0900", "state variable %q has no assigned slot", field.Name.Value)
	if init != nil {
		e.Compile(init)
	} else {
		e.ctx.Buffer.Push(nil)
	}
	e.ctx.Buffer.Push(wordBytes(big.NewInt(int64(slot))))
	e.ctx.Buffer.Append(vm.SSTORE)
}

// AppendStateVariableAccessor emits a complete auto-generated getter
// for a public state variable: load the slot and RETURN its single
// word.
func (e *ExpressionCompiler) AppendStateVariableAccessor(name string) {
	slot, ok := e.ctx.StorageSlot(name)
	invariant(ok, "E0900", "accessor requested for unknown storage slot %q", name)
	e.ctx.Buffer.Push(wordBytes(big.NewInt(int64(slot))))
	e.ctx.Buffer.Append(vm.SLOAD)
	e.ctx.Buffer.Push(nil)
	e.ctx.Buffer.Append(vm.MSTORE)
	e.ctx.Buffer.Push([]byte{0x20})
	e.ctx.Buffer.Push(nil)
	e.ctx.Buffer.Append(vm.RETURN)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
