package codegen

import (
	"github.com/ethereum/go-ethereum/core/vm"
)

// Tag is a forward-reference label in an AssemblyBuffer, resolved to a
// byte offset at finalization.
type Tag int

// itemKind distinguishes the handful of abstract assembly items an
// AssemblyBuffer can hold: instructions, literal pushes, tag
// references, tag definitions, and subroutine references.
type itemKind int

const (
	itemOp itemKind = iota
	itemPushBytes
	itemTagDef
	itemPushTag
	itemSubroutineRef
)

// item is one entry of an AssemblyBuffer. Only the fields relevant to
// its kind are populated.
type item struct {
	kind  itemKind
	op    vm.OpCode
	bytes []byte  // itemPushBytes literal payload, big-endian, no leading-zero trim beyond byte width
	tag   Tag     // itemTagDef / itemPushTag
	sub   *Buffer // itemSubroutineRef: the embedded buffer
}

// stackDelta reports how many words item leaves on the stack net of
// words it consumes; this is what drives the StackHeightCursor.
func (it item) stackDelta() int {
	switch it.kind {
	case itemPushBytes, itemPushTag:
		return 1
	case itemSubroutineRef:
		// pushes the subroutine's code offset and size: two words.
		return 2
	case itemOp:
		return opStackDelta(it.op)
	default:
		return 0
	}
}

// opStackDelta returns the net stack effect of a plain opcode. Only
// opcodes this package actually emits are covered; anything else
// defaults to 0, which is safe for the fixed, closed opcode
// vocabulary this package emits.
func opStackDelta(op vm.OpCode) int {
	switch {
	case op >= vm.DUP1 && op <= vm.DUP16:
		return 1
	case op >= vm.SWAP1 && op <= vm.SWAP16:
		return 0
	}
	switch op {
	case vm.POP:
		return -1
	case vm.EQ, vm.ADD, vm.DIV, vm.MUL, vm.SUB, vm.MOD, vm.LT, vm.GT, vm.AND, vm.OR, vm.SHL, vm.SHR:
		return -1
	case vm.ISZERO, vm.NOT:
		return 0
	case vm.JUMP:
		return -1
	case vm.JUMPI:
		return -2
	case vm.JUMPDEST:
		return 0
	case vm.CODECOPY:
		return -3
	case vm.RETURN, vm.REVERT:
		return -2
	case vm.STOP:
		return 0
	case vm.SLOAD:
		return 0
	case vm.SSTORE:
		return -2
	case vm.MLOAD:
		return 0
	case vm.MSTORE:
		return -2
	case vm.CALLDATALOAD:
		return 0
	case vm.CALLDATASIZE, vm.CALLDATACOPY:
		if op == vm.CALLDATACOPY {
			return -3
		}
		return 1
	case vm.KECCAK256:
		return -1
	case vm.CALLER:
		return 1
	case vm.LOG0:
		return -2
	case vm.LOG1:
		return -3
	case vm.LOG2:
		return -4
	case vm.LOG3:
		return -5
	case vm.LOG4:
		return -6
	default:
		return 0
	}
}

// Buffer is an append-only sequence of abstract assembly items plus
// the cursor that tracks the static stack height after each append.
// Modeled after geas's compilerProg/compilerSection pair, simplified
// to a single flat section per image since codegen never needs
// nested macro scopes.
type Buffer struct {
	items  []item
	cursor int
	tags   map[Tag]int // resolved tag -> item index, filled in as tags are defined
	nextID Tag
}

// NewBuffer creates an empty AssemblyBuffer.
func NewBuffer() *Buffer {
	return &Buffer{tags: make(map[Tag]int)}
}

// Cursor returns the current StackHeightCursor value.
func (b *Buffer) Cursor() int { return b.cursor }

// SetCursor forcibly overrides the cursor, used after an opaque stack
// manipulation such as a callee returning an already-reshuffled
// frame.
func (b *Buffer) SetCursor(n int) { b.cursor = n }

// Append emits one opcode item and updates the cursor by its arity.
func (b *Buffer) Append(op vm.OpCode) {
	it := item{kind: itemOp, op: op}
	b.items = append(b.items, it)
	b.cursor += it.stackDelta()
}

// Push emits a literal push of the given big-endian bytes (no
// superfluous leading zero byte beyond what the value needs). The bytes
// are stored as given, with no check of the 32-byte limit; PUSH0 is
// used for an empty/zero value the same way go-ethereum's PUSH0
// constant is used in ARR4N-specops.
func (b *Buffer) Push(value []byte) {
	b.items = append(b.items, item{kind: itemPushBytes, bytes: value})
	b.cursor++
}

// NewTag allocates a fresh forward-reference label without defining
// it yet.
func (b *Buffer) NewTag() Tag {
	b.nextID++
	return b.nextID
}

// PushNewTag allocates a tag and immediately emits a push referencing
// it (its value is resolved to a byte offset at finalization).
func (b *Buffer) PushNewTag() Tag {
	t := b.NewTag()
	b.items = append(b.items, item{kind: itemPushTag, tag: t})
	b.cursor++
	return t
}

// PushTag emits a push of an already-allocated tag.
func (b *Buffer) PushTag(t Tag) {
	b.items = append(b.items, item{kind: itemPushTag, tag: t})
	b.cursor++
}

// DefineTag marks the current position as the definition site of t.
// JUMPDEST is emitted to make the target a valid jump destination.
func (b *Buffer) DefineTag(t Tag) {
	b.items = append(b.items, item{kind: itemOp, op: vm.JUMPDEST})
	b.tags[t] = len(b.items) - 1
}

// AppendJumpTo emits a push of tag followed by JUMP.
func (b *Buffer) AppendJumpTo(t Tag) {
	b.PushTag(t)
	b.Append(vm.JUMP)
}

// AppendConditionalJump allocates a tag, emits JUMPI to it, and
// returns the tag for later definition.
func (b *Buffer) AppendConditionalJump() Tag {
	t := b.NewTag()
	b.PushTag(t)
	b.Append(vm.JUMPI)
	return t
}

// AppendConditionalJumpTo emits a push of an already-allocated tag
// followed by JUMPI.
func (b *Buffer) AppendConditionalJumpTo(t Tag) {
	b.PushTag(t)
	b.Append(vm.JUMPI)
}

// AddSubroutine embeds other as code-data within b: at finalization,
// other's bytes are appended after b's own code, and this item
// resolves to two words on the stack — the subroutine's deployed
// offset and its size.
func (b *Buffer) AddSubroutine(other *Buffer) {
	b.items = append(b.items, item{kind: itemSubroutineRef, sub: other})
	b.cursor += 2
}

// Finalize resolves every tag reference to a byte offset and produces
// the final linear byte sequence. Subroutine items are laid out after
// the buffer's own instructions, depth-first, matching how the
// creation image embeds the runtime image as trailing code-data.
func (b *Buffer) Finalize() ([]byte, error) {
	pcOf, subOffsets, subBytes, err := b.layout()
	if err != nil {
		return nil, err
	}

	// Tag and subroutine pushes are always PUSH32, the fixed width layout
	// reserves for them before any offset is known.
	encodeWidePush := func(n int) []byte {
		word := make([]byte, 32)
		v := be32(n)
		copy(word[32-len(v):], v)
		return append([]byte{byte(vm.PUSH32)}, word...)
	}

	var out []byte
	for _, it := range b.items {
		switch it.kind {
		case itemOp:
			out = append(out, byte(it.op))
		case itemPushBytes:
			out = append(out, encodePush(it.bytes)...)
		case itemPushTag:
			off, ok := pcOf[it.tag]
			if !ok {
				return nil, &CodegenError{Code: "E0901", Message: "tag referenced but never defined"}
			}
			out = append(out, encodeWidePush(off)...)
		case itemSubroutineRef:
			offBytes, szBytes := subOffsets[it.sub], subBytes[it.sub]
			out = append(out, encodeWidePush(offBytes)...)
			out = append(out, encodeWidePush(szBytes)...)
		}
	}
	for _, sub := range b.subroutineOrder() {
		subBytesEnc, err := sub.Finalize()
		if err != nil {
			return nil, err
		}
		out = append(out, subBytesEnc...)
	}
	return out, nil
}

// layout performs the single forward pass (cf. geas's computePC) that
// assigns a byte offset to every item and to every embedded
// subroutine. A literal push takes its minimal byte width plus the
// 1-byte opcode; a tag or subroutine push always takes a PUSH32 (33
// bytes), so no offset has to be known before it is placed.
func (b *Buffer) layout() (pcOf map[Tag]int, subOffset, subSize map[*Buffer]int, err error) {
	pcOf = make(map[Tag]int)
	subOffset = make(map[*Buffer]int)
	subSize = make(map[*Buffer]int)

	pcAtIndex := make([]int, len(b.items))
	pc := 0
	for i, it := range b.items {
		pcAtIndex[i] = pc
		switch it.kind {
		case itemOp:
			pc++
		case itemPushBytes:
			pc += 1 + pushSize(it.bytes)
		case itemPushTag:
			pc += 1 + 32
		case itemSubroutineRef:
			pc += 2 * (1 + 32)
		}
	}
	for t, idx := range b.tags {
		pcOf[t] = pcAtIndex[idx]
	}

	runtimeEnd := pc
	for _, sub := range b.subroutineOrder() {
		subOffset[sub] = runtimeEnd
		bytes, ferr := sub.Finalize()
		if ferr != nil {
			return nil, nil, nil, ferr
		}
		subSize[sub] = len(bytes)
		runtimeEnd += len(bytes)
	}
	return pcOf, subOffset, subSize, nil
}

func (b *Buffer) subroutineOrder() []*Buffer {
	var subs []*Buffer
	seen := make(map[*Buffer]bool)
	for _, it := range b.items {
		if it.kind == itemSubroutineRef && !seen[it.sub] {
			seen[it.sub] = true
			subs = append(subs, it.sub)
		}
	}
	return subs
}

func pushSize(data []byte) int {
	if len(data) == 0 {
		return 0 // PUSH0
	}
	return len(data)
}

// encodePush emits the minimal PUSH0..PUSH32 opcode for data's width
// followed by the literal bytes, using vm.PUSH0's contiguous
// numbering with PUSH1..PUSH32 (see ARR4N-specops's
// BytecoderFromStackPusher for the same arithmetic).
func encodePush(data []byte) []byte {
	n := pushSize(data)
	op := byte(vm.PUSH0) + byte(n)
	return append([]byte{op}, data...)
}

func be32(n int) []byte {
	out := make([]byte, 0, 4)
	v := uint32(n)
	for shift := 24; shift >= 0; shift -= 8 {
		bt := byte(v >> uint(shift))
		if bt != 0 || len(out) > 0 {
			out = append(out, bt)
		}
	}
	if len(out) == 0 {
		return nil // represented as PUSH0
	}
	return out
}
