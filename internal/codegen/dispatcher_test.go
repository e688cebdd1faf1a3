package codegen

import "testing"

// wantWords sums typ.SizeOnStack() over types, the number of words
// unpackCalldataArgs must leave behind with nothing extra: the
// function-entry calling convention has no room for leftover
// bookkeeping values ahead of the JUMP.
func wantWords(types []CGType) int {
	total := 0
	for _, t := range types {
		total += t.SizeOnStack()
	}
	return total
}

// TestUnpackCalldataArgsLeavesExactParamWords exercises
// unpackCalldataArgs across the parameter shapes a flat
// per-parameter offset advance gets wrong: two dynamic parameters in
// a row, and a static parameter following a dynamic one. In both
// cases the running calldata cursor this function maintains must be
// popped once at the end, leaving exactly the parameters' own words
// on the stack and nothing else.
func TestUnpackCalldataArgsLeavesExactParamWords(t *testing.T) {
	cases := []struct {
		name  string
		types []CGType
	}{
		{"no dynamic params", []CGType{scalarTypes["U256"], scalarTypes["Address"]}},
		{"single trailing dynamic param", []CGType{scalarTypes["Address"], DynamicBytesType}},
		{"two dynamic params", []CGType{DynamicBytesType, DynamicBytesType}},
		{"static param after a dynamic one", []CGType{DynamicBytesType, scalarTypes["U256"]}},
		{"dynamic, static, dynamic", []CGType{DynamicBytesType, scalarTypes["Address"], DynamicBytesType}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx := NewCompilerContext()
			unpackCalldataArgs(ctx, c.types)

			want := wantWords(c.types)
			if got := ctx.Buffer.Cursor(); got != want {
				t.Errorf("cursor after unpackCalldataArgs = %d, want %d (sum of param words)", got, want)
			}
		})
	}
}

// TestUnpackCalldataArgsDynamicHeaderSlotsByDynamicIndex confirms a
// dynamic parameter's length header is addressed by its position
// among dynamic parameters only, not by its position among all
// parameters: with a static parameter sitting between two dynamic
// ones, the second dynamic parameter's header slot must still be
// right after the first one's (4 + 32), not shifted out by the
// static parameter's own calldata slot.
func TestUnpackCalldataArgsDynamicHeaderSlotsByDynamicIndex(t *testing.T) {
	types := []CGType{DynamicBytesType, scalarTypes["Address"], DynamicBytesType}

	ctx := NewCompilerContext()
	unpackCalldataArgs(ctx, types)

	// The second dynamic parameter's header lives at 4 + 1*32 = 36,
	// right after the first one's, regardless of the Address parameter
	// sitting between them in declaration order.
	wantHeaderSlot := wordBytesInt(36)
	if !hasPush(ctx.Buffer, wantHeaderSlot) {
		t.Errorf("expected a push of the second dynamic parameter's header slot (36), found none")
	}
}

func hasPush(b *Buffer, want []byte) bool {
	for _, it := range b.items {
		if it.kind == itemPushBytes && bytesEqual(it.bytes, want) {
			return true
		}
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
