package codegen

import "kanso/internal/ast"

// CGType describes the codegen-relevant shape of a value's type: how
// many stack words it occupies, how many bytes it takes in calldata,
// and whether that calldata encoding is dynamically sized. It mirrors
// the type-descriptor contract the ExpressionCompiler collaborator is
// assumed to expose (getSizeOnStack/getCalldataEncodedSize/isDynamicallySized),
// scoped down to what the current builtin type set actually needs.
type CGType struct {
	Name          string
	stackWords    int
	calldataBytes int
	dynamic       bool
}

func (t CGType) SizeOnStack() int          { return t.stackWords }
func (t CGType) CalldataEncodedSize() int  { return t.calldataBytes }
func (t CGType) IsDynamicallySized() bool  { return t.dynamic }

var scalarTypes = map[string]CGType{
	"U8":      {Name: "U8", stackWords: 1, calldataBytes: 32},
	"U16":     {Name: "U16", stackWords: 1, calldataBytes: 32},
	"U32":     {Name: "U32", stackWords: 1, calldataBytes: 32},
	"U64":     {Name: "U64", stackWords: 1, calldataBytes: 32},
	"U128":    {Name: "U128", stackWords: 1, calldataBytes: 32},
	"U256":    {Name: "U256", stackWords: 1, calldataBytes: 32},
	"Bool":    {Name: "Bool", stackWords: 1, calldataBytes: 32},
	"Address": {Name: "Address", stackWords: 1, calldataBytes: 32},
}

// DynamicBytesType is the only dynamically-sized type codegen currently
// recognizes: a (offset, length) pair on the stack, and the ABI's older
// "first word is the length, not an offset" calldata representation.
var DynamicBytesType = CGType{Name: "Bytes", stackWords: 2, dynamic: true}

// resolveType maps an AST variable type to its codegen type descriptor.
// Tuples occupy the sum of their elements' stack words and are never
// dynamically sized on their own (no element type is dynamic today).
func resolveType(vt *ast.VariableType) CGType {
	if vt == nil {
		return CGType{Name: "Void"}
	}
	if len(vt.TupleElements) > 0 {
		words := 0
		for _, elem := range vt.TupleElements {
			words += resolveType(elem).SizeOnStack()
		}
		return CGType{Name: "Tuple", stackWords: words}
	}
	if vt.Name.Value == "Bytes" || vt.Name.Value == "String" {
		return DynamicBytesType
	}
	if t, ok := scalarTypes[vt.Name.Value]; ok {
		return t
	}
	// Structs and any other aggregate not recognized above are treated as
	// a single storage-style reference word; the ExpressionCompiler
	// collaborator owns their actual field-by-field layout.
	return CGType{Name: vt.Name.Value, stackWords: 1}
}

// functionParamTypes resolves the CGTypes of a function's parameters,
// in declaration order.
func functionParamTypes(fn *ast.Function) []CGType {
	types := make([]CGType, len(fn.Params))
	for i, p := range fn.Params {
		types[i] = resolveType(p.Type)
	}
	return types
}

// functionReturnTypes resolves the CGTypes of a function's return values.
// Kanso functions declare at most one Return VariableType, which may
// itself be a tuple type standing in for multiple return values.
func functionReturnTypes(fn *ast.Function) []CGType {
	if fn.Return == nil {
		return nil
	}
	if len(fn.Return.TupleElements) > 0 {
		types := make([]CGType, len(fn.Return.TupleElements))
		for i, elem := range fn.Return.TupleElements {
			types[i] = resolveType(elem)
		}
		return types
	}
	return []CGType{resolveType(fn.Return)}
}
