package codegen

import (
	"testing"

	"kanso/internal/ast"
)

func namedType(name string) *ast.VariableType {
	return &ast.VariableType{Name: ast.Ident{Value: name}}
}

func TestResolveTypeScalars(t *testing.T) {
	cases := []struct {
		name      string
		wantWords int
		wantBytes int
		wantDyn   bool
	}{
		{"U8", 1, 32, false},
		{"U256", 1, 32, false},
		{"Bool", 1, 32, false},
		{"Address", 1, 32, false},
	}
	for _, c := range cases {
		got := resolveType(namedType(c.name))
		if got.SizeOnStack() != c.wantWords {
			t.Errorf("%s: SizeOnStack() = %d, want %d", c.name, got.SizeOnStack(), c.wantWords)
		}
		if got.CalldataEncodedSize() != c.wantBytes {
			t.Errorf("%s: CalldataEncodedSize() = %d, want %d", c.name, got.CalldataEncodedSize(), c.wantBytes)
		}
		if got.IsDynamicallySized() != c.wantDyn {
			t.Errorf("%s: IsDynamicallySized() = %v, want %v", c.name, got.IsDynamicallySized(), c.wantDyn)
		}
	}
}

func TestResolveTypeNilIsVoid(t *testing.T) {
	got := resolveType(nil)
	if got.Name != "Void" {
		t.Errorf("resolveType(nil).Name = %q, want %q", got.Name, "Void")
	}
	if got.SizeOnStack() != 0 {
		t.Errorf("resolveType(nil).SizeOnStack() = %d, want 0", got.SizeOnStack())
	}
}

func TestResolveTypeBytesAndString(t *testing.T) {
	for _, name := range []string{"Bytes", "String"} {
		got := resolveType(namedType(name))
		if !got.IsDynamicallySized() {
			t.Errorf("%s should be dynamically sized", name)
		}
		if got.SizeOnStack() != 2 {
			t.Errorf("%s: SizeOnStack() = %d, want 2", name, got.SizeOnStack())
		}
	}
}

func TestResolveTypeTuple(t *testing.T) {
	vt := &ast.VariableType{
		TupleElements: []*ast.VariableType{namedType("U256"), namedType("Bool"), namedType("Address")},
	}
	got := resolveType(vt)
	if got.Name != "Tuple" {
		t.Errorf("tuple type Name = %q, want %q", got.Name, "Tuple")
	}
	if got.SizeOnStack() != 3 {
		t.Errorf("tuple SizeOnStack() = %d, want 3", got.SizeOnStack())
	}
}

func TestResolveTypeUnknownAggregate(t *testing.T) {
	got := resolveType(namedType("Transfer"))
	if got.Name != "Transfer" {
		t.Errorf("unknown aggregate Name = %q, want %q", got.Name, "Transfer")
	}
	if got.SizeOnStack() != 1 {
		t.Errorf("unknown aggregate SizeOnStack() = %d, want 1", got.SizeOnStack())
	}
}

func TestFunctionReturnTypesUnwrapsTuple(t *testing.T) {
	fn := &ast.Function{
		Return: &ast.VariableType{
			TupleElements: []*ast.VariableType{namedType("U256"), namedType("U256")},
		},
	}
	returns := functionReturnTypes(fn)
	if len(returns) != 2 {
		t.Fatalf("functionReturnTypes returned %d types, want 2", len(returns))
	}
	for _, r := range returns {
		if r.Name != "U256" {
			t.Errorf("return element Name = %q, want %q", r.Name, "U256")
		}
	}
}

func TestFunctionReturnTypesNilReturn(t *testing.T) {
	fn := &ast.Function{}
	if returns := functionReturnTypes(fn); returns != nil {
		t.Errorf("functionReturnTypes(no return) = %v, want nil", returns)
	}
}

func TestFunctionParamTypes(t *testing.T) {
	fn := &ast.Function{
		Params: []*ast.FunctionParam{
			{Name: ast.Ident{Value: "owner"}, Type: namedType("Address")},
			{Name: ast.Ident{Value: "amount"}, Type: namedType("U256")},
		},
	}
	params := functionParamTypes(fn)
	if len(params) != 2 || params[0].Name != "Address" || params[1].Name != "U256" {
		t.Errorf("functionParamTypes() = %v, want [Address U256]", params)
	}
}
