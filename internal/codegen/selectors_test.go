package codegen

import (
	"testing"

	"kanso/internal/ast"
)

func contractFunctions(contract *ast.Contract) []*ast.Function {
	var out []*ast.Function
	for _, item := range contract.Items {
		if fn, ok := item.(*ast.Function); ok {
			out = append(out, fn)
		}
	}
	return out
}

func TestCanonicalSignature(t *testing.T) {
	contract := analyzeContract(t, `contract Token {
    #[storage]
    struct State {
        balances: Table<Address, U256>,
    }

    ext fn transfer(to: Address, amount: U256) -> Bool writes State {
        true
    }

    ext fn balanceOf(owner: Address) -> U256 reads State {
        State.balances[owner]
    }

    ext fn totalSupply() -> U256 reads State {
        0
    }
}`)

	want := map[string]string{
		"transfer":    "transfer(address,uint256)",
		"balanceOf":   "balanceOf(address)",
		"totalSupply": "totalSupply()",
	}
	for _, fn := range contractFunctions(contract) {
		w, ok := want[fn.Name.Value]
		if !ok {
			continue
		}
		got := canonicalSignature(fn)
		if got != w {
			t.Errorf("canonicalSignature(%s) = %q, want %q", fn.Name.Value, got, w)
		}
	}
}

func TestSelector4KnownValues(t *testing.T) {
	cases := map[string][4]byte{
		"transfer(address,uint256)": {0xa9, 0x05, 0x9c, 0xbb},
		"balanceOf(address)":        {0x70, 0xa0, 0x82, 0x31},
		"totalSupply()":             {0x18, 0x16, 0x0d, 0xdd},
	}
	for sig, want := range cases {
		got := selector4(sig)
		if got != want {
			t.Errorf("selector4(%q) = %x, want %x", sig, got, want)
		}
	}
}

// TestExternalInterfaceFunctionsOverrideResolution confirms a derived
// contract's override of a base's external function replaces the
// base's entry in the selector map, since both share the same
// canonical signature and therefore the same selector.
func TestExternalInterfaceFunctionsOverrideResolution(t *testing.T) {
	base := analyzeContract(t, `contract Base {
    #[storage]
    struct BaseState {
        value: U256,
    }

    ext fn get() -> U256 reads BaseState {
        BaseState.value
    }
}`)

	derived := analyzeContract(t, `contract Derived is Base {
    #[storage]
    struct DerivedState {
        value: U256,
    }

    ext fn get() -> U256 reads DerivedState {
        DerivedState.value
    }
}`)

	known := map[string]*ast.Contract{
		base.Name.Value:    base,
		derived.Name.Value: derived,
	}
	linearization := Linearize(derived, known)

	iface := externalInterfaceFunctions(linearization)
	sel := selector4(canonicalSignature(contractFunctions(derived)[0]))
	fn, ok := iface[sel]
	if !ok {
		t.Fatal("expected get() selector in interface map")
	}
	if fn != contractFunctions(derived)[0] {
		t.Error("override resolution should pick the derived contract's get(), not the base's")
	}
}
