package codegen

import (
	"testing"

	"kanso/internal/ast"
)

func TestLinearizeOrdersMostDerivedFirst(t *testing.T) {
	grandparent := analyzeContract(t, `contract A {
    #[storage]
    struct AState {
        value: U256,
    }
}`)
	parent := analyzeContract(t, `contract B is A {
    #[storage]
    struct BState {
        value: U256,
    }
}`)
	child := analyzeContract(t, `contract C is B {
    #[storage]
    struct CState {
        value: U256,
    }
}`)

	known := map[string]*ast.Contract{
		grandparent.Name.Value: grandparent,
		parent.Name.Value:      parent,
		child.Name.Value:       child,
	}

	order := Linearize(child, known)
	if len(order) != 3 {
		t.Fatalf("Linearize returned %d contracts, want 3", len(order))
	}
	want := []string{"C", "B", "A"}
	for i, name := range want {
		if order[i].Name.Value != name {
			t.Errorf("order[%d] = %s, want %s", i, order[i].Name.Value, name)
		}
	}
}

func TestLinearizeDedupesDiamond(t *testing.T) {
	root := analyzeContract(t, `contract Root {
    #[storage]
    struct RootState {
        value: U256,
    }
}`)
	left := analyzeContract(t, `contract Left is Root {
    #[storage]
    struct LeftState {
        value: U256,
    }
}`)
	right := analyzeContract(t, `contract Right is Root {
    #[storage]
    struct RightState {
        value: U256,
    }
}`)
	diamond := analyzeContract(t, `contract Diamond is Left, Right {
    #[storage]
    struct DiamondState {
        value: U256,
    }
}`)

	known := map[string]*ast.Contract{
		root.Name.Value:    root,
		left.Name.Value:    left,
		right.Name.Value:   right,
		diamond.Name.Value: diamond,
	}

	order := Linearize(diamond, known)
	seen := map[string]int{}
	for _, c := range order {
		seen[c.Name.Value]++
	}
	if seen["Root"] != 1 {
		t.Errorf("Root should appear exactly once in linearization, got %d", seen["Root"])
	}
	if len(order) != 4 {
		t.Errorf("Linearize returned %d contracts, want 4", len(order))
	}
}

func TestResolveBaseConstructorArgsBaseFirstWins(t *testing.T) {
	base := analyzeContract(t, `contract Base {
    #[storage]
    struct BaseState {
        value: U256,
    }

    #[create]
    fn create(v: U256) writes BaseState {
        BaseState.value = v;
    }
}`)
	mid := analyzeContract(t, `contract Mid is Base {
    #[storage]
    struct MidState {
        value: U256,
    }

    #[create]
    fn create() writes MidState Base(1) {
        MidState.value = 0;
    }
}`)
	top := analyzeContract(t, `contract Top is Mid {
    #[storage]
    struct TopState {
        value: U256,
    }

    #[create]
    fn create() writes TopState Base(2) {
        TopState.value = 0;
    }
}`)

	known := map[string]*ast.Contract{
		base.Name.Value: base,
		mid.Name.Value:  mid,
		top.Name.Value:  top,
	}
	linearization := Linearize(top, known)

	args := ResolveBaseConstructorArgs(base, linearization)
	if len(args) != 1 {
		t.Fatalf("ResolveBaseConstructorArgs returned %d args, want 1", len(args))
	}
	lit, ok := args[0].(*ast.LiteralExpr)
	if !ok {
		t.Fatalf("expected a literal arg, got %T", args[0])
	}
	if lit.Value != "2" {
		t.Errorf("ResolveBaseConstructorArgs picked %q, want the most-derived specifier's arg %q", lit.Value, "2")
	}
}
