package codegen

import "kanso/internal/ast"

// Linearize computes the most-derived-first ordering of a contract
// and its transitive bases; for kanso's current
// single-contract-per-file model, callers assemble it from the
// sibling-contract registry by following each contract's Bases list.
func Linearize(contract *ast.Contract, known map[string]*ast.Contract) []*ast.Contract {
	var order []*ast.Contract
	seen := make(map[string]bool)

	var visit func(c *ast.Contract)
	visit = func(c *ast.Contract) {
		if seen[c.Name.Value] {
			return
		}
		seen[c.Name.Value] = true
		order = append(order, c)
		for _, base := range c.Bases {
			if b, ok := known[base.Name.Value]; ok {
				visit(b)
			}
		}
	}
	visit(contract)
	return order
}

// ResolveBaseConstructorArgs finds the arguments to pass to base's
// constructor: they come from the first inheritance-specifier entry
// that names this base anywhere in the derivation chain — later
// specifiers are ignored (base-first wins). The scan walks the linearization from
// most-derived to least-derived (derived-to-base), checking each
// contract's own Bases list and, for the contract whose constructor is
// compiling, its constructor's Modifiers list (which doubles as a
// base-constructor invocation list per ast.Function.Modifiers' doc).
func ResolveBaseConstructorArgs(base *ast.Contract, linearization []*ast.Contract) []ast.Expr {
	for _, c := range linearization {
		for _, spec := range c.Bases {
			if spec.Name.Value == base.Name.Value {
				return spec.Args
			}
		}
		for _, item := range c.Items {
			fn, ok := item.(*ast.Function)
			if !ok || !fn.IsConstructor() {
				continue
			}
			for _, mi := range fn.Modifiers {
				if mi.Name.Value == base.Name.Value {
					return mi.Args
				}
			}
		}
	}
	return nil
}

// findConstructor returns contract's #[create] function, if any.
func findConstructor(contract *ast.Contract) *ast.Function {
	for _, item := range contract.Items {
		if fn, ok := item.(*ast.Function); ok && fn.IsConstructor() {
			return fn
		}
	}
	return nil
}

// findFallback returns contract's #[fallback] function, if any.
func findFallback(contract *ast.Contract) *ast.Function {
	for _, item := range contract.Items {
		if fn, ok := item.(*ast.Function); ok && fn.IsFallback() {
			return fn
		}
	}
	return nil
}

// stateVariables returns a contract's #[storage]-attributed struct
// fields, in declaration order — kanso's state variables are declared
// as fields of a #[storage] struct rather than top-level declarations.
func stateVariables(contract *ast.Contract) []*ast.StructField {
	var fields []*ast.StructField
	for _, item := range contract.Items {
		s, ok := item.(*ast.Struct)
		if !ok || s.Attribute == nil || s.Attribute.Name != "storage" {
			continue
		}
		for _, fieldItem := range s.Items {
			if f, ok := fieldItem.(*ast.StructField); ok {
				fields = append(fields, f)
			}
		}
	}
	return fields
}

// functionRegistry collects every function reachable from a
// linearization, most-derived override winning, keyed by name.
func functionRegistry(linearization []*ast.Contract) map[string]*ast.Function {
	out := make(map[string]*ast.Function)
	for i := len(linearization) - 1; i >= 0; i-- {
		for _, item := range linearization[i].Items {
			if fn, ok := item.(*ast.Function); ok {
				out[fn.Name.Value] = fn
			}
		}
	}
	return out
}

// modifierRegistry collects every modifier declared anywhere in the
// linearization, keyed by name.
func modifierRegistry(linearization []*ast.Contract) map[string]*ast.Modifier {
	out := make(map[string]*ast.Modifier)
	for i := len(linearization) - 1; i >= 0; i-- {
		for _, item := range linearization[i].Items {
			if m, ok := item.(*ast.Modifier); ok {
				out[m.Name.Value] = m
			}
		}
	}
	return out
}
