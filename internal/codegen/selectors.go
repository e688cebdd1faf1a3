package codegen

import (
	"strings"

	"kanso/internal/ast"

	"github.com/ethereum/go-ethereum/crypto"
)

// selectorHash returns keccak256(signature), the same call
// ARR4N-specops's PUSHSelector uses; callers take either the first
// four bytes (function selectors) or the full 32 bytes (event topics).
func selectorHash(signature string) [32]byte {
	return [32]byte(crypto.Keccak256([]byte(signature)))
}

// selector4 returns the 4-byte function selector for signature,
// computed directly since the AST here carries only the raw
// declaration, not a precomputed selector.
func selector4(signature string) [4]byte {
	h := selectorHash(signature)
	var sel [4]byte
	copy(sel[:], h[:4])
	return sel
}

// canonicalSignature renders fn's ABI signature, e.g.
// "transfer(address,uint256)".
func canonicalSignature(fn *ast.Function) string {
	parts := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		parts[i] = abiTypeName(resolveType(p.Type))
	}
	return fn.Name.Value + "(" + strings.Join(parts, ",") + ")"
}

func abiTypeName(t CGType) string {
	switch t.Name {
	case "U8":
		return "uint8"
	case "U16":
		return "uint16"
	case "U32":
		return "uint32"
	case "U64":
		return "uint64"
	case "U128":
		return "uint128"
	case "U256":
		return "uint256"
	case "Bool":
		return "bool"
	case "Address":
		return "address"
	case "Bytes":
		return "bytes"
	default:
		return "uint256"
	}
}

// externalInterfaceFunctions computes the set of externally callable
// functions for contract, including inherited ones, keyed by their
// 4-byte selector.
func externalInterfaceFunctions(linearization []*ast.Contract) map[[4]byte]*ast.Function {
	out := make(map[[4]byte]*ast.Function)
	// iterate least-derived first so a derived override with the same
	// signature replaces its base's entry, matching normal override
	// resolution.
	for i := len(linearization) - 1; i >= 0; i-- {
		for _, item := range linearization[i].Items {
			fn, ok := item.(*ast.Function)
			if !ok || !fn.External || fn.IsConstructor() || fn.IsFallback() {
				continue
			}
			out[selector4(canonicalSignature(fn))] = fn
		}
	}
	return out
}
