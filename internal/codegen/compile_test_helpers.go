package codegen

import (
	"testing"

	"kanso/internal/ast"
	"kanso/internal/parser"
	"kanso/internal/semantic"
)

// parseContract parses source and fails the test on any scan or parse
// error, returning the contract for direct AST inspection or for
// compiling through Compile.
func parseContract(t *testing.T, source string) *ast.Contract {
	t.Helper()
	contract, parseErrors, scanErrors := parser.ParseSource("test.ka", source)
	if len(scanErrors) > 0 {
		t.Fatalf("scan errors: %v", scanErrors)
	}
	if len(parseErrors) > 0 {
		t.Fatalf("parse errors: %v", parseErrors)
	}
	if contract == nil {
		t.Fatal("contract is nil")
	}
	return contract
}

// analyzeContract parses and semantically analyzes source, failing the
// test on any error left after unused-variable/function warnings are
// filtered out (those are a separate concern from whether a contract
// is well-formed enough to compile).
func analyzeContract(t *testing.T, source string) *ast.Contract {
	t.Helper()
	contract := parseContract(t, source)

	analyzer := semantic.NewAnalyzer()
	errs := semantic.FilterAllUnusedErrors(analyzer.Analyze(contract))
	if len(errs) > 0 {
		t.Fatalf("semantic errors: %v", errs)
	}
	return contract
}

// compileSource runs the full parse -> analyze -> compile pipeline for
// a single, self-contained contract.
func compileSource(t *testing.T, source string) Images {
	t.Helper()
	contract := analyzeContract(t, source)

	siblings := map[string]*ast.Contract{contract.Name.Value: contract}
	images, err := Compile(contract, siblings, Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return images
}
