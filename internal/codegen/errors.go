package codegen

import (
	"fmt"

	"kanso/internal/ast"
	"kanso/internal/errors"
)

// CodegenError reports a violated internal invariant: codegen treats
// its AST input as already validated upstream, so every failure here
// is a compiler bug, not a user-facing diagnostic.
type CodegenError struct {
	Code     string
	Message  string
	Position ast.Position
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// AsCompilerError renders a CodegenError through the shared
// errors.ErrorReporter formatting used for every other compiler phase.
func (e *CodegenError) AsCompilerError() errors.CompilerError {
	return errors.CompilerError{
		Level:    errors.Error,
		Code:     e.Code,
		Message:  e.Message,
		Position: e.Position,
	}
}

// invariant panics with a CodegenError if cond is false. There is no
// recovery path within this package: callers at the package boundary
// (Compile, and test helpers) recover the panic and turn it back into
// an error value or a test failure.
func invariant(cond bool, code, format string, args ...any) {
	if !cond {
		panic(&CodegenError{Code: code, Message: fmt.Sprintf(format, args...)})
	}
}

// Recover turns a panicking CodegenError into a returned error. Any
// other panic value is re-raised: codegen only expects to recover its
// own invariant violations, not arbitrary runtime faults.
func Recover(err *error) {
	if r := recover(); r != nil {
		if ce, ok := r.(*CodegenError); ok {
			*err = ce
			return
		}
		panic(r)
	}
}
