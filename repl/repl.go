// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"kanso/internal/ast"
	"kanso/internal/codegen"
	"kanso/internal/errors"
	"kanso/internal/parser"
	"kanso/internal/semantic"
)

const PROMPT = ">> "

// Start reads contract source from in one line at a time, accumulating
// into a buffer until a blank line submits it. Each submission runs the
// full pipeline — parse, analyze, compile — and prints either the
// diagnostic output or the compiled contract's hex-encoded images.
func Start(in io.Reader) {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder

	fmt.Print(PROMPT)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if buf.Len() > 0 {
				compileAndReport(buf.String())
				buf.Reset()
			}
			fmt.Print(PROMPT)
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

func compileAndReport(source string) {
	const sourceName = "<repl>"

	contract, parseErrors, scanErrors := parser.ParseSource(sourceName, source)
	reporter := errors.NewErrorReporter(sourceName, source)

	for _, e := range scanErrors {
		fmt.Println(e.Message)
	}
	for _, e := range parseErrors {
		fmt.Println(e.Message)
	}
	if contract == nil || len(parseErrors) > 0 || len(scanErrors) > 0 {
		return
	}

	analyzer := semantic.NewAnalyzer()
	analyzer.Analyze(contract)
	if semErrors := analyzer.GetErrors(); len(semErrors) > 0 {
		for _, e := range semErrors {
			fmt.Print(reporter.FormatError(e))
		}
		return
	}

	// A snippet entered alone has no siblings to inherit from; this REPL
	// is for quickly checking one contract's emitted bytecode, not
	// multi-contract linking.
	siblings := map[string]*ast.Contract{contract.Name.Value: contract}
	images, err := codegen.Compile(contract, siblings, codegen.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("creation: %s\n", hex.EncodeToString(images.Creation))
	fmt.Printf("runtime:  %s\n", hex.EncodeToString(images.Runtime))
}
