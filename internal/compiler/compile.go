// Package compiler orchestrates the NID pipeline: lex, parse, resolve,
// generate ASS, write to disk. Grounded on
// original_source/compiler/src/compiler/compile.rs.
package compiler

import (
	"os"
	"strings"

	"github.com/an0nymoos3/nid-compiler/internal/compiler/ast"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/codegen"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/lexer"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/parser"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/resolve"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/token"
	"github.com/an0nymoos3/nid-compiler/internal/diag"
	"github.com/an0nymoos3/nid-compiler/internal/exporter"
	"github.com/an0nymoos3/nid-compiler/internal/hwconf"
)

// Result carries everything a caller might want out of a compilation:
// the token stream and parsed AST (for -v's three-stage trace, matching
// original_source/compiler/src/compiler/compile.rs), the emitted ASS
// listing, and the filename it was written to.
type Result struct {
	OutputName string
	Tokens     []token.Token
	Program    *ast.Program
	Lines      []string
}

// Compile reads filename, lexes, parses, resolves identities, lowers to
// ASS, and writes the listing next to the source with a `.ass` extension.
func Compile(filename string, hw *hwconf.Hardware) (*Result, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, diag.New(diag.IO, diag.Position{Filename: filename}, err.Error())
	}

	tokens, err := lexer.New(string(source), filename).TokenizeAll()
	if err != nil {
		return nil, err
	}

	prog, err := parser.New(tokens, filename).Parse()
	if err != nil {
		return nil, err
	}

	if err := resolve.Resolve(prog); err != nil {
		return nil, err
	}

	lines, err := codegen.GenerateProgram(prog, hw, filename)
	if err != nil {
		return nil, err
	}

	outputName := outputNameFor(filename)
	if err := exporter.WriteAssembly(outputName, lines); err != nil {
		return nil, err
	}

	return &Result{OutputName: outputName, Tokens: tokens, Program: prog, Lines: lines}, nil
}

func outputNameFor(filename string) string {
	if strings.HasSuffix(filename, ".nid") {
		return strings.TrimSuffix(filename, ".nid") + ".ass"
	}
	return filename + ".ass"
}
