// Package assembler orchestrates the ASS pipeline: lex, encode, export.
// Grounded on original_source/src/assembler/assemble.rs.
package assembler

import (
	"os"
	"strings"

	"github.com/an0nymoos3/nid-compiler/internal/assembler/encoder"
	"github.com/an0nymoos3/nid-compiler/internal/assembler/lexer"
	"github.com/an0nymoos3/nid-compiler/internal/diag"
	"github.com/an0nymoos3/nid-compiler/internal/exporter"
)

// Result carries the output filename and the encoded words a caller
// might want for further inspection (e.g. -v listings).
type Result struct {
	OutputName string
	Words      []uint32
}

// Assemble reads filename (an .ass listing), tokenizes and encodes it,
// and writes the encoded words to an .out file next to it. stringOutput
// selects the human-readable bit-string export mode over raw binary.
func Assemble(filename string, stringOutput bool) (*Result, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, diag.New(diag.IO, diag.Position{Filename: filename}, err.Error())
	}

	tokens, err := lexer.New(string(source), filename).TokenizeAll()
	if err != nil {
		return nil, err
	}

	words, err := encoder.Encode(tokens, filename)
	if err != nil {
		return nil, err
	}

	outputName := outputNameFor(filename)

	if stringOutput {
		err = exporter.WriteString(outputName, words)
	} else {
		err = exporter.WriteBinary(outputName, words)
	}
	if err != nil {
		return nil, err
	}

	return &Result{OutputName: outputName, Words: words}, nil
}

func outputNameFor(filename string) string {
	if strings.HasSuffix(filename, ".ass") {
		return strings.TrimSuffix(filename, ".ass") + ".out"
	}
	return filename + ".out"
}
