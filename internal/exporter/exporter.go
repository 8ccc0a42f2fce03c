// Package exporter writes compiler and assembler output to disk: ASS
// listings as plain text, and encoded ASS words as either raw binary or a
// human-readable bit-string file (spec.md §4.10). Grounded on
// original_source/compiler/src/compiler/exporter.rs (write_to_file) and
// original_source/src/assembler/exporter.rs (write_as_bin/write_as_str).
package exporter

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/an0nymoos3/nid-compiler/internal/diag"
)

// WriteAssembly writes an ASS listing, one instruction per line.
func WriteAssembly(filename string, lines []string) error {
	f, err := os.Create(filename)
	if err != nil {
		return diag.New(diag.IO, diag.Position{Filename: filename}, err.Error())
	}
	defer f.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return diag.New(diag.IO, diag.Position{Filename: filename}, err.Error())
		}
	}
	return nil
}

// WriteBinary writes each encoded word as 4 little-endian bytes.
func WriteBinary(filename string, words []uint32) error {
	f, err := os.Create(filename)
	if err != nil {
		return diag.New(diag.IO, diag.Position{Filename: filename}, err.Error())
	}
	defer f.Close()

	buf := make([]byte, 4)
	for _, w := range words {
		binary.LittleEndian.PutUint32(buf, w)
		if _, err := f.Write(buf); err != nil {
			return diag.New(diag.IO, diag.Position{Filename: filename}, err.Error())
		}
	}
	return nil
}

// WriteString writes each encoded word as a 32-character binary literal,
// all concatenated with no separators, per spec.md's "string output" mode.
func WriteString(filename string, words []uint32) error {
	var sb strings.Builder
	for _, w := range words {
		fmt.Fprintf(&sb, "%032b", w)
	}

	f, err := os.Create(filename)
	if err != nil {
		return diag.New(diag.IO, diag.Position{Filename: filename}, err.Error())
	}
	defer f.Close()

	if _, err := f.WriteString(sb.String()); err != nil {
		return diag.New(diag.IO, diag.Position{Filename: filename}, err.Error())
	}
	return nil
}
