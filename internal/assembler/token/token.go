// Package token defines the lexical token vocabulary for ASS, the
// assembly language produced by the compiler and consumed by the
// assembler (spec.md §3).
package token

import "fmt"

// Kind is the closed set of ASS token kinds.
type Kind int

const (
	Operation Kind = iota
	Amode
	Register
	Numeric
	RoutineName
	Eol
)

var names = map[Kind]string{
	Operation:   "Operation",
	Amode:       "Amode",
	Register:    "Register",
	Numeric:     "Numeric",
	RoutineName: "RoutineName",
	Eol:         "Eol",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single ASS lexical token.
type Token struct {
	Value string
	Kind  Kind
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}

// Mnemonics is the set of mnemonics the lexer recognizes as Operation
// tokens: the glossary's mnemonics plus the extra mnemonics codegen emits.
// It carries no opcode values; those come from the position of each name
// in internal/assembler/encoder's mnemonicOrder, which lists the same names.
var Mnemonics = map[string]bool{
	"nop": true, "ld": true, "ldi": true, "st": true, "psh": true, "pop": true,
	"add": true, "addi": true, "sub": true, "subi": true,
	"cmp": true, "cmpi": true, "mul": true, "muli": true, "div": true, "divi": true,
	"and": true, "andi": true, "or": true, "ori": true,
	"not": true, "xor": true, "xori": true, "lsr": true, "lsl": true,
	"call": true, "ret": true, "jmp": true, "jmpi": true,
	"beq": true, "bne": true, "bpr": true, "bnr": true, "bge": true, "blt": true,
	"wait": true, "kbd": true, "byk": true, "bmi": true, "bpl": true,
}
