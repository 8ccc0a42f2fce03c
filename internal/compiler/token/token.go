// Package token defines the lexical token vocabulary for NID, the source
// language accepted by the compiler (spec.md §3).
package token

import "fmt"

// Kind is the closed set of NID token kinds.
type Kind int

const (
	Integer Kind = iota
	Floating
	String
	Char
	Bool
	Identifier
	Assignment
	OpenParen
	CloseParen
	OpenScope
	CloseScope
	ArrayAccessOpen
	ArrayAccessClose
	BinaryOperator
	Comparison
	LogicOperator
	TypeIndicator
	Loop
	Branch
	Separator
	Member
	Pointer
	Reference
	Return
	Asm
	Eol
	Eof
	Macro
	BuiltIn
)

var names = map[Kind]string{
	Integer:           "Integer",
	Floating:          "Floating",
	String:            "String",
	Char:              "Char",
	Bool:              "Bool",
	Identifier:        "Identifier",
	Assignment:        "Assignment",
	OpenParen:         "OpenParen",
	CloseParen:        "CloseParen",
	OpenScope:         "OpenScope",
	CloseScope:        "CloseScope",
	ArrayAccessOpen:   "ArrayAccessOpen",
	ArrayAccessClose:  "ArrayAccessClose",
	BinaryOperator:    "BinaryOperator",
	Comparison:        "Comparison",
	LogicOperator:     "LogicOperator",
	TypeIndicator:     "TypeIndicator",
	Loop:              "Loop",
	Branch:            "Branch",
	Separator:         "Separator",
	Member:            "Member",
	Pointer:           "Pointer",
	Reference:         "Reference",
	Return:            "Return",
	Asm:               "Asm",
	Eol:               "Eol",
	Eof:               "Eof",
	Macro:             "Macro",
	BuiltIn:           "BuiltIn",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexical token: its literal text and its kind.
type Token struct {
	Value string
	Kind  Kind
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}

// ReservedWords maps NID keywords to their token kind.
var ReservedWords = map[string]Kind{
	"void":   TypeIndicator,
	"int":    TypeIndicator,
	"float":  TypeIndicator,
	"string": TypeIndicator,
	"char":   TypeIndicator,
	"bool":   TypeIndicator,
	"true":   Bool,
	"false":  Bool,
	"if":     Branch,
	"else":   Branch,
	"while":  Loop,
	"return": Return,
	"asm":    Asm,
}

// Builtins maps NID builtin-function names to the BuiltIn token kind.
var Builtins = map[string]Kind{
	"sleep":      BuiltIn,
	"move_to":    BuiltIn,
	"is_pressed": BuiltIn,
}

// ReservedMnemonics is the table used by the parser to detect line
// boundaries inside verbatim `asm {}` blocks (spec.md §4.2): the
// glossary's ordered mnemonic table plus the extra mnemonics codegen
// emits. Kept in sync with the assembler's opcode table
// (internal/assembler/encoder).
var ReservedMnemonics = map[string]bool{
	"nop": true, "ld": true, "ldi": true, "st": true, "psh": true, "pop": true,
	"add": true, "addi": true, "sub": true, "subi": true,
	"cmp": true, "cmpi": true, "mul": true, "muli": true, "div": true, "divi": true,
	"and": true, "andi": true, "or": true, "ori": true,
	"not": true, "xor": true, "xori": true, "lsr": true, "lsl": true,
	"call": true, "ret": true, "jmp": true, "jmpi": true,
	"beq": true, "bne": true, "bpr": true, "bnr": true, "bge": true, "blt": true,
	"wait": true, "kbd": true, "byk": true, "bmi": true, "bpl": true,
}
