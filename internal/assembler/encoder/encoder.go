// Package encoder turns an ASS token stream into 32-bit instruction
// words, per spec.md §4.9. Grounded on original_source/src/assembler/parser.rs
// (op_to_bin, validate_entry, convert_jumps), adapted to two explicit
// prepasses over a Go token slice instead of a mutable linked list.
package encoder

import (
	"strconv"
	"strings"

	"github.com/an0nymoos3/nid-compiler/internal/assembler/token"
	"github.com/an0nymoos3/nid-compiler/internal/diag"
)

// mnemonicOrder is the opcode table, ordered exactly as the glossary's
// "Reserved mnemonics" list followed by its "Extra mnemonics" list.
// Position in this slice is the encoded opcode value (nop=0 ... bpl=39).
// Kept in lockstep with internal/compiler/token.ReservedMnemonics and
// internal/assembler/token.Mnemonics.
var mnemonicOrder = []string{
	"nop", "ld", "ldi", "st", "psh", "pop",
	"add", "addi", "sub", "subi",
	"cmp", "cmpi", "mul", "muli", "div", "divi",
	"and", "andi", "or", "ori",
	"not", "xor", "xori", "lsr", "lsl",
	"call", "ret", "jmp", "jmpi",
	"beq", "bne", "bpr", "bnr", "bge", "blt",
	"wait", "kbd", "byk", "bmi", "bpl",
}

var opcodes = buildOpcodeTable()

func buildOpcodeTable() map[string]uint8 {
	m := make(map[string]uint8, len(mnemonicOrder))
	for i, name := range mnemonicOrder {
		m[name] = uint8(i)
	}
	return m
}

// Encode runs the entry prepass, the label-resolution prepass, and the
// encode pass, returning one 32-bit word per ASS instruction line.
func Encode(tokens []token.Token, filename string) ([]uint32, error) {
	tokens = ensureEntryPoint(tokens)
	resolved, err := resolveLabels(tokens, filename)
	if err != nil {
		return nil, err
	}
	return encodeLines(resolved, filename)
}

// ensureEntryPoint prepends `jmp, main` when execution would not otherwise
// start at main (spec.md §4.9 "entry prepass").
func ensureEntryPoint(tokens []token.Token) []token.Token {
	i := 0
	for i < len(tokens) && tokens[i].Kind == token.Eol {
		i++
	}
	if i < len(tokens) && tokens[i].Kind == token.RoutineName && tokens[i].Value == "main:" {
		return tokens
	}
	prefix := []token.Token{
		{Kind: token.Operation, Value: "jmp"},
		{Kind: token.RoutineName, Value: "main"},
		{Kind: token.Eol},
	}
	return append(prefix, tokens...)
}

// resolveLabels records each label definition's target word index, strips
// the definition tokens, and rewrites remaining RoutineName references to
// Numeric tokens carrying that index (spec.md §4.9 "label prepass").
func resolveLabels(tokens []token.Token, filename string) ([]token.Token, error) {
	// wordIdx tracks the index the next emitted instruction word will
	// occupy, mirroring encodeLines' haveOp-gated flush(): a label-only
	// line produces no word, so it must not advance the count. A label
	// resolves to wordIdx's value at the moment its definition token is
	// seen, which is exactly the index the next op-bearing line gets.
	wordIdx := 0
	lineHasOp := false
	lines := make(map[string]int)
	isDef := make([]bool, len(tokens))

	for i, t := range tokens {
		switch t.Kind {
		case token.Operation:
			lineHasOp = true
		case token.RoutineName:
			if strings.HasSuffix(t.Value, ":") {
				lines[strings.TrimSuffix(t.Value, ":")] = wordIdx
				isDef[i] = true
			}
		case token.Eol:
			if lineHasOp {
				wordIdx++
			}
			lineHasOp = false
		}
	}

	stripped := make([]token.Token, 0, len(tokens))
	for i, t := range tokens {
		if isDef[i] {
			continue
		}
		stripped = append(stripped, t)
	}

	for i, t := range stripped {
		if t.Kind != token.RoutineName {
			continue
		}
		line, ok := lines[t.Value]
		if !ok {
			return nil, diag.New(diag.Assembler, diag.Position{Filename: filename}, "undefined label "+t.Value)
		}
		stripped[i] = token.Token{Kind: token.Numeric, Value: strconv.Itoa(line)}
	}
	return stripped, nil
}

// encodeLines packs each line's fields into a 32-bit word:
// [padding=0 (4 bits)][opcode (6)][register (4, default 0)][amode (2, default 0)][constant (16, default 0)].
func encodeLines(tokens []token.Token, filename string) ([]uint32, error) {
	var words []uint32
	var opcode, reg, amode uint8
	var constant int16
	var haveOp bool

	flush := func() {
		if !haveOp {
			return
		}
		word := uint32(opcode&0x3F)<<22 | uint32(reg&0xF)<<18 | uint32(amode&0x3)<<16 | uint32(uint16(constant))
		words = append(words, word)
		opcode, reg, amode, constant, haveOp = 0, 0, 0, 0, false
	}

	for _, t := range tokens {
		switch t.Kind {
		case token.Operation:
			code, ok := opcodes[t.Value]
			if !ok {
				return nil, diag.New(diag.Assembler, diag.Position{Filename: filename}, "unknown mnemonic "+t.Value)
			}
			opcode = code
			haveOp = true
		case token.Register:
			n, err := strconv.ParseUint(t.Value, 10, 8)
			if err != nil {
				return nil, diag.New(diag.Assembler, diag.Position{Filename: filename}, "invalid register operand "+t.Value)
			}
			reg = uint8(n)
		case token.Amode:
			n, err := strconv.ParseUint(t.Value, 10, 8)
			if err != nil {
				return nil, diag.New(diag.Assembler, diag.Position{Filename: filename}, "invalid amode operand "+t.Value)
			}
			amode = uint8(n)
		case token.Numeric:
			n, err := strconv.ParseInt(t.Value, 10, 16)
			if err != nil {
				return nil, diag.New(diag.Assembler, diag.Position{Filename: filename}, "invalid numeric operand "+t.Value)
			}
			constant = int16(n)
		case token.Eol:
			flush()
		case token.RoutineName:
			return nil, diag.New(diag.Assembler, diag.Position{Filename: filename}, "unresolved routine name "+t.Value)
		default:
			return nil, diag.New(diag.Assembler, diag.Position{Filename: filename}, "unexpected token kind "+t.Kind.String())
		}
	}
	flush()
	return words, nil
}
