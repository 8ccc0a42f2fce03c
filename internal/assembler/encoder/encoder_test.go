package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/an0nymoos3/nid-compiler/internal/assembler/encoder"
	"github.com/an0nymoos3/nid-compiler/internal/assembler/lexer"
)

func encode(t *testing.T, src string) []uint32 {
	t.Helper()
	toks, err := lexer.New(src, "test.ass").TokenizeAll()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	words, err := encoder.Encode(toks, "test.ass")
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	return words
}

func TestEncodeNop(t *testing.T) {
	words := encode(t, "main:\nnop\n")
	if len(words) != 1 || words[0] != 0 {
		t.Fatalf("expected single zero word, got %v", words)
	}
}

func TestEncodeLoadImmediate(t *testing.T) {
	words := encode(t, "main:\nldi, r3, 42\n")
	want := uint32(2)<<22 | uint32(3)<<18 | 42
	if len(words) != 1 || words[0] != want {
		t.Fatalf("expected %d, got %v", want, words)
	}
}

func TestEncodePrependsEntryJump(t *testing.T) {
	words := encode(t, "other:\nnop\nmain:\nnop\n")
	if len(words) != 3 {
		t.Fatalf("expected 3 words (jmp + 2 nop), got %v", words)
	}
	jmpOpcode := words[0] >> 22
	if jmpOpcode != 27 {
		t.Errorf("expected jmp opcode 27, got %d", jmpOpcode)
	}
	if words[0]&0xFFFF != 2 {
		t.Errorf("expected jump target word index 2 (main's nop, after the label-only other: and main: lines), got %d", words[0]&0xFFFF)
	}
	if words[1] != 0 || words[2] != 0 {
		t.Errorf("expected both nop words to be zero, got %v %v", words[1], words[2])
	}
}

func TestEncodeUndefinedLabelErrors(t *testing.T) {
	toks, err := lexer.New("main:\njmp, nowhere\n", "test.ass").TokenizeAll()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, err := encoder.Encode(toks, "test.ass"); err == nil {
		t.Error("expected undefined label error")
	}
}

func TestEncodeNegativeConstant(t *testing.T) {
	words := encode(t, "main:\nldi, r0, -1\n")
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %v", words)
	}
	if uint16(words[0]&0xFFFF) != 0xFFFF {
		t.Errorf("expected -1 as 0xFFFF in the 16-bit field, got %x", words[0]&0xFFFF)
	}
}

func TestEncodeAlreadyAtEntryNoPrefix(t *testing.T) {
	words := encode(t, "main:\nnop\nnop\n")
	if len(words) != 2 {
		t.Fatalf("expected 2 words (no jmp prefix inserted), got %v", words)
	}
}

func TestEncodeInstructionFields(t *testing.T) {
	// The word layout has a single 4-bit register field: when a line
	// carries more than one Register token, the last one wins (matching
	// original_source/src/assembler/parser.rs's single inst.reg slot).
	words := encode(t, "main:\nadd, r2, r1\n")
	require.Len(t, words, 1)

	word := words[0]
	opcode := (word >> 22) & 0x3F
	reg := (word >> 18) & 0xF
	amode := (word >> 16) & 0x3
	constant := word & 0xFFFF

	require.EqualValues(t, 6, opcode, "add is opcode 6 in the mnemonic table")
	require.EqualValues(t, 1, reg, "the last Register token on the line wins")
	require.EqualValues(t, 0, amode, "amode defaults to 0 when absent")
	require.EqualValues(t, 0, constant, "no Numeric token on this line")
}
