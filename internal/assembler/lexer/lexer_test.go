package lexer_test

import (
	"testing"

	"github.com/an0nymoos3/nid-compiler/internal/assembler/lexer"
	"github.com/an0nymoos3/nid-compiler/internal/assembler/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := lexer.New(src, "test.ass").TokenizeAll()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	return toks
}

func TestLexSimpleInstruction(t *testing.T) {
	toks := tokenize(t, "ldi, r3, 42\n")
	want := []token.Token{
		{Kind: token.Operation, Value: "ldi"},
		{Kind: token.Register, Value: "3"},
		{Kind: token.Numeric, Value: "42"},
		{Kind: token.Eol},
	}
	assertEqual(t, toks, want)
}

func TestLexAmode(t *testing.T) {
	toks := tokenize(t, "ld, r0, a1\n")
	want := []token.Token{
		{Kind: token.Operation, Value: "ld"},
		{Kind: token.Register, Value: "0"},
		{Kind: token.Amode, Value: "1"},
		{Kind: token.Eol},
	}
	assertEqual(t, toks, want)
}

func TestLexLabelDefinitionAndReference(t *testing.T) {
	toks := tokenize(t, "main:\njmp, main\n")
	want := []token.Token{
		{Kind: token.RoutineName, Value: "main:"},
		{Kind: token.Eol},
		{Kind: token.Operation, Value: "jmp"},
		{Kind: token.RoutineName, Value: "main"},
		{Kind: token.Eol},
	}
	assertEqual(t, toks, want)
}

func TestLexGeneratedLabel(t *testing.T) {
	toks := tokenize(t, "#true_branch_1:\nbeq, #true_branch_1\n")
	want := []token.Token{
		{Kind: token.RoutineName, Value: "#true_branch_1:"},
		{Kind: token.Eol},
		{Kind: token.Operation, Value: "beq"},
		{Kind: token.RoutineName, Value: "#true_branch_1"},
		{Kind: token.Eol},
	}
	assertEqual(t, toks, want)
}

func TestLexStripsComments(t *testing.T) {
	toks := tokenize(t, "nop ; this is a comment\n")
	want := []token.Token{
		{Kind: token.Operation, Value: "nop"},
		{Kind: token.Eol},
	}
	assertEqual(t, toks, want)
}

func TestLexNegativeNumeric(t *testing.T) {
	toks := tokenize(t, "ldi, r0, -5\n")
	want := []token.Token{
		{Kind: token.Operation, Value: "ldi"},
		{Kind: token.Register, Value: "0"},
		{Kind: token.Numeric, Value: "-5"},
		{Kind: token.Eol},
	}
	assertEqual(t, toks, want)
}

func assertEqual(t *testing.T, got, want []token.Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
