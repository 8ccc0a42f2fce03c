package encoder_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/an0nymoos3/nid-compiler/internal/assembler/encoder"
	asslexer "github.com/an0nymoos3/nid-compiler/internal/assembler/lexer"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/codegen"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/lexer"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/parser"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/resolve"
	"github.com/an0nymoos3/nid-compiler/internal/hwconf"
)

// wantWordIndex independently computes the word index a label should
// resolve to by counting, among the lines preceding its definition, how
// many carry an instruction rather than a bare "label:" line. It must
// stay decoupled from resolveLabels' own counting so a shared bug can't
// make the test pass for the wrong reason.
func wantWordIndex(t *testing.T, lines []string, label string) int {
	t.Helper()
	idx := 0
	for _, l := range lines {
		if l == label+":" {
			return idx
		}
		if !strings.HasSuffix(l, ":") {
			idx++
		}
	}
	t.Fatalf("label %q not found in %v", label, lines)
	return -1
}

func beqWord(t *testing.T, words []uint32) uint32 {
	t.Helper()
	for _, w := range words {
		if (w >> 22) == 29 { // beq's opcode, per mnemonicOrder
			return w
		}
	}
	t.Fatalf("expected a beq word among %v", words)
	return 0
}

// generateWithEntry compiles src through the real codegen pipeline and
// prepends the main: label itself, so the assembler's entry prepass
// doesn't inject a synthetic jmp with an indeterminate target.
func generateWithEntry(t *testing.T, src string) []string {
	t.Helper()
	toks, err := lexer.New(src, "test.nid").TokenizeAll()
	require.NoError(t, err)
	prog, err := parser.New(toks, "test.nid").Parse()
	require.NoError(t, err)
	require.NoError(t, resolve.Resolve(prog))
	lines, err := codegen.GenerateProgram(prog, hwconf.Default(), "test.nid")
	require.NoError(t, err)
	return append([]string{"main:"}, lines...)
}

func assemble(t *testing.T, lines []string) []uint32 {
	t.Helper()
	src := strings.Join(lines, "\n") + "\n"
	toks, err := asslexer.New(src, "test.ass").TokenizeAll()
	require.NoError(t, err)
	words, err := encoder.Encode(toks, "test.ass")
	require.NoError(t, err)
	return words
}

// TestEncodeBranchTargetsCorrectWordIndex chains EmitBranch's actual
// output (via GenerateProgram) through the real assembler and checks the
// beq operand against an independently computed word index, covering the
// true_branch label that an if/else always defines right after a bare
// jmp line.
func TestEncodeBranchTargetsCorrectWordIndex(t *testing.T) {
	lines := generateWithEntry(t, `int main() { int x = 1; if (x == 1) { x = 2; } else { x = 3; } }`)

	var trueLabel string
	for _, l := range lines {
		if strings.HasPrefix(l, "beq, ") {
			trueLabel = strings.TrimPrefix(l, "beq, ")
		}
	}
	require.NotEmpty(t, trueLabel, "expected the branch condition to emit a beq, got %v", lines)

	want := wantWordIndex(t, lines, trueLabel)
	words := assemble(t, lines)
	got := beqWord(t, words)
	require.EqualValues(t, want, got&0xFFFF, "beq operand must be the target's word index, not its raw line number")
}

// TestEncodeLoopTargetsCorrectWordIndex does the same for EmitLoop's
// while_body label.
func TestEncodeLoopTargetsCorrectWordIndex(t *testing.T) {
	lines := generateWithEntry(t, `int main() { int x = 1; while (x == 1) { x = 0; } }`)

	var whileBodyLabel string
	for _, l := range lines {
		if strings.HasPrefix(l, "beq, ") {
			whileBodyLabel = strings.TrimPrefix(l, "beq, ")
		}
	}
	require.NotEmpty(t, whileBodyLabel, "expected the loop condition to emit a beq, got %v", lines)

	want := wantWordIndex(t, lines, whileBodyLabel)
	words := assemble(t, lines)
	got := beqWord(t, words)
	require.EqualValues(t, want, got&0xFFFF, "loop beq operand must be the target's word index")
}

// TestResolveLabelsSkipsLabelOnlyLines is the reviewer's own worked
// example: true_branch is defined on its own line, immediately after a
// bare jmp, which used to inflate every later label's resolved address
// by the number of such label-only lines preceding it.
func TestResolveLabelsSkipsLabelOnlyLines(t *testing.T) {
	src := "main:\nldi, r0, 1\nst, r0, 0\ncmp, r0, 2\nbeq, true_branch\njmp, skip_branch\ntrue_branch:\nldi, r0, 9\nst, r0, 0\nskip_branch:\n"
	toks, err := asslexer.New(src, "test.ass").TokenizeAll()
	require.NoError(t, err)
	words, err := encoder.Encode(toks, "test.ass")
	require.NoError(t, err)

	// words: ldi=0, st=1, cmp=2, beq=3, jmp=4, ldi=5, st=6 (7 total)
	require.Len(t, words, 7)

	require.EqualValues(t, 29, words[3]>>22, "expected beq opcode")
	require.EqualValues(t, 5, words[3]&0xFFFF, "true_branch must resolve to word index 5, not the raw line number 7")

	require.EqualValues(t, 27, words[4]>>22, "expected jmp opcode")
	require.EqualValues(t, 7, words[4]&0xFFFF, "skip_branch must resolve to word index 7")
}
