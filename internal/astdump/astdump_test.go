package astdump_test

import (
	"strings"
	"testing"

	"github.com/an0nymoos3/nid-compiler/internal/astdump"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/lexer"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/parser"
)

func TestDumpRendersIndentedTree(t *testing.T) {
	toks, err := lexer.New(`int main() { int x = 3; if (x == 1) { x = 2; } }`, "test.nid").TokenizeAll()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.New(toks, "test.nid").Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	out := astdump.Dump(prog)
	for _, want := range []string{"Program", "Function main", "Block", "Assignment", "Branch", "Condition"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected dump to contain %q, got:\n%s", want, out)
		}
	}
}
