package parser

import (
	"testing"

	"github.com/an0nymoos3/nid-compiler/internal/compiler/ast"
	"github.com/an0nymoos3/nid-compiler/internal/compiler/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New(src, "test.nid").TokenizeAll()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := New(toks, "test.nid").Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func TestParseSimpleMain(t *testing.T) {
	prog := parse(t, `int main() { int x = 3; }`)

	fn, ok := prog.Body[prog.MainIndex].(*ast.Function)
	if !ok || fn.Identifier != "main" {
		t.Fatalf("expected main function at MainIndex, got %#v", prog.Body[prog.MainIndex])
	}
	block, ok := prog.Body[prog.MainIndex+1].(*ast.Block)
	if !ok {
		t.Fatalf("expected block after main, got %#v", prog.Body[prog.MainIndex+1])
	}
	if len(block.Body) != 1 {
		t.Fatalf("expected 1 statement in main body, got %d", len(block.Body))
	}
	assign, ok := block.Body[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected Assignment, got %#v", block.Body[0])
	}
	if assign.TypeDecl == nil || assign.TypeDecl.ValueKind != ast.VInt {
		t.Errorf("expected int type decl, got %#v", assign.TypeDecl)
	}
	if assign.Target.Identifier != "x" {
		t.Errorf("expected target x, got %q", assign.Target.Identifier)
	}
	val, ok := assign.Expression.(*ast.Value)
	if !ok || val.Int != 3 {
		t.Fatalf("expected literal 3, got %#v", assign.Expression)
	}
}

func TestParseBinaryExpression(t *testing.T) {
	prog := parse(t, `int main() { int x = 3; x = x * 2; }`)
	block := prog.Body[prog.MainIndex+1].(*ast.Block)
	assign := block.Body[1].(*ast.Assignment)
	expr, ok := assign.Expression.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("expected BinaryExpression, got %#v", assign.Expression)
	}
	if expr.Op != ast.Mul {
		t.Errorf("expected Mul operator, got %v", expr.Op)
	}
	left, ok := expr.Left.(*ast.Variable)
	if !ok || left.Identifier != "x" {
		t.Errorf("expected left operand variable x, got %#v", expr.Left)
	}
	right, ok := expr.Right.(*ast.Value)
	if !ok || right.Int != 2 {
		t.Errorf("expected right operand 2, got %#v", expr.Right)
	}
}

func TestParseBranchWithElse(t *testing.T) {
	prog := parse(t, `int main() { int x = 1; if (x == 1) { x = 2; } else { x = 3; } }`)
	block := prog.Body[prog.MainIndex+1].(*ast.Block)
	branch, ok := block.Body[1].(*ast.Branch)
	if !ok {
		t.Fatalf("expected Branch, got %#v", block.Body[1])
	}
	if branch.Condition.Operator != ast.Eq {
		t.Errorf("expected Eq operator, got %v", branch.Condition.Operator)
	}
	if branch.FalseBody == nil {
		t.Fatal("expected FalseBody to be present")
	}
	if len(branch.TrueBody.Body) != 1 || len(branch.FalseBody.Body) != 1 {
		t.Error("expected one statement per branch arm")
	}
}

func TestParseLoopSingleOperandRewrite(t *testing.T) {
	prog := parse(t, `int main() { int x = 1; while (x) { x = 0; } }`)
	block := prog.Body[prog.MainIndex+1].(*ast.Block)
	loop, ok := block.Body[1].(*ast.Loop)
	if !ok {
		t.Fatalf("expected Loop, got %#v", block.Body[1])
	}
	if loop.Condition.Operator != ast.Eq {
		t.Errorf("expected rewritten Eq operator, got %v", loop.Condition.Operator)
	}
	rhs, ok := loop.Condition.Right.(*ast.Value)
	if !ok || rhs.Int != 1 {
		t.Errorf("expected rewritten right operand 1, got %#v", loop.Condition.Right)
	}
	lhs, ok := loop.Condition.Left.(*ast.Variable)
	if !ok || lhs.Identifier != "x" {
		t.Errorf("expected left operand variable x, got %#v", loop.Condition.Left)
	}
}

func TestParseIsPressedCondition(t *testing.T) {
	prog := parse(t, `int main() { while (is_pressed(13)) { return; } }`)
	block := prog.Body[prog.MainIndex+1].(*ast.Block)
	loop := block.Body[0].(*ast.Loop)
	if loop.Condition.Left != nil {
		t.Errorf("expected no left operand for is_pressed condition, got %#v", loop.Condition.Left)
	}
	builtin, ok := loop.Condition.Right.(*ast.Builtin)
	if !ok || builtin.Name != ast.IsPressed {
		t.Fatalf("expected is_pressed builtin, got %#v", loop.Condition.Right)
	}
	if len(builtin.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(builtin.Params))
	}
}

func TestParseBuiltinStatement(t *testing.T) {
	prog := parse(t, `int main() { sleep(500); move_to(1, 2); }`)
	block := prog.Body[prog.MainIndex+1].(*ast.Block)
	sleep := block.Body[0].(*ast.Builtin)
	if sleep.Name != ast.Sleep {
		t.Errorf("expected sleep builtin, got %v", sleep.Name)
	}
	moveTo := block.Body[1].(*ast.Builtin)
	if moveTo.Name != ast.MoveTo || len(moveTo.Params) != 2 {
		t.Errorf("expected move_to with 2 params, got %#v", moveTo)
	}
}

func TestParseReturnBare(t *testing.T) {
	prog := parse(t, `void main() { return; }`)
	block := prog.Body[prog.MainIndex+1].(*ast.Block)
	ret, ok := block.Body[0].(*ast.Return)
	if !ok || ret.Value != nil {
		t.Fatalf("expected bare return, got %#v", block.Body[0])
	}
}

func TestParseReturnValue(t *testing.T) {
	prog := parse(t, `int main() { return 7; }`)
	block := prog.Body[prog.MainIndex+1].(*ast.Block)
	ret := block.Body[0].(*ast.Return)
	val, ok := ret.Value.(*ast.Value)
	if !ok || val.Int != 7 {
		t.Fatalf("expected return value 7, got %#v", ret.Value)
	}
}

func TestParseMacro(t *testing.T) {
	prog := parse(t, `#PREALLOCSTART = 100; #PREALLOCEND = 120; int main() { }`)
	m0, ok := prog.Body[0].(*ast.Macro)
	if !ok || m0.MacroKind != ast.PreAllocStart || m0.Value != 100 {
		t.Fatalf("expected PREALLOCSTART=100, got %#v", prog.Body[0])
	}
	m1, ok := prog.Body[1].(*ast.Macro)
	if !ok || m1.MacroKind != ast.PreAllocEnd || m1.Value != 120 {
		t.Fatalf("expected PREALLOCEND=120, got %#v", prog.Body[1])
	}
}

func TestParseAsmBlock(t *testing.T) {
	prog := parse(t, `int main() { asm { ldi, r3, 42 st, r3, 0 } }`)
	block := prog.Body[prog.MainIndex+1].(*ast.Block)
	asm, ok := block.Body[0].(*ast.Asm)
	if !ok {
		t.Fatalf("expected Asm node, got %#v", block.Body[0])
	}
	if len(asm.Lines) != 2 {
		t.Fatalf("expected 2 asm lines, got %d: %v", len(asm.Lines), asm.Lines)
	}
	if asm.Lines[0] != "ldi, r3, 42" {
		t.Errorf("unexpected first line: %q", asm.Lines[0])
	}
	if asm.Lines[1] != "st, r3, 0" {
		t.Errorf("unexpected second line: %q", asm.Lines[1])
	}
}

func TestParseMissingMainFails(t *testing.T) {
	toks, err := lexer.New(`int foo() { }`, "test.nid").TokenizeAll()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, err := New(toks, "test.nid").Parse(); err == nil {
		t.Fatal("expected error for missing main()")
	}
}
