// Package astdump renders a parsed NID program as an indented text tree,
// for -v/--verbose debug output. Mirrors the shape of
// original_source/compiler/src/compiler/ast.rs's export_ast (one indented
// line per node, blocks introducing their children), built on fmt/strings
// since no tree-rendering library appears anywhere in the retrieval pack.
package astdump

import (
	"fmt"
	"strings"

	"github.com/an0nymoos3/nid-compiler/internal/compiler/ast"
)

// Dump renders prog as an indented tree and returns it as a string.
func Dump(prog *ast.Program) string {
	var sb strings.Builder
	sb.WriteString("Program\n")
	for _, n := range prog.Body {
		writeNode(&sb, n, 1)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func writeNode(sb *strings.Builder, n ast.Node, depth int) {
	switch node := n.(type) {
	case *ast.Function:
		indent(sb, depth)
		fmt.Fprintf(sb, "Function %s(%d params)\n", node.Identifier, len(node.Params))
	case *ast.Block:
		indent(sb, depth)
		sb.WriteString("Block\n")
		for _, child := range node.Body {
			writeNode(sb, child, depth+1)
		}
	case *ast.Assignment:
		indent(sb, depth)
		fmt.Fprintf(sb, "Assignment target=%s\n", node.Target.Identifier)
		writeNode(sb, node.Expression, depth+1)
	case *ast.BinaryExpression:
		indent(sb, depth)
		fmt.Fprintf(sb, "BinaryExpression op=%s\n", node.Op)
		writeNode(sb, node.Left, depth+1)
		writeNode(sb, node.Right, depth+1)
	case *ast.Condition:
		indent(sb, depth)
		sb.WriteString("Condition\n")
		if node.Left != nil {
			writeNode(sb, node.Left, depth+1)
		}
		if node.Right != nil {
			writeNode(sb, node.Right, depth+1)
		}
	case *ast.Branch:
		indent(sb, depth)
		sb.WriteString("Branch\n")
		writeNode(sb, node.Condition, depth+1)
		writeNode(sb, node.TrueBody, depth+1)
		if node.FalseBody != nil {
			writeNode(sb, node.FalseBody, depth+1)
		}
	case *ast.Loop:
		indent(sb, depth)
		sb.WriteString("Loop\n")
		writeNode(sb, node.Condition, depth+1)
		writeNode(sb, node.Body, depth+1)
	case *ast.Return:
		indent(sb, depth)
		sb.WriteString("Return\n")
		if node.Value != nil {
			writeNode(sb, node.Value, depth+1)
		}
	case *ast.Variable:
		indent(sb, depth)
		fmt.Fprintf(sb, "Variable %s\n", node.Identifier)
	case *ast.Value:
		indent(sb, depth)
		fmt.Fprintf(sb, "Value %v\n", literalText(node))
	case *ast.Type:
		indent(sb, depth)
		fmt.Fprintf(sb, "Type %d\n", node.ValueKind)
	case *ast.Asm:
		indent(sb, depth)
		fmt.Fprintf(sb, "Asm (%d lines)\n", len(node.Lines))
	case *ast.Macro:
		indent(sb, depth)
		fmt.Fprintf(sb, "Macro kind=%d value=%d\n", node.MacroKind, node.Value)
	case *ast.Builtin:
		indent(sb, depth)
		fmt.Fprintf(sb, "Builtin %s\n", node.Name)
		for _, p := range node.Params {
			writeNode(sb, p, depth+1)
		}
	default:
		indent(sb, depth)
		fmt.Fprintf(sb, "<unknown node %T>\n", n)
	}
}

func literalText(v *ast.Value) interface{} {
	switch v.ValueKind {
	case ast.VInt:
		return v.Int
	case ast.VFloat:
		return v.Float
	case ast.VString:
		return v.Str
	case ast.VChar:
		return v.Char
	case ast.VBool:
		return v.Bool
	default:
		return "void"
	}
}
