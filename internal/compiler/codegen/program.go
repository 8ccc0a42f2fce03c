// Program generator: the prepass over top-level macros and the recursive
// traversal of main's body (spec.md §4.7), grounded on
// original_source/compiler/src/compiler/ass_gen/program_generator.rs.
package codegen

import (
	"github.com/an0nymoos3/nid-compiler/internal/compiler/ast"
	"github.com/an0nymoos3/nid-compiler/internal/hwconf"
)

// GenerateProgram runs the macro prepass, configures the allocator from
// hw, and emits main's body as an ordered ASS listing.
func GenerateProgram(prog *ast.Program, hw *hwconf.Hardware, filename string) ([]string, error) {
	c := NewContext(filename)

	if hw.MemAddresses > 20 {
		c.SetMaxAddr(hw.MemAddresses - 20)
	} else {
		c.SetMaxAddr(0)
	}
	c.SetMaxRegs(hw.Registers)

	if err := applyPreallocMacros(c, prog); err != nil {
		return nil, err
	}

	mainBlock, ok := prog.Body[prog.MainIndex+1].(*ast.Block)
	if !ok {
		return nil, c.errf("main is not immediately followed by its block")
	}

	return c.EmitBody(mainBlock.Body)
}

func applyPreallocMacros(c *Context, prog *ast.Program) error {
	var start, end *uint16
	for _, n := range prog.Body {
		m, ok := n.(*ast.Macro)
		if !ok {
			continue
		}
		v := m.Value
		switch m.MacroKind {
		case ast.PreAllocStart:
			start = &v
		case ast.PreAllocEnd:
			end = &v
		}
	}
	if start == nil {
		return nil
	}
	rangeEnd := c.maxAddr
	if end != nil {
		rangeEnd = *end
	}
	return c.SetPrealloc(*start, rangeEnd)
}

// EmitBody dispatches each statement in body to its codegen, in order,
// and is also used recursively for nested blocks (Branch/Loop bodies).
func (c *Context) EmitBody(body []ast.Node) ([]string, error) {
	var lines []string
	for _, n := range body {
		var stmtLines []string
		var err error

		switch node := n.(type) {
		case *ast.Asm:
			stmtLines = append(stmtLines, node.Lines...)
		case *ast.Assignment:
			stmtLines, err = c.EmitAssignment(node)
		case *ast.Branch:
			stmtLines, err = c.EmitBranch(node)
		case *ast.Loop:
			stmtLines, err = c.EmitLoop(node)
		case *ast.Builtin:
			stmtLines, err = c.EmitBuiltin(node)
		case *ast.Return:
			stmtLines, err = c.EmitReturn(node)
		case *ast.Block:
			stmtLines, err = c.EmitBody(node.Body)
		default:
			err = c.errf("unhandled node kind %T in main body", n)
		}

		if err != nil {
			return nil, err
		}
		lines = append(lines, stmtLines...)
	}
	return lines, nil
}
