// Instruction-level codegen: assignments, branches, loops, returns, and
// builtin calls (spec.md §4.6), grounded on the shape of
// original_source/compiler/src/compiler/ass_gen/instruction_parser.rs,
// generalized to the explicit Context instead of global state.
package codegen

import (
	"fmt"

	"github.com/an0nymoos3/nid-compiler/internal/compiler/ast"
)

// EmitAssignment lowers an Assignment statement.
func (c *Context) EmitAssignment(a *ast.Assignment) ([]string, error) {
	targetID, err := parseVarID(a.Target.Identifier)
	if err != nil {
		return nil, err
	}

	switch rhs := a.Expression.(type) {
	case *ast.Value:
		return c.emitAssignValue(targetID, rhs)
	case *ast.Variable:
		return c.emitAssignVariable(targetID, rhs)
	case *ast.BinaryExpression:
		return c.emitAssignBinary(targetID, rhs)
	default:
		return nil, c.errf("unsupported assignment expression %T", a.Expression)
	}
}

func (c *Context) emitAssignValue(targetID uint32, val *ast.Value) ([]string, error) {
	reg := c.GetReg(&targetID)
	lines := []string{c.LoadConst(reg, val.AsI16())}

	addr, existed := c.ReadFromMemMap(targetID)
	if existed {
		line, err := c.WriteToDM(reg, addr)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	} else {
		line, err := c.PushToStack(reg)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		addr = c.GetStackPtr() - 1
		if err := c.PushToMemMap(targetID, addr); err != nil {
			return nil, err
		}
	}

	r := reg
	c.UseReg(MemoryItem{VarID: targetID, Reg: &r, Addr: addr})
	return lines, nil
}

func (c *Context) emitAssignVariable(targetID uint32, src *ast.Variable) ([]string, error) {
	srcID, err := parseVarID(src.Identifier)
	if err != nil {
		return nil, err
	}
	srcAddr, ok := c.ReadFromMemMap(srcID)
	if !ok {
		return nil, c.errf("variable %d used before assignment", srcID)
	}

	reg := c.GetReg(&targetID)
	lines := []string{c.ReadFromDM(reg, srcAddr)}

	addr, existed := c.ReadFromMemMap(targetID)
	if existed {
		line, err := c.WriteToDM(reg, addr)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	} else {
		line, err := c.PushToStack(reg)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		addr = c.GetStackPtr() - 1
		if err := c.PushToMemMap(targetID, addr); err != nil {
			return nil, err
		}
	}

	r := reg
	c.UseReg(MemoryItem{VarID: targetID, Reg: &r, Addr: addr})
	return lines, nil
}

func (c *Context) emitAssignBinary(targetID uint32, bin *ast.BinaryExpression) ([]string, error) {
	reg1, reg2, addr1, addr2, const1, const2, err := c.lowerBinaryOperands(bin.Left, bin.Right)
	if err != nil {
		return nil, err
	}
	lines, err := c.LowerArithmetic(bin.Op, reg1, reg2, addr1, addr2, const1, const2)
	if err != nil {
		return nil, err
	}

	targetAddr, existed := c.ReadFromMemMap(targetID)
	if existed {
		writeLine, err := c.WriteToDM(c.latestResult, targetAddr)
		if err != nil {
			return nil, err
		}
		lines = append(lines, writeLine)
	} else {
		pushLine, err := c.PushToStack(c.latestResult)
		if err != nil {
			return nil, err
		}
		lines = append(lines, pushLine)
		targetAddr = c.GetStackPtr() - 1
		if err := c.PushToMemMap(targetID, targetAddr); err != nil {
			return nil, err
		}
	}

	r := c.latestResult
	c.UseReg(MemoryItem{VarID: targetID, Reg: &r, Addr: targetAddr})
	return lines, nil
}

// EmitBranch lowers an if/else statement (spec.md §4.6 "Branch").
func (c *Context) EmitBranch(b *ast.Branch) ([]string, error) {
	skipLabel := c.NewLabel("skip_branch")
	trueLabel := c.NewLabel("true_branch")

	condLines, err := c.LowerCondition(b.Condition, trueLabel)
	if err != nil {
		return nil, err
	}

	lines := append([]string{}, condLines...)

	if b.FalseBody != nil {
		falseLines, err := c.EmitBody(b.FalseBody.Body)
		if err != nil {
			return nil, err
		}
		lines = append(lines, falseLines...)
	}

	lines = append(lines, fmt.Sprintf("jmp, %s", skipLabel))
	lines = append(lines, trueLabel+":")

	trueLines, err := c.EmitBody(b.TrueBody.Body)
	if err != nil {
		return nil, err
	}
	lines = append(lines, trueLines...)
	lines = append(lines, skipLabel+":")
	return lines, nil
}

// EmitLoop lowers a while statement (spec.md §4.6 "Loop"). A dead
// condition (contradictory constants) elides the loop entirely.
func (c *Context) EmitLoop(l *ast.Loop) ([]string, error) {
	loopBranch := c.NewLabel("loop_branch")
	whileBody := c.NewLabel("while_body")
	loopDone := c.NewLabel("loop_done")

	condLines, err := c.LowerCondition(l.Condition, whileBody)
	if err != nil {
		return nil, err
	}
	if len(condLines) == 0 {
		return nil, nil
	}

	lines := []string{loopBranch + ":"}
	lines = append(lines, condLines...)
	lines = append(lines, fmt.Sprintf("jmp, %s", loopDone))
	lines = append(lines, whileBody+":")

	bodyLines, err := c.EmitBody(l.Body.Body)
	if err != nil {
		return nil, err
	}
	lines = append(lines, bodyLines...)
	lines = append(lines, fmt.Sprintf("jmp, %s", loopBranch))
	lines = append(lines, loopDone+":")
	return lines, nil
}

// EmitReturn lowers a return statement. The original program generator
// never implemented Return; we emit `ret`, loading an optional value into
// a register first so a caller convention has a value to find.
func (c *Context) EmitReturn(r *ast.Return) ([]string, error) {
	var lines []string

	switch v := r.Value.(type) {
	case nil:
		// bare return
	case *ast.Value:
		reg := c.GetReg(nil)
		lines = append(lines, c.LoadConst(reg, v.AsI16()))
	case *ast.Variable:
		id, err := parseVarID(v.Identifier)
		if err != nil {
			return nil, err
		}
		if _, ok := c.AlreadyInReg(id); !ok {
			addr, ok := c.ReadFromMemMap(id)
			if !ok {
				return nil, c.errf("variable %d used before assignment", id)
			}
			reg := c.GetReg(&id)
			lines = append(lines, c.ReadFromDM(reg, addr))
		}
	default:
		return nil, c.errf("unsupported return expression %T", r.Value)
	}

	lines = append(lines, "ret")
	return lines, nil
}

// EmitBuiltin lowers a builtin call (spec.md §4.6 "Builtins").
func (c *Context) EmitBuiltin(b *ast.Builtin) ([]string, error) {
	switch b.Name {
	case ast.Sleep:
		return c.emitSleep(b)
	case ast.MoveTo:
		return c.emitMoveTo(b)
	case ast.IsPressed:
		return c.emitIsPressedCall(b)
	default:
		return nil, c.errf("unhandled builtin %v", b.Name)
	}
}

func (c *Context) emitSleep(b *ast.Builtin) ([]string, error) {
	if len(b.Params) != 1 {
		return nil, c.errf("sleep expects exactly 1 argument")
	}
	val, ok := b.Params[0].(*ast.Value)
	if !ok {
		return nil, c.errf("sleep's argument must be a literal")
	}
	return []string{fmt.Sprintf("wait, %d", val.AsI16())}, nil
}

func (c *Context) emitMoveTo(b *ast.Builtin) ([]string, error) {
	if len(b.Params) != 2 {
		return nil, c.errf("move_to expects exactly 2 arguments")
	}
	varNode, ok := b.Params[0].(*ast.Variable)
	if !ok {
		return nil, c.errf("move_to's first argument must be a variable")
	}
	addrNode, ok := b.Params[1].(*ast.Value)
	if !ok {
		return nil, c.errf("move_to's second argument must be a literal address")
	}

	varID, err := parseVarID(varNode.Identifier)
	if err != nil {
		return nil, err
	}
	newAddr := uint16(addrNode.AsI16())

	var lines []string
	var reg uint8
	if r, ok := c.AlreadyInReg(varID); ok {
		reg = r
	} else {
		oldAddr, ok := c.ReadFromMemMap(varID)
		if !ok {
			return nil, c.errf("variable %d used before assignment", varID)
		}
		reg = c.GetReg(&varID)
		lines = append(lines, c.ReadFromDM(reg, oldAddr))
	}

	writeLine, err := c.WriteToDM(reg, newAddr)
	if err != nil {
		return nil, err
	}
	lines = append(lines, writeLine)

	c.RemoveFromMemMap(varID)
	if err := c.PushToMemMap(varID, newAddr); err != nil {
		return nil, err
	}
	r := reg
	c.UseReg(MemoryItem{VarID: varID, Reg: &r, Addr: newAddr})
	return lines, nil
}

func (c *Context) emitIsPressedCall(b *ast.Builtin) ([]string, error) {
	if len(b.Params) != 2 {
		return nil, c.errf("is_pressed expects exactly 2 arguments (scancode, label)")
	}
	scancode, ok := b.Params[0].(*ast.Value)
	if !ok {
		return nil, c.errf("is_pressed's scancode argument must be a literal")
	}
	label, ok := b.Params[1].(*ast.Value)
	if !ok || label.ValueKind != ast.VString {
		return nil, c.errf("is_pressed's label argument must be a string literal")
	}
	return []string{
		fmt.Sprintf("kbd, %d", scancode.AsI16()),
		fmt.Sprintf("byk, %s", label.Str),
	}, nil
}
