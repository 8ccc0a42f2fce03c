package codegen

import (
	"fmt"

	"github.com/an0nymoos3/nid-compiler/internal/compiler/ast"
)

// LowerCondition emits the instructions testing cond and jumping to
// targetLabel when the condition holds (spec.md §4.6 "Condition
// lowering"). A nil return with no error means the condition is
// compile-time dead (contradictory constant comparison); callers that
// need "dead code" detection inspect len(lines) == 0.
func (c *Context) LowerCondition(cond *ast.Condition, targetLabel string) ([]string, error) {
	if cond.Left == nil {
		if b, ok := cond.Right.(*ast.Builtin); ok && b.Name == ast.IsPressed {
			return c.lowerIsPressedCondition(b, targetLabel)
		}
	}

	var reg1, reg2 *uint8
	var addr1, addr2 *uint16
	var const1, const2 *int16
	var err error

	if cond.Left != nil {
		reg1, addr1, const1, err = c.operandSlot(cond.Left)
		if err != nil {
			return nil, err
		}
	}

	rr, ra, rc, err := c.operandSlot(cond.Right)
	if err != nil {
		return nil, err
	}
	switch {
	case rr != nil && reg1 == nil:
		reg1 = rr
	case rr != nil:
		reg2 = rr
	}
	switch {
	case ra != nil && addr1 == nil:
		addr1 = ra
	case ra != nil:
		addr2 = ra
	}
	switch {
	case rc != nil && const1 == nil:
		const1 = rc
	case rc != nil:
		const2 = rc
	}

	// The unary-not shape carries only Right; compare it against a
	// synthetic zero so cmp always sees two populated slots.
	if cond.Operator == ast.Not && cond.Left == nil {
		zero := int16(0)
		switch {
		case const1 == nil:
			const1 = &zero
		case const2 == nil:
			const2 = &zero
		}
	}

	if const1 != nil && const2 != nil {
		if *const1 == *const2 {
			return []string{fmt.Sprintf("jmp, %s", targetLabel)}, nil
		}
		return nil, nil
	}

	lines, err := c.LowerComparison(reg1, reg2, addr1, addr2, const1, const2)
	if err != nil {
		return nil, err
	}

	mnemonic, err := conditionMnemonic(cond.Operator)
	if err != nil {
		return nil, err
	}
	lines = append(lines, fmt.Sprintf("%s, %s", mnemonic, targetLabel))
	return lines, nil
}

func (c *Context) lowerIsPressedCondition(b *ast.Builtin, targetLabel string) ([]string, error) {
	if len(b.Params) != 1 {
		return nil, c.errf("is_pressed condition expects exactly one argument")
	}
	scancode, ok := b.Params[0].(*ast.Value)
	if !ok {
		return nil, c.errf("is_pressed's scancode argument must be a literal")
	}
	return []string{
		fmt.Sprintf("kbd, %d", scancode.AsI16()),
		fmt.Sprintf("byk, %s", targetLabel),
	}, nil
}

// conditionMnemonic maps a comparison operator to its branch mnemonic
// (spec.md §4.6).
func conditionMnemonic(op ast.ComparisonOperator) (string, error) {
	switch op {
	case ast.Not, ast.Eq:
		return "beq", nil
	case ast.NotEq:
		return "bne", nil
	case ast.LessThan:
		return "bmi", nil
	case ast.LessEq:
		return "blt", nil
	case ast.GreatThan:
		return "bpl", nil
	case ast.GreatEq:
		return "bge", nil
	default:
		return "", fmt.Errorf("unknown comparison operator %v", op)
	}
}
