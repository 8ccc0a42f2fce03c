package codegen

import (
	"fmt"

	"github.com/an0nymoos3/nid-compiler/internal/compiler/ast"
	"github.com/an0nymoos3/nid-compiler/internal/diag"
)

// LowerArithmetic lowers one of add/sub/mul/div per spec.md §4.5. Exactly
// two of the six operand slots are populated by the caller.
func (c *Context) LowerArithmetic(op ast.BinaryOperator, reg1, reg2 *uint8, addr1, addr2 *uint16, const1, const2 *int16) ([]string, error) {
	switch op {
	case ast.Add:
		return c.arithOp("add", "addi", reg1, reg2, addr1, addr2, const1, const2)
	case ast.Sub:
		return c.arithOp("sub", "subi", reg1, reg2, addr1, addr2, const1, const2)
	case ast.Mul:
		return c.arithOp("mul", "muli", reg1, reg2, addr1, addr2, const1, const2)
	case ast.Div:
		return c.arithOp("div", "divi", reg1, reg2, addr1, addr2, const1, const2)
	default:
		return nil, c.errf("unknown binary operator %v", op)
	}
}

// LowerComparison lowers a cmp, sharing the same slot rules as arithmetic
// but without the power-of-two shift specialization and with two-constant
// folding disallowed (spec.md §4.5 rule 1).
func (c *Context) LowerComparison(reg1, reg2 *uint8, addr1, addr2 *uint16, const1, const2 *int16) ([]string, error) {
	return c.arithOp("cmp", "cmpi", reg1, reg2, addr1, addr2, const1, const2)
}

func (c *Context) arithOp(mnemonic, immMnemonic string, reg1, reg2 *uint8, addr1, addr2 *uint16, const1, const2 *int16) ([]string, error) {
	// Rule 1: two constants fold at compile time.
	if const1 != nil && const2 != nil {
		if mnemonic == "cmp" {
			return nil, c.errf("constant-only comparison must be resolved before codegen")
		}
		result, err := foldConstants(mnemonic, *const1, *const2)
		if err != nil {
			return nil, err
		}
		reg := c.GetReg(nil)
		c.latestResult = reg
		return []string{c.LoadConst(reg, result)}, nil
	}

	// Rule 2: one constant plus one register or address.
	if const1 != nil || const2 != nil {
		constVal := const1
		if constVal == nil {
			constVal = const2
		}

		var lines []string
		var workReg uint8
		switch {
		case reg1 != nil:
			workReg = *reg1
		case reg2 != nil:
			workReg = *reg2
		case addr1 != nil:
			workReg = c.GetReg(nil)
			lines = append(lines, c.ReadFromDM(workReg, *addr1))
		default:
			return nil, c.errf("%s: missing register or address operand for immediate form", mnemonic)
		}

		if (mnemonic == "mul" || mnemonic == "div") && *constVal == 2 {
			if mnemonic == "mul" {
				lines = append(lines, fmt.Sprintf("lsl, r%d", workReg))
			} else {
				lines = append(lines, fmt.Sprintf("lsr, r%d", workReg))
			}
		} else {
			lines = append(lines, fmt.Sprintf("%s, r%d, %d", immMnemonic, workReg, *constVal))
		}
		c.latestResult = workReg
		return lines, nil
	}

	// Rule 3: two registers. The second is spilled to the stack first.
	if reg1 != nil && reg2 != nil {
		pushLine, err := c.PushToStack(*reg2)
		if err != nil {
			return nil, err
		}
		lines := []string{pushLine, fmt.Sprintf("%s, r%d, r%d", mnemonic, *reg1, *reg2)}
		c.DecrementStackPtr()
		c.latestResult = *reg1
		return lines, nil
	}

	// Rule 4: register plus address.
	if reg1 != nil && addr2 != nil {
		c.latestResult = *reg1
		return []string{fmt.Sprintf("%s, r%d, %d", mnemonic, *reg1, *addr2)}, nil
	}
	if reg2 != nil && addr1 != nil {
		c.latestResult = *reg2
		return []string{fmt.Sprintf("%s, r%d, %d", mnemonic, *reg2, *addr1)}, nil
	}

	// Rule 5: address only. Load addr1 into a register keyed by its owning
	// variable, then apply against addr2 or the remaining constant.
	if addr1 != nil {
		var reg uint8
		if varID, ok := c.GetVarIDFromAddr(*addr1); ok {
			reg = c.GetReg(&varID)
		} else {
			reg = c.GetReg(nil)
		}
		lines := []string{c.ReadFromDM(reg, *addr1)}

		switch {
		case addr2 != nil:
			lines = append(lines, fmt.Sprintf("%s, r%d, %d", mnemonic, reg, *addr2))
		case const1 != nil:
			lines = append(lines, fmt.Sprintf("%s, r%d, %d", immMnemonic, reg, *const1))
		case const2 != nil:
			lines = append(lines, fmt.Sprintf("%s, r%d, %d", immMnemonic, reg, *const2))
		default:
			return nil, c.errf("%s: address-only operand is missing its second operand", mnemonic)
		}
		c.latestResult = reg
		return lines, nil
	}

	return nil, c.errf("%s: no recognized operand combination", mnemonic)
}

func foldConstants(mnemonic string, a, b int16) (int16, error) {
	switch mnemonic {
	case "add":
		return a + b, nil
	case "sub":
		return a - b, nil
	case "mul":
		return a * b, nil
	case "div":
		if b == 0 {
			return 0, diag.New(diag.Codegen, diag.Position{}, "division by zero in constant fold")
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("unsupported fold operator %q", mnemonic)
	}
}
