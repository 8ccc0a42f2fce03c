package codegen

import "github.com/an0nymoos3/nid-compiler/internal/compiler/ast"

// operandSlot classifies a Primary node into exactly one of the
// reg/addr/const slots consumed by arithmetic and condition lowering.
func (c *Context) operandSlot(n ast.Node) (reg *uint8, addr *uint16, constVal *int16, err error) {
	switch v := n.(type) {
	case *ast.Variable:
		id, perr := parseVarID(v.Identifier)
		if perr != nil {
			return nil, nil, nil, perr
		}
		if r, ok := c.AlreadyInReg(id); ok {
			rr := r
			return &rr, nil, nil, nil
		}
		if a, ok := c.ReadFromMemMap(id); ok {
			aa := a
			return nil, &aa, nil, nil
		}
		return nil, nil, nil, c.errf("variable %d used before assignment", id)
	case *ast.Value:
		cv := v.AsI16()
		return nil, nil, &cv, nil
	default:
		return nil, nil, nil, c.errf("unsupported operand kind %T", n)
	}
}

// lowerBinaryOperands populates the six arithmetic slots from a binary
// expression's two operands (spec.md §4.6 "Binary expression parsing").
// The left operand claims the "1" slot of whichever category it falls
// into; the right operand claims the same category's "1" slot if free,
// else its "2" slot.
func (c *Context) lowerBinaryOperands(left, right ast.Node) (reg1, reg2 *uint8, addr1, addr2 *uint16, const1, const2 *int16, err error) {
	reg1, addr1, const1, err = c.operandSlot(left)
	if err != nil {
		return
	}

	rr, ra, rc, rerr := c.operandSlot(right)
	if rerr != nil {
		err = rerr
		return
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
	return
}
