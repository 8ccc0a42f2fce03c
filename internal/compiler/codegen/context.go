// Package codegen lowers a resolved NID AST to an ASS assembly listing.
// The process-wide mutable state described by spec.md §4.4 (MEMORY_MAP,
// REG_MAP, STACK_PTR, PREALLOC_*, MAX_*, LATEST_RESULT) is re-architected
// here as fields of an explicitly-threaded Context rather than package
// globals, per spec.md §9 REDESIGN FLAGS.
package codegen

import (
	"fmt"
	"strconv"

	"github.com/an0nymoos3/nid-compiler/internal/diag"
)

// MemoryItem is a symbol table entry: a variable's optional register and
// data-memory address.
type MemoryItem struct {
	VarID uint32
	Reg   *uint8
	Addr  uint16
}

type regEntry struct {
	VarID uint32
	Reg   uint8
}

// Context owns one compilation unit's symbol table and allocator state.
// Multiple concurrent compilations use separate Contexts (spec.md §5).
type Context struct {
	filename string

	memoryMap []MemoryItem
	regMap    []regEntry // LRU order: front is least recently used

	stackPtr uint16

	preallocSet   bool
	preallocStart uint16
	preallocEnd   uint16

	maxAddr uint16
	maxRegs uint8

	latestResult uint8
	labelCounter int
}

// NewContext creates an empty codegen context for filename (used only to
// make generated diagnostics identifiable).
func NewContext(filename string) *Context {
	return &Context{filename: filename, maxRegs: 8, maxAddr: 256}
}

func (c *Context) errf(format string, args ...interface{}) error {
	return diag.New(diag.Codegen, diag.Position{Filename: c.filename}, fmt.Sprintf(format, args...))
}

// SetMaxAddr configures MAX_ADDR from the hardware config (spec.md §4.7:
// mem_addresses − 20).
func (c *Context) SetMaxAddr(n uint16) { c.maxAddr = n }

// SetMaxRegs configures MAX_REGS from the hardware config.
func (c *Context) SetMaxRegs(n uint8) { c.maxRegs = n }

// SetPrealloc records the inclusive prealloc range forbidden to the
// allocator (spec.md §4.4 remove_mem_from_compiler).
func (c *Context) SetPrealloc(start, end uint16) error {
	if start > end {
		return c.errf("prealloc range start %d is after end %d", start, end)
	}
	c.preallocSet = true
	c.preallocStart = start
	c.preallocEnd = end
	return nil
}

func (c *Context) inPrealloc(addr uint16) bool {
	return c.preallocSet && addr >= c.preallocStart && addr <= c.preallocEnd
}

// LatestResult is the register holding the most recent arithmetic result.
func (c *Context) LatestResult() uint8 { return c.latestResult }

// PushToStack emits `st, r<reg>, <STACK_PTR>`, advances STACK_PTR past the
// prealloc range if needed, and fails once STACK_PTR reaches MAX_ADDR.
func (c *Context) PushToStack(reg uint8) (string, error) {
	if c.inPrealloc(c.stackPtr) {
		c.stackPtr = c.preallocEnd + 1
	}
	if c.stackPtr >= c.maxAddr {
		return "", c.errf("data memory exhausted: stack pointer %d reached MAX_ADDR %d", c.stackPtr, c.maxAddr)
	}
	addr := c.stackPtr
	c.stackPtr++
	return fmt.Sprintf("st, r%d, %d", reg, addr), nil
}

// GetStackPtr returns the current stack pointer.
func (c *Context) GetStackPtr() uint16 { return c.stackPtr }

// DecrementStackPtr reclaims a slot pushed but not consumed by the caller.
func (c *Context) DecrementStackPtr() {
	if c.stackPtr > 0 {
		c.stackPtr--
	}
}

// WriteToDM emits `st, r<reg>, <addr>`.
func (c *Context) WriteToDM(reg uint8, addr uint16) (string, error) {
	if c.inPrealloc(addr) {
		return "", c.errf("address %d falls inside the reserved prealloc range", addr)
	}
	if addr >= c.maxAddr {
		return "", c.errf("address %d is out of range (MAX_ADDR %d)", addr, c.maxAddr)
	}
	return fmt.Sprintf("st, r%d, %d", reg, addr), nil
}

// ReadFromDM emits `ld, r<reg>, <addr>`.
func (c *Context) ReadFromDM(reg uint8, addr uint16) string {
	return fmt.Sprintf("ld, r%d, %d", reg, addr)
}

// LoadConst emits `ldi, r<reg>, <val>`.
func (c *Context) LoadConst(reg uint8, val int16) string {
	return fmt.Sprintf("ldi, r%d, %d", reg, val)
}

// PushToMemMap records var_id at addr, preserving insertion order.
func (c *Context) PushToMemMap(varID uint32, addr uint16) error {
	if c.inPrealloc(addr) {
		return c.errf("cannot bind variable %d to reserved address %d", varID, addr)
	}
	if addr >= c.maxAddr {
		return c.errf("address %d for variable %d exceeds MAX_ADDR %d", addr, varID, c.maxAddr)
	}
	c.memoryMap = append(c.memoryMap, MemoryItem{VarID: varID, Addr: addr})
	return nil
}

// ReadFromMemMap looks up a variable's address.
func (c *Context) ReadFromMemMap(varID uint32) (uint16, bool) {
	for _, item := range c.memoryMap {
		if item.VarID == varID {
			return item.Addr, true
		}
	}
	return 0, false
}

// GetVarIDFromAddr is the reverse lookup of ReadFromMemMap.
func (c *Context) GetVarIDFromAddr(addr uint16) (uint32, bool) {
	for _, item := range c.memoryMap {
		if item.Addr == addr {
			return item.VarID, true
		}
	}
	return 0, false
}

// RemoveFromMemMap erases a variable's binding, e.g. before move_to
// relocates it.
func (c *Context) RemoveFromMemMap(varID uint32) {
	for i, item := range c.memoryMap {
		if item.VarID == varID {
			c.memoryMap = append(c.memoryMap[:i], c.memoryMap[i+1:]...)
			return
		}
	}
}

// AlreadyInReg returns the register currently caching var_id, if any.
func (c *Context) AlreadyInReg(varID uint32) (uint8, bool) {
	for _, e := range c.regMap {
		if e.VarID == varID {
			return e.Reg, true
		}
	}
	return 0, false
}

// GetReg returns a register to hold varID (if non-nil and cached, its
// current register), allocating the next free index, or evicting the LRU
// entry once REG_MAP is full (spec.md §4.4).
func (c *Context) GetReg(varID *uint32) uint8 {
	if varID != nil {
		if reg, ok := c.AlreadyInReg(*varID); ok {
			return reg
		}
	}
	if uint8(len(c.regMap)) < c.maxRegs {
		for r := uint8(0); r < c.maxRegs; r++ {
			taken := false
			for _, e := range c.regMap {
				if e.Reg == r {
					taken = true
					break
				}
			}
			if !taken {
				return r
			}
		}
	}
	return c.regMap[0].Reg
}

// UseReg marks item as most-recently-used, inserting it or moving it to
// the MRU end; any prior entry for the same register or variable is
// dropped first.
func (c *Context) UseReg(item MemoryItem) {
	if item.Reg == nil {
		return
	}
	reg := *item.Reg
	next := make([]regEntry, 0, len(c.regMap)+1)
	for _, e := range c.regMap {
		if e.Reg == reg || e.VarID == item.VarID {
			continue
		}
		next = append(next, e)
	}
	c.regMap = append(next, regEntry{VarID: item.VarID, Reg: reg})
}

// NewLabel allocates a globally-unique label for this compilation unit.
// spec.md §9 REDESIGN FLAGS replaces the original's random-name generator
// with a monotonic counter so generated assembly is reproducible.
func (c *Context) NewLabel(hint string) string {
	c.labelCounter++
	return fmt.Sprintf("#%s_%d", hint, c.labelCounter)
}

// parseVarID parses a Variable's post-resolution fingerprint text back to
// its numeric form.
func parseVarID(identifier string) (uint32, error) {
	id, err := strconv.ParseUint(identifier, 10, 32)
	if err != nil {
		return 0, diag.New(diag.Codegen, diag.Position{}, "variable identifier is not a resolved fingerprint: "+identifier)
	}
	return uint32(id), nil
}
