package ir

import (
	"fmt"
	"strconv"

	"github.com/wippyai/teajs/errors"
)

// NoRegister marks a variable that has not been assigned a register.
const NoRegister = -1

// Variable is an abstract value slot of a program.
type Variable struct {
	DebugName string
	index     int
	// Register is the storage slot assigned by register allocation,
	// NoRegister before allocation.
	Register int
}

// Index returns the variable's position in its program.
func (v *Variable) Index() int {
	return v.index
}

// String returns "@index".
func (v *Variable) String() string {
	return "@" + strconv.Itoa(v.index)
}

// Program is the control-flow graph of one method body.
type Program struct {
	blocks    []*BasicBlock
	variables []*Variable
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{}
}

// CreateBasicBlock appends a new empty block and returns it.
func (p *Program) CreateBasicBlock() *BasicBlock {
	b := newBasicBlock(p, len(p.blocks))
	p.blocks = append(p.blocks, b)
	return b
}

// BasicBlockCount returns the number of block slots, including slots of
// deleted blocks that have not yet been packed.
func (p *Program) BasicBlockCount() int {
	return len(p.blocks)
}

// BasicBlockAt returns the block at index i, or nil for a deleted slot or an
// index out of range.
func (p *Program) BasicBlockAt(i int) *BasicBlock {
	if i < 0 || i >= len(p.blocks) {
		return nil
	}
	return p.blocks[i]
}

// BasicBlocks returns the live blocks in index order.
func (p *Program) BasicBlocks() []*BasicBlock {
	result := make([]*BasicBlock, 0, len(p.blocks))
	for _, b := range p.blocks {
		if b != nil {
			result = append(result, b)
		}
	}
	return result
}

// DeleteBasicBlock removes the block at index i, releasing ownership of its
// contents. The slot stays empty until Pack.
func (p *Program) DeleteBasicBlock(i int) error {
	if i < 0 || i >= len(p.blocks) || p.blocks[i] == nil {
		return errors.OutOfRange(errors.PhaseIR, []string{"blocks"}, i, len(p.blocks))
	}
	b := p.blocks[i]
	b.instructions.Clear()
	b.phis.Clear()
	b.program = nil
	b.index = -1
	p.blocks[i] = nil
	return nil
}

// Pack removes empty slots left by DeleteBasicBlock and renumbers the
// remaining blocks densely, preserving their order. Block references are
// pointers, so edges follow their blocks; Pack then verifies that no edge
// still refers to a deleted block or a block of another program.
func (p *Program) Pack() error {
	sz := 0
	for _, b := range p.blocks {
		if b == nil {
			continue
		}
		b.index = sz
		p.blocks[sz] = b
		sz++
	}
	for i := sz; i < len(p.blocks); i++ {
		p.blocks[i] = nil
	}
	p.blocks = p.blocks[:sz]
	return p.Validate()
}

// Validate checks that every block reference of the program points at a
// live block of this program.
func (p *Program) Validate() error {
	var stale error
	m := &BlockMapper{Map: func(b *BasicBlock) *BasicBlock {
		if stale == nil && b.program != p {
			stale = errors.New(errors.PhaseIR, errors.KindInvalidInput).
				Detail("reference to stale block %d", b.index).
				Build()
		}
		return b
	}}
	m.Transform(p)
	return stale
}

// CreateVariable appends a new variable.
func (p *Program) CreateVariable() *Variable {
	v := &Variable{index: len(p.variables), Register: NoRegister}
	p.variables = append(p.variables, v)
	return v
}

// VariableCount returns the number of variables.
func (p *Program) VariableCount() int {
	return len(p.variables)
}

// VariableAt returns the variable at index i, or nil if out of range.
func (p *Program) VariableAt(i int) *Variable {
	if i < 0 || i >= len(p.variables) {
		return nil
	}
	return p.variables[i]
}

// String returns a short summary used in logs.
func (p *Program) String() string {
	return fmt.Sprintf("program(%d blocks, %d vars)", len(p.blocks), len(p.variables))
}
