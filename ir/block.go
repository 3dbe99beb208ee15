package ir

import (
	"strconv"

	"github.com/wippyai/teajs/errors"
)

// element is implemented by everything a block container can own. It is not
// used as the Container constraint: BasicBlock holds containers, so the
// constraint would refer back to itself.
type element interface {
	owner() *BasicBlock
	setOwner(b *BasicBlock)
}

// BasicBlock is a straight-line sequence of phis and instructions.
type BasicBlock struct {
	program      *Program
	instructions Container[Instruction]
	phis         Container[*Phi]
	index        int
}

func newBasicBlock(p *Program, index int) *BasicBlock {
	b := &BasicBlock{program: p, index: index}
	b.instructions = Container[Instruction]{block: b, what: "instruction"}
	b.phis = Container[*Phi]{block: b, what: "phi"}
	return b
}

// Index returns the block's position in its program, -1 once deleted.
func (b *BasicBlock) Index() int {
	return b.index
}

// Program returns the owning program, nil once deleted.
func (b *BasicBlock) Program() *Program {
	return b.program
}

// Instructions returns the block's instruction container.
func (b *BasicBlock) Instructions() *Container[Instruction] {
	return &b.instructions
}

// Phis returns the block's phi container.
func (b *BasicBlock) Phis() *Container[*Phi] {
	return &b.phis
}

// LastInstruction returns the terminator, or nil for an empty block.
func (b *BasicBlock) LastInstruction() Instruction {
	n := len(b.instructions.items)
	if n == 0 {
		return nil
	}
	return b.instructions.items[n-1]
}

// String returns "$index".
func (b *BasicBlock) String() string {
	return "$" + strconv.Itoa(b.index)
}

// Container is an ordered, ownership-checked list of instructions or phis
// belonging to one block. Every insertion transfers ownership of the element
// to the block; every removal releases it.
type Container[E any] struct {
	block *BasicBlock
	what  string
	items []E
}

// Len returns the number of elements.
func (c *Container[E]) Len() int {
	return len(c.items)
}

// Get returns the element at index i.
func (c *Container[E]) Get(i int) (E, error) {
	if i < 0 || i >= len(c.items) {
		var zero E
		return zero, c.rangeError(i, len(c.items))
	}
	return c.items[i], nil
}

// All returns a snapshot of the elements in order. Mutating the container
// while iterating the snapshot is safe.
func (c *Container[E]) All() []E {
	result := make([]E, len(c.items))
	copy(result, c.items)
	return result
}

// Add appends e, transferring ownership to the block.
func (c *Container[E]) Add(e E) error {
	return c.Insert(len(c.items), e)
}

// Insert places e at index i, transferring ownership to the block. It fails
// with a conflict error if e already belongs to any block.
func (c *Container[E]) Insert(i int, e E) error {
	if i < 0 || i > len(c.items) {
		return c.rangeError(i, len(c.items)+1)
	}
	if err := c.checkDetached(e); err != nil {
		return err
	}
	own(e).setOwner(c.block)
	var zero E
	c.items = append(c.items, zero)
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = e
	return nil
}

// Remove detaches and returns the element at index i.
func (c *Container[E]) Remove(i int) (E, error) {
	if i < 0 || i >= len(c.items) {
		var zero E
		return zero, c.rangeError(i, len(c.items))
	}
	e := c.items[i]
	copy(c.items[i:], c.items[i+1:])
	var zero E
	c.items[len(c.items)-1] = zero
	c.items = c.items[:len(c.items)-1]
	own(e).setOwner(nil)
	return e, nil
}

// Replace puts e at index i, releasing the previous element and returning it.
func (c *Container[E]) Replace(i int, e E) (E, error) {
	if i < 0 || i >= len(c.items) {
		var zero E
		return zero, c.rangeError(i, len(c.items))
	}
	if err := c.checkDetached(e); err != nil {
		var zero E
		return zero, err
	}
	old := c.items[i]
	own(old).setOwner(nil)
	own(e).setOwner(c.block)
	c.items[i] = e
	return old, nil
}

// IndexOf returns the position of e, or -1.
func (c *Container[E]) IndexOf(e E) int {
	for i, item := range c.items {
		if any(item) == any(e) {
			return i
		}
	}
	return -1
}

// Clear releases ownership of every element and empties the container.
func (c *Container[E]) Clear() {
	var zero E
	for i, e := range c.items {
		own(e).setOwner(nil)
		c.items[i] = zero
	}
	c.items = c.items[:0]
}

func (c *Container[E]) checkDetached(e E) error {
	if any(e) == nil {
		return errors.InvalidInput(errors.PhaseIR, "nil "+c.what)
	}
	if owner := own(e).owner(); owner != nil {
		return errors.Conflict(errors.PhaseIR, c.what, owner.index)
	}
	return nil
}

// own views a container element through its ownership methods. Containers
// are only instantiated with Instruction and *Phi.
func own[E any](e E) element {
	return any(e).(element)
}

func (c *Container[E]) rangeError(i, n int) error {
	return errors.OutOfRange(errors.PhaseIR, []string{c.block.String(), c.what + "s"}, i, n)
}
