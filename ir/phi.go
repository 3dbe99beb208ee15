package ir

// Phi selects a value at block entry according to the predecessor control
// arrived from.
type Phi struct {
	block     *BasicBlock
	Receiver  *Variable
	Incomings []*Incoming
}

// Incoming pairs a predecessor block with the value flowing from it.
type Incoming struct {
	Source *BasicBlock
	Value  *Variable
}

// Block returns the owning block, or nil while detached.
func (p *Phi) Block() *BasicBlock {
	return p.block
}

// AddIncoming appends an incoming edge.
func (p *Phi) AddIncoming(source *BasicBlock, value *Variable) *Incoming {
	in := &Incoming{Source: source, Value: value}
	p.Incomings = append(p.Incomings, in)
	return in
}

// IncomingFrom returns the incoming edge from source, or nil.
func (p *Phi) IncomingFrom(source *BasicBlock) *Incoming {
	for _, in := range p.Incomings {
		if in.Source == source {
			return in
		}
	}
	return nil
}

func (p *Phi) owner() *BasicBlock     { return p.block }
func (p *Phi) setOwner(b *BasicBlock) { p.block = b }
