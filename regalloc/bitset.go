package regalloc

import "math/bits"

// BitSet is a compact set of variable indices.
type BitSet struct {
	bits []uint64
}

// NewBitSet creates a BitSet able to hold values below size without
// growing.
func NewBitSet(size int) *BitSet {
	return &BitSet{bits: make([]uint64, (size+63)/64)}
}

// Set adds val to the set.
func (b *BitSet) Set(val int) {
	word := val / 64
	if word >= len(b.bits) {
		b.grow(word + 1)
	}
	b.bits[word] |= 1 << (val % 64)
}

// Clear removes val from the set.
func (b *BitSet) Clear(val int) {
	word := val / 64
	if word < len(b.bits) {
		b.bits[word] &^= 1 << (val % 64)
	}
}

// Has returns true if val is in the set.
func (b *BitSet) Has(val int) bool {
	word := val / 64
	if word >= len(b.bits) {
		return false
	}
	return b.bits[word]&(1<<(val%64)) != 0
}

// Union adds all elements from other into this set and reports whether the
// set changed.
func (b *BitSet) Union(other *BitSet) bool {
	if len(other.bits) > len(b.bits) {
		b.grow(len(other.bits))
	}
	changed := false
	for i, w := range other.bits {
		if merged := b.bits[i] | w; merged != b.bits[i] {
			b.bits[i] = merged
			changed = true
		}
	}
	return changed
}

// Clone returns an independent copy.
func (b *BitSet) Clone() *BitSet {
	c := &BitSet{bits: make([]uint64, len(b.bits))}
	copy(c.bits, b.bits)
	return c
}

// Values returns the elements in ascending order.
func (b *BitSet) Values() []int {
	var result []int
	for i, word := range b.bits {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			result = append(result, i*64+bit)
			word &= word - 1
		}
	}
	return result
}

// Count returns the number of elements in the set.
func (b *BitSet) Count() int {
	count := 0
	for _, word := range b.bits {
		count += bits.OnesCount64(word)
	}
	return count
}

// grow expands the bitset to n words.
// Callers guarantee n > len(b.bits).
func (b *BitSet) grow(n int) {
	newBits := make([]uint64, n)
	copy(newBits, b.bits)
	b.bits = newBits
}
