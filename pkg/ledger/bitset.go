package ledger

import "math/bits"

const blockWidth = 64

// Bitset is a growable set of non-negative indices backed by 64-bit blocks.
// Reads past the allocated end report unset; writes grow the storage with zero blocks.
type Bitset struct {
	blocks []uint64
}

func NewBitset() *Bitset {
	return &Bitset{}
}

func blockOf(i uint64) int {
	return int(i / blockWidth)
}

func maskOf(i uint64) uint64 {
	return 1 << (i % blockWidth)
}

// Grow appends zero blocks until index i is addressable.
func (b *Bitset) Grow(i uint64) {
	need := blockOf(i) + 1
	for len(b.blocks) < need {
		b.blocks = append(b.blocks, 0)
	}
}

func (b *Bitset) Get(i uint64) bool {
	idx := blockOf(i)
	if idx >= len(b.blocks) {
		return false
	}
	return b.blocks[idx]&maskOf(i) != 0
}

func (b *Bitset) Set(i uint64) {
	b.Grow(i)
	b.blocks[blockOf(i)] |= maskOf(i)
}

func (b *Bitset) Clear(i uint64) {
	b.Grow(i)
	b.blocks[blockOf(i)] &^= maskOf(i)
}

// rangeMask returns the bits lo..hi (inclusive, both within one block) set.
func rangeMask(lo, hi uint64) uint64 {
	width := hi - lo + 1
	if width == blockWidth {
		return ^uint64(0)
	}
	return ((uint64(1) << width) - 1) << lo
}

// spans walks [from, to] one block at a time: the partial first block, each interior
// block by its own index, and the partial last block. An inverted range is empty.
func spans(from, to uint64, fn func(block int, mask uint64) bool) {
	if from > to {
		return
	}
	first, last := blockOf(from), blockOf(to)
	for blk := first; blk <= last; blk++ {
		lo, hi := uint64(0), uint64(blockWidth-1)
		if blk == first {
			lo = from % blockWidth
		}
		if blk == last {
			hi = to % blockWidth
		}
		if !fn(blk, rangeMask(lo, hi)) {
			return
		}
	}
}

// AnySet reports whether any index in [from, to] is set. The range ops below treat from > to
// as an empty range.
func (b *Bitset) AnySet(from, to uint64) bool {
	found := false
	spans(from, to, func(blk int, mask uint64) bool {
		if blk >= len(b.blocks) {
			return false
		}
		if b.blocks[blk]&mask != 0 {
			found = true
			return false
		}
		return true
	})
	return found
}

// SetRange sets every index in [from, to].
func (b *Bitset) SetRange(from, to uint64) {
	if from > to {
		return
	}
	b.Grow(to)
	spans(from, to, func(blk int, mask uint64) bool {
		b.blocks[blk] |= mask
		return true
	})
}

// ClearRange clears every index in [from, to].
func (b *Bitset) ClearRange(from, to uint64) {
	if from > to {
		return
	}
	b.Grow(to)
	spans(from, to, func(blk int, mask uint64) bool {
		b.blocks[blk] &^= mask
		return true
	})
}

// Count returns the number of set indices.
func (b *Bitset) Count() int {
	n := 0
	for _, blk := range b.blocks {
		n += bits.OnesCount64(blk)
	}
	return n
}

// Len is the number of addressable indices currently allocated.
func (b *Bitset) Len() uint64 {
	return uint64(len(b.blocks)) * blockWidth
}

// Blocks returns a copy of the backing blocks.
func (b *Bitset) Blocks() []uint64 {
	out := make([]uint64, len(b.blocks))
	copy(out, b.blocks)
	return out
}
