package ledger

import "testing"

func TestBitset_GetSetClear(t *testing.T) {
	b := NewBitset()

	if b.Get(1000) {
		t.Error("expected unallocated index to read as unset")
	}
	if b.Len() != 0 {
		t.Errorf("reads must not grow storage, got len %d", b.Len())
	}

	for _, i := range []uint64{0, 63, 64, 127, 200} {
		b.Set(i)
		if !b.Get(i) {
			t.Errorf("expected %d to be set", i)
		}
	}
	if b.Len() != 256 {
		t.Errorf("expected 256 addressable indices, got %d", b.Len())
	}
	if b.Count() != 5 {
		t.Errorf("expected 5 set bits, got %d", b.Count())
	}

	b.Clear(63)
	if b.Get(63) {
		t.Error("expected 63 to be cleared")
	}
	if !b.Get(64) {
		t.Error("clearing 63 must not touch 64")
	}
}

func TestBitset_GrowIsZeroFilled(t *testing.T) {
	b := NewBitset()
	b.Grow(130)

	blocks := b.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	for i, blk := range blocks {
		if blk != 0 {
			t.Errorf("block %d expected zero, got %#x", i, blk)
		}
	}

	b.Grow(10)
	if len(b.Blocks()) != 3 {
		t.Error("grow must never shrink storage")
	}
}

func TestBitset_Ranges(t *testing.T) {
	tests := []struct {
		name string
		from uint64
		to   uint64
		want int
	}{
		{"single bit", 5, 5, 1},
		{"whole first block", 0, 63, 64},
		{"straddles boundary", 60, 70, 11},
		{"three interior blocks", 10, 300, 291},
		{"last bit of block", 127, 127, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBitset()
			if b.AnySet(tt.from, tt.to) {
				t.Fatal("expected empty set")
			}
			b.SetRange(tt.from, tt.to)
			if got := b.Count(); got != tt.want {
				t.Errorf("expected %d bits set, got %d", tt.want, got)
			}
			if !b.AnySet(tt.from, tt.to) {
				t.Error("expected range to report set bits")
			}
			if tt.from > 0 && b.Get(tt.from-1) {
				t.Error("bit before range must stay clear")
			}
			if b.Get(tt.to + 1) {
				t.Error("bit after range must stay clear")
			}
			b.ClearRange(tt.from, tt.to)
			if b.Count() != 0 {
				t.Errorf("expected all bits cleared, got %d", b.Count())
			}
		})
	}
}

func TestBitset_AnySetDetectsInteriorBlocks(t *testing.T) {
	b := NewBitset()
	b.Set(190)

	if !b.AnySet(3, 250) {
		t.Error("expected a set bit in an interior block to be found")
	}
	if b.AnySet(3, 189) {
		t.Error("expected no set bit before 190")
	}
	if b.AnySet(191, 5000) {
		t.Error("expected no set bit after 190")
	}
}

func TestBitset_BlocksIsACopy(t *testing.T) {
	b := NewBitset()
	b.Set(1)
	blocks := b.Blocks()
	blocks[0] = 0
	if !b.Get(1) {
		t.Error("mutating the snapshot must not affect the set")
	}
}

func TestBitset_InvertedRangeIsEmpty(t *testing.T) {
	b := NewBitset()
	b.SetRange(9, 3)
	if b.Count() != 0 || b.Len() != 0 {
		t.Fatalf("inverted SetRange changed the set: count=%d len=%d", b.Count(), b.Len())
	}

	b.SetRange(0, 10)
	if b.AnySet(9, 3) {
		t.Error("inverted range must report no set bits")
	}
	b.ClearRange(9, 3)
	if b.Count() != 11 {
		t.Errorf("inverted ClearRange cleared bits, %d left", b.Count())
	}
}
