package primitives

import "testing"

func TestPositionFromSlot(t *testing.T) {
	tests := []struct {
		slot int
		want Position
	}{
		{0, Position{0, 0}},
		{7, Position{0, 7}},
		{8, Position{1, 0}},
		{37, Position{4, 5}},
		{63, Position{7, 7}},
	}
	for _, tt := range tests {
		if got := PositionFromSlot(tt.slot); got != tt.want {
			t.Errorf("PositionFromSlot(%d) = %v, want %v", tt.slot, got, tt.want)
		}
	}

	// Slot must invert the conversion for every real cell.
	for slot := range 64 {
		if got := PositionFromSlot(slot).Slot(); got != slot {
			t.Errorf("round trip of slot %d gave %d", slot, got)
		}
	}
}

func TestPosition_InBounds(t *testing.T) {
	tests := []struct {
		pos  Position
		want bool
	}{
		{Position{0, 0}, true},
		{Position{7, 7}, true},
		{Position{-1, 0}, false},
		{Position{0, -1}, false},
		{Position{8, 0}, false},
		{Position{0, 8}, false},
		{Position{-1, -1}, false},
	}
	for _, tt := range tests {
		if got := tt.pos.InBounds(); got != tt.want {
			t.Errorf("%v.InBounds() = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestBitBoard_SlotAccessors(t *testing.T) {
	var b BitBoard

	b = b.SetSlot(0)
	if b != 1<<63 {
		t.Errorf("SetSlot(0) = %#x, want bit 63", uint64(b))
	}
	b = b.SetSlot(63)
	if !b.TestSlot(0) || !b.TestSlot(63) {
		t.Errorf("slots 0 and 63 should both be set, board:\n%v", b)
	}
	if b.Count() != 2 {
		t.Errorf("Count() = %d, want 2", b.Count())
	}
	b = b.ClearSlot(0)
	if b.TestSlot(0) || !b.TestSlot(63) {
		t.Errorf("ClearSlot(0) cleared the wrong cell, board:\n%v", b)
	}

	// Out-of-range slots are no-ops for mutation and false for queries.
	for _, slot := range []int{-1, 64, 1000, -64} {
		if got := b.SetSlot(slot); got != b {
			t.Errorf("SetSlot(%d) mutated the board", slot)
		}
		if got := b.ClearSlot(slot); got != b {
			t.Errorf("ClearSlot(%d) mutated the board", slot)
		}
		if b.TestSlot(slot) {
			t.Errorf("TestSlot(%d) = true", slot)
		}
	}
}

func TestBitBoard_PositionAccessors(t *testing.T) {
	var b BitBoard
	p := Position{3, 4}

	b = b.Set(p)
	if !b.Test(p) {
		t.Errorf("Test(%v) = false after Set", p)
	}
	if !b.TestSlot(3*8 + 4) {
		t.Errorf("Set(%v) did not set slot %d", p, 3*8+4)
	}
	if got := b.Clear(p); got != 0 {
		t.Errorf("Clear(%v) = %#x, want empty board", p, uint64(got))
	}

	// Border neighbor positions must not wrap onto other cells.
	for _, oob := range []Position{{-1, 0}, {0, -1}, {8, 3}, {3, 8}, {-1, 8}} {
		if got := b.Set(oob); got != b {
			t.Errorf("Set(%v) mutated the board", oob)
		}
		if got := b.Clear(oob); got != b {
			t.Errorf("Clear(%v) mutated the board", oob)
		}
		if b.Test(oob) {
			t.Errorf("Test(%v) = true", oob)
		}
	}
}

func TestRowMask(t *testing.T) {
	for row := range 8 {
		m := RowMask(row)
		if m.Count() != 8 {
			t.Errorf("RowMask(%d).Count() = %d, want 8", row, m.Count())
		}
		for col := range 8 {
			if !m.Test(Position{row, col}) {
				t.Errorf("RowMask(%d) missing %v", row, Position{row, col})
			}
		}
	}
	if RowMask(-1) != 0 || RowMask(8) != 0 {
		t.Error("out-of-range RowMask should be empty")
	}
}

func TestColMask(t *testing.T) {
	for col := range 8 {
		m := ColMask(col)
		if m.Count() != 8 {
			t.Errorf("ColMask(%d).Count() = %d, want 8", col, m.Count())
		}
		for row := range 8 {
			if !m.Test(Position{row, col}) {
				t.Errorf("ColMask(%d) missing %v", col, Position{row, col})
			}
		}
	}
	if ColMask(-1) != 0 || ColMask(8) != 0 {
		t.Error("out-of-range ColMask should be empty")
	}

	// Any row and column intersect in exactly one cell.
	if got := (RowMask(2) & ColMask(5)).Count(); got != 1 {
		t.Errorf("row 2 and col 5 intersect in %d cells, want 1", got)
	}
}

func TestBitBoard_Overlaps(t *testing.T) {
	a := BitBoard(0).Set(Position{1, 1}).Set(Position{2, 2})
	b := BitBoard(0).Set(Position{2, 2})
	c := BitBoard(0).Set(Position{7, 0})

	if !a.Overlaps(b) {
		t.Error("a and b share (r2, c2) but Overlaps = false")
	}
	if a.Overlaps(c) {
		t.Error("a and c are disjoint but Overlaps = true")
	}
	if a.Overlaps(0) {
		t.Error("nothing overlaps the empty board")
	}
}
