package primitives

import (
	"fmt"
	"math/bits"
	"strings"
)

// A BitBoard packs one boolean per cell of the fixed 8x8 grid into a single
// 64-bit word. Bit 63-(row*8+col) is set when the cell is present, so the
// most significant bit is the top-left corner and the layout is row-major.
// Row and column extraction masks depend on this layout.
type BitBoard uint64

// A Position addresses a cell by row and column. Positions outside [0,8) are
// legal to construct (neighbor arithmetic at the border produces them); every
// accessor treats them as absent rather than wrapping onto another cell.
type Position struct {
	Row int
	Col int
}

// PositionFromSlot converts a linear cell index (0-63, row-major) to a
// Position.
func PositionFromSlot(slot int) Position {
	return Position{Row: slot / 8, Col: slot % 8}
}

// Slot converts the position back to its linear cell index.
func (p Position) Slot() int {
	return p.Row*8 + p.Col
}

// InBounds reports whether the position names a real cell.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

// Translate returns the position shifted by dr rows and dc columns.
func (p Position) Translate(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) String() string {
	return fmt.Sprintf("(r%d, c%d)", p.Row, p.Col)
}

// SetSlot returns the board with the cell at slot set. Out-of-range slots
// leave the board unchanged.
func (b BitBoard) SetSlot(slot int) BitBoard {
	if slot < 0 || slot >= 64 {
		return b
	}
	return b | 1<<(63-slot)
}

// ClearSlot returns the board with the cell at slot cleared. Out-of-range
// slots leave the board unchanged.
func (b BitBoard) ClearSlot(slot int) BitBoard {
	if slot < 0 || slot >= 64 {
		return b
	}
	return b &^ (1 << (63 - slot))
}

// TestSlot reports whether the cell at slot is set. Out-of-range slots are
// never set.
func (b BitBoard) TestSlot(slot int) bool {
	if slot < 0 || slot >= 64 {
		return false
	}
	return b&(1<<(63-slot)) != 0
}

// Set returns the board with the cell at p set. Out-of-bounds positions
// leave the board unchanged; callers rely on this to build neighbor masks at
// the border without bounds checks.
func (b BitBoard) Set(p Position) BitBoard {
	if !p.InBounds() {
		return b
	}
	return b | 1<<(63-p.Slot())
}

// Clear returns the board with the cell at p cleared.
func (b BitBoard) Clear(p Position) BitBoard {
	if !p.InBounds() {
		return b
	}
	return b &^ (1 << (63 - p.Slot()))
}

// Test reports whether the cell at p is set. Out-of-bounds positions are
// never set.
func (b BitBoard) Test(p Position) bool {
	if !p.InBounds() {
		return false
	}
	return b&(1<<(63-p.Slot())) != 0
}

// Count returns the number of set cells.
func (b BitBoard) Count() int {
	return bits.OnesCount64(uint64(b))
}

// Overlaps reports whether the two boards share any set cell.
func (b BitBoard) Overlaps(o BitBoard) bool {
	return b&o != 0
}

const (
	topRowMask  BitBoard = 0xFF00_0000_0000_0000
	leftColMask BitBoard = 0x8080_8080_8080_8080
)

// RowMask returns the board with every cell of the given row set, or the
// empty board for an out-of-range row.
func RowMask(row int) BitBoard {
	if row < 0 || row >= 8 {
		return 0
	}
	return topRowMask >> (row * 8)
}

// ColMask returns the board with every cell of the given column set, or the
// empty board for an out-of-range column.
func ColMask(col int) BitBoard {
	if col < 0 || col >= 8 {
		return 0
	}
	return leftColMask >> col
}

// String renders the board as eight lines of zeros and ones, top row first.
func (b BitBoard) String() string {
	var sb strings.Builder
	for slot := range 64 {
		if b.TestSlot(slot) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
		if slot%8 == 7 && slot != 63 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
