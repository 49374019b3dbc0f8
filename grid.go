package dungeon

import (
	"strings"

	"crosswarped.com/dungeon/pkg/primitives"
)

// CellKind classifies one cell of a rendered board.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellWall
	CellMonster
	CellTreasure
	// CellConflict marks a cell claimed by more than one of wall, monster
	// and treasure. A consistent search never produces one, but the
	// renderer still needs a glyph for it.
	CellConflict
)

// Glyph returns the single-character rendering of the kind.
func (k CellKind) Glyph() rune {
	switch k {
	case CellWall:
		return 'X'
	case CellMonster:
		return 'M'
	case CellTreasure:
		return 'T'
	case CellConflict:
		return '?'
	default:
		return '.'
	}
}

// CellAt classifies the cell at pos against the puzzle's fixed contents and
// a wall layout.
func (p Puzzle) CellAt(walls primitives.BitBoard, pos primitives.Position) CellKind {
	m := p.monsters.Test(pos)
	t := p.treasures.Test(pos)
	w := walls.Test(pos)
	switch {
	case (m && t) || (m && w) || (t && w):
		return CellConflict
	case m:
		return CellMonster
	case t:
		return CellTreasure
	case w:
		return CellWall
	default:
		return CellEmpty
	}
}

// Render draws the puzzle with the given wall layout as eight lines of
// glyphs, top row first. Pass the empty board to render the bare puzzle.
func (p Puzzle) Render(walls primitives.BitBoard) string {
	var sb strings.Builder
	for row := range 8 {
		for col := range 8 {
			pos := primitives.Position{Row: row, Col: col}
			sb.WriteRune(p.CellAt(walls, pos).Glyph())
		}
		if row < 7 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
