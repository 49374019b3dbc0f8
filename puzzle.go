// Package dungeon solves and generates wall puzzles on a fixed 8x8 grid.
// A puzzle gives the number of walls in every row and column plus the cells
// holding monsters and treasures; Solve enumerates every wall layout that
// satisfies the structural rules, and a Generator searches the space of
// whole boards for self-consistent puzzles, scoring each one by its
// solution count.
package dungeon

import (
	"fmt"

	"crosswarped.com/dungeon/internal/rules"
	"crosswarped.com/dungeon/pkg/primitives"
)

// Puzzle is one immutable puzzle instance: sixteen wall-count clues plus the
// fixed monster and treasure cells. Monsters and treasures never share a
// cell; that is the constructing caller's contract.
type Puzzle struct {
	rowTargets [8]int
	colTargets [8]int
	monsters   primitives.BitBoard
	treasures  primitives.BitBoard
}

// NewPuzzle builds a puzzle from its clue counts and cell lists. It panics
// when either list has more entries than the board has cells; that is a
// caller bug, not a recoverable condition.
func NewPuzzle(rowTargets, colTargets [8]int, monsters, treasures []primitives.Position) Puzzle {
	if len(monsters) > 64 {
		panic(fmt.Sprintf("dungeon: %d monsters on a 64-cell board", len(monsters)))
	}
	if len(treasures) > 64 {
		panic(fmt.Sprintf("dungeon: %d treasures on a 64-cell board", len(treasures)))
	}
	p := Puzzle{rowTargets: rowTargets, colTargets: colTargets}
	for _, m := range monsters {
		p.monsters = p.monsters.Set(m)
	}
	for _, t := range treasures {
		p.treasures = p.treasures.Set(t)
	}
	return p
}

// RowTarget returns the required wall count for a row.
func (p Puzzle) RowTarget(row int) int {
	return p.rowTargets[row]
}

// ColTarget returns the required wall count for a column.
func (p Puzzle) ColTarget(col int) int {
	return p.colTargets[col]
}

// Monsters returns the monster cells.
func (p Puzzle) Monsters() primitives.BitBoard {
	return p.monsters
}

// Treasures returns the treasure cells.
func (p Puzzle) Treasures() primitives.BitBoard {
	return p.treasures
}

func (p Puzzle) board() rules.Board {
	return rules.Board{
		Monsters:   p.monsters,
		Treasures:  p.treasures,
		RowTargets: p.rowTargets,
		ColTargets: p.colTargets,
	}
}

// WallsInRow counts the walls a layout places in the given row.
func WallsInRow(walls primitives.BitBoard, row int) int {
	return (walls & primitives.RowMask(row)).Count()
}

// WallsInCol counts the walls a layout places in the given column.
func WallsInCol(walls primitives.BitBoard, col int) int {
	return (walls & primitives.ColMask(col)).Count()
}
