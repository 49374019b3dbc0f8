package dungeon

import (
	"context"
	"iter"

	"crosswarped.com/dungeon/internal/rules"
	"crosswarped.com/dungeon/pkg/primitives"
)

// Tile is one of the four contents the generator can assign to a cell. The
// zero value Empty doubles as the exhausted marker during backtracking: a
// slot cycles Empty -> Treasure -> Monster -> Wall -> Empty, and a slot back
// at Empty has no alternatives left.
type Tile uint8

const (
	TileEmpty Tile = iota
	TileTreasure
	TileMonster
	TileWall
)

// next returns the successor in the tile cycle.
func (t Tile) next() Tile {
	switch t {
	case TileEmpty:
		return TileTreasure
	case TileTreasure:
		return TileMonster
	case TileMonster:
		return TileWall
	default:
		return TileEmpty
	}
}

// exhausted reports whether the slot holding this tile has no alternatives
// left to try.
func (t Tile) exhausted() bool {
	return t == TileEmpty
}

// GeneratedPuzzle pairs a generated puzzle with the board layout the
// generator constructed and the number of solutions the solver counted for
// the derived clues. NumSolutions is the exact total even when it exceeds
// the generator's solve capacity.
type GeneratedPuzzle struct {
	Puzzle       Puzzle
	Board        primitives.BitBoard
	NumSolutions uint64
}

// DefaultSolveCapacity bounds how many solutions the scoring solve stores
// per candidate puzzle when the generator is created with no explicit
// capacity.
const DefaultSolveCapacity = 128

// Generator searches the space of whole board assignments, one tile per
// cell, for boards that satisfy the structural rules. Each complete board
// becomes a puzzle whose clue counts are derived from its walls and whose
// solution count comes from the solver. A Generator is not safe for
// concurrent use; independent Generators are.
type Generator struct {
	// SolveCapacity bounds stored solutions in the per-candidate scoring
	// solve. The reported NumSolutions keeps counting past it.
	SolveCapacity int

	steps uint64
}

// CreateGenerator returns a generator scoring candidates with the given
// solve capacity, or DefaultSolveCapacity when it is not positive.
func CreateGenerator(solveCapacity int) *Generator {
	if solveCapacity <= 0 {
		solveCapacity = DefaultSolveCapacity
	}
	return &Generator{SolveCapacity: solveCapacity}
}

// Steps returns how many tile transitions the current or most recent
// PossiblePuzzles walk has taken. It exists to keep an eye on search cost in
// regression tests.
func (g *Generator) Steps() uint64 {
	return g.steps
}

// PossiblePuzzles streams every self-consistent board in a fixed
// deterministic order, scored as it is found. Cancelling the context ends
// the sequence early at the next check interval.
//
// The walk has the same shape as the solver's: an explicit slot pointer over
// slots 0-63, except each slot cycles through the four tile states instead
// of a boolean. Recording a complete board does not advance the pointer, so
// backtracking continues into further boards.
func (g *Generator) PossiblePuzzles(ctx context.Context) iter.Seq[GeneratedPuzzle] {
	return func(yield func(GeneratedPuzzle) bool) {
		var tiles [64]Tile
		// Clue targets stay zero here: counts are derived per board, never
		// checked during the walk.
		var b rules.Board
		var walls primitives.BitBoard
		g.steps = 0
		slot := 0
		for slot >= 0 && slot < 64 {
			g.steps++
			if g.steps%ctxCheckInterval == 0 && ctx.Err() != nil {
				return
			}

			// Undo the slot's current tile and take the next in the cycle.
			switch tiles[slot] {
			case TileEmpty:
				b.Treasures = b.Treasures.SetSlot(slot)
			case TileTreasure:
				b.Treasures = b.Treasures.ClearSlot(slot)
				b.Monsters = b.Monsters.SetSlot(slot)
			case TileMonster:
				b.Monsters = b.Monsters.ClearSlot(slot)
				walls = walls.SetSlot(slot)
			case TileWall:
				walls = walls.ClearSlot(slot)
			}
			tiles[slot] = tiles[slot].next()

			if rules.CheckTiles(b, walls, slot) {
				if slot < 63 {
					slot++
					continue
				}
				// A complete, consistent board. Score it and hand it out,
				// then keep backtracking as if it had failed.
				if !yield(g.score(ctx, b, walls)) {
					return
				}
			}

			for slot >= 0 && tiles[slot].exhausted() {
				slot--
			}
		}
	}
}

// score freezes the board into a puzzle, deriving the clue counts from its
// walls, and counts its solutions.
func (g *Generator) score(ctx context.Context, b rules.Board, walls primitives.BitBoard) GeneratedPuzzle {
	p := Puzzle{monsters: b.Monsters, treasures: b.Treasures}
	for i := range 8 {
		p.rowTargets[i] = WallsInRow(walls, i)
		p.colTargets[i] = WallsInCol(walls, i)
	}
	_, total, _ := Solve(ctx, p, g.SolveCapacity)
	return GeneratedPuzzle{Puzzle: p, Board: walls, NumSolutions: total}
}

// Generate collects at most maxPuzzles generated puzzles, then stops the
// search immediately. A cancelled context returns the puzzles gathered so
// far together with the context's error.
func (g *Generator) Generate(ctx context.Context, maxPuzzles int) ([]GeneratedPuzzle, error) {
	if maxPuzzles <= 0 {
		return nil, nil
	}
	var out []GeneratedPuzzle
	for gp := range g.PossiblePuzzles(ctx) {
		out = append(out, gp)
		if len(out) >= maxPuzzles {
			break
		}
	}
	return out, ctx.Err()
}

// Generate runs a fresh default generator for at most maxPuzzles puzzles.
func Generate(ctx context.Context, maxPuzzles int) ([]GeneratedPuzzle, error) {
	return CreateGenerator(0).Generate(ctx, maxPuzzles)
}
