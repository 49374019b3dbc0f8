package dungeon

import (
	"context"
	"iter"

	"github.com/sirupsen/logrus"

	"crosswarped.com/dungeon/internal/rules"
	"crosswarped.com/dungeon/pkg/primitives"
)

var log = logrus.New()

// How many search steps pass between context checks. The search has no
// long-running step besides loop iterations, so this is the cancellation
// granularity.
const ctxCheckInterval = 1 << 10

// Solutions streams every wall layout consistent with the puzzle, in a
// fixed deterministic order. Cancelling the context ends the sequence early
// at the next check interval.
//
// The walk is a depth-first search over the 2^64 layout space, flattened
// into an explicit slot pointer: each slot first tries holding a wall, then
// being open, and a cleared slot counts as exhausted during backtracking.
// The constraint checks prune at every step, keyed to the toggled slot.
func (p Puzzle) Solutions(ctx context.Context) iter.Seq[primitives.BitBoard] {
	return func(yield func(primitives.BitBoard) bool) {
		b := p.board()
		var walls primitives.BitBoard
		var steps uint64
		slot := 0
		for slot >= 0 && slot < 64 {
			steps++
			if steps%ctxCheckInterval == 0 && ctx.Err() != nil {
				return
			}

			if !walls.TestSlot(slot) {
				walls = walls.SetSlot(slot)
			} else {
				walls = walls.ClearSlot(slot)
			}

			if rules.CheckWalls(b, walls, slot) {
				if slot < 63 {
					slot++
					continue
				}
				// A complete layout. Hand it out without advancing; the
				// backtrack below keeps the search going for the rest.
				if !yield(walls) {
					return
				}
			}

			// Walk back to the deepest slot still holding a wall. Every
			// cleared slot on the way has no alternatives left.
			for slot >= 0 && !walls.TestSlot(slot) {
				slot--
			}
		}
	}
}

// Solve enumerates every solution of the puzzle. At most maxSolutions
// layouts are stored in the returned slice, but the returned total keeps
// counting past that, so it is exact even when storage saturates. The first
// time storage overflows a diagnostic is logged; later overflow is silent.
//
// Two calls with identical inputs return identical results in identical
// order. A cancelled context returns the partial results gathered so far
// together with the context's error.
func Solve(ctx context.Context, p Puzzle, maxSolutions int) ([]primitives.BitBoard, uint64, error) {
	if maxSolutions < 0 {
		maxSolutions = 0
	}
	var solutions []primitives.BitBoard
	var total uint64
	for walls := range p.Solutions(ctx) {
		if len(solutions) < maxSolutions {
			solutions = append(solutions, walls)
		} else if total == uint64(maxSolutions) {
			log.WithField("max_solutions", maxSolutions).
				Warn("hit max solutions, no longer recording them")
		}
		total++
	}
	return solutions, total, ctx.Err()
}
