// Package rules implements the structural constraints a wall layout must
// satisfy. Every check is incremental: it takes the slot whose cell changed
// most recently and assumes every lower-indexed slot already passed, so it
// only re-validates the changed cell plus the small neighborhood the
// advancing frontier has just closed. The search loops depend on that
// discipline; a full re-check per step would make them intractable.
package rules

import "crosswarped.com/dungeon/pkg/primitives"

// Board is the checker's view of one puzzle: the fixed cell contents plus
// the wall-count clues. The generator leaves the targets at zero and never
// runs the count checks, since its clues are derived afterwards.
type Board struct {
	Monsters   primitives.BitBoard
	Treasures  primitives.BitBoard
	RowTargets [8]int
	ColTargets [8]int
}

// CheckWalls runs every constraint the solver needs after toggling slot in
// walls. It reports whether the partial layout is still consistent.
func CheckWalls(b Board, walls primitives.BitBoard, slot int) bool {
	return checkOverlap(b, walls) &&
		checkRowCount(b, walls, slot) &&
		checkColCount(b, walls, slot) &&
		checkDeadEnds(b, walls, slot) &&
		checkMonsters(b, walls, slot) &&
		checkWideSpace(b, walls, slot) &&
		checkTreasureRooms(b, walls, slot)
}

// CheckTiles runs the constraints the generator needs after re-assigning the
// tile at slot. Clue counts are skipped, and monster validity is checked at
// the current slot immediately: the retrospective schedule in checkMonsters
// would otherwise let a freshly placed monster slip through until the search
// advanced past it.
func CheckTiles(b Board, walls primitives.BitBoard, slot int) bool {
	return !monsterInvalid(b, walls, primitives.PositionFromSlot(slot)) &&
		checkOverlap(b, walls) &&
		checkDeadEnds(b, walls, slot) &&
		checkMonsters(b, walls, slot) &&
		checkWideSpace(b, walls, slot) &&
		checkTreasureRooms(b, walls, slot)
}

// Testing the whole mask is a single AND, cheaper than isolating the slot.
func checkOverlap(b Board, walls primitives.BitBoard) bool {
	return !walls.Overlaps(b.Monsters) && !walls.Overlaps(b.Treasures)
}

func checkRowCount(b Board, walls primitives.BitBoard, slot int) bool {
	p := primitives.PositionFromSlot(slot)
	n := (walls & primitives.RowMask(p.Row)).Count()
	if n > b.RowTargets[p.Row] {
		return false
	}
	// The row is fully decided at the last column; the count must match
	// exactly there.
	if p.Col == 7 && n != b.RowTargets[p.Row] {
		return false
	}
	return true
}

func checkColCount(b Board, walls primitives.BitBoard, slot int) bool {
	p := primitives.PositionFromSlot(slot)
	n := (walls & primitives.ColMask(p.Col)).Count()
	if n > b.ColTargets[p.Col] {
		return false
	}
	if p.Row == 7 && n != b.ColTargets[p.Col] {
		return false
	}
	return true
}

// neighborMask returns the in-bounds orthogonal neighbors of p. Border
// positions simply contribute fewer cells.
func neighborMask(p primitives.Position) primitives.BitBoard {
	var m primitives.BitBoard
	m = m.Set(p.Translate(-1, 0))
	m = m.Set(p.Translate(1, 0))
	m = m.Set(p.Translate(0, -1))
	m = m.Set(p.Translate(0, 1))
	return m
}

// isDeadEnd reports whether p is an open floor cell with at most one open
// orthogonal neighbor. Walls, monsters, treasures and out-of-bounds
// positions are never dead ends.
func isDeadEnd(b Board, walls primitives.BitBoard, p primitives.Position) bool {
	if !p.InBounds() {
		return false
	}
	if walls.Test(p) || b.Monsters.Test(p) || b.Treasures.Test(p) {
		return false
	}
	border := neighborMask(p)
	return (border & walls).Count() >= border.Count()-1
}

// checkDeadEnds looks at the current slot plus the cells above it and to its
// left: those are the cells whose neighborhoods the left-to-right, top-to-
// bottom frontier has just closed.
func checkDeadEnds(b Board, walls primitives.BitBoard, slot int) bool {
	p := primitives.PositionFromSlot(slot)
	return !isDeadEnd(b, walls, p.Translate(-1, 0)) &&
		!isDeadEnd(b, walls, p.Translate(0, -1)) &&
		!isDeadEnd(b, walls, p)
}

// monsterInvalid reports whether the monster at p is inconsistent. A monster
// needs exactly one open orthogonal neighbor, its lone exit, and may not sit
// next to another monster or a treasure. Positions without a monster are
// never invalid.
func monsterInvalid(b Board, walls primitives.BitBoard, p primitives.Position) bool {
	if !p.InBounds() || !b.Monsters.Test(p) {
		return false
	}
	border := neighborMask(p)
	if border.Overlaps(b.Monsters) || border.Overlaps(b.Treasures) {
		return true
	}
	return (border & walls).Count() != border.Count()-1
}

// checkMonsters validates monsters whose neighborhoods just became fully
// decided: the cell above the slot always, plus the cell to the left and the
// slot itself once the search is in the last row and at the last cell.
func checkMonsters(b Board, walls primitives.BitBoard, slot int) bool {
	p := primitives.PositionFromSlot(slot)
	if monsterInvalid(b, walls, p.Translate(-1, 0)) {
		return false
	}
	if p.Row == 7 {
		if monsterInvalid(b, walls, p.Translate(0, -1)) {
			return false
		}
		if p.Col == 7 && monsterInvalid(b, walls, p) {
			return false
		}
	}
	return true
}

// checkWideSpace rejects a fully open 2x2 block whose bottom-right corner is
// the current slot, unless a treasure in one of the twelve surrounding cells
// marks it as treasure-room interior.
func checkWideSpace(b Board, walls primitives.BitBoard, slot int) bool {
	p := primitives.PositionFromSlot(slot)
	var space primitives.BitBoard
	space = space.Set(p)
	space = space.Set(p.Translate(0, -1))
	space = space.Set(p.Translate(-1, 0))
	space = space.Set(p.Translate(-1, -1))
	if space.Count() != 4 ||
		space.Overlaps(walls) || space.Overlaps(b.Monsters) || space.Overlaps(b.Treasures) {
		return true
	}
	var around primitives.BitBoard
	for _, d := range [12][2]int{
		{-2, -2}, {-2, -1}, {-2, 0}, {-2, 1},
		{-1, -2}, {-1, 1},
		{0, -2}, {0, 1},
		{1, -2}, {1, -1}, {1, 0}, {1, 1},
	} {
		around = around.Set(p.Translate(d[0], d[1]))
	}
	return around.Overlaps(b.Treasures)
}

// roomPerimeter returns the in-bounds cells of the 12-cell ring around the
// 3x3 room at center.
func roomPerimeter(center primitives.Position) primitives.BitBoard {
	var ring primitives.BitBoard
	for _, d := range [12][2]int{
		{-2, -1}, {-2, 0}, {-2, 1},
		{2, -1}, {2, 0}, {2, 1},
		{-1, -2}, {0, -2}, {1, -2},
		{-1, 2}, {0, 2}, {1, 2},
	} {
		ring = ring.Set(center.Translate(d[0], d[1]))
	}
	return ring
}

// roomInvalid reports whether the 3x3 room at center can no longer house the
// given treasure. The room itself must be fully in bounds, free of walls and
// of any other monster or treasure; the perimeter ring must hold no monster
// or treasure and must leave the room an opening. Once the checked slot is
// at or past the room's far corner (or is the final cell) the ring is fully
// decided and the opening must be exactly one cell; before that only a fully
// sealed ring can be rejected.
func roomInvalid(b Board, walls primitives.BitBoard, treasure, center primitives.Position, slot int) bool {
	var room primitives.BitBoard
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			room = room.Set(center.Translate(dr, dc))
		}
	}
	if room.Count() != 9 {
		return true
	}
	others := b.Treasures.Clear(treasure)
	if room.Overlaps(b.Monsters) || room.Overlaps(others) || room.Overlaps(walls) {
		return true
	}
	ring := roomPerimeter(center)
	if ring.Overlaps(b.Monsters) || ring.Overlaps(b.Treasures) {
		return true
	}
	at := primitives.PositionFromSlot(slot)
	if (at.Row >= center.Row+2 && at.Col >= center.Col+2) || (at.Row == 7 && at.Col == 7) {
		return (ring & walls).Count() != ring.Count()-1
	}
	return (ring & walls).Count() == ring.Count()
}

// treasureInvalid reports whether none of the nine candidate rooms around
// the treasure remains valid.
func treasureInvalid(b Board, walls primitives.BitBoard, treasure primitives.Position, slot int) bool {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if !roomInvalid(b, walls, treasure, treasure.Translate(dr, dc), slot) {
				return false
			}
		}
	}
	return true
}

// checkTreasureRooms passes only while every treasure still has at least one
// valid room placement.
func checkTreasureRooms(b Board, walls primitives.BitBoard, slot int) bool {
	if b.Treasures == 0 {
		return true
	}
	for s := range 64 {
		p := primitives.PositionFromSlot(s)
		if b.Treasures.Test(p) && treasureInvalid(b, walls, p, slot) {
			return false
		}
	}
	return true
}
