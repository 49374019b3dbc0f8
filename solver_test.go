package dungeon

import (
	"context"
	"reflect"
	"testing"

	"crosswarped.com/dungeon/pkg/primitives"
)

// The example puzzle from the project's documentation: one monster in the
// bottom row, no treasures.
func examplePuzzle() Puzzle {
	return NewPuzzle(
		[8]int{1, 4, 3, 2, 4, 5, 3, 3},
		[8]int{1, 3, 6, 2, 4, 2, 3, 4},
		[]primitives.Position{{Row: 7, Col: 5}},
		nil,
	)
}

// checkSolution asserts every structural invariant a complete solution of p
// must satisfy.
func checkSolution(t *testing.T, p Puzzle, walls primitives.BitBoard) {
	t.Helper()

	for i := range 8 {
		if got := WallsInRow(walls, i); got != p.RowTarget(i) {
			t.Errorf("row %d has %d walls, clue says %d", i, got, p.RowTarget(i))
		}
		if got := WallsInCol(walls, i); got != p.ColTarget(i) {
			t.Errorf("col %d has %d walls, clue says %d", i, got, p.ColTarget(i))
		}
	}
	if walls.Overlaps(p.Monsters()) || walls.Overlaps(p.Treasures()) {
		t.Error("walls overlap a monster or treasure")
	}

	for slot := range 64 {
		pos := primitives.PositionFromSlot(slot)
		if walls.Test(pos) || p.Monsters().Test(pos) || p.Treasures().Test(pos) {
			continue
		}
		if openNeighbors(p, walls, pos) <= 1 {
			t.Errorf("open cell %v is a dead end", pos)
		}
	}

	for slot := range 64 {
		pos := primitives.PositionFromSlot(slot)
		if !p.Monsters().Test(pos) {
			continue
		}
		if got := openNeighbors(p, walls, pos); got != 1 {
			t.Errorf("monster %v has %d open neighbors, want 1", pos, got)
		}
	}

	blocked := walls | p.Monsters() | p.Treasures()
	for row := 1; row < 8; row++ {
		for col := 1; col < 8; col++ {
			var space primitives.BitBoard
			space = space.Set(primitives.Position{Row: row, Col: col})
			space = space.Set(primitives.Position{Row: row - 1, Col: col})
			space = space.Set(primitives.Position{Row: row, Col: col - 1})
			space = space.Set(primitives.Position{Row: row - 1, Col: col - 1})
			if space.Overlaps(blocked) {
				continue
			}
			var around primitives.BitBoard
			for dr := -2; dr <= 1; dr++ {
				for dc := -2; dc <= 1; dc++ {
					around = around.Set(primitives.Position{Row: row + dr, Col: col + dc})
				}
			}
			if !around.Overlaps(p.Treasures()) {
				t.Errorf("bare 2x2 opening with corner (r%d, c%d)", row, col)
			}
		}
	}
}

// wallsFromRows builds a wall layout from eight lines of '.' and 'X'.
func wallsFromRows(rows [8]string) primitives.BitBoard {
	var walls primitives.BitBoard
	for r, line := range rows {
		for c, cell := range line {
			if cell == 'X' {
				walls = walls.Set(primitives.Position{Row: r, Col: c})
			}
		}
	}
	return walls
}

func openNeighbors(p Puzzle, walls primitives.BitBoard, pos primitives.Position) int {
	n := 0
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		q := pos.Translate(d[0], d[1])
		if q.InBounds() && !walls.Test(q) {
			n++
		}
	}
	return n
}

func TestSolve_AllWalls(t *testing.T) {
	eights := [8]int{8, 8, 8, 8, 8, 8, 8, 8}
	p := NewPuzzle(eights, eights, nil, nil)

	sols, total, err := Solve(context.Background(), p, 16)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if total != 1 || len(sols) != 1 {
		t.Fatalf("got %d solutions (stored %d), want exactly 1", total, len(sols))
	}
	if sols[0] != ^primitives.BitBoard(0) {
		t.Errorf("solution is not the full board:\n%v", sols[0])
	}
}

func TestSolve_NoWallsIsImpossible(t *testing.T) {
	// An empty board has bare 2x2 openings everywhere, so zero clues admit
	// no layout at all.
	p := NewPuzzle([8]int{}, [8]int{}, nil, nil)

	sols, total, err := Solve(context.Background(), p, 16)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if total != 0 || len(sols) != 0 {
		t.Fatalf("got %d solutions, want 0", total)
	}
}

func TestSolve_RingAroundPillar(t *testing.T) {
	// Clues that force a single open ring in the top-left corner around a
	// wall pillar at (1, 1); everything else is walls. The counts pin the
	// layout completely, so there is exactly one solution.
	counts := [8]int{5, 6, 5, 8, 8, 8, 8, 8}
	p := NewPuzzle(counts, counts, nil, nil)

	want := ^primitives.BitBoard(0)
	for _, open := range []primitives.Position{
		{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2},
		{Row: 1, Col: 0}, {Row: 1, Col: 2},
		{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2},
	} {
		want = want.Clear(open)
	}

	sols, total, err := Solve(context.Background(), p, 16)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if total != 1 || len(sols) != 1 {
		t.Fatalf("got %d solutions (stored %d), want exactly 1", total, len(sols))
	}
	if sols[0] != want {
		t.Errorf("wrong layout:\ngot\n%v\nwant\n%v", sols[0], want)
	}
	checkSolution(t, p, sols[0])
}

func TestSolve_Example(t *testing.T) {
	p := examplePuzzle()

	// The example puzzle has exactly one solution; this layout is the
	// captured baseline.
	want := wallsFromRows([8]string{
		"....X...",
		".XX.X.X.",
		"..X.X.X.",
		"X.X.....",
		"..XX.X.X",
		".XXX.X.X",
		".XX....X",
		"....X.XX",
	})

	sols, total, err := Solve(context.Background(), p, 1<<16)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if total != 1 || len(sols) != 1 {
		t.Fatalf("got %d solutions (stored %d), want exactly 1", total, len(sols))
	}
	if sols[0] != want {
		t.Errorf("wrong layout:\ngot\n%v\nwant\n%v", sols[0], want)
	}
	checkSolution(t, p, sols[0])
}

func TestSolve_Deterministic(t *testing.T) {
	p := examplePuzzle()

	first, firstTotal, _ := Solve(context.Background(), p, 1<<16)
	second, secondTotal, _ := Solve(context.Background(), p, 1<<16)
	if firstTotal != secondTotal || !reflect.DeepEqual(first, second) {
		t.Error("two identical solves disagreed")
	}
}

func TestSolve_CapacitySaturation(t *testing.T) {
	p := examplePuzzle()

	_, fullTotal, _ := Solve(context.Background(), p, 1<<16)

	sols, total, err := Solve(context.Background(), p, 0)
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if len(sols) != 0 {
		t.Errorf("capacity 0 stored %d solutions", len(sols))
	}
	if total != fullTotal {
		t.Errorf("saturated total = %d, want %d", total, fullTotal)
	}

	// A capacity of one stores exactly the first solution but still counts
	// the rest.
	one, oneTotal, _ := Solve(context.Background(), p, 1)
	if len(one) != 1 || oneTotal != fullTotal {
		t.Errorf("capacity 1 stored %d and counted %d, want 1 and %d",
			len(one), oneTotal, fullTotal)
	}
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Solve(ctx, examplePuzzle(), 16)
	if err == nil {
		t.Error("a cancelled context should surface its error")
	}
}

func TestNewPuzzle_Preconditions(t *testing.T) {
	tooMany := make([]primitives.Position, 65)

	for _, tt := range []struct {
		name                string
		monsters, treasures []primitives.Position
	}{
		{"too many monsters", tooMany, nil},
		{"too many treasures", nil, tooMany},
	} {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			NewPuzzle([8]int{}, [8]int{}, tt.monsters, tt.treasures)
		})
	}
}

func TestRender(t *testing.T) {
	p := NewPuzzle([8]int{}, [8]int{},
		[]primitives.Position{{Row: 7, Col: 5}},
		[]primitives.Position{{Row: 0, Col: 0}},
	)
	walls := primitives.BitBoard(0).Set(primitives.Position{Row: 0, Col: 7})

	got := p.Render(walls)
	want := "T......X\n" +
		"........\n" +
		"........\n" +
		"........\n" +
		"........\n" +
		"........\n" +
		"........\n" +
		".....M.."
	if got != want {
		t.Errorf("Render:\n%s\nwant:\n%s", got, want)
	}

	// A wall on the monster renders as a conflict.
	conflicted := walls.Set(primitives.Position{Row: 7, Col: 5})
	if k := p.CellAt(conflicted, primitives.Position{Row: 7, Col: 5}); k != CellConflict {
		t.Errorf("CellAt on a doubly claimed cell = %v, want CellConflict", k)
	}
}
