// Package boardtext reads and writes the text form of a puzzle: one line of
// eight column clues, then eight lines of a row clue followed by that row's
// cells. Cells are '.' (floor), 'M' (monster), 'T' (treasure) and, when a
// wall layout is included, 'X' (wall). Blank lines and lines starting with
// '#' are ignored on the way in.
package boardtext

import (
	"fmt"
	"strings"

	"crosswarped.com/dungeon"
	"crosswarped.com/dungeon/pkg/primitives"
)

// Format renders the puzzle and the given wall layout in the text form.
// Pass the empty board for a bare, unsolved puzzle.
func Format(p dungeon.Puzzle, walls primitives.BitBoard) string {
	var sb strings.Builder
	sb.WriteByte(' ')
	for col := range 8 {
		sb.WriteByte(byte('0' + p.ColTarget(col)))
	}
	sb.WriteByte('\n')
	for row := range 8 {
		sb.WriteByte(byte('0' + p.RowTarget(row)))
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

// Parse reads the text form back into a puzzle and the wall layout it
// carried. A bare puzzle parses with an empty layout.
func Parse(s string) (dungeon.Puzzle, primitives.BitBoard, error) {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) != 9 {
		return dungeon.Puzzle{}, 0, fmt.Errorf("expected 9 lines, got %d", len(lines))
	}

	var rowTargets, colTargets [8]int
	if len(lines[0]) != 8 {
		return dungeon.Puzzle{}, 0, fmt.Errorf("column clue line has %d characters, want 8", len(lines[0]))
	}
	for col, r := range lines[0] {
		n, err := clue(r)
		if err != nil {
			return dungeon.Puzzle{}, 0, fmt.Errorf("column %d: %w", col, err)
		}
		colTargets[col] = n
	}

	var monsters, treasures []primitives.Position
	var walls primitives.BitBoard
	for row, line := range lines[1:] {
		cells := []rune(line)
		if len(cells) != 9 {
			return dungeon.Puzzle{}, 0, fmt.Errorf("row %d has %d characters, want 9", row, len(cells))
		}
		n, err := clue(cells[0])
		if err != nil {
			return dungeon.Puzzle{}, 0, fmt.Errorf("row %d: %w", row, err)
		}
		rowTargets[row] = n
		for col, c := range cells[1:] {
			pos := primitives.Position{Row: row, Col: col}
			switch c {
			case '.':
			case 'M':
				monsters = append(monsters, pos)
			case 'T':
				treasures = append(treasures, pos)
			case 'X':
				walls = walls.Set(pos)
			default:
				return dungeon.Puzzle{}, 0, fmt.Errorf("row %d col %d: unknown cell %q", row, col, c)
			}
		}
	}

	return dungeon.NewPuzzle(rowTargets, colTargets, monsters, treasures), walls, nil
}

func clue(r rune) (int, error) {
	if r < '0' || r > '8' {
		return 0, fmt.Errorf("clue %q is not a digit in [0,8]", r)
	}
	return int(r - '0'), nil
}
