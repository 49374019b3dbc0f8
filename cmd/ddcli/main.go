package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"

	"crosswarped.com/dungeon"
	"crosswarped.com/dungeon/internal/boardtext"
	"crosswarped.com/dungeon/pkg/primitives"
)

func main() {
	puzzleFile := flag.String("puzzle", "", "File to load a puzzle from (defaults to the built-in example)")
	maxSolutions := flag.Int("max", 32, "Maximum number of solutions to print")
	numPuzzles := flag.Int("generate", 8, "Number of puzzles to generate (0 to skip generation)")
	solveCapacity := flag.Int("solve-capacity", dungeon.DefaultSolveCapacity, "Solution storage per generated puzzle")
	timeout := flag.Duration("timeout", 5*time.Minute, "The timeout for solving and generating")
	prof := flag.Bool("profile", false, "Profile the search")
	profDir := flag.String("profile-dir", ".", "The directory to write the CPU profile to")

	flag.Parse()

	if *prof {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profDir)).Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	p := examplePuzzle()
	if *puzzleFile != "" {
		data, err := os.ReadFile(*puzzleFile)
		if err != nil {
			fmt.Println("Error reading puzzle file:", err)
			os.Exit(1)
		}
		var parseErr error
		p, _, parseErr = boardtext.Parse(string(data))
		if parseErr != nil {
			fmt.Println("Error parsing puzzle file:", parseErr)
			os.Exit(1)
		}
	}

	solutions, total, err := dungeon.Solve(ctx, p, *maxSolutions)
	fmt.Println("num solutions:", total)
	for i, s := range solutions {
		fmt.Printf("Solution %d\n%s\n", i, p.Render(s))
	}
	if err != nil {
		fmt.Println("Context error:", err)
		os.Exit(1)
	}

	if *numPuzzles <= 0 {
		return
	}

	fmt.Printf("\nGenerating first %d puzzles\n", *numPuzzles)
	g := dungeon.CreateGenerator(*solveCapacity)
	puzzles, err := g.Generate(ctx, *numPuzzles)
	fmt.Printf("Num generated puzzles: %d (%d search steps)\n\n", len(puzzles), g.Steps())
	for i, gp := range puzzles {
		fmt.Printf("Puzzle %d\n", i)
		fmt.Printf("Has %d solutions\n", gp.NumSolutions)
		fmt.Println(boardtext.Format(gp.Puzzle, 0))
		fmt.Println()
	}
	if err != nil {
		fmt.Println("Context error:", err)
		os.Exit(1)
	}
}

// The example puzzle from the project's documentation: one monster in the
// bottom row, no treasures.
func examplePuzzle() dungeon.Puzzle {
	return dungeon.NewPuzzle(
		[8]int{1, 4, 3, 2, 4, 5, 3, 3},
		[8]int{1, 3, 6, 2, 4, 2, 3, 4},
		[]primitives.Position{{Row: 7, Col: 5}},
		nil,
	)
}
