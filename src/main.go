package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"

	"crosswarped.com/dungeon"
	"crosswarped.com/dungeon/internal/boardtext"
)

var log = logrus.New()

const (
	defaultProject = "dungeon-x"
	catalogDataset = "PuzzleCatalog"
	catalogTable   = "puzzles"
	generatedTable = "generated"
)

func projectID() string {
	if p := os.Getenv("DUNGEON_PROJECT"); p != "" {
		return p
	}
	return defaultProject
}

type SolvePuzzleRequest struct {
	// Name selects a puzzle from the catalog; Puzzle carries an inline
	// puzzle in its text form. Exactly one of the two must be set.
	Name         string `json:"name"`
	Puzzle       string `json:"puzzle"`
	MaxSolutions int    `json:"maxSolutions"`
}

type SolvePuzzleResponse struct {
	Success    bool     `json:"success"`
	Solutions  []string `json:"solutions"`
	TotalCount uint64   `json:"totalCount"`
	Error      string   `json:"error,omitempty"`
}

type GeneratePuzzlesRequest struct {
	MaxPuzzles    int  `json:"maxPuzzles"`
	SolveCapacity int  `json:"solveCapacity"`
	Store         bool `json:"store"`
}

type GeneratedPuzzleJSON struct {
	Board        string `json:"board"`
	NumSolutions uint64 `json:"numSolutions"`
}

type GeneratePuzzlesResponse struct {
	Success bool                  `json:"success"`
	Puzzles []GeneratedPuzzleJSON `json:"puzzles"`
	Error   string                `json:"error,omitempty"`
}

// puzzleRow is one catalog or output row in BigQuery. The board column
// holds the boardtext form.
type puzzleRow struct {
	Name         string `bigquery:"name"`
	Board        string `bigquery:"board"`
	NumSolutions int64  `bigquery:"num_solutions"`
}

func getPuzzle(ctx context.Context, name string) (dungeon.Puzzle, error) {
	project := projectID()
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return dungeon.Puzzle{}, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	q := client.Query(fmt.Sprintf("SELECT board FROM `%s.%s.%s` WHERE name = %q LIMIT 1",
		project, catalogDataset, catalogTable, name))
	q.Location = "US"

	job, err := q.Run(ctx)
	if err != nil {
		return dungeon.Puzzle{}, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return dungeon.Puzzle{}, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return dungeon.Puzzle{}, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return dungeon.Puzzle{}, fmt.Errorf("job.Read: %w", err)
	}

	var row []bigquery.Value
	if err := it.Next(&row); err == iterator.Done {
		return dungeon.Puzzle{}, fmt.Errorf("no catalog puzzle named %q", name)
	} else if err != nil {
		return dungeon.Puzzle{}, fmt.Errorf("it.Next: %w", err)
	}
	board, ok := row[0].(string)
	if !ok {
		return dungeon.Puzzle{}, fmt.Errorf("row[0] is not a string: %v", row[0])
	}
	p, _, err := boardtext.Parse(board)
	if err != nil {
		return dungeon.Puzzle{}, fmt.Errorf("catalog puzzle %q: %w", name, err)
	}
	return p, nil
}

func storePuzzles(ctx context.Context, puzzles []dungeon.GeneratedPuzzle) error {
	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	rows := make([]*puzzleRow, len(puzzles))
	now := time.Now().UTC().Format(time.RFC3339)
	for i, gp := range puzzles {
		rows[i] = &puzzleRow{
			Name:         fmt.Sprintf("generated-%s-%d", now, i),
			Board:        boardtext.Format(gp.Puzzle, 0),
			NumSolutions: int64(gp.NumSolutions),
		}
	}
	if err := client.Dataset(catalogDataset).Table(generatedTable).Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("Inserter.Put: %w", err)
	}
	return nil
}

// searchContext derives a context that leaves five seconds of headroom
// before the function deadline.
func searchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := 1 * time.Minute
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline) - 5*time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func executeSolve(ctx context.Context, req SolvePuzzleRequest) ([]string, uint64, error) {
	if (req.Name == "") == (req.Puzzle == "") {
		return nil, 0, fmt.Errorf("exactly one of name and puzzle must be set")
	}
	if req.MaxSolutions <= 0 || req.MaxSolutions > 1024 {
		return nil, 0, fmt.Errorf("maxSolutions must be in [1, 1024]")
	}

	var p dungeon.Puzzle
	var err error
	if req.Name != "" {
		if p, err = getPuzzle(ctx, req.Name); err != nil {
			return nil, 0, fmt.Errorf("getPuzzle: %w", err)
		}
	} else if p, _, err = boardtext.Parse(req.Puzzle); err != nil {
		return nil, 0, fmt.Errorf("parse puzzle: %w", err)
	}

	ctx, cancel := searchContext(ctx)
	defer cancel()

	solutions, total, err := dungeon.Solve(ctx, p, req.MaxSolutions)
	rendered := make([]string, len(solutions))
	for i, s := range solutions {
		rendered[i] = p.Render(s)
	}
	return rendered, total, err
}

func executeGenerate(ctx context.Context, req GeneratePuzzlesRequest) ([]GeneratedPuzzleJSON, error) {
	if req.MaxPuzzles <= 0 || req.MaxPuzzles > 10 {
		return nil, fmt.Errorf("maxPuzzles must be in [1, 10]")
	}

	searchCtx, cancel := searchContext(ctx)
	defer cancel()

	g := dungeon.CreateGenerator(req.SolveCapacity)
	puzzles, err := g.Generate(searchCtx, req.MaxPuzzles)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"puzzles": len(puzzles),
		"steps":   g.Steps(),
	}).Info("generation finished")

	if req.Store && len(puzzles) > 0 {
		if err := storePuzzles(ctx, puzzles); err != nil {
			return nil, fmt.Errorf("storePuzzles: %w", err)
		}
	}

	out := make([]GeneratedPuzzleJSON, len(puzzles))
	for i, gp := range puzzles {
		out[i] = GeneratedPuzzleJSON{
			Board:        boardtext.Format(gp.Puzzle, 0),
			NumSolutions: gp.NumSolutions,
		}
	}
	return out, nil
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

// preflight handles CORS and the method check; it reports whether the
// request was fully served.
func preflight(w http.ResponseWriter, r *http.Request) bool {
	setCORSHeaders(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return true
	}
	return false
}

func solvePuzzle(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}

	var req SolvePuzzleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Error("invalid solve request body")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SolvePuzzleResponse{Error: fmt.Sprintf("Invalid JSON: %v", err)})
		return
	}

	solutions, total, err := executeSolve(r.Context(), req)
	resp := SolvePuzzleResponse{
		Success:    err == nil,
		Solutions:  solutions,
		TotalCount: total,
	}
	if err != nil {
		log.WithError(err).Error("solve failed")
		resp.Error = err.Error()
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Error("error marshaling solve response")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": "Internal server error"}`)
	}
}

func generatePuzzles(w http.ResponseWriter, r *http.Request) {
	if preflight(w, r) {
		return
	}

	var req GeneratePuzzlesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Error("invalid generate request body")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(GeneratePuzzlesResponse{Error: fmt.Sprintf("Invalid JSON: %v", err)})
		return
	}

	puzzles, err := executeGenerate(r.Context(), req)
	resp := GeneratePuzzlesResponse{
		Success: err == nil,
		Puzzles: puzzles,
	}
	if err != nil {
		log.WithError(err).Error("generate failed")
		resp.Error = err.Error()
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Error("error marshaling generate response")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": "Internal server error"}`)
	}
}

func main() {
	funcframework.RegisterHTTPFunction("/solve-puzzle", solvePuzzle)
	funcframework.RegisterHTTPFunction("/generate-puzzles", generatePuzzles)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatalf("funcframework.StartHostPort: %v", err)
	}
}
