package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

// tinyProblem builds a 2x2 problem with a complete adjacency fact set.
func tinyProblem() *engine.Problem {
	return &engine.Problem{
		Name: "tiny",
		Size: 2,
		Adjacency: []engine.AdjacencyFact{
			{From: "cell-1-1", To: "cell-1-2", Dir: engine.South},
			{From: "cell-2-1", To: "cell-2-2", Dir: engine.South},
			{From: "cell-1-2", To: "cell-1-1", Dir: engine.North},
			{From: "cell-2-2", To: "cell-2-1", Dir: engine.North},
			{From: "cell-1-1", To: "cell-2-1", Dir: engine.East},
			{From: "cell-1-2", To: "cell-2-2", Dir: engine.East},
			{From: "cell-2-1", To: "cell-1-1", Dir: engine.West},
			{From: "cell-2-2", To: "cell-1-2", Dir: engine.West},
		},
		Robots: []engine.RobotFact{
			{Robot: "robot-1", Cell: "cell-1-1"},
		},
		Goal: engine.Goal{Robot: "robot-1", Cell: "cell-2-2"},
	}
}

func writeProblem(t *testing.T, p *engine.Problem) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), p.Name+".rr")
	if err := engine.SaveProblem(path, p); err != nil {
		t.Fatalf("Failed to save problem: %v", err)
	}
	return path
}

func TestAnalyzeProblem_ValidFile(t *testing.T) {
	path := writeProblem(t, tinyProblem())

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeProblem panicked: %v", r)
		}
	}()

	analyzeProblem(path)
}

func TestAnalyzeProblem_InvalidFile(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeProblem panicked with invalid file: %v", r)
		}
	}()

	analyzeProblem("/non/existent/file.rr")
}

func TestAnalyzeProblem_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.rr")
	if err := os.WriteFile(path, []byte("size(two).\n"), 0644); err != nil {
		t.Fatalf("Failed to write problem: %v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("analyzeProblem panicked with malformed file: %v", r)
		}
	}()

	analyzeProblem(path)
}

func TestSolvedInOneSlide_Open(t *testing.T) {
	// On an empty 2x2, robot-1 sliding east from cell-1-1 stops at cell-2-1,
	// sliding south stops at cell-1-2; neither is the goal corner.
	p := tinyProblem()
	board, err := engine.Reconstruct(p)
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}

	if solvedInOneSlide(board, p, "cell-1-1") {
		t.Error("Expected the diagonal goal to require more than one slide")
	}
}

func TestSolvedInOneSlide_Corner(t *testing.T) {
	// With the goal on cell-2-1, a single east slide from cell-1-1 ends
	// exactly there against the board edge.
	p := tinyProblem()
	p.Goal = engine.Goal{Robot: "robot-1", Cell: "cell-2-1"}
	board, err := engine.Reconstruct(p)
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}

	if !solvedInOneSlide(board, p, "cell-1-1") {
		t.Error("Expected a single east slide to reach the goal")
	}
}
