package solver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

// testBoard reconstructs a 4x4 board with full perimeter facts and the
// given extra barriers.
func testBoard(t *testing.T, extra ...engine.BlockedFact) *engine.Board {
	t.Helper()
	const size = 4
	p := &engine.Problem{Size: size}
	for col := 1; col <= size; col++ {
		for row := 1; row < size; row++ {
			p.Adjacency = append(p.Adjacency,
				engine.AdjacencyFact{From: engine.FormatCell(col, row), To: engine.FormatCell(col, row+1), Dir: engine.South},
				engine.AdjacencyFact{From: engine.FormatCell(col, row+1), To: engine.FormatCell(col, row), Dir: engine.North})
		}
	}
	for row := 1; row <= size; row++ {
		for col := 1; col < size; col++ {
			p.Adjacency = append(p.Adjacency,
				engine.AdjacencyFact{From: engine.FormatCell(col, row), To: engine.FormatCell(col+1, row), Dir: engine.East},
				engine.AdjacencyFact{From: engine.FormatCell(col+1, row), To: engine.FormatCell(col, row), Dir: engine.West})
		}
	}
	for col := 1; col <= size; col++ {
		p.Blocked = append(p.Blocked,
			engine.BlockedFact{Cell: engine.FormatCell(col, 1), Dir: engine.North},
			engine.BlockedFact{Cell: engine.FormatCell(col, size), Dir: engine.South})
	}
	for row := 1; row <= size; row++ {
		p.Blocked = append(p.Blocked,
			engine.BlockedFact{Cell: engine.FormatCell(1, row), Dir: engine.West},
			engine.BlockedFact{Cell: engine.FormatCell(size, row), Dir: engine.East})
	}
	p.Blocked = append(p.Blocked, extra...)

	board, err := engine.Reconstruct(p)
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	return board
}

func fourRobots() map[engine.Robot]engine.Cell {
	return map[engine.Robot]engine.Cell{
		"robot-1": "cell-1-1",
		"robot-2": "cell-2-2",
		"robot-3": "cell-3-3",
		"robot-4": "cell-4-4",
	}
}

func TestEncode(t *testing.T) {
	board := testBoard(t,
		engine.BlockedFact{Cell: "cell-2-3", Dir: engine.East},
		engine.BlockedFact{Cell: "cell-3-3", Dir: engine.West})
	goal := engine.Goal{Robot: "robot-2", Cell: "cell-4-2"}

	got, err := Encode(board, fourRobots(), goal)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := `4
3 0 r
3 1 r
1 2 r
3 2 r
0 3 d
1 3 d
2 3 d
3 3 d
3 3 r
T
3 1 b
0 0 r
1 1 b
2 2 g
3 3 y
`
	if got != want {
		t.Errorf("Encode output:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeErrors(t *testing.T) {
	board := testBoard(t)
	goal := engine.Goal{Robot: "robot-1", Cell: "cell-4-4"}

	robots := fourRobots()
	delete(robots, "robot-3")
	if _, err := Encode(board, robots, goal); err == nil {
		t.Error("Encode accepted three robots")
	}

	robots = fourRobots()
	delete(robots, "robot-4")
	robots["robot-5"] = "cell-4-4"
	if _, err := Encode(board, robots, goal); err == nil {
		t.Error("Encode accepted robot-5")
	}

	if _, err := Encode(board, fourRobots(), engine.Goal{Robot: "scout", Cell: "cell-1-1"}); err == nil {
		t.Error("Encode accepted a goal robot without a color")
	}

	if _, err := Encode(board, fourRobots(), engine.Goal{Robot: "robot-1", Cell: "cell-9-9"}); err == nil {
		t.Error("Encode accepted a goal cell off the board")
	}
}

func TestDecodeVerbose(t *testing.T) {
	// Verbose solvers print a board drawing before the cost and number
	// their moves.
	output := `+---+---+---+---+
|   |           |
+---+---+---+---+
2
 1  Red     Right
 2  Red     Down
`
	res, err := Decode(strings.NewReader(output))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if res.Cost != 2 {
		t.Errorf("cost = %d, want 2", res.Cost)
	}
	want := []engine.Move{
		{Robot: "robot-1", Dir: engine.East},
		{Robot: "robot-1", Dir: engine.South},
	}
	for i := range want {
		if res.Moves[i] != want[i] {
			t.Errorf("move %d = %v, want %v", i, res.Moves[i], want[i])
		}
	}
	if res.Raw[0] != "Red Right" || res.Raw[1] != "Red Down" {
		t.Errorf("raw = %v", res.Raw)
	}
}

func TestDecodePlain(t *testing.T) {
	res, err := Decode(strings.NewReader("3\nBlue Left\nGreen Up\nYellow Down\n"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := []engine.Move{
		{Robot: "robot-2", Dir: engine.West},
		{Robot: "robot-3", Dir: engine.North},
		{Robot: "robot-4", Dir: engine.South},
	}
	for i := range want {
		if res.Moves[i] != want[i] {
			t.Errorf("move %d = %v, want %v", i, res.Moves[i], want[i])
		}
	}
}

func TestDecodeZeroCost(t *testing.T) {
	res, err := Decode(strings.NewReader("0\n"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if res.Cost != 0 || len(res.Moves) != 0 {
		t.Errorf("cost = %d, moves = %v", res.Cost, res.Moves)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(strings.NewReader("no numbers here\n")); err == nil {
		t.Error("Decode accepted output without a cost line")
	}
	if _, err := Decode(strings.NewReader("2\nRed Right\n")); err == nil {
		t.Error("Decode accepted a cost that disagrees with the move count")
	}
}

// stubSolver writes an executable script that ignores stdin and prints the
// given output.
func stubSolver(t *testing.T, output string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stub-solver")
	script := "#!/bin/sh\ncat > /dev/null\ncat <<'EOF'\n" + output + "EOF\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("write stub solver: %v", err)
	}
	return path
}

func TestSolve(t *testing.T) {
	board := testBoard(t)
	robots := map[engine.Robot]engine.Cell{
		"robot-1": "cell-1-1",
		"robot-2": "cell-1-4",
		"robot-3": "cell-2-4",
		"robot-4": "cell-3-4",
	}
	goal := engine.Goal{Robot: "robot-1", Cell: "cell-4-4"}

	bin := stubSolver(t, "2\n 1  Red     Right\n 2  Red     Down\n")
	s := New(Config{Bin: bin})

	res, err := s.Solve(context.Background(), board, robots, goal)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if res.Cost != 2 || len(res.Moves) != 2 {
		t.Fatalf("cost = %d, moves = %v", res.Cost, res.Moves)
	}
	if !res.Run.Reached {
		t.Errorf("verification status = %s, want reached", res.Run.Status)
	}
	if res.Run.Final["robot-1"] != "cell-4-4" {
		t.Errorf("robot-1 finished at %s", res.Run.Final["robot-1"])
	}
}

func TestSolveRejectsMissedGoal(t *testing.T) {
	board := testBoard(t)
	robots := map[engine.Robot]engine.Cell{
		"robot-1": "cell-1-1",
		"robot-2": "cell-1-4",
		"robot-3": "cell-2-4",
		"robot-4": "cell-3-4",
	}
	goal := engine.Goal{Robot: "robot-1", Cell: "cell-4-4"}

	// A plan that executes cleanly but leaves the goal cell empty.
	bin := stubSolver(t, "1\nRed Up\n")
	s := New(Config{Bin: bin})

	if _, err := s.Solve(context.Background(), board, robots, goal); err == nil {
		t.Fatal("Solve accepted a plan that misses the goal")
	}
}

func TestSolveMissingBinary(t *testing.T) {
	board := testBoard(t)
	s := New(Config{Bin: filepath.Join(t.TempDir(), "absent")})
	if _, err := s.Solve(context.Background(), board, fourRobots(), engine.Goal{Robot: "robot-1", Cell: "cell-2-2"}); err == nil {
		t.Fatal("Solve succeeded without a solver binary")
	}
}

func TestWritePlan(t *testing.T) {
	res := &Result{
		Cost: 2,
		Moves: []engine.Move{
			{Robot: "robot-1", Dir: engine.East},
			{Robot: "robot-1", Dir: engine.South},
		},
		Raw: []string{"Red Right", "Red Down"},
	}
	var sb strings.Builder
	if err := WritePlan(&sb, res); err != nil {
		t.Fatalf("WritePlan failed: %v", err)
	}
	want := ";; Optimal cost: 2\n(go robot-1 east) ;; Red Right\n(go robot-1 south) ;; Red Down\n"
	if sb.String() != want {
		t.Errorf("WritePlan output:\n%q\nwant:\n%q", sb.String(), want)
	}

	// The annotated form still parses back to the bare skeleton.
	plan, err := engine.ParsePlan(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ParsePlan failed: %v", err)
	}
	if len(plan) != 2 {
		t.Errorf("parsed %d moves, want 2", len(plan))
	}
}
