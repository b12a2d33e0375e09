package main

import (
	"strings"
	"testing"
)

// tinyProblem is a complete 2x2 board: robot-1 in the top-left corner,
// goal in the opposite corner. Shortest plan is two slides.
const tinyProblem = `% tiny test board
size(2).

adjacency(cell-1-1, cell-2-1, east).
adjacency(cell-1-2, cell-2-2, east).
adjacency(cell-2-1, cell-1-1, west).
adjacency(cell-2-2, cell-1-2, west).
adjacency(cell-1-1, cell-1-2, south).
adjacency(cell-2-1, cell-2-2, south).
adjacency(cell-1-2, cell-1-1, north).
adjacency(cell-2-2, cell-2-1, north).

at(robot-1, cell-1-1).

goal:
at(robot-1, cell-2-2).
`

func TestParseBoard(t *testing.T) {
	b, err := ParseBoard(tinyProblem)
	if err != nil {
		t.Fatalf("ParseBoard failed: %v", err)
	}

	if b.Size != 2 {
		t.Errorf("Expected size 2, got %d", b.Size)
	}
	if len(b.Robots) != 1 {
		t.Errorf("Expected 1 robot, got %d", len(b.Robots))
	}
	if b.Robots["robot-1"] != (Pos{1, 1}) {
		t.Errorf("Expected robot-1 at (1,1), got %v", b.Robots["robot-1"])
	}
	if b.GoalRobot != "robot-1" || b.Goal != (Pos{2, 2}) {
		t.Errorf("Expected goal robot-1 at (2,2), got %s at %v", b.GoalRobot, b.Goal)
	}
	if b.GoalCell() != "cell-2-2" {
		t.Errorf("Expected cell-2-2, got %s", b.GoalCell())
	}
}

func TestParseBoard_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", "size"},
		{"unknown predicate", "size(2).\nwall(cell-1-1).", "unknown predicate"},
		{"bad cell", "size(2).\nat(robot-1, nowhere).", "bad cell"},
		{"missing goal", "size(2).\nat(robot-1, cell-1-1).", "missing goal"},
		{"goal robot unplaced", "size(2).\nat(robot-1, cell-1-1).\ngoal:\nat(robot-2, cell-2-2).", "not placed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBoard(tt.text)
			if err == nil {
				t.Fatal("Expected parse error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSlide(t *testing.T) {
	b, err := ParseBoard(tinyProblem)
	if err != nil {
		t.Fatalf("ParseBoard failed: %v", err)
	}

	positions := []Pos{{1, 1}}
	if to := b.slide(positions, Pos{1, 1}, "east"); to != (Pos{2, 1}) {
		t.Errorf("Expected slide east to (2,1), got %v", to)
	}
	if to := b.slide(positions, Pos{1, 1}, "west"); to != (Pos{1, 1}) {
		t.Errorf("Expected no movement west at the rim, got %v", to)
	}

	// Another robot stops the slide one cell short.
	blockers := []Pos{{1, 1}, {2, 2}}
	if to := b.slide(blockers, Pos{2, 1}, "south"); to != (Pos{2, 1}) {
		t.Errorf("Expected robot to block the slide, got %v", to)
	}
}

func TestSearch_FindsShortestPlan(t *testing.T) {
	b, err := ParseBoard(tinyProblem)
	if err != nil {
		t.Fatalf("ParseBoard failed: %v", err)
	}

	plan, stats := Search(b, 10, 100000)
	if plan == nil {
		t.Fatalf("Expected a plan, expanded %d states", stats.Expanded)
	}
	if len(plan) != 2 {
		t.Errorf("Expected 2-move plan, got %d moves: %v", len(plan), plan)
	}
	for _, m := range plan {
		if m.Robot != "robot-1" {
			t.Errorf("Unexpected robot in plan: %v", m)
		}
	}

	// Replay the plan on the local model; it must end on the goal.
	positions := []Pos{b.Robots["robot-1"]}
	for _, m := range plan {
		positions[0] = b.slide(positions, positions[0], m.Dir)
	}
	if positions[0] != b.Goal {
		t.Errorf("Plan does not reach the goal, ends at %v", positions[0])
	}
}

func TestSearch_AlreadySolved(t *testing.T) {
	text := strings.Replace(tinyProblem, "at(robot-1, cell-1-1)", "at(robot-1, cell-2-2)", 1)
	b, err := ParseBoard(text)
	if err != nil {
		t.Fatalf("ParseBoard failed: %v", err)
	}

	plan, _ := Search(b, 10, 100000)
	if plan == nil {
		t.Fatal("Expected an empty plan for a solved position")
	}
	if len(plan) != 0 {
		t.Errorf("Expected 0 moves, got %v", plan)
	}
}

func TestSearch_DepthLimited(t *testing.T) {
	b, err := ParseBoard(tinyProblem)
	if err != nil {
		t.Fatalf("ParseBoard failed: %v", err)
	}

	plan, _ := Search(b, 1, 100000)
	if plan != nil {
		t.Errorf("Expected no plan within depth 1, got %v", plan)
	}
}
