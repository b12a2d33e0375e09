package engine

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParsePlan(t *testing.T) {
	text := `;; Optimal cost: 3
(go robot-2 west) ;; Blue Left
(go robot-1 east)
(go robot-1 south)
`
	plan, err := ParsePlan(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParsePlan failed: %v", err)
	}
	want := []Move{
		{Robot: "robot-2", Dir: West},
		{Robot: "robot-1", Dir: East},
		{Robot: "robot-1", Dir: South},
	}
	if len(plan) != len(want) {
		t.Fatalf("parsed %d moves, want %d", len(plan), len(want))
	}
	for i := range want {
		if plan[i] != want[i] {
			t.Errorf("move %d = %v, want %v", i, plan[i], want[i])
		}
	}
}

func TestParsePlanSkipsExpandedEvents(t *testing.T) {
	// An expanded plan is a readable skeleton: only the go lines count.
	text := `(go robot-1 east)
(step robot-1 cell-1-1 cell-2-1 east)
(step robot-1 cell-2-1 cell-3-1 east)
(stop-at-barrier robot-1 cell-4-1 east)
(go robot-1 south)
(stop-at-robot robot-1 cell-4-1 cell-4-2 south)
`
	plan, err := ParsePlan(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParsePlan failed: %v", err)
	}
	if len(plan) != 2 {
		t.Fatalf("parsed %d moves, want 2", len(plan))
	}
	if plan[0] != (Move{Robot: "robot-1", Dir: East}) || plan[1] != (Move{Robot: "robot-1", Dir: South}) {
		t.Errorf("plan = %v", plan)
	}
}

func TestParsePlanErrors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantLine int
	}{
		{"truncated go", "(go robot-1 east)\n(go robot-1)\n", 2},
		{"unknown direction", "(go robot-1 upward)\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan(strings.NewReader(tt.text))
			if err == nil {
				t.Fatal("ParsePlan succeeded, want error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("error on line %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}

func TestWritePlan(t *testing.T) {
	var buf bytes.Buffer
	plan := []Move{
		{Robot: "robot-2", Dir: West},
		{Robot: "robot-1", Dir: East},
	}
	if err := WritePlan(&buf, 2, plan); err != nil {
		t.Fatalf("WritePlan failed: %v", err)
	}
	want := ";; Optimal cost: 2\n(go robot-2 west)\n(go robot-1 east)\n"
	if buf.String() != want {
		t.Errorf("WritePlan output:\n%s\nwant:\n%s", buf.String(), want)
	}

	back, err := ParsePlan(&buf)
	if err != nil {
		t.Fatalf("ParsePlan of written output failed: %v", err)
	}
	if len(back) != len(plan) {
		t.Fatalf("round trip lost moves: %d, want %d", len(back), len(plan))
	}
}

func TestWriteExpandedPlan(t *testing.T) {
	trace := []Event{
		{Kind: EventGo, Robot: "robot-1", Dir: East},
		{Kind: EventStep, Robot: "robot-1", From: "cell-1-1", To: "cell-2-1", Dir: East},
		{Kind: EventStopAtRobot, Robot: "robot-1", From: "cell-2-1", To: "cell-3-1", Dir: East},
		{Kind: EventStopAtBarrier, Robot: "robot-2", Cell: "cell-3-3", Dir: North},
	}
	var buf bytes.Buffer
	if err := WriteExpandedPlan(&buf, trace); err != nil {
		t.Fatalf("WriteExpandedPlan failed: %v", err)
	}
	want := `(go robot-1 east)
(step robot-1 cell-1-1 cell-2-1 east)
(stop-at-robot robot-1 cell-2-1 cell-3-1 east)
(stop-at-barrier robot-2 cell-3-3 north)
`
	if buf.String() != want {
		t.Errorf("WriteExpandedPlan output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.plan")
	content := ";; Optimal cost: 1\n(go robot-1 north)\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if len(plan) != 1 || plan[0] != (Move{Robot: "robot-1", Dir: North}) {
		t.Errorf("plan = %v", plan)
	}
}

func TestRobotIndex(t *testing.T) {
	tests := []struct {
		robot Robot
		want  int
	}{
		{"robot-1", 1},
		{"robot-4", 4},
		{"robot-12", 12},
		{"red", 0},
	}
	for _, tt := range tests {
		if got := RobotIndex(tt.robot); got != tt.want {
			t.Errorf("RobotIndex(%s) = %d, want %d", tt.robot, got, tt.want)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	if FormatCell(3, 7) != "cell-3-7" {
		t.Errorf("FormatCell = %s", FormatCell(3, 7))
	}
	if FormatRobot(2) != "robot-2" {
		t.Errorf("FormatRobot = %s", FormatRobot(2))
	}
}
