package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func TestRootCommand(t *testing.T) {
	root := rootCommand()
	if root.Name != "ricochet-robots" {
		t.Errorf("Expected command name ricochet-robots, got %s", root.Name)
	}

	want := []string{"serve", "mcp", "draw", "eval", "solve", "generate", "play"}
	have := make(map[string]bool)
	for _, sub := range root.Commands {
		have[sub.Name] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("Expected subcommand %s to be registered", name)
		}
	}
}

// testProblem builds a well-formed 2x2 problem with a complete adjacency
// fact set, one robot and a goal in the opposite corner. Reachable in two
// slides: east, then south.
func testProblem() *engine.Problem {
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

func writeTestProblem(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tiny.rr")
	if err := engine.SaveProblem(path, testProblem()); err != nil {
		t.Fatalf("Failed to save problem: %v", err)
	}
	return path
}

func TestInitializeServices(t *testing.T) {
	problemsDir := t.TempDir()
	writeTestProblem(t, problemsDir)
	sessionsDir := filepath.Join(t.TempDir(), "sessions")
	archivePath := filepath.Join(t.TempDir(), "evaluations.db")

	services, err := initializeServices(problemsDir, sessionsDir, archivePath)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer services.Close()

	if services.game == nil {
		t.Fatal("Expected game service to be initialized")
	}
	if services.store == nil {
		t.Error("Expected evaluation archive to be opened")
	}

	info, err := services.game.CreateSession(context.Background(), "tiny", "")
	if err != nil {
		t.Fatalf("Failed to create session through the wired service: %v", err)
	}
	if info.ProblemName != "tiny" {
		t.Errorf("Expected problem tiny, got %s", info.ProblemName)
	}
}

func TestInitializeServices_NoArchive(t *testing.T) {
	problemsDir := t.TempDir()
	writeTestProblem(t, problemsDir)

	services, err := initializeServices(problemsDir, filepath.Join(t.TempDir(), "sessions"), "")
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer services.Close()

	if services.store != nil {
		t.Error("Expected no archive when the path is empty")
	}
}

func TestInitializeServices_MissingProblemsDir(t *testing.T) {
	_, err := initializeServices(filepath.Join(t.TempDir(), "missing"), t.TempDir(), "")
	if err == nil {
		t.Error("Expected error for non-existent problems directory")
	}
}

func TestDrawCommand(t *testing.T) {
	path := writeTestProblem(t, t.TempDir())

	err := rootCommand().Run(context.Background(), []string{"ricochet-robots", "draw", path})
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
}

func TestEvalCommand(t *testing.T) {
	dir := t.TempDir()
	problemPath := writeTestProblem(t, dir)

	planPath := filepath.Join(dir, "tiny.plan")
	plan := "(go robot-1 east)\n(go robot-1 south)\n"
	if err := os.WriteFile(planPath, []byte(plan), 0644); err != nil {
		t.Fatalf("Failed to write plan: %v", err)
	}
	outPath := filepath.Join(dir, "expanded.plan")

	err := rootCommand().Run(context.Background(), []string{"ricochet-robots", "eval", problemPath, planPath, outPath})
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}

	expanded, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Expected expanded plan file: %v", err)
	}
	text := string(expanded)
	if !strings.Contains(text, "(go robot-1 east)") {
		t.Errorf("Expanded plan missing go event:\n%s", text)
	}
	if !strings.Contains(text, "(step robot-1 cell-1-1 cell-2-1 east)") {
		t.Errorf("Expanded plan missing step event:\n%s", text)
	}
}

func TestGenerateCommand(t *testing.T) {
	// The file format carries no name fact; LoadProblem names the problem
	// after the file, so the output file uses the requested name.
	outPath := filepath.Join(t.TempDir(), "gen-test.rr")

	err := rootCommand().Run(context.Background(), []string{
		"ricochet-robots", "generate", "--size", "4", "--seed", "7", "--name", "gen-test", "-o", outPath,
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	p, err := engine.LoadProblem(outPath)
	if err != nil {
		t.Fatalf("Generated problem does not load: %v", err)
	}
	if p.Size != 4 {
		t.Errorf("Expected size 4, got %d", p.Size)
	}
	if p.Name != "gen-test" {
		t.Errorf("Expected name gen-test, got %s", p.Name)
	}
}

func TestStartPositions(t *testing.T) {
	robots := startPositions(testProblem())
	if len(robots) != 1 {
		t.Fatalf("Expected 1 robot, got %d", len(robots))
	}
	if robots["robot-1"] != "cell-1-1" {
		t.Errorf("Expected robot-1 at cell-1-1, got %s", robots["robot-1"])
	}
}

// Note: runServe and runStdioMCP start servers and block until signalled;
// their wiring is covered by TestInitializeServices and the api package's
// handler tests.
