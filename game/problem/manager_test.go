package problem_test

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/ricochet-robots-game/game/engine"
	"github.com/wricardo/ricochet-robots-game/game/gen"
	"github.com/wricardo/ricochet-robots-game/game/problem"
)

// createTestDir writes a problems directory with one valid generated
// instance and returns its path.
func createTestDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p, err := gen.Generate(gen.Config{
		Size: 4,
		Rand: rand.New(rand.NewSource(7)),
		Name: "small",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := engine.SaveProblem(filepath.Join(dir, "small.rr"), p); err != nil {
		t.Fatalf("SaveProblem failed: %v", err)
	}
	return dir
}

func TestManagerLoad(t *testing.T) {
	dir := createTestDir(t)
	m, err := problem.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	p, err := m.Load("small")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Size != 4 {
		t.Errorf("size = %d, want 4", p.Size)
	}

	// A second load returns the cached instance.
	again, err := m.Load("small")
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if again != p {
		t.Error("cached load returned a different instance")
	}
}

func TestManagerLoadNotFound(t *testing.T) {
	m, err := problem.NewManager(createTestDir(t))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if _, err := m.Load("missing"); !errors.Is(err, problem.ErrProblemNotFound) {
		t.Errorf("Load(missing) = %v, want ErrProblemNotFound", err)
	}
}

func TestManagerLoadInvalid(t *testing.T) {
	dir := createTestDir(t)
	bad := "adjacency(cell-1-1, cell-2-1, east).\ngoal:\nat(robot-1, cell-1-1).\n"
	if err := os.WriteFile(filepath.Join(dir, "broken.rr"), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := problem.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if _, err := m.Load("broken"); !errors.Is(err, problem.ErrInvalidProblem) {
		t.Errorf("Load(broken) = %v, want ErrInvalidProblem", err)
	}
}

func TestManagerMissingDir(t *testing.T) {
	if _, err := problem.NewManager(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("NewManager on a missing directory succeeded")
	}
}

func TestManagerListProblems(t *testing.T) {
	dir := createTestDir(t)
	// Invalid files are skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "junk.rr"), []byte("nonsense\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := problem.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	infos, err := m.ListProblems()
	if err != nil {
		t.Fatalf("ListProblems failed: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("listed %d problems, want 1", len(infos))
	}
	if infos[0].Name != "small" || infos[0].Filename != "small.rr" {
		t.Errorf("info = %+v", infos[0])
	}
	if infos[0].Robots != 4 {
		t.Errorf("robots = %d, want 4", infos[0].Robots)
	}
}

func TestManagerSaveAndDefault(t *testing.T) {
	dir := createTestDir(t)
	m, err := problem.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	p, err := gen.Generate(gen.Config{
		Size: 5,
		Rand: rand.New(rand.NewSource(11)),
		Name: "bigger",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := m.SaveProblem("bigger", p); err != nil {
		t.Fatalf("SaveProblem failed: %v", err)
	}

	loaded, err := m.Load("bigger")
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}
	if loaded.Size != 5 {
		t.Errorf("size = %d, want 5", loaded.Size)
	}

	def, err := m.GetDefault()
	if err != nil {
		t.Fatalf("GetDefault failed: %v", err)
	}
	if def.Name != "bigger" && def.Name != "small" {
		t.Errorf("default = %s", def.Name)
	}
}

func TestManagerRaw(t *testing.T) {
	m, err := problem.NewManager(createTestDir(t))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	text, err := m.Raw("small")
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if _, err := engine.ParseProblem(strings.NewReader(text), "small"); err != nil {
		t.Errorf("raw text does not re-parse: %v", err)
	}
}
