package session

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/ricochet-robots-game/game/engine"
	"github.com/wricardo/ricochet-robots-game/game/gen"
	"github.com/wricardo/ricochet-robots-game/game/problem"
	"github.com/wricardo/ricochet-robots-game/game/service"
)

// createTestProblemManager writes a problems directory with one generated
// instance named "small" and returns a manager over it.
func createTestProblemManager(t *testing.T) *problem.Manager {
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
	pm, err := problem.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return pm
}

func TestFilePersistence(t *testing.T) {
	tempDir := t.TempDir()
	problems := createTestProblemManager(t)

	persistence, err := NewFilePersistence(tempDir, problems)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	// Create test session
	p, err := problems.Load("small")
	if err != nil {
		t.Fatalf("Failed to load problem: %v", err)
	}
	eng, err := engine.NewEngine(p)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	session := &service.Session{
		ID:             "test1",
		ProblemName:    "small",
		Engine:         eng,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	t.Run("Save and Load Session", func(t *testing.T) {
		err := persistence.Save(session)
		if err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}

		if !persistence.Exists("test1") {
			t.Error("Session file should exist after save")
		}

		loadedSession, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}

		if loadedSession.ID != session.ID {
			t.Errorf("Expected ID %s, got %s", session.ID, loadedSession.ID)
		}
		if loadedSession.ProblemName != session.ProblemName {
			t.Errorf("Expected problem name %s, got %s", session.ProblemName, loadedSession.ProblemName)
		}
	})

	t.Run("Save Position Changes", func(t *testing.T) {
		// Slide a robot to change positions
		robot := p.Robots[0].Robot
		if _, err := session.Engine.ApplyMove(robot, engine.East); err != nil {
			t.Fatalf("Failed to apply move: %v", err)
		}

		err := persistence.Save(session)
		if err != nil {
			t.Fatalf("Failed to save updated session: %v", err)
		}

		loadedSession, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load updated session: %v", err)
		}

		want := session.Engine.Positions()
		got := loadedSession.Engine.Positions()
		for r, cell := range want {
			if got[r] != cell {
				t.Errorf("Robot %s position = %s, want %s", r, got[r], cell)
			}
		}
	})

	t.Run("List All Sessions", func(t *testing.T) {
		session2 := &service.Session{
			ID:             "test2",
			ProblemName:    "small",
			Engine:         eng,
			CreatedAt:      time.Now(),
			LastAccessedAt: time.Now(),
		}
		err := persistence.Save(session2)
		if err != nil {
			t.Fatalf("Failed to save second session: %v", err)
		}

		sessionIDs, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}

		if len(sessionIDs) < 2 {
			t.Errorf("Expected at least 2 sessions, got %d", len(sessionIDs))
		}

		found := make(map[string]bool)
		for _, id := range sessionIDs {
			found[id] = true
		}
		if !found["test1"] || !found["test2"] {
			t.Error("Expected sessions not found in list")
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		err := persistence.Delete("test2")
		if err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}

		if persistence.Exists("test2") {
			t.Error("Session should not exist after delete")
		}

		_, err = persistence.Load("test2")
		if err == nil {
			t.Error("Should not be able to load deleted session")
		}
	})

	t.Run("Error Cases", func(t *testing.T) {
		_, err := persistence.Load("nonexistent")
		if err == nil {
			t.Error("Should get error when loading non-existent session")
		}

		err = persistence.Delete("nonexistent")
		if err == nil {
			t.Error("Should get error when deleting non-existent session")
		}

		err = persistence.Save(nil)
		if err == nil {
			t.Error("Should get error when saving nil session")
		}
	})
}

func TestFilePersistenceFileStructure(t *testing.T) {
	tempDir := t.TempDir()
	problems := createTestProblemManager(t)

	persistence, err := NewFilePersistence(tempDir, problems)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	p, err := problems.Load("small")
	if err != nil {
		t.Fatalf("Failed to load problem: %v", err)
	}
	eng, err := engine.NewEngine(p)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	session := &service.Session{
		ID:             "file_test",
		ProblemName:    "small",
		Engine:         eng,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	err = persistence.Save(session)
	if err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	// Check file exists in correct location
	expectedFile := filepath.Join(tempDir, "file_test.json")
	if _, err := os.Stat(expectedFile); os.IsNotExist(err) {
		t.Errorf("Expected file %s does not exist", expectedFile)
	}

	// Check file contains valid JSON
	data, err := os.ReadFile(expectedFile)
	if err != nil {
		t.Fatalf("Failed to read session file: %v", err)
	}

	if len(data) == 0 {
		t.Error("Session file should not be empty")
	}

	// Check it contains expected fields (basic validation)
	content := string(data)
	expectedFields := []string{"\"id\"", "\"problem_name\"", "\"created_at\"", "\"robots\""}
	for _, field := range expectedFields {
		if !strings.Contains(content, field) {
			t.Errorf("Session file should contain field %s", field)
		}
	}
}
