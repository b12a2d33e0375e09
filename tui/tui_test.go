package tui

import (
	"math/rand"
	"strings"
	"testing"

	termbox "github.com/nsf/termbox-go"
	"github.com/wricardo/ricochet-robots-game/game/engine"
	"github.com/wricardo/ricochet-robots-game/game/gen"
)

func createTestApp(t *testing.T) *App {
	t.Helper()
	p, err := gen.Generate(gen.Config{
		Size: 4,
		Rand: rand.New(rand.NewSource(7)),
		Name: "small",
	})
	if err != nil {
		t.Fatalf("Failed to generate problem: %v", err)
	}
	app, err := New(p)
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}
	return app
}

func TestNew(t *testing.T) {
	app := createTestApp(t)

	if app.selected != 0 {
		t.Errorf("Expected first robot selected, got index %d", app.selected)
	}
	if len(app.robots) == 0 {
		t.Fatal("Expected robots in the app")
	}
	if app.robots[0] != "robot-1" {
		t.Errorf("Expected robot-1 first, got %s", app.robots[0])
	}
}

func TestNew_InvalidProblem(t *testing.T) {
	_, err := New(&engine.Problem{Name: "broken", Size: 2})
	if err == nil {
		t.Error("Expected error for a problem without topology")
	}
}

func TestKeyDirection(t *testing.T) {
	tests := []struct {
		key  termbox.Key
		dir  engine.Direction
		want bool
	}{
		{termbox.KeyArrowUp, engine.North, true},
		{termbox.KeyArrowDown, engine.South, true},
		{termbox.KeyArrowLeft, engine.West, true},
		{termbox.KeyArrowRight, engine.East, true},
		{termbox.KeySpace, "", false},
	}

	for _, tt := range tests {
		dir, ok := keyDirection(tt.key)
		if ok != tt.want || dir != tt.dir {
			t.Errorf("keyDirection(%v) = (%s, %v), want (%s, %v)", tt.key, dir, ok, tt.dir, tt.want)
		}
	}
}

func TestHandleKey_Quit(t *testing.T) {
	app := createTestApp(t)

	if app.handleKey(termbox.Event{Type: termbox.EventKey, Ch: 'q'}) {
		t.Error("Expected q to quit")
	}
	if app.handleKey(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}) {
		t.Error("Expected Esc to quit")
	}
}

func TestHandleKey_SelectRobot(t *testing.T) {
	app := createTestApp(t)

	if !app.handleKey(termbox.Event{Type: termbox.EventKey, Ch: '2'}) {
		t.Fatal("Selection key should not quit")
	}
	if app.selected != 1 {
		t.Errorf("Expected robot index 1 selected, got %d", app.selected)
	}

	// Out-of-range selection keeps the current robot
	app.handleKey(termbox.Event{Type: termbox.EventKey, Ch: '9'})
	if app.selected != 1 {
		t.Errorf("Expected selection unchanged, got %d", app.selected)
	}
}

func TestHandleKey_MoveAndReset(t *testing.T) {
	app := createTestApp(t)

	// A zero-distance slide is still a legal move, so the counter advances
	// regardless of where robot-1 starts.
	app.handleKey(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowRight})
	if app.eng.MoveCount() != 1 {
		t.Errorf("Expected move count 1, got %d", app.eng.MoveCount())
	}
	if app.status == "ready" {
		t.Error("Expected status to describe the move")
	}

	app.handleKey(termbox.Event{Type: termbox.EventKey, Ch: 'r'})
	if app.eng.MoveCount() != 0 {
		t.Errorf("Expected move count 0 after reset, got %d", app.eng.MoveCount())
	}
	if app.status != "reset" {
		t.Errorf("Expected reset status, got %q", app.status)
	}
}

func TestCellColor(t *testing.T) {
	if cellColor('1') != termbox.ColorRed {
		t.Error("Expected robot-1 digit to render red")
	}
	if cellColor('A') != termbox.ColorRed {
		t.Error("Expected robot-1 on its goal to render red")
	}
	if cellColor('a') != termbox.ColorWhite {
		t.Error("Expected empty goal letter to render white")
	}
	if cellColor('+') != termbox.ColorDefault {
		t.Error("Expected frame characters to render default")
	}
}

func TestStatusLineContent(t *testing.T) {
	app := createTestApp(t)
	app.handleKey(termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowRight})

	if !strings.HasPrefix(app.status, "robot-1 east:") {
		t.Errorf("Expected move summary in status, got %q", app.status)
	}
}
