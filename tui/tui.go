// Package tui provides an interactive terminal play mode on termbox-go.
//
// The board is drawn in the compact render style with colored robot cells.
// Keys 1-4 select a robot, the arrow keys slide it, r resets the session and
// q or Esc quits. The package is a pure client of the engine: every key
// press maps to one coarse move.
package tui

import (
	"fmt"
	"strings"

	termbox "github.com/nsf/termbox-go"
	"github.com/wricardo/ricochet-robots-game/game/engine"
	"github.com/wricardo/ricochet-robots-game/game/render"
)

var robotColors = []termbox.Attribute{
	termbox.ColorRed,
	termbox.ColorBlue,
	termbox.ColorGreen,
	termbox.ColorYellow,
	termbox.ColorCyan,
	termbox.ColorMagenta,
}

// App holds the interactive session state between key presses.
type App struct {
	eng      engine.Engine
	robots   []engine.Robot
	selected int // index into robots
	status   string
}

// New builds an App for a problem, with the first robot selected.
func New(p *engine.Problem) (*App, error) {
	eng, err := engine.NewEngine(p)
	if err != nil {
		return nil, err
	}
	robots := p.RobotNames()
	if len(robots) == 0 {
		return nil, fmt.Errorf("problem %s has no robots", p.Name)
	}
	return &App{
		eng:    eng,
		robots: robots,
		status: "ready",
	}, nil
}

// Run enters the termbox event loop and blocks until the player quits.
func Run(p *engine.Problem) error {
	app, err := New(p)
	if err != nil {
		return err
	}

	if err := termbox.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer termbox.Close()

	for {
		app.draw()
		ev := termbox.PollEvent()
		if ev.Type != termbox.EventKey {
			continue
		}
		if !app.handleKey(ev) {
			return nil
		}
	}
}

// handleKey applies one key press to the session. It returns false when the
// player asked to quit.
func (a *App) handleKey(ev termbox.Event) bool {
	switch {
	case ev.Key == termbox.KeyEsc || ev.Ch == 'q':
		return false
	case ev.Ch >= '1' && ev.Ch <= '9':
		idx := int(ev.Ch - '1')
		if idx < len(a.robots) {
			a.selected = idx
			a.status = fmt.Sprintf("selected %s", a.robots[idx])
		}
	case ev.Ch == 'r':
		if err := a.eng.Reset(); err != nil {
			a.status = err.Error()
		} else {
			a.status = "reset"
		}
	default:
		dir, ok := keyDirection(ev.Key)
		if !ok {
			return true
		}
		a.move(dir)
	}
	return true
}

func (a *App) move(dir engine.Direction) {
	robot := a.robots[a.selected]
	events, err := a.eng.ApplyMove(robot, dir)
	if err != nil {
		a.status = err.Error()
		return
	}
	final, _ := engine.FinalCell(events)
	a.status = fmt.Sprintf("%s %s: %d steps to %s", robot, dir, engine.Steps(events), final)
}

// keyDirection maps an arrow key to a compass direction.
func keyDirection(key termbox.Key) (engine.Direction, bool) {
	switch key {
	case termbox.KeyArrowUp:
		return engine.North, true
	case termbox.KeyArrowDown:
		return engine.South, true
	case termbox.KeyArrowLeft:
		return engine.West, true
	case termbox.KeyArrowRight:
		return engine.East, true
	}
	return "", false
}

// robotColor returns the display color for a robot's 1-based index.
func robotColor(index int) termbox.Attribute {
	if index < 1 {
		return termbox.ColorDefault
	}
	return robotColors[(index-1)%len(robotColors)]
}

// draw repaints the whole screen: board, status line, key help.
func (a *App) draw() {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	p := a.eng.Problem()
	board := a.eng.Board()
	positions := a.eng.Positions()

	y := 0
	for _, line := range strings.Split(render.Compact(board, positions, p.Goal), "\n") {
		for x, ch := range line {
			fg := cellColor(ch)
			termbox.SetCell(x, y, ch, fg, termbox.ColorDefault)
		}
		y++
	}

	a.drawLine(y+1, fmt.Sprintf("problem %s | %s | moves %d | goal %s",
		p.Name, a.robots[a.selected], a.eng.MoveCount(), a.eng.GoalStatus()))
	a.drawLine(y+2, a.status)
	a.drawLine(y+4, "1-4 select robot | arrows move | r reset | q quit")

	termbox.Flush()
}

func (a *App) drawLine(y int, text string) {
	for x, ch := range text {
		termbox.SetCell(x, y, ch, termbox.ColorDefault, termbox.ColorDefault)
	}
}

// cellColor picks the color of one compact-render glyph: robot digits and
// the robot-on-goal uppercase letter get the robot's color, the empty goal
// letter renders white, frame characters stay default.
func cellColor(ch rune) termbox.Attribute {
	switch {
	case ch >= '1' && ch <= '9':
		return robotColor(int(ch - '0'))
	case ch >= 'A' && ch <= 'Z':
		return robotColor(int(ch-'A') + 1)
	case ch >= 'a' && ch <= 'z':
		return termbox.ColorWhite
	}
	return termbox.ColorDefault
}
