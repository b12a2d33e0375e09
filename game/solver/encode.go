package solver

import (
	"fmt"
	"strings"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

// colorChar maps the conventional robot indices to the solver's color
// letters: robot-1 is red, robot-2 blue, robot-3 green, robot-4 yellow.
var colorChar = map[int]byte{1: 'r', 2: 'b', 3: 'g', 4: 'y'}

// Encode writes the solver's input format:
//
//	line 1           board size
//	wall lines       "<col> <row> d" (south wall) or "<col> <row> r"
//	                 (east wall), 0-based, rows outer, south before east
//	"T"              terminator
//	target line      "<col> <row> <color>"
//	4 robot lines    "<col> <row> <color>", robot-1 through robot-4 in order
//
// Only explicit south and east walls are emitted; the solver encloses the
// rim itself and interior walls are fully described from one side because
// blocked facts are symmetric. The position must contain exactly the four
// conventional robots, since the solver identifies them by color.
func Encode(b *engine.Board, robots map[engine.Robot]engine.Cell, goal engine.Goal) (string, error) {
	cells := make([]engine.Cell, 5)
	for robot, cell := range robots {
		idx := engine.RobotIndex(robot)
		if idx < 1 || idx > 4 {
			return "", fmt.Errorf("solver needs robots robot-1 through robot-4, got %s", robot)
		}
		if cells[idx] != "" {
			return "", fmt.Errorf("duplicate robot index %d", idx)
		}
		cells[idx] = cell
	}
	for idx := 1; idx <= 4; idx++ {
		if cells[idx] == "" {
			return "", fmt.Errorf("solver needs robots robot-1 through robot-4, robot-%d missing", idx)
		}
	}
	goalIdx := engine.RobotIndex(goal.Robot)
	if goalIdx < 1 || goalIdx > 4 {
		return "", fmt.Errorf("goal robot %s has no solver color", goal.Robot)
	}
	goalPos, ok := b.Position(goal.Cell)
	if !ok {
		return "", fmt.Errorf("goal cell %s is not on the board", goal.Cell)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d\n", b.Size)
	for row := 0; row < b.Size; row++ {
		for col := 0; col < b.Size; col++ {
			cell := b.CellAt(row, col)
			if b.BarrierBlocked(cell, engine.South) {
				fmt.Fprintf(&sb, "%d %d d\n", col, row)
			}
			if b.BarrierBlocked(cell, engine.East) {
				fmt.Fprintf(&sb, "%d %d r\n", col, row)
			}
		}
	}
	sb.WriteString("T\n")
	fmt.Fprintf(&sb, "%d %d %c\n", goalPos.Col, goalPos.Row, colorChar[goalIdx])
	for idx := 1; idx <= 4; idx++ {
		pos, ok := b.Position(cells[idx])
		if !ok {
			return "", fmt.Errorf("robot-%d cell %s is not on the board", idx, cells[idx])
		}
		fmt.Fprintf(&sb, "%d %d %c\n", pos.Col, pos.Row, colorChar[idx])
	}
	return sb.String(), nil
}
