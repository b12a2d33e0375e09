// Package render draws reconstructed boards as ASCII art.
//
// Two styles are provided. Header renders 2-character cells with every line
// prefixed ";; ", suitable for embedding a board sketch at the top of a
// problem file. Compact renders 1-character cells and is used for live game
// state and move-by-move evaluation output, where Splice lays an old and a
// new board side by side with the move description between them.
//
// Both styles draw walls from the problem's explicit blocked facts: an edge
// crossed by a barrier renders as x, an open edge as | (vertical) or -
// (horizontal). A board declared without perimeter facts renders an open
// frame even though the rim still blocks movement implicitly.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

// Header renders the commented two-character style:
//
//	;; +xx+--+
//	;; xR1|G2x
//	;; +--+--+
//
// R<i> marks a robot, G<i> the goal for robot i. A robot standing on the
// goal cell cannot be shown in this style and is reported as an error; use
// Compact for live states.
func Header(b *engine.Board, robots map[engine.Robot]engine.Cell, goal engine.Goal) (string, error) {
	return Sketch(";; ", b, robots, goal)
}

// Sketch is Header with a caller-chosen line prefix, so the same sketch can
// head files with different comment syntax (";; " for plans, "% " for
// problem files).
func Sketch(prefix string, b *engine.Board, robots map[engine.Robot]engine.Cell, goal engine.Goal) (string, error) {
	occ := invert(robots)
	var sb strings.Builder

	sb.WriteString(prefix)
	for col := 0; col < b.Size; col++ {
		sb.WriteByte('+')
		if b.BarrierBlocked(b.CellAt(0, col), engine.North) {
			sb.WriteString("xx")
		} else {
			sb.WriteString("--")
		}
	}
	sb.WriteString("+\n")

	for row := 0; row < b.Size; row++ {
		sb.WriteString(prefix)
		if b.BarrierBlocked(b.CellAt(row, 0), engine.West) {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('|')
		}
		for col := 0; col < b.Size; col++ {
			cell := b.CellAt(row, col)
			robot, hasRobot := occ[cell]
			switch {
			case hasRobot && cell == goal.Cell:
				return "", fmt.Errorf("cell %s holds both %s and the goal", cell, robot)
			case hasRobot:
				fmt.Fprintf(&sb, "R%d", engine.RobotIndex(robot))
			case cell == goal.Cell:
				fmt.Fprintf(&sb, "G%d", engine.RobotIndex(goal.Robot))
			default:
				sb.WriteString("  ")
			}
			if b.BarrierBlocked(cell, engine.East) {
				sb.WriteByte('x')
			} else {
				sb.WriteByte('|')
			}
		}
		sb.WriteByte('\n')

		sb.WriteString(prefix)
		for col := 0; col < b.Size; col++ {
			sb.WriteByte('+')
			if b.BarrierBlocked(b.CellAt(row, col), engine.South) {
				sb.WriteString("xx")
			} else {
				sb.WriteString("--")
			}
		}
		sb.WriteString("+\n")
	}
	return sb.String(), nil
}

// Compact renders the one-character style used for game state: a robot is
// its digit, a goal the lowercase letter for its robot index (a for
// robot-1), and a robot standing on its own goal the uppercase letter. A
// foreign robot on the goal cell shows as its digit.
func Compact(b *engine.Board, robots map[engine.Robot]engine.Cell, goal engine.Goal) string {
	occ := invert(robots)
	var sb strings.Builder

	for col := 0; col < b.Size; col++ {
		sb.WriteByte('+')
		if b.BarrierBlocked(b.CellAt(0, col), engine.North) {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('-')
		}
	}
	sb.WriteString("+\n")

	for row := 0; row < b.Size; row++ {
		if b.BarrierBlocked(b.CellAt(row, 0), engine.West) {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('|')
		}
		for col := 0; col < b.Size; col++ {
			cell := b.CellAt(row, col)
			sb.WriteString(cellChar(cell, occ, goal))
			if b.BarrierBlocked(cell, engine.East) {
				sb.WriteByte('x')
			} else {
				sb.WriteByte('|')
			}
		}
		sb.WriteByte('\n')

		for col := 0; col < b.Size; col++ {
			sb.WriteByte('+')
			if b.BarrierBlocked(b.CellAt(row, col), engine.South) {
				sb.WriteByte('x')
			} else {
				sb.WriteByte('-')
			}
		}
		sb.WriteString("+\n")
	}
	return sb.String()
}

func cellChar(cell engine.Cell, occ map[engine.Cell]engine.Robot, goal engine.Goal) string {
	robot, hasRobot := occ[cell]
	switch {
	case hasRobot && cell == goal.Cell:
		ri := engine.RobotIndex(robot)
		gi := engine.RobotIndex(goal.Robot)
		if ri == gi {
			return string(rune('A' + gi - 1))
		}
		return strconv.Itoa(ri)
	case hasRobot:
		return strconv.Itoa(engine.RobotIndex(robot))
	case cell == goal.Cell:
		return string(rune('a' + engine.RobotIndex(goal.Robot) - 1))
	}
	return " "
}

func invert(robots map[engine.Robot]engine.Cell) map[engine.Cell]engine.Robot {
	occ := make(map[engine.Cell]engine.Robot, len(robots))
	for r, c := range robots {
		occ[c] = r
	}
	return occ
}
