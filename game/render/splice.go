package render

import (
	"fmt"
	"strings"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

// Splice lays two rendered boards side by side with a text column between
// them: each output line is a before line, four spaces, a text line padded
// to the longest text line, four spaces, and the after line. Text lines
// beyond the board height are dropped; boards taller than the text get
// blank padding.
func Splice(before, after, text string) string {
	b1 := strings.Split(before, "\n")
	b2 := strings.Split(after, "\n")
	lines := strings.Split(text, "\n")

	gap := 0
	for _, l := range lines {
		if len(l) > gap {
			gap = len(l)
		}
	}

	var sb strings.Builder
	for i := range b1 {
		sb.WriteString(b1[i])
		sb.WriteString("    ")
		if i < len(lines) {
			sb.WriteString(lines[i])
			sb.WriteString(strings.Repeat(" ", gap-len(lines[i])))
		} else {
			sb.WriteString(strings.Repeat(" ", gap))
		}
		sb.WriteString("    ")
		if i < len(b2) {
			sb.WriteString(b2[i])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// MoveText builds the text column for one move's event trace: a GO line,
// then one Step line per cell the robot left, each carrying the 0-based
// matrix coordinates of the departed cell. A slide ending at another robot
// contributes a final Step line for the attempt that was refused, so the
// text records every iteration of the slide.
func MoveText(b *engine.Board, events []engine.Event) string {
	var sb strings.Builder
	for _, e := range events {
		switch e.Kind {
		case engine.EventGo:
			fmt.Fprintf(&sb, "GO %s %s\n", e.Robot, e.Dir)
		case engine.EventStep, engine.EventStopAtRobot:
			if pos, ok := b.Position(e.From); ok {
				fmt.Fprintf(&sb, "Step %s %d %d %s\n", e.Robot, pos.Row, pos.Col, e.Dir)
			}
		}
	}
	return sb.String()
}
