package solver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

// remap translates the solver's color and direction words. Unknown words
// mark a line as not a move.
var remap = map[string]string{
	"Red":    "robot-1",
	"Blue":   "robot-2",
	"Green":  "robot-3",
	"Yellow": "robot-4",
	"Down":   "south",
	"Up":     "north",
	"Left":   "west",
	"Right":  "east",
}

// Decode reads the solver's stdout: the first line holding a bare integer
// is the claimed cost, and every following line whose last two fields
// translate to a color and a direction is a move. The solver's verbose mode
// prints a board drawing before the cost and numbers each move, so lines
// are matched by shape rather than position:
//
//	2
//	 1  Red     Right
//	 2  Red     Down
//
// Decode fails when no cost line is found or when the claimed cost does not
// match the number of decoded moves.
func Decode(r io.Reader) (*Result, error) {
	res := &Result{Cost: -1}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if res.Cost < 0 {
			if n, err := strconv.Atoi(line); err == nil {
				res.Cost = n
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		color, dir := fields[len(fields)-2], fields[len(fields)-1]
		robot, okColor := remap[color]
		direction, okDir := remap[dir]
		if !okColor || !okDir {
			continue
		}
		res.Moves = append(res.Moves, engine.Move{Robot: engine.Robot(robot), Dir: engine.Direction(direction)})
		res.Raw = append(res.Raw, color+" "+dir)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read solver output: %w", err)
	}
	if res.Cost < 0 {
		return nil, fmt.Errorf("solver output has no cost line")
	}
	if len(res.Moves) != res.Cost {
		return nil, fmt.Errorf("solver claimed cost %d but printed %d moves", res.Cost, len(res.Moves))
	}
	return res, nil
}
