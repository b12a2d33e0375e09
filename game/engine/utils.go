package engine

import "fmt"

// RobotIndex extracts the first run of digits from a robot label, e.g. 3
// for robot-3. It returns 0 for labels without digits. Renderers and the
// solver adapter use it; the engine itself never interprets labels.
func RobotIndex(r Robot) int {
	n := 0
	seen := false
	for _, c := range r {
		if c >= '0' && c <= '9' {
			n = n*10 + int(c-'0')
			seen = true
		} else if seen {
			break
		}
	}
	if !seen {
		return 0
	}
	return n
}

// FormatCell mints the conventional cell label for 1-based board
// coordinates, cell-<col>-<row>. Only the generator creates labels; all
// other components treat them as opaque.
func FormatCell(col, row int) Cell {
	return Cell(fmt.Sprintf("cell-%d-%d", col, row))
}

// FormatRobot mints the conventional robot label for a 1-based index.
func FormatRobot(index int) Robot {
	return Robot(fmt.Sprintf("robot-%d", index))
}
