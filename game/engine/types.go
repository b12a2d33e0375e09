package engine

import (
	"fmt"
	"sort"
)

// Direction is one of the four sliding directions. The set is closed; use
// ParseDirection to validate external input.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Directions lists all directions in a fixed order, used wherever
// deterministic iteration matters (serialization, tests).
var Directions = []Direction{North, South, East, West}

// Opposite returns the mirrored direction, used when a barrier placed on one
// side of a wall must also block the adjoining cell.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return d
}

// Valid reports whether d is a member of the closed direction set.
func (d Direction) Valid() bool {
	switch d {
	case North, South, East, West:
		return true
	}
	return false
}

// ParseDirection validates a direction name.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown direction %q", s)
	}
	return d, nil
}

// Cell is an opaque cell label. The conventional form is cell-<col>-<row>
// with 1-based coordinates, but the engine never parses labels; positions
// come from the reconstructed Board.
type Cell string

// Robot is an opaque robot label, conventionally robot-1 through robot-4.
type Robot string

// AdjacencyFact states that To is the neighbor of From in direction Dir.
type AdjacencyFact struct {
	From Cell
	To   Cell
	Dir  Direction
}

// BlockedFact states that a robot moving through Cell in direction Dir
// cannot continue.
type BlockedFact struct {
	Cell Cell
	Dir  Direction
}

// RobotFact places a robot on a cell in the initial occupancy.
type RobotFact struct {
	Robot Robot
	Cell  Cell
}

// Goal is the single target robot/cell pair of a problem.
type Goal struct {
	Robot Robot `json:"robot"`
	Cell  Cell  `json:"cell"`
}

// Move is a coarse move: a robot and a direction, without intermediate
// detail. ApplyMove expands it into atomic events.
type Move struct {
	Robot Robot     `json:"robot"`
	Dir   Direction `json:"direction"`
}

func (m Move) String() string {
	return fmt.Sprintf("(go %s %s)", m.Robot, m.Dir)
}

// Problem is a parsed relational fact set. It is immutable once built;
// Reconstruct derives the Board from it.
type Problem struct {
	Name      string
	Size      int // declared dimension, 0 when the size fact is absent
	Adjacency []AdjacencyFact
	Blocked   []BlockedFact
	Robots    []RobotFact
	Goal      Goal
}

// RobotNames returns the robot labels of the initial occupancy in sorted
// order.
func (p *Problem) RobotNames() []Robot {
	names := make([]Robot, 0, len(p.Robots))
	for _, rf := range p.Robots {
		names = append(names, rf.Robot)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Position is a 0-based (row, column) index into the reconstructed matrix.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ManhattanDistance returns the Manhattan distance between two positions.
func ManhattanDistance(a, b Position) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// EventKind discriminates the atomic event types of a move trace.
type EventKind string

const (
	EventGo            EventKind = "go"
	EventStep          EventKind = "step"
	EventStopAtRobot   EventKind = "stop-at-robot"
	EventStopAtBarrier EventKind = "stop-at-barrier"
)

// Event is one atomic entry of an expanded move trace.
//
// For EventStep and EventStopAtRobot both From and To are set; a
// stop-at-robot leaves the mover on From, with To naming the occupied cell
// it could not enter. For EventStopAtBarrier only Cell is set, the mover's
// final cell. EventGo carries only the robot and direction.
type Event struct {
	Kind  EventKind `json:"kind"`
	Robot Robot     `json:"robot"`
	From  Cell      `json:"from,omitempty"`
	To    Cell      `json:"to,omitempty"`
	Cell  Cell      `json:"cell,omitempty"`
	Dir   Direction `json:"direction"`
}

// String renders the event in the s-expression form used by expanded plan
// files, e.g. "(step robot-1 cell-1-1 cell-2-1 east)".
func (e Event) String() string {
	switch e.Kind {
	case EventGo:
		return fmt.Sprintf("(go %s %s)", e.Robot, e.Dir)
	case EventStep:
		return fmt.Sprintf("(step %s %s %s %s)", e.Robot, e.From, e.To, e.Dir)
	case EventStopAtRobot:
		return fmt.Sprintf("(stop-at-robot %s %s %s %s)", e.Robot, e.From, e.To, e.Dir)
	case EventStopAtBarrier:
		return fmt.Sprintf("(stop-at-barrier %s %s %s)", e.Robot, e.Cell, e.Dir)
	}
	return fmt.Sprintf("(? %s %s)", e.Robot, e.Dir)
}

// GoalStatus is the outcome of checking the goal against an occupancy.
type GoalStatus string

const (
	// GoalReached means the goal cell holds the goal robot.
	GoalReached GoalStatus = "reached"
	// GoalCellEmpty means no robot occupies the goal cell.
	GoalCellEmpty GoalStatus = "cell-empty"
	// GoalWrongRobot means a robot other than the goal robot occupies the
	// goal cell.
	GoalWrongRobot GoalStatus = "wrong-robot"
)

// CheckGoal classifies an occupancy against a goal.
func CheckGoal(goal Goal, occ *Occupancy) GoalStatus {
	robot, ok := occ.RobotAt(goal.Cell)
	if !ok {
		return GoalCellEmpty
	}
	if robot != goal.Robot {
		return GoalWrongRobot
	}
	return GoalReached
}
