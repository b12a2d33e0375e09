package engine

import (
	"fmt"
	"sort"
)

// Occupancy is the bidirectional mapping between robots and cells. Both
// directions are kept consistent through the Place and MoveRobot operations,
// so the injectivity invariant (at most one robot per cell) holds by
// construction. Occupancy is not safe for concurrent mutation; each plan run
// owns its own instance (see Clone).
type Occupancy struct {
	robotCell map[Robot]Cell
	cellRobot map[Cell]Robot
}

// NewOccupancy returns an empty occupancy.
func NewOccupancy() *Occupancy {
	return &Occupancy{
		robotCell: make(map[Robot]Cell),
		cellRobot: make(map[Cell]Robot),
	}
}

// Place adds a robot to the occupancy. It rejects duplicate robots and
// already-occupied cells.
func (o *Occupancy) Place(robot Robot, cell Cell) error {
	if existing, ok := o.robotCell[robot]; ok {
		return fmt.Errorf("robot %s already placed at %s", robot, existing)
	}
	if occupant, ok := o.cellRobot[cell]; ok {
		return fmt.Errorf("cell %s already occupied by %s", cell, occupant)
	}
	o.robotCell[robot] = cell
	o.cellRobot[cell] = robot
	return nil
}

// MoveRobot relocates a placed robot to a new cell, updating both mapping
// directions in one operation.
func (o *Occupancy) MoveRobot(robot Robot, to Cell) error {
	from, ok := o.robotCell[robot]
	if !ok {
		return &UnknownRobotError{Robot: robot}
	}
	if occupant, occupied := o.cellRobot[to]; occupied && occupant != robot {
		return fmt.Errorf("cell %s already occupied by %s", to, occupant)
	}
	delete(o.cellRobot, from)
	o.robotCell[robot] = to
	o.cellRobot[to] = robot
	return nil
}

// CellOf returns the cell a robot occupies.
func (o *Occupancy) CellOf(robot Robot) (Cell, bool) {
	c, ok := o.robotCell[robot]
	return c, ok
}

// RobotAt returns the robot occupying a cell, if any.
func (o *Occupancy) RobotAt(cell Cell) (Robot, bool) {
	r, ok := o.cellRobot[cell]
	return r, ok
}

// Robots returns the placed robots in sorted order.
func (o *Occupancy) Robots() []Robot {
	robots := make([]Robot, 0, len(o.robotCell))
	for r := range o.robotCell {
		robots = append(robots, r)
	}
	sort.Slice(robots, func(i, j int) bool { return robots[i] < robots[j] })
	return robots
}

// Positions returns a robot-to-cell snapshot.
func (o *Occupancy) Positions() map[Robot]Cell {
	m := make(map[Robot]Cell, len(o.robotCell))
	for r, c := range o.robotCell {
		m[r] = c
	}
	return m
}

// CellRobots returns a cell-to-robot snapshot.
func (o *Occupancy) CellRobots() map[Cell]Robot {
	m := make(map[Cell]Robot, len(o.cellRobot))
	for c, r := range o.cellRobot {
		m[c] = r
	}
	return m
}

// Len returns the number of placed robots.
func (o *Occupancy) Len() int {
	return len(o.robotCell)
}

// Clone returns an independent copy, so multiple plans can run concurrently
// against the same immutable board.
func (o *Occupancy) Clone() *Occupancy {
	c := NewOccupancy()
	for r, cell := range o.robotCell {
		c.robotCell[r] = cell
		c.cellRobot[cell] = r
	}
	return c
}
