package engine

import "fmt"

// ApplyMove executes one coarse move: the robot slides in dir until its
// current cell is blocked or the next cell is occupied by another robot. It
// returns the ordered atomic event trace and updates occ to the robot's
// final cell. The trace always begins with a go event and ends with exactly
// one stop-at-barrier or stop-at-robot event; each intermediate step event
// advances one cell. A robot that cannot move at all yields go followed by
// stop-at-barrier at its own cell.
//
// The occupancy is mutated only after the final cell is known, so observers
// never see a mid-slide state.
func ApplyMove(b *Board, occ *Occupancy, robot Robot, dir Direction) ([]Event, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("invalid direction %q", dir)
	}
	current, ok := occ.CellOf(robot)
	if !ok {
		return nil, &UnknownRobotError{Robot: robot}
	}

	events := []Event{{Kind: EventGo, Robot: robot, Dir: dir}}
	for !b.Blocked(current, dir) {
		next, ok := b.Neighbor(current, dir)
		if !ok {
			return nil, &TopologyError{Reason: "no neighbor in unblocked direction", Cell: current, Dir: dir}
		}
		if occupant, occupied := occ.RobotAt(next); occupied && occupant != robot {
			events = append(events, Event{Kind: EventStopAtRobot, Robot: robot, From: current, To: next, Dir: dir})
			if err := occ.MoveRobot(robot, current); err != nil {
				return nil, err
			}
			return events, nil
		}
		events = append(events, Event{Kind: EventStep, Robot: robot, From: current, To: next, Dir: dir})
		current = next
	}
	events = append(events, Event{Kind: EventStopAtBarrier, Robot: robot, Cell: current, Dir: dir})
	if err := occ.MoveRobot(robot, current); err != nil {
		return nil, err
	}
	return events, nil
}

// Steps counts the step events of a trace, the Manhattan distance traveled.
func Steps(events []Event) int {
	n := 0
	for _, e := range events {
		if e.Kind == EventStep {
			n++
		}
	}
	return n
}

// FinalCell returns the mover's final cell of a single-move trace: the From
// of a stop-at-robot, or the Cell of a stop-at-barrier.
func FinalCell(events []Event) (Cell, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		switch events[i].Kind {
		case EventStopAtBarrier:
			return events[i].Cell, true
		case EventStopAtRobot:
			return events[i].From, true
		}
	}
	return "", false
}
