package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's error taxonomy. Typed errors below wrap
// these so callers can branch with errors.Is.
var (
	// ErrMalformedTopology reports a structural violation while
	// reconstructing the board: no valid origin, ambiguous origin, broken or
	// cyclic chain, irregular row length, asymmetric barrier. Fatal to the
	// session; no board can be derived.
	ErrMalformedTopology = errors.New("malformed topology")

	// ErrUnknownRobot reports a coarse move referencing a robot absent from
	// the occupancy. A caller-side input error, failed fast.
	ErrUnknownRobot = errors.New("unknown robot")

	// ErrGoalNotReached is the negative verification outcome of a plan run:
	// the plan executed correctly but the goal cell is not occupied by the
	// goal robot. A first-class result, not a crash.
	ErrGoalNotReached = errors.New("goal not reached")
)

// TopologyError describes a MalformedTopology failure with enough context to
// diagnose the input encoding.
type TopologyError struct {
	Reason string
	Cell   Cell
	Dir    Direction
}

func (e *TopologyError) Error() string {
	msg := "malformed topology: " + e.Reason
	if e.Cell != "" {
		msg += fmt.Sprintf(" (cell %s", e.Cell)
		if e.Dir != "" {
			msg += fmt.Sprintf(", direction %s", e.Dir)
		}
		msg += ")"
	}
	return msg
}

func (e *TopologyError) Unwrap() error { return ErrMalformedTopology }

// UnknownRobotError identifies the offending robot of a rejected move.
type UnknownRobotError struct {
	Robot Robot
}

func (e *UnknownRobotError) Error() string {
	return fmt.Sprintf("unknown robot %q", e.Robot)
}

func (e *UnknownRobotError) Unwrap() error { return ErrUnknownRobot }

// GoalNotReachedError carries the classification of a failed goal check.
type GoalNotReachedError struct {
	Status GoalStatus
	Goal   Goal
}

func (e *GoalNotReachedError) Error() string {
	switch e.Status {
	case GoalCellEmpty:
		return fmt.Sprintf("goal not reached: no robot on goal cell %s", e.Goal.Cell)
	case GoalWrongRobot:
		return fmt.Sprintf("goal not reached: goal cell %s not occupied by %s", e.Goal.Cell, e.Goal.Robot)
	}
	return "goal not reached"
}

func (e *GoalNotReachedError) Unwrap() error { return ErrGoalNotReached }

// ParseError reports a syntax or contract violation in a problem or plan
// file, with its 1-based line number.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}
