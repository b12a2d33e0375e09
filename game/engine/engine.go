package engine

import (
	"context"
	"fmt"
)

// Engine is a stateful wrapper over one reconstructed board: the live
// occupancy, the accumulated expanded trace and the goal verdict of a single
// game session. Engine instances are not safe for concurrent use; the
// session layer serializes access.
type Engine interface {
	// Problem returns the immutable problem this engine was built from.
	Problem() *Problem

	// Board returns the reconstructed matrix.
	Board() *Board

	// Positions returns the current robot placement snapshot.
	Positions() map[Robot]Cell

	// ApplyMove expands one coarse move, appends its events to the trace
	// and advances the occupancy.
	ApplyMove(robot Robot, dir Direction) ([]Event, error)

	// RunPlan folds a coarse plan over the current occupancy, appending all
	// events to the trace. An illegal move aborts the whole plan and leaves
	// the engine state untouched.
	RunPlan(ctx context.Context, plan []Move) (*RunResult, error)

	// Trace returns the full accumulated expanded plan.
	Trace() []Event

	// MoveCount returns the number of coarse moves applied since the last
	// reset.
	MoveCount() int

	// GoalStatus classifies the current occupancy against the goal.
	GoalStatus() GoalStatus

	// Reset restores the problem's initial occupancy and clears the trace.
	Reset() error

	// SetPositions overwrites the occupancy, used when restoring a
	// persisted session. Every cell must exist on the board and placements
	// must be injective.
	SetPositions(positions map[Robot]Cell) error
}

// NewEngine reconstructs the board and places the problem's robots. It fails
// on malformed topology and on robots placed outside the reconstructed
// matrix.
func NewEngine(p *Problem) (Engine, error) {
	board, err := Reconstruct(p)
	if err != nil {
		return nil, err
	}
	e := &GameEngine{problem: p, board: board}
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// GameEngine implements Engine.
type GameEngine struct {
	problem *Problem
	board   *Board
	occ     *Occupancy
	trace   []Event
	moves   int
}

func (e *GameEngine) Problem() *Problem { return e.problem }

func (e *GameEngine) Board() *Board { return e.board }

func (e *GameEngine) Positions() map[Robot]Cell { return e.occ.Positions() }

func (e *GameEngine) ApplyMove(robot Robot, dir Direction) ([]Event, error) {
	events, err := ApplyMove(e.board, e.occ, robot, dir)
	if err != nil {
		return nil, err
	}
	e.trace = append(e.trace, events...)
	e.moves++
	return events, nil
}

// RunPlan applies the plan atomically: on any illegal move the engine
// keeps the positions, trace and move count it had before the call.
func (e *GameEngine) RunPlan(ctx context.Context, plan []Move) (*RunResult, error) {
	occ := e.occ.Clone()
	result, err := RunPlan(ctx, e.board, occ, e.problem.Goal, plan)
	if err != nil {
		return nil, err
	}
	e.occ = occ
	for _, mt := range result.Moves {
		e.trace = append(e.trace, mt.Events...)
	}
	e.moves += len(plan)
	return result, nil
}

func (e *GameEngine) Trace() []Event {
	trace := make([]Event, len(e.trace))
	copy(trace, e.trace)
	return trace
}

func (e *GameEngine) MoveCount() int { return e.moves }

func (e *GameEngine) GoalStatus() GoalStatus {
	return CheckGoal(e.problem.Goal, e.occ)
}

func (e *GameEngine) Reset() error {
	occ := NewOccupancy()
	for _, rf := range e.problem.Robots {
		if _, ok := e.board.Position(rf.Cell); !ok {
			return fmt.Errorf("robot %s placed on unknown cell %s", rf.Robot, rf.Cell)
		}
		if err := occ.Place(rf.Robot, rf.Cell); err != nil {
			return fmt.Errorf("initial occupancy: %w", err)
		}
	}
	if _, ok := e.board.Position(e.problem.Goal.Cell); !ok {
		return fmt.Errorf("goal cell %s is not on the board", e.problem.Goal.Cell)
	}
	e.occ = occ
	e.trace = nil
	e.moves = 0
	return nil
}

func (e *GameEngine) SetPositions(positions map[Robot]Cell) error {
	occ := NewOccupancy()
	for robot, cell := range positions {
		if _, ok := e.board.Position(cell); !ok {
			return fmt.Errorf("robot %s placed on unknown cell %s", robot, cell)
		}
		if err := occ.Place(robot, cell); err != nil {
			return err
		}
	}
	e.occ = occ
	return nil
}
