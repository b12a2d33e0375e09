package engine

import (
	"context"
	"fmt"
)

// MoveTrace pairs one coarse move with its expanded atomic events.
type MoveTrace struct {
	Move   Move    `json:"move"`
	Events []Event `json:"events"`
}

// RunResult is the outcome of running a coarse plan: the per-move expansion,
// the goal verdict and the final occupancy. A plan that executed cleanly but
// missed the goal is a valid RunResult with Reached false, distinguishable
// from plan-application errors (unknown robot, malformed topology), which
// abort RunPlan with an error instead.
type RunResult struct {
	Status  GoalStatus      `json:"status"`
	Reached bool            `json:"reached"`
	Moves   []MoveTrace     `json:"moves"`
	Final   map[Robot]Cell  `json:"final"`
	Goal    Goal            `json:"goal"`
}

// Trace flattens the per-move expansions into the full expanded plan.
func (r *RunResult) Trace() []Event {
	var events []Event
	for _, mt := range r.Moves {
		events = append(events, mt.Events...)
	}
	return events
}

// Err returns nil when the goal was reached, otherwise a
// *GoalNotReachedError wrapping ErrGoalNotReached, for callers that prefer
// errors.Is over inspecting the result.
func (r *RunResult) Err() error {
	if r.Reached {
		return nil
	}
	return &GoalNotReachedError{Status: r.Status, Goal: r.Goal}
}

// RunPlan applies the coarse moves in order, mutating occ move by move, and
// then checks the goal. The fold is strictly sequential: each move starts
// from the previous move's resulting occupancy. Applying the same plan to
// the same initial state always yields the same trace and final occupancy.
//
// Cancellation is honored between coarse moves, never mid-move.
func RunPlan(ctx context.Context, b *Board, occ *Occupancy, goal Goal, plan []Move) (*RunResult, error) {
	result := &RunResult{
		Goal:  goal,
		Moves: make([]MoveTrace, 0, len(plan)),
	}
	for i, m := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		events, err := ApplyMove(b, occ, m.Robot, m.Dir)
		if err != nil {
			return nil, fmt.Errorf("move %d %s: %w", i+1, m, err)
		}
		result.Moves = append(result.Moves, MoveTrace{Move: m, Events: events})
	}
	result.Status = CheckGoal(goal, occ)
	result.Reached = result.Status == GoalReached
	result.Final = occ.Positions()
	return result, nil
}
