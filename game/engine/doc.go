// Package engine provides the core board logic for the Ricochet Robots game.
//
// The engine package implements the game mechanics including:
//   - Reconstruction of the rectangular grid from relational adjacency facts
//   - The sliding-move rule (a robot moves until a barrier or another robot)
//   - Expansion of coarse moves into ordered atomic event traces
//   - Plan execution and goal verification
//   - Problem file and plan file parsing and serialization
//
// Core Types:
//
// A Problem is the parsed relational fact set: adjacency facts, blocked
// facts, the initial robot occupancy and a single goal. Reconstruct turns a
// Problem into a Board, the explicit size x size matrix of cell labels with
// neighbor and blocked lookups. Occupancy is the bidirectional robot/cell
// mapping mutated by moves. The Engine interface wraps a Board with a live
// Occupancy and an accumulated event trace for session-style use.
//
// Usage:
//
//	problem, err := engine.LoadProblem("problems/p-08-05.rr")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err := engine.NewEngine(problem)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	events, err := game.ApplyMove("robot-1", engine.East)
//	status := game.GoalStatus()
//
// Game Rules:
//
// A coarse move names a robot and one of the four directions. The robot
// slides one cell at a time until the current cell is blocked in that
// direction or the next cell is occupied by another robot. The expansion of
// a coarse move is a trace beginning with a go event, followed by one step
// event per cell traveled, terminated by exactly one stop-at-barrier or
// stop-at-robot event. A robot that cannot move at all still produces a go
// and a stop-at-barrier at its own cell; that is a legal zero-distance move.
package engine
