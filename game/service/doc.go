// Package service provides the business logic layer for the Ricochet Robots game.
//
// The service package implements:
//   - Multi-session game management over shared problem definitions
//   - Coarse move application and plan execution
//   - Plan file evaluation with rendered transcripts
//   - Problem listing, generation and solving
//   - Evaluation history backed by the archive
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ProblemManager loads and lists problem files.
// EvaluationStore records plan evaluations for later inspection.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, problem management, and
// business logic orchestration. Each session maintains its own engine
// instance with independent occupancy and move trace; the parsed problems
// themselves are shared and immutable.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	problemMgr, err := problem.NewManager("problems")
//	if err != nil {
//		log.Fatal(err)
//	}
//	gameService := service.NewGameService(sessionMgr, problemMgr, nil, nil)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic", "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Slide a robot
//	result, err := gameService.ApplyMove(ctx, sessionInfo.ID, service.MoveRequest{
//		Robot:     "robot-1",
//		Direction: "east",
//	})
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// robot occupancy. Multiple sessions can run concurrently against the same
// or different problems. Sessions track creation time, last access time, and
// the accumulated expanded move trace.
package service
