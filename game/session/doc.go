// Package session provides session management for the Ricochet Robots game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Concurrent access control
//   - Session cleanup and expiration
//   - Optional JSON file persistence across restarts
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session wraps its own engine instance over a parsed problem, plus
// metadata like creation time and last access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, matched
// case-insensitively. The manager ensures IDs are unique and provides
// collision-resistant generation using cryptographic randomness.
//
// Concurrency:
//
// The session manager is thread-safe and supports concurrent operations.
// Multiple goroutines can safely create, retrieve, and modify different
// sessions simultaneously. Internal locking ensures data consistency.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session over a problem
//	sess, err := manager.Create("", "puzzle_01", problem)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sessionID)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List all active sessions
//	sessions := manager.List()
//
// Persistence:
//
// NewManagerWithPersistence mirrors every session to a SessionPersistence
// implementation. FilePersistence stores one JSON file per session holding
// the problem name and the current robot positions; loading re-parses the
// problem and restores the positions onto a fresh engine.
package session
