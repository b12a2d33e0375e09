// Package api provides HTTP REST API handlers for the Ricochet Robots game.
//
// The api package implements:
//   - RESTful endpoints for sliding-robot game operations
//   - Session management endpoints
//   - Problem listing, retrieval and generation
//   - External solver invocation
//   - Evaluation history
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Problems:
//   - GET /api/problems - List problem files
//   - GET /api/problems/{name} - Get raw problem text
//   - POST /api/problems/generate - Generate and save a new problem
//
// Session Management:
//   - POST /api/sessions - Create new session {problem_name, session_id?}
//   - GET /api/sessions - List sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - POST /api/sessions/{id}/move - Apply one coarse move {robot, direction}
//   - POST /api/sessions/{id}/plan - Run a whole plan {moves: [{robot, direction}]}
//   - POST /api/sessions/{id}/reset - Restore initial robot positions
//   - GET /api/sessions/{id}/render?style=header|compact - ASCII board
//
// Solver and History:
//   - POST /api/solve - Solve a problem via the external solver {problem_name}
//   - GET /api/evaluations?page=&limit= - Archived plan evaluations
//
// Request/Response Format:
//
// All endpoints accept and return JSON. A move expands into its atomic
// event trace:
//
//	{
//	  "move": {"robot": "robot-1", "direction": "east"},
//	  "events": [{"kind": "go", ...}, {"kind": "step", ...}],
//	  "final_cell": "cell-4-1",
//	  "steps": 3,
//	  "goal_status": "cell-empty",
//	  "render": "..."
//	}
//
// After move, plan and reset operations the fresh session state is also
// broadcast to the session's WebSocket watchers.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
