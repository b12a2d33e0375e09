// Package mcp provides a Model Context Protocol interface to the game server.
//
// The package is a thin client: every tool call is proxied to the REST API,
// so the MCP surface and the HTTP surface always agree on behavior. Sessions
// created over MCP are visible over HTTP and vice versa.
//
// MCP Tools:
//
//   - list_problems: List available problem files
//   - get_problem: Fetch a problem's fact text
//   - generate_problem: Generate and save a fresh random problem
//   - create_session: Create a session with optional problem selection
//   - list_sessions: List all active sessions
//   - get_session: Get specific session details
//   - board_state: Render a session's board as ASCII
//   - apply_move: Slide one robot in a compass direction
//   - run_plan: Execute a sequence of moves and report the goal verdict
//   - solve_problem: Ask the external solver for an optimal plan
//   - evaluations: Browse the archive of past plan evaluations
//
// Transport Modes:
//
// The underlying mcp-go server supports two transport modes:
//   - Stdio: direct stdio communication for local MCP clients
//   - HTTP: a streamable /mcp endpoint mounted next to the REST API
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
