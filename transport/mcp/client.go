package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/ricochet-robots-game/game/engine"
	"github.com/wricardo/ricochet-robots-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// serverInstructions is the rules summary handed to MCP clients. It has to
// match what the engine actually does, in particular the zero-distance move.
const serverInstructions = `Ricochet Robots Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Move the goal robot onto the goal cell. Robots slide in straight lines and
only stop at a wall, the board edge, or another robot. A move always runs
until the robot stops; there are no partial moves.

BOARD MODEL:
- Cells are named cell-<col>-<row>, 1-based from the north-west corner.
- Robots are named robot-1, robot-2, ... A typical problem has 2-4 robots.
- A move is a robot plus a compass direction: north, south, east or west.
- A move into an adjacent wall or robot is still legal: the robot stays
  on its cell, and the move counts.

AVAILABLE TOOLS:
- list_problems: List available problem files
- get_problem: Fetch a problem's fact text
- generate_problem: Generate a fresh random problem
- create_session: Start a game session on a problem
- list_sessions: List all active sessions
- get_session: Get session details
- board_state: Render a session's board as ASCII
- apply_move: Slide one robot in a direction
- run_plan: Execute a sequence of moves
- solve_problem: Ask the external solver for an optimal plan
- evaluations: Browse the archive of past plan evaluations

STRATEGY HINTS:
- The goal robot usually needs another robot as a blocker: move a helper
  robot into position first so the goal robot stops on the goal cell.
- Use board_state after every move; the digits are robots, letters mark
  the goal cell (a) and walls are drawn between cells.
- run_plan reports the goal verdict (reached, cell-empty or wrong-robot)
  plus every intermediate step, so inspect the trace when a plan misses.`

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Ricochet Robots Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(serverInstructions),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Problems
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_problems",
		Description: "List all problem files the server knows about",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListProblems)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_problem",
		Description: "Get the fact text of a specific problem",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Problem name (with or without the .rr extension)",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleGetProblem)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "generate_problem",
		Description: "Generate a fresh random problem and save it on the server",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"size": map[string]interface{}{
					"type":        "integer",
					"description": "Board size (NxN)",
				},
				"barriers": map[string]interface{}{
					"type":        "integer",
					"description": "Number of interior walls (optional)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Random seed for reproducible boards (optional)",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Name for the generated problem (optional)",
				},
			},
			Required: []string{"size"},
		},
	}, c.handleGenerateProblem)

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional problem selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"problem_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the problem to play (optional, server default otherwise)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Render the session's board as ASCII (robots as digits, goal as a letter)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"style": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"compact", "header"},
					"description": "Render style (default compact)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "apply_move",
		Description: "Slide one robot in a direction until it stops",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"robot": map[string]interface{}{
					"type":        "string",
					"description": "Robot to move, e.g. robot-1",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"north", "south", "east", "west"},
					"description": "Direction to slide",
				},
			},
			Required: []string{"session_id", "robot", "direction"},
		},
	}, c.handleApplyMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_plan",
		Description: "Execute a sequence of moves and report the goal verdict",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"robot":     map[string]interface{}{"type": "string"},
							"direction": map[string]interface{}{"type": "string"},
						},
					},
					"description": "Ordered list of {robot, direction} moves",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset the session before running the plan",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleRunPlan)

	// Solver and archive
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_problem",
		Description: "Ask the external solver for an optimal plan to a problem",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"problem_name": map[string]interface{}{
					"type":        "string",
					"description": "Problem to solve",
				},
			},
			Required: []string{"problem_name"},
		},
	}, c.handleSolveProblem)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "evaluations",
		Description: "Browse the archive of past plan evaluations",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
		},
	}, c.handleEvaluations)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListProblems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                    `json:"count"`
		Problems []*service.ProblemInfo `json:"problems"`
	}

	err := c.apiCall("GET", "/api/problems", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Available Problems (%d):\n\n", response.Count)
	for _, p := range response.Problems {
		result += fmt.Sprintf("- %s (size %dx%d, %d robots, %d walls)\n",
			p.Name, p.Size, p.Size, p.Robots, p.Barriers)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetProblem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	name, _ := args["name"].(string)

	var response struct {
		Name string `json:"name"`
		Text string `json:"text"`
	}
	err := c.apiCall("GET", fmt.Sprintf("/api/problems/%s", name), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Problem: %s\n\n%s", response.Name, response.Text)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGenerateProblem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	body := service.GenerateRequest{}
	if size, ok := args["size"].(float64); ok {
		body.Size = int(size)
	}
	if barriers, ok := args["barriers"].(float64); ok {
		body.Barriers = int(barriers)
	}
	if seed, ok := args["seed"].(float64); ok {
		body.Seed = int64(seed)
	}
	if name, ok := args["name"].(string); ok {
		body.Name = name
	}

	var info service.ProblemInfo
	err := c.apiCall("POST", "/api/problems/generate", body, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Generated problem: %s\nSize: %dx%d\nRobots: %d\nWalls: %d\n",
		info.Name, info.Size, info.Size, info.Robots, info.Barriers)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	problemName, _ := args["problem_name"].(string)

	body := map[string]string{}
	if problemName != "" {
		body["problem_name"] = problemName
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nProblem: %s\n\n%s",
		session.ID, session.ProblemName, formatSessionInfo(&session))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Problem: %s, Moves: %d, Created: %s)\n",
			s.ID, s.ProblemName, s.MoveCount, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	style, _ := args["style"].(string)
	if style == "" {
		style = "compact"
	}

	var response struct {
		SessionID string `json:"session_id"`
		Style     string `json:"style"`
		Render    string `json:"render"`
	}
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/render?style=%s", sessionID, style), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Render), nil
}

func (c *Client) handleApplyMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	robot, _ := args["robot"].(string)
	direction, _ := args["direction"].(string)

	body := service.MoveRequest{
		Robot:     robot,
		Direction: direction,
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleRunPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	reset, _ := args["reset"].(bool)

	moves := make([]service.MoveRequest, 0, len(movesRaw))
	for _, m := range movesRaw {
		entry, ok := m.(map[string]interface{})
		if !ok {
			continue
		}
		robot, _ := entry["robot"].(string)
		direction, _ := entry["direction"].(string)
		moves = append(moves, service.MoveRequest{Robot: robot, Direction: direction})
	}

	if reset {
		if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, nil); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	body := map[string]interface{}{
		"moves": moves,
	}

	var result service.PlanResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/plan", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatPlanResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleSolveProblem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	problemName, _ := args["problem_name"].(string)

	body := map[string]string{"problem_name": problemName}

	var result service.SolveResult
	err := c.apiCall("POST", "/api/solve", body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Solved %s in %d moves:\n\n", result.Problem, result.Cost))
	for i, m := range result.Moves {
		b.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, m.Robot, m.Dir))
	}
	if result.Run != nil {
		b.WriteString(fmt.Sprintf("\nVerified: %s\n", result.Run.Status))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleEvaluations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryPage
	err := c.apiCall("GET", "/api/evaluations"+params, nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)
	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Session: %s\nProblem: %s (%dx%d)\nCreated: %s\nMoves: %d\nGoal: %s on %s (%s)\n",
		session.ID, session.ProblemName, session.Size, session.Size,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.MoveCount,
		session.Goal.Robot, session.Goal.Cell, session.GoalStatus))

	b.WriteString("\nRobots:\n")
	for _, robot := range sortedRobots(session.Robots) {
		b.WriteString(fmt.Sprintf("- %s at %s\n", robot, session.Robots[robot]))
	}

	if session.Render != "" {
		b.WriteString("\n")
		b.WriteString(session.Render)
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Moved %s %s: %d steps, stopped at %s\n",
		result.Move.Robot, result.Move.Dir, result.Steps, result.FinalCell))
	b.WriteString(fmt.Sprintf("Move count: %d | Goal: %s\n", result.MoveCount, result.GoalStatus))

	if len(result.Events) > 0 {
		b.WriteString("\nTrace:\n")
		for _, event := range result.Events {
			b.WriteString(event.String())
			b.WriteString("\n")
		}
	}

	if result.Render != "" {
		b.WriteString("\n")
		b.WriteString(result.Render)
	}
	return b.String()
}

func formatPlanResult(result *service.PlanResult) string {
	var b strings.Builder
	run := result.Run

	b.WriteString(fmt.Sprintf("Plan executed: %d moves, goal %s\n", len(run.Moves), run.Status))
	if run.Reached {
		b.WriteString("🎉 Goal reached!\n")
	}

	for i, mt := range run.Moves {
		b.WriteString(fmt.Sprintf("\nMove %d: %s %s\n", i+1, mt.Move.Robot, mt.Move.Dir))
		for _, event := range mt.Events {
			b.WriteString("  ")
			b.WriteString(event.String())
			b.WriteString("\n")
		}
	}

	b.WriteString("\nFinal positions:\n")
	for _, robot := range sortedRobots(run.Final) {
		b.WriteString(fmt.Sprintf("- %s at %s\n", robot, run.Final[robot]))
	}

	if result.Render != "" {
		b.WriteString("\n")
		b.WriteString(result.Render)
	}
	return b.String()
}

func formatHistory(history *service.HistoryPage) string {
	result := fmt.Sprintf("Evaluation Archive (Page %d/%d) — Total: %d\n\n",
		history.Page, history.TotalPages, history.Total)

	for i, ev := range history.Evaluations {
		num := (history.Page-1)*history.PageSize + i + 1
		result += fmt.Sprintf("%d. %s — %s: %s (%d/%d moves, trace %d, %dms)\n",
			num, ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.Problem, ev.Result,
			ev.ExecutedMoves, ev.RequestedMoves, ev.TraceLength, ev.DurationMs)
	}

	return result
}

func sortedRobots(positions map[engine.Robot]engine.Cell) []engine.Robot {
	robots := make([]engine.Robot, 0, len(positions))
	for r := range positions {
		robots = append(robots, r)
	}
	sort.Slice(robots, func(i, j int) bool { return robots[i] < robots[j] })
	return robots
}
