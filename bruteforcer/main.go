// Command bruteforcer plays against a running game server without borrowing
// the server's engine. It fetches a problem's raw text over the REST API,
// parses its own tiny board model, searches for a plan with breadth-first
// search over coarse moves, and then submits the plan back so the server's
// engine has the final word on whether the plan works.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Wire types mirror the server's JSON. Only the fields the bruteforcer
// reads are declared.

type ProblemResponse struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type SessionResponse struct {
	ID          string `json:"id"`
	ProblemName string `json:"problem_name"`
}

type MoveRequest struct {
	Robot     string `json:"robot"`
	Direction string `json:"direction"`
}

type RunResponse struct {
	Status  string            `json:"status"`
	Reached bool              `json:"reached"`
	Final   map[string]string `json:"final"`
}

type PlanResponse struct {
	SessionID string       `json:"session_id"`
	Run       *RunResponse `json:"run"`
	MoveCount int          `json:"move_count"`
	Render    string       `json:"render"`
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchProblem downloads a problem's raw text.
func (c *Client) FetchProblem(name string) (string, error) {
	resp, err := c.client.Get(fmt.Sprintf("%s/api/problems/%s", c.baseURL, name))
	if err != nil {
		return "", fmt.Errorf("fetch problem: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch problem failed: %s - %s", resp.Status, string(body))
	}

	var problem ProblemResponse
	if err := json.Unmarshal(body, &problem); err != nil {
		return "", fmt.Errorf("parse problem response: %w", err)
	}
	return problem.Text, nil
}

// CreateSession starts a session on the given problem and remembers its ID.
func (c *Client) CreateSession(problemName string) (*SessionResponse, error) {
	reqBody, err := json.Marshal(map[string]string{"problem_name": problemName})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	return &session, nil
}

// SubmitPlan runs the found plan on the server and returns its verdict.
func (c *Client) SubmitPlan(plan []Move) (*PlanResponse, error) {
	moves := make([]MoveRequest, len(plan))
	for i, m := range plan {
		moves[i] = MoveRequest{Robot: m.Robot, Direction: m.Dir}
	}
	reqBody, err := json.Marshal(map[string]interface{}{"moves": moves})
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/plan", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("submit plan: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("submit plan failed: %s - %s", resp.Status, string(body))
	}

	var planResp PlanResponse
	if err := json.Unmarshal(body, &planResp); err != nil {
		return nil, fmt.Errorf("parse plan response: %w", err)
	}
	return &planResp, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	problemName := flag.String("problem", "", "Problem name to solve (required)")
	maxDepth := flag.Int("max-depth", 10, "Maximum plan length searched")
	maxNodes := flag.Int("max-nodes", 2_000_000, "Maximum search states before giving up")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *problemName == "" {
		flag.Usage()
		os.Exit(2)
	}

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	text, err := client.FetchProblem(*problemName)
	if err != nil {
		log.Fatalf("Failed to fetch problem: %v", err)
	}

	board, err := ParseBoard(text)
	if err != nil {
		log.Fatalf("Failed to parse problem: %v", err)
	}
	log.Printf("Problem %s: %dx%d board, %d robots, goal %s on %s",
		*problemName, board.Size, board.Size, len(board.Robots), board.GoalRobot, board.GoalCell())

	started := time.Now()
	plan, stats := Search(board, *maxDepth, *maxNodes)
	if plan == nil {
		log.Printf("No plan found within depth %d (%d states in %v)", *maxDepth, stats.Expanded, time.Since(started))
		os.Exit(1)
	}
	log.Printf("Found %d-move plan in %v (%d states expanded)", len(plan), time.Since(started), stats.Expanded)
	if *verbose {
		for i, m := range plan {
			log.Printf("  %d. %s %s", i+1, m.Robot, m.Dir)
		}
	}

	// The local model is untrusted; the server's engine decides.
	session, err := client.CreateSession(*problemName)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	log.Printf("Session created: %s", session.ID)

	result, err := client.SubmitPlan(plan)
	if err != nil {
		log.Fatalf("Failed to submit plan: %v", err)
	}

	log.Printf("Server verdict: status=%s moves=%d", result.Run.Status, result.MoveCount)
	if result.Render != "" {
		fmt.Println(result.Render)
	}
	if !result.Run.Reached {
		log.Printf("❌ Server rejected the plan (local model disagrees with the engine)")
		os.Exit(1)
	}
	log.Printf("🎉 Goal reached in %d moves", len(plan))
}
