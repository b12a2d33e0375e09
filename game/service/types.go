package service

import (
	"time"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

// Session is one live game over a parsed problem: the engine owns the
// reconstructed board, the session's occupancy and its accumulated trace.
type Session struct {
	ID             string
	ProblemName    string
	Engine         engine.Engine
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// SessionInfo is the transport-facing snapshot of a session.
type SessionInfo struct {
	ID             string                        `json:"id"`
	ProblemName    string                        `json:"problem_name"`
	CreatedAt      time.Time                     `json:"created_at"`
	LastAccessedAt time.Time                     `json:"last_accessed_at"`
	Size           int                           `json:"size"`
	Robots         map[engine.Robot]engine.Cell  `json:"robots"`
	Goal           engine.Goal                   `json:"goal"`
	MoveCount      int                           `json:"move_count"`
	GoalStatus     engine.GoalStatus             `json:"goal_status"`
	Render         string                        `json:"render,omitempty"`
}

// MoveRequest is one coarse move as it arrives from a transport.
type MoveRequest struct {
	Robot     string `json:"robot"`
	Direction string `json:"direction"`
}

// MoveResult is the expansion of one applied coarse move plus the session
// state it produced.
type MoveResult struct {
	SessionID  string                       `json:"session_id"`
	Move       engine.Move                  `json:"move"`
	Events     []engine.Event               `json:"events"`
	FinalCell  engine.Cell                  `json:"final_cell"`
	Steps      int                          `json:"steps"`
	Robots     map[engine.Robot]engine.Cell `json:"robots"`
	MoveCount  int                          `json:"move_count"`
	GoalStatus engine.GoalStatus            `json:"goal_status"`
	Render     string                       `json:"render"`
}

// PlanResult is the outcome of running a whole coarse plan on a session.
type PlanResult struct {
	SessionID string            `json:"session_id"`
	Run       *engine.RunResult `json:"run"`
	MoveCount int               `json:"move_count"`
	Render    string            `json:"render"`
}

// Evaluation is one recorded plan evaluation, the unit the archive stores.
type Evaluation struct {
	ID             string    `json:"id"`
	Problem        string    `json:"problem"`
	SessionID      string    `json:"session_id,omitempty"`
	RequestedMoves int       `json:"requested_moves"`
	ExecutedMoves  int       `json:"executed_moves"`
	Result         string    `json:"result"` // goal status, or "error"
	TraceLength    int       `json:"trace_length"`
	DurationMs     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// EvaluationReport is a full plan-file evaluation: the verdict plus the
// move-by-move spliced transcript the eval tool prints.
type EvaluationReport struct {
	Evaluation Evaluation        `json:"evaluation"`
	Run        *engine.RunResult `json:"run"`
	Transcript []string          `json:"transcript"`
}

// HistoryPage is one page of archived evaluations, newest first.
type HistoryPage struct {
	Evaluations []*Evaluation `json:"evaluations"`
	Total       int           `json:"total"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
}

// ProblemInfo describes one problem file in the problems directory.
type ProblemInfo struct {
	Filename string `json:"filename"`
	Name     string `json:"name"` // identifier used for session creation
	Size     int    `json:"size"`
	Robots   int    `json:"robots"`
	Barriers int    `json:"barriers"` // interior walls, counted once per wall
}

// GenerateRequest configures problem generation through the service.
type GenerateRequest struct {
	Size     int    `json:"size"`
	Barriers int    `json:"barriers,omitempty"`
	Seed     int64  `json:"seed,omitempty"`
	Name     string `json:"name,omitempty"`
}

// SolveResult is a verified answer from the external solver.
type SolveResult struct {
	Problem  string            `json:"problem"`
	Cost     int               `json:"cost"`
	Moves    []engine.Move     `json:"moves"`
	PlanText string            `json:"plan_text"`
	Run      *engine.RunResult `json:"run"`
}
