package service

import (
	"context"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

// GameService defines all game-related operations exposed to transports.
type GameService interface {
	// Session management
	CreateSession(ctx context.Context, problemName, customID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ResetSession(ctx context.Context, sessionID string) (*SessionInfo, error)

	// Game operations
	ApplyMove(ctx context.Context, sessionID string, move MoveRequest) (*MoveResult, error)
	RunPlan(ctx context.Context, sessionID string, moves []MoveRequest) (*PlanResult, error)
	RenderBoard(ctx context.Context, sessionID, style string) (string, error)

	// Plan evaluation against a fresh occupancy, independent of sessions
	EvaluatePlanText(ctx context.Context, problemName, planText string) (*EvaluationReport, error)

	// Problems
	ListProblems(ctx context.Context) ([]*ProblemInfo, error)
	GetProblemText(ctx context.Context, name string) (string, error)
	GenerateProblem(ctx context.Context, req GenerateRequest) (*ProblemInfo, error)

	// External solver
	SolveProblem(ctx context.Context, problemName string) (*SolveResult, error)

	// Archived evaluations
	History(ctx context.Context, page, limit int) (*HistoryPage, error)
}

// SessionManager defines session storage operations.
type SessionManager interface {
	Create(id, problemName string, problem *engine.Problem) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ProblemManager loads and lists problem files.
type ProblemManager interface {
	Load(name string) (*engine.Problem, error)
	Raw(name string) (string, error)
	ListProblems() ([]*ProblemInfo, error)
	GetDefault() (*engine.Problem, error)
	SaveProblem(name string, p *engine.Problem) error
}

// EvaluationStore records plan evaluations for later inspection. A nil
// store disables archiving.
type EvaluationStore interface {
	Record(ctx context.Context, ev *Evaluation) error
	List(ctx context.Context, page, limit int) ([]*Evaluation, int, error)
}
