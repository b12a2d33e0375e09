package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/ricochet-robots-game/game/engine"
	"github.com/wricardo/ricochet-robots-game/game/gen"
	"github.com/wricardo/ricochet-robots-game/game/render"
	"github.com/wricardo/ricochet-robots-game/game/solver"
)

// gameServiceImpl implements the GameService interface.
type gameServiceImpl struct {
	sessions SessionManager
	problems ProblemManager
	solver   *solver.Solver
	archive  EvaluationStore
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. solver and archive
// may be nil, disabling SolveProblem and History respectively.
func NewGameService(sessions SessionManager, problems ProblemManager, slv *solver.Solver, archive EvaluationStore) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		problems: problems,
		solver:   slv,
		archive:  archive,
	}
}

// sessionInfo snapshots a session, including a compact render.
func sessionInfo(sess *Session) *SessionInfo {
	eng := sess.Engine
	return &SessionInfo{
		ID:             sess.ID,
		ProblemName:    sess.ProblemName,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Size:           eng.Board().Size,
		Robots:         eng.Positions(),
		Goal:           eng.Problem().Goal,
		MoveCount:      eng.MoveCount(),
		GoalStatus:     eng.GoalStatus(),
		Render:         render.Compact(eng.Board(), eng.Positions(), eng.Problem().Goal),
	}
}

func (s *gameServiceImpl) CreateSession(ctx context.Context, problemName, customID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var problem *engine.Problem
	var err error
	if problemName != "" {
		problem, err = s.problems.Load(problemName)
		if err != nil {
			if infos, listErr := s.problems.ListProblems(); listErr == nil && len(infos) > 0 {
				names := make([]string, 0, len(infos))
				for _, info := range infos {
					names = append(names, info.Name)
				}
				return nil, fmt.Errorf("problem %q not found, available: %v", problemName, names)
			}
			return nil, fmt.Errorf("load problem %s: %w", problemName, err)
		}
	} else {
		problem, err = s.problems.GetDefault()
		if err != nil {
			return nil, fmt.Errorf("no default problem: %w", err)
		}
		problemName = problem.Name
	}

	sess, err := s.sessions.Create(customID, problemName, problem)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sessionInfo(sess), nil
}

func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sessionInfo(sess), nil
}

func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Delete(sessionID)
}

func (s *gameServiceImpl) ResetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	if err := sess.Engine.Reset(); err != nil {
		return nil, fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("service: failed to persist session %s after reset: %v", sessionID, err)
	}
	return sessionInfo(sess), nil
}

func (s *gameServiceImpl) ApplyMove(ctx context.Context, sessionID string, move MoveRequest) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	dir, err := engine.ParseDirection(move.Direction)
	if err != nil {
		return nil, err
	}
	events, err := sess.Engine.ApplyMove(engine.Robot(move.Robot), dir)
	if err != nil {
		return nil, err
	}
	final, _ := engine.FinalCell(events)

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("service: failed to persist session %s after move: %v", sessionID, err)
	}

	eng := sess.Engine
	return &MoveResult{
		SessionID:  sessionID,
		Move:       engine.Move{Robot: engine.Robot(move.Robot), Dir: dir},
		Events:     events,
		FinalCell:  final,
		Steps:      engine.Steps(events),
		Robots:     eng.Positions(),
		MoveCount:  eng.MoveCount(),
		GoalStatus: eng.GoalStatus(),
		Render:     render.Compact(eng.Board(), eng.Positions(), eng.Problem().Goal),
	}, nil
}

func (s *gameServiceImpl) RunPlan(ctx context.Context, sessionID string, moves []MoveRequest) (*PlanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	plan, err := toPlan(moves)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	run, runErr := sess.Engine.RunPlan(ctx, plan)
	s.record(ctx, &evalRecord{
		Problem:        sess.ProblemName,
		SessionID:      sessionID,
		RequestedMoves: len(plan),
		Run:            run,
		Err:            runErr,
		Duration:       time.Since(started),
	})
	if runErr != nil {
		return nil, runErr
	}

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("service: failed to persist session %s after plan: %v", sessionID, err)
	}

	eng := sess.Engine
	return &PlanResult{
		SessionID: sessionID,
		Run:       run,
		MoveCount: eng.MoveCount(),
		Render:    render.Compact(eng.Board(), eng.Positions(), eng.Problem().Goal),
	}, nil
}

func (s *gameServiceImpl) RenderBoard(ctx context.Context, sessionID, style string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return "", fmt.Errorf("session not found: %w", err)
	}
	eng := sess.Engine
	switch style {
	case "", "compact":
		return render.Compact(eng.Board(), eng.Positions(), eng.Problem().Goal), nil
	case "header":
		return render.Header(eng.Board(), eng.Positions(), eng.Problem().Goal)
	}
	return "", fmt.Errorf("unknown render style %q, want header or compact", style)
}

func (s *gameServiceImpl) EvaluatePlanText(ctx context.Context, problemName, planText string) (*EvaluationReport, error) {
	problem, err := s.problems.Load(problemName)
	if err != nil {
		return nil, fmt.Errorf("load problem %s: %w", problemName, err)
	}
	plan, err := engine.ParsePlan(strings.NewReader(planText))
	if err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	board, err := engine.Reconstruct(problem)
	if err != nil {
		return nil, err
	}
	occ := engine.NewOccupancy()
	for _, rf := range problem.Robots {
		if err := occ.Place(rf.Robot, rf.Cell); err != nil {
			return nil, fmt.Errorf("initial occupancy: %w", err)
		}
	}

	// Render each move as a before/after splice while folding the plan.
	started := time.Now()
	transcript := make([]string, 0, len(plan))
	run := &engine.RunResult{Goal: problem.Goal, Moves: make([]engine.MoveTrace, 0, len(plan))}
	for i, m := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := render.Compact(board, occ.Positions(), problem.Goal)
		events, err := engine.ApplyMove(board, occ, m.Robot, m.Dir)
		if err != nil {
			s.record(ctx, &evalRecord{
				Problem:        problemName,
				RequestedMoves: len(plan),
				Run:            run,
				Err:            err,
				Duration:       time.Since(started),
			})
			return nil, fmt.Errorf("move %d %s: %w", i+1, m, err)
		}
		after := render.Compact(board, occ.Positions(), problem.Goal)
		run.Moves = append(run.Moves, engine.MoveTrace{Move: m, Events: events})
		transcript = append(transcript, render.Splice(before, after, render.MoveText(board, events)))
	}
	run.Status = engine.CheckGoal(problem.Goal, occ)
	run.Reached = run.Status == engine.GoalReached
	run.Final = occ.Positions()

	snap := s.record(ctx, &evalRecord{
		Problem:        problemName,
		RequestedMoves: len(plan),
		Run:            run,
		Duration:       time.Since(started),
	})
	return &EvaluationReport{Evaluation: *snap, Run: run, Transcript: transcript}, nil
}

func (s *gameServiceImpl) ListProblems(ctx context.Context) ([]*ProblemInfo, error) {
	return s.problems.ListProblems()
}

func (s *gameServiceImpl) GetProblemText(ctx context.Context, name string) (string, error) {
	return s.problems.Raw(name)
}

func (s *gameServiceImpl) GenerateProblem(ctx context.Context, req GenerateRequest) (*ProblemInfo, error) {
	cfg := gen.Config{
		Size:     req.Size,
		Barriers: req.Barriers,
		Name:     req.Name,
	}
	if req.Seed != 0 {
		cfg.Rand = rand.New(rand.NewSource(req.Seed))
	}
	problem, err := gen.Generate(cfg)
	if err != nil {
		return nil, fmt.Errorf("generate problem: %w", err)
	}
	if err := s.problems.SaveProblem(problem.Name, problem); err != nil {
		return nil, fmt.Errorf("save generated problem: %w", err)
	}
	return &ProblemInfo{
		Name:     problem.Name,
		Size:     problem.Size,
		Robots:   len(problem.Robots),
		Barriers: interiorWalls(problem),
	}, nil
}

func (s *gameServiceImpl) SolveProblem(ctx context.Context, problemName string) (*SolveResult, error) {
	if s.solver == nil {
		return nil, fmt.Errorf("no solver configured")
	}
	problem, err := s.problems.Load(problemName)
	if err != nil {
		return nil, fmt.Errorf("load problem %s: %w", problemName, err)
	}
	board, err := engine.Reconstruct(problem)
	if err != nil {
		return nil, err
	}
	robots := make(map[engine.Robot]engine.Cell, len(problem.Robots))
	for _, rf := range problem.Robots {
		robots[rf.Robot] = rf.Cell
	}

	res, err := s.solver.Solve(ctx, board, robots, problem.Goal)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	if err := solver.WritePlan(&sb, res); err != nil {
		return nil, err
	}
	return &SolveResult{
		Problem:  problemName,
		Cost:     res.Cost,
		Moves:    res.Moves,
		PlanText: sb.String(),
		Run:      res.Run,
	}, nil
}

func (s *gameServiceImpl) History(ctx context.Context, page, limit int) (*HistoryPage, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("no evaluation archive configured")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	evs, total, err := s.archive.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	totalPages := (total + limit - 1) / limit
	return &HistoryPage{
		Evaluations: evs,
		Total:       total,
		Page:        page,
		PageSize:    limit,
		TotalPages:  totalPages,
	}, nil
}

// evalRecord carries the raw material of an archive record before it is
// flattened into its stored form.
type evalRecord struct {
	Problem        string
	SessionID      string
	RequestedMoves int
	Run            *engine.RunResult
	Err            error
	Duration       time.Duration
}

// snapshot flattens the record into the archived Evaluation, minting its
// ID. A run that aborted mid-plan is archived with result "error" and the
// moves that did execute.
func (ev *evalRecord) snapshot() *Evaluation {
	result := "error"
	executed := 0
	traceLen := 0
	if ev.Run != nil {
		executed = len(ev.Run.Moves)
		traceLen = len(ev.Run.Trace())
		if ev.Err == nil {
			result = string(ev.Run.Status)
		}
	}
	return &Evaluation{
		ID:             uuid.NewString(),
		Problem:        ev.Problem,
		SessionID:      ev.SessionID,
		RequestedMoves: ev.RequestedMoves,
		ExecutedMoves:  executed,
		Result:         result,
		TraceLength:    traceLen,
		DurationMs:     ev.Duration.Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	}
}

// record flattens and stores one evaluation. Archive failures are logged,
// never surfaced: the evaluation result itself already reached the caller.
func (s *gameServiceImpl) record(ctx context.Context, ev *evalRecord) *Evaluation {
	snap := ev.snapshot()
	if s.archive != nil {
		if err := s.archive.Record(ctx, snap); err != nil {
			log.Printf("service: failed to archive evaluation for %s: %v", ev.Problem, err)
		}
	}
	return snap
}

func toPlan(moves []MoveRequest) ([]engine.Move, error) {
	plan := make([]engine.Move, 0, len(moves))
	for i, m := range moves {
		dir, err := engine.ParseDirection(m.Direction)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		if m.Robot == "" {
			return nil, fmt.Errorf("move %d: missing robot", i+1)
		}
		plan = append(plan, engine.Move{Robot: engine.Robot(m.Robot), Dir: dir})
	}
	return plan, nil
}

// interiorWalls counts walls once, not their two symmetric declarations,
// and skips the perimeter.
func interiorWalls(p *engine.Problem) int {
	board, err := engine.Reconstruct(p)
	if err != nil {
		return 0
	}
	n := 0
	for _, f := range p.Blocked {
		if _, interior := board.Neighbor(f.Cell, f.Dir); !interior {
			continue
		}
		if f.Dir == engine.South || f.Dir == engine.East {
			n++
		}
	}
	return n
}
