// Package archive keeps a SQLite history of plan evaluations. The service
// treats the store as optional; a nil store disables archiving without
// touching any other code path.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wricardo/ricochet-robots-game/game/service"
)

// Store is the evaluation archive. Safe for concurrent use.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// NewStore opens or creates the archive database at dbPath, creating
// parent directories as needed.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize archive schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		problem TEXT NOT NULL,
		session_id TEXT NOT NULL DEFAULT '',
		requested_moves INTEGER NOT NULL,
		executed_moves INTEGER NOT NULL,
		result TEXT NOT NULL,
		trace_length INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_evaluations_problem ON evaluations(problem);
	CREATE INDEX IF NOT EXISTS idx_evaluations_created ON evaluations(created_at);
	CREATE INDEX IF NOT EXISTS idx_evaluations_result ON evaluations(result);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores one evaluation.
func (s *Store) Record(ctx context.Context, ev *service.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations
			(id, problem, session_id, requested_moves, executed_moves, result, trace_length, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Problem, ev.SessionID, ev.RequestedMoves, ev.ExecutedMoves,
		ev.Result, ev.TraceLength, ev.DurationMs, ev.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

// List returns one page of evaluations, newest first, plus the total row
// count for pagination.
func (s *Store) List(ctx context.Context, page, limit int) ([]*service.Evaluation, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count evaluations: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, problem, session_id, requested_moves, executed_moves, result, trace_length, duration_ms, created_at
		FROM evaluations
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var evs []*service.Evaluation
	for rows.Next() {
		ev := &service.Evaluation{}
		var created string
		if err := rows.Scan(&ev.ID, &ev.Problem, &ev.SessionID, &ev.RequestedMoves,
			&ev.ExecutedMoves, &ev.Result, &ev.TraceLength, &ev.DurationMs, &created); err != nil {
			return nil, 0, fmt.Errorf("scan evaluation: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			ev.CreatedAt = t
		}
		evs = append(evs, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate evaluations: %w", err)
	}
	return evs, total, nil
}

// CountByResult aggregates evaluations per result class.
func (s *Store) CountByResult(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT result, COUNT(*) FROM evaluations GROUP BY result`)
	if err != nil {
		return nil, fmt.Errorf("count by result: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var result string
		var n int
		if err := rows.Scan(&result, &n); err != nil {
			return nil, fmt.Errorf("scan result count: %w", err)
		}
		counts[result] = n
	}
	return counts, rows.Err()
}
