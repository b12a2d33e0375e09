// Package problem manages a directory of problem files: cached loading,
// listing and persistence of generated instances.
package problem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/ricochet-robots-game/game/engine"
	"github.com/wricardo/ricochet-robots-game/game/service"
)

// Ext is the problem-file extension.
const Ext = ".rr"

var (
	ErrProblemNotFound = errors.New("problem not found")
	ErrInvalidProblem  = errors.New("invalid problem")
)

// Manager handles problem loading and caching. Parsed problems are
// immutable, so cached instances are shared freely between sessions.
type Manager struct {
	problemsDir string
	problems    map[string]*engine.Problem
	mu          sync.RWMutex
}

// NewManager creates a problem manager over a directory of .rr files.
func NewManager(problemsDir string) (*Manager, error) {
	if _, err := os.Stat(problemsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("problems directory does not exist: %s", problemsDir)
	}
	return &Manager{
		problemsDir: problemsDir,
		problems:    make(map[string]*engine.Problem),
	}, nil
}

// Dir returns the managed directory.
func (m *Manager) Dir() string {
	return m.problemsDir
}

// Load parses a problem by name, caching the result. The name is the file
// name without the .rr extension. Loading validates the problem all the
// way through reconstruction, so a cached problem is always playable.
func (m *Manager) Load(name string) (*engine.Problem, error) {
	m.mu.RLock()
	if p, ok := m.problems[name]; ok {
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock.
	if p, ok := m.problems[name]; ok {
		return p, nil
	}

	p, err := engine.LoadProblem(m.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProblemNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidProblem, err)
	}
	if _, err := engine.Reconstruct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProblem, err)
	}

	m.problems[name] = p
	return p, nil
}

// Raw returns the problem file's text unparsed, for transports that hand
// the fact set to external consumers.
func (m *Manager) Raw(name string) (string, error) {
	data, err := os.ReadFile(m.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrProblemNotFound
		}
		return "", fmt.Errorf("read problem file: %w", err)
	}
	return string(data), nil
}

// ListProblems describes every parseable .rr file in the directory.
// Unparseable files are skipped.
func (m *Manager) ListProblems() ([]*service.ProblemInfo, error) {
	entries, err := os.ReadDir(m.problemsDir)
	if err != nil {
		return nil, fmt.Errorf("read problems directory: %w", err)
	}

	var infos []*service.ProblemInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), Ext)
		p, err := m.Load(name)
		if err != nil {
			continue
		}
		infos = append(infos, &service.ProblemInfo{
			Filename: entry.Name(),
			Name:     name,
			Size:     p.Size,
			Robots:   len(p.Robots),
			Barriers: interiorWalls(p),
		})
	}
	return infos, nil
}

// GetDefault returns the first problem in directory order.
func (m *Manager) GetDefault() (*engine.Problem, error) {
	infos, err := m.ListProblems()
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: no problems in %s", ErrProblemNotFound, m.problemsDir)
	}
	return m.Load(infos[0].Name)
}

// SaveProblem writes a problem into the managed directory and caches it.
func (m *Manager) SaveProblem(name string, p *engine.Problem) error {
	if _, err := engine.Reconstruct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProblem, err)
	}
	if err := engine.SaveProblem(m.path(name), p); err != nil {
		return fmt.Errorf("write problem file: %w", err)
	}
	m.mu.Lock()
	m.problems[name] = p
	m.mu.Unlock()
	return nil
}

// RefreshCache drops all cached problems, forcing reloads from disk.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.problems = make(map[string]*engine.Problem)
}

func (m *Manager) path(name string) string {
	filename := name
	if !strings.HasSuffix(filename, Ext) {
		filename += Ext
	}
	return filepath.Join(m.problemsDir, filename)
}

// interiorWalls counts each interior wall once, from its south or east
// declaration, ignoring the perimeter facts.
func interiorWalls(p *engine.Problem) int {
	board, err := engine.Reconstruct(p)
	if err != nil {
		return 0
	}
	n := 0
	for _, f := range p.Blocked {
		if f.Dir != engine.South && f.Dir != engine.East {
			continue
		}
		if _, interior := board.Neighbor(f.Cell, f.Dir); interior {
			n++
		}
	}
	return n
}
