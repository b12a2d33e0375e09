// Package solver adapts an external optimal solver. The board is encoded
// into the solver's text format, the solver binary is run with the encoding
// on stdin, and its stdout is decoded back into a coarse plan. Solver output
// is never trusted: every decoded plan is re-run through the engine against
// the initial occupancy before it is returned.
package solver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

// DefaultBin is the solver binary looked up on PATH when no explicit path
// is configured.
const DefaultBin = "ricli"

// Config locates the external solver.
type Config struct {
	// Bin is the solver binary. Empty falls back to the SOLVER_BIN
	// environment variable, then to DefaultBin.
	Bin string

	// Args are extra arguments passed on every invocation. Empty falls
	// back to the space-separated SOLVER_ARGS environment variable. The
	// reference solver needs its verbose flag to print moves at all.
	Args []string

	// Timeout bounds one solver run. 0 means no limit beyond the caller's
	// context.
	Timeout time.Duration
}

// Solver invokes the external binary. The zero value is not usable; call
// New.
type Solver struct {
	bin     string
	args    []string
	timeout time.Duration
}

// New resolves the configuration against the environment.
func New(cfg Config) *Solver {
	bin := cfg.Bin
	if bin == "" {
		bin = os.Getenv("SOLVER_BIN")
	}
	if bin == "" {
		bin = DefaultBin
	}
	args := cfg.Args
	if args == nil {
		if env := os.Getenv("SOLVER_ARGS"); env != "" {
			args = strings.Fields(env)
		}
	}
	return &Solver{bin: bin, args: args, timeout: cfg.Timeout}
}

// Result is a decoded and re-validated solver answer.
type Result struct {
	// Cost is the move count the solver claimed on its first output line.
	Cost int

	// Moves is the decoded coarse plan.
	Moves []engine.Move

	// Raw holds the solver's own wording per move, e.g. "Red Right", for
	// annotated plan files.
	Raw []string

	// Run is the engine's verification of the plan from the initial
	// occupancy.
	Run *engine.RunResult
}

// Solve encodes the position, runs the binary and verifies the decoded
// plan. It fails when the solver cannot be run, when its output cannot be
// decoded, when the claimed cost disagrees with the decoded move count, or
// when replaying the plan does not reach the goal.
func (s *Solver) Solve(ctx context.Context, b *engine.Board, robots map[engine.Robot]engine.Cell, goal engine.Goal) (*Result, error) {
	input, err := Encode(b, robots, goal)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.bin, s.args...)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("solver %s: %w", s.bin, ctx.Err())
		}
		return nil, fmt.Errorf("solver %s: %w (stderr: %s)", s.bin, err, strings.TrimSpace(stderr.String()))
	}

	result, err := Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("solver %s: %w", s.bin, err)
	}

	occ := engine.NewOccupancy()
	for r, c := range robots {
		if err := occ.Place(r, c); err != nil {
			return nil, err
		}
	}
	run, err := engine.RunPlan(ctx, b, occ, goal, result.Moves)
	if err != nil {
		return nil, fmt.Errorf("solver plan does not execute: %w", err)
	}
	if !run.Reached {
		return nil, fmt.Errorf("solver plan misses the goal: %w", run.Err())
	}
	result.Run = run
	return result, nil
}

// WritePlan serializes the result as a plan file with the conventional cost
// header and the solver's wording as per-move comments:
//
//	;; Optimal cost: 2
//	(go robot-1 east) ;; Red Right
func WritePlan(w io.Writer, res *Result) error {
	if _, err := fmt.Fprintf(w, ";; Optimal cost: %d\n", res.Cost); err != nil {
		return err
	}
	for i, m := range res.Moves {
		line := m.String()
		if i < len(res.Raw) && res.Raw[i] != "" {
			line += " ;; " + res.Raw[i]
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
