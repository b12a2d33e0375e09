package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Problem files are plain text, one relational fact per line:
//
//	% 4x4 with one interior barrier
//	size(4).
//	adjacency(cell-1-1, cell-2-1, east).
//	blocked(cell-2-1, east).
//	blocked(cell-3-1, west).
//	at(robot-1, cell-1-1).
//	goal:
//	at(robot-1, cell-4-2).
//
// A % starts a comment; blank lines are ignored. Facts before the goal:
// header form the init section (an explicit init: header is accepted); the
// goal section holds exactly one at fact naming the target robot and cell.

// ParseProblem reads the relational fact format. name is attached to the
// returned problem for diagnostics and persistence.
func ParseProblem(r io.Reader, name string) (*Problem, error) {
	p := &Problem{Name: name}
	robotSeen := make(map[Robot]int)
	cellSeen := make(map[Cell]int)
	inGoal := false
	goalFacts := 0

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.Index(line, "%"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "init:":
			if inGoal {
				return nil, &ParseError{Line: lineno, Msg: "init: section after goal: section"}
			}
			continue
		case "goal:":
			if inGoal {
				return nil, &ParseError{Line: lineno, Msg: "duplicate goal: section"}
			}
			inGoal = true
			continue
		}

		pred, args, err := parseFactLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineno, Msg: err.Error()}
		}

		if inGoal {
			if pred != "at" {
				return nil, &ParseError{Line: lineno, Msg: fmt.Sprintf("only at facts are allowed in the goal section, got %s", pred)}
			}
			if len(args) != 2 {
				return nil, &ParseError{Line: lineno, Msg: "at takes 2 arguments"}
			}
			if goalFacts > 0 {
				return nil, &ParseError{Line: lineno, Msg: "more than one goal fact"}
			}
			goalFacts++
			p.Goal = Goal{Robot: Robot(args[0]), Cell: Cell(args[1])}
			continue
		}

		switch pred {
		case "size":
			if len(args) != 1 {
				return nil, &ParseError{Line: lineno, Msg: "size takes 1 argument"}
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return nil, &ParseError{Line: lineno, Msg: fmt.Sprintf("invalid size %q", args[0])}
			}
			if p.Size != 0 {
				return nil, &ParseError{Line: lineno, Msg: "duplicate size fact"}
			}
			p.Size = n
		case "adjacency":
			if len(args) != 3 {
				return nil, &ParseError{Line: lineno, Msg: "adjacency takes 3 arguments"}
			}
			dir, err := ParseDirection(args[2])
			if err != nil {
				return nil, &ParseError{Line: lineno, Msg: err.Error()}
			}
			p.Adjacency = append(p.Adjacency, AdjacencyFact{From: Cell(args[0]), To: Cell(args[1]), Dir: dir})
		case "blocked":
			if len(args) != 2 {
				return nil, &ParseError{Line: lineno, Msg: "blocked takes 2 arguments"}
			}
			dir, err := ParseDirection(args[1])
			if err != nil {
				return nil, &ParseError{Line: lineno, Msg: err.Error()}
			}
			p.Blocked = append(p.Blocked, BlockedFact{Cell: Cell(args[0]), Dir: dir})
		case "at":
			if len(args) != 2 {
				return nil, &ParseError{Line: lineno, Msg: "at takes 2 arguments"}
			}
			robot, cell := Robot(args[0]), Cell(args[1])
			if prev, ok := robotSeen[robot]; ok {
				return nil, &ParseError{Line: lineno, Msg: fmt.Sprintf("robot %s already placed on line %d", robot, prev)}
			}
			if prev, ok := cellSeen[cell]; ok {
				return nil, &ParseError{Line: lineno, Msg: fmt.Sprintf("cell %s already occupied (line %d)", cell, prev)}
			}
			robotSeen[robot] = lineno
			cellSeen[cell] = lineno
			p.Robots = append(p.Robots, RobotFact{Robot: robot, Cell: cell})
		default:
			return nil, &ParseError{Line: lineno, Msg: fmt.Sprintf("unknown predicate %q", pred)}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read problem: %w", err)
	}
	if goalFacts == 0 {
		return nil, &ParseError{Line: lineno, Msg: "missing goal section with one at fact"}
	}
	return p, nil
}

// parseFactLine splits "pred(arg1, arg2)." into its predicate and arguments.
func parseFactLine(line string) (string, []string, error) {
	if !strings.HasSuffix(line, ".") {
		return "", nil, fmt.Errorf("fact %q does not end with a period", line)
	}
	body := strings.TrimSuffix(line, ".")
	open := strings.Index(body, "(")
	if open < 0 || !strings.HasSuffix(body, ")") {
		return "", nil, fmt.Errorf("fact %q is not of the form predicate(args)", line)
	}
	pred := strings.TrimSpace(body[:open])
	if pred == "" {
		return "", nil, fmt.Errorf("fact %q has no predicate", line)
	}
	inner := body[open+1 : len(body)-1]
	parts := strings.Split(inner, ",")
	args := make([]string, 0, len(parts))
	for _, a := range parts {
		a = strings.TrimSpace(a)
		if a == "" {
			return "", nil, fmt.Errorf("fact %q has an empty argument", line)
		}
		args = append(args, a)
	}
	return pred, args, nil
}

// LoadProblem parses a problem file. The problem name is the file's base
// name without extension.
func LoadProblem(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p, err := ParseProblem(f, name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

// WriteProblem serializes the fact set back to the file format, preserving
// the order of facts within each section. Parsing the output yields an
// identical problem.
func WriteProblem(w io.Writer, p *Problem) error {
	bw := bufio.NewWriter(w)
	if p.Size != 0 {
		fmt.Fprintf(bw, "size(%d).\n", p.Size)
	}
	for _, f := range p.Adjacency {
		fmt.Fprintf(bw, "adjacency(%s, %s, %s).\n", f.From, f.To, f.Dir)
	}
	for _, f := range p.Blocked {
		fmt.Fprintf(bw, "blocked(%s, %s).\n", f.Cell, f.Dir)
	}
	for _, f := range p.Robots {
		fmt.Fprintf(bw, "at(%s, %s).\n", f.Robot, f.Cell)
	}
	fmt.Fprintln(bw, "goal:")
	fmt.Fprintf(bw, "at(%s, %s).\n", p.Goal.Robot, p.Goal.Cell)
	return bw.Flush()
}

// SaveProblem writes the problem to a file, creating parent directories.
func SaveProblem(path string, p *Problem) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create problem directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteProblem(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
