package main

import (
	"fmt"
	"sort"
	"strings"
)

// Move is one coarse slide: a robot and a compass direction.
type Move struct {
	Robot string
	Dir   string
}

// Pos is a 1-based board coordinate, cell-<x>-<y>.
type Pos struct {
	X, Y int
}

type edge struct {
	pos Pos
	dir string
}

// Board is the bruteforcer's own minimal model of a problem: the set of
// open cell edges, the robot starts, and the goal. It is built from the
// problem text alone, so any disagreement with the server's engine shows
// up when the plan is submitted.
type Board struct {
	Size      int
	Robots    map[string]Pos
	GoalRobot string
	Goal      Pos

	open  map[edge]bool
	names []string // robot names in fixed search order
}

func (b *Board) GoalCell() string {
	return fmt.Sprintf("cell-%d-%d", b.Goal.X, b.Goal.Y)
}

var deltas = map[string]Pos{
	"north": {0, -1},
	"south": {0, 1},
	"east":  {1, 0},
	"west":  {-1, 0},
}

func parseCell(s string) (Pos, error) {
	var p Pos
	if _, err := fmt.Sscanf(s, "cell-%d-%d", &p.X, &p.Y); err != nil {
		return Pos{}, fmt.Errorf("bad cell %q", s)
	}
	return p, nil
}

// ParseBoard reads the relational problem text: size, adjacency, blocked
// and at facts, and the goal section. Facts it does not recognize are
// errors, so a format drift on the server side is caught immediately.
func ParseBoard(text string) (*Board, error) {
	b := &Board{
		Robots: make(map[string]Pos),
		open:   make(map[edge]bool),
	}
	blocked := make(map[edge]bool)
	inGoal := false

	for lineno, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if line == "goal:" {
			inGoal = true
			continue
		}
		line = strings.TrimSuffix(line, ".")

		openParen := strings.IndexByte(line, '(')
		closeParen := strings.LastIndexByte(line, ')')
		if openParen < 0 || closeParen < openParen {
			return nil, fmt.Errorf("line %d: malformed fact %q", lineno+1, raw)
		}
		pred := line[:openParen]
		args := strings.Split(line[openParen+1:closeParen], ",")
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}

		switch pred {
		case "size":
			if _, err := fmt.Sscanf(args[0], "%d", &b.Size); err != nil {
				return nil, fmt.Errorf("line %d: bad size %q", lineno+1, args[0])
			}
		case "adjacency":
			if len(args) != 3 {
				return nil, fmt.Errorf("line %d: adjacency needs 3 arguments", lineno+1)
			}
			from, err := parseCell(args[0])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno+1, err)
			}
			b.open[edge{from, args[2]}] = true
		case "blocked":
			if len(args) != 2 {
				return nil, fmt.Errorf("line %d: blocked needs 2 arguments", lineno+1)
			}
			cell, err := parseCell(args[0])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno+1, err)
			}
			blocked[edge{cell, args[1]}] = true
		case "at":
			if len(args) != 2 {
				return nil, fmt.Errorf("line %d: at needs 2 arguments", lineno+1)
			}
			cell, err := parseCell(args[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno+1, err)
			}
			if inGoal {
				b.GoalRobot = args[0]
				b.Goal = cell
			} else {
				b.Robots[args[0]] = cell
			}
		default:
			return nil, fmt.Errorf("line %d: unknown predicate %q", lineno+1, pred)
		}
	}

	if b.Size < 1 {
		return nil, fmt.Errorf("missing or invalid size fact")
	}
	if len(b.Robots) == 0 {
		return nil, fmt.Errorf("no robots placed")
	}
	if b.GoalRobot == "" {
		return nil, fmt.Errorf("missing goal")
	}
	if _, ok := b.Robots[b.GoalRobot]; !ok {
		return nil, fmt.Errorf("goal robot %s not placed", b.GoalRobot)
	}

	// Barriers override adjacency.
	for e := range blocked {
		delete(b.open, e)
	}

	b.names = make([]string, 0, len(b.Robots))
	for name := range b.Robots {
		b.names = append(b.names, name)
	}
	sort.Strings(b.names)
	return b, nil
}

// slide moves one robot from cur until a missing edge or another robot
// stops it.
func (b *Board) slide(positions []Pos, cur Pos, dir string) Pos {
	d := deltas[dir]
	for {
		if !b.open[edge{cur, dir}] {
			return cur
		}
		next := Pos{cur.X + d.X, cur.Y + d.Y}
		occupied := false
		for _, p := range positions {
			if p == next {
				occupied = true
				break
			}
		}
		if occupied {
			return cur
		}
		cur = next
	}
}

// Stats reports how much work a search did.
type Stats struct {
	Expanded int
}

type node struct {
	positions []Pos
	plan      []Move
}

func stateKey(positions []Pos) string {
	key := make([]byte, 0, len(positions)*2)
	for _, p := range positions {
		key = append(key, byte(p.X), byte(p.Y))
	}
	return string(key)
}

// Search runs breadth-first search over coarse moves. It returns the first
// (hence shortest) plan that parks the goal robot on the goal cell, or nil
// when no plan exists within maxDepth moves or maxNodes expanded states.
func Search(b *Board, maxDepth, maxNodes int) ([]Move, Stats) {
	goalIdx := sort.SearchStrings(b.names, b.GoalRobot)
	start := make([]Pos, len(b.names))
	for i, name := range b.names {
		start[i] = b.Robots[name]
	}

	stats := Stats{}
	if start[goalIdx] == b.Goal {
		return []Move{}, stats
	}

	queue := []node{{positions: start}}
	visited := map[string]bool{stateKey(start): true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if len(cur.plan) >= maxDepth {
			continue
		}
		stats.Expanded++
		if stats.Expanded > maxNodes {
			return nil, stats
		}

		for i, name := range b.names {
			for dir := range deltas {
				to := b.slide(cur.positions, cur.positions[i], dir)
				if to == cur.positions[i] {
					continue
				}

				next := make([]Pos, len(cur.positions))
				copy(next, cur.positions)
				next[i] = to

				key := stateKey(next)
				if visited[key] {
					continue
				}
				visited[key] = true

				plan := make([]Move, len(cur.plan), len(cur.plan)+1)
				copy(plan, cur.plan)
				plan = append(plan, Move{Robot: name, Dir: dir})

				if i == goalIdx && to == b.Goal {
					return plan, stats
				}
				queue = append(queue, node{positions: next, plan: plan})
			}
		}
	}
	return nil, stats
}
