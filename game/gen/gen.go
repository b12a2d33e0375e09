// Package gen creates random board instances: a square grid, interior
// barriers placed uniformly away from the rim, four robots on distinct
// cells and one goal. Generated problems always reconstruct cleanly and
// their written form round-trips through the parser.
package gen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

// Config controls instance generation. The zero value of a field selects
// its default.
type Config struct {
	// Size is the board dimension. Required, at least 2.
	Size int

	// Barriers is the number of interior walls. 0 picks uniformly from
	// [5, 5+Size*Size/3].
	Barriers int

	// Robots is the number of robots placed, robot-1 upward. 0 places the
	// conventional four.
	Robots int

	// Rand is the randomness source. nil seeds from the clock; pass a
	// seeded source for reproducible instances.
	Rand *rand.Rand

	// Name is attached to the generated problem. Empty defaults to
	// "random-<size>x<size>".
	Name string
}

type wall struct {
	x, y int
	dir  engine.Direction
}

// mirror returns the same wall described from the adjoining cell.
func (w wall) mirror() wall {
	switch w.dir {
	case engine.East:
		return wall{w.x + 1, w.y, engine.West}
	case engine.West:
		return wall{w.x - 1, w.y, engine.East}
	case engine.North:
		return wall{w.x, w.y - 1, engine.South}
	case engine.South:
		return wall{w.x, w.y + 1, engine.North}
	}
	return w
}

// rimFacing reports whether the wall would duplicate the outer rim.
func (w wall) rimFacing(size int) bool {
	switch w.dir {
	case engine.South:
		return w.y == size
	case engine.North:
		return w.y == 1
	case engine.East:
		return w.x == size
	case engine.West:
		return w.x == 1
	}
	return false
}

// Generate builds one random instance. Barrier candidates are drawn
// uniformly over (x, y, direction) and rejected when they face the rim,
// repeat an existing wall or repeat it from the other side; every accepted
// wall is declared symmetrically on both cells. Robots land on distinct
// cells; the goal robot and cell are independent uniform draws, so the goal
// cell may coincide with a robot, including the goal robot itself.
func Generate(cfg Config) (*engine.Problem, error) {
	size := cfg.Size
	if size < 2 {
		return nil, fmt.Errorf("board size %d too small, need at least 2", size)
	}
	robots := cfg.Robots
	if robots == 0 {
		robots = 4
	}
	if robots < 1 || robots > size*size {
		return nil, fmt.Errorf("cannot place %d robots on a %dx%d board", robots, size, size)
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	barriers := cfg.Barriers
	if barriers == 0 {
		barriers = 5 + rng.Intn(size*size/3+1)
	}
	// Each interior edge can hold one wall, declared from one of its two
	// sides.
	if maxWalls := 2 * size * (size - 1); barriers > maxWalls {
		return nil, fmt.Errorf("%d barriers do not fit on a %dx%d board (max %d)", barriers, size, size, maxWalls)
	}

	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("random-%dx%d", size, size)
	}
	p := &engine.Problem{Name: name, Size: size}

	picked := make(map[wall]bool)
	var walls []wall
	for len(walls) < barriers {
		w := wall{
			x:   rng.Intn(size) + 1,
			y:   rng.Intn(size) + 1,
			dir: engine.Directions[rng.Intn(len(engine.Directions))],
		}
		if w.rimFacing(size) {
			continue
		}
		if picked[w] || picked[w.mirror()] {
			continue
		}
		picked[w] = true
		walls = append(walls, w)
	}

	p.Adjacency = adjacencyFacts(size)
	p.Blocked = perimeterFacts(size)
	for _, w := range walls {
		m := w.mirror()
		p.Blocked = append(p.Blocked,
			engine.BlockedFact{Cell: engine.FormatCell(w.x, w.y), Dir: w.dir},
			engine.BlockedFact{Cell: engine.FormatCell(m.x, m.y), Dir: m.dir})
	}

	occupied := make(map[engine.Cell]bool)
	for i := 1; i <= robots; i++ {
		for {
			cell := engine.FormatCell(rng.Intn(size)+1, rng.Intn(size)+1)
			if occupied[cell] {
				continue
			}
			occupied[cell] = true
			p.Robots = append(p.Robots, engine.RobotFact{Robot: engine.FormatRobot(i), Cell: cell})
			break
		}
	}

	p.Goal = engine.Goal{
		Robot: engine.FormatRobot(rng.Intn(robots) + 1),
		Cell:  engine.FormatCell(rng.Intn(size)+1, rng.Intn(size)+1),
	}
	return p, nil
}

// adjacencyFacts emits the full grid in the canonical order: south chains
// per column, north, east chains per row, west.
func adjacencyFacts(size int) []engine.AdjacencyFact {
	facts := make([]engine.AdjacencyFact, 0, 4*size*(size-1))
	for x := 1; x <= size; x++ {
		for y := 1; y < size; y++ {
			facts = append(facts, engine.AdjacencyFact{From: engine.FormatCell(x, y), To: engine.FormatCell(x, y+1), Dir: engine.South})
		}
	}
	for x := 1; x <= size; x++ {
		for y := size; y > 1; y-- {
			facts = append(facts, engine.AdjacencyFact{From: engine.FormatCell(x, y), To: engine.FormatCell(x, y-1), Dir: engine.North})
		}
	}
	for y := 1; y <= size; y++ {
		for x := 1; x < size; x++ {
			facts = append(facts, engine.AdjacencyFact{From: engine.FormatCell(x, y), To: engine.FormatCell(x+1, y), Dir: engine.East})
		}
	}
	for y := 1; y <= size; y++ {
		for x := size; x > 1; x-- {
			facts = append(facts, engine.AdjacencyFact{From: engine.FormatCell(x, y), To: engine.FormatCell(x-1, y), Dir: engine.West})
		}
	}
	return facts
}

// perimeterFacts blocks the outer rim explicitly, interleaving north/south
// per column then west/east per row.
func perimeterFacts(size int) []engine.BlockedFact {
	facts := make([]engine.BlockedFact, 0, 4*size)
	for x := 1; x <= size; x++ {
		facts = append(facts,
			engine.BlockedFact{Cell: engine.FormatCell(x, 1), Dir: engine.North},
			engine.BlockedFact{Cell: engine.FormatCell(x, size), Dir: engine.South})
	}
	for y := 1; y <= size; y++ {
		facts = append(facts,
			engine.BlockedFact{Cell: engine.FormatCell(1, y), Dir: engine.West},
			engine.BlockedFact{Cell: engine.FormatCell(size, y), Dir: engine.East})
	}
	return facts
}
