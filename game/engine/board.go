package engine

// Board is the explicit size x size matrix reconstructed from a Problem's
// adjacency facts, plus the per-cell, per-direction blocked predicate.
// Boards are immutable after reconstruction and safe for concurrent reads.
type Board struct {
	Size  int
	Cells [][]Cell // row-major, Cells[row][col]

	neighbor map[Cell]map[Direction]Cell
	blocked  map[Cell]map[Direction]bool
	index    map[Cell]Position
}

// Neighbor returns the cell adjacent to c in direction d on the
// reconstructed matrix.
func (b *Board) Neighbor(c Cell, d Direction) (Cell, bool) {
	pos, ok := b.index[c]
	if !ok {
		return "", false
	}
	row, col := pos.Row, pos.Col
	switch d {
	case North:
		row--
	case South:
		row++
	case East:
		col++
	case West:
		col--
	default:
		return "", false
	}
	if row < 0 || row >= b.Size || col < 0 || col >= b.Size {
		return "", false
	}
	return b.Cells[row][col], true
}

// Blocked reports whether movement through c in direction d is disallowed.
// The board's outer edge blocks implicitly; interior barriers come from the
// problem's blocked facts.
func (b *Board) Blocked(c Cell, d Direction) bool {
	if b.blocked[c][d] {
		return true
	}
	_, ok := b.Neighbor(c, d)
	return !ok
}

// BarrierBlocked reports only the explicit blocked facts, without the
// implicit outer edge. Renderers use it to draw interior walls and the rim
// from the same predicate the input declared.
func (b *Board) BarrierBlocked(c Cell, d Direction) bool {
	return b.blocked[c][d]
}

// Position returns the 0-based matrix position of a cell.
func (b *Board) Position(c Cell) (Position, bool) {
	pos, ok := b.index[c]
	return pos, ok
}

// CellAt returns the cell label at a 0-based matrix position.
func (b *Board) CellAt(row, col int) Cell {
	return b.Cells[row][col]
}

// AdjacencyFacts derives the complete adjacency fact set from the matrix, in
// the canonical order: south chains per column, north, east chains per row,
// west. Round-tripping a well-formed problem through Reconstruct and back
// yields exactly its input facts.
func (b *Board) AdjacencyFacts() []AdjacencyFact {
	n := b.Size
	facts := make([]AdjacencyFact, 0, 4*n*(n-1))
	for col := 0; col < n; col++ {
		for row := 0; row < n-1; row++ {
			facts = append(facts, AdjacencyFact{From: b.Cells[row][col], To: b.Cells[row+1][col], Dir: South})
		}
	}
	for col := 0; col < n; col++ {
		for row := n - 1; row > 0; row-- {
			facts = append(facts, AdjacencyFact{From: b.Cells[row][col], To: b.Cells[row-1][col], Dir: North})
		}
	}
	for row := 0; row < n; row++ {
		for col := 0; col < n-1; col++ {
			facts = append(facts, AdjacencyFact{From: b.Cells[row][col], To: b.Cells[row][col+1], Dir: East})
		}
	}
	for row := 0; row < n; row++ {
		for col := n - 1; col > 0; col-- {
			facts = append(facts, AdjacencyFact{From: b.Cells[row][col], To: b.Cells[row][col-1], Dir: West})
		}
	}
	return facts
}

// Reconstruct builds the unique matrix implied by the problem's adjacency
// facts. It fails with a *TopologyError (wrapping ErrMalformedTopology) on
// any structural violation: duplicate successors, zero or multiple origin
// candidates, cyclic or ragged chains, a non-square result, a dimension
// mismatch against a declared size fact, blocked facts naming unknown cells,
// or asymmetric interior barriers. Reconstruct is a pure function of the
// fact set.
func Reconstruct(p *Problem) (*Board, error) {
	neighbor := make(map[Cell]map[Direction]Cell)
	cells := make(map[Cell]bool)
	for _, f := range p.Adjacency {
		if !f.Dir.Valid() {
			return nil, &TopologyError{Reason: "adjacency fact with unknown direction", Cell: f.From, Dir: f.Dir}
		}
		m := neighbor[f.From]
		if m == nil {
			m = make(map[Direction]Cell)
			neighbor[f.From] = m
		}
		if _, ok := m[f.Dir]; ok {
			return nil, &TopologyError{Reason: "duplicate successor", Cell: f.From, Dir: f.Dir}
		}
		m[f.Dir] = f.To
		cells[f.From] = true
		cells[f.To] = true
	}

	// The origin is the unique cell with neither a west nor a north
	// successor.
	var origin Cell
	origins := 0
	for c := range cells {
		if _, ok := neighbor[c][West]; ok {
			continue
		}
		if _, ok := neighbor[c][North]; ok {
			continue
		}
		origin = c
		origins++
	}
	if origins == 0 {
		return nil, &TopologyError{Reason: "no origin candidate"}
	}
	if origins > 1 {
		return nil, &TopologyError{Reason: "multiple origin candidates"}
	}

	limit := len(cells)
	row, err := chain(origin, East, neighbor, limit)
	if err != nil {
		return nil, err
	}
	matrix := [][]Cell{row}
	head := origin
	for {
		next, ok := neighbor[head][South]
		if !ok {
			break
		}
		if len(matrix) >= limit {
			return nil, &TopologyError{Reason: "cyclic south chain", Cell: head, Dir: South}
		}
		row, err = chain(next, East, neighbor, limit)
		if err != nil {
			return nil, err
		}
		matrix = append(matrix, row)
		head = next
	}

	width := len(matrix[0])
	for _, r := range matrix {
		if len(r) != width {
			return nil, &TopologyError{Reason: "irregular row length", Cell: r[0]}
		}
	}
	if len(matrix) != width {
		return nil, &TopologyError{Reason: "board is not square"}
	}
	if p.Size != 0 && width != p.Size {
		return nil, &TopologyError{Reason: "reconstructed dimension does not match declared size"}
	}

	index := make(map[Cell]Position, len(cells))
	for r, cols := range matrix {
		for c, cell := range cols {
			if _, ok := index[cell]; ok {
				return nil, &TopologyError{Reason: "cell placed twice", Cell: cell}
			}
			index[cell] = Position{Row: r, Col: c}
		}
	}
	if len(index) != len(cells) {
		return nil, &TopologyError{Reason: "disconnected cells left unplaced"}
	}

	b := &Board{
		Size:     width,
		Cells:    matrix,
		neighbor: neighbor,
		blocked:  make(map[Cell]map[Direction]bool),
		index:    index,
	}

	// Every input fact must be satisfied by the matrix, including north and
	// west facts that played no part in chain building.
	for _, f := range p.Adjacency {
		got, ok := b.Neighbor(f.From, f.Dir)
		if !ok || got != f.To {
			return nil, &TopologyError{Reason: "adjacency fact not satisfied by reconstruction", Cell: f.From, Dir: f.Dir}
		}
	}

	// Adjacency is mutual: every declared fact needs its mirror in the
	// opposite direction. Chain building alone would accept a one-sided
	// edge as long as the matrix happens to cover it.
	declared := make(map[AdjacencyFact]bool, len(p.Adjacency))
	for _, f := range p.Adjacency {
		declared[f] = true
	}
	for _, f := range p.Adjacency {
		if !declared[AdjacencyFact{From: f.To, To: f.From, Dir: f.Dir.Opposite()}] {
			return nil, &TopologyError{Reason: "adjacency fact without its mirror", Cell: f.From, Dir: f.Dir}
		}
	}

	for _, f := range p.Blocked {
		if !f.Dir.Valid() {
			return nil, &TopologyError{Reason: "blocked fact with unknown direction", Cell: f.Cell, Dir: f.Dir}
		}
		if _, ok := index[f.Cell]; !ok {
			return nil, &TopologyError{Reason: "blocked fact references unknown cell", Cell: f.Cell, Dir: f.Dir}
		}
		m := b.blocked[f.Cell]
		if m == nil {
			m = make(map[Direction]bool)
			b.blocked[f.Cell] = m
		}
		m[f.Dir] = true
	}

	// Interior barriers must be declared on both sides of the wall.
	for _, f := range p.Blocked {
		n, ok := b.Neighbor(f.Cell, f.Dir)
		if !ok {
			continue
		}
		if !b.blocked[n][f.Dir.Opposite()] {
			return nil, &TopologyError{Reason: "asymmetric barrier", Cell: f.Cell, Dir: f.Dir}
		}
	}

	return b, nil
}

// chain follows dir successors from start, failing on cycles and on chains
// longer than the number of known cells.
func chain(start Cell, dir Direction, neighbor map[Cell]map[Direction]Cell, limit int) ([]Cell, error) {
	row := []Cell{start}
	seen := map[Cell]bool{start: true}
	cur := start
	for {
		next, ok := neighbor[cur][dir]
		if !ok {
			return row, nil
		}
		if seen[next] || len(row) >= limit {
			return nil, &TopologyError{Reason: "cyclic chain", Cell: cur, Dir: dir}
		}
		row = append(row, next)
		seen[next] = true
		cur = next
	}
}
