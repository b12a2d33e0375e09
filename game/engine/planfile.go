package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Plan files carry a coarse plan as one "(go <robot> <direction>)" line per
// move. Everything else, including ";;" comment lines such as the solver's
// ";; Optimal cost: N" header and the atomic events of an expanded plan, is
// ignored when reading, so an expanded plan is itself a readable plan
// skeleton.

// ParsePlan extracts the coarse-move skeleton: only lines starting with
// "(go " are read.
func ParsePlan(r io.Reader) ([]Move, error) {
	var plan []Move
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if !strings.HasPrefix(line, "(go ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, &ParseError{Line: lineno, Msg: fmt.Sprintf("malformed go action %q", line)}
		}
		dir, err := ParseDirection(strings.TrimRight(fields[2], ")"))
		if err != nil {
			return nil, &ParseError{Line: lineno, Msg: err.Error()}
		}
		plan = append(plan, Move{Robot: Robot(fields[1]), Dir: dir})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return plan, nil
}

// LoadPlan parses a plan file.
func LoadPlan(path string) ([]Move, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	plan, err := ParsePlan(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return plan, nil
}

// WritePlan serializes a coarse plan with the conventional cost header.
func WritePlan(w io.Writer, cost int, plan []Move) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, ";; Optimal cost: %d\n", cost)
	for _, m := range plan {
		fmt.Fprintln(bw, m.String())
	}
	return bw.Flush()
}

// WriteExpandedPlan serializes a full atomic-event trace, one s-expression
// per line.
func WriteExpandedPlan(w io.Writer, trace []Event) error {
	bw := bufio.NewWriter(w)
	for _, e := range trace {
		fmt.Fprintln(bw, e.String())
	}
	return bw.Flush()
}
