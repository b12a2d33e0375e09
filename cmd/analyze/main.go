// Command analyze prints quick, human-readable heuristics about problem
// files in a problems directory. It summarizes dimensions, robot and wall
// counts, the goal placement, and highlights likely-degenerate instances:
// a goal already satisfied, a goal robot that can finish in one slide, or a
// board carrying no interior walls at all.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

func main() {
	dir := "problems"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.rr"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No problem files found under %s\n", dir)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeProblem(file)
	}
}

func analyzeProblem(path string) {
	problem, err := engine.LoadProblem(path)
	if err != nil {
		fmt.Printf("Error parsing problem: %v\n", err)
		return
	}

	board, err := engine.Reconstruct(problem)
	if err != nil {
		fmt.Printf("Error reconstructing board: %v\n", err)
		return
	}

	walls := 0
	for _, f := range problem.Blocked {
		if f.Dir != engine.South && f.Dir != engine.East {
			continue
		}
		if _, interior := board.Neighbor(f.Cell, f.Dir); interior {
			walls++
		}
	}

	fmt.Printf("Name: %s\n", problem.Name)
	fmt.Printf("Size: %d x %d\n", board.Size, board.Size)
	fmt.Printf("Robots: %d\n", len(problem.Robots))
	fmt.Printf("Interior Walls: %d\n", walls)
	fmt.Printf("Goal: %s on %s\n", problem.Goal.Robot, problem.Goal.Cell)

	// Goal geometry
	goalPos, ok := board.Position(problem.Goal.Cell)
	if !ok {
		fmt.Printf("⚠️  Goal cell %s is not on the board\n", problem.Goal.Cell)
		return
	}

	var startCell engine.Cell
	for _, rf := range problem.Robots {
		if rf.Robot == problem.Goal.Robot {
			startCell = rf.Cell
		}
	}
	if startCell == "" {
		fmt.Printf("⚠️  Goal robot %s has no initial position\n", problem.Goal.Robot)
		return
	}

	startPos, _ := board.Position(startCell)
	dist := engine.ManhattanDistance(startPos, goalPos)
	fmt.Printf("Goal Distance: %d (Manhattan, from %s)\n", dist, startCell)

	if dist == 0 {
		fmt.Printf("⚠️  Degenerate: the goal is already satisfied at the start\n")
		return
	}

	if solvedInOneSlide(board, problem, startCell) {
		fmt.Printf("⚠️  Trivial: the goal robot reaches the goal in a single slide\n")
	} else if walls == 0 {
		fmt.Printf("⚠️  Open board: no interior walls, only robots can stop a slide\n")
	} else {
		fmt.Printf("✅ Needs a multi-move plan\n")
	}
}

// solvedInOneSlide checks whether any single coarse move of the goal robot
// lands on the goal cell from the initial occupancy.
func solvedInOneSlide(board *engine.Board, problem *engine.Problem, start engine.Cell) bool {
	for _, dir := range []engine.Direction{engine.North, engine.South, engine.East, engine.West} {
		occ := engine.NewOccupancy()
		for _, rf := range problem.Robots {
			if err := occ.Place(rf.Robot, rf.Cell); err != nil {
				return false
			}
		}
		events, err := engine.ApplyMove(board, occ, problem.Goal.Robot, dir)
		if err != nil {
			continue
		}
		if final, ok := engine.FinalCell(events); ok && final == problem.Goal.Cell {
			return true
		}
	}
	return false
}
