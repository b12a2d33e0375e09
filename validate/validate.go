// Command validate provides a small CLI that validates problem files (*.rr).
// It checks:
//   - Fact syntax, with line numbers on parse errors
//   - Topology reconstruction: unique origin, square matrix, declared size,
//     symmetric interior barriers
//   - Initial occupancy: robots on known cells, no two robots sharing a cell
//   - Goal: goal cell exists on the board, goal robot is declared
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/ricochet-robots-game/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateProblem loads and validates a single problem file. It performs the
// syntax check, reconstructs the topology and then verifies the occupancy
// and goal facts against the reconstructed board.
func validateProblem(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	problem, err := engine.LoadProblem(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Parse failure: %v", err))
		return result
	}

	board, err := engine.Reconstruct(problem)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Topology failure: %v", err))
		return result
	}

	// Initial occupancy: every robot on a known cell, no cell shared
	occ := engine.NewOccupancy()
	for _, rf := range problem.Robots {
		if _, ok := board.Position(rf.Cell); !ok {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Robot %s placed on unknown cell %s", rf.Robot, rf.Cell))
			continue
		}
		if err := occ.Place(rf.Robot, rf.Cell); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Occupancy collision: %v", err))
		}
	}

	// Goal facts
	if _, ok := board.Position(problem.Goal.Cell); !ok {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Goal cell %s not on the board", problem.Goal.Cell))
	}
	if _, ok := occ.CellOf(problem.Goal.Robot); !ok {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Goal robot %s not declared in the initial occupancy", problem.Goal.Robot))
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", problem.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Size: %dx%d", board.Size, board.Size))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Robots: %d", len(problem.Robots)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Interior walls: %d", interiorWalls(problem, board)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Goal: %s on %s", problem.Goal.Robot, problem.Goal.Cell))
	}

	return result
}

// interiorWalls counts walls between two interior cells once, from the
// south/east member of each symmetric pair.
func interiorWalls(p *engine.Problem, board *engine.Board) int {
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

// main validates the problem files named on the command line, or every *.rr
// file in ../problems when invoked without arguments. The exit code is the
// number of invalid files.
func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob(filepath.Join("../problems", "*.rr"))
		if err != nil {
			fmt.Printf("Error finding problem files: %v\n", err)
			os.Exit(1)
		}
	}

	invalid := 0
	for _, file := range files {
		result := validateProblem(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			invalid++
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if invalid == 0 {
		fmt.Println("✅ All problems are valid!")
	} else {
		fmt.Printf("❌ %d problem file(s) have errors\n", invalid)
		os.Exit(invalid)
	}
}
