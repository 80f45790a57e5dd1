// Package state defines the augmented search node used by the crucible
// engine and the rules that decide which moves a node may take next.
//
// A State is (Row, Col, Dir, Run): the cell, the direction of the move that
// arrived there, and how many consecutive moves were made in that direction.
// Run == 0 marks the synthetic start node, which has no prior direction and
// owes no minimum run.
//
// Rules (EligibleDirections):
//
//	– run == 0        → all four directions.
//	– run <  MinRun   → only Dir (a mandatory straight run is in progress).
//	– otherwise       → every direction except Dir.Opposite();
//	                    additionally not Dir once run ≥ MaxRun.
//
// Grid boundaries are not considered here; the transition builder drops
// moves that leave the grid.
//
// Goal policy (Goal.Reached): position equals the target and Run ≥ MinRun.
//
// Space maps a State to a dense index
//
//	((Row*Cols + Col)*4 + Dir)*(MaxRun+1) + Run
//
// so distance and visited tables can be flat slices.
package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/crucible/grid"
)

// Sentinel errors for constraint validation.
var (
	// ErrNegativeRun indicates MinRun or MaxRun below zero.
	ErrNegativeRun = errors.New("state: run bounds must be non-negative")
	// ErrMinExceedsMax indicates MinRun > MaxRun.
	ErrMinExceedsMax = errors.New("state: MinRun must not exceed MaxRun")
	// ErrUnknownDirection indicates a direction name that ParseDirection does not know.
	ErrUnknownDirection = errors.New("state: unknown direction")
)

// Direction is one of the four orthogonal moves.
// The numeric values are part of the dense index encoding.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// NumDirections is the size of the direction alphabet.
const NumDirections = 4

// Directions lists all directions in encoding order.
var Directions = [NumDirections]Direction{Up, Down, Left, Right}

var directionNames = [NumDirections]string{"up", "down", "left", "right"}

// deltas holds (dRow, dCol) per direction.
var deltas = [NumDirections][2]int{
	Up:    {-1, 0},
	Down:  {1, 0},
	Left:  {0, -1},
	Right: {0, 1},
}

// Opposite returns the 180° reversal of d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the row and column offset of one step in direction d.
func (d Direction) Delta() (dRow, dCol int) {
	return deltas[d][0], deltas[d][1]
}

// Valid reports whether d is one of the four encoded directions.
func (d Direction) Valid() bool { return d < NumDirections }

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}

	return directionNames[d]
}

// ParseDirection accepts "up", "down", "left", "right" (any case) and the
// single letters U, D, L, R.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// MarshalText encodes d by name, so JSON carries "right" rather than 3.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, uint8(d))
	}

	return []byte(directionNames[d]), nil
}

// UnmarshalText accepts anything ParseDirection does.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed

	return nil
}

// State is one node of the augmented search space.
type State struct {
	Row int       `json:"row"`
	Col int       `json:"col"`
	Dir Direction `json:"dir"`
	Run int       `json:"run"`
}

// Start returns the synthetic start node at cell c: reference direction
// Right and run 0.
func Start(c grid.Cell) State {
	return State{Row: c.Row, Col: c.Col, Dir: Right, Run: 0}
}

// Cell returns the grid position of s.
func (s State) Cell() grid.Cell { return grid.Cell{Row: s.Row, Col: s.Col} }

// IsStart reports whether s is a start sentinel (run 0).
func (s State) IsStart() bool { return s.Run == 0 }

func (s State) String() string {
	return fmt.Sprintf("(%d,%d %s×%d)", s.Row, s.Col, s.Dir, s.Run)
}

// Constraints bounds the straight-line run length.
//
// MinRun – moves that must be made in one direction before a turn (or a stop).
// MaxRun – moves after which a turn is forced.
type Constraints struct {
	MinRun int `json:"min_run" yaml:"min_run"`
	MaxRun int `json:"max_run" yaml:"max_run"`
}

// Validate returns ErrNegativeRun or ErrMinExceedsMax for inconsistent bounds.
func (c Constraints) Validate() error {
	if c.MinRun < 0 || c.MaxRun < 0 {
		return ErrNegativeRun
	}
	if c.MinRun > c.MaxRun {
		return ErrMinExceedsMax
	}

	return nil
}
