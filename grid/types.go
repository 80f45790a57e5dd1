package grid

import (
	"errors"
	"fmt"
)

// Sentinel errors for grid ingestion.
var (
	// ErrEmptyGrid indicates the input has no rows or no columns.
	ErrEmptyGrid = errors.New("grid: input must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("grid: all rows must have the same length")
	// ErrNegativeCost indicates a cell with a cost below zero.
	ErrNegativeCost = errors.New("grid: cell cost must be non-negative")
	// ErrNonDigit indicates a text cell that is not a decimal digit.
	ErrNonDigit = errors.New("grid: cell is not a decimal digit")
)

// ValidationError reports why a table was rejected and where.
// Row and Col are -1 when the failure is not tied to a single cell.
type ValidationError struct {
	Row, Col int
	Err      error
}

func (e ValidationError) Error() string {
	if e.Row < 0 {
		return e.Err.Error()
	}
	if e.Col < 0 {
		return fmt.Sprintf("%v (row %d)", e.Err, e.Row)
	}

	return fmt.Sprintf("%v (row %d, col %d)", e.Err, e.Row, e.Col)
}

// Unwrap exposes the sentinel for errors.Is.
func (e ValidationError) Unwrap() error { return e.Err }

// Cell is a (row, column) position inside a Grid.
type Cell struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// String renders the cell as "(row,col)".
func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Grid is an immutable R×C table of traversal costs.
// costs is stored row-major; Rows and Cols never change after construction.
type Grid struct {
	rows, cols int
	costs      []int64
}
