package grid

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// New constructs a Grid from a non-empty, rectangular table of non-negative costs.
// It deep-copies the input so later mutation of values cannot leak into the grid.
// Returns a ValidationError wrapping ErrEmptyGrid, ErrNonRectangular or ErrNegativeCost.
// Complexity: O(R×C) time and memory.
func New(values [][]int) (*Grid, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ValidationError{Row: -1, Col: -1, Err: ErrEmptyGrid}
	}
	h, w := len(values), len(values[0])
	costs := make([]int64, 0, h*w)
	for r, row := range values {
		if len(row) != w {
			return nil, ValidationError{Row: r, Col: -1, Err: ErrNonRectangular}
		}
		for c, v := range row {
			if v < 0 {
				return nil, ValidationError{Row: r, Col: c, Err: ErrNegativeCost}
			}
			costs = append(costs, int64(v))
		}
	}

	return &Grid{rows: h, cols: w, costs: costs}, nil
}

// Parse reads a grid written as one decimal digit per cell and one row per line.
// Carriage returns and trailing blank lines are ignored; a blank line in the
// middle of the input is a ragged row.
func Parse(text string) (*Grid, error) {
	return Read(strings.NewReader(text))
}

// Read is Parse over an io.Reader.
func Read(r io.Reader) (*Grid, error) {
	var (
		values  [][]int
		pending int // blank lines seen since the last non-blank row
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			pending++
			continue
		}
		for ; pending > 0 && len(values) > 0; pending-- {
			values = append(values, []int{})
		}
		pending = 0
		row := make([]int, 0, len(line))
		for c, ch := range line {
			if ch < '0' || ch > '9' {
				return nil, ValidationError{Row: len(values), Col: c, Err: ErrNonDigit}
			}
			row = append(row, int(ch-'0'))
		}
		values = append(values, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("grid: read input: %w", err)
	}

	return New(values)
}

// MustParse is Parse that panics on error. Intended for tests and fixed fixtures.
func MustParse(text string) *Grid {
	g, err := Parse(text)
	if err != nil {
		panic(err)
	}

	return g
}

// Rows returns the number of rows R.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns C.
func (g *Grid) Cols() int { return g.cols }

// Size returns R×C.
func (g *Grid) Size() int { return g.rows * g.cols }

// InBounds reports whether (row,col) lies within the grid.
// Complexity: O(1).
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Contains reports whether c lies within the grid.
func (g *Grid) Contains(c Cell) bool { return g.InBounds(c.Row, c.Col) }

// Cost returns the traversal cost of (row,col). The caller guarantees bounds.
func (g *Grid) Cost(row, col int) int64 {
	return g.costs[g.Index(row, col)]
}

// Index maps (row,col) to a row-major index: row*Cols + col.
// Complexity: O(1).
func (g *Grid) Index(row, col int) int {
	return row*g.cols + col
}

// Coordinate converts a row-major index back to (row,col).
// Complexity: O(1).
func (g *Grid) Coordinate(idx int) (row, col int) {
	return idx / g.cols, idx % g.cols
}

// TopLeft returns the cell (0,0).
func (g *Grid) TopLeft() Cell { return Cell{} }

// BottomRight returns the cell (R-1,C-1).
func (g *Grid) BottomRight() Cell { return Cell{Row: g.rows - 1, Col: g.cols - 1} }

// Values returns a fresh copy of the costs as a two-dimensional table.
func (g *Grid) Values() [][]int {
	out := make([][]int, g.rows)
	for r := range out {
		out[r] = make([]int, g.cols)
		for c := range out[r] {
			out[r][c] = int(g.costs[g.Index(r, c)])
		}
	}

	return out
}

// Digest returns a stable hex SHA-256 over the dimensions and costs.
// Two grids with equal shape and costs always share a digest.
func (g *Grid) Digest() string {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(g.rows))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(g.cols))
	h.Write(buf[:])
	for _, v := range g.costs {
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	return hex.EncodeToString(h.Sum(nil))
}

// String renders the grid back into its digit text form. Costs above 9 are
// written in full, so the output only round-trips through Parse for digit grids.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			fmt.Fprintf(&sb, "%d", g.Cost(r, c))
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
