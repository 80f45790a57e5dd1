// Package beam traces light beams through a layout of mirrors and splitters
// and counts the tiles they energize.
//
// Tiles:
//
//	.  empty, the beam passes straight through
//	/  mirror: right→up, left→down, up→right, down→left
//	\  mirror: right→down, left→up, up→left, down→right
//	|  splitter: beams moving left or right fork into up and down
//	-  splitter: beams moving up or down fork into left and right
//
// A trace keeps an explicit work stack and a visited set keyed by the same
// dense (cell, direction) index as the crucible state space, so loops in the
// layout terminate and nothing is shared between traces.
package beam

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/crucible/grid"
	"github.com/katalvlaran/crucible/state"
)

// ErrUnknownTile indicates a layout character outside ". / \ | -".
var ErrUnknownTile = errors.New("beam: unknown tile")

// Tile is one layout character.
type Tile byte

const (
	Empty           Tile = '.'
	Slash           Tile = '/'
	Backslash       Tile = '\\'
	SplitVertical   Tile = '|'
	SplitHorizontal Tile = '-'
)

// Layout is an immutable rectangular tile map.
type Layout struct {
	rows, cols int
	tiles      []Tile
}

// Beam is a beam entering tile (Row, Col) while moving in Dir.
type Beam struct {
	Row int             `json:"row"`
	Col int             `json:"col"`
	Dir state.Direction `json:"dir"`
}

// Parse reads a layout, one row per line. Validation failures are reported
// as grid.ValidationError, wrapping grid.ErrEmptyGrid, grid.ErrNonRectangular
// or ErrUnknownTile.
func Parse(text string) (*Layout, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, grid.ValidationError{Row: -1, Col: -1, Err: grid.ErrEmptyGrid}
	}

	l := &Layout{rows: len(lines), cols: len(lines[0])}
	l.tiles = make([]Tile, 0, l.rows*l.cols)
	for r, line := range lines {
		if len(line) != l.cols {
			return nil, grid.ValidationError{Row: r, Col: -1, Err: grid.ErrNonRectangular}
		}
		for c := 0; c < len(line); c++ {
			t := Tile(line[c])
			switch t {
			case Empty, Slash, Backslash, SplitVertical, SplitHorizontal:
			default:
				return nil, grid.ValidationError{Row: r, Col: c, Err: ErrUnknownTile}
			}
			l.tiles = append(l.tiles, t)
		}
	}

	return l, nil
}

// Rows returns the number of rows.
func (l *Layout) Rows() int { return l.rows }

// Cols returns the number of columns.
func (l *Layout) Cols() int { return l.cols }

// Tile returns the tile at (row, col). The caller guarantees bounds.
func (l *Layout) Tile(row, col int) Tile { return l.tiles[row*l.cols+col] }

func (l *Layout) inBounds(row, col int) bool {
	return row >= 0 && row < l.rows && col >= 0 && col < l.cols
}

// Energized returns how many distinct tiles a beam starting as b crosses.
// A start outside the layout energizes nothing.
func Energized(l *Layout, b Beam) int {
	sp := state.Space{Rows: l.rows, Cols: l.cols, MaxRun: 0}
	visited := make([]bool, sp.Size())
	lit := make([]bool, l.rows*l.cols)
	count := 0

	stack := []Beam{b}
	var next []state.Direction
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !l.inBounds(cur.Row, cur.Col) {
			continue
		}
		idx := sp.Index(state.State{Row: cur.Row, Col: cur.Col, Dir: cur.Dir})
		if visited[idx] {
			continue
		}
		visited[idx] = true
		if cell := cur.Row*l.cols + cur.Col; !lit[cell] {
			lit[cell] = true
			count++
		}

		next = outgoing(next[:0], l.Tile(cur.Row, cur.Col), cur.Dir)
		for _, d := range next {
			dr, dc := d.Delta()
			stack = append(stack, Beam{Row: cur.Row + dr, Col: cur.Col + dc, Dir: d})
		}
	}

	return count
}

// outgoing appends the directions a beam leaves tile t in, given it entered
// moving in d.
func outgoing(dst []state.Direction, t Tile, d state.Direction) []state.Direction {
	switch t {
	case Slash:
		switch d {
		case state.Right:
			return append(dst, state.Up)
		case state.Left:
			return append(dst, state.Down)
		case state.Up:
			return append(dst, state.Right)
		default:
			return append(dst, state.Left)
		}
	case Backslash:
		switch d {
		case state.Right:
			return append(dst, state.Down)
		case state.Left:
			return append(dst, state.Up)
		case state.Up:
			return append(dst, state.Left)
		default:
			return append(dst, state.Right)
		}
	case SplitVertical:
		if d == state.Left || d == state.Right {
			return append(dst, state.Up, state.Down)
		}
	case SplitHorizontal:
		if d == state.Up || d == state.Down {
			return append(dst, state.Left, state.Right)
		}
	}

	return append(dst, d)
}

// Entries lists every beam that can enter the layout from outside: the top
// row heading down, the bottom row heading up, the left column heading right
// and the right column heading left.
func Entries(l *Layout) []Beam {
	out := make([]Beam, 0, 2*(l.rows+l.cols))
	for c := 0; c < l.cols; c++ {
		out = append(out, Beam{Row: 0, Col: c, Dir: state.Down})
	}
	for c := 0; c < l.cols; c++ {
		out = append(out, Beam{Row: l.rows - 1, Col: c, Dir: state.Up})
	}
	for r := 0; r < l.rows; r++ {
		out = append(out, Beam{Row: r, Col: 0, Dir: state.Right})
	}
	for r := 0; r < l.rows; r++ {
		out = append(out, Beam{Row: r, Col: l.cols - 1, Dir: state.Left})
	}

	return out
}

// MaxEnergized traces every entry in Entries on up to workers goroutines and
// returns the best count and the first entry achieving it. Each trace owns
// its visited set. Cancelling ctx stops scheduling new traces.
func MaxEnergized(ctx context.Context, l *Layout, workers int) (int, Beam, error) {
	if workers < 1 {
		workers = 1
	}
	entries := Entries(l)
	counts := make([]int, len(entries))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, b := range entries {
		i, b := i, b
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			counts[i] = Energized(l, b)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, Beam{}, err
	}

	best := 0
	for i := range counts {
		if counts[i] > counts[best] {
			best = i
		}
	}

	return counts[best], entries[best], nil
}
