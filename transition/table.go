package transition

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/crucible/grid"
	"github.com/katalvlaran/crucible/state"
)

// Table is the immutable outgoing-edge list of every state in a Space.
// It is safe for concurrent readers.
type Table struct {
	space       state.Space
	constraints state.Constraints
	mode        Mode
	edges       [][]Edge // indexed by space.Index
	edgeCount   int
}

// Build computes the transition table of g under c.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGrid).
//  2. c must validate (ErrBadConstraints wrapping the state error).
//
// Every (row, col, dir, run) with 0 ≤ run ≤ Space().MaxRun receives a slot, even
// states no search can reach; unreachable slots simply stay unused.
func Build(g *grid.Grid, c state.Constraints, opts ...Option) (*Table, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	if g == nil {
		return nil, ErrNilGrid
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConstraints, err)
	}

	sp := state.NewSpace(g, c)
	t := &Table{
		space:       sp,
		constraints: c,
		mode:        cfg.Mode,
		edges:       make([][]Edge, sp.Size()),
	}
	b := builder{g: g, c: c, sp: sp, mode: cfg.Mode, out: t.edges}

	if cfg.Workers <= 1 || g.Rows() == 1 {
		for r := 0; r < g.Rows(); r++ {
			b.row(r)
		}
	} else {
		var eg errgroup.Group
		eg.SetLimit(cfg.Workers)
		for r := 0; r < g.Rows(); r++ {
			r := r
			eg.Go(func() error {
				b.row(r)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	for _, es := range t.edges {
		t.edgeCount += len(es)
	}

	return t, nil
}

// builder holds the read-only inputs shared by every row worker.
// out is written at disjoint indices, one row per call.
type builder struct {
	g    *grid.Grid
	c    state.Constraints
	sp   state.Space
	mode Mode
	out  [][]Edge
}

// row fills the slots of every state whose cell lies in row r.
func (b builder) row(r int) {
	dirs := make([]state.Direction, 0, state.NumDirections)
	for col := 0; col < b.g.Cols(); col++ {
		for _, d := range state.Directions {
			for run := 0; run <= b.sp.MaxRun; run++ {
				s := state.State{Row: r, Col: col, Dir: d, Run: run}
				dirs = state.AppendEligible(dirs[:0], s, b.c)
				b.out[b.sp.Index(s)] = b.outgoing(s, dirs)
			}
		}
	}
}

// outgoing emits one edge per eligible direction that stays on the grid and
// within MaxRun.
func (b builder) outgoing(s state.State, dirs []state.Direction) []Edge {
	var edges []Edge
	for _, d := range dirs {
		e, ok := b.move(s, d)
		if !ok {
			continue
		}
		edges = append(edges, e)
	}

	return edges
}

// move computes the single edge leaving s in direction d.
// A continuation is a move in s.Dir from a non-start state; everything else
// is a turn, which in ModeJump covers max(MinRun,1) cells at once.
func (b builder) move(s state.State, d state.Direction) (Edge, bool) {
	continuing := s.Run > 0 && d == s.Dir

	length := 1
	if !continuing && b.mode == ModeJump && b.c.MinRun > 1 {
		length = b.c.MinRun
	}
	run := length
	if continuing {
		run = s.Run + 1
	}
	// Past sp.MaxRun the move would leave the grid anyway.
	if run > b.c.MaxRun || run > b.sp.MaxRun {
		return Edge{}, false
	}

	dr, dc := d.Delta()
	r, col := s.Row, s.Col
	var cost int64
	for i := 0; i < length; i++ {
		r, col = r+dr, col+dc
		if !b.g.InBounds(r, col) {
			return Edge{}, false
		}
		c := b.g.Cost(r, col)
		if c > math.MaxInt64-cost {
			panic(fmt.Sprintf("%s: %d + %d", ErrCostOverflow, cost, c))
		}
		cost += c
	}

	to := state.State{Row: r, Col: col, Dir: d, Run: run}

	return Edge{To: to, ToIndex: b.sp.Index(to), Cost: cost}, true
}

// Space returns the index layout the table was built over.
func (t *Table) Space() state.Space { return t.space }

// Constraints returns the run window the table enforces.
func (t *Table) Constraints() state.Constraints { return t.constraints }

// Mode returns the move model the table was built with.
func (t *Table) Mode() Mode { return t.mode }

// Len returns the number of state slots (Space().Size()).
func (t *Table) Len() int { return len(t.edges) }

// EdgeCount returns the total number of edges across all slots.
func (t *Table) EdgeCount() int { return t.edgeCount }

// Edges returns the outgoing edges of s, or nil if s is outside the space.
// The returned slice is shared and must not be modified.
func (t *Table) Edges(s state.State) []Edge {
	if !t.space.Contains(s) {
		return nil
	}

	return t.edges[t.space.Index(s)]
}

// EdgesAt returns the outgoing edges of the state with dense index idx.
// The caller guarantees 0 ≤ idx < Len().
func (t *Table) EdgesAt(idx int) []Edge { return t.edges[idx] }

// ForEach calls fn for every state slot in index order.
func (t *Table) ForEach(fn func(from state.State, edges []Edge)) {
	for idx, es := range t.edges {
		fn(t.space.State(idx), es)
	}
}
