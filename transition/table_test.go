package transition_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/crucible/grid"
	"github.com/katalvlaran/crucible/state"
	"github.com/katalvlaran/crucible/transition"
)

const cityBlocks = `2413432311323
3215453535623
3255245654254
3446585845452
4546657867536
1438598798454
4457876987766
3637877979653
4654967986887
4564679986453
1224686865563
2546548887735
4322674655533
`

// ------------------------------------------------------------------------
// 1. Validation
// ------------------------------------------------------------------------

func TestBuild_NilGrid(t *testing.T) {
	_, err := transition.Build(nil, state.Constraints{MinRun: 1, MaxRun: 3})
	require.ErrorIs(t, err, transition.ErrNilGrid)
}

func TestBuild_BadConstraints(t *testing.T) {
	g := grid.MustParse("12\n34\n")
	_, err := transition.Build(g, state.Constraints{MinRun: 4, MaxRun: 2})
	require.ErrorIs(t, err, transition.ErrBadConstraints)
	require.ErrorIs(t, err, state.ErrMinExceedsMax)

	_, err = transition.Build(g, state.Constraints{MinRun: -1, MaxRun: 2})
	require.ErrorIs(t, err, state.ErrNegativeRun)
}

func TestWithWorkers_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { transition.WithWorkers(0)(&transition.Options{}) })
}

func TestParseMode(t *testing.T) {
	m, err := transition.ParseMode("JUMP")
	require.NoError(t, err)
	assert.Equal(t, transition.ModeJump, m)

	m, err = transition.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, transition.ModeStep, m)

	_, err = transition.ParseMode("teleport")
	assert.ErrorIs(t, err, transition.ErrUnknownMode)
}

// ------------------------------------------------------------------------
// 2. Invariants over every generated edge
// ------------------------------------------------------------------------

func TestBuild_Invariants(t *testing.T) {
	g := grid.MustParse(cityBlocks)
	windows := []state.Constraints{
		{MinRun: 0, MaxRun: 3},
		{MinRun: 1, MaxRun: 3},
		{MinRun: 4, MaxRun: 10},
	}
	for _, c := range windows {
		for _, mode := range []transition.Mode{transition.ModeStep, transition.ModeJump} {
			tbl, err := transition.Build(g, c, transition.WithMode(mode))
			require.NoError(t, err)
			require.Equal(t, tbl.Space().Size(), tbl.Len())

			tbl.ForEach(func(from state.State, edges []transition.Edge) {
				for _, e := range edges {
					to := e.To
					assert.GreaterOrEqual(t, e.Cost, int64(0), "non-negative cost")
					assert.True(t, g.InBounds(to.Row, to.Col), "edge %v→%v leaves the grid", from, to)
					assert.GreaterOrEqual(t, to.Run, 1, "moves always produce run ≥ 1")
					assert.LessOrEqual(t, to.Run, c.MaxRun, "run bound under %+v (%s)", c, mode)
					assert.Equal(t, tbl.Space().Index(to), e.ToIndex, "cached index of %v", to)
					if !from.IsStart() {
						assert.NotEqual(t, from.Dir.Opposite(), to.Dir, "reversal %v→%v", from, to)
					}
					assert.Equal(t, pathCost(g, from, to), e.Cost, "cost of %v→%v", from, to)
				}
			})
		}
	}
}

// pathCost sums the costs of the cells strictly after from up to and
// including to, walking in to.Dir.
func pathCost(g *grid.Grid, from, to state.State) int64 {
	dr, dc := to.Dir.Delta()
	var sum int64
	for r, c := from.Row, from.Col; r != to.Row || c != to.Col; {
		r, c = r+dr, c+dc
		sum += g.Cost(r, c)
	}
	return sum
}

// ------------------------------------------------------------------------
// 3. Specific transitions
// ------------------------------------------------------------------------

func TestBuild_StartCornerHasTwoExits(t *testing.T) {
	g := grid.MustParse(cityBlocks)
	tbl, err := transition.Build(g, state.Constraints{MinRun: 1, MaxRun: 3})
	require.NoError(t, err)

	edges := tbl.Edges(state.Start(g.TopLeft()))
	require.Len(t, edges, 2)
	assert.Equal(t, transition.Edge{
		To:      state.State{Row: 1, Col: 0, Dir: state.Down, Run: 1},
		ToIndex: tbl.Space().Index(state.State{Row: 1, Col: 0, Dir: state.Down, Run: 1}),
		Cost:    3,
	}, edges[0])
	assert.Equal(t, state.State{Row: 0, Col: 1, Dir: state.Right, Run: 1}, edges[1].To)
	assert.Equal(t, int64(4), edges[1].Cost)
}

func TestBuild_ContinuationIncrementsRun(t *testing.T) {
	g := grid.MustParse(cityBlocks)
	tbl, err := transition.Build(g, state.Constraints{MinRun: 1, MaxRun: 3})
	require.NoError(t, err)

	from := state.State{Row: 5, Col: 5, Dir: state.Right, Run: 2}
	var runs []int
	for _, e := range tbl.Edges(from) {
		if e.To.Dir == state.Right {
			runs = append(runs, e.To.Run)
		} else {
			assert.Equal(t, 1, e.To.Run, "a turn restarts the run")
		}
	}
	assert.Equal(t, []int{3}, runs)

	capped := state.State{Row: 5, Col: 5, Dir: state.Right, Run: 3}
	for _, e := range tbl.Edges(capped) {
		assert.NotEqual(t, state.Right, e.To.Dir, "run 3 must turn")
	}
}

func TestBuild_JumpCoversMinRun(t *testing.T) {
	g := grid.MustParse("123\n456\n789\n")
	tbl, err := transition.Build(g, state.Constraints{MinRun: 2, MaxRun: 3}, transition.WithMode(transition.ModeJump))
	require.NoError(t, err)
	assert.Equal(t, transition.ModeJump, tbl.Mode())

	edges := tbl.Edges(state.Start(g.TopLeft()))
	require.Len(t, edges, 2)
	assert.Equal(t, state.State{Row: 2, Col: 0, Dir: state.Down, Run: 2}, edges[0].To)
	assert.Equal(t, int64(4+7), edges[0].Cost)
	assert.Equal(t, state.State{Row: 0, Col: 2, Dir: state.Right, Run: 2}, edges[1].To)
	assert.Equal(t, int64(2+3), edges[1].Cost)

	// From the right edge a turn down still fits, a turn up does not.
	from := state.State{Row: 0, Col: 2, Dir: state.Right, Run: 2}
	edges = tbl.Edges(from)
	require.Len(t, edges, 1)
	assert.Equal(t, state.State{Row: 2, Col: 2, Dir: state.Down, Run: 2}, edges[0].To)
	assert.Equal(t, int64(6+9), edges[0].Cost)
}

func TestBuild_MaxRunZeroHasNoEdges(t *testing.T) {
	g := grid.MustParse("12\n34\n")
	tbl, err := transition.Build(g, state.Constraints{MinRun: 0, MaxRun: 0})
	require.NoError(t, err)
	assert.Zero(t, tbl.EdgeCount())
}

func TestBuild_JumpCostOverflowPanics(t *testing.T) {
	if math.MaxInt < math.MaxInt64 {
		t.Skip("needs 64-bit int to build the grid")
	}
	g, err := grid.New([][]int{{0, math.MaxInt, math.MaxInt}})
	require.NoError(t, err)
	c := state.Constraints{MinRun: 2, MaxRun: 2}

	assert.PanicsWithValue(t,
		transition.ErrCostOverflow.Error()+": 9223372036854775807 + 9223372036854775807",
		func() { _, _ = transition.Build(g, c, transition.WithMode(transition.ModeJump)) },
	)

	// Single-cell steps never sum, so step mode builds fine.
	tbl, err := transition.Build(g, c)
	require.NoError(t, err)
	tbl.ForEach(func(_ state.State, edges []transition.Edge) {
		for _, e := range edges {
			assert.GreaterOrEqual(t, e.Cost, int64(0))
		}
	})
}

func TestBuild_HugeMaxRunIsClamped(t *testing.T) {
	g := grid.MustParse(cityBlocks)
	huge, err := transition.Build(g, state.Constraints{MinRun: 1, MaxRun: math.MaxInt})
	require.NoError(t, err)
	exact, err := transition.Build(g, state.Constraints{MinRun: 1, MaxRun: 12})
	require.NoError(t, err)

	assert.Equal(t, 12, huge.Space().MaxRun)
	assert.Equal(t, math.MaxInt, huge.Constraints().MaxRun, "caller's window is kept for the rules")
	require.Equal(t, exact.Len(), huge.Len())
	assert.Equal(t, exact.EdgeCount(), huge.EdgeCount())
}

func TestBuild_OutsideSpace(t *testing.T) {
	g := grid.MustParse("12\n34\n")
	tbl, err := transition.Build(g, state.Constraints{MinRun: 0, MaxRun: 2})
	require.NoError(t, err)
	assert.Nil(t, tbl.Edges(state.State{Row: 5}))
	assert.Nil(t, tbl.Edges(state.State{Run: 3}))
}

// ------------------------------------------------------------------------
// 4. Parallel build
// ------------------------------------------------------------------------

func TestBuild_ParallelMatchesSequential(t *testing.T) {
	g := grid.MustParse(cityBlocks)
	c := state.Constraints{MinRun: 4, MaxRun: 10}
	for _, mode := range []transition.Mode{transition.ModeStep, transition.ModeJump} {
		seq, err := transition.Build(g, c, transition.WithMode(mode))
		require.NoError(t, err)
		par, err := transition.Build(g, c, transition.WithMode(mode), transition.WithWorkers(4))
		require.NoError(t, err)

		require.Equal(t, seq.Len(), par.Len())
		require.Equal(t, seq.EdgeCount(), par.EdgeCount())
		for idx := 0; idx < seq.Len(); idx++ {
			require.Equal(t, seq.EdgesAt(idx), par.EdgesAt(idx), "slot %v", seq.Space().State(idx))
		}
	}
}
