package beam_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/crucible/beam"
	"github.com/katalvlaran/crucible/grid"
	"github.com/katalvlaran/crucible/state"
)

const contraption = `.|...\....
|.-.\.....
.....|-...
........|.
..........
.........\
..../.\\..
.-.-/..|..
.|....-|.\
..//.|....
`

func TestParse(t *testing.T) {
	l, err := beam.Parse(contraption)
	require.NoError(t, err)
	assert.Equal(t, 10, l.Rows())
	assert.Equal(t, 10, l.Cols())
	assert.Equal(t, beam.SplitVertical, l.Tile(0, 1))
	assert.Equal(t, beam.Backslash, l.Tile(0, 5))

	_, err = beam.Parse("..\n.x\n")
	assert.ErrorIs(t, err, beam.ErrUnknownTile)
	_, err = beam.Parse("..\n.\n")
	assert.ErrorIs(t, err, grid.ErrNonRectangular)
	_, err = beam.Parse("\n")
	assert.ErrorIs(t, err, grid.ErrEmptyGrid)
}

func TestEnergized_TopLeft(t *testing.T) {
	l, err := beam.Parse(contraption)
	require.NoError(t, err)
	assert.Equal(t, 46, beam.Energized(l, beam.Beam{Row: 0, Col: 0, Dir: state.Right}))
}

func TestEnergized_Basics(t *testing.T) {
	l, err := beam.Parse("...\n...\n")
	require.NoError(t, err)
	assert.Equal(t, 3, beam.Energized(l, beam.Beam{Dir: state.Right}), "straight through an empty row")
	assert.Equal(t, 0, beam.Energized(l, beam.Beam{Row: 5, Dir: state.Right}), "start outside the layout")

	// A vertical splitter hit sideways lights its whole column.
	l, err = beam.Parse(".|.\n...\n...\n")
	require.NoError(t, err)
	assert.Equal(t, 4, beam.Energized(l, beam.Beam{Dir: state.Right}))

	// Mirrors facing each other trap the beam in a loop; the trace still ends.
	l, err = beam.Parse("/\\\n\\/\n")
	require.NoError(t, err)
	assert.Equal(t, 4, beam.Energized(l, beam.Beam{Row: 0, Col: 0, Dir: state.Left}))
}

func TestEntries(t *testing.T) {
	l, err := beam.Parse("...\n...\n")
	require.NoError(t, err)
	entries := beam.Entries(l)
	assert.Len(t, entries, 2*(2+3))
	assert.Equal(t, beam.Beam{Row: 0, Col: 0, Dir: state.Down}, entries[0])
	assert.Equal(t, beam.Beam{Row: 1, Col: 2, Dir: state.Left}, entries[len(entries)-1])
}

func TestMaxEnergized(t *testing.T) {
	l, err := beam.Parse(contraption)
	require.NoError(t, err)

	best, from, err := beam.MaxEnergized(context.Background(), l, 4)
	require.NoError(t, err)
	assert.Equal(t, 51, best)
	assert.Equal(t, best, beam.Energized(l, from))

	seq, _, err := beam.MaxEnergized(context.Background(), l, 1)
	require.NoError(t, err)
	assert.Equal(t, best, seq)
}

func TestMaxEnergized_Cancelled(t *testing.T) {
	l, err := beam.Parse(contraption)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = beam.MaxEnergized(ctx, l, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
