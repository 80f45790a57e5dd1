// Package transition precomputes, for every state of the augmented search
// space, the list of states reachable by one legal move and the cost of
// that move.
//
// Two move models are supported:
//
//	– ModeStep: every move advances one cell; cost = cost of the entered cell.
//	– ModeJump: continuing straight advances one cell, but a turn (or the
//	  first move from the start) advances max(MinRun,1) cells at once and
//	  costs the sum of every cell entered. Illegal intermediate stopping
//	  points are never represented, so the search never visits them.
//
// Any move that would leave the grid, or would push the run past MaxRun, is
// dropped. Both models produce the same shortest-path costs. The table's
// Space clamps MaxRun to the longest run the grid can hold (see
// state.NewSpace), so huge bounds cost nothing extra.
//
// A jump whose summed cost overflows int64 panics with ErrCostOverflow.
//
// Complexity:
//
//   - Time:  O(R·C·4·(MaxRun+1)·k) where k = jump length (1 in step mode).
//   - Space: O(R·C·4·(MaxRun+1)·3) edges in the worst case.
//
// Options:
//
//	– WithMode(m):    choose ModeStep (default) or ModeJump.
//	– WithWorkers(n): shard rows over n goroutines; output is identical to a
//	                  sequential build because each row writes only its own slots.
package transition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/crucible/state"
)

// Sentinel errors returned by Build.
var (
	// ErrNilGrid indicates a nil *grid.Grid was passed to Build.
	ErrNilGrid = errors.New("transition: grid is nil")

	// ErrBadConstraints wraps a state.Constraints validation failure.
	ErrBadConstraints = errors.New("transition: invalid run constraints")

	// ErrUnknownMode indicates a mode name that ParseMode does not know.
	ErrUnknownMode = errors.New("transition: unknown mode")

	// ErrCostOverflow is the panic message used when a jump's summed cost
	// no longer fits in int64.
	ErrCostOverflow = errors.New("transition: edge cost overflows int64")
)

// Mode selects how a move advances across the grid.
type Mode int

const (
	// ModeStep advances exactly one cell per move.
	ModeStep Mode = iota

	// ModeJump advances max(MinRun,1) cells on every turn.
	ModeJump
)

func (m Mode) String() string {
	switch m {
	case ModeStep:
		return "step"
	case ModeJump:
		return "jump"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is ModeStep or ModeJump.
func (m Mode) Valid() bool { return m == ModeStep || m == ModeJump }

// ParseMode accepts "step" or "jump" (any case).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "step":
		return ModeStep, nil
	case "jump":
		return ModeJump, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Edge is one legal move: the destination state, its dense index in the
// table's Space, and the non-negative cost of entering it.
type Edge struct {
	To      state.State
	ToIndex int
	Cost    int64
}

// Options configures Build.
type Options struct {
	Mode    Mode // move model
	Workers int  // number of goroutines sharing the rows; 1 = sequential
}

// Option represents a functional option for configuring Build.
type Option func(*Options)

// WithMode selects the move model.
func WithMode(m Mode) Option {
	return func(o *Options) {
		if !m.Valid() {
			panic(ErrUnknownMode.Error())
		}
		o.Mode = m
	}
}

// WithWorkers shards the build over n goroutines. n must be ≥ 1.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic("transition: Workers must be at least 1")
		}
		o.Workers = n
	}
}

// DefaultOptions returns ModeStep with a sequential build.
func DefaultOptions() Options {
	return Options{
		Mode:    ModeStep,
		Workers: 1,
	}
}
