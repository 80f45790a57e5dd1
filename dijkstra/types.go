package dijkstra

import (
	"errors"
	"math"

	"github.com/katalvlaran/crucible/state"
)

// Sentinel errors returned by ShortestPath.
var (
	// ErrNilTable indicates that a nil *transition.Table was passed to ShortestPath.
	ErrNilTable = errors.New("dijkstra: transition table is nil")

	// ErrNilGoal indicates that the goal predicate is nil.
	ErrNilGoal = errors.New("dijkstra: goal predicate is nil")

	// ErrStartOutOfSpace indicates that the start state has no slot in the table.
	ErrStartOutOfSpace = errors.New("dijkstra: start state outside the state space")

	// ErrBudgetExceeded indicates the MaxPops budget ran out.
	ErrBudgetExceeded = errors.New("dijkstra: expansion budget exceeded")

	// ErrBadMaxDistance indicates that MaxDistance was set to a negative value.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrBadMaxPops indicates that MaxPops was set to a negative value.
	ErrBadMaxPops = errors.New("dijkstra: MaxPops must be non-negative")

	// ErrCostOverflow is the panic message used when a path cost no longer fits in int64.
	ErrCostOverflow = errors.New("dijkstra: path cost overflows int64")
)

// Infinity is the distance of a state no path has reached yet.
const Infinity int64 = math.MaxInt64

// Goal decides whether a popped state counts as an arrival.
// state.Goal.Reached satisfies it.
type Goal func(state.State) bool

// Result is the outcome of one search.
//
// Cost      – minimum total cost; meaningful only when Reachable.
// Reachable – false when the frontier emptied before any goal state was popped.
// Goal      – the goal state that was popped.
// Path      – start…goal inclusive when WithReturnPath was set, nil otherwise.
// Pops      – number of states finalized (non-stale pops).
// Pushes    – number of frontier insertions, including the start.
type Result struct {
	Cost      int64         `json:"cost"`
	Reachable bool          `json:"reachable"`
	Goal      state.State   `json:"goal"`
	Path      []state.State `json:"path,omitempty"`
	Pops      int           `json:"pops"`
	Pushes    int           `json:"pushes"`
}

// Options configures the behavior of ShortestPath.
//
// ReturnPath  – if true, predecessors are tracked and Result.Path is filled.
// MaxDistance – states whose cost exceeds this are never expanded.
//
//	Must be ≥ 0. Default is Infinity (no cap).
//
// MaxPops     – upper bound on finalized states; 0 means unlimited.
// OnPop       – optional hook called with every finalized state and its cost.
type Options struct {
	ReturnPath  bool
	MaxDistance int64
	MaxPops     int
	OnPop       func(s state.State, cost int64)
}

// Option represents a functional option for configuring ShortestPath.
type Option func(*Options)

// WithReturnPath enables path reconstruction in the result.
func WithReturnPath() Option {
	return func(o *Options) {
		o.ReturnPath = true
	}
}

// WithMaxDistance sets a maximum cost threshold. States whose tentative cost
// would exceed max are not explored, so a goal beyond it is reported as
// unreachable. Negative values panic with ErrBadMaxDistance.
func WithMaxDistance(max int64) Option {
	return func(o *Options) {
		if max < 0 {
			panic(ErrBadMaxDistance.Error())
		}
		o.MaxDistance = max
	}
}

// WithMaxPops bounds the number of finalized states. Zero disables the bound;
// negative values panic with ErrBadMaxPops.
func WithMaxPops(n int) Option {
	return func(o *Options) {
		if n < 0 {
			panic(ErrBadMaxPops.Error())
		}
		o.MaxPops = n
	}
}

// WithOnPop installs a hook observing every finalized state in pop order.
// The hook runs on the search goroutine and must not block.
func WithOnPop(fn func(s state.State, cost int64)) Option {
	return func(o *Options) {
		o.OnPop = fn
	}
}

// DefaultOptions returns an Options struct initialized with defaults:
//   - ReturnPath:  false
//   - MaxDistance: Infinity
//   - MaxPops:     0 (unlimited)
//   - OnPop:       nil
func DefaultOptions() Options {
	return Options{
		ReturnPath:  false,
		MaxDistance: Infinity,
		MaxPops:     0,
		OnPop:       nil,
	}
}
