// Package engine ties the crucible pieces together: it validates run
// parameters once, builds the transition table of a grid lazily, and answers
// shortest-path queries between cells.
//
//	g, _ := grid.Parse(input)
//	eng, err := engine.New(g, 4, 10, engine.WithMode(transition.ModeJump))
//	if err != nil { ... }            // *ParameterError for bad bounds
//	res, err := eng.SolveCorners()   // res.Reachable, res.Cost
//
// An Engine is safe for concurrent use: the table is built exactly once and
// then only read, and every Solve call owns its own search state.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/crucible/dijkstra"
	"github.com/katalvlaran/crucible/state"
	"github.com/katalvlaran/crucible/transition"
)

// Sentinel errors returned by the engine.
var (
	// ErrNilGrid indicates New was called without a grid.
	ErrNilGrid = errors.New("engine: grid is nil")

	// ErrNegativeRun indicates a negative MinRun or MaxRun.
	ErrNegativeRun = state.ErrNegativeRun

	// ErrMinExceedsMax indicates MinRun > MaxRun.
	ErrMinExceedsMax = state.ErrMinExceedsMax

	// ErrCellOutOfBounds indicates a start or target cell outside the grid.
	ErrCellOutOfBounds = errors.New("engine: cell outside the grid")

	// ErrUnknownMode indicates a move model other than step or jump.
	ErrUnknownMode = transition.ErrUnknownMode
)

// ParameterError reports an inconsistent run parameter at construction time.
type ParameterError struct {
	Field string // "min_run", "max_run" or "mode"
	Value int
	Err   error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("engine: invalid %s=%d: %v", e.Field, e.Value, e.Err)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *ParameterError) Unwrap() error { return e.Err }

// Options configures an Engine.
type Options struct {
	Mode          transition.Mode   // move model for the transition table
	Workers       int               // goroutines used to build the table
	Logger        *slog.Logger      // debug logging of builds and searches
	SearchOptions []dijkstra.Option // applied to every Solve before per-call options
}

// Option represents a functional option for configuring New.
type Option func(*Options)

// WithMode selects the move model (transition.ModeStep by default).
func WithMode(m transition.Mode) Option {
	return func(o *Options) {
		o.Mode = m
	}
}

// WithWorkers shards the table build over n goroutines; values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			n = 1
		}
		o.Workers = n
	}
}

// WithLogger routes engine logs to l. A nil logger keeps the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithSearchOptions appends dijkstra options applied to every search.
func WithSearchOptions(opts ...dijkstra.Option) Option {
	return func(o *Options) {
		o.SearchOptions = append(o.SearchOptions, opts...)
	}
}

// DefaultOptions returns step mode, a sequential build and a discarding logger.
func DefaultOptions() Options {
	return Options{
		Mode:    transition.ModeStep,
		Workers: 1,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
