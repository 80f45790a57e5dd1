package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/katalvlaran/crucible/dijkstra"
	"github.com/katalvlaran/crucible/grid"
	"github.com/katalvlaran/crucible/state"
	"github.com/katalvlaran/crucible/transition"
)

// Engine answers constrained shortest-path queries over one grid.
type Engine struct {
	grid        *grid.Grid
	constraints state.Constraints
	options     Options

	once     sync.Once
	table    *transition.Table
	buildErr error
}

// New validates the run window and returns an Engine for g.
//
// Errors:
//   - ErrNilGrid if g is nil.
//   - *ParameterError wrapping ErrNegativeRun, ErrMinExceedsMax or ErrUnknownMode.
//
// The transition table is not built until the first query (or Table call).
func New(g *grid.Grid, minRun, maxRun int, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	switch {
	case minRun < 0:
		return nil, &ParameterError{Field: "min_run", Value: minRun, Err: ErrNegativeRun}
	case maxRun < 0:
		return nil, &ParameterError{Field: "max_run", Value: maxRun, Err: ErrNegativeRun}
	case minRun > maxRun:
		return nil, &ParameterError{Field: "min_run", Value: minRun, Err: ErrMinExceedsMax}
	}

	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.Mode.Valid() {
		return nil, &ParameterError{Field: "mode", Value: int(cfg.Mode), Err: ErrUnknownMode}
	}

	return &Engine{
		grid:        g,
		constraints: state.Constraints{MinRun: minRun, MaxRun: maxRun},
		options:     cfg,
	}, nil
}

// Grid returns the grid the engine routes over.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// Constraints returns the validated run window.
func (e *Engine) Constraints() state.Constraints { return e.constraints }

// Table builds the transition table on first use and returns it afterwards.
func (e *Engine) Table() (*transition.Table, error) {
	e.once.Do(func() {
		began := time.Now()
		e.table, e.buildErr = transition.Build(e.grid, e.constraints,
			transition.WithMode(e.options.Mode),
			transition.WithWorkers(e.options.Workers),
		)
		if e.buildErr != nil {
			e.options.Logger.Error("transition table build failed", "error", e.buildErr)
			return
		}
		e.options.Logger.Debug("transition table built",
			"rows", e.grid.Rows(),
			"cols", e.grid.Cols(),
			"mode", e.options.Mode,
			"states", e.table.Len(),
			"edges", e.table.EdgeCount(),
			"elapsed", time.Since(began),
		)
	})

	return e.table, e.buildErr
}

// Solve returns the minimum cost from start to target. An unreachable target
// yields Reachable == false with a nil error.
//
// opts are applied after the engine-wide WithSearchOptions.
func (e *Engine) Solve(start, target grid.Cell, opts ...dijkstra.Option) (dijkstra.Result, error) {
	if !e.grid.Contains(start) {
		return dijkstra.Result{}, fmt.Errorf("%w: start %v", ErrCellOutOfBounds, start)
	}
	if !e.grid.Contains(target) {
		return dijkstra.Result{}, fmt.Errorf("%w: target %v", ErrCellOutOfBounds, target)
	}

	tbl, err := e.Table()
	if err != nil {
		return dijkstra.Result{}, err
	}

	goal := state.NewGoal(target, e.constraints)
	all := make([]dijkstra.Option, 0, len(e.options.SearchOptions)+len(opts))
	all = append(all, e.options.SearchOptions...)
	all = append(all, opts...)

	began := time.Now()
	res, err := dijkstra.ShortestPath(tbl, state.Start(start), goal.Reached, all...)
	if err != nil {
		e.options.Logger.Warn("search aborted", "start", start, "target", target, "pops", res.Pops, "error", err)
		return res, err
	}
	e.options.Logger.Debug("search finished",
		"start", start,
		"target", target,
		"reachable", res.Reachable,
		"cost", res.Cost,
		"pops", res.Pops,
		"elapsed", time.Since(began),
	)

	return res, nil
}

// SolveCorners routes from the top-left to the bottom-right cell.
func (e *Engine) SolveCorners(opts ...dijkstra.Option) (dijkstra.Result, error) {
	return e.Solve(e.grid.TopLeft(), e.grid.BottomRight(), opts...)
}
