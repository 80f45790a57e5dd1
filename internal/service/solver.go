// Package service answers crucible and beam queries for the HTTP API and the
// CLI: it parses inputs, applies configured defaults, consults the result
// cache, runs the engine and records metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/katalvlaran/crucible/beam"
	"github.com/katalvlaran/crucible/dijkstra"
	"github.com/katalvlaran/crucible/engine"
	"github.com/katalvlaran/crucible/grid"
	"github.com/katalvlaran/crucible/internal/cache"
	"github.com/katalvlaran/crucible/internal/config"
	"github.com/katalvlaran/crucible/internal/logging"
	"github.com/katalvlaran/crucible/internal/metrics"
	"github.com/katalvlaran/crucible/state"
	"github.com/katalvlaran/crucible/transition"
)

// Solver is safe for concurrent use.
type Solver struct {
	defaults config.Engine
	cache    cache.Cache
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithCache stores results in c. The default is cache.Nop.
func WithCache(c cache.Cache) Option {
	return func(s *Solver) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithMetrics records into m instead of a private collector set.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Solver) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Solver using defaults for fields a request leaves unset.
func New(defaults config.Engine, opts ...Option) *Solver {
	s := &Solver{
		defaults: defaults,
		cache:    cache.Nop{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s
}

// Metrics returns the collectors the solver records into.
func (s *Solver) Metrics() *metrics.Metrics { return s.metrics }

func invalid(err error) error { return fmt.Errorf("%w: %w", ErrInvalidRequest, err) }

// Solve answers a shortest-path query. Results without a path are cached by
// grid digest, run bounds, mode and endpoints; cache failures are logged and
// otherwise ignored.
func (s *Solver) Solve(ctx context.Context, req Request) (resp Response, err error) {
	began := time.Now()
	defer func() {
		outcome := metrics.OutcomeUnreachable
		switch {
		case err != nil:
			outcome = metrics.OutcomeError
		case resp.Reachable:
			outcome = metrics.OutcomeReachable
		}
		if !resp.Cached {
			s.metrics.ObserveSolve(outcome, time.Since(began), resp.Pops)
		}
	}()

	g, err := grid.Parse(req.Grid)
	if err != nil {
		return Response{}, invalid(err)
	}
	mode, err := transition.ParseMode(firstNonEmpty(req.Mode, s.defaults.Mode))
	if err != nil {
		return Response{}, invalid(err)
	}
	minRun, maxRun := s.defaults.MinRun, s.defaults.MaxRun
	if req.MinRun != nil {
		minRun = *req.MinRun
	}
	if req.MaxRun != nil {
		maxRun = *req.MaxRun
	}
	start, target := g.TopLeft(), g.BottomRight()
	if req.Start != nil {
		start = *req.Start
	}
	if req.Target != nil {
		target = *req.Target
	}

	resp = Response{
		Digest: g.Digest(),
		Mode:   mode.String(),
		MinRun: minRun,
		MaxRun: maxRun,
		Start:  start,
		Target: target,
	}
	key := cache.Key(resp.Digest,
		strconv.Itoa(minRun), strconv.Itoa(maxRun), resp.Mode,
		strconv.Itoa(start.Row), strconv.Itoa(start.Col),
		strconv.Itoa(target.Row), strconv.Itoa(target.Col),
	)
	if !req.ReturnPath {
		var cached Response
		hit, cerr := s.cache.Get(ctx, key, &cached)
		if cerr != nil {
			s.logger.Warn("result cache read failed", "key", key, "error", cerr)
		}
		s.metrics.ObserveCache(hit)
		if hit {
			cached.Cached = true
			return cached, nil
		}
	}

	eng, err := engine.New(g, minRun, maxRun,
		engine.WithMode(mode),
		engine.WithWorkers(s.defaults.Workers),
		engine.WithLogger(s.logger),
	)
	if err != nil {
		return Response{}, invalid(err)
	}
	var searchOpts []dijkstra.Option
	if s.defaults.MaxPops > 0 {
		searchOpts = append(searchOpts, dijkstra.WithMaxPops(s.defaults.MaxPops))
	}
	if req.ReturnPath {
		searchOpts = append(searchOpts, dijkstra.WithReturnPath())
	}

	res, err := eng.Solve(start, target, searchOpts...)
	if err != nil {
		if errors.Is(err, engine.ErrCellOutOfBounds) {
			return Response{}, invalid(err)
		}
		return Response{Pops: res.Pops}, err
	}

	resp.Reachable = res.Reachable
	resp.Cost = res.Cost
	resp.Pops = res.Pops
	if res.Reachable {
		resp.Path = cellPath(res.Path)
	}
	s.logger.Info("solved",
		"digest", resp.Digest,
		"mode", resp.Mode,
		"min_run", minRun,
		"max_run", maxRun,
		"reachable", resp.Reachable,
		"cost", resp.Cost,
		"pops", resp.Pops,
		"elapsed", time.Since(began),
	)

	if !req.ReturnPath {
		if cerr := s.cache.Set(ctx, key, resp); cerr != nil {
			s.logger.Warn("result cache write failed", "key", key, "error", cerr)
		}
	}

	return resp, nil
}

// Beam traces a layout from one entry and, when requested, from every edge entry.
func (s *Solver) Beam(ctx context.Context, req BeamRequest) (BeamResponse, error) {
	l, err := beam.Parse(req.Layout)
	if err != nil {
		return BeamResponse{}, invalid(err)
	}
	entry := beam.Beam{Dir: state.Right}
	if req.Entry != nil {
		entry = *req.Entry
	}
	if entry.Row < 0 || entry.Row >= l.Rows() || entry.Col < 0 || entry.Col >= l.Cols() || !entry.Dir.Valid() {
		return BeamResponse{}, invalid(fmt.Errorf("beam entry (%d,%d %s) outside the layout", entry.Row, entry.Col, entry.Dir))
	}

	resp := BeamResponse{Entry: entry, Energized: beam.Energized(l, entry)}
	if req.Best {
		n, best, err := beam.MaxEnergized(ctx, l, s.defaults.Workers)
		if err != nil {
			return BeamResponse{}, err
		}
		resp.Best = &BestEntry{Entry: best, Energized: n}
	}
	s.metrics.ObserveBeam()
	s.logger.Info("beam traced", "rows", l.Rows(), "cols", l.Cols(), "energized", resp.Energized, "best", req.Best)

	return resp, nil
}

// cellPath lists every cell a route enters. A jump-mode edge spans several
// cells in a straight line along the destination's direction; those are
// filled in so the route is contiguous in both move models.
func cellPath(states []state.State) []grid.Cell {
	if len(states) == 0 {
		return nil
	}
	cells := make([]grid.Cell, 1, len(states))
	cells[0] = states[0].Cell()
	for _, st := range states[1:] {
		dr, dc := st.Dir.Delta()
		at := cells[len(cells)-1]
		for at != st.Cell() {
			at = grid.Cell{Row: at.Row + dr, Col: at.Col + dc}
			cells = append(cells, at)
		}
	}
	return cells
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
