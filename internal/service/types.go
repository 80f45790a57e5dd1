package service

import (
	"errors"

	"github.com/katalvlaran/crucible/beam"
	"github.com/katalvlaran/crucible/grid"
)

// ErrInvalidRequest wraps every failure caused by the caller's input: a
// malformed grid or layout, bad run bounds, an unknown mode or direction, or
// a cell outside the grid.
var ErrInvalidRequest = errors.New("invalid request")

// Request is one shortest-path query. Nil or empty fields fall back to the
// solver's configured defaults; Start and Target default to the corners.
type Request struct {
	Grid       string     `json:"grid"`
	MinRun     *int       `json:"min_run,omitempty"`
	MaxRun     *int       `json:"max_run,omitempty"`
	Mode       string     `json:"mode,omitempty"`
	Start      *grid.Cell `json:"start,omitempty"`
	Target     *grid.Cell `json:"target,omitempty"`
	ReturnPath bool       `json:"return_path,omitempty"`
}

// Response is the answer to a Request.
type Response struct {
	Digest    string      `json:"digest"`
	Mode      string      `json:"mode"`
	MinRun    int         `json:"min_run"`
	MaxRun    int         `json:"max_run"`
	Start     grid.Cell   `json:"start"`
	Target    grid.Cell   `json:"target"`
	Reachable bool        `json:"reachable"`
	Cost      int64       `json:"cost"`
	Path      []grid.Cell `json:"path,omitempty"` // every entered cell, start first; jumps expanded
	Pops      int         `json:"pops"`
	Cached    bool        `json:"cached"`
}

// BeamRequest traces a layout. Without Entry the beam enters the top-left
// tile heading right.
type BeamRequest struct {
	Layout string     `json:"layout"`
	Entry  *beam.Beam `json:"entry,omitempty"`
	// Best also searches every edge entry for the maximum.
	Best bool `json:"best,omitempty"`
}

// BeamResponse is the answer to a BeamRequest.
type BeamResponse struct {
	Entry     beam.Beam  `json:"entry"`
	Energized int        `json:"energized"`
	Best      *BestEntry `json:"best,omitempty"`
}

// BestEntry is the edge entry energizing the most tiles.
type BestEntry struct {
	Entry     beam.Beam `json:"entry"`
	Energized int       `json:"energized"`
}
