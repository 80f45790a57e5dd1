package state

import "github.com/katalvlaran/crucible/grid"

// EligibleDirections returns the directions s may legally move in next under c,
// in encoding order. Grid bounds are not checked.
//
//   - Start node (Run == 0): all four directions.
//   - Run < MinRun: only s.Dir.
//   - Otherwise: all but s.Dir.Opposite(), and not s.Dir once Run ≥ MaxRun.
func EligibleDirections(s State, c Constraints) []Direction {
	return AppendEligible(make([]Direction, 0, NumDirections), s, c)
}

// AppendEligible is EligibleDirections appending into dst, so hot loops can
// reuse one buffer.
func AppendEligible(dst []Direction, s State, c Constraints) []Direction {
	if s.Run == 0 {
		return append(dst, Directions[:]...)
	}
	if s.Run < c.MinRun {
		return append(dst, s.Dir)
	}
	back := s.Dir.Opposite()
	for _, d := range Directions {
		if d == back {
			continue
		}
		if d == s.Dir && s.Run >= c.MaxRun {
			continue
		}
		dst = append(dst, d)
	}

	return dst
}

// Goal is the arrival policy: a popped state counts as arrived when it sits
// on Target and has completed at least MinRun straight moves.
type Goal struct {
	Target grid.Cell
	MinRun int
}

// NewGoal returns the goal policy for target under c.
func NewGoal(target grid.Cell, c Constraints) Goal {
	return Goal{Target: target, MinRun: c.MinRun}
}

// Reached reports whether s satisfies the policy.
// With MinRun == 0 this is plain position equality.
func (g Goal) Reached(s State) bool {
	return IsGoal(s, g.Target, g.MinRun)
}

// IsGoal reports whether s is on target with s.Run ≥ minRun.
func IsGoal(s State, target grid.Cell, minRun int) bool {
	return s.Row == target.Row && s.Col == target.Col && s.Run >= minRun
}

// Space is the dense index layout for every state of an R×C grid with runs
// in [0, MaxRun].
type Space struct {
	Rows, Cols int
	MaxRun     int
}

// NewSpace returns the state space for g under c. MaxRun is clamped to
// max(Rows, Cols)-1: no straight run on g can be longer, so a larger bound
// only adds slots no move can fill.
func NewSpace(g *grid.Grid, c Constraints) Space {
	return Space{
		Rows:   g.Rows(),
		Cols:   g.Cols(),
		MaxRun: min(c.MaxRun, max(g.Rows(), g.Cols())-1),
	}
}

// runs is the number of run slots per (cell, direction).
func (sp Space) runs() int { return sp.MaxRun + 1 }

// Size returns the number of indexable states: R·C·4·(MaxRun+1).
func (sp Space) Size() int {
	return sp.Rows * sp.Cols * NumDirections * sp.runs()
}

// Contains reports whether s is representable in the space.
func (sp Space) Contains(s State) bool {
	return s.Row >= 0 && s.Row < sp.Rows &&
		s.Col >= 0 && s.Col < sp.Cols &&
		s.Dir.Valid() &&
		s.Run >= 0 && s.Run <= sp.MaxRun
}

// Index returns the flat index of s. The caller guarantees Contains(s).
// Complexity: O(1).
func (sp Space) Index(s State) int {
	return ((s.Row*sp.Cols+s.Col)*NumDirections+int(s.Dir))*sp.runs() + s.Run
}

// State is the inverse of Index.
// Complexity: O(1).
func (sp Space) State(idx int) State {
	runs := sp.runs()
	run := idx % runs
	idx /= runs
	dir := Direction(idx % NumDirections)
	idx /= NumDirections

	return State{Row: idx / sp.Cols, Col: idx % sp.Cols, Dir: dir, Run: run}
}
