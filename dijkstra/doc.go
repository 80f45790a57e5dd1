// Package dijkstra runs Dijkstra's shortest-path search over a precomputed
// transition table of the augmented (cell, direction, run) state space.
//
// Overview:
//
//   - ShortestPath returns the minimum total cost from a start state to the
//     first state accepted by a Goal predicate, or Reachable == false when the
//     frontier empties first. Unreachable is a result, not an error.
//   - Distances, the visited set and (optionally) predecessors live in flat
//     slices indexed by state.Space, so each search allocates O(|S|) once.
//   - The frontier is a container/heap min-heap with lazy deletion: improved
//     states are pushed again and stale entries are skipped when popped.
//
// Why the first goal popped is optimal:
//
//   - Edge costs are non-negative, so popped costs never decrease. The first
//     popped state satisfying the goal therefore carries the global minimum
//     over every goal state.
//
// Performance and complexity:
//
//   - Time:  O((S + E) log S), S = R·C·4·(MaxRun+1), E = table edges.
//   - Space: O(S + E) for the distance table and heap.
//
// Options:
//
//   - WithReturnPath():      fill Result.Path with the states from start to goal.
//   - WithMaxDistance(d):    never expand states whose cost exceeds d.
//   - WithMaxPops(n):        fail with ErrBudgetExceeded after n expansions.
//   - WithOnPop(fn):         observe every finalized (state, cost) pair in pop order.
//
// Error handling (sentinel errors):
//
//   - ErrNilTable:        the transition table is nil.
//   - ErrNilGoal:         the goal predicate is nil.
//   - ErrStartOutOfSpace: the start state is not representable in the table's Space.
//   - ErrBudgetExceeded:  the MaxPops budget ran out before the search finished.
//
// Cost accumulation uses int64; an overflow is an invariant violation and panics.
//
// Thread safety:
//
//   - A search is strictly sequential. The table is read-only, so any number of
//     ShortestPath calls may share it; each call owns its own distance table,
//     visited set and frontier.
//
// Tie-breaking:
//
//   - Entries with equal cost pop in ascending state index order, which makes
//     every run (including Result.Path) fully reproducible.
package dijkstra
