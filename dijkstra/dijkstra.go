package dijkstra

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/crucible/state"
	"github.com/katalvlaran/crucible/transition"
)

// ShortestPath computes the minimum cost from start to any state accepted by
// goal, following the edges of t.
//
// Returns:
//
//   - Result with Reachable=true and the optimal Cost when a goal state is popped.
//   - Result with Reachable=false when the frontier empties (or MaxDistance
//     prunes every remaining state) without popping a goal state.
//   - err: a sentinel error if inputs are invalid or the MaxPops budget runs out.
//
// Preconditions and validation (in order):
//  1. t must be non-nil (ErrNilTable).
//  2. goal must be non-nil (ErrNilGoal).
//  3. start must lie in t.Space() (ErrStartOutOfSpace).
//
// Complexity:
//
//   - Time:  O((S + E) log S)
//   - Space: O(S + E)
func ShortestPath(t *transition.Table, start state.State, goal Goal, opts ...Option) (Result, error) {
	// 1) Build Options
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate inputs
	if t == nil {
		return Result{}, ErrNilTable
	}
	if goal == nil {
		return Result{}, ErrNilGoal
	}
	if !t.Space().Contains(start) {
		return Result{}, fmt.Errorf("%w: %v", ErrStartOutOfSpace, start)
	}

	// 3) Allocate per-search tables, owned by this call only.
	n := t.Len()
	r := &runner{
		table:   t,
		space:   t.Space(),
		goal:    goal,
		options: cfg,
		dist:    make([]int64, n),
		visited: make([]bool, n),
		pq:      make(nodePQ, 0, 64),
	}
	if cfg.ReturnPath {
		r.prev = make([]int, n)
	}

	// 4) Initialize and run.
	r.init(start)

	return r.process()
}

// runner holds the mutable state for a single search execution.
type runner struct {
	table   *transition.Table // read-only
	space   state.Space       // index layout of table
	goal    Goal              // arrival predicate
	options Options           // configuration
	dist    []int64           // state index → best known cost
	prev    []int             // state index → predecessor index (-1 = none); nil unless ReturnPath
	visited []bool            // state index → cost finalized
	pq      nodePQ            // lazy min-heap frontier
	pops    int               // finalized states
	pushes  int               // frontier insertions
}

// init sets every distance to Infinity, the start to zero and seeds the frontier.
func (r *runner) init(start state.State) {
	for i := range r.dist {
		r.dist[i] = Infinity
	}
	for i := range r.prev {
		r.prev[i] = -1
	}

	src := r.space.Index(start)
	r.dist[src] = 0

	heap.Init(&r.pq)
	r.push(src, 0)
}

// process is the main loop: pop the cheapest entry, drop it if stale, stop on
// a goal, otherwise relax its outgoing edges.
//
// Loop termination conditions:
//
//   - A goal state is popped (Reachable).
//   - The heap empties, or its minimum exceeds MaxDistance (not Reachable).
//   - MaxPops is exhausted (ErrBudgetExceeded).
func (r *runner) process() (Result, error) {
	for r.pq.Len() > 0 {
		// 1) Pop the smallest-cost entry.
		item := heap.Pop(&r.pq).(nodeItem)
		u, d := item.idx, item.dist

		// 2) Lazy deletion: a cheaper entry for u was already pushed, or u is final.
		if d > r.dist[u] || r.visited[u] {
			continue
		}

		// 3) Costs only grow from here on, so nothing left can fit under the cap.
		if d > r.options.MaxDistance {
			break
		}

		// 4) u is finalized.
		r.visited[u] = true
		r.pops++
		if r.options.MaxPops > 0 && r.pops > r.options.MaxPops {
			return r.result(false, -1), fmt.Errorf("%w: %d states finalized", ErrBudgetExceeded, r.options.MaxPops)
		}
		s := r.space.State(u)
		if r.options.OnPop != nil {
			r.options.OnPop(s, d)
		}

		// 5) First goal popped carries the global minimum.
		if r.goal(s) {
			return r.result(true, u), nil
		}

		// 6) Relax outgoing edges.
		r.relax(u, d)
	}

	return r.result(false, -1), nil
}

// relax examines every edge leaving u (finalized at cost d) and pushes each
// neighbor whose tentative cost strictly improves.
func (r *runner) relax(u int, d int64) {
	for _, e := range r.table.EdgesAt(u) {
		v := e.ToIndex
		if r.visited[v] {
			continue
		}

		// Overflow is an invariant violation, not a recoverable condition.
		if e.Cost > Infinity-d {
			panic(fmt.Sprintf("%s: %d + %d", ErrCostOverflow, d, e.Cost))
		}
		nd := d + e.Cost

		if nd > r.options.MaxDistance {
			continue
		}

		// Strict “<” so equal-cost rediscoveries do not flood the heap.
		if nd >= r.dist[v] {
			continue
		}

		r.dist[v] = nd
		if r.prev != nil {
			r.prev[v] = u
		}
		r.push(v, nd)
	}
}

func (r *runner) push(idx int, dist int64) {
	heap.Push(&r.pq, nodeItem{idx: idx, dist: dist})
	r.pushes++
}

// result assembles the Result for a finished search. goalIdx is the popped
// goal, or -1 when no goal was reached.
func (r *runner) result(reached bool, goalIdx int) Result {
	res := Result{Pops: r.pops, Pushes: r.pushes}
	if !reached {
		return res
	}

	res.Reachable = true
	res.Cost = r.dist[goalIdx]
	res.Goal = r.space.State(goalIdx)
	if r.prev != nil {
		res.Path = r.path(goalIdx)
	}

	return res
}

// path walks predecessors back from idx and returns start…idx.
func (r *runner) path(idx int) []state.State {
	var rev []state.State
	for cur := idx; cur >= 0; cur = r.prev[cur] {
		rev = append(rev, r.space.State(cur))
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}

	return rev
}

// nodeItem is a frontier entry: a state index and its tentative cost.
type nodeItem struct {
	idx  int   // dense state index
	dist int64 // tentative cost from the start
}

// nodePQ is a min-heap of nodeItem ordered by dist, then idx. The frontier
// may hold several entries for one state; all but the cheapest are stale.
type nodePQ []nodeItem

// Len returns the number of items in the heap.
func (pq nodePQ) Len() int { return len(pq) }

// Less orders by cost ascending, breaking ties by state index.
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].idx < pq[j].idx
}

// Swap swaps two elements in the heap.
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push adds x, which must be a nodeItem. Called by heap.Push.
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(nodeItem)) }

// Pop removes and returns the last element. Called by heap.Pop.
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
