// Package crucible finds minimum-cost routes across a grid of cell costs
// when every path must obey a straight-run window: at least MinRun moves in
// one direction before it may turn or stop, and never more than MaxRun.
//
// The work is split over small packages:
//
//	grid/        parsing and validation of the digit cost table
//	state/       (cell, direction, run) search nodes, eligibility rules, goal policy
//	transition/  the precomputed successor table (step and jump move models)
//	dijkstra/    priority-ordered search with lazy deletion over the table
//	engine/      validated parameters, lazily built table, Solve and SolveCorners
//	beam/        beam tracing through mirror and splitter layouts
//
// Quick example:
//
//	g, _ := grid.Parse("2413\n3215\n3255\n")
//	eng, _ := engine.New(g, 1, 3)
//	res, _ := eng.SolveCorners()
//	fmt.Println(res.Reachable, res.Cost)
//
// The crucible command (cmd/crucible) wraps the same engine as a CLI and an
// HTTP service with a Redis result cache and Prometheus metrics.
package crucible
