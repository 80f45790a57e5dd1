package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/crucible/grid"
	"github.com/katalvlaran/crucible/internal/service"
)

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve [grid-file]",
		Short: "Print the minimum heat loss across a grid",
		Long: `Reads a grid of digits (one row per line) from the file or stdin and prints the
minimum total cost from the start cell to the target cell, or "unreachable".`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSolve,
	}
	cmd.Flags().Int("min-run", 0, "minimum straight run before turning or stopping (default from config)")
	cmd.Flags().Int("max-run", 0, "maximum straight run (default from config)")
	cmd.Flags().String("mode", "", "move model: step or jump (default from config)")
	cmd.Flags().String("start", "", "start cell as row,col (default top-left)")
	cmd.Flags().String("target", "", "target cell as row,col (default bottom-right)")
	cmd.Flags().Bool("path", false, "also print the cells of an optimal path")
	cmd.Flags().Bool("json", false, "print the full response as JSON")
	return cmd
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	solver, closeSolver := newSolver(cfg, logger)
	defer closeSolver()

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	req := service.Request{Grid: input}
	req.Mode, _ = cmd.Flags().GetString("mode")
	req.ReturnPath, _ = cmd.Flags().GetBool("path")
	if cmd.Flags().Changed("min-run") {
		v, _ := cmd.Flags().GetInt("min-run")
		req.MinRun = &v
	}
	if cmd.Flags().Changed("max-run") {
		v, _ := cmd.Flags().GetInt("max-run")
		req.MaxRun = &v
	}
	if req.Start, err = cellFlag(cmd, "start"); err != nil {
		return err
	}
	if req.Target, err = cellFlag(cmd, "target"); err != nil {
		return err
	}

	resp, err := solver.Solve(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	if !resp.Reachable {
		fmt.Fprintln(out, "unreachable")
		return nil
	}
	fmt.Fprintln(out, resp.Cost)
	if req.ReturnPath {
		cells := make([]string, len(resp.Path))
		for i, c := range resp.Path {
			cells[i] = c.String()
		}
		fmt.Fprintln(out, strings.Join(cells, " "))
	}
	return nil
}

// cellFlag parses a "row,col" flag; an unset flag yields nil.
func cellFlag(cmd *cobra.Command, name string) (*grid.Cell, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	r, c, ok := strings.Cut(raw, ",")
	if !ok {
		return nil, fmt.Errorf("--%s must be row,col, got %q", name, raw)
	}
	row, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return nil, fmt.Errorf("--%s row: %w", name, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return nil, fmt.Errorf("--%s col: %w", name, err)
	}
	return &grid.Cell{Row: row, Col: col}, nil
}
