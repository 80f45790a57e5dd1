package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/crucible/beam"
	"github.com/katalvlaran/crucible/internal/service"
	"github.com/katalvlaran/crucible/state"
)

func newBeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "beam [layout-file]",
		Short: "Count the tiles a beam energizes in a mirror layout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBeam,
	}
	cmd.Flags().Int("row", 0, "entry row")
	cmd.Flags().Int("col", 0, "entry column")
	cmd.Flags().String("dir", "right", "entry direction: up, down, left or right")
	cmd.Flags().Bool("best", false, "also report the best entry along the edges")
	return cmd
}

func runBeam(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	solver, closeSolver := newSolver(cfg, newLogger(cfg, cmd.ErrOrStderr()))
	defer closeSolver()

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	rawDir, _ := cmd.Flags().GetString("dir")
	dir, err := state.ParseDirection(rawDir)
	if err != nil {
		return err
	}
	entry := beam.Beam{Dir: dir}
	entry.Row, _ = cmd.Flags().GetInt("row")
	entry.Col, _ = cmd.Flags().GetInt("col")
	best, _ := cmd.Flags().GetBool("best")

	resp, err := solver.Beam(cmd.Context(), service.BeamRequest{Layout: input, Entry: &entry, Best: best})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Energized)
	if resp.Best != nil {
		b := resp.Best.Entry
		fmt.Fprintf(cmd.OutOrStdout(), "best %d from (%d,%d) heading %s\n", resp.Best.Energized, b.Row, b.Col, b.Dir)
	}
	return nil
}
