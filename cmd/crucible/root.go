package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/crucible/internal/cache"
	"github.com/katalvlaran/crucible/internal/config"
	"github.com/katalvlaran/crucible/internal/logging"
	"github.com/katalvlaran/crucible/internal/service"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crucible",
		Short:         "Constrained-run shortest paths over cost grids",
		Long:          `Crucible finds the cheapest route across a grid of digit costs when a path must travel at least min-run and at most max-run cells in a straight line before turning.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	root.PersistentFlags().String("config", "", "YAML or JSON configuration file")
	root.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides config)")

	root.AddCommand(newSolveCmd(), newBeamCmd(), newServeCmd(), newVersionCmd())
	return root
}

// loadConfig layers the config file, the environment and the --log-level flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	return logging.NewWriter(w, level, cfg.LogFormat)
}

// newSolver wires the Redis cache when an address is configured. The
// returned closer releases it.
func newSolver(cfg config.Config, logger *slog.Logger) (*service.Solver, func()) {
	opts := []service.Option{service.WithLogger(logger)}
	closer := func() {}
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			cache.WithPrefix(cfg.Redis.Prefix),
			cache.WithTTL(cfg.Redis.TTL),
		)
		opts = append(opts, service.WithCache(rc))
		closer = func() {
			if err := rc.Close(); err != nil {
				logger.Warn("closing redis", "error", err)
			}
		}
		logger.Debug("result cache enabled", "addr", cfg.Redis.Addr)
	}
	return service.New(cfg.Engine, opts...), closer
}

// readInput returns the named file, or stdin when name is empty or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
