package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/talgya/mini-mind/internal/api"
	"github.com/talgya/mini-mind/internal/config"
	"github.com/talgya/mini-mind/internal/engine"
	"github.com/talgya/mini-mind/internal/persistence"
)

var (
	configPath string
	dbPath     string
	agentCount int
	maxTicks   uint64
	seed       int64
	apiAddr    string
	speed      float64
)

// runCmd starts a fresh simulation run
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation",
	Long: `Generate a world from the seed, spawn the population and run the tick loop
until --ticks is reached or the process is interrupted.

Knowledge snapshots and the decision log are saved every
engine.snapshot_interval ticks and once more on shutdown.`,
	RunE: runSimulation,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&configPath, "config", "", "Tuning YAML file (default: built-in tuning)")
	f.StringVar(&dbPath, "db", "data/mindsim.db", "SQLite database path; empty disables saving")
	f.IntVar(&agentCount, "agents", 0, "Population size (default: agents.count from the tuning)")
	f.Uint64Var(&maxTicks, "ticks", 0, "Stop after this many ticks; 0 runs until interrupted")
	f.Int64Var(&seed, "seed", 42, "World and population seed")
	f.StringVar(&apiAddr, "api", "", "Serve the introspection API on this address, e.g. :8080")
	f.Float64Var(&speed, "speed", 1, "Speed multiplier; 1 is real time")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	tun, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if agentCount > 0 {
		tun.Agents.Count = agentCount
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	var run persistence.Run
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		db, err = persistence.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		slog.Info("database opened", "path", dbPath)
	}

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(tun, seed)
	if db != nil {
		run, err = db.CreateRun(ctx, seed, len(sim.Agents), tun)
		if err != nil {
			return err
		}
	}
	slog.Info("world ready",
		"run", run.ID,
		"agents", len(sim.Agents),
		"objects", humanize.Comma(int64(len(sim.World.Objects()))),
		"seed", seed,
	)

	eng := engine.NewEngine(tun.Engine.TicksPerSecond)
	eng.MaxTicks = maxTicks
	eng.Speed = speed

	var lastSaved uint64
	save := func(ctx context.Context) error {
		if db == nil {
			return nil
		}
		tick := sim.CurrentTick()
		if err := db.SaveSimulation(ctx, run.ID, sim, lastSaved); err != nil {
			return err
		}
		lastSaved = tick
		return nil
	}
	eng.OnTick = func(ctx context.Context, tick uint64) error {
		if err := sim.Step(ctx, tick); err != nil {
			return err
		}
		if every := tun.Engine.SnapshotInterval; every > 0 && tick%every == 0 {
			if err := save(ctx); err != nil {
				slog.Error("periodic save failed", "tick", tick, "error", err)
			}
		}
		return nil
	}

	// ── Engine & API ──────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancelRun := context.WithCancel(gctx)
	defer cancelRun()

	g.Go(func() error {
		// Finishing the run stops the API too.
		defer cancelRun()
		return eng.Run(runCtx)
	})
	if apiAddr != "" {
		srv := &api.Server{Sim: sim, Eng: eng, DB: db, RunID: run.ID, Addr: apiAddr}
		g.Go(func() error { return srv.Run(runCtx) })
		fmt.Fprintf(cmd.OutOrStdout(), "API: http://localhost%s/api/v1/status\n", apiAddr)
	}
	runErr := g.Wait()

	// Final save on shutdown, even when interrupted.
	if err := save(context.Background()); err != nil {
		slog.Error("final save failed", "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	st := sim.Snapshot()
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped at tick %s (%s): %s decisions, %s actions completed, %s failed.\n",
		humanize.Comma(int64(sim.CurrentTick())),
		engine.SimTime(sim.CurrentTick(), tun.Engine.TicksPerSecond),
		humanize.Comma(int64(st.Decisions)),
		humanize.Comma(int64(st.Completed)),
		humanize.Comma(int64(st.Failed)),
	)
	if db != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Run %s saved to %s\n", run.ID, dbPath)
	}
	return runErr
}
