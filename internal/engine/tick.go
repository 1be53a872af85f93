// Package engine provides the tick-based simulation loop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/talgya/mini-mind/internal/mind"
)

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval
	MaxTicks uint64        // Stop after this tick; 0 runs until stopped

	running atomic.Bool

	// OnTick runs every tick. An error stops the loop.
	OnTick func(ctx context.Context, tick uint64) error
}

// NewEngine creates an engine ticking ticksPerSecond times a second.
func NewEngine(ticksPerSecond float64) *Engine {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 60
	}
	return &Engine{
		Speed:    1.0,
		Interval: time.Duration(float64(time.Second) / ticksPerSecond),
	}
}

// Running reports whether the loop is active.
func (e *Engine) Running() bool { return e.running.Load() }

// Run starts the simulation loop. It blocks until ctx is done, Stop is
// called, MaxTicks is reached or OnTick fails.
func (e *Engine) Run(ctx context.Context) error {
	e.running.Store(true)
	defer e.running.Store(false)
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)

	for e.running.Load() {
		if err := ctx.Err(); err != nil {
			break
		}
		if e.MaxTicks > 0 && e.Tick >= e.MaxTicks {
			break
		}
		if e.Speed <= 0 {
			// Paused: sleep briefly and check again.
			if !sleep(ctx, 100*time.Millisecond) {
				break
			}
			continue
		}

		start := time.Now()

		if err := e.step(ctx); err != nil {
			slog.Error("tick failed", "tick", e.Tick, "error", err)
			return err
		}

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target && !sleep(ctx, target-elapsed) {
			break
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
	return nil
}

// Stop halts the simulation loop after the current tick.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// step advances the simulation by one tick.
func (e *Engine) step(ctx context.Context) error {
	e.Tick++
	if e.OnTick == nil {
		return nil
	}
	if err := e.OnTick(ctx, e.Tick); err != nil {
		return fmt.Errorf("tick %d: %w", e.Tick, err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// ShouldRun reports whether an agent's staggered job with the given
// interval is due this tick. Offsetting by the agent's id spreads the
// population's work across the interval.
func ShouldRun(tick uint64, id mind.EntityID, interval uint64) bool {
	if interval <= 1 {
		return true
	}
	return (tick+uint64(id))%interval == 0
}

// SimTime returns a human-readable simulation time string from a tick number.
func SimTime(tick uint64, ticksPerSecond float64) string {
	if ticksPerSecond <= 0 {
		ticksPerSecond = 60
	}
	total := uint64(float64(tick) / ticksPerSecond)
	seconds := total % 60
	minutes := (total / 60) % 60
	hours := (total / 3600) % 24
	days := total/86400 + 1
	return fmt.Sprintf("Day %d, %02d:%02d:%02d", days, hours, minutes, seconds)
}
