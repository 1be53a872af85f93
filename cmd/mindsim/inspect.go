package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/mini-mind/internal/mind"
	"github.com/talgya/mini-mind/internal/persistence"
)

var (
	inspectDB    string
	inspectRun   string
	inspectAgent uint64
	inspectLimit int
	listRuns     bool
)

// inspectCmd prints a saved run
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect a saved run",
	Long: `Print a saved run: its seed and tuning, the size of every agent's mind at
the last snapshot and the most recent decisions.

With --agent, also break that agent's knowledge down by predicate.`,
	RunE: runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectDB, "db", "data/mindsim.db", "SQLite database path")
	f.StringVar(&inspectRun, "run", "", "Run ID (default: the latest run)")
	f.Uint64Var(&inspectAgent, "agent", 0, "Only show this agent")
	f.IntVar(&inspectLimit, "limit", 20, "Number of decisions to show")
	f.BoolVar(&listRuns, "list", false, "List every saved run")
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	db, err := persistence.Open(inspectDB)
	if err != nil {
		return err
	}
	defer db.Close()

	if listRuns {
		runs, err := db.Runs(ctx)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Fprintf(out, "%s  seed=%d  agents=%d  started %s\n",
				r.ID, r.Seed, r.Agents, humanize.Time(r.Started()))
		}
		return nil
	}

	var run persistence.Run
	if inspectRun != "" {
		run, err = db.GetRun(ctx, inspectRun)
	} else {
		run, err = db.LatestRun(ctx)
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("no saved run in %s: %w", inspectDB, err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run %s\n", run.ID)
	fmt.Fprintf(out, "  seed %d, %d agents, started %s\n", run.Seed, run.Agents, humanize.Time(run.Started()))
	if last, err := db.GetMeta(ctx, "last_tick:"+run.ID); err == nil {
		if t, err := strconv.ParseUint(last, 10, 64); err == nil {
			fmt.Fprintf(out, "  last saved tick %s\n", humanize.Comma(int64(t)))
		}
	}

	counts, err := db.KnowledgeCounts(ctx, run.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nKnowledge")
	for _, c := range counts {
		if inspectAgent != 0 && c.AgentID != inspectAgent {
			continue
		}
		fmt.Fprintf(out, "  #%-4d %-12s %-9s %8s triples (tick %s)\n",
			c.AgentID, c.Name, c.Culture, humanize.Comma(int64(c.Triples)), humanize.Comma(int64(c.Tick)))
	}

	if inspectAgent != 0 {
		snap, err := db.LoadSnapshot(ctx, run.ID, mind.EntityID(inspectAgent), 0)
		if err != nil {
			return err
		}
		printBreakdown(out, snap)
	}

	decisions, err := db.RecentDecisions(ctx, run.ID, mind.EntityID(inspectAgent), inspectLimit)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nRecent decisions")
	for _, d := range decisions {
		fmt.Fprintf(out, "  tick %-8s #%-4d %-12s %-10s score %7.1f  %s\n",
			humanize.Comma(int64(d.Tick)), d.AgentID, d.Brain, d.Name, d.Score, d.Rationale)
	}
	return nil
}

// printBreakdown lists how many beliefs an agent holds per predicate, and
// its committed plan.
func printBreakdown(out io.Writer, snap persistence.Snapshot) {
	byPredicate := make(map[mind.Predicate]int)
	for _, t := range snap.Triples {
		byPredicate[t.Predicate]++
	}
	fmt.Fprintf(out, "\n%s (%s) at tick %s\n", snap.Name, snap.Culture, humanize.Comma(int64(snap.Tick)))
	preds := slices.SortedFunc(maps.Keys(byPredicate), func(a, b mind.Predicate) int {
		return cmp.Or(cmp.Compare(byPredicate[b], byPredicate[a]), cmp.Compare(a, b))
	})
	for _, p := range preds {
		fmt.Fprintf(out, "  %-16s %6d\n", p, byPredicate[p])
	}
	if len(snap.Plan.Steps) > 0 {
		fmt.Fprintln(out, "  plan:")
		for i, st := range snap.Plan.Steps {
			marker := " "
			if i == snap.Plan.Cursor {
				marker = ">"
			}
			fmt.Fprintf(out, "   %s %d. %s\n", marker, i+1, st.Name)
		}
	}
}
