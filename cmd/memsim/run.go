package main

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"memsim/config"
	"memsim/mem/alloc"
	"memsim/mem/frag"
	"memsim/mem/printer"
	"memsim/mem/state"
	"memsim/mem/workload"
	"memsim/util/logger"
)

var (
	runMemory   int
	runStrategy string
	runCount    int
	runSpan     float64
	runPattern  string
	runSeed     int64
	runMinSize  int
	runMaxSize  int
	runCompact  bool
	runSaveFile string
	runLoadFile string
	runShowMap  bool
)

func init() {
	cfg := config.New()
	cmd := newRunCmd()
	cmd.Flags().IntVar(&runMemory, "memory", cfg.SimConfig.TotalMemory, "Total memory size (KB)")
	cmd.Flags().StringVar(&runStrategy, "strategy", cfg.SimConfig.Strategy,
		"Allocation strategy (first-fit, best-fit, worst-fit, next-fit, buddy)")
	cmd.Flags().IntVar(&runCount, "count", cfg.WorkloadConfig.Count, "Number of processes to generate")
	cmd.Flags().Float64Var(&runSpan, "span", cfg.WorkloadConfig.Span, "Arrival span in seconds")
	cmd.Flags().StringVar(&runPattern, "pattern", cfg.WorkloadConfig.Pattern,
		"Arrival pattern (uniform, bursty, gradual)")
	cmd.Flags().Int64Var(&runSeed, "seed", cfg.WorkloadConfig.Seed, "Workload seed (0 = random)")
	cmd.Flags().IntVar(&runMinSize, "min-size", cfg.WorkloadConfig.MinSize, "Minimum process size (KB)")
	cmd.Flags().IntVar(&runMaxSize, "max-size", cfg.WorkloadConfig.MaxSize, "Maximum process size (KB)")
	cmd.Flags().BoolVar(&runCompact, "compact", false, "Compact when fragmentation turns critical")
	cmd.Flags().StringVar(&runSaveFile, "save", "", "Export final state to this JSON file")
	cmd.Flags().StringVar(&runLoadFile, "load", "", "Import initial state from this JSON file")
	cmd.Flags().BoolVar(&runShowMap, "map", true, "Print the final memory map")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Drive a generated workload through the allocator",
		Long: `The run command generates a timed workload, feeds it to the allocator
with the selected strategy, releases processes as their durations expire, and
prints the resulting memory map and statistics.

Example:
  memsim run --memory 2048 --strategy best-fit --count 50 --seed 42
  memsim run --strategy buddy --pattern bursty --compact
  memsim run --load memory_state.json --map`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation()
		},
	}
}

func runSimulation() error {
	strategy, err := alloc.ParseStrategy(runStrategy)
	if err != nil {
		return err
	}
	pattern, err := workload.ParsePattern(runPattern)
	if err != nil {
		return err
	}

	mgr, err := alloc.New(runMemory)
	if err != nil {
		return errors.Wrap(err, "creating memory manager")
	}
	if runLoadFile != "" {
		doc, err := state.Load(runLoadFile)
		if err != nil {
			return err
		}
		if err := mgr.ImportState(doc); err != nil {
			return errors.Wrapf(err, "importing %s", runLoadFile)
		}
		printInfo("Imported state: %d segments, %dKB total\n",
			len(doc.Segments), mgr.TotalMemory())
	}

	gen := workload.New(runSeed)
	procs := gen.Workload(runCount, runSpan, pattern)
	analyzer := frag.NewAnalyzer()
	log := logger.L.WithField("prefix", "run")

	// Processes arrive in order; a process departs once the simulated clock
	// passes its arrival time plus duration.
	type lease struct {
		id     string
		expiry float64
	}
	var active []lease
	allocated, failed := 0, 0

	for _, p := range procs {
		for len(active) > 0 && active[0].expiry <= p.ArrivalTime {
			if err := mgr.Release(active[0].id); err != nil {
				return errors.Wrapf(err, "releasing %s", active[0].id)
			}
			active = active[1:]
		}

		if _, err := mgr.Allocate(strategy, p.Request()); err != nil {
			log.Warnf("%s (%dKB): %v", p.ID, p.Size, err)
			failed++
			continue
		}
		allocated++
		active = append(active, lease{id: p.ID, expiry: p.ArrivalTime + p.Duration})
		sort.Slice(active, func(i, j int) bool { return active[i].expiry < active[j].expiry })

		m := analyzer.Observe(mgr)
		if runCompact && frag.Classify(m, mgr.TotalMemory()).Overall == frag.LevelCritical {
			log.Infof("fragmentation critical (%.1f%% external), compacting", m.External)
			mgr.Compact()
		}
	}

	out := printer.New(os.Stdout)
	if runShowMap && !quiet {
		if err := out.MemoryMap(mgr); err != nil {
			return err
		}
	}
	if !quiet {
		if err := out.Statistics(mgr); err != nil {
			return err
		}
		printInfo("%s", analyzer.Report())
	}
	printInfo("Workload: %d allocated, %d failed (strategy: %s)\n", allocated, failed, strategy)

	if runSaveFile != "" {
		if err := state.Save(runSaveFile, mgr.ExportState()); err != nil {
			return err
		}
		printInfo("State exported to %s\n", runSaveFile)
	}
	return nil
}
