// Package workload generates synthetic processes for driving the allocator:
// single processes, batches, timed workloads with arrival patterns, and
// stress loads targeting a utilization level. Generation is reproducible
// from an integer seed.
package workload

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"memsim/mem/alloc"
)

// Type classifies a process for simulation scenarios.
type Type string

const (
	Interactive     Type = "Interactive"
	Batch           Type = "Batch"
	System          Type = "System"
	RealTime        Type = "Real-time"
	MemoryIntensive Type = "Memory Intensive"
)

var types = []Type{Interactive, Batch, System, RealTime, MemoryIntensive}

// Pattern shapes the arrival-time distribution of a generated workload.
type Pattern string

const (
	// PatternUniform spreads arrivals evenly over the span.
	PatternUniform Pattern = "uniform"
	// PatternBursty clusters arrivals around a few burst instants.
	PatternBursty Pattern = "bursty"
	// PatternGradual ramps the arrival rate up towards the end of the span.
	PatternGradual Pattern = "gradual"
)

// ParsePattern maps a flag value to a Pattern.
func ParsePattern(name string) (Pattern, error) {
	switch Pattern(name) {
	case PatternUniform, PatternBursty, PatternGradual:
		return Pattern(name), nil
	default:
		return PatternUniform, fmt.Errorf("workload: unknown arrival pattern %q", name)
	}
}

// Process is a unit of simulated demand. The allocator consumes only the id
// and size (via Request); the remaining attributes drive the simulation.
type Process struct {
	ID          string
	Size        int
	ArrivalTime float64
	Duration    float64
	Priority    int
	Type        Type
}

// Request converts the process to an allocation request, carrying arrival
// time and duration through as opaque metadata.
func (p Process) Request() alloc.Request {
	return alloc.Request{
		ID:          p.ID,
		Size:        p.Size,
		ArrivalTime: p.ArrivalTime,
		Duration:    p.Duration,
	}
}

func (p Process) String() string {
	return fmt.Sprintf("Process(%s: %dKB)", p.ID, p.Size)
}

// Generator produces processes with unique ids. It is not safe for
// concurrent use.
type Generator struct {
	rng   *rand.Rand
	count int
}

// New creates a generator. A zero seed derives one from the clock; any other
// seed makes the sequence reproducible.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) nextID() string {
	g.count++
	return fmt.Sprintf("P%04d", g.count)
}

// Random generates a process with a uniform size in [minSize, maxSize], a
// duration in [10, 60) and a priority in [1, 5].
func (g *Generator) Random(minSize, maxSize int) Process {
	return Process{
		ID:          g.nextID(),
		Size:        minSize + g.rng.Intn(maxSize-minSize+1),
		Duration:    10 + g.rng.Float64()*50,
		Priority:    1 + g.rng.Intn(5),
		Type:        types[g.rng.Intn(len(types))],
	}
}

// Single generates a process with explicit parameters.
func (g *Generator) Single(size int, duration float64, priority int) Process {
	return Process{
		ID:       g.nextID(),
		Size:     size,
		Duration: duration,
		Priority: priority,
		Type:     Interactive,
	}
}

// Batch generates n random processes with the default 16..1024 size range.
func (g *Generator) Batch(n int) []Process {
	procs := make([]Process, n)
	for i := range procs {
		procs[i] = g.Random(16, 1024)
	}
	return procs
}

// Workload generates count processes whose arrival times follow the given
// pattern over [0, span] seconds, returned sorted by arrival time.
func (g *Generator) Workload(count int, span float64, pattern Pattern) []Process {
	procs := make([]Process, count)
	bursts := count/8 + 1
	for i := range procs {
		p := g.Random(16, 1024)
		switch pattern {
		case PatternBursty:
			center := float64(g.rng.Intn(bursts)) * span / float64(bursts)
			p.ArrivalTime = center + g.rng.NormFloat64()*span/40
		case PatternGradual:
			// sqrt of a uniform draw has an increasing density over [0, 1].
			p.ArrivalTime = span * math.Sqrt(g.rng.Float64())
		default:
			p.ArrivalTime = span * g.rng.Float64()
		}
		if p.ArrivalTime < 0 {
			p.ArrivalTime = 0
		} else if p.ArrivalTime > span {
			p.ArrivalTime = span
		}
		procs[i] = p
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].ArrivalTime < procs[j].ArrivalTime })
	return procs
}

// StressTest generates processes whose sizes add up to roughly
// fraction*total, sized between 2% and 12% of the space each.
func (g *Generator) StressTest(total int, fraction float64) []Process {
	target := int(float64(total) * fraction)
	min, max := total/50, total/8
	if min < 1 {
		min = 1
	}
	if max <= min {
		max = min + 1
	}

	var procs []Process
	demand := 0
	for demand < target {
		p := g.Random(min, max)
		if demand+p.Size > total {
			break
		}
		procs = append(procs, p)
		demand += p.Size
	}
	return procs
}
