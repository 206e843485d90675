// Package frag analyzes fragmentation of an allocator's memory map over
// time: per-observation metrics, severity classification, and a text report.
package frag

import (
	"fmt"
	"strings"
	"time"

	"memsim/mem/alloc"
	"memsim/util/helpers"
)

// Metrics is one fragmentation observation derived from a memory map.
type Metrics struct {
	Time       time.Time
	External   float64 // percent of free space outside the largest free segment
	Internal   int     // over-committed bytes (from allocator stats)
	TotalFree  int
	MaxFree    int
	FreeBlocks int
	UsedBlocks int
}

// Level classifies fragmentation severity.
type Level string

const (
	LevelOK       Level = "OK"
	LevelWarning  Level = "WARNING"
	LevelCritical Level = "CRITICAL"
)

// External fragmentation bands, in percent.
const (
	externalWarning  = 15.0
	externalCritical = 40.0
)

// Status is the severity classification of one observation.
type Status struct {
	External Level
	Internal Level
	Overall  Level
}

// Analyzer accumulates fragmentation observations. Not safe for concurrent
// use.
type Analyzer struct {
	history []Metrics
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Observe computes fragmentation metrics from the manager's current memory
// map and statistics, records them in the analyzer history, and returns
// them.
func (a *Analyzer) Observe(m *alloc.Manager) Metrics {
	metrics := Calculate(m.MemoryMap(), m.Statistics().InternalFragmentation)
	a.history = append(a.history, metrics)
	return metrics
}

// Calculate derives fragmentation metrics from a memory map. internal is the
// over-commit byte count, which cannot be recovered from the map alone and
// comes from the allocator's logical-size bookkeeping.
func Calculate(segments []alloc.Segment, internal int) Metrics {
	m := Metrics{Time: time.Now(), Internal: internal}
	for i := range segments {
		seg := &segments[i]
		if !seg.IsFree() {
			m.UsedBlocks++
			continue
		}
		m.FreeBlocks++
		m.TotalFree += seg.Size
		m.MaxFree = helpers.Max(m.MaxFree, seg.Size)
	}
	if m.TotalFree > 0 {
		m.External = (1 - float64(m.MaxFree)/float64(m.TotalFree)) * 100
	}
	return m
}

// Classify grades one observation. Internal fragmentation is graded against
// the owned byte count implied by the observation's totals when total is
// positive.
func Classify(m Metrics, total int) Status {
	s := Status{External: LevelOK, Internal: LevelOK}

	switch {
	case m.External >= externalCritical:
		s.External = LevelCritical
	case m.External >= externalWarning:
		s.External = LevelWarning
	}

	if total > 0 {
		wasted := float64(m.Internal) / float64(total) * 100
		switch {
		case wasted >= 25:
			s.Internal = LevelCritical
		case wasted >= 10:
			s.Internal = LevelWarning
		}
	}

	s.Overall = worst(s.External, s.Internal)
	return s
}

func worst(levels ...Level) Level {
	out := LevelOK
	for _, l := range levels {
		if l == LevelCritical {
			return LevelCritical
		}
		if l == LevelWarning {
			out = LevelWarning
		}
	}
	return out
}

// History returns all recorded observations, oldest first.
func (a *Analyzer) History() []Metrics {
	out := make([]Metrics, len(a.history))
	copy(out, a.history)
	return out
}

// Report renders a text summary of the recorded history: latest, average,
// and peak external fragmentation plus the latest block counts.
func (a *Analyzer) Report() string {
	var b strings.Builder
	b.WriteString("FRAGMENTATION REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")

	if len(a.history) == 0 {
		b.WriteString("no observations recorded\n")
		return b.String()
	}

	latest := a.history[len(a.history)-1]
	sum, peak := 0.0, 0.0
	for _, m := range a.history {
		sum += m.External
		peak = helpers.Max(peak, m.External)
	}

	fmt.Fprintf(&b, "Observations:            %d\n", len(a.history))
	fmt.Fprintf(&b, "External Fragmentation:  %.1f%% (avg %.1f%%, peak %.1f%%)\n",
		latest.External, sum/float64(len(a.history)), peak)
	fmt.Fprintf(&b, "Internal Fragmentation:  %dKB\n", latest.Internal)
	fmt.Fprintf(&b, "Free Blocks:             %d (largest %dKB of %dKB free)\n",
		latest.FreeBlocks, latest.MaxFree, latest.TotalFree)
	return b.String()
}
