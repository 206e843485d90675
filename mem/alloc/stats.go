package alloc

import "time"

// FragSnapshot is an immutable fragmentation record appended to the history
// after every ledger mutation.
type FragSnapshot struct {
	Time       time.Time
	External   float64 // percentage of free space outside the largest free segment
	Internal   int     // bytes committed beyond the logical request sizes
	TotalFree  int
	FreeBlocks int
}

// Stats is a point-in-time view of the manager, derived on demand.
type Stats struct {
	TotalMemory     int
	AvailableMemory int
	Utilization     float64 // percent of total memory owned

	AllocatedRequests int
	FreeBlocks        int
	MemoryBlocks      int
	AllocationCount   int

	ExternalFragmentation float64
	InternalFragmentation int
}

// snapshot recomputes the fragmentation metrics and appends them to the
// history.
func (m *Manager) snapshot() {
	totalFree := m.ledger.freeTotal()

	external := 0.0
	if totalFree > 0 {
		external = (1 - float64(m.ledger.maxFree())/float64(totalFree)) * 100
	}

	internal := 0
	for id, seg := range m.index {
		if logical := m.requested[id]; seg.Size > logical {
			internal += seg.Size - logical
		}
	}

	m.history = append(m.history, FragSnapshot{
		Time:       time.Now(),
		External:   external,
		Internal:   internal,
		TotalFree:  totalFree,
		FreeBlocks: m.ledger.freeCount(),
	})
}

// Recompute appends a fresh fragmentation snapshot without mutating the
// ledger.
func (m *Manager) Recompute() { m.snapshot() }

// History returns the append-only fragmentation history, oldest first. The
// returned slice is a copy.
func (m *Manager) History() []FragSnapshot {
	out := make([]FragSnapshot, len(m.history))
	copy(out, m.history)
	return out
}

// Statistics derives the current statistics from the ledger and the most
// recent fragmentation snapshot. With an empty history the fragmentation
// fields are zero.
func (m *Manager) Statistics() Stats {
	s := Stats{
		TotalMemory:       m.total,
		AvailableMemory:   m.available,
		Utilization:       float64(m.total-m.available) / float64(m.total) * 100,
		AllocatedRequests: len(m.index),
		FreeBlocks:        m.ledger.freeCount(),
		MemoryBlocks:      len(m.ledger.segments),
		AllocationCount:   m.allocs,
	}
	if n := len(m.history); n > 0 {
		s.ExternalFragmentation = m.history[n-1].External
		s.InternalFragmentation = m.history[n-1].Internal
	}
	return s
}
