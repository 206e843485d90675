package alloc

import (
	"github.com/sirupsen/logrus"

	"memsim/util/logger"
)

// Manager owns all mutable simulation state: the ledger, the allocation
// index with its logical-size side table, the next-fit cursor, the request
// history, and the fragmentation history. It is not safe for concurrent use.
type Manager struct {
	total     int
	available int
	ledger    *ledger

	// Allocation index: request id -> the segment object inside the ledger.
	index map[string]*Segment

	// Logical request size per live id. The ledger only stores the committed
	// size, so internal fragmentation (buddy rounding) needs this side table.
	requested map[string]int

	// Request metadata of every successful allocation, in order, for state
	// export. Never pruned on release; cleared only by Reset.
	requests []RequestRecord

	history []FragSnapshot
	allocs  int
	cursor  int

	log *logrus.Entry
}

// New creates a manager whose ledger is a single FREE segment spanning
// [0, total).
func New(total int) (*Manager, error) {
	if total <= 0 {
		return nil, ErrInvalidSize
	}
	m := &Manager{
		total:     total,
		available: total,
		ledger:    newLedger(total),
		index:     make(map[string]*Segment),
		requested: make(map[string]int),
		log:       logger.L.WithField("prefix", "alloc"),
	}
	m.snapshot()
	return m, nil
}

// TotalMemory returns the size of the managed address space.
func (m *Manager) TotalMemory() int { return m.total }

// AvailableMemory returns the number of unallocated bytes.
func (m *Manager) AvailableMemory() int { return m.available }

// Allocate places the request using the given strategy and returns the
// starting address of the committed segment. The address is advisory: a
// later Compact call may relocate the segment, after which the current
// address must be re-resolved with Address.
func (m *Manager) Allocate(strategy Strategy, req Request) (int, error) {
	if req.Size <= 0 {
		return -1, ErrInvalidSize
	}
	if _, live := m.index[req.ID]; live {
		return -1, ErrDuplicateRequest
	}

	size := req.Size
	var idx int
	var ok bool
	switch strategy {
	case FirstFit:
		idx, ok = m.ledger.firstFit(size)
	case BestFit:
		idx, ok = m.ledger.bestFit(size)
	case WorstFit:
		idx, ok = m.ledger.worstFit(size)
	case NextFit:
		idx, ok = m.ledger.nextFit(size, m.cursor)
	case BuddySystem:
		// The committed size is always the power-of-two rounding of the
		// request. A power-of-two free segment is halved down to that size;
		// a non-power-of-two remainder region is consumed through the
		// ordinary commit split.
		need := nextPowerOfTwo(size)
		var split bool
		idx, split, ok = m.ledger.buddyFit(need)
		if ok {
			size = need
			if split && isPowerOfTwo(m.ledger.segments[idx].Size) {
				m.ledger.splitBuddy(idx, need)
			}
		}
	default:
		panic("alloc: unknown strategy")
	}
	if !ok {
		return -1, ErrOutOfMemory
	}

	addr := m.ledger.commit(idx, req.ID, size)
	seg := m.ledger.segments[idx]
	m.index[req.ID] = seg
	m.requested[req.ID] = req.Size
	m.requests = append(m.requests, RequestRecord{
		ID:          req.ID,
		Size:        req.Size,
		ArrivalTime: req.ArrivalTime,
		Duration:    req.Duration,
	})
	m.available -= size
	m.allocs++
	if strategy == NextFit {
		m.cursor = (idx + 1) % len(m.ledger.segments)
	}

	m.log.Debugf("%s: %s -> %d bytes at %d", strategy, req.ID, size, addr)
	m.snapshot()
	return addr, nil
}

// Release returns the segment owned by id to FREE and merges any adjacent
// free segments.
func (m *Manager) Release(id string) error {
	seg, ok := m.index[id]
	if !ok {
		return ErrUnknownRequest
	}
	size, start := seg.Size, seg.Start
	seg.Owner = FreeOwner
	m.available += size
	delete(m.index, id)
	delete(m.requested, id)

	if m.ledger.coalesce() > 0 {
		m.clampCursor()
	}

	m.log.Debugf("release: %s freed %d bytes at %d", id, size, start)
	m.snapshot()
	return nil
}

// Compact relocates all owned segments to the low end of the address space
// in their original relative order, leaving one trailing FREE segment.
// Compacting an already-compacted ledger is a no-op. Compaction is never
// triggered internally.
func (m *Manager) Compact() {
	moved := m.ledger.compact()
	m.clampCursor()
	m.log.Debugf("compact: relocated %d bytes, %d segments remain", moved, len(m.ledger.segments))
	m.snapshot()
}

// Address resolves the current starting address of a live allocation. This
// is the supported way to recover an address after Compact has moved
// segments.
func (m *Manager) Address(id string) (int, bool) {
	seg, ok := m.index[id]
	if !ok {
		return -1, false
	}
	return seg.Start, true
}

// MemoryMap returns a copy of the ledger in address order.
func (m *Manager) MemoryMap() []Segment {
	segs := make([]Segment, len(m.ledger.segments))
	for i, seg := range m.ledger.segments {
		segs[i] = *seg
	}
	return segs
}

// Reset restores the manager to its initial state: one FREE segment, empty
// allocation index, empty request and fragmentation histories.
func (m *Manager) Reset() {
	m.available = m.total
	m.ledger = newLedger(m.total)
	m.index = make(map[string]*Segment)
	m.requested = make(map[string]int)
	m.requests = nil
	m.history = nil
	m.allocs = 0
	m.cursor = 0
	m.snapshot()
}

// The next-fit cursor is a raw ledger index; whenever coalescing or
// compaction shrinks the ledger it clamps to the last segment instead of
// wrapping to an unrelated position.
func (m *Manager) clampCursor() {
	if n := len(m.ledger.segments); m.cursor >= n {
		m.cursor = n - 1
	}
}
