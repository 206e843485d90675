// Package printer renders a manager's memory map and statistics as text.
package printer

import (
	"fmt"
	"io"
	"strings"

	"memsim/mem/alloc"
)

const ruleWidth = 80

// Printer writes text renderings of allocator state to a writer.
type Printer struct {
	w io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// MemoryMap renders the ledger in address order, one segment per row.
func (p *Printer) MemoryMap(m *alloc.Manager) error {
	rule := strings.Repeat("=", ruleWidth)
	if _, err := fmt.Fprintf(p.w, "%s\nMEMORY MAP\n%s\n", rule, rule); err != nil {
		return err
	}

	for _, seg := range m.MemoryMap() {
		status := "FREE"
		if !seg.IsFree() {
			status = "PID:" + seg.Owner
		}
		if _, err := fmt.Fprintf(p.w, "[%5d-%5d] %-15s %5dKB\n",
			seg.Start, seg.End(), status, seg.Size); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(p.w, "%s\nTotal Memory: %dKB | Available: %dKB\nAllocated Processes: %d\n",
		rule, m.TotalMemory(), m.AvailableMemory(), m.Statistics().AllocatedRequests)
	return err
}

// Statistics renders the derived statistics as a label/value table.
func (p *Printer) Statistics(m *alloc.Manager) error {
	s := m.Statistics()
	rows := []struct {
		label string
		value string
	}{
		{"Memory Utilization", fmt.Sprintf("%.1f%%", s.Utilization)},
		{"External Fragmentation", fmt.Sprintf("%.1f%%", s.ExternalFragmentation)},
		{"Internal Fragmentation", fmt.Sprintf("%dKB", s.InternalFragmentation)},
		{"Free Memory", fmt.Sprintf("%dKB", s.AvailableMemory)},
		{"Memory Blocks", fmt.Sprintf("%d", s.MemoryBlocks)},
		{"Free Blocks", fmt.Sprintf("%d", s.FreeBlocks)},
		{"Allocated Processes", fmt.Sprintf("%d", s.AllocatedRequests)},
		{"Allocation Count", fmt.Sprintf("%d", s.AllocationCount)},
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(p.w, "%-24s %s\n", row.label+":", row.value); err != nil {
			return err
		}
	}
	return nil
}

// History renders the last n fragmentation snapshots, oldest first. With
// n <= 0 the whole history is rendered.
func (p *Printer) History(m *alloc.Manager, n int) error {
	history := m.History()
	if n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}

	for _, snap := range history {
		if _, err := fmt.Fprintf(p.w, "%s  ext %5.1f%%  int %5dKB  free %5dKB in %d blocks\n",
			snap.Time.Format("15:04:05.000"), snap.External, snap.Internal,
			snap.TotalFree, snap.FreeBlocks); err != nil {
			return err
		}
	}
	return nil
}
