package alloc

import "fmt"

// ledger is the ordered, non-overlapping, fully-covering segment list.
// Segments are sorted by start address; their sizes always sum to total.
type ledger struct {
	total    int
	segments []*Segment
}

func newLedger(total int) *ledger {
	return &ledger{
		total:    total,
		segments: []*Segment{{Start: 0, Size: total, Owner: FreeOwner}},
	}
}

// commit claims the FREE segment at index i for the given request id. An
// exact fit converts the segment in place; otherwise the segment is split
// into an owned prefix and a FREE remainder inserted right after it. Returns
// the starting address of the owned segment.
func (l *ledger) commit(i int, id string, size int) int {
	seg := l.segments[i]
	if seg.Size > size {
		rem := &Segment{Start: seg.Start + size, Size: seg.Size - size, Owner: FreeOwner}
		seg.Size = size
		l.insert(i+1, rem)
	}
	seg.Owner = id
	return seg.Start
}

func (l *ledger) insert(i int, seg *Segment) {
	l.segments = append(l.segments, nil)
	copy(l.segments[i+1:], l.segments[i:])
	l.segments[i] = seg
}

func (l *ledger) remove(i int) {
	l.segments = append(l.segments[:i], l.segments[i+1:]...)
}

// coalesce merges every run of adjacent FREE segments into one, restoring
// the no-adjacent-free invariant. A single release can expose chains of
// three free segments (predecessor, released, successor), so the sweep
// re-tests the merged segment against its new successor before advancing.
// Returns the number of segments removed.
func (l *ledger) coalesce() int {
	removed := 0
	i := 0
	for i < len(l.segments)-1 {
		curr, next := l.segments[i], l.segments[i+1]
		if curr.IsFree() && next.IsFree() {
			curr.Size += next.Size
			l.remove(i + 1)
			removed++
		} else {
			i++
		}
	}
	return removed
}

// compact slides all owned segments to the lowest addresses in their
// original relative order and leaves at most one trailing FREE segment.
// Owned Segment objects are updated in place so allocation-index references
// stay valid. Returns the number of bytes relocated.
func (l *ledger) compact() int {
	moved := 0
	next := 0
	kept := l.segments[:0]
	for _, seg := range l.segments {
		if seg.IsFree() {
			continue
		}
		if seg.Start != next {
			moved += seg.Size
		}
		seg.Start = next
		next += seg.Size
		kept = append(kept, seg)
	}
	if next < l.total {
		kept = append(kept, &Segment{Start: next, Size: l.total - next, Owner: FreeOwner})
	}
	l.segments = kept
	return moved
}

// freeTotal returns the sum of all FREE segment sizes.
func (l *ledger) freeTotal() int {
	total := 0
	for _, seg := range l.segments {
		if seg.IsFree() {
			total += seg.Size
		}
	}
	return total
}

// freeCount returns the number of FREE segments.
func (l *ledger) freeCount() int {
	n := 0
	for _, seg := range l.segments {
		if seg.IsFree() {
			n++
		}
	}
	return n
}

// maxFree returns the size of the largest FREE segment, or 0 when none exist.
func (l *ledger) maxFree() int {
	max := 0
	for _, seg := range l.segments {
		if seg.IsFree() && seg.Size > max {
			max = seg.Size
		}
	}
	return max
}

// validate checks the coverage invariants: positive sizes, segments sorted
// and contiguous from address 0, sizes summing to total, and no owner id
// appearing on more than one segment.
func (l *ledger) validate() error {
	if len(l.segments) == 0 {
		return fmt.Errorf("empty ledger")
	}
	next := 0
	owners := make(map[string]struct{}, len(l.segments))
	for i, seg := range l.segments {
		if seg.Size <= 0 {
			return fmt.Errorf("segment %d has non-positive size %d", i, seg.Size)
		}
		if seg.Start != next {
			return fmt.Errorf("segment %d starts at %d, want %d", i, seg.Start, next)
		}
		next += seg.Size
		if seg.IsFree() {
			continue
		}
		if _, dup := owners[seg.Owner]; dup {
			return fmt.Errorf("owner %q appears on more than one segment", seg.Owner)
		}
		owners[seg.Owner] = struct{}{}
	}
	if next != l.total {
		return fmt.Errorf("segments cover %d bytes, want %d", next, l.total)
	}
	return nil
}
