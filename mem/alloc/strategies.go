package alloc

import "math/bits"

// firstFit selects the first FREE segment in address order that fits.
func (l *ledger) firstFit(size int) (int, bool) {
	for i, seg := range l.segments {
		if seg.IsFree() && seg.Size >= size {
			return i, true
		}
	}
	return -1, false
}

// bestFit selects the fitting FREE segment with the least leftover space.
// Strict less-than keeps the earliest-scanned segment on ties.
func (l *ledger) bestFit(size int) (int, bool) {
	best := -1
	for i, seg := range l.segments {
		if !seg.IsFree() || seg.Size < size {
			continue
		}
		if best == -1 || seg.Size-size < l.segments[best].Size-size {
			best = i
		}
	}
	return best, best != -1
}

// worstFit selects the largest fitting FREE segment. Strict greater-than
// keeps the earliest-scanned segment on ties.
func (l *ledger) worstFit(size int) (int, bool) {
	worst := -1
	for i, seg := range l.segments {
		if !seg.IsFree() || seg.Size < size {
			continue
		}
		if worst == -1 || seg.Size > l.segments[worst].Size {
			worst = i
		}
	}
	return worst, worst != -1
}

// nextFit scans circularly from the cursor, visiting each segment once, and
// selects the first FREE segment that fits.
func (l *ledger) nextFit(size, cursor int) (int, bool) {
	n := len(l.segments)
	for k := 0; k < n; k++ {
		i := (cursor + k) % n
		seg := l.segments[i]
		if seg.IsFree() && seg.Size >= size {
			return i, true
		}
	}
	return -1, false
}

// buddyFit locates a FREE segment for a buddy request of the given
// power-of-two need. An exact-size match anywhere wins; otherwise the
// smallest FREE segment strictly larger than need is chosen and split.
func (l *ledger) buddyFit(need int) (idx int, split bool, ok bool) {
	smallest := -1
	for i, seg := range l.segments {
		if !seg.IsFree() {
			continue
		}
		if seg.Size == need {
			return i, false, true
		}
		if seg.Size > need && (smallest == -1 || seg.Size < l.segments[smallest].Size) {
			smallest = i
		}
	}
	if smallest == -1 {
		return -1, false, false
	}
	return smallest, true, true
}

// splitBuddy repeatedly halves the power-of-two FREE segment at index i
// until a segment of exactly need bytes remains at i, inserting the upper
// half as a new FREE segment each step. Halving only ever runs on
// power-of-two segments, so it can never produce a non-power-of-two size;
// non-power-of-two remainder regions are consumed through the ordinary
// commit split instead.
func (l *ledger) splitBuddy(i, need int) {
	seg := l.segments[i]
	for seg.Size > need {
		half := seg.Size / 2
		upper := &Segment{Start: seg.Start + half, Size: half, Owner: FreeOwner}
		seg.Size = half
		l.insert(i+1, upper)
	}
}

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
