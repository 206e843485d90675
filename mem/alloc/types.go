package alloc

import (
	"fmt"
	"strings"
)

// FreeOwner is the sentinel owner of unallocated segments.
const FreeOwner = "FREE"

// Strategy selects the placement policy for a single allocation.
type Strategy uint8

const (
	FirstFit Strategy = iota
	BestFit
	WorstFit
	NextFit
	BuddySystem
)

// String returns the display name of the strategy.
func (s Strategy) String() string {
	switch s {
	case FirstFit:
		return "First Fit"
	case BestFit:
		return "Best Fit"
	case WorstFit:
		return "Worst Fit"
	case NextFit:
		return "Next Fit"
	case BuddySystem:
		return "Buddy System"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// Strategies lists all placement strategies in declaration order.
var Strategies = []Strategy{FirstFit, BestFit, WorstFit, NextFit, BuddySystem}

// ParseStrategy maps a flag-style name ("first-fit", "buddy", ...) to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "first-fit", "first", "ff":
		return FirstFit, nil
	case "best-fit", "best", "bf":
		return BestFit, nil
	case "worst-fit", "worst", "wf":
		return WorstFit, nil
	case "next-fit", "next", "nf":
		return NextFit, nil
	case "buddy-system", "buddy", "bs":
		return BuddySystem, nil
	default:
		return FirstFit, fmt.Errorf("alloc: unknown strategy %q", name)
	}
}

// Request is a unit of demand: a unique id and a positive size. ArrivalTime
// and Duration are opaque workload metadata carried through to exported state
// documents; the allocator never interprets them.
type Request struct {
	ID          string
	Size        int
	ArrivalTime float64
	Duration    float64
}

// Segment is a contiguous range of the address space, FREE or owned by one
// request. Segment state is owned exclusively by the ledger; the allocation
// index holds back-references to the same objects.
type Segment struct {
	Start int
	Size  int
	Owner string
}

// End returns the last address covered by the segment.
func (s *Segment) End() int { return s.Start + s.Size - 1 }

// IsFree reports whether the segment is unallocated.
func (s *Segment) IsFree() bool { return s.Owner == FreeOwner }

func (s *Segment) String() string {
	return fmt.Sprintf("[%d-%d] %s (%dKB)", s.Start, s.End(), s.Owner, s.Size)
}
