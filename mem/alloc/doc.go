// Package alloc implements contiguous-memory allocation over a fixed-size
// address space, modeling the classical operating-system placement strategies.
//
// # Overview
//
// The address space is represented as an ordered ledger of segments. Every
// segment is either FREE or owned by exactly one request, segments never
// overlap, and together they cover the whole space. A Manager wraps the
// ledger with an allocation index, a next-fit cursor, and an append-only
// fragmentation history.
//
// # Strategies
//
// Five placement strategies are supported, selected per allocation:
//
//   - FirstFit: first free segment in address order that fits
//   - BestFit: free segment with the least leftover space
//   - WorstFit: largest free segment
//   - NextFit: first fit scanning circularly from a persistent cursor
//   - BuddySystem: request rounded up to a power of two, served by
//     recursively halving a larger free segment
//
// All strategies share one commit routine that either converts an exact-fit
// segment or splits it into an owned prefix and a FREE remainder.
//
// # Usage Example
//
//	m, err := alloc.New(1024)
//	if err != nil {
//	    return err
//	}
//
//	addr, err := m.Allocate(alloc.FirstFit, alloc.Request{ID: "P0001", Size: 256})
//	if err != nil {
//	    return err
//	}
//
//	// Later, return the segment and merge adjacent free space.
//	err = m.Release("P0001")
//
// # Compaction
//
// Compact relocates all owned segments to the low end of the address space,
// leaving a single trailing FREE segment. Addresses returned by Allocate are
// advisory: compaction moves live segments, so callers must re-resolve
// addresses through Address(id) rather than caching them across a Compact
// call.
//
// # Fragmentation History
//
// After every ledger mutation the manager appends a FragSnapshot recording
// external fragmentation (share of free space outside the largest free
// segment), internal fragmentation (bytes over-committed relative to the
// logical request, which matters for buddy rounding), total free bytes, and
// the free-segment count. The history only resets with the manager.
//
// # Thread Safety
//
// Manager instances are not thread-safe. Every operation is a synchronous
// O(n) pass over the ledger; callers driving a manager from more than one
// goroutine must serialize access externally.
package alloc
