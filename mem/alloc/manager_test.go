package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsNonPositiveTotal(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = New(-1024)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestNew_SingleFreeSegment(t *testing.T) {
	m := newTestManager(t, 1024)

	segs := m.MemoryMap()
	require.Len(t, segs, 1)
	assert.Equal(t, Segment{Start: 0, Size: 1024, Owner: FreeOwner}, segs[0])
	assert.Equal(t, 1024, m.AvailableMemory())

	// Construction records the initial fragmentation snapshot.
	require.Len(t, m.History(), 1)
	assert.Equal(t, 1024, m.History()[0].TotalFree)

	assertInvariants(t, m)
}

// Scenario: allocate 256, 128, 512 via first-fit into 1024 bytes. The owned
// segments pack the low end in request order, leaving 128 free bytes at 896.
func TestAllocate_FirstFitSequence(t *testing.T) {
	m := newTestManager(t, 1024)

	assert.Equal(t, 0, mustAllocate(t, m, FirstFit, "P1", 256))
	assert.Equal(t, 256, mustAllocate(t, m, FirstFit, "P2", 128))
	assert.Equal(t, 384, mustAllocate(t, m, FirstFit, "P3", 512))

	segs := m.MemoryMap()
	require.Len(t, segs, 4)
	assert.Equal(t, Segment{Start: 0, Size: 256, Owner: "P1"}, segs[0])
	assert.Equal(t, Segment{Start: 256, Size: 128, Owner: "P2"}, segs[1])
	assert.Equal(t, Segment{Start: 384, Size: 512, Owner: "P3"}, segs[2])
	assert.Equal(t, Segment{Start: 896, Size: 128, Owner: FreeOwner}, segs[3])

	assert.Equal(t, 128, m.AvailableMemory())
	assertInvariants(t, m)
}

func TestAllocate_InvalidSize(t *testing.T) {
	m := newTestManager(t, 1024)

	for _, size := range []int{0, -1, -512} {
		_, err := m.Allocate(FirstFit, Request{ID: "P1", Size: size})
		assert.ErrorIs(t, err, ErrInvalidSize, "size %d", size)
	}

	// Failed allocations leave the ledger untouched.
	require.Len(t, m.MemoryMap(), 1)
	assert.Equal(t, 1024, m.AvailableMemory())
	assertInvariants(t, m)
}

func TestAllocate_DuplicateID(t *testing.T) {
	m := newTestManager(t, 1024)
	mustAllocate(t, m, FirstFit, "P1", 256)

	_, err := m.Allocate(FirstFit, Request{ID: "P1", Size: 64})
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// The id becomes reusable once released.
	require.NoError(t, m.Release("P1"))
	mustAllocate(t, m, FirstFit, "P1", 64)
	assertInvariants(t, m)
}

// Scenario: an exact-fit request consumes the whole space; any further
// request fails with out-of-memory and changes nothing.
func TestAllocate_ExactFitThenOutOfMemory(t *testing.T) {
	m := newTestManager(t, 1024)

	addr := mustAllocate(t, m, FirstFit, "P1", 1024)
	assert.Equal(t, 0, addr)
	assert.Equal(t, 0, m.AvailableMemory())
	require.Len(t, m.MemoryMap(), 1, "exact fit must not split")

	_, err := m.Allocate(FirstFit, Request{ID: "P2", Size: 1})
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 0, m.AvailableMemory())
	assertInvariants(t, m)
}

func TestRelease_UnknownRequest(t *testing.T) {
	m := newTestManager(t, 1024)

	assert.ErrorIs(t, m.Release("NOPE"), ErrUnknownRequest)

	mustAllocate(t, m, FirstFit, "P1", 256)
	require.NoError(t, m.Release("P1"))
	assert.ErrorIs(t, m.Release("P1"), ErrUnknownRequest, "double release")
	assertInvariants(t, m)
}

// Scenario: three adjacent allocations released in any order collapse back
// into a single free segment spanning the whole space.
func TestRelease_CoalescesToSingleSegment(t *testing.T) {
	orders := map[string][]string{
		"forward":      {"P1", "P2", "P3"},
		"reverse":      {"P3", "P2", "P1"},
		"middle-first": {"P2", "P1", "P3"},
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			m := newTestManager(t, 1024)
			mustAllocate(t, m, FirstFit, "P1", 256)
			mustAllocate(t, m, FirstFit, "P2", 128)
			mustAllocate(t, m, FirstFit, "P3", 512)

			for _, id := range order {
				require.NoError(t, m.Release(id))
				assertInvariants(t, m)
				assertCoalesced(t, m)
			}

			segs := m.MemoryMap()
			require.Len(t, segs, 1)
			assert.Equal(t, Segment{Start: 0, Size: 1024, Owner: FreeOwner}, segs[0])
			assert.Equal(t, 1024, m.AvailableMemory())
		})
	}
}

// A single release can expose a chain of three free segments (free
// predecessor, released segment, free successor); one sweep must merge all
// of them.
func TestRelease_MergesFreeChain(t *testing.T) {
	m := newTestManager(t, 1024)
	mustAllocate(t, m, FirstFit, "P1", 256)
	mustAllocate(t, m, FirstFit, "P2", 256)
	mustAllocate(t, m, FirstFit, "P3", 256)

	require.NoError(t, m.Release("P1"))
	require.NoError(t, m.Release("P3"))
	// Ledger: [256 FREE][P2][256 FREE][256 FREE tail] -> tail coalesced already
	require.NoError(t, m.Release("P2"))

	segs := m.MemoryMap()
	require.Len(t, segs, 1)
	assert.True(t, segs[0].IsFree())
	assertCoalesced(t, m)
	assertInvariants(t, m)
}

// Conservation: available memory always equals total minus the owned bytes,
// across an arbitrary allocate/release interleaving.
func TestConservation_AcrossMixedOperations(t *testing.T) {
	m := newTestManager(t, 2048)

	mustAllocate(t, m, FirstFit, "A", 300)
	mustAllocate(t, m, BestFit, "B", 200)
	require.NoError(t, m.Release("A"))
	mustAllocate(t, m, WorstFit, "C", 100)
	mustAllocate(t, m, NextFit, "D", 450)
	require.NoError(t, m.Release("C"))
	mustAllocate(t, m, BuddySystem, "E", 120) // commits 128
	m.Compact()
	require.NoError(t, m.Release("B"))

	assertInvariants(t, m) // includes the conservation check

	owned := 0
	for _, seg := range m.MemoryMap() {
		if !seg.IsFree() {
			owned += seg.Size
		}
	}
	assert.Equal(t, m.TotalMemory()-owned, m.AvailableMemory())
}

func TestHistory_AppendOnly(t *testing.T) {
	m := newTestManager(t, 1024)
	require.Len(t, m.History(), 1)

	mustAllocate(t, m, FirstFit, "P1", 256)
	require.Len(t, m.History(), 2)

	_, err := m.Allocate(FirstFit, Request{ID: "P2", Size: 4096})
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.Len(t, m.History(), 2, "failed allocation must not record a snapshot")

	require.NoError(t, m.Release("P1"))
	require.Len(t, m.History(), 3)

	m.Compact()
	require.Len(t, m.History(), 4)

	m.Recompute()
	require.Len(t, m.History(), 5)

	// History mutations through the returned slice must not leak back.
	h := m.History()
	h[0].TotalFree = -1
	assert.Equal(t, 1024, m.History()[0].TotalFree)
}

func TestStatistics_DerivedValues(t *testing.T) {
	m := newTestManager(t, 1024)

	mustAllocate(t, m, FirstFit, "P1", 256)
	mustAllocate(t, m, FirstFit, "P2", 256)
	require.NoError(t, m.Release("P1"))

	s := m.Statistics()
	assert.Equal(t, 1024, s.TotalMemory)
	assert.Equal(t, 768, s.AvailableMemory)
	assert.InDelta(t, 25.0, s.Utilization, 0.001)
	assert.Equal(t, 1, s.AllocatedRequests)
	assert.Equal(t, 2, s.FreeBlocks) // [256 FREE][P2][512 FREE]
	assert.Equal(t, 3, s.MemoryBlocks)
	assert.Equal(t, 2, s.AllocationCount)

	// External fragmentation: largest free is 512 of 768 total free.
	assert.InDelta(t, (1-512.0/768.0)*100, s.ExternalFragmentation, 0.001)
	assert.Equal(t, 0, s.InternalFragmentation)
}

func TestReset_RestoresInitialState(t *testing.T) {
	m := newTestManager(t, 1024)
	mustAllocate(t, m, BuddySystem, "P1", 100)
	mustAllocate(t, m, FirstFit, "P2", 50)
	require.NoError(t, m.Release("P1"))

	m.Reset()

	segs := m.MemoryMap()
	require.Len(t, segs, 1)
	assert.Equal(t, Segment{Start: 0, Size: 1024, Owner: FreeOwner}, segs[0])
	assert.Equal(t, 1024, m.AvailableMemory())
	assert.Equal(t, 0, m.Statistics().AllocationCount)
	assert.Len(t, m.History(), 1, "reset restarts the history")
	assertInvariants(t, m)
}

func TestAddress_ResolvesLiveAllocations(t *testing.T) {
	m := newTestManager(t, 1024)
	mustAllocate(t, m, FirstFit, "P1", 256)

	addr, ok := m.Address("P1")
	require.True(t, ok)
	assert.Equal(t, 0, addr)

	_, ok = m.Address("P2")
	assert.False(t, ok)

	require.NoError(t, m.Release("P1"))
	_, ok = m.Address("P1")
	assert.False(t, ok, "released ids must not resolve")
}
