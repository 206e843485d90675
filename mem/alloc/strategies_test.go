package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fragment fills the manager with count segments of the given size via
// first-fit and releases the ids named in frees, producing a deterministic
// pattern of free holes.
func fragment(t *testing.T, m *Manager, size, count int, frees ...string) {
	t.Helper()
	ids := make([]string, count)
	for i := range ids {
		ids[i] = string(rune('A' + i))
		mustAllocate(t, m, FirstFit, ids[i], size)
	}
	for _, id := range frees {
		require.NoError(t, m.Release(id))
	}
}

func TestFirstFit_SkipsTooSmallHoles(t *testing.T) {
	m := newTestManager(t, 1024)
	// [A 128][free 128][C 128][free 256][rest...]
	fragment(t, m, 128, 5, "B")
	require.NoError(t, m.Release("D"))
	require.NoError(t, m.Release("E")) // D+E+tail coalesce into 640 at 384

	// 200 does not fit the 128 hole at 128; first fit lands at 384.
	addr := mustAllocate(t, m, FirstFit, "P", 200)
	assert.Equal(t, 384, addr)
	assertInvariants(t, m)
}

func TestBestFit_MinimizesLeftover(t *testing.T) {
	m := newTestManager(t, 1024)
	// Holes: 128 at 128, 256 at 384 (C+D coalesced), tail 256 at 768.
	fragment(t, m, 128, 6, "B", "D", "E")

	// 100 fits all holes; the 128 hole wastes least.
	addr := mustAllocate(t, m, BestFit, "P", 100)
	assert.Equal(t, 128, addr)
	assertInvariants(t, m)
}

func TestBestFit_TieKeepsEarliest(t *testing.T) {
	m := newTestManager(t, 1024)
	// Fill completely with four 256-byte segments, then open two equal holes.
	fragment(t, m, 256, 4, "A", "C")

	addr := mustAllocate(t, m, BestFit, "P", 100)
	assert.Equal(t, 0, addr, "first of two equally tight holes wins")
	assertInvariants(t, m)
}

func TestWorstFit_PicksLargestHole(t *testing.T) {
	m := newTestManager(t, 1024)
	// Holes: 128 at 128, tail 384 at 640.
	fragment(t, m, 128, 5, "B")

	addr := mustAllocate(t, m, WorstFit, "P", 100)
	assert.Equal(t, 640, addr)
	assertInvariants(t, m)
}

func TestWorstFit_TieKeepsEarliest(t *testing.T) {
	m := newTestManager(t, 1024)
	fragment(t, m, 256, 4, "B", "D")

	// Two equal 256 holes at 256 and 768; strict greater-than keeps the first.
	addr := mustAllocate(t, m, WorstFit, "P", 100)
	assert.Equal(t, 256, addr)
	assertInvariants(t, m)
}

func TestNextFit_ResumesFromCursor(t *testing.T) {
	m := newTestManager(t, 1024)

	// Each allocation advances the cursor past the committed segment.
	assert.Equal(t, 0, mustAllocate(t, m, NextFit, "P1", 64))
	assert.Equal(t, 64, mustAllocate(t, m, NextFit, "P2", 64))
	assert.Equal(t, 128, mustAllocate(t, m, NextFit, "P3", 64))

	// Free a hole before the cursor; next-fit must not go back to it while
	// the tail still fits.
	require.NoError(t, m.Release("P1"))
	assert.Equal(t, 192, mustAllocate(t, m, NextFit, "P4", 64))

	// Exhaust the tail; the scan wraps and finds the hole at 0.
	assert.Equal(t, 256, mustAllocate(t, m, NextFit, "P5", 768))
	assert.Equal(t, 0, mustAllocate(t, m, NextFit, "P6", 64))
	assertInvariants(t, m)
}

func TestNextFit_VisitsEachSegmentOnce(t *testing.T) {
	m := newTestManager(t, 1024)
	mustAllocate(t, m, NextFit, "P1", 512)
	mustAllocate(t, m, NextFit, "P2", 512)

	_, err := m.Allocate(NextFit, Request{ID: "P3", Size: 1})
	assert.ErrorIs(t, err, ErrOutOfMemory, "full circular scan must terminate")
	assertInvariants(t, m)
}

// Coalescing can shrink the ledger below the cursor position; the cursor
// clamps to the last segment instead of wrapping to an unrelated index.
func TestNextFit_CursorClampAfterRelease(t *testing.T) {
	m := newTestManager(t, 1024)
	mustAllocate(t, m, NextFit, "P1", 64)
	mustAllocate(t, m, NextFit, "P2", 64)
	mustAllocate(t, m, NextFit, "P3", 64)
	require.Equal(t, 3, m.cursor)

	// Releasing P2 then P3 merges them with the tail: [P1][960 FREE].
	require.NoError(t, m.Release("P2"))
	require.NoError(t, m.Release("P3"))
	require.Len(t, m.MemoryMap(), 2)
	assert.Equal(t, 1, m.cursor, "cursor clamps to the last segment")

	addr := mustAllocate(t, m, NextFit, "P4", 100)
	assert.Equal(t, 64, addr)
	assertInvariants(t, m)
}

func TestStrategies_FailWithoutMutation(t *testing.T) {
	for _, s := range Strategies {
		t.Run(s.String(), func(t *testing.T) {
			m := newTestManager(t, 512)
			mustAllocate(t, m, FirstFit, "P1", 200)
			before := m.MemoryMap()

			_, err := m.Allocate(s, Request{ID: "P2", Size: 5000})
			require.ErrorIs(t, err, ErrOutOfMemory)
			assert.Equal(t, before, m.MemoryMap(), "failed allocation must leave the ledger unchanged")
			assertInvariants(t, m)
		})
	}
}
