package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestManager creates a manager and fails the test on error.
func newTestManager(t *testing.T, total int) *Manager {
	t.Helper()
	m, err := New(total)
	require.NoError(t, err)
	return m
}

// mustAllocate allocates and fails the test on error.
func mustAllocate(t *testing.T, m *Manager, s Strategy, id string, size int) int {
	t.Helper()
	addr, err := m.Allocate(s, Request{ID: id, Size: size})
	require.NoError(t, err, "allocate %s (%d bytes)", id, size)
	return addr
}

// assertInvariants checks the ledger coverage invariants, conservation of
// available memory, index consistency, and cursor bounds. It does not check
// for adjacent free segments: buddy splitting legitimately leaves them until
// the next release (see assertCoalesced).
func assertInvariants(t *testing.T, m *Manager) {
	t.Helper()

	require.NoError(t, m.ledger.validate(), "ledger coverage invariants")

	owned := 0
	ownedCount := 0
	for _, seg := range m.ledger.segments {
		if !seg.IsFree() {
			owned += seg.Size
			ownedCount++
		}
	}
	require.Equal(t, m.total-owned, m.available,
		"available memory must equal total minus owned bytes")
	require.Len(t, m.index, ownedCount,
		"allocation index must have one entry per owned segment")

	for id, seg := range m.index {
		require.Equal(t, id, seg.Owner, "index entry %s must reference its own segment", id)
		found := false
		for _, ls := range m.ledger.segments {
			if ls == seg {
				found = true
				break
			}
		}
		require.True(t, found, "index entry %s must reference a segment present in the ledger", id)
		require.Contains(t, m.requested, id, "logical size side table must cover %s", id)
	}

	require.GreaterOrEqual(t, m.cursor, 0)
	require.Less(t, m.cursor, len(m.ledger.segments), "cursor must stay inside the ledger")
}

// assertCoalesced checks the post-release invariant: no two adjacent FREE
// segments.
func assertCoalesced(t *testing.T, m *Manager) {
	t.Helper()
	for i := 0; i < len(m.ledger.segments)-1; i++ {
		curr, next := m.ledger.segments[i], m.ledger.segments[i+1]
		require.False(t, curr.IsFree() && next.IsFree(),
			"adjacent free segments at %d and %d", curr.Start, next.Start)
	}
}
