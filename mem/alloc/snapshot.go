package alloc

// SegmentState is the persisted form of one ledger segment.
type SegmentState struct {
	Start int    `json:"start"`
	Size  int    `json:"size"`
	Owner string `json:"owner"`
}

// RequestRecord is the persisted metadata of one successful allocation.
// Arrival time and duration are workload attributes the core carries through
// without interpreting.
type RequestRecord struct {
	ID          string  `json:"id"`
	Size        int     `json:"size"`
	ArrivalTime float64 `json:"arrival_time"`
	Duration    float64 `json:"duration"`
}

// Document is the exported state: the ledger in address order plus the
// request history. Importing an exported document reproduces the exact
// (start, size, owner) tuples and allocation-index size of the source.
type Document struct {
	Segments []SegmentState  `json:"segments"`
	Requests []RequestRecord `json:"requests"`
}

// ExportState captures the current ledger and request history.
func (m *Manager) ExportState() Document {
	doc := Document{
		Segments: make([]SegmentState, len(m.ledger.segments)),
		Requests: make([]RequestRecord, len(m.requests)),
	}
	for i, seg := range m.ledger.segments {
		doc.Segments[i] = SegmentState{Start: seg.Start, Size: seg.Size, Owner: seg.Owner}
	}
	copy(doc.Requests, m.requests)
	return doc
}

// ImportState replaces the manager state with the document contents. The
// segment list must satisfy the coverage invariants (sorted, contiguous from
// address 0, positive sizes, unique owners); otherwise ErrMalformedState is
// returned and the manager is left unchanged. Offsets and sizes are adopted
// byte for byte; the fragmentation history restarts with one snapshot of the
// imported state.
func (m *Manager) ImportState(doc Document) error {
	segments := make([]*Segment, len(doc.Segments))
	total := 0
	for i, s := range doc.Segments {
		segments[i] = &Segment{Start: s.Start, Size: s.Size, Owner: s.Owner}
		total += s.Size
	}
	next := &ledger{total: total, segments: segments}
	if err := next.validate(); err != nil {
		return ErrMalformedState
	}

	// Logical request sizes come from the request history where available;
	// a segment without a matching record counts as exactly fitted.
	logical := make(map[string]int, len(doc.Requests))
	for _, r := range doc.Requests {
		logical[r.ID] = r.Size
	}

	index := make(map[string]*Segment)
	requested := make(map[string]int)
	owned := 0
	for _, seg := range segments {
		if seg.IsFree() {
			continue
		}
		index[seg.Owner] = seg
		owned += seg.Size
		if size, ok := logical[seg.Owner]; ok {
			requested[seg.Owner] = size
		} else {
			requested[seg.Owner] = seg.Size
		}
	}

	m.total = total
	m.available = total - owned
	m.ledger = next
	m.index = index
	m.requested = requested
	m.requests = append([]RequestRecord(nil), doc.Requests...)
	m.history = nil
	m.allocs = len(doc.Requests)
	m.cursor = 0
	m.snapshot()
	return nil
}
