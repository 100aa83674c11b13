package types

// TimeIndexEntry maps a record timestamp to its row position in the
// dataset buffer. Entries are emitted in ingestion order; downstream
// consumers assume (and do not verify) non-decreasing timestamps.
type TimeIndexEntry struct {
	Timestamp uint64
	Position  uint64
}

// DailyIndexEntry is the inclusive row range covering one UTC calendar
// day. Date is the day key ("2006-01-02").
type DailyIndexEntry struct {
	Date  string
	Start uint64
	End   uint64
}

// Rows returns the number of rows covered by the entry.
func (e DailyIndexEntry) Rows() uint64 {
	if e.End < e.Start {
		return 0
	}
	return e.End - e.Start + 1
}

// FullIndex is the companion index persisted once per dataset.
// It is immutable after creation; regeneration is the only mutation path.
type FullIndex struct {
	// Time holds one entry per record, in ingestion order.
	Time []TimeIndexEntry

	// Daily partitions [0, N-1] into per-day inclusive ranges,
	// ascending by date.
	Daily []DailyIndexEntry

	// Timeframe maps a timeframe label to the exhaustive ordered list
	// of bucket-start timestamps between the dataset's min and max
	// timestamp, gap-free regardless of data presence.
	Timeframe map[string][]uint64
}

// Len returns the number of indexed records.
func (idx *FullIndex) Len() int {
	return len(idx.Time)
}
