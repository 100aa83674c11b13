// Package index builds and persists the companion index for a dataset:
// a per-record time index, per-day inclusive row ranges, and exhaustive
// bucket boundary lists for every supported timeframe.
package index

import (
	"fmt"
	"time"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// datetimeLayout is the input datetime format: "20060102 150405" (UTC).
const datetimeLayout = "20060102 150405"

// ParseDateTime combines the raw date and time strings of an input row
// into a Unix timestamp (seconds, UTC).
func ParseDateTime(dateStr, timeStr string) (uint64, error) {
	dt, err := time.Parse(datetimeLayout, dateStr+" "+timeStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q %q: %v", errors.ErrBadDateTime, dateStr, timeStr, err)
	}
	return uint64(dt.Unix()), nil
}

// Builder is a single-pass streaming index builder. Rows are appended in
// arrival order; the builder trusts but does not verify non-decreasing
// timestamps. Finish closes the open day accumulator and derives the
// timeframe boundary lists.
type Builder struct {
	next uint64 // position of the next appended row

	timeIndex  []types.TimeIndexEntry
	dailyIndex []types.DailyIndexEntry

	// Current-day accumulator
	curDay   string
	dayStart uint64

	// Observed timestamp range
	minTs uint64
	maxTs uint64
}

// NewBuilder creates an empty index builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add parses the row's date and time strings and appends the resulting
// timestamp. It returns the timestamp so callers can build the storage
// record from the same parse. A malformed date or time aborts the whole
// file's conversion; there is no partial recovery.
func (b *Builder) Add(dateStr, timeStr string) (uint64, error) {
	ts, err := ParseDateTime(dateStr, timeStr)
	if err != nil {
		return 0, err
	}
	b.Append(ts)
	return ts, nil
}

// Append appends a pre-parsed timestamp at the next row position,
// folding it into the time index and the current-day accumulator.
func (b *Builder) Append(ts uint64) {
	pos := b.next
	b.next++

	b.timeIndex = append(b.timeIndex, types.TimeIndexEntry{
		Timestamp: ts,
		Position:  pos,
	})

	day := time.Unix(int64(ts), 0).UTC().Format("2006-01-02")
	if b.curDay == "" {
		b.curDay = day
		b.dayStart = pos
	} else if day != b.curDay {
		b.dailyIndex = append(b.dailyIndex, types.DailyIndexEntry{
			Date:  b.curDay,
			Start: b.dayStart,
			End:   pos - 1,
		})
		b.curDay = day
		b.dayStart = pos
	}

	if pos == 0 || ts < b.minTs {
		b.minTs = ts
	}
	if ts > b.maxTs {
		b.maxTs = ts
	}
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int {
	return int(b.next)
}

// Finish closes the open day accumulator and returns the full index.
// Empty input yields empty indices, not an error.
func (b *Builder) Finish() *types.FullIndex {
	idx := &types.FullIndex{
		Time:      b.timeIndex,
		Daily:     b.dailyIndex,
		Timeframe: make(map[string][]uint64, len(types.Timeframes)),
	}

	if b.curDay != "" {
		idx.Daily = append(idx.Daily, types.DailyIndexEntry{
			Date:  b.curDay,
			Start: b.dayStart,
			End:   b.next - 1,
		})
	}

	// Exhaustive boundary lists: every multiple of the bucket length in
	// [floor(min/L)*L, floor(max/L)*L], gap-free regardless of data
	// presence, so consumers can enumerate expected buckets.
	if b.next > 0 {
		for _, tf := range types.Timeframes {
			start := b.minTs / tf.Seconds * tf.Seconds
			end := b.maxTs / tf.Seconds * tf.Seconds

			boundaries := make([]uint64, 0, (end-start)/tf.Seconds+1)
			for ts := start; ts <= end; ts += tf.Seconds {
				boundaries = append(boundaries, ts)
			}
			idx.Timeframe[tf.Label] = boundaries
		}
	}

	return idx
}
