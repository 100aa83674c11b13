// Package resample aggregates stored OHLCV records into coarser bars.
//
// Both algorithms are pure functions over a dataset view plus a
// precomputed index. They perform a single stable left-to-right merge:
// bars are emitted in index order and never reordered or re-bucketed.
package resample

import (
	"fmt"
	"time"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// Source is the read view the resampler consumes: O(1) random access to
// logical rows. *binfile.Reader satisfies it.
type Source interface {
	Len() int
	At(i int) types.Record
}

// FixedInterval aggregates records into fixed-width buckets of
// intervalSec seconds, scanning the time index in the order given.
// Ascending order is a caller obligation; it is trusted, not verified.
// Entries pointing past the end of the data are skipped silently, so a
// stale index paired with shorter data degrades instead of failing.
func FixedInterval(src Source, timeIndex []types.TimeIndexEntry, intervalSec uint64) []types.Bar {
	var bars []types.Bar
	var current *types.Bar

	n := uint64(src.Len())
	for _, entry := range timeIndex {
		if entry.Position >= n {
			continue
		}

		rec := src.At(int(entry.Position))
		bucket := rec.Timestamp - rec.Timestamp%intervalSec

		if current != nil && current.Timestamp == bucket {
			current.Fold(rec)
			continue
		}

		if current != nil {
			bars = append(bars, *current)
		}
		b := types.NewBar(bucket, rec)
		current = &b
	}

	if current != nil {
		bars = append(bars, *current)
	}

	return bars
}

// Daily aggregates records into calendar-day bars using the daily index.
// Each bar's timestamp is the entry's date at UTC midnight. Entries with
// inverted or out-of-range row positions are skipped silently; indices
// and data files could in principle be regenerated or paired
// inconsistently, and a mismatch is not worth failing the whole read.
func Daily(src Source, dailyIndex []types.DailyIndexEntry) ([]types.Bar, error) {
	var bars []types.Bar

	n := uint64(src.Len())
	for _, entry := range dailyIndex {
		if entry.Start > entry.End || entry.Start >= n || entry.End >= n {
			continue
		}

		midnight, err := parseDay(entry.Date)
		if err != nil {
			return nil, err
		}

		bar := types.NewBar(midnight, src.At(int(entry.Start)))
		for i := entry.Start + 1; i <= entry.End; i++ {
			bar.Fold(src.At(int(i)))
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// ByTimeframe dispatches to the daily or fixed-interval algorithm for
// the given timeframe.
func ByTimeframe(src Source, idx *types.FullIndex, tf types.Timeframe) ([]types.Bar, error) {
	if tf.IsDaily() {
		return Daily(src, idx.Daily)
	}
	return FixedInterval(src, idx.Time, tf.Seconds), nil
}

// parseDay parses a daily index date key back to UTC midnight.
func parseDay(date string) (uint64, error) {
	dt, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("%w: daily index date %q: %v", errors.ErrBadDateTime, date, err)
	}
	return uint64(dt.Unix()), nil
}
