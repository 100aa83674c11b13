package resample

import (
	"reflect"
	"testing"

	"github.com/andydardgallard/ohlcvstore/internal/storage/binfile"
	"github.com/andydardgallard/ohlcvstore/internal/storage/index"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// source builds an in-memory dataset view from records, exercising the
// real encoder and reader rather than a stub.
func source(t *testing.T, records []types.Record, layout types.Layout) Source {
	t.Helper()
	r, err := binfile.NewReader(binfile.Encode(records, layout), layout)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	return r
}

func timeIndexFor(records []types.Record) []types.TimeIndexEntry {
	entries := make([]types.TimeIndexEntry, len(records))
	for i, r := range records {
		entries[i] = types.TimeIndexEntry{Timestamp: r.Timestamp, Position: uint64(i)}
	}
	return entries
}

func TestFixedInterval_MergesBuckets(t *testing.T) {
	// Records at 0, 30 and 65 seconds: a 60s interval yields two bars;
	// the first merges the records at 0 and 30, the second holds only
	// the record at 65.
	records := []types.Record{
		{Timestamp: 0, Open: 10, High: 15, Low: 9, Close: 12, Volume: 100},
		{Timestamp: 30, Open: 12, High: 20, Low: 8, Close: 18, Volume: 50},
		{Timestamp: 65, Open: 18, High: 19, Low: 17, Close: 17, Volume: 25},
	}

	for _, layout := range []types.Layout{types.LayoutRowOriented, types.LayoutColumnOriented} {
		bars := FixedInterval(source(t, records, layout), timeIndexFor(records), 60)

		want := []types.Bar{
			{Timestamp: 0, Open: 10, High: 20, Low: 8, Close: 18, Volume: 150},
			{Timestamp: 60, Open: 18, High: 19, Low: 17, Close: 17, Volume: 25},
		}
		if !reflect.DeepEqual(bars, want) {
			t.Fatalf("%s:\n got %+v\nwant %+v", layout, bars, want)
		}
	}
}

func TestFixedInterval_AggregationInvariants(t *testing.T) {
	records := []types.Record{
		{Timestamp: 120, Open: 5, High: 7, Low: 4, Close: 6, Volume: 10},
		{Timestamp: 150, Open: 6, High: 9, Low: 3, Close: 8, Volume: 20},
		{Timestamp: 179, Open: 8, High: 8, Low: 2, Close: 2, Volume: 30},
	}

	bars := FixedInterval(source(t, records, types.LayoutRowOriented), timeIndexFor(records), 60)
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}

	bar := bars[0]
	if bar.Open != records[0].Open {
		t.Errorf("open = %v, want first record's open %v", bar.Open, records[0].Open)
	}
	if bar.Close != records[2].Close {
		t.Errorf("close = %v, want last record's close %v", bar.Close, records[2].Close)
	}
	if bar.High != 9 {
		t.Errorf("high = %v, want 9", bar.High)
	}
	if bar.Low != 2 {
		t.Errorf("low = %v, want 2", bar.Low)
	}
	if bar.Volume != 60 {
		t.Errorf("volume = %v, want 60", bar.Volume)
	}
}

func TestFixedInterval_SkipsOutOfRangePositions(t *testing.T) {
	records := []types.Record{
		{Timestamp: 0, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1},
	}
	// Index claims more rows than the data holds; the extra entries
	// must be skipped without panicking or emitting bars.
	timeIndex := append(timeIndexFor(records),
		types.TimeIndexEntry{Timestamp: 60, Position: 7},
		types.TimeIndexEntry{Timestamp: 120, Position: 8},
	)

	bars := FixedInterval(source(t, records, types.LayoutRowOriented), timeIndex, 60)
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
}

func TestFixedInterval_Empty(t *testing.T) {
	bars := FixedInterval(source(t, nil, types.LayoutRowOriented), nil, 60)
	if len(bars) != 0 {
		t.Fatalf("expected no bars, got %d", len(bars))
	}
}

func TestDaily_TwoDays(t *testing.T) {
	// Last record of day one at 23:59:59Z, first of day two at
	// 00:00:01Z: exactly two daily bars, each from its own range.
	records := []types.Record{
		{Timestamp: 1752019140, Open: 10, High: 12, Low: 9, Close: 11, Volume: 5},
		{Timestamp: 1752019199, Open: 11, High: 14, Low: 10, Close: 13, Volume: 7},
		{Timestamp: 1752019201, Open: 13, High: 13, Low: 8, Close: 9, Volume: 11},
	}
	daily := []types.DailyIndexEntry{
		{Date: "2025-07-08", Start: 0, End: 1},
		{Date: "2025-07-09", Start: 2, End: 2},
	}

	bars, err := Daily(source(t, records, types.LayoutColumnOriented), daily)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}

	want := []types.Bar{
		{Timestamp: 1751932800, Open: 10, High: 14, Low: 9, Close: 13, Volume: 12},
		{Timestamp: 1752019200, Open: 13, High: 13, Low: 8, Close: 9, Volume: 11},
	}
	if !reflect.DeepEqual(bars, want) {
		t.Fatalf("got %+v\nwant %+v", bars, want)
	}
}

func TestDaily_SkipsBrokenEntries(t *testing.T) {
	records := []types.Record{
		{Timestamp: 1751932800, Open: 1, High: 2, Low: 1, Close: 2, Volume: 3},
	}
	daily := []types.DailyIndexEntry{
		{Date: "2025-07-01", Start: 5, End: 2}, // inverted
		{Date: "2025-07-02", Start: 0, End: 9}, // end out of range
		{Date: "2025-07-03", Start: 4, End: 4}, // start out of range
		{Date: "2025-07-08", Start: 0, End: 0}, // valid
	}

	bars, err := Daily(source(t, records, types.LayoutRowOriented), daily)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	if bars[0].Timestamp != 1751932800 {
		t.Errorf("timestamp = %d, want 1751932800", bars[0].Timestamp)
	}
}

func TestDaily_BadDateKey(t *testing.T) {
	records := []types.Record{
		{Timestamp: 0, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1},
	}
	daily := []types.DailyIndexEntry{{Date: "not-a-date", Start: 0, End: 0}}

	if _, err := Daily(source(t, records, types.LayoutRowOriented), daily); err == nil {
		t.Fatal("expected error for malformed date key")
	}
}

func TestDaily_Empty(t *testing.T) {
	bars, err := Daily(source(t, nil, types.LayoutColumnOriented), nil)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(bars) != 0 {
		t.Fatalf("expected no bars, got %d", len(bars))
	}
}

func TestByTimeframe_EndToEnd(t *testing.T) {
	b := index.NewBuilder()
	records := []types.Record{
		{Open: 10, High: 11, Low: 9, Close: 10, Volume: 1},
		{Open: 10, High: 12, Low: 8, Close: 11, Volume: 2},
		{Open: 11, High: 11, Low: 7, Close: 9, Volume: 3},
	}
	for i, pair := range [][2]string{
		{"20250708", "090000"},
		{"20250708", "090130"},
		{"20250709", "090000"},
	} {
		ts, err := b.Add(pair[0], pair[1])
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		records[i].Timestamp = ts
	}
	idx := b.Finish()
	src := source(t, records, types.LayoutColumnOriented)

	tf, err := types.ParseResampleLabel("2min")
	if err != nil {
		t.Fatalf("ParseResampleLabel: %v", err)
	}
	bars, err := ByTimeframe(src, idx, tf)
	if err != nil {
		t.Fatalf("ByTimeframe(2min): %v", err)
	}
	// 09:00:00 and 09:01:30 share the 120s bucket; the next day's record
	// stands alone.
	if len(bars) != 2 {
		t.Fatalf("2min: expected 2 bars, got %d", len(bars))
	}
	if bars[0].Volume != 3 || bars[1].Volume != 3 {
		t.Errorf("2min volumes = %d, %d; want 3, 3", bars[0].Volume, bars[1].Volume)
	}

	tf, err = types.ParseResampleLabel("1d")
	if err != nil {
		t.Fatalf("ParseResampleLabel: %v", err)
	}
	bars, err = ByTimeframe(src, idx, tf)
	if err != nil {
		t.Fatalf("ByTimeframe(1d): %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("1d: expected 2 bars, got %d", len(bars))
	}
	if bars[0].Open != 10 || bars[0].Close != 11 || bars[0].Low != 8 {
		t.Errorf("1d first bar = %+v", bars[0])
	}
}
