package types

import (
	"testing"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
)

func TestRecordTimeAndDay(t *testing.T) {
	r := Record{Timestamp: 1751965200} // 2025-07-08 09:00:00 UTC

	if got := r.Time().Format("20060102 150405"); got != "20250708 090000" {
		t.Errorf("Time() = %s, want 20250708 090000", got)
	}
	if got := r.Day(); got != "2025-07-08" {
		t.Errorf("Day() = %s, want 2025-07-08", got)
	}
}

func TestBarFold(t *testing.T) {
	first := Record{Timestamp: 1751965200, Open: 100, High: 102, Low: 99, Close: 101, Volume: 500}
	b := NewBar(1751965200, first)

	if b.Open != 100 || b.High != 102 || b.Low != 99 || b.Close != 101 || b.Volume != 500 {
		t.Fatalf("NewBar seeded wrong: %+v", b)
	}

	b.Fold(Record{Timestamp: 1751965230, Open: 101, High: 105, Low: 98, Close: 104, Volume: 300})

	if b.Open != 100 {
		t.Errorf("fold must preserve open, got %f", b.Open)
	}
	if b.High != 105 || b.Low != 98 {
		t.Errorf("fold must widen high/low, got high=%f low=%f", b.High, b.Low)
	}
	if b.Close != 104 {
		t.Errorf("fold must track latest close, got %f", b.Close)
	}
	if b.Volume != 800 {
		t.Errorf("fold must accumulate volume, got %d", b.Volume)
	}

	// A record inside the existing range leaves high/low alone
	b.Fold(Record{Open: 102, High: 103, Low: 100, Close: 102, Volume: 200})
	if b.High != 105 || b.Low != 98 {
		t.Errorf("inner record must not narrow range, got high=%f low=%f", b.High, b.Low)
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in      string
		want    Layout
		wantErr bool
	}{
		{"aos", LayoutRowOriented, false},
		{"soa", LayoutColumnOriented, false},
		{"AOS", LayoutRowOriented, false},
		{"columnar", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLayout(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrUnknownLayout) {
				t.Errorf("ParseLayout(%q): expected ErrUnknownLayout, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseLayout(%q) = (%v, %v), want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestLayoutSuffix(t *testing.T) {
	if LayoutRowOriented.Suffix() != ".aos.bin" {
		t.Errorf("aos suffix = %s", LayoutRowOriented.Suffix())
	}
	if LayoutColumnOriented.Suffix() != ".soa.bin" {
		t.Errorf("soa suffix = %s", LayoutColumnOriented.Suffix())
	}
}

func TestLayoutFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		want   Layout
		wantOK bool
	}{
		{"SBER.aos.bin", LayoutRowOriented, true},
		{"SBER.soa.bin", LayoutColumnOriented, true},
		{"SBER.bin", 0, false},
		{"SBER.aos.idx", 0, false},
		{"SBER.csv", 0, false},
	}

	for _, tt := range tests {
		got, ok := LayoutFromFilename(tt.name)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("LayoutFromFilename(%s) = (%v, %v), want (%v, %v)",
				tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseResampleLabel(t *testing.T) {
	tests := []struct {
		in      string
		seconds uint64
		daily   bool
		wantErr bool
	}{
		{"1min", 60, false, false},
		{"2min", 120, false, false},
		{"5min", 300, false, false},
		{"1d", 86400, true, false},
		{"1m", 0, false, true}, // index label, not a request label
		{"7min", 0, false, true},
		{"", 0, false, true},
	}

	for _, tt := range tests {
		tf, err := ParseResampleLabel(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrUnknownTimeframe) {
				t.Errorf("ParseResampleLabel(%q): expected ErrUnknownTimeframe, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseResampleLabel(%q): %v", tt.in, err)
			continue
		}
		if tf.Seconds != tt.seconds || tf.IsDaily() != tt.daily {
			t.Errorf("ParseResampleLabel(%q) = %+v, want seconds=%d daily=%v",
				tt.in, tf, tt.seconds, tt.daily)
		}
	}
}

func TestDailyIndexEntryRows(t *testing.T) {
	tests := []struct {
		entry DailyIndexEntry
		want  uint64
	}{
		{DailyIndexEntry{Start: 0, End: 0}, 1},
		{DailyIndexEntry{Start: 3, End: 7}, 5},
		{DailyIndexEntry{Start: 7, End: 3}, 0}, // inverted range
	}

	for _, tt := range tests {
		if got := tt.entry.Rows(); got != tt.want {
			t.Errorf("Rows(%+v) = %d, want %d", tt.entry, got, tt.want)
		}
	}
}
