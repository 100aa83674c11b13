package types

import "time"

// Record represents a single OHLCV row as stored in a dataset.
// This is the primary data unit flowing through the storage system.
type Record struct {
	// Timestamp is the bar start time as Unix seconds (UTC).
	Timestamp uint64

	// Price fields
	Open  float64
	High  float64
	Low   float64
	Close float64

	// Volume is the traded volume during the bar period.
	Volume uint64
}

// Time returns the record timestamp as a time.Time in UTC.
func (r Record) Time() time.Time {
	return time.Unix(int64(r.Timestamp), 0).UTC()
}

// Day returns the UTC calendar day key for this record ("2006-01-02").
func (r Record) Day() string {
	return r.Time().Format("2006-01-02")
}

// Bar represents a single aggregated OHLCV bar produced by resampling.
// Timestamp is the bucket start (Unix seconds, UTC).
type Bar struct {
	Timestamp uint64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    uint64
}

// Time returns the bucket start as a time.Time in UTC.
func (b Bar) Time() time.Time {
	return time.Unix(int64(b.Timestamp), 0).UTC()
}

// Fold merges a record into the bar. The bar's open is preserved,
// high/low are widened, close tracks the latest record and volume
// accumulates. The caller is responsible for bucket membership.
func (b *Bar) Fold(r Record) {
	if r.High > b.High {
		b.High = r.High
	}
	if r.Low < b.Low {
		b.Low = r.Low
	}
	b.Close = r.Close
	b.Volume += r.Volume
}

// NewBar seeds a bar from its first contributing record.
func NewBar(bucketStart uint64, r Record) Bar {
	return Bar{
		Timestamp: bucketStart,
		Open:      r.Open,
		High:      r.High,
		Low:       r.Low,
		Close:     r.Close,
		Volume:    r.Volume,
	}
}
