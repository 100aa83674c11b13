// Package stats computes summary statistics for a stored dataset,
// including DDSketch-based volume percentiles. Used by the inspection
// path to report on converted files.
package stats

import (
	"math"

	"github.com/DataDog/sketches-go/ddsketch"

	"github.com/andydardgallard/ohlcvstore/internal/storage/resample"
)

// defaultAccuracy is the DDSketch relative accuracy (1% error).
const defaultAccuracy = 0.01

// DatasetStats summarizes one dataset.
type DatasetStats struct {
	Rows int

	// Observed timestamp range (first and last row, ingestion order)
	FirstTs uint64
	LastTs  uint64

	// Price range across all rows (min of lows, max of highs)
	PriceLow  float64
	PriceHigh float64

	// Volume statistics
	VolumeTotal uint64
	VolumeAvg   float64

	// Volume percentiles (nil if no rows or sketch unavailable)
	VolP50 *float64
	VolP90 *float64
	VolP95 *float64
	VolP99 *float64
}

// HasPercentiles returns true if percentile data is available.
func (s *DatasetStats) HasPercentiles() bool {
	return s.VolP50 != nil
}

// Collect scans the dataset view and computes its summary statistics.
func Collect(src resample.Source) *DatasetStats {
	return CollectWithAccuracy(src, defaultAccuracy)
}

// CollectWithAccuracy computes statistics with a custom DDSketch
// relative accuracy.
func CollectWithAccuracy(src resample.Source, accuracy float64) *DatasetStats {
	s := &DatasetStats{
		Rows:     src.Len(),
		PriceLow: math.MaxFloat64,
	}
	if s.Rows == 0 {
		s.PriceLow = 0
		return s
	}

	sketch, err := ddsketch.NewDefaultDDSketch(accuracy)
	if err != nil {
		sketch = nil
	}

	for i := 0; i < s.Rows; i++ {
		rec := src.At(i)

		if i == 0 {
			s.FirstTs = rec.Timestamp
		}
		s.LastTs = rec.Timestamp

		if rec.Low < s.PriceLow {
			s.PriceLow = rec.Low
		}
		if rec.High > s.PriceHigh {
			s.PriceHigh = rec.High
		}

		s.VolumeTotal += rec.Volume
		if sketch != nil {
			sketch.Add(float64(rec.Volume))
		}
	}

	s.VolumeAvg = float64(s.VolumeTotal) / float64(s.Rows)

	if sketch != nil {
		p50, err50 := sketch.GetValueAtQuantile(0.50)
		p90, err90 := sketch.GetValueAtQuantile(0.90)
		p95, err95 := sketch.GetValueAtQuantile(0.95)
		p99, err99 := sketch.GetValueAtQuantile(0.99)
		if err50 == nil && err90 == nil && err95 == nil && err99 == nil {
			s.VolP50 = &p50
			s.VolP90 = &p90
			s.VolP95 = &p95
			s.VolP99 = &p99
		}
	}

	return s
}
