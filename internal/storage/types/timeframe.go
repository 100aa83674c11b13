package types

import (
	"fmt"
	"time"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
)

// Timeframe is one of the fixed aggregation granularities supported by
// the index and the resampler.
type Timeframe struct {
	// Label is the index key ("1m" ... "5m", "1d").
	Label string

	// Seconds is the bucket length.
	Seconds uint64
}

// Supported timeframes, in ascending bucket length. The daily timeframe
// is resampled via the daily index rather than fixed-width buckets.
var Timeframes = []Timeframe{
	{Label: "1m", Seconds: 60},
	{Label: "2m", Seconds: 120},
	{Label: "3m", Seconds: 180},
	{Label: "4m", Seconds: 240},
	{Label: "5m", Seconds: 300},
	{Label: "1d", Seconds: 86400},
}

// resampleLabels maps the request labels accepted at the CLI boundary to
// index timeframes.
var resampleLabels = map[string]Timeframe{
	"1min": {Label: "1m", Seconds: 60},
	"2min": {Label: "2m", Seconds: 120},
	"3min": {Label: "3m", Seconds: 180},
	"4min": {Label: "4m", Seconds: 240},
	"5min": {Label: "5m", Seconds: 300},
	"1d":   {Label: "1d", Seconds: 86400},
}

// ParseResampleLabel resolves a resample request label ("1min" ... "5min",
// "1d") to its timeframe. Unknown labels are rejected before any file is
// touched.
func ParseResampleLabel(s string) (Timeframe, error) {
	tf, ok := resampleLabels[s]
	if !ok {
		return Timeframe{}, fmt.Errorf("%w: %q (want 1min, 2min, 3min, 4min, 5min or 1d)", errors.ErrUnknownTimeframe, s)
	}
	return tf, nil
}

// ResampleLabels returns the accepted request labels in ascending bucket
// length.
func ResampleLabels() []string {
	return []string{"1min", "2min", "3min", "4min", "5min", "1d"}
}

// IsDaily reports whether this timeframe aggregates by calendar day.
func (t Timeframe) IsDaily() bool {
	return t.Label == "1d"
}

// Duration returns the bucket length as a time.Duration.
func (t Timeframe) Duration() time.Duration {
	return time.Duration(t.Seconds) * time.Second
}

// String returns the index label.
func (t Timeframe) String() string {
	return t.Label
}
