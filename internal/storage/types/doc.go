// Package types defines the core data types used throughout the storage system.
//
// Key types:
//   - Record: A single OHLCV row in a dataset
//   - Bar: An aggregated OHLCV bar produced by resampling
//   - Layout: Physical dataset encoding (row- or column-oriented)
//   - FullIndex: The companion index (time, daily, timeframe)
package types
