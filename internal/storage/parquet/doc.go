// Package parquet implements Parquet export and import of resampled bars.
//
// The package provides:
//   - BarWriter/BarReader for aggregated OHLCV bars
//   - Support for multiple compression algorithms (snappy, zstd, lz4, gzip)
//   - Type conversion between storage types and Parquet rows
//
// Exported files sit next to the dataset they were derived from and are
// queryable with the DuckDB-backed query service.
package parquet
