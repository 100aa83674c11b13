// Package storage groups the dataset storage layers of ohlcvstore.
//
// Architecture:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   binfile   │◀───▶│    index    │────▶│  resample   │
//	│ (aos/soa)   │     │   (.idx)    │     │  (bars)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	       │                                       │
//	       ▼                                       ▼
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│    stats    │     │    query    │◀────│   parquet   │
//	│ (DDSketch)  │     │  (DuckDB)   │     │  (export)   │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// The storage layers provide:
//   - Row-oriented (AOS) and column-oriented (SOA) binary datasets with
//     zero-copy mmap reads
//   - Companion index files (time, daily, timeframe) for seeking and
//     resampling without scanning the dataset
//   - Linear-merge resampling to fixed intervals and calendar days
//   - Parquet export of resampled bars with a DuckDB query engine on top
//   - DDSketch-based volume percentiles in dataset statistics
package storage
