// Package config provides configuration defaults for the ohlcvstore tools.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via config.yaml or command-line flags.
package config

// =============================================================================
// Conversion Defaults
// =============================================================================

const (
	// DefaultLayout is the binary dataset layout: aos (row-oriented) or
	// soa (column-oriented).
	// Override via config: conversion.layout or the -layout flag.
	DefaultLayout = "aos"

	// DefaultWorkers is the conversion worker count. Zero means one worker
	// per CPU; requests above the CPU count are capped.
	// Override via config: conversion.workers or the -threads flag.
	DefaultWorkers = 0
)

// =============================================================================
// Inspection Defaults
// =============================================================================

const (
	// DefaultPreviewRows is the number of bars printed per dataset in
	// check mode.
	// Override via config: inspect.preview_rows
	DefaultPreviewRows = 5
)

// =============================================================================
// Export Defaults
// =============================================================================

const (
	// DefaultCompressionAlgorithm is the Parquet compression algorithm.
	// One of: snappy, zstd, lz4, gzip, none.
	// Override via config: export.compression.algorithm
	DefaultCompressionAlgorithm = "zstd"

	// DefaultCompressionLevel is the zstd compression level (1-22).
	// Override via config: export.compression.level
	DefaultCompressionLevel = 3
)

// =============================================================================
// Query Defaults
// =============================================================================

const (
	// DefaultQueryMemoryLimit is the DuckDB memory limit. Empty uses the
	// DuckDB default.
	// Override via config: query.memory_limit
	DefaultQueryMemoryLimit = ""
)

// =============================================================================
// Logging Defaults
// =============================================================================

const (
	// DefaultLogLevel is the minimum log level: debug, info, warn, error.
	// Override via the -log-level flag.
	DefaultLogLevel = "info"
)
