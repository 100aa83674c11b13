// Package config defines the YAML configuration for the converter and its
// supporting services. Flags override file settings; defaults cover the rest.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	defaults "github.com/andydardgallard/ohlcvstore/config"
)

// Config represents the complete converter configuration.
type Config struct {
	// Conversion configures CSV to binary conversion.
	Conversion ConversionConfig `yaml:"conversion"`

	// Export configures Parquet export of resampled bars.
	Export ExportConfig `yaml:"export"`

	// Query configures the SQL query service.
	Query QueryConfig `yaml:"query"`

	// Inspect configures dataset inspection.
	Inspect InspectConfig `yaml:"inspect"`
}

// ConversionConfig configures CSV to binary conversion.
type ConversionConfig struct {
	// Layout is the dataset layout: aos or soa.
	Layout string `yaml:"layout"`

	// Workers is the number of parallel conversion workers.
	// Zero means one worker per CPU.
	Workers int `yaml:"workers"`
}

// ExportConfig configures Parquet export of resampled bars.
type ExportConfig struct {
	// Compression configures Parquet compression.
	Compression CompressionConfig `yaml:"compression"`
}

// CompressionConfig configures Parquet compression.
type CompressionConfig struct {
	// Algorithm is the compression algorithm: snappy, zstd, lz4, gzip, none.
	Algorithm string `yaml:"algorithm"`

	// Level is the compression level (for zstd: 1-22).
	Level int `yaml:"level"`
}

// QueryConfig configures the SQL query service.
type QueryConfig struct {
	// MemoryLimit is the DuckDB memory limit. Empty uses the DuckDB default.
	MemoryLimit string `yaml:"memory_limit"`
}

// InspectConfig configures dataset inspection.
type InspectConfig struct {
	// PreviewRows is the number of bars printed per dataset in check mode.
	PreviewRows int `yaml:"preview_rows"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Conversion: ConversionConfig{
			Layout:  defaults.DefaultLayout,
			Workers: defaults.DefaultWorkers,
		},
		Export: ExportConfig{
			Compression: CompressionConfig{
				Algorithm: defaults.DefaultCompressionAlgorithm,
				Level:     defaults.DefaultCompressionLevel,
			},
		},
		Query: QueryConfig{
			MemoryLimit: defaults.DefaultQueryMemoryLimit,
		},
		Inspect: InspectConfig{
			PreviewRows: defaults.DefaultPreviewRows,
		},
	}
}
