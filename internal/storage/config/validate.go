package config

import (
	"fmt"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
)

// Validate checks the configuration for errors. A failure always wraps
// ErrInvalidConfig so callers can match the category.
func (c *Config) Validate() error {
	var errs []error

	// Conversion
	if err := c.Conversion.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("conversion: %w", err))
	}

	// Export
	if err := c.Export.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("export: %w", err))
	}

	// Inspect
	if err := c.Inspect.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("inspect: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{errors.ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// Validate checks the conversion configuration.
func (c *ConversionConfig) Validate() error {
	var errs []error

	validLayouts := map[string]bool{
		"aos": true,
		"soa": true,
		"":    true, // Empty defaults to aos
	}
	if !validLayouts[c.Layout] {
		errs = append(errs, errors.New("layout must be one of: aos, soa"))
	}

	if c.Workers < 0 {
		errs = append(errs, errors.New("workers must be non-negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the export configuration.
func (c *ExportConfig) Validate() error {
	var errs []error

	validAlgorithms := map[string]bool{
		"snappy": true,
		"zstd":   true,
		"lz4":    true,
		"gzip":   true,
		"none":   true,
		"":       true, // Empty defaults to zstd
	}
	if !validAlgorithms[c.Compression.Algorithm] {
		errs = append(errs, errors.New("compression.algorithm must be one of: snappy, zstd, lz4, gzip, none"))
	}

	if c.Compression.Algorithm == "zstd" && (c.Compression.Level < 0 || c.Compression.Level > 22) {
		errs = append(errs, errors.New("compression.level for zstd must be between 0 and 22"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks the inspect configuration.
func (c *InspectConfig) Validate() error {
	if c.PreviewRows <= 0 {
		return errors.New("preview_rows must be positive")
	}
	return nil
}
