// Package converter turns a single OHLCV CSV file into a binary dataset
// plus its companion index file.
package converter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/andydardgallard/ohlcvstore/internal/csvio"
	"github.com/andydardgallard/ohlcvstore/internal/logging"
	"github.com/andydardgallard/ohlcvstore/internal/storage/binfile"
	"github.com/andydardgallard/ohlcvstore/internal/storage/index"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// Result describes a completed conversion.
type Result struct {
	InputPath  string
	OutputPath string
	IndexPath  string
	Rows       int
	Elapsed    time.Duration
}

// OutputPath derives the dataset path for an input CSV. The base name keeps
// the input's name with its extension replaced by the layout suffix, e.g.
// ticker.csv becomes ticker.aos.bin.
func OutputPath(inputPath, outputDir string, layout types.Layout) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, base+layout.Suffix())
}

// Convert reads the CSV at inputPath and writes the binary dataset to
// outputPath together with its companion index. A failed conversion leaves
// no partial output behind.
func Convert(inputPath, outputPath string, layout types.Layout) (*Result, error) {
	start := time.Now()
	log := logging.Component("converter")

	f, err := csvio.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []types.Record
	builder := index.NewBuilder()

	for {
		row, err := f.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", inputPath, err)
		}

		ts, err := builder.Add(row.Date, row.Time)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", inputPath, f.Line(), err)
		}

		records = append(records, types.Record{
			Timestamp: ts,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    row.Volume,
		})
	}

	data := binfile.Encode(records, layout)
	if err := binfile.WriteFile(outputPath, data); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}

	idxPath := index.CompanionPath(outputPath)
	if err := index.WriteIndex(idxPath, builder.Finish()); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}

	res := &Result{
		InputPath:  inputPath,
		OutputPath: outputPath,
		IndexPath:  idxPath,
		Rows:       len(records),
		Elapsed:    time.Since(start),
	}

	log.Debug("converted dataset",
		"input", inputPath,
		"output", outputPath,
		"layout", layout.String(),
		"rows", res.Rows,
		"elapsed", res.Elapsed)

	return res, nil
}
