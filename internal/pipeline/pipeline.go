// Package pipeline fans a directory of CSV files out over a bounded worker
// pool and converts each file independently. One broken file never aborts
// the batch; its error is reported in the per-file results.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andydardgallard/ohlcvstore/internal/converter"
	"github.com/andydardgallard/ohlcvstore/internal/errors"
	"github.com/andydardgallard/ohlcvstore/internal/logging"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// FileResult holds the outcome of converting a single input file.
type FileResult struct {
	Path   string
	Result *converter.Result
	Err    error
}

// Summary aggregates a batch run.
type Summary struct {
	Converted int
	Failed    int
	Elapsed   time.Duration
}

// Runner converts batches of CSV files.
type Runner struct {
	layout  types.Layout
	workers int
}

// ValidateWorkers rejects an explicitly requested worker count of zero or
// less. The zero that means "one worker per CPU" is a default, not an
// acceptable request.
func ValidateWorkers(requested int) error {
	if requested <= 0 {
		return fmt.Errorf("%w: got %d", errors.ErrInvalidWorkers, requested)
	}
	return nil
}

// CapWorkers clamps the requested worker count to the number of CPUs.
// Zero means one worker per CPU. The second return reports whether the
// request was reduced.
func CapWorkers(requested int) (int, bool) {
	max := runtime.NumCPU()
	if requested <= 0 {
		return max, false
	}
	if requested > max {
		return max, true
	}
	return requested, false
}

// New creates a Runner. Worker counts above the CPU count are capped with
// a warning.
func New(layout types.Layout, workers int) *Runner {
	capped, reduced := CapWorkers(workers)
	if reduced {
		logging.Warn("limiting worker count to available CPUs",
			"requested", workers,
			"workers", capped)
	}
	return &Runner{layout: layout, workers: capped}
}

// Workers returns the effective worker count.
func (r *Runner) Workers() int {
	return r.workers
}

// ListInputs returns the CSV/TXT files in dir, sorted by name.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".txt":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// Run converts every CSV/TXT file in inputDir into outputDir. It returns a
// result slot per input file in the same order as ListInputs. Conversion
// errors land in the slots; Run itself fails only on setup problems.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) ([]FileResult, Summary, error) {
	start := time.Now()
	log := logging.Component("pipeline")

	files, err := ListInputs(inputDir)
	if err != nil {
		return nil, Summary{}, err
	}
	if len(files) == 0 {
		return nil, Summary{}, fmt.Errorf("no CSV/TXT files in %s", inputDir)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, Summary{}, fmt.Errorf("create output directory: %w", err)
	}

	log.Info("starting batch conversion",
		"files", len(files),
		"workers", r.workers,
		"layout", r.layout.String())

	results := make([]FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i].Path = path

			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			out := converter.OutputPath(path, outputDir, r.layout)
			res, err := converter.Convert(path, out, r.layout)
			if err != nil {
				results[i].Err = err
				log.Error("conversion failed", "input", path, "error", err)
				return nil
			}

			results[i].Result = res
			log.Info("converted file",
				"input", path,
				"output", res.OutputPath,
				"rows", res.Rows,
				"elapsed", res.Elapsed)
			return nil
		})
	}

	// Tasks never return errors; Wait only propagates context cancellation.
	if err := g.Wait(); err != nil {
		return results, Summary{}, err
	}

	sum := Summary{Elapsed: time.Since(start)}
	for _, fr := range results {
		if fr.Err != nil {
			sum.Failed++
		} else {
			sum.Converted++
		}
	}

	log.Info("batch conversion finished",
		"converted", sum.Converted,
		"failed", sum.Failed,
		"elapsed", sum.Elapsed)

	return results, sum, nil
}
