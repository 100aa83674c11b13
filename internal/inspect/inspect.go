// Package inspect implements check mode: it mmaps converted datasets,
// loads their companion indices, optionally resamples, and prints a
// human-readable preview of the first bars.
package inspect

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
	"github.com/andydardgallard/ohlcvstore/internal/logging"
	"github.com/andydardgallard/ohlcvstore/internal/storage/binfile"
	"github.com/andydardgallard/ohlcvstore/internal/storage/index"
	"github.com/andydardgallard/ohlcvstore/internal/storage/parquet"
	"github.com/andydardgallard/ohlcvstore/internal/storage/resample"
	"github.com/andydardgallard/ohlcvstore/internal/storage/stats"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

const tsLayout = "20060102 150405"

// Options configures an inspection run.
type Options struct {
	// Timeframe selects resampling. Nil prints raw records.
	Timeframe *types.Timeframe

	// PreviewRows is the number of bars printed per dataset.
	PreviewRows int

	// Stats prints a dataset statistics report.
	Stats bool

	// ExportParquet writes the previewed bars to a Parquet file next to
	// the dataset.
	ExportParquet bool

	// Compression is the Parquet export compression.
	Compression parquet.CompressionType

	// Workers bounds the per-file parallelism.
	Workers int
}

// Inspector runs check mode over converted datasets.
type Inspector struct {
	opts Options
	out  io.Writer
}

// New creates an Inspector writing to stdout.
func New(opts Options) *Inspector {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = 5
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Inspector{opts: opts, out: os.Stdout}
}

// SetOutput redirects preview output, mainly for tests.
func (in *Inspector) SetOutput(w io.Writer) {
	in.out = w
}

// Dir inspects every .bin dataset in dir. Files whose name does not carry
// a layout suffix are skipped with a warning. Per-file failures do not stop
// the run; they are joined into the returned error.
func (in *Inspector) Dir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}

	log := logging.Component("inspect")

	var paths []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".bin" {
			continue
		}
		if _, ok := types.LayoutFromFilename(e.Name()); !ok {
			log.Warn("skipping file with unknown format", "path", filepath.Join(dir, e.Name()))
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	fileErrs := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(in.opts.Workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				fileErrs[i] = err
				return nil
			}
			if err := in.File(path); err != nil {
				fileErrs[i] = fmt.Errorf("%s: %w", path, err)
				log.Error("inspection failed", "path", path, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return errors.Join(fileErrs...)
}

// File inspects a single dataset. The layout comes from the filename.
func (in *Inspector) File(path string) error {
	layout, ok := types.LayoutFromFilename(filepath.Base(path))
	if !ok {
		return fmt.Errorf("%w: no layout suffix in %s", errors.ErrUnknownLayout, filepath.Base(path))
	}

	r, err := binfile.OpenMapped(path, layout)
	if err != nil {
		return err
	}
	defer r.Close()

	idx, err := index.ReadIndex(index.CompanionPath(path))
	if err != nil {
		return err
	}

	start := time.Now()

	bars, label, err := in.bars(r.Reader, idx)
	if err != nil {
		return err
	}

	fmt.Fprintf(in.out, "%s: %s bars (%s), %d total\n", path, label, layout, len(bars))
	in.printBars(bars)

	if in.opts.Stats {
		in.printStats(stats.Collect(r.Reader))
	}

	if in.opts.ExportParquet {
		out, n, err := in.export(path, label, bars)
		if err != nil {
			return err
		}
		fmt.Fprintf(in.out, "exported %d bars to %s\n", n, out)
	}

	logging.Component("inspect").Debug("inspected dataset",
		"path", path,
		"bars", len(bars),
		"elapsed", time.Since(start))

	return nil
}

// bars produces the bar series selected by the options. Raw records and
// the 1-minute timeframe pass through unaggregated.
func (in *Inspector) bars(r *binfile.Reader, idx *types.FullIndex) ([]types.Bar, string, error) {
	tf := in.opts.Timeframe
	if tf == nil || (!tf.IsDaily() && tf.Seconds == 60) {
		bars := make([]types.Bar, r.Len())
		for i := 0; i < r.Len(); i++ {
			rec := r.At(i)
			bars[i] = types.Bar{
				Timestamp: rec.Timestamp,
				Open:      rec.Open,
				High:      rec.High,
				Low:       rec.Low,
				Close:     rec.Close,
				Volume:    rec.Volume,
			}
		}
		label := "raw"
		if tf != nil {
			label = tf.Label
		}
		return bars, label, nil
	}

	bars, err := resample.ByTimeframe(r, idx, *tf)
	if err != nil {
		return nil, "", err
	}
	return bars, tf.Label, nil
}

func (in *Inspector) printBars(bars []types.Bar) {
	n := in.opts.PreviewRows
	if n > len(bars) {
		n = len(bars)
	}
	for _, b := range bars[:n] {
		fmt.Fprintf(in.out, " - ts: %s, open: %.2f, high: %.2f, low: %.2f, close: %.2f, vol: %d\n",
			time.Unix(int64(b.Timestamp), 0).UTC().Format(tsLayout),
			b.Open, b.High, b.Low, b.Close, b.Volume)
	}
}

func (in *Inspector) printStats(s *stats.DatasetStats) {
	if s.Rows == 0 {
		fmt.Fprintln(in.out, "stats: empty dataset")
		return
	}

	first := time.Unix(int64(s.FirstTs), 0).UTC().Format(tsLayout)
	last := time.Unix(int64(s.LastTs), 0).UTC().Format(tsLayout)

	fmt.Fprintf(in.out, "stats: rows=%d, span=[%s .. %s]\n", s.Rows, first, last)
	fmt.Fprintf(in.out, "stats: price=[%.2f .. %.2f], volume total=%d avg=%.2f\n",
		s.PriceLow, s.PriceHigh, s.VolumeTotal, s.VolumeAvg)

	if s.HasPercentiles() {
		fmt.Fprintf(in.out, "stats: volume p50=%.0f p90=%.0f p95=%.0f p99=%.0f\n",
			*s.VolP50, *s.VolP90, *s.VolP95, *s.VolP99)
	}
}

// ExportPath derives the Parquet path for a dataset and timeframe label,
// e.g. ticker.aos.bin with label 2m becomes ticker.aos.2m.parquet.
func ExportPath(binPath, label string) string {
	base := strings.TrimSuffix(binPath, filepath.Ext(binPath))
	return base + "." + label + ".parquet"
}

func (in *Inspector) export(binPath, label string, bars []types.Bar) (string, int, error) {
	out := ExportPath(binPath, label)

	w, err := parquet.NewBarWriter(out, parquet.Options{Compression: in.opts.Compression})
	if err != nil {
		return "", 0, err
	}
	if err := w.Write(bars); err != nil {
		w.Close()
		return "", 0, err
	}
	if err := w.Close(); err != nil {
		return "", 0, err
	}

	return out, len(bars), nil
}
