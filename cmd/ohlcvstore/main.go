// ohlcvstore converts OHLCV CSV exports into binary datasets with companion
// indices, and inspects, resamples, exports and queries the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	defaults "github.com/andydardgallard/ohlcvstore/config"
	"github.com/andydardgallard/ohlcvstore/internal/errors"
	"github.com/andydardgallard/ohlcvstore/internal/inspect"
	"github.com/andydardgallard/ohlcvstore/internal/logging"
	"github.com/andydardgallard/ohlcvstore/internal/pipeline"
	"github.com/andydardgallard/ohlcvstore/internal/shell"
	"github.com/andydardgallard/ohlcvstore/internal/storage/config"
	"github.com/andydardgallard/ohlcvstore/internal/storage/parquet"
	"github.com/andydardgallard/ohlcvstore/internal/storage/query"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// CLI flags
	input := flag.String("input", "", "input directory with CSV/TXT files")
	output := flag.String("output", "", "output directory for dataset files")
	layoutFlag := flag.String("layout", "", "dataset layout: aos or soa (overrides config)")
	threads := flag.Int("threads", 0, "worker count (default one per CPU, overrides config)")
	check := flag.Bool("check", false, "after conversion, read datasets back and print first bars")
	resampleFlag := flag.String("resample", "", "resample timeframe for -check: 1min, 2min, 3min, 4min, 5min, 1d")
	statsFlag := flag.Bool("stats", false, "print dataset statistics in -check mode")
	exportParquet := flag.Bool("export-parquet", false, "export previewed bars to Parquet in -check mode")
	sqlQuery := flag.String("sql", "", "run a one-shot SQL query over exported Parquet and exit")
	shellFlag := flag.Bool("shell", false, "start the interactive inspection shell over -output")
	cfgPath := flag.String("config", "", "config file path")
	logLevel := flag.String("log-level", defaults.DefaultLogLevel, "log level: debug, info, warn, error")
	logJSON := flag.Bool("log-json", false, "log in JSON format")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fatalf("bad -log-level: %v", err)
	}
	logging.Init(level, *logJSON)
	logging.Info("ohlcvstore starting", "version", Version)

	// Load config; flags override file settings
	cfg := config.DefaultConfig()
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			fatalf("load config: %v", err)
		}
	}
	if *layoutFlag != "" {
		cfg.Conversion.Layout = *layoutFlag
	}
	threadsSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "threads" {
			threadsSet = true
		}
	})
	if threadsSet {
		if err := pipeline.ValidateWorkers(*threads); err != nil {
			fatalf("-threads: %v", err)
		}
		cfg.Conversion.Workers = *threads
	}
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}

	// Boundary validation: reject bad requests before touching any file
	layout, err := types.ParseLayout(cfg.Conversion.Layout)
	if err != nil {
		fatalf("%v", err)
	}

	var timeframe *types.Timeframe
	if *resampleFlag != "" {
		if !*check {
			fatalf("-resample requires -check")
		}
		tf, err := types.ParseResampleLabel(*resampleFlag)
		if err != nil {
			fatalf("%v", err)
		}
		timeframe = &tf
	}
	if (*statsFlag || *exportParquet) && !*check {
		fatalf("-stats and -export-parquet require -check")
	}

	switch {
	case *sqlQuery != "":
		if err := runSQL(cfg, *sqlQuery); err != nil {
			fatalf("sql: %v", err)
		}
		return

	case *shellFlag:
		if *output == "" {
			fatalf("-shell requires -output")
		}
		if err := runShell(cfg, *output); err != nil {
			fatalf("shell: %v", err)
		}
		return
	}

	if *output == "" {
		fatalf("-output is required")
	}
	if *input == "" && !*check {
		fatalf("-input is required (or use -check for a standalone read)")
	}

	ctx := context.Background()

	if *input != "" {
		fmt.Println("Start conversion...")

		runner := pipeline.New(layout, cfg.Conversion.Workers)
		fmt.Printf("Using %d worker(s)\n", runner.Workers())

		results, sum, err := runner.Run(ctx, *input, *output)
		if err != nil {
			fatalf("conversion: %v", err)
		}
		for _, fr := range results {
			if fr.Err == nil {
				continue
			}
			if errors.IsInputFormat(fr.Err) {
				fmt.Fprintf(os.Stderr, "bad input: %s: %v\n", fr.Path, fr.Err)
			} else {
				fmt.Fprintf(os.Stderr, "failed: %s: %v\n", fr.Path, fr.Err)
			}
		}

		fmt.Printf("Conversion completed in %.3f seconds (%d ok, %d failed)\n",
			sum.Elapsed.Seconds(), sum.Converted, sum.Failed)
		if sum.Converted == 0 {
			os.Exit(1)
		}
	}

	if *check {
		fmt.Println("Start reading...")

		in := inspect.New(inspect.Options{
			Timeframe:     timeframe,
			PreviewRows:   cfg.Inspect.PreviewRows,
			Stats:         *statsFlag,
			ExportParquet: *exportParquet,
			Compression:   parquet.ParseCompressionType(cfg.Export.Compression.Algorithm),
			Workers:       cfg.Conversion.Workers,
		})
		if err := in.Dir(ctx, *output); err != nil {
			fatalf("check: %v", err)
		}
		fmt.Println("Reading files complete")
	}
}

// runSQL executes a one-shot query and prints the rows tab-separated.
func runSQL(cfg *config.Config, queryText string) error {
	svc, err := query.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	cols, rows, err := svc.ExecuteSQL(context.Background(), queryText)
	if err != nil {
		return err
	}

	fmt.Println(strings.Join(cols, "\t"))
	for _, row := range rows {
		vals := make([]string, len(cols))
		for i, c := range cols {
			vals[i] = fmt.Sprintf("%v", row[c])
		}
		fmt.Println(strings.Join(vals, "\t"))
	}
	fmt.Printf("(%d rows)\n", len(rows))
	return nil
}

func runShell(cfg *config.Config, dir string) error {
	sh, err := shell.New(dir, cfg)
	if err != nil {
		return err
	}
	defer sh.Close()
	return sh.Run()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ohlcvstore: "+format+"\n", args...)
	os.Exit(1)
}
