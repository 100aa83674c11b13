// Package shell implements the interactive inspection REPL. It wraps the
// inspect and query services behind a small command set with completion.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"
	"golang.org/x/term"

	"github.com/andydardgallard/ohlcvstore/internal/inspect"
	"github.com/andydardgallard/ohlcvstore/internal/storage/config"
	"github.com/andydardgallard/ohlcvstore/internal/storage/parquet"
	"github.com/andydardgallard/ohlcvstore/internal/storage/query"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// Shell is the interactive inspection REPL over a dataset directory.
type Shell struct {
	dir  string
	cfg  *config.Config
	svc  *query.Service
	out  io.Writer
	done bool
}

var commands = []prompt.Suggest{
	{Text: "ls", Description: "List datasets and exported Parquet files"},
	{Text: "show", Description: "show <file> [n] - print first n raw bars"},
	{Text: "resample", Description: "resample <file> <tf> - preview resampled bars"},
	{Text: "stats", Description: "stats <file> - dataset statistics report"},
	{Text: "sql", Description: "sql <query> - run SQL over exported Parquet"},
	{Text: "help", Description: "Show command help"},
	{Text: "exit", Description: "Leave the shell"},
}

// New creates a Shell over dir. The query service is opened eagerly so SQL
// errors surface at startup instead of mid-session.
func New(dir string, cfg *config.Config) (*Shell, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	svc, err := query.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Shell{
		dir: dir,
		cfg: cfg,
		svc: svc,
		out: os.Stdout,
	}, nil
}

// SetOutput redirects command output, mainly for tests.
func (s *Shell) SetOutput(w io.Writer) {
	s.out = w
}

// Close releases the query service.
func (s *Shell) Close() error {
	return s.svc.Close()
}

// Run starts the REPL. It refuses to start when stdin is not a terminal.
func (s *Shell) Run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("shell requires an interactive terminal")
	}

	fmt.Fprintf(s.out, "ohlcvstore shell over %s (type help)\n", s.dir)

	p := prompt.New(
		s.Execute,
		s.complete,
		prompt.OptionTitle("ohlcvstore"),
		prompt.OptionPrefix("ohlcv> "),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return s.done
		}),
	)
	p.Run()
	return nil
}

// Execute runs one command line.
func (s *Shell) Execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "ls":
		s.cmdLs()
	case "show":
		s.cmdShow(fields[1:])
	case "resample":
		s.cmdResample(fields[1:])
	case "stats":
		s.cmdStats(fields[1:])
	case "sql":
		s.cmdSQL(strings.TrimSpace(strings.TrimPrefix(line, "sql")))
	case "help":
		s.cmdHelp()
	case "exit", "quit":
		s.done = true
	default:
		fmt.Fprintf(s.out, "unknown command %q (type help)\n", fields[0])
	}
}

func (s *Shell) complete(d prompt.Document) []prompt.Suggest {
	if strings.Contains(d.TextBeforeCursor(), " ") {
		return s.completeArg(d)
	}
	return prompt.FilterHasPrefix(commands, d.GetWordBeforeCursor(), true)
}

// completeArg suggests dataset names for file-taking commands and labels
// for resample.
func (s *Shell) completeArg(d prompt.Document) []prompt.Suggest {
	fields := strings.Fields(d.TextBeforeCursor())
	if len(fields) == 0 {
		return nil
	}

	// Position of the argument being typed, counting the command as 0.
	argn := len(fields)
	if !strings.HasSuffix(d.TextBeforeCursor(), " ") {
		argn--
	}

	switch fields[0] {
	case "show", "stats", "resample":
		if fields[0] == "resample" && argn >= 2 {
			var labels []prompt.Suggest
			for _, l := range types.ResampleLabels() {
				labels = append(labels, prompt.Suggest{Text: l})
			}
			return prompt.FilterHasPrefix(labels, d.GetWordBeforeCursor(), true)
		}

		var names []prompt.Suggest
		for _, p := range s.datasets() {
			names = append(names, prompt.Suggest{Text: filepath.Base(p)})
		}
		return prompt.FilterHasPrefix(names, d.GetWordBeforeCursor(), true)
	}

	return nil
}

// datasets lists the layout-suffixed .bin files in the shell directory.
func (s *Shell) datasets() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := types.LayoutFromFilename(e.Name()); ok {
			paths = append(paths, filepath.Join(s.dir, e.Name()))
		}
	}
	return paths
}

func (s *Shell) cmdLs() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if _, ok := types.LayoutFromFilename(name); ok {
			fmt.Fprintf(s.out, "%s\n", name)
		} else if filepath.Ext(name) == ".parquet" {
			fmt.Fprintf(s.out, "%s\n", name)
		}
	}
}

// resolve turns a bare dataset name into a path inside the shell directory.
func (s *Shell) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

func (s *Shell) inspector(opts inspect.Options) *inspect.Inspector {
	opts.Compression = parquet.ParseCompressionType(s.cfg.Export.Compression.Algorithm)
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = s.cfg.Inspect.PreviewRows
	}
	in := inspect.New(opts)
	in.SetOutput(s.out)
	return in
}

func (s *Shell) cmdShow(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "usage: show <file> [n]")
		return
	}

	rows := 0
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			fmt.Fprintf(s.out, "bad row count %q\n", args[1])
			return
		}
		rows = n
	}

	in := s.inspector(inspect.Options{PreviewRows: rows})
	if err := in.File(s.resolve(args[0])); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *Shell) cmdResample(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "usage: resample <file> <tf> (1min..5min, 1d)")
		return
	}

	tf, err := types.ParseResampleLabel(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	in := s.inspector(inspect.Options{Timeframe: &tf})
	if err := in.File(s.resolve(args[0])); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *Shell) cmdStats(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "usage: stats <file>")
		return
	}

	in := s.inspector(inspect.Options{PreviewRows: 1, Stats: true})
	if err := in.File(s.resolve(args[0])); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *Shell) cmdSQL(queryText string) {
	if queryText == "" {
		fmt.Fprintln(s.out, "usage: sql <query>")
		return
	}

	cols, rows, err := s.svc.ExecuteSQL(context.Background(), queryText)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}

	fmt.Fprintln(s.out, strings.Join(cols, "\t"))
	for _, row := range rows {
		vals := make([]string, len(cols))
		for i, c := range cols {
			vals[i] = fmt.Sprintf("%v", row[c])
		}
		fmt.Fprintln(s.out, strings.Join(vals, "\t"))
	}
	fmt.Fprintf(s.out, "(%d rows)\n", len(rows))
}

func (s *Shell) cmdHelp() {
	for _, c := range commands {
		fmt.Fprintf(s.out, "  %-10s %s\n", c.Text, c.Description)
	}
}
