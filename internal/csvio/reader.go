// Package csvio reads OHLCV rows from exchange CSV exports.
//
// The expected format is a comma separated file with a header line naming
// the columns <DATE>,<TIME>,<OPEN>,<HIGH>,<LOW>,<CLOSE>,<VOL>. Column order
// is free; extra columns are ignored.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
)

// Column header names.
const (
	colDate  = "<DATE>"
	colTime  = "<TIME>"
	colOpen  = "<OPEN>"
	colHigh  = "<HIGH>"
	colLow   = "<LOW>"
	colClose = "<CLOSE>"
	colVol   = "<VOL>"
)

// Row is a single OHLCV row as read from the CSV.
// Date and Time keep the raw text form; timestamp parsing happens downstream.
type Row struct {
	Date   string
	Time   string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume uint64
}

// columns maps field names to their position in a record.
type columns struct {
	date, time, open, high, low, close, vol int
}

func (c columns) max() int {
	m := c.date
	for _, i := range []int{c.time, c.open, c.high, c.low, c.close, c.vol} {
		if i > m {
			m = i
		}
	}
	return m
}

// Reader reads OHLCV rows from a CSV stream.
type Reader struct {
	cr   *csv.Reader
	cols columns
	line int
}

// NewReader creates a Reader over r and consumes the header line.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: missing header line", errors.ErrInputFormat)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	return &Reader{cr: cr, cols: cols, line: 1}, nil
}

// mapColumns locates each required column in the header.
func mapColumns(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}

	cols := columns{}
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{colDate, &cols.date},
		{colTime, &cols.time},
		{colOpen, &cols.open},
		{colHigh, &cols.high},
		{colLow, &cols.low},
		{colClose, &cols.close},
		{colVol, &cols.vol},
	} {
		i, ok := pos[want.name]
		if !ok {
			return columns{}, fmt.Errorf("%w: %s", errors.ErrMissingColumn, want.name)
		}
		*want.dst = i
	}

	return cols, nil
}

// Read returns the next row. It returns io.EOF at end of input.
func (r *Reader) Read() (Row, error) {
	rec, err := r.cr.Read()
	if err != nil {
		if err == io.EOF {
			return Row{}, io.EOF
		}
		return Row{}, fmt.Errorf("%w: line %d: %v", errors.ErrInputFormat, r.line+1, err)
	}
	r.line++

	if n := r.cols.max(); len(rec) <= n {
		return Row{}, fmt.Errorf("%w: line %d: expected at least %d fields, got %d",
			errors.ErrInputFormat, r.line, n+1, len(rec))
	}

	row := Row{
		Date: rec[r.cols.date],
		Time: rec[r.cols.time],
	}

	if row.Open, err = r.parseFloat(rec, r.cols.open, colOpen); err != nil {
		return Row{}, err
	}
	if row.High, err = r.parseFloat(rec, r.cols.high, colHigh); err != nil {
		return Row{}, err
	}
	if row.Low, err = r.parseFloat(rec, r.cols.low, colLow); err != nil {
		return Row{}, err
	}
	if row.Close, err = r.parseFloat(rec, r.cols.close, colClose); err != nil {
		return Row{}, err
	}
	if row.Volume, err = r.parseUint(rec, r.cols.vol, colVol); err != nil {
		return Row{}, err
	}

	return row, nil
}

// Line returns the 1-based line number of the last row returned by Read.
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) parseFloat(rec []string, i int, col string) (float64, error) {
	v, err := strconv.ParseFloat(rec[i], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s: %q", errors.ErrInputFormat, r.line, col, rec[i])
	}
	return v, nil
}

func (r *Reader) parseUint(rec []string, i int, col string) (uint64, error) {
	v, err := strconv.ParseUint(rec[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s: %q", errors.ErrInputFormat, r.line, col, rec[i])
	}
	return v, nil
}

// File is a Reader bound to an open file.
type File struct {
	*Reader
	f *os.File
}

// Open opens path and returns a reader positioned after the header.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}

	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &File{Reader: r, f: f}, nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}
