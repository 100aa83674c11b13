package parquet

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// BarReader reads resampled bars from a Parquet file.
type BarReader struct {
	file   *os.File
	reader *parquet.GenericReader[BarRow]
	path   string
}

// NewBarReader creates a new bar Parquet reader.
func NewBarReader(path string) (*BarReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size(), parquet.ReadBufferSize(1024*1024))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[BarRow](pf)

	return &BarReader{
		file:   f,
		reader: reader,
		path:   path,
	}, nil
}

// Read reads up to n bars from the file.
func (r *BarReader) Read(n int) ([]types.Bar, error) {
	rows := make([]BarRow, n)
	count, err := r.reader.Read(rows)
	if err != nil {
		return nil, err
	}

	bars := make([]types.Bar, count)
	for i := 0; i < count; i++ {
		bars[i] = RowToBar(&rows[i])
	}

	return bars, nil
}

// ReadAll reads all bars from the file.
func (r *BarReader) ReadAll() ([]types.Bar, error) {
	numRows := r.reader.NumRows()
	rows := make([]BarRow, numRows)

	n, err := r.reader.Read(rows)
	if err != nil {
		return nil, err
	}

	bars := make([]types.Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = RowToBar(&rows[i])
	}

	return bars, nil
}

// NumRows returns the total number of rows in the file.
func (r *BarReader) NumRows() int64 {
	return r.reader.NumRows()
}

// Close closes the reader.
func (r *BarReader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// Path returns the file path.
func (r *BarReader) Path() string {
	return r.path
}

// FileInfo holds information about a Parquet file.
type FileInfo struct {
	Path    string
	Size    int64
	NumRows int64
}

// GetFileInfo returns information about a Parquet file.
func GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := parquet.NewGenericReader[BarRow](f)
	defer reader.Close()

	return &FileInfo{
		Path:    path,
		Size:    stat.Size(),
		NumRows: reader.NumRows(),
	}, nil
}
