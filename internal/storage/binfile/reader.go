package binfile

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// Reader is a zero-copy view over an encoded dataset buffer.
// It keeps no owned copy of the data; its lifetime is bounded by the
// caller-supplied byte range (typically a memory-mapped file).
type Reader struct {
	data   []byte
	layout types.Layout
	count  int
}

// NewReader opens a buffer under an explicitly declared layout.
// The layout is never inferred from the contents; a buffer whose root
// structure does not match the declared layout is rejected with a
// recoverable decode error.
func NewReader(data []byte, layout types.Layout) (*Reader, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes, want at least %d header bytes", errors.ErrTruncated, len(data), headerSize)
	}

	magic := binary.LittleEndian.Uint64(data[0:8])
	if magic != layoutMagic(layout) {
		return nil, fmt.Errorf("%w: expected %s root %#x, got %#x", errors.ErrBadMagic, layout, layoutMagic(layout), magic)
	}

	version := binary.LittleEndian.Uint32(data[8:12])
	if version != formatVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", errors.ErrBadVersion, version, formatVersion)
	}

	count := binary.LittleEndian.Uint64(data[12:headerSize])
	body := uint64(len(data) - headerSize)
	if count > body/recordSize || count*recordSize != body {
		return nil, fmt.Errorf("%w: %d rows declared, %d body bytes", errors.ErrTruncated, count, body)
	}

	return &Reader{
		data:   data,
		layout: layout,
		count:  int(count),
	}, nil
}

// Len returns the number of logical rows in the buffer.
func (r *Reader) Len() int {
	return r.count
}

// Layout returns the layout the buffer was opened under.
func (r *Reader) Layout() types.Layout {
	return r.layout
}

// At returns logical row i by direct offset arithmetic over the borrowed
// bytes. i must be in [0, Len()); no deserialization beyond the single
// row takes place.
func (r *Reader) At(i int) types.Record {
	if r.layout == types.LayoutColumnOriented {
		return r.atColumn(i)
	}
	return r.atRow(i)
}

func (r *Reader) atRow(i int) types.Record {
	off := headerSize + i*recordSize
	return types.Record{
		Timestamp: binary.LittleEndian.Uint64(r.data[off:]),
		Open:      math.Float64frombits(binary.LittleEndian.Uint64(r.data[off+8:])),
		High:      math.Float64frombits(binary.LittleEndian.Uint64(r.data[off+16:])),
		Low:       math.Float64frombits(binary.LittleEndian.Uint64(r.data[off+24:])),
		Close:     math.Float64frombits(binary.LittleEndian.Uint64(r.data[off+32:])),
		Volume:    binary.LittleEndian.Uint64(r.data[off+40:]),
	}
}

func (r *Reader) atColumn(i int) types.Record {
	col := r.count * fieldSize
	off := headerSize + i*fieldSize
	return types.Record{
		Timestamp: binary.LittleEndian.Uint64(r.data[off:]),
		Open:      math.Float64frombits(binary.LittleEndian.Uint64(r.data[off+col:])),
		High:      math.Float64frombits(binary.LittleEndian.Uint64(r.data[off+2*col:])),
		Low:       math.Float64frombits(binary.LittleEndian.Uint64(r.data[off+3*col:])),
		Close:     math.Float64frombits(binary.LittleEndian.Uint64(r.data[off+4*col:])),
		Volume:    binary.LittleEndian.Uint64(r.data[off+5*col:]),
	}
}

// Records materializes all rows in order. Intended for tests and small
// datasets; large consumers should iterate with At.
func (r *Reader) Records() []types.Record {
	out := make([]types.Record, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.At(i)
	}
	return out
}
