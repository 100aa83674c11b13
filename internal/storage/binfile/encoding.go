package binfile

import (
	"encoding/binary"
	"math"

	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// Dataset encoding format (binary, little-endian):
//   - Magic (8 bytes, layout-specific)
//   - Version (4 bytes)
//   - Row count (8 bytes)
//   - Body:
//     row-oriented: count x 48-byte records
//     [timestamp u64][open f64][high f64][low f64][close f64][volume u64]
//     column-oriented: six contiguous arrays of count x 8 bytes each,
//     in order timestamps, opens, highs, lows, closes, volumes
//
// The layout is not self-describing beyond the magic check: readers are
// told the expected layout out-of-band (file name suffix) and the magic
// only serves to reject a mismatched open.

const (
	aosMagic = 0x4F484C4356414F53 // "OHLCVAOS"
	soaMagic = 0x4F484C4356534F41 // "OHLCVSOA"

	formatVersion = 1

	headerSize = 20 // 8 bytes magic + 4 bytes version + 8 bytes count
	recordSize = 48 // 6 fields x 8 bytes
	fieldSize  = 8
)

// layoutMagic returns the magic value for a layout.
func layoutMagic(layout types.Layout) uint64 {
	if layout == types.LayoutColumnOriented {
		return soaMagic
	}
	return aosMagic
}

// Encode serializes the ordered record sequence into a single
// self-contained buffer under the given layout. The buffer is built
// fully in memory; callers own the result.
func Encode(records []types.Record, layout types.Layout) []byte {
	buf := make([]byte, 0, headerSize+len(records)*recordSize)

	buf = binary.LittleEndian.AppendUint64(buf, layoutMagic(layout))
	buf = binary.LittleEndian.AppendUint32(buf, formatVersion)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(records)))

	if layout == types.LayoutColumnOriented {
		return encodeColumns(buf, records)
	}
	return encodeRows(buf, records)
}

// encodeRows appends records field-adjacent, preserving input order.
func encodeRows(buf []byte, records []types.Record) []byte {
	for _, r := range records {
		buf = binary.LittleEndian.AppendUint64(buf, r.Timestamp)
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.Open))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.High))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.Low))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.Close))
		buf = binary.LittleEndian.AppendUint64(buf, r.Volume)
	}
	return buf
}

// encodeColumns appends one contiguous array per field, all arrays
// addressed by the shared row index.
func encodeColumns(buf []byte, records []types.Record) []byte {
	for _, r := range records {
		buf = binary.LittleEndian.AppendUint64(buf, r.Timestamp)
	}
	for _, r := range records {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.Open))
	}
	for _, r := range records {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.High))
	}
	for _, r := range records {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.Low))
	}
	for _, r := range records {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.Close))
	}
	for _, r := range records {
		buf = binary.LittleEndian.AppendUint64(buf, r.Volume)
	}
	return buf
}
