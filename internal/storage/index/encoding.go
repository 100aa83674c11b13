package index

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// Index encoding format (binary, little-endian):
//   - Magic (8 bytes) + Version (4 bytes)
//   - Time index: count (8 bytes), then [timestamp u64][position u64] per entry
//   - Daily index: count (8 bytes), then
//     [date length (2 bytes) + date string][start u64][end u64] per entry
//   - Timeframe index: entry count (4 bytes), then per entry
//     [label length (2 bytes) + label][count u64][boundary u64 ...]
//
// Timeframe entries are written in ascending label order so the encoding
// is deterministic for a given index.

const (
	idxMagic   = 0x4F484C4356494458 // "OHLCVIDX"
	idxVersion = 1

	idxHeaderSize = 12 // 8 bytes magic + 4 bytes version
)

// EncodeIndex encodes a full index into its binary form.
func EncodeIndex(idx *types.FullIndex) []byte {
	buf := make([]byte, 0, idxHeaderSize+len(idx.Time)*16+len(idx.Daily)*28)

	buf = binary.LittleEndian.AppendUint64(buf, idxMagic)
	buf = binary.LittleEndian.AppendUint32(buf, idxVersion)

	// Time index
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(idx.Time)))
	for _, e := range idx.Time {
		buf = binary.LittleEndian.AppendUint64(buf, e.Timestamp)
		buf = binary.LittleEndian.AppendUint64(buf, e.Position)
	}

	// Daily index
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(idx.Daily)))
	for _, e := range idx.Daily {
		buf = appendString(buf, e.Date)
		buf = binary.LittleEndian.AppendUint64(buf, e.Start)
		buf = binary.LittleEndian.AppendUint64(buf, e.End)
	}

	// Timeframe index, ascending label order
	labels := make([]string, 0, len(idx.Timeframe))
	for label := range idx.Timeframe {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(labels)))
	for _, label := range labels {
		boundaries := idx.Timeframe[label]
		buf = appendString(buf, label)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(boundaries)))
		for _, ts := range boundaries {
			buf = binary.LittleEndian.AppendUint64(buf, ts)
		}
	}

	return buf
}

// DecodeIndex decodes a binary index buffer.
func DecodeIndex(data []byte) (*types.FullIndex, error) {
	if len(data) < idxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, want at least %d header bytes", errors.ErrTruncated, len(data), idxHeaderSize)
	}

	magic := binary.LittleEndian.Uint64(data[0:8])
	if magic != idxMagic {
		return nil, fmt.Errorf("%w: expected index root %#x, got %#x", errors.ErrBadMagic, uint64(idxMagic), magic)
	}

	version := binary.LittleEndian.Uint32(data[8:12])
	if version != idxVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", errors.ErrBadVersion, version, idxVersion)
	}

	offset := idxHeaderSize
	idx := &types.FullIndex{Timeframe: make(map[string][]uint64)}

	// Time index
	count, offset, err := readUint64(data, offset)
	if err != nil {
		return nil, fmt.Errorf("time index count: %w", err)
	}
	if count > uint64(len(data)-offset)/16 {
		return nil, fmt.Errorf("time index: %w: %d entries declared", errors.ErrTruncated, count)
	}
	idx.Time = make([]types.TimeIndexEntry, count)
	for i := range idx.Time {
		idx.Time[i].Timestamp = binary.LittleEndian.Uint64(data[offset:])
		idx.Time[i].Position = binary.LittleEndian.Uint64(data[offset+8:])
		offset += 16
	}

	// Daily index
	count, offset, err = readUint64(data, offset)
	if err != nil {
		return nil, fmt.Errorf("daily index count: %w", err)
	}
	// Smallest possible entry: empty date string (2) + start (8) + end (8).
	if count > uint64(len(data)-offset)/18 {
		return nil, fmt.Errorf("daily index: %w: %d entries declared", errors.ErrTruncated, count)
	}
	idx.Daily = make([]types.DailyIndexEntry, 0, count)
	for i := uint64(0); i < count; i++ {
		var e types.DailyIndexEntry
		e.Date, offset, err = readString(data, offset)
		if err != nil {
			return nil, fmt.Errorf("daily entry %d date: %w", i, err)
		}
		e.Start, offset, err = readUint64(data, offset)
		if err != nil {
			return nil, fmt.Errorf("daily entry %d start: %w", i, err)
		}
		e.End, offset, err = readUint64(data, offset)
		if err != nil {
			return nil, fmt.Errorf("daily entry %d end: %w", i, err)
		}
		idx.Daily = append(idx.Daily, e)
	}

	// Timeframe index
	if offset+4 > len(data) {
		return nil, fmt.Errorf("timeframe count: %w", errors.ErrTruncated)
	}
	tfCount := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4

	for i := 0; i < tfCount; i++ {
		var label string
		label, offset, err = readString(data, offset)
		if err != nil {
			return nil, fmt.Errorf("timeframe %d label: %w", i, err)
		}

		var n uint64
		n, offset, err = readUint64(data, offset)
		if err != nil {
			return nil, fmt.Errorf("timeframe %q count: %w", label, err)
		}
		if n > uint64(len(data)-offset)/8 {
			return nil, fmt.Errorf("timeframe %q: %w: %d boundaries declared", label, errors.ErrTruncated, n)
		}

		boundaries := make([]uint64, n)
		for j := range boundaries {
			boundaries[j] = binary.LittleEndian.Uint64(data[offset:])
			offset += 8
		}
		idx.Timeframe[label] = boundaries
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", errors.ErrTruncated, len(data)-offset)
	}

	return idx, nil
}

// CompanionPath derives the index path for a dataset file by swapping
// the final extension for ".idx" ("name.aos.bin" -> "name.aos.idx").
func CompanionPath(binPath string) string {
	ext := filepath.Ext(binPath)
	return strings.TrimSuffix(binPath, ext) + ".idx"
}

// WriteIndex atomically persists the index next to its dataset.
func WriteIndex(path string, idx *types.FullIndex) error {
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, EncodeIndex(idx), 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename index: %w", err)
	}

	return nil
}

// ReadIndex loads and decodes a persisted index file.
func ReadIndex(path string) (*types.FullIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return DecodeIndex(data)
}

// appendString appends a length-prefixed string to the buffer.
func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s)))
	return append(buf, s...)
}

// readString reads a length-prefixed string from the buffer.
func readString(data []byte, offset int) (string, int, error) {
	if offset+2 > len(data) {
		return "", offset, fmt.Errorf("%w: string length", errors.ErrTruncated)
	}

	length := int(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2

	if offset+length > len(data) {
		return "", offset, fmt.Errorf("%w: string content", errors.ErrTruncated)
	}

	s := string(data[offset : offset+length])
	return s, offset + length, nil
}

// readUint64 reads a little-endian uint64 from the buffer.
func readUint64(data []byte, offset int) (uint64, int, error) {
	if offset+8 > len(data) {
		return 0, offset, errors.ErrTruncated
	}
	return binary.LittleEndian.Uint64(data[offset:]), offset + 8, nil
}
