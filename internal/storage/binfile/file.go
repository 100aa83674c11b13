package binfile

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

// MappedReader is a Reader backed by a read-only memory-mapped file.
// The mapping is safely shared by any number of concurrent readers.
type MappedReader struct {
	*Reader

	file *os.File
	mmap mmap.MMap
}

// OpenMapped memory-maps a dataset file and opens it under the declared
// layout. The returned reader must be closed to release the mapping.
func OpenMapped(path string, layout types.Layout) (*MappedReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap dataset: %w", err)
	}

	r, err := NewReader(m, layout)
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, err
	}

	return &MappedReader{
		Reader: r,
		file:   f,
		mmap:   m,
	}, nil
}

// Close releases the mapping and the underlying file. The Reader view
// must not be used after Close.
func (m *MappedReader) Close() error {
	err := m.mmap.Unmap()
	if cerr := m.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteFile atomically writes an encoded buffer to path. The data is
// staged in a temporary file and renamed into place, so a failed pass
// never leaves a partially-written dataset behind.
func WriteFile(path string, data []byte) error {
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename dataset: %w", err)
	}

	return nil
}
