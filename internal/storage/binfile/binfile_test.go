package binfile

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
	"github.com/andydardgallard/ohlcvstore/internal/storage/types"
)

func testRecords() []types.Record {
	return []types.Record{
		{Timestamp: 1702544400, Open: 90302, High: 90399, Low: 90120, Close: 90265, Volume: 1320},
		{Timestamp: 1702544460, Open: 90252, High: 90255, Low: 90224, Close: 90234, Volume: 154},
		{Timestamp: 1702544520, Open: 90234, High: 90310, Low: 90190, Close: 90301, Volume: 987},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	records := testRecords()

	for _, layout := range []types.Layout{types.LayoutRowOriented, types.LayoutColumnOriented} {
		data := Encode(records, layout)

		r, err := NewReader(data, layout)
		if err != nil {
			t.Fatalf("%s: NewReader: %v", layout, err)
		}

		if r.Len() != len(records) {
			t.Fatalf("%s: expected %d rows, got %d", layout, len(records), r.Len())
		}

		for i, want := range records {
			got := r.At(i)
			if got != want {
				t.Errorf("%s: row %d: got %+v, want %+v", layout, i, got, want)
			}
		}
	}
}

func TestEncode_LayoutsAgree(t *testing.T) {
	records := testRecords()

	aos, err := NewReader(Encode(records, types.LayoutRowOriented), types.LayoutRowOriented)
	if err != nil {
		t.Fatalf("open aos: %v", err)
	}
	soa, err := NewReader(Encode(records, types.LayoutColumnOriented), types.LayoutColumnOriented)
	if err != nil {
		t.Fatalf("open soa: %v", err)
	}

	if aos.Len() != soa.Len() {
		t.Fatalf("length mismatch: aos %d, soa %d", aos.Len(), soa.Len())
	}
	for i := 0; i < aos.Len(); i++ {
		if aos.At(i) != soa.At(i) {
			t.Errorf("row %d: aos %+v, soa %+v", i, aos.At(i), soa.At(i))
		}
	}
}

func TestEncode_Empty(t *testing.T) {
	for _, layout := range []types.Layout{types.LayoutRowOriented, types.LayoutColumnOriented} {
		data := Encode(nil, layout)

		if len(data) != headerSize {
			t.Errorf("%s: expected bare header (%d bytes), got %d", layout, headerSize, len(data))
		}

		r, err := NewReader(data, layout)
		if err != nil {
			t.Fatalf("%s: NewReader: %v", layout, err)
		}
		if r.Len() != 0 {
			t.Errorf("%s: expected 0 rows, got %d", layout, r.Len())
		}
	}
}

func TestNewReader_WrongLayout(t *testing.T) {
	data := Encode(testRecords(), types.LayoutRowOriented)

	_, err := NewReader(data, types.LayoutColumnOriented)
	if !errors.Is(err, errors.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}

	data = Encode(testRecords(), types.LayoutColumnOriented)
	_, err = NewReader(data, types.LayoutRowOriented)
	if !errors.Is(err, errors.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestNewReader_Corrupt(t *testing.T) {
	good := Encode(testRecords(), types.LayoutRowOriented)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, errors.ErrTruncated},
		{"short header", good[:10], errors.ErrTruncated},
		{"truncated body", good[:len(good)-5], errors.ErrTruncated},
		{"trailing garbage", append(append([]byte{}, good...), 0xAA), errors.ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(tt.data, types.LayoutRowOriented)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNewReader_BadVersion(t *testing.T) {
	data := Encode(testRecords(), types.LayoutRowOriented)
	binary.LittleEndian.PutUint32(data[8:12], 99)

	_, err := NewReader(data, types.LayoutRowOriented)
	if !errors.Is(err, errors.ErrBadVersion) {
		t.Fatalf("expected ErrBadVersion, got %v", err)
	}
}

func TestWriteFile_OpenMapped(t *testing.T) {
	tmpDir := t.TempDir()
	records := testRecords()

	for _, layout := range []types.Layout{types.LayoutRowOriented, types.LayoutColumnOriented} {
		path := filepath.Join(tmpDir, "dataset"+layout.Suffix())

		if err := WriteFile(path, Encode(records, layout)); err != nil {
			t.Fatalf("%s: WriteFile: %v", layout, err)
		}

		r, err := OpenMapped(path, layout)
		if err != nil {
			t.Fatalf("%s: OpenMapped: %v", layout, err)
		}

		if r.Len() != len(records) {
			t.Errorf("%s: expected %d rows, got %d", layout, len(records), r.Len())
		}
		for i, want := range records {
			if got := r.At(i); got != want {
				t.Errorf("%s: row %d: got %+v, want %+v", layout, i, got, want)
			}
		}

		if err := r.Close(); err != nil {
			t.Errorf("%s: Close: %v", layout, err)
		}
	}
}

func TestOpenMapped_WrongLayoutFails(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "dataset.aos.bin")

	if err := WriteFile(path, Encode(testRecords(), types.LayoutRowOriented)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := OpenMapped(path, types.LayoutColumnOriented)
	if !errors.Is(err, errors.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}
