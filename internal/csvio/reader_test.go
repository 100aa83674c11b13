package csvio

import (
	"io"
	"strings"
	"testing"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
)

const sampleCSV = `<DATE>,<TIME>,<OPEN>,<HIGH>,<LOW>,<CLOSE>,<VOL>
20250708,090000,100.5,102.0,99.5,101.0,5000
20250708,090100,101.0,103.0,100.0,102.5,7500
`

func TestReader_Basic(t *testing.T) {
	r, err := NewReader(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	row, err := r.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if row.Date != "20250708" || row.Time != "090000" {
		t.Errorf("unexpected date/time: %s %s", row.Date, row.Time)
	}
	if row.Open != 100.5 || row.High != 102.0 || row.Low != 99.5 || row.Close != 101.0 {
		t.Errorf("unexpected prices: %+v", row)
	}
	if row.Volume != 5000 {
		t.Errorf("expected volume=5000, got %d", row.Volume)
	}

	row, err = r.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if row.Close != 102.5 {
		t.Errorf("expected close=102.5, got %f", row.Close)
	}

	if _, err := r.Read(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReader_ColumnOrderFree(t *testing.T) {
	input := `<VOL>,<CLOSE>,<LOW>,<HIGH>,<OPEN>,<TIME>,<DATE>
42,4.0,1.0,5.0,2.0,120000,20250708
`
	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	row, err := r.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if row.Date != "20250708" || row.Open != 2.0 || row.Volume != 42 {
		t.Errorf("column mapping broken: %+v", row)
	}
}

func TestReader_ExtraColumnsIgnored(t *testing.T) {
	input := `<TICKER>,<DATE>,<TIME>,<OPEN>,<HIGH>,<LOW>,<CLOSE>,<VOL>
SBER,20250708,090000,1.0,2.0,0.5,1.5,10
`
	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	row, err := r.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if row.Close != 1.5 {
		t.Errorf("expected close=1.5, got %f", row.Close)
	}
}

func TestReader_MissingColumn(t *testing.T) {
	input := `<DATE>,<TIME>,<OPEN>,<HIGH>,<LOW>,<CLOSE>
20250708,090000,1,2,0.5,1.5
`
	_, err := NewReader(strings.NewReader(input))
	if !errors.Is(err, errors.ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReader_EmptyInput(t *testing.T) {
	_, err := NewReader(strings.NewReader(""))
	if !errors.Is(err, errors.ErrInputFormat) {
		t.Errorf("expected ErrInputFormat, got %v", err)
	}
}

func TestReader_BadValues(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"bad open", "20250708,090000,abc,2,0.5,1.5,10"},
		{"bad volume", "20250708,090000,1,2,0.5,1.5,-10"},
		{"float volume", "20250708,090000,1,2,0.5,1.5,10.5"},
		{"short row", "20250708,090000,1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "<DATE>,<TIME>,<OPEN>,<HIGH>,<LOW>,<CLOSE>,<VOL>\n" + tt.row + "\n"
			r, err := NewReader(strings.NewReader(input))
			if err != nil {
				t.Fatalf("NewReader: %v", err)
			}

			_, err = r.Read()
			if !errors.Is(err, errors.ErrInputFormat) {
				t.Errorf("expected ErrInputFormat, got %v", err)
			}
			if !errors.IsInputFormat(err) {
				t.Errorf("expected an input format category error, got %v", err)
			}
		})
	}
}

func TestReader_LineNumbers(t *testing.T) {
	r, err := NewReader(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	if r.Line() != 1 {
		t.Errorf("expected line=1 after header, got %d", r.Line())
	}

	r.Read()
	if r.Line() != 2 {
		t.Errorf("expected line=2, got %d", r.Line())
	}
}
