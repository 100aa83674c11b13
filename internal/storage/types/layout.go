package types

import (
	"fmt"
	"strings"

	"github.com/andydardgallard/ohlcvstore/internal/errors"
)

// Layout identifies the physical encoding of a dataset file.
// The layout is never inferred from buffer contents; it travels
// out-of-band in the file name suffix.
type Layout int

const (
	// LayoutRowOriented stores each record as one contiguous group of
	// fields (array-of-structures).
	LayoutRowOriented Layout = iota

	// LayoutColumnOriented stores each field as its own contiguous
	// array, all arrays aligned by row index (structure-of-arrays).
	LayoutColumnOriented
)

// String returns the short layout name used in file suffixes.
func (l Layout) String() string {
	switch l {
	case LayoutRowOriented:
		return "aos"
	case LayoutColumnOriented:
		return "soa"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// Suffix returns the data file suffix for this layout (".aos.bin" or ".soa.bin").
func (l Layout) Suffix() string {
	return "." + l.String() + ".bin"
}

// ParseLayout parses a layout name ("aos" or "soa").
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "aos":
		return LayoutRowOriented, nil
	case "soa":
		return LayoutColumnOriented, nil
	default:
		return 0, fmt.Errorf("%w: %q (want aos or soa)", errors.ErrUnknownLayout, s)
	}
}

// LayoutFromFilename derives the layout from a data file name by its
// suffix. The second return value is false when the name carries no
// recognized layout suffix.
func LayoutFromFilename(name string) (Layout, bool) {
	switch {
	case strings.HasSuffix(name, LayoutRowOriented.Suffix()):
		return LayoutRowOriented, true
	case strings.HasSuffix(name, LayoutColumnOriented.Suffix()):
		return LayoutColumnOriented, true
	default:
		return 0, false
	}
}
