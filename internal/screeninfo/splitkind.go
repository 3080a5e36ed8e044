package screeninfo

import (
	"fmt"
	"strings"
)

// SplitKind describes how a window's content rects are arranged relative
// to one another.
type SplitKind int

const (
	// SplitUnknown means the kind has not been computed, or the geometry is
	// too ambiguous to classify.
	SplitUnknown SplitKind = iota
	// SplitNone means a single contiguous region.
	SplitNone
	// SplitVertical means regions arranged left-to-right.
	SplitVertical
	// SplitHorizontal means regions arranged top-to-bottom.
	SplitHorizontal
)

var splitKindNames = map[SplitKind]string{
	SplitUnknown:    "unknown",
	SplitNone:       "none",
	SplitVertical:   "vertical",
	SplitHorizontal: "horizontal",
}

func (k SplitKind) String() string {
	if name, ok := splitKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SplitKind(%d)", int(k))
}

// ParseSplitKind parses the lowercase text form of a SplitKind.
func ParseSplitKind(s string) (SplitKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unknown":
		return SplitUnknown, nil
	case "none", "":
		return SplitNone, nil
	case "vertical", "v":
		return SplitVertical, nil
	case "horizontal", "h":
		return SplitHorizontal, nil
	default:
		return SplitUnknown, fmt.Errorf("invalid split kind %q (expected none, vertical or horizontal)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k SplitKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SplitKind) UnmarshalText(text []byte) error {
	parsed, err := ParseSplitKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
