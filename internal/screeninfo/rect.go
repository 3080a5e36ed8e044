package screeninfo

import (
	"fmt"
	"sort"
)

// Rect is an axis-aligned region described by its four edges.
// Right and Bottom are exclusive.
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// RectFromXYWH builds a Rect from an origin and a size.
func RectFromXYWH(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// RectWidth returns Right-Left. Malformed rects yield negative widths.
func RectWidth(r Rect) int { return r.Right - r.Left }

// RectHeight returns Bottom-Top. Malformed rects yield negative heights.
func RectHeight(r Rect) int { return r.Bottom - r.Top }

// RectLess reports whether a comes before b in reading order:
// top-to-bottom, then left-to-right.
func RectLess(a, b Rect) bool {
	if a.Top != b.Top {
		return a.Top < b.Top
	}
	return a.Left < b.Left
}

// SortRects sorts rects in place into reading order. Rects sharing a
// top-left corner keep their relative order.
func SortRects(rects []Rect) {
	sort.SliceStable(rects, func(i, j int) bool {
		return RectLess(rects[i], rects[j])
	})
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool {
	return RectWidth(r) <= 0 || RectHeight(r) <= 0
}

// Contains reports whether other lies entirely within r.
func (r Rect) Contains(other Rect) bool {
	return other.Left >= r.Left && other.Top >= r.Top &&
		other.Right <= r.Right && other.Bottom <= r.Bottom
}

// Intersect returns the overlap of r and other, or the zero Rect if they
// do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		Left:   max(r.Left, other.Left),
		Top:    max(r.Top, other.Top),
		Right:  min(r.Right, other.Right),
		Bottom: min(r.Bottom, other.Bottom),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Area returns width*height, or 0 for empty rects.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return RectWidth(r) * RectHeight(r)
}

func (r Rect) String() string {
	return fmt.Sprintf("{%d,%d,%d,%d}", r.Left, r.Top, r.Right, r.Bottom)
}

func equalRects(a, b []Rect) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneRects(rects []Rect) []Rect {
	if len(rects) == 0 {
		return nil
	}
	out := make([]Rect, len(rects))
	copy(out, rects)
	return out
}
