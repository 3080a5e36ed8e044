package screeninfo

import (
	"encoding/json"
	"testing"
)

func TestRectWidthHeight_NoClamping(t *testing.T) {
	r := Rect{Left: 100, Top: 50, Right: 40, Bottom: 10}
	if got := RectWidth(r); got != -60 {
		t.Fatalf("RectWidth() = %d, want -60", got)
	}
	if got := RectHeight(r); got != -40 {
		t.Fatalf("RectHeight() = %d, want -40", got)
	}
	if !r.Empty() || r.Area() != 0 {
		t.Fatalf("malformed rect must be empty with zero area")
	}
}

func TestRectFromXYWH(t *testing.T) {
	if got := RectFromXYWH(10, 20, 30, 40); got != (Rect{10, 20, 40, 60}) {
		t.Fatalf("RectFromXYWH() = %v", got)
	}
}

func TestSortRects_ReadingOrderAndStability(t *testing.T) {
	a := Rect{0, 0, 100, 100}
	b := Rect{0, 0, 50, 50} // same corner as a
	c := Rect{100, 0, 200, 100}
	d := Rect{0, 100, 100, 200}

	rects := []Rect{d, c, a, b}
	SortRects(rects)

	want := []Rect{a, b, c, d}
	for i := range want {
		if rects[i] != want[i] {
			t.Fatalf("SortRects() = %v, want %v", rects, want)
		}
	}
}

func TestRectLess(t *testing.T) {
	tests := []struct {
		a, b Rect
		want bool
	}{
		{Rect{Top: 0, Left: 500}, Rect{Top: 1, Left: 0}, true},
		{Rect{Top: 1, Left: 0}, Rect{Top: 0, Left: 500}, false},
		{Rect{Top: 0, Left: 0}, Rect{Top: 0, Left: 1}, true},
		{Rect{Top: 0, Left: 0}, Rect{Top: 0, Left: 0}, false},
	}
	for _, tt := range tests {
		if got := RectLess(tt.a, tt.b); got != tt.want {
			t.Errorf("RectLess(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRectIntersectContains(t *testing.T) {
	a := Rect{0, 0, 100, 100}
	b := Rect{50, 50, 150, 150}

	if got := a.Intersect(b); got != (Rect{50, 50, 100, 100}) {
		t.Fatalf("Intersect() = %v", got)
	}
	if got := a.Intersect(Rect{200, 200, 300, 300}); got != (Rect{}) {
		t.Fatalf("disjoint Intersect() = %v, want zero", got)
	}
	if !a.Contains(Rect{10, 10, 20, 20}) || a.Contains(b) {
		t.Fatalf("Contains() mismatch")
	}
	if got := a.Offset(5, -5); got != (Rect{5, -5, 105, 95}) {
		t.Fatalf("Offset() = %v", got)
	}
}

func TestSplitKind_TextRoundTrip(t *testing.T) {
	for _, k := range []SplitKind{SplitUnknown, SplitNone, SplitVertical, SplitHorizontal} {
		data, err := json.Marshal(k)
		if err != nil {
			t.Fatalf("marshal %v: %v", k, err)
		}
		var got SplitKind
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if got != k {
			t.Fatalf("round trip %v -> %s -> %v", k, data, got)
		}
	}

	if _, err := ParseSplitKind("diagonal"); err == nil {
		t.Fatalf("expected error for invalid split kind")
	}
	if k, err := ParseSplitKind(" V "); err != nil || k != SplitVertical {
		t.Fatalf("ParseSplitKind(\" V \") = %v, %v", k, err)
	}
}
