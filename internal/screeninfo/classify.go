package screeninfo

// DefaultSplitTolerance is the default number of units two edges may differ
// by and still be treated as aligned.
const DefaultSplitTolerance = 8

// ClassifySplit derives the split kind from rects already filtered and
// sorted into reading order. The classifier never guesses: any layout that
// is not a clean row or column of regions is SplitUnknown.
func ClassifySplit(rects []Rect, client Rect, tolerance int) SplitKind {
	if len(rects) <= 1 {
		return SplitNone
	}
	if tolerance < 0 {
		tolerance = 0
	}

	kind := pairSplit(rects[0], rects[1], tolerance)
	if kind == SplitUnknown {
		return SplitUnknown
	}
	for i := 2; i < len(rects); i++ {
		if pairSplit(rects[i-1], rects[i], tolerance) != kind {
			return SplitUnknown
		}
	}
	return kind
}

func pairSplit(a, b Rect, tolerance int) SplitKind {
	dLeft := abs(b.Left - a.Left)
	dTop := abs(b.Top - a.Top)

	switch {
	case dLeft > tolerance && dTop <= tolerance:
		return SplitVertical
	case dTop > tolerance && dLeft <= tolerance:
		return SplitHorizontal
	default:
		return SplitUnknown
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
