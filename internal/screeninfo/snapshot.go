package screeninfo

// Snapshot is an immutable capture of a window's client rect and content
// rects. It holds no reference to the ScreenInfo that produced it and is
// safe to share between goroutines.
type Snapshot struct {
	clientRect   Rect
	contentRects []Rect
}

func newSnapshot(rects []Rect, clientRect Rect) Snapshot {
	return Snapshot{
		clientRect:   clientRect,
		contentRects: cloneRects(rects),
	}
}

// ClientRect returns the client rect at capture time.
func (s Snapshot) ClientRect() Rect { return s.clientRect }

// RectCount returns the number of content rects at capture time.
func (s Snapshot) RectCount() int { return len(s.contentRects) }

// Rects returns a copy of the content rects at capture time.
func (s Snapshot) Rects() []Rect { return cloneRects(s.contentRects) }

// Equal reports whether two snapshots describe the same configuration.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.isSameAs(other.contentRects, other.clientRect)
}

func (s Snapshot) isSameAs(rects []Rect, clientRect Rect) bool {
	return s.clientRect == clientRect && equalRects(s.contentRects, rects)
}
