// Package screeninfo tracks how a window is split across physical displays
// and reports when that split changes.
package screeninfo

import (
	"errors"
	"io"
	"log/slog"
)

// DefaultMinRectSize is the smallest width or height a content rect may have
// before it is considered useless for layout.
const DefaultMinRectSize = 200

// ErrNoProvider is returned by queries made without a RectProvider.
var ErrNoProvider = errors.New("screeninfo: no rect provider")

// WindowHandle identifies a window to a RectProvider.
type WindowHandle uint32

// RectProvider supplies raw geometry for a window.
type RectProvider interface {
	// WindowRects returns the client rect (in client coordinates) and the
	// full window rect (in screen coordinates).
	WindowRects(window WindowHandle) (client, frame Rect, err error)
	// ContentRects returns the regions of the client area that lie on a
	// usable display, in client coordinates.
	ContentRects(window WindowHandle) ([]Rect, error)
}

// ScreenInfo holds the current view of a window's geometry and split state.
// It is not safe for concurrent use; confine an instance to the goroutine
// that handles the window's events.
type ScreenInfo struct {
	provider RectProvider
	logger   *slog.Logger

	splitKind    SplitKind
	clientRect   Rect
	windowRect   Rect
	contentRects []Rect

	minRectSize    int
	splitTolerance int
	horizontal     func(*ScreenInfo) int

	emulatedScreenCount int
	emulatedSplit       SplitKind
	// forces the next Update to report a change after emulation toggles
	dirty bool
}

// Option configures a ScreenInfo.
type Option func(*ScreenInfo)

// WithMinRectSize overrides DefaultMinRectSize.
func WithMinRectSize(size int) Option {
	return func(s *ScreenInfo) { s.minRectSize = size }
}

// WithSplitTolerance overrides DefaultSplitTolerance.
func WithSplitTolerance(tolerance int) Option {
	return func(s *ScreenInfo) { s.splitTolerance = tolerance }
}

// WithHorizontalContentHeuristic replaces the policy behind
// BestIndexForHorizontalContent for this instance. A nil policy keeps
// DefaultHorizontalContentHeuristic.
func WithHorizontalContentHeuristic(policy func(*ScreenInfo) int) Option {
	return func(s *ScreenInfo) {
		if policy != nil {
			s.horizontal = policy
		}
	}
}

// WithLogger sets the logger used for provider failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *ScreenInfo) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a ScreenInfo backed by provider. The split kind starts as
// SplitUnknown until the first Update.
func New(provider RectProvider, opts ...Option) *ScreenInfo {
	s := &ScreenInfo{
		provider:            provider,
		logger:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		splitKind:           SplitUnknown,
		minRectSize:         DefaultMinRectSize,
		splitTolerance:      DefaultSplitTolerance,
		horizontal:          DefaultHorizontalContentHeuristic,
		emulatedScreenCount: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update re-reads the window geometry and recomputes the split. It returns
// true if the client rect, the content rects or the split kind changed.
// Provider failures are not reported; they degrade to "no content rects".
func (s *ScreenInfo) Update(window WindowHandle) bool {
	client, frame, ok := s.queryWindowRects(window)
	if !ok {
		if s.IsEmulating() {
			client, frame = s.clientRect, s.windowRect
		} else {
			client, frame = Rect{}, Rect{}
		}
	}

	var rects []Rect
	var kind SplitKind
	if s.IsEmulating() {
		rects = emulatedRects(client, s.emulatedScreenCount, s.emulatedSplit)
		kind = SplitNone
		if len(rects) > 1 {
			kind = s.emulatedSplit
		}
	} else {
		rects = s.filterRects(s.queryContentRects(window))
		SortRects(rects)
		kind = ClassifySplit(rects, client, s.splitTolerance)
	}

	prev := newSnapshot(s.contentRects, s.clientRect)
	changed := s.dirty || kind != s.splitKind || !prev.isSameAs(rects, client)

	s.clientRect = client
	s.windowRect = frame
	s.contentRects = rects
	s.splitKind = kind
	s.dirty = false

	return changed
}

func (s *ScreenInfo) queryWindowRects(window WindowHandle) (client, frame Rect, ok bool) {
	if s.provider == nil {
		s.logger.Debug("window rects unavailable", "window", window, "error", ErrNoProvider)
		return Rect{}, Rect{}, false
	}
	client, frame, err := s.provider.WindowRects(window)
	if err != nil {
		s.logger.Debug("window rects unavailable", "window", window, "error", err)
		return Rect{}, Rect{}, false
	}
	return client, frame, true
}

func (s *ScreenInfo) queryContentRects(window WindowHandle) []Rect {
	if s.provider == nil {
		return nil
	}
	rects, err := s.provider.ContentRects(window)
	if err != nil {
		s.logger.Debug("content rects unavailable", "window", window, "error", err)
		return nil
	}
	return rects
}

// filterRects returns a new slice holding the rects big enough for layout.
func (s *ScreenInfo) filterRects(in []Rect) []Rect {
	var out []Rect
	for _, r := range in {
		if r.Empty() || RectWidth(r) < s.minRectSize || RectHeight(r) < s.minRectSize {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SplitKind returns the current classification.
func (s *ScreenInfo) SplitKind() SplitKind { return s.splitKind }

// ClientRect returns the last observed client rect.
func (s *ScreenInfo) ClientRect() Rect { return s.clientRect }

// WindowRect returns the last observed full window rect.
func (s *ScreenInfo) WindowRect() Rect { return s.windowRect }

// RectCount returns the number of content rects.
func (s *ScreenInfo) RectCount() int { return len(s.contentRects) }

// Rect returns the content rect at index. It panics if index is out of
// range; check RectCount first.
func (s *ScreenInfo) Rect(index int) Rect { return s.contentRects[index] }

// Rects returns a copy of the content rects in reading order.
func (s *ScreenInfo) Rects() []Rect { return cloneRects(s.contentRects) }

// IndexForRect maps a rect reported elsewhere (a paint or expose region,
// say) back to a content rect. An exact match wins, then a content rect
// containing candidate, then the one overlapping it most. It returns -1 if
// candidate overlaps no content rect.
func (s *ScreenInfo) IndexForRect(candidate Rect) int {
	for i, r := range s.contentRects {
		if r == candidate {
			return i
		}
	}
	if candidate.Empty() {
		return -1
	}
	for i, r := range s.contentRects {
		if r.Contains(candidate) {
			return i
		}
	}
	best, bestArea := -1, 0
	for i, r := range s.contentRects {
		if area := r.Intersect(candidate).Area(); area > bestArea {
			best, bestArea = i, area
		}
	}
	return best
}

// WidestIndex returns the index of the widest content rect, preferring the
// earliest on ties, or -1 if there are none.
func (s *ScreenInfo) WidestIndex() int {
	return s.maxIndex(RectWidth)
}

// TallestIndex returns the index of the tallest content rect, preferring the
// earliest on ties, or -1 if there are none.
func (s *ScreenInfo) TallestIndex() int {
	return s.maxIndex(RectHeight)
}

func (s *ScreenInfo) maxIndex(measure func(Rect) int) int {
	best := -1
	for i, r := range s.contentRects {
		if best < 0 || measure(r) > measure(s.contentRects[best]) {
			best = i
		}
	}
	return best
}

// BestIndexForHorizontalContent picks the content rect that should host
// wide, horizontally flowing content, using the instance's policy.
func (s *ScreenInfo) BestIndexForHorizontalContent() int {
	return s.horizontal(s)
}

// DefaultHorizontalContentHeuristic picks the topmost region for a
// horizontal split and the widest region otherwise. It returns -1 only when
// there are no rects.
func DefaultHorizontalContentHeuristic(s *ScreenInfo) int {
	if s.RectCount() == 0 {
		return -1
	}
	switch s.splitKind {
	case SplitHorizontal, SplitNone:
		return 0
	default:
		return s.WidestIndex()
	}
}

// SetMinRectSize changes the size filter. It applies from the next Update.
func (s *ScreenInfo) SetMinRectSize(size int) { s.minRectSize = size }

// MinRectSize returns the size filter.
func (s *ScreenInfo) MinRectSize() int { return s.minRectSize }

// SetSplitTolerance changes how far edges may differ and still count as
// aligned. It applies from the next Update.
func (s *ScreenInfo) SetSplitTolerance(tolerance int) { s.splitTolerance = tolerance }

// SplitTolerance returns the alignment tolerance.
func (s *ScreenInfo) SplitTolerance() int { return s.splitTolerance }

// Snapshot captures the current client and content rects.
func (s *ScreenInfo) Snapshot() Snapshot {
	return newSnapshot(s.contentRects, s.clientRect)
}

// HasConfigurationChanged reports whether the current state differs from
// the one captured in snap.
func (s *ScreenInfo) HasConfigurationChanged(snap Snapshot) bool {
	return !snap.isSameAs(s.contentRects, s.clientRect)
}
