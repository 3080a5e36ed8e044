package screeninfo

import (
	"errors"
	"testing"
)

var errWindowGone = errors.New("window gone")

type fakeProvider struct {
	client  Rect
	frame   Rect
	content []Rect

	windowErr    error
	contentErr   error
	contentCalls int
}

func (f *fakeProvider) WindowRects(WindowHandle) (Rect, Rect, error) {
	if f.windowErr != nil {
		return Rect{}, Rect{}, f.windowErr
	}
	return f.client, f.frame, nil
}

func (f *fakeProvider) ContentRects(WindowHandle) ([]Rect, error) {
	f.contentCalls++
	if f.contentErr != nil {
		return nil, f.contentErr
	}
	out := make([]Rect, len(f.content))
	copy(out, f.content)
	return out, nil
}

func dualVertical() *fakeProvider {
	return &fakeProvider{
		client:  Rect{0, 0, 1000, 600},
		frame:   Rect{100, 50, 1100, 680},
		content: []Rect{{500, 0, 1000, 600}, {0, 0, 500, 600}},
	}
}

func TestUpdate_DualVerticalScenario(t *testing.T) {
	si := New(dualVertical())

	if !si.Update(1) {
		t.Fatalf("expected first Update to report a change")
	}
	if got := si.RectCount(); got != 2 {
		t.Fatalf("RectCount() = %d, want 2", got)
	}
	if got := si.SplitKind(); got != SplitVertical {
		t.Fatalf("SplitKind() = %v, want vertical", got)
	}
	if got := si.Rect(0); got != (Rect{0, 0, 500, 600}) {
		t.Fatalf("Rect(0) = %v, want left half first", got)
	}
	if w := si.WidestIndex(); w != 0 && w != 1 {
		t.Fatalf("WidestIndex() = %d, want 0 or 1", w)
	}
	if got := si.IndexForRect(Rect{500, 0, 1000, 600}); got != 1 {
		t.Fatalf("IndexForRect(right half) = %d, want 1", got)
	}
	if got := si.WindowRect(); got != (Rect{100, 50, 1100, 680}) {
		t.Fatalf("WindowRect() = %v", got)
	}
}

func TestUpdate_UnchangedGeometryReturnsFalse(t *testing.T) {
	p := dualVertical()
	si := New(p)

	if !si.Update(1) {
		t.Fatalf("expected first Update to report a change")
	}
	for i := 0; i < 5; i++ {
		if si.Update(1) {
			t.Fatalf("Update #%d reported a change with identical geometry", i+2)
		}
	}

	p.content[0].Right = 990
	if !si.Update(1) {
		t.Fatalf("expected Update to report changed bounds")
	}
	if si.Update(1) {
		t.Fatalf("expected follow-up Update to be quiet")
	}
}

func TestUpdate_ClientRectChangeIsReported(t *testing.T) {
	p := &fakeProvider{client: Rect{0, 0, 800, 600}, content: []Rect{{0, 0, 800, 600}}}
	si := New(p)
	si.Update(1)

	p.client = Rect{0, 0, 800, 700}
	if !si.Update(1) {
		t.Fatalf("expected client rect change to be reported")
	}
}

func TestUpdate_FiltersSmallRects(t *testing.T) {
	p := &fakeProvider{
		client: Rect{0, 0, 1000, 600},
		content: []Rect{
			{0, 0, 800, 600},
			{800, 0, 1000, 600}, // 200 wide: kept at the default threshold
			{0, 0, 199, 600},
			{0, 0, 600, 150},
			{50, 50, 10, 400}, // negative width
		},
	}
	si := New(p)
	si.Update(1)

	if got := si.RectCount(); got != 2 {
		t.Fatalf("RectCount() = %d, want 2: %v", got, si.Rects())
	}
	for _, r := range si.Rects() {
		if RectWidth(r) < si.MinRectSize() || RectHeight(r) < si.MinRectSize() {
			t.Fatalf("rect %v below threshold survived", r)
		}
	}
}

func TestSetMinRectSize_AppliesOnNextUpdate(t *testing.T) {
	p := &fakeProvider{
		client:  Rect{0, 0, 1000, 600},
		content: []Rect{{0, 0, 700, 600}, {700, 0, 1000, 600}},
	}
	si := New(p)
	si.Update(1)
	if si.RectCount() != 2 {
		t.Fatalf("expected 2 rects before threshold change")
	}

	si.SetMinRectSize(400)
	if si.MinRectSize() != 400 {
		t.Fatalf("MinRectSize() = %d, want 400", si.MinRectSize())
	}
	if si.RectCount() != 2 {
		t.Fatalf("threshold change must not apply retroactively")
	}
	if !si.Update(1) {
		t.Fatalf("expected Update to report the dropped rect")
	}
	if si.RectCount() != 1 || si.SplitKind() != SplitNone {
		t.Fatalf("got %d rects, split %v; want 1 rect, none", si.RectCount(), si.SplitKind())
	}
}

func TestUpdate_OrderingInvariant(t *testing.T) {
	p := &fakeProvider{
		client: Rect{0, 0, 1200, 1200},
		content: []Rect{
			{0, 800, 1200, 1200},
			{0, 0, 1200, 400},
			{0, 400, 1200, 800},
		},
	}
	si := New(p)
	si.Update(1)

	rects := si.Rects()
	for i := 1; i < len(rects); i++ {
		if RectLess(rects[i], rects[i-1]) {
			t.Fatalf("rects out of order at %d: %v", i, rects)
		}
	}
	if si.SplitKind() != SplitHorizontal {
		t.Fatalf("SplitKind() = %v, want horizontal", si.SplitKind())
	}
}

func TestUpdate_ProviderFailureDegradesToNone(t *testing.T) {
	p := dualVertical()
	si := New(p)
	si.Update(1)

	p.contentErr = errors.New("boom")
	if !si.Update(1) {
		t.Fatalf("expected losing content rects to be reported")
	}
	if si.RectCount() != 0 || si.SplitKind() != SplitNone {
		t.Fatalf("got %d rects, split %v; want 0, none", si.RectCount(), si.SplitKind())
	}

	p.windowErr = errors.New("no window")
	si.Update(1)
	if si.ClientRect() != (Rect{}) {
		t.Fatalf("ClientRect() = %v, want zero after window failure", si.ClientRect())
	}
}

func TestUpdate_NilProvider(t *testing.T) {
	si := New(nil)
	if !si.Update(7) {
		t.Fatalf("expected first Update to move split from unknown to none")
	}
	if si.Update(7) {
		t.Fatalf("expected second Update to be quiet")
	}
	if si.SplitKind() != SplitNone || si.RectCount() != 0 {
		t.Fatalf("got split %v with %d rects", si.SplitKind(), si.RectCount())
	}
}

func TestNew_StartsUnknown(t *testing.T) {
	si := New(dualVertical())
	if si.SplitKind() != SplitUnknown {
		t.Fatalf("SplitKind() = %v before Update, want unknown", si.SplitKind())
	}
	if si.IsEmulating() {
		t.Fatalf("new ScreenInfo must not be emulating")
	}
	if si.MinRectSize() != DefaultMinRectSize {
		t.Fatalf("MinRectSize() = %d, want %d", si.MinRectSize(), DefaultMinRectSize)
	}
	if si.SplitTolerance() != DefaultSplitTolerance {
		t.Fatalf("SplitTolerance() = %d, want %d", si.SplitTolerance(), DefaultSplitTolerance)
	}
}

func TestOptions(t *testing.T) {
	si := New(nil, WithMinRectSize(50), WithSplitTolerance(2), WithLogger(nil))
	if si.MinRectSize() != 50 || si.SplitTolerance() != 2 {
		t.Fatalf("options not applied: min=%d tol=%d", si.MinRectSize(), si.SplitTolerance())
	}
	if si.logger == nil {
		t.Fatalf("nil logger option must keep the default logger")
	}
}

func TestRect_PanicsOutOfRange(t *testing.T) {
	si := New(dualVertical())
	si.Update(1)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Rect(2) to panic")
		}
	}()
	si.Rect(2)
}

func TestIndexForRect(t *testing.T) {
	si := New(dualVertical())
	si.Update(1)

	tests := []struct {
		name string
		rect Rect
		want int
	}{
		{"exact left", Rect{0, 0, 500, 600}, 0},
		{"contained in right", Rect{600, 100, 700, 200}, 1},
		{"straddles, mostly left", Rect{300, 0, 600, 100}, 0},
		{"straddles, mostly right", Rect{400, 0, 900, 100}, 1},
		{"outside", Rect{2000, 0, 2100, 100}, -1},
		{"empty", Rect{}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := si.IndexForRect(tt.rect); got != tt.want {
				t.Errorf("IndexForRect(%v) = %d, want %d", tt.rect, got, tt.want)
			}
		})
	}
}

func TestWidestAndTallestIndex(t *testing.T) {
	p := &fakeProvider{
		client:  Rect{0, 0, 1500, 900},
		content: []Rect{{0, 0, 600, 900}, {600, 100, 1500, 800}},
	}
	si := New(p)

	if si.WidestIndex() != -1 || si.TallestIndex() != -1 {
		t.Fatalf("expected -1 for empty rect list")
	}

	si.Update(1)
	if got := si.WidestIndex(); got != 1 {
		t.Fatalf("WidestIndex() = %d, want 1", got)
	}
	if got := si.TallestIndex(); got != 0 {
		t.Fatalf("TallestIndex() = %d, want 0", got)
	}
}

func TestWidestIndex_TiePrefersEarliest(t *testing.T) {
	si := New(dualVertical())
	si.Update(1)
	if got := si.WidestIndex(); got != 0 {
		t.Fatalf("WidestIndex() = %d, want 0 on tie", got)
	}
	if got := si.TallestIndex(); got != 0 {
		t.Fatalf("TallestIndex() = %d, want 0 on tie", got)
	}
}

func TestBestIndexForHorizontalContent(t *testing.T) {
	tests := []struct {
		name    string
		content []Rect
		want    int
	}{
		{"none", nil, -1},
		{"single", []Rect{{0, 0, 800, 600}}, 0},
		{"horizontal prefers top", []Rect{{0, 700, 800, 1400}, {0, 0, 800, 600}}, 0},
		{"vertical prefers widest", []Rect{{0, 0, 400, 600}, {400, 0, 1200, 600}}, 1},
		{"unknown falls back to widest", []Rect{{0, 0, 400, 600}, {500, 700, 1400, 1300}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			si := New(&fakeProvider{client: Rect{0, 0, 1400, 1400}, content: tt.content})
			si.Update(1)
			got := si.BestIndexForHorizontalContent()
			if got != tt.want {
				t.Fatalf("BestIndexForHorizontalContent() = %d, want %d (split %v)", got, tt.want, si.SplitKind())
			}
			if si.RectCount() > 0 && (got < 0 || got >= si.RectCount()) {
				t.Fatalf("index %d out of range [0,%d)", got, si.RectCount())
			}
		})
	}
}

func TestWithHorizontalContentHeuristic(t *testing.T) {
	content := []Rect{{0, 0, 400, 600}, {400, 0, 1200, 600}}
	lastRect := func(s *ScreenInfo) int { return s.RectCount() - 1 }

	custom := New(&fakeProvider{client: Rect{0, 0, 1200, 600}, content: content}, WithHorizontalContentHeuristic(lastRect))
	plain := New(&fakeProvider{client: Rect{0, 0, 1200, 600}, content: content}, WithHorizontalContentHeuristic(nil))
	custom.Update(1)
	plain.Update(1)

	if got := custom.BestIndexForHorizontalContent(); got != 1 {
		t.Fatalf("custom policy index = %d, want 1", got)
	}
	if got := plain.BestIndexForHorizontalContent(); got != DefaultHorizontalContentHeuristic(plain) {
		t.Fatalf("nil policy should keep the default, got %d", got)
	}

	// The policy belongs to the instance.
	first := New(&fakeProvider{client: Rect{0, 0, 1200, 600}, content: content}, WithHorizontalContentHeuristic(func(*ScreenInfo) int { return 0 }))
	first.Update(1)
	if got := first.BestIndexForHorizontalContent(); got != 0 {
		t.Fatalf("first policy index = %d, want 0", got)
	}
	if got := plain.BestIndexForHorizontalContent(); got != 1 {
		t.Fatalf("default index changed to %d after another instance set a policy", got)
	}
}

func TestSnapshot_Equivalence(t *testing.T) {
	p := dualVertical()
	si := New(p)
	si.Update(1)

	snap := si.Snapshot()
	if si.HasConfigurationChanged(snap) {
		t.Fatalf("fresh snapshot must match current state")
	}
	si.Update(1)
	if si.HasConfigurationChanged(snap) {
		t.Fatalf("snapshot must match while geometry is unchanged")
	}

	p.content = p.content[:1]
	si.Update(1)
	if !si.HasConfigurationChanged(snap) {
		t.Fatalf("expected change after losing a rect")
	}
}

func TestSnapshot_IndependentOfScreenInfo(t *testing.T) {
	si := New(dualVertical())
	si.Update(1)
	snap := si.Snapshot()

	rects := snap.Rects()
	rects[0] = Rect{}
	if snap.Rects()[0] == (Rect{}) {
		t.Fatalf("Rects() must return a copy")
	}

	other := si.Snapshot()
	if !snap.Equal(other) {
		t.Fatalf("snapshots of identical state must be equal")
	}
	if snap.RectCount() != 2 || snap.ClientRect() != (Rect{0, 0, 1000, 600}) {
		t.Fatalf("unexpected snapshot contents: %v %v", snap.ClientRect(), snap.Rects())
	}
}

type fakeTopology struct {
	n   int
	err error
}

func (f fakeTopology) DisplayCount() (int, error) { return f.n, f.err }

func TestAreMultipleScreensPresent(t *testing.T) {
	tests := []struct {
		name string
		topo DisplayTopology
		want bool
	}{
		{"nil", nil, false},
		{"one", fakeTopology{n: 1}, false},
		{"two", fakeTopology{n: 2}, true},
		{"error", fakeTopology{n: 3, err: errors.New("no display")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AreMultipleScreensPresent(tt.topo); got != tt.want {
				t.Fatalf("AreMultipleScreensPresent() = %v, want %v", got, tt.want)
			}
		})
	}
}
