package daemon

import (
	"time"

	"github.com/1broseidon/splitscreen/internal/platform"
	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

// State is the published view of the tracked window. A State is never
// modified after it is published, so it may be shared between goroutines.
type State struct {
	// Generation increases every time a changed State is published.
	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`

	Window      platform.WindowID `json:"window"`
	WindowClass string            `json:"window_class,omitempty"`
	WindowTitle string            `json:"window_title,omitempty"`
	Following   bool              `json:"following_active"`

	Split        screeninfo.SplitKind `json:"split"`
	ClientRect   screeninfo.Rect      `json:"client_rect"`
	WindowRect   screeninfo.Rect      `json:"window_rect"`
	ContentRects []screeninfo.Rect    `json:"content_rects"`

	WidestIndex     int `json:"widest_index"`
	TallestIndex    int `json:"tallest_index"`
	HorizontalIndex int `json:"horizontal_content_index"`

	Emulating       bool                 `json:"emulating"`
	EmulatedScreens int                  `json:"emulated_screens,omitempty"`
	EmulatedSplit   screeninfo.SplitKind `json:"emulated_split,omitempty"`

	MinRectSize    int `json:"min_rect_size"`
	SplitTolerance int `json:"split_tolerance"`

	DisplayCount    int  `json:"display_count"`
	MultipleScreens bool `json:"multiple_screens"`

	snapshot screeninfo.Snapshot
}

// Snapshot returns the geometry captured when the state was published.
func (s State) Snapshot() screeninfo.Snapshot {
	return s.snapshot
}

// captureState reads everything a State needs from info. It must run on the
// goroutine that owns info.
func captureState(info *screeninfo.ScreenInfo, meta platform.Window, following bool, displays int, multiple bool) State {
	count, split := info.EmulatedScreens()
	st := State{
		UpdatedAt:       time.Now(),
		Window:          meta.ID,
		WindowClass:     meta.Class,
		WindowTitle:     meta.Title,
		Following:       following,
		Split:           info.SplitKind(),
		ClientRect:      info.ClientRect(),
		WindowRect:      info.WindowRect(),
		ContentRects:    info.Rects(),
		WidestIndex:     info.WidestIndex(),
		TallestIndex:    info.TallestIndex(),
		HorizontalIndex: info.BestIndexForHorizontalContent(),
		Emulating:       info.IsEmulating(),
		MinRectSize:     info.MinRectSize(),
		SplitTolerance:  info.SplitTolerance(),
		DisplayCount:    displays,
		MultipleScreens: multiple,
		snapshot:        info.Snapshot(),
	}
	if st.Emulating {
		st.EmulatedScreens = count
		st.EmulatedSplit = split
	}
	return st
}
