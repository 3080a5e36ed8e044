package platform

import (
	"errors"

	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

// ErrNoWindow is returned when a window handle does not resolve to a live
// window.
var ErrNoWindow = errors.New("window not found")

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Edges converts r to the edge form used by screeninfo.
func (r Rect) Edges() screeninfo.Rect {
	return screeninfo.RectFromXYWH(r.X, r.Y, r.Width, r.Height)
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Bounds Rect   `json:"bounds"`
	Usable Rect   `json:"usable"`
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID    WindowID `json:"id"`
	Class string   `json:"class"`
	Title string   `json:"title"`
	// Client is the client area in screen coordinates.
	Client Rect `json:"client"`
	// Frame is the client area grown by the window decorations.
	Frame Rect `json:"frame"`
}

// Backend abstracts window-system operations across platforms. Every
// Backend is also the geometry source for screeninfo.
type Backend interface {
	screeninfo.RectProvider
	screeninfo.DisplayTopology

	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	Window(id WindowID) (Window, error)
}

// ContentRects intersects a window's client area (screen coordinates) with
// each display area and returns the non-empty pieces in client coordinates,
// in reading order. A piece lying inside another one is dropped, so mirrored
// displays count once.
func ContentRects(client Rect, areas []Rect) []screeninfo.Rect {
	clientEdges := client.Edges()
	var pieces []screeninfo.Rect
	for _, area := range areas {
		piece := clientEdges.Intersect(area.Edges())
		if piece.Empty() {
			continue
		}
		pieces = append(pieces, piece.Offset(-client.X, -client.Y))
	}

	var out []screeninfo.Rect
	for i, p := range pieces {
		if !coveredByOther(pieces, i) {
			out = append(out, p)
		}
	}
	screeninfo.SortRects(out)
	return out
}

// coveredByOther reports whether pieces[i] lies inside another piece. Of two
// equal pieces only the first survives.
func coveredByOther(pieces []screeninfo.Rect, i int) bool {
	for j, other := range pieces {
		if j == i || !other.Contains(pieces[i]) {
			continue
		}
		if other != pieces[i] || j < i {
			return true
		}
	}
	return false
}

// ClientRect returns the client area of w in client coordinates.
func ClientRect(w Window) screeninfo.Rect {
	return screeninfo.Rect{Right: w.Client.Width, Bottom: w.Client.Height}
}
