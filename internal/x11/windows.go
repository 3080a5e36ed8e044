package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Geometry is a window's client area in root coordinates plus the
// decoration extents the window manager reports around it.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int

	FrameLeft   int
	FrameRight  int
	FrameTop    int
	FrameBottom int
}

// GetWindowGeometry returns the client area of windowID translated into
// root coordinates.
func (c *Connection) GetWindowGeometry(windowID xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to get geometry of window %d: %w", windowID, err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to translate coordinates of window %d: %w", windowID, err)
	}

	g := Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}
	g.FrameLeft, g.FrameRight, g.FrameTop, g.FrameBottom = c.GetFrameExtents(windowID)
	return g, nil
}

// GetFrameExtents returns the window decoration sizes, or zeros when the
// window manager does not publish _NET_FRAME_EXTENTS.
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

// GetWindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) GetWindowTitle(windowID xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && name != "" {
		return name
	}
	if name, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return name
	}
	return ""
}

// GetWindowClass returns the WM_CLASS class name, or "" if unset.
func (c *Connection) GetWindowClass(windowID xproto.Window) string {
	class, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil || class == nil {
		return ""
	}
	return class.Class
}

// hasWindowType reports whether _NET_WM_WINDOW_TYPE of windowID includes
// typeName.
func (c *Connection) hasWindowType(windowID xproto.Window, typeName string) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == typeName {
			return true
		}
	}
	return false
}

// GetActiveWindow returns _NET_ACTIVE_WINDOW.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
