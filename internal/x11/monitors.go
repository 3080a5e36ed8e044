package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// box is a half-open [x1,x2)×[y1,y2) region in root coordinates.
type box struct {
	x1, y1, x2, y2 int
}

func (m Monitor) box() box {
	return box{x1: m.X, y1: m.Y, x2: m.X + m.Width, y2: m.Y + m.Height}
}

func (b box) intersect(o box) box {
	out := box{x1: max(b.x1, o.x1), y1: max(b.y1, o.y1), x2: min(b.x2, o.x2), y2: min(b.y2, o.y2)}
	if out.x2 <= out.x1 || out.y2 <= out.y1 {
		return box{}
	}
	return out
}

func (b box) empty() bool {
	return b.x2 <= b.x1 || b.y2 <= b.y1
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Disabled CRTCs report no size or no outputs.
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		// Cloned outputs share one CRTC geometry; keep the first.
		if hasGeometry(monitors, int(crtcInfo.X), int(crtcInfo.Y), int(crtcInfo.Width), int(crtcInfo.Height)) {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

func hasGeometry(monitors []Monitor, x, y, width, height int) bool {
	for _, m := range monitors {
		if m.X == x && m.Y == y && m.Width == width && m.Height == height {
			return true
		}
	}
	return false
}

// UsableArea returns the part of monitor not reserved by docks and panels.
// Dock struts are preferred; the EWMH work area of the current desktop is
// the fallback. If neither is available the full monitor is returned.
func (c *Connection) UsableArea(monitor Monitor) Monitor {
	usable := monitor
	if c.applyDockStruts(&usable) {
		return usable
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return usable
	}
	desktop := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(workArea) {
		desktop = int(current)
	}
	wa := workArea[desktop]
	clip := monitor.box().intersect(box{
		x1: int(wa.X),
		y1: int(wa.Y),
		x2: int(wa.X) + int(wa.Width),
		y2: int(wa.Y) + int(wa.Height),
	})
	if clip.empty() {
		return usable
	}
	usable.X, usable.Y = clip.x1, clip.y1
	usable.Width, usable.Height = clip.x2-clip.x1, clip.y2-clip.y1
	return usable
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func (c *Connection) applyDockStruts(monitor *Monitor) bool {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	var struts dockStruts
	for _, windowID := range clients {
		if !c.hasWindowType(windowID, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			struts.add(monitor.box(), rootWidth, rootHeight, sp)
			continue
		}

		// Some docks only set _NET_WM_STRUT, which spans the whole edge.
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			struts.add(monitor.box(), rootWidth, rootHeight, &ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(rootHeight - 1),
				RightEndY:  uint(rootHeight - 1),
				TopEndX:    uint(rootWidth - 1),
				BottomEndX: uint(rootWidth - 1),
			})
		}
	}

	if struts == (dockStruts{}) {
		return false
	}

	monitor.X += struts.left
	monitor.Y += struts.top
	monitor.Width = max(1, monitor.Width-(struts.left+struts.right))
	monitor.Height = max(1, monitor.Height-(struts.top+struts.bottom))
	return true
}

// add widens the struts by the part of each reserved edge strip that falls
// on mon.
func (acc *dockStruts) add(mon box, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial) {
	if sp.Top > 0 {
		strip := box{x1: int(sp.TopStartX), y1: 0, x2: int(sp.TopEndX) + 1, y2: int(sp.Top)}
		if isect := mon.intersect(strip); !isect.empty() {
			acc.top = max(acc.top, isect.y2-isect.y1)
		}
	}
	if sp.Bottom > 0 {
		strip := box{x1: int(sp.BottomStartX), y1: rootHeight - int(sp.Bottom), x2: int(sp.BottomEndX) + 1, y2: rootHeight}
		if isect := mon.intersect(strip); !isect.empty() {
			acc.bottom = max(acc.bottom, isect.y2-isect.y1)
		}
	}
	if sp.Left > 0 {
		strip := box{x1: 0, y1: int(sp.LeftStartY), x2: int(sp.Left), y2: int(sp.LeftEndY) + 1}
		if isect := mon.intersect(strip); !isect.empty() {
			acc.left = max(acc.left, isect.x2-isect.x1)
		}
	}
	if sp.Right > 0 {
		strip := box{x1: rootWidth - int(sp.Right), y1: int(sp.RightStartY), x2: rootWidth, y2: int(sp.RightEndY) + 1}
		if isect := mon.intersect(strip); !isect.empty() {
			acc.right = max(acc.right, isect.x2-isect.x1)
		}
	}
}
