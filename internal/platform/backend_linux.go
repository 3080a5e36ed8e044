//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/splitscreen/internal/screeninfo"
	"github.com/1broseidon/splitscreen/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
	// useWorkArea clips displays to the area left free by docks and panels.
	useWorkArea bool
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, useWorkArea bool) *LinuxBackend {
	return &LinuxBackend{conn: conn, useWorkArea: useWorkArea}
}

// NewLinuxBackendFromDisplay opens a new X11 connection to display ("" means
// $DISPLAY).
func NewLinuxBackendFromDisplay(display string, useWorkArea bool) (*LinuxBackend, error) {
	conn, err := x11.NewConnectionDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, useWorkArea), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// WatchWindow calls onChange when the window is moved or resized.
func (b *LinuxBackend) WatchWindow(id WindowID, onChange func()) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchWindow(xproto.Window(id), onChange)
}

// UnwatchWindow removes the callbacks installed by WatchWindow.
func (b *LinuxBackend) UnwatchWindow(id WindowID) {
	if conn, err := b.connection(); err == nil {
		conn.UnwatchWindow(xproto.Window(id))
	}
}

// BindKey grabs a global key sequence such as "Mod4-Shift-e" and calls
// callback on every press.
func (b *LinuxBackend) BindKey(sequence string, callback func()) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.BindKey(sequence, callback)
}

// WatchTopology calls onChange when monitors, the work area or the active
// window change.
func (b *LinuxBackend) WatchTopology(onChange func()) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchTopology(onChange)
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		d := Display{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: rectFromMonitor(m),
			Usable: rectFromMonitor(m),
		}
		if b.useWorkArea {
			d.Usable = rectFromMonitor(conn.UsableArea(m))
		}
		displays = append(displays, d)
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// DisplayCount implements screeninfo.DisplayTopology.
func (b *LinuxBackend) DisplayCount() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	monitors, err := conn.GetMonitors()
	if err != nil {
		return 0, err
	}
	return len(monitors), nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	if wid == 0 {
		return 0, ErrNoWindow
	}
	return WindowID(wid), nil
}

// Window returns geometry and identification for id.
func (b *LinuxBackend) Window(id WindowID) (Window, error) {
	conn, err := b.connection()
	if err != nil {
		return Window{}, err
	}
	if id == 0 {
		return Window{}, ErrNoWindow
	}

	xid := xproto.Window(id)
	geom, err := conn.GetWindowGeometry(xid)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %v", ErrNoWindow, err)
	}

	client := Rect{X: geom.X, Y: geom.Y, Width: geom.Width, Height: geom.Height}
	frame := Rect{
		X:      geom.X - geom.FrameLeft,
		Y:      geom.Y - geom.FrameTop,
		Width:  geom.Width + geom.FrameLeft + geom.FrameRight,
		Height: geom.Height + geom.FrameTop + geom.FrameBottom,
	}
	return Window{
		ID:     id,
		Class:  conn.GetWindowClass(xid),
		Title:  conn.GetWindowTitle(xid),
		Client: client,
		Frame:  frame,
	}, nil
}

// WindowRects implements screeninfo.RectProvider.
func (b *LinuxBackend) WindowRects(handle screeninfo.WindowHandle) (client, frame screeninfo.Rect, err error) {
	w, err := b.Window(WindowID(handle))
	if err != nil {
		return screeninfo.Rect{}, screeninfo.Rect{}, err
	}
	return ClientRect(w), w.Frame.Edges(), nil
}

// ContentRects implements screeninfo.RectProvider.
func (b *LinuxBackend) ContentRects(handle screeninfo.WindowHandle) ([]screeninfo.Rect, error) {
	w, err := b.Window(WindowID(handle))
	if err != nil {
		return nil, err
	}
	displays, err := b.Displays()
	if err != nil {
		return nil, err
	}
	areas := make([]Rect, 0, len(displays))
	for _, d := range displays {
		areas = append(areas, d.Usable)
	}
	return ContentRects(w.Client, areas), nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func rectFromMonitor(m x11.Monitor) Rect {
	return Rect{
		X:      m.X,
		Y:      m.Y,
		Width:  m.Width,
		Height: m.Height,
	}
}
