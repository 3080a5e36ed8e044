package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WatchWindow calls onChange whenever windowID is moved, resized or
// reparented. Callbacks run on the EventLoop goroutine.
func (c *Connection) WatchWindow(windowID xproto.Window, onChange func()) error {
	win := xwindow.New(c.XUtil, windowID)
	if err := win.Listen(xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("failed to listen on window %d: %w", windowID, err)
	}

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, _ xevent.ConfigureNotifyEvent) {
		onChange()
	}).Connect(c.XUtil, windowID)
	xevent.ReparentNotifyFun(func(_ *xgbutil.XUtil, _ xevent.ReparentNotifyEvent) {
		onChange()
	}).Connect(c.XUtil, windowID)
	return nil
}

// UnwatchWindow drops the callbacks registered by WatchWindow.
func (c *Connection) UnwatchWindow(windowID xproto.Window) {
	xevent.Detach(c.XUtil, windowID)
}

// WatchTopology calls onChange when the monitor layout changes (RandR
// screen change), when the work area changes, or when the active window
// changes. Callbacks run on the EventLoop goroutine.
func (c *Connection) WatchTopology(onChange func()) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		return fmt.Errorf("failed to listen on root window: %w", err)
	}

	err := randr.SelectInputChecked(c.XUtil.Conn(), c.Root, randr.NotifyMaskScreenChange).Check()
	if err != nil {
		return fmt.Errorf("failed to select randr input: %w", err)
	}

	workArea, err := xprop.Atm(c.XUtil, "_NET_WORKAREA")
	if err != nil {
		return err
	}
	activeWindow, err := xprop.Atm(c.XUtil, "_NET_ACTIVE_WINDOW")
	if err != nil {
		return err
	}

	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom == workArea || ev.Atom == activeWindow {
			onChange()
		}
	}).Connect(c.XUtil, c.Root)

	xevent.HookFun(func(_ *xgbutil.XUtil, event interface{}) bool {
		if _, ok := event.(randr.ScreenChangeNotifyEvent); ok {
			onChange()
		}
		return true
	}).Connect(c.XUtil)
	return nil
}
