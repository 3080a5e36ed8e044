package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/splitscreen/internal/config"
	"github.com/1broseidon/splitscreen/internal/platform"
	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

// ErrNotRunning is returned by commands sent to a tracker whose Run loop has
// exited.
var ErrNotRunning = errors.New("tracker is not running")

// WindowWatcher is implemented by backends that can report geometry changes
// of a single window.
type WindowWatcher interface {
	WatchWindow(id platform.WindowID, onChange func()) error
	UnwatchWindow(id platform.WindowID)
}

// TrackerConfig holds configuration for the tracker.
type TrackerConfig struct {
	// Window is "active" or an explicit window id; see config.ParseWindow.
	Window         string
	PollInterval   time.Duration
	MinRectSize    int
	SplitTolerance int
	Emulate        config.Emulate
	Logger         *slog.Logger
}

// TrackerConfigFrom extracts the tracker settings from cfg.
func TrackerConfigFrom(cfg *config.Config, logger *slog.Logger) TrackerConfig {
	return TrackerConfig{
		Window:         cfg.Window,
		PollInterval:   cfg.PollInterval,
		MinRectSize:    cfg.MinRectSize,
		SplitTolerance: cfg.SplitTolerance,
		Emulate:        cfg.Emulate,
		Logger:         logger,
	}
}

type command struct {
	apply func()
	done  chan State
}

// Tracker keeps a ScreenInfo up to date for one window and publishes the
// result. The ScreenInfo is only touched from the goroutine running Run
// (or, before Run starts, the caller of Refresh); other goroutines talk to
// it through commands and read the published State.
type Tracker struct {
	backend platform.Backend
	watcher WindowWatcher
	logger  *slog.Logger
	info    *screeninfo.ScreenInfo

	follow   bool
	fixed    platform.WindowID
	interval time.Duration

	// current window and its metadata, owned by the Run goroutine
	window  platform.WindowID
	meta    platform.Window
	watched platform.WindowID
	started bool

	notify   chan struct{}
	commands chan command
	stopped  chan struct{}

	mu      sync.RWMutex
	state   State
	changed chan struct{}
}

// NewTracker creates a tracker for the window selected by cfg.
func NewTracker(cfg TrackerConfig, backend platform.Backend) (*Tracker, error) {
	if backend == nil {
		return nil, fmt.Errorf("tracker requires a backend")
	}
	id, follow, err := config.ParseWindow(cfg.Window)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}
	minRectSize := cfg.MinRectSize
	if minRectSize <= 0 {
		minRectSize = screeninfo.DefaultMinRectSize
	}

	t := &Tracker{
		backend:  backend,
		logger:   logger,
		follow:   follow,
		fixed:    platform.WindowID(id),
		interval: interval,
		notify:   make(chan struct{}, 1),
		commands: make(chan command),
		stopped:  make(chan struct{}),
		changed:  make(chan struct{}),
		state:    State{Split: screeninfo.SplitUnknown},
	}
	if w, ok := backend.(WindowWatcher); ok {
		t.watcher = w
	}
	t.info = screeninfo.New(backend,
		screeninfo.WithMinRectSize(minRectSize),
		screeninfo.WithSplitTolerance(cfg.SplitTolerance),
		screeninfo.WithLogger(logger),
	)
	if cfg.Emulate.Enabled() {
		t.info.EmulateScreens(cfg.Emulate.Screens, cfg.Emulate.SplitKind())
	}
	return t, nil
}

// Notify asks the Run loop to refresh soon. It never blocks and is safe to
// call from X event callbacks.
func (t *Tracker) Notify() {
	select {
	case t.notify <- struct{}{}:
	default:
	}
}

// Run refreshes on notifications, commands and every poll interval. Blocks
// until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	defer close(t.stopped)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info("tracker started", "interval", t.interval, "follow_active", t.follow)
	t.Refresh()

	for {
		select {
		case <-ctx.Done():
			t.unwatch()
			t.logger.Info("tracker stopped")
			return
		case cmd := <-t.commands:
			cmd.apply()
			ticker.Reset(t.interval)
			cmd.done <- t.Refresh()
		case <-t.notify:
			t.Refresh()
		case <-ticker.C:
			t.Refresh()
		}
	}
}

// Refresh updates the ScreenInfo and publishes a new State if anything
// changed. It returns the latest published State.
func (t *Tracker) Refresh() (st State) {
	// Recover from panics to prevent crashing the daemon; callers get the
	// last published state.
	defer func() {
		if err := recover(); err != nil {
			t.logger.Error("tracker panic recovered", "error", err)
			st = t.State()
		}
	}()

	switched := t.selectWindow()
	changed := t.info.Update(screeninfo.WindowHandle(t.window))

	displays, err := t.backend.DisplayCount()
	if err != nil {
		t.logger.Debug("display count unavailable", "error", err)
		displays = 0
	}
	multiple := displays > 1

	prev := t.State()
	if t.started && !changed && !switched && displays == prev.DisplayCount && multiple == prev.MultipleScreens {
		return prev
	}
	t.started = true

	next := captureState(t.info, t.meta, t.follow, displays, multiple)
	next.Generation = prev.Generation + 1
	t.publish(next)

	if changed || switched {
		t.logger.Info("screen configuration changed",
			"window", fmt.Sprintf("0x%x", uint32(next.Window)),
			"split", next.Split,
			"rects", len(next.ContentRects),
			"client", next.ClientRect.String(),
			"emulating", next.Emulating)
	} else {
		t.logger.Debug("display topology changed", "displays", displays)
	}
	return next
}

// selectWindow resolves the window to track and moves the geometry watch
// when it changes. It reports whether the window changed.
func (t *Tracker) selectWindow() bool {
	window := t.fixed
	if t.follow {
		active, err := t.backend.ActiveWindow()
		if err != nil {
			if !errors.Is(err, platform.ErrNoWindow) {
				t.logger.Debug("active window unavailable", "error", err)
			}
			active = 0
		}
		window = active
	}
	if window == t.window && t.started {
		return false
	}

	t.window = window
	t.meta = platform.Window{ID: window}
	if window != 0 {
		if meta, err := t.backend.Window(window); err == nil {
			t.meta = meta
		}
	}
	t.rewatch(window)
	return true
}

func (t *Tracker) rewatch(window platform.WindowID) {
	if t.watcher == nil || t.watched == window {
		return
	}
	t.unwatch()
	if window == 0 {
		return
	}
	if err := t.watcher.WatchWindow(window, t.Notify); err != nil {
		t.logger.Warn("failed to watch window", "window", fmt.Sprintf("0x%x", uint32(window)), "error", err)
		return
	}
	t.watched = window
}

func (t *Tracker) unwatch() {
	if t.watcher != nil && t.watched != 0 {
		t.watcher.UnwatchWindow(t.watched)
		t.watched = 0
	}
}

func (t *Tracker) publish(st State) {
	t.mu.Lock()
	t.state = st
	close(t.changed)
	t.changed = make(chan struct{})
	t.mu.Unlock()
}

// State returns the most recently published State.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// WaitForChange blocks until a State newer than generation is published or
// ctx is done. It returns the latest State either way.
func (t *Tracker) WaitForChange(ctx context.Context, generation uint64) (State, error) {
	for {
		t.mu.RLock()
		st, changed := t.state, t.changed
		t.mu.RUnlock()
		if st.Generation > generation {
			return st, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// Emulate switches to count synthetic screens split along kind. A negative
// count stops emulating.
func (t *Tracker) Emulate(ctx context.Context, count int, kind screeninfo.SplitKind) (State, error) {
	return t.do(ctx, func() {
		t.info.EmulateScreens(count, kind)
		if count < 0 {
			t.logger.Info("emulation stopped")
		} else {
			t.logger.Info("emulating screens", "count", count, "split", kind)
		}
	})
}

// StopEmulating returns to the displays reported by the backend.
func (t *Tracker) StopEmulating(ctx context.Context) (State, error) {
	return t.Emulate(ctx, -1, screeninfo.SplitUnknown)
}

// ApplyConfig updates the tracker from a reloaded configuration.
func (t *Tracker) ApplyConfig(ctx context.Context, cfg TrackerConfig) (State, error) {
	id, follow, err := config.ParseWindow(cfg.Window)
	if err != nil {
		return State{}, err
	}
	return t.do(ctx, func() {
		if cfg.MinRectSize > 0 {
			t.info.SetMinRectSize(cfg.MinRectSize)
		}
		t.info.SetSplitTolerance(cfg.SplitTolerance)
		if cfg.PollInterval > 0 {
			t.interval = cfg.PollInterval
		}
		t.follow = follow
		t.fixed = platform.WindowID(id)
		if cfg.Emulate.Enabled() {
			t.info.EmulateScreens(cfg.Emulate.Screens, cfg.Emulate.SplitKind())
		} else {
			t.info.StopEmulating()
		}
		t.logger.Info("configuration applied",
			"min_rect_size", t.info.MinRectSize(),
			"split_tolerance", t.info.SplitTolerance(),
			"poll_interval", t.interval)
	})
}

func (t *Tracker) do(ctx context.Context, apply func()) (State, error) {
	cmd := command{apply: apply, done: make(chan State, 1)}
	select {
	case t.commands <- cmd:
	case <-t.stopped:
		return State{}, ErrNotRunning
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	select {
	case st := <-cmd.done:
		return st, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Displays returns the backend's displays. Safe to call from any goroutine.
func (t *Tracker) Displays() ([]platform.Display, error) {
	return t.backend.Displays()
}
