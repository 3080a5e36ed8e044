// Package hotkeys binds global key sequences to emulation changes on the
// tracked window.
package hotkeys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/splitscreen/internal/config"
	"github.com/1broseidon/splitscreen/internal/daemon"
	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

const commandTimeout = 5 * time.Second

// KeyBinder grabs global key sequences.
type KeyBinder interface {
	BindKey(sequence string, callback func()) error
}

// Emulator is the part of the tracker driven by hotkeys.
type Emulator interface {
	State() daemon.State
	Emulate(ctx context.Context, count int, kind screeninfo.SplitKind) (daemon.State, error)
	StopEmulating(ctx context.Context) (daemon.State, error)
}

// Handler manages global keyboard shortcuts
type Handler struct {
	binder     KeyBinder
	emulator   Emulator
	maxScreens int
	split      screeninfo.SplitKind
	logger     *slog.Logger
}

// NewHandler creates a new hotkey handler. split is the direction used when
// cycling starts from real displays.
func NewHandler(binder KeyBinder, emulator Emulator, maxScreens int, split screeninfo.SplitKind, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if maxScreens < 2 {
		maxScreens = config.DefaultMaxEmulatedScreens
	}
	if split != screeninfo.SplitHorizontal {
		split = screeninfo.SplitVertical
	}
	return &Handler{
		binder:     binder,
		emulator:   emulator,
		maxScreens: maxScreens,
		split:      split,
		logger:     logger,
	}
}

// Register binds every non-empty sequence in cfg and returns how many were
// bound.
func (h *Handler) Register(cfg config.Hotkeys) (int, error) {
	bound := 0
	if cfg.CycleEmulation != "" {
		if err := h.RegisterFunc(cfg.CycleEmulation, h.CycleEmulation); err != nil {
			return bound, fmt.Errorf("cycle_emulation: %w", err)
		}
		bound++
	}
	if cfg.ToggleSplit != "" {
		if err := h.RegisterFunc(cfg.ToggleSplit, h.ToggleSplit); err != nil {
			return bound, fmt.Errorf("toggle_split: %w", err)
		}
		bound++
	}
	return bound, nil
}

// RegisterFunc registers an arbitrary hotkey callback. The callback runs on
// its own goroutine so a slow tracker never stalls the X event loop.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if h.binder == nil {
		return fmt.Errorf("no key binder")
	}
	return h.binder.BindKey(keySequence, func() {
		go callback()
	})
}

// CycleEmulation advances to the next emulated screen count.
func (h *Handler) CycleEmulation() {
	count, split := NextEmulation(h.emulator.State(), h.maxScreens, h.split)
	h.apply("cycle_emulation", count, split)
}

// ToggleSplit flips the emulated split direction. It does nothing while the
// real displays are in use.
func (h *Handler) ToggleSplit() {
	count, split, ok := ToggledSplit(h.emulator.State())
	if !ok {
		h.logger.Debug("hotkey ignored: not emulating", "hotkey", "toggle_split")
		return
	}
	h.apply("toggle_split", count, split)
}

func (h *Handler) apply(hotkey string, count int, split screeninfo.SplitKind) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var st daemon.State
	var err error
	if count < 0 {
		st, err = h.emulator.StopEmulating(ctx)
	} else {
		st, err = h.emulator.Emulate(ctx, count, split)
	}
	if err != nil {
		h.logger.Warn("hotkey failed", "hotkey", hotkey, "error", err)
		return
	}
	h.logger.Info("hotkey applied", "hotkey", hotkey,
		"emulating", st.Emulating, "screens", st.EmulatedScreens, "split", st.Split)
}

// NextEmulation returns the step after st in the cycle real displays,
// 2 .. maxScreens emulated screens, real displays. A negative count means
// stop emulating.
func NextEmulation(st daemon.State, maxScreens int, split screeninfo.SplitKind) (int, screeninfo.SplitKind) {
	if !st.Emulating {
		return 2, split
	}
	if st.EmulatedScreens >= maxScreens {
		return -1, screeninfo.SplitUnknown
	}
	next := max(st.EmulatedScreens+1, 2)
	if st.EmulatedSplit == screeninfo.SplitVertical || st.EmulatedSplit == screeninfo.SplitHorizontal {
		split = st.EmulatedSplit
	}
	return next, split
}

// ToggledSplit returns the current emulation with its direction flipped, or
// ok=false when not emulating.
func ToggledSplit(st daemon.State) (count int, split screeninfo.SplitKind, ok bool) {
	if !st.Emulating {
		return 0, screeninfo.SplitUnknown, false
	}
	split = screeninfo.SplitHorizontal
	if st.EmulatedSplit == screeninfo.SplitHorizontal {
		split = screeninfo.SplitVertical
	}
	return max(st.EmulatedScreens, 1), split, true
}
