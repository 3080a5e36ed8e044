package hotkeys

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/splitscreen/internal/config"
	"github.com/1broseidon/splitscreen/internal/daemon"
	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

func emulating(n int, split screeninfo.SplitKind) daemon.State {
	return daemon.State{Emulating: true, EmulatedScreens: n, EmulatedSplit: split}
}

func TestNextEmulation(t *testing.T) {
	tests := []struct {
		name      string
		state     daemon.State
		wantCount int
		wantSplit screeninfo.SplitKind
	}{
		{"real displays start at two", daemon.State{}, 2, screeninfo.SplitHorizontal},
		{"two to three keeps split", emulating(2, screeninfo.SplitVertical), 3, screeninfo.SplitVertical},
		{"max stops", emulating(4, screeninfo.SplitVertical), -1, screeninfo.SplitUnknown},
		{"beyond max stops", emulating(7, screeninfo.SplitVertical), -1, screeninfo.SplitUnknown},
		{"single region steps to two", emulating(1, screeninfo.SplitNone), 2, screeninfo.SplitHorizontal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, split := NextEmulation(tt.state, 4, screeninfo.SplitHorizontal)
			if count != tt.wantCount || split != tt.wantSplit {
				t.Fatalf("NextEmulation = (%d, %s), want (%d, %s)", count, split, tt.wantCount, tt.wantSplit)
			}
		})
	}
}

func TestToggledSplit(t *testing.T) {
	if _, _, ok := ToggledSplit(daemon.State{}); ok {
		t.Fatalf("expected no toggle while using real displays")
	}
	count, split, ok := ToggledSplit(emulating(3, screeninfo.SplitVertical))
	if !ok || count != 3 || split != screeninfo.SplitHorizontal {
		t.Fatalf("ToggledSplit = (%d, %s, %v), want (3, horizontal, true)", count, split, ok)
	}
	_, split, _ = ToggledSplit(emulating(2, screeninfo.SplitHorizontal))
	if split != screeninfo.SplitVertical {
		t.Fatalf("split = %s, want vertical", split)
	}
}

type call struct {
	count int
	split screeninfo.SplitKind
	stop  bool
}

type fakeEmulator struct {
	mu    sync.Mutex
	state daemon.State
	calls []call
	err   error
}

func (f *fakeEmulator) State() daemon.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeEmulator) Emulate(_ context.Context, count int, kind screeninfo.SplitKind) (daemon.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{count: count, split: kind})
	if f.err != nil {
		return daemon.State{}, f.err
	}
	f.state = emulating(count, kind)
	return f.state, nil
}

func (f *fakeEmulator) StopEmulating(context.Context) (daemon.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{stop: true})
	f.state = daemon.State{}
	return f.state, nil
}

type fakeBinder struct {
	bound map[string]func()
	err   error
}

func (b *fakeBinder) BindKey(sequence string, callback func()) error {
	if b.err != nil {
		return b.err
	}
	if b.bound == nil {
		b.bound = make(map[string]func())
	}
	b.bound[sequence] = callback
	return nil
}

func TestHandler_CycleThroughAndOff(t *testing.T) {
	emu := &fakeEmulator{}
	h := NewHandler(nil, emu, 3, screeninfo.SplitVertical, nil)

	h.CycleEmulation()
	h.CycleEmulation()
	h.CycleEmulation()

	want := []call{
		{count: 2, split: screeninfo.SplitVertical},
		{count: 3, split: screeninfo.SplitVertical},
		{stop: true},
	}
	if len(emu.calls) != len(want) {
		t.Fatalf("calls = %+v, want %+v", emu.calls, want)
	}
	for i := range want {
		if emu.calls[i] != want[i] {
			t.Fatalf("call %d = %+v, want %+v", i, emu.calls[i], want[i])
		}
	}
}

func TestHandler_ToggleSplit(t *testing.T) {
	emu := &fakeEmulator{}
	h := NewHandler(nil, emu, 4, screeninfo.SplitVertical, nil)

	h.ToggleSplit()
	if len(emu.calls) != 0 {
		t.Fatalf("toggle without emulation should do nothing, got %+v", emu.calls)
	}

	emu.state = emulating(2, screeninfo.SplitVertical)
	h.ToggleSplit()
	if got := emu.State(); got.EmulatedScreens != 2 || got.EmulatedSplit != screeninfo.SplitHorizontal {
		t.Fatalf("unexpected state after toggle: %+v", got)
	}
}

func TestHandler_EmulateErrorIsLoggedNotFatal(t *testing.T) {
	emu := &fakeEmulator{err: errors.New("tracker stopped")}
	h := NewHandler(nil, emu, 4, screeninfo.SplitVertical, nil)
	h.CycleEmulation()
	if len(emu.calls) != 1 {
		t.Fatalf("expected one attempt, got %d", len(emu.calls))
	}
}

func TestHandler_Register(t *testing.T) {
	binder := &fakeBinder{}
	emu := &fakeEmulator{}
	h := NewHandler(binder, emu, 0, screeninfo.SplitNone, nil)

	n, err := h.Register(config.Hotkeys{CycleEmulation: "Mod4-Shift-e", ToggleSplit: "Mod4-Shift-s"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if n != 2 || len(binder.bound) != 2 {
		t.Fatalf("bound %d sequences (%v), want 2", n, binder.bound)
	}

	binder.bound["Mod4-Shift-e"]()
	deadline := time.Now().Add(2 * time.Second)
	for len(calls(emu)) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("hotkey callback never reached the emulator")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := calls(emu)[0]; got.count != 2 || got.split != screeninfo.SplitVertical {
		t.Fatalf("unexpected first call %+v", got)
	}
}

func TestHandler_RegisterSkipsEmptyAndReportsErrors(t *testing.T) {
	h := NewHandler(&fakeBinder{}, &fakeEmulator{}, 4, screeninfo.SplitVertical, nil)
	if n, err := h.Register(config.Hotkeys{}); err != nil || n != 0 {
		t.Fatalf("Register(empty) = (%d, %v), want (0, nil)", n, err)
	}

	h = NewHandler(&fakeBinder{err: errors.New("grab failed")}, &fakeEmulator{}, 4, screeninfo.SplitVertical, nil)
	if _, err := h.Register(config.Hotkeys{ToggleSplit: "Mod4-s"}); err == nil {
		t.Fatalf("expected bind error")
	}

	h = NewHandler(nil, &fakeEmulator{}, 4, screeninfo.SplitVertical, nil)
	if _, err := h.Register(config.Hotkeys{ToggleSplit: "Mod4-s"}); err == nil {
		t.Fatalf("expected error without a binder")
	}
}

func calls(f *fakeEmulator) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}
