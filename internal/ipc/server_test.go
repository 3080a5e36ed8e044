package ipc

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/splitscreen/internal/daemon"
	"github.com/1broseidon/splitscreen/internal/platform"
	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

type fakeTracker struct {
	mu          sync.Mutex
	state       daemon.State
	emulated    []int
	kinds       []screeninfo.SplitKind
	applied     []daemon.TrackerConfig
	waitTimeout bool
}

func (f *fakeTracker) State() daemon.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeTracker) WaitForChange(ctx context.Context, generation uint64) (daemon.State, error) {
	f.mu.Lock()
	st, timeout := f.state, f.waitTimeout
	f.mu.Unlock()
	if timeout || st.Generation <= generation {
		<-ctx.Done()
		return st, ctx.Err()
	}
	return st, nil
}

func (f *fakeTracker) Emulate(ctx context.Context, count int, kind screeninfo.SplitKind) (daemon.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emulated = append(f.emulated, count)
	f.kinds = append(f.kinds, kind)
	f.state.Generation++
	f.state.Emulating = count >= 0
	if f.state.Emulating {
		f.state.EmulatedScreens = count
		f.state.EmulatedSplit = kind
		f.state.Split = kind
	}
	return f.state, nil
}

func (f *fakeTracker) ApplyConfig(ctx context.Context, cfg daemon.TrackerConfig) (daemon.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, cfg)
	f.state.MinRectSize = cfg.MinRectSize
	return f.state, nil
}

func (f *fakeTracker) Displays() ([]platform.Display, error) {
	return []platform.Display{
		{ID: 0, Name: "DP-1", Bounds: platform.Rect{Width: 1920, Height: 1080}, Usable: platform.Rect{Y: 32, Width: 1920, Height: 1048}},
		{ID: 1, Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Width: 2560, Height: 1440}, Usable: platform.Rect{X: 1920, Width: 2560, Height: 1440}},
	}, nil
}

func dualState() daemon.State {
	return daemon.State{
		Generation:  3,
		Window:      0x3a00007,
		WindowClass: "Firefox",
		Following:   true,
		Split:       screeninfo.SplitVertical,
		ClientRect:  screeninfo.Rect{Right: 3840, Bottom: 1080},
		ContentRects: []screeninfo.Rect{
			{Right: 1920, Bottom: 1080},
			{Left: 1920, Right: 3840, Bottom: 1080},
		},
		WidestIndex:     0,
		TallestIndex:    0,
		HorizontalIndex: 0,
		MinRectSize:     200,
		SplitTolerance:  8,
		DisplayCount:    2,
		MultipleScreens: true,
	}
}

func startServer(t *testing.T, tracker Tracker, cfg ServerConfig) (*Server, *Client) {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	srv, err := NewServer(tracker, cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)

	info, err := os.Stat(srv.SocketPath())
	if err != nil {
		t.Fatalf("stat socket: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected socket mode 0600, got %v", info.Mode().Perm())
	}
	return srv, NewClient()
}

func TestServer_PingAndStatus(t *testing.T) {
	tracker := &fakeTracker{state: dualState()}
	_, client := startServer(t, tracker, ServerConfig{Version: "test"})

	if err := client.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.DaemonRunning || status.Version != "test" {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.Split != "vertical" || status.RectCount != 2 || status.Window != 0x3a00007 {
		t.Fatalf("unexpected status geometry: %+v", status)
	}
}

func TestServer_GetScreenInfo(t *testing.T) {
	tracker := &fakeTracker{state: dualState()}
	_, client := startServer(t, tracker, ServerConfig{})

	info, err := client.GetScreenInfo()
	if err != nil {
		t.Fatalf("GetScreenInfo: %v", err)
	}
	if info.Split != "vertical" || len(info.ContentRects) != 2 {
		t.Fatalf("unexpected screen info: %+v", info)
	}
	if info.ContentRects[1] != (screeninfo.Rect{Left: 1920, Right: 3840, Bottom: 1080}) {
		t.Fatalf("unexpected second rect: %+v", info.ContentRects[1])
	}
	if !info.MultipleScreens || info.Generation != 3 {
		t.Fatalf("unexpected screen info metadata: %+v", info)
	}
}

func TestServer_GetScreenInfoEmptyRectsIsArray(t *testing.T) {
	tracker := &fakeTracker{state: daemon.State{Split: screeninfo.SplitNone}}
	_, client := startServer(t, tracker, ServerConfig{})

	resp, err := client.sendRequest(&Request{Command: CommandGetScreenInfo})
	if err != nil {
		t.Fatalf("sendRequest: %v", err)
	}
	if !strings.Contains(string(resp.Data), `"content_rects":[]`) {
		t.Fatalf("expected empty content_rects array, got %s", resp.Data)
	}
}

func TestServer_GetDisplays(t *testing.T) {
	_, client := startServer(t, &fakeTracker{}, ServerConfig{})

	data, err := client.GetDisplays()
	if err != nil {
		t.Fatalf("GetDisplays: %v", err)
	}
	if len(data.Displays) != 2 || data.Displays[1].Name != "HDMI-1" {
		t.Fatalf("unexpected displays: %+v", data.Displays)
	}
	if data.Displays[0].Usable.Y != 32 {
		t.Fatalf("expected usable area to be preserved, got %+v", data.Displays[0].Usable)
	}
}

func TestServer_Emulate(t *testing.T) {
	tracker := &fakeTracker{state: dualState()}
	_, client := startServer(t, tracker, ServerConfig{})

	info, err := client.Emulate(3, "horizontal")
	if err != nil {
		t.Fatalf("Emulate: %v", err)
	}
	if !info.Emulating || info.EmulatedScreens != 3 || info.EmulatedSplit != "horizontal" {
		t.Fatalf("unexpected emulate response: %+v", info)
	}

	info, err = client.StopEmulating()
	if err != nil {
		t.Fatalf("StopEmulating: %v", err)
	}
	if info.Emulating {
		t.Fatalf("expected emulation off: %+v", info)
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if len(tracker.emulated) != 2 || tracker.emulated[0] != 3 || tracker.emulated[1] != -1 {
		t.Fatalf("unexpected emulate calls: %v", tracker.emulated)
	}
	if tracker.kinds[0] != screeninfo.SplitHorizontal {
		t.Fatalf("unexpected emulate kind: %v", tracker.kinds[0])
	}
}

func TestServer_EmulateDefaultsToVertical(t *testing.T) {
	tracker := &fakeTracker{state: dualState()}
	_, client := startServer(t, tracker, ServerConfig{})

	if _, err := client.Emulate(2, ""); err != nil {
		t.Fatalf("Emulate: %v", err)
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if len(tracker.kinds) != 1 || tracker.kinds[0] != screeninfo.SplitVertical {
		t.Fatalf("expected vertical split for empty split, got %v", tracker.kinds)
	}
	if tracker.emulated[0] != 2 {
		t.Fatalf("expected 2 screens, got %v", tracker.emulated)
	}
}

func TestServer_EmulateRejectsBadSplit(t *testing.T) {
	_, client := startServer(t, &fakeTracker{}, ServerConfig{})

	_, err := client.Emulate(2, "diagonal")
	if err == nil || !strings.Contains(err.Error(), "Invalid split") {
		t.Fatalf("expected invalid split error, got %v", err)
	}
}

func TestServer_WaitChange(t *testing.T) {
	tracker := &fakeTracker{state: dualState()}
	_, client := startServer(t, tracker, ServerConfig{})

	info, err := client.WaitForChange(1, time.Second)
	if err != nil {
		t.Fatalf("WaitForChange: %v", err)
	}
	if info.Generation != 3 {
		t.Fatalf("expected generation 3, got %d", info.Generation)
	}

	// No newer state: answers with the current one once the timeout passes.
	start := time.Now()
	info, err = client.WaitForChange(3, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForChange timeout: %v", err)
	}
	if info.Generation != 3 || time.Since(start) < 50*time.Millisecond {
		t.Fatalf("expected to wait and return generation 3, got %d", info.Generation)
	}
}

func TestServer_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("min_rect_size: 123\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tracker := &fakeTracker{state: dualState()}
	_, client := startServer(t, tracker, ServerConfig{ConfigPath: path})

	info, err := client.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if info.MinRectSize != 123 {
		t.Fatalf("expected min_rect_size 123, got %d", info.MinRectSize)
	}

	if err := os.WriteFile(path, []byte("min_rect_size: -5\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := client.Reload(); err == nil || !strings.Contains(err.Error(), "min_rect_size") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServer_ReloadKeepsWindowOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("window: active\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tracker := &fakeTracker{state: dualState()}
	_, client := startServer(t, tracker, ServerConfig{ConfigPath: path, WindowOverride: "0x2a00003"})

	if _, err := client.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if len(tracker.applied) != 1 || tracker.applied[0].Window != "0x2a00003" {
		t.Fatalf("expected override to survive reload, got %+v", tracker.applied)
	}
}

func TestServer_UnknownAndMalformed(t *testing.T) {
	srv, client := startServer(t, &fakeTracker{}, ServerConfig{})

	if _, err := client.sendRequest(&Request{Command: "NOPE"}); err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}

	resp := srv.handleCommand(&Request{Command: CommandEmulate, Payload: json.RawMessage(`{"screens":`)})
	if resp.Status != "ERROR" {
		t.Fatalf("expected error for malformed payload, got %+v", resp)
	}
}

func TestClient_NoDaemon(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	err := NewClient().Ping()
	if err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestNewScreenInfoData_EmulationFields(t *testing.T) {
	st := daemon.State{Emulating: false, EmulatedScreens: 4, EmulatedSplit: screeninfo.SplitVertical}
	data := NewScreenInfoData(st)
	if data.EmulatedScreens != 0 || data.EmulatedSplit != "" {
		t.Fatalf("expected emulation fields hidden when not emulating, got %+v", data)
	}
	if data.Split != "unknown" {
		t.Fatalf("expected zero split to read unknown, got %q", data.Split)
	}
}
