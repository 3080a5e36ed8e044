package tui

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/splitscreen/internal/ipc"
	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

func verticalInfo() *ipc.ScreenInfoData {
	return &ipc.ScreenInfoData{
		Window:     0x2a00003,
		Split:      "vertical",
		ClientRect: screeninfo.Rect{Right: 2000, Bottom: 1000},
		ContentRects: []screeninfo.Rect{
			{Right: 1000, Bottom: 1000},
			{Left: 1000, Right: 2000, Bottom: 1000},
		},
		WidestIndex:     0,
		HorizontalIndex: 1,
		DisplayCount:    2,
	}
}

func TestRenderASCIIPreview_VerticalSplit(t *testing.T) {
	lines := renderASCIIPreview(verticalInfo(), 41, 11)
	if len(lines) != 11 {
		t.Fatalf("expected 11 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if n := utf8.RuneCountInString(line); n != 41 {
			t.Fatalf("line %d has %d runes, want 41", i, n)
		}
	}
	if !strings.HasPrefix(lines[0], "╔") || !strings.HasPrefix(lines[10], "╚") {
		t.Fatalf("expected outer border, got %q / %q", lines[0], lines[10])
	}

	mid := []rune(lines[5])
	if mid[10] != '1' {
		t.Fatalf("expected label 1 at column 10, got %q", lines[5])
	}
	if string(mid[28:30]) != "2*" {
		t.Fatalf("expected marked label 2* at column 28, got %q", lines[5])
	}
	if mid[20] != '│' {
		t.Fatalf("expected divider at column 20, got %q", lines[5])
	}
}

func TestRenderASCIIPreview_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		info *ipc.ScreenInfoData
		w, h int
	}{
		{"nil info", nil, 20, 5},
		{"too small", verticalInfo(), 4, 2},
		{"empty client", &ipc.ScreenInfoData{}, 20, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := renderASCIIPreview(tt.info, tt.w, tt.h)
			if len(lines) != tt.h {
				t.Fatalf("expected %d lines, got %d", tt.h, len(lines))
			}
			for _, line := range lines {
				if strings.TrimSpace(line) != "" {
					t.Fatalf("expected blank canvas, got %q", line)
				}
			}
		})
	}
}

func TestSummarizeScreenInfo(t *testing.T) {
	got := summarizeScreenInfo(verticalInfo())
	for _, want := range []string{"split vertical", "2 rects (1000×1000, 1000×1000)", "widest #1", "horizontal content #2"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}

	info := verticalInfo()
	info.Emulating = true
	info.EmulatedScreens = 2
	info.EmulatedSplit = "vertical"
	if got := summarizeScreenInfo(info); !strings.Contains(got, "emulating 2 vertical") {
		t.Errorf("summary %q missing emulation", got)
	}

	if got := summarizeScreenInfo(&ipc.ScreenInfoData{Split: "none"}); got != "split none • no content rects" {
		t.Errorf("unexpected empty summary %q", got)
	}
}

type fakeClient struct {
	screens []int
	splits  []string
	stopped int
}

func (f *fakeClient) GetScreenInfo() (*ipc.ScreenInfoData, error) {
	return verticalInfo(), nil
}

func (f *fakeClient) Emulate(screens int, split string) (*ipc.ScreenInfoData, error) {
	f.screens = append(f.screens, screens)
	f.splits = append(f.splits, split)
	return verticalInfo(), nil
}

func (f *fakeClient) StopEmulating() (*ipc.ScreenInfoData, error) {
	f.stopped++
	return verticalInfo(), nil
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_EmulationKeys(t *testing.T) {
	client := &fakeClient{}
	var m tea.Model = newModel(client, DefaultRefresh, NewStyles(DefaultTheme))

	m, _ = m.Update(runeKey('h'))
	m, cmd := m.Update(runeKey('3'))
	if cmd == nil {
		t.Fatalf("expected emulate command")
	}
	msg := cmd()
	if len(client.screens) != 1 || client.screens[0] != 3 || client.splits[0] != "horizontal" {
		t.Fatalf("unexpected emulate calls: %v %v", client.screens, client.splits)
	}

	m, _ = m.Update(msg)
	if got := m.(model); !got.connected || got.info == nil {
		t.Fatalf("expected model to hold screen info")
	}

	_, cmd = m.Update(runeKey('o'))
	cmd()
	if client.stopped != 1 {
		t.Fatalf("expected stop emulating call")
	}
}

func TestModel_ErrorMarksDisconnected(t *testing.T) {
	var m tea.Model = newModel(&fakeClient{}, DefaultRefresh, NewStyles(DefaultTheme))
	m, _ = m.Update(infoMsg{info: verticalInfo()})
	m, _ = m.Update(infoMsg{err: errors.New("failed to connect to daemon")})

	got := m.(model)
	if got.connected || got.lastError == "" {
		t.Fatalf("expected disconnected model with error, got %+v", got)
	}
	if got.info == nil {
		t.Fatalf("expected last good info to be kept")
	}
}

func TestModel_View(t *testing.T) {
	var m tea.Model = newModel(&fakeClient{}, DefaultRefresh, NewStyles(DefaultTheme))
	if m.View() != "" {
		t.Fatalf("expected empty view before size is known")
	}

	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m, _ = m.Update(infoMsg{info: verticalInfo()})
	view := m.View()
	if !strings.Contains(view, "daemon connected") || !strings.Contains(view, "split vertical") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestModel_HelpToggle(t *testing.T) {
	var m tea.Model = newModel(&fakeClient{}, DefaultRefresh, NewStyles(DefaultTheme))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	if m.(model).help.ShowAll {
		t.Fatalf("expected short help by default")
	}
	m, _ = m.Update(runeKey('?'))
	if !m.(model).help.ShowAll {
		t.Fatalf("expected full help after '?'")
	}
	if view := m.View(); !strings.Contains(view, "horizontal split") {
		t.Fatalf("full help missing split bindings:\n%s", view)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := newModel(&fakeClient{}, DefaultRefresh, NewStyles(DefaultTheme))
	for _, msg := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%q: expected quit command", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%q: expected tea.QuitMsg", msg.String())
		}
	}
}

func TestFlavorFromName(t *testing.T) {
	tests := []struct {
		name string
		want catppuccin.Flavor
	}{
		{"latte", catppuccin.Latte},
		{"Frappe", catppuccin.Frappe},
		{"macchiato", catppuccin.Macchiato},
		{"mocha", catppuccin.Mocha},
		{"solarized", catppuccin.Mocha},
	}
	for _, tt := range tests {
		if got := flavorFromName(tt.name).Base().Hex; got != tt.want.Base().Hex {
			t.Fatalf("flavorFromName(%q) base = %s, want %s", tt.name, got, tt.want.Base().Hex)
		}
	}
}
