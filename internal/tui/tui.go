package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/splitscreen/internal/ipc"
)

// DefaultRefresh is how often the preview polls the daemon.
const DefaultRefresh = time.Second

// Client is the part of the IPC client the preview uses.
type Client interface {
	GetScreenInfo() (*ipc.ScreenInfoData, error)
	Emulate(screens int, split string) (*ipc.ScreenInfoData, error)
	StopEmulating() (*ipc.ScreenInfoData, error)
}

var _ Client = (*ipc.Client)(nil)

// Options configures the preview.
type Options struct {
	Refresh time.Duration
	// Theme is a catppuccin flavor name; see Themes.
	Theme string
}

// Run shows the live preview until the user quits.
func Run(client Client, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("preview requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	theme := opts.Theme
	if theme == "" {
		theme = DefaultTheme
	}

	m := newModel(client, refresh, NewStyles(theme))
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.width, m.height = w, h
		m.help.Width = w
	}

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
