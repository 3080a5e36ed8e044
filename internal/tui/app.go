package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/splitscreen/internal/ipc"
)

type tickMsg time.Time

// infoMsg carries the result of a daemon query.
type infoMsg struct {
	info *ipc.ScreenInfoData
	err  error
}

// model is the root bubbletea model for the preview.
type model struct {
	client  Client
	refresh time.Duration
	styles  *Styles
	keys    keyMap
	help    help.Model

	info      *ipc.ScreenInfoData
	connected bool
	lastError string

	// split used by the emulation keys
	emulateSplit string

	width  int
	height int
}

func newModel(client Client, refresh time.Duration, styles *Styles) model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(styles.color(styles.flavor.Mauve()))
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.ShortDesc = styles.DimStyle()
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.ShortSeparator = styles.DimStyle()
	h.Styles.FullSeparator = h.Styles.ShortSeparator

	return model{
		client:       client,
		refresh:      refresh,
		styles:       styles,
		keys:         newKeyMap(),
		help:         h,
		emulateSplit: "vertical",
	}
}

func (m model) fetch() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		info, err := client.GetScreenInfo()
		return infoMsg{info: info, err: err}
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) emulate(screens int) tea.Cmd {
	client, split := m.client, m.emulateSplit
	return func() tea.Msg {
		info, err := client.Emulate(screens, split)
		return infoMsg{info: info, err: err}
	}
}

func (m model) stopEmulating() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		info, err := client.StopEmulating()
		return infoMsg{info: info, err: err}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetch()
		case key.Matches(msg, m.keys.Vertical):
			m.emulateSplit = "vertical"
		case key.Matches(msg, m.keys.Horizontal):
			m.emulateSplit = "horizontal"
		case key.Matches(msg, m.keys.Emulate):
			return m, m.emulate(int(msg.Runes[0] - '0'))
		case key.Matches(msg, m.keys.Real):
			return m, m.stopEmulating()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case infoMsg:
		if msg.err != nil {
			m.connected = false
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.connected = true
		m.lastError = ""
		m.info = msg.info
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := m.styles.renderStatusBar(m.connected, m.info, m.width)
	helpBar := m.renderHelpBar()
	summary := m.styles.renderSummary(m.info, m.lastError, m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(helpBar) + lipgloss.Height(summary)
	canvasHeight := m.height - usedHeight
	if canvasHeight < 1 {
		canvasHeight = 1
	}

	var canvas string
	if m.info == nil {
		canvas = m.styles.renderPlaceholder("waiting for daemon…", m.width, canvasHeight)
	} else {
		canvas = m.styles.renderCanvas(renderASCIIPreview(m.info, m.width, canvasHeight))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		canvas,
		summary,
		helpBar,
	)
}

// renderHelpBar renders the emulation split followed by the key help.
func (m model) renderHelpBar() string {
	split := m.styles.DimStyle().Render("split: " + m.emulateSplit + "  ")
	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(split + m.help.View(m.keys))
}
