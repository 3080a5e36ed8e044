package tui

import (
	"fmt"
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/splitscreen/internal/ipc"
)

// DefaultTheme is the catppuccin flavor used when none is given.
const DefaultTheme = "mocha"

// Themes lists the accepted --theme values.
var Themes = []string{"latte", "frappe", "macchiato", "mocha"}

type Styles struct {
	flavor catppuccin.Flavor
}

func NewStyles(themeName string) *Styles {
	return &Styles{flavor: flavorFromName(themeName)}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch strings.ToLower(name) {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

func (s *Styles) color(c catppuccin.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex)
}

func (s *Styles) CanvasStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Sapphire()))
}

func (s *Styles) SummaryStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Subtext1())).
		Padding(0, 1)
}

func (s *Styles) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.color(s.flavor.Red())).
		Bold(true).
		Padding(0, 1)
}

func (s *Styles) DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.color(s.flavor.Overlay0()))
}

func (s *Styles) StatusBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(s.color(s.flavor.Surface0())).
		Foreground(s.color(s.flavor.Text())).
		Padding(0, 1)
}

func (s *Styles) renderCanvas(lines []string) string {
	return s.CanvasStyle().Render(strings.Join(lines, "\n"))
}

// renderPlaceholder renders centred, dimmed text filling the given area.
func (s *Styles) renderPlaceholder(msg string, width, height int) string {
	return s.DimStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(msg)
}

// renderStatusBar renders the daemon connection status bar.
func (s *Styles) renderStatusBar(connected bool, info *ipc.ScreenInfoData, width int) string {
	var status string
	if connected {
		dot := lipgloss.NewStyle().Foreground(s.color(s.flavor.Green())).Render("●")
		parts := []string{dot + " daemon connected"}
		if info != nil {
			parts = append(parts, fmt.Sprintf("window:0x%x", info.Window))
			if info.WindowClass != "" {
				parts = append(parts, info.WindowClass)
			}
			parts = append(parts, fmt.Sprintf("displays:%d", info.DisplayCount))
		}
		status = strings.Join(parts, "  ")
	} else {
		dot := s.DimStyle().Render("●")
		status = dot + " daemon not running"
	}
	return s.StatusBarStyle().Width(width).Render(status)
}

func (s *Styles) renderSummary(info *ipc.ScreenInfoData, lastError string, width int) string {
	if lastError != "" {
		return s.ErrorStyle().Width(width).Render(lastError)
	}
	return s.SummaryStyle().Width(width).Render(summarizeScreenInfo(info))
}
