package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlayModel shows keyboard shortcuts help
type HelpOverlayModel struct {
	visible bool
	width   int
	height  int
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel() HelpOverlayModel {
	return HelpOverlayModel{}
}

// Show makes the help overlay visible
func (m *HelpOverlayModel) Show() {
	m.visible = true
}

// Hide makes the help overlay invisible
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}
	return m, nil
}

var helpRows = [][2]string{
	{"+ / -", "zoom in / out"},
	{"0", "reset zoom"},
	{"u", "cycle display unit"},
	{"s", "toggle scale bar"},
	{"t", "toggle end ticks"},
	{"c", "toggle accent color"},
	{"P", "cycle bar position"},
	{"T", "switch theme"},
	{"y", "copy scale-bar label"},
	{"p", "plugin menu"},
	{"?", "this help"},
	{"q", "quit"},
}

// View renders the help overlay
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorInfo).Width(8)
	for _, row := range helpRows {
		b.WriteString("  ")
		b.WriteString(keyStyle.Render(row[0]))
		b.WriteString(StatusLineStyle.Render(row[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(KeyHintStyle.Render("press any key to close"))

	return FocusedPanelStyle.Padding(0, SpaceSM).Render(b.String())
}
