package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/aquilari/scopeview/pkg/plugins"
)

// PluginMenuModel is the overlay for discovering, enabling, and launching
// plugin widgets
type PluginMenuModel struct {
	registry *plugins.Registry
	all      []plugins.Plugin
	filtered []plugins.Plugin

	searchInput   textinput.Model
	selectedIndex int

	width  int
	height int

	visible   bool
	statusMsg string

	mdRenderer *glamour.TermRenderer
}

// pluginLaunchedMsg reports the result of launching a plugin
type pluginLaunchedMsg struct {
	name string
	err  error
}

// NewPluginMenuModel creates the plugin menu over the given registry
func NewPluginMenuModel(registry *plugins.Registry) PluginMenuModel {
	ti := textinput.New()
	ti.Placeholder = "Filter plugins..."
	ti.CharLimit = 64
	ti.Width = 40

	return PluginMenuModel{
		registry:    registry,
		searchInput: ti,
	}
}

// Show opens the menu, rescanning the plugin directory
func (m *PluginMenuModel) Show() {
	m.visible = true
	m.statusMsg = ""
	m.searchInput.SetValue("")
	m.searchInput.Focus()
	if m.registry != nil {
		if found, err := m.registry.Scan(); err == nil {
			m.all = found
		}
	}
	m.applyFilter()
}

// Hide closes the menu
func (m *PluginMenuModel) Hide() {
	m.visible = false
	m.searchInput.Blur()
}

// IsVisible returns true if the menu is showing
func (m PluginMenuModel) IsVisible() bool {
	return m.visible
}

// SetPlugins replaces the plugin list (used by the directory watcher)
func (m *PluginMenuModel) SetPlugins(found []plugins.Plugin) {
	m.all = found
	m.applyFilter()
}

// SetSize sets dimensions and rebuilds the markdown renderer at the new
// wrap width
func (m *PluginMenuModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	wrap := width - 8
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.mdRenderer = nil
		return
	}
	m.mdRenderer = r
}

func (m *PluginMenuModel) applyFilter() {
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.filtered = m.all
	} else {
		names := make([]string, len(m.all))
		for i, p := range m.all {
			names[i] = p.Name + " " + p.Description
		}
		matches := fuzzy.Find(query, names)
		m.filtered = make([]plugins.Plugin, 0, len(matches))
		for _, match := range matches {
			m.filtered = append(m.filtered, m.all[match.Index])
		}
	}
	if m.selectedIndex >= len(m.filtered) {
		m.selectedIndex = 0
	}
}

// Selected returns the currently highlighted plugin
func (m PluginMenuModel) Selected() (plugins.Plugin, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.filtered) {
		return plugins.Plugin{}, false
	}
	return m.filtered[m.selectedIndex], true
}

// Update handles input while the menu is visible
func (m PluginMenuModel) Update(msg tea.Msg) (PluginMenuModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case pluginLaunchedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("launch failed: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("launched %s", msg.name)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.searchInput.Value() != "" {
				m.searchInput.SetValue("")
				m.applyFilter()
				return m, nil
			}
			m.Hide()
			return m, nil
		case "up", "ctrl+k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
			}
			return m, nil
		case "down", "ctrl+j":
			if m.selectedIndex < len(m.filtered)-1 {
				m.selectedIndex++
			}
			return m, nil
		case "tab":
			// Toggle enabled state of the highlighted plugin.
			if p, ok := m.Selected(); ok {
				if err := m.registry.SetEnabled(p.Name, !p.Enabled); err != nil {
					m.statusMsg = err.Error()
				} else {
					m.all = m.registry.Plugins()
					m.applyFilter()
				}
			}
			return m, nil
		case "enter":
			if p, ok := m.Selected(); ok {
				return m, launchPlugin(m.registry, p.Name)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

func launchPlugin(registry *plugins.Registry, name string) tea.Cmd {
	return func() tea.Msg {
		_, err := registry.Launch(context.Background(), name)
		return pluginLaunchedMsg{name: name, err: err}
	}
}

// View renders the plugin menu overlay
func (m PluginMenuModel) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Plugins"))
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(StatusLineStyle.Render("No plugins found."))
		b.WriteString("\n")
	}
	for i, p := range m.filtered {
		cursor := "  "
		style := StatusLineStyle
		if i == m.selectedIndex {
			cursor = "> "
			style = LabelStyle
		}
		row := fmt.Sprintf("%s%s %s  %s", cursor, RenderEnabledBadge(p.Enabled), style.Render(p.Name), KeyHintStyle.Render(p.Version))
		b.WriteString(row)
		b.WriteString("\n")
	}

	if p, ok := m.Selected(); ok && p.Description != "" {
		b.WriteString("\n")
		b.WriteString(m.renderDescription(p.Description))
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(StatusLineStyle.Render(m.statusMsg))
	}

	b.WriteString("\n")
	b.WriteString(KeyHintStyle.Render("enter launch · tab enable/disable · esc close"))

	width := m.width - 4
	if width < 30 {
		width = 30
	}
	return FocusedPanelStyle.Width(width).Render(b.String())
}

// renderDescription renders the plugin's markdown description, falling back
// to the raw text when the renderer is unavailable.
func (m PluginMenuModel) renderDescription(md string) string {
	if m.mdRenderer == nil {
		return lipgloss.NewStyle().Foreground(ColorSubtext).Render(md)
	}
	out, err := m.mdRenderer.Render(md)
	if err != nil {
		return lipgloss.NewStyle().Foreground(ColorSubtext).Render(md)
	}
	return strings.TrimRight(out, "\n")
}
