package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	reflowtrunc "github.com/muesli/reflow/truncate"

	"github.com/aquilari/scopeview/pkg/imageio"
	"github.com/aquilari/scopeview/pkg/plugins"
	"github.com/aquilari/scopeview/pkg/scalebar"
	"github.com/aquilari/scopeview/pkg/session"
	"github.com/aquilari/scopeview/pkg/viewer"
)

// pixelsPerCell approximates how many canvas pixels one terminal cell spans
// when the ruler is drawn with block characters.
const pixelsPerCell = 8

// zoomStep is the multiplicative zoom change per keypress.
const zoomStep = 1.25

// unitCycle is the order the `u` key steps through display units.
var unitCycle = []string{"px", "nm", "um", "mm", "cm", "m"}

// positionCycle is the order the `P` key steps through bar corners.
var positionCycle = []scalebar.Position{
	scalebar.BottomRight, scalebar.BottomLeft, scalebar.TopLeft, scalebar.TopRight,
}

// PluginsChangedMsg carries a refreshed plugin list from the directory
// watcher into the update loop
type PluginsChangedMsg struct {
	Plugins []plugins.Plugin
}

// Model is the top-level bubbletea model for the viewer
type Model struct {
	viewer  *viewer.Viewer
	overlay *viewer.ScaleBarOverlay
	img     *imageio.Image // nil when no image is open
	db      *session.DB    // nil when persistence is disabled

	menu PluginMenuModel
	help HelpOverlayModel

	width  int
	height int

	statusMsg string
	quitting  bool
}

// NewModel assembles the top-level model. img, registry, and db may be nil.
func NewModel(v *viewer.Viewer, overlay *viewer.ScaleBarOverlay, img *imageio.Image, registry *plugins.Registry, db *session.DB) Model {
	return Model{
		viewer:  v,
		overlay: overlay,
		img:     img,
		db:      db,
		menu:    NewPluginMenuModel(registry),
		help:    NewHelpOverlayModel(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width, msg.Height)
		m.help.SetSize(msg.Width, msg.Height)
		return m, nil

	case PluginsChangedMsg:
		m.menu.SetPlugins(msg.Plugins)
		return m, nil
	}

	if m.help.IsVisible() {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}
	if m.menu.IsVisible() {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	switch key.String() {
	case "q", "ctrl+c":
		m.saveSession()
		m.quitting = true
		return m, tea.Quit

	case "+", "=":
		m.setZoom(m.viewer.Zoom() * zoomStep)
	case "-", "_":
		m.setZoom(m.viewer.Zoom() / zoomStep)
	case "0":
		m.setZoom(1)

	case "u":
		current := m.viewer.ScaleBar().Unit
		next := unitCycle[0]
		for i, u := range unitCycle {
			if u == current {
				next = unitCycle[(i+1)%len(unitCycle)]
				break
			}
		}
		m.viewer.SetScaleBarUnit(next)

	case "s":
		m.viewer.SetScaleBarVisible(!m.viewer.ScaleBar().Visible)
	case "t":
		m.viewer.SetScaleBarTicks(!m.viewer.ScaleBar().Ticks)
	case "c":
		m.viewer.SetScaleBarColored(!m.viewer.ScaleBar().Colored)

	case "P":
		current := m.viewer.ScaleBar().Position
		next := positionCycle[0]
		for i, p := range positionCycle {
			if p == current {
				next = positionCycle[(i+1)%len(positionCycle)]
				break
			}
		}
		if err := m.viewer.SetScaleBarPosition(next); err != nil {
			m.statusMsg = err.Error()
		}

	case "T":
		if m.viewer.Theme() == viewer.ThemeDark {
			m.viewer.SetTheme(viewer.ThemeLight)
		} else {
			m.viewer.SetTheme(viewer.ThemeDark)
		}

	case "y":
		label := m.overlay.Label()
		if err := clipboard.WriteAll(label); err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", err)
		} else {
			m.statusMsg = fmt.Sprintf("copied %s", label)
		}

	case "p":
		m.menu.Show()
	case "?":
		m.help.Show()
	}

	return m, nil
}

func (m *Model) setZoom(zoom float64) {
	if err := m.viewer.SetZoom(zoom); err != nil {
		m.statusMsg = err.Error()
	}
}

// saveSession persists the current view state for the open image
func (m *Model) saveSession() {
	if m.db == nil || m.img == nil {
		return
	}
	state := &session.ViewState{
		ImagePath: m.img.Path,
		Zoom:      m.viewer.Zoom(),
		ScaleBar:  m.viewer.ScaleBar(),
	}
	if err := m.db.Save(state); err != nil {
		m.statusMsg = fmt.Sprintf("session save failed: %v", err)
	}
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.help.IsVisible() {
		return m.centerOverlay(m.help.View())
	}
	if m.menu.IsVisible() {
		return m.centerOverlay(m.menu.View())
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.scaleBarView())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	title := "scopeview"
	if m.img != nil {
		name := filepath.Base(m.img.Path)
		title = fmt.Sprintf("%s  %s %dx%d", name, m.img.Format, m.img.Width, m.img.Height)
	}
	maxTitle := m.width - 20
	if maxTitle > 0 {
		title = reflowtrunc.StringWithTail(title, uint(maxTitle), "…")
	}

	zoom := fmt.Sprintf("zoom %.0f%%", m.viewer.Zoom()*100)
	gap := m.width - runewidth.StringWidth(title) - runewidth.StringWidth(zoom) - 2*SpaceSM
	if gap < SpaceXS {
		gap = SpaceXS
	}
	line := TitleStyle.Render(title) + strings.Repeat(" ", gap) + StatusLineStyle.Render(zoom)
	return lipgloss.NewStyle().Padding(0, SpaceSM).Render(line)
}

// scaleBarView draws a character-cell approximation of the overlay: the bar
// length in cells tracks the corrected pixel length, and the label is the
// same text the canvas overlay would show.
func (m Model) scaleBarView() string {
	sb := m.viewer.ScaleBar()
	if !sb.Visible {
		return PanelStyle.Padding(0, SpaceSM).Render(StatusLineStyle.Render("scale bar hidden  (s to show)"))
	}
	if err := m.overlay.Err(); err != nil {
		return PanelStyle.Padding(0, SpaceSM).Render(ErrorStyle.Render(err.Error()))
	}

	cells := int(m.overlay.LengthPx()/pixelsPerCell + 0.5)
	if cells < 2 {
		cells = 2
	}
	style := ScaleBarStyle(sb.Colored, m.viewer.Theme())

	bar := strings.Repeat("━", cells)
	if sb.Ticks {
		bar = "┣" + strings.Repeat("━", cells-2) + "┫"
	}

	label := m.overlay.Label()
	pad := (cells - runewidth.StringWidth(label)) / 2
	if pad < 0 {
		pad = 0
	}
	labelLine := strings.Repeat(" ", pad) + style.Render(label)

	info := StatusLineStyle.Render(fmt.Sprintf(
		"%.0f px ≙ %s   unit %s   %s",
		m.overlay.LengthPx(), label, sb.Unit, strings.ReplaceAll(string(sb.Position), "_", " "),
	))

	return PanelStyle.Padding(0, SpaceSM).Render(style.Render(bar) + "\n" + labelLine + "\n" + info)
}

func (m Model) footerView() string {
	hints := "+/- zoom · u unit · s bar · p plugins · ? help · q quit"
	if m.statusMsg != "" {
		return lipgloss.NewStyle().Padding(0, SpaceSM).Render(
			StatusLineStyle.Render(m.statusMsg) + "  " + KeyHintStyle.Render(hints))
	}
	return lipgloss.NewStyle().Padding(0, SpaceSM).Render(KeyHintStyle.Render(hints))
}

func (m Model) centerOverlay(view string) string {
	if m.width == 0 || m.height == 0 {
		return view
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}
