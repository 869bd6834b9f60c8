package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aquilari/scopeview/pkg/viewer"
)

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

var (
	// Base colors
	ColorBg        = lipgloss.Color("#262930")
	ColorBgSubtle  = lipgloss.Color("#363949")
	ColorText      = lipgloss.Color("#F8F8F2")
	ColorSubtext   = lipgloss.Color("#BFBFBF")
	ColorMuted     = lipgloss.Color("#6272A4")
	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorInfo      = lipgloss.Color("#8BE9FD")
	ColorSuccess   = lipgloss.Color("#50FA7B")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorDanger    = lipgloss.Color("#FF5555")
	ColorScaleBar  = lipgloss.Color("#FF00FF") // the "colored" accent
	ColorScaleDim  = lipgloss.Color("#E0E0E0")
)

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgSubtle)

	// FocusedPanelStyle is the style for focused panels and overlays
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StatusLineStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext)

	KeyHintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorInfo).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger)
)

// RenderEnabledBadge returns a styled on/off badge for plugin rows
func RenderEnabledBadge(enabled bool) string {
	if enabled {
		return lipgloss.NewStyle().Foreground(ColorSuccess).Render("on ")
	}
	return lipgloss.NewStyle().Foreground(ColorMuted).Render("off")
}

// ScaleBarStyle returns the style used to draw the textual scale-bar ruler,
// matching the overlay color policy: accent when colored, canvas inverse
// otherwise.
func ScaleBarStyle(colored bool, theme viewer.Theme) lipgloss.Style {
	if colored {
		return lipgloss.NewStyle().Foreground(ColorScaleBar).Bold(true)
	}
	if theme == viewer.ThemeLight {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#10140F")).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(ColorScaleDim).Bold(true)
}
