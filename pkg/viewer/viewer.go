// Package viewer holds the view state of an open image: camera zoom, theme,
// and scale-bar settings, with callback-based change notification. All
// mutation happens on the single UI update goroutine.
package viewer

import (
	"fmt"
	"image/color"

	"github.com/aquilari/scopeview/pkg/scalebar"
)

// Theme names the color theme of the canvas
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// IsValid returns true if the theme is a recognized value
func (t Theme) IsValid() bool {
	return t == ThemeDark || t == ThemeLight
}

// CanvasColor returns the canvas background color for the theme
func (t Theme) CanvasColor() color.NRGBA {
	if t == ThemeLight {
		return color.NRGBA{R: 239, G: 235, B: 233, A: 255}
	}
	return color.NRGBA{R: 38, G: 41, B: 48, A: 255}
}

// DefaultTargetLength is the desired on-screen scale-bar length in pixels.
const DefaultTargetLength = 150

// ScaleBarSettings configures the scale-bar overlay
type ScaleBarSettings struct {
	Visible      bool
	Colored      bool
	Ticks        bool
	Position     scalebar.Position
	Unit         string
	FontSize     float64
	TargetLength float64
}

// DefaultScaleBarSettings returns the settings used for a fresh viewer
func DefaultScaleBarSettings() ScaleBarSettings {
	return ScaleBarSettings{
		Visible:      true,
		Ticks:        true,
		Position:     scalebar.BottomRight,
		Unit:         "px",
		FontSize:     10,
		TargetLength: DefaultTargetLength,
	}
}

// Viewer is the mutable view state for one open image
type Viewer struct {
	zoom     float64
	theme    Theme
	scaleBar ScaleBarSettings

	zoomChanged    []func(zoom float64)
	unitChanged    []func(unit string)
	themeChanged   []func(theme Theme)
	visibleChanged []func(visible bool)
	barChanged     []func()
}

// New creates a viewer at zoom 1 with default settings
func New() *Viewer {
	return &Viewer{
		zoom:     1,
		theme:    ThemeDark,
		scaleBar: DefaultScaleBarSettings(),
	}
}

// Zoom returns the current camera zoom factor
func (v *Viewer) Zoom() float64 {
	return v.zoom
}

// SetZoom updates the camera zoom and notifies zoom listeners
func (v *Viewer) SetZoom(zoom float64) error {
	if zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %v", zoom)
	}
	v.zoom = zoom
	for _, fn := range v.zoomChanged {
		fn(zoom)
	}
	return nil
}

// Theme returns the current theme
func (v *Viewer) Theme() Theme {
	return v.theme
}

// SetTheme switches the theme and notifies theme listeners
func (v *Viewer) SetTheme(t Theme) error {
	if !t.IsValid() {
		return fmt.Errorf("invalid theme: %s", t)
	}
	v.theme = t
	for _, fn := range v.themeChanged {
		fn(t)
	}
	return nil
}

// ScaleBar returns the current scale-bar settings
func (v *Viewer) ScaleBar() ScaleBarSettings {
	return v.scaleBar
}

// SetScaleBar replaces the whole settings block, e.g. when restoring a saved
// session, and notifies unit and visibility listeners
func (v *Viewer) SetScaleBar(sb ScaleBarSettings) error {
	if !sb.Position.IsValid() {
		return fmt.Errorf("position %q not recognized", string(sb.Position))
	}
	if sb.TargetLength <= 0 {
		return fmt.Errorf("target length must be positive, got %v", sb.TargetLength)
	}
	v.scaleBar = sb
	for _, fn := range v.unitChanged {
		fn(sb.Unit)
	}
	for _, fn := range v.visibleChanged {
		fn(sb.Visible)
	}
	v.notifyBarChanged()
	return nil
}

// SetScaleBarUnit changes the display unit and notifies unit listeners.
// Validation happens in the overlay, which owns the unit registry.
func (v *Viewer) SetScaleBarUnit(unit string) {
	v.scaleBar.Unit = unit
	for _, fn := range v.unitChanged {
		fn(unit)
	}
}

// SetScaleBarVisible toggles the overlay and notifies visibility listeners
func (v *Viewer) SetScaleBarVisible(visible bool) {
	v.scaleBar.Visible = visible
	for _, fn := range v.visibleChanged {
		fn(visible)
	}
}

// SetScaleBarPosition moves the bar to another corner
func (v *Viewer) SetScaleBarPosition(p scalebar.Position) error {
	if !p.IsValid() {
		return fmt.Errorf("position %q not recognized", string(p))
	}
	v.scaleBar.Position = p
	v.notifyBarChanged()
	return nil
}

// SetScaleBarTicks toggles end ticks
func (v *Viewer) SetScaleBarTicks(ticks bool) {
	v.scaleBar.Ticks = ticks
	v.notifyBarChanged()
}

// SetScaleBarColored toggles the fixed accent color
func (v *Viewer) SetScaleBarColored(colored bool) {
	v.scaleBar.Colored = colored
	v.notifyBarChanged()
}

// SetScaleBarFontSize updates the label font size
func (v *Viewer) SetScaleBarFontSize(size float64) {
	v.scaleBar.FontSize = size
	v.notifyBarChanged()
}

func (v *Viewer) notifyBarChanged() {
	for _, fn := range v.barChanged {
		fn()
	}
}

// OnZoomChanged registers a camera-zoom listener
func (v *Viewer) OnZoomChanged(fn func(zoom float64)) {
	v.zoomChanged = append(v.zoomChanged, fn)
}

// OnUnitChanged registers a scale-bar unit listener
func (v *Viewer) OnUnitChanged(fn func(unit string)) {
	v.unitChanged = append(v.unitChanged, fn)
}

// OnThemeChanged registers a theme listener
func (v *Viewer) OnThemeChanged(fn func(t Theme)) {
	v.themeChanged = append(v.themeChanged, fn)
}

// OnVisibleChanged registers a scale-bar visibility listener
func (v *Viewer) OnVisibleChanged(fn func(visible bool)) {
	v.visibleChanged = append(v.visibleChanged, fn)
}

// OnScaleBarChanged registers a listener for appearance changes (position,
// ticks, color, font size)
func (v *Viewer) OnScaleBarChanged(fn func()) {
	v.barChanged = append(v.barChanged, fn)
}
