package viewer

import (
	"github.com/aquilari/scopeview/pkg/scalebar"
	"github.com/aquilari/scopeview/pkg/units"
)

// ScaleBarOverlay binds a Viewer to a scale-bar length selector. It
// recomputes the bar length and label on zoom, unit, and visibility changes,
// mirroring the trigger events of the host canvas.
type ScaleBarOverlay struct {
	viewer   *Viewer
	selector *scalebar.Selector

	lengthPx float64
	quantity units.Quantity
	err      error
}

// NewScaleBarOverlay creates the overlay and subscribes it to the viewer's
// change notifications. Fails if the viewer's configured unit is unknown.
func NewScaleBarOverlay(v *Viewer, reg scalebar.UnitRegistry) (*ScaleBarOverlay, error) {
	sel, err := scalebar.NewSelector(reg, v.ScaleBar().Unit)
	if err != nil {
		return nil, err
	}
	o := &ScaleBarOverlay{viewer: v, selector: sel}

	v.OnZoomChanged(func(float64) { o.refresh() })
	v.OnVisibleChanged(func(bool) { o.refresh() })
	v.OnUnitChanged(func(unit string) {
		if err := o.selector.SetUnit(unit); err != nil {
			o.err = err
			return
		}
		o.refresh()
	})

	o.refresh()
	return o, nil
}

// refresh recomputes length and label from the current viewer state. The
// selector's own cache makes redundant calls cheap, so refresh runs on every
// trigger event without further bookkeeping.
func (o *ScaleBarOverlay) refresh() {
	if !o.viewer.ScaleBar().Visible {
		return
	}
	scaleCanvasToWorld := 1 / o.viewer.Zoom()
	target := o.viewer.ScaleBar().TargetLength

	lengthPx, q, err := o.selector.ComputeDisplayLength(target, scaleCanvasToWorld)
	if err != nil {
		o.err = err
		return
	}
	o.lengthPx = lengthPx
	o.quantity = q
	o.err = nil
}

// LengthPx returns the corrected on-screen bar length in pixels
func (o *ScaleBarOverlay) LengthPx() float64 {
	return o.lengthPx
}

// Quantity returns the display quantity for the label
func (o *ScaleBarOverlay) Quantity() units.Quantity {
	return o.quantity
}

// Label returns the formatted label text, e.g. "100um"
func (o *ScaleBarOverlay) Label() string {
	return o.quantity.Format()
}

// Err returns the error from the most recent recomputation, if any
func (o *ScaleBarOverlay) Err() error {
	return o.err
}

// RenderConfig assembles the render configuration from viewer state
func (o *ScaleBarOverlay) RenderConfig() scalebar.RenderConfig {
	sb := o.viewer.ScaleBar()
	return scalebar.RenderConfig{
		Position: sb.Position,
		Ticks:    sb.Ticks,
		Colored:  sb.Colored,
		FontSize: sb.FontSize,
		Canvas:   o.viewer.Theme().CanvasColor(),
	}
}
