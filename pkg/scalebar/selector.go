// Package scalebar computes and renders the scale-bar overlay shown on top
// of the zoomable canvas. The selector maps a desired on-screen bar length
// and the current canvas-to-world scale into a "nice" round world quantity
// and the corrected pixel length that corresponds to it.
package scalebar

import (
	"fmt"
	"math"
	"sort"

	"github.com/aquilari/scopeview/pkg/units"
)

// PreferredValues are the magnitudes a scale-bar label is allowed to show.
// Invariant: strictly increasing. Shared read-only across all selectors.
var PreferredValues = []float64{1, 2, 5, 10, 20, 50, 100, 200, 500}

// logScaleTolerance is the log10 distance below which two scale factors are
// treated as equal and the cached result is reused.
const logScaleTolerance = 1e-4

// InvalidInputError reports non-positive or non-finite geometry passed to
// the selector
type InvalidInputError struct {
	Field string
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %v (must be positive and finite)", e.Field, e.Value)
}

// UnitRegistry is the slice of the unit service the selector consumes
type UnitRegistry interface {
	Parse(s string) (units.Unit, error)
	Convert(q units.Quantity, to units.Unit) (units.Quantity, error)
	ToCompact(q units.Quantity) units.Quantity
}

// Selector picks human-friendly scale-bar lengths. It is stateless apart
// from a cache of the last computation, used to skip recomputation while the
// zoom has not meaningfully changed. Callers invoke it from a single
// update goroutine; it performs no locking of its own.
type Selector struct {
	reg      UnitRegistry
	baseUnit units.Unit

	// cache of the last computation
	lastScale     float64
	lastDesired   float64
	lastCorrected float64
	lastQuantity  units.Quantity
	haveLast      bool
}

// NewSelector creates a selector labeling lengths in the given base unit.
// The unit string is resolved through the registry; unknown units fail with
// units.InvalidUnitError.
func NewSelector(reg UnitRegistry, baseUnit string) (*Selector, error) {
	s := &Selector{reg: reg}
	if err := s.SetUnit(baseUnit); err != nil {
		return nil, err
	}
	return s, nil
}

// Unit returns the current base display unit
func (s *Selector) Unit() units.Unit {
	return s.baseUnit
}

// SetUnit switches the base display unit and invalidates the cache
func (s *Selector) SetUnit(baseUnit string) error {
	u, err := s.reg.Parse(baseUnit)
	if err != nil {
		return err
	}
	s.baseUnit = u
	s.haveLast = false
	return nil
}

// LastQuantity returns the most recently computed display quantity, if any
func (s *Selector) LastQuantity() (units.Quantity, bool) {
	return s.lastQuantity, s.haveLast
}

// ComputeDisplayLength maps a desired pixel length and the current
// canvas-to-world scale to the corrected pixel length to draw and the
// quantity to label it with. The returned magnitude is always an element of
// PreferredValues; the corrected length is always positive and finite.
func (s *Selector) ComputeDisplayLength(desiredPixelLength, scaleCanvasToWorld float64) (float64, units.Quantity, error) {
	if err := checkPositive("desired pixel length", desiredPixelLength); err != nil {
		return 0, units.Quantity{}, err
	}
	if err := checkPositive("canvas-to-world scale", scaleCanvasToWorld); err != nil {
		return 0, units.Quantity{}, err
	}

	if s.haveLast && desiredPixelLength == s.lastDesired &&
		math.Abs(math.Log10(scaleCanvasToWorld)-math.Log10(s.lastScale)) < logScaleTolerance {
		return s.lastCorrected, s.lastQuantity, nil
	}

	// Desired on-screen length expressed as a world quantity.
	worldLength := desiredPixelLength * scaleCanvasToWorld
	current := units.Quantity{Magnitude: worldLength, Unit: s.baseUnit}

	// Normalize into the unit that keeps the magnitude readable, and keep
	// the ratio so any unit change (e.g. um -> nm) can be undone below.
	normalized := s.reg.ToCompact(current)
	factor := current.Magnitude / normalized.Magnitude

	// Snap down to the nearest preferred value. A magnitude below every
	// entry snaps to the smallest one.
	index := sort.SearchFloat64s(PreferredValues, normalized.Magnitude)
	if index > 0 {
		index--
	}
	snapped := PreferredValues[index]

	// Express the snapped value back in base units and rescale to pixels.
	snappedInBase := snapped * factor
	corrected := desiredPixelLength * snappedInBase / worldLength

	display := units.Quantity{Magnitude: snapped, Unit: normalized.Unit}

	s.lastScale = scaleCanvasToWorld
	s.lastDesired = desiredPixelLength
	s.lastCorrected = corrected
	s.lastQuantity = display
	s.haveLast = true

	return corrected, display, nil
}

func checkPositive(field string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return &InvalidInputError{Field: field, Value: v}
	}
	return nil
}
