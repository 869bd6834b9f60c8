// Package units provides length-unit parsing, conversion, and compact
// normalization for scale-bar labels.
package units

import (
	"fmt"
	"strconv"
)

// Unit identifies a length unit by its abbreviated symbol
type Unit string

const (
	Pixel      Unit = "px"
	Nanometre  Unit = "nm"
	Micrometre Unit = "um"
	Millimetre Unit = "mm"
	Centimetre Unit = "cm"
	Metre      Unit = "m"
	Kilometre  Unit = "km"
	Inch       Unit = "in"
	Foot       Unit = "ft"
	Mile       Unit = "mi"
)

// metresPer maps each physical unit to its size in metres.
// Pixel is intentionally absent: it is its own dimension.
var metresPer = map[Unit]float64{
	Nanometre:  1e-9,
	Micrometre: 1e-6,
	Millimetre: 1e-3,
	Centimetre: 1e-2,
	Metre:      1,
	Kilometre:  1e3,
	Inch:       0.0254,
	Foot:       0.3048,
	Mile:       1609.344,
}

// compactLadder is the ordered set of units considered when normalizing a
// quantity to a human-readable magnitude. Like SI prefixes, it steps in
// powers of a thousand, so compacting never produces cm or imperial units.
var compactLadder = []Unit{Nanometre, Micrometre, Millimetre, Metre, Kilometre}

// aliases maps accepted spellings to canonical unit symbols
var aliases = map[string]Unit{
	"px":         Pixel,
	"pixel":      Pixel,
	"nm":         Nanometre,
	"nanometer":  Nanometre,
	"um":         Micrometre,
	"µm":         Micrometre,
	"micrometer": Micrometre,
	"micron":     Micrometre,
	"mm":         Millimetre,
	"millimeter": Millimetre,
	"cm":         Centimetre,
	"centimeter": Centimetre,
	"m":          Metre,
	"meter":      Metre,
	"km":         Kilometre,
	"kilometer":  Kilometre,
	"in":         Inch,
	"inch":       Inch,
	"ft":         Foot,
	"foot":       Foot,
	"mi":         Mile,
	"mile":       Mile,
}

// IsValid returns true if the unit is a recognized length or pixel unit
func (u Unit) IsValid() bool {
	if u == Pixel {
		return true
	}
	_, ok := metresPer[u]
	return ok
}

// IsPhysical returns true for units carrying a real-world length dimension
func (u Unit) IsPhysical() bool {
	_, ok := metresPer[u]
	return ok
}

// InvalidUnitError reports a unit string the registry does not recognize
type InvalidUnitError struct {
	Name string
}

func (e *InvalidUnitError) Error() string {
	return fmt.Sprintf("unrecognized length unit %q", e.Name)
}

// Quantity is a magnitude paired with a unit of measurement
type Quantity struct {
	Magnitude float64
	Unit      Unit
}

// Format renders the quantity with an abbreviated unit symbol, e.g. "100um"
// or "1.5mm". Trailing zeros in the magnitude are trimmed.
func (q Quantity) Format() string {
	return strconv.FormatFloat(q.Magnitude, 'f', -1, 64) + string(q.Unit)
}

func (q Quantity) String() string {
	return q.Format()
}

// Compactor normalizes a quantity into the unit that keeps its magnitude in
// a conventional human-readable range. Implemented by Registry; swappable in
// tests.
type Compactor interface {
	Convert(q Quantity, to Unit) (Quantity, error)
	ToCompact(q Quantity) Quantity
}

// Registry converts between length units using a fixed factor table
type Registry struct{}

// NewRegistry returns the shared length-unit registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Parse resolves a unit string (symbol or full name) to its canonical Unit
func (r *Registry) Parse(s string) (Unit, error) {
	if u, ok := aliases[s]; ok {
		return u, nil
	}
	return "", &InvalidUnitError{Name: s}
}

// Convert expresses q in the target unit. Pixel and physical units are
// different dimensions and do not convert into each other.
func (r *Registry) Convert(q Quantity, to Unit) (Quantity, error) {
	if q.Unit == to {
		return q, nil
	}
	from, ok := metresPer[q.Unit]
	if !ok {
		return Quantity{}, &InvalidUnitError{Name: string(q.Unit)}
	}
	target, ok := metresPer[to]
	if !ok {
		return Quantity{}, &InvalidUnitError{Name: string(to)}
	}
	return Quantity{Magnitude: q.Magnitude * from / target, Unit: to}, nil
}

// ToCompact returns q expressed in the unit from the compact ladder that
// keeps the magnitude at or above 1 while staying as small as possible.
// Magnitudes below a nanometre stay in nanometres; pixel and non-positive
// quantities are returned unchanged.
func (r *Registry) ToCompact(q Quantity) Quantity {
	factor, ok := metresPer[q.Unit]
	if !ok || q.Magnitude <= 0 {
		return q
	}
	metres := q.Magnitude * factor

	best := compactLadder[0]
	for _, u := range compactLadder {
		if metres/metresPer[u] >= 1 {
			best = u
		}
	}
	if best == q.Unit {
		// Avoid round-trip float noise when the unit is already compact.
		return q
	}
	return Quantity{Magnitude: metres / metresPer[best], Unit: best}
}
