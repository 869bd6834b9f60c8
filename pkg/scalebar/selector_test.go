package scalebar

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/aquilari/scopeview/pkg/units"
)

func newSelector(t *testing.T, unit string) *Selector {
	t.Helper()
	sel, err := NewSelector(units.NewRegistry(), unit)
	if err != nil {
		t.Fatalf("NewSelector(%q) failed: %v", unit, err)
	}
	return sel
}

func TestPreferredValuesStrictlyIncreasing(t *testing.T) {
	if !sort.Float64sAreSorted(PreferredValues) {
		t.Fatal("PreferredValues must be sorted")
	}
	for i := 1; i < len(PreferredValues); i++ {
		if PreferredValues[i] <= PreferredValues[i-1] {
			t.Fatalf("PreferredValues not strictly increasing at index %d", i)
		}
	}
}

func TestComputeDisplayLengthWorkedExample(t *testing.T) {
	// 150 px at scale 1.0 with base unit um: world length 150 um, snapped to
	// 100 um, corrected length 150 * 100/150 = 100 px.
	sel := newSelector(t, "um")

	length, q, err := sel.ComputeDisplayLength(150, 1.0)
	if err != nil {
		t.Fatalf("ComputeDisplayLength failed: %v", err)
	}
	if q.Unit != units.Micrometre {
		t.Errorf("expected unit um, got %s", q.Unit)
	}
	if q.Magnitude != 100 {
		t.Errorf("expected magnitude 100, got %v", q.Magnitude)
	}
	if math.Abs(length-100) > 1e-9 {
		t.Errorf("expected corrected length 100, got %v", length)
	}
}

func TestComputeDisplayLengthZoomedInConvertsUnit(t *testing.T) {
	// Zoomed in: scale 0.001 makes the world length 0.15 um, which compacts
	// to 150 nm and snaps to 100 nm.
	sel := newSelector(t, "um")

	length, q, err := sel.ComputeDisplayLength(150, 0.001)
	if err != nil {
		t.Fatalf("ComputeDisplayLength failed: %v", err)
	}
	if q.Unit != units.Nanometre {
		t.Errorf("expected unit nm, got %s", q.Unit)
	}
	if q.Magnitude != 100 {
		t.Errorf("expected magnitude 100, got %v", q.Magnitude)
	}
	if math.Abs(length-100) > 1e-6 {
		t.Errorf("expected corrected length 100, got %v", length)
	}
}

func TestComputeDisplayLengthPixelUnit(t *testing.T) {
	sel := newSelector(t, "px")

	length, q, err := sel.ComputeDisplayLength(150, 1.0)
	if err != nil {
		t.Fatalf("ComputeDisplayLength failed: %v", err)
	}
	if q.Unit != units.Pixel {
		t.Errorf("expected unit px, got %s", q.Unit)
	}
	if q.Magnitude != 100 || math.Abs(length-100) > 1e-9 {
		t.Errorf("expected 100px at length 100, got %v at %v", q.Magnitude, length)
	}
}

func TestMagnitudeAlwaysPreferred(t *testing.T) {
	sel := newSelector(t, "um")

	preferred := make(map[float64]bool, len(PreferredValues))
	for _, v := range PreferredValues {
		preferred[v] = true
	}

	for _, desired := range []float64{1, 10, 75, 150, 333, 1024} {
		for scale := 1e-9; scale <= 1e9; scale *= 3.7 {
			length, q, err := sel.ComputeDisplayLength(desired, scale)
			if err != nil {
				t.Fatalf("ComputeDisplayLength(%v, %v) failed: %v", desired, scale, err)
			}
			if !preferred[q.Magnitude] {
				t.Fatalf("magnitude %v not in PreferredValues (desired %v, scale %v)", q.Magnitude, desired, scale)
			}
			if length <= 0 || math.IsNaN(length) || math.IsInf(length, 0) {
				t.Fatalf("corrected length %v not positive finite (desired %v, scale %v)", length, desired, scale)
			}
		}
	}
}

func TestIdempotence(t *testing.T) {
	sel := newSelector(t, "um")

	l1, q1, err := sel.ComputeDisplayLength(150, 0.37)
	if err != nil {
		t.Fatal(err)
	}
	l2, q2, err := sel.ComputeDisplayLength(150, 0.37)
	if err != nil {
		t.Fatal(err)
	}
	if l1 != l2 || q1 != q2 {
		t.Errorf("repeated call diverged: (%v, %v) vs (%v, %v)", l1, q1, l2, q2)
	}
}

func TestMonotonicity(t *testing.T) {
	reg := units.NewRegistry()
	sel := newSelector(t, "um")

	prev := -math.MaxFloat64
	for scale := 1e-6; scale <= 1e6; scale *= 1.9 {
		_, q, err := sel.ComputeDisplayLength(150, scale)
		if err != nil {
			t.Fatalf("scale %v: %v", scale, err)
		}
		inMetres := q
		if q.Unit != units.Pixel {
			inMetres, err = reg.Convert(q, units.Metre)
			if err != nil {
				t.Fatalf("convert %v: %v", q, err)
			}
		}
		if inMetres.Magnitude < prev {
			t.Fatalf("display magnitude decreased at scale %v: %v < %v", scale, inMetres.Magnitude, prev)
		}
		prev = inMetres.Magnitude
	}
}

func TestBelowSmallestPreferredFallsBackToSmallest(t *testing.T) {
	// World lengths under 1 nm normalize below every preferred value; the
	// selector keeps the smallest entry rather than wrapping around.
	sel := newSelector(t, "nm")

	_, q, err := sel.ComputeDisplayLength(150, 0.5/150) // world length 0.5 nm
	if err != nil {
		t.Fatalf("ComputeDisplayLength failed: %v", err)
	}
	if q.Magnitude != PreferredValues[0] {
		t.Errorf("expected smallest preferred value %v, got %v", PreferredValues[0], q.Magnitude)
	}
	if q.Unit != units.Nanometre {
		t.Errorf("expected nm, got %s", q.Unit)
	}
}

func TestInvalidInputs(t *testing.T) {
	sel := newSelector(t, "um")

	cases := []struct {
		name    string
		desired float64
		scale   float64
	}{
		{"zero length", 0, 1},
		{"negative length", -10, 1},
		{"zero scale", 150, 0},
		{"negative scale", 150, -1},
		{"nan scale", 150, math.NaN()},
		{"inf length", math.Inf(1), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := sel.ComputeDisplayLength(tc.desired, tc.scale)
			var inputErr *InvalidInputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
		})
	}
}

func TestInvalidUnit(t *testing.T) {
	_, err := NewSelector(units.NewRegistry(), "lightyear")
	var unitErr *units.InvalidUnitError
	if !errors.As(err, &unitErr) {
		t.Fatalf("expected InvalidUnitError, got %v", err)
	}

	sel := newSelector(t, "um")
	if err := sel.SetUnit("cubit"); err == nil {
		t.Error("expected error for unknown unit")
	}
	if sel.Unit() != units.Micrometre {
		t.Errorf("failed SetUnit must not change the unit, got %s", sel.Unit())
	}
}

// countingRegistry wraps the real registry to observe ToCompact calls.
type countingRegistry struct {
	*units.Registry
	compactCalls int
}

func (c *countingRegistry) ToCompact(q units.Quantity) units.Quantity {
	c.compactCalls++
	return c.Registry.ToCompact(q)
}

func TestScaleCacheSkipsRecomputation(t *testing.T) {
	reg := &countingRegistry{Registry: units.NewRegistry()}
	sel, err := NewSelector(reg, "um")
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := sel.ComputeDisplayLength(150, 1.0); err != nil {
		t.Fatal(err)
	}
	calls := reg.compactCalls

	// A scale within the log10 tolerance reuses the cache.
	if _, _, err := sel.ComputeDisplayLength(150, 1.0+1e-7); err != nil {
		t.Fatal(err)
	}
	if reg.compactCalls != calls {
		t.Errorf("expected cached result, got %d extra ToCompact calls", reg.compactCalls-calls)
	}

	// A materially different scale recomputes.
	if _, _, err := sel.ComputeDisplayLength(150, 2.0); err != nil {
		t.Fatal(err)
	}
	if reg.compactCalls == calls {
		t.Error("expected recomputation for changed scale")
	}

	// Changing the unit invalidates the cache.
	calls = reg.compactCalls
	if err := sel.SetUnit("mm"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := sel.ComputeDisplayLength(150, 2.0); err != nil {
		t.Fatal(err)
	}
	if reg.compactCalls == calls {
		t.Error("expected recomputation after unit change")
	}
}
