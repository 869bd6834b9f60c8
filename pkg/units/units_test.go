package units

import (
	"errors"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		in   string
		want Unit
	}{
		{"px", Pixel},
		{"pixel", Pixel},
		{"nm", Nanometre},
		{"um", Micrometre},
		{"µm", Micrometre},
		{"micron", Micrometre},
		{"mm", Millimetre},
		{"cm", Centimetre},
		{"m", Metre},
		{"km", Kilometre},
		{"in", Inch},
		{"ft", Foot},
	}
	for _, tc := range cases {
		got, err := reg.Parse(tc.in)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Parse("parsec")
	if err == nil {
		t.Fatal("expected error for unknown unit")
	}
	var unitErr *InvalidUnitError
	if !errors.As(err, &unitErr) {
		t.Fatalf("expected InvalidUnitError, got %T", err)
	}
	if unitErr.Name != "parsec" {
		t.Errorf("expected error to carry unit name, got %q", unitErr.Name)
	}
}

func TestConvert(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name string
		q    Quantity
		to   Unit
		want float64
	}{
		{"m to cm", Quantity{1, Metre}, Centimetre, 100},
		{"m to um", Quantity{1, Metre}, Micrometre, 1e6},
		{"um to nm", Quantity{0.15, Micrometre}, Nanometre, 150},
		{"km to m", Quantity{2, Kilometre}, Metre, 2000},
		{"in to cm", Quantity{1, Inch}, Centimetre, 2.54},
		{"same unit", Quantity{42, Micrometre}, Micrometre, 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reg.Convert(tc.q, tc.to)
			if err != nil {
				t.Fatalf("Convert returned error: %v", err)
			}
			if math.Abs(got.Magnitude-tc.want) > 1e-9*math.Abs(tc.want) {
				t.Errorf("Convert(%v, %s) = %v, want %v", tc.q, tc.to, got.Magnitude, tc.want)
			}
			if got.Unit != tc.to {
				t.Errorf("Convert returned unit %s, want %s", got.Unit, tc.to)
			}
		})
	}
}

func TestConvertPixelIsItsOwnDimension(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Convert(Quantity{10, Pixel}, Metre); err == nil {
		t.Error("expected error converting px to m")
	}
	if _, err := reg.Convert(Quantity{10, Metre}, Pixel); err == nil {
		t.Error("expected error converting m to px")
	}
}

func TestToCompact(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name     string
		q        Quantity
		wantMag  float64
		wantUnit Unit
	}{
		{"already compact", Quantity{150, Micrometre}, 150, Micrometre},
		{"um down to nm", Quantity{0.15, Micrometre}, 150, Nanometre},
		{"um up to mm", Quantity{1500, Micrometre}, 1.5, Millimetre},
		{"cm to mm", Quantity{2, Centimetre}, 20, Millimetre},
		{"m stays m", Quantity{3, Metre}, 3, Metre},
		{"m up to km", Quantity{1500, Metre}, 1.5, Kilometre},
		{"below a nanometre", Quantity{0.05, Nanometre}, 0.05, Nanometre},
		{"pixel unchanged", Quantity{123, Pixel}, 123, Pixel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := reg.ToCompact(tc.q)
			if got.Unit != tc.wantUnit {
				t.Fatalf("ToCompact(%v) unit = %s, want %s", tc.q, got.Unit, tc.wantUnit)
			}
			if math.Abs(got.Magnitude-tc.wantMag) > 1e-9*math.Max(1, math.Abs(tc.wantMag)) {
				t.Errorf("ToCompact(%v) magnitude = %v, want %v", tc.q, got.Magnitude, tc.wantMag)
			}
		})
	}
}

func TestQuantityFormat(t *testing.T) {
	cases := []struct {
		q    Quantity
		want string
	}{
		{Quantity{100, Micrometre}, "100um"},
		{Quantity{1.5, Millimetre}, "1.5mm"},
		{Quantity{1, Pixel}, "1px"},
		{Quantity{0.05, Nanometre}, "0.05nm"},
	}
	for _, tc := range cases {
		if got := tc.q.Format(); got != tc.want {
			t.Errorf("Format(%v) = %q, want %q", tc.q, got, tc.want)
		}
	}
}
