package scalebar

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
)

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultRenderConfig()

	if err := RenderPNG(&buf, cfg, 800, 600, 100, "100um"); err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 800 || bounds.Dy() != 600 {
		t.Errorf("unexpected canvas size %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderPNGUnknownPosition(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultRenderConfig()
	cfg.Position = Position("middle")

	if err := RenderPNG(&buf, cfg, 800, 600, 100, "100um"); err == nil {
		t.Fatal("expected error for unknown position")
	}
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultRenderConfig()
	cfg.Subdivisions = 4

	if err := RenderSVG(&buf, cfg, 800, 600, 100, "100um"); err != nil {
		t.Fatalf("RenderSVG failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<svg") {
		t.Error("output missing svg element")
	}
	if !strings.Contains(out, "100um") {
		t.Error("output missing label text")
	}
	// bar + 2 end ticks + 3 interior subdivision ticks
	if got := strings.Count(out, "<line"); got != 6 {
		t.Errorf("expected 6 line elements, got %d", got)
	}
}

func TestSubdivisionTicks(t *testing.T) {
	ticks := subdivisionTicks(100, 4)
	want := []float64{25, 50, 75}
	if len(ticks) != len(want) {
		t.Fatalf("expected %d ticks, got %d", len(want), len(ticks))
	}
	for i, x := range ticks {
		if x != want[i] {
			t.Errorf("tick %d = %v, want %v", i, x, want[i])
		}
	}

	if got := subdivisionTicks(100, 0); got != nil {
		t.Errorf("expected no ticks for 0 subdivisions, got %v", got)
	}
}
