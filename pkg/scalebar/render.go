package scalebar

import (
	"fmt"
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/floats"
)

// RenderConfig controls how a scale-bar snapshot is drawn
type RenderConfig struct {
	Position     Position
	Ticks        bool
	Colored      bool
	FontSize     float64
	Canvas       color.NRGBA // theme canvas (background) color
	Subdivisions int         // minor ticks along the bar, 0 disables
}

// DefaultRenderConfig mirrors the viewer defaults: bottom-right, end ticks,
// theme-derived color.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Position: BottomRight,
		Ticks:    true,
		FontSize: 10,
		Canvas:   color.NRGBA{R: 38, G: 41, B: 48, A: 255},
	}
}

const barStrokeWidth = 3

// subdivisionTicks returns the x offsets of minor ticks along a bar of the
// given length, excluding both ends.
func subdivisionTicks(lengthPx float64, n int) []float64 {
	if n < 2 {
		return nil
	}
	xs := make([]float64, n+1)
	floats.Span(xs, 0, lengthPx)
	return xs[1 : len(xs)-1]
}

// RenderPNG draws a snapshot of the scale bar over a canvas-colored
// background and writes it as PNG. The bar length and label normally come
// from Selector.ComputeDisplayLength.
func RenderPNG(w io.Writer, cfg RenderConfig, canvasWidth, canvasHeight int, lengthPx float64, label string) error {
	ox, oy, err := cfg.Position.Origin(canvasWidth, canvasHeight)
	if err != nil {
		return err
	}
	sign := 1.0
	if cfg.Position.Mirrored() {
		sign = -1
	}
	barColor := BarColor(cfg.Colored, cfg.Canvas)

	dc := gg.NewContext(canvasWidth, canvasHeight)
	dc.SetColor(cfg.Canvas)
	dc.Clear()

	dc.SetColor(barColor)
	dc.SetLineWidth(barStrokeWidth)
	for _, s := range Segments(lengthPx, cfg.Ticks) {
		dc.DrawLine(ox+sign*s.A.X, oy+s.A.Y, ox+sign*s.B.X, oy+s.B.Y)
		dc.Stroke()
	}
	dc.SetLineWidth(1)
	for _, x := range subdivisionTicks(lengthPx, cfg.Subdivisions) {
		dc.DrawLine(ox+sign*x, oy-tickHalfHeight/2.0, ox+sign*x, oy+tickHalfHeight/2.0)
		dc.Stroke()
	}

	// Label sits centered under the bar, like the text node parented to the
	// bar in the canvas scene.
	dc.DrawStringAnchored(label, ox+sign*lengthPx/2, oy+20, 0.5, 0.5)

	return dc.EncodePNG(w)
}

// RenderSVG writes the same snapshot as an SVG document.
func RenderSVG(w io.Writer, cfg RenderConfig, canvasWidth, canvasHeight int, lengthPx float64, label string) error {
	ox, oy, err := cfg.Position.Origin(canvasWidth, canvasHeight)
	if err != nil {
		return err
	}
	sign := 1.0
	if cfg.Position.Mirrored() {
		sign = -1
	}
	barColor := BarColor(cfg.Colored, cfg.Canvas)
	stroke := fmt.Sprintf("stroke:%s;stroke-width:%d", hexColor(barColor), barStrokeWidth)

	canvas := svg.New(w)
	canvas.Start(canvasWidth, canvasHeight)
	canvas.Rect(0, 0, canvasWidth, canvasHeight, "fill:"+hexColor(cfg.Canvas))
	for _, s := range Segments(lengthPx, cfg.Ticks) {
		canvas.Line(
			round(ox+sign*s.A.X), round(oy+s.A.Y),
			round(ox+sign*s.B.X), round(oy+s.B.Y),
			stroke,
		)
	}
	for _, x := range subdivisionTicks(lengthPx, cfg.Subdivisions) {
		canvas.Line(
			round(ox+sign*x), round(oy-tickHalfHeight/2.0),
			round(ox+sign*x), round(oy+tickHalfHeight/2.0),
			fmt.Sprintf("stroke:%s;stroke-width:1", hexColor(barColor)),
		)
	}
	canvas.Text(
		round(ox+sign*lengthPx/2), round(oy+20), label,
		fmt.Sprintf("text-anchor:middle;font-size:%vpx;fill:%s", cfg.FontSize, hexColor(barColor)),
	)
	canvas.End()
	return nil
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
