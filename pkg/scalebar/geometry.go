package scalebar

import (
	"fmt"
	"image/color"
)

// Position anchors the scale bar to a canvas corner
type Position string

const (
	TopLeft     Position = "top_left"
	TopRight    Position = "top_right"
	BottomLeft  Position = "bottom_left"
	BottomRight Position = "bottom_right"
)

// IsValid returns true if the position is a recognized corner
func (p Position) IsValid() bool {
	switch p {
	case TopLeft, TopRight, BottomLeft, BottomRight:
		return true
	}
	return false
}

// Mirrored returns true for right-anchored positions, where the bar grows
// leftwards from its origin
func (p Position) Mirrored() bool {
	return p == TopRight || p == BottomRight
}

// Corner offsets in canvas pixels.
const (
	xBarOffset = 10
	yBarOffset = 30
)

// Origin returns the canvas coordinates the bar is drawn from for a canvas
// of the given size
func (p Position) Origin(canvasWidth, canvasHeight int) (x, y float64, err error) {
	switch p {
	case TopLeft:
		return xBarOffset, 10, nil
	case TopRight:
		return float64(canvasWidth) - xBarOffset, 10, nil
	case BottomLeft:
		return xBarOffset, float64(canvasHeight) - yBarOffset, nil
	case BottomRight:
		return float64(canvasWidth) - xBarOffset, float64(canvasHeight) - yBarOffset, nil
	}
	return 0, 0, fmt.Errorf("position %q not recognized", string(p))
}

// Point is a 2D canvas coordinate
type Point struct {
	X, Y float64
}

// Segment is a drawable line segment
type Segment struct {
	A, B Point
}

// tickHalfHeight is the vertical half-extent of the end ticks in pixels.
const tickHalfHeight = 5

// Segments returns the line segments of a bar of the given pixel length,
// relative to the bar origin. With ticks enabled the bar gets a vertical
// tick at each end.
func Segments(lengthPx float64, ticks bool) []Segment {
	segs := []Segment{
		{A: Point{0, 0}, B: Point{lengthPx, 0}},
	}
	if ticks {
		segs = append(segs,
			Segment{A: Point{0, -tickHalfHeight}, B: Point{0, tickHalfHeight}},
			Segment{A: Point{lengthPx, -tickHalfHeight}, B: Point{lengthPx, tickHalfHeight}},
		)
	}
	return segs
}

// DefaultColor is the accent color used when the bar is drawn "colored".
var DefaultColor = color.NRGBA{R: 255, G: 0, B: 255, A: 255}

// BarColor picks the bar and label color. Colored bars use the fixed accent
// color; otherwise the color is the inverse of the theme's canvas color with
// its alpha preserved, so the bar stays legible on any background.
func BarColor(colored bool, canvas color.NRGBA) color.NRGBA {
	if colored {
		return DefaultColor
	}
	return color.NRGBA{
		R: 255 - canvas.R,
		G: 255 - canvas.G,
		B: 255 - canvas.B,
		A: canvas.A,
	}
}
