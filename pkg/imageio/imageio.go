// Package imageio loads scientific images for viewing.
package imageio

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Image is a decoded image plus the metadata the viewer needs
type Image struct {
	Path      string
	Format    string // "png" or "tiff"
	Width     int
	Height    int
	PixelSize float64 // world units per image pixel
	Data      image.Image
}

// Load decodes the image at path. TIFF and PNG are supported; pixelSize is
// the physical size of one image pixel in the viewer's base unit.
func Load(path string, pixelSize float64) (*Image, error) {
	if pixelSize <= 0 {
		return nil, fmt.Errorf("pixel size must be positive, got %v", pixelSize)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no image found at %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	var (
		img    image.Image
		format string
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tif", ".tiff":
		img, err = tiff.Decode(file)
		format = "tiff"
	case ".png":
		img, err = png.Decode(file)
		format = "png"
	default:
		return nil, fmt.Errorf("unsupported image format %q (want .png, .tif, or .tiff)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}

	bounds := img.Bounds()
	return &Image{
		Path:      path,
		Format:    format,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		PixelSize: pixelSize,
		Data:      img,
	}, nil
}
