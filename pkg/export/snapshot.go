// Package export writes scale-bar snapshots to disk for use outside the
// viewer (figures, READMEs, QA of calibration).
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/aquilari/scopeview/pkg/scalebar"
)

// Snapshot is one renderable scale-bar state
type Snapshot struct {
	Config   scalebar.RenderConfig
	Width    int
	Height   int
	LengthPx float64
	Label    string
}

// Default snapshot canvas used when no image is open.
const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600
)

// WriteBundle renders the snapshot as both PNG and SVG into dir, naming the
// files scalebar.png and scalebar.svg. The two formats render concurrently.
func WriteBundle(dir string, snap Snapshot) error {
	if snap.LengthPx <= 0 {
		return fmt.Errorf("snapshot length must be positive, got %v", snap.LengthPx)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error {
		return writeFile(filepath.Join(dir, "scalebar.png"), snap, scalebar.RenderPNG)
	})
	g.Go(func() error {
		return writeFile(filepath.Join(dir, "scalebar.svg"), snap, scalebar.RenderSVG)
	})
	g.Go(func() error {
		return os.WriteFile(filepath.Join(dir, "index.html"), indexHTML(snap), 0644)
	})
	return g.Wait()
}

// indexHTML is a minimal page showing both renderings side by side, served
// by the preview server.
func indexHTML(snap Snapshot) []byte {
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>scopeview scale bar: %s</title></head>
<body style="background:#1e1f29;color:#f8f8f2;font-family:sans-serif">
<h1>Scale bar: %s (%.1f px)</h1>
<h2>PNG</h2><img src="scalebar.png" alt="scale bar PNG">
<h2>SVG</h2><img src="scalebar.svg" alt="scale bar SVG">
</body>
</html>
`, snap.Label, snap.Label, snap.LengthPx))
}

type renderFunc func(w io.Writer, cfg scalebar.RenderConfig, width, height int, lengthPx float64, label string) error

func writeFile(path string, snap Snapshot, render renderFunc) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f, snap.Config, snap.Width, snap.Height, snap.LengthPx, snap.Label); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
