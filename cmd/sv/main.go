package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/aquilari/scopeview/pkg/config"
	"github.com/aquilari/scopeview/pkg/export"
	"github.com/aquilari/scopeview/pkg/imageio"
	"github.com/aquilari/scopeview/pkg/plugins"
	"github.com/aquilari/scopeview/pkg/scalebar"
	"github.com/aquilari/scopeview/pkg/session"
	"github.com/aquilari/scopeview/pkg/ui"
	"github.com/aquilari/scopeview/pkg/units"
	"github.com/aquilari/scopeview/pkg/viewer"
)

const version = "0.1.0"

func main() {
	help := flag.Bool("help", false, "Show help")
	showVersion := flag.Bool("version", false, "Show version")
	unitFlag := flag.String("unit", "", "Scale-bar display unit (px, nm, um, mm, cm, m, ...)")
	pixelSize := flag.Float64("pixel-size", 0, "Physical size of one image pixel in the display unit")
	exportDir := flag.String("export", "", "Render scale-bar snapshots (PNG and SVG) into DIR and exit")
	preview := flag.Bool("preview", false, "After -export, serve the snapshots locally in a browser")
	configPath := flag.String("config", "", "Config file path (default: user config directory)")
	flag.Parse()

	if *help {
		fmt.Println("Usage: sv [options] [image.tif|image.png]")
		fmt.Println("\nA terminal viewer for scientific images with a calibrated scale bar.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("sv version %s\n", version)
		os.Exit(0)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			fmt.Printf("Error resolving config path: %v\n", err)
			os.Exit(1)
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *unitFlag != "" {
		cfg.Unit = *unitFlag
	}
	if *pixelSize > 0 {
		cfg.PixelSize = *pixelSize
	}

	v := viewer.New()
	sb := v.ScaleBar()
	sb.Unit = cfg.Unit
	sb.TargetLength = cfg.TargetLength
	sb.Position = scalebar.Position(cfg.Position)
	v.SetTheme(viewer.Theme(cfg.Theme))

	// Open the image, if one was given.
	var img *imageio.Image
	if path := flag.Arg(0); path != "" {
		img, err = imageio.Load(path, cfg.PixelSize)
		if err != nil {
			fmt.Printf("Error loading image: %v\n", err)
			os.Exit(1)
		}
	}

	// Restore the last view state for this image, if we have one.
	var (
		db           *session.DB
		restoredZoom float64
	)
	if img != nil {
		db, err = session.OpenDB(filepath.Join(filepath.Dir(cfgPath), "sessions.db"))
		if err != nil {
			fmt.Printf("Warning: session store unavailable: %v\n", err)
		} else {
			defer db.Close()
			if state, err := db.Get(img.Path); err == nil && state != nil {
				sb = state.ScaleBar
				restoredZoom = state.Zoom
			}
		}
	}
	if err := v.SetScaleBar(sb); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	overlay, err := viewer.NewScaleBarOverlay(v, units.NewRegistry())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if restoredZoom > 0 {
		v.SetZoom(restoredZoom)
	}

	if *exportDir != "" {
		if err := exportSnapshots(*exportDir, v, overlay, img); err != nil {
			fmt.Printf("Error exporting snapshots: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote scalebar.png and scalebar.svg to %s\n", *exportDir)
		if *preview {
			if err := export.StartPreview(*exportDir); err != nil {
				fmt.Printf("Error running preview server: %v\n", err)
				os.Exit(1)
			}
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println("Interactive mode needs a terminal. Use -export to render snapshots instead.")
		os.Exit(1)
	}

	var registry *plugins.Registry
	if cfg.PluginDir != "" {
		registry, err = plugins.NewRegistry(cfg.PluginDir, filepath.Join(filepath.Dir(cfgPath), "plugins.yml"))
		if err != nil {
			fmt.Printf("Warning: plugin registry unavailable: %v\n", err)
			registry = nil
		}
	}

	m := ui.NewModel(v, overlay, img, registry, db)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if registry != nil {
		stop, err := registry.Watch(func(found []plugins.Plugin) {
			p.Send(ui.PluginsChangedMsg{Plugins: found})
		})
		if err == nil {
			defer stop()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running viewer: %v\n", err)
		os.Exit(1)
	}
}

func exportSnapshots(dir string, v *viewer.Viewer, overlay *viewer.ScaleBarOverlay, img *imageio.Image) error {
	width, height := export.DefaultCanvasWidth, export.DefaultCanvasHeight
	if img != nil {
		width, height = img.Width, img.Height
	}
	return export.WriteBundle(dir, export.Snapshot{
		Config:   overlay.RenderConfig(),
		Width:    width,
		Height:   height,
		LengthPx: overlay.LengthPx(),
		Label:    overlay.Label(),
	})
}
