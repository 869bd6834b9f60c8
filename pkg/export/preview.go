package export

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"
)

// PreviewServer serves an exported snapshot bundle locally so the rendered
// scale bar can be checked in a browser.
type PreviewServer struct {
	bundlePath string
	port       int
	server     *http.Server
}

// NewPreviewServer creates a preview server for the given bundle directory.
func NewPreviewServer(bundlePath string, port int) *PreviewServer {
	return &PreviewServer{
		bundlePath: bundlePath,
		port:       port,
	}
}

// Start starts the preview server and blocks until stopped.
func (p *PreviewServer) Start() error {
	if _, err := os.Stat(p.bundlePath); os.IsNotExist(err) {
		return fmt.Errorf("bundle path does not exist: %s", p.bundlePath)
	}
	if _, err := os.Stat(filepath.Join(p.bundlePath, "index.html")); os.IsNotExist(err) {
		return fmt.Errorf("no index.html found in bundle: %s", p.bundlePath)
	}

	mux := http.NewServeMux()
	fs := http.FileServer(http.Dir(p.bundlePath))
	mux.Handle("/", noCacheMiddleware(fs))
	mux.HandleFunc("/__preview__/status", p.statusHandler)

	p.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", p.port),
		Handler: mux,
	}

	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := OpenInBrowser(p.URL()); err != nil {
			fmt.Printf("Could not open browser: %v\n", err)
			fmt.Printf("Open %s in your browser\n", p.URL())
		}
	}()

	fmt.Printf("\nPreview server running at %s\n", p.URL())
	fmt.Printf("Serving: %s\n", p.bundlePath)
	fmt.Println("\nPress Ctrl+C to stop")

	return p.server.ListenAndServe()
}

// StartWithGracefulShutdown starts the server with signal handling for clean
// shutdown.
func (p *PreviewServer) StartWithGracefulShutdown() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := p.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-stop:
		fmt.Println("\nShutting down preview server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return p.server.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Stop gracefully stops the preview server.
func (p *PreviewServer) Stop() error {
	if p.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}

// Port returns the port the server is running on.
func (p *PreviewServer) Port() int {
	return p.port
}

// URL returns the full URL of the preview server.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

// statusHandler returns the preview server status as JSON.
func (p *PreviewServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	hasIndex := true
	if _, err := os.Stat(filepath.Join(p.bundlePath, "index.html")); os.IsNotExist(err) {
		hasIndex = false
	}

	fileCount := 0
	walkErr := filepath.Walk(p.bundlePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			fileCount++
		}
		return nil
	})
	if walkErr != nil {
		// Count is unreliable when the bundle cannot be walked.
		fileCount = -1
	}

	fmt.Fprintf(w, `{"status":"running","port":%d,"bundle_path":%q,"has_index":%v,"file_count":%d}`,
		p.port, p.bundlePath, hasIndex, fileCount)
}

// noCacheMiddleware adds headers to prevent browser caching of snapshots
// that get re-exported between reloads.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}

// Ports tried for the preview server.
const (
	PreviewPortRangeStart = 9000
	PreviewPortRangeEnd   = 9100
)

// StartPreview serves the bundle on the first available port and blocks
// until interrupted.
func StartPreview(bundlePath string) error {
	port, err := FindAvailablePort(PreviewPortRangeStart, PreviewPortRangeEnd)
	if err != nil {
		return fmt.Errorf("could not find available port: %w", err)
	}
	return NewPreviewServer(bundlePath, port).StartWithGracefulShutdown()
}

// OpenInBrowser opens the URL with the platform's default browser.
func OpenInBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
