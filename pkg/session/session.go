// Package session persists per-image view state so a reopened image comes
// back at the same zoom and scale-bar configuration.
package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aquilari/scopeview/pkg/scalebar"
	"github.com/aquilari/scopeview/pkg/viewer"
)

// ViewState is the saved state for one image path
type ViewState struct {
	ImagePath string
	Zoom      float64
	ScaleBar  viewer.ScaleBarSettings
	UpdatedAt time.Time
}

// DB handles view-state persistence
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the session database at the given path
func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sdb := &DB{db: db}
	if err := sdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return sdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS view_states (
		image_path TEXT PRIMARY KEY,
		zoom REAL NOT NULL,
		unit TEXT NOT NULL,
		visible INTEGER NOT NULL,
		colored INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		position TEXT NOT NULL,
		font_size REAL NOT NULL,
		target_length REAL NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_view_states_updated ON view_states(updated_at);
	`
	_, err := d.db.Exec(schema)
	return err
}

// Save inserts or replaces the view state for an image
func (d *DB) Save(s *ViewState) error {
	if s.ImagePath == "" {
		return fmt.Errorf("image path cannot be empty")
	}
	if s.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %v", s.Zoom)
	}
	s.UpdatedAt = time.Now().UTC()
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO view_states
			(image_path, zoom, unit, visible, colored, ticks, position, font_size, target_length, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ImagePath, s.Zoom, s.ScaleBar.Unit, s.ScaleBar.Visible, s.ScaleBar.Colored,
		s.ScaleBar.Ticks, string(s.ScaleBar.Position), s.ScaleBar.FontSize,
		s.ScaleBar.TargetLength, s.UpdatedAt)
	return err
}

// Get returns the saved state for an image path, or nil if none exists
func (d *DB) Get(imagePath string) (*ViewState, error) {
	row := d.db.QueryRow(`
		SELECT image_path, zoom, unit, visible, colored, ticks, position, font_size, target_length, updated_at
		FROM view_states
		WHERE image_path = ?
	`, imagePath)

	s, err := scanViewState(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Recent returns the most recently viewed images, newest first
func (d *DB) Recent(limit int) ([]ViewState, error) {
	rows, err := d.db.Query(`
		SELECT image_path, zoom, unit, visible, colored, ticks, position, font_size, target_length, updated_at
		FROM view_states
		ORDER BY updated_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []ViewState
	for rows.Next() {
		s, err := scanViewState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, *s)
	}
	return states, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanViewState(row scanner) (*ViewState, error) {
	var (
		s        ViewState
		position string
	)
	err := row.Scan(&s.ImagePath, &s.Zoom, &s.ScaleBar.Unit, &s.ScaleBar.Visible,
		&s.ScaleBar.Colored, &s.ScaleBar.Ticks, &position, &s.ScaleBar.FontSize,
		&s.ScaleBar.TargetLength, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.ScaleBar.Position = scalebar.Position(position)
	return &s, nil
}
