package plugins

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchPicksUpNewManifest(t *testing.T) {
	r, dir := newTestRegistry(t)
	if _, err := r.Scan(); err != nil {
		t.Fatal(err)
	}

	updates := make(chan []Plugin, 4)
	stop, err := r.Watch(func(found []Plugin) { updates <- found })
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer stop()

	manifest := "name: cellcount\ncommand: scopeview-cellcount\n"
	if err := os.WriteFile(filepath.Join(dir, "cellcount.yml"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case found := <-updates:
		if len(found) != 1 || found[0].Name != "cellcount" {
			t.Errorf("unexpected plugin list: %+v", found)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for debounced rescan")
	}
}
