// Package plugins discovers third-party plugin manifests and tracks which
// plugins are enabled. Discovery is a directory scan; the heavy lifting of
// hosting plugin widgets stays with the plugins themselves, which are
// launched as external processes.
package plugins

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Plugin describes one discovered plugin manifest
type Plugin struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"` // markdown
	Command     string   `yaml:"command"`
	Args        []string `yaml:"args,omitempty"`
	Widgets     []string `yaml:"widgets,omitempty"`

	ManifestPath string `yaml:"-"`
	Enabled      bool   `yaml:"-"`
}

// Validate checks the manifest fields required to list and launch a plugin
func (p *Plugin) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("plugin name cannot be empty")
	}
	if p.Command == "" {
		return fmt.Errorf("plugin %s: command cannot be empty", p.Name)
	}
	return nil
}

// Registry scans a directory of plugin manifests and remembers which
// plugins the user disabled. A directory watch rescans from its own
// goroutine, so the plugin list and disabled set are guarded by mu.
type Registry struct {
	dir       string
	statePath string

	mu       sync.Mutex
	disabled map[string]bool
	plugins  []Plugin
}

// state is the persisted enable/disable record
type state struct {
	Disabled []string `yaml:"disabled"`
}

// NewRegistry creates a registry over the given manifest directory. The
// disabled set is persisted at statePath.
func NewRegistry(dir, statePath string) (*Registry, error) {
	r := &Registry{
		dir:       dir,
		statePath: statePath,
		disabled:  make(map[string]bool),
	}
	if err := r.loadState(); err != nil {
		return nil, err
	}
	return r, nil
}

// Dir returns the manifest directory
func (r *Registry) Dir() string {
	return r.dir
}

// Scan re-reads the manifest directory. Malformed manifests are skipped so
// one broken plugin cannot hide the rest.
func (r *Registry) Scan() ([]Plugin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		r.plugins = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read plugin directory: %w", err)
	}

	var found []Plugin
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var p Plugin
		if err := yaml.Unmarshal(data, &p); err != nil {
			continue
		}
		if err := p.Validate(); err != nil {
			continue
		}
		p.ManifestPath = path
		p.Enabled = !r.disabled[p.Name]
		found = append(found, p)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	r.plugins = found
	return r.snapshot(), nil
}

// Plugins returns the result of the last Scan
func (r *Registry) Plugins() []Plugin {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// snapshot copies the plugin list so callers can hold it without the lock.
// Callers must hold mu.
func (r *Registry) snapshot() []Plugin {
	out := make([]Plugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// Get returns the named plugin from the last scan
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(name)
}

func (r *Registry) get(name string) (Plugin, bool) {
	for _, p := range r.plugins {
		if p.Name == name {
			return p, true
		}
	}
	return Plugin{}, false
}

// SetEnabled flips a plugin's enabled flag and persists the disabled set
func (r *Registry) SetEnabled(name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.get(name); !ok {
		return fmt.Errorf("unknown plugin: %s", name)
	}
	if enabled {
		delete(r.disabled, name)
	} else {
		r.disabled[name] = true
	}
	for i := range r.plugins {
		if r.plugins[i].Name == name {
			r.plugins[i].Enabled = enabled
		}
	}
	return r.saveState()
}

// Launch starts an enabled plugin as an external process. The returned
// command is already started; the caller decides whether to wait.
func (r *Registry) Launch(ctx context.Context, name string) (*exec.Cmd, error) {
	p, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown plugin: %s", name)
	}
	if !p.Enabled {
		return nil, fmt.Errorf("plugin %s is disabled", name)
	}
	cmd := exec.CommandContext(ctx, p.Command, p.Args...)
	cmd.Dir = r.dir
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launch plugin %s: %w", name, err)
	}
	return cmd, nil
}

func (r *Registry) loadState() error {
	data, err := os.ReadFile(r.statePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read plugin state: %w", err)
	}
	var st state
	if err := yaml.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("parse plugin state: %w", err)
	}
	for _, name := range st.Disabled {
		r.disabled[name] = true
	}
	return nil
}

func (r *Registry) saveState() error {
	names := make([]string, 0, len(r.disabled))
	for name := range r.disabled {
		names = append(names, name)
	}
	sort.Strings(names)

	data, err := yaml.Marshal(state{Disabled: names})
	if err != nil {
		return fmt.Errorf("encode plugin state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.statePath), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	return os.WriteFile(r.statePath, data, 0644)
}
