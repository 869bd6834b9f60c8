package plugins

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/aquilari/scopeview/pkg/watcher"
)

// Watch rescans the registry whenever the manifest directory changes,
// debounced so editor save storms trigger one rescan. onChange receives the
// refreshed plugin list. The returned stop function releases the watcher.
func (r *Registry) Watch(onChange func([]Plugin)) (stop func(), err error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(r.dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", r.dir, err)
	}

	deb := watcher.NewDebouncer(0)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case _, ok := <-fw.Events:
				if !ok {
					return
				}
				deb.Trigger(func() {
					if plugins, err := r.Scan(); err == nil {
						onChange(plugins)
					}
				})
			case _, ok := <-fw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() {
		close(done)
		deb.Cancel()
		fw.Close()
	}, nil
}
