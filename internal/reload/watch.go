package reload

import (
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the preview's input files and invokes onChange for every
// write, so the serving layer can drop its caches and notify clients.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

func Watch(paths []string, onChange func(path string), logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	for _, path := range paths {
		if err := fsw.Add(path); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	w := &Watcher{
		fsw:  fsw,
		done: make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-w.done:
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					logger.Debug("watched file changed", "path", event.Name, "op", event.Op.String())
					onChange(event.Name)
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("file watcher error", "error", err)
			}
		}
	}()

	return w, nil
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
