package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches a directory for newly dropped export files and reports
// their keys. Exports are complete by the time they land on disk, so each
// file name is reported once; rewrites are ignored.
type Watcher struct {
	fs     *fsnotify.Watcher
	keys   chan string
	logger *zap.Logger
	done   chan struct{}
}

// NewWatcher starts watching dir. A nil logger disables logging.
func NewWatcher(dir string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		fs:     fsw,
		keys:   make(chan string, 16),
		logger: logger,
		done:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Keys returns the channel of newly seen export keys.
func (w *Watcher) Keys() <-chan string {
	return w.keys
}

func (w *Watcher) loop() {
	seen := make(map[string]bool)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(ev.Name)
			if filepath.Ext(name) != ".json" {
				continue
			}
			key := strings.TrimSuffix(name, ".json")
			if seen[key] {
				continue
			}
			seen[key] = true
			w.logger.Info("new export detected", zap.String("key", key))
			select {
			case w.keys <- key:
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
