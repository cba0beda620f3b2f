package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports changes of a single file.
// The parent directory is watched so that files replaced by a rename are still seen.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
}

func NewFileWatcher(path string) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("filepath.Abs(%s) > %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify.NewWatcher() > %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watcher.Add(%s) > %w", filepath.Dir(absPath), err)
	}
	return &FileWatcher{watcher: watcher, path: absPath}, nil
}

// Run calls onChange after each write to the file until ctx is done, then closes the watcher.
func (w *FileWatcher) Run(ctx context.Context, onChange func()) error {
	defer func() {
		_ = w.watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			slog.Default().Debug("file changed", "path", w.path, "op", event.Op.String())
			onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Default().Error("file watcher error", "path", w.path, "error", err)
		}
	}
}
