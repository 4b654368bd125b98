package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toyz/restgen/internal/utils"
)

// Watcher reruns a function when declaration sources change. Changes are
// coalesced until none arrived for the debounce interval.
type Watcher struct {
	processor   *utils.FileProcessor
	diagnostics *utils.DiagnosticSystem
	debounce    time.Duration
	ignore      string
}

// NewWatcher creates a watcher. Events on files named ignore, the generated
// file, never trigger a run.
func NewWatcher(processor *utils.FileProcessor, diagnostics *utils.DiagnosticSystem, debounce time.Duration, ignore string) *Watcher {
	return &Watcher{
		processor:   processor,
		diagnostics: diagnostics,
		debounce:    debounce,
		ignore:      ignore,
	}
}

// Watch adds every directory under the roots and calls onChange after each
// settled burst of changes until ctx is done. Errors from onChange are
// reported and watching continues.
func (w *Watcher) Watch(ctx context.Context, roots []string, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dirs, err := w.processor.WatchDirectories(roots)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
		w.diagnostics.Debug("Watching %s", dir)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(watcher, event) {
				continue
			}
			w.diagnostics.Verbose("Changed %s", event.Name)
			w.processor.GetFileReader().InvalidateFile(event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.diagnostics.Warn("watch error: %v", err)

		case <-fire:
			fire = nil
			if err := onChange(); err != nil {
				w.diagnostics.Debug("regeneration finished with error: %v", err)
			}
		}
	}
}

// relevant reports whether an event should trigger a run. New directories
// are added to the watcher.
func (w *Watcher) relevant(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if w.processor.Excluded(event.Name) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if dirs, err := w.processor.WatchDirectories([]string{event.Name}); err == nil {
				for _, dir := range dirs {
					_ = watcher.Add(dir)
				}
			}
			return false
		}
	}

	name := filepath.Base(event.Name)
	if name == w.ignore {
		return false
	}
	switch filepath.Ext(name) {
	case ".go", ".yaml", ".yml":
		return true
	}
	return false
}
