package setup

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/itchan-dev/routelab/frontend/internal/render"
	"github.com/itchan-dev/routelab/shared/logger"
)

const templateReloadDebounce = 200 * time.Millisecond

// startTemplateReloader re-parses dir whenever one of its templates changes.
// A set that fails to parse is logged and the previous one keeps serving.
func startTemplateReloader(ctx context.Context, ts *render.Templates, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create template watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		var debounce <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Ext(event.Name) != ".html" || event.Op == fsnotify.Chmod {
					continue
				}
				debounce = time.After(templateReloadDebounce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Log.Warn("template watcher error", "component", "setup", "error", err)
			case <-debounce:
				debounce = nil
				tmpl, err := loadTemplates(dir)
				if err != nil {
					logger.Log.Error("failed to reload templates", "component", "setup", "error", err)
					continue
				}
				ts.Swap(tmpl)
				logger.Log.Info("templates reloaded", "component", "setup", "dir", dir)
			}
		}
	}()
	return nil
}
