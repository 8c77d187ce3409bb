package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/pbxgraph/internal/xcodeproj"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Debounce time.Duration
	// StatusAddr, when set, serves /health on that address while watching.
	StatusAddr string
}

// ReloadFunc receives every load attempt made by Watch.
type ReloadFunc func(p *xcodeproj.Project, err error)

// Watch loads the project at path, then reloads it whenever its document
// changes, until ctx is cancelled. Failed reloads are reported to onReload
// and do not stop the watch.
func (a *App) Watch(ctx context.Context, path string, opts WatchOptions, onReload ReloadFunc) error {
	ctx = a.Context(ctx)
	logger := a.logger

	dir, err := xcodeproj.Locate(path)
	if err != nil {
		return err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	status := &watchStatus{}
	reload := func() {
		p, err := a.Open(ctx, dir)
		status.record(dir, p, err)
		if err != nil {
			logger.Warn("Project reload failed.", "dir", dir, "error", err)
		} else {
			logger.Info("Project loaded.", "dir", dir, "objects", p.Objects().Len())
		}
		if onReload != nil {
			onReload(p, err)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	if opts.StatusAddr != "" {
		srv, err := startStatusServer(ctx, opts.StatusAddr, status)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	reload()

	var (
		timer   *time.Timer
		pending bool
	)
	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isDocumentEvent(event) {
				continue
			}
			logger.Debug("Document changed.", "event", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(opts.Debounce)
			}
			pending = true

		case <-timerC():
			if pending {
				a.cache.Invalidate(dir)
				reload()
				pending = false
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Debug("Watch stopped.", "dir", dir)
			return nil
		}
	}
}

// isDocumentEvent reports whether event touches project.pbxproj. Editors
// that save by rename produce Create or Rename rather than Write.
func isDocumentEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(event.Name) == xcodeproj.DocumentName
}
