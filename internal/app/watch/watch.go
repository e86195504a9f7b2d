package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"meeting-recap/internal/app/util/files"
)

// Handler runs once per burst of audio file events.
type Handler func(ctx context.Context) error

// Watcher triggers a Handler after new audio lands in a directory. Events
// are debounced so a recorder syncing several files causes one run, and
// runs never overlap.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
}

// New starts watching dir. Call Run to process events and Close when done.
func New(dir string, debounce time.Duration, handler Handler, logger *zap.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if debounce <= 0 {
		debounce = 10 * time.Second
	}

	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		logger:   logger.With(zap.String("dir", dir)),
		watcher:  watcher,
	}, nil
}

// Run blocks until ctx is done. With runFirst the handler runs once before
// any event, picking up files that arrived while nothing was watching.
func (w *Watcher) Run(ctx context.Context, runFirst bool) error {
	w.logger.Info("watching for new recordings", zap.Duration("debounce", w.debounce))

	if runFirst {
		w.trigger(ctx)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("audio event", zap.String("file", filepath.Base(event.Name)), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.trigger(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) trigger(ctx context.Context) {
	start := time.Now()
	if err := w.handler(ctx); err != nil {
		w.logger.Error("run failed", zap.Error(err))
		return
	}
	w.logger.Info("run finished", zap.Duration("elapsed", time.Since(start)))
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	return files.IsAudioFile(filepath.Base(event.Name))
}
