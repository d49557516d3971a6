package registry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the registry when instruction files change on disk.
// Events are debounced so that editors writing multiple times in quick
// succession trigger a single reload.
type Watcher struct {
	watcher  *fsnotify.Watcher
	reload   func() error
	debounce time.Duration
}

// NewWatcher creates a [Watcher] over the given paths. The reload callback
// is invoked after changes settle; a failed reload keeps the previously
// published snapshot, so it is logged rather than fatal.
func NewWatcher(reload func() error, paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	for _, p := range paths {
		err := fw.Add(p)
		if err != nil {
			_ = fw.Close()

			return nil, fmt.Errorf("watch %q: %w", p, err)
		}
	}

	return &Watcher{
		watcher:  fw,
		reload:   reload,
		debounce: 200 * time.Millisecond,
	}, nil
}

// Watch blocks, processing filesystem events until ctx is canceled.
func (w *Watcher) Watch(ctx context.Context) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			slog.Debug("instruction file changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					// The timer fired while this event was being handled;
					// drain it so the reset cannot deliver a stale expiry.
					select {
					case <-timerCh:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			slog.Warn("watch error", slog.Any("error", err))

		case <-timerCh:
			timerCh = nil
			timer = nil

			err := w.reload()
			if err != nil {
				slog.Error("reload failed, keeping previous snapshot",
					slog.Any("error", err),
				)
			} else {
				slog.Info("registry reloaded")
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close fsnotify watcher: %w", err)
	}

	return nil
}
