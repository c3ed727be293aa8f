package document

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay debounces bursts of file system events into one reload.
const reloadDelay = 500 * time.Millisecond

// Watch watches the document file and re-evaluates it on change, invoking
// onReload with the reload result after each attempt. It returns after
// starting a background goroutine that stops when ctx is cancelled.
//
// The callback runs on the watcher goroutine: callers must not use the
// document concurrently with it.
func (d *Document) Watch(ctx context.Context, onReload func(err error)) error {
	if d.session == nil {
		return &AccessError{Kind: KindLoadFailure, Message: "document is closed"}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(d.session.path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", d.session.path, err)
	}

	d.logger.Info().Msg("Started watching document")
	go d.processEvents(ctx, watcher, onReload)
	return nil
}

// processEvents handles file system events and triggers debounced reloads.
func (d *Document) processEvents(ctx context.Context, watcher *fsnotify.Watcher, onReload func(err error)) {
	var reloadTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			_ = watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			d.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Document file changed")

			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(reloadDelay, func() {
				err := d.Reload()
				if err != nil {
					d.logger.Error().Err(err).Msg("Failed to reload document")
				}
				if onReload != nil {
					onReload(err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			d.logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}
