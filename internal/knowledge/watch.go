// SPDX-License-Identifier: MIT

package knowledge

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hazelbot/hazel/internal/log"
	"github.com/hazelbot/hazel/internal/metrics"
)

const reloadDebounce = 300 * time.Millisecond

// Watch reloads the base whenever the knowledge file changes on disk.
// Events are debounced because editors fire several writes per save.
// It blocks until ctx is cancelled.
func (b *Base) Watch(ctx context.Context, path string) error {
	logger := log.WithComponent("knowledge")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: atomic writes replace the
	// inode and a file watch would go stale after the first reload.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(path)

	var timer *time.Timer
	var timerC <-chan time.Time

	logger.Info().Str("path", path).Msg("watching knowledge file")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerC = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("knowledge watcher error")
		case <-timerC:
			next, err := Load(path)
			if err != nil {
				metrics.RecordKnowledgeReload(false)
				logger.Error().Err(err).Msg("knowledge reload failed, keeping previous base")
				continue
			}
			b.Replace(next)
			metrics.RecordKnowledgeReload(true)
			logger.Info().Int("intents", len(next.intents)).Msg("knowledge reloaded")
		}
	}
}
