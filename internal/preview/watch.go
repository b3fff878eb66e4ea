package preview

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce batches the bursts of events a single save produces.
const reloadDebounce = 150 * time.Millisecond

// watch reloads the scene after the file at opts.Path changes. The parent
// directory is watched so editors that save by rename are still seen.
func (s *Server) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("preview: watch: %w", err)
	}
	defer w.Close()

	path := filepath.Clean(s.opts.Path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("preview: watch: %w", err)
	}
	s.log.Info("watching scene file", zap.String("path", path))

	tick := time.NewTicker(reloadDebounce / 3)
	defer tick.Stop()
	var pending time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			s.log.Debug("scene file changed", zap.Stringer("op", ev.Op))
			pending = time.Now()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watch error", zap.Error(err))
		case <-tick.C:
			if pending.IsZero() || time.Since(pending) < reloadDebounce {
				continue
			}
			pending = time.Time{}
			if err := s.Reload(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn("reload failed", zap.Error(err))
			}
		}
	}
}
