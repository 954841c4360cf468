package loop

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// stopSentinel is the file-based stop request: presence of the file
// means stop at the next suspension point. A honored request consumes
// the file so the next run starts clean.
type stopSentinel struct {
	path string
}

func newStopSentinel(path string) *stopSentinel {
	return &stopSentinel{path: path}
}

func (s *stopSentinel) Requested() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *stopSentinel) Consume() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sleepOrStop sleeps for d, waking early when the sentinel appears or
// ctx is cancelled. Returns true when a stop was requested.
func (s *stopSentinel) sleepOrStop(ctx context.Context, d time.Duration) (bool, error) {
	if s.Requested() {
		return true, nil
	}
	if d <= 0 {
		return false, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return s.plainSleep(ctx, d)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return s.plainSleep(ctx, d)
	}
	// The sentinel may have appeared between the Stat and the watch.
	if s.Requested() {
		return true, nil
	}

	t := time.NewTimer(d)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			return s.Requested(), nil
		case ev := <-watcher.Events:
			if ev.Name == s.path && ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				return true, nil
			}
		case <-watcher.Errors:
			// watch degraded; the timer still bounds the wait
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

func (s *stopSentinel) plainSleep(ctx context.Context, d time.Duration) (bool, error) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return s.Requested(), nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
