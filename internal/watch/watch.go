// Package watch observes a repository's metadata directory and reports
// settled change bursts, so open views can refresh when HEAD or the index
// moves underneath them.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ofirgall/diffview/internal/vcs"
)

// DefaultDebounce coalesces the many writes a single git operation makes
// into one notification.
const DefaultDebounce = 350 * time.Millisecond

type Watcher struct {
	notify func()
	delay  time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
	closed  bool
}

// New starts watching the repository and calls notify after each settled
// burst of changes. notify runs on the watcher's timer goroutine; callers
// that need cooperative ordering should post from it onto their scheduler.
func New(repo *vcs.RepositoryContext, delay time.Duration, notify func()) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	path := watchPath(repo)
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	slog.Debug("repository watcher started", slog.String("path", path))
	w := &Watcher{notify: notify, delay: delay, watcher: fsw}
	go w.loop(fsw)
	return w, nil
}

func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if err := w.watcher.Close(); err != nil {
		slog.Error("watcher close", slog.Any("error", err))
	}
}

func (w *Watcher) loop(fsw *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if shouldIgnorePath(ev.Name) {
				continue
			}
			slog.Debug("repository change",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			w.trigger()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

// trigger restarts the settle timer; notify fires once the burst quiets
// down for the configured delay.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if !closed {
			w.notify()
		}
	})
}

// watchPath prefers the metadata directory; a worktree whose git dir lives
// elsewhere falls back to the toplevel.
func watchPath(repo *vcs.RepositoryContext) string {
	if info, err := os.Stat(repo.GitDir); err == nil && info.IsDir() {
		return repo.GitDir
	}
	return repo.Toplevel
}

func shouldIgnorePath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
