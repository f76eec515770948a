package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ofirgall/diffview/internal/vcs"
)

func TestShouldIgnorePath(t *testing.T) {
	t.Parallel()

	if !shouldIgnorePath("/repo/.git/index.lock") {
		t.Fatal("lock files should be ignored")
	}
	if !shouldIgnorePath("/repo/.git/something.IPC") {
		t.Fatal("ipc files should be ignored, case-insensitively")
	}
	if shouldIgnorePath("/repo/.git/HEAD") {
		t.Fatal("HEAD changes must not be ignored")
	}
}

func TestWatchPathFallsBackToToplevel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := &vcs.RepositoryContext{
		Toplevel: dir,
		GitDir:   filepath.Join(dir, "no-such-dir"),
	}
	if got := watchPath(repo); got != dir {
		t.Fatalf("watchPath = %q, want toplevel %q", got, dir)
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	repo := &vcs.RepositoryContext{Toplevel: dir, GitDir: gitDir}

	var fired atomic.Int32
	w, err := New(repo, 50*time.Millisecond, func() {
		fired.Add(1)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watcher never fired")
		}
		time.Sleep(10 * time.Millisecond)
	}
	// let any straggler timers run, then check the burst coalesced
	time.Sleep(150 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("notify fired %d times for one burst", got)
	}
}

func TestWatcherCloseStopsNotifications(t *testing.T) {
	dir := t.TempDir()
	repo := &vcs.RepositoryContext{Toplevel: dir, GitDir: filepath.Join(dir, "missing")}

	var fired atomic.Int32
	w, err := New(repo, 200*time.Millisecond, func() {
		fired.Add(1)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "file"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Close()
	time.Sleep(300 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatal("notify fired after Close")
	}
}
