package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/paperfront/internal/storage"
	"github.com/starford/paperfront/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatcher(t *testing.T, dir string, store storage.Provider, fn RunFunc) {
	t.Helper()
	w := &Watcher{
		Store:    store,
		Root:     dir,
		Index:    "index.md",
		Debounce: 50 * time.Millisecond,
		Logger:   testutil.Logger(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Watch(ctx, fn)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestWatch_InitialRunAndRerunOnChange(t *testing.T) {
	dir, store := testutil.TestContent(t, map[string]string{"a.md": "a"})
	var runs atomic.Int32
	startWatcher(t, dir, store, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
		return runs.Load() == 1
	}, "initial run did not happen")

	_ = os.WriteFile(filepath.Join(dir, "b.md"), []byte("b"), 0o644)

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return runs.Load() == 2
	}, "new document did not trigger a rerun")
}

func TestWatch_IgnoresOwnWrites(t *testing.T) {
	dir, store := testutil.TestContent(t, map[string]string{"a.md": "raw"})
	var runs atomic.Int32
	startWatcher(t, dir, store, func(context.Context) error {
		runs.Add(1)
		if err := store.Write("a.md", []byte("rewritten")); err != nil {
			return err
		}
		return store.Write("index.md", []byte("index"))
	})

	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
		return runs.Load() >= 1
	}, "initial run did not happen")

	// Give the events caused by the run time to settle past the debounce.
	time.Sleep(500 * time.Millisecond)
	if n := runs.Load(); n != 1 {
		t.Fatalf("runs = %d, want 1 (own writes must not retrigger)", n)
	}

	_ = os.WriteFile(filepath.Join(dir, "a.md"), []byte("edited"), 0o644)
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return runs.Load() == 2
	}, "external edit did not trigger a rerun")
}

func TestWatch_IgnoresIndexAndOtherFiles(t *testing.T) {
	dir, store := testutil.TestContent(t, map[string]string{"a.md": "a"})
	var runs atomic.Int32
	startWatcher(t, dir, store, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
		return runs.Load() == 1
	}, "initial run did not happen")

	_ = os.WriteFile(filepath.Join(dir, "index.md"), []byte("hand edit"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	time.Sleep(500 * time.Millisecond)
	if n := runs.Load(); n != 1 {
		t.Errorf("runs = %d, want 1", n)
	}
}

func TestTake_SkipsIgnored(t *testing.T) {
	_, store := testutil.TestContent(t, map[string]string{"a.md": "a", "index.md": "i"})
	snap, err := Take(store, "index.md")
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if len(snap) != 1 || snap["a.md"] == "" {
		t.Errorf("snapshot = %v", snap)
	}
}

func TestTake_UnreadableIndexIsNotRead(t *testing.T) {
	dir, store := testutil.TestContent(t, map[string]string{"a.md": "a", "index.md": "i"})
	if err := os.Chmod(filepath.Join(dir, "index.md"), 0o200); err != nil {
		t.Fatal(err)
	}
	snap, err := Take(store, "index.md")
	if err != nil {
		t.Fatalf("Take with a write-only index: %v", err)
	}
	if got, want := snap["a.md"], storage.Checksum([]byte("a")); got != want {
		t.Errorf("checksum = %q, want %q", got, want)
	}
	if _, ok := snap["index.md"]; ok {
		t.Error("index must not be in the snapshot")
	}
}
