package assets

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\nendsolid a\n"), 0644))

	changes := make(chan string, 8)
	w, err := NewWatcher(50*time.Millisecond, func(p string) { changes <- p })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch(path))

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("solid b\nendsolid b\n"), 0644))
	}

	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	select {
	case got := <-changes:
		assert.Equal(t, abs, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	select {
	case extra := <-changes:
		t.Fatalf("burst of writes should notify once, got extra %q", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	changes := make(chan string, 8)
	w, err := NewWatcher(20*time.Millisecond, func(p string) { changes <- p })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch(path))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.stl"), []byte("x"), 0644))

	select {
	case got := <-changes:
		t.Fatalf("unexpected notification for %q", got)
	case <-time.After(200 * time.Millisecond):
	}

	w.Unwatch(path)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	select {
	case got := <-changes:
		t.Fatalf("unexpected notification after Unwatch for %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_RescheduleAfterTimerFired(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	const debounce = 100 * time.Millisecond
	var calls atomic.Int32
	w, err := NewWatcher(debounce, func(string) { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch(path))

	// Let the first timer fire while its callback is blocked on the lock,
	// then report another change before releasing it.
	w.mu.Lock()
	w.scheduleLocked(abs)
	time.Sleep(debounce + 50*time.Millisecond)
	w.scheduleLocked(abs)
	w.mu.Unlock()

	time.Sleep(debounce / 2)
	assert.Equal(t, int32(0), calls.Load(), "second change must restart the debounce")

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(2 * debounce)
	assert.Equal(t, int32(1), calls.Load())
}
