package registry_test

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/macropower/strata/pkg/registry"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "instructionset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o600))

	var reloads atomic.Int64

	w, err := registry.NewWatcher(func() error {
		reloads.Add(1)

		return nil
	}, path)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, w.Close())
	})

	go w.Watch(t.Context())

	// Give the watch loop a moment to start before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("b\n"), 0o600))

	require.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "instructionset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o600))

	var reloads atomic.Int64

	w, err := registry.NewWatcher(func() error {
		reloads.Add(1)

		return nil
	}, path)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, w.Close())
	})

	go w.Watch(t.Context())

	time.Sleep(50 * time.Millisecond)

	// A burst of writes inside the debounce window coalesces into one reload.
	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i), '\n'}, 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 5*time.Second, 20*time.Millisecond)

	// Wait past the debounce window; the burst must not produce extra reloads.
	time.Sleep(500 * time.Millisecond)
	require.LessOrEqual(t, reloads.Load(), int64(2))
}

func TestWatcherReloadsOnceAfterSettling(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "instructionset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0o600))

	var reloads atomic.Int64

	w, err := registry.NewWatcher(func() error {
		reloads.Add(1)

		return nil
	}, path)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, w.Close())
	})

	go w.Watch(t.Context())

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("b\n"), 0o600))

	require.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 5*time.Second, 20*time.Millisecond)

	// Let the first write's debounce fully settle before counting.
	time.Sleep(500 * time.Millisecond)

	// A change after the previous debounce settled restarts the window
	// cleanly; exactly one additional reload, never a stale duplicate.
	first := reloads.Load()

	require.NoError(t, os.WriteFile(path, []byte("c\n"), 0o600))

	require.Eventually(t, func() bool {
		return reloads.Load() >= first+1
	}, 5*time.Second, 20*time.Millisecond)

	time.Sleep(500 * time.Millisecond)
	require.Equal(t, first+1, reloads.Load())
}

func TestWatcherMissingPath(t *testing.T) {
	t.Parallel()

	_, err := registry.NewWatcher(func() error { return nil },
		filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
