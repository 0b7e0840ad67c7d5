package dictionary

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.txt")
	writeFile(t, path, "سنڌ|Sindh\n")

	s := NewStore(path)
	require.NoError(t, s.Load())

	w := NewWatcher(s, 20*time.Millisecond, nil)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, path, "سنڌ|Sindh\nڀٽائي|Bhittai\n")

	require.Eventually(t, func() bool {
		_, ok := s.Lookup("ڀٽائي")
		return ok
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_ReloadsOnAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dict.txt")
	writeFile(t, path, "سنڌ|Sindh\n")

	s := NewStore(path)
	require.NoError(t, s.Load())

	reloaded := make(chan Stats, 16)
	w := NewWatcher(s, 20*time.Millisecond, nil)
	w.OnReload = func(st Stats, err error) {
		if err == nil {
			reloaded <- st
		}
	}
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	tmp := filepath.Join(dir, "next.tmp")
	writeFile(t, tmp, "سنڌ|Sindhu\n")
	require.NoError(t, os.Rename(tmp, path))

	select {
	case st := <-reloaded:
		assert.Equal(t, 1, st.Entries)
	case <-time.After(5 * time.Second):
		t.Fatal("dictionary was not reloaded")
	}
	got, _ := s.Lookup("سنڌ")
	assert.Equal(t, "Sindhu", got)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dict.txt")
	writeFile(t, path, "سنڌ|Sindh\n")

	s := NewStore(path)
	require.NoError(t, s.Load())

	w := NewWatcher(s, 10*time.Millisecond, nil)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "other.txt"), "x|y\n")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, s.Stats().Reloads)
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.txt")
	writeFile(t, path, "سنڌ|Sindh\n")

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(NewStore(path), 0, nil)
	require.NoError(t, w.Start(ctx))

	cancel()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	// Stop after the loop has exited must not block or panic.
	w.Stop()
	w.Stop()
}

func TestWatcher_StartErrors(t *testing.T) {
	w := NewWatcher(NewStore(""), 0, nil)
	assert.ErrorIs(t, w.Start(context.Background()), ErrNoPath)
	w.Stop()

	w = NewWatcher(NewStore(filepath.Join(t.TempDir(), "missing", "dict.txt")), 0, nil)
	assert.Error(t, w.Start(context.Background()))
}
