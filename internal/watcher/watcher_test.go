package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockWatcher(t *testing.T) (*FileWatcher, *clock.Mock, chan []string) {
	t.Helper()
	mock := clock.NewMock()
	changes := make(chan []string, 4)
	w := NewWatcherWithConfig(Config{DebounceDelay: time.Second, Clock: mock}, func(paths []string) {
		changes <- paths
	})
	t.Cleanup(w.Stop)
	return w, mock, changes
}

func receive(t *testing.T, changes chan []string) []string {
	t.Helper()
	select {
	case paths := <-changes:
		return paths
	case <-time.After(time.Second):
		t.Fatal("no change reported")
		return nil
	}
}

func TestFileWatcher_Debounces(t *testing.T) {
	w, mock, changes := newMockWatcher(t)

	w.FileChanged("b.md")
	mock.Add(500 * time.Millisecond)
	w.FileChanged("a.md")
	w.FileChanged("b.md")
	assert.Equal(t, 2, w.Pending())

	// The second change restarted the quiet period
	mock.Add(500 * time.Millisecond)
	assert.Empty(t, changes)

	mock.Add(500 * time.Millisecond)
	assert.Equal(t, []string{"a.md", "b.md"}, receive(t, changes))
	assert.Equal(t, 0, w.Pending())
}

func TestFileWatcher_FilesChanged(t *testing.T) {
	w, mock, changes := newMockWatcher(t)

	w.FilesChanged(nil)
	assert.Equal(t, 0, w.Pending())

	w.FilesChanged([]string{"x.md", "y.md"})
	mock.Add(time.Second)
	assert.Equal(t, []string{"x.md", "y.md"}, receive(t, changes))
}

func TestFileWatcher_Stop(t *testing.T) {
	w, mock, changes := newMockWatcher(t)

	w.FileChanged("a.md")
	w.Stop()
	mock.Add(2 * time.Second)

	w.FileChanged("a.md")
	assert.Equal(t, 0, w.Pending())

	select {
	case paths := <-changes:
		t.Fatalf("unexpected change %v", paths)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNewWatcher_DefaultDelay(t *testing.T) {
	w := NewWatcher(0, nil)
	defer w.Stop()
	assert.Equal(t, DefaultDebounce, w.debounceDelay)
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	other := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(path, []byte("## One\n"), 0o644))

	changes := make(chan []string, 16)
	w := NewWatcher(20*time.Millisecond, func(paths []string) {
		changes <- paths
	})
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, w, zerolog.Nop())
	}()

	// Keep writing until the watch is in place
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	var got []string
	require.Eventually(t, func() bool {
		_ = os.WriteFile(other, []byte("noise"), 0o644)
		_ = os.WriteFile(path, []byte("## One\n## Two\n"), 0o644)
		select {
		case got = <-changes:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, []string{abs}, got)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WatchFile did not return after cancel")
	}
}

func TestWatchFile_MissingDirectory(t *testing.T) {
	w := NewWatcher(time.Millisecond, nil)
	defer w.Stop()

	err := WatchFile(context.Background(), filepath.Join(t.TempDir(), "nope", "doc.md"), w, zerolog.Nop())
	assert.Error(t, err)
}
