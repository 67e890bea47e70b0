package source

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type changeLog struct {
	mu    sync.Mutex
	paths []string
}

func (c *changeLog) add(p string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, p)
}

func (c *changeLog) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func startWatcher(t *testing.T, paths []string, debounce time.Duration, fn func(string)) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := NewWatcher(paths, debounce, fn, zaptest.NewLogger(t))
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	// let the watcher register its directories
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_NotifiesWatchedFileOnly(t *testing.T) {
	dir := t.TempDir()
	watched := writeFile(t, dir, "weights.json", weightsJSON)
	other := writeFile(t, dir, "other.json", "{}")

	var got changeLog
	startWatcher(t, []string{watched}, 0, got.add)

	require.NoError(t, os.WriteFile(other, []byte("{1}"), 0644))
	require.NoError(t, os.WriteFile(watched, []byte(`{"weights": {"1": 1}}`), 0644))

	require.Eventually(t, func() bool { return len(got.snapshot()) > 0 }, 3*time.Second, 20*time.Millisecond)
	for _, p := range got.snapshot() {
		assert.Equal(t, watched, p)
	}
}

func TestWatcher_DebounceCollapsesBursts(t *testing.T) {
	dir := t.TempDir()
	watched := writeFile(t, dir, "characters.json", catalogJSON)

	var got changeLog
	startWatcher(t, []string{watched}, 300*time.Millisecond, got.add)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(watched, []byte(catalogJSON), 0644))
	}
	require.Eventually(t, func() bool { return len(got.snapshot()) == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Len(t, got.snapshot(), 1)
}

func TestWatcher_RenameIntoPlace(t *testing.T) {
	dir := t.TempDir()
	watched := writeFile(t, dir, "weights.json", weightsJSON)

	var got changeLog
	startWatcher(t, []string{watched}, 0, got.add)

	tmp := filepath.Join(dir, "weights.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"weights": {"2": 1}}`), 0644))
	require.NoError(t, os.Rename(tmp, watched))

	require.Eventually(t, func() bool { return len(got.snapshot()) > 0 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_NoCallbackAfterRunReturns(t *testing.T) {
	dir := t.TempDir()
	watched := writeFile(t, dir, "weights.json", weightsJSON)

	var got changeLog
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := NewWatcher([]string{watched}, 200*time.Millisecond, got.add, zaptest.NewLogger(t))
	go func() { done <- w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(watched, []byte(`{"weights": {"3": 1}}`), 0644))
	// let the event arm the debounce timer, then stop before it fires
	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	time.Sleep(400 * time.Millisecond)
	assert.Empty(t, got.snapshot())
}
