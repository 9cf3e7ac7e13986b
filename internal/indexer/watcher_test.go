package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_TriggersRebuild(t *testing.T) {
	tmpDir := t.TempDir()
	createTestFile(t, tmpDir, "a.stan", utilSource)

	fd, err := NewFileDiscovery(tmpDir, nil, DefaultIgnore)
	require.NoError(t, err)

	rebuilt := make(chan []string, 4)
	w, err := NewWatcher(tmpDir, fd, func(ctx context.Context, changed []string) {
		rebuilt <- changed
	})
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	// Wait a bit for watcher to initialize
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.stan"), []byte(mathSource), 0644))

	select {
	case changed := <-rebuilt:
		assert.Equal(t, []string{"a.stan"}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild was not triggered")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	fd, err := NewFileDiscovery(tmpDir, nil, nil)
	require.NoError(t, err)

	w, err := NewWatcher(tmpDir, fd, func(context.Context, []string) {})
	require.NoError(t, err)

	w.Start(context.Background())
	w.Stop()
	w.Stop()
}
