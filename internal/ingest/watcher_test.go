package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStartWatcher_EmitsImportableFiles(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "existing.json", "[]")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)

	select {
	case p := <-events:
		assert.Equal(t, existing, p)
	case <-time.After(2 * time.Second):
		t.Fatal("initial scan did not emit existing file")
	}

	writeFile(t, dir, "ignored.txt", "x")
	created := writeFile(t, dir, "new.yaml", "[]")

	select {
	case p := <-events:
		assert.Equal(t, created, filepath.Clean(p))
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not emit new file")
	}

	cancel()
	for range events {
	}
}

func TestStartWatcher_RequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, zap.NewNop())
	assert.Error(t, err)
}
