package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresAfterChange(t *testing.T) {
	dir := t.TempDir()

	changed := make(chan struct{}, 1)
	w, err := New(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}, dir)
	require.NoError(t, err)
	w.WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watch loop a moment to start before generating events.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.rst"), []byte("Intro\n=====\n\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected change callback after file write")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()

	calls := make(chan struct{}, 16)
	w, err := New(func() { calls <- struct{}{} }, dir)
	require.NoError(t, err)
	w.WithDebounce(200 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rst"), []byte("x\n\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a callback")
	}

	// The burst collapses into one callback; no second one arrives.
	select {
	case <-calls:
		t.Fatal("burst of writes should debounce into a single callback")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(func() {}, filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
