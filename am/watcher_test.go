package am

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputWatcher_FiresForTrackedFiles(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.xml")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, model, "<M/>")

	w, err := NewInputWatcher([]string{model}, 20*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	changes := make(chan []string, 10)
	w.OnChange(func(changed []string) error {
		changes <- changed
		return nil
	})
	w.Start()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(model, []byte("<M><Class/></M>"), 0o644))

	select {
	case changed := <-changes:
		assert.Equal(t, []string{model}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestInputWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	writeFile(t, a, "{}")
	writeFile(t, b, "{}")

	w, err := NewInputWatcher([]string{a, b}, 200*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	changes := make(chan []string, 10)
	w.OnChange(func(changed []string) error {
		changes <- changed
		return nil
	})
	w.Start()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(a, []byte(`{"n":1}`), 0o644))
		require.NoError(t, os.WriteFile(b, []byte(`{"n":2}`), 0o644))
	}

	select {
	case changed := <-changes:
		assert.Equal(t, []string{a, b}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case extra := <-changes:
		t.Fatalf("unexpected second callback: %v", extra)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestInputWatcher_FailingCallbackDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.json")
	writeFile(t, path, "{}")

	w, err := NewInputWatcher([]string{path}, 10*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	called := make(chan struct{}, 1)
	w.OnChange(func([]string) error { return assert.AnError })
	w.OnChange(func([]string) error {
		called <- struct{}{}
		return nil
	})
	w.Start()

	require.NoError(t, os.WriteFile(path, []byte(`{"x":1}`), 0o644))

	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("second callback not called")
	}
}

func TestInputWatcher_Errors(t *testing.T) {
	_, err := NewInputWatcher(nil, time.Millisecond, nil)
	assert.Error(t, err)

	_, err = NewInputWatcher([]string{filepath.Join(t.TempDir(), "missing", "x.xml")}, time.Millisecond, nil)
	assert.Error(t, err)
}

func TestInputWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.xml")
	writeFile(t, path, "<M/>")

	w, err := NewInputWatcher([]string{path}, time.Millisecond, nil)
	require.NoError(t, err)
	w.Start()

	assert.Equal(t, []string{path}, w.Files())
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
