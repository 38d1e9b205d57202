package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/bfhl/internal/bfhl/client"
	"github.com/yildizm/bfhl/internal/filter"
	"github.com/yildizm/bfhl/internal/formatter"
	"github.com/yildizm/bfhl/internal/logger"
)

// syncBuffer is a bytes.Buffer safe for a writer and a polling reader
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestPayloadWatcher(t *testing.T, path, endpoint string) (*payloadWatcher, *syncBuffer, *syncBuffer) {
	t.Helper()
	logger.SetOutput(io.Discard)
	t.Cleanup(func() { logger.SetOutput(nil) })

	widget, err := newWidget(&client.Config{Endpoint: endpoint})
	require.NoError(t, err)
	widget.SetFilters(filter.Numbers)

	var out, errOut syncBuffer
	return &payloadWatcher{
		path:      filepath.Clean(path),
		widget:    widget,
		formatter: formatter.NewJSON(),
		out:       &out,
		errOut:    &errOut,
		debounce:  10 * time.Millisecond,
	}, &out, &errOut
}

func TestPayloadWatcherRelevant(t *testing.T) {
	w := &payloadWatcher{path: "/tmp/data/payload.json"}

	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/tmp/data/payload.json", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/tmp/data/payload.json", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/tmp/data/./payload.json", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/tmp/data/payload.json", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/tmp/data/payload.json", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "/tmp/data/other.json", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestPayloadWatcherSubmit(t *testing.T) {
	srv := newEchoServer(t)
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data":["7","x"]}`), 0o600))

	w, out, errOut := newTestPayloadWatcher(t, path, srv.URL)
	w.submit(context.Background())

	assert.Contains(t, out.String(), `"filtered": "7"`)
	assert.Empty(t, errOut.String())

	require.NoError(t, os.WriteFile(path, []byte(`{"data":"x"}`), 0o600))
	w.submit(context.Background())
	assert.Contains(t, errOut.String(), "Invalid JSON format")
}

func TestPayloadWatcherResubmitsOnChange(t *testing.T) {
	srv := newEchoServer(t)
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data":["1"]}`), 0o600))

	watcher, err := createWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Close() })

	w, out, _ := newTestPayloadWatcher(t, path, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, watcher) }()

	require.NoError(t, os.WriteFile(path, []byte(`{"data":["42","z"]}`), 0o600))

	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte(`"filtered": "42"`))
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop after cancel")
	}
}

func TestRunWatchRejectsMissingFile(t *testing.T) {
	cfg := writeConfig(t, "http://localhost/bfhl", "")
	_, _, err := executeCommand(t, "", "--config", cfg, "watch", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file path")
}

func TestWatchRequiresFileArgument(t *testing.T) {
	cmd := newWatchCommand()
	assert.Equal(t, "watch <file>", cmd.Use)

	_, _, err := executeCommand(t, "", "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 0")
}
