package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Lines queued on the async file writer must reach the rotated log file
// on disk once Stop has drained the queue.
func TestAsyncFileWriterFlushesToDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subspace-node.log")

	w := NewAsyncFileWriter(path, 100)
	w.Start()
	w.Write([]byte("msg=\"opened piece cache\" capacity=16\n"))
	w.Write([]byte("msg=\"imported header\" number=1\n"))
	w.Stop()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}

	var found bool
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "subspace-node") {
			continue
		}
		found = true
		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		if !strings.Contains(string(content), "opened piece cache") {
			t.Errorf("expected flushed content to contain first write, got %q", content)
		}
		if !strings.Contains(string(content), "imported header") {
			t.Errorf("expected flushed content to contain second write, got %q", content)
		}
	}
	if !found {
		t.Fatalf("expected a rotated log file under %s", dir)
	}
}
