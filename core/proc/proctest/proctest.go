// Package proctest holds helpers for tests that start real programs.
package proctest

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// Buffer is a bytes.Buffer safe for concurrent use. Children write to it from
// exec's copying goroutines while the test writes or reads.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Path returns a search list holding the directories of the named programs,
// preceded by a directory that doesn't exist. The test is skipped if any of
// the programs can't be found.
func Path(t *testing.T, programs ...string) string {
	t.Helper()

	dirs := []string{filepath.Join(t.TempDir(), "missing")}
	seen := make(map[string]bool)
	for _, program := range programs {
		path, err := exec.LookPath(program)
		if err != nil {
			t.Skipf("%s not available: %v", program, err)
		}
		dir := filepath.Dir(path)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return strings.Join(dirs, string(filepath.ListSeparator))
}

// Getenv returns a lookup function that only knows PATH.
func Getenv(path string) func(string) string {
	return func(key string) string {
		if key == "PATH" {
			return path
		}
		return ""
	}
}
