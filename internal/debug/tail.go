package debug

import (
	"strings"
	"sync"
)

// Tail keeps the most recent lines written to it. It is used as the log
// output while the terminal simulator owns the screen.
type Tail struct {
	mu      sync.Mutex
	max     int
	lines   []string
	partial string
	dropped uint64
}

func NewTail(maxLines int) *Tail {
	if maxLines <= 0 {
		maxLines = 200
	}
	return &Tail{max: maxLines}
}

// Write implements io.Writer. Bytes after the last newline are held until the
// line is completed by a later write.
func (t *Tail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	data := t.partial + string(p)
	parts := strings.Split(data, "\n")
	t.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		t.lines = append(t.lines, line)
	}
	if over := len(t.lines) - t.max; over > 0 {
		t.lines = append([]string(nil), t.lines[over:]...)
		t.dropped += uint64(over)
	}
	return len(p), nil
}

// Snapshot returns up to n of the newest complete lines, oldest first.
func (t *Tail) Snapshot(n int) (lines []string, dropped uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n <= 0 || n > len(t.lines) {
		n = len(t.lines)
	}
	return append([]string(nil), t.lines[len(t.lines)-n:]...), t.dropped
}
