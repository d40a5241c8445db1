package debug

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

// Stream is the best-effort textual debug output. Each Printf becomes one
// line on every sink. Sink failures are counted and logged, never returned.
type Stream struct {
	mu    sync.Mutex
	sinks []*sink

	logf func(format string, args ...any)
}

type sink struct {
	name     string
	w        io.Writer
	failures uint64
	failing  bool
}

func NewStream() *Stream {
	return &Stream{logf: log.Printf}
}

// Add registers a sink. name is used in failure reports.
func (s *Stream) Add(name string, w io.Writer) {
	if s == nil || w == nil {
		return
	}
	s.mu.Lock()
	s.sinks = append(s.sinks, &sink{name: name, w: w})
	s.mu.Unlock()
}

func (s *Stream) Printf(format string, args ...any) {
	if s == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	b := []byte(line)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.sinks {
		_, err := k.w.Write(b)
		if err == nil {
			k.failing = false
			continue
		}
		k.failures++
		// One report per failure streak.
		if !k.failing && s.logf != nil {
			s.logf("debug: write to %s failed: %v", k.name, err)
		}
		k.failing = true
	}
}

// Failures returns the total number of failed sink writes.
func (s *Stream) Failures() uint64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n uint64
	for _, k := range s.sinks {
		n += k.failures
	}
	return n
}

// LogWriter adapts the standard logger into a sink so debug lines share the
// process log's timestamps.
type LogWriter struct{}

func (LogWriter) Write(p []byte) (int, error) {
	log.Print(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
