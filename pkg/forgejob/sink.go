package forgejob

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// LogSink receives every streamed log line for durable retention,
// independent of report extraction.
type LogSink interface {
	// WriteLine appends one line followed by a newline.
	WriteLine(line string) error

	// Close flushes buffered output and releases resources.
	Close() error

	// Path identifies where the sink stores lines ("" if in-memory).
	Path() string
}

// FileSink is the production sink: lines appended to a local file
// through a buffered writer.
type FileSink struct {
	path string
	f    *os.File
	w    *bufio.Writer
	mu   sync.Mutex

	closed bool
}

// NewFileSink creates (truncating) the sink file at path.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log sink %s: %w", path, err)
	}
	return &FileSink{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

func (s *FileSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("log sink %s is closed", s.path)
	}
	return writeAll(s.w, append([]byte(line), '\n'))
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.w.Flush(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}

func (s *FileSink) Path() string { return s.path }

// BufferSink keeps lines in memory. Used by tests and dry runs.
type BufferSink struct {
	mu    sync.Mutex
	lines []string
}

func NewBufferSink() *BufferSink { return &BufferSink{} }

func (s *BufferSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return nil
}

func (s *BufferSink) Close() error { return nil }

func (s *BufferSink) Path() string { return "" }

// Lines returns a copy of everything written so far.
func (s *BufferSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// String joins the captured lines with newlines.
func (s *BufferSink) String() string {
	return strings.Join(s.Lines(), "\n")
}

// writeAll writes all bytes to w, handling short writes. io.Writer is
// allowed to return n < len(p) with nil error, which would silently
// truncate log lines.
func writeAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}

var (
	_ LogSink = (*FileSink)(nil)
	_ LogSink = (*BufferSink)(nil)
)
