// Package utils holds small helpers shared by the binary.
package utils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter buffers writes until Flush is called. It holds log output
// while the TUI owns the terminal.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Write(p)
}

// Flush writes everything buffered so far to w, one line per Write call so
// line oriented writers such as zerolog.ConsoleWriter see whole events, and
// resets the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.buf.Reset()

	for line := range bytes.Lines(d.buf.Bytes()) {
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
