package logio

import (
	"bytes"
	"sync"
)

// Writer is an io.Writer that logs each completed line through Logf, so that
// multi-line text like a dump can be routed into a Logger.
type Writer struct {
	Logf func(mess string, args ...interface{})

	mu  sync.Mutex
	buf bytes.Buffer
}

// Write buffers p and logs any lines it completes.
func (lw *Writer) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf.Write(p)
	lw.flushLines(false)
	return len(p), nil
}

// Close logs any final partial line.
func (lw *Writer) Close() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.flushLines(true)
	return nil
}

func (lw *Writer) flushLines(all bool) {
	for lw.buf.Len() > 0 {
		i := bytes.IndexByte(lw.buf.Bytes(), '\n')
		switch {
		case i >= 0:
			lw.Logf("%s", lw.buf.Next(i))
			lw.buf.Next(1)
		case all:
			lw.Logf("%s", lw.buf.Next(lw.buf.Len()))
		default:
			return
		}
	}
}
