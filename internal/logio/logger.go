// Package logio provides the leveled line logger used by the command.
package logio

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Logger writes "LEVEL: message" lines to an output stream. It is safe to use
// from several goroutines; each line is written whole.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	buf      bytes.Buffer
	exitCode int
}

// New creates a logger writing to out.
func New(out io.Writer) *Logger {
	return &Logger{out: out}
}

// ExitCode returns a code to pass to os.Exit: 1 after any Errorf, 2 after the
// output stream itself failed.
func (log *Logger) ExitCode() int {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.exitCode
}

// Leveledf returns a printf-style function logging at the given level.
func (log *Logger) Leveledf(level string) func(mess string, args ...interface{}) {
	return func(mess string, args ...interface{}) { log.Printf(level, mess, args...) }
}

// ErrorIf logs any non-nil error through Errorf.
func (log *Logger) ErrorIf(err error) {
	if err != nil {
		log.Errorf("%v", err)
	}
}

// Errorf is like Printf("ERROR", ...) but also makes ExitCode non-zero.
func (log *Logger) Errorf(mess string, args ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.exitCode == 0 {
		log.exitCode = 1
	}
	log.print("ERROR", mess, args...)
}

// Printf logs one line at level; an empty level omits the prefix.
func (log *Logger) Printf(level, mess string, args ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.print(level, mess, args...)
}

func (log *Logger) print(level, mess string, args ...interface{}) {
	if err := log.printf(level, mess, args...); err != nil {
		log.exitCode = 2
	}
}

func (log *Logger) printf(level, mess string, args ...interface{}) error {
	log.buf.Reset()
	if level != "" {
		log.buf.WriteString(level)
		log.buf.WriteString(": ")
	}
	if len(args) > 0 {
		fmt.Fprintf(&log.buf, mess, args...)
	} else {
		log.buf.WriteString(mess)
	}
	if b := log.buf.Bytes(); len(b) == 0 || b[len(b)-1] != '\n' {
		log.buf.WriteByte('\n')
	}
	_, err := log.buf.WriteTo(log.out)
	return err
}
