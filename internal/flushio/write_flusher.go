// Package flushio provides buffered output streams that must be flushed.
package flushio

import (
	"bufio"
	"io"
	"os"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// NewWriteFlusher returns w itself if it can already flush, a no-op flusher
// around in-memory buffers and io.Discard, or else a new bufio.Writer.
func NewWriteFlusher(w io.Writer) WriteFlusher {
	if wf, is := w.(WriteFlusher); is {
		return wf
	}
	if w == io.Discard {
		return nopFlusher{w}
	}

	// in memory buffers like bytes.Buffer and strings.Builder
	type buffer interface {
		io.Writer
		Len() int
		Grow(n int)
		Reset()
	}
	if _, isBuffer := w.(buffer); isBuffer {
		return nopFlusher{w}
	}

	return bufio.NewWriter(w)
}

type nopFlusher struct{ io.Writer }

func (nf nopFlusher) Flush() error { return nil }

// File is a buffered file being written; Close flushes it first.
type File struct {
	WriteFlusher
	f *os.File
}

// Create creates or truncates the named file for buffered writing.
func Create(name string) (*File, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return &File{bufio.NewWriter(f), f}, nil
}

// Close flushes any buffered output and closes the file, returning the
// first error of the two.
func (file *File) Close() error {
	err := file.Flush()
	if cerr := file.f.Close(); err == nil {
		err = cerr
	}
	return err
}
