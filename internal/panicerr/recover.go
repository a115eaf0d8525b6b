// Package panicerr runs functions that may abort by panicking, turning the
// abort into an error return.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f in a new goroutine, converting a Halt, a panic, or a
// runtime.Goexit into a non-nil error return.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExit(name, errch)
		defer recoverPanic(name, errch)
		errch <- f()
	}()
	return <-errch
}

// Halt aborts the function running under Recover, which returns err as is.
func Halt(err error) {
	if err == nil {
		err = errors.New("halted")
	}
	panic(halt{err})
}

type halt struct{ err error }

func recoverPanic(name string, errch chan<- error) {
	e := recover()
	if e == nil {
		return
	}
	var err error
	if h, ok := e.(halt); ok {
		err = h.err
	} else {
		err = panicError{name, e, debug.Stack()}
	}
	select {
	case errch <- err:
	default:
	}
}

// the happy path and recoverPanic both send first; this only reports when
// neither did.
func recoverExit(name string, errch chan<- error) {
	select {
	case errch <- exitError(name):
	default:
	}
}

type exitError string

func (name exitError) Error() string {
	if name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", string(name))
}

// IsExit returns true if err indicates a recovered goroutine exit.
func IsExit(err error) bool {
	var xe exitError
	return errors.As(err, &xe)
}

type panicError struct {
	name  string
	e     interface{}
	stack []byte
}

func (pe panicError) Error() string { return fmt.Sprint(pe) }

// Format adds the panic stack under %+v.
func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name == "" {
		fmt.Fprintf(f, "paniced: %v", pe.e)
	} else {
		fmt.Fprintf(f, "%v paniced: %v", pe.name, pe.e)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.e.(error)
	return err
}

// IsPanic returns true if err indicates a recovered panic.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// Stack returns the stack captured with a recovered panic, if err has one.
func Stack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
