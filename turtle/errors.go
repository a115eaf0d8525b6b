package turtle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jcorbin/logoscad/logo"
)

var (
	// ErrDepthExceeded is the cause when REPEAT and instruction list calls
	// nest deeper than the configured maximum.
	ErrDepthExceeded = errors.New("instruction lists nested too deeply")

	// ErrStepLimit is the cause when a run executes more commands than the
	// configured step limit.
	ErrStepLimit = errors.New("step limit exceeded")

	// ErrNotFinite is the cause when ARC is given a NaN or infinite value.
	ErrNotFinite = errors.New("ARC angle and radius must be finite")
)

// RuntimeError is the error returned when a run aborts; Line is the source
// line of the failing command.
type RuntimeError struct {
	Line int
	Err  error
}

func (err *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %v", err.Line, err.Err)
}

func (err *RuntimeError) Unwrap() error { return err.Err }

// BodyError is the cause when a REPEAT or instruction list body has parse
// diagnostics.
type BodyError struct {
	Diagnostics []logo.Diagnostic
}

func (err *BodyError) Error() string {
	msgs := make([]string, len(err.Diagnostics))
	for i, d := range err.Diagnostics {
		msgs[i] = d.Message
	}
	return "invalid instruction list: " + strings.Join(msgs, "; ")
}

// ResolutionError is the cause when EXTSETFN is given a value below 1.
type ResolutionError struct {
	Value float64
}

func (err *ResolutionError) Error() string {
	return fmt.Sprintf("EXTSETFN value must be at least 1, got %v", FormatNum(err.Value))
}
