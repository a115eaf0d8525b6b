// Package compile runs the whole pipeline: script text is parsed, executed,
// and rendered as OpenSCAD source.
package compile

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/jcorbin/logoscad/logo"
	"github.com/jcorbin/logoscad/scad"
	"github.com/jcorbin/logoscad/turtle"
)

// Options are the host settings of a compilation.
type Options struct {
	// ArcResolution is the FN a run starts with.
	ArcResolution int

	// IndentSpaces is the indentation of point and circle lines.
	IndentSpaces int

	// PreferCircles renders full circles as circle primitives.
	PreferCircles bool

	// Logf, when set, traces execution.
	Logf func(mess string, args ...interface{})

	// Turtle are extra interpreter options, applied last.
	Turtle []turtle.Option
}

// DefaultOptions are the settings used by a host that has none stored.
var DefaultOptions = Options{
	ArcResolution: 40,
	IndentSpaces:  2,
	PreferCircles: true,
}

func (opts Options) turtleOptions() []turtle.Option {
	topts := []turtle.Option{turtle.WithArcResolution(opts.ArcResolution)}
	if opts.Logf != nil {
		topts = append(topts, turtle.WithLogf(opts.Logf))
	}
	return append(topts, opts.Turtle...)
}

func (opts Options) scadOptions() []scad.Option {
	return []scad.Option{
		scad.WithIndent(opts.IndentSpaces),
		scad.WithCirclePrimitives(opts.PreferCircles),
	}
}

// Output is everything a compilation produced.
type Output struct {
	Parse  *logo.ParseResult
	Result turtle.Result
	Text   string

	// Diagnostics are the parse diagnostics, followed by one Runtime
	// diagnostic when execution failed.
	Diagnostics []logo.Diagnostic

	// Err is the runtime error, if any.
	Err error
}

// OK reports whether the script compiled without any diagnostic.
func (out Output) OK() bool { return len(out.Diagnostics) == 0 }

// Script compiles src. Statements with parse diagnostics are skipped; the
// rest still run. A runtime error stops execution, and Text then renders
// whatever was drawn before it.
func Script(ctx context.Context, src string, opts Options) Output {
	var out Output
	out.Parse = logo.Parse(src)
	out.Diagnostics = append(out.Diagnostics, out.Parse.Diagnostics...)
	out.Result, out.Err = turtle.Execute(ctx, out.Parse, opts.turtleOptions()...)
	if out.Err != nil {
		out.Diagnostics = append(out.Diagnostics, RuntimeDiagnostic(src, out.Err))
	}
	out.Text = scad.Generate(out.Result.Polygons, opts.scadOptions()...)
	return out
}

// RuntimeDiagnostic converts an execution error into a diagnostic spanning
// the whole source line it occurred on.
func RuntimeDiagnostic(src string, err error) logo.Diagnostic {
	line, mess := 1, err.Error()
	var rerr *turtle.RuntimeError
	if errors.As(err, &rerr) {
		mess = rerr.Err.Error()
		if rerr.Line > 0 {
			line = rerr.Line
		}
	}
	return logo.Diagnostic{
		Message: mess,
		Range: logo.Range{
			StartLine: line,
			StartCol:  1,
			EndLine:   line,
			EndCol:    utf8.RuneCountInString(sourceLine(src, line)) + 1,
		},
		Runtime: true,
	}
}

func sourceLine(src string, line int) string {
	for n := 1; ; n++ {
		i := strings.IndexByte(src, '\n')
		if n == line {
			if i >= 0 {
				src = src[:i]
			}
			return strings.TrimSuffix(src, "\r")
		}
		if i < 0 {
			return ""
		}
		src = src[i+1:]
	}
}
