// Package turtle executes parsed scripts, moving a turtle over the plane and
// collecting the segments, polygons, and markers it draws.
//
// Heading 0 points toward +y and grows clockwise: RT increases the heading,
// LT decreases it.
package turtle

import (
	"context"

	"github.com/jcorbin/logoscad/expr"
	"github.com/jcorbin/logoscad/internal/panicerr"
	"github.com/jcorbin/logoscad/logo"
)

// Turtle is the interpreter state. A Turtle may be reused across runs, but
// must not run concurrently with itself.
type Turtle struct {
	logging

	defaultFn int
	maxDepth  int
	stepLimit int

	pos      Point
	heading  float64
	penDown  bool
	arcGroup int
	fn       int
	vars     expr.Env

	poly      *polygon
	pending   []logo.Comment
	cursor    commentCursor
	startLine int

	line  int
	depth int
	steps int

	res Result
}

// New creates a turtle with the given options applied over the defaults.
func New(opts ...Option) *Turtle {
	var t Turtle
	defaults.apply(&t)
	options(opts).apply(&t)
	return &t
}

// Execute runs prog on a fresh turtle.
func Execute(ctx context.Context, prog *logo.ParseResult, opts ...Option) (Result, error) {
	return New(opts...).Run(ctx, prog)
}

// Run executes the commands of prog from a fresh state, attributing prog's
// comments to the polygons drawn.
//
// A failure aborts the whole run with a *RuntimeError; the returned Result
// then holds whatever was drawn before the failing command.
func (t *Turtle) Run(ctx context.Context, prog *logo.ParseResult) (Result, error) {
	t.reset(prog.Comments)
	err := panicerr.Recover("turtle", func() error {
		t.exec(ctx, prog.Commands, 0)
		t.finish()
		return nil
	})
	return t.res, err
}

func (t *Turtle) reset(comments []logo.Comment) {
	t.pos = Point{}
	t.heading = 0
	t.penDown = true
	t.arcGroup = 0
	t.fn = t.defaultFn
	t.vars = make(expr.Env)
	t.poly = &polygon{points: []Point{{}}}
	t.pending = nil
	t.cursor = commentCursor{comments: comments}
	t.startLine = 1
	t.line = 0
	t.depth = 0
	t.steps = 0
	t.res = Result{}
}

func (t *Turtle) halt(err error) {
	func() {
		defer func() { recover() }()
		t.logf("!", "halt: %v", err)
	}()
	panicerr.Halt(err)
}

// fail aborts the run, attributing err to the current command.
func (t *Turtle) fail(err error) {
	t.halt(&RuntimeError{Line: t.line, Err: err})
}

func (t *Turtle) failif(err error) {
	if err != nil {
		t.fail(err)
	}
}

func (t *Turtle) eval(e expr.Expr) float64 {
	v, err := expr.Eval(e, t.vars)
	t.failif(err)
	return v
}

// finish flushes every comment not yet attributed and closes the last
// polygon, so that no comment is ever dropped.
func (t *Turtle) finish() {
	rest := t.cursor.rest()
	switch {
	case t.penDown && t.poly != nil:
		t.poly.attach(t.poly.looseSlot(), rest...)
		t.finalize(false, nil)
	case len(t.pending) > 0 || len(rest) > 0:
		t.poly = &polygon{points: []Point{t.pos}}
		t.poly.attach(freeSlot, t.takePending()...)
		t.poly.attach(freeSlot, rest...)
		t.finalize(true, nil)
	}
}

// ensurePolygon opens a polygon seeded at the current position if none is
// open; comments pending from before it become its free comments.
func (t *Turtle) ensurePolygon() {
	if t.poly == nil {
		t.poly = &polygon{points: []Point{t.pos}}
		t.poly.attach(freeSlot, t.takePending()...)
	} else if len(t.poly.points) == 0 {
		t.poly.points = append(t.poly.points, t.pos)
	}
}

func (t *Turtle) finalize(commentOnly bool, circle *Circle) {
	poly := t.poly
	if poly == nil {
		return
	}
	t.poly = nil
	if len(poly.points) == 0 {
		poly.points = append(poly.points, t.pos)
	}
	t.res.Polygons = append(t.res.Polygons, Polygon{
		Points:        poly.points,
		Comments:      poly.free,
		PointComments: poly.slots,
		CommentOnly:   commentOnly,
		Circle:        circle,
	})
	t.logf("#", "polygon %d points:%d comment-only:%v circle:%v",
		len(t.res.Polygons)-1, len(poly.points), commentOnly, circle != nil)
}
