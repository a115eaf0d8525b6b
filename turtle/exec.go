package turtle

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jcorbin/logoscad/expr"
	"github.com/jcorbin/logoscad/logo"
)

// exec runs cmds; a non-zero line overrides each command's own source line,
// as is the case for commands replayed from an instruction list.
func (t *Turtle) exec(ctx context.Context, cmds []logo.Command, line int) {
	for _, cmd := range cmds {
		if line != 0 {
			cmd.Line = line
		}
		t.step(ctx, cmd)
	}
}

func (t *Turtle) step(ctx context.Context, cmd logo.Command) {
	t.line = cmd.Line
	t.failif(ctx.Err())
	t.charge(1)
	t.logf(">", "%d: %v", cmd.Line, cmd)

	if cmd.Line > t.startLine {
		t.place(t.cursor.take(cmd.Line-1), cmd.Kind.ProducesPoint())
		t.startLine = cmd.Line
	}

	switch cmd.Kind {
	case logo.FD:
		t.forward(t.eval(cmd.Arg))
	case logo.BK:
		t.forward(-t.eval(cmd.Arg))
	case logo.LT:
		t.heading -= t.eval(cmd.Arg)
	case logo.RT:
		t.heading += t.eval(cmd.Arg)
	case logo.SETH:
		t.heading = t.eval(cmd.Arg)
	case logo.SETX:
		t.moveTo(Point{t.eval(cmd.Arg), t.pos.Y})
	case logo.SETY:
		t.moveTo(Point{t.pos.X, t.eval(cmd.Arg)})
	case logo.SETXY:
		x := t.eval(cmd.Arg)
		y := t.eval(cmd.Arg2)
		t.moveTo(Point{x, y})
	case logo.HOME:
		t.moveTo(Point{})
		t.heading = 0

	case logo.PU:
		t.penUp()
	case logo.PD:
		t.penDownAt()

	case logo.ARC:
		angle := t.eval(cmd.Arg)
		radius := t.eval(cmd.Arg2)
		t.arc(angle, radius)

	case logo.EXTSETFN:
		v := t.eval(cmd.Arg)
		fn := math.Floor(v)
		if !(fn >= 1) {
			t.fail(&ResolutionError{v})
		}
		t.fn = int(math.Min(fn, math.MaxInt32))

	case logo.MAKE:
		t.make(cmd)
	case logo.REPEAT:
		t.repeat(ctx, cmd)
	case logo.CALL:
		t.call(ctx, cmd)

	case logo.EXTCOMMENTPOS:
		t.report(positionComment(cmd.Label, "Position", t.pos))
	case logo.EXTMARKER:
		at := t.pos
		if cmd.Arg != nil && cmd.Arg2 != nil {
			at.X = t.eval(cmd.Arg)
			at.Y = t.eval(cmd.Arg2)
		}
		t.res.Markers = append(t.res.Markers, Marker{X: at.X, Y: at.Y, Label: cmd.Label})
		t.report(positionComment(cmd.Label, "Marker", at))
	case logo.PRINT:
		t.report("// " + t.printText(cmd.Args))

	default:
		t.fail(fmt.Errorf("unsupported command %v", cmd.Kind))
	}
}

// maxCharge bounds a single charge even without a step limit.
const maxCharge = math.MaxInt32

// charge counts n steps against the step limit; each arc segment is a step.
func (t *Turtle) charge(n float64) {
	if !(n >= 0 && n <= maxCharge) {
		t.fail(ErrStepLimit)
	}
	if t.stepLimit > 0 && float64(t.steps)+n > float64(t.stepLimit) {
		t.fail(ErrStepLimit)
	}
	t.steps += int(n)
}

func positionComment(label, dflt string, at Point) string {
	if label == "" {
		label = dflt
	}
	return fmt.Sprintf("// %v: x=%v, y=%v", label, FormatNum(at.X), FormatNum(at.Y))
}

func (t *Turtle) printText(args []logo.PrintArg) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		if arg.Expr == nil {
			parts[i] = arg.Text
		} else {
			parts[i] = FormatNum(t.eval(arg.Expr))
		}
	}
	return strings.Join(parts, " ")
}

func (t *Turtle) forward(dist float64) {
	rad := degToRad(t.heading)
	t.moveTo(Point{
		X: t.pos.X + math.Sin(rad)*dist,
		Y: t.pos.Y + math.Cos(rad)*dist,
	})
}

// moveTo emits a segment to pt, extending the polygon while the pen is down.
func (t *Turtle) moveTo(pt Point) {
	t.res.Segments = append(t.res.Segments, Segment{From: t.pos, To: pt, PenDown: t.penDown})
	t.pos = pt
	if t.penDown {
		t.ensurePolygon()
		t.poly.points = append(t.poly.points, pt)
	}
}

func (t *Turtle) penUp() {
	if !t.penDown {
		return
	}
	t.place(t.cursor.take(t.line), false)
	t.finalize(false, nil)
	t.startLine = t.line + 1
	t.penDown = false
}

func (t *Turtle) penDownAt() {
	if t.penDown {
		return
	}
	t.pending = append(t.pending, t.cursor.take(t.line)...)
	t.startLine = t.line + 1
	t.penDown = true
	t.poly = nil
	t.ensurePolygon()
}

// arc traces angle degrees of a circle of the given radius centered on the
// turtle, starting from its heading; the turtle itself does not move.
//
// While drawing, every arc becomes a polygon of its own holding only the
// traced vertices; a polygon already holding more than its seed point is
// finalized first.
func (t *Turtle) arc(angle, radius float64) {
	if !isFinite(angle) || !isFinite(radius) {
		t.fail(ErrNotFinite)
	}
	if radius == 0 || angle == 0 {
		return
	}
	segs := math.Max(1, math.Floor(math.Abs(angle)/360*float64(t.fn)+0.5))
	t.charge(segs)
	n := int(segs)
	t.arcGroup++
	group := t.arcGroup

	if t.penDown {
		next := &polygon{}
		if t.poly != nil && len(t.poly.points) > 1 {
			t.finalize(false, nil)
		} else if t.poly != nil {
			next.free, next.slots = t.poly.free, t.poly.slots
		}
		next.attach(freeSlot, t.takePending()...)
		t.poly = next
	}

	start := degToRad(t.heading)
	step := degToRad(angle) / float64(n)
	vertex := func(i int) Point {
		a := start + step*float64(i)
		return Point{
			X: t.pos.X + radius*math.Sin(a),
			Y: t.pos.Y + radius*math.Cos(a),
		}
	}
	prev := vertex(0)
	for i := 1; i <= n; i++ {
		pt := vertex(i)
		t.res.Segments = append(t.res.Segments, Segment{From: prev, To: pt, PenDown: t.penDown, Arc: group})
		if t.penDown {
			t.poly.points = append(t.poly.points, pt)
		}
		prev = pt
	}

	if t.penDown {
		t.poly.attach(t.poly.tailSlot(), t.cursor.take(t.line)...)
		var circle *Circle
		if math.Abs(angle) == 360 {
			circle = &Circle{Center: t.pos, Radius: radius, Fn: t.fn}
		}
		t.finalize(false, circle)
		t.startLine = t.line + 1
	}
}

func (t *Turtle) make(cmd logo.Command) {
	if cmd.List {
		t.vars[cmd.Name] = expr.List(cmd.Body)
	} else {
		t.vars[cmd.Name] = expr.Scalar(t.eval(cmd.Arg))
	}
}

func (t *Turtle) repeat(ctx context.Context, cmd logo.Command) {
	count := math.Floor(t.eval(cmd.Arg))
	if !(count > 0) {
		return
	}
	body := cmd.Body
	if cmd.Name != "" {
		body = t.list(cmd.Name)
	}
	cmds := t.parseBody(body)
	if len(cmds) == 0 {
		return
	}
	line := cmd.Line
	t.nest(func() {
		for i := 0.0; i < count; i++ {
			t.exec(ctx, cmds, line)
		}
	})
}

func (t *Turtle) call(ctx context.Context, cmd logo.Command) {
	cmds := t.parseBody(t.list(cmd.Name))
	line := cmd.Line
	t.nest(func() {
		t.exec(ctx, cmds, line)
	})
}

func (t *Turtle) list(name string) string {
	body, err := t.vars.List(name)
	t.failif(err)
	return body
}

func (t *Turtle) parseBody(body string) []logo.Command {
	res := logo.Parse(body)
	if len(res.Diagnostics) > 0 {
		t.fail(&BodyError{res.Diagnostics})
	}
	return res.Commands
}

func (t *Turtle) nest(f func()) {
	if t.depth >= t.maxDepth {
		t.fail(ErrDepthExceeded)
	}
	t.depth++
	defer func() { t.depth-- }()
	if t.logfn != nil {
		defer t.withLogPrefix("\t")()
	}
	f()
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
