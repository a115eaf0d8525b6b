package turtle

import "github.com/jcorbin/logoscad/logo"

// commentCursor walks the line-sorted source comments; each is taken once.
type commentCursor struct {
	comments []logo.Comment
	next     int
}

// take returns every unconsumed comment starting on or before line.
func (cc *commentCursor) take(line int) []logo.Comment {
	i := cc.next
	for cc.next < len(cc.comments) && cc.comments[cc.next].Line <= line {
		cc.next++
	}
	return cc.comments[i:cc.next]
}

func (cc *commentCursor) rest() []logo.Comment {
	i := cc.next
	cc.next = len(cc.comments)
	return cc.comments[i:]
}

// polygon is the outline being drawn.
type polygon struct {
	points []Point
	free   []logo.Comment
	slots  map[int][]logo.Comment
}

const freeSlot = -1

func (poly *polygon) attach(at int, cs ...logo.Comment) {
	if len(cs) == 0 {
		return
	}
	if at == freeSlot {
		poly.free = append(poly.free, cs...)
		return
	}
	if poly.slots == nil {
		poly.slots = make(map[int][]logo.Comment)
	}
	poly.slots[at] = append(poly.slots[at], cs...)
}

// nextSlot is where a comment preceding the next point goes: before the seed
// when it is the only point, otherwise after the last point.
func (poly *polygon) nextSlot() int {
	if len(poly.points) == 1 {
		return 0
	}
	return len(poly.points)
}

// looseSlot is where a comment not tied to a point goes: the free list while
// nothing has been drawn or slotted yet, so output stays in source order.
func (poly *polygon) looseSlot() int {
	if len(poly.points) <= 1 && len(poly.slots) == 0 {
		return freeSlot
	}
	return len(poly.points)
}

// tailSlot is where comments trailing a finished outline go.
func (poly *polygon) tailSlot() int {
	if len(poly.slots) == 0 {
		return freeSlot
	}
	return len(poly.points)
}

// place attributes source comments read before a command runs.
func (t *Turtle) place(cs []logo.Comment, producesPoint bool) {
	if len(cs) == 0 {
		return
	}
	if t.poly == nil {
		t.pending = append(t.pending, cs...)
		return
	}
	if producesPoint {
		t.poly.attach(t.poly.nextSlot(), cs...)
	} else {
		t.poly.attach(t.poly.looseSlot(), cs...)
	}
}

// report places a generated comment at the turtle's current position: before
// the next point while drawing, otherwise as its own comment-only polygon.
func (t *Turtle) report(text string) {
	c := logo.Comment{Text: text, Line: t.line, EndLine: t.line}
	if t.penDown {
		t.ensurePolygon()
		t.poly.attach(t.poly.nextSlot(), c)
		return
	}
	t.poly = &polygon{points: []Point{t.pos}}
	t.poly.attach(freeSlot, t.takePending()...)
	t.poly.attach(freeSlot, c)
	t.finalize(true, nil)
}

func (t *Turtle) takePending() []logo.Comment {
	cs := t.pending
	t.pending = nil
	return cs
}
