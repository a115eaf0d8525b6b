// Package scad renders turtle polygons as OpenSCAD source.
package scad

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jcorbin/logoscad/logo"
	"github.com/jcorbin/logoscad/turtle"
)

// Placeholder is the whole output when there are no polygons.
const Placeholder = "// No polygons"

// Generator renders polygons; its zero value is not usable, use New.
type Generator struct {
	indent  string
	circles bool
}

// New creates a generator with the given options applied over the defaults.
func New(opts ...Option) *Generator {
	var g Generator
	defaults.apply(&g)
	options(opts).apply(&g)
	return &g
}

// Generate renders polys with a generator built from opts.
func Generate(polys []turtle.Polygon, opts ...Option) string {
	return New(opts...).Generate(polys)
}

// Generate renders polys, one block per polygon, blocks separated by a blank
// line.
func (g *Generator) Generate(polys []turtle.Polygon) string {
	var sb strings.Builder
	g.Fprint(&sb, polys)
	return sb.String()
}

// Fprint writes the rendering of polys to w.
func (g *Generator) Fprint(w io.Writer, polys []turtle.Polygon) error {
	if len(polys) == 0 {
		_, err := io.WriteString(w, Placeholder)
		return err
	}
	blocks := make([]string, 0, len(polys))
	for _, poly := range polys {
		var buf lineBuffer
		g.polygon(&buf, poly)
		if buf.Len() > 0 {
			blocks = append(blocks, buf.String())
		}
	}
	_, err := io.WriteString(w, strings.Join(blocks, "\n\n"))
	return err
}

func (g *Generator) polygon(buf *lineBuffer, poly turtle.Polygon) {
	buf.comments(poly.Comments)
	if poly.CommentOnly {
		return
	}

	if c := poly.Circle; c != nil && g.circles {
		for _, i := range slotKeys(poly.PointComments, 0) {
			buf.comments(poly.PointComments[i])
		}
		buf.line("translate([%v, %v])", turtle.FormatNum(c.Center.X), turtle.FormatNum(c.Center.Y))
		buf.line("%vcircle(r=%v, $fn=%d);", g.indent, turtle.FormatNum(c.Radius), c.Fn)
		return
	}

	pts := closeRing(poly.Points)
	buf.line("polygon(points=[")
	for i, pt := range pts {
		buf.comments(poly.PointComments[i])
		comma := ","
		if i == len(pts)-1 {
			comma = ""
		}
		buf.line("%v[%v, %v]%v", g.indent, turtle.FormatNum(pt.X), turtle.FormatNum(pt.Y), comma)
	}
	for _, i := range slotKeys(poly.PointComments, len(pts)) {
		buf.comments(poly.PointComments[i])
	}
	buf.line("]);")
}

// closeRing returns pts with a copy of its first point appended unless the
// last point already equals it exactly.
func closeRing(pts []turtle.Point) []turtle.Point {
	if len(pts) == 0 {
		return []turtle.Point{{}}
	}
	if pts[0] == pts[len(pts)-1] {
		return pts
	}
	ring := make([]turtle.Point, len(pts), len(pts)+1)
	copy(ring, pts)
	return append(ring, pts[0])
}

// slotKeys returns the sorted comment slot indices at or above from.
func slotKeys(slots map[int][]logo.Comment, from int) []int {
	var keys []int
	for i := range slots {
		if i >= from {
			keys = append(keys, i)
		}
	}
	sort.Ints(keys)
	return keys
}

// lineBuffer accumulates output lines, joined by newlines.
type lineBuffer struct {
	strings.Builder
}

func (buf *lineBuffer) line(format string, args ...interface{}) {
	if buf.Len() > 0 {
		buf.WriteByte('\n')
	}
	if len(args) > 0 {
		fmt.Fprintf(buf, format, args...)
	} else {
		buf.WriteString(format)
	}
}

func (buf *lineBuffer) comments(cs []logo.Comment) {
	for _, c := range cs {
		buf.line("%s", c.Text)
	}
}
