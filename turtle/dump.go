package turtle

import (
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Dump writes a stable, line-oriented listing of res for debugging.
func Dump(w io.Writer, res Result) error {
	dump := dumper{out: w}
	dump.segments(res.Segments)
	dump.polygons(res.Polygons)
	dump.markers(res.Markers)
	return dump.err
}

type dumper struct {
	out io.Writer
	err error
}

func (dump *dumper) printf(format string, args ...interface{}) {
	if dump.err == nil {
		_, dump.err = fmt.Fprintf(dump.out, format, args...)
	}
}

func indexWidth(n int) int { return len(strconv.Itoa(n)) }

func (dump *dumper) segments(segs []Segment) {
	dump.printf("# Segments\n")
	w := indexWidth(len(segs))
	for i, seg := range segs {
		pen := "up"
		if seg.PenDown {
			pen = "down"
		}
		dump.printf("  @%*d %v -> %v %v", w, i, seg.From, seg.To, pen)
		if seg.Arc != 0 {
			dump.printf(" arc:%d", seg.Arc)
		}
		dump.printf("\n")
	}
}

func (dump *dumper) polygons(polys []Polygon) {
	dump.printf("# Polygons\n")
	for i, poly := range polys {
		dump.printf("  #%d", i)
		if poly.CommentOnly {
			dump.printf(" comment-only")
		}
		if c := poly.Circle; c != nil {
			dump.printf(" circle center:%v r:%v fn:%d", c.Center, FormatNum(c.Radius), c.Fn)
		}
		dump.printf("\n")
		for _, c := range poly.Comments {
			dump.printf("    %q\n", c.Text)
		}
		if poly.CommentOnly {
			continue
		}

		w := indexWidth(len(poly.Points))
		for j, pt := range poly.Points {
			for _, c := range poly.PointComments[j] {
				dump.printf("    %*s %q\n", w+1, "", c.Text)
			}
			dump.printf("    @%*d %v\n", w, j, pt)
		}
		var tail []int
		for j := range poly.PointComments {
			if j >= len(poly.Points) {
				tail = append(tail, j)
			}
		}
		sort.Ints(tail)
		for _, j := range tail {
			for _, c := range poly.PointComments[j] {
				dump.printf("    %*s %q\n", w+1, "", c.Text)
			}
		}
	}
}

func (dump *dumper) markers(markers []Marker) {
	dump.printf("# Markers\n")
	for _, m := range markers {
		dump.printf("  %v", Point{m.X, m.Y})
		if m.Label != "" {
			dump.printf(" %q", m.Label)
		}
		dump.printf("\n")
	}
}
