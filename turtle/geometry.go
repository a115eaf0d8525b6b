package turtle

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jcorbin/logoscad/logo"
)

// Point is a position in the drawing plane.
type Point struct{ X, Y float64 }

func (pt Point) String() string {
	return fmt.Sprintf("(%v, %v)", FormatNum(pt.X), FormatNum(pt.Y))
}

// Segment is one straight move of the turtle. Arc is zero for plain moves;
// every segment traced by the same ARC command shares one positive Arc id.
type Segment struct {
	From, To Point
	PenDown  bool
	Arc      int
}

// Circle records the full-circle arc a polygon was traced from.
type Circle struct {
	Center Point
	Radius float64
	Fn     int
}

// Polygon is a finalized drawn outline.
//
// Comments precede the whole polygon. PointComments are keyed by point
// index and precede that point; keys at or beyond len(Points) follow the
// last point. A CommentOnly polygon carries no geometry worth emitting.
type Polygon struct {
	Points        []Point
	Comments      []logo.Comment
	PointComments map[int][]logo.Comment
	CommentOnly   bool
	Circle        *Circle
}

// Marker is a preview-only annotation.
type Marker struct {
	X, Y  float64
	Label string
}

// Result holds everything a run produced.
type Result struct {
	Segments []Segment
	Polygons []Polygon
	Markers  []Marker
}

// FormatNum formats n with at most 6 decimal places, trailing zeros trimmed.
func FormatNum(n float64) string {
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'f', 6, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
