package turtle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/logoscad/expr"
	"github.com/jcorbin/logoscad/internal/panicerr"
	"github.com/jcorbin/logoscad/logo"
)

type scriptTestCases []scriptTestCase

func (sts scriptTestCases) run(t *testing.T) {
	for _, st := range sts {
		if !t.Run(st.name, st.run) {
			return
		}
	}
}

func scriptTest(name string) (st scriptTestCase) {
	st.name = name
	return st
}

type scriptTestCase struct {
	name    string
	src     string
	opts    []Option
	ctx     context.Context
	expect  []func(t *testing.T, tu *Turtle, res Result)
	wantErr []func(t *testing.T, err error)
}

func (st scriptTestCase) withSource(lines ...string) scriptTestCase {
	st.src = strings.Join(lines, "\n")
	return st
}

func (st scriptTestCase) withOptions(opts ...Option) scriptTestCase {
	st.opts = append(st.opts, opts...)
	return st
}

func (st scriptTestCase) withContext(ctx context.Context) scriptTestCase {
	st.ctx = ctx
	return st
}

func (st scriptTestCase) do(expect func(t *testing.T, tu *Turtle, res Result)) scriptTestCase {
	st.expect = append(st.expect, expect)
	return st
}

func (st scriptTestCase) expectErrorIs(target error) scriptTestCase {
	st.wantErr = append(st.wantErr, func(t *testing.T, err error) {
		assert.True(t, errors.Is(err, target), "expected error: %v\ngot: %+v", target, err)
	})
	return st
}

func (st scriptTestCase) expectErrorContains(s string) scriptTestCase {
	st.wantErr = append(st.wantErr, func(t *testing.T, err error) {
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), s)
		}
	})
	return st
}

func (st scriptTestCase) expectErrorLine(line int) scriptTestCase {
	st.wantErr = append(st.wantErr, func(t *testing.T, err error) {
		var re *RuntimeError
		if assert.ErrorAs(t, err, &re) {
			assert.Equal(t, line, re.Line, "expected error line")
		}
	})
	return st
}

func (st scriptTestCase) expectSegments(n int) scriptTestCase {
	return st.do(func(t *testing.T, _ *Turtle, res Result) {
		assert.Len(t, res.Segments, n, "expected segment count")
	})
}

func (st scriptTestCase) expectPolygons(n int) scriptTestCase {
	return st.do(func(t *testing.T, _ *Turtle, res Result) {
		assert.Len(t, res.Polygons, n, "expected polygon count")
	})
}

func (st scriptTestCase) expectPosition(x, y float64) scriptTestCase {
	return st.do(func(t *testing.T, tu *Turtle, _ Result) {
		assertPoint(t, Point{x, y}, tu.pos, "expected turtle position")
	})
}

func (st scriptTestCase) expectHeading(deg float64) scriptTestCase {
	return st.do(func(t *testing.T, tu *Turtle, _ Result) {
		assert.InDelta(t, deg, tu.heading, 1e-9, "expected heading")
	})
}

func (st scriptTestCase) expectSegmentEnd(i int, x, y float64) scriptTestCase {
	return st.do(func(t *testing.T, _ *Turtle, res Result) {
		if assert.Greater(t, len(res.Segments), i, "expected segment #%d", i) {
			assertPoint(t, Point{x, y}, res.Segments[i].To, "expected segment #%d end", i)
		}
	})
}

func (st scriptTestCase) expectPoints(poly int, pts ...Point) scriptTestCase {
	return st.do(func(t *testing.T, _ *Turtle, res Result) {
		if !assert.Greater(t, len(res.Polygons), poly, "expected polygon #%d", poly) {
			return
		}
		got := res.Polygons[poly].Points
		if assert.Len(t, got, len(pts), "expected polygon #%d points", poly) {
			for i := range pts {
				assertPoint(t, pts[i], got[i], "expected polygon #%d point %d", poly, i)
			}
		}
	})
}

func (st scriptTestCase) expectPointCount(poly, n int) scriptTestCase {
	return st.do(func(t *testing.T, _ *Turtle, res Result) {
		if assert.Greater(t, len(res.Polygons), poly, "expected polygon #%d", poly) {
			assert.Len(t, res.Polygons[poly].Points, n, "expected polygon #%d point count", poly)
		}
	})
}

func (st scriptTestCase) expectFree(poly int, texts ...string) scriptTestCase {
	return st.do(func(t *testing.T, _ *Turtle, res Result) {
		if assert.Greater(t, len(res.Polygons), poly, "expected polygon #%d", poly) {
			assert.Equal(t, texts, commentTexts(res.Polygons[poly].Comments), "expected polygon #%d comments", poly)
		}
	})
}

func (st scriptTestCase) expectSlot(poly, index int, texts ...string) scriptTestCase {
	return st.do(func(t *testing.T, _ *Turtle, res Result) {
		if assert.Greater(t, len(res.Polygons), poly, "expected polygon #%d", poly) {
			got := commentTexts(res.Polygons[poly].PointComments[index])
			assert.Equal(t, texts, got, "expected polygon #%d comments before point %d", poly, index)
		}
	})
}

func (st scriptTestCase) expectCommentOnly(poly int) scriptTestCase {
	return st.do(func(t *testing.T, _ *Turtle, res Result) {
		if assert.Greater(t, len(res.Polygons), poly, "expected polygon #%d", poly) {
			assert.True(t, res.Polygons[poly].CommentOnly, "expected polygon #%d to be comment-only", poly)
		}
	})
}

func (st scriptTestCase) expectMarkers(markers ...Marker) scriptTestCase {
	return st.do(func(t *testing.T, _ *Turtle, res Result) {
		if assert.Len(t, res.Markers, len(markers), "expected marker count") {
			for i, m := range markers {
				assertPoint(t, Point{m.X, m.Y}, Point{res.Markers[i].X, res.Markers[i].Y}, "expected marker #%d", i)
				assert.Equal(t, m.Label, res.Markers[i].Label, "expected marker #%d label", i)
			}
		}
	})
}

func (st scriptTestCase) run(t *testing.T) {
	tu, res, err := st.exec(t, nil)
	if t.Failed() {
		return
	}
	st.check(t, tu, res, err)
	if t.Failed() {
		var lines []string
		st.exec(t, WithLogf(func(mess string, args ...interface{}) {
			lines = append(lines, fmt.Sprintf(mess, args...))
		}))
		t.Logf("trace:\n%v", strings.Join(lines, "\n"))
		var dump strings.Builder
		Dump(&dump, res)
		t.Logf("result:\n%v", dump.String())
	}
}

func (st scriptTestCase) exec(t *testing.T, extra Option) (*Turtle, Result, error) {
	ctx := st.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	prog := logo.Parse(st.src)
	require.Empty(t, prog.Diagnostics, "unexpected parse diagnostics")
	tu := New(append(st.opts, extra)...)
	res, err := tu.Run(ctx, prog)
	return tu, res, err
}

func (st scriptTestCase) check(t *testing.T, tu *Turtle, res Result, err error) {
	if len(st.wantErr) == 0 {
		assert.NoError(t, err, "unexpected run error")
	}
	for _, want := range st.wantErr {
		want(t, err)
	}
	for _, expect := range st.expect {
		expect(t, tu, res)
	}
}

func assertPoint(t *testing.T, want, got Point, msgAndArgs ...interface{}) {
	t.Helper()
	if !(math.Abs(want.X-got.X) < 1e-9 && math.Abs(want.Y-got.Y) < 1e-9) {
		assert.Fail(t, fmt.Sprintf("points differ: want %v got %v", want, got), msgAndArgs...)
	}
}

func commentTexts(cs []logo.Comment) []string {
	if len(cs) == 0 {
		return nil
	}
	texts := make([]string, len(cs))
	for i, c := range cs {
		texts[i] = c.Text
	}
	return texts
}

func TestTurtle_movement(t *testing.T) {
	scriptTestCases{
		scriptTest("forward from origin").withSource("FD 10").
			expectSegments(1).
			do(func(t *testing.T, _ *Turtle, res Result) {
				assert.Equal(t, Segment{From: Point{0, 0}, To: Point{0, 10}, PenDown: true}, res.Segments[0])
			}).
			expectPolygons(1).
			expectPoints(0, Point{0, 0}, Point{0, 10}),

		scriptTest("backward").withSource("BK 10").
			expectSegmentEnd(0, 0, -10),

		scriptTest("pen state").withSource("PU", "FD 10", "PD", "FD 10").
			expectSegments(2).
			do(func(t *testing.T, _ *Turtle, res Result) {
				assert.False(t, res.Segments[0].PenDown)
				assert.True(t, res.Segments[1].PenDown)
			}).
			expectPolygons(2).
			expectPoints(0, Point{0, 0}).
			expectPoints(1, Point{0, 10}, Point{0, 20}),

		scriptTest("pen up and down splits polygons").withSource("FD 10", "PU", "FD 10", "PD", "FD 10").
			expectPolygons(2).
			expectPoints(0, Point{0, 0}, Point{0, 10}).
			expectPoints(1, Point{0, 20}, Point{0, 30}),

		scriptTest("right turns clockwise").withSource("RT 90", "FD 10").
			expectPosition(10, 0).
			expectHeading(90),

		scriptTest("left turns counter-clockwise").withSource("LT 90", "FD 10").
			expectPosition(-10, 0).
			expectHeading(-90),

		scriptTest("absolute heading").withSource("RT 30", "SETH 180", "FD 10").
			expectPosition(0, -10),

		scriptTest("set x").withSource("SETX 50").expectSegmentEnd(0, 50, 0),
		scriptTest("set y").withSource("SETY 50").expectSegmentEnd(0, 0, 50),
		scriptTest("set x and y").withSource("SETXY 30, 40").expectSegmentEnd(0, 30, 40),

		scriptTest("home").withSource("FD 10", "RT 90", "FD 10", "HOME", "FD 5").
			expectSegments(4).
			expectSegmentEnd(2, 0, 0).
			expectPosition(0, 5).
			expectHeading(0),

		scriptTest("expressions").withSource("FD 10 + 5 * 2").expectPosition(0, 20),
		scriptTest("parentheses").withSource("FD (10 + 5) * 2").expectPosition(0, 30),
		scriptTest("power").withSource("FD 2 ^ 3").expectPosition(0, 8),
		scriptTest("functions").withSource("FD SQRT 16 + LOG10 100").expectPosition(0, 6),

		scriptTest("point count follows point-producing commands").
			withSource("FD 10", "RT 90", "FD 10", "SETX 0", "PRINT [x]", "SETY 0").
			expectPolygons(1).
			expectPointCount(0, 5),
	}.run(t)
}

func TestTurtle_arc(t *testing.T) {
	scriptTestCases{
		scriptTest("quarter arc").withSource("ARC 90, 50").
			expectSegments(10).
			do(func(t *testing.T, _ *Turtle, res Result) {
				for i, seg := range res.Segments {
					assert.Equal(t, 1, seg.Arc, "segment #%d arc group", i)
				}
				assertPoint(t, Point{0, 50}, res.Segments[0].From)
				assertPoint(t, Point{50, 0}, res.Segments[9].To)
			}).
			expectPolygons(1).
			expectPointCount(0, 10).
			expectPosition(0, 0).
			do(func(t *testing.T, _ *Turtle, res Result) {
				assert.Nil(t, res.Polygons[0].Circle)
			}),

		scriptTest("counter-clockwise arc").withSource("ARC -90, 10").
			expectSegmentEnd(9, -10, 0),

		scriptTest("resolution 20").withSource("EXTSETFN 20", "ARC 90, 50").expectSegments(5),
		scriptTest("resolution 80").withSource("EXTSETFN 80", "ARC 90, 50").expectSegments(20),

		scriptTest("resolution per arc").withSource("EXTSETFN 20", "ARC 90, 50", "EXTSETFN 32", "ARC 90, 50").
			expectSegments(13).
			do(func(t *testing.T, _ *Turtle, res Result) {
				assert.Equal(t, 1, res.Segments[0].Arc)
				assert.Equal(t, 1, res.Segments[4].Arc)
				assert.Equal(t, 2, res.Segments[5].Arc)
				assert.Equal(t, 2, res.Segments[12].Arc)
			}),

		scriptTest("resolution is floored").withSource("EXTSETFN 12.9", "ARC 360, 10").
			expectSegments(12).
			do(func(t *testing.T, _ *Turtle, res Result) {
				require.NotNil(t, res.Polygons[0].Circle)
				assert.Equal(t, 12, res.Polygons[0].Circle.Fn)
			}),

		scriptTest("resolution option").withOptions(WithArcResolution(8)).withSource("ARC 360, 10").
			expectSegments(8),

		scriptTest("full circle").withSource("FD 10", "ARC 360, 25").
			expectPolygons(2).
			expectPointCount(0, 2).
			expectPointCount(1, 40).
			do(func(t *testing.T, _ *Turtle, res Result) {
				c := res.Polygons[1].Circle
				require.NotNil(t, c)
				assertPoint(t, Point{0, 10}, c.Center)
				assert.Equal(t, 25.0, c.Radius)
				assert.Equal(t, 40, c.Fn)
				last := res.Polygons[1].Points[39]
				assertPoint(t, Point{0, 35}, last)
			}),

		scriptTest("circle then move").withSource("ARC 360, 25", "FD 50").
			expectPolygons(2).
			expectPoints(1, Point{0, 0}, Point{0, 50}),

		scriptTest("nearly full circle").withSource("ARC 359.9999, 25").
			do(func(t *testing.T, _ *Turtle, res Result) {
				assert.Nil(t, res.Polygons[0].Circle)
			}),

		scriptTest("negative full circle").withSource("ARC -360, 25").
			do(func(t *testing.T, _ *Turtle, res Result) {
				assert.NotNil(t, res.Polygons[0].Circle)
			}),

		scriptTest("zero arcs do nothing").withSource("ARC 0, 10", "ARC 90, 0", "ARC 90, 10").
			expectSegments(10).
			do(func(t *testing.T, _ *Turtle, res Result) {
				assert.Equal(t, 1, res.Segments[0].Arc)
			}),

		scriptTest("pen up arc").withSource("PU", "ARC 90, 10").
			expectSegments(10).
			expectPolygons(1).
			do(func(t *testing.T, _ *Turtle, res Result) {
				assert.False(t, res.Segments[0].PenDown)
			}),
	}.run(t)

	for _, n := range []int{3, 4, 5, 6} {
		st := scriptTest(fmt.Sprintf("low resolution %d", n)).
			withSource(fmt.Sprintf("EXTSETFN %d", n), "ARC 360, 10").
			expectSegments(n).
			do(func(t *testing.T, _ *Turtle, res Result) {
				for _, seg := range res.Segments {
					assert.Equal(t, res.Segments[0].Arc, seg.Arc)
				}
			})
		t.Run(st.name, st.run)
	}
}

func TestTurtle_variables(t *testing.T) {
	scriptTestCases{
		scriptTest("make and use").withSource(`MAKE "x 10`, "FD :x").
			expectSegments(1).
			expectSegmentEnd(0, 0, 10),

		scriptTest("reassign").withSource(`MAKE "x 10`, `MAKE "X :x * 2`, "FD :x").
			expectPosition(0, 20),

		scriptTest("store list").withSource(`MAKE "sq [FD 10; RT 90]`).
			expectSegments(0).
			do(func(t *testing.T, tu *Turtle, _ Result) {
				assert.Equal(t, expr.List("FD 10; RT 90"), tu.vars["sq"])
			}),

		scriptTest("call list").withSource(`MAKE "sq [FD 10; RT 90]`, ":sq", ":sq").
			expectSegments(2).
			expectPosition(10, 10).
			expectHeading(180),

		scriptTest("list in numeric expression").withSource(`MAKE "sq [FD 10]`, "FD :sq").
			expectErrorContains("numeric expression").
			expectErrorLine(2),

		scriptTest("number as list").withSource(`MAKE "n 5`, ":n").
			expectErrorContains("not an instruction list"),

		scriptTest("undefined call").withSource(":nope").
			expectErrorContains("undefined variable :nope"),

		scriptTest("undefined in expression").withSource("FD 1", "FD :nope").
			expectErrorLine(2).
			expectSegments(1),
	}.run(t)

	t.Run("error kinds", func(t *testing.T) {
		_, err := Execute(context.Background(), logo.Parse("FD :nope"))
		var ue *expr.UndefinedError
		assert.ErrorAs(t, err, &ue)

		_, err = Execute(context.Background(), logo.Parse("MAKE \"l [FD 1]\nRT :l"))
		var ke *expr.KindError
		assert.ErrorAs(t, err, &ke)
	})
}

func TestTurtle_repeat(t *testing.T) {
	scriptTestCases{
		scriptTest("loop").withSource("REPEAT 4 [FD 10]").
			expectSegments(4),

		scriptTest("square").withSource("REPEAT 4 [FD 100; RT 90]").
			expectSegments(4).
			expectPolygons(1).
			expectPointCount(0, 5).
			expectPosition(0, 0).
			expectHeading(360),

		scriptTest("hexagon").withSource("REPEAT 6 [FD 50; RT 60]").
			expectPolygons(1).
			expectPointCount(0, 7),

		scriptTest("separate shapes").withSource("REPEAT 4 [FD 50; RT 90]", "PU", "FD 100", "PD", "REPEAT 3 [FD 50; RT 120]").
			expectPolygons(2),

		scriptTest("variable count").withSource(`MAKE "n 3`, "REPEAT :n [FD 10]").
			expectSegments(3),

		scriptTest("floored count").withSource("REPEAT 2.7 [FD 1]").expectSegments(2),
		scriptTest("zero count").withSource("REPEAT 0 [FD 1]").expectSegments(0),
		scriptTest("negative count").withSource("REPEAT -2 [FD 1]").expectSegments(0),

		scriptTest("stored body").withSource(`MAKE "sq [FD 10; RT 90]`, "REPEAT 4 :sq").
			expectSegments(4).
			expectPointCount(0, 5),

		scriptTest("nested").withSource("REPEAT 3 [REPEAT 2 [FD 1]; RT 120]").
			expectSegments(6),

		scriptTest("body parse failure").withSource("REPEAT 2 [FD]").
			expectErrorContains("FD requires a value"),

		scriptTest("replayed commands report the invoking line").withSource("FD 1", "REPEAT 2 [FD :nope]").
			expectErrorLine(2),

		scriptTest("unbounded recursion").withOptions(WithMaxDepth(5)).
			withSource(`MAKE "f [FD 1; :f]`, ":f").
			expectErrorIs(ErrDepthExceeded).
			expectSegments(5),

		scriptTest("step limit").withOptions(WithStepLimit(10)).
			withSource("REPEAT 100 [FD 1]").
			expectErrorIs(ErrStepLimit).
			expectSegments(9),

		scriptTest("step limit counts arc segments").withOptions(WithStepLimit(5)).
			withSource("ARC 360, 10").
			expectErrorIs(ErrStepLimit).
			expectSegments(0),

		scriptTest("no step limit").withOptions(WithStepLimit(0)).
			withSource("REPEAT 2000 [FD 1]").
			expectSegments(2000),
	}.run(t)
}

func TestTurtle_errors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scriptTestCases{
		scriptTest("resolution below one").withSource("EXTSETFN 0", "ARC 360, 10").
			expectErrorContains("at least 1").
			expectErrorLine(1),

		scriptTest("negative resolution").withSource("FD 1", "EXTSETFN -5").
			expectErrorContains("EXTSETFN value must be at least 1, got -5").
			expectErrorLine(2),

		scriptTest("nan arc angle").withSource("ARC SQRT -1, 10").
			expectErrorIs(ErrNotFinite).
			expectErrorLine(1).
			expectSegments(0),

		scriptTest("nan arc radius").withSource("FD 1", "ARC 90, LN -1").
			expectErrorIs(ErrNotFinite).
			expectErrorLine(2),

		scriptTest("infinite arc").withOptions(WithStepLimit(0)).withSource("ARC 1 / 0, 10").
			expectErrorIs(ErrNotFinite),

		scriptTest("huge arc without step limit").withOptions(WithStepLimit(0)).withSource("ARC 1e300, 10").
			expectErrorIs(ErrStepLimit).
			expectSegments(0),

		scriptTest("step limit survives a bad arc").withOptions(WithStepLimit(10)).
			withSource("MAKE \"n SQRT -1", "ARC :n, 10", "REPEAT 50 [FD 1]").
			expectErrorIs(ErrNotFinite).
			expectSegments(0),

		scriptTest("canceled").withContext(ctx).withSource("FD 1").
			expectErrorIs(context.Canceled).
			expectSegments(0),
	}.run(t)

	_, err := Execute(context.Background(), logo.Parse("EXTSETFN 0.5"))
	var re *ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 0.5, re.Value)
}

func TestTurtle_charge(t *testing.T) {
	for _, n := range []float64{math.NaN(), math.Inf(1), -1, 1e300} {
		tu := New(WithStepLimit(10))
		err := panicerr.Recover("charge", func() error {
			tu.charge(n)
			return nil
		})
		assert.ErrorIs(t, err, ErrStepLimit, "charge(%v)", n)
		assert.Equal(t, 0, tu.steps, "charge(%v) steps", n)
	}
}

func TestTurtle_comments(t *testing.T) {
	scriptTestCases{
		scriptTest("before a point").withSource("FD 10", "// comment", "FD 10").
			expectSlot(0, 2, "// comment"),

		scriptTest("before the seed").withSource("# Draw a line", "FD 10", "# Turn", "RT 90", "FD 5").
			expectPolygons(1).
			expectFree(0).
			expectSlot(0, 0, "# Draw a line").
			expectSlot(0, 2, "# Turn"),

		scriptTest("free before drawing").withSource("# header", "RT 90", "FD 10").
			expectFree(0, "# header"),

		scriptTest("trailing").withSource("FD 10", "# trailing").
			expectSlot(0, 2, "# trailing"),

		scriptTest("block comment").withSource("FD 10", "/* two", "lines */", "FD 10").
			expectSlot(0, 2, "/* two\nlines */"),

		scriptTest("pen down collects pending").withSource("PU", "# about the square", "PD", "FD 10").
			expectPolygons(2).
			expectFree(1, "# about the square"),

		scriptTest("pen up tail").withSource("FD 10", "PU", "FD 5", "# tail").
			expectPolygons(2).
			expectCommentOnly(1).
			expectFree(1, "# tail"),

		scriptTest("arc line").withSource("ARC 360, 10 // circle").
			expectPolygons(1).
			expectFree(0, "// circle"),

		scriptTest("after arc").withSource("ARC 90, 10", "# after").
			expectPolygons(2).
			expectCommentOnly(1).
			expectFree(1, "# after"),

		scriptTest("position at origin").withSource("EXTCOMMENTPOS").
			expectPolygons(1).
			expectSlot(0, 0, "// Position: x=0, y=0"),

		scriptTest("position label").withSource("EXTCOMMENTPOS [Screw hole 1]").
			expectSlot(0, 0, "// Screw hole 1: x=0, y=0"),

		scriptTest("position after moving").withSource("SETXY 0, 0", "RT 45", "FD 10", "EXTCOMMENTPOS").
			expectSlot(0, 3, "// Position: x=7.071068, y=7.071068"),

		scriptTest("position before next point").withSource("FD 10", "EXTCOMMENTPOS [After first line]", "FD 10").
			expectSlot(0, 2, "// After first line: x=0, y=10"),

		scriptTest("position with pen up").withSource("PU", "SETXY 10, 20", "EXTCOMMENTPOS [Pen up position]").
			expectPolygons(2).
			expectCommentOnly(1).
			expectFree(1, "// Pen up position: x=10, y=20"),

		scriptTest("several positions").withSource(
			"EXTCOMMENTPOS [Start]", "FD 10",
			"EXTCOMMENTPOS [Middle]", "FD 10",
			"EXTCOMMENTPOS [End]").
			expectPolygons(1).
			expectSlot(0, 0, "// Start: x=0, y=0").
			expectSlot(0, 2, "// Middle: x=0, y=10").
			expectSlot(0, 3, "// End: x=0, y=20"),

		scriptTest("positions in a loop").withSource("REPEAT 2 [FD 10; EXTCOMMENTPOS [Corner]; RT 90]").
			expectPolygons(1).
			expectSlot(0, 2, "// Corner: x=0, y=10").
			expectSlot(0, 3, "// Corner: x=10, y=10"),

		scriptTest("positions between polygons").withSource(
			"PD", "FD 10", "PU",
			"EXTCOMMENTPOS [111]",
			"PD", "FD 10",
			"EXTCOMMENTPOS [222]",
			"PU",
			"EXTCOMMENTPOS [333]").
			expectPolygons(4).
			expectFree(1, "// 111: x=0, y=10").
			expectSlot(2, 2, "// 222: x=0, y=20").
			expectCommentOnly(3).
			expectFree(3, "// 333: x=0, y=20"),
	}.run(t)
}

func TestTurtle_markers(t *testing.T) {
	scriptTestCases{
		scriptTest("at position").withSource("EXTMARKER").
			expectMarkers(Marker{}).
			expectSlot(0, 0, "// Marker: x=0, y=0"),

		scriptTest("labeled").withSource("FD 10", "EXTMARKER [Test]").
			expectMarkers(Marker{X: 0, Y: 10, Label: "Test"}).
			expectSlot(0, 2, "// Test: x=0, y=10"),

		scriptTest("coordinates").withSource("FD 10", "EXTMARKER [Origin], 0, 0").
			expectMarkers(Marker{Label: "Origin"}),

		scriptTest("expression coordinates").withSource(`MAKE "x 5`, "EXTMARKER [Test], :x + 5, :x * 2").
			expectMarkers(Marker{X: 10, Y: 10, Label: "Test"}),

		scriptTest("does not move").withSource("FD 10", "EXTMARKER [A], 50, 50", "FD 10").
			expectPosition(0, 20).
			expectSegments(2),

		scriptTest("several").withSource("EXTMARKER [A]", "FD 1", "EXTMARKER [B]", "FD 1", "EXTMARKER [C]").
			expectMarkers(
				Marker{X: 0, Y: 0, Label: "A"},
				Marker{X: 0, Y: 1, Label: "B"},
				Marker{X: 0, Y: 2, Label: "C"}),
	}.run(t)
}

func TestTurtle_print(t *testing.T) {
	scriptTestCases{
		scriptTest("text").withSource("PRINT [Hello, World!]").
			expectPolygons(1).
			expectSlot(0, 0, "// Hello, World!"),

		scriptTest("variable").withSource(`MAKE "x 100`, "PRINT [X:], :x").
			expectSlot(0, 0, "// X: 100"),

		scriptTest("expression").withSource("PRINT [Result:], 10 + 20").
			expectSlot(0, 0, "// Result: 30"),

		scriptTest("several").withSource(`MAKE "size 50`, "PRINT [Size:], :size, [doubled:], :size * 2").
			expectSlot(0, 0, "// Size: 50 doubled: 100"),

		scriptTest("power").withSource(`MAKE "x 10`, "PRINT [x^2 =], :x ^ 2").
			expectSlot(0, 0, "// x^2 = 100"),

		scriptTest("fraction").withSource("PRINT 1 / 3").
			expectSlot(0, 0, "// 0.333333"),

		scriptTest("pen up").withSource("PU", "PRINT [up]").
			expectPolygons(2).
			expectCommentOnly(1).
			expectFree(1, "// up"),
	}.run(t)
}

func TestTurtle_reuse(t *testing.T) {
	tu := New()
	prog := logo.Parse("MAKE \"n 2\nREPEAT :n [FD 10; RT 90]\n# done")
	first, err := tu.Run(context.Background(), prog)
	require.NoError(t, err)
	second, err := tu.Run(context.Background(), prog)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTurtle_logging(t *testing.T) {
	var lines []string
	_, err := Execute(context.Background(), logo.Parse("REPEAT 2 [FD 1]\nPU"),
		WithLogf(func(mess string, args ...interface{}) {
			lines = append(lines, fmt.Sprintf(mess, args...))
		}))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"> 1: REPEAT 2 [FD 1]",
		"\t> 1: FD 1",
		"\t> 1: FD 1",
		"> 2: PU",
		"# polygon 0 points:3 comment-only:false circle:false",
	}, lines)
}

func TestDump(t *testing.T) {
	res, err := Execute(context.Background(), logo.Parse("FD 10 // up\nPU\nARC 90, 1\nEXTMARKER [m]"))
	require.NoError(t, err)
	var out strings.Builder
	require.NoError(t, Dump(&out, res))
	assert.Equal(t, strings.Join([]string{
		"# Segments",
		"  @ 0 (0, 0) -> (0, 10) down",
		"  @ 1 (0, 11) -> (0.156434, 10.987688) up arc:1",
	}, "\n"), strings.Join(strings.Split(out.String(), "\n")[:3], "\n"))
	assert.Contains(t, out.String(), strings.Join([]string{
		"# Polygons",
		"  #0",
		"    @0 (0, 0)",
		"    @1 (0, 10)",
		`       "// up"`,
		"  #1 comment-only",
		`    "// m: x=0, y=10"`,
		"# Markers",
		`  (0, 10) "m"`,
		"",
	}, "\n"))
}

func TestFormatNum(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{10, "10"},
		{-2.5, "-2.5"},
		{7.071067811865476, "7.071068"},
		{1e-9, "0"},
		{-1e-9, "0"},
		{100.1000001, "100.1"},
		{math.Inf(1), "+Inf"},
	} {
		assert.Equal(t, tc.want, FormatNum(tc.in), "FormatNum(%v)", tc.in)
	}
}
