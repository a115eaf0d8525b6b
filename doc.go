// Command logoscad compiles turtle graphics scripts into OpenSCAD source.
//
// Scripts are written in a small Logo dialect: the turtle starts at the origin
// facing +y with its pen down, and every outline it draws while the pen is down
// becomes one polygon of the output. For example:
//
//	// a square with a marker in its middle
//	MAKE "side 20
//	REPEAT 4 [FD :side; RT 90]
//	PU
//	SETXY :side / 2, :side / 2
//	EXTMARKER [middle]
//
// Movement commands are FD, BK, LT, RT, SETH, SETX, SETY, SETXY, HOME, PU, PD
// and ARC angle, radius. MAKE "name value binds a number, and MAKE "name [...]
// an instruction list that REPEAT n :name or a bare :name statement replays.
// EXTSETFN n sets how many segments a full circle is drawn with.
//
// Comments (# or // to end of line, and /* ... */ blocks) are carried into the
// output next to the points drawn around them. EXTCOMMENTPOS [label],
// EXTMARKER [label], x, y and PRINT add generated comments of their own.
//
// Each FILE is compiled independently, and concurrently; - reads standard
// input. Diagnostics are logged to standard error, and the exit status is
// non-zero if any script had one. With --repl, lines are read interactively
// and the accumulated script is recompiled after each entry.
package main
