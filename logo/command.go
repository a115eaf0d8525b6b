// Package logo parses turtle-graphics scripts into commands, comments, and
// diagnostics.
//
// Parsing never fails as a whole: each malformed statement yields a
// Diagnostic and is otherwise skipped, so the rest of the script still
// produces commands.
package logo

import (
	"fmt"
	"strings"

	"github.com/jcorbin/logoscad/expr"
)

// Kind identifies a command.
type Kind uint8

// Command kinds.
const (
	FD Kind = iota + 1
	BK
	LT
	RT
	SETH
	SETX
	SETY
	SETXY
	HOME
	PU
	PD
	ARC
	MAKE
	REPEAT
	CALL
	PRINT
	EXTSETFN
	EXTCOMMENTPOS
	EXTMARKER
)

var kindNames = [...]string{
	FD:            "FD",
	BK:            "BK",
	LT:            "LT",
	RT:            "RT",
	SETH:          "SETH",
	SETX:          "SETX",
	SETY:          "SETY",
	SETXY:         "SETXY",
	HOME:          "HOME",
	PU:            "PU",
	PD:            "PD",
	ARC:           "ARC",
	MAKE:          "MAKE",
	REPEAT:        "REPEAT",
	CALL:          "CALL",
	PRINT:         "PRINT",
	EXTSETFN:      "EXTSETFN",
	EXTCOMMENTPOS: "EXTCOMMENTPOS",
	EXTMARKER:     "EXTMARKER",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ProducesPoint reports whether executing the command may append a point to
// the polygon being drawn; comment attribution depends on this.
func (k Kind) ProducesPoint() bool {
	switch k {
	case FD, BK, SETX, SETY, SETXY, ARC, HOME:
		return true
	}
	return false
}

// aliases maps upper-cased keywords to kinds.
var aliases = map[string]Kind{
	"FD":            FD,
	"FORWARD":       FD,
	"BK":            BK,
	"BACK":          BK,
	"LT":            LT,
	"LEFT":          LT,
	"RT":            RT,
	"RIGHT":         RT,
	"SETH":          SETH,
	"SETHEADING":    SETH,
	"SETX":          SETX,
	"SETY":          SETY,
	"SETXY":         SETXY,
	"HOME":          HOME,
	"PU":            PU,
	"PENUP":         PU,
	"PD":            PD,
	"PENDOWN":       PD,
	"ARC":           ARC,
	"MAKE":          MAKE,
	"REPEAT":        REPEAT,
	"PRINT":         PRINT,
	"EXTSETFN":      EXTSETFN,
	"EXTCOMMENTPOS": EXTCOMMENTPOS,
	"EXTMARKER":     EXTMARKER,
}

// Command is one parsed statement.
//
// Which fields are meaningful depends on Kind:
//   - FD BK LT RT SETH SETX SETY EXTSETFN: Arg
//   - ARC: Arg is the angle, Arg2 the radius
//   - SETXY: Arg is x, Arg2 is y
//   - EXTMARKER: optional Label, optional Arg and Arg2 coordinates
//   - EXTCOMMENTPOS: optional Label
//   - MAKE: Name, then either Body (when List is set) or Arg
//   - REPEAT: Arg is the count, then either Body or Name of a stored list
//   - CALL: Name of a stored list
//   - PRINT: Args
type Command struct {
	Kind Kind
	Line int

	Arg  expr.Expr
	Arg2 expr.Expr

	Name  string
	Body  string
	List  bool
	Label string
	Args  []PrintArg
}

// PrintArg is a PRINT operand: literal Text when Expr is nil.
type PrintArg struct {
	Text string
	Expr expr.Expr
}

func (cmd Command) String() string {
	var sb strings.Builder
	sb.WriteString(cmd.Kind.String())
	switch cmd.Kind {
	case MAKE:
		fmt.Fprintf(&sb, " %q", cmd.Name)
		if cmd.List {
			fmt.Fprintf(&sb, " [%v]", strings.TrimSpace(cmd.Body))
		} else {
			fmt.Fprintf(&sb, " %v", cmd.Arg)
		}
	case REPEAT:
		fmt.Fprintf(&sb, " %v", cmd.Arg)
		if cmd.Name != "" {
			fmt.Fprintf(&sb, " :%v", cmd.Name)
		} else {
			fmt.Fprintf(&sb, " [%v]", strings.TrimSpace(cmd.Body))
		}
	case CALL:
		fmt.Fprintf(&sb, " :%v", cmd.Name)
	case PRINT:
		for i, arg := range cmd.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			if arg.Expr != nil {
				fmt.Fprintf(&sb, " %v", arg.Expr)
			} else {
				fmt.Fprintf(&sb, " [%v]", arg.Text)
			}
		}
	default:
		if cmd.Label != "" {
			fmt.Fprintf(&sb, " [%v]", cmd.Label)
		}
		if cmd.Arg != nil {
			fmt.Fprintf(&sb, " %v", cmd.Arg)
		}
		if cmd.Arg2 != nil {
			fmt.Fprintf(&sb, ", %v", cmd.Arg2)
		}
	}
	return sb.String()
}

// Comment is a source comment; Text keeps its delimiters.
type Comment struct {
	Text    string
	Line    int
	EndLine int
}

// Range is a 1-based source span; columns count runes and EndCol is
// exclusive.
type Range struct {
	StartLine, StartCol int
	EndLine, EndCol     int
}

func (r Range) String() string {
	if r.StartLine == r.EndLine {
		return fmt.Sprintf("%d:%d-%d", r.StartLine, r.StartCol, r.EndCol)
	}
	return fmt.Sprintf("%d:%d-%d:%d", r.StartLine, r.StartCol, r.EndLine, r.EndCol)
}

// Diagnostic is a problem found in the source. Runtime is set on the single
// diagnostic a host synthesizes from an interpreter error.
type Diagnostic struct {
	Message string
	Range   Range
	Runtime bool
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%v: %v", d.Range, d.Message)
}

// ParseResult holds everything parsed from a script. Comments are sorted by
// starting line.
type ParseResult struct {
	Commands    []Command
	Diagnostics []Diagnostic
	Comments    []Comment
}

// OK reports whether parsing produced no diagnostics.
func (res *ParseResult) OK() bool { return len(res.Diagnostics) == 0 }
