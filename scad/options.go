package scad

import "strings"

// Option configures a Generator.
type Option interface{ apply(g *Generator) }

// WithIndent sets how many spaces indent point lines and circle primitives.
func WithIndent(spaces int) Option { return indentOption(spaces) }

// WithCirclePrimitives controls whether full-circle arcs are emitted as
// circle() primitives rather than explicit point lists.
func WithCirclePrimitives(prefer bool) Option { return circlesOption(prefer) }

const defaultIndent = 2

var defaults = options{
	indentOption(defaultIndent),
	circlesOption(true),
}

type options []Option

func (opts options) apply(g *Generator) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(g)
		}
	}
}

type indentOption int
type circlesOption bool

func (n indentOption) apply(g *Generator) {
	if n >= 0 {
		g.indent = strings.Repeat(" ", int(n))
	}
}

func (prefer circlesOption) apply(g *Generator) {
	g.circles = bool(prefer)
}
