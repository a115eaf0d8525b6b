package turtle

// Option configures a Turtle.
type Option interface{ apply(t *Turtle) }

// Options bundles several options into one.
func Options(opts ...Option) Option { return options(opts) }

// WithArcResolution sets the initial FN, the number of segments a full
// circle is tessellated into; EXTSETFN changes it during a run.
func WithArcResolution(fn int) Option { return arcResolution(fn) }

// WithMaxDepth limits how deeply REPEAT bodies and instruction list calls
// may nest.
func WithMaxDepth(depth int) Option { return maxDepth(depth) }

// WithStepLimit limits the total number of commands a run may execute;
// zero means no limit.
func WithStepLimit(steps int) Option { return stepLimit(steps) }

// WithLogf traces execution through the given printf-style function.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

const (
	defaultArcResolution = 40
	defaultMaxDepth      = 100
	defaultStepLimit     = 1000000
)

var defaults = options{
	arcResolution(defaultArcResolution),
	maxDepth(defaultMaxDepth),
	stepLimit(defaultStepLimit),
}

type options []Option

func (opts options) apply(t *Turtle) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(t)
		}
	}
}

type arcResolution int
type maxDepth int
type stepLimit int
type withLogfn func(mess string, args ...interface{})

func (fn arcResolution) apply(t *Turtle) {
	if fn >= 1 {
		t.defaultFn = int(fn)
	}
}

func (depth maxDepth) apply(t *Turtle) {
	if depth >= 1 {
		t.maxDepth = int(depth)
	}
}

func (steps stepLimit) apply(t *Turtle) {
	if steps >= 0 {
		t.stepLimit = int(steps)
	}
}

func (logfn withLogfn) apply(t *Turtle) {
	t.logfn = logfn
}
