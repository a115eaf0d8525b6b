package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/logoscad/compile"
	"github.com/jcorbin/logoscad/expr"
	"github.com/jcorbin/logoscad/internal/flushio"
	"github.com/jcorbin/logoscad/internal/logio"
	"github.com/jcorbin/logoscad/logo"
	"github.com/jcorbin/logoscad/turtle"
)

type args struct {
	Files []string `arg:"positional" help:"script files to compile; - reads stdin"`

	Fn        int           `arg:"--fn" default:"40" help:"initial arc resolution (segments per full circle)"`
	Indent    int           `arg:"--indent" default:"2" help:"spaces to indent points and circles by"`
	NoCircles bool          `arg:"--no-circles" help:"render full circles as explicit polygons"`
	MaxDepth  int           `arg:"--max-depth" default:"100" help:"limit on nested REPEAT and instruction list calls"`
	StepLimit int           `arg:"--step-limit" default:"1000000" help:"limit on executed commands per script; 0 for none"`
	Timeout   time.Duration `arg:"--timeout" help:"time limit for compiling all files"`

	Out     string `arg:"--out" help:"directory to write NAME.scad files into, instead of stdout"`
	Dump    bool   `arg:"--dump" help:"log the drawn segments, polygons, and markers"`
	DumpAST bool   `arg:"--dump-ast" help:"log every command with its expression trees"`
	Trace   bool   `arg:"--trace" help:"log every executed command"`
	Repl    bool   `arg:"--repl" help:"run an interactive session"`
}

func (args) Description() string {
	return "Compiles turtle graphics scripts, a small Logo dialect, into OpenSCAD polygons."
}

func main() {
	var cli args
	arg.MustParse(&cli)

	log := logio.New(os.Stderr)
	ctx := context.Background()
	if cli.Timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cli.Timeout)
		defer cancel()
	}

	if cli.Repl {
		log.ErrorIf(repl(ctx, cli, log))
	} else {
		if len(cli.Files) == 0 {
			cli.Files = []string{"-"}
		}
		log.ErrorIf(run(ctx, cli, log, os.Stdin, os.Stdout))
	}
	os.Exit(log.ExitCode())
}

func (cli args) options(log *logio.Logger, name string) compile.Options {
	opts := compile.Options{
		ArcResolution: cli.Fn,
		IndentSpaces:  cli.Indent,
		PreferCircles: !cli.NoCircles,
		Turtle: []turtle.Option{
			turtle.WithMaxDepth(cli.MaxDepth),
			turtle.WithStepLimit(cli.StepLimit),
		},
	}
	if cli.Trace {
		trace := log.Leveledf("TRACE")
		opts.Logf = func(mess string, args ...interface{}) {
			trace("%v: %v", name, fmt.Sprintf(mess, args...))
		}
	}
	return opts
}

type script struct {
	name string
	src  string
	out  compile.Output
}

// run compiles every file concurrently, then reports and writes the results
// in argument order.
func run(ctx context.Context, cli args, log *logio.Logger, stdin io.Reader, stdout io.Writer) error {
	scripts := make([]script, len(cli.Files))
	eg, ctx := errgroup.WithContext(ctx)
	for i, name := range cli.Files {
		i, name := i, name
		eg.Go(func() error {
			src, err := readScript(name, stdin)
			if err != nil {
				return err
			}
			scripts[i] = script{name: name, src: src}
			scripts[i].out = compile.Script(ctx, src, cli.options(log, name))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	out := flushio.NewWriteFlusher(stdout)
	for i, s := range scripts {
		report(log, s)
		if cli.DumpAST {
			dumpAST(log, s)
		}
		if cli.Dump {
			dump(log, s)
		}
		if cli.Out != "" {
			if err := writeScad(cli.Out, s); err != nil {
				return err
			}
			continue
		}
		if len(scripts) > 1 {
			if i > 0 {
				io.WriteString(out, "\n")
			}
			fmt.Fprintf(out, "// %v\n", s.name)
		}
		io.WriteString(out, s.out.Text)
		io.WriteString(out, "\n")
	}
	return out.Flush()
}

func readScript(name string, stdin io.Reader) (string, error) {
	if name == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(name)
	return string(b), err
}

// scadPath maps a script name to its output file under dir.
func scadPath(dir, name string) string {
	if name == "-" {
		name = "stdin"
	}
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+".scad")
}

func writeScad(dir string, s script) error {
	f, err := flushio.Create(scadPath(dir, s.name))
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, s.out.Text+"\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func report(log *logio.Logger, s script) {
	for _, d := range s.out.Diagnostics {
		log.Errorf("%v:%v", s.name, d)
	}
}

func dumpAST(log *logio.Logger, s script) {
	lw := &logio.Writer{Logf: log.Leveledf("AST")}
	defer lw.Close()
	for _, cmd := range s.out.Parse.Commands {
		fmt.Fprintf(lw, "%v:%d: %v\n", s.name, cmd.Line, cmd)
		for _, e := range commandExprs(cmd) {
			fmt.Fprintln(lw, expr.Tree(e))
		}
	}
}

func commandExprs(cmd logo.Command) (es []expr.Expr) {
	for _, e := range []expr.Expr{cmd.Arg, cmd.Arg2} {
		if e != nil {
			es = append(es, e)
		}
	}
	for _, pa := range cmd.Args {
		if pa.Expr != nil {
			es = append(es, pa.Expr)
		}
	}
	return es
}

func dump(log *logio.Logger, s script) {
	lw := &logio.Writer{Logf: log.Leveledf("DUMP")}
	defer lw.Close()
	fmt.Fprintf(lw, "%v\n", s.name)
	log.ErrorIf(turtle.Dump(lw, s.out.Result))
}
