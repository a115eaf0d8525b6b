package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jcorbin/logoscad/compile"
	"github.com/jcorbin/logoscad/internal/logio"
	"github.com/jcorbin/logoscad/logo"
	"github.com/jcorbin/logoscad/turtle"
)

const (
	historyFile  = ".logoscad_history"
	promptMain   = "logo> "
	promptCont   = "....> "
	replCommands = ".show .dump .src .reset .quit"
)

// session is the script built up by a repl; every accepted entry is appended
// to it and the whole script is recompiled.
type session struct {
	opts compile.Options
	src  strings.Builder
	out  compile.Output
}

// enter compiles the session script with entry appended, keeping the entry
// only if it adds no diagnostics.
func (sess *session) enter(ctx context.Context, entry string) []logo.Diagnostic {
	src := sess.src.String()
	if src != "" {
		src += "\n"
	}
	src += entry
	out := compile.Script(ctx, src, sess.opts)
	if len(out.Diagnostics) > 0 {
		return out.Diagnostics
	}
	sess.src.Reset()
	sess.src.WriteString(src)
	sess.out = out
	return nil
}

func (sess *session) reset() {
	sess.src.Reset()
	sess.out = compile.Output{}
}

// incomplete reports whether entry ends inside a bracket or block comment,
// so the repl should read another line before compiling it.
func incomplete(entry string) bool {
	for _, d := range logo.Parse(entry).Diagnostics {
		if strings.Contains(d.Message, "missing closing bracket") ||
			strings.HasPrefix(d.Message, "Unterminated comment") {
			return true
		}
	}
	return false
}

func readEntry(ln *liner.State) (string, error) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) && b.Len() > 0 {
				return b.String(), nil
			}
			return "", err
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !incomplete(b.String()) {
			return b.String(), nil
		}
	}
}

func repl(ctx context.Context, cli args, log *logio.Logger) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if home, err := os.UserHomeDir(); err == nil {
		histPath := filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				ln.WriteHistory(f)
				f.Close()
			}
		}()
	}

	sess := session{opts: cli.options(log, "repl")}

	fmt.Printf("commands: %v\n", replCommands)
	for {
		entry, err := readEntry(ln)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		} else if err != nil {
			return err
		}

		switch strings.TrimSpace(entry) {
		case "":
			continue
		case ".quit":
			return nil
		case ".reset":
			sess.reset()
			continue
		case ".show":
			fmt.Println(sess.out.Text)
			continue
		case ".src":
			fmt.Println(sess.src.String())
			continue
		case ".dump":
			turtle.Dump(os.Stdout, sess.out.Result)
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(entry), ".") {
			fmt.Printf("unknown command, try one of: %v\n", replCommands)
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(entry, "\n", " "))
		if ds := sess.enter(ctx, entry); len(ds) > 0 {
			for _, d := range ds {
				log.Printf("ERROR", "%v", d)
			}
			continue
		}
		res := sess.out.Result
		fmt.Printf("segments:%d polygons:%d markers:%d\n",
			len(res.Segments), len(res.Polygons), len(res.Markers))
	}
}
