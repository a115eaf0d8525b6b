package logo

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse parses a whole script.
//
// Block comments are extracted first and blanked out with spaces so that the
// line and column of everything after them is unchanged. Each line is then
// cut at its first # or // marker. The remaining text is split into
// statements on ; and newlines, except inside square brackets where both are
// kept as separators within the enclosing statement.
func Parse(src string) *ParseResult {
	var p parser
	src = p.blockComments(src)
	for i, line := range strings.Split(src, "\n") {
		p.line(i+1, strings.TrimSuffix(line, "\r"))
	}
	p.flush()
	sort.SliceStable(p.res.Comments, func(i, j int) bool {
		return p.res.Comments[i].Line < p.res.Comments[j].Line
	})
	return &p.res
}

type parser struct {
	res ParseResult

	depth int
	stmt  statement
}

type statement struct {
	text  strings.Builder
	rng   Range
	start bool
}

// blockComments extracts every /* */ comment that does not start inside a #
// or // line comment, replacing each of its runes but newlines by a space.
func (p *parser) blockComments(src string) string {
	if !strings.Contains(src, "/*") {
		return src
	}
	var out strings.Builder
	out.Grow(len(src))
	line, col := 1, 1
	for i := 0; i < len(src); {
		switch {
		case src[i] == '#' || strings.HasPrefix(src[i:], "//"):
			eol := strings.IndexByte(src[i:], '\n')
			if eol < 0 {
				eol = len(src) - i
			}
			out.WriteString(src[i : i+eol])
			i += eol
			continue

		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				p.res.Diagnostics = append(p.res.Diagnostics, Diagnostic{
					Message: "Unterminated comment: missing closing */",
					Range:   Range{line, col, line, col + 2},
				})
				blank(&out, src[i:])
				return out.String()
			}
			end += i + 4
			text := src[i:end]
			nl := strings.Count(text, "\n")
			p.res.Comments = append(p.res.Comments, Comment{
				Text:    text,
				Line:    line,
				EndLine: line + nl,
			})
			blank(&out, text)
			if nl > 0 {
				line += nl
				col = 1 + utf8.RuneCountInString(text[strings.LastIndexByte(text, '\n')+1:])
			} else {
				col += utf8.RuneCountInString(text)
			}
			i = end
			continue
		}
		r, n := utf8.DecodeRuneInString(src[i:])
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		out.WriteString(src[i : i+n])
		i += n
	}
	return out.String()
}

// blank writes a space for every rune of s but newlines.
func blank(out *strings.Builder, s string) {
	for _, r := range s {
		if r == '\n' {
			out.WriteByte('\n')
		} else {
			out.WriteByte(' ')
		}
	}
}

func (p *parser) line(n int, line string) {
	content := line
	if cut := lineCommentStart(line); cut >= 0 {
		if text := strings.TrimSpace(line[cut:]); text != "" {
			p.res.Comments = append(p.res.Comments, Comment{Text: text, Line: n, EndLine: n})
		}
		content = line[:cut]
	}

	col := 0
	for _, r := range content {
		col++
		switch {
		case r == ';' && p.depth == 0:
			p.flush()
			continue
		case r == '[':
			p.depth++
		case r == ']':
			if p.depth > 0 {
				p.depth--
			}
		}
		p.stmt.add(r, n, col)
	}

	if p.depth == 0 {
		p.flush()
	} else if p.stmt.start {
		p.stmt.text.WriteString("; ")
	}
}

// lineCommentStart returns the offset of the first # or // in line, or -1.
func lineCommentStart(line string) int {
	hash := strings.IndexByte(line, '#')
	slash := strings.Index(line, "//")
	switch {
	case hash < 0:
		return slash
	case slash < 0 || hash < slash:
		return hash
	}
	return slash
}

func (st *statement) add(r rune, line, col int) {
	if unicode.IsSpace(r) {
		if st.start {
			st.text.WriteRune(r)
		}
		return
	}
	if !st.start {
		st.start = true
		st.rng.StartLine, st.rng.StartCol = line, col
	}
	st.text.WriteRune(r)
	st.rng.EndLine, st.rng.EndCol = line, col+1
}

func (p *parser) flush() {
	if !p.stmt.start {
		return
	}
	text := strings.TrimSpace(p.stmt.text.String())
	rng := p.stmt.rng
	p.stmt = statement{}
	if p.depth > 0 {
		// only reachable at end of input
		p.depth = 0
	}
	if cmd, msg := parseStatement(text); msg != "" {
		p.res.Diagnostics = append(p.res.Diagnostics, Diagnostic{Message: msg, Range: rng})
	} else {
		cmd.Line = rng.StartLine
		p.res.Commands = append(p.res.Commands, cmd)
	}
}
