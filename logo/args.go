package logo

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jcorbin/logoscad/expr"
)

// parseStatement parses one trimmed, non-empty statement; a non-empty message
// means the statement is invalid.
func parseStatement(text string) (cmd Command, msg string) {
	word, rest := splitKeyword(text)

	if strings.HasPrefix(word, ":") {
		name := strings.ToLower(word[1:])
		switch {
		case name == "":
			return cmd, "Variable name cannot be empty"
		case rest != "":
			return cmd, fmt.Sprintf("Unexpected text after :%v: %v", name, rest)
		}
		return Command{Kind: CALL, Name: name}, ""
	}

	kind, ok := aliases[strings.ToUpper(word)]
	if !ok {
		msg = "Unknown command: " + word
		if alt := suggest(word); alt != "" {
			msg += fmt.Sprintf(" (did you mean %v?)", alt)
		}
		return cmd, msg
	}
	cmd.Kind = kind

	switch kind {
	case PU, PD, HOME:
		if rest != "" {
			msg = fmt.Sprintf("%v does not take arguments", kind)
		}
	case FD, BK, LT, RT, SETH, SETX, SETY, EXTSETFN:
		cmd.Arg, msg = parseValue(kind, rest)
	case ARC, SETXY:
		cmd.Arg, cmd.Arg2, msg = parsePair(kind, rest)
	case MAKE:
		msg = parseMake(&cmd, rest)
	case REPEAT:
		msg = parseRepeat(&cmd, rest)
	case EXTCOMMENTPOS:
		msg = parseCommentPos(&cmd, rest)
	case EXTMARKER:
		msg = parseMarker(&cmd, rest)
	case PRINT:
		msg = parsePrint(&cmd, rest)
	}
	return cmd, msg
}

// splitKeyword splits off the leading keyword, which ends at whitespace or
// an opening bracket.
func splitKeyword(text string) (word, rest string) {
	i := strings.IndexFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '['
	})
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}

var keywords = func() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

func suggest(word string) string {
	ranks := fuzzy.RankFindFold(word, keywords)
	if len(ranks) == 0 {
		return ""
	}
	sort.Stable(ranks)
	return ranks[0].Target
}

func parseExpr(s string) (expr.Expr, string) {
	e, err := expr.Parse(s)
	if err != nil {
		return nil, "Invalid expression: " + strings.TrimSpace(s)
	}
	return e, ""
}

func parseValue(kind Kind, rest string) (expr.Expr, string) {
	if rest == "" {
		return nil, fmt.Sprintf("%v requires a value", kind)
	}
	return parseExpr(rest)
}

func parsePair(kind Kind, rest string) (a, b expr.Expr, msg string) {
	parts := splitArgs(rest)
	if len(parts) != 2 {
		switch kind {
		case ARC:
			return nil, nil, "ARC requires two values separated by a comma (angle, radius)"
		default:
			return nil, nil, fmt.Sprintf("%v requires two values separated by a comma (x, y)", kind)
		}
	}
	if a, msg = parseExpr(parts[0]); msg != "" {
		return nil, nil, msg
	}
	if b, msg = parseExpr(parts[1]); msg != "" {
		return nil, nil, msg
	}
	return a, b, ""
}

func parseMake(cmd *Command, rest string) string {
	if !strings.HasPrefix(rest, `"`) {
		return `MAKE requires a quoted variable name (MAKE "name value)`
	}
	name, value := splitKeyword(rest[1:])
	if name == "" {
		return "MAKE requires a variable name"
	}
	cmd.Name = strings.ToLower(name)
	if value == "" {
		return "MAKE requires a value"
	}
	if strings.HasPrefix(value, "[") {
		body, after, ok := bracketed(value)
		switch {
		case !ok:
			return "MAKE is missing closing bracket"
		case after != "":
			return "Unexpected text after instruction list: " + after
		}
		cmd.Body, cmd.List = body, true
		return ""
	}
	var msg string
	cmd.Arg, msg = parseExpr(value)
	return msg
}

func parseRepeat(cmd *Command, rest string) string {
	if i := strings.IndexByte(rest, '['); i >= 0 {
		count := strings.TrimSpace(rest[:i])
		body, after, ok := bracketed(rest[i:])
		switch {
		case !ok:
			return "REPEAT is missing closing bracket"
		case after != "":
			return "Unexpected text after REPEAT body: " + after
		case count == "":
			return "REPEAT requires a count"
		}
		cmd.Body = body
		var msg string
		cmd.Arg, msg = parseExpr(count)
		return msg
	}

	fields := strings.Fields(rest)
	if len(fields) < 2 || !strings.HasPrefix(fields[len(fields)-1], ":") {
		return "REPEAT requires a count and an instruction list in brackets"
	}
	ref := fields[len(fields)-1]
	cmd.Name = strings.ToLower(ref[1:])
	if cmd.Name == "" {
		return "Variable name cannot be empty"
	}
	var msg string
	cmd.Arg, msg = parseExpr(strings.TrimSpace(strings.TrimSuffix(rest, ref)))
	return msg
}

func parseCommentPos(cmd *Command, rest string) string {
	if rest == "" {
		return ""
	}
	if !strings.HasPrefix(rest, "[") {
		return "EXTCOMMENTPOS label must be in brackets"
	}
	label, after, ok := bracketed(rest)
	switch {
	case !ok:
		return "EXTCOMMENTPOS is missing closing bracket"
	case after != "":
		return "EXTCOMMENTPOS label must be in brackets"
	}
	cmd.Label = strings.TrimSpace(label)
	return ""
}

func parseMarker(cmd *Command, rest string) string {
	if rest == "" {
		return ""
	}
	coords := rest
	if strings.HasPrefix(rest, "[") {
		label, after, ok := bracketed(rest)
		if !ok {
			return "EXTMARKER is missing closing bracket"
		}
		cmd.Label = strings.TrimSpace(label)
		if after == "" {
			return ""
		}
		if !strings.HasPrefix(after, ",") {
			return "EXTMARKER expects a comma after the label"
		}
		coords = after[1:]
	}
	parts := splitArgs(coords)
	if len(parts) != 2 {
		return "EXTMARKER requires exactly 2 values for coordinates (x, y)"
	}
	var msg string
	if cmd.Arg, msg = parseExpr(parts[0]); msg != "" {
		return msg
	}
	cmd.Arg2, msg = parseExpr(parts[1])
	return msg
}

func parsePrint(cmd *Command, rest string) string {
	if rest == "" {
		return "PRINT requires at least one argument"
	}
	for _, part := range splitArgs(rest) {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "[") {
			text, after, ok := bracketed(part)
			switch {
			case !ok:
				return "PRINT is missing closing bracket"
			case after != "":
				return "Unexpected text after PRINT string: " + after
			}
			cmd.Args = append(cmd.Args, PrintArg{Text: text})
			continue
		}
		if part == "" {
			return "PRINT argument cannot be empty"
		}
		e, msg := parseExpr(part)
		if msg != "" {
			return msg
		}
		cmd.Args = append(cmd.Args, PrintArg{Expr: e})
	}
	return ""
}

// bracketed splits s, which must start with '[', into the interior of its
// first balanced bracket group and the trimmed text after it.
func bracketed(s string) (inner, after string, ok bool) {
	depth := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[1:i], strings.TrimSpace(s[i+1:]), true
			}
		}
	}
	return "", "", false
}

// splitArgs splits s on commas that are not nested in brackets or parens.
func splitArgs(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '[', '(':
			depth++
		case ']', ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
