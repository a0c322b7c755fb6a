package video

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Placeholder tokens recognized in codec command templates.
const (
	TokenInput  = "input"
	TokenOutput = "output"
)

var ErrTemplate = errors.New("invalid command template")

// literalBackslashes keeps \ as a path separator instead of an escape, so
// C:\ffmpeg\bin\ffmpeg.exe survives parsing on Windows.
var literalBackslashes = runtime.GOOS == "windows"

// Template is a codec command line split into argv. No shell ever sees it.
type Template struct {
	args []string
}

// Command is a resolved template, ready to execute.
type Command struct {
	Args   []string
	Input  string
	Output string
}

// ParseTemplate splits s with shell word rules (quotes and escapes, no
// variable or backtick expansion) and checks that both placeholders are present.
// Shell operators (; && | > <) are rejected: the command never runs in a shell.
func ParseTemplate(s string) (Template, error) {
	line := s
	if literalBackslashes {
		line = escapeBackslashes(s)
	}
	p := shellwords.NewParser()
	args, err := p.Parse(line)
	if err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	if p.Position != -1 {
		return Template{}, fmt.Errorf("%w: shell operators are not supported, found %q in %q",
			ErrTemplate, strings.TrimSpace(line[p.Position:]), s)
	}
	if len(args) == 0 {
		return Template{}, fmt.Errorf("%w: empty command", ErrTemplate)
	}
	t := Template{args: args}

	var hasIn, hasOut bool
	for _, a := range args[1:] {
		hasIn = hasIn || isInputArg(a)
		hasOut = hasOut || isOutputArg(a)
	}
	if !hasIn {
		return Template{}, fmt.Errorf("%w: no %q placeholder in %q", ErrTemplate, TokenInput, s)
	}
	if !hasOut {
		return Template{}, fmt.Errorf("%w: no %q placeholder in %q", ErrTemplate, TokenOutput, s)
	}
	return t, nil
}

// Program is the executable named by the template.
func (t Template) Program() string { return t.args[0] }

// Resolve substitutes the placeholders, one argv entry per path.
//
//	input, {input}                                 -> in
//	output, output.<ext>, {output}, {output}.<ext> -> out
//
// The program name is never substituted and words merely containing
// "input" or "output" are left alone.
func (t Template) Resolve(in, out string) Command {
	args := make([]string, len(t.args))
	args[0] = t.args[0]
	for i, a := range t.args[1:] {
		switch {
		case a == TokenInput:
			a = in
		case isBareOutput(a):
			a = out
		default:
			a = strings.ReplaceAll(a, "{"+TokenInput+"}", in)
			a = strings.ReplaceAll(trimOutputHint(a), "{"+TokenOutput+"}", out)
		}
		args[i+1] = a
	}
	return Command{Args: args, Input: in, Output: out}
}

// String renders the argv as a single line, quoting only where needed.
func (c Command) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = quoteArg(a)
	}
	return strings.Join(parts, " ")
}

func isInputArg(a string) bool {
	return a == TokenInput || strings.Contains(a, "{"+TokenInput+"}")
}

func isOutputArg(a string) bool {
	return isBareOutput(a) || strings.Contains(a, "{"+TokenOutput+"}")
}

// output or output.<ext>, the extension being a hint for the file name
func isBareOutput(a string) bool {
	if a == TokenOutput {
		return true
	}
	ext, ok := strings.CutPrefix(a, TokenOutput+".")
	return ok && isExtHint(ext)
}

// trimOutputHint drops the extension after a trailing {output}.<ext>; the
// resolved output path already carries it.
func trimOutputHint(a string) string {
	placeholder := "{" + TokenOutput + "}"
	idx := strings.LastIndex(a, placeholder+".")
	if idx < 0 {
		return a
	}
	end := idx + len(placeholder)
	if !isExtHint(a[end+1:]) {
		return a
	}
	return a[:end]
}

func isExtHint(ext string) bool {
	return ext != "" && !strings.ContainsAny(ext, `./\ {}`)
}

// escapeBackslashes doubles every backslash outside single quotes so the
// shell word parser keeps it literally.
func escapeBackslashes(s string) string {
	var b strings.Builder
	var single, double bool
	for _, r := range s {
		switch {
		case r == '\'' && !double:
			single = !single
		case r == '"' && !single:
			double = !double
		case r == '\\' && !single:
			b.WriteRune(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func quoteArg(a string) string {
	if a == "" {
		return "''"
	}
	if !strings.ContainsAny(a, " \t\n'\"\\$`|&;<>()*?[]#~!{}") {
		return a
	}
	return "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
}
