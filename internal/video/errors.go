package video

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEncoderNotFound = errors.New("encoder binary not found")
	ErrOutputMissing   = errors.New("encoder finished but produced no output file")
)

// EncodeProcessFailedError is returned when an external encoder exits non-zero.
type EncodeProcessFailedError struct {
	Program  string
	ExitCode int
	Stderr   string
}

func (e *EncodeProcessFailedError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Program, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

const stderrTailLines = 8

// keep only the last lines, ffmpeg prints the actual error at the end
func tail(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}
	return strings.Join(lines, "\n")
}
