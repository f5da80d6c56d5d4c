package ffmpeg

import (
	"fmt"
	"strings"
)

const diagnosticLines = 8

// ToolError reports a non-zero ffmpeg exit together with its diagnostics.
type ToolError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	diag := Diagnostics(e.Stderr)
	if diag == "" {
		return fmt.Sprintf("ffmpeg: %v", e.Err)
	}
	return fmt.Sprintf("ffmpeg: %v: %s", e.Err, diag)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Diagnostics returns the trailing non-empty lines of an ffmpeg stderr dump,
// joined with "; ". The banner and stream listing are noise; the cause is
// almost always at the end.
func Diagnostics(stderr string) string {
	var lines []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > diagnosticLines {
		lines = lines[len(lines)-diagnosticLines:]
	}
	return strings.Join(lines, "; ")
}
