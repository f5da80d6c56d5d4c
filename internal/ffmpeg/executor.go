package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
)

// DefaultBinary is used when no binary is configured.
const DefaultBinary = "ffmpeg"

// Result holds the outcome of a single ffmpeg invocation.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// Runner executes ffmpeg with the given arguments (binary excluded). Calls
// block until the subprocess exits.
type Runner interface {
	Run(ctx context.Context, args []string) Result
}

// Exec runs a real ffmpeg binary.
type Exec struct {
	Binary string
	// Tee, when set, receives a live copy of stderr.
	Tee io.Writer
}

// NewExec returns an Exec for binary, falling back to DefaultBinary.
func NewExec(binary string) Exec {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	return Exec{Binary: binary}
}

// Run starts the subprocess and waits for it.
func (e Exec) Run(ctx context.Context, args []string) Result {
	binary := e.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	cmd := exec.CommandContext(ctx, binary, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	if e.Tee != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, e.Tee)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// Check runs args and converts a failed Result into a *ToolError.
func Check(ctx context.Context, r Runner, args []string) (Result, error) {
	res := r.Run(ctx, args)
	if res.Err != nil {
		return res, &ToolError{Args: args, Stderr: res.Stderr, Err: res.Err}
	}
	return res, nil
}

// HasEncoder reports whether the binary lists the named encoder.
func HasEncoder(ctx context.Context, r Runner, name string) (bool, error) {
	res, err := Check(ctx, r, EncodersArgs())
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(res.Stdout, "\n") {
		fields := strings.Fields(line)
		// " V....D h264_qsv  H.264 / AVC ..." : flags column then name.
		if len(fields) >= 2 && fields[1] == name {
			return true, nil
		}
	}
	return false, nil
}
