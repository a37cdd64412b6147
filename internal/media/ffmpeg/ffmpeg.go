// Package ffmpeg wraps ffmpeg invocation for the video composer. Command
// argument lists are built by callers as plain string slices so they stay
// testable without the binary.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes ffmpeg commands. The interface exists so the composer
// can be tested with a fake.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// CommandRunner runs the configured ffmpeg binary via os/exec.
type CommandRunner struct {
	Binary string
}

// NewRunner creates a runner for the given binary ("ffmpeg" when empty).
func NewRunner(binary string) *CommandRunner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &CommandRunner{Binary: binary}
}

// Run executes ffmpeg with the given arguments, returning stderr detail on
// failure. Cancellation of ctx kills the process.
func (r *CommandRunner) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if len(detail) > 800 {
			detail = detail[len(detail)-800:]
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, detail)
	}
	return nil
}
