package devices

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Output holds the captured streams of one tool invocation.
type Output struct {
	Stdout string
	Stderr string
}

// Combined returns stdout followed by stderr.
func (o Output) Combined() string {
	if o.Stderr == "" {
		return o.Stdout
	}
	return o.Stdout + "\n" + o.Stderr
}

// Runner executes an external command and captures its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// ExecRunner runs commands with os/exec, bounding each run by Timeout.
type ExecRunner struct {
	Timeout time.Duration
}

// Run executes name with args. Output is returned even when the command fails.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second
	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if detail := firstLine(out.Stderr); detail != "" {
			return out, fmt.Errorf("run %s: %w (%s)", name, err, detail)
		}
		return out, fmt.Errorf("run %s: %w", name, err)
	}
	return out, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}
