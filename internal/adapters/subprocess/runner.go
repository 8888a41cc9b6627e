package subprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner executes a scraper script and captures its stdout. Every run gets
// its own wall-clock timeout, independent of the caller's request
// deadline; on expiry the process is killed, never left orphaned.
type Runner struct {
	timeout time.Duration
}

func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Runner{timeout: timeout}
}

// Run invokes script with positional args and returns combined
// stdout+stderr. Scripts report pair rejections on stderr, so both streams
// feed the parser.
func (r *Runner) Run(ctx context.Context, script string, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, script, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Give the process a short window to die gracefully after cancel,
	// then it is killed outright.
	cmd.WaitDelay = 2 * time.Second

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\n" + stderr.String()
	}

	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return output, fmt.Errorf("script %s timed out after %s", script, r.timeout)
		}
		// A non-zero exit often still carries a parseable rejection
		// message; hand the output back alongside the error.
		return output, fmt.Errorf("script %s failed after %s: %w", script, elapsed.Round(time.Millisecond), err)
	}

	logrus.Debugf("Script %s finished in %s, %d bytes of output", script, elapsed.Round(time.Millisecond), len(output))
	return output, nil
}
