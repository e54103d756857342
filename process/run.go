package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// ErrNotStarted is wrapped by Run when the binary could not be launched.
var ErrNotStarted = errors.New("process: not started")

// Run executes a subprocess and waits for it to complete.
// If the context is canceled, SIGTERM is sent to the process group first,
// then SIGKILL to the whole group after GracePeriod. Group members that
// outlive the leader are killed when Run returns.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}

	gracePeriod := cmd.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = 5 * time.Second
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	// Own process group so the whole tree (yt-dlp spawns ffmpeg) dies together.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var escalate *time.Timer
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		pgid := c.Process.Pid
		escalate = time.AfterFunc(gracePeriod, func() {
			_ = syscall.Kill(-pgid, syscall.SIGKILL)
		})
		return syscall.Kill(-pgid, syscall.SIGTERM)
	}
	c.WaitDelay = gracePeriod

	start := time.Now()
	err := c.Run()
	duration := time.Since(start)

	if ctx.Err() != nil && c.Process != nil {
		if escalate != nil {
			escalate.Stop()
		}
		_ = syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
	}

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: duration,
	}

	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("process: killed by context: %w", ctx.Err())
		}
		if c.ProcessState == nil {
			return result, fmt.Errorf("%w: %s: %w", ErrNotStarted, cmd.Binary, err)
		}
		return result, fmt.Errorf("process: exit code %d: %w", result.ExitCode, err)
	}

	return result, nil
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
