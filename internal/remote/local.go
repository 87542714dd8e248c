package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// LocalRunner executes commands through the local shell. Used for lab
// environments reachable from the harness host and as the fallback when no
// SSH target is configured.
type LocalRunner struct {
	workDir        string
	defaultTimeout time.Duration
}

// NewLocalRunner creates a LocalRunner rooted at workDir.
func NewLocalRunner(workDir string, defaultTimeout time.Duration) *LocalRunner {
	if defaultTimeout <= 0 {
		defaultTimeout = 5 * time.Minute
	}
	return &LocalRunner{workDir: workDir, defaultTimeout: defaultTimeout}
}

// Run executes the command via sh -c with a context timeout.
func (r *LocalRunner) Run(ctx context.Context, command string, timeout time.Duration) CommandResult {
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if r.workDir != "" {
		cmd.Dir = r.workDir
	}
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	returnCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			returnCode = exitErr.ExitCode()
		} else {
			returnCode = 1
			fmt.Fprintf(&stderr, "command did not run: %v", err)
		}
	}
	if ctx.Err() == context.DeadlineExceeded {
		returnCode = 124
		fmt.Fprintf(&stderr, "command timed out after %s", timeout)
	}

	return CommandResult{
		Success:         returnCode == 0,
		ReturnCode:      returnCode,
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		DurationSeconds: duration.Seconds(),
	}
}

// CopyFile copies a local file to the remote path, which for the local
// transport is just another filesystem path.
func (r *LocalRunner) CopyFile(localPath, remotePath string) CopyResult {
	src, err := os.Open(localPath)
	if err != nil {
		return CopyResult{Success: false, Stderr: err.Error()}
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(remotePath), 0755); err != nil {
		return CopyResult{Success: false, Stderr: err.Error()}
	}
	dst, err := os.Create(remotePath)
	if err != nil {
		return CopyResult{Success: false, Stderr: err.Error()}
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return CopyResult{Success: false, Stderr: err.Error()}
	}
	return CopyResult{Success: true}
}

// TestConnection always succeeds for the local shell.
func (r *LocalRunner) TestConnection() bool {
	return true
}
