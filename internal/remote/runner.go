package remote

import (
	"context"
	"time"
)

// CommandResult is the structured outcome of one remote command.
type CommandResult struct {
	Success         bool    `json:"success"`
	ReturnCode      int     `json:"return_code"`
	Stdout          string  `json:"stdout"`
	Stderr          string  `json:"stderr"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Combined returns stdout followed by stderr for pattern matching over the
// full captured output.
func (r CommandResult) Combined() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// CopyResult is the outcome of a file transfer to the remote workstation.
type CopyResult struct {
	Success bool   `json:"success"`
	Stderr  string `json:"stderr,omitempty"`
}

// CommandRunner executes commands against the lab workstation. The engine
// never assumes a transport; a local shell, SSH session or container exec
// all satisfy this contract.
type CommandRunner interface {
	// Run executes a command and captures its output. A zero timeout uses
	// the implementation default. Run never returns an error: transport
	// failures surface as Success=false with the cause in Stderr.
	Run(ctx context.Context, command string, timeout time.Duration) CommandResult

	// CopyFile transfers a local file to the remote path.
	CopyFile(localPath, remotePath string) CopyResult

	// TestConnection reports whether the channel can reach the workstation.
	TestConnection() bool
}

// Closer is implemented by runners holding a transport that needs teardown.
// The connection pool closes every runner that implements it.
type Closer interface {
	Close() error
}
