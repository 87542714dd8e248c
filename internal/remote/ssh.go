package remote

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHConfig holds the connection settings for the lab workstation.
type SSHConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	KeyFile  string
}

// Address returns host:port for dialing.
func (c SSHConfig) Address() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", port))
}

// SSHRunner executes commands over one SSH connection, opening a fresh
// session per command. Sessions are cheap; connections are pooled by the
// caller.
type SSHRunner struct {
	cfg            SSHConfig
	client         *ssh.Client
	defaultTimeout time.Duration
}

// DialSSH opens the connection and returns a ready runner.
func DialSSH(cfg SSHConfig, defaultTimeout time.Duration) (*SSHRunner, error) {
	if defaultTimeout <= 0 {
		defaultTimeout = 5 * time.Minute
	}

	var auth []ssh.AuthMethod
	if cfg.KeyFile != "" {
		key, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("read ssh key %s: %w", cfg.KeyFile, err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parse ssh key %s: %w", cfg.KeyFile, err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		auth = append(auth, ssh.Password(cfg.Password))
	}
	if len(auth) == 0 {
		return nil, fmt.Errorf("ssh target %s: no password or key file configured", cfg.Address())
	}

	clientCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}
	client, err := ssh.Dial("tcp", cfg.Address(), clientCfg)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Address(), err)
	}
	return &SSHRunner{cfg: cfg, client: client, defaultTimeout: defaultTimeout}, nil
}

// Run executes a command in a new session, honoring the timeout by closing
// the session when it fires.
func (r *SSHRunner) Run(ctx context.Context, command string, timeout time.Duration) CommandResult {
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}

	session, err := r.client.NewSession()
	if err != nil {
		return CommandResult{
			Success:    false,
			ReturnCode: -1,
			Stderr:     fmt.Sprintf("open ssh session: %v", err),
		}
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	var runErr error
	timedOut := false
	select {
	case runErr = <-done:
	case <-ctx.Done():
		// Closing the session terminates the remote command.
		session.Close()
		<-done
		timedOut = true
	}
	duration := time.Since(start)

	returnCode := 0
	if timedOut {
		returnCode = 124
		fmt.Fprintf(&stderr, "command timed out after %s", timeout)
	} else if runErr != nil {
		if exitErr, ok := runErr.(*ssh.ExitError); ok {
			returnCode = exitErr.ExitStatus()
		} else {
			returnCode = -1
			fmt.Fprintf(&stderr, "ssh run: %v", runErr)
		}
	}

	return CommandResult{
		Success:         returnCode == 0,
		ReturnCode:      returnCode,
		Stdout:          stdout.String(),
		Stderr:          stderr.String(),
		DurationSeconds: duration.Seconds(),
	}
}

// CopyFile streams the local file into `cat > remotePath` on the far side.
// Avoids requiring an SFTP subsystem on minimal lab images.
func (r *SSHRunner) CopyFile(localPath, remotePath string) CopyResult {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return CopyResult{Success: false, Stderr: err.Error()}
	}

	session, err := r.client.NewSession()
	if err != nil {
		return CopyResult{Success: false, Stderr: fmt.Sprintf("open ssh session: %v", err)}
	}
	defer session.Close()

	var stderr bytes.Buffer
	session.Stderr = &stderr
	session.Stdin = bytes.NewReader(data)

	cmd := fmt.Sprintf("mkdir -p %q && cat > %q", path.Dir(remotePath), remotePath)
	if err := session.Run(cmd); err != nil {
		msg := stderr.String()
		if msg == "" {
			msg = err.Error()
		}
		return CopyResult{Success: false, Stderr: msg}
	}
	return CopyResult{Success: true}
}

// TestConnection runs a trivial command over the existing connection.
func (r *SSHRunner) TestConnection() bool {
	session, err := r.client.NewSession()
	if err != nil {
		return false
	}
	defer session.Close()
	return session.Run("true") == nil
}

// Close tears down the underlying connection.
func (r *SSHRunner) Close() error {
	return r.client.Close()
}
