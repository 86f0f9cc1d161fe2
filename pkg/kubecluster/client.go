// Package kubecluster implements the job collaborators on top of the
// kubectl CLI. Cluster leasing, credential acquisition and manifest
// templating beyond the minimal job shell stay outside this package;
// it assumes a usable kubeconfig context.
package kubecluster

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/3leaps/forgerun/pkg/forgejob"
)

const (
	defaultKubectl      = "kubectl"
	defaultNamespace    = "default"
	defaultPollInterval = 5 * time.Second
)

// Config configures the kubectl client.
type Config struct {
	// Kubectl is the binary to invoke. Defaults to "kubectl" on PATH.
	Kubectl string `mapstructure:"kubectl"`

	// Context is the kubeconfig context; empty uses the current one.
	Context string `mapstructure:"context"`

	// Namespace defaults to "default".
	Namespace string `mapstructure:"namespace"`

	// PollInterval paces the job-start polling loop.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	Logger *zap.Logger `mapstructure:"-"`
}

// Client talks to the cluster through kubectl child processes.
type Client struct {
	cfg Config
}

// New creates a client, applying defaults for unset fields.
func New(cfg Config) *Client {
	if cfg.Kubectl == "" {
		cfg.Kubectl = defaultKubectl
	}
	if cfg.Namespace == "" {
		cfg.Namespace = defaultNamespace
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{cfg: cfg}
}

// command builds a kubectl invocation scoped to the configured
// context and namespace.
func (c *Client) command(ctx context.Context, args ...string) *exec.Cmd {
	full := make([]string, 0, len(args)+4)
	if c.cfg.Context != "" {
		full = append(full, "--context", c.cfg.Context)
	}
	full = append(full, "--namespace", c.cfg.Namespace)
	full = append(full, args...)
	return exec.CommandContext(ctx, c.cfg.Kubectl, full...)
}

// run executes a kubectl command and returns stdout, folding stderr
// into the error on failure.
func (c *Client) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := c.command(ctx, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	c.cfg.Logger.Debug("Running kubectl", zap.Strings("args", cmd.Args[1:]))

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("kubectl %s: %w", args[0], err)
		}
		return nil, fmt.Errorf("kubectl %s: %w: %s", args[0], err, msg)
	}
	return stdout.Bytes(), nil
}

var (
	_ forgejob.Submitter     = (*Client)(nil)
	_ forgejob.Waiter        = (*Client)(nil)
	_ forgejob.LogTailer     = (*Client)(nil)
	_ forgejob.StatusQuerier = (*Client)(nil)
)
