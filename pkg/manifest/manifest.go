package manifest

import (
	"fmt"
	"strings"
	"time"

	"github.com/3leaps/forgerun/pkg/forgejob"
)

// DefaultTimeout bounds the remote run when the manifest does not set
// one. Enforcement happens in the cluster (job deadline), not here.
const DefaultTimeout = 1800 * time.Second

// Manifest is the on-disk description of one forge test run.
type Manifest struct {
	// User attributes the run and becomes part of the job name.
	User string `json:"user" yaml:"user"`

	// ImageTag is the test-runner image to execute.
	ImageTag string `json:"image_tag" yaml:"image_tag"`

	// BaseImageTag is the comparison baseline handed to the runner.
	BaseImageTag string `json:"base_image_tag" yaml:"base_image_tag"`

	// Workspace scopes the run's observability queries.
	Workspace string `json:"workspace" yaml:"workspace"`

	// Timeout is the remote job deadline, e.g. "1800s" or "30m".
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Env is passed to the runner container in order.
	Env []forgejob.EnvVar `json:"env,omitempty" yaml:"env,omitempty"`

	// Args are appended to the runner entrypoint.
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// Validate checks required fields.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.User) == "" {
		return fmt.Errorf("manifest: user is required")
	}
	if strings.TrimSpace(m.ImageTag) == "" {
		return fmt.Errorf("manifest: image_tag is required")
	}
	if strings.TrimSpace(m.Workspace) == "" {
		return fmt.Errorf("manifest: workspace is required")
	}
	for i, e := range m.Env {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("manifest: env[%d] has empty name", i)
		}
	}
	return nil
}

// ToRequest builds the immutable job request from the manifest.
func (m *Manifest) ToRequest() (*forgejob.Request, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	timeout := DefaultTimeout
	if strings.TrimSpace(m.Timeout) != "" {
		d, err := time.ParseDuration(m.Timeout)
		if err != nil {
			return nil, fmt.Errorf("manifest: invalid timeout %q: %w", m.Timeout, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("manifest: timeout must be positive, got %q", m.Timeout)
		}
		timeout = d
	}

	return &forgejob.Request{
		User:         strings.TrimSpace(m.User),
		ImageTag:     strings.TrimSpace(m.ImageTag),
		BaseImageTag: strings.TrimSpace(m.BaseImageTag),
		Workspace:    strings.TrimSpace(m.Workspace),
		Timeout:      timeout,
		Env:          append([]forgejob.EnvVar(nil), m.Env...),
		Args:         append([]string(nil), m.Args...),
	}, nil
}
