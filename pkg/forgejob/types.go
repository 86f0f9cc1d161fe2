package forgejob

import (
	"context"
	"time"
)

// EnvVar is one environment variable passed to the test runner.
// Order is preserved end to end; later variables may reference
// earlier ones inside the container entrypoint.
type EnvVar struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Request describes one test run submission. It is built once from
// CLI-level inputs and never mutated afterwards.
type Request struct {
	User         string
	ImageTag     string
	BaseImageTag string
	Workspace    string
	Timeout      time.Duration
	Env          []EnvVar
	Args         []string
}

// Handle identifies a submitted job for every subsequent call.
//
// Context is the opaque cluster-context reference the submitter bound
// the job to. The handle lives until the process exits; job teardown
// is the cluster's concern, not ours.
type Handle struct {
	JobName string
	Context string
}

// Status is the cluster-level completion state of a job.
type Status struct {
	Failed bool
	Reason string
}

// Submitter creates the remote job.
type Submitter interface {
	Submit(ctx context.Context, req *Request) (*Handle, error)
}

// Waiter blocks until the job's pod is scheduled or a submission-level
// failure is detected.
type Waiter interface {
	AwaitStart(ctx context.Context, handle *Handle) error
}

// LogTailer streams job output line by line, in emission order,
// calling fn for each line. It returns when the source closes (pod
// terminated or evicted) or on a tailing error.
type LogTailer interface {
	Stream(ctx context.Context, handle *Handle, fn func(line string) error) error
}

// StatusQuerier fetches the final cluster-level job status.
type StatusQuerier interface {
	Status(ctx context.Context, handle *Handle) (*Status, error)
}
